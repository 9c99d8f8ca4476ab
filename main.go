// Copyright © 2025 The slip authors

package main

import "github.com/habedi/slip/cmd"

func main() {
	cmd.Execute()
}
