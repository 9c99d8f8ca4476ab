// Copyright © 2025 The slip authors

package lisp

import (
	_ "embed"
)

// preludeFuel bounds evaluation of the standard prelude during interpreter
// construction.  The prelude only installs definitions so this never comes
// close to exhaustion.
const preludeFuel = 1 << 20

// preludeSource is the standard library written in the language itself.  It
// is evaluated against every new root environment by NewInterp.
//
//go:embed prelude.lisp
var preludeSource string
