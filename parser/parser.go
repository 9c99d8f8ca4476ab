// Copyright © 2025 The slip authors

package parser

import (
	"github.com/habedi/slip/lisp"
	"github.com/habedi/slip/parser/rdparser"
)

// NewReader returns a new lisp.Reader
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}
