// Copyright © 2025 The slip authors

package lisp

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxPrintNodes bounds the number of values a printer visits.  Mutation
// primitives can build cyclic structure and the printers must not hang on it;
// past the bound the printer emits an ellipsis and stops.
const maxPrintNodes = 1 << 12

// WriteVal writes the machine-oriented rendering of v: strings are quoted
// with escapes and characters print in #\ notation.  The output of WriteVal
// re-parses to an equal? value for any value constructed from source text.
func WriteVal(w io.Writer, v *LVal) error {
	p := &printer{w: w}
	p.print(v)
	return p.err
}

// DisplayVal writes the human-oriented rendering of v: strings and
// characters print their raw contents.  All other values render as in
// WriteVal.
func DisplayVal(w io.Writer, v *LVal) error {
	p := &printer{w: w, display: true}
	p.print(v)
	return p.err
}

// String returns the machine-oriented rendering of v.  Error values render
// as their condition and message.
func (v *LVal) String() string {
	if v.Type == LError {
		return (*ErrorVal)(v).Error()
	}
	var buf strings.Builder
	_ = WriteVal(&buf, v)
	return buf.String()
}

type printer struct {
	w         io.Writer
	display   bool
	nodes     int
	truncated bool
	err       error
}

// step consumes one unit of the printer's node budget.
func (p *printer) step() bool {
	if p.truncated || p.err != nil {
		return false
	}
	p.nodes++
	if p.nodes > maxPrintNodes {
		p.truncated = true
		p.ws("...")
		return false
	}
	return true
}

func (p *printer) ws(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) print(v *LVal) {
	if !p.step() {
		return
	}
	switch v.Type {
	case LNil:
		p.ws("()")
	case LNumber:
		p.ws(formatNumber(v.Num))
	case LSymbol:
		p.ws(v.Str)
	case LString:
		if p.display {
			p.ws(v.Str)
		} else {
			p.ws(quoteString(v.Str))
		}
	case LChar:
		if p.display {
			p.ws(string(v.Char))
		} else {
			p.ws(writeChar(v.Char))
		}
	case LBool:
		if v.Bool {
			p.ws("#t")
		} else {
			p.ws("#f")
		}
	case LPair:
		p.printPair(v)
	case LFun:
		p.printFun(v)
	case LCell:
		p.ws("#[cell ")
		p.print(v.Cells[0])
		p.ws("]")
	case LNative:
		p.ws("#[native]")
	case LUnspec:
		p.ws("#[unspecified]")
	case LError:
		p.ws(fmt.Sprintf("#[error %s]", (*ErrorVal)(v).Error()))
	default:
		p.ws("#[invalid]")
	}
}

func (p *printer) printPair(v *LVal) {
	p.ws("(")
	p.print(v.Car)
	for v = v.Cdr; ; v = v.Cdr {
		if !p.step() {
			return
		}
		switch v.Type {
		case LNil:
			p.ws(")")
			return
		case LPair:
			p.ws(" ")
			p.print(v.Car)
		default:
			p.ws(" . ")
			p.print(v)
			p.ws(")")
			return
		}
	}
}

func (p *printer) printFun(v *LVal) {
	fd := v.FunData()
	switch {
	case fd == nil:
		p.ws("#[invalid]")
	case fd.Builtin != nil:
		p.ws(fmt.Sprintf("#[builtin %s]", fd.Name))
	case fd.Foreign != nil:
		p.ws(fmt.Sprintf("#[foreign %s]", fd.Name))
	case fd.Name != "":
		p.ws(fmt.Sprintf("#[lambda %s]", fd.Name))
	default:
		p.ws("#[lambda]")
	}
}

// formatNumber renders integral values without an exponent so that counting
// code reads naturally in a dialect with one float type.
func formatNumber(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// quoteString renders a string literal with the dialect's escape set.  Only
// backslash, double quote, newline, and tab are escaped; all other runes pass
// through unchanged.
func quoteString(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range s {
		switch c {
		case '\\':
			buf.WriteString(`\\`)
		case '"':
			buf.WriteString(`\"`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(c)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

func writeChar(c rune) string {
	switch c {
	case ' ':
		return `#\space`
	case '\n':
		return `#\newline`
	}
	return `#\` + string(c)
}
