// Copyright © 2025 The slip authors

package lisp

import (
	"io"
	"os"
)

// Reader abstracts the parser so the lisp package does not depend on any
// particular parser implementation.  See the parser package for the standard
// Reader.
type Reader interface {
	// Read parses all expressions from r eagerly.  The name is used in
	// source locations for diagnostics.
	Read(name string, r io.Reader) ([]*LVal, error)
}

// Budget is the execution fuel for one evaluation.  Every iteration of the
// evaluator's trampoline consumes one unit; an exhausted budget aborts the
// evaluation with an execution-budget-exceeded error.  This is the mechanism
// by which a host bounds runaway scripts without timers.  A budget is not
// restartable -- once exhausted the evaluation is lost.
type Budget struct {
	// Remaining is the number of evaluation steps left.  A negative value
	// means unbounded.
	Remaining int64
}

// NewBudget returns a budget allowing n evaluation steps.  Negative n means
// unbounded.
func NewBudget(n int64) *Budget {
	return &Budget{Remaining: n}
}

// Step consumes one unit of fuel and reports whether the evaluation may
// proceed.
func (b *Budget) Step() bool {
	if b == nil || b.Remaining < 0 {
		return true
	}
	if b.Remaining == 0 {
		return false
	}
	b.Remaining--
	return true
}

// Runtime is the state shared by every environment in one interpreter
// instance.  A Runtime (and the value graph hanging off its environments) is
// confined to a single logical thread of control; independent interpreter
// instances are safe to run in separate goroutines.
type Runtime struct {
	// Reader parses source streams for load operations.
	Reader Reader
	// Budget is the fuel for the current evaluation.  Nested evaluations
	// (apply, eval, closures invoked from primitives) share the budget so a
	// callback can never escape its caller's bound.
	Budget *Budget
	// Stdout receives output from the display/write/newline primitives.
	Stdout io.Writer
	// Stderr receives debugging output.
	Stderr io.Writer
	// Profiler, when non-nil and enabled, brackets closure calls.  See the
	// Profiler interface for the tail-call caveat.
	Profiler Profiler
}

// StandardRuntime returns a new Runtime with an unbounded budget writing to
// the standard file descriptors.
func StandardRuntime() *Runtime {
	return &Runtime{
		Budget: NewBudget(-1),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
