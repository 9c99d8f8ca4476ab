// Copyright © 2025 The slip authors

package lisp

import (
	"fmt"
	"strings"
)

// Error conditions reported by the engine.  Every failure the evaluator,
// parser, or a primitive can produce carries one of these condition names in
// the LError value's Str field; hosts can dispatch on ErrorVal.Condition.
const (
	// Lexical and syntactic conditions.
	ErrUnterminatedString      = "unterminated-string"
	ErrUnmatchedOpenParen      = "unmatched-open-paren"
	ErrUnexpectedCloseParen    = "unexpected-close-paren"
	ErrInvalidCharacterLiteral = "invalid-character-literal"
	ErrInvalidDottedPair       = "invalid-dotted-pair"
	ErrEmptyInput              = "empty-input"
	ErrUnexpectedEOF           = "unexpected-eof"
	ErrScan                    = "scan-error"

	// Form-shape conditions.
	ErrWrongArgumentCount     = "wrong-argument-count"
	ErrLambdaInvalidParams    = "lambda-invalid-params"
	ErrLambdaInvalidArguments = "lambda-invalid-arguments"

	// Binding conditions.
	ErrSymbolNotFound = "symbol-not-found"

	// Type and range conditions.
	ErrType  = "type-error"
	ErrRange = "range-error"

	// Arithmetic conditions.
	ErrDivideByZero = "divide-by-zero"

	// Resource conditions.
	ErrExecutionBudgetExceeded = "execution-budget-exceeded"

	// Host-boundary conditions.
	ErrForeign = "foreign-error"

	// Application conditions.
	ErrNotAFunction = "not-a-function"

	// ErrUser is the condition of errors raised from lisp code with the
	// error primitive.
	ErrUser = "error"
)

// ErrorCondition returns an LError value with the given condition name and
// message cells.
func ErrorCondition(condition string, cells ...*LVal) *LVal {
	return &LVal{Type: LError, Str: condition, Cells: cells}
}

// ErrorConditionf returns an LError value with the given condition name and a
// formatted message.
func ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return ErrorCondition(condition, String(fmt.Sprintf(format, v...)))
}

// ErrorVal implements the error interface so that errors can be first class
// lisp objects.  The condition name is stored in the Str field while the
// message is stored in the Cells slice.
type ErrorVal LVal

// Error implements the error interface.  When the error condition is not
// plain “error” the condition name precedes the message, and a source
// location precedes everything when one is known.
func (e *ErrorVal) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s", e.Source, e.baseMessage())
	}
	return e.baseMessage()
}

func (e *ErrorVal) baseMessage() string {
	msg := e.ErrorMessage()
	if e.Str != ErrUser {
		return fmt.Sprintf("%s: %s", e.Str, msg)
	}
	return msg
}

// Condition returns the error condition name (e.g. "type-error",
// "symbol-not-found").  This is the programmatic error classification.
func (e *ErrorVal) Condition() string {
	return e.Str
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	if len(e.Cells) > 0 {
		if v, ok := e.Cells[0].Native.(error); ok {
			return v.Error()
		}
	}
	return errorCellMessage(e.Cells)
}

func errorCellMessage(cells []*LVal) string {
	var buf strings.Builder
	for i, cell := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		if cell.Type == LString {
			buf.WriteString(cell.Str)
		} else {
			buf.WriteString(cell.String())
		}
	}
	return buf.String()
}

// GoError returns an error that represents v.  If v is not LError then nil is
// returned.
func GoError(v *LVal) error {
	if v.Type != LError {
		return nil
	}
	return (*ErrorVal)(v)
}

// ErrorLVal recovers the LError value wrapped by GoError.  Other errors are
// wrapped in a fresh LError value with the given condition.
func ErrorLVal(condition string, err error) *LVal {
	if ev, ok := err.(*ErrorVal); ok {
		return (*LVal)(ev)
	}
	return ErrorCondition(condition, &LVal{Type: LString, Str: err.Error(), Native: err})
}
