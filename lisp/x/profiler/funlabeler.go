package profiler

import (
	"regexp"

	"github.com/habedi/slip/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(runtime *lisp.Runtime, fun *lisp.LVal) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

var sanitizeRegExp = regexp.MustCompile(`[\s_]+`)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}
	return sanitizeRegExp.ReplaceAllString(userLabel, "_")
}
