// Copyright © 2025 The slip authors

package lisp

// Profiler receives notification of closure calls.  The standard
// implementation, which emits OpenTelemetry spans, lives in the x/profiler
// package.
//
// NOTE:  While a Profiler is enabled the evaluator calls closures on the Go
// stack instead of trampolining them so that each span covers the whole call.
// Deep tail recursion under an enabled profiler therefore consumes stack
// proportional to the recursion depth.
type Profiler interface {
	// IsEnabled reports whether the profiler is recording.
	IsEnabled() bool
	// Enable starts the profiling session.
	Enable() error
	// Complete ends the profiling session.
	Complete() error
	// Start marks the start of a function call and returns a function that
	// marks its end.
	Start(fun *LVal) func()
}
