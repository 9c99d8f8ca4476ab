// Copyright © 2025 The slip authors

package lisp_test

import (
	"testing"

	"github.com/habedi/slip/sliptest"
)

func TestSpecialForms(t *testing.T) {
	tests := sliptest.TestSuite{
		{"quote", sliptest.TestSequence{
			{"'x", "x", ""},
			{"'(1 2 3)", "(1 2 3)", ""},
			{"''x", "(quote x)", ""},
			{"(quote (a . b))", "(a . b)", ""},
		}},
		{"if", sliptest.TestSequence{
			{"(if #t 1 2)", "1", ""},
			{"(if #f 1 2)", "2", ""},
			{"(if #f 1)", "#[unspecified]", ""},
			// only #f is false
			{"(if 0 'yes 'no)", "yes", ""},
			{"(if '() 'yes 'no)", "yes", ""},
			{"(if \"\" 'yes 'no)", "yes", ""},
			// branches not taken are not evaluated
			{"(if #t 1 (/ 1 0))", "1", ""},
			{"(if #f (/ 1 0) 2)", "2", ""},
		}},
		{"cond", sliptest.TestSequence{
			{"(cond (#t 1))", "1", ""},
			{"(cond (#f 1) (#t 2))", "2", ""},
			{"(cond (#f 1) (else 2))", "2", ""},
			{"(cond (#f 1))", "()", ""},
			// a bare test clause yields the test value
			{"(cond (#f) (42))", "42", ""},
			{"(cond (#t 1 2 3))", "3", ""},
		}},
		{"and or", sliptest.TestSequence{
			{"(and)", "#t", ""},
			{"(or)", "#f", ""},
			{"(and 1 2 3)", "3", ""},
			{"(and 1 #f 3)", "#f", ""},
			{"(and #f (/ 1 0))", "#f", ""},
			{"(or #f 2)", "2", ""},
			{"(or 1 (/ 1 0))", "1", ""},
			{"(or #f #f)", "#f", ""},
		}},
		{"begin", sliptest.TestSequence{
			{"(begin)", "()", ""},
			{"(begin 1 2 3)", "3", ""},
			{"(begin (define x 1) (+ x 1))", "2", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestDefineAndSet(t *testing.T) {
	tests := sliptest.TestSuite{
		{"define", sliptest.TestSequence{
			{"(define x 10)", "10", ""},
			{"x", "10", ""},
			{"(define x 20)", "20", ""},
			{"x", "20", ""},
			{"(define (add2 x) (+ x 2))", "#[lambda add2]", ""},
			{"(add2 3)", "5", ""},
			{"(define (const) 7)", "#[lambda const]", ""},
			{"(const)", "7", ""},
		}},
		{"set!", sliptest.TestSequence{
			{"(define x 1)", "1", ""},
			{"(set! x 2)", "#[unspecified]", ""},
			{"x", "2", ""},
			{"(set! unbound 1)", "symbol-not-found: unbound symbol: unbound", ""},
		}},
		{"set! targets the innermost binding", sliptest.TestSequence{
			{"(define x 1)", "1", ""},
			{"(define (bump) (set! x (+ x 1)) x)", "#[lambda bump]", ""},
			{"(bump)", "2", ""},
			{"(bump)", "3", ""},
			{"x", "3", ""},
			{"(let ((x 10)) (set! x 11) x)", "11", ""},
			{"x", "3", ""},
		}},
		{"unbound symbols", sliptest.TestSequence{
			{"nope", "symbol-not-found: unbound symbol: nope", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestLambda(t *testing.T) {
	tests := sliptest.TestSuite{
		{"lambda", sliptest.TestSequence{
			{"((lambda (x) (* x x)) 4)", "16", ""},
			{"((lambda () 42))", "42", ""},
			{"((lambda (x y) (- x y)) 10 4)", "6", ""},
			{"(procedure? (lambda (x) x))", "#t", ""},
			{"(procedure? 'x)", "#f", ""},
			{"(lambda (x))", "lambda-invalid-arguments: lambda: empty body", ""},
			{"(lambda (x . y) x)", "lambda-invalid-params: lambda: parameter list is not a proper list", ""},
			{"(lambda (1) 1)", "lambda-invalid-params: lambda: parameter is not a symbol: number", ""},
			{"((lambda (x) x) 1 2)", "wrong-argument-count: lambda: expected 1 arguments (got 2)", ""},
		}},
		{"closures capture their environment", sliptest.TestSequence{
			{"(define (adder n) (lambda (x) (+ x n)))", "#[lambda adder]", ""},
			{"(define add5 (adder 5))", "#[lambda]", ""},
			{"(add5 10)", "15", ""},
			{"(define (counter) (define n 0) (lambda () (set! n (+ n 1)) n))", "#[lambda counter]", ""},
			{"(define tick (counter))", "#[lambda]", ""},
			{"(tick)", "1", ""},
			{"(tick)", "2", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestLet(t *testing.T) {
	tests := sliptest.TestSuite{
		{"let", sliptest.TestSequence{
			{"(let ((x 1) (y 2)) (+ x y))", "3", ""},
			{"(let () 42)", "42", ""},
			// let initializers see the outer environment only
			{"(define x 'outer)", "outer", ""},
			{"(let ((x 1) (y x)) y)", "outer", ""},
		}},
		{"let*", sliptest.TestSequence{
			{"(let* ((x 1) (y (+ x 1))) y)", "2", ""},
			{"(let* () 42)", "42", ""},
			{"(define x 'outer)", "outer", ""},
			{"(let* ((x 1) (y x)) y)", "1", ""},
		}},
		{"letrec", sliptest.TestSequence{
			{"(letrec ((even2? (lambda (n) (if (= n 0) #t (odd2? (- n 1))))) (odd2? (lambda (n) (if (= n 0) #f (even2? (- n 1)))))) (even2? 10))", "#t", ""},
			{"(letrec ((f (lambda (n) (if (= n 0) 1 (* n (f (- n 1))))))) (f 5))", "120", ""},
			{"(letrec ((x 1) (y 2)) (+ x y))", "3", ""},
		}},
		{"malformed bindings", sliptest.TestSequence{
			{"(let (x) x)", "wrong-argument-count: let: malformed binding", ""},
			{"(let ((1 2)) 3)", "wrong-argument-count: let: malformed binding", ""},
			{"(let x 1)", "wrong-argument-count: let: bindings are not a proper list", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestTryCatch(t *testing.T) {
	tests := sliptest.TestSuite{
		{"try", sliptest.TestSequence{
			{"(try 42 (catch e e))", "42", ""},
			{"(try 1 2 3 (catch e e))", "3", ""},
			{"(try (/ 1 0) (catch e e))", "\"divide-by-zero: division by zero\"", ""},
			{"(try (/ 1 0) (catch e (list 'caught e)))", "(caught \"divide-by-zero: division by zero\")", ""},
			// leading forms after the failure are skipped
			{"(try (/ 1 0) (define should-not-bind 1) (catch e 'handled))", "handled", ""},
			{"should-not-bind", "symbol-not-found: unbound symbol: should-not-bind", ""},
			// the handler binding is local to the handler
			{"(try (/ 1 0) (catch e 'ok))", "ok", ""},
			{"e", "symbol-not-found: unbound symbol: e", ""},
		}},
		{"user errors", sliptest.TestSequence{
			{"(error \"boom\")", "boom", ""},
			{"(error \"bad\" 'thing 42)", "bad thing 42", ""},
			{"(try (error \"boom\") (catch e e))", "\"boom\"", ""},
		}},
		{"malformed try", sliptest.TestSequence{
			{"(try 1)", "wrong-argument-count: try: final form must be (catch symbol expr ...)", ""},
			{"(try 1 (catch e))", "wrong-argument-count: try: final form must be (catch symbol expr ...)", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}
