// Copyright © 2025 The slip authors

package lisp_test

import (
	"testing"

	"github.com/habedi/slip/sliptest"
)

func TestLists(t *testing.T) {
	tests := sliptest.TestSuite{
		{"pairs", sliptest.TestSequence{
			{"(cons 1 2)", "(1 . 2)", ""},
			{"(cons 1 '())", "(1)", ""},
			{"(car (cons 1 2))", "1", ""},
			{"(cdr (cons 1 2))", "2", ""},
			{"(car '(1 2 3))", "1", ""},
			{"(cdr '(1 2 3))", "(2 3)", ""},
			{"(car 1)", "type-error: car: not a pair: number", ""},
			{"(cdr '())", "type-error: cdr: not a pair: nil", ""},
			{"(pair? (cons 1 2))", "#t", ""},
			{"(pair? '())", "#f", ""},
			{"(null? '())", "#t", ""},
			{"(null? '(1))", "#f", ""},
		}},
		{"lists", sliptest.TestSequence{
			{"(list)", "()", ""},
			{"(list 1 2 3)", "(1 2 3)", ""},
			{"(list 1 (list 2 3))", "(1 (2 3))", ""},
			{"(length '())", "0", ""},
			{"(length '(1 2 3))", "3", ""},
			{"(length (cons 1 2))", "type-error: length: not a proper list: pair", ""},
			{"(reverse '(1 2 3))", "(3 2 1)", ""},
			{"(append)", "()", ""},
			{"(append '(1 2) '(3) '(4 5))", "(1 2 3 4 5)", ""},
			{"(append '() '(1))", "(1)", ""},
			{"(append '(1) 2)", "(1 . 2)", ""},
			{"(list? '(1 2))", "#t", ""},
			{"(list? (cons 1 2))", "#f", ""},
		}},
		{"mutation", sliptest.TestSequence{
			{"(define p (cons 1 2))", "(1 . 2)", ""},
			{"(set-car! p 10)", "#[unspecified]", ""},
			{"p", "(10 . 2)", ""},
			{"(set-cdr! p '(20))", "#[unspecified]", ""},
			{"p", "(10 20)", ""},
		}},
		{"dotted pairs", sliptest.TestSequence{
			{"'(1 . 2)", "(1 . 2)", ""},
			{"'(1 2 . 3)", "(1 2 . 3)", ""},
			{"(cdr '(1 2 . 3))", "(2 . 3)", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestCyclicStructure(t *testing.T) {
	tests := sliptest.TestSuite{
		{"cdr cycles cannot be rebound", sliptest.TestSequence{
			{"(define a '(1 2))", "(1 2)", ""},
			{"(set-cdr! (cdr a) a)", "#[unspecified]", ""},
			{"(define b a)", "type-error: cannot copy cyclic structure", ""},
			{"(set! a a)", "type-error: cannot copy cyclic structure", ""},
			{"(let ((x a)) x)", "type-error: cannot copy cyclic structure", ""},
			{"((lambda (x) x) a)", "type-error: cannot copy cyclic structure", ""},
			{"(try (define b a) (catch err err))", `"type-error: cannot copy cyclic structure"`, ""},
			{"(eq? a a)", "#t", ""},
			{"(equal? a a)", "#f", ""},
		}},
		{"car cycles cannot be rebound", sliptest.TestSequence{
			{"(define d (cons 1 2))", "(1 . 2)", ""},
			{"(set-car! d d)", "#[unspecified]", ""},
			{"(define e d)", "type-error: cannot copy cyclic structure", ""},
		}},
		{"shared acyclic structure still binds", sliptest.TestSequence{
			{"(define xs '(1 2))", "(1 2)", ""},
			{"(define ys (list xs xs))", "((1 2) (1 2))", ""},
			{"(equal? ys '((1 2) (1 2)))", "#t", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestListPrelude(t *testing.T) {
	tests := sliptest.TestSuite{
		{"accessors", sliptest.TestSequence{
			{"(cadr '(1 2 3))", "2", ""},
			{"(caddr '(1 2 3))", "3", ""},
			{"(first '(1 2 3))", "1", ""},
			{"(second '(1 2 3))", "2", ""},
			{"(third '(1 2 3))", "3", ""},
			{"(last-pair '(1 2 3))", "(3)", ""},
			{"(list-tail '(1 2 3) 1)", "(2 3)", ""},
			{"(nth '(1 2 3) 2)", "3", ""},
		}},
		{"search", sliptest.TestSequence{
			{"(memq 'b '(a b c))", "(b c)", ""},
			{"(memq 'z '(a b c))", "#f", ""},
			{"(member \"b\" '(\"a\" \"b\"))", "(\"b\")", ""},
			{"(assq 'b '((a 1) (b 2)))", "(b 2)", ""},
			{"(assq 'z '((a 1)))", "#f", ""},
			{"(assoc \"b\" '((\"a\" 1) (\"b\" 2)))", "(\"b\" 2)", ""},
		}},
		{"higher order", sliptest.TestSequence{
			{"(map (lambda (x) (* x x)) '(1 2 3))", "(1 4 9)", ""},
			{"(map car '((1 2) (3 4)))", "(1 3)", ""},
			{"(filter odd? '(1 2 3 4 5))", "(1 3 5)", ""},
			{"(fold-left + 0 '(1 2 3 4))", "10", ""},
			{"(fold-left - 0 '(1 2))", "-3", ""},
			{"(fold-right - 0 '(1 2))", "-1", ""},
			{"(fold-right cons '() '(1 2 3))", "(1 2 3)", ""},
			{"(for-each display '(1 2 3))", "()", "123"},
		}},
		{"apply and eval", sliptest.TestSequence{
			{"(apply + '(1 2 3))", "6", ""},
			{"(apply cons '(1 2))", "(1 . 2)", ""},
			{"(eval '(+ 1 2))", "3", ""},
			{"(eval ''x)", "x", ""},
			{"(apply 1 '(2))", "not-a-function: cannot call non-function value of type number", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestEquality(t *testing.T) {
	tests := sliptest.TestSuite{
		{"eq?", sliptest.TestSequence{
			{"(eq? 1 1)", "#t", ""},
			{"(eq? 'a 'a)", "#t", ""},
			{"(eq? #\\a #\\a)", "#t", ""},
			{"(eq? '() '())", "#t", ""},
			// distinct pairs are never eq?
			{"(eq? (cons 1 2) (cons 1 2))", "#f", ""},
			{"(eqv? 1.5 1.5)", "#t", ""},
			// a binding holds its own copy of composite structure
			{"(define a '(1 2))", "(1 2)", ""},
			{"(define b a)", "(1 2)", ""},
			{"(eq? a b)", "#f", ""},
			{"(equal? a b)", "#t", ""},
		}},
		{"equal?", sliptest.TestSequence{
			{"(equal? '(1 2 (3)) '(1 2 (3)))", "#t", ""},
			{"(equal? '(1 2) '(1 3))", "#f", ""},
			{"(equal? \"ab\" \"ab\")", "#t", ""},
			{"(equal? \"ab\" \"ac\")", "#f", ""},
			{"(equal? '(1 . 2) '(1 . 2))", "#t", ""},
			{"(equal? 1 \"1\")", "#f", ""},
		}},
		{"copy on bind isolates mutation", sliptest.TestSequence{
			{"(define a '(1 2 3))", "(1 2 3)", ""},
			{"(define b a)", "(1 2 3)", ""},
			{"(set-car! b 99)", "#[unspecified]", ""},
			{"b", "(99 2 3)", ""},
			// a's structure is untouched by mutation through b
			{"a", "(1 2 3)", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}
