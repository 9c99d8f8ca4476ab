// Copyright © 2025 The slip authors

package lisp

import (
	"github.com/habedi/slip/parser/token"
)

// LType is the type of an LVal.
type LType uint

// Possible LType values.  The set is closed: every value the engine
// manipulates is one of these variants.
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNil is the empty list.
	LNil
	// LNumber values store a float64 in the LVal.Num field.  The dialect has
	// a single numeric type.
	LNumber
	// LSymbol values store their name in the LVal.Str field.
	LSymbol
	// LString values store a UTF-8 string in the LVal.Str field.
	LString
	// LChar values store a unicode scalar in the LVal.Char field.
	LChar
	// LBool values store a bool in the LVal.Bool field.  Truthiness is
	// decided by True: everything except boolean false is true.
	LBool
	// LPair values are cons cells storing sub-values in LVal.Car and
	// LVal.Cdr.  A proper list is a right-nested chain of pairs terminated by
	// an LNil value.
	LPair
	// LFun values represent all callables: user closures, engine-native
	// primitives, and host-provided foreign procedures.  The LVal.Native
	// field holds an *LFunData.  Closures additionally use LVal.Cells to
	// store their formals (Cells[0], a list of symbols) and body expressions
	// (Cells[1:]).
	LFun
	// LCell values are one-slot mutable boxes storing their contents in
	// Cells[0].  Cells only occur as environment bindings (letrec forward
	// references); environment lookup unwraps them transparently.
	LCell
	// LNative values store an opaque host value in the LVal.Native field.
	LNative
	// LUnspec is the unspecified value, returned by forms that have nothing
	// meaningful to return (set!, display, ...).  The REPL does not echo it.
	LUnspec
	// LError values store an error condition name in LVal.Str and message
	// data in LVal.Cells.  See ErrorVal.
	LError
	// LMarkTail values are internal markers used to implement proper tail
	// calls.  An op or function call returns a mark holding the expression
	// (Cells[0]) and environment (Native) to continue the Eval loop with.
	// Marks never escape the evaluator.
	LMarkTail
	// LTypeMax is a numeric bound on valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid:  "INVALID",
	LNil:      "nil",
	LNumber:   "number",
	LSymbol:   "symbol",
	LString:   "string",
	LChar:     "character",
	LBool:     "boolean",
	LPair:     "pair",
	LFun:      "function",
	LCell:     "cell",
	LNative:   "native",
	LUnspec:   "unspecified",
	LError:    "error",
	LMarkTail: "marker-tail-call",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LFunData carries the callable payload of an LFun value.  Exactly one of
// Builtin and Foreign is non-nil for engine and host procedures respectively;
// closures have both nil and use the captured Env.
type LFunData struct {
	Builtin  LBuiltin
	Foreign  ForeignFun
	Env      *LEnv
	Name     string
	NArgs    int
	Variadic bool
}

// LVal is a lisp value.
type LVal struct {
	// Source is the value's originating location in source code, when known.
	// The reference may be shared by multiple LVals and must not be mutated.
	Source *token.Location

	// Str is used by LSymbol, LString and LError values.
	Str string

	// Num is used by LNumber values.
	Num float64

	// Char is used by LChar values.
	Char rune

	// Bool is used by LBool values.
	Bool bool

	// Car and Cdr are used by LPair values.
	Car *LVal
	Cdr *LVal

	// Cells is storage for composite values (closure formals and bodies,
	// cell contents, error data, tail marks).
	Cells []*LVal

	// Native is generic storage for data which cannot be represented as an
	// LVal (function data, opaque host values).
	Native interface{}

	// Type is the variant tag.
	Type LType
}

// Nil returns the empty list.
func Nil() *LVal {
	return &LVal{Type: LNil}
}

// Number returns an LVal representing the number x.
func Number(x float64) *LVal {
	return &LVal{Type: LNumber, Num: x}
}

// Symbol returns an LVal representing the symbol name.
func Symbol(name string) *LVal {
	return &LVal{Type: LSymbol, Str: name}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{Type: LString, Str: str}
}

// Char returns an LVal representing the unicode scalar c.
func Char(c rune) *LVal {
	return &LVal{Type: LChar, Char: c}
}

// Bool returns an LVal with truthiness identical to b.
func Bool(b bool) *LVal {
	return &LVal{Type: LBool, Bool: b}
}

// Unspecified returns the unspecified value.
func Unspecified() *LVal {
	return &LVal{Type: LUnspec}
}

// Cons returns a pair with the given car and cdr.  The sub-values are shared,
// not copied; only environment binding copies structure.
func Cons(car, cdr *LVal) *LVal {
	return &LVal{Type: LPair, Car: car, Cdr: cdr}
}

// MakeList returns a proper list containing vs.
func MakeList(vs ...*LVal) *LVal {
	lis := Nil()
	for i := len(vs) - 1; i >= 0; i-- {
		lis = Cons(vs[i], lis)
	}
	return lis
}

// Cell returns a mutable box holding v.
func Cell(v *LVal) *LVal {
	return &LVal{Type: LCell, Cells: []*LVal{v}}
}

// Native returns an LVal wrapping an opaque host value.
func Native(v interface{}) *LVal {
	return &LVal{Type: LNative, Native: v}
}

func markTailExpr(env *LEnv, expr *LVal) *LVal {
	return &LVal{Type: LMarkTail, Cells: []*LVal{expr}, Native: env}
}

// IsNil returns true if v is the empty list.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// FunData returns the function data payload of an LFun value and nil for all
// other values.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		return nil
	}
	fd, _ := v.Native.(*LFunData)
	return fd
}

// FunName returns a name describing a function value for diagnostics.
func (v *LVal) FunName() string {
	fd := v.FunData()
	if fd == nil || fd.Name == "" {
		return "lambda"
	}
	return fd.Name
}

// ListSlice flattens a proper list into a slice.  The second return value is
// false if v is not a proper list (dotted or cyclic).
func ListSlice(v *LVal) ([]*LVal, bool) {
	var cells []*LVal
	slow := v
	for i := 0; ; i++ {
		switch v.Type {
		case LNil:
			return cells, true
		case LPair:
		default:
			return nil, false
		}
		cells = append(cells, v.Car)
		v = v.Cdr
		if i%2 == 1 {
			slow = slow.Cdr
			if slow == v {
				// set-cdr! produced a cycle
				return nil, false
			}
		}
	}
}

// ListLen returns the length of a proper list.  The second return value is
// false if v is not a proper list.
func ListLen(v *LVal) (int, bool) {
	n := 0
	slow := v
	for i := 0; ; i++ {
		switch v.Type {
		case LNil:
			return n, true
		case LPair:
		default:
			return 0, false
		}
		n++
		v = v.Cdr
		if i%2 == 1 {
			slow = slow.Cdr
			if slow == v {
				return 0, false
			}
		}
	}
}

// Copy returns a deep structural copy of v.  Composite values (pairs,
// strings, cells) are cloned recursively; scalars and immutable values
// (numbers, booleans, characters, symbols, functions, native values) are
// shared.  Copy is invoked at every binding site -- define, let, let*,
// letrec, set!, parameter binding -- and by quote, so that structure bound in
// one place is never aliased by another binding.
//
// Cyclic structure (built with set-car! or set-cdr!) cannot be deep copied;
// Copy returns a type-error LError value instead of looping.
func (v *LVal) Copy() *LVal {
	if v == nil {
		return nil
	}
	cp, ok := copyVal(v, nil)
	if !ok {
		return ErrorConditionf(ErrType, "cannot copy cyclic structure")
	}
	return cp
}

// copyVal clones v.  path holds the pairs on the current traversal path;
// revisiting one of them means v is cyclic.
func copyVal(v *LVal, path map[*LVal]bool) (*LVal, bool) {
	if v == nil {
		return nil, true
	}
	switch v.Type {
	case LPair:
		return copyPair(v, path)
	case LString:
		cp := *v
		return &cp, true
	case LCell:
		inner, ok := copyVal(v.Cells[0], path)
		if !ok {
			return nil, false
		}
		return Cell(inner), true
	default:
		return v, true
	}
}

func copyPair(v *LVal, path map[*LVal]bool) (*LVal, bool) {
	if path == nil {
		path = make(map[*LVal]bool)
	}
	cp := &LVal{Source: v.Source, Type: LPair}
	// iterate over the cdr chain so long proper lists don't recurse
	head := cp
	var spine []*LVal
	ok := true
	for {
		if path[v] {
			ok = false
			break
		}
		path[v] = true
		spine = append(spine, v)
		head.Car, ok = copyVal(v.Car, path)
		if !ok {
			break
		}
		if v.Cdr.Type != LPair {
			head.Cdr, ok = copyVal(v.Cdr, path)
			break
		}
		v = v.Cdr
		next := &LVal{Source: v.Source, Type: LPair}
		head.Cdr = next
		head = next
	}
	// shared (acyclic) structure reached on a later path is still copyable
	for _, p := range spine {
		delete(path, p)
	}
	if !ok {
		return nil, false
	}
	return cp, true
}

// Eq implements the eq? predicate: identity for heap values (pairs, strings,
// cells, functions, native values) and value comparison for scalars.  Deep
// copies made at binding sites are never Eq to their originals.
func Eq(a, b *LVal) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LNil, LUnspec:
		return true
	case LNumber:
		return a.Num == b.Num
	case LSymbol:
		return a.Str == b.Str
	case LChar:
		return a.Char == b.Char
	case LBool:
		return a.Bool == b.Bool
	case LFun:
		return a.FunData() == b.FunData()
	default:
		return a == b
	}
}

// Equal implements the equal? predicate: structural equality.  Strings
// compare by content and pairs compare recursively.  Cyclic structure never
// compares equal; the comparison terminates instead of chasing the cycle.
func Equal(a, b *LVal) bool {
	return equalVal(a, b, nil)
}

// equalVal compares a and b structurally.  path holds the pairs of a on the
// current traversal path; revisiting one of them means a is cyclic.
func equalVal(a, b *LVal, path map[*LVal]bool) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LString:
		return a.Str == b.Str
	case LPair:
		if path == nil {
			path = make(map[*LVal]bool)
		}
		var spine []*LVal
		eq := true
		for a.Type == LPair && b.Type == LPair {
			if path[a] {
				eq = false
				break
			}
			path[a] = true
			spine = append(spine, a)
			if !equalVal(a.Car, b.Car, path) {
				eq = false
				break
			}
			a = a.Cdr
			b = b.Cdr
		}
		if eq {
			eq = equalVal(a, b, path)
		}
		for _, p := range spine {
			delete(path, p)
		}
		return eq
	case LCell:
		return equalVal(a.Cells[0], b.Cells[0], path)
	default:
		return Eq(a, b)
	}
}
