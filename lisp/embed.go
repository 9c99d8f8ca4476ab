// Copyright © 2025 The slip authors

package lisp

import (
	"io"
	"math"
)

// True interprets v as a boolean and returns the result.  Everything except
// boolean false is true -- including nil and the number zero.
func True(v *LVal) bool {
	return v.Type != LBool || v.Bool
}

// Not interprets v as a boolean value and returns its negation.
func Not(v *LVal) bool {
	return !True(v)
}

// GoString returns the string that v represents and the value true.  If v
// does not represent a string GoString returns a false second argument.
func GoString(v *LVal) (string, bool) {
	if v.Type != LString {
		return "", false
	}
	return v.Str, true
}

// SymbolName returns the name of the symbol that v represents and the value
// true.  If v does not represent a symbol SymbolName returns a false second
// argument.
func SymbolName(v *LVal) (string, bool) {
	if v.Type != LSymbol {
		return "", false
	}
	return v.Str, true
}

// GoFloat64 returns the number that v represents and the value true.  If v
// does not represent a number GoFloat64 returns a false second argument.
func GoFloat64(v *LVal) (float64, bool) {
	if v.Type != LNumber {
		return 0, false
	}
	return v.Num, true
}

// GoInt converts the number that v represents to an int.  GoInt returns a
// false second argument when v is not a number, is not finite, has a
// fractional part, or falls outside the int32 range -- the validation the
// foreign-call boundary applies wherever a bounded integer is expected.
func GoInt(v *LVal) (int, bool) {
	if v.Type != LNumber {
		return 0, false
	}
	x := v.Num
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	if x != math.Trunc(x) {
		return 0, false
	}
	if x < math.MinInt32 || x > math.MaxInt32 {
		return 0, false
	}
	return int(x), true
}

// ForeignFun is a host-native callable wrapped for use by interpreted code.
// It receives the full list of already-evaluated arguments.  A returned
// error is mapped to a foreign-error condition; a returned LError value
// passes through unchanged (used by adapters for type validation); a nil
// value yields the unspecified value.
type ForeignFun func(args []*LVal) (*LVal, error)

// RegisterForeign installs a variadic foreign procedure in env under name.
// Interpreted code calls it like any other procedure.
func (env *LEnv) RegisterForeign(name string, nargs int, variadic bool, fn ForeignFun) {
	env.Scope[name] = &LVal{
		Type: LFun,
		Native: &LFunData{
			Foreign:  fn,
			Name:     name,
			NArgs:    nargs,
			Variadic: variadic,
		},
	}
}

// RegisterFun0 installs a nullary scalar foreign procedure.
func (env *LEnv) RegisterFun0(name string, fn func() (float64, error)) {
	env.RegisterForeign(name, 0, false, func(args []*LVal) (*LVal, error) {
		x, err := fn()
		if err != nil {
			return nil, err
		}
		return Number(x), nil
	})
}

// RegisterFun1 installs a unary scalar foreign procedure.
func (env *LEnv) RegisterFun1(name string, fn func(float64) (float64, error)) {
	env.RegisterForeign(name, 1, false, func(args []*LVal) (*LVal, error) {
		a, lerr := scalarArg(name, args[0])
		if lerr != nil {
			return lerr, nil
		}
		x, err := fn(a)
		if err != nil {
			return nil, err
		}
		return Number(x), nil
	})
}

// RegisterFun2 installs a binary scalar foreign procedure.
func (env *LEnv) RegisterFun2(name string, fn func(float64, float64) (float64, error)) {
	env.RegisterForeign(name, 2, false, func(args []*LVal) (*LVal, error) {
		a, lerr := scalarArg(name, args[0])
		if lerr != nil {
			return lerr, nil
		}
		b, lerr := scalarArg(name, args[1])
		if lerr != nil {
			return lerr, nil
		}
		x, err := fn(a, b)
		if err != nil {
			return nil, err
		}
		return Number(x), nil
	})
}

// scalarArg validates a scalar parameter of a foreign procedure.  Scalar
// parameters must be finite numbers.
func scalarArg(name string, v *LVal) (float64, *LVal) {
	if v.Type != LNumber {
		return 0, ErrorConditionf(ErrType, "%s: not a number: %s", name, v.Type)
	}
	if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
		return 0, ErrorConditionf(ErrRange, "%s: not a finite number: %s", name, v.String())
	}
	return v.Num, nil
}

// callForeign invokes a foreign procedure, insulating the evaluator from the
// host calling convention.  Argument counts are validated before the call;
// host errors and panics are translated into foreign-error conditions
// carrying the host message for diagnostics.
func (env *LEnv) callForeign(fun *LVal, args []*LVal) (lv *LVal) {
	fd := fun.FunData()
	if lerr := env.checkBuiltinArity(fd, len(args)); lerr != nil {
		return lerr
	}
	defer func() {
		if r := recover(); r != nil {
			lv = env.Errorf(ErrForeign, "%s: panic in foreign function: %v", fd.Name, r)
		}
	}()
	v, err := fd.Foreign(args)
	if err != nil {
		return env.Errorf(ErrForeign, "%s: %v", fd.Name, err)
	}
	if v == nil {
		return Unspecified()
	}
	return v
}

// Interp is an interpreter instance: a root environment whose primitives and
// standard prelude have been installed.  An Interp (and the value graph it
// owns) must be confined to one goroutine; independent instances are fully
// isolated from each other.
type Interp struct {
	env *LEnv
}

// NewInterp constructs an interpreter instance.  A Reader must be supplied
// (lisp.WithReader(parser.NewReader())) so the standard prelude can be
// evaluated before user code is accepted.
func NewInterp(config ...Config) (*Interp, error) {
	env := NewEnv(nil)
	rc := InitializeUserEnv(env, config...)
	if err := GoError(rc); err != nil {
		return nil, err
	}
	rc = env.LoadString("<prelude>", preludeSource, preludeFuel)
	if err := GoError(rc); err != nil {
		return nil, err
	}
	return &Interp{env: env}, nil
}

// Env returns the interpreter's root environment.
func (in *Interp) Env() *LEnv {
	return in.env
}

// EvalString parses src eagerly and evaluates each top-level form against
// the root environment with the given fuel budget, returning the value of
// the last form.  All errors are *ErrorVal values carrying their condition
// name.
func (in *Interp) EvalString(name, src string, fuel int64) (*LVal, error) {
	v := in.env.LoadString(name, src, fuel)
	if err := GoError(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Register0 exposes fn to interpreted code as a nullary procedure.
func (in *Interp) Register0(name string, fn func() (float64, error)) {
	in.env.RegisterFun0(name, fn)
}

// Register1 exposes fn to interpreted code as a unary procedure.
func (in *Interp) Register1(name string, fn func(float64) (float64, error)) {
	in.env.RegisterFun1(name, fn)
}

// Register2 exposes fn to interpreted code as a binary procedure.
func (in *Interp) Register2(name string, fn func(float64, float64) (float64, error)) {
	in.env.RegisterFun2(name, fn)
}

// RegisterVar exposes fn to interpreted code as a variadic procedure
// receiving the raw argument list.
func (in *Interp) RegisterVar(name string, fn ForeignFun) {
	in.env.RegisterForeign(name, 0, true, fn)
}

// Write renders v in machine-oriented form into w.
func (in *Interp) Write(w io.Writer, v *LVal) error {
	return WriteVal(w, v)
}

// Display renders v in human-oriented form into w.
func (in *Interp) Display(w io.Writer, v *LVal) error {
	return DisplayVal(w, v)
}
