// Copyright © 2025 The slip authors

package lisp

// LEnv is a lisp environment: a mutable set of bindings chained to an
// enclosing environment.  Lookup walks the chain from innermost to outermost
// and the first hit wins.  Environments are heap objects owned by whichever
// closures capture them; a closure may outlive the call that created its
// defining environment.
type LEnv struct {
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
}

// NewEnvRuntime initializes a root LEnv with an explicit runtime.  When rt is
// nil StandardRuntime is used.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// NewEnv initializes and returns a new LEnv.
func NewEnv(parent *LEnv) *LEnv {
	return newEnvN(parent, 0)
}

// newEnvN creates a child LEnv with its Scope map pre-sized to hold n
// bindings.  Callers that know the number of bindings up front (let, letrec,
// parameter binding) can avoid map growth by passing the exact count.
func newEnvN(parent *LEnv, n int) *LEnv {
	var runtime *Runtime
	if parent != nil {
		runtime = parent.Runtime
	} else {
		runtime = StandardRuntime()
	}
	return &LEnv{
		Scope:   make(map[string]*LVal, n),
		Parent:  parent,
		Runtime: runtime,
	}
}

// InitializeUserEnv installs the language primitives into env and applies any
// configuration.  The returned LVal is non-nil LError when initialization
// fails.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	env.AddBuiltins()
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Nil()
}

// Errorf returns an LError value with the given condition and a formatted
// message.
func (env *LEnv) Errorf(condition string, format string, v ...interface{}) *LVal {
	return ErrorConditionf(condition, format, v...)
}

// Get resolves name in the environment chain.  Cell bindings are unwrapped
// transparently so letrec forward references read through their boxes.  The
// bound value itself is returned, not a copy -- mutation primitives operate
// on the binding's own structure.
func (env *LEnv) Get(name string) *LVal {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[name]; ok {
			if v.Type == LCell {
				return v.Cells[0]
			}
			return v
		}
	}
	return env.Errorf(ErrSymbolNotFound, "unbound symbol: %s", name)
}

// Put binds name to a deep copy of v in env itself (copy-on-bind).  A non-nil
// return is an LError value: cyclic structure cannot be deep copied and so
// cannot be bound.
func (env *LEnv) Put(name string, v *LVal) *LVal {
	cp := v.Copy()
	if cp.Type == LError {
		return cp
	}
	env.Scope[name] = cp
	return nil
}

// putCell installs a box binding without copying the box.  Used by letrec,
// which must later fill the identical cell.
func (env *LEnv) putCell(name string, cell *LVal) {
	env.Scope[name] = cell
}

// Update mutates the innermost existing binding of name, writing through cell
// bindings.  The new value is deep copied like any other bind.
func (env *LEnv) Update(name string, v *LVal) *LVal {
	for e := env; e != nil; e = e.Parent {
		if old, ok := e.Scope[name]; ok {
			cp := v.Copy()
			if cp.Type == LError {
				return cp
			}
			if old.Type == LCell {
				old.Cells[0] = cp
			} else {
				e.Scope[name] = cp
			}
			return Unspecified()
		}
	}
	return env.Errorf(ErrSymbolNotFound, "unbound symbol: %s", name)
}

// Eval evaluates v and returns its value.  The evaluator is a loop over a
// (current expression, current environment) pair rather than a recursive
// function: forms in tail position return an internal mark that re-binds the
// pair and continues the loop, so lisp-level tail recursion runs in constant
// Go stack space.  Each iteration consumes one unit of the runtime's fuel
// budget.
func (env *LEnv) Eval(v *LVal) *LVal {
	for {
		if !env.Runtime.Budget.Step() {
			return env.Errorf(ErrExecutionBudgetExceeded, "execution budget exceeded")
		}
		switch v.Type {
		case LSymbol:
			return env.Get(v.Str)
		case LString:
			// a fresh copy so mutation of the result never aliases the
			// parsed literal
			cp := *v
			return &cp
		case LPair:
			r := env.evalSExpr(v)
			if r.Type == LMarkTail {
				env = r.Native.(*LEnv)
				v = r.Cells[0]
				continue
			}
			return r
		default:
			// numbers, booleans, characters, nil, functions, native values,
			// unspecified, and errors are self-evaluating
			return v
		}
	}
}

// evalSExpr evaluates a compound form: either a special form, dispatched on
// the head symbol with its arguments unevaluated, or a procedure application
// with the operator and operands evaluated left-to-right.
func (env *LEnv) evalSExpr(s *LVal) *LVal {
	cells, ok := ListSlice(s)
	if !ok {
		return env.Errorf(ErrType, "cannot evaluate an improper list")
	}
	head := cells[0]
	if head.Type == LSymbol {
		if op, ok := specialOps[head.Str]; ok {
			return op.fun(env, cells[1:])
		}
	}
	f := env.Eval(head)
	if f.Type == LError {
		return f
	}
	args := make([]*LVal, len(cells)-1)
	for i, expr := range cells[1:] {
		v := env.Eval(expr)
		if v.Type == LError {
			return v
		}
		args[i] = v
	}
	return env.funCall(f, args)
}

// FunCall invokes fun with already-evaluated arguments and runs it to
// completion.  Primitives use FunCall for reentrant calls (apply); the fuel
// budget is shared so nested evaluation stays within the caller's bound.
func (env *LEnv) FunCall(fun *LVal, args []*LVal) *LVal {
	r := env.funCall(fun, args)
	for r.Type == LMarkTail {
		tailEnv := r.Native.(*LEnv)
		r = tailEnv.Eval(r.Cells[0])
	}
	return r
}

func (env *LEnv) funCall(fun *LVal, args []*LVal) *LVal {
	fd := fun.FunData()
	if fd == nil {
		return env.Errorf(ErrNotAFunction, "cannot call non-function value of type %s", fun.Type)
	}
	switch {
	case fd.Builtin != nil:
		if lerr := env.checkBuiltinArity(fd, len(args)); lerr != nil {
			return lerr
		}
		return fd.Builtin(env, args)
	case fd.Foreign != nil:
		return env.callForeign(fun, args)
	default:
		return env.callLambda(fun, args)
	}
}

func (env *LEnv) checkBuiltinArity(fd *LFunData, n int) *LVal {
	if fd.Variadic {
		if n < fd.NArgs {
			return env.Errorf(ErrWrongArgumentCount, "%s: expected at least %d arguments (got %d)", fd.Name, fd.NArgs, n)
		}
		return nil
	}
	if n != fd.NArgs {
		return env.Errorf(ErrWrongArgumentCount, "%s: expected %d arguments (got %d)", fd.Name, fd.NArgs, n)
	}
	return nil
}

// callLambda applies a closure: exact arity, a fresh child of the captured
// environment, copy-on-bind parameters, and a tail mark for the final body
// expression.
func (env *LEnv) callLambda(fun *LVal, args []*LVal) *LVal {
	fd := fun.FunData()
	params, ok := ListSlice(fun.Cells[0])
	if !ok {
		return env.Errorf(ErrLambdaInvalidParams, "%s: malformed parameter list", fun.FunName())
	}
	if len(args) != len(params) {
		return env.Errorf(ErrWrongArgumentCount, "%s: expected %d arguments (got %d)", fun.FunName(), len(params), len(args))
	}
	fenv := newEnvN(fd.Env, len(params))
	for i, p := range params {
		if lerr := fenv.Put(p.Str, args[i]); lerr != nil {
			return lerr
		}
	}
	body := fun.Cells[1:]
	if prof := env.Runtime.Profiler; prof != nil && prof.IsEnabled() {
		end := prof.Start(fun)
		defer end()
		r := Nil()
		for _, expr := range body {
			r = fenv.Eval(expr)
			if r.Type == LError {
				return r
			}
		}
		return r
	}
	for _, expr := range body[:len(body)-1] {
		r := fenv.Eval(expr)
		if r.Type == LError {
			return r
		}
	}
	return markTailExpr(fenv, body[len(body)-1])
}

// builtin constructs an LFun value for a native primitive.
func builtinFun(def *langBuiltin) *LVal {
	return &LVal{
		Type: LFun,
		Native: &LFunData{
			Builtin:  def.fun,
			Name:     def.name,
			NArgs:    def.nargs,
			Variadic: def.variadic,
		},
	}
}

// AddBuiltins registers the language primitives in env.
func (env *LEnv) AddBuiltins() {
	for _, def := range langBuiltins {
		env.Scope[def.name] = builtinFun(def)
	}
}
