// Copyright © 2025 The slip authors

package lisp

// specialOpFun evaluates a special form.  The args are the unevaluated
// expressions following the form's head symbol.  Ops return tail marks for
// sub-expressions in tail position; the Eval loop unwraps them.
type specialOpFun func(env *LEnv, args []*LVal) *LVal

type langOp struct {
	name string
	fun  specialOpFun
}

// langSpecialOps are the syntactic constructs whose arguments are not eagerly
// evaluated before dispatch.  Anything not in this table falls through to
// ordinary procedure application.
var langSpecialOps = []*langOp{
	{"quote", opQuote},
	{"if", opIf},
	{"cond", opCond},
	{"and", opAnd},
	{"or", opOr},
	{"define", opDefine},
	{"set!", opSetBang},
	{"lambda", opLambda},
	{"begin", opBegin},
	{"let", opLet},
	{"let*", opLetSeq},
	{"letrec", opLetrec},
	{"try", opTry},
}

// specialOps is allocated in init rather than with a composite initializer.
// The evaluator reads specialOps and the op functions reference the
// evaluator, so a package-level initializer here would form an
// initialization cycle with langSpecialOps.
var specialOps map[string]*langOp

func init() {
	specialOps = make(map[string]*langOp, len(langSpecialOps))
	for _, op := range langSpecialOps {
		specialOps[op.name] = op
	}
}

// evalBody evaluates a form body in env: all leading expressions eagerly, the
// final expression as a tail mark.  An empty body yields nil.
func evalBody(env *LEnv, body []*LVal) *LVal {
	if len(body) == 0 {
		return Nil()
	}
	for _, expr := range body[:len(body)-1] {
		r := env.Eval(expr)
		if r.Type == LError {
			return r
		}
	}
	return markTailExpr(env, body[len(body)-1])
}

func opQuote(env *LEnv, args []*LVal) *LVal {
	if len(args) != 1 {
		return env.Errorf(ErrWrongArgumentCount, "quote: expected 1 argument (got %d)", len(args))
	}
	return args[0].Copy()
}

func opIf(env *LEnv, args []*LVal) *LVal {
	if len(args) != 2 && len(args) != 3 {
		return env.Errorf(ErrWrongArgumentCount, "if: expected 2 or 3 arguments (got %d)", len(args))
	}
	test := env.Eval(args[0])
	if test.Type == LError {
		return test
	}
	if True(test) {
		return markTailExpr(env, args[1])
	}
	if len(args) == 3 {
		return markTailExpr(env, args[2])
	}
	return Unspecified()
}

func opCond(env *LEnv, args []*LVal) *LVal {
	for _, clause := range args {
		forms, ok := ListSlice(clause)
		if !ok || len(forms) == 0 {
			return env.Errorf(ErrWrongArgumentCount, "cond: malformed clause")
		}
		if forms[0].Type == LSymbol && forms[0].Str == "else" {
			return evalBody(env, forms[1:])
		}
		test := env.Eval(forms[0])
		if test.Type == LError {
			return test
		}
		if !True(test) {
			continue
		}
		if len(forms) == 1 {
			// a bare test clause yields the test value itself
			return test
		}
		return evalBody(env, forms[1:])
	}
	return Nil()
}

func opAnd(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return Bool(true)
	}
	for _, expr := range args[:len(args)-1] {
		v := env.Eval(expr)
		if v.Type == LError {
			return v
		}
		if !True(v) {
			return v
		}
	}
	return markTailExpr(env, args[len(args)-1])
}

func opOr(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return Bool(false)
	}
	for _, expr := range args[:len(args)-1] {
		v := env.Eval(expr)
		if v.Type == LError {
			return v
		}
		if True(v) {
			return v
		}
	}
	return markTailExpr(env, args[len(args)-1])
}

func opDefine(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return env.Errorf(ErrWrongArgumentCount, "define: missing binding target")
	}
	target := args[0]
	switch target.Type {
	case LSymbol:
		if len(args) != 2 {
			return env.Errorf(ErrWrongArgumentCount, "define: expected a symbol and one expression")
		}
		v := env.Eval(args[1])
		if v.Type == LError {
			return v
		}
		if lerr := env.Put(target.Str, v); lerr != nil {
			return lerr
		}
		return v
	case LPair:
		// (define (name . params) body...)
		name := target.Car
		if name.Type != LSymbol {
			return env.Errorf(ErrType, "define: function name is not a symbol: %s", name.Type)
		}
		fn := buildLambda(env, target.Cdr, args[1:], name.Str)
		if fn.Type == LError {
			return fn
		}
		if lerr := env.Put(name.Str, fn); lerr != nil {
			return lerr
		}
		return fn
	default:
		return env.Errorf(ErrType, "define: cannot bind %s", target.Type)
	}
}

func opSetBang(env *LEnv, args []*LVal) *LVal {
	if len(args) != 2 {
		return env.Errorf(ErrWrongArgumentCount, "set!: expected 2 arguments (got %d)", len(args))
	}
	if args[0].Type != LSymbol {
		return env.Errorf(ErrType, "set!: not a symbol: %s", args[0].Type)
	}
	v := env.Eval(args[1])
	if v.Type == LError {
		return v
	}
	return env.Update(args[0].Str, v)
}

func opLambda(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return env.Errorf(ErrWrongArgumentCount, "lambda: missing parameter list")
	}
	return buildLambda(env, args[0], args[1:], "")
}

// buildLambda constructs a closure capturing env.  The formals must be a
// proper list of symbols and the body must be non-empty.
func buildLambda(env *LEnv, formals *LVal, body []*LVal, name string) *LVal {
	params, ok := ListSlice(formals)
	if !ok {
		return env.Errorf(ErrLambdaInvalidParams, "lambda: parameter list is not a proper list")
	}
	for _, p := range params {
		if p.Type != LSymbol {
			return env.Errorf(ErrLambdaInvalidParams, "lambda: parameter is not a symbol: %s", p.Type)
		}
	}
	if len(body) == 0 {
		return env.Errorf(ErrLambdaInvalidArguments, "lambda: empty body")
	}
	cells := make([]*LVal, 0, len(body)+1)
	cells = append(cells, formals.Copy())
	cells = append(cells, body...)
	return &LVal{
		Type:  LFun,
		Cells: cells,
		Native: &LFunData{
			Env:   env,
			Name:  name,
			NArgs: len(params),
		},
	}
}

func opBegin(env *LEnv, args []*LVal) *LVal {
	return evalBody(env, args)
}

// letBindings parses a let-style bindings list into names and initializer
// expressions.
func letBindings(env *LEnv, form string, v *LVal) ([]string, []*LVal, *LVal) {
	binds, ok := ListSlice(v)
	if !ok {
		return nil, nil, env.Errorf(ErrWrongArgumentCount, "%s: bindings are not a proper list", form)
	}
	names := make([]string, len(binds))
	inits := make([]*LVal, len(binds))
	for i, b := range binds {
		pair, ok := ListSlice(b)
		if !ok || len(pair) != 2 || pair[0].Type != LSymbol {
			return nil, nil, env.Errorf(ErrWrongArgumentCount, "%s: malformed binding", form)
		}
		names[i] = pair[0].Str
		inits[i] = pair[1]
	}
	return names, inits, nil
}

func opLet(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return env.Errorf(ErrWrongArgumentCount, "let: missing bindings list")
	}
	names, inits, lerr := letBindings(env, "let", args[0])
	if lerr != nil {
		return lerr
	}
	// all initializers are evaluated in the outer environment before any
	// binding is installed
	vals := make([]*LVal, len(inits))
	for i, expr := range inits {
		v := env.Eval(expr)
		if v.Type == LError {
			return v
		}
		vals[i] = v
	}
	lenv := newEnvN(env, len(names))
	for i, name := range names {
		if lerr := lenv.Put(name, vals[i]); lerr != nil {
			return lerr
		}
	}
	return evalBody(lenv, args[1:])
}

func opLetSeq(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return env.Errorf(ErrWrongArgumentCount, "let*: missing bindings list")
	}
	names, inits, lerr := letBindings(env, "let*", args[0])
	if lerr != nil {
		return lerr
	}
	// each initializer sees the bindings established before it
	lenv := newEnvN(env, len(names))
	for i, name := range names {
		v := lenv.Eval(inits[i])
		if v.Type == LError {
			return v
		}
		if lerr := lenv.Put(name, v); lerr != nil {
			return lerr
		}
	}
	return evalBody(lenv, args[1:])
}

func opLetrec(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return env.Errorf(ErrWrongArgumentCount, "letrec: missing bindings list")
	}
	names, inits, lerr := letBindings(env, "letrec", args[0])
	if lerr != nil {
		return lerr
	}
	// pre-bind every name to a placeholder box so initializers may reference
	// each other and themselves
	lenv := newEnvN(env, len(names))
	cells := make([]*LVal, len(names))
	for i, name := range names {
		cells[i] = Cell(Unspecified())
		lenv.putCell(name, cells[i])
	}
	vals := make([]*LVal, len(inits))
	for i, expr := range inits {
		v := lenv.Eval(expr)
		if v.Type == LError {
			return v
		}
		vals[i] = v
	}
	for i := range vals {
		cp := vals[i].Copy()
		if cp.Type == LError {
			return cp
		}
		cells[i].Cells[0] = cp
	}
	return evalBody(lenv, args[1:])
}

// opTry implements (try body... (catch sym handler...)).  Leading body forms
// evaluate in order; the first error binds sym to the error's rendered
// message in a fresh child environment and evaluates the handler body in tail
// position.  Error-free completion returns the last body value and never runs
// the handler.
func opTry(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return env.Errorf(ErrWrongArgumentCount, "try: missing catch clause")
	}
	clause, ok := ListSlice(args[len(args)-1])
	if !ok || len(clause) < 3 ||
		clause[0].Type != LSymbol || clause[0].Str != "catch" ||
		clause[1].Type != LSymbol {
		return env.Errorf(ErrWrongArgumentCount, "try: final form must be (catch symbol expr ...)")
	}
	r := Nil()
	for _, expr := range args[:len(args)-1] {
		r = env.Eval(expr)
		if r.Type == LError {
			henv := NewEnv(env)
			if lerr := henv.Put(clause[1].Str, String((*ErrorVal)(r).Error())); lerr != nil {
				return lerr
			}
			return evalBody(henv, clause[2:])
		}
	}
	return r
}
