// Copyright © 2025 The slip authors

package lisp

import (
	"math"
	"strconv"
	"strings"
)

// LBuiltin is a Go function implementing a lisp primitive.  Builtins receive
// already-evaluated arguments and return a value or an LError -- they never
// see unevaluated syntax.  The environment is passed so reentrant primitives
// (apply, eval) share the caller's runtime and fuel budget.
type LBuiltin func(env *LEnv, args []*LVal) *LVal

type langBuiltin struct {
	name     string
	nargs    int
	variadic bool
	fun      LBuiltin
}

var langBuiltins = []*langBuiltin{
	{"cons", 2, false, builtinCons},
	{"car", 1, false, builtinCAR},
	{"cdr", 1, false, builtinCDR},
	{"set-car!", 2, false, builtinSetCAR},
	{"set-cdr!", 2, false, builtinSetCDR},
	{"list", 0, true, builtinList},
	{"append", 0, true, builtinAppend},
	{"length", 1, false, builtinLength},
	{"reverse", 1, false, builtinReverse},
	{"+", 0, true, builtinAdd},
	{"-", 1, true, builtinSub},
	{"*", 0, true, builtinMul},
	{"/", 1, true, builtinDiv},
	{"=", 2, true, builtinNumEq},
	{"<", 2, true, builtinLT},
	{">", 2, true, builtinGT},
	{"<=", 2, true, builtinLTE},
	{">=", 2, true, builtinGTE},
	{"min", 1, true, builtinMin},
	{"max", 1, true, builtinMax},
	{"abs", 1, false, builtinAbs},
	{"modulo", 2, false, builtinModulo},
	{"eq?", 2, false, builtinIsEq},
	{"eqv?", 2, false, builtinIsEq},
	{"equal?", 2, false, builtinIsEqual},
	{"not", 1, false, builtinNot},
	{"null?", 1, false, builtinIsNull},
	{"pair?", 1, false, builtinIsPair},
	{"list?", 1, false, builtinIsList},
	{"symbol?", 1, false, builtinIsSymbol},
	{"number?", 1, false, builtinIsNumber},
	{"string?", 1, false, builtinIsString},
	{"char?", 1, false, builtinIsChar},
	{"boolean?", 1, false, builtinIsBoolean},
	{"procedure?", 1, false, builtinIsProcedure},
	{"apply", 2, false, builtinApply},
	{"eval", 1, false, builtinEval},
	{"error", 1, true, builtinError},
	{"display", 1, false, builtinDisplay},
	{"write", 1, false, builtinWrite},
	{"newline", 0, false, builtinNewline},
	{"string-length", 1, false, builtinStringLength},
	{"string-append", 0, true, builtinStringAppend},
	{"substring", 3, false, builtinSubstring},
	{"string->symbol", 1, false, builtinStringToSymbol},
	{"symbol->string", 1, false, builtinSymbolToString},
	{"number->string", 1, false, builtinNumberToString},
	{"string->number", 1, false, builtinStringToNumber},
	{"string->list", 1, false, builtinStringToList},
	{"list->string", 1, false, builtinListToString},
}

func builtinCons(env *LEnv, args []*LVal) *LVal {
	return Cons(args[0], args[1])
}

func builtinCAR(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LPair {
		return env.Errorf(ErrType, "car: not a pair: %s", args[0].Type)
	}
	return args[0].Car
}

func builtinCDR(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LPair {
		return env.Errorf(ErrType, "cdr: not a pair: %s", args[0].Type)
	}
	return args[0].Cdr
}

func builtinSetCAR(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LPair {
		return env.Errorf(ErrType, "set-car!: not a pair: %s", args[0].Type)
	}
	args[0].Car = args[1]
	return Unspecified()
}

func builtinSetCDR(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LPair {
		return env.Errorf(ErrType, "set-cdr!: not a pair: %s", args[0].Type)
	}
	args[0].Cdr = args[1]
	return Unspecified()
}

func builtinList(env *LEnv, args []*LVal) *LVal {
	return MakeList(args...)
}

// builtinAppend concatenates proper lists.  The spines of all but the last
// argument are copied shallowly; the last argument is shared, per the
// dialect's structural sharing policy outside of binds.
func builtinAppend(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return Nil()
	}
	var head []*LVal
	for _, lis := range args[:len(args)-1] {
		cells, ok := ListSlice(lis)
		if !ok {
			return env.Errorf(ErrType, "append: not a proper list: %s", lis.Type)
		}
		head = append(head, cells...)
	}
	tail := args[len(args)-1]
	lis := tail
	for i := len(head) - 1; i >= 0; i-- {
		lis = Cons(head[i], lis)
	}
	return lis
}

func builtinLength(env *LEnv, args []*LVal) *LVal {
	n, ok := ListLen(args[0])
	if !ok {
		return env.Errorf(ErrType, "length: not a proper list: %s", args[0].Type)
	}
	return Number(float64(n))
}

func builtinReverse(env *LEnv, args []*LVal) *LVal {
	cells, ok := ListSlice(args[0])
	if !ok {
		return env.Errorf(ErrType, "reverse: not a proper list: %s", args[0].Type)
	}
	lis := Nil()
	for _, v := range cells {
		lis = Cons(v, lis)
	}
	return lis
}

// numericArgs validates that every argument is a number and returns the
// float64 values.
func numericArgs(env *LEnv, name string, args []*LVal) ([]float64, *LVal) {
	xs := make([]float64, len(args))
	for i, v := range args {
		if v.Type != LNumber {
			return nil, env.Errorf(ErrType, "%s: not a number: %s", name, v.Type)
		}
		xs[i] = v.Num
	}
	return xs, nil
}

func builtinAdd(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "+", args)
	if lerr != nil {
		return lerr
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return Number(sum)
}

func builtinSub(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "-", args)
	if lerr != nil {
		return lerr
	}
	if len(xs) == 1 {
		return Number(-xs[0])
	}
	diff := xs[0]
	for _, x := range xs[1:] {
		diff -= x
	}
	return Number(diff)
}

func builtinMul(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "*", args)
	if lerr != nil {
		return lerr
	}
	prod := 1.0
	for _, x := range xs {
		prod *= x
	}
	return Number(prod)
}

func builtinDiv(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "/", args)
	if lerr != nil {
		return lerr
	}
	if len(xs) == 1 {
		if xs[0] == 0 {
			return env.Errorf(ErrDivideByZero, "division by zero")
		}
		return Number(1 / xs[0])
	}
	quot := xs[0]
	for _, x := range xs[1:] {
		if x == 0 {
			return env.Errorf(ErrDivideByZero, "division by zero")
		}
		quot /= x
	}
	return Number(quot)
}

func compareChain(env *LEnv, name string, args []*LVal, ok func(a, b float64) bool) *LVal {
	xs, lerr := numericArgs(env, name, args)
	if lerr != nil {
		return lerr
	}
	for i := 1; i < len(xs); i++ {
		if !ok(xs[i-1], xs[i]) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func builtinNumEq(env *LEnv, args []*LVal) *LVal {
	return compareChain(env, "=", args, func(a, b float64) bool { return a == b })
}

func builtinLT(env *LEnv, args []*LVal) *LVal {
	return compareChain(env, "<", args, func(a, b float64) bool { return a < b })
}

func builtinGT(env *LEnv, args []*LVal) *LVal {
	return compareChain(env, ">", args, func(a, b float64) bool { return a > b })
}

func builtinLTE(env *LEnv, args []*LVal) *LVal {
	return compareChain(env, "<=", args, func(a, b float64) bool { return a <= b })
}

func builtinGTE(env *LEnv, args []*LVal) *LVal {
	return compareChain(env, ">=", args, func(a, b float64) bool { return a >= b })
}

func builtinMin(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "min", args)
	if lerr != nil {
		return lerr
	}
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Min(m, x)
	}
	return Number(m)
}

func builtinMax(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "max", args)
	if lerr != nil {
		return lerr
	}
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Max(m, x)
	}
	return Number(m)
}

func builtinAbs(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "abs", args)
	if lerr != nil {
		return lerr
	}
	return Number(math.Abs(xs[0]))
}

// builtinModulo implements modulo with the sign of the divisor.
func builtinModulo(env *LEnv, args []*LVal) *LVal {
	xs, lerr := numericArgs(env, "modulo", args)
	if lerr != nil {
		return lerr
	}
	if xs[1] == 0 {
		return env.Errorf(ErrDivideByZero, "modulo: division by zero")
	}
	r := math.Mod(xs[0], xs[1])
	if r != 0 && (r < 0) != (xs[1] < 0) {
		r += xs[1]
	}
	return Number(r)
}

func builtinIsEq(env *LEnv, args []*LVal) *LVal {
	return Bool(Eq(args[0], args[1]))
}

func builtinIsEqual(env *LEnv, args []*LVal) *LVal {
	return Bool(Equal(args[0], args[1]))
}

func builtinNot(env *LEnv, args []*LVal) *LVal {
	return Bool(!True(args[0]))
}

func builtinIsNull(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LNil)
}

func builtinIsPair(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LPair)
}

func builtinIsList(env *LEnv, args []*LVal) *LVal {
	_, ok := ListLen(args[0])
	return Bool(ok)
}

func builtinIsSymbol(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LSymbol)
}

func builtinIsNumber(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LNumber)
}

func builtinIsString(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LString)
}

func builtinIsChar(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LChar)
}

func builtinIsBoolean(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LBool)
}

func builtinIsProcedure(env *LEnv, args []*LVal) *LVal {
	return Bool(args[0].Type == LFun)
}

func builtinApply(env *LEnv, args []*LVal) *LVal {
	cells, ok := ListSlice(args[1])
	if !ok {
		return env.Errorf(ErrType, "apply: not a proper list: %s", args[1].Type)
	}
	return env.FunCall(args[0], cells)
}

func builtinEval(env *LEnv, args []*LVal) *LVal {
	return env.Eval(args[0])
}

func builtinError(env *LEnv, args []*LVal) *LVal {
	return ErrorCondition(ErrUser, args...)
}

func builtinDisplay(env *LEnv, args []*LVal) *LVal {
	if err := DisplayVal(env.Runtime.Stdout, args[0]); err != nil {
		return env.Errorf(ErrType, "display: %v", err)
	}
	return Unspecified()
}

func builtinWrite(env *LEnv, args []*LVal) *LVal {
	if err := WriteVal(env.Runtime.Stdout, args[0]); err != nil {
		return env.Errorf(ErrType, "write: %v", err)
	}
	return Unspecified()
}

func builtinNewline(env *LEnv, args []*LVal) *LVal {
	if _, err := env.Runtime.Stdout.Write([]byte{'\n'}); err != nil {
		return env.Errorf(ErrType, "newline: %v", err)
	}
	return Unspecified()
}

func stringArg(env *LEnv, name string, v *LVal) (string, *LVal) {
	if v.Type != LString {
		return "", env.Errorf(ErrType, "%s: not a string: %s", name, v.Type)
	}
	return v.Str, nil
}

func builtinStringLength(env *LEnv, args []*LVal) *LVal {
	s, lerr := stringArg(env, "string-length", args[0])
	if lerr != nil {
		return lerr
	}
	return Number(float64(len([]rune(s))))
}

func builtinStringAppend(env *LEnv, args []*LVal) *LVal {
	var buf strings.Builder
	for _, v := range args {
		s, lerr := stringArg(env, "string-append", v)
		if lerr != nil {
			return lerr
		}
		buf.WriteString(s)
	}
	return String(buf.String())
}

func builtinSubstring(env *LEnv, args []*LVal) *LVal {
	s, lerr := stringArg(env, "substring", args[0])
	if lerr != nil {
		return lerr
	}
	start, ok := GoInt(args[1])
	if !ok {
		return env.Errorf(ErrType, "substring: start index is not an integer: %v", args[1])
	}
	end, ok := GoInt(args[2])
	if !ok {
		return env.Errorf(ErrType, "substring: end index is not an integer: %v", args[2])
	}
	runes := []rune(s)
	if start < 0 || end < start || end > len(runes) {
		return env.Errorf(ErrRange, "substring: index out of range [%d:%d] for length %d", start, end, len(runes))
	}
	return String(string(runes[start:end]))
}

func builtinStringToSymbol(env *LEnv, args []*LVal) *LVal {
	s, lerr := stringArg(env, "string->symbol", args[0])
	if lerr != nil {
		return lerr
	}
	return Symbol(s)
}

func builtinSymbolToString(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LSymbol {
		return env.Errorf(ErrType, "symbol->string: not a symbol: %s", args[0].Type)
	}
	return String(args[0].Str)
}

func builtinNumberToString(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LNumber {
		return env.Errorf(ErrType, "number->string: not a number: %s", args[0].Type)
	}
	return String(formatNumber(args[0].Num))
}

// builtinStringToNumber follows the scheme convention of returning false for
// unparseable input rather than an error.
func builtinStringToNumber(env *LEnv, args []*LVal) *LVal {
	s, lerr := stringArg(env, "string->number", args[0])
	if lerr != nil {
		return lerr
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Bool(false)
	}
	return Number(x)
}

func builtinStringToList(env *LEnv, args []*LVal) *LVal {
	s, lerr := stringArg(env, "string->list", args[0])
	if lerr != nil {
		return lerr
	}
	runes := []rune(s)
	cells := make([]*LVal, len(runes))
	for i, c := range runes {
		cells[i] = Char(c)
	}
	return MakeList(cells...)
}

func builtinListToString(env *LEnv, args []*LVal) *LVal {
	cells, ok := ListSlice(args[0])
	if !ok {
		return env.Errorf(ErrType, "list->string: not a proper list: %s", args[0].Type)
	}
	var buf strings.Builder
	for _, v := range cells {
		if v.Type != LChar {
			return env.Errorf(ErrType, "list->string: not a character: %s", v.Type)
		}
		buf.WriteRune(v.Char)
	}
	return String(buf.String())
}
