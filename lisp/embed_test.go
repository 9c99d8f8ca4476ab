// Copyright © 2025 The slip authors

package lisp_test

import (
	"errors"
	"math"
	"testing"

	"github.com/habedi/slip/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterpRequiresReader(t *testing.T) {
	_, err := lisp.NewInterp()
	require.Error(t, err)
}

func TestRegisterScalarFunctions(t *testing.T) {
	interp := newTestInterp(t)
	interp.Register0("the-answer", func() (float64, error) {
		return 42, nil
	})
	interp.Register1("double", func(x float64) (float64, error) {
		return 2 * x, nil
	})
	interp.Register2("hypot", func(x, y float64) (float64, error) {
		return math.Hypot(x, y), nil
	})

	v, err := interp.EvalString("test", "(the-answer)", 1000)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Num)

	v, err = interp.EvalString("test", "(double 21)", 1000)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Num)

	v, err = interp.EvalString("test", "(hypot 3 4)", 1000)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num)

	// foreign procedures compose with interpreted code
	v, err = interp.EvalString("test", "(map double '(1 2 3))", 10000)
	require.NoError(t, err)
	assert.Equal(t, "(2 4 6)", v.String())
}

func TestRegisterVariadic(t *testing.T) {
	interp := newTestInterp(t)
	interp.RegisterVar("count-args", func(args []*lisp.LVal) (*lisp.LVal, error) {
		return lisp.Number(float64(len(args))), nil
	})
	v, err := interp.EvalString("test", "(count-args 'a \"b\" 3)", 1000)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.Num)

	v, err = interp.EvalString("test", "(count-args)", 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num)
}

func TestForeignArityChecked(t *testing.T) {
	interp := newTestInterp(t)
	interp.Register1("ident", func(x float64) (float64, error) { return x, nil })
	_, err := interp.EvalString("test", "(ident 1 2)", 1000)
	require.Error(t, err)
	lerr := err.(*lisp.ErrorVal)
	assert.Equal(t, lisp.ErrWrongArgumentCount, lerr.Condition())
}

func TestForeignScalarValidation(t *testing.T) {
	interp := newTestInterp(t)
	interp.Register1("ident", func(x float64) (float64, error) { return x, nil })

	_, err := interp.EvalString("test", "(ident 'sym)", 1000)
	require.Error(t, err)
	assert.Equal(t, lisp.ErrType, err.(*lisp.ErrorVal).Condition())

	_, err = interp.EvalString("test", "(ident (/ 1e308 1e-10))", 1000)
	require.Error(t, err)
	assert.Equal(t, lisp.ErrRange, err.(*lisp.ErrorVal).Condition())
}

func TestForeignHostError(t *testing.T) {
	interp := newTestInterp(t)
	interp.Register0("fail", func() (float64, error) {
		return 0, errors.New("backend unavailable")
	})
	_, err := interp.EvalString("test", "(fail)", 1000)
	require.Error(t, err)
	lerr := err.(*lisp.ErrorVal)
	assert.Equal(t, lisp.ErrForeign, lerr.Condition())
	assert.Contains(t, lerr.Error(), "backend unavailable")

	// host failures are catchable like any other condition
	v, err := interp.EvalString("test", "(try (fail) (catch e 'recovered))", 1000)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v.Str)
}

func TestForeignPanicRecovered(t *testing.T) {
	interp := newTestInterp(t)
	interp.RegisterVar("explode", func(args []*lisp.LVal) (*lisp.LVal, error) {
		panic("kaboom")
	})
	_, err := interp.EvalString("test", "(explode)", 1000)
	require.Error(t, err)
	lerr := err.(*lisp.ErrorVal)
	assert.Equal(t, lisp.ErrForeign, lerr.Condition())
	assert.Contains(t, lerr.Error(), "kaboom")
}

func TestForeignNilResult(t *testing.T) {
	interp := newTestInterp(t)
	interp.RegisterVar("noop", func(args []*lisp.LVal) (*lisp.LVal, error) {
		return nil, nil
	})
	v, err := interp.EvalString("test", "(noop)", 1000)
	require.NoError(t, err)
	assert.Equal(t, lisp.LUnspec, v.Type)
}

func TestGoConversions(t *testing.T) {
	x, ok := lisp.GoFloat64(lisp.Number(1.5))
	assert.True(t, ok)
	assert.Equal(t, 1.5, x)
	_, ok = lisp.GoFloat64(lisp.String("1.5"))
	assert.False(t, ok)

	s, ok := lisp.GoString(lisp.String("hi"))
	assert.True(t, ok)
	assert.Equal(t, "hi", s)
	_, ok = lisp.GoString(lisp.Symbol("hi"))
	assert.False(t, ok)

	name, ok := lisp.SymbolName(lisp.Symbol("hi"))
	assert.True(t, ok)
	assert.Equal(t, "hi", name)
}

func TestGoInt(t *testing.T) {
	n, ok := lisp.GoInt(lisp.Number(42))
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	n, ok = lisp.GoInt(lisp.Number(-3))
	assert.True(t, ok)
	assert.Equal(t, -3, n)

	_, ok = lisp.GoInt(lisp.Number(1.5))
	assert.False(t, ok)
	_, ok = lisp.GoInt(lisp.Number(math.NaN()))
	assert.False(t, ok)
	_, ok = lisp.GoInt(lisp.Number(math.Inf(1)))
	assert.False(t, ok)
	_, ok = lisp.GoInt(lisp.Number(1e18))
	assert.False(t, ok)
	_, ok = lisp.GoInt(lisp.String("42"))
	assert.False(t, ok)
}

func TestInterpIsolation(t *testing.T) {
	a := newTestInterp(t)
	b := newTestInterp(t)
	_, err := a.EvalString("test", "(define shared 1)", 1000)
	require.NoError(t, err)
	_, err = b.EvalString("test", "shared", 1000)
	require.Error(t, err)
	assert.Equal(t, lisp.ErrSymbolNotFound, err.(*lisp.ErrorVal).Condition())
}
