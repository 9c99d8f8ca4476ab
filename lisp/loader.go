// Copyright © 2025 The slip authors

package lisp

import (
	"io"
	"os"
	"strings"
)

// Load parses all expressions from r and evaluates them in order against env
// with a fresh budget of fuel evaluation steps.  The value of the last
// expression is returned; a stream holding no expressions fails with the
// reader's empty-input error.  The name is used in source locations for
// diagnostics.
func (env *LEnv) Load(name string, r io.Reader, fuel int64) *LVal {
	if env.Runtime.Reader == nil {
		return env.Errorf(ErrScan, "load: no reader configured")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return ErrorLVal(ErrScan, err)
	}
	env.Runtime.Budget = NewBudget(fuel)
	ret := Nil()
	for _, expr := range exprs {
		ret = env.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// LoadString evaluates the source text src.  See Load.
func (env *LEnv) LoadString(name, src string, fuel int64) *LVal {
	return env.Load(name, strings.NewReader(src), fuel)
}

// LoadFile evaluates the file at path.  See Load.
func (env *LEnv) LoadFile(path string, fuel int64) *LVal {
	f, err := os.Open(path)
	if err != nil {
		return ErrorLVal(ErrScan, err)
	}
	defer f.Close()
	return env.Load(path, f, fuel)
}
