// Copyright © 2025 The slip authors

package parser

import (
	"strings"
	"testing"

	"github.com/habedi/slip/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader("(+ 1 2)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, lisp.LPair, exprs[0].Type)
	assert.Equal(t, "(+ 1 2)", exprs[0].String())
}
