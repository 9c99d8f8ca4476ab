// Copyright © 2025 The slip authors

package token

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEmit(t *testing.T) {
	s := NewScanner("test.lisp", strings.NewReader("abc def"))
	n := s.AcceptSeq(func(c rune) bool { return !unicode.IsSpace(c) })
	assert.Equal(t, 3, n)
	tok := s.EmitToken(SYMBOL)
	assert.Equal(t, SYMBOL, tok.Type)
	assert.Equal(t, "abc", tok.Text)
	require.NotNil(t, tok.Source)
	assert.Equal(t, "test.lisp", tok.Source.File)
	assert.Equal(t, 1, tok.Source.Line)
	assert.Equal(t, 1, tok.Source.Col)

	s.AcceptSeq(unicode.IsSpace)
	s.Ignore()
	s.AcceptSeq(func(c rune) bool { return !unicode.IsSpace(c) })
	tok = s.EmitToken(SYMBOL)
	assert.Equal(t, "def", tok.Text)
	assert.Equal(t, 5, tok.Source.Col)
	assert.True(t, s.EOF())
}

func TestScannerLineTracking(t *testing.T) {
	s := NewScanner("test.lisp", strings.NewReader("a\nbc"))
	s.AcceptSeq(func(rune) bool { return true })
	assert.True(t, s.EOF())
	s.Ignore()
	loc := s.LocStart()
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 3, loc.Col)
}

func TestScannerPeek(t *testing.T) {
	s := NewScanner("test.lisp", strings.NewReader("x"))
	c, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 'x', c)
	// peek does not consume
	c, ok = s.Peek()
	require.True(t, ok)
	assert.Equal(t, 'x', c)
	assert.True(t, s.AcceptRune('x'))
	_, ok = s.Peek()
	assert.False(t, ok)
}

func TestLocationString(t *testing.T) {
	var loc *Location
	assert.Equal(t, "<native>", loc.String())
	loc = &Location{File: "f.lisp", Line: 2, Col: 7}
	assert.Equal(t, "f.lisp:2:7", loc.String())
	loc = &Location{File: "f.lisp"}
	assert.Equal(t, "f.lisp", loc.String())
}
