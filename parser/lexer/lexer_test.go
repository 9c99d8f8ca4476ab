// Copyright © 2025 The slip authors

package lexer

import (
	"strings"
	"testing"

	"github.com/habedi/slip/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []*token.Token {
	t.Helper()
	lex := New(token.NewScanner("test.lisp", strings.NewReader(src)))
	var tokens []*token.Token
	for {
		tok := lex.ReadToken()
		require.Len(t, tok, 1)
		tokens = append(tokens, tok[0])
		if tok[0].Type == token.EOF || tok[0].Type == token.ERROR {
			return tokens
		}
	}
}

func TestLexerTokens(t *testing.T) {
	tokens := lexAll(t, "(+ 1 2.5) 'x ; comment\n\"str\"")
	types := make([]token.Type, len(tokens))
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
		texts[i] = tok.Text
	}
	assert.Equal(t, []token.Type{
		token.PAREN_L, token.SYMBOL, token.SYMBOL, token.SYMBOL, token.PAREN_R,
		token.QUOTE, token.SYMBOL,
		token.COMMENT,
		token.STRING,
		token.EOF,
	}, types)
	assert.Equal(t, []string{
		"(", "+", "1", "2.5", ")",
		"'", "x",
		"; comment",
		`"str"`,
		"",
	}, texts)
}

func TestLexerAtomRunes(t *testing.T) {
	// atoms are maximal runs of anything that is not whitespace or syntax
	tokens := lexAll(t, `#t #\a foo->bar 12..5`)
	require.Len(t, tokens, 5)
	for _, tok := range tokens[:4] {
		assert.Equal(t, token.SYMBOL, tok.Type)
	}
	assert.Equal(t, "#t", tokens[0].Text)
	assert.Equal(t, `#\a`, tokens[1].Text)
	assert.Equal(t, "foo->bar", tokens[2].Text)
	assert.Equal(t, "12..5", tokens[3].Text)
}

func TestLexerString(t *testing.T) {
	tokens := lexAll(t, `"a\"b" "multi
line"`)
	require.Len(t, tokens, 3)
	assert.Equal(t, token.STRING, tokens[0].Type)
	assert.Equal(t, `"a\"b"`, tokens[0].Text)
	assert.Equal(t, token.STRING, tokens[1].Type)
	assert.Equal(t, "\"multi\nline\"", tokens[1].Text)
}

func TestLexerUnterminatedString(t *testing.T) {
	tokens := lexAll(t, `"no close`)
	last := tokens[len(tokens)-1]
	assert.Equal(t, token.ERROR, last.Type)
	assert.Contains(t, last.Text, UnterminatedString)

	// a trailing backslash cannot terminate the literal either
	tokens = lexAll(t, `"dangling\`)
	last = tokens[len(tokens)-1]
	assert.Equal(t, token.ERROR, last.Type)
	assert.Contains(t, last.Text, UnterminatedString)
}

func TestLexerEOFForever(t *testing.T) {
	lex := New(token.NewScanner("test.lisp", strings.NewReader("x")))
	tok := lex.ReadToken()
	require.Len(t, tok, 1)
	assert.Equal(t, token.SYMBOL, tok[0].Type)
	for i := 0; i < 3; i++ {
		tok = lex.ReadToken()
		require.Len(t, tok, 1)
		assert.Equal(t, token.EOF, tok[0].Type)
	}
}
