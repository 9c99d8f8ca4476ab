// Copyright © 2025 The slip authors

package token

import "fmt"

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token.  Token returns nil if Scan has not been
	// called.
	Token() *Token
	// Peek returns the next token in the stream.  At the end of the stream
	// Peek returns a token with type EOF.
	Peek() *Token
	// Scan advances the token stream if possible.  If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

// Token is a lexical element of slip source text.
type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	if tok.Text == "" {
		return tok.Type.String()
	}
	return fmt.Sprintf("%s(%s)", tok.Type, tok.Text)
}

// Type classifies a token.
type Type uint

// Type constants used by the slip lexer/parser.  The dialect has a
// deliberately small lexical grammar: parentheses, the quote mark, string
// literals, line comments, and atoms (maximal runs of anything else).  All
// further classification of atoms happens in the parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	// SYMBOL tokens are atoms.  The parser decides whether an atom denotes a
	// boolean, a character, a number, or a symbol.
	SYMBOL
	// STRING tokens include the surrounding double quotes and unprocessed
	// escape sequences.
	STRING

	COMMENT

	QUOTE
	PAREN_L
	PAREN_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID: "invalid",
		ERROR:   "error",
		EOF:     "EOF",
		SYMBOL:  "symbol",
		STRING:  "string",
		COMMENT: ";",
		QUOTE:   "'",
		PAREN_L: "(",
		PAREN_R: ")",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location is a position within a source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset within the stream
	Line int    // line number (starting at 1 when tracked)
	Col  int    // column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	if loc == nil {
		return "<native>"
	}
	if loc.Line > 0 {
		if loc.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
		}
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	}
	return loc.File
}
