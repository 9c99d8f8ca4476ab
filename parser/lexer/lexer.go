// Copyright © 2025 The slip authors

package lexer

import (
	"fmt"
	"unicode"

	"github.com/habedi/slip/parser/token"
)

// UnterminatedString is the text of the ERROR token emitted when a string
// literal's closing quote is never found.  The parser matches on it to report
// the specific error condition.
const UnterminatedString = "unterminated string literal"

// Lexer converts slip source text into tokens.  Tokenization is maximally
// permissive: anything that is not whitespace, a delimiter, a string, or a
// comment is a single atom token and the parser sorts out what it means.
type Lexer struct {
	scanner *token.Scanner
}

// New initializes and returns a Lexer reading from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken returns the next tokens from the source stream.  At the end of
// the stream ReadToken returns an EOF token forever after.
func (lex *Lexer) ReadToken() []*token.Token {
	lex.skipWhitespace()
	if lex.scanner.EOF() {
		if err := lex.scanner.Err(); err != nil {
			return lex.errorf("scan failure: %v", err)
		}
		return lex.emit(token.EOF, "")
	}
	c, _ := lex.scanner.Peek()
	switch c {
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case '\'':
		return lex.charToken(token.QUOTE)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '"':
		return lex.readString()
	default:
		lex.scanner.AcceptSeq(isAtomRune)
		return lex.emitText(token.SYMBOL)
	}
}

// readString scans a string literal up to its closing quote.  Escaped runes
// are consumed blindly; validating the escape sequences is the parser's job.
// Literals may span multiple lines.
func (lex *Lexer) readString() []*token.Token {
	lex.scanner.AcceptRune('"')
	for {
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '"' && c != '\\' })
		if lex.scanner.AcceptRune('"') {
			return lex.emitText(token.STRING)
		}
		if lex.scanner.AcceptRune('\\') {
			if !lex.scanner.Accept(func(rune) bool { return true }) {
				return lex.errorf(UnterminatedString)
			}
			continue
		}
		// Neither a quote nor a backslash remains -- the input is exhausted.
		return lex.errorf(UnterminatedString)
	}
}

func (lex *Lexer) skipWhitespace() {
	lex.scanner.AcceptSeq(unicode.IsSpace)
	lex.scanner.Ignore()
}

func (lex *Lexer) charToken(typ token.Type) []*token.Token {
	lex.scanner.Accept(func(rune) bool { return true })
	return lex.emitText(typ)
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return []*token.Token{tok}
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.emit(token.ERROR, fmt.Sprintf(format, v...))
}

func isAtomRune(c rune) bool {
	if unicode.IsSpace(c) {
		return false
	}
	switch c {
	case '(', ')', '\'', '"', ';':
		return false
	}
	return true
}
