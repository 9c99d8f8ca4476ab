// Copyright © 2025 The slip authors

package rdparser

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/habedi/slip/lisp"
	"github.com/habedi/slip/parser/lexer"
	"github.com/habedi/slip/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a recursive descent parser for slip source text.
type Parser struct {
	parsing bool
	src     *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse is a generic entry point that is similar to ParseExpression but is
// capable of handling EOF before reading an expression.
func (p *Parser) Parse() (*lisp.LVal, error) {
	p.ignoreComments()
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	expr := p.ParseExpression()
	if expr.Type == lisp.LError {
		return nil, lisp.GoError(expr)
	}
	return expr, nil
}

// ParseProgram parses all expressions in the input stream.  A stream that
// contains no expressions at all is an empty-input error.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	if len(exprs) == 0 {
		return nil, lisp.GoError(lisp.ErrorConditionf(lisp.ErrEmptyInput, "no expressions in input"))
	}
	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream and will report
// unexpected EOF tokens encountered.
func (p *Parser) ParseExpression() *lisp.LVal {
	fn := p.parseExpression()

	// We have a token marking the beginning of an expression.  Flag that we
	// are currently in the middle of an expression while we finish parsing the
	// expression so that an Interactive parser can determine what state we are
	// in (and thus imply what the REPL prompt should be).
	if !p.parsing {
		p.parsing = true
		defer func() { p.parsing = false }()
	}

	return fn(p)
}

func (p *Parser) parseExpression() func(p *Parser) *lisp.LVal {
	p.ignoreComments()
	switch p.PeekType() {
	case token.SYMBOL:
		return (*Parser).ParseAtom
	case token.STRING:
		return (*Parser).ParseLiteralString
	case token.QUOTE:
		return (*Parser).ParseQuote
	case token.PAREN_L:
		return (*Parser).ParseList
	case token.PAREN_R:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf(lisp.ErrUnexpectedCloseParen, "unexpected )")
		}
	case token.EOF:
		return func(p *Parser) *lisp.LVal {
			return p.errorAt(p.src.Peek().Source, lisp.ErrUnexpectedEOF, "unexpected end of input")
		}
	case token.ERROR, token.INVALID:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.scanError(p.TokenText())
		}
	default:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf(lisp.ErrScan, "unexpected token: %v", p.TokenType())
		}
	}
}

// ParseAtom classifies an atom token as a boolean, a character, a number, or
// a symbol.  Classification is ordered: the literal spellings #t and #f are
// booleans, a #\ prefix is a character, any atom accepted by the float
// grammar is a number, and anything else is a symbol.
func (p *Parser) ParseAtom() *lisp.LVal {
	if !p.Accept(token.SYMBOL) {
		return p.errorf(lisp.ErrScan, "invalid atom: %v", p.PeekType())
	}
	text := p.TokenText()
	switch {
	case text == "#t":
		return p.tokenLVal(lisp.Bool(true))
	case text == "#f":
		return p.tokenLVal(lisp.Bool(false))
	case strings.HasPrefix(text, `#\`):
		return p.parseChar(text)
	}
	if x, err := strconv.ParseFloat(text, 64); err == nil {
		return p.tokenLVal(lisp.Number(x))
	}
	return p.tokenLVal(lisp.Symbol(text))
}

// parseChar interprets the text of a #\ atom.  The named characters space and
// newline are recognized; otherwise the literal must spell exactly one rune.
func (p *Parser) parseChar(text string) *lisp.LVal {
	name := text[len(`#\`):]
	switch name {
	case "space":
		return p.tokenLVal(lisp.Char(' '))
	case "newline":
		return p.tokenLVal(lisp.Char('\n'))
	}
	c, n := utf8.DecodeRuneInString(name)
	if n == 0 || n != len(name) || c == utf8.RuneError {
		return p.errorf(lisp.ErrInvalidCharacterLiteral, "invalid character literal: %s", text)
	}
	return p.tokenLVal(lisp.Char(c))
}

// ParseLiteralString unquotes a string token.  The recognized escapes are
// backslash, double quote, newline, and tab; a backslash before any other
// rune passes that rune through unchanged.
func (p *Parser) ParseLiteralString() *lisp.LVal {
	if !p.Accept(token.STRING) {
		return p.errorf(lisp.ErrScan, "invalid string literal: %v", p.PeekType())
	}
	text := p.TokenText()
	// the lexer guarantees surrounding quotes on STRING tokens
	body := text[1 : len(text)-1]
	var buf strings.Builder
	esc := false
	for _, c := range body {
		if !esc {
			if c == '\\' {
				esc = true
				continue
			}
			buf.WriteRune(c)
			continue
		}
		esc = false
		switch c {
		case 'n':
			buf.WriteRune('\n')
		case 't':
			buf.WriteRune('\t')
		default:
			buf.WriteRune(c)
		}
	}
	return p.tokenLVal(lisp.String(buf.String()))
}

// ParseQuote parses a quote mark applied to the following expression,
// producing a (quote expr) form.
func (p *Parser) ParseQuote() *lisp.LVal {
	if !p.Accept(token.QUOTE) {
		return p.errorf(lisp.ErrScan, "invalid quote: %v", p.PeekType())
	}
	loc := p.Location()
	p.ignoreComments()
	if p.src.IsEOF() {
		return p.errorf(lisp.ErrUnexpectedEOF, "unexpected end of input following quote")
	}
	expr := p.ParseExpression()
	if expr.Type == lisp.LError {
		return expr
	}
	sym := lisp.Symbol("quote")
	sym.Source = loc
	v := lisp.MakeList(sym, expr)
	v.Source = loc
	return v
}

// ParseList parses a parenthesized form: a proper list, or a dotted pair when
// a lone dot atom precedes the final element.
func (p *Parser) ParseList() *lisp.LVal {
	if !p.Accept(token.PAREN_L) {
		return p.errorf(lisp.ErrScan, "invalid list: %v", p.PeekType())
	}
	open := p.src.Token
	var elems []*lisp.LVal
	tail := lisp.Nil()
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return p.errorAt(open.Source, lisp.ErrUnmatchedOpenParen, "unmatched %s", open.Text)
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		if p.peekDot() {
			p.ReadToken()
			if len(elems) == 0 {
				return p.errorf(lisp.ErrInvalidDottedPair, "dot with no preceding element")
			}
			p.ignoreComments()
			if p.src.IsEOF() {
				return p.errorAt(open.Source, lisp.ErrUnmatchedOpenParen, "unmatched %s", open.Text)
			}
			if p.PeekType() == token.PAREN_R {
				return p.errorf(lisp.ErrInvalidDottedPair, "dot with no following element")
			}
			x := p.ParseExpression()
			if x.Type == lisp.LError {
				return x
			}
			tail = x
			p.ignoreComments()
			if p.src.IsEOF() {
				return p.errorAt(open.Source, lisp.ErrUnmatchedOpenParen, "unmatched %s", open.Text)
			}
			if !p.Accept(token.PAREN_R) {
				return p.errorf(lisp.ErrInvalidDottedPair, "multiple elements follow dot")
			}
			break
		}
		x := p.ParseExpression()
		if x.Type == lisp.LError {
			return x
		}
		elems = append(elems, x)
	}
	v := tail
	for i := len(elems) - 1; i >= 0; i-- {
		v = lisp.Cons(elems[i], v)
	}
	v.Source = open.Source
	return v
}

// peekDot reports whether the next token is the lone dot atom that separates
// the final element of a dotted pair.
func (p *Parser) peekDot() bool {
	tok := p.src.Peek()
	return tok.Type == token.SYMBOL && tok.Text == "."
}

func (p *Parser) ignoreComments() {
	for p.Accept(token.COMMENT) {
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	v.Source = p.Location()
	return v
}

func (p *Parser) errorf(condition string, format string, v ...interface{}) *lisp.LVal {
	err := lisp.ErrorConditionf(condition, format, v...)
	err.Source = p.Location()
	return err
}

func (p *Parser) errorAt(loc *token.Location, condition string, format string, v ...interface{}) *lisp.LVal {
	err := lisp.ErrorConditionf(condition, format, v...)
	err.Source = loc
	return err
}

// scanError classifies an ERROR token by its text so that an unterminated
// string literal surfaces its own condition.
func (p *Parser) scanError(text string) *lisp.LVal {
	if strings.HasPrefix(text, lexer.UnterminatedString) {
		return p.errorf(lisp.ErrUnterminatedString, "%s", text)
	}
	return p.errorf(lisp.ErrScan, "%s", text)
}
