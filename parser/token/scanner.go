// Copyright © 2025 The slip authors

package token

import (
	"io"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream.  The whole
// stream is buffered up front because slip source is parsed eagerly, never
// streamed -- REPL input arrives one line at a time, each line scanned by a
// fresh Scanner.
type Scanner struct {
	file    string
	buf     []byte
	readErr error

	start        int // start of the current token
	next         int // index of the next rune to scan
	startLine    int // line number at start
	startCol     int // column number at start
	line         int // line number at next
	col          int // column number at next
}

// NewScanner initializes and returns a new Scanner that reads all of r.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	return &Scanner{
		file:      file,
		buf:       buf,
		readErr:   err,
		startLine: 1,
		startCol:  1,
		line:      1,
		col:       1,
	}
}

// Err returns an error encountered reading the input stream, if any.
func (s *Scanner) Err() error {
	return s.readErr
}

// EOF returns true once all input has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.buf)
}

// Peek returns the next rune to be scanned without consuming it.  The second
// return value is false at EOF.
func (s *Scanner) Peek() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c, _ := utf8.DecodeRune(s.buf[s.next:])
	return c, true
}

// Accept consumes the next rune if fn approves of it.
func (s *Scanner) Accept(fn func(rune) bool) bool {
	c, ok := s.Peek()
	if !ok || !fn(c) {
		return false
	}
	s.scanRune()
	return true
}

// AcceptRune consumes the next rune if it equals c.
func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(next rune) bool { return next == c })
}

// AcceptSeq consumes a maximal run of runes approved by fn and returns the
// number of runes consumed.
func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	n := 0
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) scanRune() {
	c, n := utf8.DecodeRune(s.buf[s.next:])
	s.next += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

// Text returns the text scanned since the last call to either EmitToken or
// Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// LocStart returns the location of the first byte of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// EmitToken returns a token containing the text scanned since the last call
// to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}
