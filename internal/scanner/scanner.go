// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming Unicode-aware tokenizer for console input.
package scanner

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"nickandperla.net/devcon/internal/token"
)

// Scanner tokenizes console input rune-by-rune with one rune of lookahead.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *token.Token
	line   int // Current line number (1-based)
	col    int // Column of the next rune (1-based)
	trivia bool
	onErr  ErrorHandler
}

// ErrorHandler is told about recovered lexical errors such as an
// unterminated string. Scanning continues after it returns.
type ErrorHandler func(pos token.Pos, msg string)

// Option configures a Scanner.
type Option func(*Scanner)

// WithTrivia makes Next return Whitespace and EndOfLine tokens.
func WithTrivia() Option {
	return func(s *Scanner) { s.trivia = true }
}

// WithErrorHandler reports recovered lexical errors to h.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Scanner) { s.onErr = h }
}

func (s *Scanner) report(pos token.Pos, msg string) {
	if s.onErr != nil {
		s.onErr(pos, msg)
	}
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{
		reader: bufio.NewReader(r),
		line:   1,
		col:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromString creates a new Scanner from a string.
func NewFromString(input string, opts ...Option) *Scanner {
	return New(strings.NewReader(input), opts...)
}

// Line returns the current line number (1-based).
func (s *Scanner) Line() int {
	return s.line
}

// Tokenize returns every significant token of input in order. Trivia and
// the final EndOfInput are dropped.
func Tokenize(input string) []*token.Token {
	// A strings.Reader never fails, so neither can All.
	toks, _ := NewFromString(input).All()
	return toks
}

// All drains the scanner and returns the tokens before EndOfInput.
func (s *Scanner) All() ([]*token.Token, error) {
	var toks []*token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return toks, err
		}
		if tok.Kind == token.EndOfInput {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (*token.Token, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	tok, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = tok
	return tok, nil
}

// Next returns the next token from the input. At end of input it keeps
// returning EndOfInput.
func (s *Scanner) Next() (*token.Token, error) {
	if s.peeked != nil {
		tok := s.peeked
		s.peeked = nil
		return tok, nil
	}
	for {
		tok, err := s.scan()
		if err != nil {
			return nil, err
		}
		if !s.trivia && (tok.Kind == token.Whitespace || tok.Kind == token.EndOfLine) {
			continue
		}
		return tok, nil
	}
}

func (s *Scanner) scan() (*token.Token, error) {
	s.buf.Reset()
	pos := token.Pos{Line: s.line, Column: s.col}

	r, ok, err := s.read()
	if err != nil {
		return nil, err
	}
	if !ok {
		return token.New(token.EndOfInput, "", pos), nil
	}

	switch {
	case r == '\r' || r == '\n':
		text := string(r)
		if r == '\r' {
			if n, ok := s.peekRune(); ok && n == '\n' {
				s.read()
				text = "\r\n"
			}
		}
		return token.New(token.EndOfLine, text, pos), nil

	case isBlank(r):
		s.buf.WriteRune(r)
		for {
			n, ok := s.peekRune()
			if !ok || !isBlank(n) {
				break
			}
			s.read()
			s.buf.WriteRune(n)
		}
		return token.New(token.Whitespace, s.buf.String(), pos), nil

	case r == token.RuneQuote:
		return s.scanString(pos)

	case r == token.RuneBlockOpen:
		return s.scanBlock(pos)
	}

	s.buf.WriteRune(r)
	for {
		n, ok := s.peekRune()
		if !ok || unicode.IsSpace(n) {
			break
		}
		s.read()
		s.buf.WriteRune(n)
	}
	text := s.buf.String()
	if token.IsNumeric(text) {
		return token.New(token.Number, text, pos), nil
	}
	return token.New(token.Word, text, pos), nil
}

// scanString consumes a quoted string after its opening quote. A doubled
// quote is a literal quote. Input ending first yields what was gathered.
func (s *Scanner) scanString(pos token.Pos) (*token.Token, error) {
	for {
		r, ok, err := s.read()
		if err != nil {
			return nil, err
		}
		if !ok {
			s.report(pos, "unterminated string")
			break
		}
		if r == token.RuneQuote {
			if n, ok := s.peekRune(); ok && n == token.RuneQuote {
				s.read()
				s.buf.WriteRune(r)
				continue
			}
			break
		}
		s.buf.WriteRune(r)
	}
	return token.New(token.QuotedString, s.buf.String(), pos), nil
}

// scanBlock consumes a code block after its opening brace. Braces nest, and
// braces inside script string literals are not counted.
func (s *Scanner) scanBlock(pos token.Pos) (*token.Token, error) {
	depth := 1
	var quote rune
	escaped := false

	for {
		r, ok, err := s.read()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			s.buf.WriteRune(r)
			continue
		}

		switch r {
		case '"', '\'', '`':
			quote = r
		case token.RuneBlockOpen:
			depth++
		case token.RuneBlockClose:
			depth--
			if depth == 0 {
				return token.New(token.CodeBlock, s.buf.String(), pos), nil
			}
		}
		s.buf.WriteRune(r)
	}
	s.report(pos, "unterminated code block")
	return token.New(token.CodeBlock, s.buf.String(), pos), nil
}

// read consumes one rune and advances the position. ok is false at EOF.
func (s *Scanner) read() (r rune, ok bool, err error) {
	r, _, err = s.reader.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	switch r {
	case '\n':
		s.newline()
	case '\r':
		// A CR that starts a CRLF pair is counted by the LF.
		if n, ok := s.peekRune(); ok && n == '\n' {
			s.col++
		} else {
			s.newline()
		}
	default:
		s.col++
	}
	return r, true, nil
}

func (s *Scanner) newline() {
	s.line++
	s.col = 1
}

// peekRune returns the next rune without consuming it.
func (s *Scanner) peekRune() (rune, bool) {
	b, _ := s.reader.Peek(utf8.UTFMax)
	if len(b) == 0 {
		return 0, false
	}
	r, _ := utf8.DecodeRune(b)
	return r, true
}

// isBlank returns true for whitespace that is not a line ending.
func isBlank(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}
