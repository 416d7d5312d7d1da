// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines console token kinds and the Token type.
package token

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"nickandperla.net/devcon/internal/value"
)

// Kind represents a console token kind.
type Kind int

const (
	Unknown Kind = iota
	Word
	Number
	QuotedString
	CodeBlock
	Symbol
	Whitespace
	EndOfLine
	EndOfInput
)

// Delimiters for quoted strings and code blocks.
const (
	RuneQuote      = '"'
	RuneBlockOpen  = '{'
	RuneBlockClose = '}'
)

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case Number:
		return "Number"
	case QuotedString:
		return "QuotedString"
	case CodeBlock:
		return "CodeBlock"
	case Symbol:
		return "Symbol"
	case Whitespace:
		return "Whitespace"
	case EndOfLine:
		return "EndOfLine"
	case EndOfInput:
		return "EndOfInput"
	}
	return "Unknown"
}

// IsTrivia returns true for kinds the dispatcher never sees.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, EndOfLine, EndOfInput:
		return true
	}
	return false
}

// Pos is a 1-based line and column.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Resolver computes the native value of a token.
type Resolver interface {
	Resolve(t *Token) value.Value
}

// Token is one lexical unit of an input line. Kind, Text and Pos never
// change after scanning; the native value is computed on first use and
// cached for the token's lifetime.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos

	resolver Resolver
	once     sync.Once
	val      value.Value
}

// New creates a token.
func New(kind Kind, text string, pos Pos) *Token {
	return &Token{Kind: kind, Text: text, Pos: pos}
}

// Bind attaches the resolver used to evaluate the token. It has no effect
// once the value has been read.
func (t *Token) Bind(r Resolver) *Token {
	t.resolver = r
	return t
}

// Value returns the token's native value, evaluating it at most once.
func (t *Token) Value() value.Value {
	t.once.Do(func() {
		if t.resolver != nil {
			t.val = t.resolver.Resolve(t)
		} else {
			t.val = Literal(t)
		}
	})
	return t.val
}

// Type returns the runtime type of the token's value.
func (t *Token) Type() value.Type {
	return t.Value().Type()
}

// String returns a diagnostic form like Word("tp")@1:1.
func (t *Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Pos)
}

// Literal is the value of a token without any evaluator: numbers are
// parsed, everything else is its text.
func Literal(t *Token) value.Value {
	if t.Kind == Number {
		return ParseNumber(t.Text)
	}
	return value.NewString(t.Text)
}

// ParseNumber converts numeric text to Int, or to Real when the text
// contains a decimal point or does not fit in an int64.
func ParseNumber(s string) value.Value {
	if !strings.Contains(s, ".") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.NewInt(i)
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.NewReal(f)
	}
	return value.NewString(s)
}

// IsNumeric reports whether s is an optional '-' followed by digits with
// at most one '.'. At least one digit is required.
func IsNumeric(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}
