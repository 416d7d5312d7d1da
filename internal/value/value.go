// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value defines the native values produced by evaluating console tokens.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Type is the runtime type of a Value.
type Type int

const (
	Null Type = iota
	Bool
	Int
	Real
	String
	Handle

	// Any is only meaningful as a declared parameter type: it accepts
	// every value, including Null.
	Any
)

// String returns the lowercase name used in usage lines.
func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Real:
		return "real"
	case String:
		return "string"
	case Handle:
		return "handle"
	case Any:
		return "any"
	}
	return "unknown"
}

// Category is the coarse grouping used when matching values to parameters.
type Category int

const (
	CategoryNone Category = iota
	CategoryBoolean
	CategoryNumeric
	CategoryString
	CategoryObject
)

// Category returns the coarse category of t. Int and Real share one.
func (t Type) Category() Category {
	switch t {
	case Bool:
		return CategoryBoolean
	case Int, Real:
		return CategoryNumeric
	case String:
		return CategoryString
	case Handle:
		return CategoryObject
	}
	return CategoryNone
}

// Accepts reports whether a parameter declared as t accepts v.
func (t Type) Accepts(v Value) bool {
	if t == Any {
		return true
	}
	c := t.Category()
	return c != CategoryNone && c == v.Type().Category()
}

// Value is a tagged variant over the native console types.
// The zero Value is Null.
type Value struct {
	typ Type
	b   bool
	i   int64
	f   float64
	s   string
	h   any
}

// Nil is the null value returned for failed or side-effect-only evaluations.
var Nil = Value{}

func NewBool(b bool) Value { return Value{typ: Bool, b: b} }
func NewInt(i int64) Value { return Value{typ: Int, i: i} }
func NewReal(f float64) Value { return Value{typ: Real, f: f} }
func NewString(s string) Value { return Value{typ: String, s: s} }

// NewHandle wraps an opaque host object. A nil object yields Nil.
func NewHandle(h any) Value {
	if h == nil {
		return Nil
	}
	return Value{typ: Handle, h: h}
}

// Type returns the runtime type of v.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.typ == Null }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.typ == Bool
}

// Int returns v as an integer. Reals are truncated.
func (v Value) Int() (int64, bool) {
	switch v.typ {
	case Int:
		return v.i, true
	case Real:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return 0, false
		}
		return int64(v.f), true
	}
	return 0, false
}

// Real returns v as a float. Integers are widened.
func (v Value) Real() (float64, bool) {
	switch v.typ {
	case Int:
		return float64(v.i), true
	case Real:
		return v.f, true
	}
	return 0, false
}

// Str returns the string held by v. Use String for display text.
func (v Value) Str() (string, bool) {
	return v.s, v.typ == String
}

// Handle returns the host object held by v.
func (v Value) Handle() (any, bool) {
	return v.h, v.typ == Handle
}

// Interface returns the Go value held by v, or nil for Null.
func (v Value) Interface() any {
	switch v.typ {
	case Bool:
		return v.b
	case Int:
		return v.i
	case Real:
		return v.f
	case String:
		return v.s
	case Handle:
		return v.h
	}
	return nil
}

// String formats v for console display.
func (v Value) String() string {
	switch v.typ {
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Real:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case String:
		return v.s
	case Handle:
		if s, ok := v.h.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%v", v.h)
	}
	return "null"
}

// FromGo converts a Go value into a Value. Unknown types become handles.
func FromGo(x any) Value {
	switch x := x.(type) {
	case nil:
		return Nil
	case Value:
		return x
	case bool:
		return NewBool(x)
	case int:
		return NewInt(int64(x))
	case int8:
		return NewInt(int64(x))
	case int16:
		return NewInt(int64(x))
	case int32:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case uint:
		return NewInt(int64(x))
	case uint8:
		return NewInt(int64(x))
	case uint16:
		return NewInt(int64(x))
	case uint32:
		return NewInt(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return NewReal(float64(x))
		}
		return NewInt(int64(x))
	case float32:
		return NewReal(float64(x))
	case float64:
		return NewReal(x)
	case string:
		return NewString(x)
	}
	return NewHandle(x)
}
