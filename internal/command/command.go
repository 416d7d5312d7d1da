// Package command defines console commands, their argument shapes, and
// the registry they are looked up in.
package command

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
)

// Dispatch failures.
var (
	ErrNotFound         = errors.New("command not found")
	ErrArgumentsInvalid = errors.New("arguments not valid for command")
	ErrMalformed        = errors.New("malformed command line")
)

// NoMatch is returned by Match when no shape accepts the arguments.
const NoMatch = -1

// Handler runs a matched command. shape is the index of the matched shape.
type Handler func(name string, args []*token.Token, shape int) error

// Param is one declared argument.
type Param struct {
	Name        string
	Description string
	Type        value.Type
}

// Arg creates a Param.
func Arg(name, description string, typ value.Type) Param {
	return Param{Name: name, Description: description, Type: typ}
}

// Shape is one accepted argument list.
type Shape []Param

// Matches reports whether args fit s by arity and per-position category.
func (s Shape) Matches(args []*token.Token) bool {
	if len(s) != len(args) {
		return false
	}
	for i, p := range s {
		if !p.Type.Accepts(args[i].Value()) {
			return false
		}
	}
	return true
}

// Usage renders s like "tp <real x> <real y> <real z>".
func (s Shape) Usage(name string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, p := range s {
		fmt.Fprintf(&b, " <%s %s>", p.Type, p.Name)
	}
	return b.String()
}

// Command is a named entry in the registry.
type Command struct {
	Name        string
	Description string
	Shapes      []Shape
	Handler     Handler
}

// New creates a command. It panics on an empty name, a name containing
// whitespace, or a nil handler.
func New(name, description string, h Handler, shapes ...Shape) *Command {
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		panic(fmt.Sprintf("command: invalid name %q", name))
	}
	if h == nil {
		panic(fmt.Sprintf("command: nil handler for %q", name))
	}
	return &Command{
		Name:        name,
		Description: description,
		Shapes:      shapes,
		Handler:     h,
	}
}

// AddShape appends a shape and returns its index.
func (c *Command) AddShape(params ...Param) int {
	c.Shapes = append(c.Shapes, Shape(params))
	return len(c.Shapes) - 1
}

// Match returns the index of the first shape, in declaration order, that
// accepts args, or NoMatch. A command with no shapes accepts only an
// empty argument list.
func (c *Command) Match(args []*token.Token) int {
	if len(c.Shapes) == 0 {
		if len(args) == 0 {
			return 0
		}
		return NoMatch
	}
	for i, s := range c.Shapes {
		if s.Matches(args) {
			return i
		}
	}
	return NoMatch
}

// Usage returns one line per shape. A command without shapes yields its
// bare name.
func (c *Command) Usage() []string {
	if len(c.Shapes) == 0 {
		return []string{c.Name}
	}
	lines := make([]string, len(c.Shapes))
	for i, s := range c.Shapes {
		lines[i] = s.Usage(c.Name)
	}
	return lines
}
