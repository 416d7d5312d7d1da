package devcon

import (
	"nickandperla.net/devcon/internal/command"
	"nickandperla.net/devcon/internal/console"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
)

// Command is a named console command with its argument shapes.
type Command = command.Command

// Param is one declared command argument.
type Param = command.Param

// Shape is one accepted argument list.
type Shape = command.Shape

// Handler runs a matched command.
type Handler = command.Handler

// Token is one lexical unit of an input line.
type Token = token.Token

// Value is the native value of a token.
type Value = value.Value

// Type is a declared parameter type.
type Type = value.Type

// Output is a console output sink.
type Output = console.Output

// Parameter types.
const (
	Bool   = value.Bool
	Int    = value.Int
	Real   = value.Real
	String = value.String
	Handle = value.Handle
	Any    = value.Any
)

// Dispatch failures, checked with errors.Is.
var (
	ErrNotFound         = command.ErrNotFound
	ErrArgumentsInvalid = command.ErrArgumentsInvalid
	ErrMalformed        = command.ErrMalformed
)

// NoMatch is the shape index when no shape accepts the arguments.
const NoMatch = command.NoMatch

// NewCommand creates a command. It panics on an invalid name or a nil handler.
func NewCommand(name, description string, h Handler, shapes ...Shape) *Command {
	return command.New(name, description, h, shapes...)
}

// Arg declares a command argument.
func Arg(name, description string, typ Type) Param {
	return command.Arg(name, description, typ)
}
