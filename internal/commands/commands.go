// Package commands provides the default console command set. Every command
// is built by its own constructor so hosts can register any subset.
package commands

import (
	"nickandperla.net/devcon/internal/command"
	"nickandperla.net/devcon/internal/console"
	"nickandperla.net/devcon/internal/store"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
)

// Host is the console surface the built-in commands act on.
// *console.Console implements it.
type Host interface {
	Output() console.Output
	Registry() *command.Registry
	PrintCommandInfo(name string) bool
	Clear()
	History(limit int) ([]store.Entry, error)
	ClearHistory() error
}

// Registrar accepts commands.
type Registrar interface {
	Register(c *command.Command, overwrite bool) bool
}

// Register adds every command to r without overwriting. It returns the
// names that were already taken.
func Register(r Registrar, cmds ...*command.Command) []string {
	var skipped []string
	for _, c := range cmds {
		if !r.Register(c, false) {
			skipped = append(skipped, c.Name)
		}
	}
	return skipped
}

// Builtins returns the console commands that need no world.
func Builtins(h Host) []*command.Command {
	return []*command.Command{
		Help(h),
		Man(h),
		Clear(h),
		CS(h),
		Echo(h),
		Dump(h),
		History(h),
	}
}

func str(t *token.Token) string {
	return t.Value().String()
}

func num(t *token.Token) float64 {
	v := t.Value()
	if f, ok := v.Real(); ok {
		return f
	}
	if i, ok := v.Int(); ok {
		return float64(i)
	}
	return 0
}

func boolean(t *token.Token) bool {
	b, _ := t.Value().Bool()
	return b
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// anyShapes returns shapes of one to n arguments of any type.
func anyShapes(n int) []command.Shape {
	shapes := make([]command.Shape, n)
	for i := range shapes {
		for j := 0; j <= i; j++ {
			shapes[i] = append(shapes[i], command.Arg("value", "Any value", value.Any))
		}
	}
	return shapes
}
