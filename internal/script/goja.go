package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/pkg/errors"
)

// The function wrapper lets fragments use return. The header stays on the
// first line so only first-line columns need adjusting.
const (
	wrapHeader = "(function() {"
	wrapFooter = "\n})()"
)

// DefaultTimeout bounds a single run when no timeout is configured.
const DefaultTimeout = 2 * time.Second

// Goja runs fragments as ECMAScript in a fresh goja runtime per call.
type Goja struct {
	timeout time.Duration
	name    string
}

// GojaOption configures a Goja runner.
type GojaOption func(*Goja)

// WithGojaTimeout sets the bound for compiling and running one fragment.
// Zero disables the bound.
func WithGojaTimeout(d time.Duration) GojaOption {
	return func(g *Goja) { g.timeout = d }
}

// NewGoja creates a goja-backed runner.
func NewGoja(opts ...GojaOption) *Goja {
	g := &Goja{
		timeout: DefaultTimeout,
		name:    "codeblock",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run compiles src and runs it once against env.
func (g *Goja) Run(ctx context.Context, src string, env Env) (result any, err error) {
	prog, err := g.compile(src)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	if err := g.install(vm, env); err != nil {
		return nil, err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	// Host methods may panic; a fragment must never take the console down.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &RuntimeError{Message: fmt.Sprint(r)}
		}
	}()

	v, err := vm.RunProgram(prog)
	if err != nil {
		return nil, g.runError(ctx, err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// Check compiles src without running it.
func (g *Goja) Check(src string) error {
	_, err := g.compile(src)
	return err
}

// compile parses src as a plain script first, so bare expressions yield
// their value. Fragments that only parse inside a function body (for
// example those using return) are wrapped.
func (g *Goja) compile(src string) (*goja.Program, error) {
	_, plainErr := parser.ParseFile(nil, g.name, src, 0)
	if plainErr == nil {
		return g.compileProgram(src)
	}

	wrapped := wrapHeader + src + wrapFooter
	_, wrappedErr := parser.ParseFile(nil, g.name, wrapped, 0)
	if wrappedErr == nil {
		return g.compileProgram(wrapped)
	}

	// The fragment's own errors win. The wrapped parse only explains
	// fragments whose sole complaint is a top-level return.
	for _, e := range parseErrors(plainErr) {
		if e.Message != illegalReturn {
			return nil, &CompileError{Message: e.Message, Line: e.Position.Line, Column: e.Position.Column}
		}
	}
	if list := parseErrors(wrappedErr); len(list) > 0 {
		return nil, unwrapped(list[0], src)
	}
	return nil, &CompileError{Message: wrappedErr.Error()}
}

const (
	illegalReturn = "Illegal return statement"
	unexpectedEnd = "Unexpected end of input"
)

func (g *Goja) compileProgram(src string) (*goja.Program, error) {
	prog, err := goja.Compile(g.name, src, false)
	if err != nil {
		var syntax *goja.CompilerSyntaxError
		if errors.As(err, &syntax) {
			return nil, &CompileError{Message: syntax.Message}
		}
		return nil, &CompileError{Message: err.Error()}
	}
	return prog, nil
}

func parseErrors(err error) parser.ErrorList {
	var list parser.ErrorList
	if errors.As(err, &list) {
		return list
	}
	var single *parser.Error
	if errors.As(err, &single) {
		return parser.ErrorList{single}
	}
	return nil
}

// unwrapped positions an error from the wrapped parse in src. Errors that
// land in the wrapper's footer mean src ended early; they are reported at
// the end of src.
func unwrapped(e *parser.Error, src string) *CompileError {
	lines := strings.Split(src, "\n")
	line, col := e.Position.Line, e.Position.Column
	if line == 1 {
		col -= len(wrapHeader)
	}
	msg := e.Message
	if line > len(lines) {
		line = len(lines)
		col = len(lines[line-1]) + 1
		msg = unexpectedEnd
	}
	if end := len(lines[line-1]) + 1; col > end {
		col = end
	}
	if col < 1 {
		col = 1
	}
	return &CompileError{Message: msg, Line: line, Column: col}
}

func (g *Goja) runError(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{After: g.timeout}
		}
		return &RuntimeError{Message: "interrupted"}
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		if v := exc.Value(); v != nil {
			return &RuntimeError{Message: v.String()}
		}
		return &RuntimeError{Message: exc.Error()}
	}
	return &RuntimeError{Message: err.Error()}
}

// install exposes env to vm: modules first, then bindings, then print.
func (g *Goja) install(vm *goja.Runtime, env Env) error {
	for name, m := range env.Modules {
		var err error
		if c, ok := m.(Constructor); ok {
			err = vm.Set(name, g.constructor(vm, c))
		} else {
			err = vm.Set(name, m)
		}
		if err != nil {
			return errors.Wrapf(err, "install module %s", name)
		}
	}
	for name, v := range env.Bindings {
		if err := vm.Set(name, v); err != nil {
			return errors.Wrapf(err, "install binding %s", name)
		}
	}

	out := env.Print
	if out == nil {
		out = func(string) {}
	}
	err := vm.Set("print", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		out(strings.Join(parts, " "))
		return goja.Undefined()
	})
	return errors.Wrap(err, "install print")
}

func (g *Goja) constructor(vm *goja.Runtime, c Constructor) func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		args := make([]any, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a.Export()
		}
		return vm.ToValue(c(args)).ToObject(vm)
	}
}
