// Package eval computes the native values of console tokens.
package eval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"nickandperla.net/devcon/internal/script"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
)

// Ambient supplies host state to evaluation.
type Ambient interface {
	// Shortcut resolves a lowercase word such as "self.pos" to a live value.
	Shortcut(name string) (any, bool)
	// Bindings returns the named values visible inside code blocks.
	// It is called once per evaluation.
	Bindings() map[string]any
	// Modules returns helpers installed in every code block scope.
	Modules() map[string]any
}

// Sink receives evaluation output and failures.
type Sink interface {
	PrintLine(text string)
	PrintError(text string)
	PrintDebug(text string)
}

// literalWords maps fixed spellings to booleans.
var literalWords = map[string]bool{
	"true":    true,
	"on":      true,
	"enable":  true,
	"false":   false,
	"off":     false,
	"disable": false,
}

// Evaluator computes native values for tokens. Code blocks are compiled
// and run through a script.Runner.
type Evaluator struct {
	runner  script.Runner
	ambient Ambient
	sink    Sink
	log     zerolog.Logger
	timeout time.Duration
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRunner sets the compile-and-run service for code blocks.
func WithRunner(r script.Runner) Option {
	return func(e *Evaluator) { e.runner = r }
}

// WithAmbient sets the host state provider.
func WithAmbient(a Ambient) Option {
	return func(e *Evaluator) { e.ambient = a }
}

// WithSink sets where evaluation failures are reported.
func WithSink(s Sink) Option {
	return func(e *Evaluator) { e.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithTimeout bounds a single code block evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		sink:    discard{},
		log:     zerolog.Nop(),
		timeout: script.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		e.runner = script.NewGoja(script.WithGojaTimeout(e.timeout))
	}
	return e
}

// SetSink changes where evaluation failures are reported.
func (e *Evaluator) SetSink(s Sink) {
	e.sink = s
}

// Resolve returns the native value of t. Evaluation failures are reported
// to the sink and yield value.Nil; they never propagate.
func (e *Evaluator) Resolve(t *token.Token) value.Value {
	switch t.Kind {
	case token.Word:
		return e.Word(t.Text)
	case token.Number:
		return token.ParseNumber(t.Text)
	case token.CodeBlock:
		v, err := e.Code(context.Background(), t.Text)
		if err != nil {
			e.log.Debug().Err(err).Str("pos", t.Pos.String()).Msg("code block failed")
			e.sink.PrintError(err.Error())
			return value.Nil
		}
		return v
	}
	return value.NewString(t.Text)
}

// Word coerces a bare word: boolean spellings, then ambient shortcuts,
// then the word itself.
func (e *Evaluator) Word(text string) value.Value {
	lower := strings.ToLower(text)
	if b, ok := literalWords[lower]; ok {
		return value.NewBool(b)
	}
	if e.ambient != nil {
		if x, ok := e.ambient.Shortcut(lower); ok {
			return value.FromGo(x)
		}
	}
	return value.NewString(text)
}

// Code compiles and runs src once against a fresh binding environment.
func (e *Evaluator) Code(ctx context.Context, src string) (v value.Value, err error) {
	env := script.Env{Print: e.sink.PrintLine}
	if e.ambient != nil {
		env.Bindings = e.ambient.Bindings()
		env.Modules = e.ambient.Modules()
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// A custom runner may panic; treat that like a runtime exception.
	defer func() {
		if r := recover(); r != nil {
			v, err = value.Nil, &script.RuntimeError{Message: fmt.Sprint(r)}
		}
	}()

	start := time.Now()
	res, err := e.runner.Run(ctx, src, env)
	e.log.Debug().Str("src", src).Dur("took", time.Since(start)).Err(err).Msg("code block evaluated")
	if err != nil {
		return value.Nil, err
	}
	return value.FromGo(res), nil
}

type discard struct{}

func (discard) PrintLine(string)  {}
func (discard) PrintError(string) {}
func (discard) PrintDebug(string) {}
