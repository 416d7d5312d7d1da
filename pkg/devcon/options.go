package devcon

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"nickandperla.net/devcon/internal/console"
	"nickandperla.net/devcon/internal/eval"
	"nickandperla.net/devcon/internal/script"
	"nickandperla.net/devcon/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteHistory records submitted lines in a SQLite database at path.
func WithSQLiteHistory(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.initErr = err
			return
		}
		r.setHistory(s)
	}
}

// WithMemoryHistory keeps submitted lines in memory (for testing).
func WithMemoryHistory() Option {
	return func(r *Runtime) {
		r.setHistory(store.NewMemory())
	}
}

// WithHistory uses a caller-supplied history store. The runtime closes it.
func WithHistory(s store.Store) Option {
	return func(r *Runtime) {
		r.setHistory(s)
	}
}

// setHistory replaces the history store, closing the one it replaces.
func (r *Runtime) setHistory(s store.Store) {
	if r.history != nil && r.history != s {
		if err := r.history.Close(); err != nil {
			r.log.Warn().Err(err).Msg("closing replaced history store")
		}
	}
	r.history = s
}

// WithHistoryLimit bounds the stored history.
func WithHistoryLimit(n int) Option {
	return func(r *Runtime) {
		r.historyLimit = n
	}
}

// WithOutput adds a sink that receives everything the console prints.
func WithOutput(o console.Output) Option {
	return func(r *Runtime) {
		r.outputs = append(r.outputs, o)
	}
}

// WithWriter prints console output to w with terminal styling.
func WithWriter(w io.Writer) Option {
	return func(r *Runtime) {
		r.writers = append(r.writers, w)
	}
}

// WithColor forces colored output on or off for WithWriter sinks.
func WithColor(on bool) Option {
	return func(r *Runtime) {
		r.color = &on
	}
}

// WithTimeout bounds a single code block evaluation.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// WithRunner replaces the code block runner.
func WithRunner(runner script.Runner) Option {
	return func(r *Runtime) {
		r.runner = runner
	}
}

// WithMockRunner configures a runner that returns result for every code
// block (for testing).
func WithMockRunner(result any) Option {
	return func(r *Runtime) {
		r.runner = script.NewMock(result)
	}
}

// WithAmbient sets the provider of word shortcuts and code block bindings.
func WithAmbient(a eval.Ambient) Option {
	return func(r *Runtime) {
		r.ambient = a
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runtime) {
		r.log = l
	}
}

// WithDebug enables [Debug] lines on the output sinks.
func WithDebug(on bool) Option {
	return func(r *Runtime) {
		r.debug = on
	}
}

// WithPrompt sets the prompt echoed before submitted lines.
func WithPrompt(p string) Option {
	return func(r *Runtime) {
		r.prompt = p
	}
}

// WithScrollback sets how many lines Lines keeps.
func WithScrollback(n int) Option {
	return func(r *Runtime) {
		r.numLines = n
	}
}

// WithNoDefaults skips registering the built-in console commands.
func WithNoDefaults() Option {
	return func(r *Runtime) {
		r.noDefaults = true
	}
}

// WithStartup sets lines dispatched once the runtime is attached.
// A "startup" entry in the history store's metadata takes precedence.
func WithStartup(source string) Option {
	return func(r *Runtime) {
		r.startup = source
	}
}

// WithWorld attaches a simulated world whose local player is called name.
// It supplies the ambient bindings and registers the world commands.
func WithWorld(name string) Option {
	return func(r *Runtime) {
		r.worldName = name
	}
}

// WithAttach runs fn after the console is built and before startup lines
// run. Hosts use it to register their own commands.
func WithAttach(fn func(*Runtime)) Option {
	return func(r *Runtime) {
		r.attach = append(r.attach, fn)
	}
}

// WithDetach runs fn during Close, before the history store is closed.
func WithDetach(fn func(*Runtime)) Option {
	return func(r *Runtime) {
		r.detach = append(r.detach, fn)
	}
}
