// Package devcon provides the public API for the developer console.
package devcon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"nickandperla.net/devcon/internal/command"
	"nickandperla.net/devcon/internal/commands"
	"nickandperla.net/devcon/internal/console"
	"nickandperla.net/devcon/internal/eval"
	"nickandperla.net/devcon/internal/script"
	"nickandperla.net/devcon/internal/store"
	"nickandperla.net/devcon/internal/world"
)

// Runtime is one attached console instance. Create it with New when the
// host attaches and Close it when the host detaches.
type Runtime struct {
	console      *console.Console
	evaluator    *eval.Evaluator
	scrollback   *console.Scrollback
	world        *world.World
	history      store.Store
	historyLimit int
	outputs      []console.Output
	writers      []io.Writer
	color        *bool
	timeout      time.Duration
	runner       script.Runner
	ambient      eval.Ambient
	log          zerolog.Logger
	debug        bool
	prompt       string
	numLines     int
	noDefaults   bool
	startup      string
	worldName    string
	attach       []func(*Runtime)
	detach       []func(*Runtime)
	initErr      error
	idleWarned   bool
}

// New creates and attaches a runtime with the given options.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		timeout:      script.DefaultTimeout,
		historyLimit: console.DefaultHistoryLimit,
		prompt:       console.DefaultPrompt,
		numLines:     console.DefaultNumLines,
		startup:      DefaultStartup,
		log:          zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.initErr != nil {
		if r.history != nil {
			r.history.Close()
		}
		return nil, errors.Wrap(r.initErr, "devcon: init")
	}

	// Sinks: scrollback always, then any configured outputs
	r.scrollback = console.NewScrollback(r.numLines)
	r.scrollback.SetDebug(r.debug)
	sinks := console.Multi{r.scrollback}
	for _, w := range r.writers {
		topts := []console.TerminalOption{console.WithDebug(r.debug)}
		if r.color != nil {
			topts = append(topts, console.WithColor(*r.color))
		}
		sinks = append(sinks, console.NewTerminal(w, topts...))
	}
	sinks = append(sinks, r.outputs...)

	if r.worldName != "" {
		r.world = world.New(r.worldName, world.WithLogger(r.log))
		if r.ambient == nil {
			r.ambient = r.world
		}
	}

	evalOpts := []eval.Option{
		eval.WithSink(sinks),
		eval.WithLogger(r.log),
		eval.WithTimeout(r.timeout),
	}
	if r.runner != nil {
		evalOpts = append(evalOpts, eval.WithRunner(r.runner))
	}
	if r.ambient != nil {
		evalOpts = append(evalOpts, eval.WithAmbient(r.ambient))
	}
	r.evaluator = eval.New(evalOpts...)

	conOpts := []console.Option{
		console.WithOutput(sinks),
		console.WithEvaluator(r.evaluator),
		console.WithLogger(r.log),
		console.WithPrompt(r.prompt),
	}
	if r.history != nil {
		conOpts = append(conOpts, console.WithHistory(r.history, r.historyLimit))
	}
	r.console = console.New(conOpts...)

	if !r.noDefaults {
		commands.Register(r.console, commands.Builtins(r.console)...)
	}
	if r.world != nil {
		commands.Register(r.console, commands.World(r.console, r.world)...)
	}
	for _, fn := range r.attach {
		fn(r)
	}

	r.log.Debug().Str("session", r.console.Session()).Int("commands", r.console.Registry().Len()).Msg("attached")
	r.runStartup()
	return r, nil
}

// runStartup dispatches the startup lines. Failures are printed, not returned.
func (r *Runtime) runStartup() {
	src := r.startup
	if ms, ok := r.history.(store.MetadataStore); ok {
		if saved, err := ms.GetMetadata(StartupKey); err == nil && strings.TrimSpace(saved) != "" {
			src = saved
		}
	}
	if strings.TrimSpace(src) == "" {
		return
	}
	r.run(strings.NewReader(src), r.Dispatch)
}

// SaveStartup stores src as the startup lines of future sessions. It
// requires a history store that keeps metadata.
func (r *Runtime) SaveStartup(src string) error {
	ms, ok := r.history.(store.MetadataStore)
	if !ok {
		return errors.New("devcon: history store does not keep metadata")
	}
	return ms.SetMetadata(StartupKey, src)
}

// Console returns the underlying console.
func (r *Runtime) Console() *console.Console {
	return r.console
}

// World returns the attached world, or nil.
func (r *Runtime) World() *world.World {
	return r.world
}

// Output returns the sink every console message goes to.
func (r *Runtime) Output() console.Output {
	return r.console.Output()
}

// Register adds c to the registry. With overwrite false an existing
// command of the same name is kept and Register returns false.
func (r *Runtime) Register(c *Command, overwrite bool) bool {
	return r.console.Register(c, overwrite)
}

// Dispatch resolves and runs one line without echo or history.
func (r *Runtime) Dispatch(line string) error {
	return r.console.Dispatch(line)
}

// Submit echoes line, records it in history and dispatches it. It counts
// as input for the world's idle timeout.
func (r *Runtime) Submit(line string) error {
	if r.world != nil {
		r.world.Touch()
		r.idleWarned = false
	}
	return r.console.Submit(line)
}

// SetEcho controls whether Submit prints the prompt and line.
func (r *Runtime) SetEcho(on bool) {
	r.console.SetEcho(on)
}

// Tick advances the attached world by dt. A warning is printed once when
// the idle timeout elapses.
func (r *Runtime) Tick(dt time.Duration) {
	if r.world == nil {
		return
	}
	r.world.Tick(dt)
	if r.world.IdleExpired() && !r.idleWarned {
		r.idleWarned = true
		r.Output().PrintWarning(fmt.Sprintf("Idle timeout of %s reached", r.world.IdleTimeout()))
	}
}

// RunReader submits every line of reader. A line ending in a backslash
// continues on the next line. Lines starting with '#' are skipped.
// Handler errors are printed; resolution errors were printed by the
// console already. The first failure is returned after all lines run.
func (r *Runtime) RunReader(reader io.Reader) error {
	return r.run(reader, r.Submit)
}

// RunFile submits every line of the file at path.
func (r *Runtime) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "devcon: open")
	}
	defer f.Close()
	return r.RunReader(f)
}

func (r *Runtime) run(reader io.Reader, submit func(string) error) error {
	var (
		first   error
		pending strings.Builder
		lineNo  int
	)
	flush := func() {
		line := pending.String()
		pending.Reset()
		if strings.TrimSpace(line) == "" {
			return
		}
		if err := submit(line); err != nil {
			r.Report(err)
			if first == nil {
				first = errors.Wrapf(err, "line %d", lineNo)
			}
		}
	}

	sc := bufio.NewScanner(reader)
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		if pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}
		if strings.HasSuffix(text, "\\") {
			pending.WriteString(strings.TrimSuffix(text, "\\"))
			pending.WriteByte('\n')
			continue
		}
		pending.WriteString(text)
		flush()
	}
	flush()
	if err := sc.Err(); err != nil && first == nil {
		first = errors.Wrap(err, "devcon: read")
	}
	return first
}

// Report prints err unless the console already did.
func (r *Runtime) Report(err error) {
	if err == nil || IsResolutionError(err) {
		return
	}
	r.Output().PrintError(err.Error())
}

// Lines returns the scrollback, oldest first.
func (r *Runtime) Lines() []string {
	return r.scrollback.Lines()
}

// History returns up to limit submitted lines, newest first.
func (r *Runtime) History(limit int) ([]store.Entry, error) {
	return r.console.History(limit)
}

// Close detaches the runtime and releases the history store.
func (r *Runtime) Close() error {
	for _, fn := range r.detach {
		fn(r)
	}
	if r.history != nil {
		return r.history.Close()
	}
	return nil
}

// IsResolutionError reports whether err is a dispatch failure the console
// has already explained to the user.
func IsResolutionError(err error) bool {
	return errors.Is(err, command.ErrNotFound) ||
		errors.Is(err, command.ErrArgumentsInvalid) ||
		errors.Is(err, command.ErrMalformed)
}
