// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package console resolves input lines into command invocations.
package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"nickandperla.net/devcon/internal/command"
	"nickandperla.net/devcon/internal/eval"
	"nickandperla.net/devcon/internal/scanner"
	"nickandperla.net/devcon/internal/store"
	"nickandperla.net/devcon/internal/token"
)

// DefaultPrompt is echoed before each submitted line.
const DefaultPrompt = "--> "

// DefaultHistoryLimit bounds the stored history.
const DefaultHistoryLimit = 500

// Console owns a command registry and dispatches lines against it. Dispatch
// calls are serialized; a command handler must not call back into Dispatch.
type Console struct {
	mu           sync.Mutex
	registry     *command.Registry
	eval         *eval.Evaluator
	out          Output
	history      store.Store
	historyLimit int
	session      string
	prompt       string
	echo         bool
	log          zerolog.Logger
}

// Option configures a Console.
type Option func(*Console)

// WithRegistry sets the command registry.
func WithRegistry(r *command.Registry) Option {
	return func(c *Console) { c.registry = r }
}

// WithEvaluator sets the token evaluator. Its sink is left unchanged.
func WithEvaluator(e *eval.Evaluator) Option {
	return func(c *Console) { c.eval = e }
}

// WithOutput sets the output sink.
func WithOutput(o Output) Option {
	return func(c *Console) { c.out = o }
}

// WithHistory records submitted lines in s, keeping at most limit entries.
func WithHistory(s store.Store, limit int) Option {
	return func(c *Console) {
		c.history = s
		c.historyLimit = limit
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Console) { c.log = l }
}

// WithPrompt sets the prompt echoed by Submit.
func WithPrompt(p string) Option {
	return func(c *Console) { c.prompt = p }
}

// WithSession sets the session id stored with history entries.
func WithSession(id string) Option {
	return func(c *Console) { c.session = id }
}

// New creates a console.
func New(opts ...Option) *Console {
	c := &Console{
		out:          NewScrollback(DefaultNumLines),
		prompt:       DefaultPrompt,
		echo:         true,
		historyLimit: DefaultHistoryLimit,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = command.NewRegistry()
	}
	if c.eval == nil {
		c.eval = eval.New(eval.WithSink(c.out), eval.WithLogger(c.log))
	}
	if c.session == "" {
		c.session = uuid.NewString()
	}
	return c
}

// Registry returns the command registry.
func (c *Console) Registry() *command.Registry { return c.registry }

// Output returns the output sink.
func (c *Console) Output() Output { return c.out }

// SetEcho controls whether Submit prints the prompt and line.
func (c *Console) SetEcho(on bool) {
	c.mu.Lock()
	c.echo = on
	c.mu.Unlock()
}

// Session returns the session id.
func (c *Console) Session() string { return c.session }

// Prompt returns the prompt string.
func (c *Console) Prompt() string { return c.prompt }

// Register adds cmd to the registry. See command.Registry.Register.
func (c *Console) Register(cmd *command.Command, overwrite bool) bool {
	ok := c.registry.Register(cmd, overwrite)
	if !ok {
		c.log.Debug().Str("command", cmd.Name).Msg("registration refused")
	}
	return ok
}

// Tokens splits line into argument-bound tokens.
func (c *Console) Tokens(line string) []*token.Token {
	toks := scanner.Tokenize(line)
	for _, t := range toks {
		t.Bind(c.eval)
		c.log.Debug().Str("kind", t.Kind.String()).Str("text", t.Text).Str("pos", t.Pos.String()).Msg("Found token")
		c.out.PrintDebug(fmt.Sprintf("Found token -> %s : %s", t.Kind, t.Text))
	}
	return toks
}

// Dispatch resolves line to one command and invokes it. Resolution failures
// print exactly one message and return command.ErrMalformed,
// command.ErrNotFound or command.ErrArgumentsInvalid. A handler's error is
// returned as is and not printed.
func (c *Console) Dispatch(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	toks := c.Tokens(line)
	if len(toks) == 0 {
		c.out.PrintError("No command given")
		return errors.Wrap(command.ErrMalformed, "empty line")
	}
	if toks[0].Kind != token.Word {
		c.out.PrintError(fmt.Sprintf("Expected a command name, got %s '%s'", toks[0].Kind, toks[0].Text))
		return errors.Wrapf(command.ErrMalformed, "leading %s", toks[0].Kind)
	}

	name, args := toks[0].Text, toks[1:]
	cmd, ok := c.registry.Lookup(name)
	if !ok {
		msg := fmt.Sprintf("Command '%s' not found!", name)
		if s := c.suggest(name); s != "" {
			msg += fmt.Sprintf(" Did you mean '%s'?", s)
		}
		c.out.PrintError(msg)
		return errors.Wrap(command.ErrNotFound, name)
	}

	shape := cmd.Match(args)
	if shape == command.NoMatch {
		c.out.PrintError(fmt.Sprintf("Provided arguments are not valid for command '%s'", name))
		c.printCommandInfo(cmd)
		return errors.Wrap(command.ErrArgumentsInvalid, name)
	}

	c.log.Debug().Str("command", name).Int("shape", shape).Int("args", len(args)).Msg("dispatch")
	return cmd.Handler(name, args, shape)
}

// Submit echoes line after the prompt when echo is on, records it in
// history and dispatches it. Blank lines are ignored.
func (c *Console) Submit(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	c.mu.Lock()
	echo := c.echo
	c.mu.Unlock()
	if echo {
		c.out.PrintLineStyle(c.prompt+line, Muted)
	}
	if c.history != nil {
		if _, err := c.history.Append(line, c.session); err != nil {
			c.log.Warn().Err(err).Msg("history append failed")
		} else if c.historyLimit > 0 {
			if err := c.history.Prune(c.historyLimit); err != nil {
				c.log.Warn().Err(err).Msg("history prune failed")
			}
		}
	}
	return c.Dispatch(line)
}

// History returns up to limit submitted lines, newest first.
func (c *Console) History(limit int) ([]store.Entry, error) {
	if c.history == nil {
		return nil, nil
	}
	return c.history.Recent(limit)
}

// ClearHistory removes every stored line.
func (c *Console) ClearHistory() error {
	if c.history == nil {
		return nil
	}
	return c.history.Clear()
}

// PrintCommandInfo prints name, description and usage of the named
// command. It reports false if no such command exists.
func (c *Console) PrintCommandInfo(name string) bool {
	cmd, ok := c.registry.Lookup(name)
	if !ok {
		return false
	}
	c.printCommandInfo(cmd)
	return true
}

func (c *Console) printCommandInfo(cmd *command.Command) {
	c.out.PrintLineStyle("Command: "+cmd.Name, Highlight)
	if cmd.Description != "" {
		c.out.PrintLine("Description: " + cmd.Description)
	}
	for _, u := range cmd.Usage() {
		c.out.PrintLine("  " + u)
	}
}

// Clear clears the output if it supports clearing.
func (c *Console) Clear() {
	if cl, ok := c.out.(interface{ Clear() }); ok {
		cl.Clear()
	}
}

// suggest returns the closest registered name to name, or "".
func (c *Console) suggest(name string) string {
	names := c.registry.Names()
	if ranks := fuzzy.RankFindFold(name, names); len(ranks) > 0 {
		best := ranks[0]
		for _, r := range ranks[1:] {
			if r.Distance < best.Distance {
				best = r
			}
		}
		return best.Target
	}
	best, bestDist := "", 3
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(n)); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
