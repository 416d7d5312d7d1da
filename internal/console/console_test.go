package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"nickandperla.net/devcon/internal/command"
	"nickandperla.net/devcon/internal/eval"
	"nickandperla.net/devcon/internal/script"
	"nickandperla.net/devcon/internal/store"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
)

type call struct {
	name  string
	args  []string
	shape int
}

func newTestConsole(t *testing.T, opts ...Option) (*Console, *Scrollback, *[]call) {
	t.Helper()
	sb := NewScrollback(100)
	var calls []call
	record := func(name string, args []*token.Token, shape int) error {
		texts := make([]string, len(args))
		for i, a := range args {
			texts[i] = a.Value().String()
		}
		calls = append(calls, call{name, texts, shape})
		return nil
	}

	tp := command.New("tp", "Teleports you.", record)
	tp.AddShape()
	tp.AddShape(command.Arg("player", "Target player", value.String))
	tp.AddShape(
		command.Arg("x", "", value.Real),
		command.Arg("y", "", value.Real),
		command.Arg("z", "", value.Real),
	)
	god := command.New("god", "Toggles god mode.", record,
		command.Shape{command.Arg("active", "", value.Bool)})
	cs := command.New("cs", "Runs code.", record,
		command.Shape{command.Arg("code", "", value.Any)})

	c := New(append([]Option{WithOutput(sb)}, opts...)...)
	for _, cmd := range []*command.Command{tp, god, cs} {
		if !c.Register(cmd, false) {
			t.Fatalf("failed to register %s", cmd.Name)
		}
	}
	return c, sb, &calls
}

func TestDispatchSelectsShape(t *testing.T) {
	c, _, calls := newTestConsole(t)

	lines := []string{"tp", `tp "Trevor"`, "tp -1.392 100.349 100", "god on"}
	for _, line := range lines {
		if err := c.Dispatch(line); err != nil {
			t.Fatalf("Dispatch(%q) failed: %v", line, err)
		}
	}

	want := []int{0, 1, 2, 0}
	for i, w := range want {
		if (*calls)[i].shape != w {
			t.Errorf("line %q: expected shape %d, got %d", lines[i], w, (*calls)[i].shape)
		}
	}
	if got := (*calls)[3].args[0]; got != "true" {
		t.Errorf("expected 'on' to evaluate to true, got %s", got)
	}
}

func TestDispatchNotFound(t *testing.T) {
	c, sb, calls := newTestConsole(t)

	err := c.Dispatch("gdo on")
	if !errors.Is(err, command.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	lines := sb.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected exactly one message, got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "[Error] Command 'gdo' not found!") {
		t.Errorf("unexpected message: %q", lines[0])
	}
	if !strings.Contains(lines[0], "Did you mean 'god'?") {
		t.Errorf("expected a suggestion, got %q", lines[0])
	}
	if len(*calls) != 0 {
		t.Errorf("expected no handler calls, got %v", *calls)
	}
}

func TestDispatchIsCaseSensitive(t *testing.T) {
	c, _, _ := newTestConsole(t)
	if err := c.Dispatch("GOD on"); !errors.Is(err, command.ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong case, got %v", err)
	}
}

func TestDispatchArgumentsInvalid(t *testing.T) {
	c, sb, calls := newTestConsole(t)

	err := c.Dispatch("tp a b")
	if !errors.Is(err, command.ErrArgumentsInvalid) {
		t.Fatalf("expected ErrArgumentsInvalid, got %v", err)
	}
	want := []string{
		"[Error] Provided arguments are not valid for command 'tp'",
		"Command: tp",
		"Description: Teleports you.",
		"  tp",
		"  tp <string player>",
		"  tp <real x> <real y> <real z>",
	}
	got := sb.Lines()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected output:\n%s", strings.Join(got, "\n"))
	}
	if len(*calls) != 0 {
		t.Errorf("expected no handler calls, got %v", *calls)
	}
}

func TestDispatchMalformed(t *testing.T) {
	c, sb, _ := newTestConsole(t)

	for _, line := range []string{"", "   ", `"tp" 1`, "12 tp", "{code} tp"} {
		sb.Clear()
		err := c.Dispatch(line)
		if !errors.Is(err, command.ErrMalformed) {
			t.Errorf("Dispatch(%q): expected ErrMalformed, got %v", line, err)
		}
		if n := len(sb.Lines()); n != 1 {
			t.Errorf("Dispatch(%q): expected one message, got %d", line, n)
		}
	}
}

func TestDispatchReturnsHandlerError(t *testing.T) {
	c, sb, _ := newTestConsole(t)
	boom := errors.New("boom")
	c.Register(command.New("fail", "", func(string, []*token.Token, int) error {
		return boom
	}), false)

	if err := c.Dispatch("fail"); err != boom {
		t.Errorf("expected handler error unchanged, got %v", err)
	}
	if n := len(sb.Lines()); n != 0 {
		t.Errorf("expected handler error not to be printed, got %v", sb.Lines())
	}
}

func TestEvaluationFailureIsIsolated(t *testing.T) {
	sb := NewScrollback(100)
	runner := script.NewMock(nil)
	runner.Err = &script.CompileError{Message: "Unexpected end of input", Line: 1, Column: 9}
	ev := eval.New(eval.WithRunner(runner), eval.WithSink(sb))
	c, _, calls := newTestConsole(t, WithEvaluator(ev), WithOutput(sb))

	if err := c.Dispatch("cs {return }"); err != nil {
		t.Fatalf("expected dispatch to succeed, got %v", err)
	}
	if len(*calls) != 1 || (*calls)[0].args[0] != "null" {
		t.Errorf("expected handler to see null, got %v", *calls)
	}
	lines := sb.Lines()
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "[Error] compilation failed:") {
		t.Errorf("expected one compilation message, got %v", lines)
	}
}

func TestCodeBlockEvaluatedOnce(t *testing.T) {
	n := 0
	runner := script.NewMockHandler(func(string, script.Env) (any, error) {
		n++
		return true, nil
	})
	c, _, _ := newTestConsole(t, WithEvaluator(eval.New(eval.WithRunner(runner))))

	c.Register(command.New("twice", "", func(_ string, args []*token.Token, _ int) error {
		args[0].Value()
		args[0].Value()
		return nil
	}, command.Shape{command.Arg("v", "", value.Bool)}), false)

	if err := c.Dispatch("twice {side_effect()}"); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected one evaluation, got %d", n)
	}
}

func TestSubmitRecordsHistory(t *testing.T) {
	hist := store.NewMemory()
	c, sb, _ := newTestConsole(t, WithHistory(hist, 2), WithSession("s1"))

	for _, line := range []string{"god on", "", "tp", "nope"} {
		c.Submit(line)
	}

	entries, err := c.History(0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Line != "nope" || entries[1].Line != "tp" {
		t.Errorf("expected pruned newest-first history, got %+v", entries)
	}
	if entries[0].Session != "s1" {
		t.Errorf("expected session s1, got %s", entries[0].Session)
	}
	if sb.Lines()[0] != DefaultPrompt+"god on" {
		t.Errorf("expected echoed prompt line, got %q", sb.Lines()[0])
	}
}

func TestRegisterOverwrite(t *testing.T) {
	c, _, calls := newTestConsole(t)
	replaced := false
	god := command.New("god", "", func(string, []*token.Token, int) error {
		replaced = true
		return nil
	}, command.Shape{command.Arg("active", "", value.Bool)})

	if c.Register(god, false) {
		t.Fatal("expected duplicate registration to fail")
	}
	c.Dispatch("god off")
	if replaced || len(*calls) != 1 {
		t.Error("expected original handler to run")
	}

	if !c.Register(god, true) {
		t.Fatal("expected overwrite to succeed")
	}
	c.Dispatch("god off")
	if !replaced {
		t.Error("expected replacement handler to run")
	}
}

func TestTerminalPrefixes(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, WithColor(false))
	term.PrintWarning("low health")
	term.PrintError("bad")
	term.PrintDebug("hidden")
	term.PrintLineStyle("hi", Success)

	want := "[Warning] low health\n[Error] bad\nhi\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	NewTerminal(&buf, WithColor(false), WithDebug(true)).PrintDebug("shown")
	if buf.String() != "[Debug] shown\n" {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestScrollbackBounds(t *testing.T) {
	sb := NewScrollback(3)
	for _, s := range []string{"a", "b", "c", "d"} {
		sb.PrintLine(s)
	}
	if got := strings.Join(sb.Lines(), ""); got != "bcd" {
		t.Errorf("expected bcd, got %s", got)
	}
	sb.RemoveLastLine()
	if got := strings.Join(sb.Lines(), ""); got != "bc" {
		t.Errorf("expected bc, got %s", got)
	}
	sb.PrintDebug("x")
	if len(sb.Lines()) != 2 {
		t.Error("expected debug line to be dropped")
	}
	sb.Clear()
	if len(sb.Lines()) != 0 {
		t.Error("expected empty scrollback")
	}
}

func TestLineWriter(t *testing.T) {
	sb := NewScrollback(10)
	w := NewLineWriter(Multi{sb}, Plain)
	w.Write([]byte("one\ntw"))
	w.Write([]byte("o\r\nthree"))
	if got := sb.Lines(); len(got) != 2 || got[1] != "two" {
		t.Fatalf("expected two complete lines, got %v", got)
	}
	w.Flush()
	if got := sb.Lines(); len(got) != 3 || got[2] != "three" {
		t.Errorf("expected flushed partial line, got %v", got)
	}
}

func TestDebugTokens(t *testing.T) {
	c, sb, _ := newTestConsole(t)
	sb.SetDebug(true)
	c.Dispatch(`god "x"`)
	lines := sb.Lines()
	if len(lines) < 2 || lines[0] != `[Debug] Found token -> Word : god` {
		t.Errorf("expected token debug lines, got %v", lines)
	}
}
