package eval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nickandperla.net/devcon/internal/script"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
)

type recordSink struct {
	lines  []string
	errors []string
}

func (s *recordSink) PrintLine(text string)  { s.lines = append(s.lines, text) }
func (s *recordSink) PrintError(text string) { s.errors = append(s.errors, text) }
func (s *recordSink) PrintDebug(text string) {}

type fakeAmbient struct {
	bindingCalls int
}

func (a *fakeAmbient) Shortcut(name string) (any, bool) {
	switch name {
	case "self.name":
		return "Franklin", true
	case "self.vehicle":
		return nil, true
	}
	return nil, false
}

func (a *fakeAmbient) Bindings() map[string]any {
	a.bindingCalls++
	return map[string]any{"MP_ID": 7}
}

func (a *fakeAmbient) Modules() map[string]any { return nil }

func TestWordLiterals(t *testing.T) {
	e := New()
	tests := []struct {
		word string
		want bool
	}{
		{"true", true}, {"on", true}, {"Enable", true},
		{"false", false}, {"OFF", false}, {"disable", false},
	}
	for _, tt := range tests {
		v := e.Word(tt.word)
		b, ok := v.Bool()
		if !ok || b != tt.want {
			t.Errorf("Word(%q) = %s (%s), want %v", tt.word, v, v.Type(), tt.want)
		}
	}

	v := e.Word("hello")
	if s, ok := v.Str(); !ok || s != "hello" {
		t.Errorf("expected plain word to stay a string, got %s (%s)", v, v.Type())
	}
}

func TestWordShortcuts(t *testing.T) {
	e := New(WithAmbient(&fakeAmbient{}))

	if v := e.Word("SELF.NAME"); v.String() != "Franklin" {
		t.Errorf("expected shortcut to resolve, got %s", v)
	}
	if v := e.Word("self.vehicle"); !v.IsNull() {
		t.Errorf("expected null for a missing vehicle, got %s", v)
	}
	if v := e.Word("self.unknown"); v.Type() != value.String {
		t.Errorf("expected unknown shortcut to stay a string, got %s", v.Type())
	}
}

func TestResolveNumbers(t *testing.T) {
	e := New()
	if v := e.Resolve(token.New(token.Number, "100", token.Pos{})); v.Type() != value.Int {
		t.Errorf("expected int, got %s", v.Type())
	}
	if v := e.Resolve(token.New(token.Number, "100.5", token.Pos{})); v.Type() != value.Real {
		t.Errorf("expected real, got %s", v.Type())
	}
	if v := e.Resolve(token.New(token.QuotedString, "true", token.Pos{})); v.Type() != value.String {
		t.Errorf("expected quoted text to stay a string, got %s", v.Type())
	}
}

func TestCodeBlockUsesFreshBindings(t *testing.T) {
	amb := &fakeAmbient{}
	var seen []any
	runner := script.NewMockHandler(func(src string, env script.Env) (any, error) {
		seen = append(seen, env.Bindings["MP_ID"])
		return int64(42), nil
	})
	e := New(WithRunner(runner), WithAmbient(amb))

	for i := 0; i < 2; i++ {
		v := e.Resolve(token.New(token.CodeBlock, "MP_ID", token.Pos{}))
		if n, ok := v.Int(); !ok || n != 42 {
			t.Fatalf("expected 42, got %s", v)
		}
	}
	if amb.bindingCalls != 2 || len(seen) != 2 {
		t.Errorf("expected bindings to be built per evaluation, got %d calls", amb.bindingCalls)
	}
}

func TestCodeBlockFailureIsIsolated(t *testing.T) {
	sink := &recordSink{}
	runner := script.NewMock(nil)
	runner.Err = &script.CompileError{Message: "Unexpected token", Line: 1, Column: 4}
	e := New(WithRunner(runner), WithSink(sink))

	v := e.Resolve(token.New(token.CodeBlock, "1 +", token.Pos{Line: 1, Column: 4}))
	if !v.IsNull() {
		t.Errorf("expected null value, got %s", v)
	}
	if len(sink.errors) != 1 {
		t.Fatalf("expected one error message, got %v", sink.errors)
	}
	if sink.errors[0] != "compilation failed: Unexpected token, 1:4" {
		t.Errorf("unexpected error text: %q", sink.errors[0])
	}
}

func TestCodeBlockPanicIsContained(t *testing.T) {
	runner := script.NewMockHandler(func(string, script.Env) (any, error) {
		panic("runner exploded")
	})
	e := New(WithRunner(runner))

	_, err := e.Code(context.Background(), "x")
	var re *script.RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
}

func TestCodeBlockWithGoja(t *testing.T) {
	sink := &recordSink{}
	e := New(WithSink(sink), WithAmbient(&fakeAmbient{}))

	v, err := e.Code(context.Background(), "print('id', MP_ID); return MP_ID * 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i, ok := v.Int(); !ok || i != 14 {
		t.Errorf("expected 14, got %s (%s)", v, v.Type())
	}
	if len(sink.lines) != 1 || !strings.HasPrefix(sink.lines[0], "id 7") {
		t.Errorf("expected print output, got %v", sink.lines)
	}
}
