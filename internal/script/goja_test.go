package script

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, g *Goja, src string, env Env) (any, error) {
	t.Helper()
	return g.Run(context.Background(), src, env)
}

func TestGojaExpression(t *testing.T) {
	got, err := run(t, NewGoja(), "1 + 2", Env{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != int64(3) {
		t.Errorf("expected 3, got %#v", got)
	}
}

func TestGojaReturn(t *testing.T) {
	got, err := run(t, NewGoja(), "return true", Env{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Errorf("expected true, got %#v", got)
	}
}

func TestGojaSideEffectOnlyIsNil(t *testing.T) {
	got, err := run(t, NewGoja(), "if (true) { return }", Env{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %#v", got)
	}
}

func TestGojaCompileError(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var = 5", "compilation failed: Unexpected token =, 1:5"},
		{"1 +", "compilation failed: Unexpected end of input, 1:4"},
		{"foo(", "compilation failed: Unexpected end of input, 1:5"},
		{"x = {", "compilation failed: Unexpected end of input, 1:6"},
		{"a\nb +", "compilation failed: Unexpected end of input, 2:4"},
		{"return 1 +", "compilation failed: Unexpected end of input, 1:11"},
		{"return 1 +* 2", "compilation failed: Unexpected token *, 1:11"},
		{"var a = 1\nreturn a +", "compilation failed: Unexpected end of input, 2:11"},
	}
	for _, tt := range tests {
		_, err := run(t, NewGoja(), tt.src, Env{})
		var ce *CompileError
		if !errors.As(err, &ce) {
			t.Errorf("%q: expected CompileError, got %T: %v", tt.src, err, err)
			continue
		}
		if ce.Error() != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.src, tt.want, ce.Error())
		}
	}
}

func TestGojaRuntimeError(t *testing.T) {
	_, err := run(t, NewGoja(), `throw new Error("boom")`, Env{})
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %T: %v", err, err)
	}
	if !strings.Contains(re.Message, "boom") {
		t.Errorf("expected message to mention boom, got %q", re.Message)
	}
}

func TestGojaTimeout(t *testing.T) {
	g := NewGoja(WithGojaTimeout(50 * time.Millisecond))
	start := time.Now()
	_, err := run(t, g, "while (true) {}", Env{})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout took too long: %s", time.Since(start))
	}
}

type vec struct {
	X, Y, Z float64
}

type ped struct {
	Name     string
	Velocity vec
}

func TestGojaBindingsAndModules(t *testing.T) {
	p := &ped{Name: "Franklin"}
	var printed []string
	env := Env{
		Bindings: map[string]any{"PED": p},
		Modules: map[string]any{
			"Vector3": Constructor(func(args []any) any {
				var v vec
				fs := []*float64{&v.X, &v.Y, &v.Z}
				for i, a := range args {
					if i < len(fs) {
						switch n := a.(type) {
						case int64:
							*fs[i] = float64(n)
						case float64:
							*fs[i] = n
						}
					}
				}
				return v
			}),
		},
		Print: func(s string) { printed = append(printed, s) },
	}

	_, err := run(t, NewGoja(), "PED.Velocity = new Vector3(0, 0, 1000); print(PED.Name, 'moved')", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Velocity.Z != 1000 {
		t.Errorf("expected Z velocity 1000, got %v", p.Velocity)
	}
	if len(printed) != 1 || printed[0] != "Franklin moved" {
		t.Errorf("unexpected print output: %v", printed)
	}
}

func TestGojaFreshEnvironment(t *testing.T) {
	g := NewGoja()
	if _, err := run(t, g, "var leaked = 1", Env{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := run(t, g, "leaked", Env{})
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReferenceError from a fresh runtime, got %v", err)
	}
}

func TestGojaHostPanicIsContained(t *testing.T) {
	env := Env{Bindings: map[string]any{
		"explode": func() { panic("host failure") },
	}}
	_, err := run(t, NewGoja(), "explode()", env)
	if err == nil {
		t.Fatal("expected an error from a panicking host function")
	}
}

func TestGojaCheck(t *testing.T) {
	g := NewGoja()
	if err := g.Check("while (true) {}"); err != nil {
		t.Errorf("expected valid source to check without running, got %v", err)
	}
	var ce *CompileError
	if err := g.Check("1 +"); !errors.As(err, &ce) {
		t.Errorf("expected CompileError, got %v", err)
	}
}
