package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildCLI(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "devcon")
	cmd := exec.Command("go", "build", "-o", bin, "./")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build devcon: %v\n%s", err, out)
	}
	return bin
}

func run(t *testing.T, bin string, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = t.TempDir()
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), "DEVCON_NO_COLOR=true")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestEvalFlag(t *testing.T) {
	bin := buildCLI(t)
	db := filepath.Join(t.TempDir(), "test.db")

	out, err := run(t, bin, "", "-db", db, "-e", "cs {1 + 2}")
	if err != nil {
		t.Fatalf("failed to run devcon: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "3" {
		t.Errorf("expected 3, got: %s", out)
	}

	out, err = run(t, bin, "", "-db", db, "-e", "nope")
	if err == nil {
		t.Errorf("expected a failing exit status, got: %s", out)
	}
	if !strings.Contains(out, "Command 'nope' not found!") {
		t.Errorf("expected not-found message, got: %s", out)
	}
}

func TestFileFlag(t *testing.T) {
	bin := buildCLI(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "setup.con")
	content := "god on\ntp 1 2 3\ncs {PED.Position.Z}\n"
	if err := os.WriteFile(script, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	out, err := run(t, bin, "", "-no-history", "-f", script)
	if err != nil {
		t.Fatalf("failed to run devcon: %v\n%s", err, out)
	}
	for _, want := range []string{"God mode enabled", "Teleported to 1.000, 2.000, 3.000", "\n3\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestPipedInputAndStartup(t *testing.T) {
	bin := buildCLI(t)
	db := filepath.Join(t.TempDir(), "test.db")

	out, err := run(t, bin, "startup \"money 77\"\n", "-db", db)
	if err != nil {
		t.Fatalf("failed to run devcon: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Startup saved.") {
		t.Fatalf("expected startup to be saved, got: %s", out)
	}

	out, err = run(t, bin, "", "-db", db, "-e", "money")
	if err != nil {
		t.Fatalf("failed to run devcon: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Money: $77") {
		t.Errorf("expected saved startup to run first, got: %s", out)
	}
}
