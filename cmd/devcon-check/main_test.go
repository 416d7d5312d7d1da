package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestCheckFile(t *testing.T) {
	c, err := newChecker()
	if err != nil {
		t.Fatalf("newChecker failed: %v", err)
	}
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    []string
		expects bool
	}{
		{
			name:    "clean.con",
			content: "# setup\ngod on\ntp -1.392 100.349 100\ncs {PED.Velocity = new Vector3( 0, 0 ,1000 ); }\nexit\n",
		},
		{
			name:    "unknown.con",
			content: "god on\nfly away\n",
			want:    []string{"line 2:1: unknown command 'fly'"},
		},
		{
			name:    "unterminated.con",
			content: "echo \"open\ncs {return true\n",
			want: []string{
				"line 1:6: unterminated string",
				"line 2:4: unterminated code block",
			},
		},
		{
			name:    "continued.con",
			content: "cs {var a = 1; \\\n1 +}\n",
			want:    []string{"line 1:4: compilation failed: Unexpected end of input, 2:4"},
		},
		{
			name:    "leading.con",
			content: "\"tp\" 1 2 3\n",
			want:    []string{"line 1:1: expected a command name, got QuotedString"},
		},
		{
			name:    "expected.con",
			content: "# EXPECT: error\nnope\n",
			want:    []string{"line 2:1: unknown command 'nope'"},
			expects: true,
		},
	}

	for _, tt := range tests {
		result := c.checkFile(writeScript(t, dir, tt.name, tt.content))
		if result.expectsError != tt.expects {
			t.Errorf("%s: expectsError = %v", tt.name, result.expectsError)
		}
		if len(result.errors) != len(tt.want) {
			t.Errorf("%s: expected %d errors, got %v", tt.name, len(tt.want), result.errors)
			continue
		}
		for i, w := range tt.want {
			if !strings.HasPrefix(result.errors[i], w) {
				t.Errorf("%s: expected error %q, got %q", tt.name, w, result.errors[i])
			}
		}
	}
}

func TestFindScripts(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "sub"), 0755)
	writeScript(t, dir, "b.con", "")
	writeScript(t, dir, "sub/a.con", "")
	writeScript(t, dir, "notes.txt", "")

	files, err := findScripts(dir)
	if err != nil {
		t.Fatalf("findScripts failed: %v", err)
	}
	if len(files) != 2 || !strings.HasSuffix(files[0], "b.con") {
		t.Errorf("expected two sorted scripts, got %v", files)
	}
}
