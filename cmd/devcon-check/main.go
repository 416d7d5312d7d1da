// devcon-check: Syntax checker for console script files.
//
// Validates every line of a .con file without running it: quoted strings
// and code blocks are terminated, each line starts with a known command,
// and every code block compiles.
//
// Usage:
//
//	devcon-check FILE [FILE...]
//	devcon-check --dir DIR
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"nickandperla.net/devcon/internal/scanner"
	"nickandperla.net/devcon/internal/script"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/pkg/devcon"
)

// hostCommands are registered by the devcon binary itself.
var hostCommands = []string{"exit", "startup"}

// checkResult holds the outcome of checking a single file.
type checkResult struct {
	path         string
	errors       []string
	expectsError bool
}

// checker validates lines against a fixed command set.
type checker struct {
	known map[string]bool
	goja  *script.Goja
}

func newChecker() (*checker, error) {
	r, err := devcon.New(devcon.WithWorld("Player"))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	known := make(map[string]bool)
	for _, name := range r.Console().Registry().Names() {
		known[name] = true
	}
	for _, name := range hostCommands {
		known[name] = true
	}
	return &checker{known: known, goja: script.NewGoja()}, nil
}

// checkLine validates one logical line that starts on file line start.
func (c *checker) checkLine(start int, line string) []string {
	var errs []string
	at := func(pos token.Pos) string {
		return fmt.Sprintf("line %d:%d", start+pos.Line-1, pos.Column)
	}

	toks, err := scanner.NewFromString(line, scanner.WithErrorHandler(func(pos token.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", at(pos), msg))
	})).All()
	if err != nil {
		return append(errs, fmt.Sprintf("line %d: %v", start, err))
	}
	if len(toks) == 0 {
		return errs
	}

	if first := toks[0]; first.Kind != token.Word {
		errs = append(errs, fmt.Sprintf("%s: expected a command name, got %s", at(first.Pos), first.Kind))
	} else if !c.known[first.Text] {
		errs = append(errs, fmt.Sprintf("%s: unknown command '%s'", at(first.Pos), first.Text))
	}

	for _, t := range toks {
		if t.Kind != token.CodeBlock {
			continue
		}
		if err := c.goja.Check(t.Text); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", at(t.Pos), err))
		}
	}
	return errs
}

// checkFile validates a .con file and returns its errors.
// A "# EXPECT: error" comment marks the file as expected to fail.
func (c *checker) checkFile(path string) checkResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkResult{
			path:   path,
			errors: []string{fmt.Sprintf("read error: %v", err)},
		}
	}

	result := checkResult{path: path}
	var pending strings.Builder
	start := 0

	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if pending.Len() == 0 {
			start = i + 1
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "#") {
				directive := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
				if strings.EqualFold(directive, "EXPECT: error") {
					result.expectsError = true
				}
				continue
			}
		}
		if strings.HasSuffix(line, "\\") {
			pending.WriteString(strings.TrimSuffix(line, "\\"))
			pending.WriteByte('\n')
			continue
		}
		pending.WriteString(line)
		result.errors = append(result.errors, c.checkLine(start, pending.String())...)
		pending.Reset()
	}
	if pending.Len() > 0 {
		result.errors = append(result.errors, c.checkLine(start, pending.String())...)
	}
	return result
}

// findScripts recursively finds all .con files under dir.
func findScripts(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".con") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: devcon-check [--dir DIR] FILE [FILE...]")
		os.Exit(1)
	}

	var files []string
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--dir" {
			if i+1 >= len(os.Args) {
				fmt.Fprintln(os.Stderr, "Error: --dir requires an argument")
				os.Exit(1)
			}
			i++
			found, err := findScripts(os.Args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error scanning directory %s: %v\n", os.Args[i], err)
				os.Exit(1)
			}
			files = append(files, found...)
		} else {
			files = append(files, os.Args[i])
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No .con files found")
		os.Exit(1)
	}

	c, err := newChecker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	passed, failed, expectedErr := 0, 0, 0
	for _, f := range files {
		result := c.checkFile(f)
		hasErrors := len(result.errors) > 0

		switch {
		case result.expectsError && hasErrors:
			expectedErr++
			color.Green("OK   %s (expected error, found %d)", f, len(result.errors))
		case result.expectsError:
			failed++
			color.Red("FAIL %s (expected error, none found)", f)
		case hasErrors:
			failed++
			color.Red("FAIL %s", f)
			for _, e := range result.errors {
				fmt.Printf("     %s\n", e)
			}
		default:
			passed++
			color.Green("OK   %s", f)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Passed:          %d\n", passed)
	fmt.Printf("Expected errors: %d\n", expectedErr)
	fmt.Printf("Failed:          %d\n", failed)
	fmt.Printf("Total:           %d\n", len(files))

	if failed > 0 {
		os.Exit(1)
	}
}
