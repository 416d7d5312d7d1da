package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lmorg/readline"
	"golang.org/x/term"

	"nickandperla.net/devcon/pkg/devcon"
)

func printBanner() {
	width := 48
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w < width {
		width = w
	}
	fmt.Println("devcon (Ctrl+D to exit)")
	fmt.Println(strings.Repeat("-", width))
	fmt.Println("Type 'help' for commands and 'man <command>' for usage.")
	fmt.Println("Code in braces runs as JavaScript: cs {PED.Position}")
	fmt.Println()
}

func runREPL(runtime *devcon.Runtime, quit *bool) {
	runtime.SetEcho(false)
	printBanner()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		runBasicREPL(runtime, quit)
		return
	}
	runReadlineREPL(runtime, quit)
}

// submit runs one line and advances the world by the wall time since the
// previous line.
func submit(runtime *devcon.Runtime, input string, last *time.Time) {
	runtime.Report(runtime.Submit(input))
	now := time.Now()
	runtime.Tick(now.Sub(*last))
	*last = now
}

// runBasicREPL handles non-TTY input
func runBasicREPL(runtime *devcon.Runtime, quit *bool) {
	reader := bufio.NewReader(os.Stdin)
	prompt := runtime.Console().Prompt()
	var multiline strings.Builder
	inMultiline := false
	last := time.Now()

	for !*quit {
		if inMultiline {
			fmt.Print("... ")
		} else {
			fmt.Print(prompt)
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.HasSuffix(line, "\\") {
			multiline.WriteString(strings.TrimSuffix(line, "\\"))
			multiline.WriteString("\n")
			inMultiline = true
			continue
		}

		input := line
		if inMultiline {
			multiline.WriteString(line)
			input = multiline.String()
			multiline.Reset()
			inMultiline = false
		}
		submit(runtime, input, &last)
	}
}

// runReadlineREPL handles TTY input with line editing, tab completion of
// command names and recall of stored history.
func runReadlineREPL(runtime *devcon.Runtime, quit *bool) {
	rl := readline.NewInstance()
	rl.TabCompleter = completer(runtime)
	rl.History = &storeHistory{runtime: runtime}

	prompt := runtime.Console().Prompt()
	var multiline strings.Builder
	last := time.Now()

	for !*quit {
		if multiline.Len() > 0 {
			rl.SetPrompt("... ")
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			fmt.Println()
			return
		}

		if strings.HasSuffix(line, "\\") {
			multiline.WriteString(strings.TrimSuffix(line, "\\"))
			multiline.WriteString("\n")
			continue
		}
		multiline.WriteString(line)
		input := multiline.String()
		multiline.Reset()

		submit(runtime, input, &last)
	}
}

// completer suggests command names for the first word on the line.
func completer(runtime *devcon.Runtime) func([]rune, int, readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
	return func(line []rune, pos int, _ readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
		prefix := string(line[:pos])
		if strings.ContainsAny(prefix, " \t") {
			return prefix, nil, nil, readline.TabDisplayGrid
		}
		var suggestions []string
		for _, name := range runtime.Console().Registry().Names() {
			if strings.HasPrefix(name, prefix) {
				suggestions = append(suggestions, name[len(prefix):])
			}
		}
		return prefix, suggestions, nil, readline.TabDisplayGrid
	}
}
