package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rodaine/table"

	"nickandperla.net/devcon/internal/command"
	"nickandperla.net/devcon/internal/console"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
)

// DumpDepth is how deep dump expands nested objects.
const DumpDepth = 2

// DefaultHistoryCount is how many entries history lists without an argument.
const DefaultHistoryCount = 10

// printTable renders t into out line by line.
func printTable(out console.Output, headers ...any) (table.Table, func()) {
	w := console.NewLineWriter(out, console.Plain)
	t := table.New(headers...).WithWriter(w)
	return t, func() {
		t.Print()
		w.Flush()
	}
}

// Help lists every registered command.
func Help(h Host) *command.Command {
	return command.New("help", "Lists all commands.", func(string, []*token.Token, int) error {
		t, flush := printTable(h.Output(), "Command", "Description")
		for _, c := range h.Registry().Commands() {
			t.AddRow(c.Name, c.Description)
		}
		flush()
		return nil
	})
}

// Man prints the usage of one command.
func Man(h Host) *command.Command {
	return command.New("man", "Shows how to use a command.", func(_ string, args []*token.Token, _ int) error {
		name := str(args[0])
		if !h.PrintCommandInfo(name) {
			h.Output().PrintWarning(fmt.Sprintf("No manual entry for '%s'", name))
		}
		return nil
	}, command.Shape{command.Arg("command", "The command to describe", value.String)})
}

// Clear empties the console.
func Clear(h Host) *command.Command {
	return command.New("clear", "Clears the console.", func(string, []*token.Token, int) error {
		h.Clear()
		return nil
	})
}

// CS evaluates its argument, usually a code block, and prints the result.
func CS(h Host) *command.Command {
	return command.New("cs", "Runs a code block and prints its result.", func(_ string, args []*token.Token, _ int) error {
		h.Output().PrintLineStyle(str(args[0]), console.Highlight)
		return nil
	}, command.Shape{command.Arg("code", "Code to run, in braces", value.Any)})
}

// Echo prints its arguments' values separated by spaces.
func Echo(h Host) *command.Command {
	return command.New("echo", "Prints the values of its arguments.", func(_ string, args []*token.Token, _ int) error {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = str(a)
		}
		h.Output().PrintLine(strings.Join(parts, " "))
		return nil
	}, anyShapes(4)...)
}

// Dump prints the fields of an object.
func Dump(h Host) *command.Command {
	return command.New("dump", "Prints the fields of an object.", func(_ string, args []*token.Token, _ int) error {
		for _, line := range value.Dump(args[0].Value(), DumpDepth) {
			h.Output().PrintLine(line)
		}
		return nil
	}, command.Shape{command.Arg("object", "The object to inspect", value.Any)})
}

// History lists or clears previously submitted lines.
func History(h Host) *command.Command {
	c := command.New("history", "Lists recent input or clears it with 'history clear'.", func(_ string, args []*token.Token, shape int) error {
		count := DefaultHistoryCount
		switch shape {
		case 1:
			count = int(num(args[0]))
			if count < 1 {
				h.Output().PrintWarning(fmt.Sprintf("History count must be at least 1, got %d", count))
				return nil
			}
		case 2:
			if action := str(args[0]); action != "clear" {
				h.Output().PrintWarning(fmt.Sprintf("Unknown history action '%s'", action))
				return nil
			}
			if err := h.ClearHistory(); err != nil {
				return err
			}
			h.Output().PrintLineStyle("History cleared", console.Success)
			return nil
		}

		entries, err := h.History(count)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			h.Output().PrintLine("No history.")
			return nil
		}
		t, flush := printTable(h.Output(), "#", "Line", "When")
		for _, e := range entries {
			t.AddRow(e.ID, e.Line, humanize.Time(e.At))
		}
		flush()
		return nil
	})
	c.AddShape()
	c.AddShape(command.Arg("count", "How many entries to list", value.Int))
	c.AddShape(command.Arg("action", "'clear' to delete all history", value.String))
	return c
}
