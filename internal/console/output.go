package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Style is a display hint for a printed line. Sinks that cannot render
// styles ignore it.
type Style int

const (
	Plain Style = iota
	Highlight
	Success
	Warning
	Error
	Debug
	Muted
)

// Message prefixes.
const (
	WarningPrefix = "[Warning] "
	ErrorPrefix   = "[Error] "
	DebugPrefix   = "[Debug] "
)

// Output is where the console writes. It also satisfies eval.Sink.
type Output interface {
	PrintLine(text string)
	PrintLineStyle(text string, style Style)
	PrintWarning(text string)
	PrintError(text string)
	PrintDebug(text string)
}

// Terminal writes styled lines to a writer using ANSI colors.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	debug  bool
	colors map[Style]*color.Color
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithDebug enables PrintDebug output.
func WithDebug(on bool) TerminalOption {
	return func(t *Terminal) { t.debug = on }
}

// WithColor turns color output on or off regardless of the
// writer's capabilities.
func WithColor(on bool) TerminalOption {
	return func(t *Terminal) {
		for _, c := range t.colors {
			if on {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewTerminal creates a terminal sink writing to w.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		w: w,
		colors: map[Style]*color.Color{
			Highlight: color.New(color.FgCyan, color.Bold),
			Success:   color.New(color.FgGreen),
			Warning:   color.New(color.FgYellow),
			Error:     color.New(color.FgRed),
			Debug:     color.New(color.Faint),
			Muted:     color.New(color.FgHiBlack),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PrintLine writes text unstyled.
func (t *Terminal) PrintLine(text string) {
	t.PrintLineStyle(text, Plain)
}

// PrintLineStyle writes text with the given style.
func (t *Terminal) PrintLineStyle(text string, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.colors[style]; ok {
		c.Fprintln(t.w, text)
		return
	}
	fmt.Fprintln(t.w, text)
}

func (t *Terminal) PrintWarning(text string) { t.PrintLineStyle(WarningPrefix+text, Warning) }
func (t *Terminal) PrintError(text string)   { t.PrintLineStyle(ErrorPrefix+text, Error) }

func (t *Terminal) PrintDebug(text string) {
	if t.debug {
		t.PrintLineStyle(DebugPrefix+text, Debug)
	}
}

// Clear erases the screen and homes the cursor.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	io.WriteString(t.w, "\x1b[2J\x1b[H")
}

// DefaultNumLines is the default scrollback size.
const DefaultNumLines = 15

// Scrollback keeps the most recent printed lines. Styles are dropped.
type Scrollback struct {
	mu    sync.Mutex
	max   int
	lines []string
	debug bool
}

// NewScrollback creates a scrollback holding up to max lines. A
// non-positive max uses DefaultNumLines.
func NewScrollback(max int) *Scrollback {
	if max <= 0 {
		max = DefaultNumLines
	}
	return &Scrollback{max: max}
}

// SetDebug toggles recording of debug lines.
func (s *Scrollback) SetDebug(on bool) {
	s.mu.Lock()
	s.debug = on
	s.mu.Unlock()
}

func (s *Scrollback) PrintLine(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
	if over := len(s.lines) - s.max; over > 0 {
		s.lines = append(s.lines[:0], s.lines[over:]...)
	}
}

func (s *Scrollback) PrintLineStyle(text string, _ Style) { s.PrintLine(text) }
func (s *Scrollback) PrintWarning(text string)           { s.PrintLine(WarningPrefix + text) }
func (s *Scrollback) PrintError(text string)             { s.PrintLine(ErrorPrefix + text) }

func (s *Scrollback) PrintDebug(text string) {
	s.mu.Lock()
	on := s.debug
	s.mu.Unlock()
	if on {
		s.PrintLine(DebugPrefix + text)
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (s *Scrollback) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Clear drops every buffered line.
func (s *Scrollback) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// RemoveLastLine drops the newest line, if any.
func (s *Scrollback) RemoveLastLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.lines); n > 0 {
		s.lines = s.lines[:n-1]
	}
}

// Multi fans every call out to each sink in order.
type Multi []Output

func (m Multi) PrintLine(text string) {
	for _, o := range m {
		o.PrintLine(text)
	}
}

func (m Multi) PrintLineStyle(text string, style Style) {
	for _, o := range m {
		o.PrintLineStyle(text, style)
	}
}

func (m Multi) PrintWarning(text string) {
	for _, o := range m {
		o.PrintWarning(text)
	}
}

func (m Multi) PrintError(text string) {
	for _, o := range m {
		o.PrintError(text)
	}
}

func (m Multi) PrintDebug(text string) {
	for _, o := range m {
		o.PrintDebug(text)
	}
}

// Clear clears every member that supports it.
func (m Multi) Clear() {
	for _, o := range m {
		if c, ok := o.(interface{ Clear() }); ok {
			c.Clear()
		}
	}
}

// Discard drops everything.
type Discard struct{}

func (Discard) PrintLine(string)             {}
func (Discard) PrintLineStyle(string, Style) {}
func (Discard) PrintWarning(string)          {}
func (Discard) PrintError(string)            {}
func (Discard) PrintDebug(string)            {}

// LineWriter adapts an Output to io.Writer, emitting one PrintLineStyle
// per complete line. Call Flush to emit a trailing partial line.
type LineWriter struct {
	out   Output
	style Style
	buf   bytes.Buffer
}

// NewLineWriter creates a LineWriter printing to out with style.
func NewLineWriter(out Output, style Style) *LineWriter {
	return &LineWriter{out: out, style: style}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete; put it back for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			return len(p), nil
		}
		w.out.PrintLineStyle(strings.TrimRight(line, "\r\n"), w.style)
	}
}

// Flush emits any buffered partial line.
func (w *LineWriter) Flush() {
	if w.buf.Len() > 0 {
		w.out.PrintLineStyle(w.buf.String(), w.style)
		w.buf.Reset()
	}
}
