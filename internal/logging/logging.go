// Package logging builds the zerolog logger shared by the console layers.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects logger outputs.
type Options struct {
	// Debug writes human-readable debug logs to Stderr.
	Debug bool
	// File, when set, receives JSON logs through a rotating writer.
	File string
	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// New returns a logger for opts and a close function for the file writer.
// With neither Debug nor File set it returns a disabled logger.
func New(opts Options) (zerolog.Logger, func() error) {
	var writers []io.Writer
	closer := func() error { return nil }

	if opts.Debug {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly})
	}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		writers = append(writers, lj)
		closer = lj.Close
	}
	if len(writers) == 0 {
		return zerolog.Nop(), closer
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Str("component", "devcon").Logger()
	return l, closer
}
