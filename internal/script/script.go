// Package script defines the compile-and-run service behind code blocks.
package script

import (
	"context"
	"fmt"
	"time"
)

// Runner compiles a source fragment and executes it once.
type Runner interface {
	// Run returns the fragment's result, or nil if it produced none.
	// Failures are *CompileError, *RuntimeError or *TimeoutError.
	Run(ctx context.Context, src string, env Env) (any, error)
}

// Env is the ambient scope of one run. It is built fresh for every call.
type Env struct {
	// Bindings are named values visible to the fragment.
	Bindings map[string]any
	// Modules are helpers installed before the bindings. A Constructor
	// is exposed so it can be called with new.
	Modules map[string]any
	// Print receives output from the fragment's print function.
	Print func(text string)
}

// Constructor builds a host value from script arguments.
type Constructor func(args []any) any

// CompileError reports a fragment that could not be compiled.
type CompileError struct {
	Message string
	Line    int
	Column  int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("compilation failed: %s, %d:%d", e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("compilation failed: %s", e.Message)
}

// RuntimeError reports an exception thrown while running a fragment.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}

// TimeoutError reports a fragment that exceeded its time bound. It is a
// compilation-class failure.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("compilation failed: timed out after %s", e.After)
}
