package main

import (
	"github.com/pkg/errors"

	"nickandperla.net/devcon/pkg/devcon"
)

// storeHistory exposes the runtime's stored history to readline. Lines are
// recorded by Submit, so Write only reports the new length.
type storeHistory struct {
	runtime *devcon.Runtime
}

func (h *storeHistory) lines() []string {
	entries, err := h.runtime.History(0)
	if err != nil {
		return nil
	}
	// readline indexes oldest first
	out := make([]string, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e.Line
	}
	return out
}

func (h *storeHistory) Write(string) (int, error) {
	return h.Len(), nil
}

func (h *storeHistory) GetLine(i int) (string, error) {
	lines := h.lines()
	if i < 0 || i >= len(lines) {
		return "", errors.Errorf("history index %d out of range", i)
	}
	return lines[i], nil
}

func (h *storeHistory) Len() int {
	return len(h.lines())
}

func (h *storeHistory) Dump() interface{} {
	return h.lines()
}
