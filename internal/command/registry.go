// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package command

import (
	"sort"
	"sync"
)

// Registry is a thread-safe name-keyed table of commands. Names are
// case-sensitive and never normalized.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
	}
}

// Register adds c. An existing command with the same name is replaced only
// when overwrite is true; otherwise Register returns false and leaves the
// registry untouched.
func (r *Registry) Register(c *Command, overwrite bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[c.Name]; exists && !overwrite {
		return false
	}
	r.commands[c.Name] = c
	return true
}

// MustRegister registers c and panics on a name conflict.
func (r *Registry) MustRegister(c *Command) {
	if !r.Register(c, false) {
		panic("command: duplicate registration of " + c.Name)
	}
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// Has returns true if name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Unregister removes name from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns every registered command sorted by name.
func (r *Registry) Commands() []*Command {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmds := make([]*Command, 0, len(names))
	for _, name := range names {
		if c, ok := r.commands[name]; ok {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
