// Package plugin defines the contract between the session store and the
// debugger plugins whose state it persists. The store never looks inside a
// plugin's State; it only routes it by identifier.
package plugin

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned when two plugins claim the same identifier.
var ErrDuplicate = errors.New("plugin: duplicate identifier")

// State is an opaque plugin payload. Values must be JSON encodable.
type State map[string]any

// Plugin is a debugger extension with state worth keeping between runs.
type Plugin interface {
	// Identifier names the plugin's entry in the session file.
	Identifier() string
	// SaveState returns the plugin's state. An empty State is not persisted.
	SaveState() State
	// RestoreState hands back what SaveState produced in an earlier run.
	RestoreState(State)
}

// Funcs adapts plain functions to the Plugin interface.
type Funcs struct {
	ID      string
	Save    func() State
	Restore func(State)
}

// Identifier returns f.ID.
func (f Funcs) Identifier() string { return f.ID }

// SaveState calls f.Save, if set.
func (f Funcs) SaveState() State {
	if f.Save == nil {
		return nil
	}
	return f.Save()
}

// RestoreState calls f.Restore, if set.
func (f Funcs) RestoreState(s State) {
	if f.Restore != nil {
		f.Restore(s)
	}
}

// Registry is the ordered set of live plugins.
type Registry struct {
	plugins []Plugin
	byID    map[string]Plugin
}

// NewRegistry creates a registry. It panics on duplicate identifiers, which
// is a wiring mistake rather than a runtime condition.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{byID: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a plugin.
func (r *Registry) Register(p Plugin) error {
	id := p.Identifier()
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	r.byID[id] = p
	r.plugins = append(r.plugins, p)
	return nil
}

// Lookup finds a plugin by identifier.
func (r *Registry) Lookup(id string) (Plugin, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Plugins returns the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	out := make([]Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	return len(r.plugins)
}
