package pipeline

import (
	"fmt"
	"sort"
)

// Registry maps plugin names to implementations. It is filled once at
// startup and only read afterwards.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry returns a registry holding plugins.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{plugins: make(map[string]Plugin)}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds p. Names must be unique and non-empty.
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin has no name")
	}
	if _, dup := r.plugins[name]; dup {
		return fmt.Errorf("plugin %q registered twice", name)
	}
	r.plugins[name] = p
	return nil
}

// Chain resolves names, in order, into a Chain.
func (r *Registry) Chain(names []string) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		p, ok := r.plugins[name]
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q", name)
		}
		chain = append(chain, p)
	}
	return chain, nil
}

// Names lists registered plugins alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
