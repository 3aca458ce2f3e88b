package layout

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps layout names to strategies.
// A nil *Registry is valid and resolves every name to Default.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register binds name to s, replacing any earlier binding.
// Registering a nil strategy removes the name.
func (r *Registry) Register(name string, s Strategy) {
	n := normalizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		delete(r.strategies, n)
		return
	}
	r.strategies[n] = s
}

// Lookup returns the strategy registered under name.
func (r *Registry) Lookup(name string) (Strategy, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[normalizeName(name)]
	return s, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a layout option value into a strategy.
// A Strategy (including Funcs) is used directly, a string is looked up by
// name, and anything else, or an unknown name, yields Default.
func (r *Registry) Resolve(v any) Strategy {
	switch val := v.(type) {
	case *Funcs:
		if val != nil {
			return *val
		}
	case Strategy:
		return val
	case string:
		if s, ok := r.Lookup(val); ok {
			return s
		}
	}
	return Default
}

// normalizeName folds case and surrounding space: " Slide " -> "slide".
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
