package panels

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// Registry is the thread-safe panel registry. The panel set is fixed after
// startup; the lock exists for the API surface, not for churn.
type Registry struct {
	mu     sync.RWMutex
	panels map[string]core.Panel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{panels: make(map[string]core.Panel)}
}

// NewBuiltinRegistry creates a registry populated with all five builtin
// panels sharing the given generator and toolset.
func NewBuiltinRegistry(cfg Config) *Registry {
	r := NewRegistry()
	for _, p := range []core.Panel{
		NewTrace(cfg), NewMetrics(cfg), NewLogs(cfg), NewAlerts(cfg), NewDatasets(cfg),
	} {
		_ = r.Register(p.Name(), p)
	}
	return r
}

// Register adds a panel. Registering a duplicate name is an error.
func (r *Registry) Register(name string, panel core.Panel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.panels[name]; exists {
		return core.ErrValidation(core.CodeInvalidConfig,
			fmt.Sprintf("panel already registered: %s", name))
	}
	r.panels[name] = panel
	return nil
}

// Get retrieves a panel by name.
func (r *Registry) Get(name string) (core.Panel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	panel, ok := r.panels[name]
	if !ok {
		return nil, core.ErrValidation(core.CodePanelNotFound,
			fmt.Sprintf("panel not found: %s", name))
	}
	return panel, nil
}

// List returns all registered panel names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.panels))
	for name := range r.panels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Panels returns all registered panels in name order.
func (r *Registry) Panels() []core.Panel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.panels))
	for name := range r.panels {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]core.Panel, 0, len(names))
	for _, name := range names {
		out = append(out, r.panels[name])
	}
	return out
}

// ForSignal returns the panel bound to the given signal type. Name order
// breaks ties if several panels claim the same signal.
func (r *Registry) ForSignal(signal core.SignalType) (core.Panel, error) {
	if signal == core.SignalNone {
		return nil, core.ErrValidation(core.CodePanelNotFound, "no panel serves the none signal")
	}
	for _, panel := range r.Panels() {
		if panel.Signal() == signal {
			return panel, nil
		}
	}
	return nil, core.ErrValidation(core.CodePanelNotFound,
		fmt.Sprintf("no panel for signal %s", signal))
}
