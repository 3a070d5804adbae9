package check

import (
	"context"
	"fmt"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

// Module is the single capability contract every checker implements.
// Check must not mutate shared state and must tolerate being invoked
// concurrently with other modules; per-module settings are injected at
// construction time.
type Module interface {
	// Name returns the human-readable display name, also used for
	// enable/disable selection and suppression directives.
	Name() string

	// Check analyzes the document and returns its findings.
	Check(ctx context.Context, doc *texfile.Document) ([]domain.Problem, error)
}

// Factory instantiates a checker module. Factories run once at startup;
// an error marks the module unavailable (e.g. a missing external tool)
// without blocking the rest of the registry.
type Factory func() (Module, error)

// Registry holds the statically registered checker modules in a fixed
// order. The order determines result merging and is therefore part of the
// determinism guarantee.
type Registry struct {
	names     []string
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a module factory under its display name. Registering the
// same name twice replaces the factory but keeps the original position.
func (r *Registry) Register(name string, factory Factory) {
	if _, exists := r.factories[name]; !exists {
		r.names = append(r.names, name)
	}
	r.factories[name] = factory
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Selection controls which registered modules are instantiated.
// Enable and Disable are mutually exclusive; when both are empty the
// DefaultEnabled policy applies to every module.
type Selection struct {
	Enable         []string
	Disable        []string
	DefaultEnabled bool
}

// Select instantiates the selected modules in registration order.
// Per-module failures (unknown name, factory error) are reported in the
// returned error slice and never abort instantiation of the rest.
func (r *Registry) Select(sel Selection) ([]Module, []error) {
	if len(sel.Enable) > 0 && len(sel.Disable) > 0 {
		return nil, []error{fmt.Errorf("enable and disable module lists are mutually exclusive")}
	}

	var errs []error

	wanted := make(map[string]bool)
	switch {
	case len(sel.Enable) > 0:
		for _, name := range sel.Enable {
			if _, ok := r.factories[name]; !ok {
				errs = append(errs, fmt.Errorf("unknown module %q in enable list", name))
				continue
			}
			wanted[name] = true
		}
	case len(sel.Disable) > 0:
		for _, name := range sel.Disable {
			if _, ok := r.factories[name]; !ok {
				errs = append(errs, fmt.Errorf("unknown module %q in disable list", name))
			}
		}
		for _, name := range r.names {
			if !contains(sel.Disable, name) {
				wanted[name] = true
			}
		}
	default:
		if sel.DefaultEnabled {
			for _, name := range r.names {
				wanted[name] = true
			}
		}
	}

	var modules []Module
	for _, name := range r.names {
		if !wanted[name] {
			continue
		}
		module, err := r.factories[name]()
		if err != nil {
			errs = append(errs, fmt.Errorf("module %s unavailable: %w", name, err))
			continue
		}
		modules = append(modules, module)
	}

	return modules, errs
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
