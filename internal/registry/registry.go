// Package registry holds the generation modules and decides the order they run in.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/generators"
)

type Category string

const (
	CategoryCore          Category = "core"
	CategoryRelationships Category = "relationships"
	CategoryContent       Category = "content"
)

var (
	ErrCircularDependency = errors.New("registry: circular dependency")
	ErrModuleNotFound     = errors.New("registry: module not found")
	ErrModuleInUse        = errors.New("registry: module is a dependency of an enabled module")
	ErrInvalidModule      = errors.New("registry: invalid module")
	ErrMissingDependency  = errors.New("registry: dependency not available")
)

// CircularDependencyError names the modules forming a cycle, first module repeated last.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("registry: circular dependency: %s", strings.Join(e.Cycle, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// Module wraps a generator with its scheduling metadata.
type Module struct {
	Name         string
	Generator    generators.Generator
	Dependencies []string
	Priority     int
	Enabled      bool
	Category     Category
	// Critical modules stop GenerateAll when they fail.
	Critical bool
}

type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
	order   []string
}

func New() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// NewDefault registers the built-in generators.
func NewDefault(opts generators.Options) (*Registry, error) {
	r := New()
	for _, m := range DefaultModules(generators.Defaults(opts)) {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultModules wraps generators as modules named after their kind. Users and projects
// are critical; everything else may fail without stopping the run.
func DefaultModules(gens []generators.Generator) []Module {
	out := make([]Module, 0, len(gens))
	for i, g := range gens {
		name := g.Kind().Module()
		deps := make([]string, 0, len(g.Dependencies()))
		for _, k := range g.Dependencies() {
			deps = append(deps, k.Module())
		}
		m := Module{
			Name:         name,
			Generator:    g,
			Dependencies: deps,
			Priority:     (i + 1) * 10,
			Enabled:      true,
			Category:     CategoryContent,
		}
		switch name {
		case config.ModuleUsers, config.ModuleProjects:
			m.Category = CategoryCore
			m.Critical = true
		case config.ModuleProposals, config.ModuleContracts:
			m.Category = CategoryRelationships
		}
		out = append(out, m)
	}
	return out
}

// Register adds or replaces a module and recomputes the order. A registration that
// would close a cycle is rolled back.
func (r *Registry) Register(m Module) error {
	if m.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidModule)
	}
	if m.Generator == nil {
		return fmt.Errorf("%w: %s has no generator", ErrInvalidModule, m.Name)
	}
	m.Dependencies = append([]string(nil), m.Dependencies...)

	r.mu.Lock()
	defer r.mu.Unlock()
	prev, existed := r.modules[m.Name]
	r.modules[m.Name] = &m
	order, err := r.computeOrder()
	if err != nil {
		if existed {
			r.modules[m.Name] = prev
		} else {
			delete(r.modules, m.Name)
		}
		return err
	}
	r.order = order
	return nil
}

// Unregister removes a module unless an enabled module still depends on it.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[name]; !ok {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	var dependents []string
	for _, m := range r.modules {
		if m.Name == name || !m.Enabled {
			continue
		}
		for _, d := range m.Dependencies {
			if d == name {
				dependents = append(dependents, m.Name)
			}
		}
	}
	if len(dependents) > 0 {
		sort.Strings(dependents)
		return fmt.Errorf("%w: %s is required by %s", ErrModuleInUse, name, strings.Join(dependents, ", "))
	}
	delete(r.modules, name)
	order, err := r.computeOrder()
	if err != nil {
		return err
	}
	r.order = order
	return nil
}

// SetEnabled toggles a module without unregistering it.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	m.Enabled = enabled
	return nil
}

// Module returns a copy of the named module.
func (r *Registry) Module(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		return Module{}, false
	}
	return *m, true
}

// Order returns every registered module name, dependencies first.
func (r *Registry) Order() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) byPriority(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := r.modules[out[i]], r.modules[out[j]]
		if a == nil || b == nil {
			return out[i] < out[j]
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Name < b.Name
	})
	return out
}

// computeOrder is a depth-first topological sort. Roots and dependencies are visited in
// ascending priority; a module met again while still on the stack is a cycle.
// Dependencies that are not registered are ignored here and reported when running.
func (r *Registry) computeOrder() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	names := make([]string, 0, len(r.modules))
	for n := range r.modules {
		names = append(names, n)
	}
	names = r.byPriority(names)

	state := make(map[string]int, len(names))
	order := make([]string, 0, len(names))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, n := range stack {
				if n == name {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), stack[start:]...), name)
			return &CircularDependencyError{Cycle: cycle}
		}
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range r.byPriority(r.modules[name].Dependencies) {
			if _, ok := r.modules[dep]; !ok {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}
