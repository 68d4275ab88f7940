package registry

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/generators"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/validation"
)

// ModuleResult is the outcome of running one module.
type ModuleResult struct {
	Name     string            `json:"name"`
	Kind     models.Kind       `json:"kind"`
	Count    int               `json:"count"`
	Duration time.Duration     `json:"duration"`
	Report   validation.Report `json:"report"`
	Err      error             `json:"-"`
	Error    string            `json:"error,omitempty"`
}

func (m ModuleResult) Failed() bool { return m.Err != nil }

type Result struct {
	Order   []string       `json:"order"`
	Modules []ModuleResult `json:"modules,omitempty"`
	DryRun  bool           `json:"dry_run,omitempty"`
	// Stopped is set when a critical module failed and the remaining modules were not run.
	Stopped bool `json:"stopped,omitempty"`
}

// Failed returns the modules that did not produce output.
func (r *Result) Failed() []ModuleResult {
	var out []ModuleResult
	for _, m := range r.Modules {
		if m.Failed() {
			out = append(out, m)
		}
	}
	return out
}

// ProgressFunc is called after each module finishes.
type ProgressFunc func(m ModuleResult, completed, total int)

type RunOptions struct {
	// Count returns how many entities a module should produce. Defaults to the
	// store configuration's CountFor.
	Count    func(module string) int
	Progress ProgressFunc
}

// SelectOptions picks a subset of modules by name or category.
type SelectOptions struct {
	Modules             []string   `json:"modules,omitempty"`
	Categories          []Category `json:"categories,omitempty"`
	IncludeDependencies bool       `json:"include_dependencies"`
	DryRun              bool       `json:"dry_run"`
}

// runnable reports whether the module is enabled in the registry and in cfg.
func runnable(m *Module, cfg *config.SeedConfiguration) bool {
	if !m.Enabled {
		return false
	}
	return cfg == nil || cfg.ModuleEnabled(m.Name)
}

// GenerateAll runs every enabled, configured module in dependency order.
func (r *Registry) GenerateAll(ctx context.Context, store *generators.Store, opts RunOptions) (*Result, error) {
	r.mu.RLock()
	var names []string
	for _, n := range r.order {
		if runnable(r.modules[n], store.Config()) {
			names = append(names, n)
		}
	}
	r.mu.RUnlock()

	if err := r.checkDependencies(names, store); err != nil {
		return nil, errs.DependencyError("resolve modules", err)
	}
	return r.run(ctx, store, names, opts)
}

// Plan resolves a selection into the ordered list of modules it would run.
func (r *Registry) Plan(sel SelectOptions) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[string]bool)
	for _, n := range sel.Modules {
		if _, ok := r.modules[n]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, n)
		}
		want[n] = true
	}
	if len(sel.Categories) > 0 {
		cats := make(map[Category]bool, len(sel.Categories))
		for _, c := range sel.Categories {
			cats[c] = true
		}
		for n, m := range r.modules {
			if cats[m.Category] && m.Enabled {
				want[n] = true
			}
		}
	}
	if sel.IncludeDependencies {
		var add func(name string)
		add = func(name string) {
			for _, d := range r.modules[name].Dependencies {
				if _, ok := r.modules[d]; ok && !want[d] {
					want[d] = true
					add(d)
				}
			}
		}
		for n := range want {
			add(n)
		}
	}

	var plan []string
	for _, n := range r.order {
		if want[n] {
			plan = append(plan, n)
		}
	}
	return plan, nil
}

// GenerateSelective runs a subset of modules. Dependencies outside the selection must
// already be published in the store unless IncludeDependencies is set. A dry run only
// resolves the plan.
func (r *Registry) GenerateSelective(ctx context.Context, store *generators.Store, sel SelectOptions, opts RunOptions) (*Result, error) {
	plan, err := r.Plan(sel)
	if err != nil {
		return nil, errs.DependencyError("plan modules", err)
	}
	if sel.DryRun {
		return &Result{Order: plan, DryRun: true}, nil
	}
	if err := r.checkDependencies(plan, store); err != nil {
		return nil, errs.DependencyError("resolve modules", err)
	}
	return r.run(ctx, store, plan, opts)
}

// checkDependencies verifies that every dependency of a planned module is either planned
// ahead of it or already published.
func (r *Registry) checkDependencies(plan []string, store *generators.Store) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	planned := make(map[string]bool, len(plan))
	for _, n := range plan {
		m := r.modules[n]
		for _, d := range m.Dependencies {
			if planned[d] {
				continue
			}
			dep, ok := r.modules[d]
			if ok && store.Published(dep.Generator.Kind()) {
				continue
			}
			if k, known := models.KindFromModule(d); known && store.Published(k) {
				continue
			}
			return fmt.Errorf("%w: %s requires %s", ErrMissingDependency, n, d)
		}
		planned[n] = true
	}
	return nil
}

func (r *Registry) run(ctx context.Context, store *generators.Store, plan []string, opts RunOptions) (*Result, error) {
	count := opts.Count
	if count == nil {
		count = func(module string) int {
			if cfg := store.Config(); cfg != nil {
				return cfg.CountFor(module)
			}
			return 0
		}
	}

	res := &Result{Order: plan}
	failed := make(map[string]bool)
	for i, name := range plan {
		m, ok := r.Module(name)
		if !ok {
			return res, errs.DependencyError("run modules", fmt.Errorf("%w: %s", ErrModuleNotFound, name))
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		mr := r.runModule(ctx, store, m, count(name), failed)
		res.Modules = append(res.Modules, mr)
		if opts.Progress != nil {
			opts.Progress(mr, i+1, len(plan))
		}
		if !mr.Failed() {
			continue
		}
		failed[name] = true
		if m.Critical {
			res.Stopped = true
			log.Printf("[registry] critical module %s failed, stopping: %v", name, mr.Err)
			return res, fmt.Errorf("registry: critical module %s: %w", name, mr.Err)
		}
		log.Printf("[registry] module %s failed, continuing: %v", name, mr.Err)
	}
	return res, nil
}

func (r *Registry) runModule(ctx context.Context, store *generators.Store, m Module, n int, failed map[string]bool) ModuleResult {
	mr := ModuleResult{Name: m.Name, Kind: m.Generator.Kind()}
	var upstream []string
	for _, d := range m.Dependencies {
		if failed[d] {
			upstream = append(upstream, d)
		}
	}
	if len(upstream) > 0 {
		sort.Strings(upstream)
		mr.Err = errs.DependencyError("generate "+m.Name, fmt.Errorf("%w: %v failed", ErrMissingDependency, upstream))
		mr.Error = mr.Err.Error()
		return mr
	}

	start := time.Now()
	log.Printf("[registry] generating %s (%d requested)", m.Name, n)
	entities, err := m.Generator.Generate(ctx, store, n)
	mr.Duration = time.Since(start)
	if err == nil && entities == nil {
		err = errs.Newf(errs.System, "generate "+m.Name, "generator returned no entities")
	}
	if err != nil {
		mr.Err = err
		mr.Error = err.Error()
		return mr
	}
	store.Publish(entities)
	mr.Count = entities.Len()
	mr.Report = m.Generator.Validate(entities)
	log.Printf("[registry] %s: %d generated, %d valid in %s", m.Name, mr.Count, mr.Report.Valid, mr.Duration)
	return mr
}
