// Package seeder runs a complete seeding pass: configuration checks, storage
// preparation, generation in dependency order, validation, persistence and reporting.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/batch"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/generators"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/performance"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/registry"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/repository"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/slug"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/validation"
)

var (
	ErrRunInProgress   = errors.New("seeder: a run is already in progress")
	ErrStrictRejection = errors.New("seeder: generated data failed validation")
)

// resetter is implemented by reservation sets that can be emptied, like the Redis one.
type resetter interface {
	Reset(ctx context.Context) error
}

// Manager owns the run lifecycle. Only one run executes at a time.
type Manager struct {
	cfg      *config.SeedConfiguration
	repo     *repository.Store
	reporter Reporter

	reserver slug.Reserver
	hasher   generators.PasswordHasher
	now      func() time.Time
	registry func(generators.Options) (*registry.Registry, error)
	govOpts  []performance.Option

	running sync.Mutex
	mu      sync.RWMutex
	last    *Result
}

type Option func(*Manager)

func WithReporter(r Reporter) Option { return func(m *Manager) { m.reporter = r } }

// WithSlugReserver shares slug reservations across runs, e.g. through Redis.
func WithSlugReserver(r slug.Reserver) Option { return func(m *Manager) { m.reserver = r } }

func WithHasher(h generators.PasswordHasher) Option { return func(m *Manager) { m.hasher = h } }

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithRegistry replaces the built-in module set.
func WithRegistry(build func(generators.Options) (*registry.Registry, error)) Option {
	return func(m *Manager) { m.registry = build }
}

func WithGovernorOptions(opts ...performance.Option) Option {
	return func(m *Manager) { m.govOpts = opts }
}

func NewManager(cfg *config.SeedConfiguration, repo *repository.Store, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		repo:     repo,
		reporter: LogReporter{},
		now:      time.Now,
		registry: registry.NewDefault,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) Config() *config.SeedConfiguration { return m.cfg }

// LastResult returns the summary of the most recent run, or nil.
func (m *Manager) LastResult() *Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Running reports whether a run is executing.
func (m *Manager) Running() bool {
	if m.running.TryLock() {
		m.running.Unlock()
		return false
	}
	return true
}

// Counts returns the rows currently stored per entity kind.
func (m *Manager) Counts(ctx context.Context) (map[models.Kind]int64, error) {
	return m.repo.Counts(ctx)
}

// Plan resolves a module selection against the built-in registry without generating.
func (m *Manager) Plan(sel registry.SelectOptions) ([]string, error) {
	reg, err := m.registry(m.generatorOptions(nil))
	if err != nil {
		return nil, err
	}
	sel.DryRun = true
	res, err := reg.GenerateSelective(context.Background(), generators.NewStore(m.cfg), sel, registry.RunOptions{})
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

func (m *Manager) generatorOptions(slugs *slug.Generator) generators.Options {
	return generators.Options{
		Seed:   m.cfg.Seed,
		Now:    m.now,
		Slugs:  slugs,
		Hasher: m.hasher,
	}
}

// run carries the state of one pass.
type run struct {
	*Manager
	res      *Result
	gov      *performance.Governor
	steps    int
	done     int
	entities int
}

func (r *run) step(name string) {
	r.done++
	r.reporter.Progress(newEvent(name, r.done, r.steps, r.entities))
}

// Run executes one seeding pass. Configuration, storage and dependency failures abort
// before anything is written and are returned as the error. Failures after generation
// has started are collected in the result, which then reports Success false.
func (m *Manager) Run(ctx context.Context) (*Result, error) {
	if !m.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer m.running.Unlock()

	r := &run{
		Manager: m,
		res:     newResult(m.cfg, m.now()),
		gov:     performance.NewGovernor(m.cfg.Performance, m.govOpts...),
	}
	r.gov.Start()
	err := r.execute(ctx)
	r.gov.Finish()
	r.res.Duration = m.now().Sub(r.res.StartedAt)
	if err != nil {
		r.res.fail("run", err)
	}
	r.checkPerformance()
	r.res.Success = err == nil && len(r.res.Errors) == 0

	m.reporter.Summary(r.res)
	m.mu.Lock()
	m.last = r.res
	m.mu.Unlock()
	return r.res, err
}

func (r *run) execute(ctx context.Context) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}

	reserver := r.reserver
	if reserver == nil {
		reserver = slug.NewMemoryReserver()
	}
	proceed, salt, err := r.prepare(ctx, reserver)
	if err != nil || !proceed {
		return err
	}

	opts := r.generatorOptions(slug.NewGenerator(reserver))
	opts.Salt = salt
	reg, err := r.registry(opts)
	if err != nil {
		return errs.DependencyError("build registry", err)
	}
	for _, name := range reg.Order() {
		if mod, ok := reg.Module(name); ok && mod.Enabled && r.cfg.ModuleEnabled(name) {
			r.res.Order = append(r.res.Order, name)
		}
	}
	// validate config, prepare storage, one step per module, validate data, one per collection
	r.steps = 3 + 2*len(r.res.Order)
	r.step("validate configuration")
	r.step("prepare storage")

	store := generators.NewStore(r.cfg)
	genErr := r.gov.Track("generate", func() (int, error) {
		out, err := reg.GenerateAll(ctx, store, registry.RunOptions{
			Progress: func(mr registry.ModuleResult, _, _ int) {
				r.entities += mr.Count
				r.step("generate " + mr.Name)
			},
		})
		if out != nil {
			r.res.Modules = out.Modules
		}
		return sum(store.Counts()), err
	})
	for k, n := range store.Counts() {
		r.res.Generated[k] = n
	}
	for _, mr := range r.res.Modules {
		if mr.Failed() {
			r.res.fail("generate "+mr.Name, mr.Err)
		}
	}
	if genErr != nil {
		if len(r.res.Modules) == 0 {
			return genErr
		}
		if len(r.res.Errors) == 0 {
			r.res.fail("generate", genErr)
		}
		return nil
	}

	r.res.RatingsUpdated = generators.RecomputeRatings(store.Users(), store.Reviews())

	if !r.validate(store) {
		return nil
	}
	r.step("validate data")

	r.persistAll(ctx, store)
	return nil
}

// checkPerformance records the governor report and fails the run on error-severity
// violations.
func (r *run) checkPerformance() {
	report := r.gov.Validate()
	r.res.Performance = &report
	for _, v := range report.Violations {
		if v.Severity == performance.SeverityError {
			r.res.fail("performance", errs.Newf(errs.System, "performance", "%s", v.Message))
		}
	}
}

// prepare applies the skip or clear policy. It returns false when the run is skipped.
// When stored data is kept, the returned salt is non-zero so the new rows get fresh ids.
func (r *run) prepare(ctx context.Context, reserver slug.Reserver) (bool, uint64, error) {
	has, err := r.repo.HasData(ctx)
	if err != nil {
		return false, 0, errs.DatabaseError("check stored data", err)
	}
	if !has {
		return true, 0, nil
	}
	if r.cfg.SkipExisting {
		r.res.Skipped = true
		log.Printf("[seeder] storage already holds users, skipping")
		return false, 0, nil
	}
	if r.cfg.ClearExisting {
		if err := r.repo.ClearAll(ctx); err != nil {
			return false, 0, err
		}
		if rs, ok := reserver.(resetter); ok {
			if err := rs.Reset(ctx); err != nil {
				return false, 0, errs.New(errs.Network, "reset slug reservations", err)
			}
		}
		return true, 0, nil
	}

	stored, err := r.repo.Users.Count(ctx)
	if err != nil {
		return false, 0, errs.DatabaseError("count stored users", err)
	}
	slugs, err := r.repo.Slugs(ctx)
	if err != nil {
		return false, 0, errs.DatabaseError("load slugs", err)
	}
	if mem, ok := reserver.(*slug.MemoryReserver); ok {
		mem.Preload(slugs...)
	} else {
		for _, s := range slugs {
			if _, err := reserver.Reserve(ctx, s); err != nil {
				return false, 0, errs.New(errs.Network, "reserve existing slug", err)
			}
		}
	}
	log.Printf("[seeder] appending to %d stored users", stored)
	return true, uint64(stored), nil
}

// validate runs structural, reference and quality checks. With strict validation any
// error-severity issue stops the run before persistence.
func (r *run) validate(store *generators.Store) bool {
	d := store.Dataset()
	reports := validation.ValidateDataset(d)
	refs := validation.CheckReferences(d)
	scorer := validation.NewQualityScorer(r.cfg.QualityThreshold)
	scorer.Now = r.now
	q := scorer.Evaluate(d, reports)
	r.res.Quality = &q

	var blocking int
	for _, k := range models.AllKinds {
		rep, ok := reports[k]
		if !ok {
			continue
		}
		errsFound := rep.Errors()
		blocking += len(errsFound)
		r.res.Issues = append(r.res.Issues, errsFound...)
	}
	for _, i := range refs {
		if i.Severity == validation.SeverityError {
			blocking++
			r.res.Issues = append(r.res.Issues, i)
		}
	}
	if !q.Passed() {
		r.res.fail("quality", errs.Newf(errs.Validation, "quality", "kinds below %.1f: %v", q.Threshold, q.Critical))
	}
	if blocking > 0 && r.cfg.StrictValidation {
		r.res.fail("validate", errs.ValidationError("validate", fmt.Errorf("%w: %d issues", ErrStrictRejection, blocking)))
		return false
	}
	return true
}

func (r *run) batchOptions(label string) batch.Options {
	return batch.Options{
		BatchSize:     r.cfg.BatchSize,
		Concurrency:   r.cfg.Concurrency,
		RetryAttempts: r.cfg.RetryAttempts,
		RetryDelay:    r.cfg.RetryDelay,
		BackoffFactor: r.cfg.BackoffFactor,
		Label:         label,
		Progress: func(p batch.Progress) {
			if p.Completed < p.Total {
				r.reporter.Progress(newEvent(
					fmt.Sprintf("persist %s (batch %d/%d)", label, p.Completed, p.Total),
					r.done, r.steps, r.entities+p.Processed))
			}
		},
	}
}

// persistAll writes every generated kind in dependency order. A kind with failed batches
// stops the kinds after it so nothing references rows that were never written.
func (r *run) persistAll(ctx context.Context, store *generators.Store) {
	steps := []struct {
		kind  models.Kind
		write func() (int, []error)
	}{
		{models.KindUser, func() (int, []error) {
			return persist(ctx, r, r.repo.Users, store.Users())
		}},
		{models.KindProject, func() (int, []error) {
			return persist(ctx, r, r.repo.Projects, store.Projects())
		}},
		{models.KindProposal, func() (int, []error) {
			return persist(ctx, r, r.repo.Proposals, store.Proposals())
		}},
		{models.KindContract, func() (int, []error) {
			return persist(ctx, r, r.repo.Contracts, store.Contracts())
		}},
		{models.KindReview, func() (int, []error) {
			return persist(ctx, r, r.repo.Reviews, store.Reviews())
		}},
	}

	r.entities = 0
	for _, s := range steps {
		if !store.Published(s.kind) {
			continue
		}
		module := s.kind.Module()
		var failures []error
		_ = r.gov.Track("persist "+module, func() (int, error) {
			n, fs := s.write()
			r.res.Persisted[s.kind] = n
			failures = fs
			return n, nil
		})
		r.entities += r.res.Persisted[s.kind]
		for _, err := range failures {
			r.res.fail("persist "+module, err)
		}
		r.step("persist " + module)
		if len(failures) > 0 {
			log.Printf("[seeder] %d %s batches failed, not persisting dependent data", len(failures), module)
			return
		}
	}
}

// persist inserts items through the batch processor and returns how many were stored
// and one error per failed batch.
func persist[M any](ctx context.Context, r *run, coll *repository.Collection[M], items []*M) (int, []error) {
	opts := r.batchOptions(coll.Name())
	res := batch.ProcessBatch(ctx, items, coll.InsertMany, opts)
	size := opts.BatchSize
	if size <= 0 {
		size = batch.DefaultBatchSize
	}
	var failures []error
	last := -1
	for _, ie := range res.Errors {
		if b := ie.Index / size; b != last {
			last = b
			failures = append(failures, ie.Err)
		}
	}
	log.Printf("[seeder] persisted %d/%d %s in %s", res.SuccessCount, len(items), coll.Name(), res.Duration)
	return res.SuccessCount, failures
}

func sum(counts map[models.Kind]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
