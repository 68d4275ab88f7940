package registry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/generators"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/validation"
)

type stubGenerator struct {
	kind  models.Kind
	err   error
	calls int
}

func (s *stubGenerator) Kind() models.Kind          { return s.kind }
func (s *stubGenerator) Dependencies() []models.Kind { return nil }
func (s *stubGenerator) Validate(e generators.Entities) validation.Report {
	return validation.Report{Kind: s.kind, Total: e.Len(), Valid: e.Len()}
}

func (s *stubGenerator) Generate(_ context.Context, _ *generators.Store, count int) (generators.Entities, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return make(generators.Reviews, count), nil
}

func stub(name string, deps ...string) Module {
	return Module{Name: name, Generator: &stubGenerator{kind: models.KindReview}, Dependencies: deps, Enabled: true}
}

func testOptions() generators.Options {
	return generators.Options{
		Seed:   7,
		Now:    func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
		Hasher: plainHasher{},
	}
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "x" + p, nil }

func testConfig() *config.SeedConfiguration {
	cfg := config.Preset(config.EnvTesting)
	cfg.Seed = 7
	return &cfg
}

func position(order []string) map[string]int {
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	return pos
}

func TestDefaultOrder(t *testing.T) {
	r, err := NewDefault(testOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "projects", "proposals", "contracts", "reviews"}, r.Order())

	m, ok := r.Module("projects")
	require.True(t, ok)
	assert.True(t, m.Critical)
	assert.Equal(t, CategoryCore, m.Category)
	assert.Equal(t, []string{"users"}, m.Dependencies)
}

func TestRandomDAGOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	for trial := 0; trial < 200; trial++ {
		n := 3 + rng.IntN(6)
		names := make([]string, n)
		deps := make(map[string][]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("m%d", i)
			for j := 0; j < i; j++ {
				if rng.Float64() < 0.4 {
					deps[names[i]] = append(deps[names[i]], names[j])
				}
			}
		}

		r := New()
		for _, i := range rng.Perm(n) {
			m := stub(names[i], deps[names[i]]...)
			m.Priority = rng.IntN(5)
			require.NoError(t, r.Register(m))
		}

		order := r.Order()
		require.Len(t, order, n)
		pos := position(order)
		for name, ds := range deps {
			for _, d := range ds {
				assert.Less(t, pos[d], pos[name], "trial %d: %s must follow %s in %v", trial, name, d, order)
			}
		}
	}
}

func TestPriorityBreaksTies(t *testing.T) {
	r := New()
	a, b, c := stub("a"), stub("b"), stub("c")
	a.Priority, b.Priority, c.Priority = 30, 10, 20
	for _, m := range []Module{a, b, c} {
		require.NoError(t, r.Register(m))
	}
	assert.Equal(t, []string{"b", "c", "a"}, r.Order())
}

func TestCycleIsRejectedAndRolledBack(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(stub("a", "c")))
	require.NoError(t, r.Register(stub("b", "a")))
	before := r.Order()

	err := r.Register(stub("c", "b"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircularDependency))

	var cyc *CircularDependencyError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, cyc.Cycle[0], cyc.Cycle[len(cyc.Cycle)-1])
	assert.Len(t, cyc.Cycle, 4)

	_, ok := r.Module("c")
	assert.False(t, ok)
	assert.Equal(t, before, r.Order())
}

func TestRandomCycle(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	for trial := 0; trial < 50; trial++ {
		n := 3 + rng.IntN(6)
		r := New()
		for i := 0; i < n; i++ {
			var deps []string
			if i > 0 {
				deps = []string{fmt.Sprintf("m%d", i-1)}
			}
			require.NoError(t, r.Register(stub(fmt.Sprintf("m%d", i), deps...)))
		}
		// close the chain back onto its first module
		err := r.Register(stub("m0", fmt.Sprintf("m%d", n-1)))
		assert.ErrorIs(t, err, ErrCircularDependency)
		m, ok := r.Module("m0")
		require.True(t, ok)
		assert.Empty(t, m.Dependencies)
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Register(Module{Name: "x"}), ErrInvalidModule)
	assert.ErrorIs(t, r.Register(Module{Generator: &stubGenerator{}}), ErrInvalidModule)
}

func TestUnregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(stub("users")))
	require.NoError(t, r.Register(stub("projects", "users")))

	err := r.Unregister("users")
	assert.ErrorIs(t, err, ErrModuleInUse)
	assert.Contains(t, err.Error(), "projects")

	require.NoError(t, r.SetEnabled("projects", false))
	require.NoError(t, r.Unregister("users"))
	assert.Equal(t, []string{"projects"}, r.Order())

	assert.ErrorIs(t, r.Unregister("nope"), ErrModuleNotFound)
}

func TestGenerateAll(t *testing.T) {
	r, err := NewDefault(testOptions())
	require.NoError(t, err)
	store := generators.NewStore(testConfig())

	var progress []int
	res, err := r.GenerateAll(context.Background(), store, RunOptions{
		Progress: func(_ ModuleResult, completed, total int) {
			assert.Equal(t, 5, total)
			progress = append(progress, completed)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)
	assert.Empty(t, res.Failed())
	assert.False(t, res.Stopped)

	assert.Len(t, store.Users(), 16)
	assert.Len(t, store.Projects(), 13)
	for _, m := range res.Modules {
		assert.True(t, m.Report.IsValid(), "module %s: %v", m.Name, m.Report.Errors())
	}
}

func TestGenerateAllHonoursConfiguredModules(t *testing.T) {
	r, err := NewDefault(testOptions())
	require.NoError(t, err)
	cfg := testConfig()
	cfg.EnableModules = []string{config.ModuleUsers, config.ModuleProjects}
	store := generators.NewStore(cfg)

	res, err := r.GenerateAll(context.Background(), store, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "projects"}, res.Order)
	assert.False(t, store.Published(models.KindProposal))
}

func TestCriticalFailureStops(t *testing.T) {
	r, err := NewDefault(testOptions())
	require.NoError(t, err)
	failing := &stubGenerator{kind: models.KindUser, err: errors.New("boom")}
	users, _ := r.Module("users")
	users.Generator = failing
	require.NoError(t, r.Register(users))

	store := generators.NewStore(testConfig())
	res, err := r.GenerateAll(context.Background(), store, RunOptions{})
	require.Error(t, err)
	assert.True(t, res.Stopped)
	assert.Len(t, res.Modules, 1)
	assert.Equal(t, 1, failing.calls)
	assert.False(t, store.Published(models.KindProject))
}

func TestNonCriticalFailureContinues(t *testing.T) {
	r, err := NewDefault(testOptions())
	require.NoError(t, err)
	proposals, _ := r.Module("proposals")
	proposals.Generator = &stubGenerator{kind: models.KindProposal, err: errors.New("boom")}
	require.NoError(t, r.Register(proposals))

	res, err := r.GenerateAll(context.Background(), generators.NewStore(testConfig()), RunOptions{})
	require.NoError(t, err)
	require.Len(t, res.Modules, 5)

	failed := res.Failed()
	require.Len(t, failed, 3)
	assert.Equal(t, "proposals", failed[0].Name)
	assert.ErrorIs(t, failed[1].Err, ErrMissingDependency)
	assert.Equal(t, "reviews", failed[2].Name)
}

func TestGenerateSelective(t *testing.T) {
	r, err := NewDefault(testOptions())
	require.NoError(t, err)

	t.Run("dry run resolves dependencies", func(t *testing.T) {
		res, err := r.GenerateSelective(context.Background(), generators.NewStore(testConfig()),
			SelectOptions{Modules: []string{"contracts"}, IncludeDependencies: true, DryRun: true}, RunOptions{})
		require.NoError(t, err)
		assert.True(t, res.DryRun)
		assert.Equal(t, []string{"users", "projects", "proposals", "contracts"}, res.Order)
		assert.Empty(t, res.Modules)
	})

	t.Run("by category", func(t *testing.T) {
		plan, err := r.Plan(SelectOptions{Categories: []Category{CategoryCore}})
		require.NoError(t, err)
		assert.Equal(t, []string{"users", "projects"}, plan)
	})

	t.Run("missing dependency", func(t *testing.T) {
		_, err := r.GenerateSelective(context.Background(), generators.NewStore(testConfig()),
			SelectOptions{Modules: []string{"projects"}}, RunOptions{})
		assert.ErrorIs(t, err, ErrMissingDependency)
	})

	t.Run("dependency already published", func(t *testing.T) {
		store := generators.NewStore(testConfig())
		_, err := r.GenerateSelective(context.Background(), store,
			SelectOptions{Modules: []string{"users"}}, RunOptions{})
		require.NoError(t, err)

		res, err := r.GenerateSelective(context.Background(), store,
			SelectOptions{Modules: []string{"projects"}}, RunOptions{Count: func(string) int { return 4 }})
		require.NoError(t, err)
		require.Len(t, res.Modules, 1)
		assert.Equal(t, 4, res.Modules[0].Count)
	})

	t.Run("unknown module", func(t *testing.T) {
		_, err := r.Plan(SelectOptions{Modules: []string{"invoices"}})
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})
}
