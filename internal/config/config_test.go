package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, env := range []Environment{EnvDevelopment, EnvTesting, EnvDemo, EnvStaging} {
		cfg := Preset(env)
		assert.NoError(t, cfg.Validate(), env)
	}
}

func TestTestingPresetMatchesScenario(t *testing.T) {
	cfg := Preset(EnvTesting)
	assert.Equal(t, 16, cfg.UserCounts.Total())
	assert.Equal(t, 13, cfg.ProjectCounts.Total())
	assert.Equal(t, 12, cfg.CountFor(ModuleProposals))
	assert.Equal(t, 0, cfg.CountFor(ModuleContracts))
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Preset(EnvTesting)
	cfg.EnableModules = []string{ModuleUsers, ModuleProposals, "invoices"}
	cfg.BatchSize = 0
	cfg.UserCounts = UserCounts{}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errs.Configuration, errs.CategoryOf(err))
	msg := err.Error()
	assert.Contains(t, msg, `unknown module "invoices"`)
	assert.Contains(t, msg, `module "proposals" requires "projects"`)
	assert.Contains(t, msg, "batchSize must be positive")
	assert.Contains(t, msg, "user counts must be positive")
}

func TestValidateRejectsConflictingExistingPolicies(t *testing.T) {
	cfg := Preset(EnvTesting)
	cfg.SkipExisting = true
	cfg.ClearExisting = true
	assert.Error(t, cfg.Validate())
}

func TestApplyEnvOverrides(t *testing.T) {
	base := Preset(EnvDevelopment)
	out, err := ApplyEnvOverrides(base, lookupFrom(map[string]string{
		"SEED_FREELANCERS":   "7",
		"SEED_MODULES":       "users, projects",
		"SEED_RETRY_DELAY":   "250ms",
		"SEED_SKIP_EXISTING": "true",
		"SEED_RANDOM_SEED":   "42",
	}))
	require.NoError(t, err)

	assert.Equal(t, 7, out.UserCounts.Freelancers)
	assert.Equal(t, []string{ModuleUsers, ModuleProjects}, out.EnableModules)
	assert.Equal(t, 250*time.Millisecond, out.RetryDelay)
	assert.True(t, out.SkipExisting)
	assert.Equal(t, uint64(42), out.Seed)

	// the input is left untouched
	assert.Equal(t, 50, base.UserCounts.Freelancers)
	assert.Len(t, base.EnableModules, len(KnownModules))
}

func TestApplyEnvOverridesRejectsMalformedValues(t *testing.T) {
	_, err := ApplyEnvOverrides(Preset(EnvTesting), lookupFrom(map[string]string{"SEED_BATCH_SIZE": "lots"}))
	require.Error(t, err)
	assert.Equal(t, errs.Configuration, errs.CategoryOf(err))
}

func TestLoadSeedConfigurationOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
userCounts:
  admins: 2
  clients: 3
  freelancers: 4
retryDelay: 2s
enableModules: [users, projects]
`), 0o600))

	cfg, err := LoadSeedConfiguration(path, EnvTesting)
	require.NoError(t, err)
	assert.Equal(t, UserCounts{Admins: 2, Clients: 3, Freelancers: 4}, cfg.UserCounts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, []string{ModuleUsers, ModuleProjects}, cfg.EnableModules)
	// untouched preset values survive
	assert.Equal(t, 3, cfg.ProjectCounts.Open)
	require.NoError(t, cfg.Validate())
}

func TestLoadSeedConfigurationMissingFile(t *testing.T) {
	_, err := LoadSeedConfiguration(filepath.Join(t.TempDir(), "nope.yaml"), EnvTesting)
	require.Error(t, err)
	assert.Equal(t, errs.Configuration, errs.CategoryOf(err))
}
