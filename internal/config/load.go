package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
)

// LoadSeedConfiguration starts from the environment preset and overlays the YAML file at
// path, if any. Fields missing from the file keep their preset values.
func LoadSeedConfiguration(path string, env Environment) (*SeedConfiguration, error) {
	cfg := Preset(env)
	if path == "" {
		return &cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ConfigurationError("read seed config", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errs.ConfigurationError("parse seed config", fmt.Errorf("%s: %w", path, err))
	}
	return &cfg, nil
}

// ApplyEnvOverrides returns a copy of cfg with SEED_* variables applied. lookup is
// usually os.LookupEnv. Malformed values are reported, not ignored.
func ApplyEnvOverrides(cfg SeedConfiguration, lookup func(string) (string, bool)) (SeedConfiguration, error) {
	out := cfg
	out.EnableModules = append([]string(nil), cfg.EnableModules...)

	ints := []struct {
		key string
		dst *int
	}{
		{"SEED_ADMINS", &out.UserCounts.Admins},
		{"SEED_CLIENTS", &out.UserCounts.Clients},
		{"SEED_FREELANCERS", &out.UserCounts.Freelancers},
		{"SEED_PROJECTS_DRAFT", &out.ProjectCounts.Draft},
		{"SEED_PROJECTS_OPEN", &out.ProjectCounts.Open},
		{"SEED_PROJECTS_IN_PROGRESS", &out.ProjectCounts.InProgress},
		{"SEED_PROJECTS_COMPLETED", &out.ProjectCounts.Completed},
		{"SEED_PROJECTS_CANCELLED", &out.ProjectCounts.Cancelled},
		{"SEED_PROPOSALS", &out.Relationships.Proposals},
		{"SEED_CONTRACTS", &out.Relationships.Contracts},
		{"SEED_REVIEWS", &out.Relationships.Reviews},
		{"SEED_BATCH_SIZE", &out.BatchSize},
		{"SEED_CONCURRENCY", &out.Concurrency},
		{"SEED_RETRY_ATTEMPTS", &out.RetryAttempts},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errs.ConfigurationError("env override", fmt.Errorf("%s=%q: %w", f.key, v, err))
		}
		*f.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"SEED_SKIP_EXISTING", &out.SkipExisting},
		{"SEED_CLEAR_EXISTING", &out.ClearExisting},
		{"SEED_STRICT_VALIDATION", &out.StrictValidation},
	}
	for _, f := range bools {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errs.ConfigurationError("env override", fmt.Errorf("%s=%q: %w", f.key, v, err))
		}
		*f.dst = b
	}

	if v, ok := lookup("SEED_RETRY_DELAY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errs.ConfigurationError("env override", fmt.Errorf("SEED_RETRY_DELAY=%q: %w", v, err))
		}
		out.RetryDelay = d
	}
	if v, ok := lookup("SEED_RANDOM_SEED"); ok && v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, errs.ConfigurationError("env override", fmt.Errorf("SEED_RANDOM_SEED=%q: %w", v, err))
		}
		out.Seed = s
	}
	if v, ok := lookup("SEED_MODULES"); ok && v != "" {
		out.EnableModules = out.EnableModules[:0]
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				out.EnableModules = append(out.EnableModules, m)
			}
		}
	}
	if v, ok := lookup("SEED_PASSWORD"); ok && v != "" {
		out.Password = v
	}
	return out, nil
}
