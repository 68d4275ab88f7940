package config

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
)

// Validate rejects configurations that cannot produce a consistent run. Every problem is
// reported in one configuration-category error.
func (c *SeedConfiguration) Validate() error {
	var result *multierror.Error

	if c.Environment == "" {
		result = multierror.Append(result, fmt.Errorf("environment is required"))
	}
	if len(c.EnableModules) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one module must be enabled"))
	}

	seen := map[string]bool{}
	for _, m := range c.EnableModules {
		if !slices.Contains(KnownModules, m) {
			result = multierror.Append(result, fmt.Errorf("unknown module %q", m))
			continue
		}
		if seen[m] {
			result = multierror.Append(result, fmt.Errorf("module %q listed twice", m))
		}
		seen[m] = true
	}
	for _, m := range c.EnableModules {
		for _, dep := range ModuleDependencies[m] {
			if !seen[dep] {
				result = multierror.Append(result, fmt.Errorf("module %q requires %q", m, dep))
			}
		}
	}

	if c.ModuleEnabled(ModuleUsers) {
		u := c.UserCounts
		if u.Admins < 0 || u.Clients < 0 || u.Freelancers < 0 {
			result = multierror.Append(result, fmt.Errorf("user counts must not be negative"))
		}
		if u.Total() <= 0 {
			result = multierror.Append(result, fmt.Errorf("user counts must be positive"))
		}
		if c.ModuleEnabled(ModuleProjects) && u.Clients <= 0 {
			result = multierror.Append(result, fmt.Errorf("projects require at least one client"))
		}
		if c.ModuleEnabled(ModuleProposals) && u.Freelancers <= 0 {
			result = multierror.Append(result, fmt.Errorf("proposals require at least one freelancer"))
		}
	}
	if c.ModuleEnabled(ModuleProjects) {
		p := c.ProjectCounts
		if p.Draft < 0 || p.Open < 0 || p.InProgress < 0 || p.Completed < 0 || p.Cancelled < 0 {
			result = multierror.Append(result, fmt.Errorf("project counts must not be negative"))
		}
		if p.Total() <= 0 {
			result = multierror.Append(result, fmt.Errorf("project counts must be positive"))
		}
	}
	r := c.Relationships
	if r.Proposals < 0 || r.Contracts < 0 || r.Reviews < 0 {
		result = multierror.Append(result, fmt.Errorf("relationship counts must not be negative"))
	}

	if c.BatchSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("batchSize must be positive"))
	}
	if c.Concurrency <= 0 {
		result = multierror.Append(result, fmt.Errorf("concurrency must be positive"))
	}
	if c.RetryAttempts < 0 {
		result = multierror.Append(result, fmt.Errorf("retryAttempts must not be negative"))
	}
	if c.RetryDelay < 0 {
		result = multierror.Append(result, fmt.Errorf("retryDelay must not be negative"))
	}
	if c.BackoffFactor != 0 && c.BackoffFactor < 1 {
		result = multierror.Append(result, fmt.Errorf("backoffFactor must be >= 1"))
	}
	if c.SkipExisting && c.ClearExisting {
		result = multierror.Append(result, fmt.Errorf("skipExisting and clearExisting are mutually exclusive"))
	}
	if c.Password == "" {
		result = multierror.Append(result, fmt.Errorf("password is required"))
	}
	if c.MilestoneHorizon <= 0 {
		result = multierror.Append(result, fmt.Errorf("milestoneHorizon must be positive"))
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 100 {
		result = multierror.Append(result, fmt.Errorf("qualityThreshold must be within 0..100"))
	}

	if err := result.ErrorOrNil(); err != nil {
		return errs.ConfigurationError("validate seed configuration", err)
	}
	return nil
}
