package config

import (
	"time"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvDemo        Environment = "demo"
	EnvStaging     Environment = "staging"
)

// Module names, one per generated entity collection.
const (
	ModuleUsers     = "users"
	ModuleProjects  = "projects"
	ModuleProposals = "proposals"
	ModuleContracts = "contracts"
	ModuleReviews   = "reviews"
)

// KnownModules lists the modules in dependency order.
var KnownModules = []string{ModuleUsers, ModuleProjects, ModuleProposals, ModuleContracts, ModuleReviews}

// ModuleDependencies is the declared dependency graph between modules.
var ModuleDependencies = map[string][]string{
	ModuleUsers:     nil,
	ModuleProjects:  {ModuleUsers},
	ModuleProposals: {ModuleUsers, ModuleProjects},
	ModuleContracts: {ModuleProposals, ModuleProjects},
	ModuleReviews:   {ModuleContracts},
}

type UserCounts struct {
	Admins      int `yaml:"admins" json:"admins"`
	Clients     int `yaml:"clients" json:"clients"`
	Freelancers int `yaml:"freelancers" json:"freelancers"`
}

func (u UserCounts) Total() int { return u.Admins + u.Clients + u.Freelancers }

type ProjectCounts struct {
	Draft      int `yaml:"draft" json:"draft"`
	Open       int `yaml:"open" json:"open"`
	InProgress int `yaml:"inProgress" json:"inProgress"`
	Completed  int `yaml:"completed" json:"completed"`
	Cancelled  int `yaml:"cancelled" json:"cancelled"`
}

func (p ProjectCounts) Total() int {
	return p.Draft + p.Open + p.InProgress + p.Completed + p.Cancelled
}

// RelationshipCounts caps the derived entity volumes. Zero means derived:
// 4 proposals per open project, a contract for every accepted proposal, no review cap.
type RelationshipCounts struct {
	Proposals int `yaml:"proposals" json:"proposals"`
	Contracts int `yaml:"contracts" json:"contracts"`
	Reviews   int `yaml:"reviews" json:"reviews"`
}

type PerformanceThresholds struct {
	MaxSeedingTime   time.Duration `yaml:"maxSeedingTime" json:"maxSeedingTime"`
	MaxOperationTime time.Duration `yaml:"maxOperationTime" json:"maxOperationTime"`
	MaxMemoryMB      int           `yaml:"maxMemoryMB" json:"maxMemoryMB"`
	MinThroughput    float64       `yaml:"minThroughput" json:"minThroughput"`
}

// SeedConfiguration describes one seeding run. It is built explicitly and passed by
// reference; there is no package-level instance.
type SeedConfiguration struct {
	Environment   Environment        `yaml:"environment" json:"environment"`
	UserCounts    UserCounts         `yaml:"userCounts" json:"userCounts"`
	ProjectCounts ProjectCounts      `yaml:"projectCounts" json:"projectCounts"`
	Relationships RelationshipCounts `yaml:"relationships" json:"relationships"`
	EnableModules []string           `yaml:"enableModules" json:"enableModules"`

	BatchSize     int           `yaml:"batchSize" json:"batchSize"`
	Concurrency   int           `yaml:"concurrency" json:"concurrency"`
	RetryAttempts int           `yaml:"retryAttempts" json:"retryAttempts"`
	RetryDelay    time.Duration `yaml:"retryDelay" json:"retryDelay"`
	BackoffFactor float64       `yaml:"backoffFactor" json:"backoffFactor"`

	SkipExisting     bool `yaml:"skipExisting" json:"skipExisting"`
	ClearExisting    bool `yaml:"clearExisting" json:"clearExisting"`
	StrictValidation bool `yaml:"strictValidation" json:"strictValidation"`

	Seed     uint64 `yaml:"seed" json:"seed"`
	Password string `yaml:"password" json:"-"`

	// MilestoneHorizon spreads contract milestones regardless of the contract length.
	// Proposals space milestones across their own timeline instead; the two differ on purpose
	// until product confirms which spacing contracts should use.
	MilestoneHorizon time.Duration `yaml:"milestoneHorizon" json:"milestoneHorizon"`

	QualityThreshold float64               `yaml:"qualityThreshold" json:"qualityThreshold"`
	Performance      PerformanceThresholds `yaml:"performance" json:"performance"`
}

// ModuleEnabled reports whether name is listed in EnableModules.
func (c *SeedConfiguration) ModuleEnabled(name string) bool {
	for _, m := range c.EnableModules {
		if m == name {
			return true
		}
	}
	return false
}

// CountFor returns the requested entity count for a module. Derived modules return
// their configured cap, which may be zero.
func (c *SeedConfiguration) CountFor(module string) int {
	switch module {
	case ModuleUsers:
		return c.UserCounts.Total()
	case ModuleProjects:
		return c.ProjectCounts.Total()
	case ModuleProposals:
		if c.Relationships.Proposals > 0 {
			return c.Relationships.Proposals
		}
		return c.ProjectCounts.Open * 4
	case ModuleContracts:
		return c.Relationships.Contracts
	case ModuleReviews:
		return c.Relationships.Reviews
	}
	return 0
}

func defaults() SeedConfiguration {
	return SeedConfiguration{
		EnableModules:    append([]string(nil), KnownModules...),
		BatchSize:        100,
		Concurrency:      4,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		BackoffFactor:    1,
		StrictValidation: true,
		Password:         "password123",
		MilestoneHorizon: 30 * 24 * time.Hour,
		QualityThreshold: 70,
		Performance: PerformanceThresholds{
			MaxSeedingTime:   120 * time.Second,
			MaxOperationTime: 30 * time.Second,
			MaxMemoryMB:      512,
			MinThroughput:    10,
		},
	}
}

// Preset returns the baseline configuration for an environment. Unknown environments
// fall back to development volumes.
func Preset(env Environment) SeedConfiguration {
	cfg := defaults()
	cfg.Environment = env
	switch env {
	case EnvTesting:
		cfg.UserCounts = UserCounts{Admins: 1, Clients: 5, Freelancers: 10}
		cfg.ProjectCounts = ProjectCounts{Draft: 2, Open: 3, InProgress: 2, Completed: 5, Cancelled: 1}
		cfg.BatchSize = 50
		cfg.RetryDelay = 10 * time.Millisecond
		cfg.SkipExisting = false
		cfg.ClearExisting = true
	case EnvDemo:
		cfg.UserCounts = UserCounts{Admins: 2, Clients: 40, Freelancers: 120}
		cfg.ProjectCounts = ProjectCounts{Draft: 10, Open: 60, InProgress: 30, Completed: 80, Cancelled: 10}
		cfg.SkipExisting = true
	case EnvStaging:
		cfg.UserCounts = UserCounts{Admins: 3, Clients: 200, Freelancers: 800}
		cfg.ProjectCounts = ProjectCounts{Draft: 50, Open: 300, InProgress: 150, Completed: 400, Cancelled: 50}
		cfg.BatchSize = 500
		cfg.Concurrency = 8
		cfg.SkipExisting = true
	default:
		cfg.Environment = EnvDevelopment
		cfg.UserCounts = UserCounts{Admins: 1, Clients: 20, Freelancers: 50}
		cfg.ProjectCounts = ProjectCounts{Draft: 5, Open: 20, InProgress: 10, Completed: 25, Cancelled: 5}
		cfg.ClearExisting = true
	}
	return cfg
}
