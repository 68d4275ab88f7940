package seeder

import (
	"fmt"
	"time"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/performance"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/registry"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/validation"
)

// RunError is one failure recorded during a run.
type RunError struct {
	Step     string        `json:"step"`
	Category errs.Category `json:"category"`
	Message  string        `json:"message"`
	Err      error         `json:"-"`
}

func (e RunError) Error() string { return fmt.Sprintf("%s: %s", e.Step, e.Message) }

func (e RunError) Unwrap() error { return e.Err }

func newRunError(step string, err error) RunError {
	return RunError{Step: step, Category: errs.CategoryOf(err), Message: err.Error(), Err: err}
}

// Result summarises one run. Persisted tells callers exactly what reached storage, also
// when the run failed part way.
type Result struct {
	Success     bool               `json:"success"`
	Skipped     bool               `json:"skipped,omitempty"`
	Environment config.Environment `json:"environment"`
	StartedAt   time.Time          `json:"started_at"`
	Duration    time.Duration      `json:"duration"`

	Order     []string                `json:"order"`
	Modules   []registry.ModuleResult `json:"modules,omitempty"`
	Generated map[models.Kind]int     `json:"generated"`
	Persisted map[models.Kind]int     `json:"persisted"`

	RatingsUpdated int                       `json:"ratings_updated"`
	Issues         []validation.Issue        `json:"issues,omitempty"`
	Quality        *validation.QualityReport `json:"quality,omitempty"`
	Performance    *performance.Report       `json:"performance,omitempty"`
	Errors         []RunError                `json:"errors"`
}

func newResult(cfg *config.SeedConfiguration, started time.Time) *Result {
	return &Result{
		Environment: cfg.Environment,
		StartedAt:   started,
		Generated:   make(map[models.Kind]int),
		Persisted:   make(map[models.Kind]int),
		Errors:      []RunError{},
	}
}

func (r *Result) fail(step string, err error) {
	r.Errors = append(r.Errors, newRunError(step, err))
}

func (r *Result) kindOf(module string) models.Kind {
	k, _ := models.KindFromModule(module)
	return k
}

// TotalPersisted sums the persisted counts.
func (r *Result) TotalPersisted() int {
	n := 0
	for _, c := range r.Persisted {
		n += c
	}
	return n
}
