// Package validation checks generated entities: per-type structural rules, references
// across entity types, and an aggregate quality score.
package validation

import (
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Category string

const (
	CategoryRequired   Category = "required"
	CategoryRange      Category = "range"
	CategoryFormat     Category = "format"
	CategoryTemporal   Category = "temporal"
	CategoryBusiness   Category = "business"
	CategoryReference  Category = "reference"
	CategoryUniqueness Category = "uniqueness"
)

// Issue is one rule violation found on one entity.
type Issue struct {
	Kind        models.Kind `json:"kind"`
	EntityIndex int         `json:"entity_index"`
	EntityID    string      `json:"entity_id,omitempty"`
	RuleName    string      `json:"rule"`
	Message     string      `json:"message"`
	Severity    Severity    `json:"severity"`
	Category    Category    `json:"category"`
}

// Rule is a named predicate. Check returns nil when the entity passes.
type Rule[T any] struct {
	Name     string
	Severity Severity
	Category Category
	Check    func(T) error
}

// RuleSet is the ordered list of rules for one entity type.
type RuleSet[T any] struct {
	kind  models.Kind
	id    func(T) string
	rules []Rule[T]
}

func NewRuleSet[T any](kind models.Kind, id func(T) string, rules ...Rule[T]) *RuleSet[T] {
	return &RuleSet[T]{kind: kind, id: id, rules: rules}
}

// Add appends a rule; later rules run after earlier ones.
func (rs *RuleSet[T]) Add(r Rule[T]) *RuleSet[T] {
	rs.rules = append(rs.rules, r)
	return rs
}

func (rs *RuleSet[T]) Kind() models.Kind { return rs.kind }

func (rs *RuleSet[T]) Rules() []Rule[T] { return rs.rules }

// Validate runs every rule against every entity. Issues are ordered by entity index,
// then by rule registration order, so repeated runs over the same input are identical.
func (rs *RuleSet[T]) Validate(entities []T) Report {
	report := Report{Kind: rs.kind, Total: len(entities)}
	for i, e := range entities {
		failed := false
		for _, r := range rs.rules {
			err := r.Check(e)
			if err == nil {
				continue
			}
			issue := Issue{
				Kind:        rs.kind,
				EntityIndex: i,
				RuleName:    r.Name,
				Message:     err.Error(),
				Severity:    r.Severity,
				Category:    r.Category,
			}
			if rs.id != nil {
				issue.EntityID = rs.id(e)
			}
			report.Issues = append(report.Issues, issue)
			if r.Severity == SeverityError {
				failed = true
			}
		}
		if !failed {
			report.Valid++
		}
	}
	return report
}

// Report is the outcome of running a rule set over a batch.
type Report struct {
	Kind   models.Kind `json:"kind"`
	Total  int         `json:"total"`
	Valid  int         `json:"valid"`
	Issues []Issue     `json:"issues,omitempty"`
}

// IsValid reports whether no entity produced an error-severity issue.
func (r Report) IsValid() bool {
	return r.Valid == r.Total
}

func (r Report) Errors() []Issue   { return r.filter(SeverityError) }
func (r Report) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// ValidRatio is the share of valid entities; an empty batch counts as fully valid.
func (r Report) ValidRatio() float64 {
	if r.Total == 0 {
		return 1
	}
	return float64(r.Valid) / float64(r.Total)
}

// Mismatch builds a report for a batch of the wrong entity type.
func Mismatch(kind models.Kind, got string) Report {
	return Report{
		Kind:  kind,
		Total: 1,
		Issues: []Issue{{
			Kind:     kind,
			RuleName: "entity_kind",
			Message:  "expected " + string(kind) + " entities, got " + got,
			Severity: SeverityError,
			Category: CategoryBusiness,
		}},
	}
}
