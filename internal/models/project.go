package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

type Complexity string

const (
	ComplexitySimple     Complexity = "simple"
	ComplexityModerate   Complexity = "moderate"
	ComplexityComplex    Complexity = "complex"
	ComplexityEnterprise Complexity = "enterprise"
)

type BudgetType string

const (
	BudgetFixed  BudgetType = "fixed"
	BudgetHourly BudgetType = "hourly"
)

type Budget struct {
	Type     BudgetType `gorm:"type:varchar(10)" json:"type"`
	Min      float64    `json:"min"`
	Max      float64    `json:"max"`
	Currency string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`
}

// Midpoint returns the centre of the budget range.
func (b Budget) Midpoint() float64 {
	return (b.Min + b.Max) / 2
}

type TimelineUnit string

const (
	UnitDays   TimelineUnit = "days"
	UnitWeeks  TimelineUnit = "weeks"
	UnitMonths TimelineUnit = "months"
)

type Timeline struct {
	Duration int          `json:"duration"`
	Unit     TimelineUnit `gorm:"type:varchar(10)" json:"unit"`
}

// Days converts the timeline to calendar days (weeks = 7, months = 30).
func (t Timeline) Days() int {
	switch t.Unit {
	case UnitWeeks:
		return t.Duration * 7
	case UnitMonths:
		return t.Duration * 30
	default:
		return t.Duration
	}
}

type Project struct {
	Base
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(60);index" json:"category"`

	Budget   Budget                      `gorm:"embedded;embeddedPrefix:budget_" json:"budget"`
	Timeline Timeline                    `gorm:"embedded;embeddedPrefix:timeline_" json:"timeline"`
	Skills   datatypes.JSONSlice[string] `json:"skills"`

	ClientID       uuid.UUID     `gorm:"type:char(36);index;not null" json:"client_id"`
	Status         ProjectStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	Complexity     Complexity    `gorm:"type:varchar(20)" json:"complexity"`
	EstimatedHours int           `json:"estimated_hours"`

	IsDraft      bool       `json:"is_draft"`
	DraftSavedAt *time.Time `json:"draft_saved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
