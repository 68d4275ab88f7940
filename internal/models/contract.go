package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
	ContractDisputed  ContractStatus = "disputed"
)

type ContractMilestone struct {
	Title       string          `json:"title"`
	Amount      float64         `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Status      MilestoneStatus `json:"status"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
}

type Contract struct {
	Base
	ProposalID   uuid.UUID `gorm:"type:char(36);uniqueIndex;not null" json:"proposal_id"`
	ClientID     uuid.UUID `gorm:"type:char(36);index;not null" json:"client_id"`
	FreelancerID uuid.UUID `gorm:"type:char(36);index;not null" json:"freelancer_id"`
	ProjectID    uuid.UUID `gorm:"type:char(36);index;not null" json:"project_id"`

	Title       string     `json:"title"`
	TotalAmount float64    `gorm:"not null" json:"total_amount"`
	PaymentType BudgetType `gorm:"type:varchar(10)" json:"payment_type"`
	Currency    string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	StartDate time.Time      `json:"start_date"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	Status    ContractStatus `gorm:"type:varchar(20);index;not null" json:"status"`

	Milestones datatypes.JSONSlice[ContractMilestone] `json:"milestones"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MilestoneTotal sums the milestone amounts.
func (c *Contract) MilestoneTotal() float64 {
	var sum float64
	for _, m := range c.Milestones {
		sum += m.Amount
	}
	return sum
}
