package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProposalStatus string

const (
	ProposalSubmitted ProposalStatus = "submitted"
	ProposalAccepted  ProposalStatus = "accepted"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalWithdrawn ProposalStatus = "withdrawn"
)

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneApproved   MilestoneStatus = "approved"
	MilestoneOverdue    MilestoneStatus = "overdue"
	MilestoneCancelled  MilestoneStatus = "cancelled"
	MilestoneDisputed   MilestoneStatus = "disputed"
)

type Milestone struct {
	Title   string          `json:"title"`
	Amount  float64         `json:"amount"`
	DueDate time.Time       `json:"due_date"`
	Status  MilestoneStatus `json:"status"`
}

type Proposal struct {
	Base
	ProjectID    uuid.UUID `gorm:"type:char(36);index;not null" json:"project_id"`
	FreelancerID uuid.UUID `gorm:"type:char(36);index;not null" json:"freelancer_id"`
	ClientID     uuid.UUID `gorm:"type:char(36);index" json:"client_id"`

	CoverLetter string                         `gorm:"type:text" json:"cover_letter"`
	BidAmount   float64                        `gorm:"not null" json:"bid_amount"`
	BidType     BudgetType                     `gorm:"type:varchar(10)" json:"bid_type"`
	Timeline    Timeline                       `gorm:"embedded;embeddedPrefix:timeline_" json:"timeline"`
	Milestones  datatypes.JSONSlice[Milestone] `json:"milestones"`

	Status      ProposalStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MilestoneTotal sums the milestone amounts.
func (p *Proposal) MilestoneTotal() float64 {
	var sum float64
	for _, m := range p.Milestones {
		sum += m.Amount
	}
	return sum
}
