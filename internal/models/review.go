package models

import (
	"time"

	"github.com/google/uuid"
)

type ReviewDirection string

const (
	ClientToFreelancer ReviewDirection = "client_to_freelancer"
	FreelancerToClient ReviewDirection = "freelancer_to_client"
)

type Review struct {
	Base
	ContractID uuid.UUID `gorm:"type:char(36);index;not null" json:"contract_id"`
	ProjectID  uuid.UUID `gorm:"type:char(36);index" json:"project_id"`
	ReviewerID uuid.UUID `gorm:"type:char(36);index;not null" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"type:char(36);index;not null" json:"reviewee_id"`

	Direction ReviewDirection `gorm:"type:varchar(30);not null" json:"direction"`
	Rating    int             `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"` // 1-5
	Title     string          `json:"title"`
	Comment   string          `gorm:"type:text" json:"comment"`
	IsPublic  bool            `json:"is_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
