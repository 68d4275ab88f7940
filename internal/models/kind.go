package models

import (
	"github.com/go-openapi/inflect"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind names one of the generated entity types.
type Kind string

const (
	KindUser     Kind = "user"
	KindProject  Kind = "project"
	KindProposal Kind = "proposal"
	KindContract Kind = "contract"
	KindReview   Kind = "review"
)

// AllKinds lists the entity kinds in dependency order.
var AllKinds = []Kind{KindUser, KindProject, KindProposal, KindContract, KindReview}

// Module returns the generation module (and collection) name for the kind, e.g. "users".
func (k Kind) Module() string {
	return inflect.Pluralize(string(k))
}

// KindFromModule maps a module name back to its kind.
func KindFromModule(name string) (Kind, bool) {
	k := Kind(inflect.Singularize(name))
	for _, known := range AllKinds {
		if known == k {
			return k, true
		}
	}
	return "", false
}

// Base carries the identifier shared by every generated record.
type Base struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
