package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

// UserProfile is the public part of an account.
type UserProfile struct {
	FirstName string `gorm:"type:varchar(80)" json:"first_name"`
	LastName  string `gorm:"type:varchar(80)" json:"last_name"`
	Slug      string `gorm:"type:varchar(50);uniqueIndex" json:"slug"`
	Bio       string `gorm:"type:text" json:"bio"`
	Location  string `gorm:"type:varchar(120)" json:"location"`
	Website   string `gorm:"type:varchar(255)" json:"website,omitempty"`
	AvatarURL string `gorm:"type:text" json:"avatar_url,omitempty"`
}

// UserRating aggregates the reviews a user has received.
type UserRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type User struct {
	Base
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive bool   `gorm:"not null" json:"is_active"`

	Profile UserProfile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	Rating  UserRating  `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HAS ONE freelancer_profile (freelancer_profiles.user_id -> users.id)
	FreelancerProfile *FreelancerProfile `gorm:"foreignKey:UserID;references:ID" json:"freelancer_profile,omitempty"`
}

// IsFreelancer reports whether the user can bid on projects.
func (u *User) IsFreelancer() bool {
	return u != nil && u.Role == RoleFreelancer && u.FreelancerProfile != nil
}

// UserIDs indexes users by id.
func UserIDs(users []*User) map[uuid.UUID]*User {
	out := make(map[uuid.UUID]*User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}
