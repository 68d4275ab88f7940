package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ExperienceLevel string

const (
	LevelJunior ExperienceLevel = "junior"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
	LevelExpert ExperienceLevel = "expert"
)

type Availability string

const (
	AvailabilityFullTime    Availability = "full_time"
	AvailabilityPartTime    Availability = "part_time"
	AvailabilityAsNeeded    Availability = "as_needed"
	AvailabilityUnavailable Availability = "unavailable"
)

type PortfolioItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Skills      []string `json:"skills"`
}

type Certification struct {
	Name     string    `json:"name"`
	Issuer   string    `json:"issuer"`
	IssuedAt time.Time `json:"issued_at"`
}

type WorkExperience struct {
	Company   string     `json:"company"`
	Position  string     `json:"position"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Year        int    `json:"year"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type FreelancerProfile struct {
	Base
	UserID uuid.UUID `gorm:"type:char(36);uniqueIndex;not null" json:"user_id"`

	Title           string          `gorm:"type:varchar(120)" json:"title"`
	Category        string          `gorm:"type:varchar(60);index" json:"category"`
	ExperienceLevel ExperienceLevel `gorm:"type:varchar(20)" json:"experience_level"`
	ExperienceYears int             `json:"experience_years"`
	HourlyRate      float64         `json:"hourly_rate"`
	Specialized     bool            `json:"specialized"`

	Skills         datatypes.JSONSlice[string]         `json:"skills"`
	Portfolio      datatypes.JSONSlice[PortfolioItem]  `json:"portfolio"`
	Certifications datatypes.JSONSlice[Certification]  `json:"certifications"`
	WorkHistory    datatypes.JSONSlice[WorkExperience] `json:"work_history"`
	Education      datatypes.JSONSlice[Education]      `json:"education"`
	Languages      datatypes.JSONSlice[Language]       `json:"languages"`

	Availability Availability `gorm:"type:varchar(20)" json:"availability"`
	HoursPerWeek int          `json:"hours_per_week"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasSkill reports whether the profile lists the skill, case-sensitively.
func (p *FreelancerProfile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
