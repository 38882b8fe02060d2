package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExperienceLevel describes the seniority a job profile targets.
type ExperienceLevel string

const (
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// Valid checks if the experience level is known.
func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceJunior, ExperienceMid, ExperienceSenior:
		return true
	default:
		return false
	}
}

// JobProfile describes a position the user is preparing for. Questions,
// interviews, and resume analyses all belong to a job profile, and the
// profile's owner is the only user allowed to touch them.
type JobProfile struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Company         string
	Description     string
	ExperienceLevel ExperienceLevel
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JobProfileParams contains the validated parameters for creating or
// updating a job profile.
type JobProfileParams struct {
	Title           string
	Company         string
	Description     string
	ExperienceLevel ExperienceLevel
}
