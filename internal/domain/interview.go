package domain

import (
	"time"

	"github.com/google/uuid"
)

// Interview is one mock voice interview session for a job profile. The voice
// transport itself runs against an external provider; this record tracks the
// session's lifecycle and feedback for billing and history.
type Interview struct {
	ID           uuid.UUID
	JobProfileID uuid.UUID
	Duration     string // e.g. "12:30", reported by the voice provider
	HumeChatID   string // external voice session identifier, if any
	Feedback     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InterviewUpdateParams contains the mutable fields of an interview.
// Nil fields are left unchanged.
type InterviewUpdateParams struct {
	Duration   *string
	HumeChatID *string
	Feedback   *string
}
