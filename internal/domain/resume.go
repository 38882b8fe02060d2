package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResumeAnalysisStatus tracks the async analysis lifecycle.
type ResumeAnalysisStatus string

const (
	ResumeAnalysisPending   ResumeAnalysisStatus = "pending"
	ResumeAnalysisRunning   ResumeAnalysisStatus = "running"
	ResumeAnalysisCompleted ResumeAnalysisStatus = "completed"
	ResumeAnalysisFailed    ResumeAnalysisStatus = "failed"
)

// ResumeAnalysis is one AI review of an uploaded resume against a job profile.
// The uploaded file lives in object storage under FileKey; the structured AI
// result is stored as JSON once the analysis completes.
type ResumeAnalysis struct {
	ID           uuid.UUID
	JobProfileID uuid.UUID
	FileKey      string
	FileName     string
	ContentType  string
	Status       ResumeAnalysisStatus
	Score        int      // overall 0-100, zero until completed
	Strengths    []string // bullet summaries from the AI
	Improvements []string
	Result       json.RawMessage // full provider output, nil until completed
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanTransitionTo reports whether the analysis may move to the given status.
// pending → running → completed|failed; no other transitions exist.
func (r *ResumeAnalysis) CanTransitionTo(next ResumeAnalysisStatus) bool {
	switch r.Status {
	case ResumeAnalysisPending:
		return next == ResumeAnalysisRunning
	case ResumeAnalysisRunning:
		return next == ResumeAnalysisCompleted || next == ResumeAnalysisFailed
	default:
		return false
	}
}
