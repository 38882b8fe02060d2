package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/repository"
)

// Job type constants - these must match the JobHandler.Type() values
const (
	JobTypeAnalyzeResume = "analyze_resume"
	JobTypeResetUsage    = "reset_usage"
)

// Priority constants for job scheduling
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// AnalyzeResumePayload is the payload for resume analysis jobs.
type AnalyzeResumePayload struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
	UserID     uuid.UUID `json:"user_id"`
}

// ResetUsagePayload is the payload for usage counter reset jobs,
// enqueued when a billing period renews.
type ResetUsagePayload struct {
	UserID uuid.UUID `json:"user_id"`
}

// EnqueueOption is a functional option for customizing job enqueue parameters.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the maximum number of retry attempts.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// WithDelay schedules the job to run after a delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = time.Now().Add(delay)
	}
}

// EnqueueJob is a generic helper for enqueuing jobs with custom options.
func EnqueueJob(
	ctx context.Context,
	queries *repository.Queries,
	jobType string,
	payload interface{},
	opts ...EnqueueOption,
) (repository.Job, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.Job{}, fmt.Errorf("marshal payload: %w", err)
	}

	params := repository.EnqueueJobParams{
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&params)
	}

	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

// EnqueueAnalyzeResume enqueues a job to analyze an uploaded resume.
// Called after the resume file has been stored.
func EnqueueAnalyzeResume(
	ctx context.Context,
	queries *repository.Queries,
	analysisID uuid.UUID,
	userID uuid.UUID,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := AnalyzeResumePayload{
		AnalysisID: analysisID,
		UserID:     userID,
	}

	return EnqueueJob(ctx, queries, JobTypeAnalyzeResume, payload, opts...)
}

// EnqueueResetUsage enqueues a job to reset a user's usage counters.
// Called from the Stripe webhook when a billing period renews.
func EnqueueResetUsage(
	ctx context.Context,
	queries *repository.Queries,
	userID uuid.UUID,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := ResetUsagePayload{
		UserID: userID,
	}

	return EnqueueJob(ctx, queries, JobTypeResetUsage, payload, opts...)
}
