package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/metrics"
	"github.com/prepdeck/prepdeck/internal/repository"
)

// InterviewService defines the interface for mock interview operations.
type InterviewService interface {
	// Start consumes one unit of interview quota and creates an interview
	// record for the job profile. A denied decision is returned without
	// error; the caller decides how to surface it.
	Start(ctx context.Context, user *domain.User, jobProfileID uuid.UUID) (*domain.Interview, domain.Decision, error)

	// GetByID retrieves an interview, verifying ownership through its job profile.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Interview, error)

	// List retrieves all interviews for a job profile, newest first.
	List(ctx context.Context, jobProfileID, userID uuid.UUID) ([]domain.Interview, error)

	// Update records session details reported after the interview ends.
	Update(ctx context.Context, id, userID uuid.UUID, params domain.InterviewUpdateParams) (*domain.Interview, error)
}

// interviewService implements InterviewService.
type interviewService struct {
	queries  *repository.Queries
	profiles JobProfileService
	usage    UsageService
	logger   *slog.Logger
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(queries *repository.Queries, profiles JobProfileService, usage UsageService, logger *slog.Logger) InterviewService {
	return &interviewService{
		queries:  queries,
		profiles: profiles,
		usage:    usage,
		logger:   logger,
	}
}

// Start consumes quota and creates an interview record.
func (s *interviewService) Start(ctx context.Context, user *domain.User, jobProfileID uuid.UUID) (*domain.Interview, domain.Decision, error) {
	const op = "InterviewService.Start"

	if _, err := s.profiles.GetByID(ctx, jobProfileID, user.ID); err != nil {
		return nil, domain.Decision{}, err
	}

	decision, _, err := s.usage.Consume(ctx, user.ID, user.PlanTier, domain.FeatureInterviews)
	if err != nil {
		return nil, domain.Decision{}, err
	}
	if !decision.Allowed {
		return nil, decision, nil
	}

	repoInterview, err := s.queries.CreateInterview(ctx, jobProfileID)
	if err != nil {
		if _, relErr := s.usage.Release(ctx, user.ID, domain.FeatureInterviews); relErr != nil {
			s.logger.Error("failed to release interview usage", "error", relErr, "user_id", user.ID)
		}
		return nil, decision, domain.Internal(err, op, "Failed to create interview")
	}

	interview := repoInterviewToDomain(repoInterview)
	metrics.InterviewsStarted.Inc()
	s.logger.Info("interview started",
		"interview_id", interview.ID,
		"job_profile_id", jobProfileID,
		"user_id", user.ID,
	)

	return &interview, decision, nil
}

// GetByID retrieves an interview, verifying ownership through its job profile.
func (s *interviewService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Interview, error) {
	const op = "InterviewService.GetByID"

	repoInterview, err := s.queries.GetInterviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "interview", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve interview")
	}

	if _, err := s.profiles.GetByID(ctx, repoInterview.JobProfileID, userID); err != nil {
		return nil, domain.NotFound(op, "interview", id.String())
	}

	interview := repoInterviewToDomain(repoInterview)
	return &interview, nil
}

// List retrieves all interviews for a job profile.
func (s *interviewService) List(ctx context.Context, jobProfileID, userID uuid.UUID) ([]domain.Interview, error) {
	const op = "InterviewService.List"

	if _, err := s.profiles.GetByID(ctx, jobProfileID, userID); err != nil {
		return nil, err
	}

	repoInterviews, err := s.queries.ListInterviewsByJobProfileID(ctx, jobProfileID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list interviews")
	}

	interviews := make([]domain.Interview, len(repoInterviews))
	for i, ri := range repoInterviews {
		interviews[i] = repoInterviewToDomain(ri)
	}

	return interviews, nil
}

// Update records session details after the interview ends. Nil fields in
// params are left unchanged.
func (s *interviewService) Update(ctx context.Context, id, userID uuid.UUID, params domain.InterviewUpdateParams) (*domain.Interview, error) {
	const op = "InterviewService.Update"

	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return nil, err
	}

	repoInterview, err := s.queries.UpdateInterview(ctx, repository.UpdateInterviewParams{
		ID:         id,
		Duration:   toNullString(params.Duration),
		HumeChatID: toNullString(params.HumeChatID),
		Feedback:   toNullString(params.Feedback),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "interview", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to update interview")
	}

	interview := repoInterviewToDomain(repoInterview)
	s.logger.Info("interview updated", "interview_id", id, "user_id", userID)

	return &interview, nil
}

// toNullString converts an optional string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// repoInterviewToDomain converts a repository.Interview to domain.Interview.
func repoInterviewToDomain(i repository.Interview) domain.Interview {
	return domain.Interview{
		ID:           i.ID,
		JobProfileID: i.JobProfileID,
		Duration:     i.Duration,
		HumeChatID:   i.HumeChatID,
		Feedback:     i.Feedback,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

var _ InterviewService = (*interviewService)(nil)
