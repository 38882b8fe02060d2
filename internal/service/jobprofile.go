package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/repository"
)

// JobProfileService defines the interface for job profile operations.
type JobProfileService interface {
	// Create creates a new job profile for the user.
	Create(ctx context.Context, userID uuid.UUID, params domain.JobProfileParams) (*domain.JobProfile, error)

	// GetByID retrieves a job profile by ID, verifying user ownership.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.JobProfile, error)

	// List retrieves all job profiles for a user, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]domain.JobProfile, error)

	// Update updates an existing job profile.
	Update(ctx context.Context, id, userID uuid.UUID, params domain.JobProfileParams) (*domain.JobProfile, error)

	// Delete deletes a job profile and everything attached to it.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// jobProfileService implements JobProfileService.
type jobProfileService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewJobProfileService creates a new JobProfileService.
func NewJobProfileService(queries *repository.Queries, logger *slog.Logger) JobProfileService {
	return &jobProfileService{
		queries: queries,
		logger:  logger,
	}
}

// Create creates a new job profile for the user.
func (s *jobProfileService) Create(ctx context.Context, userID uuid.UUID, params domain.JobProfileParams) (*domain.JobProfile, error) {
	const op = "JobProfileService.Create"

	if err := validateJobProfileParams(&params); err != nil {
		return nil, err
	}

	repoProfile, err := s.queries.CreateJobProfile(ctx, repository.CreateJobProfileParams{
		UserID:          userID,
		Title:           params.Title,
		Company:         params.Company,
		Description:     params.Description,
		ExperienceLevel: string(params.ExperienceLevel),
	})
	if err != nil {
		s.logger.Error("failed to create job profile", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to create job profile")
	}

	profile := repoJobProfileToDomain(repoProfile)
	s.logger.Info("job profile created", "job_profile_id", profile.ID, "user_id", userID, "title", profile.Title)

	return &profile, nil
}

// GetByID retrieves a job profile by ID, verifying user ownership.
func (s *jobProfileService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.JobProfile, error) {
	const op = "JobProfileService.GetByID"

	repoProfile, err := s.queries.GetJobProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "job profile", id.String())
		}
		s.logger.Error("failed to get job profile", "error", err, "op", op, "job_profile_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve job profile")
	}

	// Ownership check reports not-found rather than forbidden so profile IDs
	// cannot be probed.
	if repoProfile.UserID != userID {
		return nil, domain.NotFound(op, "job profile", id.String())
	}

	profile := repoJobProfileToDomain(repoProfile)
	return &profile, nil
}

// List retrieves all job profiles for a user.
func (s *jobProfileService) List(ctx context.Context, userID uuid.UUID) ([]domain.JobProfile, error) {
	const op = "JobProfileService.List"

	repoProfiles, err := s.queries.ListJobProfilesByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list job profiles", "error", err, "op", op, "user_id", userID)
		return nil, domain.Internal(err, op, "Failed to list job profiles")
	}

	profiles := make([]domain.JobProfile, len(repoProfiles))
	for i, rp := range repoProfiles {
		profiles[i] = repoJobProfileToDomain(rp)
	}

	return profiles, nil
}

// Update updates an existing job profile.
func (s *jobProfileService) Update(ctx context.Context, id, userID uuid.UUID, params domain.JobProfileParams) (*domain.JobProfile, error) {
	const op = "JobProfileService.Update"

	if err := validateJobProfileParams(&params); err != nil {
		return nil, err
	}

	// Verify ownership before mutating
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return nil, err
	}

	repoProfile, err := s.queries.UpdateJobProfile(ctx, repository.UpdateJobProfileParams{
		ID:              id,
		Title:           params.Title,
		Company:         params.Company,
		Description:     params.Description,
		ExperienceLevel: string(params.ExperienceLevel),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "job profile", id.String())
		}
		s.logger.Error("failed to update job profile", "error", err, "op", op, "job_profile_id", id)
		return nil, domain.Internal(err, op, "Failed to update job profile")
	}

	profile := repoJobProfileToDomain(repoProfile)
	s.logger.Info("job profile updated", "job_profile_id", id, "user_id", userID)

	return &profile, nil
}

// Delete deletes a job profile. Questions, interviews, and resume analyses
// attached to it go with it via cascading foreign keys.
func (s *jobProfileService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const op = "JobProfileService.Delete"

	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.queries.DeleteJobProfile(ctx, id); err != nil {
		s.logger.Error("failed to delete job profile", "error", err, "op", op, "job_profile_id", id)
		return domain.Internal(err, op, "Failed to delete job profile")
	}

	s.logger.Info("job profile deleted", "job_profile_id", id, "user_id", userID)
	return nil
}

// validateJobProfileParams normalizes and validates create/update input.
func validateJobProfileParams(params *domain.JobProfileParams) error {
	const op = "JobProfileService.validate"

	params.Title = strings.TrimSpace(params.Title)
	params.Company = strings.TrimSpace(params.Company)
	params.Description = strings.TrimSpace(params.Description)

	if params.Title == "" {
		return domain.Invalid(op, "Title is required")
	}
	if params.Description == "" {
		return domain.Invalid(op, "Description is required")
	}
	if params.ExperienceLevel == "" {
		params.ExperienceLevel = domain.ExperienceMid
	}
	if !params.ExperienceLevel.Valid() {
		return domain.Invalid(op, "Experience level must be junior, mid, or senior")
	}

	return nil
}

// repoJobProfileToDomain converts a repository.JobProfile to domain.JobProfile.
func repoJobProfileToDomain(p repository.JobProfile) domain.JobProfile {
	return domain.JobProfile{
		ID:              p.ID,
		UserID:          p.UserID,
		Title:           p.Title,
		Company:         p.Company,
		Description:     p.Description,
		ExperienceLevel: domain.ExperienceLevel(p.ExperienceLevel),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

var _ JobProfileService = (*jobProfileService)(nil)
