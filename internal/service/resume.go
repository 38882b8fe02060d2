package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/metrics"
	"github.com/prepdeck/prepdeck/internal/repository"
	"github.com/prepdeck/prepdeck/internal/storage"
	"github.com/prepdeck/prepdeck/internal/worker"
	"github.com/sqlc-dev/pqtype"
)

// MaxResumeSize is the maximum accepted resume upload size (10MB).
const MaxResumeSize = 10 * 1024 * 1024

// ResumeUploadParams contains the validated parameters for a resume upload.
type ResumeUploadParams struct {
	JobProfileID uuid.UUID
	FileName     string
	ContentType  string
	Data         io.Reader
}

// ResumeService defines the interface for resume analysis operations.
type ResumeService interface {
	// Upload consumes one unit of resume analysis quota, stores the file,
	// creates a pending analysis record, and enqueues the analysis job.
	// A denied decision is returned without error.
	Upload(ctx context.Context, user *domain.User, params ResumeUploadParams) (*domain.ResumeAnalysis, domain.Decision, error)

	// GetByID retrieves an analysis, verifying ownership through its job profile.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.ResumeAnalysis, error)

	// List retrieves all analyses for a job profile, newest first.
	List(ctx context.Context, jobProfileID, userID uuid.UUID) ([]domain.ResumeAnalysis, error)

	// RunAnalysis executes the AI analysis for a pending record. Called by
	// the background job handler, not by HTTP handlers.
	RunAnalysis(ctx context.Context, analysisID, userID uuid.UUID) error
}

// resumeService implements ResumeService.
type resumeService struct {
	queries  *repository.Queries
	profiles JobProfileService
	usage    UsageService
	provider ai.Provider
	store    storage.Storage
	logger   *slog.Logger
}

// NewResumeService creates a new ResumeService.
func NewResumeService(queries *repository.Queries, profiles JobProfileService, usage UsageService, provider ai.Provider, store storage.Storage, logger *slog.Logger) ResumeService {
	return &resumeService{
		queries:  queries,
		profiles: profiles,
		usage:    usage,
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

// Upload stores the resume, creates the analysis record, and enqueues the job.
func (s *resumeService) Upload(ctx context.Context, user *domain.User, params ResumeUploadParams) (*domain.ResumeAnalysis, domain.Decision, error) {
	const op = "ResumeService.Upload"

	if params.FileName == "" {
		return nil, domain.Decision{}, domain.Invalid(op, "File name is required")
	}
	if !storage.IsAllowedResumeType(params.ContentType) {
		return nil, domain.Decision{}, domain.Invalid(op, "Resume must be a PDF or Word document")
	}

	if _, err := s.profiles.GetByID(ctx, params.JobProfileID, user.ID); err != nil {
		return nil, domain.Decision{}, err
	}

	decision, _, err := s.usage.Consume(ctx, user.ID, user.PlanTier, domain.FeatureResumeAnalyses)
	if err != nil {
		return nil, domain.Decision{}, err
	}
	if !decision.Allowed {
		return nil, decision, nil
	}

	key := storage.ResumeKey(params.JobProfileID, params.FileName)
	err = s.store.Put(ctx, key, params.Data, storage.PutOptions{
		ContentType: params.ContentType,
		MaxSize:     MaxResumeSize,
	})
	if err != nil {
		s.refundUsage(ctx, user.ID)
		if storage.IsTooLarge(err) {
			return nil, decision, domain.Errorf(domain.ETOOLARGE, op, "Resume exceeds the 10MB size limit")
		}
		return nil, decision, domain.Internal(err, op, "Failed to store resume")
	}

	repoAnalysis, err := s.queries.CreateResumeAnalysis(ctx, repository.CreateResumeAnalysisParams{
		JobProfileID: params.JobProfileID,
		FileKey:      key,
		FileName:     params.FileName,
		ContentType:  params.ContentType,
	})
	if err != nil {
		// Best effort cleanup; the orphaned object is harmless otherwise
		_ = s.store.Delete(ctx, key)
		s.refundUsage(ctx, user.ID)
		return nil, decision, domain.Internal(err, op, "Failed to create resume analysis")
	}

	if _, err := worker.EnqueueAnalyzeResume(ctx, s.queries, repoAnalysis.ID, user.ID); err != nil {
		s.logger.Error("failed to enqueue resume analysis", "error", err, "analysis_id", repoAnalysis.ID)
		s.refundUsage(ctx, user.ID)
		return nil, decision, domain.Internal(err, op, "Failed to schedule analysis")
	}

	analysis := repoResumeAnalysisToDomain(repoAnalysis)
	s.logger.Info("resume uploaded",
		"analysis_id", analysis.ID,
		"job_profile_id", params.JobProfileID,
		"user_id", user.ID,
		"file_name", params.FileName,
	)

	return &analysis, decision, nil
}

// refundUsage hands back the consumed unit when the upload fails after the
// quota check. Best effort; a failed refund only costs the user one unit.
func (s *resumeService) refundUsage(ctx context.Context, userID uuid.UUID) {
	if _, err := s.usage.Release(ctx, userID, domain.FeatureResumeAnalyses); err != nil {
		s.logger.Error("failed to release resume analysis usage", "error", err, "user_id", userID)
	}
}

// GetByID retrieves an analysis, verifying ownership through its job profile.
func (s *resumeService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.ResumeAnalysis, error) {
	const op = "ResumeService.GetByID"

	repoAnalysis, err := s.queries.GetResumeAnalysisByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "resume analysis", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve resume analysis")
	}

	if _, err := s.profiles.GetByID(ctx, repoAnalysis.JobProfileID, userID); err != nil {
		return nil, domain.NotFound(op, "resume analysis", id.String())
	}

	analysis := repoResumeAnalysisToDomain(repoAnalysis)
	return &analysis, nil
}

// List retrieves all analyses for a job profile.
func (s *resumeService) List(ctx context.Context, jobProfileID, userID uuid.UUID) ([]domain.ResumeAnalysis, error) {
	const op = "ResumeService.List"

	if _, err := s.profiles.GetByID(ctx, jobProfileID, userID); err != nil {
		return nil, err
	}

	repoAnalyses, err := s.queries.ListResumeAnalysesByJobProfileID(ctx, jobProfileID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list resume analyses")
	}

	analyses := make([]domain.ResumeAnalysis, len(repoAnalyses))
	for i, ra := range repoAnalyses {
		analyses[i] = repoResumeAnalysisToDomain(ra)
	}

	return analyses, nil
}

// RunAnalysis executes the AI analysis for a pending record.
func (s *resumeService) RunAnalysis(ctx context.Context, analysisID, userID uuid.UUID) error {
	const op = "ResumeService.RunAnalysis"

	repoAnalysis, err := s.queries.GetResumeAnalysisByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "resume analysis", analysisID.String())
		}
		return domain.Internal(err, op, "Failed to retrieve resume analysis")
	}

	analysis := repoResumeAnalysisToDomain(repoAnalysis)
	if !analysis.CanTransitionTo(domain.ResumeAnalysisRunning) {
		// Already processed; a retried job after a crash lands here
		return nil
	}

	profile, err := s.queries.GetJobProfileByID(ctx, analysis.JobProfileID)
	if err != nil {
		return domain.Internal(err, op, "Failed to retrieve job profile")
	}

	if err := s.setStatus(ctx, analysisID, domain.ResumeAnalysisRunning, ""); err != nil {
		return err
	}

	reader, _, err := s.store.Get(ctx, analysis.FileKey)
	if err != nil {
		s.failAnalysis(ctx, analysisID, "stored resume file could not be read")
		return domain.Internal(err, op, "Failed to read stored resume")
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		s.failAnalysis(ctx, analysisID, "stored resume file could not be read")
		return domain.Internal(err, op, "Failed to read stored resume")
	}

	if !storage.IsPDF(analysis.ContentType) {
		// The provider only accepts PDF; surface a user-visible failure
		s.failAnalysis(ctx, analysisID, "only PDF resumes can be analyzed; please re-upload as PDF")
		return nil
	}

	result, err := s.provider.AnalyzeResume(ctx, ai.AnalyzeResumeParams{
		DocumentData:    data,
		ContentType:     analysis.ContentType,
		JobTitle:        profile.Title,
		Description:     profile.Description,
		ExperienceLevel: profile.ExperienceLevel,
		UserID:          userID,
		JobProfileID:    analysis.JobProfileID,
	})
	if err != nil {
		if ai.IsRetryable(err) {
			// Roll back to pending so the job retry finds a clean state
			_ = s.setStatus(ctx, analysisID, domain.ResumeAnalysisPending, "")
			return domain.Internal(err, op, "AI analysis failed")
		}
		s.failAnalysis(ctx, analysisID, "resume analysis failed")
		return domain.Internal(err, op, "AI analysis failed")
	}

	_, err = s.queries.CompleteResumeAnalysis(ctx, repository.CompleteResumeAnalysisParams{
		ID:           analysisID,
		Score:        int32(result.Score),
		Strengths:    result.Strengths,
		Improvements: result.Improvements,
		Result: pqtype.NullRawMessage{
			RawMessage: result.Raw,
			Valid:      len(result.Raw) > 0,
		},
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to save analysis result")
	}

	metrics.ResumesAnalyzed.WithLabelValues("completed").Inc()
	s.logger.Info("resume analysis completed",
		"analysis_id", analysisID,
		"score", result.Score,
		"model", result.Usage.Model,
		"cost_cents", result.Usage.CostCents,
	)

	return nil
}

func (s *resumeService) setStatus(ctx context.Context, id uuid.UUID, status domain.ResumeAnalysisStatus, errorMessage string) error {
	const op = "ResumeService.setStatus"

	err := s.queries.UpdateResumeAnalysisStatus(ctx, repository.UpdateResumeAnalysisStatusParams{
		ID:           id,
		Status:       string(status),
		ErrorMessage: errorMessage,
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to update analysis status")
	}
	return nil
}

// failAnalysis marks the analysis failed; errors are logged, not returned,
// since the caller is already on an error path.
func (s *resumeService) failAnalysis(ctx context.Context, id uuid.UUID, message string) {
	metrics.ResumesAnalyzed.WithLabelValues("failed").Inc()
	if err := s.setStatus(ctx, id, domain.ResumeAnalysisFailed, message); err != nil {
		s.logger.Error("failed to mark analysis failed", "error", err, "analysis_id", id)
	}
}

// repoResumeAnalysisToDomain converts a repository.ResumeAnalysis to domain.ResumeAnalysis.
func repoResumeAnalysisToDomain(r repository.ResumeAnalysis) domain.ResumeAnalysis {
	analysis := domain.ResumeAnalysis{
		ID:           r.ID,
		JobProfileID: r.JobProfileID,
		FileKey:      r.FileKey,
		FileName:     r.FileName,
		ContentType:  r.ContentType,
		Status:       domain.ResumeAnalysisStatus(r.Status),
		Score:        int(r.Score),
		Strengths:    r.Strengths,
		Improvements: r.Improvements,
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Result.Valid {
		analysis.Result = r.Result.RawMessage
	}
	return analysis
}

var _ ResumeService = (*resumeService)(nil)
