// Package service contains the business logic layer.
//
// This file implements the usage service: per-user consumption counters for
// metered features and the entitlement gate that sits in front of them.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/metrics"
	"github.com/prepdeck/prepdeck/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// UsageService defines operations over per-user usage counters.
type UsageService interface {
	// GetOrCreate returns the user's usage record, creating a zeroed record
	// for the current billing month if none exists. Safe under concurrent
	// callers for the same user.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.UsageRecord, error)

	// Increment bumps the counter for a feature without checking limits.
	// Returns ENOTFOUND if the user has no usage record.
	Increment(ctx context.Context, userID uuid.UUID, feature domain.MeteredFeature) (*domain.UsageRecord, error)

	// Consume atomically checks the user's limit for a feature and increments
	// the counter if allowed. A denied decision is not an error: callers get
	// Decision.Allowed == false with the record unchanged.
	Consume(ctx context.Context, userID uuid.UUID, tier domain.PlanTier, feature domain.MeteredFeature) (domain.Decision, *domain.UsageRecord, error)

	// Release returns one previously consumed unit of a feature, for callers
	// whose work failed after Consume succeeded. Counters never go below
	// zero. Returns ENOTFOUND if the user has no usage record.
	Release(ctx context.Context, userID uuid.UUID, feature domain.MeteredFeature) (*domain.UsageRecord, error)

	// Reset zeroes all counters and rolls the record forward to the current
	// billing month. Returns ENOTFOUND if the user has no usage record.
	Reset(ctx context.Context, userID uuid.UUID) (*domain.UsageRecord, error)

	// Status reports one feature's consumption against the tier's limit,
	// creating the usage record if needed.
	Status(ctx context.Context, userID uuid.UUID, tier domain.PlanTier, feature domain.MeteredFeature) (domain.UsageStatus, error)

	// AllStatuses reports every metered feature for the user.
	AllStatuses(ctx context.Context, userID uuid.UUID, tier domain.PlanTier) ([]domain.UsageStatus, error)
}

// =============================================================================
// Implementation
// =============================================================================

// usageQueries is the slice of the repository the usage service depends on.
type usageQueries interface {
	CreateUsageRecord(ctx context.Context, arg repository.CreateUsageRecordParams) error
	GetUsageRecordByUserID(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	RollUsagePeriod(ctx context.Context, arg repository.RollUsagePeriodParams) (repository.UsageRecord, error)
	IncrementInterviewUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	IncrementQuestionUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	IncrementResumeAnalysisUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	ConsumeInterviewUsage(ctx context.Context, arg repository.ConsumeInterviewUsageParams) (repository.UsageRecord, error)
	ConsumeQuestionUsage(ctx context.Context, arg repository.ConsumeQuestionUsageParams) (repository.UsageRecord, error)
	ConsumeResumeAnalysisUsage(ctx context.Context, arg repository.ConsumeResumeAnalysisUsageParams) (repository.UsageRecord, error)
	ReleaseInterviewUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	ReleaseQuestionUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	ReleaseResumeAnalysisUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	ResetUsageRecord(ctx context.Context, arg repository.ResetUsageRecordParams) (repository.UsageRecord, error)
}

var _ usageQueries = (*repository.Queries)(nil)

type usageService struct {
	queries usageQueries
	catalog domain.Catalog
	logger  *slog.Logger
}

// NewUsageService creates a new UsageService backed by the given plan catalog.
func NewUsageService(queries *repository.Queries, catalog domain.Catalog, logger *slog.Logger) UsageService {
	return &usageService{
		queries: queries,
		catalog: catalog,
		logger:  logger,
	}
}

// GetOrCreate returns the user's usage record, creating one if needed.
func (s *usageService) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.UsageRecord, error) {
	const op = "usage.get_or_create"

	start, end := getCurrentMonthBoundaries()

	// ON CONFLICT DO NOTHING makes this a no-op when the record exists, so
	// concurrent first calls for the same user settle on a single row.
	err := s.queries.CreateUsageRecord(ctx, repository.CreateUsageRecordParams{
		UserID:      userID,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create usage record")
	}

	row, err := s.queries.GetUsageRecordByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to get usage record")
	}

	// A record left over from an earlier month is rolled forward here, so
	// plans without renewal webhooks still start each month at zero. The
	// period_end guard in the update keeps concurrent rolls single-shot.
	if !row.PeriodEnd.After(time.Now().UTC()) {
		rolled, err := s.queries.RollUsagePeriod(ctx, repository.RollUsagePeriodParams{
			UserID:      userID,
			PeriodStart: start,
			PeriodEnd:   end,
		})
		switch {
		case err == nil:
			row = rolled
			s.logger.Info("Usage period rolled forward",
				"user_id", userID,
				"period_start", start,
				"period_end", end,
			)
			metrics.UsageResetsTotal.Inc()
		case errors.Is(err, sql.ErrNoRows):
			// Another caller rolled the period first; re-read their result.
			row, err = s.queries.GetUsageRecordByUserID(ctx, userID)
			if err != nil {
				return nil, domain.Internal(err, op, "failed to get usage record")
			}
		default:
			return nil, domain.Internal(err, op, "failed to roll usage period")
		}
	}

	return usageRecordFromRepo(row), nil
}

// Increment bumps a feature counter unconditionally.
func (s *usageService) Increment(ctx context.Context, userID uuid.UUID, feature domain.MeteredFeature) (*domain.UsageRecord, error) {
	const op = "usage.increment"

	var (
		row repository.UsageRecord
		err error
	)
	switch feature {
	case domain.FeatureInterviews:
		row, err = s.queries.IncrementInterviewUsage(ctx, userID)
	case domain.FeatureQuestions:
		row, err = s.queries.IncrementQuestionUsage(ctx, userID)
	case domain.FeatureResumeAnalyses:
		row, err = s.queries.IncrementResumeAnalysisUsage(ctx, userID)
	default:
		return nil, domain.Invalid(op, "unknown metered feature")
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "usage record", userID.String())
		}
		return nil, domain.Internal(err, op, "failed to increment usage")
	}

	return usageRecordFromRepo(row), nil
}

// Consume performs the check-and-increment as a single conditional UPDATE.
// The row matches only while the counter is below the limit, so two racing
// callers on the last unit cannot both succeed.
func (s *usageService) Consume(ctx context.Context, userID uuid.UUID, tier domain.PlanTier, feature domain.MeteredFeature) (domain.Decision, *domain.UsageRecord, error) {
	const op = "usage.consume"

	limit := s.catalog.FeatureLimit(tier, feature)

	// Make sure the record exists before the conditional update, so a
	// zero-row result below always means the limit was hit.
	record, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Decision{}, nil, err
	}

	row, err := s.consumeFeature(ctx, userID, feature, limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			decision := domain.CheckAllowed(s.catalog, tier, feature, record.CounterFor(feature))
			if decision.Allowed {
				// Counter moved between the read and the update; report the
				// denial the update already proved.
				decision = domain.CheckAllowed(s.catalog, tier, feature, limit.N)
			}
			s.logger.Info("Usage limit reached",
				"user_id", userID,
				"tier", tier,
				"feature", feature,
				"limit", limit.N,
			)
			metrics.RecordEntitlementCheck(string(feature), false)
			return decision, record, nil
		}
		return domain.Decision{}, nil, domain.Internal(err, op, "failed to consume usage")
	}

	metrics.RecordEntitlementCheck(string(feature), true)
	metrics.UsageIncrementsTotal.WithLabelValues(string(feature)).Inc()
	return domain.Decision{Allowed: true}, usageRecordFromRepo(row), nil
}

func (s *usageService) consumeFeature(ctx context.Context, userID uuid.UUID, feature domain.MeteredFeature, limit domain.Limit) (repository.UsageRecord, error) {
	switch feature {
	case domain.FeatureInterviews:
		return s.queries.ConsumeInterviewUsage(ctx, repository.ConsumeInterviewUsageParams{
			UserID:    userID,
			Unlimited: limit.Unlimited,
			LimitN:    int32(limit.N),
		})
	case domain.FeatureQuestions:
		return s.queries.ConsumeQuestionUsage(ctx, repository.ConsumeQuestionUsageParams{
			UserID:    userID,
			Unlimited: limit.Unlimited,
			LimitN:    int32(limit.N),
		})
	case domain.FeatureResumeAnalyses:
		return s.queries.ConsumeResumeAnalysisUsage(ctx, repository.ConsumeResumeAnalysisUsageParams{
			UserID:    userID,
			Unlimited: limit.Unlimited,
			LimitN:    int32(limit.N),
		})
	default:
		return repository.UsageRecord{}, domain.Invalid("usage.consume", "unknown metered feature")
	}
}

// Release hands back one unit consumed for work that later failed.
func (s *usageService) Release(ctx context.Context, userID uuid.UUID, feature domain.MeteredFeature) (*domain.UsageRecord, error) {
	const op = "usage.release"

	var (
		row repository.UsageRecord
		err error
	)
	switch feature {
	case domain.FeatureInterviews:
		row, err = s.queries.ReleaseInterviewUsage(ctx, userID)
	case domain.FeatureQuestions:
		row, err = s.queries.ReleaseQuestionUsage(ctx, userID)
	case domain.FeatureResumeAnalyses:
		row, err = s.queries.ReleaseResumeAnalysisUsage(ctx, userID)
	default:
		return nil, domain.Invalid(op, "unknown metered feature")
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "usage record", userID.String())
		}
		return nil, domain.Internal(err, op, "failed to release usage")
	}

	s.logger.Info("Usage unit released", "user_id", userID, "feature", feature)
	return usageRecordFromRepo(row), nil
}

// Reset zeroes all counters and starts a fresh billing month.
func (s *usageService) Reset(ctx context.Context, userID uuid.UUID) (*domain.UsageRecord, error) {
	const op = "usage.reset"

	start, end := getCurrentMonthBoundaries()

	row, err := s.queries.ResetUsageRecord(ctx, repository.ResetUsageRecordParams{
		UserID:      userID,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "usage record", userID.String())
		}
		return nil, domain.Internal(err, op, "failed to reset usage record")
	}

	s.logger.Info("Usage counters reset", "user_id", userID)
	metrics.UsageResetsTotal.Inc()

	return usageRecordFromRepo(row), nil
}

// Status reports one feature's consumption against the tier's limit.
func (s *usageService) Status(ctx context.Context, userID uuid.UUID, tier domain.PlanTier, feature domain.MeteredFeature) (domain.UsageStatus, error) {
	record, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.UsageStatus{}, err
	}
	return domain.NewUsageStatus(s.catalog, record, tier, feature), nil
}

// AllStatuses reports every metered feature for the user.
func (s *usageService) AllStatuses(ctx context.Context, userID uuid.UUID, tier domain.PlanTier) ([]domain.UsageStatus, error) {
	record, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.UsageStatus, 0, len(domain.MeteredFeatures))
	for _, feature := range domain.MeteredFeatures {
		statuses = append(statuses, domain.NewUsageStatus(s.catalog, record, tier, feature))
	}
	return statuses, nil
}

// =============================================================================
// Helpers
// =============================================================================

func usageRecordFromRepo(row repository.UsageRecord) *domain.UsageRecord {
	return &domain.UsageRecord{
		ID:                 row.ID,
		UserID:             row.UserID,
		InterviewsUsed:     int(row.InterviewsUsed),
		QuestionsUsed:      int(row.QuestionsUsed),
		ResumeAnalysesUsed: int(row.ResumeAnalysesUsed),
		PeriodStart:        row.PeriodStart,
		PeriodEnd:          row.PeriodEnd,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

// getCurrentMonthBoundaries returns the start and end times for the current month in UTC.
func getCurrentMonthBoundaries() (start, end time.Time) {
	now := time.Now().UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}
