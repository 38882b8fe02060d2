package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fake Queries
// =============================================================================

// fakeUsageQueries stands in for the repository so the service's control flow
// around row outcomes can be exercised without a database. Calls without a
// hook fail loudly through the service's error return.
type fakeUsageQueries struct {
	CreateFunc          func(ctx context.Context, arg repository.CreateUsageRecordParams) error
	GetFunc             func(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	RollFunc            func(ctx context.Context, arg repository.RollUsagePeriodParams) (repository.UsageRecord, error)
	ConsumeQuestionFunc func(ctx context.Context, arg repository.ConsumeQuestionUsageParams) (repository.UsageRecord, error)
	ReleaseQuestionFunc func(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error)
	ResetFunc           func(ctx context.Context, arg repository.ResetUsageRecordParams) (repository.UsageRecord, error)
}

var errUnexpectedCall = errors.New("unexpected query call")

func (f *fakeUsageQueries) CreateUsageRecord(ctx context.Context, arg repository.CreateUsageRecordParams) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, arg)
	}
	return errUnexpectedCall
}

func (f *fakeUsageQueries) GetUsageRecordByUserID(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, userID)
	}
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) RollUsagePeriod(ctx context.Context, arg repository.RollUsagePeriodParams) (repository.UsageRecord, error) {
	if f.RollFunc != nil {
		return f.RollFunc(ctx, arg)
	}
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) IncrementInterviewUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error) {
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) IncrementQuestionUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error) {
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) IncrementResumeAnalysisUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error) {
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) ConsumeInterviewUsage(ctx context.Context, arg repository.ConsumeInterviewUsageParams) (repository.UsageRecord, error) {
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) ConsumeQuestionUsage(ctx context.Context, arg repository.ConsumeQuestionUsageParams) (repository.UsageRecord, error) {
	if f.ConsumeQuestionFunc != nil {
		return f.ConsumeQuestionFunc(ctx, arg)
	}
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) ConsumeResumeAnalysisUsage(ctx context.Context, arg repository.ConsumeResumeAnalysisUsageParams) (repository.UsageRecord, error) {
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) ReleaseInterviewUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error) {
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) ReleaseQuestionUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error) {
	if f.ReleaseQuestionFunc != nil {
		return f.ReleaseQuestionFunc(ctx, userID)
	}
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) ReleaseResumeAnalysisUsage(ctx context.Context, userID uuid.UUID) (repository.UsageRecord, error) {
	return repository.UsageRecord{}, errUnexpectedCall
}

func (f *fakeUsageQueries) ResetUsageRecord(ctx context.Context, arg repository.ResetUsageRecordParams) (repository.UsageRecord, error) {
	if f.ResetFunc != nil {
		return f.ResetFunc(ctx, arg)
	}
	return repository.UsageRecord{}, errUnexpectedCall
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestUsageService(q usageQueries) *usageService {
	return &usageService{
		queries: q,
		catalog: domain.DefaultCatalog(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// currentPeriodRow returns a usage row for the running billing month.
func currentPeriodRow(userID uuid.UUID) repository.UsageRecord {
	start, end := getCurrentMonthBoundaries()
	return repository.UsageRecord{
		ID:          uuid.New(),
		UserID:      userID,
		PeriodStart: start,
		PeriodEnd:   end,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

// expiredPeriodRow returns a usage row whose billing month has already ended.
func expiredPeriodRow(userID uuid.UUID) repository.UsageRecord {
	start, _ := getCurrentMonthBoundaries()
	row := currentPeriodRow(userID)
	row.PeriodStart = start.AddDate(0, -1, 0)
	row.PeriodEnd = start
	return row
}

func TestGetCurrentMonthBoundaries(t *testing.T) {
	start, end := getCurrentMonthBoundaries()

	now := time.Now().UTC()

	assert.Equal(t, now.Year(), start.Year())
	assert.Equal(t, now.Month(), start.Month())
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, time.UTC, start.Location())

	// End is the first instant of the next month
	assert.Equal(t, start.AddDate(0, 1, 0), end)
	assert.Equal(t, 1, end.Day())
	assert.True(t, end.After(start))
}

func TestGetCurrentMonthBoundaries_ContainsNow(t *testing.T) {
	start, end := getCurrentMonthBoundaries()

	now := time.Now().UTC()
	assert.False(t, now.Before(start), "now should be on or after period start")
	assert.True(t, now.Before(end), "now should be before period end")
}

func TestUsageRecordFromRepo(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)
	created := time.Now().Add(-time.Hour)
	updated := time.Now()

	row := repository.UsageRecord{
		ID:                 id,
		UserID:             userID,
		InterviewsUsed:     3,
		QuestionsUsed:      7,
		ResumeAnalysesUsed: 1,
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		CreatedAt:          created,
		UpdatedAt:          updated,
	}

	record := usageRecordFromRepo(row)
	require.NotNil(t, record)

	assert.Equal(t, id, record.ID)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, 3, record.InterviewsUsed)
	assert.Equal(t, 7, record.QuestionsUsed)
	assert.Equal(t, 1, record.ResumeAnalysesUsed)
	assert.Equal(t, periodStart, record.PeriodStart)
	assert.Equal(t, periodEnd, record.PeriodEnd)
	assert.Equal(t, created, record.CreatedAt)
	assert.Equal(t, updated, record.UpdatedAt)
}

// =============================================================================
// GetOrCreate Tests
// =============================================================================

func TestGetOrCreate_CreatesBeforeFetching(t *testing.T) {
	userID := uuid.New()
	start, end := getCurrentMonthBoundaries()

	createCalls := 0
	fake := &fakeUsageQueries{
		CreateFunc: func(ctx context.Context, arg repository.CreateUsageRecordParams) error {
			createCalls++
			assert.Equal(t, userID, arg.UserID)
			assert.Equal(t, start, arg.PeriodStart)
			assert.Equal(t, end, arg.PeriodEnd)
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			row := currentPeriodRow(id)
			row.QuestionsUsed = 2
			return row, nil
		},
	}

	svc := newTestUsageService(fake)
	record, err := svc.GetOrCreate(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 1, createCalls, "insert must run before the read")
	assert.Equal(t, 2, record.QuestionsUsed)
	assert.Equal(t, start, record.PeriodStart)
}

func TestGetOrCreate_RollsExpiredPeriod(t *testing.T) {
	userID := uuid.New()
	start, end := getCurrentMonthBoundaries()

	// A free plan user who exhausted last month's quota must come back to
	// zeroed counters once the month turns over.
	rollCalls := 0
	fake := &fakeUsageQueries{
		CreateFunc: func(ctx context.Context, arg repository.CreateUsageRecordParams) error {
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			row := expiredPeriodRow(id)
			row.InterviewsUsed = 1
			row.QuestionsUsed = 5
			row.ResumeAnalysesUsed = 1
			return row, nil
		},
		RollFunc: func(ctx context.Context, arg repository.RollUsagePeriodParams) (repository.UsageRecord, error) {
			rollCalls++
			assert.Equal(t, userID, arg.UserID)
			assert.Equal(t, start, arg.PeriodStart)
			assert.Equal(t, end, arg.PeriodEnd)
			return currentPeriodRow(arg.UserID), nil
		},
	}

	svc := newTestUsageService(fake)
	record, err := svc.GetOrCreate(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 1, rollCalls)
	assert.Equal(t, 0, record.InterviewsUsed)
	assert.Equal(t, 0, record.QuestionsUsed)
	assert.Equal(t, 0, record.ResumeAnalysesUsed)
	assert.Equal(t, start, record.PeriodStart)
	assert.Equal(t, end, record.PeriodEnd)
}

func TestGetOrCreate_RollRaceRereads(t *testing.T) {
	userID := uuid.New()

	// Zero rows from the roll means another request already advanced the
	// period; the service re-reads instead of failing.
	getCalls := 0
	fake := &fakeUsageQueries{
		CreateFunc: func(ctx context.Context, arg repository.CreateUsageRecordParams) error {
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			getCalls++
			if getCalls == 1 {
				return expiredPeriodRow(id), nil
			}
			return currentPeriodRow(id), nil
		},
		RollFunc: func(ctx context.Context, arg repository.RollUsagePeriodParams) (repository.UsageRecord, error) {
			return repository.UsageRecord{}, sql.ErrNoRows
		},
	}

	svc := newTestUsageService(fake)
	record, err := svc.GetOrCreate(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 2, getCalls)
	assert.True(t, record.PeriodEnd.After(time.Now().UTC()))
}

func TestGetOrCreate_KeepsCurrentPeriod(t *testing.T) {
	userID := uuid.New()

	fake := &fakeUsageQueries{
		CreateFunc: func(ctx context.Context, arg repository.CreateUsageRecordParams) error {
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			row := currentPeriodRow(id)
			row.QuestionsUsed = 3
			return row, nil
		},
		// RollFunc deliberately unset: touching it fails the test through
		// the service's error return.
	}

	svc := newTestUsageService(fake)
	record, err := svc.GetOrCreate(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 3, record.QuestionsUsed)
}

// =============================================================================
// Consume Tests
// =============================================================================

func TestConsume_AllowedIncrementsCounter(t *testing.T) {
	userID := uuid.New()

	fake := &fakeUsageQueries{
		CreateFunc: func(ctx context.Context, arg repository.CreateUsageRecordParams) error {
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			return currentPeriodRow(id), nil
		},
		ConsumeQuestionFunc: func(ctx context.Context, arg repository.ConsumeQuestionUsageParams) (repository.UsageRecord, error) {
			assert.False(t, arg.Unlimited)
			assert.Equal(t, int32(5), arg.LimitN)
			row := currentPeriodRow(arg.UserID)
			row.QuestionsUsed = 1
			return row, nil
		},
	}

	svc := newTestUsageService(fake)
	decision, record, err := svc.Consume(context.Background(), userID, domain.PlanTierFree, domain.FeatureQuestions)

	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, record.QuestionsUsed)
}

func TestConsume_DeniedAtLimitLeavesCounterUntouched(t *testing.T) {
	userID := uuid.New()

	// The conditional update only matches below the limit, so a user at the
	// free tier's 5-question cap gets zero rows back and a denial. The stored
	// counter must not move.
	consumeCalls := 0
	fake := &fakeUsageQueries{
		CreateFunc: func(ctx context.Context, arg repository.CreateUsageRecordParams) error {
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			row := currentPeriodRow(id)
			row.QuestionsUsed = 5
			return row, nil
		},
		ConsumeQuestionFunc: func(ctx context.Context, arg repository.ConsumeQuestionUsageParams) (repository.UsageRecord, error) {
			consumeCalls++
			return repository.UsageRecord{}, sql.ErrNoRows
		},
	}

	svc := newTestUsageService(fake)
	decision, record, err := svc.Consume(context.Background(), userID, domain.PlanTierFree, domain.FeatureQuestions)

	require.NoError(t, err, "a denial is a decision, not an error")
	assert.False(t, decision.Allowed)
	assert.True(t, decision.LimitExceeded)
	assert.NotEmpty(t, decision.Reason)
	assert.Equal(t, 1, consumeCalls)
	assert.Equal(t, 5, record.QuestionsUsed)
}

func TestConsume_RaceLostStillDenies(t *testing.T) {
	userID := uuid.New()

	// The read sees room left, but a concurrent request takes the last unit
	// before the update runs. The zero-row update result wins.
	fake := &fakeUsageQueries{
		CreateFunc: func(ctx context.Context, arg repository.CreateUsageRecordParams) error {
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			row := currentPeriodRow(id)
			row.QuestionsUsed = 4
			return row, nil
		},
		ConsumeQuestionFunc: func(ctx context.Context, arg repository.ConsumeQuestionUsageParams) (repository.UsageRecord, error) {
			return repository.UsageRecord{}, sql.ErrNoRows
		},
	}

	svc := newTestUsageService(fake)
	decision, _, err := svc.Consume(context.Background(), userID, domain.PlanTierFree, domain.FeatureQuestions)

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.True(t, decision.LimitExceeded)
}

// =============================================================================
// Release Tests
// =============================================================================

func TestRelease_ReturnsOneUnit(t *testing.T) {
	userID := uuid.New()

	releaseCalls := 0
	fake := &fakeUsageQueries{
		ReleaseQuestionFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			releaseCalls++
			assert.Equal(t, userID, id)
			row := currentPeriodRow(id)
			row.QuestionsUsed = 4
			return row, nil
		},
	}

	svc := newTestUsageService(fake)
	record, err := svc.Release(context.Background(), userID, domain.FeatureQuestions)

	require.NoError(t, err)
	assert.Equal(t, 1, releaseCalls)
	assert.Equal(t, 4, record.QuestionsUsed)
}

func TestRelease_NoRecordIsNotFound(t *testing.T) {
	fake := &fakeUsageQueries{
		ReleaseQuestionFunc: func(ctx context.Context, id uuid.UUID) (repository.UsageRecord, error) {
			return repository.UsageRecord{}, sql.ErrNoRows
		},
	}

	svc := newTestUsageService(fake)
	_, err := svc.Release(context.Background(), uuid.New(), domain.FeatureQuestions)

	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestRelease_UnknownFeature(t *testing.T) {
	svc := newTestUsageService(&fakeUsageQueries{})

	_, err := svc.Release(context.Background(), uuid.New(), domain.MeteredFeature("typing_speed"))

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
