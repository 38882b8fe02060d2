package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock UsageService
// =============================================================================

type mockUsageService struct {
	AllStatusesFunc func(ctx context.Context, userID uuid.UUID, tier domain.PlanTier) ([]domain.UsageStatus, error)
}

func (m *mockUsageService) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.UsageRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUsageService) Increment(ctx context.Context, userID uuid.UUID, feature domain.MeteredFeature) (*domain.UsageRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUsageService) Consume(ctx context.Context, userID uuid.UUID, tier domain.PlanTier, feature domain.MeteredFeature) (domain.Decision, *domain.UsageRecord, error) {
	return domain.Decision{}, nil, errors.New("not implemented")
}

func (m *mockUsageService) Release(ctx context.Context, userID uuid.UUID, feature domain.MeteredFeature) (*domain.UsageRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUsageService) Reset(ctx context.Context, userID uuid.UUID) (*domain.UsageRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUsageService) Status(ctx context.Context, userID uuid.UUID, tier domain.PlanTier, feature domain.MeteredFeature) (domain.UsageStatus, error) {
	return domain.UsageStatus{}, errors.New("not implemented")
}

func (m *mockUsageService) AllStatuses(ctx context.Context, userID uuid.UUID, tier domain.PlanTier) ([]domain.UsageStatus, error) {
	if m.AllStatusesFunc != nil {
		return m.AllStatusesFunc(ctx, userID, tier)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func statusesFor(catalog domain.Catalog, tier domain.PlanTier, record *domain.UsageRecord) []domain.UsageStatus {
	statuses := make([]domain.UsageStatus, 0, len(domain.MeteredFeatures))
	for _, feature := range domain.MeteredFeatures {
		statuses = append(statuses, domain.NewUsageStatus(catalog, record, tier, feature))
	}
	return statuses
}

type usageResponseBody struct {
	Plan struct {
		Tier string `json:"tier"`
		Name string `json:"name"`
	} `json:"plan"`
	Usage []struct {
		Feature        string `json:"feature"`
		Label          string `json:"label"`
		Current        int    `json:"current"`
		Limit          int    `json:"limit"`
		Unlimited      bool   `json:"unlimited"`
		Remaining      int    `json:"remaining"`
		PercentageUsed int    `json:"percentage_used"`
		Level          string `json:"level"`
	} `json:"usage"`
}

func getUsage(t *testing.T, h *UsageHandler, user *domain.User) usageResponseBody {
	t.Helper()

	req := httptest.NewRequest("GET", "/api/billing/usage", nil)
	req = req.WithContext(auth.SetUser(req.Context(), user))
	rec := httptest.NewRecorder()

	h.Usage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body usageResponseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// =============================================================================
// Usage Endpoint Tests
// =============================================================================

func TestUsage_FreeTier(t *testing.T) {
	catalog := domain.DefaultCatalog()
	user := &domain.User{ID: uuid.New(), PlanTier: domain.PlanTierFree}

	record := &domain.UsageRecord{
		UserID:         user.ID,
		InterviewsUsed: 1,
		QuestionsUsed:  4,
	}

	mock := &mockUsageService{
		AllStatusesFunc: func(ctx context.Context, userID uuid.UUID, tier domain.PlanTier) ([]domain.UsageStatus, error) {
			assert.Equal(t, user.ID, userID)
			assert.Equal(t, domain.PlanTierFree, tier)
			return statusesFor(catalog, tier, record), nil
		},
	}

	h := NewUsageHandler(mock, catalog, newTestLogger())
	body := getUsage(t, h, user)

	assert.Equal(t, "free", body.Plan.Tier)
	require.Len(t, body.Usage, len(domain.MeteredFeatures))

	byFeature := map[string]int{}
	for i, u := range body.Usage {
		byFeature[u.Feature] = i
	}

	interviews := body.Usage[byFeature["interviews"]]
	assert.Equal(t, "Interviews", interviews.Label)
	assert.Equal(t, 1, interviews.Current)
	assert.Equal(t, 1, interviews.Limit)
	assert.False(t, interviews.Unlimited)
	assert.Equal(t, "exceeded", interviews.Level)

	questions := body.Usage[byFeature["questions"]]
	assert.Equal(t, 4, questions.Current)
	assert.Equal(t, 5, questions.Limit)
	assert.Equal(t, 1, questions.Remaining)
	assert.Equal(t, "warning", questions.Level, "4 of 5 is past the 80%% warning threshold")

	analyses := body.Usage[byFeature["resume_analyses"]]
	assert.Equal(t, "Resume Analyses", analyses.Label)
	assert.Equal(t, 0, analyses.Current)
	assert.Equal(t, "ok", analyses.Level)
}

func TestUsage_ProMaxUnlimited(t *testing.T) {
	catalog := domain.DefaultCatalog()
	user := &domain.User{ID: uuid.New(), PlanTier: domain.PlanTierProMax}

	record := &domain.UsageRecord{
		UserID:         user.ID,
		InterviewsUsed: 120,
	}

	mock := &mockUsageService{
		AllStatusesFunc: func(ctx context.Context, userID uuid.UUID, tier domain.PlanTier) ([]domain.UsageStatus, error) {
			return statusesFor(catalog, tier, record), nil
		},
	}

	h := NewUsageHandler(mock, catalog, newTestLogger())
	body := getUsage(t, h, user)

	assert.Equal(t, "pro_max", body.Plan.Tier)
	for _, u := range body.Usage {
		assert.True(t, u.Unlimited, "feature %s should be unlimited on pro_max", u.Feature)
		assert.Equal(t, "ok", u.Level)
	}
}

func TestUsage_ServiceError(t *testing.T) {
	catalog := domain.DefaultCatalog()
	user := &domain.User{ID: uuid.New(), PlanTier: domain.PlanTierFree}

	mock := &mockUsageService{
		AllStatusesFunc: func(ctx context.Context, userID uuid.UUID, tier domain.PlanTier) ([]domain.UsageStatus, error) {
			return nil, domain.Internal(errors.New("db down"), "usage.all_statuses", "failed to load usage")
		},
	}

	h := NewUsageHandler(mock, catalog, newTestLogger())

	req := httptest.NewRequest("GET", "/api/billing/usage", nil)
	req = req.WithContext(auth.SetUser(req.Context(), user))
	rec := httptest.NewRecorder()

	h.Usage(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUsageStatusResponse_LevelFollowsWarning(t *testing.T) {
	catalog := domain.DefaultCatalog()

	// Pro allows 10 questions, so 8 sits exactly on the 80% threshold.
	cases := []struct {
		name string
		tier domain.PlanTier
		used int
		want string
	}{
		{"under threshold", domain.PlanTierPro, 1, "ok"},
		{"at threshold", domain.PlanTierPro, 8, "warning"},
		{"at limit", domain.PlanTierPro, 10, "exceeded"},
		{"unlimited never warns", domain.PlanTierProMax, 500, "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := &domain.UsageRecord{QuestionsUsed: tc.used}
			status := domain.NewUsageStatus(catalog, record, tc.tier, domain.FeatureQuestions)

			resp := newUsageStatusResponse(status)
			assert.Equal(t, tc.want, resp.Level)
			assert.Equal(t, tc.want, usageLevel(status.Warning()), "level must come from the domain warning")
		})
	}
}

// =============================================================================
// Plans Endpoint Tests
// =============================================================================

func TestPlans_ReturnsFullCatalog(t *testing.T) {
	catalog := domain.DefaultCatalog()
	h := NewUsageHandler(&mockUsageService{}, catalog, newTestLogger())

	req := httptest.NewRequest("GET", "/api/plans", nil)
	rec := httptest.NewRecorder()

	h.Plans(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Plans []struct {
			Tier       string `json:"tier"`
			Name       string `json:"name"`
			PriceCents int    `json:"price_cents"`
			Period     string `json:"period"`
			Limits     []struct {
				Feature   string `json:"feature"`
				Limit     int    `json:"limit"`
				Unlimited bool   `json:"unlimited"`
			} `json:"limits"`
		} `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Plans, 3)
	assert.Equal(t, "free", body.Plans[0].Tier)
	assert.Equal(t, 0, body.Plans[0].PriceCents)
	assert.Equal(t, "pro", body.Plans[1].Tier)
	assert.Equal(t, 19900, body.Plans[1].PriceCents)
	assert.Equal(t, "pro_max", body.Plans[2].Tier)
	assert.Equal(t, 49900, body.Plans[2].PriceCents)

	// Every plan reports a limit entry for every metered feature
	for _, plan := range body.Plans {
		assert.Len(t, plan.Limits, len(domain.MeteredFeatures))
	}

	// Pro max features are unlimited across the board
	for _, limit := range body.Plans[2].Limits {
		assert.True(t, limit.Unlimited)
	}
}
