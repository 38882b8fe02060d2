package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAllowed_NumericLimits(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name        string
		tier        PlanTier
		feature     MeteredFeature
		usage       int
		wantAllowed bool
	}{
		// Free tier: 1 interview, 5 questions, 1 resume analysis per month
		{"free first interview", PlanTierFree, FeatureInterviews, 0, true},
		{"free second interview denied", PlanTierFree, FeatureInterviews, 1, false},
		{"free questions under limit", PlanTierFree, FeatureQuestions, 4, true},
		{"free questions at limit", PlanTierFree, FeatureQuestions, 5, false},
		{"free questions over limit", PlanTierFree, FeatureQuestions, 6, false},
		{"free resume analysis at limit", PlanTierFree, FeatureResumeAnalyses, 1, false},

		// Pro tier: 5 / 10 / 5
		{"pro interviews under limit", PlanTierPro, FeatureInterviews, 4, true},
		{"pro interviews at limit", PlanTierPro, FeatureInterviews, 5, false},
		{"pro questions under limit", PlanTierPro, FeatureQuestions, 9, true},
		{"pro questions at limit", PlanTierPro, FeatureQuestions, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := CheckAllowed(catalog, tt.tier, tt.feature, tt.usage)

			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			if tt.wantAllowed {
				assert.False(t, decision.LimitExceeded)
				assert.Empty(t, decision.Reason)
			} else {
				assert.True(t, decision.LimitExceeded)
				assert.Contains(t, decision.Reason, "Upgrade your plan")
			}
		})
	}
}

func TestCheckAllowed_UnlimitedTier(t *testing.T) {
	catalog := DefaultCatalog()

	// Pro Max is unlimited for every feature, regardless of how much has
	// already been consumed.
	for _, feature := range MeteredFeatures {
		for _, usage := range []int{0, 1, 100, 9999} {
			decision := CheckAllowed(catalog, PlanTierProMax, feature, usage)
			assert.True(t, decision.Allowed, "feature %s usage %d", feature, usage)
			assert.False(t, decision.LimitExceeded)
		}
	}
}

func TestCheckAllowed_UnknownTierFallsBackToFree(t *testing.T) {
	catalog := DefaultCatalog()

	decision := CheckAllowed(catalog, PlanTier("enterprise"), FeatureQuestions, 5)
	assert.False(t, decision.Allowed)

	decision = CheckAllowed(catalog, PlanTier("enterprise"), FeatureQuestions, 0)
	assert.True(t, decision.Allowed)
}

func TestCheckAllowed_IsPure(t *testing.T) {
	catalog := DefaultCatalog()

	// Same inputs must produce the same decision regardless of call order.
	first := CheckAllowed(catalog, PlanTierFree, FeatureQuestions, 3)
	for i := 0; i < 10; i++ {
		CheckAllowed(catalog, PlanTierProMax, FeatureInterviews, i)
		again := CheckAllowed(catalog, PlanTierFree, FeatureQuestions, 3)
		assert.Equal(t, first, again)
	}
}

func TestCheckAllowed_DenialNamesFeature(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		feature  MeteredFeature
		wantWord string
	}{
		{FeatureInterviews, "interview limit"},
		{FeatureQuestions, "question limit"},
		{FeatureResumeAnalyses, "resume analysis limit"},
	}

	for _, tt := range tests {
		decision := CheckAllowed(catalog, PlanTierFree, tt.feature, 1000)
		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "monthly")
		assert.Contains(t, decision.Reason, tt.wantWord)
	}
}
