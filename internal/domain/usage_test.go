package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUsageStatus_NumericLimit(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name           string
		tier           PlanTier
		feature        MeteredFeature
		used           int
		wantRemaining  int
		wantExceeded   bool
		wantPercentage int
	}{
		{"fresh free questions", PlanTierFree, FeatureQuestions, 0, 5, false, 0},
		{"partial free questions", PlanTierFree, FeatureQuestions, 2, 3, false, 40},
		{"free questions at limit", PlanTierFree, FeatureQuestions, 5, 0, true, 100},
		{"free questions over limit", PlanTierFree, FeatureQuestions, 7, 0, true, 140},
		{"free resume analysis exhausted", PlanTierFree, FeatureResumeAnalyses, 1, 0, true, 100},
		{"pro questions at 80 percent", PlanTierPro, FeatureQuestions, 8, 2, false, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &UsageRecord{}
			switch tt.feature {
			case FeatureInterviews:
				record.InterviewsUsed = tt.used
			case FeatureQuestions:
				record.QuestionsUsed = tt.used
			case FeatureResumeAnalyses:
				record.ResumeAnalysesUsed = tt.used
			}

			status := NewUsageStatus(catalog, record, tt.tier, tt.feature)

			assert.Equal(t, tt.used, status.Current)
			assert.Equal(t, LimitOf(tt.wantRemaining), status.Remaining)
			assert.Equal(t, tt.wantExceeded, status.IsExceeded)
			assert.Equal(t, tt.wantPercentage, status.PercentageUsed)
		})
	}
}

func TestNewUsageStatus_Unlimited(t *testing.T) {
	catalog := DefaultCatalog()
	record := &UsageRecord{InterviewsUsed: 9999}

	status := NewUsageStatus(catalog, record, PlanTierProMax, FeatureInterviews)

	assert.Equal(t, 9999, status.Current)
	assert.True(t, status.Limit.Unlimited)
	assert.True(t, status.Remaining.Unlimited)
	assert.False(t, status.IsExceeded)
	assert.Equal(t, 0, status.PercentageUsed)
}

func TestUsageStatus_PercentageMonotonic(t *testing.T) {
	catalog := DefaultCatalog()

	prev := -1
	for used := 0; used <= 15; used++ {
		record := &UsageRecord{QuestionsUsed: used}
		status := NewUsageStatus(catalog, record, PlanTierPro, FeatureQuestions)
		assert.GreaterOrEqual(t, status.PercentageUsed, prev, "usage %d", used)
		prev = status.PercentageUsed
	}
}

func TestUsageStatus_Warning(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name    string
		tier    PlanTier
		feature MeteredFeature
		used    int
		want    WarningLevel
	}{
		{"unlimited never warns", PlanTierProMax, FeatureQuestions, 100000, WarningLevelNone},
		{"well under limit", PlanTierPro, FeatureQuestions, 3, WarningLevelNone},
		{"at 80 percent", PlanTierPro, FeatureQuestions, 8, WarningLevelWarning},
		{"just below limit", PlanTierPro, FeatureQuestions, 9, WarningLevelWarning},
		{"exceeded is critical", PlanTierPro, FeatureQuestions, 10, WarningLevelCritical},
		{"free tier exhausted", PlanTierFree, FeatureResumeAnalyses, 1, WarningLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &UsageRecord{}
			switch tt.feature {
			case FeatureQuestions:
				record.QuestionsUsed = tt.used
			case FeatureResumeAnalyses:
				record.ResumeAnalysesUsed = tt.used
			}
			status := NewUsageStatus(catalog, record, tt.tier, tt.feature)
			assert.Equal(t, tt.want, status.Warning())
		})
	}
}

func TestUsageRecord_CounterFor(t *testing.T) {
	record := &UsageRecord{
		InterviewsUsed:     1,
		QuestionsUsed:      2,
		ResumeAnalysesUsed: 3,
	}

	assert.Equal(t, 1, record.CounterFor(FeatureInterviews))
	assert.Equal(t, 2, record.CounterFor(FeatureQuestions))
	assert.Equal(t, 3, record.CounterFor(FeatureResumeAnalyses))
	assert.Equal(t, 0, record.CounterFor(MeteredFeature("unknown")))
}

func TestResumeAnalysis_Transitions(t *testing.T) {
	tests := []struct {
		from ResumeAnalysisStatus
		to   ResumeAnalysisStatus
		ok   bool
	}{
		{ResumeAnalysisPending, ResumeAnalysisRunning, true},
		{ResumeAnalysisRunning, ResumeAnalysisCompleted, true},
		{ResumeAnalysisRunning, ResumeAnalysisFailed, true},
		{ResumeAnalysisPending, ResumeAnalysisCompleted, false},
		{ResumeAnalysisCompleted, ResumeAnalysisRunning, false},
		{ResumeAnalysisFailed, ResumeAnalysisRunning, false},
	}

	for _, tt := range tests {
		analysis := &ResumeAnalysis{Status: tt.from}
		assert.Equal(t, tt.ok, analysis.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
