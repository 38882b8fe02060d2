// Package domain contains core business types and interfaces.
//
// This file defines usage records and the derived usage status used by the
// reporting surface.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// UsageRecord holds a user's consumption counters for the current billing
// period. One record per user; counters only move up within a period and are
// zeroed at the period boundary.
type UsageRecord struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	InterviewsUsed     int
	QuestionsUsed      int
	ResumeAnalysesUsed int
	PeriodStart        time.Time
	PeriodEnd          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CounterFor returns the counter value for the given feature.
func (r *UsageRecord) CounterFor(feature MeteredFeature) int {
	switch feature {
	case FeatureInterviews:
		return r.InterviewsUsed
	case FeatureQuestions:
		return r.QuestionsUsed
	case FeatureResumeAnalyses:
		return r.ResumeAnalysesUsed
	default:
		return 0
	}
}

// WarningLevel is the UI-facing severity derived from quota consumption.
type WarningLevel string

const (
	WarningLevelNone     WarningLevel = "none"
	WarningLevelWarning  WarningLevel = "warning"
	WarningLevelCritical WarningLevel = "critical"
)

// UsageStatus reports one feature's consumption against its plan limit.
type UsageStatus struct {
	Feature        MeteredFeature
	Tier           PlanTier
	Current        int
	Limit          Limit
	Remaining      Limit // Unlimited mirrors the limit; N is max(0, limit-current)
	IsExceeded     bool
	PercentageUsed int
}

// NewUsageStatus derives the status for one feature from a usage record and
// the plan catalog.
func NewUsageStatus(catalog Catalog, record *UsageRecord, tier PlanTier, feature MeteredFeature) UsageStatus {
	current := record.CounterFor(feature)
	limit := catalog.FeatureLimit(tier, feature)

	status := UsageStatus{
		Feature: feature,
		Tier:    tier,
		Current: current,
		Limit:   limit,
	}

	if limit.Unlimited {
		status.Remaining = Unlimited()
		return status
	}

	status.IsExceeded = current >= limit.N
	status.Remaining = LimitOf(max(0, limit.N-current))
	if limit.N > 0 {
		status.PercentageUsed = int(math.Round(float64(current) / float64(limit.N) * 100))
	} else {
		// A zero limit means the feature is fully consumed from the start.
		status.PercentageUsed = 100
	}
	return status
}

// Warning returns the warning level for the status: unlimited plans never
// warn, exceeded limits are critical, and 80% consumption or more warns.
func (s UsageStatus) Warning() WarningLevel {
	if s.Limit.Unlimited {
		return WarningLevelNone
	}
	if s.IsExceeded {
		return WarningLevelCritical
	}
	if s.PercentageUsed >= 80 {
		return WarningLevelWarning
	}
	return WarningLevelNone
}
