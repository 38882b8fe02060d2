// Package domain contains core business types and interfaces.
//
// This file implements the entitlement check: the allow/deny decision that
// compares current usage against the active plan's limit. The check is a pure
// function. Denial is a value, never an error.
package domain

import "fmt"

// Decision is the outcome of an entitlement check.
type Decision struct {
	Allowed       bool
	LimitExceeded bool
	Reason        string
}

// featureNouns holds the singular/plural names used in denial messages.
var featureNouns = map[MeteredFeature][2]string{
	FeatureInterviews:     {"interview", "interviews"},
	FeatureQuestions:      {"question", "questions"},
	FeatureResumeAnalyses: {"resume analysis", "resume analyses"},
}

// CheckAllowed decides whether one more unit of the feature may be consumed
// at the given usage count. Unlimited plans always allow. For a numeric limit
// L, usage U is allowed iff U < L; the request that would be unit L+1 (i.e.
// U == L) is denied.
func CheckAllowed(catalog Catalog, tier PlanTier, feature MeteredFeature, currentUsage int) Decision {
	limit := catalog.FeatureLimit(tier, feature)

	if limit.Unlimited {
		return Decision{Allowed: true}
	}

	if currentUsage < limit.N {
		return Decision{Allowed: true}
	}

	return Decision{
		Allowed:       false,
		LimitExceeded: true,
		Reason:        limitReason(feature),
	}
}

// limitReason builds the user-facing denial message for a feature.
func limitReason(feature MeteredFeature) string {
	nouns, ok := featureNouns[feature]
	if !ok {
		return "You have reached your monthly limit. Upgrade your plan to continue."
	}
	verb := "create"
	if feature == FeatureQuestions {
		verb = "generate"
	}
	if feature == FeatureResumeAnalyses {
		verb = "analyze"
	}
	noun := nouns[1]
	if feature == FeatureResumeAnalyses {
		noun = "resumes"
	}
	return fmt.Sprintf(
		"You have reached your monthly %s limit. Upgrade your plan to %s more %s.",
		nouns[0], verb, noun,
	)
}
