// Package domain contains core business types and interfaces.
//
// This file defines the plan catalog: subscription tiers, metered features,
// and the per-tier feature limits that drive entitlement decisions.
package domain

// PlanTier represents the pricing tier of a subscription.
type PlanTier string

const (
	PlanTierFree   PlanTier = "free"
	PlanTierPro    PlanTier = "pro"
	PlanTierProMax PlanTier = "pro_max"
)

// Valid checks if the tier is a known plan tier.
func (t PlanTier) Valid() bool {
	switch t {
	case PlanTierFree, PlanTierPro, PlanTierProMax:
		return true
	default:
		return false
	}
}

// MeteredFeature identifies a rate-limited action.
type MeteredFeature string

const (
	FeatureInterviews     MeteredFeature = "interviews"
	FeatureQuestions      MeteredFeature = "questions"
	FeatureResumeAnalyses MeteredFeature = "resume_analyses"
)

// MeteredFeatures lists every metered feature in a stable order.
var MeteredFeatures = []MeteredFeature{
	FeatureInterviews,
	FeatureQuestions,
	FeatureResumeAnalyses,
}

// Valid checks if the feature is a known metered feature.
func (f MeteredFeature) Valid() bool {
	switch f {
	case FeatureInterviews, FeatureQuestions, FeatureResumeAnalyses:
		return true
	default:
		return false
	}
}

// Limit is a monthly cap on a metered feature. Either a non-negative count
// or unlimited.
type Limit struct {
	N         int
	Unlimited bool
}

// Unlimited returns a limit with no cap.
func Unlimited() Limit {
	return Limit{Unlimited: true}
}

// LimitOf returns a numeric limit.
func LimitOf(n int) Limit {
	return Limit{N: n}
}

// PlanDefinition describes one tier of the catalog.
// Name, price, and period are presentation-only.
type PlanDefinition struct {
	Tier       PlanTier
	Name       string
	PriceCents int
	Period     string
	Limits     FeatureLimits
}

// FeatureLimits maps each metered feature to its monthly limit.
type FeatureLimits struct {
	Interviews     Limit
	Questions      Limit
	ResumeAnalyses Limit
}

// For returns the limit for the given feature.
func (l FeatureLimits) For(feature MeteredFeature) Limit {
	switch feature {
	case FeatureInterviews:
		return l.Interviews
	case FeatureQuestions:
		return l.Questions
	case FeatureResumeAnalyses:
		return l.ResumeAnalyses
	default:
		// Unknown features get a zero limit so they are always denied.
		return Limit{}
	}
}

// Catalog is the read-only set of plan definitions. It is constructed once at
// startup and passed to services explicitly; concurrent reads are safe.
type Catalog struct {
	plans map[PlanTier]PlanDefinition
}

// NewCatalog builds a catalog from the given definitions.
func NewCatalog(defs ...PlanDefinition) Catalog {
	plans := make(map[PlanTier]PlanDefinition, len(defs))
	for _, d := range defs {
		plans[d.Tier] = d
	}
	return Catalog{plans: plans}
}

// DefaultCatalog returns the production plan catalog.
func DefaultCatalog() Catalog {
	return NewCatalog(
		PlanDefinition{
			Tier:       PlanTierFree,
			Name:       "Free",
			PriceCents: 0,
			Period:     "forever",
			Limits: FeatureLimits{
				Interviews:     LimitOf(1),
				Questions:      LimitOf(5),
				ResumeAnalyses: LimitOf(1),
			},
		},
		PlanDefinition{
			Tier:       PlanTierPro,
			Name:       "Pro",
			PriceCents: 19900,
			Period:     "per month",
			Limits: FeatureLimits{
				Interviews:     LimitOf(5),
				Questions:      LimitOf(10),
				ResumeAnalyses: LimitOf(5),
			},
		},
		PlanDefinition{
			Tier:       PlanTierProMax,
			Name:       "Pro Max",
			PriceCents: 49900,
			Period:     "per month",
			Limits: FeatureLimits{
				Interviews:     Unlimited(),
				Questions:      Unlimited(),
				ResumeAnalyses: Unlimited(),
			},
		},
	)
}

// Plan returns the definition for a tier, defaulting to the free plan for
// unknown tiers.
func (c Catalog) Plan(tier PlanTier) PlanDefinition {
	if def, ok := c.plans[tier]; ok {
		return def
	}
	return c.plans[PlanTierFree]
}

// FeatureLimit returns the limit for a tier and feature.
func (c Catalog) FeatureLimit(tier PlanTier, feature MeteredFeature) Limit {
	return c.Plan(tier).Limits.For(feature)
}
