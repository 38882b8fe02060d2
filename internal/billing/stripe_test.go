package billing

import (
	"testing"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newTestService() Service {
	return NewStripeService("sk_test_dummy", "whsec_dummy", PriceConfig{
		ProMonthlyPriceID:    "price_pro_monthly",
		ProMaxMonthlyPriceID: "price_pro_max_monthly",
	})
}

func TestTierForPriceID(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name    string
		priceID string
		want    domain.PlanTier
	}{
		{"pro price", "price_pro_monthly", domain.PlanTierPro},
		{"pro max price", "price_pro_max_monthly", domain.PlanTierProMax},
		{"unknown price", "price_unknown", domain.PlanTierFree},
		{"empty price", "", domain.PlanTierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.TierForPriceID(tt.priceID))
		})
	}
}

func TestPriceIDForTier(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name string
		tier domain.PlanTier
		want string
	}{
		{"pro tier", domain.PlanTierPro, "price_pro_monthly"},
		{"pro max tier", domain.PlanTierProMax, "price_pro_max_monthly"},
		{"free tier has no price", domain.PlanTierFree, ""},
		{"unknown tier has no price", domain.PlanTier("enterprise"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.PriceIDForTier(tt.tier))
		})
	}
}

func TestTierForPriceID_UnconfiguredPrices(t *testing.T) {
	// With no price IDs configured, every lookup falls back to free
	svc := NewStripeService("sk_test_dummy", "whsec_dummy", PriceConfig{})

	assert.Equal(t, domain.PlanTierFree, svc.TierForPriceID("price_pro_monthly"))
	assert.Equal(t, "", svc.PriceIDForTier(domain.PlanTierPro))
}
