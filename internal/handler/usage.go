// This file implements the usage status and plan catalog handlers.
//
// Routes handled:
//   - GET /api/billing/usage -> Usage (requires authentication)
//   - GET /api/plans         -> Plans (public)
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/service"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser renders feature identifiers as display labels.
var titleCaser = cases.Title(language.English)

// UsageHandler reports per-feature usage against plan limits.
type UsageHandler struct {
	usage   service.UsageService
	catalog domain.Catalog
	logger  *slog.Logger
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(usage service.UsageService, catalog domain.Catalog, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		usage:   usage,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers usage and plan routes on the provided mux.
func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/billing/usage", requireUser(http.HandlerFunc(h.Usage)))
	mux.HandleFunc("GET /api/plans", h.Plans)
}

type usageStatusResponse struct {
	Feature        string `json:"feature"`
	Label          string `json:"label"`
	Current        int    `json:"current"`
	Limit          int    `json:"limit,omitempty"`
	Unlimited      bool   `json:"unlimited"`
	Remaining      int    `json:"remaining,omitempty"`
	PercentageUsed int    `json:"percentage_used"`
	Level          string `json:"level"` // ok, warning, exceeded
}

func newUsageStatusResponse(s domain.UsageStatus) usageStatusResponse {
	resp := usageStatusResponse{
		Feature:        string(s.Feature),
		Label:          featureLabel(s.Feature),
		Current:        s.Current,
		Unlimited:      s.Limit.Unlimited,
		PercentageUsed: s.PercentageUsed,
		Level:          usageLevel(s.Warning()),
	}
	if !s.Limit.Unlimited {
		resp.Limit = s.Limit.N
		resp.Remaining = s.Remaining.N
	}
	return resp
}

// usageLevel maps the domain warning level onto the API's level field.
func usageLevel(w domain.WarningLevel) string {
	switch w {
	case domain.WarningLevelCritical:
		return "exceeded"
	case domain.WarningLevelWarning:
		return "warning"
	default:
		return "ok"
	}
}

// featureLabel turns a feature identifier into a display label,
// e.g. "resume_analyses" -> "Resume Analyses".
func featureLabel(feature domain.MeteredFeature) string {
	return titleCaser.String(strings.ReplaceAll(string(feature), "_", " "))
}

// Usage returns the authenticated user's consumption for every metered
// feature in the current billing month.
func (h *UsageHandler) Usage(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	statuses, err := h.usage.AllStatuses(r.Context(), user.ID, user.PlanTier)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	responses := make([]usageStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		responses = append(responses, newUsageStatusResponse(s))
	}

	plan := h.catalog.Plan(user.PlanTier)

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"plan": map[string]interface{}{
			"tier": string(plan.Tier),
			"name": plan.Name,
		},
		"usage": responses,
	})
}

type planLimitResponse struct {
	Feature   string `json:"feature"`
	Label     string `json:"label"`
	Limit     int    `json:"limit,omitempty"`
	Unlimited bool   `json:"unlimited"`
}

type planResponse struct {
	Tier       string              `json:"tier"`
	Name       string              `json:"name"`
	PriceCents int                 `json:"price_cents"`
	Period     string              `json:"period"`
	Limits     []planLimitResponse `json:"limits"`
}

// Plans returns the public plan catalog.
func (h *UsageHandler) Plans(w http.ResponseWriter, r *http.Request) {
	tiers := []domain.PlanTier{domain.PlanTierFree, domain.PlanTierPro, domain.PlanTierProMax}

	plans := make([]planResponse, 0, len(tiers))
	for _, tier := range tiers {
		def := h.catalog.Plan(tier)

		limits := make([]planLimitResponse, 0, len(domain.MeteredFeatures))
		for _, feature := range domain.MeteredFeatures {
			limit := def.Limits.For(feature)
			lr := planLimitResponse{
				Feature:   string(feature),
				Label:     featureLabel(feature),
				Unlimited: limit.Unlimited,
			}
			if !limit.Unlimited {
				lr.Limit = limit.N
			}
			limits = append(limits, lr)
		}

		plans = append(plans, planResponse{
			Tier:       string(def.Tier),
			Name:       def.Name,
			PriceCents: def.PriceCents,
			Period:     def.Period,
			Limits:     limits,
		})
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"plans": plans,
	})
}
