// This file implements the billing handlers: Stripe Checkout, the customer
// portal, and subscription cancel/reactivate.
//
// Routes handled (all require authentication):
//   - POST /api/billing/select-plan -> SelectPlan
//   - POST /api/billing/checkout    -> CreateCheckout
//   - POST /api/billing/portal      -> OpenPortal
//   - POST /api/billing/cancel      -> CancelSubscription
//   - POST /api/billing/reactivate  -> ReactivateSubscription
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/billing"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/service"
)

// BillingHandler handles subscription billing HTTP requests.
type BillingHandler struct {
	billing     billing.Service
	userService service.UserService
	baseURL     string
	logger      *slog.Logger
}

// NewBillingHandler creates a new BillingHandler.
// billingService may be nil when Stripe is not configured.
func NewBillingHandler(billingService billing.Service, userService service.UserService, baseURL string, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		billing:     billingService,
		userService: userService,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// RegisterRoutes registers billing routes on the provided mux.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/billing/select-plan", requireUser(http.HandlerFunc(h.SelectPlan)))
	mux.Handle("POST /api/billing/checkout", requireUser(http.HandlerFunc(h.CreateCheckout)))
	mux.Handle("POST /api/billing/portal", requireUser(http.HandlerFunc(h.OpenPortal)))
	mux.Handle("POST /api/billing/cancel", requireUser(http.HandlerFunc(h.CancelSubscription)))
	mux.Handle("POST /api/billing/reactivate", requireUser(http.HandlerFunc(h.ReactivateSubscription)))
}

// notConfigured reports whether billing is disabled, writing the error response.
func (h *BillingHandler) notConfigured(w http.ResponseWriter, r *http.Request) bool {
	if h.billing != nil {
		return false
	}
	h.logger.Warn("billing request but Stripe is not configured", "path", r.URL.Path)
	ErrorResponse(w, r, h.logger, domain.Errorf(domain.EINVALID, "", "Billing is not configured"))
	return true
}

type selectPlanRequest struct {
	Tier string `json:"tier"`
}

// SelectPlan switches the user to the free plan. Paid tiers go through
// Stripe Checkout, so this endpoint only accepts "free"; it works without
// Stripe configured.
func (h *BillingHandler) SelectPlan(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var req selectPlanRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	tier := domain.PlanTier(req.Tier)
	if !tier.Valid() {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "Unknown plan tier"))
		return
	}
	if tier != domain.PlanTierFree {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "Paid plans are purchased through checkout"))
		return
	}
	if user.StripeSubID != "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "Cancel your subscription before switching to the free plan"))
		return
	}

	if user.PlanTier != domain.PlanTierFree {
		if err := h.userService.UpdateSubscription(r.Context(), user.ID, domain.PlanTierFree, domain.SubscriptionStatusCanceled, ""); err != nil {
			h.logger.Error("failed to switch user to free plan", "error", err, "user_id", user.ID)
			InternalErrorResponse(w, r, h.logger, err)
			return
		}
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]string{"tier": string(domain.PlanTierFree)})
}

type checkoutRequest struct {
	Tier string `json:"tier"`
}

// CreateCheckout creates a Stripe Checkout session for upgrading to a paid
// tier and returns the checkout URL.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	if h.notConfigured(w, r) {
		return
	}

	var req checkoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	priceID := h.billing.PriceIDForTier(domain.PlanTier(req.Tier))
	if priceID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "Unknown plan tier"))
		return
	}

	// Ensure user has a Stripe customer
	customerID := user.StripeCustomerID
	if customerID == "" {
		var err error
		customerID, err = h.billing.CreateCustomer(user.Email, user.Name)
		if err != nil {
			h.logger.Error("failed to create stripe customer", "error", err, "user_id", user.ID)
			InternalErrorResponse(w, r, h.logger, err)
			return
		}
		if err := h.userService.UpdateStripeCustomer(r.Context(), user.ID, customerID); err != nil {
			h.logger.Error("failed to save stripe customer ID", "error", err, "user_id", user.ID)
		}
	}

	successURL := fmt.Sprintf("%s/billing/success?session_id={CHECKOUT_SESSION_ID}", h.baseURL)
	cancelURL := fmt.Sprintf("%s/billing", h.baseURL)

	checkoutURL, err := h.billing.CreateCheckoutSession(customerID, priceID, successURL, cancelURL)
	if err != nil {
		h.logger.Error("failed to create checkout session", "error", err, "user_id", user.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]string{
		"checkout_url": checkoutURL,
	})
}

// OpenPortal creates a Stripe Customer Portal session and returns its URL.
func (h *BillingHandler) OpenPortal(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	if h.notConfigured(w, r) {
		return
	}

	if user.StripeCustomerID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "No billing account exists for this user"))
		return
	}

	returnURL := fmt.Sprintf("%s/billing", h.baseURL)
	portalURL, err := h.billing.CreatePortalSession(user.StripeCustomerID, returnURL)
	if err != nil {
		h.logger.Error("failed to create portal session", "error", err, "user_id", user.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]string{
		"portal_url": portalURL,
	})
}

// CancelSubscription sets the subscription to cancel at period end.
func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	if h.notConfigured(w, r) {
		return
	}

	if user.StripeSubID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "No active subscription to cancel"))
		return
	}

	if err := h.billing.CancelSubscription(user.StripeSubID); err != nil {
		h.logger.Error("failed to cancel subscription", "error", err, "user_id", user.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	h.logger.Info("subscription set to cancel at period end", "user_id", user.ID)

	RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "canceling"})
}

// ReactivateSubscription removes the cancel-at-period-end flag.
func (h *BillingHandler) ReactivateSubscription(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	if h.notConfigured(w, r) {
		return
	}

	if user.StripeSubID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "No subscription to reactivate"))
		return
	}

	if err := h.billing.ReactivateSubscription(user.StripeSubID); err != nil {
		h.logger.Error("failed to reactivate subscription", "error", err, "user_id", user.ID)
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	h.logger.Info("subscription reactivated", "user_id", user.ID)

	RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "active"})
}
