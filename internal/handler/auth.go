// This file implements authentication handlers for user registration, login,
// and logout.
//
// Routes handled:
//   - POST /api/auth/register -> Register
//   - POST /api/auth/login    -> Login
//   - POST /api/auth/logout   -> Logout
//   - GET  /api/auth/me       -> Me
package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/service"
)

// Session cookie constants - these match the values in middleware/auth.go
// to ensure consistency. If these change, update both locations.
//
// NOTE: These are duplicated from middleware/auth.go to avoid import cycle.
// The middleware package imports handler for error responses, so handler
// cannot import middleware.
const (
	// sessionCookieName is the name of the cookie that stores the session token.
	sessionCookieName = "prepdeck_session"

	// sessionCookiePath ensures the cookie is sent with all requests.
	sessionCookiePath = "/"

	// sessionCookieMaxAge sets the cookie expiration (7 days = 604800 seconds).
	sessionCookieMaxAge = 7 * 24 * 60 * 60
)

// LoginThrottle records failed login attempts so they count against the
// per-IP rate limit. Satisfied by middleware.AuthRateLimiter.
type LoginThrottle interface {
	RecordFailedLogin(ip string)
	ResetLogin(ip string)
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService service.UserService
	throttle    LoginThrottle
	logger      *slog.Logger
	isSecure    bool
}

// NewAuthHandler creates a new AuthHandler.
// throttle may be nil when login rate limiting is disabled.
func NewAuthHandler(userService service.UserService, throttle LoginThrottle, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		throttle:    throttle,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// RegisterRoutes registers auth routes on the provided mux.
// requireUser guards the routes that need an authenticated session;
// limitLogin and limitRegister rate-limit the unauthenticated endpoints.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, requireUser, limitLogin, limitRegister func(http.Handler) http.Handler) {
	mux.Handle("POST /api/auth/register", limitRegister(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/auth/login", limitLogin(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/auth/logout", requireUser(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/auth/me", requireUser(http.HandlerFunc(h.Me)))
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	PlanTier           string    `json:"plan_tier"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

func newUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		PlanTier:           string(user.PlanTier),
		SubscriptionStatus: string(user.SubscriptionStatus),
		CreatedAt:          user.CreatedAt,
	}
}

// Register creates a new user account on the free tier.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), domain.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "email", user.Email)

	RespondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"user": newUserResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.throttle != nil {
			h.throttle.RecordFailedLogin(clientIP(r))
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if h.throttle != nil {
		h.throttle.ResetLogin(clientIP(r))
	}

	setSessionCookie(w, result.Token, h.isSecure)

	h.logger.Info("user logged in", "user_id", result.User.ID)

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"user": newUserResponse(result.User),
	})
}

// Logout invalidates the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		if err := h.userService.Logout(r.Context(), cookie.Value); err != nil {
			// Session may already be gone; still clear the cookie.
			h.logger.Info("logout with invalid session", "error", err)
		}
	}

	clearSessionCookie(w, h.isSecure)

	RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	RespondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"user": newUserResponse(user),
	})
}

// setSessionCookie sets the session cookie on the response.
func setSessionCookie(w http.ResponseWriter, token string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     sessionCookiePath,
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie from the client.
func clearSessionCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     sessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clientIP extracts the client IP, considering proxy headers.
//
// NOTE: Duplicated from middleware to avoid import cycle.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if ip != "" {
				return ip
			}
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
