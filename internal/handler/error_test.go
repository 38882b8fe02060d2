package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EPAYMENT, http.StatusPaymentRequired},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ETOOLARGE, http.StatusRequestEntityTooLarge},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"unknown_code", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_RendersDomainError(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/profiles", nil)
	rec := httptest.NewRecorder()

	err := domain.Invalid("profiles.create", "Title is required")
	ErrorResponse(rec, req, newTestLogger(), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body JSONError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.EINVALID, body.Error.Code)
	assert.Equal(t, "Title is required", body.Error.Message)
}

func TestErrorResponse_HidesInternalDetails(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/profiles", nil)
	rec := httptest.NewRecorder()

	err := domain.Internal(assert.AnError, "profiles.list", "database exploded: connection refused host=10.0.0.5")
	ErrorResponse(rec, req, newTestLogger(), err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body JSONError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.EINTERNAL, body.Error.Code)
	// The raw wrapped error never leaks into the body
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestLimitReachedResponse(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/profiles/abc/interviews", nil)
	rec := httptest.NewRecorder()

	decision := domain.Decision{
		Allowed:       false,
		LimitExceeded: true,
		Reason:        "Monthly interview limit reached for your plan",
	}
	LimitReachedResponse(rec, req, newTestLogger(), domain.FeatureInterviews, decision)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Feature string `json:"feature"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "limit_reached", body.Error.Code)
	assert.Equal(t, decision.Reason, body.Error.Message)
	assert.Equal(t, string(domain.FeatureInterviews), body.Error.Feature)
}

func TestUnauthorizedResponse(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	UnauthorizedResponse(rec, req, newTestLogger())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body JSONError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.EUNAUTHORIZED, body.Error.Code)
}

func TestNotFoundResponse(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/questions/missing", nil)
	rec := httptest.NewRecorder()

	NotFoundResponse(rec, req, newTestLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body JSONError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.ENOTFOUND, body.Error.Code)
}
