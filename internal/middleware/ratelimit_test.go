package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func newLimiterLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// limitedRequest sends one request from ip through the wrapped handler and
// returns the recorder.
func limitedRequest(wrapped http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// =============================================================================
// RateLimiter Tests
// =============================================================================

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, newLimiterLogger())

	if rl == nil {
		t.Fatal("expected rate limiter to be created")
	}
	if rl.maxAttempts != 5 {
		t.Errorf("expected maxAttempts=5, got %d", rl.maxAttempts)
	}
	if rl.window != time.Minute {
		t.Errorf("expected window=1m, got %v", rl.window)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, newLimiterLogger())

	for i := 0; i < 5; i++ {
		if !rl.Allow("192.168.1.1") {
			t.Errorf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("192.168.1.1") {
		t.Error("6th request should be denied")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, newLimiterLogger())

	rl.Allow("192.168.1.1")
	rl.Allow("192.168.1.1")
	if rl.Allow("192.168.1.1") {
		t.Error("first key should be limited")
	}

	// A second key has its own untouched budget
	if !rl.Allow("192.168.1.2") {
		t.Error("second key should not be limited")
	}
	if !rl.Allow("192.168.1.2") {
		t.Error("second key should still not be limited")
	}
	if rl.Allow("192.168.1.2") {
		t.Error("second key should now be limited")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond, newLimiterLogger())

	rl.Allow("192.168.1.1")
	rl.Allow("192.168.1.1")
	if rl.Allow("192.168.1.1") {
		t.Error("should be limited before window expires")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("192.168.1.1") {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiter_RecordFailure(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, newLimiterLogger())

	for i := 0; i < 5; i++ {
		rl.RecordFailure("192.168.1.1")
	}

	if rl.Allow("192.168.1.1") {
		t.Error("should be blocked after 5 recorded failures")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, newLimiterLogger())

	rl.Allow("192.168.1.1")
	rl.Allow("192.168.1.1")
	if rl.Allow("192.168.1.1") {
		t.Error("should be limited before reset")
	}

	rl.Reset("192.168.1.1")

	if !rl.Allow("192.168.1.1") {
		t.Error("should be allowed after reset")
	}
}

// =============================================================================
// RateLimitMiddleware Tests
// =============================================================================

func TestRateLimitMiddleware_BlocksAfterLimit(t *testing.T) {
	logger := newLimiterLogger()
	mw := NewRateLimitMiddleware(NewRateLimiter(2, time.Minute, logger), logger)
	wrapped := mw.Limit(okHandler())

	for i := 0; i < 3; i++ {
		rec := limitedRequest(wrapped, "/api/auth/login", "192.168.1.1")

		if i < 2 && rec.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if i == 2 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("request %d: expected 429, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimitMiddleware_LimitedResponseShape(t *testing.T) {
	logger := newLimiterLogger()
	mw := NewRateLimitMiddleware(NewRateLimiter(1, time.Minute, logger), logger)
	wrapped := mw.Limit(okHandler())

	limitedRequest(wrapped, "/api/auth/login", "192.168.1.1")
	rec := limitedRequest(wrapped, "/api/auth/login", "192.168.1.1")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header to be set")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json content type, got %s", ct)
	}
}

func TestRateLimitMiddleware_ProxyHeaders(t *testing.T) {
	cases := []struct {
		name   string
		header string
		value  string
	}{
		{"x-forwarded-for chain", "X-Forwarded-For", "203.0.113.195, 70.41.3.18, 150.172.238.178"},
		{"x-real-ip", "X-Real-IP", "203.0.113.195"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := newLimiterLogger()
			mw := NewRateLimitMiddleware(NewRateLimiter(2, time.Minute, logger), logger)
			wrapped := mw.Limit(okHandler())

			// All requests come from the proxy address; the client IP in the
			// header is what the limiter must key on.
			for i := 0; i < 3; i++ {
				req := httptest.NewRequest("POST", "/api/auth/login", nil)
				req.RemoteAddr = "10.0.0.1:12345"
				req.Header.Set(tc.header, tc.value)
				rec := httptest.NewRecorder()

				wrapped.ServeHTTP(rec, req)

				if i < 2 && rec.Code != http.StatusOK {
					t.Errorf("request %d: expected 200, got %d", i+1, rec.Code)
				}
				if i == 2 && rec.Code != http.StatusTooManyRequests {
					t.Errorf("request %d: expected 429, got %d", i+1, rec.Code)
				}
			}
		})
	}
}

// =============================================================================
// AuthRateLimiter Tests
// =============================================================================

func TestNewAuthRateLimiter(t *testing.T) {
	arl := NewAuthRateLimiter(newLimiterLogger())

	if arl == nil {
		t.Fatal("expected auth rate limiter to be created")
	}
	if arl.loginLimiter == nil {
		t.Error("expected login limiter to be created")
	}
	if arl.registerLimiter == nil {
		t.Error("expected register limiter to be created")
	}
}

func TestAuthRateLimiter_LoginBudget(t *testing.T) {
	arl := NewAuthRateLimiter(newLimiterLogger())
	wrapped := arl.LimitLogin(okHandler())

	// 5 per 15 minutes
	for i := 0; i < 6; i++ {
		rec := limitedRequest(wrapped, "/api/auth/login", "192.168.1.1")

		if i < 5 && rec.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if i == 5 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("request %d: expected 429, got %d", i+1, rec.Code)
		}
	}
}

func TestAuthRateLimiter_RegisterBudget(t *testing.T) {
	arl := NewAuthRateLimiter(newLimiterLogger())
	wrapped := arl.LimitRegister(okHandler())

	// 3 per hour
	for i := 0; i < 4; i++ {
		rec := limitedRequest(wrapped, "/api/auth/register", "192.168.1.1")

		if i < 3 && rec.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if i == 3 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("request %d: expected 429, got %d", i+1, rec.Code)
		}
	}
}

func TestAuthRateLimiter_FailedLoginsConsumeBudget(t *testing.T) {
	arl := NewAuthRateLimiter(newLimiterLogger())

	for i := 0; i < 5; i++ {
		arl.RecordFailedLogin("192.168.1.1")
	}

	rec := limitedRequest(arl.LimitLogin(okHandler()), "/api/auth/login", "192.168.1.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after failed logins, got %d", rec.Code)
	}
}

func TestAuthRateLimiter_SuccessfulLoginResets(t *testing.T) {
	arl := NewAuthRateLimiter(newLimiterLogger())

	for i := 0; i < 3; i++ {
		arl.RecordFailedLogin("192.168.1.1")
	}
	arl.ResetLogin("192.168.1.1")

	wrapped := arl.LimitLogin(okHandler())
	for i := 0; i < 5; i++ {
		rec := limitedRequest(wrapped, "/api/auth/login", "192.168.1.1")
		if rec.Code != http.StatusOK {
			t.Errorf("request %d: expected 200 after reset, got %d", i+1, rec.Code)
		}
	}
}
