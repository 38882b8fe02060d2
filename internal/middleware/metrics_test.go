package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
)

// =============================================================================
// Metrics Auth Middleware Tests
// =============================================================================

func metricsAuthRequest(t *testing.T, mw *MetricsAuthMiddleware, setAuth func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("scrape ok"))
	})

	req := httptest.NewRequest("GET", "/metrics", nil)
	if setAuth != nil {
		setAuth(req)
	}
	rec := httptest.NewRecorder()

	mw.Handler(handler).ServeHTTP(rec, req)
	return rec
}

func TestMetricsAuthMiddleware_AllowsValidCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "scrape-secret")

	rec := metricsAuthRequest(t, mw, func(r *http.Request) {
		r.SetBasicAuth("prom", "scrape-secret")
	})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "scrape ok" {
		t.Errorf("expected handler body to pass through, got %q", rec.Body.String())
	}
}

func TestMetricsAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "scrape-secret")

	cases := []struct {
		name string
		user string
		pass string
	}{
		{"wrong username", "intruder", "scrape-secret"},
		{"wrong password", "prom", "guess"},
		{"both wrong", "intruder", "guess"},
		{"empty credentials", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := metricsAuthRequest(t, mw, func(r *http.Request) {
				r.SetBasicAuth(tc.user, tc.pass)
			})

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestMetricsAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "scrape-secret")

	rec := metricsAuthRequest(t, mw, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != `Basic realm="metrics"` {
		t.Errorf("unexpected WWW-Authenticate header: %q", got)
	}
}

func TestMetricsAuthMiddleware_RejectsMalformedAuth(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "scrape-secret")

	rec := metricsAuthRequest(t, mw, func(r *http.Request) {
		r.Header.Set("Authorization", "Basic notvalidbase64!!!")
	})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_DisabledWhenNoCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("", "")

	rec := metricsAuthRequest(t, mw, nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 when auth is disabled, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_HeaderInjection(t *testing.T) {
	mw := NewMetricsAuthMiddleware("prom", "scrape-secret")

	// Credentials with embedded CRLF must not match the configured pair
	rec := metricsAuthRequest(t, mw, func(r *http.Request) {
		malicious := base64.StdEncoding.EncodeToString([]byte("prom:scrape-secret\r\nX-Injected: header"))
		r.Header.Set("Authorization", "Basic "+malicious)
	})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for injection attempt, got %d", rec.Code)
	}
}
