package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuotaAllowsWithinBurst(t *testing.T) {
	q := newQuota(1, 3)

	for i := 0; i < 3; i++ {
		if !q.take("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if q.take("10.0.0.1") {
		t.Fatalf("request beyond burst should be denied")
	}
}

func TestQuotaIsolatesClients(t *testing.T) {
	q := newQuota(1, 1)

	if !q.take("10.0.0.1") {
		t.Fatalf("first ip should be allowed")
	}
	if !q.take("10.0.0.2") {
		t.Fatalf("second ip should have its own bucket")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := RateLimit(0.001, 1)
	wrapped := mw(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/triage", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.9")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("limited response should carry a Retry-After hint")
	}
}
