package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/md-rashed-zaman/bayslots/libs/httpx"
	"github.com/md-rashed-zaman/bayslots/libs/runtime"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/handlers"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/metrics"
)

func TestRateLimitOnlyAppliesToAPI(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	evaluator := availability.NewEvaluator(nil, availability.Config{})
	hours := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	mux := runtime.NewBaseMuxWithReady()
	limit := httpx.RateLimit(httpx.NewRateLimiter(1, time.Minute), logger, true)
	registerRoutes(mux, m, limit, handlers.NewAvailabilityHandler(evaluator, m, logger), hours)

	get := func(target string) int {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.RemoteAddr = "10.0.0.7:5000"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
			if code := get(path); code != http.StatusOK {
				t.Fatalf("%s request %d: expected 200, got %d", path, i, code)
			}
		}
	}

	// Missing parameters are rejected before any storage access.
	if code := get("/api/v1/public/availability"); code != http.StatusBadRequest {
		t.Fatalf("first api request: expected 400, got %d", code)
	}
	if code := get("/api/v1/public/next-available"); code != http.StatusTooManyRequests {
		t.Fatalf("second api request: expected 429, got %d", code)
	}
}
