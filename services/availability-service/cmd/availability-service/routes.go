package main

import (
	"net/http"

	"github.com/md-rashed-zaman/bayslots/libs/httpx"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/handlers"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/metrics"
)

// registerRoutes mounts /metrics and the API. Only the API routes go through limit.
func registerRoutes(mux *http.ServeMux, m *metrics.Metrics, limit httpx.Middleware, availability *handlers.AvailabilityHandler, hours http.Handler) {
	api := func(route string, h http.Handler) http.Handler {
		return httpx.Chain(m.Instrument(route, h), limit)
	}
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/api/v1/public/availability", api("availability", http.HandlerFunc(availability.Availability)))
	mux.Handle("/api/v1/public/next-available", api("next_available", http.HandlerFunc(availability.NextAvailable)))
	mux.Handle("/api/v1/business-hours", api("business_hours", hours))
}
