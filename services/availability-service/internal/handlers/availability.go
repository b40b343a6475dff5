package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/metrics"
)

type AvailabilityHandler struct {
	evaluator *availability.Evaluator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewAvailabilityHandler(evaluator *availability.Evaluator, m *metrics.Metrics, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		evaluator: evaluator,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

type nextAvailableResponse struct {
	Found          bool                    `json:"found"`
	Date           string                  `json:"date,omitempty"`
	AvailableSlots []availability.TimeSlot `json:"available_slots,omitempty"`
}

func (h *AvailabilityHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		http.Error(w, "ledger_id, date, service_type, and duration_minutes are required", http.StatusBadRequest)
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, dateStr, h.evaluator.Location())
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	q, ok := h.parseQuery(w, r, date)
	if !ok {
		return
	}

	start := time.Now()
	slots, err := h.evaluator.Availability(r.Context(), q)
	h.observe("availability", start)
	if err != nil {
		h.writeError(r.Context(), w, "availability", err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *AvailabilityHandler) NextAvailable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	startDate := h.evaluator.DayStart(h.now())
	if raw := strings.TrimSpace(r.URL.Query().Get("start_date")); raw != "" {
		d, err := time.ParseInLocation(time.DateOnly, raw, h.evaluator.Location())
		if err != nil {
			http.Error(w, "invalid start_date (want YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		startDate = d
	}
	q, ok := h.parseQuery(w, r, startDate)
	if !ok {
		return
	}

	start := time.Now()
	day, err := h.evaluator.NextAvailableDate(r.Context(), q)
	h.observe("next_available", start)
	if err != nil {
		if h.metrics != nil && !errors.Is(err, availability.ErrInvalidQuery) {
			h.metrics.CountNextAvailable("error")
		}
		h.writeError(r.Context(), w, "next available", err)
		return
	}
	if day == nil {
		if h.metrics != nil {
			h.metrics.CountNextAvailable("exhausted")
		}
		writeJSON(w, http.StatusOK, nextAvailableResponse{Found: false})
		return
	}
	if h.metrics != nil {
		h.metrics.CountNextAvailable("found")
	}
	writeJSON(w, http.StatusOK, nextAvailableResponse{
		Found:          true,
		Date:           day.Date.Format(time.DateOnly),
		AvailableSlots: day.AvailableSlots,
	})
}

// parseQuery reads the shared query parameters. Range checks are left to Query.Validate.
func (h *AvailabilityHandler) parseQuery(w http.ResponseWriter, r *http.Request, date time.Time) (availability.Query, bool) {
	values := r.URL.Query()
	ledgerID := strings.TrimSpace(values.Get("ledger_id"))
	serviceType := strings.TrimSpace(values.Get("service_type"))
	durationStr := strings.TrimSpace(values.Get("duration_minutes"))
	if ledgerID == "" || serviceType == "" || durationStr == "" {
		http.Error(w, "ledger_id, service_type, and duration_minutes are required", http.StatusBadRequest)
		return availability.Query{}, false
	}
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		http.Error(w, "invalid duration_minutes", http.StatusBadRequest)
		return availability.Query{}, false
	}

	q := h.evaluator.NewQuery(ledgerID, date, serviceType, duration)
	if raw := strings.TrimSpace(values.Get("bay_count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid bay_count", http.StatusBadRequest)
			return availability.Query{}, false
		}
		q.BayCount = n
	}
	if raw := strings.TrimSpace(values.Get("buffer_minutes")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid buffer_minutes", http.StatusBadRequest)
			return availability.Query{}, false
		}
		q.BufferMinutes = n
	}
	return q, true
}

func (h *AvailabilityHandler) observe(operation string, start time.Time) {
	if h.metrics != nil {
		h.metrics.ObserveEvaluation(operation, time.Since(start))
	}
}

func (h *AvailabilityHandler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if errors.Is(err, availability.ErrInvalidQuery) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.logger.WarnContext(ctx, op+" aborted", "err", err)
		http.Error(w, "request timed out", http.StatusServiceUnavailable)
		return
	}
	h.logger.ErrorContext(ctx, op+" failed", "err", err)
	http.Error(w, "failed to compute availability", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
