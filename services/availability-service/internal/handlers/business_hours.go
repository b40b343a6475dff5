package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/bayslots/libs/auth"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
)

type HoursStore interface {
	WeeklySchedule(ctx context.Context, ledgerID string) (schedule.Weekly, bool, error)
	Upsert(ctx context.Context, ledgerID string, hours schedule.Weekly) error
}

// BusinessHoursHandler reads and replaces a ledger's weekly hours.
type BusinessHoursHandler struct {
	store    HoursStore
	fallback schedule.Weekly
	logger   *slog.Logger
}

func NewBusinessHoursHandler(store HoursStore, fallback schedule.Weekly, logger *slog.Logger) *BusinessHoursHandler {
	return &BusinessHoursHandler{store: store, fallback: fallback.Clone(), logger: logger}
}

type businessHoursResponse struct {
	LedgerID string          `json:"ledger_id"`
	Hours    schedule.Weekly `json:"hours"`
	Source   string          `json:"source"`
}

type putBusinessHoursRequest struct {
	Hours schedule.Weekly `json:"hours"`
}

func (h *BusinessHoursHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BusinessHoursHandler) get(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := ledgerParam(w, r)
	if !ok {
		return
	}
	hours, found, err := h.store.WeeklySchedule(r.Context(), ledgerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "business hours lookup failed", "err", err, "ledger_id", ledgerID)
		http.Error(w, "failed to load business hours", http.StatusInternalServerError)
		return
	}
	resp := businessHoursResponse{LedgerID: ledgerID, Hours: hours, Source: "ledger"}
	if !found {
		resp.Hours = h.fallback
		resp.Source = "default"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BusinessHoursHandler) put(w http.ResponseWriter, r *http.Request) {
	ledgerID, ok := ledgerParam(w, r)
	if !ok {
		return
	}
	var req putBusinessHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.Hours == nil {
		http.Error(w, "hours are required", http.StatusBadRequest)
		return
	}
	if err := req.Hours.Validate(); err != nil {
		if errors.Is(err, schedule.ErrInvalidSchedule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "invalid hours", http.StatusBadRequest)
		return
	}
	if err := h.store.Upsert(r.Context(), ledgerID, req.Hours); err != nil {
		h.logger.ErrorContext(r.Context(), "business hours update failed", "err", err, "ledger_id", ledgerID)
		http.Error(w, "failed to save business hours", http.StatusInternalServerError)
		return
	}
	h.logger.InfoContext(r.Context(), "business hours replaced", "ledger_id", ledgerID)
	writeJSON(w, http.StatusOK, businessHoursResponse{LedgerID: ledgerID, Hours: req.Hours, Source: "ledger"})
}

func ledgerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ledgerID := strings.TrimSpace(r.URL.Query().Get("ledger_id"))
	if ledgerID == "" {
		http.Error(w, "ledger_id is required", http.StatusBadRequest)
		return "", false
	}
	if _, err := uuid.Parse(ledgerID); err != nil {
		http.Error(w, "ledger_id must be a uuid", http.StatusBadRequest)
		return "", false
	}
	// Without claims the route is unauthenticated; with them, only admins cross ledgers.
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.Role != "admin" && claims.LedgerID != ledgerID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}
	return ledgerID, true
}
