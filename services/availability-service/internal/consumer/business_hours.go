package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
	"github.com/segmentio/kafka-go"
)

// HoursStore is where decoded business-hours updates land.
type HoursStore interface {
	Upsert(ctx context.Context, ledgerID string, hours schedule.Weekly) error
}

type businessHoursEvent struct {
	LedgerID string          `json:"ledger_id"`
	Hours    schedule.Weekly `json:"hours"`
}

// NewBusinessHoursHandler applies business.hours.updated events. Malformed payloads are logged and
// dropped; only store failures are returned.
func NewBusinessHoursHandler(store HoursStore, logger *slog.Logger) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var evt businessHoursEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Error("invalid business hours payload", "err", err, "topic", msg.Topic)
			return nil
		}
		if _, err := uuid.Parse(evt.LedgerID); err != nil {
			logger.Error("business hours event without valid ledger_id", "topic", msg.Topic)
			return nil
		}
		if evt.Hours == nil {
			logger.Error("business hours event without hours", "ledger_id", evt.LedgerID)
			return nil
		}
		if err := evt.Hours.Validate(); err != nil {
			logger.Error("rejected business hours", "err", err, "ledger_id", evt.LedgerID)
			return nil
		}
		if err := store.Upsert(ctx, evt.LedgerID, evt.Hours); err != nil {
			return err
		}
		logger.Info("business hours updated", "ledger_id", evt.LedgerID)
		return nil
	}
}
