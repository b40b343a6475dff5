package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/bayslots/libs/db"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
)

// ScheduleRepository stores one weekly business-hours table per ledger.
type ScheduleRepository struct {
	pool *db.Pool
}

func NewScheduleRepository(pool *db.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

var _ availability.ScheduleSource = (*ScheduleRepository)(nil)

type LedgerHours struct {
	LedgerID  string
	Hours     schedule.Weekly
	UpdatedAt time.Time
}

func (r *ScheduleRepository) WeeklySchedule(ctx context.Context, ledgerID string) (schedule.Weekly, bool, error) {
	lh, ok, err := r.Get(ctx, ledgerID)
	if err != nil || !ok {
		return nil, ok, err
	}
	return lh.Hours, true, nil
}

func (r *ScheduleRepository) Get(ctx context.Context, ledgerID string) (LedgerHours, bool, error) {
	var (
		lh  LedgerHours
		raw []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT ledger_id::text, hours, updated_at
		FROM ledger_business_hours
		WHERE ledger_id = $1
	`, ledgerID).Scan(&lh.LedgerID, &raw, &lh.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return LedgerHours{}, false, nil
		}
		return LedgerHours{}, false, err
	}
	if err := json.Unmarshal(raw, &lh.Hours); err != nil {
		return LedgerHours{}, false, fmt.Errorf("decode business hours for ledger %s: %w", ledgerID, err)
	}
	if err := lh.Hours.Validate(); err != nil {
		return LedgerHours{}, false, fmt.Errorf("stored business hours for ledger %s: %w", ledgerID, err)
	}
	return lh, true, nil
}

// Upsert replaces the ledger's table. Callers validate before writing.
func (r *ScheduleRepository) Upsert(ctx context.Context, ledgerID string, hours schedule.Weekly) error {
	raw, err := json.Marshal(hours)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO ledger_business_hours (ledger_id, hours)
		VALUES ($1, $2)
		ON CONFLICT (ledger_id)
		DO UPDATE SET hours = EXCLUDED.hours,
		              updated_at = now()
	`, ledgerID, raw)
	return err
}
