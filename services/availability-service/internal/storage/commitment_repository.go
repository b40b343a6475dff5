package storage

import (
	"context"
	"time"

	"github.com/md-rashed-zaman/bayslots/libs/db"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/availability"
)

// CommitmentRepository reads bookings and workshop jobs for availability checks. It never writes.
type CommitmentRepository struct {
	pool *db.Pool
}

func NewCommitmentRepository(pool *db.Pool) *CommitmentRepository {
	return &CommitmentRepository{pool: pool}
}

var _ availability.CommitmentSource = (*CommitmentRepository)(nil)

func (r *CommitmentRepository) FindBookingsOverlappingDay(ctx context.Context, ledgerID string, dayStart, dayEnd time.Time, statusIn []availability.BookingStatus) ([]availability.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT scheduled_at, duration_minutes
		FROM bookings
		WHERE ledger_id = $1
			AND status = ANY($4)
			AND scheduled_at < $3
			AND scheduled_at + make_interval(mins => duration_minutes) > $2
		ORDER BY scheduled_at ASC
	`, ledgerID, dayStart, dayEnd, bookingStatusStrings(statusIn))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.Booking
	for rows.Next() {
		var b availability.Booking
		if err := rows.Scan(&b.ScheduledStart, &b.DurationMinutes); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// FindJobsOverlappingDay approximates "on that day" by creation time; jobs carry no scheduled start.
func (r *CommitmentRepository) FindJobsOverlappingDay(ctx context.Context, ledgerID string, dayStart, dayEnd time.Time, statusNotIn []availability.JobStatus) ([]availability.Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT started_at
		FROM jobs
		WHERE ledger_id = $1
			AND NOT (status = ANY($4))
			AND created_at >= $2
			AND created_at < $3
		ORDER BY created_at ASC
	`, ledgerID, dayStart, dayEnd, jobStatusStrings(statusNotIn))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.Job
	for rows.Next() {
		var startedAt *time.Time
		if err := rows.Scan(&startedAt); err != nil {
			return nil, err
		}
		out = append(out, availability.Job{StartedAt: startedAt})
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func bookingStatusStrings(in []availability.BookingStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func jobStatusStrings(in []availability.JobStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
