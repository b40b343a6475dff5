package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
)

const (
	DefaultBayCount      = 2
	DefaultBufferMinutes = 15
)

// ErrInvalidQuery marks caller mistakes; it is always wrapped with the offending field.
var ErrInvalidQuery = errors.New("invalid availability query")

// Query asks which slots a ledger can offer on Date for a service of ServiceDurationMinutes.
type Query struct {
	LedgerID               string
	Date                   time.Time
	ServiceType            string
	ServiceDurationMinutes int
	BayCount               int
	BufferMinutes          int
}

// NewQuery fills BayCount and BufferMinutes with the package defaults.
func NewQuery(ledgerID string, date time.Time, serviceType string, durationMinutes int) Query {
	return Query{
		LedgerID:               ledgerID,
		Date:                   date,
		ServiceType:            serviceType,
		ServiceDurationMinutes: durationMinutes,
		BayCount:               DefaultBayCount,
		BufferMinutes:          DefaultBufferMinutes,
	}
}

func (q Query) Validate() error {
	if strings.TrimSpace(q.LedgerID) == "" {
		return fmt.Errorf("%w: ledger id is required", ErrInvalidQuery)
	}
	if _, err := uuid.Parse(q.LedgerID); err != nil {
		return fmt.Errorf("%w: ledger id must be a uuid", ErrInvalidQuery)
	}
	if q.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidQuery)
	}
	if q.ServiceDurationMinutes <= 0 {
		return fmt.Errorf("%w: service duration must be positive (got %d)", ErrInvalidQuery, q.ServiceDurationMinutes)
	}
	if q.ServiceDurationMinutes > int(schedule.MinutesPerDay) {
		return fmt.Errorf("%w: service duration exceeds a day (got %d)", ErrInvalidQuery, q.ServiceDurationMinutes)
	}
	if q.BayCount < 1 {
		return fmt.Errorf("%w: bay count must be at least 1 (got %d)", ErrInvalidQuery, q.BayCount)
	}
	if q.BufferMinutes < 0 {
		return fmt.Errorf("%w: buffer minutes must not be negative (got %d)", ErrInvalidQuery, q.BufferMinutes)
	}
	return nil
}

// TimeSlot is one candidate start time annotated with whether a bay is free for it.
type TimeSlot struct {
	Time      schedule.Minutes `json:"time"`
	Available bool             `json:"available"`
	Reason    string           `json:"reason,omitempty"`
}

// ReasonAllBaysOccupied is set on slots whose occupancy reached the bay count.
const ReasonAllBaysOccupied = "All bays occupied"

// DayAvailability is a day that has at least one free slot, with only the free slots.
type DayAvailability struct {
	Date           time.Time
	AvailableSlots []TimeSlot
}
