package availability

import (
	"context"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	// Schedule is used for ledgers without hours of their own. Nil means schedule.Default().
	Schedule schedule.Weekly
	// Schedules is consulted first when set.
	Schedules ScheduleSource
	// Location defines calendar days and weekday names. Nil means UTC.
	Location  *time.Location
	JobPolicy JobPolicy
	// Defaults seed Evaluator.NewQuery. Nil means DefaultBayCount and DefaultBufferMinutes.
	Defaults *QueryDefaults
	Logger   *slog.Logger
}

type QueryDefaults struct {
	BayCount      int
	BufferMinutes int
}

// Evaluator annotates a day's candidate slots with bay availability. It keeps no state between
// calls and is safe for concurrent use.
type Evaluator struct {
	source        CommitmentSource
	schedule      schedule.Weekly
	schedules     ScheduleSource
	loc           *time.Location
	jobPolicy     JobPolicy
	defaultBays   int
	defaultBuffer int
	logger        *slog.Logger
	tracer        trace.Tracer
}

func NewEvaluator(source CommitmentSource, cfg Config) *Evaluator {
	weekly := cfg.Schedule
	if weekly == nil {
		weekly = schedule.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	bays, buffer := DefaultBayCount, DefaultBufferMinutes
	if cfg.Defaults != nil {
		if cfg.Defaults.BayCount > 0 {
			bays = cfg.Defaults.BayCount
		}
		if cfg.Defaults.BufferMinutes >= 0 {
			buffer = cfg.Defaults.BufferMinutes
		}
	}
	return &Evaluator{
		source:        source,
		schedule:      weekly.Clone(),
		schedules:     cfg.Schedules,
		loc:           loc,
		jobPolicy:     cfg.JobPolicy,
		defaultBays:   bays,
		defaultBuffer: buffer,
		logger:        cfg.Logger,
		tracer:        otel.Tracer("availability"),
	}
}

// NewQuery builds a query carrying this evaluator's configured bay count and buffer.
func (e *Evaluator) NewQuery(ledgerID string, date time.Time, serviceType string, durationMinutes int) Query {
	q := NewQuery(ledgerID, date, serviceType, durationMinutes)
	q.BayCount = e.defaultBays
	q.BufferMinutes = e.defaultBuffer
	return q
}

func (e *Evaluator) Location() *time.Location { return e.loc }

// DefaultSchedule returns a copy of the hours used for ledgers without their own.
func (e *Evaluator) DefaultSchedule() schedule.Weekly { return e.schedule.Clone() }

// DayStart returns local midnight of the calendar day containing t.
func (e *Evaluator) DayStart(t time.Time) time.Time {
	lt := t.In(e.loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, e.loc)
}

// Availability returns every candidate slot of q.Date in ascending order. A closed day yields an
// empty, non-nil slice. Storage errors are returned as they come.
func (e *Evaluator) Availability(ctx context.Context, q Query) ([]TimeSlot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return e.evaluateDay(ctx, q, e.DayStart(q.Date))
}

func (e *Evaluator) evaluateDay(ctx context.Context, q Query, dayStart time.Time) ([]TimeSlot, error) {
	ctx, span := e.tracer.Start(ctx, "availability.evaluate_day",
		trace.WithAttributes(
			attribute.String("ledger_id", q.LedgerID),
			attribute.String("date", dayStart.Format(time.DateOnly)),
			attribute.String("service_type", q.ServiceType),
			attribute.Int("service_duration_minutes", q.ServiceDurationMinutes),
		),
	)
	defer span.End()

	weekly, err := e.weeklyFor(ctx, q.LedgerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "schedule lookup failed")
		return nil, err
	}
	hours, open := weekly.ForDate(dayStart)
	if !open {
		span.SetAttributes(attribute.Bool("closed", true))
		return []TimeSlot{}, nil
	}

	candidates := GenerateSlots(hours.Open, hours.Close, q.ServiceDurationMinutes)
	if len(candidates) == 0 {
		return []TimeSlot{}, nil
	}

	dayEnd := dayStart.AddDate(0, 0, 1)
	bookings, err := e.source.FindBookingsOverlappingDay(ctx, q.LedgerID, dayStart, dayEnd, blockingBookingStatuses())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bookings lookup failed")
		return nil, err
	}
	jobs, err := e.source.FindJobsOverlappingDay(ctx, q.LedgerID, dayStart, dayEnd, finishedJobStatuses())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "jobs lookup failed")
		return nil, err
	}
	commitments := toCommitments(dayStart, bookings, jobs, e.jobPolicy)

	slots := annotate(candidates, commitments, q)
	free := 0
	for _, s := range slots {
		if s.Available {
			free++
		}
	}
	span.SetAttributes(
		attribute.Int("slots", len(slots)),
		attribute.Int("slots_available", free),
		attribute.Int("commitments", len(commitments)),
	)
	if e.logger != nil {
		e.logger.DebugContext(ctx, "day evaluated",
			"ledger_id", q.LedgerID,
			"date", dayStart.Format(time.DateOnly),
			"slots", len(slots),
			"available", free,
			"commitments", len(commitments),
		)
	}
	return slots, nil
}

func (e *Evaluator) weeklyFor(ctx context.Context, ledgerID string) (schedule.Weekly, error) {
	if e.schedules == nil {
		return e.schedule, nil
	}
	weekly, ok, err := e.schedules.WeeklySchedule(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return e.schedule, nil
	}
	return weekly, nil
}

// interval is a half-open range of minutes [start, end).
type interval struct {
	start, end schedule.Minutes
}

// overlaps reports whether a starts inside b, ends inside b, or spans b. For non-empty intervals
// this is the same as a.start < b.end && b.start < a.end.
func (a interval) overlaps(b interval) bool {
	startsInside := a.start >= b.start && a.start < b.end
	endsInside := a.end > b.start && a.end <= b.end
	spans := a.start <= b.start && a.end >= b.end
	return startsInside || endsInside || spans
}

func occupiedIntervals(commitments []Commitment, bufferMinutes int) []interval {
	out := make([]interval, 0, len(commitments))
	for _, c := range commitments {
		end := c.Start + schedule.Minutes(c.DurationMinutes+bufferMinutes)
		if end <= c.Start {
			continue
		}
		out = append(out, interval{start: c.Start, end: end})
	}
	return out
}

func occupancy(slot interval, busy []interval) int {
	n := 0
	for _, b := range busy {
		if slot.overlaps(b) {
			n++
		}
	}
	return n
}

func annotate(candidates []schedule.Minutes, commitments []Commitment, q Query) []TimeSlot {
	busy := occupiedIntervals(commitments, q.BufferMinutes)
	span := schedule.Minutes(q.ServiceDurationMinutes + q.BufferMinutes)

	slots := make([]TimeSlot, 0, len(candidates))
	for _, start := range candidates {
		slot := TimeSlot{Time: start, Available: true}
		if occupancy(interval{start: start, end: start + span}, busy) >= q.BayCount {
			slot.Available = false
			slot.Reason = ReasonAllBaysOccupied
		}
		slots = append(slots, slot)
	}
	return slots
}
