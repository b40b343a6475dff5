package availability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SearchHorizonDays bounds NextAvailableDate; the start day counts as the first of them.
const SearchHorizonDays = 30

// NextAvailableDate walks forward from q.Date one day at a time and returns the first day with a
// free slot, carrying only its free slots. It returns nil, nil when the horizon is exhausted.
// Days are evaluated sequentially so the store sees at most one day's queries at a time.
func (e *Evaluator) NextAvailableDate(ctx context.Context, q Query) (*DayAvailability, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "availability.next_available_date",
		trace.WithAttributes(
			attribute.String("ledger_id", q.LedgerID),
			attribute.Int("horizon_days", SearchHorizonDays),
		),
	)
	defer span.End()

	start := e.DayStart(q.Date)
	for i := 0; i < SearchHorizonDays; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		day := start.AddDate(0, 0, i)
		dq := q
		dq.Date = day

		slots, err := e.evaluateDay(ctx, dq, day)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if free := onlyAvailable(slots); len(free) > 0 {
			span.SetAttributes(attribute.Int("days_scanned", i+1), attribute.Bool("found", true))
			return &DayAvailability{Date: day, AvailableSlots: free}, nil
		}
	}
	span.SetAttributes(attribute.Int("days_scanned", SearchHorizonDays), attribute.Bool("found", false))
	return nil, nil
}

// NextAvailableDateFor is NextAvailableDate with the evaluator's default bay count and buffer.
func (e *Evaluator) NextAvailableDateFor(ctx context.Context, ledgerID, serviceType string, durationMinutes int, startDate time.Time) (*DayAvailability, error) {
	return e.NextAvailableDate(ctx, e.NewQuery(ledgerID, startDate, serviceType, durationMinutes))
}

func onlyAvailable(slots []TimeSlot) []TimeSlot {
	var out []TimeSlot
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}
