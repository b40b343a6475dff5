package availability

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fillDay books every bay of the ledger for the whole day.
func fillDay(src *fakeSource, day time.Time, bays int) {
	for i := 0; i < bays; i++ {
		src.addBooking(ledgerA, day, 24*60, BookingConfirmed)
	}
}

func TestNextAvailableDate_FirstDay(t *testing.T) {
	e := NewEvaluator(&fakeSource{}, Config{})

	got, err := e.NextAvailableDateFor(context.Background(), ledgerA, "service", 60, tuesday.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a day")
	}
	if !got.Date.Equal(tuesday) {
		t.Fatalf("expected %s, got %s", tuesday, got.Date)
	}
	if len(got.AvailableSlots) != 17 {
		t.Fatalf("expected 17 free slots, got %d", len(got.AvailableSlots))
	}
}

func TestNextAvailableDate_SkipsFullAndClosedDays(t *testing.T) {
	src := &fakeSource{}
	friday := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	saturday := friday.AddDate(0, 0, 1)
	fillDay(src, friday, 2)
	fillDay(src, saturday, 2)
	// Monday keeps 10:30 onwards free.
	monday := friday.AddDate(0, 0, 3)
	src.addBooking(ledgerA, monday, 10*60, BookingConfirmed)
	src.addBooking(ledgerA, monday, 10*60, BookingConfirmed)

	e := NewEvaluator(src, Config{})
	got, err := e.NextAvailableDate(context.Background(), NewQuery(ledgerA, friday, "service", 60))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got == nil || !got.Date.Equal(monday) {
		t.Fatalf("expected monday %s, got %+v", monday, got)
	}
	if got.AvailableSlots[0].Time.String() != "10:30" {
		t.Fatalf("expected first free slot 10:30, got %s", got.AvailableSlots[0].Time)
	}
	for _, s := range got.AvailableSlots {
		if !s.Available {
			t.Fatalf("search result contains occupied slot %s", s.Time)
		}
	}
}

func TestNextAvailableDate_HorizonExhausted(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 40; i++ {
		fillDay(src, tuesday.AddDate(0, 0, i), 2)
	}
	e := NewEvaluator(src, Config{})

	got, err := e.NextAvailableDate(context.Background(), NewQuery(ledgerA, tuesday, "service", 60))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no result, got %+v", got)
	}

	last := tuesday.AddDate(0, 0, SearchHorizonDays-1)
	for i, d := range src.dayStarts {
		if d.Before(tuesday) || d.After(last) {
			t.Fatalf("queried %s outside the horizon", d)
		}
		if i > 0 && !d.After(src.dayStarts[i-1]) {
			t.Fatalf("days not scanned strictly forward: %s after %s", d, src.dayStarts[i-1])
		}
	}
}

func TestNextAvailableDate_NeverBeyondHorizon(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < SearchHorizonDays; i++ {
		fillDay(src, tuesday.AddDate(0, 0, i), 2)
	}
	e := NewEvaluator(src, Config{})

	// Day 31 is free, but lies outside the search window.
	got, err := e.NextAvailableDate(context.Background(), NewQuery(ledgerA, tuesday, "service", 60))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %s", got.Date)
	}
}

func TestNextAvailableDate_StorageError(t *testing.T) {
	boom := errors.New("timeout")
	e := NewEvaluator(&fakeSource{err: boom}, Config{})
	if _, err := e.NextAvailableDate(context.Background(), NewQuery(ledgerA, tuesday, "service", 60)); err != boom {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestNextAvailableDate_Cancelled(t *testing.T) {
	src := &fakeSource{}
	e := NewEvaluator(src, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.NextAvailableDate(ctx, NewQuery(ledgerA, tuesday, "service", 60)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if src.calls != 0 {
		t.Fatalf("cancelled search should not query storage")
	}
}
