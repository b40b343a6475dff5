// Package schedule holds the weekly business-hours table and the minutes-of-day clock type.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Hours is the open window of a single day.
type Hours struct {
	Open  Minutes `json:"open"`
	Close Minutes `json:"close"`
}

// Weekly maps a lowercase English weekday name to its hours. A missing or nil entry means closed.
type Weekly map[string]*Hours

var ErrInvalidSchedule = errors.New("invalid weekly schedule")

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Default is the workshop schedule used when a ledger has none of its own:
// Mon-Fri 08:00-17:00, Sat 09:00-13:00, Sun closed. Every call returns a fresh value.
func Default() Weekly {
	weekday := func() *Hours { return &Hours{Open: 8 * 60, Close: 17 * 60} }
	return Weekly{
		"monday":    weekday(),
		"tuesday":   weekday(),
		"wednesday": weekday(),
		"thursday":  weekday(),
		"friday":    weekday(),
		"saturday":  {Open: 9 * 60, Close: 13 * 60},
		"sunday":    nil,
	}
}

func DayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// ForDate returns the hours for the weekday of t, or false when that day is closed.
func (w Weekly) ForDate(t time.Time) (Hours, bool) {
	h := w[DayName(t.Weekday())]
	if h == nil {
		return Hours{}, false
	}
	return *h, true
}

func (w Weekly) Validate() error {
	for name, h := range w {
		if _, ok := weekdayNames[name]; !ok {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, name)
		}
		if h == nil {
			continue
		}
		if h.Open < 0 || h.Close > MinutesPerDay {
			return fmt.Errorf("%w: %s hours out of range", ErrInvalidSchedule, name)
		}
		if h.Open >= h.Close {
			return fmt.Errorf("%w: %s opens at %s but closes at %s", ErrInvalidSchedule, name, h.Open, h.Close)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a shared table.
func (w Weekly) Clone() Weekly {
	out := make(Weekly, len(w))
	for name, h := range w {
		if h == nil {
			out[name] = nil
			continue
		}
		hc := *h
		out[name] = &hc
	}
	return out
}
