package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := map[string]Minutes{
		"00:00": 0,
		"08:00": 480,
		"16:30": 990,
		"24:00": 1440,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %d, want %d", in, got, want)
		}
		if got.String() != in {
			t.Fatalf("String() = %q, want %q", got.String(), in)
		}
	}

	for _, bad := range []string{"", "8:00", "08:60", "25:00", "24:01", "ab:cd", "0800", "+1:00", "08:-1"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMinutesString(t *testing.T) {
	if got := Minutes(65).String(); got != "01:05" {
		t.Fatalf("expected zero padded 01:05, got %q", got)
	}
}

func TestOf(t *testing.T) {
	day := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)
	if got := Of(day.Add(9*time.Hour+30*time.Minute), day); got != 570 {
		t.Fatalf("expected 570, got %d", got)
	}
	if got := Of(day.Add(-30*time.Minute), day); got != -30 {
		t.Fatalf("expected -30, got %d", got)
	}
}

func TestOfDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks jump from 02:00 to 03:00 on 2026-03-08 and back on 2026-11-01.
	spring := time.Date(2026, 3, 8, 0, 0, 0, 0, ny)
	if got := Of(time.Date(2026, 3, 8, 10, 0, 0, 0, ny), spring); got.String() != "10:00" {
		t.Fatalf("spring forward: expected 10:00, got %s", got)
	}
	fall := time.Date(2026, 11, 1, 0, 0, 0, 0, ny)
	if got := Of(time.Date(2026, 11, 1, 16, 30, 0, 0, ny), fall); got.String() != "16:30" {
		t.Fatalf("fall back: expected 16:30, got %s", got)
	}
	if got := Of(time.Date(2026, 3, 7, 23, 0, 0, 0, ny), spring); got != -60 {
		t.Fatalf("previous evening: expected -60, got %d", got)
	}
	if got := Of(time.Date(2026, 3, 9, 1, 0, 0, 0, ny), spring); got != MinutesPerDay+60 {
		t.Fatalf("next day: expected %d, got %d", MinutesPerDay+60, got)
	}
}

func TestDefault(t *testing.T) {
	w := Default()
	if err := w.Validate(); err != nil {
		t.Fatalf("default schedule invalid: %v", err)
	}

	tuesday := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)
	h, ok := w.ForDate(tuesday)
	if !ok || h.Open.String() != "08:00" || h.Close.String() != "17:00" {
		t.Fatalf("unexpected tuesday hours: %+v (open=%v)", h, ok)
	}

	saturday := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	h, ok = w.ForDate(saturday)
	if !ok || h.Open.String() != "09:00" || h.Close.String() != "13:00" {
		t.Fatalf("unexpected saturday hours: %+v", h)
	}

	sunday := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, ok := w.ForDate(sunday); ok {
		t.Fatalf("sunday should be closed")
	}

	// Mutating one copy must not leak into another.
	w["monday"].Open = 0
	if Default()["monday"].Open != 480 {
		t.Fatalf("Default must return a fresh table")
	}
}

func TestValidate(t *testing.T) {
	bad := Weekly{"monday": {Open: 600, Close: 600}}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
	unknown := Weekly{"funday": {Open: 1, Close: 2}}
	if err := unknown.Validate(); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule for unknown day, got %v", err)
	}
}

func TestWeeklyJSON(t *testing.T) {
	raw := `{"monday":{"open":"07:30","close":"16:00"},"sunday":null}`
	var w Weekly
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w["monday"].Open != 450 || w["monday"].Close != 960 {
		t.Fatalf("unexpected monday: %+v", w["monday"])
	}
	if _, ok := w.ForDate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)); ok {
		t.Fatalf("sunday should be closed")
	}

	out, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"monday":{"open":"07:30","close":"16:00"},"sunday":null}` {
		t.Fatalf("unexpected json: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"monday":{"open":"7:30","close":"16:00"}}`), &w); err == nil {
		t.Fatalf("expected error for unpadded clock")
	}
}

func TestClone(t *testing.T) {
	w := Default()
	c := w.Clone()
	c["friday"].Close = 600
	if w["friday"].Close != 1020 {
		t.Fatalf("clone shares hours with source")
	}
	if _, ok := c["sunday"]; !ok {
		t.Fatalf("clone should keep explicit closed days")
	}
}
