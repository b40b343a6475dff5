package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Minutes is a time of day expressed as minutes since midnight.
type Minutes int

const MinutesPerDay Minutes = 24 * 60

// ParseClock parses a zero-padded "HH:MM" value. "24:00" is accepted as end of day.
func ParseClock(s string) (Minutes, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return Minutes(h*60 + m), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func MustParseClock(s string) Minutes {
	m, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Of returns the wall-clock minute of t on dayStart's calendar day, read in dayStart's location.
// Instants on earlier days are negative, later days exceed MinutesPerDay. Daylight-saving shifts
// do not move the result because elapsed time is never used.
func Of(t, dayStart time.Time) Minutes {
	lt := t.In(dayStart.Location())
	days := civilDay(lt) - civilDay(dayStart)
	return Minutes(days*int(MinutesPerDay) + lt.Hour()*60 + lt.Minute())
}

func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func (m Minutes) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Minutes) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
