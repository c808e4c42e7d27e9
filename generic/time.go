package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar day (this IS a calendar system, not a clock)
// =============================================================================

// Date is a calendar day, always normalized to midnight UTC.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsSunday() bool        { return d.Weekday() == time.Sunday }
func (d Date) IsSaturday() bool      { return d.Weekday() == time.Saturday }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) String() string        { return d.Time.Format("2006-01-02") }

// At combines the day with a time of day.
func (d Date) At(t TimeOfDay) time.Time {
	return d.Time.Add(time.Duration(t) * time.Minute)
}

// =============================================================================
// TIME OF DAY - Minute precision, 00:00 .. 24:00
// =============================================================================

// TimeOfDay is the number of minutes since midnight.
// Valid starts are 0..1439; EndOfDay (24:00) is only meaningful as an end.
type TimeOfDay int

const (
	Midnight TimeOfDay = 0
	EndOfDay TimeOfDay = 24 * 60
)

// NewTimeOfDay builds a TimeOfDay from hours and minutes.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM". "24:00" is accepted as EndOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, err := splitClock(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if m >= 60 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time of day %q: out of range", s)
	}
	return NewTimeOfDay(h, m), nil
}

// MustParseTimeOfDay panics on malformed input. Intended for tests and constants.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Valid reports whether t lies in 00:00..24:00.
func (t TimeOfDay) Valid() bool { return t >= Midnight && t <= EndOfDay }

// Add shifts t by d without wrapping past midnight.
func (t TimeOfDay) Add(d WorkDuration) TimeOfDay { return t + TimeOfDay(d) }

// Sub returns the duration between two times of day.
func (t TimeOfDay) Sub(other TimeOfDay) WorkDuration { return WorkDuration(t - other) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// =============================================================================
// WORK DURATION - Signed minute count ("40:00", "-06:40")
// =============================================================================

// WorkDuration is a signed number of minutes. Hours may exceed 24.
type WorkDuration int

// Hours and minutes
func NewWorkDuration(hours, minutes int) WorkDuration {
	return WorkDuration(hours*60 + minutes)
}

// ParseWorkDuration parses "[+|-]H:MM", e.g. "40:00", "-06:40".
func ParseWorkDuration(s string) (WorkDuration, error) {
	s = strings.TrimSpace(s)
	sign := 1
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	h, m, err := splitClock(s)
	if err != nil || m >= 60 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return WorkDuration(sign * (h*60 + m)), nil
}

// MustParseWorkDuration panics on malformed input. Intended for tests and constants.
func MustParseWorkDuration(s string) WorkDuration {
	d, err := ParseWorkDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d WorkDuration) Minutes() int     { return int(d) }
func (d WorkDuration) Hours() float64   { return float64(d) / 60 }
func (d WorkDuration) IsZero() bool     { return d == 0 }
func (d WorkDuration) IsNegative() bool { return d < 0 }
func (d WorkDuration) IsPositive() bool { return d > 0 }

func (d WorkDuration) Abs() WorkDuration {
	if d < 0 {
		return -d
	}
	return d
}

func (d WorkDuration) Min(o WorkDuration) WorkDuration {
	if d < o {
		return d
	}
	return o
}

func (d WorkDuration) Max(o WorkDuration) WorkDuration {
	if d > o {
		return d
	}
	return o
}

// Duration converts to a time.Duration.
func (d WorkDuration) Duration() time.Duration { return time.Duration(d) * time.Minute }

func (d WorkDuration) String() string {
	sign := ""
	if d < 0 {
		sign = "-"
	}
	a := d.Abs()
	return fmt.Sprintf("%s%02d:%02d", sign, int(a)/60, int(a)%60)
}

func splitClock(s string) (int, int, error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("expected H:MM")
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 {
		return 0, 0, fmt.Errorf("bad hours %q", hs)
	}
	if len(ms) != 2 {
		return 0, 0, fmt.Errorf("bad minutes %q", ms)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 {
		return 0, 0, fmt.Errorf("bad minutes %q", ms)
	}
	return h, m, nil
}
