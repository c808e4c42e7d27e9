package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// MONTH PERIOD - The unit every computation is bound to
// =============================================================================

// MonthPeriod identifies one calendar month.
// A timesheet is ALWAYS computed for a month, never for an arbitrary range.
type MonthPeriod struct {
	Year  int
	Month time.Month
}

// NewMonthPeriod validates the month number.
func NewMonthPeriod(year int, month time.Month) (MonthPeriod, error) {
	if month < time.January || month > time.December {
		return MonthPeriod{}, fmt.Errorf("invalid month %d", month)
	}
	if year < 1 {
		return MonthPeriod{}, fmt.Errorf("invalid year %d", year)
	}
	return MonthPeriod{Year: year, Month: month}, nil
}

// MonthOf returns the month containing the date.
func MonthOf(d Date) MonthPeriod { return MonthPeriod{Year: d.Year(), Month: d.Month()} }

// First returns the first day of the month.
func (p MonthPeriod) First() Date { return NewDate(p.Year, p.Month, 1) }

// Last returns the last day of the month.
func (p MonthPeriod) Last() Date { return NewDate(p.Year, p.Month+1, 1).AddDays(-1) }

// DaysIn returns the number of days in the month.
func (p MonthPeriod) DaysIn() int { return p.Last().Day() }

// Date binds a day-of-month to this month. Fails when day is out of range.
func (p MonthPeriod) Date(day int) (Date, error) {
	if day < 1 || day > p.DaysIn() {
		return Date{}, fmt.Errorf("day %d out of range for %s (1..%d)", day, p, p.DaysIn())
	}
	return NewDate(p.Year, p.Month, day), nil
}

// Contains returns true if the date is within the month.
func (p MonthPeriod) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// Days returns all days of the month in ascending order.
func (p MonthPeriod) Days() []Date {
	days := make([]Date, 0, 31)
	for current := p.First(); p.Contains(current); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Next returns the following month.
func (p MonthPeriod) Next() MonthPeriod { return MonthOf(p.Last().AddDays(1)) }

// Previous returns the preceding month.
func (p MonthPeriod) Previous() MonthPeriod { return MonthOf(p.First().AddDays(-1)) }

// String returns "2025-03".
func (p MonthPeriod) String() string { return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)) }

// ParseMonthPeriod parses "2025-03".
func ParseMonthPeriod(s string) (MonthPeriod, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return MonthPeriod{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthPeriod{Year: t.Year(), Month: t.Month()}, nil
}
