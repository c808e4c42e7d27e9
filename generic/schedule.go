package generic

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SCHEDULE - The terminal result of one month
// =============================================================================

// Schedule is the ordered, conflict-free set of entries of one month together
// with its totals. It is built once by the engine and never mutated.
type Schedule struct {
	Period     MonthPeriod
	Department string
	Area       string
	Wage       decimal.Decimal

	// Entries are ordered by (date, start). Holiday markers are included
	// with SourceHoliday; absences are not.
	Entries  []ScheduledEntry
	Holidays []HolidayCredit

	WorkingTime WorkDuration // contract obligation
	Target      WorkDuration // working_time - transfer_in - credited
	Committed   WorkDuration // recurring + explicit
	Dynamic     WorkDuration // allocator output
	Credited    WorkDuration // holiday credit
	Transfer    TransferBalance

	Warnings   []UnderAllocation
	Violations []Violation
}

// Violation is a working-time rule broken by a computed schedule.
// Violations are reported, the schedule stays valid.
type Violation struct {
	Date   Date
	Rule   string
	Detail string
}

func (v Violation) String() string { return v.Date.String() + " " + v.Rule + ": " + v.Detail }

// Worked returns committed + dynamic.
func (s *Schedule) Worked() WorkDuration { return s.Committed + s.Dynamic }

// WorkEntries returns only entries that count as worked time.
func (s *Schedule) WorkEntries() []ScheduledEntry {
	out := make([]ScheduledEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.Source.IsWork() {
			out = append(out, e)
		}
	}
	return out
}

// EntriesOn returns the entries of a single day.
func (s *Schedule) EntriesOn(date Date) []ScheduledEntry {
	var out []ScheduledEntry
	for _, e := range s.Entries {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out
}

// WorkedOn sums the worked time of a single day.
func (s *Schedule) WorkedOn(date Date) WorkDuration {
	var total WorkDuration
	for _, e := range s.EntriesOn(date) {
		if e.Source.IsWork() {
			total += e.Worked()
		}
	}
	return total
}

// Earnings returns worked hours times the hourly wage, rounded to cents.
func (s *Schedule) Earnings() decimal.Decimal {
	hours := decimal.NewFromInt(int64(s.Worked())).Div(decimal.NewFromInt(60))
	return hours.Mul(s.Wage).Round(2)
}

// SortEntries orders entries by (date, start). Ties keep their input order.
func SortEntries(entries []ScheduledEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Start < b.Start
	})
}
