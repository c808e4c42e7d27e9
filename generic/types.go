/*
Package generic provides the calendar primitives and value types of the
timesheet engine.

PURPOSE:
  This package contains the domain-agnostic building blocks that every stage
  of the monthly computation passes around: days, minute-precision times of
  day, signed work durations, intervals and the single tagged entry type the
  merger, allocator and renderers operate on.

KEY CONCEPTS IN THIS FILE (types.go):
  - Interval: (date, start, end, pause) with worked = (end - start) - pause
  - Source: where a scheduled entry came from
  - ScheduledEntry: one labeled interval from any source
  - HolidayCredit: hours credited by a holiday declaration

DESIGN PRINCIPLES:
  1. Immutability: values are built once by one stage and read by the next
  2. Precision: minutes as integers, decimals only for money and ratios
  3. One entry type: recurring, explicit, dynamic, holiday and absence
     entries share ScheduledEntry so overlap checks exist exactly once

SEE ALSO:
  - time.go: Date, TimeOfDay, WorkDuration
  - schedule.go: The terminal Schedule
  - errors.go: Error kinds
*/
package generic

import "fmt"

// =============================================================================
// INTERVAL - A worked span on one day
// =============================================================================

type Interval struct {
	Date  Date
	Start TimeOfDay
	End   TimeOfDay
	Pause WorkDuration
}

// Span returns end - start, including the pause.
func (iv Interval) Span() WorkDuration { return iv.End.Sub(iv.Start) }

// Worked returns the effective worked duration: (end - start) - pause.
func (iv Interval) Worked() WorkDuration { return iv.Span() - iv.Pause }

// Validate checks start < end, both within the day, and 0 <= pause <= span.
func (iv Interval) Validate() error {
	switch {
	case !iv.Start.Valid() || !iv.End.Valid() || iv.Start == EndOfDay:
		return &InvalidIntervalError{Interval: iv, Reason: "time of day out of range"}
	case iv.Start >= iv.End:
		return &InvalidIntervalError{Interval: iv, Reason: "start must be before end"}
	case iv.Pause < 0:
		return &InvalidIntervalError{Interval: iv, Reason: "pause must not be negative"}
	case iv.Pause > iv.Span():
		return &InvalidIntervalError{Interval: iv, Reason: "pause exceeds duration"}
	}
	return nil
}

// Overlaps reports whether both intervals share a date and their half-open
// time ranges intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Date.Equal(other.Date) && iv.Start < other.End && other.Start < iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s %s-%s", iv.Date, iv.Start, iv.End)
}

// =============================================================================
// SCHEDULED ENTRY - One labeled interval, tagged with its source
// =============================================================================

// Source discriminates where a ScheduledEntry came from.
type Source string

const (
	SourceRecurring Source = "recurring" // expanded from a weekly rule
	SourceExplicit  Source = "explicit"  // declared for a specific day
	SourceDynamic   Source = "dynamic"   // placed by the allocator
	SourceHoliday   Source = "holiday"   // nominal holiday marker, not worked
	SourceAbsence   Source = "absence"   // forbidden window, not worked
)

// IsWork reports whether entries of this source count as worked time.
func (s Source) IsWork() bool {
	return s == SourceRecurring || s == SourceExplicit || s == SourceDynamic
}

type ScheduledEntry struct {
	Label  string
	Source Source
	Interval
}

// Describe renders the entry for error messages.
func (e ScheduledEntry) Describe() string {
	return fmt.Sprintf("%s %q (%s)", e.Interval, e.Label, e.Source)
}

// =============================================================================
// HOLIDAY CREDIT - Hours that count without being worked
// =============================================================================

type HolidayCredit struct {
	Date     Date
	Start    TimeOfDay
	Months   int
	Credited WorkDuration
}

// Marker returns the nominal span [start, start+credited), capped at 24:00.
func (h HolidayCredit) Marker() Interval {
	end := h.Start.Add(h.Credited)
	if end > EndOfDay {
		end = EndOfDay
	}
	return Interval{Date: h.Date, Start: h.Start, End: end}
}
