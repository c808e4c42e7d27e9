package timesheet

import (
	"fmt"

	"github.com/warp/timesheet/generic"
)

// =============================================================================
// ENTRY MERGER & CONFLICT DETECTOR
// =============================================================================

// Merge validates every entry and combines both sequences into one ordered
// by (date, start). Ties keep input order, recurring before explicit.
//
// Any two entries overlapping on the same date are a conflict. Detection
// does not depend on argument order. When an explicit entry takes part in a
// conflict it is named first.
func Merge(recurring, explicit []generic.ScheduledEntry) ([]generic.ScheduledEntry, error) {
	merged := make([]generic.ScheduledEntry, 0, len(recurring)+len(explicit))
	merged = append(merged, recurring...)
	merged = append(merged, explicit...)

	for _, e := range merged {
		if err := validateEntry(e); err != nil {
			return nil, err
		}
	}

	generic.SortEntries(merged)
	if err := detectConflicts(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// MergeWithAbsences additionally rejects explicit entries that intersect an
// absence window. Recurring entries are expected to be filtered beforehand.
func MergeWithAbsences(recurring, explicit []generic.ScheduledEntry, absences []Absence, period generic.MonthPeriod) ([]generic.ScheduledEntry, error) {
	windows := absenceWindows(absences, period)
	for _, e := range explicit {
		for _, w := range windows {
			if e.Overlaps(w.Interval) {
				return nil, &generic.ConflictError{First: e, Second: w}
			}
		}
	}
	return Merge(recurring, explicit)
}

func validateEntry(e generic.ScheduledEntry) error {
	if err := e.Validate(); err != nil {
		if ie, ok := err.(*generic.InvalidIntervalError); ok {
			ie.Label = e.Label
		}
		return err
	}
	return nil
}

// detectConflicts expects entries ordered by (date, start). Each entry is
// compared against the entry of the same day reaching furthest so far.
func detectConflicts(sorted []generic.ScheduledEntry) error {
	reach := 0
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].Date.Equal(sorted[reach].Date) {
			reach = i
			continue
		}
		if sorted[reach].Overlaps(sorted[i].Interval) {
			return conflict(sorted[reach], sorted[i])
		}
		if sorted[i].End > sorted[reach].End {
			reach = i
		}
	}
	return nil
}

func conflict(a, b generic.ScheduledEntry) error {
	if b.Source == generic.SourceExplicit && a.Source != generic.SourceExplicit {
		a, b = b, a
	}
	return &generic.ConflictError{First: a, Second: b}
}

// explicitEntries binds explicit entries to the month.
func explicitEntries(entries []ExplicitEntry, period generic.MonthPeriod) ([]generic.ScheduledEntry, error) {
	out := make([]generic.ScheduledEntry, 0, len(entries))
	for _, e := range entries {
		date, err := period.Date(e.Day)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w: %v", e.Label, generic.ErrInvalidInterval, err)
		}
		out = append(out, generic.ScheduledEntry{
			Label:  e.Label,
			Source: generic.SourceExplicit,
			Interval: generic.Interval{
				Date:  date,
				Start: e.Start,
				End:   e.End,
				Pause: e.Pause,
			},
		})
	}
	return out, nil
}
