package timesheet

import (
	"time"

	"github.com/warp/timesheet/generic"
)

// =============================================================================
// RECURRENCE EXPANDER
// =============================================================================

// Expand returns one entry per day of the month whose weekday is in the
// rule's set and which lies in the rule's validity window, in ascending
// date order. The result is recomputed on every call.
// An empty weekday set or an empty window yields no entries.
func Expand(rule RecurrenceRule, period generic.MonthPeriod) []generic.ScheduledEntry {
	if len(rule.Weekdays) == 0 {
		return nil
	}
	var out []generic.ScheduledEntry
	for _, day := range period.Days() {
		if !hasWeekday(rule.Weekdays, day.Weekday()) || !rule.Covers(day) {
			continue
		}
		out = append(out, generic.ScheduledEntry{
			Label:  rule.Label,
			Source: generic.SourceRecurring,
			Interval: generic.Interval{
				Date:  day,
				Start: rule.Start,
				End:   rule.End,
				Pause: rule.Pause,
			},
		})
	}
	return out
}

// Covers reports whether the day lies within the rule's validity window.
func (r RecurrenceRule) Covers(day generic.Date) bool {
	if !r.ValidFrom.IsZero() && day.Before(r.ValidFrom) {
		return false
	}
	if r.ValidUntil.IsZero() {
		return true
	}
	if r.UntilInclusive {
		return day.BeforeOrEqual(r.ValidUntil)
	}
	return day.Before(r.ValidUntil)
}

// AppliesTo reports whether the rule is used for months of the department.
func (r RecurrenceRule) AppliesTo(department string) bool {
	return r.Department == "" || r.Department == department
}

func hasWeekday(set []time.Weekday, wd time.Weekday) bool {
	for _, w := range set {
		if w == wd {
			return true
		}
	}
	return false
}
