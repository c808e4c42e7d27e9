package timesheet

import "github.com/warp/timesheet/generic"

// =============================================================================
// ABSENCE FILTER
// =============================================================================

// Overlaps reports whether the absence window intersects the interval:
// same date within the absence range and start_a < end_b && start_b < end_a.
func Overlaps(a Absence, iv generic.Interval, period generic.MonthPeriod) bool {
	if !period.Contains(iv.Date) {
		return false
	}
	day := iv.Date.Day()
	if day < a.FromDay || day > a.ToDay {
		return false
	}
	return a.Start < iv.End && iv.Start < a.End
}

// AnyOverlap reports whether any absence intersects the interval.
func AnyOverlap(absences []Absence, iv generic.Interval, period generic.MonthPeriod) bool {
	for _, a := range absences {
		if Overlaps(a, iv, period) {
			return true
		}
	}
	return false
}

// Windows expands the absence into one busy entry per day of its range,
// clipped to the month.
func (a Absence) Windows(period generic.MonthPeriod) []generic.ScheduledEntry {
	from, to := a.FromDay, a.ToDay
	if from < 1 {
		from = 1
	}
	if to > period.DaysIn() {
		to = period.DaysIn()
	}
	var out []generic.ScheduledEntry
	for day := from; day <= to; day++ {
		date, _ := period.Date(day)
		out = append(out, generic.ScheduledEntry{
			Label:  a.Label,
			Source: generic.SourceAbsence,
			Interval: generic.Interval{
				Date:  date,
				Start: a.Start,
				End:   a.End,
			},
		})
	}
	return out
}

func absenceWindows(absences []Absence, period generic.MonthPeriod) []generic.ScheduledEntry {
	var out []generic.ScheduledEntry
	for _, a := range absences {
		out = append(out, a.Windows(period)...)
	}
	return out
}
