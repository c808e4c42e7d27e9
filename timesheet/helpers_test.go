package timesheet_test

import (
	"time"

	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/timesheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func month(year int, m time.Month) generic.MonthPeriod {
	return generic.MonthPeriod{Year: year, Month: m}
}

func tod(s string) generic.TimeOfDay    { return generic.MustParseTimeOfDay(s) }
func dur(s string) generic.WorkDuration { return generic.MustParseWorkDuration(s) }
func ptr[T any](v T) *T                 { return &v }

func date(p generic.MonthPeriod, day int) generic.Date {
	return generic.NewDate(p.Year, p.Month, day)
}

func contract40() timesheet.Contract {
	return timesheet.Contract{
		Department:  "IPD",
		WorkingTime: dur("40:00"),
		Area:        timesheet.AreaUB,
	}
}

func entry(src generic.Source, label string, d generic.Date, start, end, pause string) generic.ScheduledEntry {
	return generic.ScheduledEntry{
		Label:  label,
		Source: src,
		Interval: generic.Interval{
			Date:  d,
			Start: tod(start),
			End:   tod(end),
			Pause: dur(pause),
		},
	}
}

func fullDay(label string, from, to int) timesheet.Absence {
	return timesheet.Absence{Label: label, FromDay: from, ToDay: to, Start: generic.Midnight, End: generic.EndOfDay}
}

func total(entries []generic.ScheduledEntry) generic.WorkDuration {
	var sum generic.WorkDuration
	for _, e := range entries {
		sum += e.Worked()
	}
	return sum
}

func daysOf(entries []generic.ScheduledEntry) []int {
	var out []int
	for _, e := range entries {
		out = append(out, e.Date.Day())
	}
	return out
}
