package timesheet

import (
	"fmt"

	"github.com/warp/timesheet/generic"
)

// =============================================================================
// VERIFIERS - Working-time rules checked on a finished schedule
// =============================================================================

const (
	RuleSunday        = "sunday"
	RulePublicHoliday = "public_holiday"
	RuleNightWork     = "night_work"
	RuleBreak         = "break"
	RuleDailyMaximum  = "daily_maximum"
)

var (
	nightEnd     = generic.NewTimeOfDay(6, 0)
	nightStart   = generic.NewTimeOfDay(23, 0)
	dailyMaximum = generic.NewWorkDuration(10, 0)
)

// breakRules lists the minimum rest per worked time, strictest first.
var breakRules = []struct {
	over  generic.WorkDuration
	pause generic.WorkDuration
}{
	{generic.NewWorkDuration(9, 0), generic.NewWorkDuration(0, 45)},
	{generic.NewWorkDuration(6, 0), generic.NewWorkDuration(0, 30)},
}

// Verify checks the worked entries of a schedule against the working-time
// rules. The result is ordered by date.
func Verify(s *generic.Schedule, cal generic.HolidayCalendar) []generic.Violation {
	var out []generic.Violation
	for _, day := range s.Period.Days() {
		var entries []generic.ScheduledEntry
		for _, e := range s.EntriesOn(day) {
			if e.Source.IsWork() {
				entries = append(entries, e)
			}
		}
		if len(entries) == 0 {
			continue
		}
		out = append(out, verifyDay(day, entries, cal)...)
	}
	return out
}

func verifyDay(day generic.Date, entries []generic.ScheduledEntry, cal generic.HolidayCalendar) []generic.Violation {
	var out []generic.Violation
	add := func(rule, format string, args ...any) {
		out = append(out, generic.Violation{Date: day, Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	if day.IsSunday() {
		add(RuleSunday, "work on a Sunday")
	}
	if cal != nil && cal.IsHoliday(day) {
		add(RulePublicHoliday, "work on a public holiday")
	}

	var worked, rest generic.WorkDuration
	for i, e := range entries {
		if e.Start < nightEnd || e.End > nightStart {
			add(RuleNightWork, "%q from %s to %s", e.Label, e.Start, e.End)
		}
		worked += e.Worked()
		rest += e.Pause
		if i > 0 && e.Start > entries[i-1].End {
			rest += e.Start.Sub(entries[i-1].End)
		}
	}

	for _, r := range breakRules {
		if worked > r.over {
			if rest < r.pause {
				add(RuleBreak, "%s worked needs %s rest, got %s", worked, r.pause, rest)
			}
			break
		}
	}
	if worked > dailyMaximum {
		add(RuleDailyMaximum, "%s worked exceeds %s", worked, dailyMaximum)
	}
	return out
}
