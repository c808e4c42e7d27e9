package render

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/warp/timesheet/generic"
)

// ICalOptions controls the calendar export.
type ICalOptions struct {
	Name     string         // calendar display name
	Location *time.Location // wall-clock zone of the entries, UTC if nil
	Stamp    time.Time      // DTSTAMP of every event, now if zero
}

// ICal renders worked entries and holiday markers as VEVENTs.
// Event UIDs depend only on month, day, start and label so that a
// re-import replaces earlier events.
func ICal(s *generic.Schedule, opts ICalOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//warp//timesheet//EN")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, e := range s.Entries {
		if !e.Source.IsWork() && e.Source != generic.SourceHoliday {
			continue
		}
		uid := fmt.Sprintf("%s-%02d-%s-%s@timesheet", s.Period, e.Date.Day(), e.Start, slug(e.Label))
		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp.UTC())
		event.SetStartAt(wallClock(e.Date, e.Start, loc))
		event.SetEndAt(wallClock(e.Date, e.End, loc))
		event.SetSummary(e.Label)
		event.SetDescription(describe(e))
		event.SetProperty(ics.ComponentPropertyCategories, string(e.Source))
	}
	return cal.Serialize()
}

func wallClock(d generic.Date, t generic.TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).Add(time.Duration(t) * time.Minute)
}

func describe(e generic.ScheduledEntry) string {
	if e.Source == generic.SourceHoliday {
		return "Urlaub"
	}
	if e.Pause > 0 {
		return fmt.Sprintf("%s gearbeitet, %s Pause", e.Worked(), e.Pause)
	}
	return fmt.Sprintf("%s gearbeitet", e.Worked())
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			if len(out) > 0 && out[len(out)-1] != '-' {
				out = append(out, '-')
			}
		}
	}
	return string(out)
}
