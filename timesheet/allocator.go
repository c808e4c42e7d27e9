/*
allocator.go - Greedy placement of dynamic work

PURPOSE:
  Dynamic entries have a fixed total duration but no fixed place in the
  month. The allocator distributes them over free days so the month reaches
  its target without touching committed work or absences.

HOW IT WORKS:
  1. Requests are processed in declaration order
  2. Days are scanned from the 1st to the last day of the month
  3. A day is eligible when it is not a Sunday, not a Saturday (unless
     allowed), not a public holiday, carries no committed work (unless mixing
     is allowed) and no absence (unless mixing is allowed)
  4. On each eligible day a chunk of min(remaining request, remaining
     capacity, daily limit left) is placed into the first free range of
     [Anchor, LatestEnd) that fits it. If none fits, the earliest of the
     longest free ranges takes a shrunk chunk.
  5. Once capacity reaches zero nothing more is placed

  The result depends only on the inputs: the same inputs always give the
  same entries in the same order. There is no search and no backtracking.

SEE ALSO:
  - flex.go: Resolves flex requests to durations before allocation
  - engine.go: Computes the capacity handed to Allocate
*/
package timesheet

import (
	"sort"

	"github.com/warp/timesheet/generic"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options tune the allocator. DefaultOptions holds the values used when a
// configuration leaves them unset.
type Options struct {
	Anchor           generic.TimeOfDay    // earliest start of dynamic work
	LatestEnd        generic.TimeOfDay    // latest end of dynamic work
	DailyLimit       generic.WorkDuration // dynamic work per day
	AllowSaturday    bool
	MixWithCommitted bool // place dynamic work on days with committed work
	MixWithAbsences  bool // place dynamic work on days with partial absences
	Calendar         generic.HolidayCalendar
}

func DefaultOptions() Options {
	return Options{
		Anchor:     generic.NewTimeOfDay(10, 0),
		LatestEnd:  generic.NewTimeOfDay(22, 0),
		DailyLimit: generic.NewWorkDuration(6, 0),
		Calendar:   generic.NoHolidays{},
	}
}

// =============================================================================
// ALLOCATOR
// =============================================================================

type Allocator struct {
	Options
}

// Allocate places the requests and reports every request that could not be
// placed in full. The sum of placed durations never exceeds capacity nor the
// requested total.
func (a Allocator) Allocate(
	requests []DynamicRequest,
	committed []generic.ScheduledEntry,
	absences []Absence,
	capacity generic.WorkDuration,
	period generic.MonthPeriod,
) ([]generic.ScheduledEntry, []generic.UnderAllocation) {
	busy := make(map[int][]generic.Interval)
	committedDays := make(map[int]bool)
	absentDays := make(map[int]bool)
	for _, e := range committed {
		if !period.Contains(e.Date) {
			continue
		}
		busy[e.Date.Day()] = append(busy[e.Date.Day()], e.Interval)
		committedDays[e.Date.Day()] = true
	}
	for _, w := range absenceWindows(absences, period) {
		busy[w.Date.Day()] = append(busy[w.Date.Day()], w.Interval)
		absentDays[w.Date.Day()] = true
	}

	var days []generic.Date
	for _, d := range period.Days() {
		if a.eligible(d, committedDays[d.Day()], absentDays[d.Day()]) {
			days = append(days, d)
		}
	}

	var (
		placed   []generic.ScheduledEntry
		warnings []generic.UnderAllocation
		dynamic  = make(map[int]generic.WorkDuration)
		left     = capacity.Max(0)
	)
	for _, req := range requests {
		remaining := req.Duration
		if remaining <= 0 {
			continue
		}
		var done generic.WorkDuration
		for _, day := range days {
			if remaining == 0 || left == 0 {
				break
			}
			chunk := remaining.Min(left).Min(a.DailyLimit - dynamic[day.Day()])
			if chunk <= 0 {
				continue
			}
			slot, ok := a.place(busy[day.Day()], chunk)
			if !ok {
				continue
			}
			slot.Date = day
			busy[day.Day()] = append(busy[day.Day()], slot)
			placed = append(placed, generic.ScheduledEntry{
				Label:    req.Label,
				Source:   generic.SourceDynamic,
				Interval: slot,
			})
			got := slot.Worked()
			dynamic[day.Day()] += got
			remaining -= got
			left -= got
			done += got
		}
		if remaining > 0 {
			reason := generic.ReasonMonthExhausted
			if left == 0 {
				reason = generic.ReasonCapacityExhausted
			}
			warnings = append(warnings, generic.UnderAllocation{
				Label:     req.Label,
				Requested: req.Duration,
				Placed:    done,
				Reason:    reason,
			})
		}
	}
	generic.SortEntries(placed)
	return placed, warnings
}

func (a Allocator) eligible(d generic.Date, hasCommitted, hasAbsence bool) bool {
	switch {
	case d.IsSunday():
		return false
	case d.IsSaturday() && !a.AllowSaturday:
		return false
	case !generic.IsWorkday(a.Calendar, d):
		return false
	case hasCommitted && !a.MixWithCommitted:
		return false
	case hasAbsence && !a.MixWithAbsences:
		return false
	}
	return true
}

// place finds a slot of at most chunk within the free ranges of the day.
func (a Allocator) place(busy []generic.Interval, chunk generic.WorkDuration) (generic.Interval, bool) {
	free := freeRanges(busy, a.Anchor, a.LatestEnd)
	for _, r := range free {
		if r.Span() >= chunk {
			return generic.Interval{Start: r.Start, End: r.Start.Add(chunk)}, true
		}
	}
	best := -1
	for i, r := range free {
		if best < 0 || r.Span() > free[best].Span() {
			best = i
		}
	}
	if best < 0 {
		return generic.Interval{}, false
	}
	return free[best], true
}

// freeRanges returns [from, to) minus the busy intervals, ascending.
func freeRanges(busy []generic.Interval, from, to generic.TimeOfDay) []generic.Interval {
	sorted := make([]generic.Interval, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var free []generic.Interval
	cursor := from
	for _, b := range sorted {
		if b.End <= cursor {
			continue
		}
		if b.Start >= to {
			break
		}
		if b.Start > cursor {
			free = append(free, generic.Interval{Start: cursor, End: b.Start})
		}
		cursor = b.End
	}
	if cursor < to {
		free = append(free, generic.Interval{Start: cursor, End: to})
	}
	return free
}
