package timesheet

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet/generic"
)

// =============================================================================
// HOLIDAY ACCOUNTANT
// =============================================================================

var twelve = decimal.NewFromInt(12)

// HolidayCredit returns working_time * months / 12, truncated to whole
// minutes.
func HolidayCredit(c Contract, h HolidayDeclaration) generic.WorkDuration {
	minutes := decimal.NewFromInt(int64(c.WorkingTime)).
		Mul(decimal.NewFromInt(int64(h.Months))).
		Div(twelve)
	return generic.WorkDuration(minutes.Truncate(0).IntPart())
}

// ApplyHoliday computes the credit of a holiday and checks that its nominal
// span [start, start+credit) does not collide with absences or with entries
// already on the schedule.
func ApplyHoliday(c Contract, h HolidayDeclaration, period generic.MonthPeriod, committed []generic.ScheduledEntry, absences []Absence) (generic.HolidayCredit, error) {
	if h.Months <= 0 {
		return generic.HolidayCredit{}, fmt.Errorf("%w: holiday on day %d: months must be positive, got %d",
			generic.ErrInvalidHolidayPlacement, h.Day, h.Months)
	}
	date, err := period.Date(h.Day)
	if err != nil {
		return generic.HolidayCredit{}, fmt.Errorf("%w: %v", generic.ErrInvalidHolidayPlacement, err)
	}
	start := DefaultHolidayStart
	if h.Start != nil {
		start = *h.Start
	}

	credit := generic.HolidayCredit{
		Date:     date,
		Start:    start,
		Months:   h.Months,
		Credited: HolidayCredit(c, h),
	}
	marker := credit.Marker()
	if marker.Span() <= 0 {
		return credit, nil
	}

	for _, e := range committed {
		if e.Overlaps(marker) {
			return generic.HolidayCredit{}, &generic.HolidayPlacementError{Holiday: credit, With: e}
		}
	}
	for _, w := range absenceWindows(absences, period) {
		if w.Overlaps(marker) {
			return generic.HolidayCredit{}, &generic.HolidayPlacementError{Holiday: credit, With: w}
		}
	}
	return credit, nil
}

// holidayEntry turns a credit into the schedule's nominal marker entry.
func holidayEntry(h generic.HolidayCredit) generic.ScheduledEntry {
	return generic.ScheduledEntry{
		Label:    "Urlaub",
		Source:   generic.SourceHoliday,
		Interval: h.Marker(),
	}
}
