package timesheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/timesheet"
)

func TestHolidayCredit_Formula(t *testing.T) {
	cases := []struct {
		workingTime string
		months      int
		want        string
	}{
		{"40:00", 12, "40:00"},
		{"40:00", 1, "03:20"},
		{"40:00", 5, "16:40"},
		{"40:01", 1, "03:20"},  // 200.08 minutes, truncated
		{"40:07", 7, "23:24"},  // 1404.08 minutes, truncated
		{"19:59", 11, "18:19"}, // 1099.08 minutes, truncated
	}
	for _, tc := range cases {
		c := timesheet.Contract{WorkingTime: dur(tc.workingTime)}
		got := timesheet.HolidayCredit(c, timesheet.HolidayDeclaration{Day: 1, Months: tc.months})
		assert.Equal(t, tc.want, got.String(), "%s x %d / 12", tc.workingTime, tc.months)
	}
}

func TestApplyHoliday_CollidesWithCommittedWork(t *testing.T) {
	// GIVEN: Work on March 10 from 10:00 to 12:00
	// WHEN: Declaring a holiday on March 10 with the default start
	// THEN: The placement is rejected as both a placement error and a conflict

	committed := []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "Übung", date(march, 10), "10:00", "12:00", "0:00"),
	}
	_, err := timesheet.ApplyHoliday(contract40(), timesheet.HolidayDeclaration{Day: 10, Months: 1}, march, committed, nil)

	assert.ErrorIs(t, err, generic.ErrInvalidHolidayPlacement)
	assert.ErrorIs(t, err, generic.ErrConflict)

	var placement *generic.HolidayPlacementError
	require.ErrorAs(t, err, &placement)
	assert.Equal(t, "Übung", placement.With.Label)
}

func TestApplyHoliday_LaterStartAvoidsWork(t *testing.T) {
	committed := []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "Übung", date(march, 10), "10:00", "12:00", "0:00"),
	}
	h := timesheet.HolidayDeclaration{Day: 10, Start: ptr(tod("14:00")), Months: 1}

	credit, err := timesheet.ApplyHoliday(contract40(), h, march, committed, nil)
	require.NoError(t, err)

	assert.Equal(t, dur("3:20"), credit.Credited)
	assert.Equal(t, tod("17:20"), credit.Marker().End)
}

func TestApplyHoliday_DefaultStart(t *testing.T) {
	credit, err := timesheet.ApplyHoliday(contract40(), timesheet.HolidayDeclaration{Day: 3, Months: 1}, march, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, timesheet.DefaultHolidayStart, credit.Start)
	assert.Equal(t, date(march, 3), credit.Date)
}

func TestApplyHoliday_MidnightStartKept(t *testing.T) {
	// GIVEN: A holiday declared from 00:00 and work at 10:00 that day
	// WHEN: Applying it
	// THEN: The marker starts at midnight and ends before the work

	committed := []generic.ScheduledEntry{entry(generic.SourceExplicit, "Übung", date(march, 3), "10:00", "12:00", "0:00")}
	h := timesheet.HolidayDeclaration{Day: 3, Start: ptr(generic.Midnight), Months: 1}

	credit, err := timesheet.ApplyHoliday(contract40(), h, march, committed, nil)
	require.NoError(t, err)

	assert.Equal(t, generic.Midnight, credit.Start)
	assert.Equal(t, tod("03:20"), credit.Marker().End)
}

func TestApplyHoliday_CollidesWithAbsence(t *testing.T) {
	_, err := timesheet.ApplyHoliday(contract40(), timesheet.HolidayDeclaration{Day: 26, Months: 1}, march, nil,
		[]timesheet.Absence{fullDay("krank", 24, 31)})

	assert.ErrorIs(t, err, generic.ErrInvalidHolidayPlacement)
}

func TestApplyHoliday_RejectsBadDeclarations(t *testing.T) {
	_, err := timesheet.ApplyHoliday(contract40(), timesheet.HolidayDeclaration{Day: 3, Months: 0}, march, nil, nil)
	assert.ErrorIs(t, err, generic.ErrInvalidHolidayPlacement)

	_, err = timesheet.ApplyHoliday(contract40(), timesheet.HolidayDeclaration{Day: 32, Months: 1}, march, nil, nil)
	assert.ErrorIs(t, err, generic.ErrInvalidHolidayPlacement)
}
