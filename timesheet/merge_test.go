package timesheet_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/timesheet"
)

var march = month(2025, time.March)

func TestMerge_OrdersByDateAndStart(t *testing.T) {
	recurring := []generic.ScheduledEntry{
		entry(generic.SourceRecurring, "r2", date(march, 11), "09:00", "10:00", "0:00"),
		entry(generic.SourceRecurring, "r1", date(march, 4), "13:00", "14:00", "0:00"),
	}
	explicit := []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "e1", date(march, 4), "08:00", "09:00", "0:00"),
	}

	merged, err := timesheet.Merge(recurring, explicit)
	require.NoError(t, err)

	var labels []string
	for _, e := range merged {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"e1", "r1", "r2"}, labels)
}

func TestMerge_ConflictIsSymmetric(t *testing.T) {
	// GIVEN: Two overlapping entries
	// WHEN: Merging them in either argument order
	// THEN: Both orders report a conflict

	a := []generic.ScheduledEntry{entry(generic.SourceRecurring, "a", date(march, 5), "09:00", "11:00", "0:00")}
	b := []generic.ScheduledEntry{entry(generic.SourceRecurring, "b", date(march, 5), "10:30", "12:00", "0:00")}

	_, errAB := timesheet.Merge(a, b)
	_, errBA := timesheet.Merge(b, a)

	assert.ErrorIs(t, errAB, generic.ErrConflict)
	assert.ErrorIs(t, errBA, generic.ErrConflict)

	_, err := timesheet.Merge(a, nil)
	assert.NoError(t, err)
}

func TestMerge_ExplicitNamedFirst(t *testing.T) {
	recurring := []generic.ScheduledEntry{entry(generic.SourceRecurring, "Vorlesung", date(march, 5), "09:00", "11:00", "0:00")}
	explicit := []generic.ScheduledEntry{entry(generic.SourceExplicit, "Klausur", date(march, 5), "10:00", "12:00", "0:00")}

	_, err := timesheet.Merge(recurring, explicit)

	var conflict *generic.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Klausur", conflict.First.Label)
	assert.Equal(t, "Vorlesung", conflict.Second.Label)
}

func TestMerge_NestedOverlapDetected(t *testing.T) {
	// GIVEN: A long entry followed by two entries inside it
	// THEN: The conflict is found even though the neighbours do not overlap

	explicit := []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "long", date(march, 6), "08:00", "18:00", "0:00"),
		entry(generic.SourceExplicit, "short", date(march, 6), "09:00", "09:30", "0:00"),
	}
	_, err := timesheet.Merge(nil, explicit)
	assert.ErrorIs(t, err, generic.ErrConflict)
}

func TestMerge_TouchingEntriesAllowed(t *testing.T) {
	explicit := []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "a", date(march, 6), "08:00", "10:00", "0:00"),
		entry(generic.SourceExplicit, "b", date(march, 6), "10:00", "12:00", "0:00"),
		entry(generic.SourceExplicit, "c", date(march, 7), "09:00", "12:00", "0:00"),
	}
	merged, err := timesheet.Merge(nil, explicit)
	require.NoError(t, err)
	assert.Len(t, merged, 3)
}

func TestMerge_InvalidInterval(t *testing.T) {
	explicit := []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "backwards", date(march, 6), "12:00", "10:00", "0:00"),
	}
	_, err := timesheet.Merge(nil, explicit)

	var invalid *generic.InvalidIntervalError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "backwards", invalid.Label)

	explicit[0] = entry(generic.SourceExplicit, "pause", date(march, 6), "10:00", "11:00", "1:30")
	_, err = timesheet.Merge(nil, explicit)
	assert.True(t, errors.Is(err, generic.ErrInvalidInterval))
}

func TestMergeWithAbsences_ExplicitInAbsence(t *testing.T) {
	explicit := []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "Korrektur", date(march, 25), "10:00", "12:00", "0:00"),
	}
	absences := []timesheet.Absence{fullDay("Urlaub", 24, 31)}

	_, err := timesheet.MergeWithAbsences(nil, explicit, absences, march)

	var conflict *generic.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Korrektur", conflict.First.Label)
	assert.Equal(t, generic.SourceAbsence, conflict.Second.Source)
}

// =============================================================================
// ABSENCE FILTER
// =============================================================================

func TestAbsenceOverlaps(t *testing.T) {
	a := timesheet.Absence{FromDay: 10, ToDay: 12, Start: tod("08:00"), End: tod("12:00")}

	at := func(day int, start, end string) generic.Interval {
		return entry(generic.SourceExplicit, "", date(march, day), start, end, "0:00").Interval
	}

	assert.True(t, timesheet.Overlaps(a, at(11, "11:00", "13:00"), march))
	assert.False(t, timesheet.Overlaps(a, at(11, "12:00", "13:00"), march), "touching")
	assert.False(t, timesheet.Overlaps(a, at(13, "09:00", "10:00"), march), "outside range")
	assert.False(t, timesheet.Overlaps(a, at(10, "06:00", "08:00"), march))
	assert.True(t, timesheet.AnyOverlap([]timesheet.Absence{fullDay("x", 1, 1), a}, at(12, "07:00", "09:00"), march))
}

func TestAbsenceWindows_ClippedToMonth(t *testing.T) {
	windows := fullDay("Urlaub", 28, 31).Windows(month(2025, time.February))

	assert.Equal(t, []int{28}, daysOf(windows))
	assert.Equal(t, generic.SourceAbsence, windows[0].Source)
}
