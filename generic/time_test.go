package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/generic"
)

// =============================================================================
// TIME OF DAY
// =============================================================================

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want generic.TimeOfDay
	}{
		{"00:00", generic.Midnight},
		{"09:35", generic.NewTimeOfDay(9, 35)},
		{"23:59", generic.NewTimeOfDay(23, 59)},
		{"24:00", generic.EndOfDay},
		{" 7:05 ", generic.NewTimeOfDay(7, 5)},
	}
	for _, tc := range cases {
		got, err := generic.ParseTimeOfDay(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseTimeOfDay_Rejects(t *testing.T) {
	for _, in := range []string{"", "9", "09:60", "24:01", "25:00", "-1:00", "09:5", "ab:cd"} {
		_, err := generic.ParseTimeOfDay(in)
		assert.Error(t, err, in)
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", generic.NewTimeOfDay(9, 5).String())
	assert.Equal(t, "24:00", generic.EndOfDay.String())
}

func TestTimeOfDay_Arithmetic(t *testing.T) {
	start := generic.MustParseTimeOfDay("09:35")
	end := generic.MustParseTimeOfDay("11:15")

	assert.Equal(t, generic.NewWorkDuration(1, 40), end.Sub(start))
	assert.Equal(t, end, start.Add(generic.NewWorkDuration(1, 40)))
}

// =============================================================================
// WORK DURATION
// =============================================================================

func TestParseWorkDuration(t *testing.T) {
	cases := []struct {
		in   string
		want generic.WorkDuration
	}{
		{"40:00", generic.NewWorkDuration(40, 0)},
		{"0:30", generic.NewWorkDuration(0, 30)},
		{"-06:40", -generic.NewWorkDuration(6, 40)},
		{"+1:05", generic.NewWorkDuration(1, 5)},
		{"120:00", generic.NewWorkDuration(120, 0)},
	}
	for _, tc := range cases {
		got, err := generic.ParseWorkDuration(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := generic.ParseWorkDuration("1:75")
	assert.Error(t, err)
	_, err = generic.ParseWorkDuration("forty")
	assert.Error(t, err)
}

func TestWorkDuration_String(t *testing.T) {
	assert.Equal(t, "40:00", generic.NewWorkDuration(40, 0).String())
	assert.Equal(t, "-06:40", (-generic.NewWorkDuration(6, 40)).String())
	assert.Equal(t, "00:00", generic.WorkDuration(0).String())
	assert.Equal(t, "33:20", generic.WorkDuration(2000).String())
}

func TestWorkDuration_Helpers(t *testing.T) {
	d := generic.MustParseWorkDuration("-1:30")

	assert.True(t, d.IsNegative())
	assert.Equal(t, generic.WorkDuration(90), d.Abs())
	assert.Equal(t, d, d.Min(0))
	assert.Equal(t, generic.WorkDuration(0), d.Max(0))
	assert.Equal(t, -90*time.Minute, d.Duration())
}

// =============================================================================
// DATE
// =============================================================================

func TestDate_Properties(t *testing.T) {
	d, err := generic.ParseDate("2025-03-16")
	require.NoError(t, err)

	assert.True(t, d.IsSunday())
	assert.Equal(t, "2025-03-17", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.BeforeOrEqual(d))
	assert.Equal(t,
		time.Date(2025, time.March, 16, 9, 35, 0, 0, time.UTC),
		d.At(generic.MustParseTimeOfDay("09:35")))
}
