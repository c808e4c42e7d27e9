package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/generic"
)

func TestMonthPeriod_Days(t *testing.T) {
	feb := generic.MonthPeriod{Year: 2024, Month: time.February}

	assert.Equal(t, 29, feb.DaysIn())
	assert.Len(t, feb.Days(), 29)
	assert.Equal(t, "2024-02-01", feb.First().String())
	assert.Equal(t, "2024-02-29", feb.Last().String())
}

func TestMonthPeriod_Date_BoundsDay(t *testing.T) {
	// GIVEN: April has 30 days
	// WHEN: Binding day 31
	// THEN: The day is rejected

	apr := generic.MonthPeriod{Year: 2025, Month: time.April}

	d, err := apr.Date(30)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-30", d.String())

	_, err = apr.Date(31)
	assert.Error(t, err)
	_, err = apr.Date(0)
	assert.Error(t, err)
}

func TestMonthPeriod_NextPrevious(t *testing.T) {
	dec := generic.MonthPeriod{Year: 2024, Month: time.December}

	assert.Equal(t, generic.MonthPeriod{Year: 2025, Month: time.January}, dec.Next())
	assert.Equal(t, dec, dec.Next().Previous())
	assert.Equal(t, "2024-12", dec.String())
}

func TestNewMonthPeriod_Validates(t *testing.T) {
	_, err := generic.NewMonthPeriod(2025, 13)
	assert.Error(t, err)

	p, err := generic.NewMonthPeriod(2025, time.June)
	require.NoError(t, err)
	assert.True(t, p.Contains(generic.NewDate(2025, time.June, 30)))
	assert.False(t, p.Contains(generic.NewDate(2025, time.July, 1)))
}

func TestParseMonthPeriod(t *testing.T) {
	p, err := generic.ParseMonthPeriod("2025-03")
	require.NoError(t, err)
	assert.Equal(t, generic.MonthPeriod{Year: 2025, Month: time.March}, p)
	assert.Equal(t, "2025-03", p.String())

	for _, bad := range []string{"2025-13", "2025", "03-2025", ""} {
		_, err := generic.ParseMonthPeriod(bad)
		assert.Error(t, err, bad)
	}
}
