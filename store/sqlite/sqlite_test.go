package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/store/sqlite"
)

var march = generic.MonthPeriod{Year: 2025, Month: time.March}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, period generic.MonthPeriod, out generic.WorkDuration, at time.Time) generic.MonthRecord {
	return generic.MonthRecord{
		ID:         id,
		Employee:   "emp-1",
		Period:     period,
		Department: "IPD",
		Transfer:   generic.TransferBalance{In: 90, Out: out},
		Target:     generic.MustParseWorkDuration("38:30"),
		Worked:     generic.MustParseWorkDuration("40:00"),
		Credited:   0,
		Entries: []generic.ScheduledEntry{
			{
				Label:  "Tutorium",
				Source: generic.SourceRecurring,
				Interval: generic.Interval{
					Date:  generic.NewDate(2025, time.March, 4),
					Start: generic.MustParseTimeOfDay("09:35"),
					End:   generic.MustParseTimeOfDay("11:15"),
				},
			},
			{
				Label:  "Vorbereitung",
				Source: generic.SourceDynamic,
				Interval: generic.Interval{
					Date:  generic.NewDate(2025, time.March, 5),
					Start: generic.MustParseTimeOfDay("10:00"),
					End:   generic.MustParseTimeOfDay("16:30"),
					Pause: generic.MustParseWorkDuration("0:30"),
				},
			},
		},
		RecordedAt: at,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	// GIVEN: A month record with two entries
	// WHEN: Appending and reading it back
	// THEN: Totals, transfer and entries survive unchanged

	ctx := context.Background()
	s := newStore(t)
	at := time.Date(2025, time.April, 1, 8, 0, 0, 123, time.UTC)
	rec := record("r-1", march, 45, at)

	require.NoError(t, s.Append(ctx, rec))

	got, err := s.Latest(ctx, "emp-1", march)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestStore_LatestAndHistory(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	t0 := time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(ctx, record("r-2", march, 30, t0.Add(time.Hour))))
	require.NoError(t, s.Append(ctx, record("r-1", march, -15, t0)))

	latest, err := s.Latest(ctx, "emp-1", march)
	require.NoError(t, err)
	assert.Equal(t, "r-2", latest.ID)
	assert.Equal(t, generic.WorkDuration(30), latest.Transfer.Out)

	history, err := s.History(ctx, "emp-1", march)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "r-1", history[0].ID)
	assert.Len(t, history[0].Entries, 2)
}

func TestStore_Latest_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Latest(context.Background(), "emp-1", march)
	assert.ErrorIs(t, err, generic.ErrMonthNotFound)
}

func TestStore_DuplicateID_Rejected(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Append(ctx, record("r-1", march, 0, time.Now())))
	err := s.Append(ctx, record("r-1", march, 0, time.Now()))
	assert.ErrorIs(t, err, generic.ErrDuplicateRecord)

	history, err := s.History(ctx, "emp-1", march)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStore_Months_Sorted(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now()

	require.NoError(t, s.Append(ctx, record("a", generic.MonthPeriod{Year: 2025, Month: time.March}, 0, now)))
	require.NoError(t, s.Append(ctx, record("b", generic.MonthPeriod{Year: 2024, Month: time.December}, 0, now)))
	require.NoError(t, s.Append(ctx, record("c", generic.MonthPeriod{Year: 2025, Month: time.January}, 0, now)))
	require.NoError(t, s.Append(ctx, record("d", generic.MonthPeriod{Year: 2025, Month: time.March}, 0, now)))

	months, err := s.Months(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, []generic.MonthPeriod{
		{Year: 2024, Month: time.December},
		{Year: 2025, Month: time.January},
		{Year: 2025, Month: time.March},
	}, months)
}
