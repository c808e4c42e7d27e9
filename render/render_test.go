package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/render"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var march = generic.MonthPeriod{Year: 2025, Month: time.March}

func entry(src generic.Source, label string, day int, start, end, pause string) generic.ScheduledEntry {
	return generic.ScheduledEntry{
		Label:  label,
		Source: src,
		Interval: generic.Interval{
			Date:  generic.NewDate(2025, time.March, day),
			Start: generic.MustParseTimeOfDay(start),
			End:   generic.MustParseTimeOfDay(end),
			Pause: generic.MustParseWorkDuration(pause),
		},
	}
}

func schedule() *generic.Schedule {
	return &generic.Schedule{
		Period:      march,
		Department:  "IPD",
		Area:        "ub",
		Wage:        decimal.RequireFromString("13.25"),
		WorkingTime: generic.MustParseWorkDuration("40:00"),
		Committed:   generic.MustParseWorkDuration("3:20"),
		Dynamic:     generic.MustParseWorkDuration("6:00"),
		Credited:    generic.MustParseWorkDuration("3:20"),
		Transfer: generic.TransferBalance{
			In:  generic.MustParseWorkDuration("1:30"),
			Out: -generic.MustParseWorkDuration("25:50"),
		},
		Entries: []generic.ScheduledEntry{
			entry(generic.SourceRecurring, "Tutorium", 4, "09:35", "11:15", "0:00"),
			entry(generic.SourceHoliday, "Urlaub", 5, "10:00", "13:20", "0:00"),
			entry(generic.SourceRecurring, "Tutorium", 11, "09:35", "11:15", "0:00"),
			entry(generic.SourceDynamic, "Korrektur der Übungsblätter und Klausuren", 12, "10:00", "16:30", "0:30"),
			entry(generic.SourceAbsence, "Arzt", 13, "08:00", "12:00", "0:00"),
		},
	}
}

// =============================================================================
// MONTH FILE
// =============================================================================

func TestNewMonthFile(t *testing.T) {
	// GIVEN: A schedule with recurring, holiday, dynamic and absence entries
	// WHEN: Mapping it to the month file
	// THEN: Absences are dropped, the holiday is flagged, pauses appear only when set

	mf := render.NewMonthFile(schedule())

	assert.Equal(t, render.MonthSchema, mf.Schema)
	assert.Equal(t, 2025, mf.Year)
	assert.Equal(t, 3, mf.Month)
	assert.Equal(t, "01:30", mf.PredTransfer)
	assert.Equal(t, "-25:50", mf.SuccTransfer)
	require.Len(t, mf.Entries, 4)

	assert.Equal(t, render.FileEntry{Action: "Tutorium", Day: 4, Start: "09:35", End: "11:15"}, mf.Entries[0])
	assert.Equal(t, render.FileEntry{Action: "Urlaub", Day: 5, Start: "10:00", End: "13:20", Vacation: true}, mf.Entries[1])
	assert.Equal(t, "00:30", mf.Entries[3].Pause)
}

func TestWriteJSON_MonthFileKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WriteJSON(&buf, render.NewMonthFile(schedule())))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "$schema")
	assert.Contains(t, raw, "pred_transfer")
	assert.Contains(t, raw, "succ_transfer")

	entries := raw["entries"].([]any)
	first := entries[0].(map[string]any)
	assert.NotContains(t, first, "pause")
	assert.NotContains(t, first, "vacation")
	assert.Equal(t, true, entries[1].(map[string]any)["vacation"])
}

func TestNewGlobalFile(t *testing.T) {
	gf := render.NewGlobalFile("Ada Lovelace", 1234567, schedule())

	assert.Equal(t, render.GlobalSchema, gf.Schema)
	assert.Equal(t, "IPD", gf.Department)
	assert.Equal(t, "40:00", gf.WorkingTime)
	assert.Equal(t, "ub", gf.WorkingArea)
	assert.True(t, decimal.RequireFromString("13.25").Equal(gf.Wage))

	var buf bytes.Buffer
	require.NoError(t, render.WriteJSON(&buf, gf))
	assert.Contains(t, buf.String(), `"staffId": 1234567`)
	assert.Contains(t, buf.String(), `"workingArea": "ub"`)
}

// =============================================================================
// LABELS
// =============================================================================

func TestOverflowingLabels(t *testing.T) {
	// GIVEN: One worked label above 25 characters, used once
	// WHEN: Checking labels
	// THEN: Only that label is reported

	assert.Equal(t, []string{"Korrektur der Übungsblätter und Klausuren"}, render.OverflowingLabels(schedule()))
}

func TestOverflowingLabels_CountsRunesAndIgnoresNonWork(t *testing.T) {
	s := &generic.Schedule{Entries: []generic.ScheduledEntry{
		entry(generic.SourceExplicit, "Übungsblätter korrigieren", 3, "10:00", "11:00", "0:00"),
		entry(generic.SourceAbsence, "Eine sehr lange Abwesenheitsbezeichnung", 4, "10:00", "11:00", "0:00"),
	}}

	assert.Empty(t, render.OverflowingLabels(s))
}

// =============================================================================
// ICAL
// =============================================================================

func TestICal(t *testing.T) {
	// GIVEN: A schedule with four renderable entries
	// WHEN: Rendering the calendar and parsing it back
	// THEN: One event per entry with summary, start and end in the given zone

	stamp := time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)
	out := render.ICal(schedule(), render.ICalOptions{Name: "Ada", Stamp: stamp})

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 4)

	first := events[0]
	assert.Equal(t, "Tutorium", first.GetProperty(ics.ComponentPropertySummary).Value)
	start, err := first.GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 4, 9, 35, 0, 0, time.UTC), start.UTC())
	end, err := first.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 4, 11, 15, 0, 0, time.UTC), end.UTC())

	assert.Equal(t, "Urlaub", events[1].GetProperty(ics.ComponentPropertyDescription).Value)
}

func TestICal_StableUIDs(t *testing.T) {
	stamp := time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)
	a := render.ICal(schedule(), render.ICalOptions{Stamp: stamp})
	b := render.ICal(schedule(), render.ICalOptions{Stamp: stamp.Add(time.Hour)})

	uids := func(s string) []string {
		cal, err := ics.ParseCalendar(strings.NewReader(s))
		require.NoError(t, err)
		var out []string
		for _, e := range cal.Events() {
			out = append(out, e.Id())
		}
		return out
	}
	assert.Equal(t, uids(a), uids(b))
	assert.Contains(t, uids(a), "2025-03-04-09:35-tutorium@timesheet")
}

// =============================================================================
// XLSX
// =============================================================================

func TestXLSX(t *testing.T) {
	// GIVEN: A schedule
	// WHEN: Rendering the workbook and reading it back
	// THEN: One sheet named after the month, one row per entry, summary below

	buf, err := render.XLSX(schedule(), "Ada Lovelace")
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2025-03"}, f.GetSheetList())

	title, _ := f.GetCellValue("2025-03", "A1")
	assert.Equal(t, "Arbeitszeitnachweis 2025-03, Ada Lovelace", title)

	rows, err := f.GetRows("2025-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"Datum", "Tag", "Tätigkeit", "Beginn", "Ende", "Pause", "Arbeitszeit"}, rows[1])
	assert.Equal(t, []string{"2025-03-04", "Di", "Tutorium", "09:35", "11:15", "00:00", "01:40"}, rows[2])
	assert.Equal(t, "Urlaub", rows[3][2])
	assert.Equal(t, "06:00", rows[5][6])

	out, _ := f.GetCellValue("2025-03", "G12")
	assert.Equal(t, "-25:50", out)
}
