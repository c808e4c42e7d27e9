package render

import (
	"bytes"
	"fmt"

	"github.com/warp/timesheet/generic"
	"github.com/xuri/excelize/v2"
)

var weekdayNames = [...]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}

// XLSX renders the schedule as a one-sheet workbook: one row per entry and
// a summary block below.
func XLSX(s *generic.Schedule, employee string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := s.Period.String()
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 6)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "G", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	holidayStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: "#808080"},
	})

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Arbeitszeitnachweis %s, %s", s.Period, employee))
	f.MergeCell(sheet, "A1", "G1")
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	for i, h := range []string{"Datum", "Tag", "Tätigkeit", "Beginn", "Ende", "Pause", "Arbeitszeit"} {
		name, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, name, h)
	}
	f.SetCellStyle(sheet, "A2", "G2", headerStyle)

	row := 3
	for _, e := range s.Entries {
		if !e.Source.IsWork() && e.Source != generic.SourceHoliday {
			continue
		}
		worked := e.Worked().String()
		if e.Source == generic.SourceHoliday {
			worked = ""
		}
		values := []any{e.Date.String(), weekdayNames[e.Date.Weekday()], e.Label, e.Start.String(), e.End.String(), e.Pause.String(), worked}
		for i, v := range values {
			name, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, name, v)
		}
		if e.Source == generic.SourceHoliday {
			f.SetCellStyle(sheet, cell("A", row), cell("G", row), holidayStyle)
		}
		row++
	}

	row++
	summary := [][2]string{
		{"Soll", s.WorkingTime.String()},
		{"Übertrag Vormonat", s.Transfer.In.String()},
		{"Urlaub", s.Credited.String()},
		{"Gearbeitet", s.Worked().String()},
		{"Übertrag Folgemonat", s.Transfer.Out.String()},
	}
	for _, kv := range summary {
		f.SetCellValue(sheet, cell("C", row), kv[0])
		f.SetCellValue(sheet, cell("G", row), kv[1])
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
