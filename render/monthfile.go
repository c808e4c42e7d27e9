/*
Package render turns a computed Schedule into documents.

PURPOSE:
  The engine's output is one ordered list of entries plus totals. Each
  renderer maps it onto one external format:
  - monthfile.go: Month and global JSON files for the external validator
  - ical.go: iCalendar feed, one event per entry
  - xlsx.go: Spreadsheet for printing and archiving

SEE ALSO:
  - generic/schedule.go: The rendered Schedule
*/
package render

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet/generic"
)

const (
	MonthSchema  = "https://raw.githubusercontent.com/kit-sdq/TimeSheetGenerator/master/examples/schemas/month.json"
	GlobalSchema = "https://raw.githubusercontent.com/kit-sdq/TimeSheetGenerator/master/examples/schemas/global.json"
)

// =============================================================================
// MONTH FILE
// =============================================================================

// MonthFile is the month document the external validator consumes.
type MonthFile struct {
	Schema       string      `json:"$schema"`
	Year         int         `json:"year"`
	Month        int         `json:"month"`
	PredTransfer string      `json:"pred_transfer"`
	SuccTransfer string      `json:"succ_transfer"`
	Entries      []FileEntry `json:"entries"`
}

// FileEntry maps one ScheduledEntry. Holiday markers carry vacation=true.
type FileEntry struct {
	Action   string `json:"action"`
	Day      int    `json:"day"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Pause    string `json:"pause,omitempty"`
	Vacation bool   `json:"vacation,omitempty"`
}

// NewMonthFile maps the schedule's worked entries and holiday markers.
func NewMonthFile(s *generic.Schedule) MonthFile {
	mf := MonthFile{
		Schema:       MonthSchema,
		Year:         s.Period.Year,
		Month:        int(s.Period.Month),
		PredTransfer: s.Transfer.In.String(),
		SuccTransfer: s.Transfer.Out.String(),
		Entries:      make([]FileEntry, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		if !e.Source.IsWork() && e.Source != generic.SourceHoliday {
			continue
		}
		fe := FileEntry{
			Action:   e.Label,
			Day:      e.Date.Day(),
			Start:    e.Start.String(),
			End:      e.End.String(),
			Vacation: e.Source == generic.SourceHoliday,
		}
		if e.Pause > 0 {
			fe.Pause = e.Pause.String()
		}
		mf.Entries = append(mf.Entries, fe)
	}
	return mf
}

// =============================================================================
// GLOBAL FILE
// =============================================================================

// GlobalFile describes the employee and contract of a month.
type GlobalFile struct {
	Schema      string          `json:"$schema"`
	Name        string          `json:"name"`
	StaffID     int             `json:"staffId"`
	Department  string          `json:"department"`
	WorkingTime string          `json:"workingTime"`
	Wage        decimal.Decimal `json:"wage"`
	WorkingArea string          `json:"workingArea"`
}

// NewGlobalFile describes the employee for the schedule's contract.
func NewGlobalFile(name string, staffID int, s *generic.Schedule) GlobalFile {
	return GlobalFile{
		Schema:      GlobalSchema,
		Name:        name,
		StaffID:     staffID,
		Department:  s.Department,
		WorkingTime: s.WorkingTime.String(),
		Wage:        s.Wage.Round(2),
		WorkingArea: s.Area,
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
