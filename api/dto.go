/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's value types from the external API contract: durations and
  times of day travel as "H:MM" strings, money as decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry validator tags and are checked by the factory's
  validator before a handler touches them.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/document.go: The TOML documents embedded in ComputeRequest
*/
package api

import (
	"time"

	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/render"
)

// =============================================================================
// REQUESTS
// =============================================================================

// ComputeRequest carries the global and month TOML documents of one employee.
type ComputeRequest struct {
	Employee string `json:"employee" validate:"required_if=Record true,max=128"`
	Global   string `json:"global" validate:"required"`
	Month    string `json:"month" validate:"required"`
	// Record appends the result to the employee's month history.
	Record bool `json:"record"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type EntryDTO struct {
	Date    string `json:"date"`
	Label   string `json:"label"`
	Source  string `json:"source"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Pause   string `json:"pause"`
	Worked  string `json:"worked"`
	Weekday string `json:"weekday"`
}

type HolidayDTO struct {
	Date     string `json:"date"`
	Start    string `json:"start"`
	Months   int    `json:"months"`
	Credited string `json:"credited"`
}

type WarningDTO struct {
	Label     string `json:"label"`
	Requested string `json:"requested"`
	Placed    string `json:"placed"`
	Shortfall string `json:"shortfall"`
	Reason    string `json:"reason"`
}

type ViolationDTO struct {
	Date   string `json:"date"`
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

// ScheduleDTO is a computed month.
type ScheduleDTO struct {
	Month       string         `json:"month"`
	Department  string         `json:"department"`
	Area        string         `json:"area"`
	Wage        string         `json:"wage"`
	Earnings    string         `json:"earnings"`
	WorkingTime string         `json:"working_time"`
	Target      string         `json:"target"`
	Committed   string         `json:"committed"`
	Dynamic     string         `json:"dynamic"`
	Credited    string         `json:"credited"`
	Worked      string         `json:"worked"`
	TransferIn  string         `json:"transfer_in"`
	TransferOut string         `json:"transfer_out"`
	Entries     []EntryDTO     `json:"entries"`
	Holidays    []HolidayDTO   `json:"holidays"`
	Warnings    []WarningDTO   `json:"warnings"`
	Violations  []ViolationDTO `json:"violations"`
	LongLabels  []string       `json:"long_labels,omitempty"`
}

// ComputeResponse wraps a computed month and, when recorded, its record ID.
type ComputeResponse struct {
	Schedule ScheduleDTO `json:"schedule"`
	RecordID string      `json:"record_id,omitempty"`
}

// RecordDTO is one stored computation of a month.
type RecordDTO struct {
	ID          string     `json:"id"`
	Employee    string     `json:"employee"`
	Month       string     `json:"month"`
	Department  string     `json:"department"`
	Target      string     `json:"target"`
	Worked      string     `json:"worked"`
	Credited    string     `json:"credited"`
	TransferIn  string     `json:"transfer_in"`
	TransferOut string     `json:"transfer_out"`
	RecordedAt  string     `json:"recorded_at"`
	Entries     []EntryDTO `json:"entries,omitempty"`
}

// StatementLineDTO is the latest record of one month in a statement.
type StatementLineDTO struct {
	Month       string `json:"month"`
	RecordID    string `json:"record_id"`
	Target      string `json:"target"`
	Worked      string `json:"worked"`
	Credited    string `json:"credited"`
	TransferIn  string `json:"transfer_in"`
	TransferOut string `json:"transfer_out"`
	Expected    string `json:"expected_in"`
	Break       bool   `json:"break"`
}

type StatementDTO struct {
	Employee string             `json:"employee"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Opening  string             `json:"opening"`
	Net      string             `json:"net"`
	Closing  string             `json:"closing"`
	Breaks   []string           `json:"breaks"`
	Lines    []StatementLineDTO `json:"lines"`
}

type PublicHolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type CalendarDTO struct {
	Name     string             `json:"name"`
	Year     int                `json:"year"`
	Holidays []PublicHolidayDTO `json:"holidays"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

var weekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func toEntryDTOs(entries []generic.ScheduledEntry) []EntryDTO {
	out := make([]EntryDTO, len(entries))
	for i, e := range entries {
		out[i] = EntryDTO{
			Date:    e.Date.String(),
			Label:   e.Label,
			Source:  string(e.Source),
			Start:   e.Start.String(),
			End:     e.End.String(),
			Pause:   e.Pause.String(),
			Worked:  e.Worked().String(),
			Weekday: weekdays[e.Date.Weekday()],
		}
		if !e.Source.IsWork() {
			out[i].Worked = generic.WorkDuration(0).String()
		}
	}
	return out
}

func toScheduleDTO(s *generic.Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		Month:       s.Period.String(),
		Department:  s.Department,
		Area:        s.Area,
		Wage:        s.Wage.StringFixed(2),
		Earnings:    s.Earnings().StringFixed(2),
		WorkingTime: s.WorkingTime.String(),
		Target:      s.Target.String(),
		Committed:   s.Committed.String(),
		Dynamic:     s.Dynamic.String(),
		Credited:    s.Credited.String(),
		Worked:      s.Worked().String(),
		TransferIn:  s.Transfer.In.String(),
		TransferOut: s.Transfer.Out.String(),
		Entries:     toEntryDTOs(s.Entries),
		Holidays:    make([]HolidayDTO, len(s.Holidays)),
		Warnings:    make([]WarningDTO, len(s.Warnings)),
		Violations:  make([]ViolationDTO, len(s.Violations)),
		LongLabels:  render.OverflowingLabels(s),
	}
	for i, h := range s.Holidays {
		dto.Holidays[i] = HolidayDTO{
			Date:     h.Date.String(),
			Start:    h.Start.String(),
			Months:   h.Months,
			Credited: h.Credited.String(),
		}
	}
	for i, w := range s.Warnings {
		dto.Warnings[i] = WarningDTO{
			Label:     w.Label,
			Requested: w.Requested.String(),
			Placed:    w.Placed.String(),
			Shortfall: w.Shortfall().String(),
			Reason:    string(w.Reason),
		}
	}
	for i, v := range s.Violations {
		dto.Violations[i] = ViolationDTO{Date: v.Date.String(), Rule: v.Rule, Detail: v.Detail}
	}
	return dto
}

func toRecordDTO(rec generic.MonthRecord, withEntries bool) RecordDTO {
	dto := RecordDTO{
		ID:          rec.ID,
		Employee:    rec.Employee,
		Month:       rec.Period.String(),
		Department:  rec.Department,
		Target:      rec.Target.String(),
		Worked:      rec.Worked.String(),
		Credited:    rec.Credited.String(),
		TransferIn:  rec.Transfer.In.String(),
		TransferOut: rec.Transfer.Out.String(),
		RecordedAt:  rec.RecordedAt.Format(time.RFC3339),
	}
	if withEntries {
		dto.Entries = toEntryDTOs(rec.Entries)
	}
	return dto
}

func toStatementDTO(st generic.Statement) StatementDTO {
	dto := StatementDTO{
		Employee: st.Employee,
		From:     st.From.String(),
		To:       st.To.String(),
		Opening:  st.Opening.String(),
		Net:      st.Net().String(),
		Closing:  st.Closing().String(),
		Breaks:   []string{},
		Lines:    make([]StatementLineDTO, len(st.Lines)),
	}
	for _, p := range st.Breaks() {
		dto.Breaks = append(dto.Breaks, p.String())
	}
	for i, l := range st.Lines {
		dto.Lines[i] = StatementLineDTO{
			Month:       l.Period.String(),
			RecordID:    l.RecordID,
			Target:      l.Target.String(),
			Worked:      l.Worked.String(),
			Credited:    l.Credited.String(),
			TransferIn:  l.Transfer.In.String(),
			TransferOut: l.Transfer.Out.String(),
			Expected:    l.Expected.String(),
			Break:       l.Break,
		}
	}
	return dto
}
