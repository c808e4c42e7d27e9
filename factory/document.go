package factory

import "github.com/pelletier/go-toml/v2"

// =============================================================================
// TOML SCHEMA TYPES
// =============================================================================

// GlobalDocument holds what stays the same from month to month: who works,
// under which contracts, and the commitments that repeat every week.
type GlobalDocument struct {
	About     AboutDoc               `toml:"about" validate:"required"`
	Contract  map[string]ContractDoc `toml:"contract" validate:"required,min=1,dive"`
	Repeating []RepeatingDoc         `toml:"repeating" validate:"dive"`
}

type AboutDoc struct {
	Name    string `toml:"name" validate:"required"`
	StaffID int    `toml:"staff_id" validate:"gte=0"`
	Email   string `toml:"email" validate:"omitempty,email"`
}

// ContractDoc is keyed by department in GlobalDocument.Contract.
type ContractDoc struct {
	WorkingTime string          `toml:"working_time" validate:"required,workduration"`
	Area        string          `toml:"area" validate:"required,oneof=ub gf"`
	Wage        float64         `toml:"wage" validate:"gte=0"`
	StartDate   *toml.LocalDate `toml:"start_date"`
	EndDate     *toml.LocalDate `toml:"end_date"`
	BgContent   string          `toml:"bg_content"`
}

// RepeatingDoc may appear in the global and in the month document.
type RepeatingDoc struct {
	Action       string          `toml:"action" validate:"required"`
	Weekdays     []string        `toml:"weekdays" validate:"required,min=1,dive,weekday"`
	Start        string          `toml:"start" validate:"required,clock"`
	End          string          `toml:"end" validate:"required,clock"`
	Pause        string          `toml:"pause" validate:"omitempty,workduration"`
	StartDate    *toml.LocalDate `toml:"start_date"`
	EndDate      *toml.LocalDate `toml:"end_date"`
	EndExclusive bool            `toml:"end_exclusive"`
	Department   string          `toml:"department"`
}

// MonthDocument describes one month. Arrays of tables keep their
// declaration order, which is the order dynamic entries are placed in.
type MonthDocument struct {
	General   GeneralDoc     `toml:"general" validate:"required"`
	Transfer  *TransferDoc   `toml:"transfer"`
	Holiday   []HolidayDoc   `toml:"holiday" validate:"dive"`
	Entry     []EntryDoc     `toml:"entry" validate:"dive"`
	Dynamic   []DynamicDoc   `toml:"dynamic" validate:"dive"`
	Absence   []AbsenceDoc   `toml:"absence" validate:"dive"`
	Repeating []RepeatingDoc `toml:"repeating" validate:"dive"`
}

type GeneralDoc struct {
	Year       int    `toml:"year" validate:"required,gte=1"`
	Month      int    `toml:"month" validate:"required,gte=1,lte=12"`
	Department string `toml:"department" validate:"required"`
}

// TransferDoc declares the incoming balance. NextMonth is informational,
// the outgoing balance is always computed.
type TransferDoc struct {
	PreviousMonth string `toml:"previous_month" validate:"required,workduration"`
	NextMonth     string `toml:"next_month" validate:"omitempty,workduration"`
}

type HolidayDoc struct {
	Day    int    `toml:"day" validate:"required,gte=1,lte=31"`
	Start  string `toml:"start" validate:"omitempty,clock"`
	Months int    `toml:"months" validate:"gte=0"`
}

type EntryDoc struct {
	Day    int    `toml:"day" validate:"required,gte=1,lte=31"`
	Action string `toml:"action" validate:"required"`
	Start  string `toml:"start" validate:"required,clock"`
	End    string `toml:"end" validate:"required,clock"`
	Pause  string `toml:"pause" validate:"omitempty,workduration"`
}

// DynamicDoc sets either a fixed duration or a flex weight.
type DynamicDoc struct {
	Action   string `toml:"action" validate:"required"`
	Duration string `toml:"duration" validate:"omitempty,workduration"`
	Flex     int    `toml:"flex" validate:"gte=0"`
}

// AbsenceDoc covers the days From..To. To defaults to From, the window
// defaults to the whole day.
type AbsenceDoc struct {
	Label string `toml:"label"`
	From  int    `toml:"from" validate:"required,gte=1,lte=31"`
	To    int    `toml:"to" validate:"omitempty,gte=1,lte=31"`
	Start string `toml:"start" validate:"omitempty,clock"`
	End   string `toml:"end" validate:"omitempty,clock"`
}
