/*
Package factory provides TOML to Go timesheet conversion.

PURPOSE:
  Converts the TOML documents an employee maintains into the inputs of the
  timesheet engine. A global document holds the contracts and weekly
  commitments; one month document per month holds everything specific to
  that month.

TOML SCHEMA (global):
  [about]
  name = "Max Mustermann"
  staff_id = 1234567

  [contract.IPD]
  working_time = "40:00"
  area = "ub"
  wage = 12.41
  start_date = 2024-10-01

  [[repeating]]
  action = "Tutorium"
  weekdays = ["tuesday"]
  start = "09:35"
  end = "11:15"
  end_date = 2025-02-28

TOML SCHEMA (month):
  [general]
  year = 2025
  month = 2
  department = "IPD"

  [transfer]
  previous_month = "1:30"

  [[holiday]]
  day = 13
  months = 1

  [[entry]]
  day = 15
  action = "Klausuraufsicht"
  start = "12:00"
  end = "18:00"
  pause = "1:00"

  [[dynamic]]
  action = "Tutorium vorbereiten"
  duration = "40:00"

  [[absence]]
  from = 24
  to = 28

KEY FEATURES:
  - Rejects unknown keys
  - Validates structure with tagged structs and readable messages
  - Sets defaults (holiday months 1, absence covers the whole day)
  - Keeps declaration order of dynamic entries

USAGE:
  f := factory.New()
  global, err := f.ParseGlobal(globalTOML)
  month, err := f.ParseMonth(monthTOML)
  input, err := f.Build(global, month)
  schedule, err := engine.Compute(input)

SEE ALSO:
  - document.go: Schema types
  - timesheet/types.go: Engine inputs
*/
package factory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/timesheet"
)

// ErrInvalidDocument is returned for TOML that parses but does not describe
// a valid timesheet.
var ErrInvalidDocument = errors.New("invalid document")

// =============================================================================
// FACTORY
// =============================================================================

// Factory converts TOML documents to engine inputs.
type Factory struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a factory with the document validators registered.
func New() *Factory {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := generic.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("workduration", func(fl validator.FieldLevel) bool {
		_, err := generic.ParseWorkDuration(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := ParseWeekday(fl.Field().String())
		return err == nil
	})
	registerMessage(validate, trans, "clock", "{0} must be a time of day like 09:35")
	registerMessage(validate, trans, "workduration", "{0} must be a duration like 40:00")
	registerMessage(validate, trans, "weekday", "{0} must name a weekday")

	return &Factory{validate: validate, translator: trans}
}

// Validator exposes the configured validator for request DTOs.
func (f *Factory) Validator() *validator.Validate { return f.validate }

// ParseGlobal parses and validates a global document.
func (f *Factory) ParseGlobal(data []byte) (*GlobalDocument, error) {
	var doc GlobalDocument
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: global document: %v", ErrInvalidDocument, err)
	}
	if err := f.Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseMonth parses and validates a month document.
func (f *Factory) ParseMonth(data []byte) (*MonthDocument, error) {
	var doc MonthDocument
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: month document: %v", ErrInvalidDocument, err)
	}
	if err := f.Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFiles reads both documents from disk and builds the month input.
func (f *Factory) LoadFiles(globalPath, monthPath string) (*GlobalDocument, *MonthDocument, timesheet.MonthInput, error) {
	gdata, err := os.ReadFile(globalPath)
	if err != nil {
		return nil, nil, timesheet.MonthInput{}, err
	}
	mdata, err := os.ReadFile(monthPath)
	if err != nil {
		return nil, nil, timesheet.MonthInput{}, err
	}
	global, err := f.ParseGlobal(gdata)
	if err != nil {
		return nil, nil, timesheet.MonthInput{}, fmt.Errorf("%s: %w", globalPath, err)
	}
	month, err := f.ParseMonth(mdata)
	if err != nil {
		return nil, nil, timesheet.MonthInput{}, fmt.Errorf("%s: %w", monthPath, err)
	}
	input, err := f.Build(global, month)
	if err != nil {
		return nil, nil, timesheet.MonthInput{}, err
	}
	return global, month, input, nil
}

// Validate runs the struct validators and joins their messages.
func (f *Factory) Validate(v any) error {
	err := f.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+": "+fe.Translate(f.translator))
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// =============================================================================
// BUILD - Documents to engine input
// =============================================================================

// Build combines a global and a month document into the engine input.
func (f *Factory) Build(global *GlobalDocument, month *MonthDocument) (timesheet.MonthInput, error) {
	if err := f.Validate(global); err != nil {
		return timesheet.MonthInput{}, err
	}
	if err := f.Validate(month); err != nil {
		return timesheet.MonthInput{}, err
	}
	period, err := generic.NewMonthPeriod(month.General.Year, time.Month(month.General.Month))
	if err != nil {
		return timesheet.MonthInput{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	in := timesheet.MonthInput{
		Period:     period,
		Department: month.General.Department,
	}

	departments := make([]string, 0, len(global.Contract))
	for dept := range global.Contract {
		departments = append(departments, dept)
	}
	sort.Strings(departments)
	for _, dept := range departments {
		c, err := parseContract(dept, global.Contract[dept])
		if err != nil {
			return timesheet.MonthInput{}, err
		}
		in.Contracts = append(in.Contracts, c)
	}

	for _, r := range append(append([]RepeatingDoc(nil), global.Repeating...), month.Repeating...) {
		rule, err := parseRepeating(r)
		if err != nil {
			return timesheet.MonthInput{}, err
		}
		in.Rules = append(in.Rules, rule)
	}

	for _, e := range month.Entry {
		in.Entries = append(in.Entries, timesheet.ExplicitEntry{
			Label: e.Action,
			Day:   e.Day,
			Start: generic.MustParseTimeOfDay(e.Start),
			End:   generic.MustParseTimeOfDay(e.End),
			Pause: optionalDuration(e.Pause),
		})
	}

	for _, d := range month.Dynamic {
		req, err := parseDynamic(d)
		if err != nil {
			return timesheet.MonthInput{}, err
		}
		in.Dynamic = append(in.Dynamic, req)
	}

	for _, a := range month.Absence {
		abs, err := parseAbsence(a)
		if err != nil {
			return timesheet.MonthInput{}, err
		}
		in.Absences = append(in.Absences, abs)
	}

	for _, h := range month.Holiday {
		decl := timesheet.HolidayDeclaration{Day: h.Day, Months: h.Months}
		if decl.Months == 0 {
			decl.Months = 1
		}
		if h.Start != "" {
			start := generic.MustParseTimeOfDay(h.Start)
			decl.Start = &start
		}
		in.Holidays = append(in.Holidays, decl)
	}

	if month.Transfer != nil {
		prev := generic.MustParseWorkDuration(month.Transfer.PreviousMonth)
		in.TransferIn = &prev
	}
	return in, nil
}

func parseContract(dept string, c ContractDoc) (timesheet.Contract, error) {
	contract := timesheet.Contract{
		Department:        dept,
		WorkingTime:       generic.MustParseWorkDuration(c.WorkingTime),
		Area:              timesheet.WorkingArea(c.Area),
		Wage:              decimal.NewFromFloat(c.Wage),
		ValidFrom:         localDate(c.StartDate),
		ValidUntil:        localDate(c.EndDate),
		BackgroundContent: c.BgContent,
	}
	if contract.WorkingTime <= 0 {
		return timesheet.Contract{}, fmt.Errorf("%w: contract %q: working time must be positive", ErrInvalidDocument, dept)
	}
	if !contract.ValidFrom.IsZero() && !contract.ValidUntil.IsZero() && contract.ValidUntil.Before(contract.ValidFrom) {
		return timesheet.Contract{}, fmt.Errorf("%w: contract %q ends before it starts", ErrInvalidDocument, dept)
	}
	return contract, nil
}

// parseRepeating treats end_date as the last day the rule applies unless
// end_exclusive is set.
func parseRepeating(r RepeatingDoc) (timesheet.RecurrenceRule, error) {
	rule := timesheet.RecurrenceRule{
		Label:          r.Action,
		Start:          generic.MustParseTimeOfDay(r.Start),
		End:            generic.MustParseTimeOfDay(r.End),
		Pause:          optionalDuration(r.Pause),
		Frequency:      timesheet.FrequencyWeekly,
		ValidFrom:      localDate(r.StartDate),
		ValidUntil:     localDate(r.EndDate),
		UntilInclusive: !r.EndExclusive,
		Department:     r.Department,
	}
	for _, w := range r.Weekdays {
		wd, err := ParseWeekday(w)
		if err != nil {
			return timesheet.RecurrenceRule{}, fmt.Errorf("%w: repeating %q: %v", ErrInvalidDocument, r.Action, err)
		}
		rule.Weekdays = append(rule.Weekdays, wd)
	}
	return rule, nil
}

func parseDynamic(d DynamicDoc) (timesheet.DynamicRequest, error) {
	switch {
	case d.Duration != "" && d.Flex > 0:
		return timesheet.DynamicRequest{}, fmt.Errorf("%w: dynamic %q: set either duration or flex", ErrInvalidDocument, d.Action)
	case d.Duration == "" && d.Flex == 0:
		return timesheet.DynamicRequest{}, fmt.Errorf("%w: dynamic %q: duration or flex is required", ErrInvalidDocument, d.Action)
	case d.Flex > 0:
		return timesheet.DynamicRequest{Label: d.Action, Flex: d.Flex}, nil
	}
	duration := generic.MustParseWorkDuration(d.Duration)
	if duration <= 0 {
		return timesheet.DynamicRequest{}, fmt.Errorf("%w: dynamic %q: duration must be positive, got %s", ErrInvalidDocument, d.Action, duration)
	}
	return timesheet.DynamicRequest{Label: d.Action, Duration: duration}, nil
}

func parseAbsence(a AbsenceDoc) (timesheet.Absence, error) {
	abs := timesheet.Absence{
		Label:   a.Label,
		FromDay: a.From,
		ToDay:   a.To,
		Start:   generic.Midnight,
		End:     generic.EndOfDay,
	}
	if abs.ToDay == 0 {
		abs.ToDay = abs.FromDay
	}
	if abs.Label == "" {
		abs.Label = "Abwesenheit"
	}
	if a.Start != "" {
		abs.Start = generic.MustParseTimeOfDay(a.Start)
	}
	if a.End != "" {
		abs.End = generic.MustParseTimeOfDay(a.End)
	}
	if abs.ToDay < abs.FromDay {
		return timesheet.Absence{}, fmt.Errorf("%w: absence from day %d to %d", ErrInvalidDocument, abs.FromDay, abs.ToDay)
	}
	if abs.Start >= abs.End {
		return timesheet.Absence{}, fmt.Errorf("%w: absence on day %d: start must be before end", ErrInvalidDocument, abs.FromDay)
	}
	return abs, nil
}

// =============================================================================
// HELPERS
// =============================================================================

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts English weekday names and their three-letter forms.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
	return wd, nil
}

func decodeStrict(data []byte, v any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func localDate(d *toml.LocalDate) generic.Date {
	if d == nil {
		return generic.Date{}
	}
	return generic.DateOf(d.AsTime(time.UTC))
}

// optionalDuration parses an already validated duration, empty means zero.
func optionalDuration(s string) generic.WorkDuration {
	if s == "" {
		return 0
	}
	return generic.MustParseWorkDuration(s)
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		})
}
