// Package timesheet computes monthly timesheets.
// It turns a month's contract, recurring commitments, explicit entries,
// absences, holidays and dynamic work into a conflict-free Schedule.
package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet/generic"
)

// =============================================================================
// CONTRACT
// =============================================================================

// WorkingArea classifies the contract for the month file.
type WorkingArea string

const (
	AreaUB WorkingArea = "ub" // university employee
	AreaGF WorkingArea = "gf" // large-scale research
)

func (a WorkingArea) Valid() bool { return a == AreaUB || a == AreaGF }

// Contract is the obligation the month is computed against.
// A zero ValidFrom or ValidUntil leaves that side of the window open.
type Contract struct {
	Department        string
	WorkingTime       generic.WorkDuration // per month
	Area              WorkingArea
	Wage              decimal.Decimal // per hour
	ValidFrom         generic.Date
	ValidUntil        generic.Date // inclusive
	BackgroundContent string
}

// ValidIn reports whether the contract covers any day of the month.
func (c Contract) ValidIn(period generic.MonthPeriod) bool {
	if !c.ValidFrom.IsZero() && c.ValidFrom.After(period.Last()) {
		return false
	}
	if !c.ValidUntil.IsZero() && c.ValidUntil.Before(period.First()) {
		return false
	}
	return true
}

// =============================================================================
// INPUTS
// =============================================================================

// Frequency of a recurrence rule. Only weekly rules exist.
type Frequency string

const FrequencyWeekly Frequency = "weekly"

// RecurrenceRule describes a commitment repeating on fixed weekdays.
// Rules are never mutated; every month expands them afresh.
type RecurrenceRule struct {
	Label     string
	Weekdays  []time.Weekday
	Start     generic.TimeOfDay
	End       generic.TimeOfDay
	Pause     generic.WorkDuration
	Frequency Frequency

	// Validity window. ValidUntil is exclusive unless UntilInclusive is set.
	// Zero dates leave the window open.
	ValidFrom      generic.Date
	ValidUntil     generic.Date
	UntilInclusive bool

	// Department restricts the rule to months of one department.
	// Empty applies to every department.
	Department string
}

// ExplicitEntry is work declared for one day of the month.
type ExplicitEntry struct {
	Label string
	Day   int
	Start generic.TimeOfDay
	End   generic.TimeOfDay
	Pause generic.WorkDuration
}

// DynamicRequest is work of fixed total duration the allocator places.
// A request with Flex > 0 has no duration of its own and receives a share
// of the capacity left over by the fixed requests.
type DynamicRequest struct {
	Label    string
	Duration generic.WorkDuration
	Flex     int
}

// Absence forbids a time window on every day from FromDay to ToDay.
type Absence struct {
	Label   string
	FromDay int
	ToDay   int
	Start   generic.TimeOfDay
	End     generic.TimeOfDay
}

// FullDay reports whether the absence covers 00:00 to 24:00.
func (a Absence) FullDay() bool { return a.Start == generic.Midnight && a.End == generic.EndOfDay }

// DefaultHolidayStart is used when a holiday declares no start time.
var DefaultHolidayStart = generic.NewTimeOfDay(10, 0)

// HolidayDeclaration credits hours on a day without work.
// Months is the number of months the leave entitlement is taken for.
// A nil Start means DefaultHolidayStart.
type HolidayDeclaration struct {
	Day    int
	Start  *generic.TimeOfDay
	Months int
}

// MonthInput is everything one month computation needs.
type MonthInput struct {
	Period     generic.MonthPeriod
	Department string
	Contracts  []Contract
	Rules      []RecurrenceRule
	Entries    []ExplicitEntry
	Dynamic    []DynamicRequest
	Absences   []Absence
	Holidays   []HolidayDeclaration

	// TransferIn is the balance carried into the month.
	// Nil means the month declares none; Service fills it from the
	// previous month's record.
	TransferIn *generic.WorkDuration
}

// Transfer returns the declared incoming balance or zero.
func (in MonthInput) Transfer() generic.WorkDuration {
	if in.TransferIn == nil {
		return 0
	}
	return *in.TransferIn
}
