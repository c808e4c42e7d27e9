/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Every failure that crosses the engine boundary is one of a small set of
  kinds, each with a sentinel for errors.Is and a structured type carrying
  enough context for a human-readable message.

ERROR CATEGORIES:
  1. Construction errors - Malformed intervals, overlapping entries
  2. Placement errors - Holidays colliding with work
  3. Selection errors - No contract for the month's department
  4. Rule errors - Working-time rules broken in strict mode
  5. Warnings - Dynamic work that could not be fully placed
  6. Store errors - Missing or duplicate records

USAGE:
  if errors.Is(err, generic.ErrConflict) {
      var c *generic.ConflictError
      errors.As(err, &c)
      fmt.Println(c.First.Describe(), c.Second.Describe())
  }

SEE ALSO:
  - timesheet/merge.go: Produces ConflictError and InvalidIntervalError
  - timesheet/holiday.go: Produces HolidayPlacementError
  - api/handlers.go: Maps error kinds to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConflict is returned when two entries overlap on the same day.
	ErrConflict = errors.New("conflicting entries")

	// ErrInvalidInterval is returned when start >= end or the pause exceeds
	// the interval.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidHolidayPlacement is returned when a holiday collides with
	// existing work or an absence.
	ErrInvalidHolidayPlacement = errors.New("invalid holiday placement")

	// ErrNoMatchingContract is returned when the month's department has no
	// contract valid for that month.
	ErrNoMatchingContract = errors.New("no matching contract")

	// ErrUnderAllocatedDynamic marks a dynamic request that could not be fully
	// placed. It is a warning: the balance already accounts for the shortfall.
	ErrUnderAllocatedDynamic = errors.New("dynamic entry under-allocated")

	// ErrRuleViolation is returned in strict mode when a schedule breaks a
	// working-time rule.
	ErrRuleViolation = errors.New("working-time rule violated")

	// ErrMonthNotFound is returned by stores when no record exists.
	ErrMonthNotFound = errors.New("month not found")

	// ErrDuplicateRecord is returned when a record ID already exists.
	ErrDuplicateRecord = errors.New("duplicate month record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConflictError names both colliding entries.
// When an explicit entry is involved it is always First.
type ConflictError struct {
	First  ScheduledEntry
	Second ScheduledEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s overlaps %s", e.First.Describe(), e.Second.Describe())
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InvalidIntervalError describes a malformed interval.
type InvalidIntervalError struct {
	Label    string
	Interval Interval
	Reason   string
}

func (e *InvalidIntervalError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("invalid interval %s %q: %s", e.Interval, e.Label, e.Reason)
	}
	return fmt.Sprintf("invalid interval %s: %s", e.Interval, e.Reason)
}

func (e *InvalidIntervalError) Unwrap() error { return ErrInvalidInterval }

// HolidayPlacementError describes a holiday that collides with existing work.
// It matches both ErrInvalidHolidayPlacement and ErrConflict.
type HolidayPlacementError struct {
	Holiday HolidayCredit
	With    ScheduledEntry
}

func (e *HolidayPlacementError) Error() string {
	return fmt.Sprintf("holiday on %s at %s (%s credited) collides with %s",
		e.Holiday.Date, e.Holiday.Start, e.Holiday.Credited, e.With.Describe())
}

func (e *HolidayPlacementError) Unwrap() []error {
	return []error{ErrInvalidHolidayPlacement, ErrConflict}
}

// NoMatchingContractError names the department that had no contract.
type NoMatchingContractError struct {
	Department string
	Period     MonthPeriod
}

func (e *NoMatchingContractError) Error() string {
	return fmt.Sprintf("no contract for department %q valid in %s", e.Department, e.Period)
}

func (e *NoMatchingContractError) Unwrap() error { return ErrNoMatchingContract }

// VerificationError lists the rules a schedule breaks.
type VerificationError struct {
	Violations []Violation
}

func (e *VerificationError) Error() string {
	if len(e.Violations) == 1 {
		return "rule violated: " + e.Violations[0].String()
	}
	return fmt.Sprintf("%d rules violated, first: %s", len(e.Violations), e.Violations[0])
}

func (e *VerificationError) Unwrap() error { return ErrRuleViolation }

// =============================================================================
// WARNINGS
// =============================================================================

// UnderAllocationReason explains why a dynamic request stopped early.
type UnderAllocationReason string

const (
	ReasonMonthExhausted    UnderAllocationReason = "month_exhausted"
	ReasonCapacityExhausted UnderAllocationReason = "capacity_exhausted"
)

// UnderAllocation reports a dynamic request that was only partially placed.
type UnderAllocation struct {
	Label     string
	Requested WorkDuration
	Placed    WorkDuration
	Reason    UnderAllocationReason
}

// Shortfall is the part of the request that was not placed.
func (u UnderAllocation) Shortfall() WorkDuration { return u.Requested - u.Placed }

func (u UnderAllocation) Error() string {
	return fmt.Sprintf("dynamic entry %q: placed %s of %s, shortfall %s (%s)",
		u.Label, u.Placed, u.Requested, u.Shortfall(), u.Reason)
}

func (u UnderAllocation) Unwrap() error { return ErrUnderAllocatedDynamic }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input documents.
func IsClientError(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidHolidayPlacement) ||
		errors.Is(err, ErrNoMatchingContract) ||
		errors.Is(err, ErrRuleViolation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMonthNotFound)
}
