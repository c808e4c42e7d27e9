/*
store.go - Persistence interface for computed months

PURPOSE:
  Defines the interface between the month service and the database.
  Every computed schedule is stored as an immutable MonthRecord. The outgoing
  transfer balance of the latest record of a month is what the following
  month starts with.

APPEND-ONLY CONTRACT:
  - Append(): writes a new record
  - Latest(): the most recent record of a month
  - History(): every record of a month, oldest first
  - NO Update() or Delete() methods exist

  Recomputing a month appends a new record. Earlier records stay readable so
  a changed balance can always be traced back.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - timesheet/service.go: Carry-over between months
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// MONTH RECORD
// =============================================================================

// MonthRecord is the persisted outcome of one month computation.
type MonthRecord struct {
	ID         string
	Employee   string
	Period     MonthPeriod
	Department string
	Transfer   TransferBalance
	Target     WorkDuration
	Worked     WorkDuration
	Credited   WorkDuration
	Entries    []ScheduledEntry
	RecordedAt time.Time
}

// RecordOf captures a schedule for persistence.
func RecordOf(id, employee string, s *Schedule, at time.Time) MonthRecord {
	entries := make([]ScheduledEntry, len(s.Entries))
	copy(entries, s.Entries)
	return MonthRecord{
		ID:         id,
		Employee:   employee,
		Period:     s.Period,
		Department: s.Department,
		Transfer:   s.Transfer,
		Target:     s.Target,
		Worked:     s.Worked(),
		Credited:   s.Credited,
		Entries:    entries,
		RecordedAt: at.UTC(),
	}
}

// =============================================================================
// STORE - Interface for month persistence (append-only)
// =============================================================================

// Store handles persistence of month records.
// IMPORTANT: Store is APPEND-ONLY. No Update, No Delete.
type Store interface {
	// Append persists a record. Returns ErrDuplicateRecord if the ID exists.
	Append(ctx context.Context, rec MonthRecord) error

	// Latest returns the most recent record of a month or ErrMonthNotFound.
	Latest(ctx context.Context, employee string, period MonthPeriod) (MonthRecord, error)

	// History returns all records of a month ordered by RecordedAt.
	History(ctx context.Context, employee string, period MonthPeriod) ([]MonthRecord, error)

	// Months lists the months that have at least one record, ascending.
	Months(ctx context.Context, employee string) ([]MonthPeriod, error)
}
