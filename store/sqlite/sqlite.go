/*
Package sqlite provides a SQLite-backed generic.Store.

PURPOSE:
  Persists computed months so the next month can pick up the outgoing
  transfer balance, and so every recomputation stays traceable.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on month_records or month_entries
  - No DELETE statements on either table
  - A recomputed month is a new row; Latest() picks the newest

KEY TABLES:
  month_records: One row per computation (totals and transfer)
  month_entries: The schedule of a record, in (date, start) order

INDEXES:
  - idx_month_records_employee_period: Latest/History lookups (hot path)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of WAL mode.

USAGE:
  store, err := sqlite.New("./data/timesheet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := timesheet.NewService(engine, store, logger)

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/timesheet/generic"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS month_records (
		id TEXT PRIMARY KEY,
		employee TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		department TEXT NOT NULL,
		transfer_in INTEGER NOT NULL,
		transfer_out INTEGER NOT NULL,
		target INTEGER NOT NULL,
		worked INTEGER NOT NULL,
		credited INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_month_records_employee_period
		ON month_records(employee, year, month, recorded_at);

	CREATE TABLE IF NOT EXISTS month_entries (
		record_id TEXT NOT NULL REFERENCES month_records(id),
		seq INTEGER NOT NULL,
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		pause INTEGER NOT NULL,
		label TEXT NOT NULL,
		source TEXT NOT NULL,
		PRIMARY KEY (record_id, seq)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MONTH STORE (generic.Store interface)
// =============================================================================

// Append writes the record and its entries in one transaction.
func (s *Store) Append(ctx context.Context, rec generic.MonthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO month_records
		(id, employee, year, month, department, transfer_in, transfer_out,
		 target, worked, credited, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Employee,
		rec.Period.Year,
		int(rec.Period.Month),
		rec.Department,
		rec.Transfer.In.Minutes(),
		rec.Transfer.Out.Minutes(),
		rec.Target.Minutes(),
		rec.Worked.Minutes(),
		rec.Credited.Minutes(),
		rec.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to append month record: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO month_entries
		(record_id, seq, date, start_minute, end_minute, pause, label, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range rec.Entries {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, e.Date.String(),
			int(e.Start), int(e.End), e.Pause.Minutes(), e.Label, string(e.Source)); err != nil {
			return fmt.Errorf("failed to append entry %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Latest returns the most recent record of a month.
func (s *Store) Latest(ctx context.Context, employee string, period generic.MonthPeriod) (generic.MonthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, err := s.queryRecords(ctx, `
		SELECT id, employee, year, month, department, transfer_in, transfer_out,
		       target, worked, credited, recorded_at
		FROM month_records
		WHERE employee = ? AND year = ? AND month = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT 1`, employee, period.Year, int(period.Month))
	if err != nil {
		return generic.MonthRecord{}, err
	}
	if len(recs) == 0 {
		return generic.MonthRecord{}, generic.ErrMonthNotFound
	}
	return recs[0], nil
}

// History returns every record of a month, oldest first.
func (s *Store) History(ctx context.Context, employee string, period generic.MonthPeriod) ([]generic.MonthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx, `
		SELECT id, employee, year, month, department, transfer_in, transfer_out,
		       target, worked, credited, recorded_at
		FROM month_records
		WHERE employee = ? AND year = ? AND month = ?
		ORDER BY recorded_at ASC, rowid ASC`, employee, period.Year, int(period.Month))
}

// Months lists the recorded months of an employee, ascending.
func (s *Store) Months(ctx context.Context, employee string) ([]generic.MonthPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT year, month FROM month_records
		WHERE employee = ?
		ORDER BY year, month`, employee)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}
	defer rows.Close()

	var months []generic.MonthPeriod
	for rows.Next() {
		var year, month int
		if err := rows.Scan(&year, &month); err != nil {
			return nil, err
		}
		months = append(months, generic.MonthPeriod{Year: year, Month: time.Month(month)})
	}
	return months, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]generic.MonthRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query month records: %w", err)
	}

	var recs []generic.MonthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		recs = append(recs, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recs {
		entries, err := s.loadEntries(ctx, recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].Entries = entries
	}
	return recs, nil
}

func scanRecord(rows *sql.Rows) (generic.MonthRecord, error) {
	var (
		rec                               generic.MonthRecord
		month                             int
		in, out, target, worked, credited int
		recordedAt                        string
	)
	err := rows.Scan(&rec.ID, &rec.Employee, &rec.Period.Year, &month, &rec.Department,
		&in, &out, &target, &worked, &credited, &recordedAt)
	if err != nil {
		return rec, fmt.Errorf("failed to scan month record: %w", err)
	}
	rec.Period.Month = time.Month(month)
	rec.Transfer = generic.TransferBalance{In: generic.WorkDuration(in), Out: generic.WorkDuration(out)}
	rec.Target = generic.WorkDuration(target)
	rec.Worked = generic.WorkDuration(worked)
	rec.Credited = generic.WorkDuration(credited)
	rec.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return rec, fmt.Errorf("failed to parse recorded_at: %w", err)
	}
	return rec, nil
}

func (s *Store) loadEntries(ctx context.Context, recordID string) ([]generic.ScheduledEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, start_minute, end_minute, pause, label, source
		FROM month_entries
		WHERE record_id = ?
		ORDER BY seq`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()

	var entries []generic.ScheduledEntry
	for rows.Next() {
		var (
			e                 generic.ScheduledEntry
			date, source      string
			start, end, pause int
		)
		if err := rows.Scan(&date, &start, &end, &pause, &e.Label, &source); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if e.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("failed to parse entry date: %w", err)
		}
		e.Start = generic.TimeOfDay(start)
		e.End = generic.TimeOfDay(end)
		e.Pause = generic.WorkDuration(pause)
		e.Source = generic.Source(source)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
