// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/timesheet/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[key][]generic.MonthRecord
	ids     map[string]bool
}

type key struct {
	Employee string
	Period   generic.MonthPeriod
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[key][]generic.MonthRecord),
		ids:     make(map[string]bool),
	}
}

// Append adds a record. Append-only.
func (m *Memory) Append(_ context.Context, rec generic.MonthRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID != "" && m.ids[rec.ID] {
		return generic.ErrDuplicateRecord
	}

	k := key{Employee: rec.Employee, Period: rec.Period}
	recs := m.records[k]

	// Insert after every record recorded at the same time or earlier
	i := sort.Search(len(recs), func(i int) bool {
		return recs[i].RecordedAt.After(rec.RecordedAt)
	})
	recs = append(recs, generic.MonthRecord{})
	copy(recs[i+1:], recs[i:])
	recs[i] = rec
	m.records[k] = recs

	if rec.ID != "" {
		m.ids[rec.ID] = true
	}
	return nil
}

func (m *Memory) Latest(_ context.Context, employee string, period generic.MonthPeriod) (generic.MonthRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.records[key{Employee: employee, Period: period}]
	if len(recs) == 0 {
		return generic.MonthRecord{}, generic.ErrMonthNotFound
	}
	return recs[len(recs)-1], nil
}

func (m *Memory) History(_ context.Context, employee string, period generic.MonthPeriod) ([]generic.MonthRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.records[key{Employee: employee, Period: period}]
	result := make([]generic.MonthRecord, len(recs))
	copy(result, recs)
	return result, nil
}

func (m *Memory) Months(_ context.Context, employee string) ([]generic.MonthPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var months []generic.MonthPeriod
	for k := range m.records {
		if k.Employee == employee {
			months = append(months, k.Period)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months, nil
}
