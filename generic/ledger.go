/*
ledger.go - Transfer balance across recorded months

PURPOSE:
  Every recorded month carries its incoming and outgoing transfer. Read in
  order, the latest records of consecutive months form a chain: each month
  starts with what the previous month ended with. The Ledger replays that
  chain for a range of months and points out where it breaks.

CRITICAL INVARIANTS:
  1. READ-ONLY: The ledger never writes; records are appended by the service
  2. LATEST WINS: Only the most recent record of a month takes part
  3. DERIVED: Balances are computed from records, never stored separately

BREAKS:
  A break is a month whose incoming transfer differs from the outgoing
  transfer of the month before it. It happens when an earlier month is
  recomputed after a later one was recorded, or when a month document sets
  [transfer] by hand. Months without a record are skipped; the month after
  a gap is compared against the last recorded month.

EXAMPLE FLOW:
  January:  in 0:00   out 2:00
  February: in 2:00   out -1:30
  March:    in 0:00   out 0:00    <- break, expected -1:30

SEE ALSO:
  - store.go: Store interface and MonthRecord
  - timesheet/service.go: Appends records and exposes Statement
*/
package generic

import (
	"context"
	"fmt"
)

// =============================================================================
// STATEMENT
// =============================================================================

// StatementLine is the latest record of one month.
type StatementLine struct {
	Period   MonthPeriod
	RecordID string
	Target   WorkDuration
	Worked   WorkDuration
	Credited WorkDuration
	Transfer TransferBalance

	// Expected is the previous recorded month's outgoing transfer.
	// Break is set when Transfer.In differs from it.
	Expected WorkDuration
	Break    bool
}

// Statement lists the recorded months of a range in ascending order.
// Opening is the balance carried out of the last month recorded before From.
type Statement struct {
	Employee string
	From     MonthPeriod
	To       MonthPeriod
	Opening  WorkDuration
	Lines    []StatementLine
}

// Closing returns the outgoing transfer of the last recorded month, or the
// opening balance when the range holds no record.
func (s Statement) Closing() WorkDuration {
	if len(s.Lines) == 0 {
		return s.Opening
	}
	return s.Lines[len(s.Lines)-1].Transfer.Out
}

// Net sums each month's change of the balance.
func (s Statement) Net() WorkDuration {
	var net WorkDuration
	for _, l := range s.Lines {
		net += l.Transfer.Delta()
	}
	return net
}

// Breaks returns the months whose incoming transfer breaks the chain.
func (s Statement) Breaks() []MonthPeriod {
	var out []MonthPeriod
	for _, l := range s.Lines {
		if l.Break {
			out = append(out, l.Period)
		}
	}
	return out
}

// =============================================================================
// LEDGER - Replays latest records
// =============================================================================

type Ledger struct {
	Store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{Store: store}
}

// Statement replays the latest records of every month in [from, to].
func (l *Ledger) Statement(ctx context.Context, employee string, from, to MonthPeriod) (Statement, error) {
	if monthIndex(to) < monthIndex(from) {
		return Statement{}, fmt.Errorf("statement range %s..%s is reversed", from, to)
	}

	prevOut, havePrev, err := l.latestOut(ctx, employee, from.Previous())
	if err != nil {
		return Statement{}, fmt.Errorf("statement opening: %w", err)
	}
	st := Statement{Employee: employee, From: from, To: to, Opening: prevOut}
	for p := from; monthIndex(p) <= monthIndex(to); p = p.Next() {
		rec, err := l.Store.Latest(ctx, employee, p)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return Statement{}, fmt.Errorf("statement %s: %w", p, err)
		}

		line := StatementLine{
			Period:   p,
			RecordID: rec.ID,
			Target:   rec.Target,
			Worked:   rec.Worked,
			Credited: rec.Credited,
			Transfer: rec.Transfer,
			Expected: rec.Transfer.In,
		}
		if havePrev {
			line.Expected = prevOut
			line.Break = prevOut != rec.Transfer.In
		}
		st.Lines = append(st.Lines, line)
		prevOut, havePrev = rec.Transfer.Out, true
	}
	return st, nil
}

// BalanceAfter returns the outgoing transfer of the latest recorded month at
// or before period, or zero when nothing was recorded yet.
func (l *Ledger) BalanceAfter(ctx context.Context, employee string, period MonthPeriod) (WorkDuration, error) {
	out, _, err := l.latestOut(ctx, employee, period)
	return out, err
}

func (l *Ledger) latestOut(ctx context.Context, employee string, period MonthPeriod) (WorkDuration, bool, error) {
	months, err := l.Store.Months(ctx, employee)
	if err != nil {
		return 0, false, err
	}
	for i := len(months) - 1; i >= 0; i-- {
		if monthIndex(months[i]) > monthIndex(period) {
			continue
		}
		rec, err := l.Store.Latest(ctx, employee, months[i])
		if err != nil {
			return 0, false, err
		}
		return rec.Transfer.Out, true, nil
	}
	return 0, false, nil
}

func monthIndex(p MonthPeriod) int { return p.Year*12 + int(p.Month) - 1 }
