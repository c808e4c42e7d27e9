/*
engine.go - One month, from documents to schedule

PURPOSE:
  Engine.Compute runs every stage for a single month and returns either a
  complete Schedule or an error. There is no partial result and no state
  shared between calls: the month, contract and rules are all arguments.

CONTROL FLOW:
  1. Select the contract of the month's department
  2. Expand recurring rules, skipping public holidays and absences
  3. Merge with explicit entries, rejecting conflicts and work in absences
  4. Apply holidays against the merged entries
  5. capacity = max(0, target - committed)
  6. Resolve flex requests, then allocate dynamic work
  7. Finalize the balance and verify working-time rules

SEE ALSO:
  - service.go: Persists results and chains months
  - allocator.go: Step 6
*/
package timesheet

import (
	"github.com/warp/timesheet/generic"
	"go.uber.org/zap"
)

type Engine struct {
	Options Options

	// Strict turns working-time rule violations into errors.
	Strict bool

	Logger *zap.Logger
}

func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Calendar == nil {
		opts.Calendar = generic.NoHolidays{}
	}
	return &Engine{Options: opts, Logger: logger}
}

// Compute builds the schedule of one month.
func (e *Engine) Compute(in MonthInput) (*generic.Schedule, error) {
	log := e.logger().With(
		zap.Stringer("month", in.Period),
		zap.String("department", in.Department),
	)
	cal := e.Options.Calendar
	if cal == nil {
		cal = generic.NoHolidays{}
	}

	contract, err := SelectContract(in.Contracts, in.Department, in.Period)
	if err != nil {
		return nil, err
	}

	recurring := e.expandRules(in, cal)
	explicit, err := explicitEntries(in.Entries, in.Period)
	if err != nil {
		return nil, err
	}
	merged, err := MergeWithAbsences(recurring, explicit, in.Absences, in.Period)
	if err != nil {
		return nil, err
	}
	committed := sumWorked(merged)

	// Holidays are checked against work and against each other.
	occupied := append([]generic.ScheduledEntry(nil), merged...)
	var (
		credits  []generic.HolidayCredit
		credited generic.WorkDuration
	)
	for _, h := range in.Holidays {
		credit, err := ApplyHoliday(contract, h, in.Period, occupied, in.Absences)
		if err != nil {
			return nil, err
		}
		credits = append(credits, credit)
		credited += credit.Credited
		if credit.Marker().Span() > 0 {
			occupied = append(occupied, holidayEntry(credit))
		}
	}

	transferIn := in.Transfer()
	target := contract.WorkingTime - transferIn - credited
	capacity := Capacity(target, committed)

	opts := e.Options
	opts.Calendar = cal
	requests := ResolveFlex(in.Dynamic, capacity)
	placed, warnings := Allocator{Options: opts}.Allocate(requests, occupied, in.Absences, capacity, in.Period)
	dynamic := sumWorked(placed)

	target, _, transfer := Finalize(contract, transferIn, credited, committed, dynamic)

	entries := append(occupied, placed...)
	generic.SortEntries(entries)

	s := &generic.Schedule{
		Period:      in.Period,
		Department:  contract.Department,
		Area:        string(contract.Area),
		Wage:        contract.Wage,
		Entries:     entries,
		Holidays:    credits,
		WorkingTime: contract.WorkingTime,
		Target:      target,
		Committed:   committed,
		Dynamic:     dynamic,
		Credited:    credited,
		Transfer:    transfer,
		Warnings:    warnings,
	}
	s.Violations = Verify(s, cal)

	for _, w := range warnings {
		log.Warn("dynamic entry under-allocated",
			zap.String("label", w.Label),
			zap.Stringer("shortfall", w.Shortfall()),
			zap.String("reason", string(w.Reason)))
	}
	for _, v := range s.Violations {
		log.Warn("working-time rule violated",
			zap.Stringer("date", v.Date),
			zap.String("rule", v.Rule),
			zap.String("detail", v.Detail))
	}
	if e.Strict && len(s.Violations) > 0 {
		return nil, &generic.VerificationError{Violations: s.Violations}
	}

	log.Debug("month computed",
		zap.Stringer("target", s.Target),
		zap.Stringer("committed", committed),
		zap.Stringer("dynamic", dynamic),
		zap.Stringer("credited", credited),
		zap.Stringer("transfer_out", transfer.Out))
	return s, nil
}

// expandRules expands the department's rules and drops occurrences on
// public holidays or inside an absence.
func (e *Engine) expandRules(in MonthInput, cal generic.HolidayCalendar) []generic.ScheduledEntry {
	var out []generic.ScheduledEntry
	for _, rule := range in.Rules {
		if !rule.AppliesTo(in.Department) {
			continue
		}
		for _, occ := range Expand(rule, in.Period) {
			if cal.IsHoliday(occ.Date) || AnyOverlap(in.Absences, occ.Interval, in.Period) {
				continue
			}
			out = append(out, occ)
		}
	}
	return out
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
