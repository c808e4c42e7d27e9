package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warp/timesheet/generic"
	"go.uber.org/zap"
)

// =============================================================================
// SERVICE - Engine + append-only store + carry-over between months
// =============================================================================

// Service computes months and records them. A month that declares no
// incoming transfer starts with the outgoing balance of the previous month's
// latest record.
type Service struct {
	Engine *Engine
	Store  generic.Store
	Logger *zap.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

func NewService(engine *Engine, store generic.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Engine: engine,
		Store:  store,
		Logger: logger,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// ComputeAndRecord computes the month and appends the result as a new record.
func (s *Service) ComputeAndRecord(ctx context.Context, employee string, in MonthInput) (*generic.Schedule, generic.MonthRecord, error) {
	schedule, err := s.Prepare(ctx, employee, in)
	if err != nil {
		return nil, generic.MonthRecord{}, err
	}
	rec, err := s.Record(ctx, employee, schedule)
	if err != nil {
		return nil, generic.MonthRecord{}, err
	}
	return schedule, rec, nil
}

// Prepare computes the month the way ComputeAndRecord would, carry-over
// included, without touching the store's records.
func (s *Service) Prepare(ctx context.Context, employee string, in MonthInput) (*generic.Schedule, error) {
	if in.TransferIn == nil && employee != "" {
		carry, err := s.CarryIn(ctx, employee, in.Period)
		if err != nil {
			return nil, err
		}
		in.TransferIn = &carry
	}
	return s.Engine.Compute(in)
}

// Record appends a computed schedule as a new record.
func (s *Service) Record(ctx context.Context, employee string, schedule *generic.Schedule) (generic.MonthRecord, error) {
	rec := generic.RecordOf(s.newID(), employee, schedule, s.now())
	if err := s.Store.Append(ctx, rec); err != nil {
		return generic.MonthRecord{}, fmt.Errorf("record %s: %w", schedule.Period, err)
	}

	s.Logger.Info("month recorded",
		zap.String("employee", employee),
		zap.Stringer("month", schedule.Period),
		zap.String("record", rec.ID),
		zap.Stringer("transfer_in", rec.Transfer.In),
		zap.Stringer("transfer_out", rec.Transfer.Out))
	return rec, nil
}

// CarryIn returns the outgoing balance of the previous month's latest record,
// or zero when the previous month was never recorded.
func (s *Service) CarryIn(ctx context.Context, employee string, period generic.MonthPeriod) (generic.WorkDuration, error) {
	prev, err := s.Store.Latest(ctx, employee, period.Previous())
	if errors.Is(err, generic.ErrMonthNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("carry-over from %s: %w", period.Previous(), err)
	}
	return prev.Transfer.Carry().In, nil
}

func (s *Service) Latest(ctx context.Context, employee string, period generic.MonthPeriod) (generic.MonthRecord, error) {
	return s.Store.Latest(ctx, employee, period)
}

func (s *Service) History(ctx context.Context, employee string, period generic.MonthPeriod) ([]generic.MonthRecord, error) {
	return s.Store.History(ctx, employee, period)
}

func (s *Service) Months(ctx context.Context, employee string) ([]generic.MonthPeriod, error) {
	return s.Store.Months(ctx, employee)
}

// Statement replays the recorded months in [from, to].
func (s *Service) Statement(ctx context.Context, employee string, from, to generic.MonthPeriod) (generic.Statement, error) {
	return generic.NewLedger(s.Store).Statement(ctx, employee, from, to)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}
