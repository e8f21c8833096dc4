package payroll

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service loads the materialized inputs from a Store and hands them to the
// pure engine functions. Loads run concurrently; computation does not.
type Service struct {
	Store    Store
	Location *time.Location
	Logger   *slog.Logger

	mu       sync.RWMutex
	base     Settings
	settings Settings
}

// NewService creates a service. A nil loc means UTC, a nil logger discards.
func NewService(store Store, settings Settings, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	base := DefaultSettings().Merge(settings)
	return &Service{
		Store:    store,
		Location: loc,
		Logger:   logger,
		base:     base,
		settings: base,
	}
}

// Settings returns the conversion constants currently in effect.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// ApplySettings merges the non-zero fields of override into the settings in
// effect and returns the result.
func (s *Service) ApplySettings(override Settings) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = s.settings.Merge(override)
	return s.settings
}

// ResetSettings restores the settings the service was created with.
func (s *Service) ResetSettings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = s.base
}

// ResolveEffectiveShift resolves the shift for one employee on one date.
func (s *Service) ResolveEffectiveShift(ctx context.Context, employeeID EmployeeID, date Date) (EffectiveShift, error) {
	if employeeID == "" {
		return EffectiveShift{}, &ValidationError{Field: "employee_id", Message: "is required"}
	}
	if date.IsZero() {
		return EffectiveShift{}, &ValidationError{Field: "date", Message: "is required"}
	}

	resolver, err := s.loadShifts(ctx, employeeID, Period{Start: date, End: date})
	if err != nil {
		return EffectiveShift{}, err
	}
	return resolver.Resolve(employeeID, date), nil
}

// ComputeDailyPayslip validates the input, checks the employee exists and
// prices the range on the daily basis. An unknown employee is an input
// error on employee_id.
func (s *Service) ComputeDailyPayslip(ctx context.Context, in DailyPayslipInput) (*DailyPayslip, error) {
	if _, _, err := in.Parse(); err != nil {
		return nil, err
	}

	var (
		emp     *Employee
		history []EmployeeRate
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emp, err = s.Store.GetEmployee(gCtx, in.EmployeeID)
		return dataAccess("get employee", err)
	})
	g.Go(func() error {
		var err error
		history, err = s.Store.ListRates(gCtx, in.EmployeeID)
		return dataAccess("list rates", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, &ValidationError{Field: "employee_id", Message: "unknown employee", Err: ErrEmployeeNotFound}
	}

	slip, err := ComputeDailyPayslip(in, history)
	if err != nil {
		return nil, err
	}
	s.Logger.DebugContext(ctx, "daily payslip computed",
		slog.String("employee_id", string(in.EmployeeID)),
		slog.String("period", slip.Period.String()),
		slog.Int("days_present", slip.DaysPresent),
		slog.String("gross", slip.Gross.StringFixed(2)),
	)
	return slip, nil
}

// SummarizeRange validates the input, loads punches, rates and shift
// configuration for the range and prices every row.
func (s *Service) SummarizeRange(ctx context.Context, in SummaryInput) (*RangeSummary, error) {
	period, _, err := in.Parse()
	if err != nil {
		return nil, err
	}
	in.Settings = s.Settings().Merge(in.Settings)

	var (
		punches  []AttendancePunch
		rates    []EmployeeRate
		resolver *ShiftResolver
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		punches, err = s.Store.ListPunches(gCtx, in.EmployeeID, period.Start, period.End)
		return dataAccess("list punches", err)
	})
	g.Go(func() error {
		var err error
		rates, err = s.Store.ListRates(gCtx, in.EmployeeID)
		return dataAccess("list rates", err)
	})
	g.Go(func() error {
		var err error
		resolver, err = s.loadShifts(gCtx, in.EmployeeID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary, err := SummarizeRange(in, SummaryData{
		Punches:  punches,
		Rates:    rates,
		Shifts:   resolver,
		Location: s.Location,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.DebugContext(ctx, "range summary computed",
		slog.String("employee_id", string(in.EmployeeID)),
		slog.String("period", period.String()),
		slog.Int("rows", summary.Totals.Count),
		slog.String("gross", summary.Totals.Gross.StringFixed(2)),
	)
	return summary, nil
}

func (s *Service) loadShifts(ctx context.Context, employeeID EmployeeID, period Period) (*ShiftResolver, error) {
	var (
		shifts    []ShiftDefinition
		overrides []ShiftOverride
		weekly    []WeeklyShiftAssignment
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shifts, err = s.Store.ListShifts(gCtx)
		return dataAccess("list shifts", err)
	})
	g.Go(func() error {
		var err error
		overrides, err = s.Store.ListOverrides(gCtx, employeeID, period.Start, period.End)
		return dataAccess("list shift overrides", err)
	})
	g.Go(func() error {
		var err error
		weekly, err = s.Store.ListWeeklyAssignments(gCtx, employeeID)
		return dataAccess("list weekly assignments", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewShiftResolver(shifts, overrides, weekly), nil
}
