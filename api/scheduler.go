/*
scheduler.go - Automated payroll run scheduler

PURPOSE:
  Periodically checks whether the most recently closed semi-monthly cut-off
  (1st-15th or 16th-end of month) has a recorded payroll run and, if not,
  computes the range summary for every employee and records it.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - The closed cut-off is derived from "today" in the payroll time zone
  - Skips periods that already have a completed run
  - A failed summary is recorded as a failed run and retried next tick
  - Manual runs and scheduled checks are serialized

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPayrollRunScheduler(svc, store, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerPayrollRun endpoint (manual run), GetSchedulerStatus
  - payroll/period.go: SemiMonthlyPeriodFor
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// PayrollRunScheduler records bulk summaries for closed cut-offs.
type PayrollRunScheduler struct {
	Service       *payroll.Service
	Runs          payroll.RunStore
	Logger        *slog.Logger
	CheckInterval time.Duration
	Enabled       bool

	// Now is the clock; tests replace it.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// runMu serializes the completeness check and the recorded run.
	runMu sync.Mutex
}

// NewPayrollRunScheduler creates a new scheduler.
func NewPayrollRunScheduler(svc *payroll.Service, runs payroll.RunStore, logger *slog.Logger) *PayrollRunScheduler {
	if logger == nil {
		logger = svc.Logger
	}
	return &PayrollRunScheduler{
		Service:       svc,
		Runs:          runs,
		Logger:        logger.With(slog.String("component", "scheduler")),
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (s *PayrollRunScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("scheduler disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	s.Logger.Info("scheduler started",
		slog.Duration("interval", s.CheckInterval),
		slog.Time("next_check_at", s.nextCheckAt()),
	)
}

// Stop stops the scheduler and waits for an in-flight check to finish.
func (s *PayrollRunScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.Logger.Info("scheduler stopped")
	}
}

func (s *PayrollRunScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.checkAndProcess(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.checkAndProcess(context.Background())
		case <-s.stop:
			return
		}
	}
}

// ClosedPeriod returns the latest cut-off that has fully ended.
func (s *PayrollRunScheduler) ClosedPeriod() payroll.Period {
	today := payroll.DateOf(s.Now().In(s.Service.Location))
	return payroll.SemiMonthlyPeriodFor(today).PreviousPeriod()
}

func (s *PayrollRunScheduler) checkAndProcess(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	period := s.ClosedPeriod()

	done, err := s.Runs.IsRunComplete(ctx, period)
	if err != nil {
		s.Logger.ErrorContext(ctx, "failed to check payroll run", slog.String("period", period.String()), slog.Any("error", err))
		return
	}
	if done {
		s.Logger.DebugContext(ctx, "payroll run already recorded", slog.String("period", period.String()))
		return
	}

	if _, err := s.runPeriod(ctx, period, "scheduler"); err != nil {
		s.Logger.ErrorContext(ctx, "payroll run failed", slog.String("period", period.String()), slog.Any("error", err))
	}
}

// RunPeriod summarizes period for every employee and records the outcome.
// The run is recorded even when the summary fails; the summary error is
// returned alongside it. Runs never overlap a scheduled check.
func (s *PayrollRunScheduler) RunPeriod(ctx context.Context, period payroll.Period, triggeredBy string) (payroll.PayrollRun, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.runPeriod(ctx, period, triggeredBy)
}

func (s *PayrollRunScheduler) runPeriod(ctx context.Context, period payroll.Period, triggeredBy string) (payroll.PayrollRun, error) {
	run := payroll.PayrollRun{
		ID:          uuid.NewString(),
		Period:      period,
		Status:      payroll.RunCompleted,
		TriggeredBy: triggeredBy,
		CreatedAt:   s.Now().UTC(),
	}

	summary, sumErr := s.Service.SummarizeRange(ctx, payroll.SummaryInput{
		From: period.Start.String(),
		To:   period.End.String(),
	})
	if sumErr != nil {
		run.Status = payroll.RunFailed
		run.Error = sumErr.Error()
	} else {
		run.Count = summary.Totals.Count
		run.Gross = summary.Totals.Gross
		run.ByBasis = summary.Totals.ByBasis
	}

	if err := s.Runs.SaveRun(ctx, run); err != nil {
		return run, err
	}
	if sumErr != nil {
		return run, sumErr
	}

	s.Logger.InfoContext(ctx, "payroll run recorded",
		slog.String("run_id", run.ID),
		slog.String("period", period.String()),
		slog.Int("rows", run.Count),
		slog.String("gross", run.Gross.StringFixed(2)),
		slog.String("triggered_by", triggeredBy),
	)
	return run, nil
}

// RunNow triggers an immediate check (for testing/admin).
func (s *PayrollRunScheduler) RunNow(ctx context.Context) {
	s.checkAndProcess(ctx)
}

// SchedulerStatus describes the background scheduler.
type SchedulerStatus struct {
	Enabled       bool       `json:"enabled"`
	Running       bool       `json:"running"`
	CheckInterval string     `json:"check_interval"`
	NextCheckAt   *time.Time `json:"next_check_at"`
}

// Status reports whether the scheduler is running and when it checks next.
// NextCheckAt is nil while stopped.
func (s *PayrollRunScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SchedulerStatus{
		Enabled:       s.Enabled,
		Running:       s.ticker != nil,
		CheckInterval: s.CheckInterval.String(),
	}
	if status.Running {
		next := s.nextCheckAt()
		status.NextCheckAt = &next
	}
	return status
}

func (s *PayrollRunScheduler) nextCheckAt() time.Time {
	return s.Now().Add(s.CheckInterval).UTC()
}
