package api_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinmanzano2020/Agui-sub001/api"
	"github.com/erwinmanzano2020/Agui-sub001/payroll"
	"github.com/erwinmanzano2020/Agui-sub001/payroll/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// brokenRates fails every rate lookup so summaries fail.
type brokenRates struct {
	*store.Memory
}

func (b brokenRates) ListRates(ctx context.Context, employeeID payroll.EmployeeID) ([]payroll.EmployeeRate, error) {
	return nil, errors.New("rates table unavailable")
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

// =============================================================================
// SCHEDULER TESTS
// =============================================================================

func TestScheduler_ClosedPeriod(t *testing.T) {
	svc := payroll.NewService(store.NewMemory(), payroll.Settings{}, time.UTC, nil)
	s := api.NewPayrollRunScheduler(svc, store.NewMemory(), nil)

	s.Now = fixedClock("2025-10-20T09:00:00Z")
	assert.Equal(t, "[2025-10-01, 2025-10-15]", s.ClosedPeriod().String())

	s.Now = fixedClock("2025-10-03T09:00:00Z")
	assert.Equal(t, "[2025-09-16, 2025-09-30]", s.ClosedPeriod().String())
}

func TestScheduler_ClosedPeriodUsesPayrollZone(t *testing.T) {
	// GIVEN: 2025-10-15T20:00Z, already the 16th in Manila
	// THEN: The first October cut-off counts as closed

	manila := time.FixedZone("PHT", 8*60*60)
	svc := payroll.NewService(store.NewMemory(), payroll.Settings{}, manila, nil)
	s := api.NewPayrollRunScheduler(svc, store.NewMemory(), nil)
	s.Now = fixedClock("2025-10-15T20:00:00Z")

	assert.Equal(t, "[2025-10-01, 2025-10-15]", s.ClosedPeriod().String())
}

func TestScheduler_RunNowRecordsOnce(t *testing.T) {
	// GIVEN: An employee with attendance in the closed cut-off
	// WHEN: The scheduler checks twice
	// THEN: Exactly one completed run is recorded

	m := seededMemory(t)
	svc := payroll.NewService(m, payroll.Settings{}, time.UTC, nil)
	s := api.NewPayrollRunScheduler(svc, m, nil)
	s.Now = fixedClock("2025-10-20T09:00:00Z")
	ctx := context.Background()

	s.RunNow(ctx)
	s.RunNow(ctx)

	runs, err := m.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, payroll.RunCompleted, runs[0].Status)
	assert.Equal(t, "scheduler", runs[0].TriggeredBy)
	assert.Equal(t, 1, runs[0].Count)
	assert.Equal(t, "665.00", runs[0].Gross.StringFixed(2))
	assert.Equal(t, "665.00", runs[0].ByBasis[payroll.BasisDaily].StringFixed(2))
}

func TestScheduler_FailedRunIsRecordedAndRetried(t *testing.T) {
	m := seededMemory(t)
	broken := brokenRates{Memory: m}
	svc := payroll.NewService(broken, payroll.Settings{}, time.UTC, nil)
	s := api.NewPayrollRunScheduler(svc, m, nil)
	s.Now = fixedClock("2025-10-20T09:00:00Z")
	ctx := context.Background()

	run, err := s.RunPeriod(ctx, s.ClosedPeriod(), "manual")
	require.Error(t, err)
	assert.True(t, payroll.IsDataAccess(err))
	assert.Equal(t, payroll.RunFailed, run.Status)
	assert.Contains(t, run.Error, "rates table unavailable")

	// A failed run does not close the period
	s.RunNow(ctx)
	runs, err := m.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestScheduler_StartDisabled(t *testing.T) {
	m := store.NewMemory()
	s := api.NewPayrollRunScheduler(payroll.NewService(m, payroll.Settings{}, nil, nil), m, nil)
	s.Enabled = false

	s.Start()
	s.Stop()

	runs, err := m.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestScheduler_StartRunsImmediately(t *testing.T) {
	m := seededMemory(t)
	s := api.NewPayrollRunScheduler(payroll.NewService(m, payroll.Settings{}, time.UTC, nil), m, nil)
	s.Now = fixedClock("2025-10-20T09:00:00Z")
	s.CheckInterval = time.Hour

	s.Start()
	require.Eventually(t, func() bool {
		done, err := m.IsRunComplete(context.Background(), s.ClosedPeriod())
		return err == nil && done
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_ConcurrentChecksRecordOnce(t *testing.T) {
	// GIVEN: An open closed cut-off
	// WHEN: Several checks race each other
	// THEN: Only one completed run is recorded for the cut-off

	m := seededMemory(t)
	s := api.NewPayrollRunScheduler(payroll.NewService(m, payroll.Settings{}, time.UTC, nil), m, nil)
	s.Now = fixedClock("2025-10-20T09:00:00Z")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RunNow(ctx)
		}()
	}
	wg.Wait()

	runs, err := m.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestScheduler_ManualRunThenCheckSkips(t *testing.T) {
	m := seededMemory(t)
	s := api.NewPayrollRunScheduler(payroll.NewService(m, payroll.Settings{}, time.UTC, nil), m, nil)
	s.Now = fixedClock("2025-10-20T09:00:00Z")
	ctx := context.Background()

	_, err := s.RunPeriod(ctx, s.ClosedPeriod(), "manual")
	require.NoError(t, err)
	s.RunNow(ctx)

	runs, err := m.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "manual", runs[0].TriggeredBy)
}

func TestScheduler_Status(t *testing.T) {
	// GIVEN: A scheduler with a 15 minute interval and a fixed clock
	// THEN: The next check is reported only while running, and the start
	//       log line carries it

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := seededMemory(t)
	s := api.NewPayrollRunScheduler(payroll.NewService(m, payroll.Settings{}, time.UTC, nil), m, logger)
	s.Now = fixedClock("2025-10-20T09:00:00Z")
	s.CheckInterval = 15 * time.Minute

	stopped := s.Status()
	assert.True(t, stopped.Enabled)
	assert.False(t, stopped.Running)
	assert.Nil(t, stopped.NextCheckAt)
	assert.Equal(t, "15m0s", stopped.CheckInterval)

	s.Start()
	running := s.Status()
	s.Stop()

	assert.True(t, running.Running)
	require.NotNil(t, running.NextCheckAt)
	assert.Equal(t, "2025-10-20T09:15:00Z", running.NextCheckAt.Format(time.RFC3339))
	assert.Contains(t, buf.String(), `"next_check_at":"2025-10-20T09:15:00Z"`)
	assert.Nil(t, s.Status().NextCheckAt)
}
