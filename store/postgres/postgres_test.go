package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
	"github.com/erwinmanzano2020/Agui-sub001/store/postgres"
)

// newTestStore connects to TEST_DATABASE_URL and clears every table.
// Tests skip when the variable is unset.
func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := postgres.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Reset(ctx))
	return store
}

func date(s string) payroll.Date { return payroll.MustParseDate(s) }

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := payroll.ShiftID("day")
	start, _ := payroll.ParseClockTime("07:00")
	end, _ := payroll.ParseClockTime("17:00")
	grace := 30
	in := time.Date(2025, 10, 9, 7, 5, 0, 0, time.UTC)
	out := time.Date(2025, 10, 9, 18, 10, 0, 0, time.UTC)

	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{ID: "emp-1", Name: "Alice"}))
	require.NoError(t, store.SaveShift(ctx, payroll.ShiftDefinition{ID: day, StartTime: &start, EndTime: &end, OTGraceMinutes: &grace}))
	require.NoError(t, store.SaveWeeklyAssignment(ctx, payroll.WeeklyShiftAssignment{EmployeeID: "emp-1", DayOfWeek: 4, ShiftID: &day}))
	require.NoError(t, store.SaveOverride(ctx, payroll.ShiftOverride{EmployeeID: "emp-1", Date: date("2025-10-10")}))
	require.NoError(t, store.SavePunch(ctx, payroll.AttendancePunch{EmployeeID: "emp-1", WorkDate: date("2025-10-09"), TimeIn: &in, TimeOut: &out}))
	first, err := store.AppendRate(ctx, payroll.EmployeeRate{EmployeeID: "emp-1", EffectiveDate: date("2025-10-01"), Basis: payroll.BasisDaily, Amount: decimal.NewFromInt(600)})
	require.NoError(t, err)
	second, err := store.AppendRate(ctx, payroll.EmployeeRate{EmployeeID: "emp-1", EffectiveDate: date("2025-10-01"), Basis: payroll.BasisDaily, Amount: decimal.NewFromInt(630)})
	require.NoError(t, err)
	assert.Greater(t, second.Seq, first.Seq)

	overrides, err := store.ListOverrides(ctx, "emp-1", date("2025-10-01"), date("2025-10-15"))
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Nil(t, overrides[0].ShiftID)

	punches, err := store.ListPunches(ctx, "emp-1", date("2025-10-01"), date("2025-10-15"))
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.True(t, punches[0].TimeIn.Equal(in))

	svc := payroll.NewService(store, payroll.Settings{}, time.UTC, nil)
	summary, err := svc.SummarizeRange(ctx, payroll.SummaryInput{From: "2025-10-01", To: "2025-10-15"})
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, 595, summary.Rows[0].Minutes.Regular)
	assert.Equal(t, 70, summary.Rows[0].Minutes.OT)
	assert.True(t, summary.Rows[0].Pay.Equal(decimal.NewFromInt(665)))
}

func TestStore_Runs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	period := payroll.Period{Start: date("2025-10-01"), End: date("2025-10-15")}

	require.NoError(t, store.SaveRun(ctx, payroll.PayrollRun{
		ID: "run-1", Period: period, Status: payroll.RunCompleted, Count: 1,
		Gross:     decimal.RequireFromString("665"),
		ByBasis:   map[payroll.Basis]decimal.Decimal{payroll.BasisDaily: decimal.RequireFromString("665")},
		CreatedAt: time.Now(),
	}))

	done, err := store.IsRunComplete(ctx, period)
	require.NoError(t, err)
	assert.True(t, done)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].ByBasis[payroll.BasisDaily].Equal(decimal.NewFromInt(665)))
}
