package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

func punch(emp, date, in, out string) payroll.AttendancePunch {
	return payroll.AttendancePunch{
		EmployeeID: payroll.EmployeeID(emp),
		WorkDate:   payroll.MustParseDate(date),
		TimeIn:     at(date, in),
		TimeOut:    at(date, out),
	}
}

// weekdayResolver gives every listed employee the 07:00-17:00 day shift
// with a 30 minute grace window, Monday through Friday.
func weekdayResolver(emps ...string) *payroll.ShiftResolver {
	var assignments []payroll.WeeklyShiftAssignment
	for _, e := range emps {
		assignments = append(assignments, weekdays(e, "day", 1, 2, 3, 4, 5)...)
	}
	return payroll.NewShiftResolver([]payroll.ShiftDefinition{dayShift("day", "07:00", "17:00", 30)}, nil, assignments)
}

// =============================================================================
// BASIS SELECTION IN SUMMARIES
// =============================================================================

func TestSummarizeRange_MonthlyPreferredOverHourly(t *testing.T) {
	// GIVEN: Monthly 26000 and hourly 100, both effective
	// WHEN: A full 07:00-17:00 day is summarized without a preference
	// THEN: Monthly pricing is used: 600/630 of a 1000.00 day

	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{punch("emp-1", "2025-10-09", "07:00", "17:00")},
		Rates: []payroll.EmployeeRate{
			rate("emp-1", "2025-10-01", payroll.BasisMonthly, "26000", 1),
			rate("emp-1", "2025-10-01", payroll.BasisHourly, "100", 2),
		},
		Shifts: weekdayResolver("emp-1"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-01", To: "2025-10-15"}, data)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	row := summary.Rows[0]
	assert.Equal(t, payroll.BasisMonthly, row.Basis)
	assert.True(t, row.RateApplied)
	assert.Equal(t, 600, row.Minutes.Regular)
	assertMoney(t, "952.38", row.Pay)
	assertMoney(t, "125", row.HourlyEquivalent)
	assert.Len(t, row.Rates, 2)
	assertMoney(t, "100", row.Rates[payroll.BasisHourly])

	assertMoney(t, "952.38", summary.Totals.Gross)
	assertMoney(t, "952.38", summary.Totals.ByBasis[payroll.BasisMonthly])
	assert.Equal(t, 1, summary.Totals.Count)
}

func TestSummarizeRange_PreferBasis(t *testing.T) {
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{punch("emp-1", "2025-10-09", "07:00", "17:00")},
		Rates: []payroll.EmployeeRate{
			rate("emp-1", "2025-10-01", payroll.BasisMonthly, "26000", 1),
			rate("emp-1", "2025-10-01", payroll.BasisHourly, "100", 2),
		},
		Shifts: weekdayResolver("emp-1"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-09", To: "2025-10-09", PreferBasis: "hourly"}, data)
	require.NoError(t, err)

	assert.Equal(t, payroll.BasisHourly, summary.Rows[0].Basis)
	assertMoney(t, "1000.00", summary.Rows[0].Pay)
}

func TestSummarizeRange_PreferredBasisWithoutRate_ZeroPayKept(t *testing.T) {
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{punch("emp-1", "2025-10-09", "07:00", "17:00")},
		Rates:   []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisHourly, "100", 1)},
		Shifts:  weekdayResolver("emp-1"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-09", To: "2025-10-09", PreferBasis: "piece"}, data)
	require.NoError(t, err)

	row := summary.Rows[0]
	assert.Equal(t, payroll.BasisPiece, row.Basis)
	assert.False(t, row.RateApplied)
	assert.True(t, row.Pay.IsZero())
	assert.Contains(t, summary.Totals.ByBasis, payroll.BasisPiece)
	assert.Equal(t, 1, summary.Totals.Count)
}

func TestSummarizeRange_NoRate_RowKeptOutsideByBasis(t *testing.T) {
	// GIVEN: An attendance row for an employee with no rate history
	// THEN: The row is counted with zero pay and no basis

	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{
			punch("emp-1", "2025-10-09", "07:00", "17:00"),
			punch("emp-2", "2025-10-09", "07:00", "17:00"),
		},
		Rates:  []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisDaily, "630", 1)},
		Shifts: weekdayResolver("emp-1", "emp-2"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-09", To: "2025-10-09"}, data)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 2)
	noRate := summary.Rows[1]
	assert.Equal(t, payroll.EmployeeID("emp-2"), noRate.EmployeeID)
	assert.Equal(t, payroll.Basis(""), noRate.Basis)
	assert.False(t, noRate.RateApplied)
	assert.True(t, noRate.Pay.IsZero())
	assert.Empty(t, noRate.Rates)

	assert.Equal(t, 2, summary.Totals.Count)
	assert.Len(t, summary.Totals.ByBasis, 1)
	assertMoney(t, "600.00", summary.Totals.Gross)
}

// =============================================================================
// MINUTES & SHIFTS IN SUMMARIES
// =============================================================================

func TestSummarizeRange_RestDayWork_AllOvertime(t *testing.T) {
	// GIVEN: No Tuesday assignment
	// WHEN: 08:00-16:00 worked on Tuesday 2025-10-07 at 80.00/hour
	// THEN: Regular 0, OT 480, paid 640.00

	resolver := payroll.NewShiftResolver(
		[]payroll.ShiftDefinition{dayShift("day", "07:00", "17:00", 30)},
		nil,
		weekdays("emp-1", "day", 1, 3, 4, 5),
	)
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{punch("emp-1", "2025-10-07", "08:00", "16:00")},
		Rates:   []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisHourly, "80", 1)},
		Shifts:  resolver,
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-06", To: "2025-10-10"}, data)
	require.NoError(t, err)

	row := summary.Rows[0]
	assert.True(t, row.Shift.IsRestDay())
	assert.Equal(t, 0, row.Minutes.Regular)
	assert.Equal(t, 480, row.Minutes.OT)
	assert.Equal(t, 480, row.Minutes.Total)
	assertMoney(t, "640.00", row.Pay)
}

func TestSummarizeRange_NilResolverMeansRestDay(t *testing.T) {
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{punch("emp-1", "2025-10-09", "08:00", "09:00")},
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-09", To: "2025-10-09"}, data)
	require.NoError(t, err)

	assert.True(t, summary.Rows[0].Shift.IsRestDay())
	assert.Equal(t, 60, summary.Rows[0].Minutes.OT)
}

func TestSummarizeRange_RecordedMinutesAndAbsentRows(t *testing.T) {
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{
			{EmployeeID: "emp-1", WorkDate: payroll.MustParseDate("2025-10-08"), RecordedMinutes: ptr(315)},
			{EmployeeID: "emp-1", WorkDate: payroll.MustParseDate("2025-10-09")},
		},
		Rates:  []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisDaily, "630", 1)},
		Shifts: weekdayResolver("emp-1"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-08", To: "2025-10-09"}, data)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 2)
	assert.Equal(t, 315, summary.Rows[0].Minutes.Regular)
	assertMoney(t, "315.00", summary.Rows[0].Pay)
	assert.Equal(t, payroll.MinuteSplit{}, summary.Rows[1].Minutes)
	assert.True(t, summary.Rows[1].Pay.IsZero())
	assert.Equal(t, 2, summary.Totals.Count)
}

func TestSummarizeRange_PieceRate(t *testing.T) {
	p := punch("emp-1", "2025-10-09", "07:00", "16:00")
	p.Units = dec("40")
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{p},
		Rates:   []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisPiece, "12.50", 1)},
		Shifts:  weekdayResolver("emp-1"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-09", To: "2025-10-09", PreferBasis: "piece"}, data)
	require.NoError(t, err)

	assertMoney(t, "500.00", summary.Rows[0].Pay)
	assertMoney(t, "40", summary.Rows[0].Units)
	assert.True(t, summary.Rows[0].HourlyEquivalent.IsZero())
}

func TestSummarizeRange_HoursPerDayOverride(t *testing.T) {
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{punch("emp-1", "2025-10-09", "07:00", "17:00")},
		Rates:   []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisDaily, "640", 1)},
		Shifts:  weekdayResolver("emp-1"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{
		From:     "2025-10-09",
		To:       "2025-10-09",
		Settings: payroll.Settings{HoursPerDay: dec("10")},
	}, data)
	require.NoError(t, err)

	assertMoney(t, "64", summary.Rows[0].HourlyEquivalent)
}

func TestSummarizeRange_ShiftTimesInLocation(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	in := time.Date(2025, 10, 8, 23, 5, 0, 0, time.UTC)
	out := time.Date(2025, 10, 9, 10, 10, 0, 0, time.UTC) // 18:10 PHT
	data := payroll.SummaryData{
		Punches:  []payroll.AttendancePunch{{EmployeeID: "emp-1", WorkDate: thursday, TimeIn: &in, TimeOut: &out}},
		Shifts:   weekdayResolver("emp-1"),
		Location: manila,
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-09", To: "2025-10-09"}, data)
	require.NoError(t, err)

	assert.Equal(t, 595, summary.Rows[0].Minutes.Regular)
	assert.Equal(t, 70, summary.Rows[0].Minutes.OT)
}

// =============================================================================
// FILTERING & ORDERING
// =============================================================================

func TestSummarizeRange_OrderedByDateThenEmployee(t *testing.T) {
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{
			punch("emp-2", "2025-10-09", "07:00", "17:00"),
			punch("emp-1", "2025-10-10", "07:00", "17:00"),
			punch("emp-1", "2025-10-09", "07:00", "17:00"),
			punch("emp-3", "2025-10-08", "07:00", "17:00"),
		},
		Shifts: weekdayResolver("emp-1", "emp-2", "emp-3"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-08", To: "2025-10-10"}, data)
	require.NoError(t, err)

	var got []string
	for _, r := range summary.Rows {
		got = append(got, r.Date.String()+"/"+string(r.EmployeeID))
	}
	assert.Equal(t, []string{
		"2025-10-08/emp-3",
		"2025-10-09/emp-1",
		"2025-10-09/emp-2",
		"2025-10-10/emp-1",
	}, got)
}

func TestSummarizeRange_FiltersRangeAndEmployee(t *testing.T) {
	data := payroll.SummaryData{
		Punches: []payroll.AttendancePunch{
			punch("emp-1", "2025-09-30", "07:00", "17:00"),
			punch("emp-1", "2025-10-01", "07:00", "17:00"),
			punch("emp-2", "2025-10-01", "07:00", "17:00"),
			punch("emp-1", "2025-10-16", "07:00", "17:00"),
		},
		Shifts: weekdayResolver("emp-1", "emp-2"),
	}

	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-01", To: "2025-10-15", EmployeeID: "emp-1"}, data)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, "2025-10-01", summary.Rows[0].Date.String())
}

func TestSummarizeRange_EmptyRangeHasZeroTotals(t *testing.T) {
	summary, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-01", To: "2025-10-15"}, payroll.SummaryData{})
	require.NoError(t, err)

	assert.NotNil(t, summary.Rows)
	assert.Empty(t, summary.Rows)
	assert.True(t, summary.Totals.Gross.IsZero())
	assert.Equal(t, 0, summary.Totals.Count)
}

func TestSummarizeRange_Validation(t *testing.T) {
	_, err := payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-01", To: "2025-10-15", PreferBasis: "weekly"}, payroll.SummaryData{})
	var verr *payroll.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "prefer_basis", verr.Field)

	_, err = payroll.SummarizeRange(payroll.SummaryInput{From: "2025-10-15", To: "2025-10-01"}, payroll.SummaryData{})
	assert.ErrorIs(t, err, payroll.ErrInvalidInput)
}
