package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// =============================================================================
// DAILY PAYSLIP TESTS
// =============================================================================

func TestComputeDailyPayslip_OnePresentDay(t *testing.T) {
	// GIVEN: Daily rate 500.00 effective 2025-10-01
	// WHEN: Range 2025-10-08..2025-10-10, present on 2025-10-09 only
	// THEN: Three rows, one present, gross 500.00

	history := []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisDaily, "500.00", 1)}

	slip, err := payroll.ComputeDailyPayslip(payroll.DailyPayslipInput{
		EmployeeID:  "emp-1",
		From:        "2025-10-08",
		To:          "2025-10-10",
		PresentDays: []string{"2025-10-09"},
	}, history)
	require.NoError(t, err)

	assert.Equal(t, payroll.BasisDaily, slip.Basis)
	assert.Equal(t, "[2025-10-08, 2025-10-10]", slip.Period.String())
	assert.Equal(t, 1, slip.DaysPresent)
	assertMoney(t, "500.00", slip.Gross)

	require.Len(t, slip.Breakdown, 3)
	for i, want := range []struct {
		date    string
		present bool
		pay     string
	}{
		{"2025-10-08", false, "0"},
		{"2025-10-09", true, "500"},
		{"2025-10-10", false, "0"},
	} {
		entry := slip.Breakdown[i]
		assert.Equal(t, want.date, entry.Date.String())
		assert.Equal(t, want.present, entry.IsPresent)
		assertMoney(t, "500", entry.Rate, "absent days still show the rate")
		assertMoney(t, want.pay, entry.Pay)
	}
}

func TestComputeDailyPayslip_RateChangeMidRange(t *testing.T) {
	history := []payroll.EmployeeRate{
		rate("emp-1", "2025-09-01", payroll.BasisDaily, "450.00", 1),
		rate("emp-1", "2025-10-10", payroll.BasisDaily, "500.00", 2),
	}

	slip, err := payroll.ComputeDailyPayslip(payroll.DailyPayslipInput{
		EmployeeID:  "emp-1",
		From:        "2025-10-08",
		To:          "2025-10-10",
		PresentDays: []string{"2025-10-08", "2025-10-10"},
	}, history)
	require.NoError(t, err)

	assertMoney(t, "950.00", slip.Gross)
	assertMoney(t, "450", slip.Breakdown[0].Rate)
	assertMoney(t, "500", slip.Breakdown[2].Rate)
}

func TestComputeDailyPayslip_NoRateIsZeroNotError(t *testing.T) {
	history := []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisHourly, "80", 1)}

	slip, err := payroll.ComputeDailyPayslip(payroll.DailyPayslipInput{
		EmployeeID:  "emp-1",
		From:        "2025-10-09",
		To:          "2025-10-09",
		PresentDays: []string{"2025-10-09"},
	}, history)
	require.NoError(t, err)

	assert.Equal(t, 1, slip.DaysPresent)
	assert.True(t, slip.Gross.IsZero())
	assert.True(t, slip.Breakdown[0].Rate.IsZero())
}

func TestComputeDailyPayslip_PresentOnly(t *testing.T) {
	history := []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisDaily, "500.00", 1)}

	slip, err := payroll.ComputeDailyPayslip(payroll.DailyPayslipInput{
		EmployeeID:  "emp-1",
		From:        "2025-10-01",
		To:          "2025-10-15",
		PresentDays: []string{"2025-10-03", "2025-10-09"},
		PresentOnly: true,
	}, history)
	require.NoError(t, err)

	require.Len(t, slip.Breakdown, 2)
	assert.Equal(t, "2025-10-03", slip.Breakdown[0].Date.String())
	assert.Equal(t, "2025-10-09", slip.Breakdown[1].Date.String())
	assertMoney(t, "1000.00", slip.Gross)
}

func TestComputeDailyPayslip_PresentDaysDeduplicatedAndClipped(t *testing.T) {
	history := []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisDaily, "500.00", 1)}

	slip, err := payroll.ComputeDailyPayslip(payroll.DailyPayslipInput{
		EmployeeID:  "emp-1",
		From:        "2025-10-08",
		To:          "2025-10-10",
		PresentDays: []string{"2025-10-09", "2025-10-09", "2025-10-20"},
	}, history)
	require.NoError(t, err)

	assert.Equal(t, 1, slip.DaysPresent)
	assertMoney(t, "500.00", slip.Gross)
}

func TestComputeDailyPayslip_SingleDayRange(t *testing.T) {
	slip, err := payroll.ComputeDailyPayslip(payroll.DailyPayslipInput{
		EmployeeID: "emp-1",
		From:       "2025-10-09",
		To:         "2025-10-09",
	}, nil)
	require.NoError(t, err)

	assert.Len(t, slip.Breakdown, 1)
	assert.Equal(t, 0, slip.DaysPresent)
	assert.True(t, slip.Gross.IsZero())
}

func TestComputeDailyPayslip_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    payroll.DailyPayslipInput
		field string
	}{
		{"missing employee", payroll.DailyPayslipInput{From: "2025-10-01", To: "2025-10-02"}, "employee_id"},
		{"blank employee", payroll.DailyPayslipInput{EmployeeID: "  ", From: "2025-10-01", To: "2025-10-02"}, "employee_id"},
		{"missing from", payroll.DailyPayslipInput{EmployeeID: "emp-1", To: "2025-10-02"}, "from"},
		{"bad to", payroll.DailyPayslipInput{EmployeeID: "emp-1", From: "2025-10-01", To: "10/02/2025"}, "to"},
		{"inverted range", payroll.DailyPayslipInput{EmployeeID: "emp-1", From: "2025-10-10", To: "2025-10-01"}, "to"},
		{"bad present day", payroll.DailyPayslipInput{EmployeeID: "emp-1", From: "2025-10-01", To: "2025-10-02", PresentDays: []string{"yesterday"}}, "present_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payroll.ComputeDailyPayslip(tt.in, nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, payroll.ErrInvalidInput)
			var verr *payroll.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
