package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinmanzano2020/Agui-sub001/export"
	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

func period() payroll.Period {
	return payroll.Period{Start: payroll.MustParseDate("2025-10-01"), End: payroll.MustParseDate("2025-10-15")}
}

func TestWritePayslip(t *testing.T) {
	slip := &payroll.DailyPayslip{
		EmployeeID: "emp-1",
		Basis:      payroll.BasisDaily,
		Period:     period(),
		Breakdown: []payroll.PayslipBreakdownEntry{
			{Date: payroll.MustParseDate("2025-10-01"), Rate: decimal.NewFromInt(500), IsPresent: true, Pay: decimal.NewFromInt(500)},
			{Date: payroll.MustParseDate("2025-10-02"), Rate: decimal.NewFromInt(500), Pay: decimal.Zero},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WritePayslip(&buf, slip))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "employee_id,date,basis,rate,is_present,pay", lines[0])
	assert.Equal(t, "emp-1,2025-10-01,daily,500.00,true,500.00", lines[1])
	assert.Equal(t, "emp-1,2025-10-02,daily,500.00,false,0.00", lines[2])
}

func TestWriteSummary(t *testing.T) {
	shift := payroll.ShiftDefinition{ID: "day"}
	summary := &payroll.RangeSummary{
		Period: period(),
		Rows: []payroll.SummaryRow{
			{
				EmployeeID:       "emp-1",
				Date:             payroll.MustParseDate("2025-10-09"),
				Shift:            payroll.EffectiveShift{Shift: &shift, Source: payroll.SourceWeekly},
				Minutes:          payroll.MinuteSplit{Regular: 595, OT: 70, Total: 665, LateMinutes: 5},
				Basis:            payroll.BasisDaily,
				RateApplied:      true,
				HourlyEquivalent: decimal.RequireFromString("78.75"),
				Pay:              decimal.NewFromInt(665),
			},
			{
				EmployeeID: "emp-2",
				Date:       payroll.MustParseDate("2025-10-11"),
				Shift:      payroll.EffectiveShift{Source: payroll.SourceNone},
				Minutes:    payroll.MinuteSplit{OT: 480, Total: 480},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteSummary(&buf, summary))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,employee_id,shift_id,shift_source,regular_min,ot_min,total_min,late_min,undertime_min,basis,rate_applied,hourly_equivalent,units,pay", lines[0])
	assert.Equal(t, "2025-10-09,emp-1,day,weekly,595,70,665,5,0,daily,true,78.7500,0,665.00", lines[1])
	assert.Equal(t, "2025-10-11,emp-2,,none,0,480,480,0,0,,false,0.0000,0,0.00", lines[2])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "payslip_emp-1_2025-10-01_2025-10-15.csv", export.Filename("payslip", "emp-1", period()))
	assert.Equal(t, "summary_2025-10-01_2025-10-15.csv", export.Filename("summary", "", period()))
	assert.Equal(t, "payslip_a_b_c_2025-10-01_2025-10-15.csv", export.Filename("payslip", "a/b c", period()))
}
