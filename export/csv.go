// Package export renders payslips and range summaries as CSV.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// PayslipLine is one CSV row of a daily-basis payslip.
type PayslipLine struct {
	EmployeeID string `csv:"employee_id"`
	Date       string `csv:"date"`
	Basis      string `csv:"basis"`
	Rate       string `csv:"rate"`
	Present    bool   `csv:"is_present"`
	Pay        string `csv:"pay"`
}

// SummaryLine is one CSV row of a range summary.
type SummaryLine struct {
	Date             string `csv:"date"`
	EmployeeID       string `csv:"employee_id"`
	ShiftID          string `csv:"shift_id"`
	ShiftSource      string `csv:"shift_source"`
	Regular          int    `csv:"regular_min"`
	OT               int    `csv:"ot_min"`
	Total            int    `csv:"total_min"`
	Late             int    `csv:"late_min"`
	Undertime        int    `csv:"undertime_min"`
	Basis            string `csv:"basis"`
	RateApplied      bool   `csv:"rate_applied"`
	HourlyEquivalent string `csv:"hourly_equivalent"`
	Units            string `csv:"units"`
	Pay              string `csv:"pay"`
}

// PayslipLines flattens a payslip into CSV rows.
func PayslipLines(slip *payroll.DailyPayslip) []PayslipLine {
	lines := make([]PayslipLine, 0, len(slip.Breakdown))
	for _, e := range slip.Breakdown {
		lines = append(lines, PayslipLine{
			EmployeeID: string(slip.EmployeeID),
			Date:       e.Date.String(),
			Basis:      string(slip.Basis),
			Rate:       e.Rate.StringFixed(2),
			Present:    e.IsPresent,
			Pay:        e.Pay.StringFixed(2),
		})
	}
	return lines
}

// SummaryLines flattens a range summary into CSV rows.
func SummaryLines(summary *payroll.RangeSummary) []SummaryLine {
	lines := make([]SummaryLine, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		line := SummaryLine{
			Date:             r.Date.String(),
			EmployeeID:       string(r.EmployeeID),
			ShiftSource:      string(r.Shift.Source),
			Regular:          r.Minutes.Regular,
			OT:               r.Minutes.OT,
			Total:            r.Minutes.Total,
			Late:             r.Minutes.LateMinutes,
			Undertime:        r.Minutes.UndertimeMinutes,
			Basis:            string(r.Basis),
			RateApplied:      r.RateApplied,
			HourlyEquivalent: r.HourlyEquivalent.StringFixed(4),
			Units:            r.Units.String(),
			Pay:              r.Pay.StringFixed(2),
		}
		if r.Shift.Shift != nil {
			line.ShiftID = string(r.Shift.Shift.ID)
		}
		lines = append(lines, line)
	}
	return lines
}

// WritePayslip writes the payslip breakdown as CSV with a header row.
func WritePayslip(w io.Writer, slip *payroll.DailyPayslip) error {
	lines := PayslipLines(slip)
	if err := gocsv.Marshal(&lines, w); err != nil {
		return fmt.Errorf("failed to write payslip csv: %w", err)
	}
	return nil
}

// WriteSummary writes the summary rows as CSV with a header row.
func WriteSummary(w io.Writer, summary *payroll.RangeSummary) error {
	lines := SummaryLines(summary)
	if err := gocsv.Marshal(&lines, w); err != nil {
		return fmt.Errorf("failed to write summary csv: %w", err)
	}
	return nil
}

// Filename builds a download name such as "payslip_emp-1_2025-10-01_2025-10-15.csv".
func Filename(kind string, employeeID payroll.EmployeeID, period payroll.Period) string {
	name := kind
	if employeeID != "" {
		name += "_" + strings.Map(safeRune, string(employeeID))
	}
	return name + "_" + period.Start.String() + "_" + period.End.String() + ".csv"
}

func safeRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		return r
	}
	return '_'
}
