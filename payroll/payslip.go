package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAILY-BASIS PAYSLIP
// =============================================================================

// DailyPayslipInput is the raw request for a daily-basis payslip.
// PresentDays is caller-supplied (manual/override workflow); it is not
// derived from punches. With PresentOnly the breakdown lists only present
// dates inside the range instead of every date.
type DailyPayslipInput struct {
	EmployeeID  EmployeeID
	From        string
	To          string
	PresentDays []string
	PresentOnly bool
}

// Parse validates the input and returns the range and the de-duplicated
// set of present dates.
func (in DailyPayslipInput) Parse() (Period, map[Date]bool, error) {
	if strings.TrimSpace(string(in.EmployeeID)) == "" {
		return Period{}, nil, &ValidationError{Field: "employee_id", Message: "is required"}
	}
	period, err := ParsePeriod(in.From, in.To)
	if err != nil {
		return Period{}, nil, err
	}
	present := make(map[Date]bool, len(in.PresentDays))
	for _, s := range in.PresentDays {
		d, err := ParseDate(s)
		if err != nil {
			return Period{}, nil, &ValidationError{Field: "present_days", Message: err.Error()}
		}
		present[d] = true
	}
	return period, present, nil
}

// ComputeDailyPayslip prices each date of the range at its as-of daily rate.
// A present date pays its rate; an absent date pays zero. A date without a
// resolvable daily rate shows rate 0 and never fails.
func ComputeDailyPayslip(in DailyPayslipInput, history []EmployeeRate) (*DailyPayslip, error) {
	period, present, err := in.Parse()
	if err != nil {
		return nil, err
	}

	slip := &DailyPayslip{
		EmployeeID: in.EmployeeID,
		Basis:      BasisDaily,
		Period:     period,
		Gross:      decimal.Zero,
		Breakdown:  []PayslipBreakdownEntry{},
	}

	for _, day := range period.Days() {
		isPresent := present[day]
		if in.PresentOnly && !isPresent {
			continue
		}

		rate, _ := ResolveAsOfRate(history, BasisDaily, day)
		rate = clampMoney(rate)

		pay := decimal.Zero
		if isPresent {
			pay = rate
			slip.DaysPresent++
		}
		slip.Gross = slip.Gross.Add(pay)
		slip.Breakdown = append(slip.Breakdown, PayslipBreakdownEntry{
			Date:      day,
			Rate:      rate,
			IsPresent: isPresent,
			Pay:       pay,
		})
	}

	return slip, nil
}
