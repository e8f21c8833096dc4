/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

WIRE FORMAT:
  - Dates are "YYYY-MM-DD", instants RFC3339
  - Money, rates and units are decimal strings ("500.00"), never floats

VALIDATION:
  Request types carry go-playground/validator tags. Handlers run the
  validator first, then the engine repeats its own checks, so a request that
  slips past the tags still fails with a field-level error.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: JSON configuration types reused for admin bodies
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erwinmanzano2020/Agui-sub001/factory"
	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	HiredOn   string `json:"hired_on,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:    string(e.ID),
		Name:  e.Name,
		Email: e.Email,
	}
	if !e.HiredOn.IsZero() {
		dto.HiredOn = e.HiredOn.String()
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// SHIFTS
// =============================================================================

// EffectiveShiftDTO is the resolved shift for one employee and date.
// Shift is null on a rest day.
type EffectiveShiftDTO struct {
	EmployeeID string             `json:"employee_id"`
	Date       string             `json:"date"`
	Source     string             `json:"source"`
	RestDay    bool               `json:"rest_day"`
	Shift      *factory.ShiftJSON `json:"shift"`
}

func toEffectiveShiftDTO(f *factory.ConfigFactory, e payroll.EffectiveShift) EffectiveShiftDTO {
	dto := EffectiveShiftDTO{
		EmployeeID: string(e.EmployeeID),
		Date:       e.Date.String(),
		Source:     string(e.Source),
		RestDay:    e.IsRestDay(),
	}
	if e.Shift != nil {
		sj := f.ShiftToJSON(*e.Shift)
		dto.Shift = &sj
	}
	return dto
}

// =============================================================================
// RATES & ATTENDANCE
// =============================================================================

// CreateRateRequest appends a rate history row for the employee in the URL.
type CreateRateRequest struct {
	EffectiveDate string          `json:"effective_date" validate:"required,datetime=2006-01-02"`
	Basis         string          `json:"basis" validate:"required,oneof=hourly daily semi_monthly monthly piece"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Note          string          `json:"note,omitempty" validate:"max=500"`
}

// RateDTO represents a rate history row.
type RateDTO struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	EffectiveDate string `json:"effective_date"`
	Basis         string `json:"basis"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
	Note          string `json:"note,omitempty"`
	Seq           int64  `json:"seq"`
}

func toRateDTO(r payroll.EmployeeRate) RateDTO {
	return RateDTO{
		ID:            r.ID,
		EmployeeID:    string(r.EmployeeID),
		EffectiveDate: r.EffectiveDate.String(),
		Basis:         string(r.Basis),
		Amount:        r.Amount.String(),
		Currency:      r.Currency,
		Note:          r.Note,
		Seq:           r.Seq,
	}
}

// PunchDTO represents an attendance row.
type PunchDTO struct {
	EmployeeID     string  `json:"employee_id"`
	WorkDate       string  `json:"work_date"`
	TimeIn         *string `json:"time_in"`
	TimeOut        *string `json:"time_out"`
	MinutesRegular *int    `json:"minutes_regular,omitempty"`
	Units          string  `json:"units"`
	IsPresent      bool    `json:"is_present"`
}

func toPunchDTO(p payroll.AttendancePunch) PunchDTO {
	dto := PunchDTO{
		EmployeeID:     string(p.EmployeeID),
		WorkDate:       p.WorkDate.String(),
		MinutesRegular: p.RecordedMinutes,
		Units:          p.Units.String(),
		IsPresent:      p.IsPresent(),
	}
	if p.TimeIn != nil {
		s := p.TimeIn.Format(time.RFC3339)
		dto.TimeIn = &s
	}
	if p.TimeOut != nil {
		s := p.TimeOut.Format(time.RFC3339)
		dto.TimeOut = &s
	}
	return dto
}

// =============================================================================
// PAYSLIPS & SUMMARIES
// =============================================================================

// DailyPayslipRequest is the body of POST /api/payslips/daily.
type DailyPayslipRequest struct {
	EmployeeID  string   `json:"employee_id" validate:"required"`
	From        string   `json:"from" validate:"required,datetime=2006-01-02"`
	To          string   `json:"to" validate:"required,datetime=2006-01-02"`
	PresentDays []string `json:"present_days" validate:"dive,datetime=2006-01-02"`
	PresentOnly bool     `json:"present_only,omitempty"`
}

// PeriodDTO is an inclusive date range.
type PeriodDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func toPeriodDTO(p payroll.Period) PeriodDTO {
	return PeriodDTO{From: p.Start.String(), To: p.End.String()}
}

// PayslipEntryDTO is one breakdown row.
type PayslipEntryDTO struct {
	Date      string `json:"date"`
	Rate      string `json:"rate"`
	IsPresent bool   `json:"is_present"`
	Pay       string `json:"pay"`
}

// DailyPayslipDTO is the daily-basis payslip envelope.
type DailyPayslipDTO struct {
	EmployeeID  string            `json:"employee_id"`
	Basis       string            `json:"basis"`
	Period      PeriodDTO         `json:"period"`
	DaysPresent int               `json:"days_present"`
	Gross       string            `json:"gross"`
	Breakdown   []PayslipEntryDTO `json:"breakdown"`
}

func toDailyPayslipDTO(slip *payroll.DailyPayslip) DailyPayslipDTO {
	dto := DailyPayslipDTO{
		EmployeeID:  string(slip.EmployeeID),
		Basis:       string(slip.Basis),
		Period:      toPeriodDTO(slip.Period),
		DaysPresent: slip.DaysPresent,
		Gross:       slip.Gross.StringFixed(2),
		Breakdown:   make([]PayslipEntryDTO, len(slip.Breakdown)),
	}
	for i, e := range slip.Breakdown {
		dto.Breakdown[i] = PayslipEntryDTO{
			Date:      e.Date.String(),
			Rate:      e.Rate.StringFixed(2),
			IsPresent: e.IsPresent,
			Pay:       e.Pay.StringFixed(2),
		}
	}
	return dto
}

// MinutesDTO is the minute split of one row.
type MinutesDTO struct {
	Regular   int `json:"regular"`
	OT        int `json:"ot"`
	Total     int `json:"total"`
	Late      int `json:"late"`
	Undertime int `json:"undertime"`
}

// SummaryRowDTO is one priced attendance row.
type SummaryRowDTO struct {
	EmployeeID       string            `json:"employee_id"`
	Date             string            `json:"date"`
	Shift            EffectiveShiftDTO `json:"shift"`
	Minutes          MinutesDTO        `json:"minutes"`
	Rates            map[string]string `json:"rates"`
	Basis            string            `json:"basis"`
	RateApplied      bool              `json:"rate_applied"`
	HourlyEquivalent string            `json:"hourly_equivalent"`
	Units            string            `json:"units"`
	Pay              string            `json:"pay"`
}

// SummaryTotalsDTO aggregates a summary.
type SummaryTotalsDTO struct {
	Gross   string            `json:"gross"`
	ByBasis map[string]string `json:"by_basis"`
	Count   int               `json:"count"`
}

// RangeSummaryDTO is the multi-basis range summary envelope.
type RangeSummaryDTO struct {
	Period PeriodDTO        `json:"period"`
	Rows   []SummaryRowDTO  `json:"rows"`
	Totals SummaryTotalsDTO `json:"totals"`
}

func toRangeSummaryDTO(f *factory.ConfigFactory, s *payroll.RangeSummary) RangeSummaryDTO {
	dto := RangeSummaryDTO{
		Period: toPeriodDTO(s.Period),
		Rows:   make([]SummaryRowDTO, len(s.Rows)),
		Totals: SummaryTotalsDTO{
			Gross:   s.Totals.Gross.StringFixed(2),
			ByBasis: moneyMap(s.Totals.ByBasis),
			Count:   s.Totals.Count,
		},
	}
	for i, r := range s.Rows {
		rates := make(map[string]string, len(r.Rates))
		for b, amount := range r.Rates {
			rates[string(b)] = amount.String()
		}
		dto.Rows[i] = SummaryRowDTO{
			EmployeeID: string(r.EmployeeID),
			Date:       r.Date.String(),
			Shift:      toEffectiveShiftDTO(f, r.Shift),
			Minutes: MinutesDTO{
				Regular:   r.Minutes.Regular,
				OT:        r.Minutes.OT,
				Total:     r.Minutes.Total,
				Late:      r.Minutes.LateMinutes,
				Undertime: r.Minutes.UndertimeMinutes,
			},
			Rates:            rates,
			Basis:            string(r.Basis),
			RateApplied:      r.RateApplied,
			HourlyEquivalent: r.HourlyEquivalent.String(),
			Units:            r.Units.String(),
			Pay:              r.Pay.StringFixed(2),
		}
	}
	return dto
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

// TriggerRunRequest asks for a run over a range. Empty means the most
// recently closed semi-monthly cut-off.
type TriggerRunRequest struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PayrollRunDTO represents a recorded payroll run.
type PayrollRunDTO struct {
	ID          string            `json:"id"`
	Period      PeriodDTO         `json:"period"`
	Status      string            `json:"status"`
	Count       int               `json:"count"`
	Gross       string            `json:"gross"`
	ByBasis     map[string]string `json:"by_basis"`
	Error       string            `json:"error,omitempty"`
	TriggeredBy string            `json:"triggered_by,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

func toPayrollRunDTO(r payroll.PayrollRun) PayrollRunDTO {
	return PayrollRunDTO{
		ID:          r.ID,
		Period:      toPeriodDTO(r.Period),
		Status:      string(r.Status),
		Count:       r.Count,
		Gross:       r.Gross.StringFixed(2),
		ByBasis:     moneyMap(r.ByBasis),
		Error:       r.Error,
		TriggeredBy: r.TriggeredBy,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

func moneyMap(m map[payroll.Basis]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for b, amount := range m {
		out[string(b)] = amount.StringFixed(2)
	}
	return out
}
