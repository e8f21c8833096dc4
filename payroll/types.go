/*
Package payroll provides the time and pay computation engine.

PURPOSE:
  Turns raw attendance timestamps plus a per-employee shift and rate
  configuration into regular/overtime minutes, lateness, undertime and
  monetary pay, per day and across date ranges with several pay bases.

COMPONENTS (leaves first):
  - Shift Resolver   (shift.go):   (employee, date) -> shift or rest day
  - Minute Splitter  (minutes.go): shift + punches -> regular/OT/late/undertime
  - Rate Resolver    (rate.go):    rate history -> as-of amount per basis
  - Aggregator       (payslip.go, summary.go): daily payslip, range summary

  The four components are pure functions of in-memory data. Service
  (service.go) is the only part that talks to a Store.

DESIGN PRINCIPLES:
  1. Purity: identical inputs always give identical outputs
  2. Precision: money is decimal.Decimal, minutes are whole integers
  3. No negatives: minutes and money are clamped to zero where computed
  4. Absence is data: no shift means rest day, no rate means zero pay

SEE ALSO:
  - store.go: Read/write interfaces implemented by memory, sqlite, postgres
  - errors.go: Error taxonomy
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type ShiftID string

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is the minimal employee record the engine needs to validate input.
type Employee struct {
	ID        EmployeeID
	Name      string
	Email     string
	HiredOn   Date
	CreatedAt time.Time
}

// =============================================================================
// SHIFTS - Reference data and the per-date resolution result
// =============================================================================

// ShiftDefinition is an administrator-defined shift. Any field may be unset.
type ShiftDefinition struct {
	ID              ShiftID
	Name            string
	StartTime       *ClockTime
	EndTime         *ClockTime
	OTGraceMinutes  *int
	StandardMinutes *int
}

// Clone returns a copy that shares no pointers with s.
func (s ShiftDefinition) Clone() ShiftDefinition {
	s.StartTime = clonePtr(s.StartTime)
	s.EndTime = clonePtr(s.EndTime)
	s.OTGraceMinutes = clonePtr(s.OTGraceMinutes)
	s.StandardMinutes = clonePtr(s.StandardMinutes)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// HasOvertimeWindow reports whether the shift has both an end time and a
// grace window. Without them every worked minute is overtime.
func (s *ShiftDefinition) HasOvertimeWindow() bool {
	return s != nil && s.EndTime != nil && s.OTGraceMinutes != nil
}

// ShiftSource names the precedence tier that produced an EffectiveShift.
type ShiftSource string

const (
	SourceOverride ShiftSource = "override"
	SourceWeekly   ShiftSource = "weekly"
	SourceNone     ShiftSource = "none"
)

// EffectiveShift is the shift applying to one employee on one date.
// A nil Shift is the rest-day sentinel.
type EffectiveShift struct {
	EmployeeID EmployeeID
	Date       Date
	Shift      *ShiftDefinition
	Source     ShiftSource
}

// IsRestDay reports whether no shift applies.
func (e EffectiveShift) IsRestDay() bool { return e.Shift == nil }

// ShiftOverride pins a shift (or a forced rest day when ShiftID is nil) to
// one employee on one date. Highest precedence.
type ShiftOverride struct {
	EmployeeID EmployeeID
	Date       Date
	ShiftID    *ShiftID
}

// WeeklyShiftAssignment is the fallback shift for a day of the week
// (1 = Monday ... 7 = Sunday). A nil ShiftID is a weekly rest day.
type WeeklyShiftAssignment struct {
	EmployeeID EmployeeID
	DayOfWeek  int
	ShiftID    *ShiftID
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendancePunch is one employee's attendance row for one work date.
// RecordedMinutes carries minutes already booked without punches (manual
// DTR entry). Units is the output count priced by the piece basis.
type AttendancePunch struct {
	EmployeeID      EmployeeID
	WorkDate        Date
	TimeIn          *time.Time
	TimeOut         *time.Time
	RecordedMinutes *int
	Units           decimal.Decimal
}

// IsPresent is true when either punch is set or minutes were recorded.
func (p AttendancePunch) IsPresent() bool {
	if p.TimeIn != nil || p.TimeOut != nil {
		return true
	}
	return p.RecordedMinutes != nil && *p.RecordedMinutes > 0
}

// =============================================================================
// RATES - Append-only history per employee
// =============================================================================

// Basis is the unit a pay rate is expressed in.
type Basis string

const (
	BasisHourly      Basis = "hourly"
	BasisDaily       Basis = "daily"
	BasisSemiMonthly Basis = "semi_monthly"
	BasisMonthly     Basis = "monthly"
	BasisPiece       Basis = "piece"
)

// AllBases lists every basis in display order.
var AllBases = []Basis{BasisHourly, BasisDaily, BasisSemiMonthly, BasisMonthly, BasisPiece}

// Valid reports whether b is a known basis.
func (b Basis) Valid() bool {
	for _, known := range AllBases {
		if b == known {
			return true
		}
	}
	return false
}

// ParseBasis validates a basis string. The empty string is not a basis.
func ParseBasis(s string) (Basis, error) {
	b := Basis(s)
	if !b.Valid() {
		return "", &ValidationError{Field: "basis", Message: "must be one of hourly, daily, semi_monthly, monthly, piece"}
	}
	return b, nil
}

// EmployeeRate is one row of an employee's rate history. Rows are never
// mutated; a change inserts a new row. Seq is the insertion order and
// breaks ties between rows with the same EffectiveDate.
type EmployeeRate struct {
	ID            string
	EmployeeID    EmployeeID
	EffectiveDate Date
	Basis         Basis
	Amount        decimal.Decimal
	Currency      string
	Note          string
	Seq           int64
}

// =============================================================================
// RESULTS
// =============================================================================

// MinuteSplit is the Minute Splitter's output. All values are >= 0.
type MinuteSplit struct {
	Regular          int
	OT               int
	Total            int
	LateMinutes      int
	UndertimeMinutes int
}

// PayslipBreakdownEntry is one date of a daily-basis payslip.
type PayslipBreakdownEntry struct {
	Date      Date
	Rate      decimal.Decimal
	IsPresent bool
	Pay       decimal.Decimal
}

// DailyPayslip is the daily-basis payslip envelope.
type DailyPayslip struct {
	EmployeeID  EmployeeID
	Basis       Basis
	Period      Period
	DaysPresent int
	Gross       decimal.Decimal
	Breakdown   []PayslipBreakdownEntry
}

// SummaryRow is one attendance row priced on its primary basis.
// Rates holds every basis's as-of amount for display; a missing key means
// no rate resolves for that basis on Date.
type SummaryRow struct {
	EmployeeID       EmployeeID
	Date             Date
	Shift            EffectiveShift
	Minutes          MinuteSplit
	Rates            map[Basis]decimal.Decimal
	Basis            Basis
	RateApplied      bool
	HourlyEquivalent decimal.Decimal
	Units            decimal.Decimal
	Pay              decimal.Decimal
}

// SummaryTotals aggregates a range summary.
type SummaryTotals struct {
	Gross   decimal.Decimal
	ByBasis map[Basis]decimal.Decimal
	Count   int
}

// RangeSummary is the multi-basis range summary envelope.
type RangeSummary struct {
	Period Period
	Rows   []SummaryRow
	Totals SummaryTotals
}

// =============================================================================
// PAYROLL RUNS - Recorded bulk summaries for closed cut-offs
// =============================================================================

type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// PayrollRun records one bulk range summary over a closed cut-off.
type PayrollRun struct {
	ID          string
	Period      Period
	Status      RunStatus
	Count       int
	Gross       decimal.Decimal
	ByBasis     map[Basis]decimal.Decimal
	Error       string
	TriggeredBy string
	CreatedAt   time.Time
}
