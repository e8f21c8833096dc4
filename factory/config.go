/*
Package factory provides JSON to Go payroll configuration conversion.

PURPOSE:
  Converts JSON shift definitions, rate entries, settings and whole rosters
  into payroll domain types. Admin endpoints, the demo scenarios and bulk
  imports all go through here so parsing rules live in one place.

JSON SCHEMA (roster):
  {
    "settings": {"hours_per_day": "8", "days_per_month": "26"},
    "employees": [{"id": "emp-1", "name": "Ana Cruz"}],
    "shifts": [
      {"id": "day", "name": "Day", "start_time": "07:00", "end_time": "17:30", "ot_grace_min": 30}
    ],
    "weekly": [{"employee_id": "emp-1", "day_of_week": 1, "shift_id": "day"}],
    "overrides": [{"employee_id": "emp-1", "date": "2025-01-06", "shift_id": null}],
    "rates": [
      {"employee_id": "emp-1", "effective_date": "2025-01-01", "basis": "daily", "amount": "630"}
    ],
    "attendance": [
      {"employee_id": "emp-1", "work_date": "2025-01-06",
       "time_in": "2025-01-06T07:05:00", "time_out": "2025-01-06T17:25:00"}
    ]
  }

  Punch times accept RFC3339 or a zone-less "2006-01-02T15:04:05" that is
  read in the factory's location.

USAGE:
  f := factory.NewConfigFactory(loc)
  roster, err := f.ParseRoster(jsonStr)
  if err != nil { ... }
  err = roster.Apply(ctx, store)
  svc.ApplySettings(roster.Settings)

SEE ALSO:
  - payroll/types.go: Domain types
  - factory/presets.go: Ready-made shift and roster builders
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EmployeeJSON is the JSON representation of an employee.
type EmployeeJSON struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	HiredOn string `json:"hired_on,omitempty"`
}

// ShiftJSON is the JSON representation of a shift definition.
// Every field but ID may be omitted.
type ShiftJSON struct {
	ID              string  `json:"id" validate:"required"`
	Name            string  `json:"name,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`
	OTGraceMin      *int    `json:"ot_grace_min,omitempty" validate:"omitempty,gte=0"`
	StandardMinutes *int    `json:"standard_minutes,omitempty" validate:"omitempty,gt=0"`
}

// WeeklyJSON assigns a shift (or a rest day when ShiftID is null) to a day
// of the week, 1 = Monday ... 7 = Sunday.
type WeeklyJSON struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	DayOfWeek  int     `json:"day_of_week" validate:"min=1,max=7"`
	ShiftID    *string `json:"shift_id"`
}

// OverrideJSON pins a shift (or a forced rest day) to one date.
type OverrideJSON struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required"`
	ShiftID    *string `json:"shift_id"`
}

// RateJSON is one rate history entry. Amount accepts a JSON string or number.
type RateJSON struct {
	EmployeeID    string          `json:"employee_id" validate:"required"`
	EffectiveDate string          `json:"effective_date" validate:"required"`
	Basis         string          `json:"basis" validate:"required,oneof=hourly daily semi_monthly monthly piece"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// PunchJSON is one attendance row.
type PunchJSON struct {
	EmployeeID     string          `json:"employee_id" validate:"required"`
	WorkDate       string          `json:"work_date" validate:"required"`
	TimeIn         *string         `json:"time_in,omitempty"`
	TimeOut        *string         `json:"time_out,omitempty"`
	MinutesRegular *int            `json:"minutes_regular,omitempty" validate:"omitempty,gte=0"`
	Units          decimal.Decimal `json:"units,omitempty"`
}

// SettingsJSON overrides conversion constants. Omitted fields keep defaults.
type SettingsJSON struct {
	HoursPerDay           decimal.Decimal `json:"hours_per_day,omitempty"`
	StandardMinutesPerDay int             `json:"standard_minutes_per_day,omitempty"`
	DaysPerMonth          decimal.Decimal `json:"days_per_month,omitempty"`
	OvertimeMultiplier    decimal.Decimal `json:"ot_multiplier,omitempty"`
	BasisPrecedence       []string        `json:"basis_precedence,omitempty"`
}

// RosterJSON bundles a full configuration for import.
type RosterJSON struct {
	Settings   *SettingsJSON  `json:"settings,omitempty"`
	Employees  []EmployeeJSON `json:"employees" validate:"dive"`
	Shifts     []ShiftJSON    `json:"shifts" validate:"dive"`
	Weekly     []WeeklyJSON   `json:"weekly" validate:"dive"`
	Overrides  []OverrideJSON `json:"overrides" validate:"dive"`
	Rates      []RateJSON     `json:"rates" validate:"dive"`
	Attendance []PunchJSON    `json:"attendance" validate:"dive"`
}

// Roster is a parsed RosterJSON. Apply writes the data sections; Settings
// is for the caller to hand to payroll.Service.ApplySettings.
type Roster struct {
	Settings  payroll.Settings
	Employees []payroll.Employee
	Shifts    []payroll.ShiftDefinition
	Weekly    []payroll.WeeklyShiftAssignment
	Overrides []payroll.ShiftOverride
	Rates     []payroll.EmployeeRate
	Punches   []payroll.AttendancePunch
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts JSON configuration to payroll types.
type ConfigFactory struct {
	// Location reads zone-less punch times. Nil means UTC.
	Location *time.Location
}

// NewConfigFactory creates a new factory reading local times in loc.
func NewConfigFactory(loc *time.Location) *ConfigFactory {
	if loc == nil {
		loc = time.UTC
	}
	return &ConfigFactory{Location: loc}
}

// ParseShift parses a shift definition from a JSON string.
func (f *ConfigFactory) ParseShift(jsonStr string) (payroll.ShiftDefinition, error) {
	var sj ShiftJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return payroll.ShiftDefinition{}, fmt.Errorf("invalid shift JSON: %w", err)
	}
	return f.ShiftFromJSON(sj)
}

// ShiftFromJSON converts a ShiftJSON.
func (f *ConfigFactory) ShiftFromJSON(sj ShiftJSON) (payroll.ShiftDefinition, error) {
	if sj.ID == "" {
		return payroll.ShiftDefinition{}, &payroll.ValidationError{Field: "id", Message: "is required"}
	}
	shift := payroll.ShiftDefinition{
		ID:              payroll.ShiftID(sj.ID),
		Name:            sj.Name,
		OTGraceMinutes:  sj.OTGraceMin,
		StandardMinutes: sj.StandardMinutes,
	}
	if shift.Name == "" {
		shift.Name = sj.ID
	}

	var err error
	if shift.StartTime, err = parseOptionalClock("start_time", sj.StartTime); err != nil {
		return payroll.ShiftDefinition{}, err
	}
	if shift.EndTime, err = parseOptionalClock("end_time", sj.EndTime); err != nil {
		return payroll.ShiftDefinition{}, err
	}
	if sj.OTGraceMin != nil && *sj.OTGraceMin < 0 {
		return payroll.ShiftDefinition{}, &payroll.ValidationError{Field: "ot_grace_min", Message: "must not be negative"}
	}
	return shift, nil
}

// ShiftToJSON converts a shift definition back to JSON form.
func (f *ConfigFactory) ShiftToJSON(shift payroll.ShiftDefinition) ShiftJSON {
	sj := ShiftJSON{
		ID:              string(shift.ID),
		Name:            shift.Name,
		OTGraceMin:      shift.OTGraceMinutes,
		StandardMinutes: shift.StandardMinutes,
	}
	if shift.StartTime != nil {
		s := shift.StartTime.String()
		sj.StartTime = &s
	}
	if shift.EndTime != nil {
		s := shift.EndTime.String()
		sj.EndTime = &s
	}
	return sj
}

// EmployeeFromJSON converts an EmployeeJSON.
func (f *ConfigFactory) EmployeeFromJSON(ej EmployeeJSON) (payroll.Employee, error) {
	if ej.ID == "" {
		return payroll.Employee{}, &payroll.ValidationError{Field: "id", Message: "is required"}
	}
	emp := payroll.Employee{
		ID:    payroll.EmployeeID(ej.ID),
		Name:  ej.Name,
		Email: ej.Email,
	}
	if ej.HiredOn != "" {
		d, err := payroll.ParseDate(ej.HiredOn)
		if err != nil {
			return payroll.Employee{}, &payroll.ValidationError{Field: "hired_on", Message: err.Error()}
		}
		emp.HiredOn = d
	}
	return emp, nil
}

// WeeklyFromJSON converts a WeeklyJSON.
func (f *ConfigFactory) WeeklyFromJSON(wj WeeklyJSON) (payroll.WeeklyShiftAssignment, error) {
	if wj.EmployeeID == "" {
		return payroll.WeeklyShiftAssignment{}, &payroll.ValidationError{Field: "employee_id", Message: "is required"}
	}
	if wj.DayOfWeek < 1 || wj.DayOfWeek > 7 {
		return payroll.WeeklyShiftAssignment{}, &payroll.ValidationError{Field: "day_of_week", Message: "must be 1 (Monday) through 7 (Sunday)"}
	}
	return payroll.WeeklyShiftAssignment{
		EmployeeID: payroll.EmployeeID(wj.EmployeeID),
		DayOfWeek:  wj.DayOfWeek,
		ShiftID:    shiftIDPtr(wj.ShiftID),
	}, nil
}

// OverrideFromJSON converts an OverrideJSON.
func (f *ConfigFactory) OverrideFromJSON(oj OverrideJSON) (payroll.ShiftOverride, error) {
	if oj.EmployeeID == "" {
		return payroll.ShiftOverride{}, &payroll.ValidationError{Field: "employee_id", Message: "is required"}
	}
	d, err := payroll.ParseDate(oj.Date)
	if err != nil {
		return payroll.ShiftOverride{}, &payroll.ValidationError{Field: "date", Message: err.Error()}
	}
	return payroll.ShiftOverride{
		EmployeeID: payroll.EmployeeID(oj.EmployeeID),
		Date:       d,
		ShiftID:    shiftIDPtr(oj.ShiftID),
	}, nil
}

// RateFromJSON converts a RateJSON. Negative amounts are rejected.
func (f *ConfigFactory) RateFromJSON(rj RateJSON) (payroll.EmployeeRate, error) {
	if rj.EmployeeID == "" {
		return payroll.EmployeeRate{}, &payroll.ValidationError{Field: "employee_id", Message: "is required"}
	}
	d, err := payroll.ParseDate(rj.EffectiveDate)
	if err != nil {
		return payroll.EmployeeRate{}, &payroll.ValidationError{Field: "effective_date", Message: err.Error()}
	}
	basis, err := payroll.ParseBasis(rj.Basis)
	if err != nil {
		return payroll.EmployeeRate{}, err
	}
	if rj.Amount.IsNegative() {
		return payroll.EmployeeRate{}, &payroll.ValidationError{Field: "amount", Message: "must not be negative"}
	}
	return payroll.EmployeeRate{
		EmployeeID:    payroll.EmployeeID(rj.EmployeeID),
		EffectiveDate: d,
		Basis:         basis,
		Amount:        rj.Amount,
		Currency:      rj.Currency,
		Note:          rj.Note,
	}, nil
}

// PunchFromJSON converts a PunchJSON.
func (f *ConfigFactory) PunchFromJSON(pj PunchJSON) (payroll.AttendancePunch, error) {
	if pj.EmployeeID == "" {
		return payroll.AttendancePunch{}, &payroll.ValidationError{Field: "employee_id", Message: "is required"}
	}
	d, err := payroll.ParseDate(pj.WorkDate)
	if err != nil {
		return payroll.AttendancePunch{}, &payroll.ValidationError{Field: "work_date", Message: err.Error()}
	}
	p := payroll.AttendancePunch{
		EmployeeID:      payroll.EmployeeID(pj.EmployeeID),
		WorkDate:        d,
		RecordedMinutes: pj.MinutesRegular,
		Units:           pj.Units,
	}
	if p.TimeIn, err = f.parseInstant("time_in", pj.TimeIn); err != nil {
		return payroll.AttendancePunch{}, err
	}
	if p.TimeOut, err = f.parseInstant("time_out", pj.TimeOut); err != nil {
		return payroll.AttendancePunch{}, err
	}
	return p, nil
}

// SettingsFromJSON converts a SettingsJSON. Unset fields stay zero so that
// payroll.Settings.Merge keeps the defaults for them.
func (f *ConfigFactory) SettingsFromJSON(sj SettingsJSON) (payroll.Settings, error) {
	s := payroll.Settings{
		HoursPerDay:           sj.HoursPerDay,
		StandardMinutesPerDay: sj.StandardMinutesPerDay,
		DaysPerMonth:          sj.DaysPerMonth,
		OvertimeMultiplier:    sj.OvertimeMultiplier,
	}
	for _, b := range sj.BasisPrecedence {
		basis, err := payroll.ParseBasis(b)
		if err != nil {
			return payroll.Settings{}, &payroll.ValidationError{Field: "basis_precedence", Message: "unknown basis " + b}
		}
		s.BasisPrecedence = append(s.BasisPrecedence, basis)
	}
	return s, nil
}

// =============================================================================
// ROSTERS
// =============================================================================

// ParseRoster parses a roster from a JSON string.
func (f *ConfigFactory) ParseRoster(jsonStr string) (*Roster, error) {
	var rj RosterJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("invalid roster JSON: %w", err)
	}
	return f.RosterFromJSON(rj)
}

// RosterFromJSON converts every section of a RosterJSON. The first invalid
// entry aborts the conversion.
func (f *ConfigFactory) RosterFromJSON(rj RosterJSON) (*Roster, error) {
	r := &Roster{}
	if rj.Settings != nil {
		s, err := f.SettingsFromJSON(*rj.Settings)
		if err != nil {
			return nil, err
		}
		r.Settings = s
	}
	for i, ej := range rj.Employees {
		emp, err := f.EmployeeFromJSON(ej)
		if err != nil {
			return nil, fmt.Errorf("employees[%d]: %w", i, err)
		}
		r.Employees = append(r.Employees, emp)
	}
	for i, sj := range rj.Shifts {
		shift, err := f.ShiftFromJSON(sj)
		if err != nil {
			return nil, fmt.Errorf("shifts[%d]: %w", i, err)
		}
		r.Shifts = append(r.Shifts, shift)
	}
	for i, wj := range rj.Weekly {
		a, err := f.WeeklyFromJSON(wj)
		if err != nil {
			return nil, fmt.Errorf("weekly[%d]: %w", i, err)
		}
		r.Weekly = append(r.Weekly, a)
	}
	for i, oj := range rj.Overrides {
		o, err := f.OverrideFromJSON(oj)
		if err != nil {
			return nil, fmt.Errorf("overrides[%d]: %w", i, err)
		}
		r.Overrides = append(r.Overrides, o)
	}
	for i, rate := range rj.Rates {
		er, err := f.RateFromJSON(rate)
		if err != nil {
			return nil, fmt.Errorf("rates[%d]: %w", i, err)
		}
		r.Rates = append(r.Rates, er)
	}
	for i, pj := range rj.Attendance {
		p, err := f.PunchFromJSON(pj)
		if err != nil {
			return nil, fmt.Errorf("attendance[%d]: %w", i, err)
		}
		r.Punches = append(r.Punches, p)
	}
	return r, nil
}

// Apply writes the roster through w. Rates are appended in roster order so
// their Seq follows the JSON order.
func (r *Roster) Apply(ctx context.Context, w payroll.Writer) error {
	for _, emp := range r.Employees {
		if err := w.SaveEmployee(ctx, emp); err != nil {
			return err
		}
	}
	for _, shift := range r.Shifts {
		if err := w.SaveShift(ctx, shift); err != nil {
			return err
		}
	}
	for _, a := range r.Weekly {
		if err := w.SaveWeeklyAssignment(ctx, a); err != nil {
			return err
		}
	}
	for _, o := range r.Overrides {
		if err := w.SaveOverride(ctx, o); err != nil {
			return err
		}
	}
	for _, rate := range r.Rates {
		if _, err := w.AppendRate(ctx, rate); err != nil {
			return err
		}
	}
	for _, p := range r.Punches {
		if err := w.SavePunch(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}

func (f *ConfigFactory) parseInstant(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, *s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, &payroll.ValidationError{Field: field, Message: fmt.Sprintf("invalid timestamp %q (use RFC3339 or YYYY-MM-DDTHH:MM:SS)", *s)}
}

func parseOptionalClock(field string, s *string) (*payroll.ClockTime, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	c, err := payroll.ParseClockTime(*s)
	if err != nil {
		return nil, &payroll.ValidationError{Field: field, Message: err.Error()}
	}
	return &c, nil
}

func shiftIDPtr(s *string) *payroll.ShiftID {
	if s == nil || *s == "" {
		return nil
	}
	id := payroll.ShiftID(*s)
	return &id
}
