package factory

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRESETS - Common building blocks for rosters, scenarios and tests
// =============================================================================

// DayShiftJSON returns a fixed-hours shift with an overtime grace window.
// Times are "HH:MM" or "HH:MM:SS".
func DayShiftJSON(id, name, start, end string, graceMin int) string {
	return mustJSON(DayShift(id, name, start, end, graceMin))
}

// DayShift is DayShiftJSON before encoding.
func DayShift(id, name, start, end string, graceMin int) ShiftJSON {
	return ShiftJSON{
		ID:         id,
		Name:       name,
		StartTime:  &start,
		EndTime:    &end,
		OTGraceMin: &graceMin,
	}
}

// FlexShift returns a shift with a start time only. Without an end time
// every worked minute counts as overtime; lateness is still measured.
func FlexShift(id, name, start string) ShiftJSON {
	return ShiftJSON{ID: id, Name: name, StartTime: &start}
}

// WeekdayAssignments assigns shiftID to the given days of the week for one
// employee. No days means Monday through Friday.
func WeekdayAssignments(employeeID, shiftID string, days ...int) []WeeklyJSON {
	if len(days) == 0 {
		days = []int{1, 2, 3, 4, 5}
	}
	out := make([]WeeklyJSON, 0, len(days))
	for _, d := range days {
		id := shiftID
		out = append(out, WeeklyJSON{EmployeeID: employeeID, DayOfWeek: d, ShiftID: &id})
	}
	return out
}

// RestDayOverride forces a rest day on date.
func RestDayOverride(employeeID, date string) OverrideJSON {
	return OverrideJSON{EmployeeID: employeeID, Date: date}
}

// Rate builds a rate entry. It panics on a malformed amount; use it for
// literals only.
func Rate(employeeID, effectiveDate, basis, amount string) RateJSON {
	return RateJSON{
		EmployeeID:    employeeID,
		EffectiveDate: effectiveDate,
		Basis:         basis,
		Amount:        decimal.RequireFromString(amount),
		Currency:      "PHP",
	}
}

// Punch builds an attendance row from a work date and two "HH:MM" times
// read in the factory's location.
func Punch(employeeID, workDate, in, out string) PunchJSON {
	timeIn := workDate + "T" + in
	timeOut := workDate + "T" + out
	return PunchJSON{EmployeeID: employeeID, WorkDate: workDate, TimeIn: &timeIn, TimeOut: &timeOut}
}

// PiecePunch builds an attendance row that carries produced units.
func PiecePunch(employeeID, workDate, in, out, units string) PunchJSON {
	p := Punch(employeeID, workDate, in, out)
	p.Units = decimal.RequireFromString(units)
	return p
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
