/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario is a factory roster: shifts,
	weekly assignments, rate history and attendance that demonstrate one
	behavior of the engine.

AVAILABLE SCENARIOS:

	ot-within-grace:  Day shift, out 25 minutes late, still inside the grace window
	ot-past-grace:    Same shift, out 70 minutes late, overtime counted
	rest-day:         Punches on a day with no assignment, all minutes overtime
	daily-payslip:    One present day priced at a daily rate over three days
	mixed-basis:      Monthly, hourly, piece and semi-monthly employees side by side

HOW SCENARIOS WORK:
 1. Reset store and service settings (clear all data)
 2. Build the roster JSON from factory presets
 3. Parse it through the factory (same path as /api/roster/import)
 4. Apply it to the store, merging any roster settings into the service

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "ot-past-grace"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a roster builder to 'scenarioRosters'

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase handler
  - factory/presets.go: Shift, rate and punch builders
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erwinmanzano2020/Agui-sub001/factory"
	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "ot-within-grace",
		Name:        "Overtime Within Grace",
		Description: "07:00-17:00 shift with a 30 minute grace window; punched 07:05-17:25",
	},
	{
		ID:          "ot-past-grace",
		Name:        "Overtime Past Grace",
		Description: "Same shift, punched out at 18:10 so the stay past 17:00 is overtime",
	},
	{
		ID:          "rest-day",
		Name:        "Rest Day Work",
		Description: "No Tuesday assignment; every minute worked on a Tuesday is overtime",
	},
	{
		ID:          "daily-payslip",
		Name:        "Daily Payslip",
		Description: "Daily rate 500.00; present one day out of three",
	},
	{
		ID:          "mixed-basis",
		Name:        "Mixed Pay Bases",
		Description: "Monthly, hourly, piece-rate and semi-monthly employees in one cut-off",
	},
}

var scenarioRosters = map[string]func() factory.RosterJSON{
	"ot-within-grace": func() factory.RosterJSON { return dayShiftRoster("17:25") },
	"ot-past-grace":   func() factory.RosterJSON { return dayShiftRoster("18:10") },
	"rest-day":        restDayRoster,
	"daily-payslip":   dailyPayslipRoster,
	"mixed-basis":     mixedBasisRoster,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current, Description: "Currently loaded scenario"})
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	build, ok := scenarioRosters[req.ScenarioID]
	if !ok {
		handleError(w, &payroll.ValidationError{Field: "scenario_id", Message: fmt.Sprintf("unknown scenario %q", req.ScenarioID)})
		return
	}

	if err := h.loadScenario(r.Context(), req.ScenarioID, build()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

func (h *Handler) loadScenario(ctx context.Context, id string, rj factory.RosterJSON) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	h.currentScenario = ""
	h.Service.ResetSettings()

	roster, err := h.Factory.RosterFromJSON(rj)
	if err != nil {
		return fmt.Errorf("failed to parse scenario %s: %w", id, err)
	}
	if err := roster.Apply(ctx, h.Store); err != nil {
		return fmt.Errorf("failed to apply scenario %s: %w", id, err)
	}
	if rj.Settings != nil {
		h.Service.ApplySettings(roster.Settings)
	}

	h.currentScenario = id
	h.Logger.InfoContext(ctx, "scenario loaded",
		"scenario", id,
		"employees", len(roster.Employees),
		"attendance", len(roster.Punches),
	)
	return nil
}

// =============================================================================
// SCENARIO ROSTERS
// =============================================================================

// dayShiftRoster is one employee on a 07:00-17:00 weekday shift with a 30
// minute grace window, punching in at 07:05 on Thursday 2025-10-09.
func dayShiftRoster(out string) factory.RosterJSON {
	return factory.RosterJSON{
		Employees: []factory.EmployeeJSON{
			{ID: "emp-001", Name: "Alice Reyes", Email: "alice@example.com", HiredOn: "2024-06-01"},
		},
		Shifts: []factory.ShiftJSON{factory.DayShift("day", "Day Shift", "07:00", "17:00", 30)},
		Weekly: factory.WeekdayAssignments("emp-001", "day"),
		Rates: []factory.RateJSON{
			factory.Rate("emp-001", "2025-10-01", "daily", "630.00"),
		},
		Attendance: []factory.PunchJSON{
			factory.Punch("emp-001", "2025-10-09", "07:05", out),
		},
	}
}

// restDayRoster assigns Monday and Wednesday to Friday only, then records a
// full day on Tuesday 2025-10-07.
func restDayRoster() factory.RosterJSON {
	return factory.RosterJSON{
		Employees: []factory.EmployeeJSON{
			{ID: "emp-002", Name: "Ben Santos"},
		},
		Shifts: []factory.ShiftJSON{factory.DayShift("day", "Day Shift", "07:00", "17:00", 30)},
		Weekly: factory.WeekdayAssignments("emp-002", "day", 1, 3, 4, 5),
		Rates: []factory.RateJSON{
			factory.Rate("emp-002", "2025-10-01", "hourly", "80.00"),
		},
		Attendance: []factory.PunchJSON{
			factory.Punch("emp-002", "2025-10-07", "08:00", "16:00"),
			factory.Punch("emp-002", "2025-10-08", "07:00", "17:00"),
		},
	}
}

func dailyPayslipRoster() factory.RosterJSON {
	return factory.RosterJSON{
		Employees: []factory.EmployeeJSON{
			{ID: "emp-003", Name: "Carla Mendoza"},
		},
		Shifts: []factory.ShiftJSON{factory.DayShift("day", "Day Shift", "08:00", "17:00", 0)},
		Weekly: factory.WeekdayAssignments("emp-003", "day"),
		Rates: []factory.RateJSON{
			factory.Rate("emp-003", "2025-09-01", "daily", "450.00"),
			factory.Rate("emp-003", "2025-10-01", "daily", "500.00"),
		},
		Attendance: []factory.PunchJSON{
			factory.Punch("emp-003", "2025-10-09", "08:00", "17:00"),
		},
	}
}

// mixedBasisRoster covers every basis in the first October cut-off.
// emp-004 has both monthly and hourly rates; monthly wins by precedence.
func mixedBasisRoster() factory.RosterJSON {
	roster := factory.RosterJSON{
		Employees: []factory.EmployeeJSON{
			{ID: "emp-004", Name: "Dan Villanueva"},
			{ID: "emp-005", Name: "Ella Cruz"},
			{ID: "emp-006", Name: "Fely Bautista"},
			{ID: "emp-007", Name: "Gino Ramos"},
		},
		Shifts: []factory.ShiftJSON{
			factory.DayShift("day", "Day Shift", "07:00", "17:00", 30),
			factory.FlexShift("flex", "Flexible", "09:00"),
		},
		Rates: []factory.RateJSON{
			factory.Rate("emp-004", "2025-10-01", "monthly", "26000.00"),
			factory.Rate("emp-004", "2025-10-01", "hourly", "100.00"),
			factory.Rate("emp-005", "2025-10-01", "hourly", "95.00"),
			factory.Rate("emp-006", "2025-10-01", "piece", "12.50"),
			factory.Rate("emp-007", "2025-10-01", "semi_monthly", "13000.00"),
		},
	}
	for _, emp := range []string{"emp-004", "emp-005", "emp-006"} {
		roster.Weekly = append(roster.Weekly, factory.WeekdayAssignments(emp, "day")...)
	}
	roster.Weekly = append(roster.Weekly, factory.WeekdayAssignments("emp-007", "flex")...)

	for _, day := range []string{"2025-10-06", "2025-10-07", "2025-10-08"} {
		roster.Attendance = append(roster.Attendance,
			factory.Punch("emp-004", day, "07:00", "17:00"),
			factory.Punch("emp-005", day, "07:10", "18:00"),
			factory.PiecePunch("emp-006", day, "07:00", "16:00", "40"),
			factory.Punch("emp-007", day, "09:00", "18:00"),
		)
	}
	return roster
}
