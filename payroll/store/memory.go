// Package store provides an in-memory payroll.Store implementation.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[payroll.EmployeeID]payroll.Employee
	shifts    map[payroll.ShiftID]payroll.ShiftDefinition
	overrides map[overrideKey]payroll.ShiftOverride
	weekly    map[weeklyKey]payroll.WeeklyShiftAssignment
	punches   map[punchKey]payroll.AttendancePunch
	rates     []payroll.EmployeeRate
	runs      []payroll.PayrollRun
	seq       int64
}

type overrideKey struct {
	EmployeeID payroll.EmployeeID
	Date       payroll.Date
}

type weeklyKey struct {
	EmployeeID payroll.EmployeeID
	DayOfWeek  int
}

type punchKey struct {
	EmployeeID payroll.EmployeeID
	WorkDate   payroll.Date
}

var (
	_ payroll.Store    = (*Memory)(nil)
	_ payroll.Writer   = (*Memory)(nil)
	_ payroll.RunStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[payroll.EmployeeID]payroll.Employee),
		shifts:    make(map[payroll.ShiftID]payroll.ShiftDefinition),
		overrides: make(map[overrideKey]payroll.ShiftOverride),
		weekly:    make(map[weeklyKey]payroll.WeeklyShiftAssignment),
		punches:   make(map[punchKey]payroll.AttendancePunch),
	}
}

// =============================================================================
// WRITES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, emp payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
	return nil
}

func (m *Memory) SaveShift(_ context.Context, shift payroll.ShiftDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ID] = shift
	return nil
}

func (m *Memory) SaveOverride(_ context.Context, o payroll.ShiftOverride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[overrideKey{EmployeeID: o.EmployeeID, Date: o.Date}] = o
	return nil
}

func (m *Memory) DeleteOverride(_ context.Context, employeeID payroll.EmployeeID, date payroll.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, overrideKey{EmployeeID: employeeID, Date: date})
	return nil
}

func (m *Memory) SaveWeeklyAssignment(_ context.Context, a payroll.WeeklyShiftAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weekly[weeklyKey{EmployeeID: a.EmployeeID, DayOfWeek: a.DayOfWeek}] = a
	return nil
}

func (m *Memory) SavePunch(_ context.Context, p payroll.AttendancePunch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punches[punchKey{EmployeeID: p.EmployeeID, WorkDate: p.WorkDate}] = p
	return nil
}

// AppendRate adds a history row. Append-only.
func (m *Memory) AppendRate(_ context.Context, r payroll.EmployeeRate) (payroll.EmployeeRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.seq++
	r.Seq = m.seq
	m.rates = append(m.rates, r)
	return r, nil
}

// =============================================================================
// READS
// =============================================================================

func (m *Memory) GetEmployee(_ context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]payroll.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) ListShifts(_ context.Context) ([]payroll.ShiftDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]payroll.ShiftDefinition, 0, len(m.shifts))
	for _, s := range m.shifts {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) ListOverrides(_ context.Context, employeeID payroll.EmployeeID, from, to payroll.Date) ([]payroll.ShiftOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	period := payroll.Period{Start: from, End: to}
	var result []payroll.ShiftOverride
	for _, o := range m.overrides {
		if employeeID != "" && o.EmployeeID != employeeID {
			continue
		}
		if period.Contains(o.Date) {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *Memory) ListWeeklyAssignments(_ context.Context, employeeID payroll.EmployeeID) ([]payroll.WeeklyShiftAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []payroll.WeeklyShiftAssignment
	for _, a := range m.weekly {
		if employeeID == "" || a.EmployeeID == employeeID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *Memory) ListPunches(_ context.Context, employeeID payroll.EmployeeID, from, to payroll.Date) ([]payroll.AttendancePunch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	period := payroll.Period{Start: from, End: to}
	var result []payroll.AttendancePunch
	for _, p := range m.punches {
		if employeeID != "" && p.EmployeeID != employeeID {
			continue
		}
		if period.Contains(p.WorkDate) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].WorkDate.Equal(result[j].WorkDate) {
			return result[i].WorkDate.Before(result[j].WorkDate)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

// ListRates returns history rows in insertion order.
func (m *Memory) ListRates(_ context.Context, employeeID payroll.EmployeeID) ([]payroll.EmployeeRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []payroll.EmployeeRate
	for _, r := range m.rates {
		if employeeID == "" || r.EmployeeID == employeeID {
			result = append(result, r)
		}
	}
	return result, nil
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

func (m *Memory) SaveRun(_ context.Context, run payroll.PayrollRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// ListRuns returns the newest runs first.
func (m *Memory) ListRuns(_ context.Context, limit int) ([]payroll.PayrollRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]payroll.PayrollRun, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		result = append(result, m.runs[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// Reset clears all data (for testing/demo).
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = make(map[payroll.EmployeeID]payroll.Employee)
	m.shifts = make(map[payroll.ShiftID]payroll.ShiftDefinition)
	m.overrides = make(map[overrideKey]payroll.ShiftOverride)
	m.weekly = make(map[weeklyKey]payroll.WeeklyShiftAssignment)
	m.punches = make(map[punchKey]payroll.AttendancePunch)
	m.rates = nil
	m.runs = nil
	m.seq = 0
	return nil
}

func (m *Memory) IsRunComplete(_ context.Context, period payroll.Period) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.runs {
		if r.Status == payroll.RunCompleted && r.Period.Start.Equal(period.Start) && r.Period.End.Equal(period.End) {
			return true, nil
		}
	}
	return false, nil
}
