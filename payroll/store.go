/*
store.go - Persistence interfaces consumed by the engine

PURPOSE:
  Defines the boundary between the computation engine and the persistence
  collaborator. The engine only READS through Store; Writer exists for the
  admin surface and for seeding tests and demo scenarios.

KEY INTERFACES:
  ShiftStore:      Shift definitions, per-date overrides, weekly assignments
  AttendanceStore: Attendance/DTR rows in a date range
  RateStore:       Append-only rate history
  EmployeeStore:   Employee lookup for input validation
  Writer:          Upserts plus the append-only rate insert
  RunStore:        Recorded payroll runs

CONVENTIONS:
  - An empty EmployeeID argument means "all employees".
  - Lookups that find nothing return (nil, nil) or an empty slice.
  - Rate history is append-only: AppendRate assigns Seq; there is no
    UpdateRate or DeleteRate.

IMPLEMENTATIONS:
  - payroll/store/memory.go: In-memory for tests
  - store/sqlite/sqlite.go:  SQLite
  - store/postgres/postgres.go: PostgreSQL via pgx
*/
package payroll

import "context"

// =============================================================================
// READ INTERFACES
// =============================================================================

type ShiftStore interface {
	// ListShifts returns every shift definition.
	ListShifts(ctx context.Context) ([]ShiftDefinition, error)

	// ListOverrides returns overrides dated within [from, to].
	ListOverrides(ctx context.Context, employeeID EmployeeID, from, to Date) ([]ShiftOverride, error)

	// ListWeeklyAssignments returns weekly assignments.
	ListWeeklyAssignments(ctx context.Context, employeeID EmployeeID) ([]WeeklyShiftAssignment, error)
}

type AttendanceStore interface {
	// ListPunches returns attendance rows with WorkDate in [from, to].
	ListPunches(ctx context.Context, employeeID EmployeeID, from, to Date) ([]AttendancePunch, error)
}

type RateStore interface {
	// ListRates returns rate history in insertion order.
	ListRates(ctx context.Context, employeeID EmployeeID) ([]EmployeeRate, error)
}

type EmployeeStore interface {
	// GetEmployee returns (nil, nil) when the employee does not exist.
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// Store is everything the engine reads.
type Store interface {
	ShiftStore
	AttendanceStore
	RateStore
	EmployeeStore
}

// =============================================================================
// WRITE INTERFACES
// =============================================================================

type Writer interface {
	SaveEmployee(ctx context.Context, emp Employee) error
	SaveShift(ctx context.Context, shift ShiftDefinition) error
	SaveOverride(ctx context.Context, o ShiftOverride) error
	DeleteOverride(ctx context.Context, employeeID EmployeeID, date Date) error
	SaveWeeklyAssignment(ctx context.Context, a WeeklyShiftAssignment) error
	SavePunch(ctx context.Context, p AttendancePunch) error

	// AppendRate inserts a new history row and returns it with Seq set.
	AppendRate(ctx context.Context, r EmployeeRate) (EmployeeRate, error)
}

type RunStore interface {
	SaveRun(ctx context.Context, run PayrollRun) error
	ListRuns(ctx context.Context, limit int) ([]PayrollRun, error)
	IsRunComplete(ctx context.Context, period Period) (bool, error)
}
