/*
Package sqlite provides a SQLite-backed implementation of the payroll storage interfaces.

PURPOSE:
  Implements payroll.Store, payroll.Writer and payroll.RunStore using
  SQLite. store/postgres carries the same schema in the PostgreSQL dialect.

INTERFACES IMPLEMENTED:
  payroll.Store:    Shifts, overrides, weekly assignments, attendance, rates, employees
  payroll.Writer:   Admin upserts plus the append-only rate insert
  payroll.RunStore: Recorded payroll runs

APPEND-ONLY ENFORCEMENT:
  employee_rates is append-only:
  - No UPDATE statements on employee_rates
  - No DELETE statements on employee_rates (Reset aside)
  - A rate change is a new row; seq orders rows sharing an effective date

KEY TABLES:
  employees:                Entity records
  shifts:                   Shift definitions (every column nullable but id)
  shift_overrides:          Per-date shift pins, NULL shift_id = forced rest day
  weekly_shift_assignments: Day-of-week fallback (1 = Monday ... 7 = Sunday)
  attendance:               One DTR row per employee per work date
  employee_rates:           Rate history
  payroll_runs:             Bulk summaries recorded by the scheduler

STORAGE FORMATS:
  - Calendar dates:  TEXT "2006-01-02"
  - Times of day:    TEXT "15:04:05"
  - Punch instants:  TEXT RFC3339Nano in UTC
  - Money/units:     TEXT decimal strings (never REAL)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. PostgreSQL relies on the database
  instead.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := payroll.NewService(store, payroll.Settings{}, time.UTC, logger)

SEE ALSO:
  - payroll/store.go: Interface definitions
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// Store implements the payroll storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ payroll.Store    = (*Store)(nil)
	_ payroll.Writer   = (*Store)(nil)
	_ payroll.RunStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every :memory: connection is its own database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hire_date TEXT,
		created_at TEXT NOT NULL
	);

	-- Shift definitions
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		start_time TEXT,
		end_time TEXT,
		ot_grace_min INTEGER,
		standard_minutes INTEGER
	);

	-- Per-date overrides (highest precedence)
	CREATE TABLE IF NOT EXISTS shift_overrides (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		shift_id TEXT,
		PRIMARY KEY (employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_shift_overrides_date
		ON shift_overrides(date);

	-- Weekly fallback
	CREATE TABLE IF NOT EXISTS weekly_shift_assignments (
		employee_id TEXT NOT NULL,
		day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 1 AND 7),
		shift_id TEXT,
		PRIMARY KEY (employee_id, day_of_week)
	);

	-- Attendance / DTR
	CREATE TABLE IF NOT EXISTS attendance (
		employee_id TEXT NOT NULL,
		work_date TEXT NOT NULL,
		time_in TEXT,
		time_out TEXT,
		minutes_regular INTEGER,
		units TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (employee_id, work_date)
	);

	-- Hot path: range summaries
	CREATE INDEX IF NOT EXISTS idx_attendance_work_date
		ON attendance(work_date, employee_id);

	-- Rate history (append-only)
	CREATE TABLE IF NOT EXISTS employee_rates (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		employee_id TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		basis TEXT NOT NULL CHECK (basis IN ('hourly','daily','semi_monthly','monthly','piece')),
		amount TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT '',
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employee_rates_employee_basis
		ON employee_rates(employee_id, basis, effective_date DESC);

	-- Payroll runs (scheduler)
	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		status TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		gross TEXT NOT NULL DEFAULT '0',
		by_basis_json TEXT,
		error TEXT,
		triggered_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_runs_period
		ON payroll_runs(period_start, period_end, status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee upserts an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO employees (id, name, email, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			hire_date = excluded.hire_date
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, nullString(emp.Email),
		nullDate(emp.HiredOn),
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID. Returns (nil, nil) when absent.
func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, hire_date, created_at FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, hire_date, created_at FROM employees ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row scanner) (payroll.Employee, error) {
	var (
		emp       payroll.Employee
		email     sql.NullString
		hireDate  sql.NullString
		createdAt string
	)
	if err := row.Scan(&emp.ID, &emp.Name, &email, &hireDate, &createdAt); err != nil {
		return emp, err
	}
	emp.Email = email.String
	if hireDate.Valid {
		emp.HiredOn, _ = payroll.ParseDate(hireDate.String)
	}
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return emp, nil
}

// =============================================================================
// SHIFTS (payroll.ShiftStore interface)
// =============================================================================

// SaveShift upserts a shift definition.
func (s *Store) SaveShift(ctx context.Context, shift payroll.ShiftDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO shifts (id, name, start_time, end_time, ot_grace_min, standard_minutes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			ot_grace_min = excluded.ot_grace_min,
			standard_minutes = excluded.standard_minutes
	`

	_, err := s.db.ExecContext(ctx, query,
		shift.ID, shift.Name,
		nullClock(shift.StartTime), nullClock(shift.EndTime),
		nullInt(shift.OTGraceMinutes), nullInt(shift.StandardMinutes),
	)
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

// ListShifts returns every shift definition.
func (s *Store) ListShifts(ctx context.Context) ([]payroll.ShiftDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_time, end_time, ot_grace_min, standard_minutes
		FROM shifts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []payroll.ShiftDefinition
	for rows.Next() {
		var (
			shift           payroll.ShiftDefinition
			start, end      sql.NullString
			grace, standard sql.NullInt64
		)
		if err := rows.Scan(&shift.ID, &shift.Name, &start, &end, &grace, &standard); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		if shift.StartTime, err = parseNullClock(start); err != nil {
			return nil, err
		}
		if shift.EndTime, err = parseNullClock(end); err != nil {
			return nil, err
		}
		shift.OTGraceMinutes = intPtr(grace)
		shift.StandardMinutes = intPtr(standard)
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

// SaveOverride upserts a per-date override. A nil ShiftID stores a forced rest day.
func (s *Store) SaveOverride(ctx context.Context, o payroll.ShiftOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO shift_overrides (employee_id, date, shift_id)
		VALUES (?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET shift_id = excluded.shift_id
	`
	_, err := s.db.ExecContext(ctx, query, o.EmployeeID, o.Date.String(), nullShiftID(o.ShiftID))
	if err != nil {
		return fmt.Errorf("failed to save shift override: %w", err)
	}
	return nil
}

// DeleteOverride removes a per-date override.
func (s *Store) DeleteOverride(ctx context.Context, employeeID payroll.EmployeeID, date payroll.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM shift_overrides WHERE employee_id = ? AND date = ?",
		employeeID, date.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete shift override: %w", err)
	}
	return nil
}

// ListOverrides returns overrides dated within [from, to].
func (s *Store) ListOverrides(ctx context.Context, employeeID payroll.EmployeeID, from, to payroll.Date) ([]payroll.ShiftOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, date, shift_id FROM shift_overrides
		WHERE date >= ? AND date <= ? AND (? = '' OR employee_id = ?)
		ORDER BY date, employee_id
	`
	rows, err := s.db.QueryContext(ctx, query, from.String(), to.String(), employeeID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift overrides: %w", err)
	}
	defer rows.Close()

	var overrides []payroll.ShiftOverride
	for rows.Next() {
		var (
			o       payroll.ShiftOverride
			date    string
			shiftID sql.NullString
		)
		if err := rows.Scan(&o.EmployeeID, &date, &shiftID); err != nil {
			return nil, fmt.Errorf("failed to scan shift override: %w", err)
		}
		if o.Date, err = payroll.ParseDate(date); err != nil {
			return nil, err
		}
		o.ShiftID = shiftIDPtr(shiftID)
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// SaveWeeklyAssignment upserts the shift for one day of the week.
func (s *Store) SaveWeeklyAssignment(ctx context.Context, a payroll.WeeklyShiftAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO weekly_shift_assignments (employee_id, day_of_week, shift_id)
		VALUES (?, ?, ?)
		ON CONFLICT(employee_id, day_of_week) DO UPDATE SET shift_id = excluded.shift_id
	`
	_, err := s.db.ExecContext(ctx, query, a.EmployeeID, a.DayOfWeek, nullShiftID(a.ShiftID))
	if err != nil {
		return fmt.Errorf("failed to save weekly assignment: %w", err)
	}
	return nil
}

// ListWeeklyAssignments returns weekly assignments.
func (s *Store) ListWeeklyAssignments(ctx context.Context, employeeID payroll.EmployeeID) ([]payroll.WeeklyShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, day_of_week, shift_id FROM weekly_shift_assignments
		WHERE (? = '' OR employee_id = ?)
		ORDER BY employee_id, day_of_week
	`
	rows, err := s.db.QueryContext(ctx, query, employeeID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly assignments: %w", err)
	}
	defer rows.Close()

	var assignments []payroll.WeeklyShiftAssignment
	for rows.Next() {
		var (
			a       payroll.WeeklyShiftAssignment
			shiftID sql.NullString
		)
		if err := rows.Scan(&a.EmployeeID, &a.DayOfWeek, &shiftID); err != nil {
			return nil, fmt.Errorf("failed to scan weekly assignment: %w", err)
		}
		a.ShiftID = shiftIDPtr(shiftID)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// =============================================================================
// ATTENDANCE (payroll.AttendanceStore interface)
// =============================================================================

// SavePunch upserts the attendance row for (employee, work date).
func (s *Store) SavePunch(ctx context.Context, p payroll.AttendancePunch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance (employee_id, work_date, time_in, time_out, minutes_regular, units)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, work_date) DO UPDATE SET
			time_in = excluded.time_in,
			time_out = excluded.time_out,
			minutes_regular = excluded.minutes_regular,
			units = excluded.units
	`
	_, err := s.db.ExecContext(ctx, query,
		p.EmployeeID, p.WorkDate.String(),
		nullInstant(p.TimeIn), nullInstant(p.TimeOut),
		nullInt(p.RecordedMinutes), p.Units.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}

// ListPunches returns attendance rows with work_date in [from, to],
// ordered by work date then employee.
func (s *Store) ListPunches(ctx context.Context, employeeID payroll.EmployeeID, from, to payroll.Date) ([]payroll.AttendancePunch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, work_date, time_in, time_out, minutes_regular, units
		FROM attendance
		WHERE work_date >= ? AND work_date <= ? AND (? = '' OR employee_id = ?)
		ORDER BY work_date, employee_id
	`
	rows, err := s.db.QueryContext(ctx, query, from.String(), to.String(), employeeID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var punches []payroll.AttendancePunch
	for rows.Next() {
		var (
			p               payroll.AttendancePunch
			workDate, units string
			timeIn, timeOut sql.NullString
			minutes         sql.NullInt64
		)
		if err := rows.Scan(&p.EmployeeID, &workDate, &timeIn, &timeOut, &minutes, &units); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		if p.WorkDate, err = payroll.ParseDate(workDate); err != nil {
			return nil, err
		}
		if p.TimeIn, err = parseNullInstant(timeIn); err != nil {
			return nil, err
		}
		if p.TimeOut, err = parseNullInstant(timeOut); err != nil {
			return nil, err
		}
		p.RecordedMinutes = intPtr(minutes)
		if p.Units, err = decimal.NewFromString(units); err != nil {
			return nil, fmt.Errorf("failed to parse units %q: %w", units, err)
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

// =============================================================================
// RATES (payroll.RateStore interface) - append-only
// =============================================================================

// AppendRate inserts a rate history row. The database assigns Seq.
func (s *Store) AppendRate(ctx context.Context, r payroll.EmployeeRate) (payroll.EmployeeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	query := `
		INSERT INTO employee_rates (id, employee_id, effective_date, basis, amount, currency, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, r.EffectiveDate.String(), r.Basis,
		r.Amount.String(), r.Currency, nullString(r.Note),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return payroll.EmployeeRate{}, fmt.Errorf("failed to append rate: %w", err)
	}
	if r.Seq, err = res.LastInsertId(); err != nil {
		return payroll.EmployeeRate{}, fmt.Errorf("failed to read rate seq: %w", err)
	}
	return r, nil
}

// ListRates returns rate history in insertion order.
func (s *Store) ListRates(ctx context.Context, employeeID payroll.EmployeeID) ([]payroll.EmployeeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT seq, id, employee_id, effective_date, basis, amount, currency, note
		FROM employee_rates
		WHERE (? = '' OR employee_id = ?)
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, employeeID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	var rates []payroll.EmployeeRate
	for rows.Next() {
		var (
			r                     payroll.EmployeeRate
			effectiveDate, amount string
			note                  sql.NullString
		)
		if err := rows.Scan(&r.Seq, &r.ID, &r.EmployeeID, &effectiveDate, &r.Basis, &amount, &r.Currency, &note); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		if r.EffectiveDate, err = payroll.ParseDate(effectiveDate); err != nil {
			return nil, err
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse rate amount %q: %w", amount, err)
		}
		r.Note = note.String
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

// =============================================================================
// PAYROLL RUNS (payroll.RunStore interface)
// =============================================================================

// SaveRun records a payroll run.
func (s *Store) SaveRun(ctx context.Context, run payroll.PayrollRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byBasis, err := encodeByBasis(run.ByBasis)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payroll_runs (id, period_start, period_end, status, row_count, gross,
			by_basis_json, error, triggered_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID, run.Period.Start.String(), run.Period.End.String(),
		run.Status, run.Count, run.Gross.String(), byBasis,
		nullString(run.Error), nullString(run.TriggeredBy),
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll run: %w", err)
	}
	return nil
}

// ListRuns returns the newest runs first. A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]payroll.PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, period_start, period_end, status, row_count, gross,
			by_basis_json, error, triggered_by, created_at
		FROM payroll_runs
		ORDER BY created_at DESC, rowid DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		var (
			r                                 payroll.PayrollRun
			periodStart, periodEnd, gross, ca string
			byBasis, runErr, triggeredBy      sql.NullString
		)
		if err := rows.Scan(&r.ID, &periodStart, &periodEnd, &r.Status, &r.Count, &gross,
			&byBasis, &runErr, &triggeredBy, &ca); err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		r.Period.Start, _ = payroll.ParseDate(periodStart)
		r.Period.End, _ = payroll.ParseDate(periodEnd)
		r.Gross, _ = decimal.NewFromString(gross)
		if r.ByBasis, err = decodeByBasis(byBasis); err != nil {
			return nil, err
		}
		r.Error = runErr.String
		r.TriggeredBy = triggeredBy.String
		r.CreatedAt, _ = time.Parse(time.RFC3339, ca)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// IsRunComplete checks whether a completed run exists for period.
func (s *Store) IsRunComplete(ctx context.Context, period payroll.Period) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM payroll_runs
		WHERE period_start = ? AND period_end = ? AND status = ?
	`
	var count int
	err := s.db.QueryRowContext(ctx, query,
		period.Start.String(), period.End.String(), payroll.RunCompleted,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll run: %w", err)
	}
	return count > 0, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"payroll_runs", "employee_rates", "attendance",
		"weekly_shift_assignments", "shift_overrides", "shifts", "employees",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d payroll.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullClock(c *payroll.ClockTime) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: c.String(), Valid: true}
}

func parseNullClock(s sql.NullString) (*payroll.ClockTime, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	c, err := payroll.ParseClockTime(s.String)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nullShiftID(id *payroll.ShiftID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*id), Valid: true}
}

func shiftIDPtr(s sql.NullString) *payroll.ShiftID {
	if !s.Valid {
		return nil
	}
	id := payroll.ShiftID(s.String)
	return &id
}

func nullInstant(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseNullInstant(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instant %q: %w", s.String, err)
	}
	return &t, nil
}

func encodeByBasis(m map[payroll.Basis]decimal.Decimal) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode totals: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeByBasis(s sql.NullString) (map[payroll.Basis]decimal.Decimal, error) {
	m := map[payroll.Basis]decimal.Decimal{}
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, fmt.Errorf("failed to decode totals: %w", err)
	}
	return m, nil
}
