/*
Package postgres provides a PostgreSQL-backed implementation of the payroll storage interfaces.

PURPOSE:
  Same contract as store/sqlite, for deployments that already run
  PostgreSQL. Uses a pgx connection pool; the database handles
  concurrency, so there is no process-level mutex.

DIALECT NOTES:
  - Dates are DATE, times of day TIME, punches TIMESTAMPTZ.
  - Money and units are NUMERIC; they travel as text to keep decimal
    precision end to end.
  - employee_rates.seq is a BIGSERIAL assigned on insert.

SEE ALSO:
  - store/sqlite/sqlite.go: SQLite implementation and table docs
*/
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

type Store struct {
	pool *pgxpool.Pool
}

var (
	_ payroll.Store    = (*Store)(nil)
	_ payroll.Writer   = (*Store)(nil)
	_ payroll.RunStore = (*Store)(nil)
)

// New connects to dsn, pings the server and migrates the schema.
func New(ctx context.Context, dsn string) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hire_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		start_time TIME,
		end_time TIME,
		ot_grace_min INTEGER,
		standard_minutes INTEGER
	);

	CREATE TABLE IF NOT EXISTS shift_overrides (
		employee_id TEXT NOT NULL,
		date DATE NOT NULL,
		shift_id TEXT,
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS weekly_shift_assignments (
		employee_id TEXT NOT NULL,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 1 AND 7),
		shift_id TEXT,
		PRIMARY KEY (employee_id, day_of_week)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		employee_id TEXT NOT NULL,
		work_date DATE NOT NULL,
		time_in TIMESTAMPTZ,
		time_out TIMESTAMPTZ,
		minutes_regular INTEGER,
		units NUMERIC(14,4) NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, work_date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_work_date
		ON attendance(work_date, employee_id);

	CREATE TABLE IF NOT EXISTS employee_rates (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		employee_id TEXT NOT NULL,
		effective_date DATE NOT NULL,
		basis TEXT NOT NULL CHECK (basis IN ('hourly','daily','semi_monthly','monthly','piece')),
		amount NUMERIC(14,4) NOT NULL,
		currency TEXT NOT NULL DEFAULT '',
		note TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_employee_rates_employee_basis
		ON employee_rates(employee_id, basis, effective_date DESC);

	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		status TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		gross NUMERIC(16,2) NOT NULL DEFAULT 0,
		by_basis_json JSONB,
		error TEXT,
		triggered_by TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_runs_period
		ON payroll_runs(period_start, period_end, status);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `
		INSERT INTO employees (id, name, email, hire_date, created_at)
		VALUES ($1, $2, $3, $4::date, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			hire_date = EXCLUDED.hire_date
	`
	_, err := s.pool.Exec(ctx, query,
		string(emp.ID), emp.Name, optString(emp.Email), optDate(emp.HiredOn), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT id, name, email, hire_date::text, created_at FROM employees WHERE id = $1",
		string(id),
	)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, email, hire_date::text, created_at FROM employees ORDER BY name",
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

func scanEmployee(row pgx.Row) (payroll.Employee, error) {
	var (
		emp             payroll.Employee
		id              string
		email, hireDate *string
	)
	if err := row.Scan(&id, &emp.Name, &email, &hireDate, &emp.CreatedAt); err != nil {
		return emp, err
	}
	emp.ID = payroll.EmployeeID(id)
	if email != nil {
		emp.Email = *email
	}
	if hireDate != nil {
		emp.HiredOn, _ = payroll.ParseDate(*hireDate)
	}
	return emp, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, shift payroll.ShiftDefinition) error {
	query := `
		INSERT INTO shifts (id, name, start_time, end_time, ot_grace_min, standard_minutes)
		VALUES ($1, $2, $3::time, $4::time, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			ot_grace_min = EXCLUDED.ot_grace_min,
			standard_minutes = EXCLUDED.standard_minutes
	`
	_, err := s.pool.Exec(ctx, query,
		string(shift.ID), shift.Name,
		optClock(shift.StartTime), optClock(shift.EndTime),
		shift.OTGraceMinutes, shift.StandardMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

func (s *Store) ListShifts(ctx context.Context) ([]payroll.ShiftDefinition, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, start_time::text, end_time::text, ot_grace_min, standard_minutes
		FROM shifts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []payroll.ShiftDefinition
	for rows.Next() {
		var (
			shift      payroll.ShiftDefinition
			id         string
			start, end *string
		)
		if err := rows.Scan(&id, &shift.Name, &start, &end, &shift.OTGraceMinutes, &shift.StandardMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shift.ID = payroll.ShiftID(id)
		if shift.StartTime, err = parseClock(start); err != nil {
			return nil, err
		}
		if shift.EndTime, err = parseClock(end); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

func (s *Store) SaveOverride(ctx context.Context, o payroll.ShiftOverride) error {
	query := `
		INSERT INTO shift_overrides (employee_id, date, shift_id)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (employee_id, date) DO UPDATE SET shift_id = EXCLUDED.shift_id
	`
	_, err := s.pool.Exec(ctx, query, string(o.EmployeeID), o.Date.String(), optShiftID(o.ShiftID))
	if err != nil {
		return fmt.Errorf("failed to save shift override: %w", err)
	}
	return nil
}

func (s *Store) DeleteOverride(ctx context.Context, employeeID payroll.EmployeeID, date payroll.Date) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM shift_overrides WHERE employee_id = $1 AND date = $2::date",
		string(employeeID), date.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete shift override: %w", err)
	}
	return nil
}

func (s *Store) ListOverrides(ctx context.Context, employeeID payroll.EmployeeID, from, to payroll.Date) ([]payroll.ShiftOverride, error) {
	query := `
		SELECT employee_id, date::text, shift_id FROM shift_overrides
		WHERE date BETWEEN $1::date AND $2::date AND ($3::text = '' OR employee_id = $3)
		ORDER BY date, employee_id
	`
	rows, err := s.pool.Query(ctx, query, from.String(), to.String(), string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to query shift overrides: %w", err)
	}
	defer rows.Close()

	var overrides []payroll.ShiftOverride
	for rows.Next() {
		var (
			empID, date string
			shiftID     *string
		)
		if err := rows.Scan(&empID, &date, &shiftID); err != nil {
			return nil, fmt.Errorf("failed to scan shift override: %w", err)
		}
		d, err := payroll.ParseDate(date)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, payroll.ShiftOverride{
			EmployeeID: payroll.EmployeeID(empID),
			Date:       d,
			ShiftID:    toShiftID(shiftID),
		})
	}
	return overrides, rows.Err()
}

func (s *Store) SaveWeeklyAssignment(ctx context.Context, a payroll.WeeklyShiftAssignment) error {
	query := `
		INSERT INTO weekly_shift_assignments (employee_id, day_of_week, shift_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, day_of_week) DO UPDATE SET shift_id = EXCLUDED.shift_id
	`
	_, err := s.pool.Exec(ctx, query, string(a.EmployeeID), a.DayOfWeek, optShiftID(a.ShiftID))
	if err != nil {
		return fmt.Errorf("failed to save weekly assignment: %w", err)
	}
	return nil
}

func (s *Store) ListWeeklyAssignments(ctx context.Context, employeeID payroll.EmployeeID) ([]payroll.WeeklyShiftAssignment, error) {
	query := `
		SELECT employee_id, day_of_week, shift_id FROM weekly_shift_assignments
		WHERE ($1::text = '' OR employee_id = $1)
		ORDER BY employee_id, day_of_week
	`
	rows, err := s.pool.Query(ctx, query, string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly assignments: %w", err)
	}
	defer rows.Close()

	var assignments []payroll.WeeklyShiftAssignment
	for rows.Next() {
		var (
			empID   string
			day     int
			shiftID *string
		)
		if err := rows.Scan(&empID, &day, &shiftID); err != nil {
			return nil, fmt.Errorf("failed to scan weekly assignment: %w", err)
		}
		assignments = append(assignments, payroll.WeeklyShiftAssignment{
			EmployeeID: payroll.EmployeeID(empID),
			DayOfWeek:  day,
			ShiftID:    toShiftID(shiftID),
		})
	}
	return assignments, rows.Err()
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *Store) SavePunch(ctx context.Context, p payroll.AttendancePunch) error {
	query := `
		INSERT INTO attendance (employee_id, work_date, time_in, time_out, minutes_regular, units)
		VALUES ($1, $2::date, $3, $4, $5, $6::numeric)
		ON CONFLICT (employee_id, work_date) DO UPDATE SET
			time_in = EXCLUDED.time_in,
			time_out = EXCLUDED.time_out,
			minutes_regular = EXCLUDED.minutes_regular,
			units = EXCLUDED.units
	`
	_, err := s.pool.Exec(ctx, query,
		string(p.EmployeeID), p.WorkDate.String(),
		p.TimeIn, p.TimeOut, p.RecordedMinutes, p.Units.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}

func (s *Store) ListPunches(ctx context.Context, employeeID payroll.EmployeeID, from, to payroll.Date) ([]payroll.AttendancePunch, error) {
	query := `
		SELECT employee_id, work_date::text, time_in, time_out, minutes_regular, units::text
		FROM attendance
		WHERE work_date BETWEEN $1::date AND $2::date AND ($3::text = '' OR employee_id = $3)
		ORDER BY work_date, employee_id
	`
	rows, err := s.pool.Query(ctx, query, from.String(), to.String(), string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var punches []payroll.AttendancePunch
	for rows.Next() {
		var (
			p                      payroll.AttendancePunch
			empID, workDate, units string
		)
		if err := rows.Scan(&empID, &workDate, &p.TimeIn, &p.TimeOut, &p.RecordedMinutes, &units); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		p.EmployeeID = payroll.EmployeeID(empID)
		if p.WorkDate, err = payroll.ParseDate(workDate); err != nil {
			return nil, err
		}
		if p.Units, err = decimal.NewFromString(units); err != nil {
			return nil, fmt.Errorf("failed to parse units %q: %w", units, err)
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

// =============================================================================
// RATES - append-only
// =============================================================================

func (s *Store) AppendRate(ctx context.Context, r payroll.EmployeeRate) (payroll.EmployeeRate, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	query := `
		INSERT INTO employee_rates (id, employee_id, effective_date, basis, amount, currency, note)
		VALUES ($1, $2, $3::date, $4, $5::numeric, $6, $7)
		RETURNING seq
	`
	err := s.pool.QueryRow(ctx, query,
		r.ID, string(r.EmployeeID), r.EffectiveDate.String(), string(r.Basis),
		r.Amount.String(), r.Currency, optString(r.Note),
	).Scan(&r.Seq)
	if err != nil {
		return payroll.EmployeeRate{}, fmt.Errorf("failed to append rate: %w", err)
	}
	return r, nil
}

func (s *Store) ListRates(ctx context.Context, employeeID payroll.EmployeeID) ([]payroll.EmployeeRate, error) {
	query := `
		SELECT seq, id, employee_id, effective_date::text, basis, amount::text, currency, note
		FROM employee_rates
		WHERE ($1::text = '' OR employee_id = $1)
		ORDER BY seq
	`
	rows, err := s.pool.Query(ctx, query, string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	var rates []payroll.EmployeeRate
	for rows.Next() {
		var (
			r                                   payroll.EmployeeRate
			empID, effectiveDate, basis, amount string
			note                                *string
		)
		if err := rows.Scan(&r.Seq, &r.ID, &empID, &effectiveDate, &basis, &amount, &r.Currency, &note); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		r.EmployeeID = payroll.EmployeeID(empID)
		r.Basis = payroll.Basis(basis)
		if r.EffectiveDate, err = payroll.ParseDate(effectiveDate); err != nil {
			return nil, err
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse rate amount %q: %w", amount, err)
		}
		if note != nil {
			r.Note = *note
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

func (s *Store) SaveRun(ctx context.Context, run payroll.PayrollRun) error {
	var byBasis *string
	if len(run.ByBasis) > 0 {
		data, err := json.Marshal(run.ByBasis)
		if err != nil {
			return fmt.Errorf("failed to encode totals: %w", err)
		}
		encoded := string(data)
		byBasis = &encoded
	}
	query := `
		INSERT INTO payroll_runs (id, period_start, period_end, status, row_count, gross,
			by_basis_json, error, triggered_by, created_at)
		VALUES ($1, $2::date, $3::date, $4, $5, $6::numeric, $7::jsonb, $8, $9, $10)
	`
	_, err := s.pool.Exec(ctx, query,
		run.ID, run.Period.Start.String(), run.Period.End.String(),
		string(run.Status), run.Count, run.Gross.String(), byBasis,
		optString(run.Error), optString(run.TriggeredBy), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll run: %w", err)
	}
	return nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]payroll.PayrollRun, error) {
	query := `
		SELECT id, period_start::text, period_end::text, status, row_count, gross::text,
			by_basis_json::text, error, triggered_by, created_at
		FROM payroll_runs
		ORDER BY created_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		var (
			r                                     payroll.PayrollRun
			status, periodStart, periodEnd, gross string
			byBasis, runErr, triggeredBy          *string
		)
		if err := rows.Scan(&r.ID, &periodStart, &periodEnd, &status, &r.Count, &gross,
			&byBasis, &runErr, &triggeredBy, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		r.Status = payroll.RunStatus(status)
		r.Period.Start, _ = payroll.ParseDate(periodStart)
		r.Period.End, _ = payroll.ParseDate(periodEnd)
		r.Gross, _ = decimal.NewFromString(gross)
		r.ByBasis = map[payroll.Basis]decimal.Decimal{}
		if byBasis != nil {
			if err := json.Unmarshal([]byte(*byBasis), &r.ByBasis); err != nil {
				return nil, fmt.Errorf("failed to decode totals: %w", err)
			}
		}
		if runErr != nil {
			r.Error = *runErr
		}
		if triggeredBy != nil {
			r.TriggeredBy = *triggeredBy
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *Store) IsRunComplete(ctx context.Context, period payroll.Period) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM payroll_runs
			WHERE period_start = $1::date AND period_end = $2::date AND status = $3
		)
	`, period.Start.String(), period.End.String(), string(payroll.RunCompleted)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll run: %w", err)
	}
	return exists, nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		TRUNCATE payroll_runs, employee_rates, attendance, weekly_shift_assignments,
			shift_overrides, shifts, employees RESTART IDENTITY
	`)
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}

// Helper functions

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optDate(d payroll.Date) *string {
	if d.IsZero() {
		return nil
	}
	return optString(d.String())
}

func optClock(c *payroll.ClockTime) *string {
	if c == nil {
		return nil
	}
	return optString(c.String())
}

func parseClock(s *string) (*payroll.ClockTime, error) {
	if s == nil {
		return nil, nil
	}
	c, err := payroll.ParseClockTime(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func optShiftID(id *payroll.ShiftID) *string {
	if id == nil {
		return nil
	}
	return optString(string(*id))
}

func toShiftID(s *string) *payroll.ShiftID {
	if s == nil {
		return nil
	}
	id := payroll.ShiftID(*s)
	return &id
}
