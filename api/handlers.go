/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll computation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to payroll.Service.

ENDPOINTS:
  Employees:
    GET    /api/employees                          List all employees
    POST   /api/employees                          Create or update employee
    GET    /api/employees/{id}                     Get employee details
    GET    /api/employees/{id}/effective-shift     Resolve shift for ?date=
    GET    /api/employees/{id}/weekly              Weekly assignments
    DELETE /api/employees/{id}/overrides/{date}    Remove a per-date override
    GET    /api/employees/{id}/rates               Rate history
    POST   /api/employees/{id}/rates               Append a rate (append-only)
    GET    /api/employees/{id}/attendance          Attendance in ?from=&to=

  Configuration:
    GET    /api/shifts                             List shift definitions
    POST   /api/shifts                             Create or update shift
    POST   /api/overrides                          Pin a shift to a date
    PUT    /api/weekly                             Set a weekly assignment
    POST   /api/attendance                         Record an attendance row
    POST   /api/roster/import                      Bulk import (factory roster)

  Pay:
    POST   /api/payslips/daily                     Daily-basis payslip
    GET    /api/payslips/daily.csv                 Same, as CSV
    GET    /api/payroll/summary                    Range summary (format=csv)
    GET    /api/payroll/runs                       Recorded payroll runs
    POST   /api/payroll/runs                       Trigger a run
    GET    /api/payroll/scheduler                  Scheduler status and next check

  Scenarios:
    GET    /api/scenarios                          List demo scenarios
    POST   /api/scenarios/load                     Load a demo scenario
    POST   /api/scenarios/reset                    Clear all data

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (with the offending field),
         including an unknown employee_id on a payslip
  - 404: Employee not found on /employees/{id} routes
  - 502: The persistence collaborator failed during a computation
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/erwinmanzano2020/Agui-sub001/export"
	"github.com/erwinmanzano2020/Agui-sub001/factory"
	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// DataStore is everything the HTTP surface needs from persistence.
// store/sqlite, store/postgres and payroll/store.Memory all satisfy it.
type DataStore interface {
	payroll.Store
	payroll.Writer
	payroll.RunStore
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     DataStore
	Service   *payroll.Service
	Factory   *factory.ConfigFactory
	Scheduler *PayrollRunScheduler
	Logger    *slog.Logger

	validate *validator.Validate

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler. The service must read from store.
func NewHandler(store DataStore, svc *payroll.Service) *Handler {
	return &Handler{
		Store:     store,
		Service:   svc,
		Factory:   factory.NewConfigFactory(svc.Location),
		Scheduler: NewPayrollRunScheduler(svc, store, svc.Logger),
		Logger:    svc.Logger,
		validate:  newValidator(),
	}
}

// newValidator reports json field names instead of Go field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req factory.EmployeeJSON
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	emp, err := h.Factory.EmployeeFromJSON(req)
	if err != nil {
		handleError(w, err)
		return
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEffectiveShift resolves the shift for one employee on ?date=.
// GET /api/employees/{id}/effective-shift?date=2025-10-09
func (h *Handler) GetEffectiveShift(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handleError(w, &payroll.ValidationError{Field: "date", Message: "is required"})
		return
	}
	date, err := payroll.ParseDate(dateStr)
	if err != nil {
		handleError(w, &payroll.ValidationError{Field: "date", Message: err.Error()})
		return
	}

	eff, err := h.Service.ResolveEffectiveShift(r.Context(), id, date)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEffectiveShiftDTO(h.Factory, eff))
}

// =============================================================================
// SHIFT CONFIGURATION HANDLERS
// =============================================================================

// ListShifts returns all shift definitions.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Store.ListShifts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}
	dtos := make([]factory.ShiftJSON, len(shifts))
	for i, s := range shifts {
		dtos[i] = h.Factory.ShiftToJSON(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift creates or updates a shift definition.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req factory.ShiftJSON
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	shift, err := h.Factory.ShiftFromJSON(req)
	if err != nil {
		handleError(w, err)
		return
	}
	if err := h.Store.SaveShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.Factory.ShiftToJSON(shift))
}

// SaveOverride pins a shift (or a forced rest day) to one date.
func (h *Handler) SaveOverride(w http.ResponseWriter, r *http.Request) {
	var req factory.OverrideJSON
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	o, err := h.Factory.OverrideFromJSON(req)
	if err != nil {
		handleError(w, err)
		return
	}
	if err := h.Store.SaveOverride(r.Context(), o); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// DeleteOverride removes a per-date override.
// DELETE /api/employees/{id}/overrides/{date}
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	date, err := payroll.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		handleError(w, &payroll.ValidationError{Field: "date", Message: err.Error()})
		return
	}
	if err := h.Store.DeleteOverride(r.Context(), id, date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete override", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SaveWeeklyAssignment sets the shift for one day of the week.
func (h *Handler) SaveWeeklyAssignment(w http.ResponseWriter, r *http.Request) {
	var req factory.WeeklyJSON
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	a, err := h.Factory.WeeklyFromJSON(req)
	if err != nil {
		handleError(w, err)
		return
	}
	if err := h.Store.SaveWeeklyAssignment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save weekly assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ListWeeklyAssignments returns an employee's weekly assignments.
func (h *Handler) ListWeeklyAssignments(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	assignments, err := h.Store.ListWeeklyAssignments(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list weekly assignments", err)
		return
	}
	dtos := make([]factory.WeeklyJSON, len(assignments))
	for i, a := range assignments {
		dtos[i] = factory.WeeklyJSON{EmployeeID: string(a.EmployeeID), DayOfWeek: a.DayOfWeek}
		if a.ShiftID != nil {
			s := string(*a.ShiftID)
			dtos[i].ShiftID = &s
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ImportRoster applies a full factory roster in one request. Roster settings
// are merged into the service settings until the next reset.
func (h *Handler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	var req factory.RosterJSON
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	roster, err := h.Factory.RosterFromJSON(req)
	if err != nil {
		handleError(w, err)
		return
	}
	if err := roster.Apply(r.Context(), h.Store); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import roster", err)
		return
	}
	if req.Settings != nil {
		applied := h.Service.ApplySettings(roster.Settings)
		h.Logger.InfoContext(r.Context(), "roster settings applied",
			slog.String("hours_per_day", applied.HoursPerDay.String()),
			slog.String("days_per_month", applied.DaysPerMonth.String()),
		)
	}
	writeJSON(w, http.StatusCreated, map[string]int{
		"employees":  len(roster.Employees),
		"shifts":     len(roster.Shifts),
		"weekly":     len(roster.Weekly),
		"overrides":  len(roster.Overrides),
		"rates":      len(roster.Rates),
		"attendance": len(roster.Punches),
	})
}

// =============================================================================
// RATE & ATTENDANCE HANDLERS
// =============================================================================

// ListRates returns an employee's rate history in insertion order.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	rates, err := h.Store.ListRates(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rates", err)
		return
	}
	dtos := make([]RateDTO, len(rates))
	for i, rate := range rates {
		dtos[i] = toRateDTO(rate)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRate appends a rate history row. Existing rows are never modified.
// POST /api/employees/{id}/rates
func (h *Handler) CreateRate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateRateRequest
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), payroll.EmployeeID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		handleError(w, payroll.ErrEmployeeNotFound)
		return
	}

	rate, err := h.Factory.RateFromJSON(factory.RateJSON{
		EmployeeID:    id,
		EffectiveDate: req.EffectiveDate,
		Basis:         req.Basis,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Note:          req.Note,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	saved, err := h.Store.AppendRate(r.Context(), rate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to append rate", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRateDTO(saved))
}

// SavePunch records (or replaces) one attendance row.
func (h *Handler) SavePunch(w http.ResponseWriter, r *http.Request) {
	var req factory.PunchJSON
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	p, err := h.Factory.PunchFromJSON(req)
	if err != nil {
		handleError(w, err)
		return
	}
	if err := h.Store.SavePunch(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save attendance", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPunchDTO(p))
}

// ListAttendance returns an employee's attendance rows in ?from=&to=.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	q := r.URL.Query()
	period, err := payroll.ParsePeriod(q.Get("from"), q.Get("to"))
	if err != nil {
		handleError(w, err)
		return
	}
	punches, err := h.Store.ListPunches(r.Context(), id, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attendance", err)
		return
	}
	dtos := make([]PunchDTO, len(punches))
	for i, p := range punches {
		dtos[i] = toPunchDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYSLIP & SUMMARY HANDLERS
// =============================================================================

// ComputeDailyPayslip computes a daily-basis payslip.
// POST /api/payslips/daily
func (h *Handler) ComputeDailyPayslip(w http.ResponseWriter, r *http.Request) {
	var req DailyPayslipRequest
	if err := h.decode(r, &req); err != nil {
		handleError(w, err)
		return
	}

	slip, err := h.Service.ComputeDailyPayslip(r.Context(), payroll.DailyPayslipInput{
		EmployeeID:  payroll.EmployeeID(req.EmployeeID),
		From:        req.From,
		To:          req.To,
		PresentDays: req.PresentDays,
		PresentOnly: req.PresentOnly,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyPayslipDTO(slip))
}

// DailyPayslipCSV is ComputeDailyPayslip driven by query parameters and
// rendered as CSV. present_days is a comma-separated list.
// GET /api/payslips/daily.csv?employee_id=&from=&to=&present_days=
func (h *Handler) DailyPayslipCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := payroll.DailyPayslipInput{
		EmployeeID: payroll.EmployeeID(q.Get("employee_id")),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}
	if days := strings.TrimSpace(q.Get("present_days")); days != "" {
		for _, d := range strings.Split(days, ",") {
			in.PresentDays = append(in.PresentDays, strings.TrimSpace(d))
		}
	}
	if v := q.Get("present_only"); v != "" {
		only, err := strconv.ParseBool(v)
		if err != nil {
			handleError(w, &payroll.ValidationError{Field: "present_only", Message: "must be true or false"})
			return
		}
		in.PresentOnly = only
	}

	slip, err := h.Service.ComputeDailyPayslip(r.Context(), in)
	if err != nil {
		handleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePayslip(&buf, slip); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render CSV", err)
		return
	}
	writeCSV(w, export.Filename("payslip", slip.EmployeeID, slip.Period), buf.Bytes())
}

// GetPayrollSummary computes a multi-basis range summary.
// GET /api/payroll/summary?from=&to=&employee_id=&prefer_basis=&hours_per_day=&format=csv
func (h *Handler) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := payroll.SummaryInput{
		From:        q.Get("from"),
		To:          q.Get("to"),
		EmployeeID:  payroll.EmployeeID(q.Get("employee_id")),
		PreferBasis: q.Get("prefer_basis"),
	}
	if v := q.Get("hours_per_day"); v != "" {
		hours, err := decimal.NewFromString(v)
		if err != nil || !hours.IsPositive() {
			handleError(w, &payroll.ValidationError{Field: "hours_per_day", Message: "must be a positive number"})
			return
		}
		in.Settings.HoursPerDay = hours
	}

	summary, err := h.Service.SummarizeRange(r.Context(), in)
	if err != nil {
		handleError(w, err)
		return
	}

	switch q.Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, toRangeSummaryDTO(h.Factory, summary))
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteSummary(&buf, summary); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to render CSV", err)
			return
		}
		writeCSV(w, export.Filename("summary", in.EmployeeID, summary.Period), buf.Bytes())
	default:
		handleError(w, &payroll.ValidationError{Field: "format", Message: "must be json or csv"})
	}
}

// =============================================================================
// PAYROLL RUN HANDLERS
// =============================================================================

// ListPayrollRuns returns recorded runs, newest first.
// GET /api/payroll/runs?limit=50
func (h *Handler) ListPayrollRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			handleError(w, &payroll.ValidationError{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payroll runs", err)
		return
	}
	dtos := make([]PayrollRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toPayrollRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TriggerPayrollRun records a run for the requested range, or for the most
// recently closed cut-off when the body is empty.
// POST /api/payroll/runs
func (h *Handler) TriggerPayrollRun(w http.ResponseWriter, r *http.Request) {
	var req TriggerRunRequest
	if err := h.decode(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		handleError(w, err)
		return
	}

	period := h.Scheduler.ClosedPeriod()
	if req.From != "" || req.To != "" {
		p, err := payroll.ParsePeriod(req.From, req.To)
		if err != nil {
			handleError(w, err)
			return
		}
		period = p
	}

	run, err := h.Scheduler.RunPeriod(r.Context(), period, "manual")
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayrollRunDTO(run))
}

// GetSchedulerStatus reports the payroll run scheduler state.
// GET /api/payroll/scheduler
func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Scheduler.Status())
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.Service.ResetSettings()

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

var errEmptyBody = errors.New("empty request body")

// decode reads a JSON body into dst and runs the struct validator.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return &payroll.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := h.validate.Struct(dst); err != nil {
		return toValidationError(err)
	}
	return nil
}

// toValidationError reports the first failing field.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &payroll.ValidationError{Field: "body", Message: err.Error()}
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "datetime":
		msg = fmt.Sprintf("invalid date %q (use YYYY-MM-DD)", fe.Value())
	case "oneof":
		msg = "must be one of " + fe.Param()
	default:
		msg = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return &payroll.ValidationError{Field: fe.Field(), Message: msg}
}

// handleError maps engine errors onto HTTP statuses.
func handleError(w http.ResponseWriter, err error) {
	var verr *payroll.ValidationError
	switch {
	case errors.Is(err, errEmptyBody):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Request body is required", Field: "body"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: verr.Field})
	case payroll.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case payroll.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Employee not found", nil)
	case payroll.IsDataAccess(err):
		writeError(w, http.StatusBadGateway, "Data access failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
