/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. CORS:          Cross-origin requests for frontend
  2. RequestLogger: Structured request logging (httplog, ECS schema)
  3. RequestID:     Unique ID per request for tracing
  4. CleanPath:     Collapses double slashes before routing
  5. Recoverer:     Panic recovery (500 instead of crash)
  6. Heartbeat:     GET /health liveness probe

ROUTE GROUPS:
  /api/employees/*      Employees, effective shift, rates, attendance
  /api/shifts           Shift definitions
  /api/overrides        Per-date overrides
  /api/weekly           Weekly assignments
  /api/attendance       Attendance rows
  /api/roster/import    Bulk roster import
  /api/payslips/*       Daily-basis payslips
  /api/payroll/*        Range summaries and payroll runs
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if logger != nil {
		r.Use(httplog.RequestLogger(logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/effective-shift", h.GetEffectiveShift)
			r.Get("/{id}/weekly", h.ListWeeklyAssignments)
			r.Delete("/{id}/overrides/{date}", h.DeleteOverride)
			r.Get("/{id}/rates", h.ListRates)
			r.Post("/{id}/rates", h.CreateRate)
			r.Get("/{id}/attendance", h.ListAttendance)
		})

		// Shift configuration routes
		r.Get("/shifts", h.ListShifts)
		r.Post("/shifts", h.CreateShift)
		r.Post("/overrides", h.SaveOverride)
		r.Put("/weekly", h.SaveWeeklyAssignment)
		r.Post("/attendance", h.SavePunch)
		r.Post("/roster/import", h.ImportRoster)

		// Payslip routes
		r.Route("/payslips", func(r chi.Router) {
			r.Post("/daily", h.ComputeDailyPayslip)
			r.Get("/daily.csv", h.DailyPayslipCSV)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Get("/summary", h.GetPayrollSummary)
			r.Get("/runs", h.ListPayrollRuns)
			r.Post("/runs", h.TriggerPayrollRun)
			r.Get("/scheduler", h.GetSchedulerStatus)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Payroll Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Payroll Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/shifts">/api/shifts</a> - List shifts</li>
<li><a href="/api/payroll/runs">/api/payroll/runs</a> - Payroll runs</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
