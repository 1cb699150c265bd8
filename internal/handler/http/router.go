package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/handler/http/middleware"
	"github.com/presensia/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	salaryConfigHandler SalaryConfigHandler,
	payrollHandler PayrollHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch/validate", attendanceHandler.ValidatePunch)
				r.Post("/punch", attendanceHandler.CommitPunch)
				r.Get("/my", attendanceHandler.GetMyAttendance)
				r.Get("/{id}", attendanceHandler.Get)

				// Manager decisions
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", attendanceHandler.List)
					r.Post("/leave", attendanceHandler.MarkLeave)
					r.Post("/{id}/approve", attendanceHandler.Approve)
					r.Post("/{id}/reject", attendanceHandler.Reject)
					r.Get("/{id}/audit", attendanceHandler.GetAuditTrail)
				})

				// Admin corrections
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/{id}/override", attendanceHandler.Override)
				})
			})

			r.Route("/salary-configs", func(r chi.Router) {
				r.Get("/{employeeID}", salaryConfigHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Put("/{employeeID}", salaryConfigHandler.Upsert)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/{employeeID}", payrollHandler.ComputeMonth)
				r.Get("/{employeeID}/ledger", payrollHandler.ListLedgerEntries)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", payrollHandler.ComputeCompanyMonth)
					r.Post("/{employeeID}/ledger", payrollHandler.AddLedgerEntry)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/attendance", reportHandler.GetAttendanceReport)
			})
		})
	})

	return r
}
