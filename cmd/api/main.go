package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/presensia/attendance-backend-go/internal/config"
	appHTTP "github.com/presensia/attendance-backend-go/internal/handler/http"
	"github.com/presensia/attendance-backend-go/internal/pkg/cron"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
	"github.com/presensia/attendance-backend-go/internal/pkg/jwt"
	"github.com/presensia/attendance-backend-go/internal/pkg/storage"
	"github.com/presensia/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/presensia/attendance-backend-go/internal/service/attendance"
	payrollService "github.com/presensia/attendance-backend-go/internal/service/payroll"
	reportService "github.com/presensia/attendance-backend-go/internal/service/report"
	salaryConfigService "github.com/presensia/attendance-backend-go/internal/service/salaryconfig"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryConfigRepo := postgresql.NewSalaryConfigRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	ledgerRepo := postgresql.NewPayrollLedgerRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.PunchTokenTTL)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, salaryConfigRepo, auditRepo, jwtService, fileStorage)
	salaryConfigSvc := salaryConfigService.NewSalaryConfigService(salaryConfigRepo)
	payrollSvc := payrollService.NewPayrollService(attendanceRepo, salaryConfigRepo, ledgerRepo, cfg.Payroll)
	reportSvc := reportService.NewReportService(attendanceRepo, salaryConfigRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	salaryConfigHandler := appHTTP.NewSalaryConfigHandler(salaryConfigSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, salaryConfigRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		attendanceHandler,
		salaryConfigHandler,
		payrollHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
