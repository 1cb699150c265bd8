package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
)

type AttendanceJobs struct {
	attendanceRepo attendance.Repository
	salaryConfigs  salaryconfig.Repository
}

func NewAttendanceJobs(attendanceRepo attendance.Repository, salaryConfigs salaryconfig.Repository) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		salaryConfigs:  salaryConfigs,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddDailyJob("mark_absent_employees", 0, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees writes an ABSENT record for every rostered employee
// whose previous local calendar day ended with no record at all. The
// conditional insert never touches an existing record, so the job can run
// as often as it likes.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	slog.Info("Cron: Starting mark-absent job")

	companies, err := j.salaryConfigs.ListCompanies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	nowUTC := time.Now().UTC()
	marked := 0

	for _, companyID := range companies {
		roster, err := j.salaryConfigs.ListEmployees(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to list employees for company %s: %w", companyID, err)
		}

		for _, ref := range roster {
			cfg, err := j.salaryConfigs.GetActiveForDate(ctx, ref.EmployeeID, nowUTC, companyID)
			if err != nil {
				if errors.Is(err, salaryconfig.ErrSalaryNotConfigured) {
					continue
				}
				return fmt.Errorf("failed to resolve config for employee %s: %w", ref.EmployeeID, err)
			}

			nowLocal := nowUTC.In(cfg.Location())
			yesterday := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

			if yesterday.Before(ref.JoiningDate) {
				continue
			}

			inserted, err := j.attendanceRepo.UpsertDayStatus(ctx, attendance.Record{
				EmployeeID:         ref.EmployeeID,
				CompanyID:          companyID,
				Date:               yesterday,
				Status:             attendance.StatusAbsent,
				ShiftDurationHours: cfg.ShiftDurationHours,
			}, nil)
			if err != nil {
				return fmt.Errorf("failed to mark employee %s absent: %w", ref.EmployeeID, err)
			}
			if inserted {
				marked++
			}
		}
	}

	slog.Info("Cron: Mark-absent job completed", "marked", marked)
	return nil
}
