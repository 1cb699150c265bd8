package report

import (
	"context"
	"fmt"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/pkg/claims"
)

type ReportServiceImpl struct {
	attendances   attendance.Repository
	salaryConfigs salaryconfig.Repository
}

func NewReportService(attendances attendance.Repository, salaryConfigs salaryconfig.Repository) report.Service {
	return &ReportServiceImpl{
		attendances:   attendances,
		salaryConfigs: salaryConfigs,
	}
}

// GetAttendanceReport implements report.Service. Employees are narrowed
// to their own data; managers and admins see the whole company.
func (s *ReportServiceImpl) GetAttendanceReport(ctx context.Context, req report.AttendanceReportRequest) (report.Summary, error) {
	if err := req.Validate(); err != nil {
		return report.Summary{}, err
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	if !c.Role.CanApprove() {
		employeeID := c.EmployeeID
		req.EmployeeID = &employeeID
	}

	from, _ := time.Parse("2006-01-02", req.StartDate)
	to, _ := time.Parse("2006-01-02", req.EndDate)

	records, err := s.attendances.ListForRange(ctx, req.EmployeeID, from, to, c.CompanyID)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to list attendance for report: %w", err)
	}

	staff, err := s.salaryConfigs.ListEmployees(ctx, c.CompanyID)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to list employees for report: %w", err)
	}

	if req.EmployeeID != nil {
		filtered := staff[:0]
		for _, ref := range staff {
			if ref.EmployeeID == *req.EmployeeID {
				filtered = append(filtered, ref)
			}
		}
		staff = filtered
	}

	return BuildSummary(records, staff, from, to, req.DistinguishNoRecord), nil
}
