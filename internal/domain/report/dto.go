package report

import (
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AttendanceReportRequest struct {
	StartDate string
	EndDate   string

	// EmployeeID narrows the report to one staff member.
	EmployeeID *string

	// DistinguishNoRecord reports days with no attendance record as
	// "no_record" instead of folding them into the absent count.
	DistinguishNoRecord bool
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date cannot be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StatusCounts holds per-status day counts for a range. NoRecord is only
// populated when the caller asked to distinguish synthesized days.
type StatusCounts struct {
	Present  int `json:"present"`
	Late     int `json:"late"`
	Leave    int `json:"leave"`
	Absent   int `json:"absent"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
	NoRecord int `json:"no_record,omitempty"`
}

type DayTrend struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Leave   int    `json:"leave"`
	Absent  int    `json:"absent"`
	Pending int    `json:"pending"`
}

type StaffRollup struct {
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      string          `json:"employee_name"`
	Counts            StatusCounts    `json:"counts"`
	TotalWorkingHours decimal.Decimal `json:"total_working_hours"`
	TotalOvertime     decimal.Decimal `json:"total_overtime_hours"`
	TotalLateMinutes  int             `json:"total_late_minutes"`
	AttendancePercent decimal.Decimal `json:"attendance_percent"`
}

type Summary struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	DaysInRange int    `json:"days_in_range"`

	Counts StatusCounts  `json:"counts"`
	Daily  []DayTrend    `json:"daily"`
	Staff  []StaffRollup `json:"staff"`
}
