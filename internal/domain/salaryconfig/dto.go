package salaryconfig

import (
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertSalaryConfigRequest struct {
	EmployeeID         string           `json:"employee_id"`
	SalaryType         string           `json:"salary_type"`
	BaseSalary         *decimal.Decimal `json:"base_salary"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate"`
	DailyRate          *decimal.Decimal `json:"daily_rate"`
	WorkingDaysTarget  int              `json:"working_days_target"`
	OvertimeRate       *decimal.Decimal `json:"overtime_rate"`
	PfEsiApplicable    bool             `json:"pf_esi_applicable"`
	JoiningDate        string           `json:"joining_date"`
	EffectiveFrom      string           `json:"effective_from"`
	ShiftStart         string           `json:"shift_start"`
	ShiftDurationHours *decimal.Decimal `json:"shift_duration_hours"`
	UnpaidBreakMinutes int              `json:"unpaid_break_minutes"`
	Timezone           string           `json:"timezone"`
}

func (r *UpsertSalaryConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	switch SalaryType(r.SalaryType) {
	case SalaryTypeMonthly:
		if r.BaseSalary == nil || r.BaseSalary.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary is required for MONTHLY salary type"})
		}
	case SalaryTypeHourly:
		if r.HourlyRate == nil || r.HourlyRate.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "hourly_rate is required for HOURLY salary type"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "salary_type", Message: "salary_type must be MONTHLY or HOURLY"})
	}

	if r.WorkingDaysTarget <= 0 {
		errs = append(errs, validator.ValidationError{Field: "working_days_target", Message: "working_days_target must be greater than zero"})
	}

	if _, ok := validator.IsValidDate(r.JoiningDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "joining_date", Message: "joining_date must be in YYYY-MM-DD format"})
	}

	if r.EffectiveFrom != "" {
		if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be in YYYY-MM-DD format"})
		}
	}

	if _, ok := validator.IsValidTimeOfDay(r.ShiftStart); !ok {
		errs = append(errs, validator.ValidationError{Field: "shift_start", Message: "shift_start must be in HH:MM format"})
	}

	if r.ShiftDurationHours == nil || !r.ShiftDurationHours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "shift_duration_hours", Message: "shift_duration_hours must be greater than zero"})
	}

	if r.UnpaidBreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "unpaid_break_minutes", Message: "unpaid_break_minutes cannot be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryConfigResponse struct {
	ID                 string           `json:"id"`
	EmployeeID         string           `json:"employee_id"`
	SalaryType         string           `json:"salary_type"`
	BaseSalary         decimal.Decimal  `json:"base_salary"`
	HourlyRate         decimal.Decimal  `json:"hourly_rate"`
	DailyRate          *decimal.Decimal `json:"daily_rate,omitempty"`
	WorkingDaysTarget  int              `json:"working_days_target"`
	OvertimeRate       decimal.Decimal  `json:"overtime_rate"`
	PfEsiApplicable    bool             `json:"pf_esi_applicable"`
	JoiningDate        string           `json:"joining_date"`
	EffectiveFrom      string           `json:"effective_from"`
	ShiftStart         string           `json:"shift_start"`
	ShiftDurationHours decimal.Decimal  `json:"shift_duration_hours"`
	UnpaidBreakMinutes int              `json:"unpaid_break_minutes"`
	Timezone           string           `json:"timezone"`
}
