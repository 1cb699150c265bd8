package payroll

import (
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ComputeMonthRequest struct {
	EmployeeID string
	Year       int
	Month      int
}

func (r *ComputeMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year is out of range"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddLedgerEntryRequest struct {
	EmployeeID  string          `json:"-"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

func (r *AddLedgerEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsInSlice(r.Type, []string{string(LedgerTypePayment), string(LedgerTypeDeduction), string(LedgerTypeRecovery)}) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be PAYMENT, DEDUCTION or RECOVERY"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type ResultResponse struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`

	PresentDays        int             `json:"present_days"`
	LeaveDays          int             `json:"leave_days"`
	TotalWorkingHours  decimal.Decimal `json:"total_working_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
	TotalLateMinutes   int             `json:"total_late_minutes"`

	GrossAmount        decimal.Decimal `json:"gross_amount"`
	StatutoryDeduction decimal.Decimal `json:"statutory_deduction"`
	NetAmount          decimal.Decimal `json:"net_amount"`

	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRecovered decimal.Decimal `json:"total_recovered"`
	BalanceAmount  decimal.Decimal `json:"balance_amount"`

	Payments   []LedgerEntryResponse `json:"payments"`
	Deductions []LedgerEntryResponse `json:"deductions"`
	Recoveries []LedgerEntryResponse `json:"recoveries"`

	MissingSalaryConfig bool `json:"missing_salary_config,omitempty"`
}

type CompanyMonthResponse struct {
	Month      int              `json:"month"`
	Year       int              `json:"year"`
	TotalGross decimal.Decimal  `json:"total_gross"`
	TotalNet   decimal.Decimal  `json:"total_net"`
	Employees  []ResultResponse `json:"employees"`
}
