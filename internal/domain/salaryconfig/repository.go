package salaryconfig

import (
	"context"
	"time"
)

// Repository is the read side of the salary configuration store. Configs
// are append-only versions; GetActiveForDate resolves the version whose
// EffectiveFrom is the latest one not after the given date.
type Repository interface {
	// GetActiveForDate returns the config governing the given calendar
	// date, or ErrSalaryNotConfigured when none applies.
	GetActiveForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (SalaryConfig, error)

	// ListForRange returns every config version that can govern a date in
	// [from, to], newest first. Used by payroll to resolve per-record
	// configs without a query per record.
	ListForRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]SalaryConfig, error)

	// Upsert appends a new config version for the employee.
	Upsert(ctx context.Context, cfg SalaryConfig) (SalaryConfig, error)

	// ListEmployees returns the roster of employees with at least one
	// config version, for report synthesis.
	ListEmployees(ctx context.Context, companyID string) ([]EmployeeRef, error)

	// ListCompanies returns every company with at least one configured
	// employee. Used by the nightly absent job, which runs without a
	// request context.
	ListCompanies(ctx context.Context) ([]string, error)
}
