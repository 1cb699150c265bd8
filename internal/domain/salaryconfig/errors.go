package salaryconfig

import "errors"

var (
	// ErrSalaryNotConfigured blocks punching for an employee with
	// undefined pay terms.
	ErrSalaryNotConfigured = errors.New("salary is not configured for this employee")

	ErrSalaryConfigNotFound = errors.New("salary configuration not found")
)
