package salaryconfig

import "context"

// Service manages the versioned pay terms managers maintain per employee.
type Service interface {
	// Upsert appends a config version (or replaces the version with the
	// same effective-from date).
	Upsert(ctx context.Context, req UpsertSalaryConfigRequest) (SalaryConfigResponse, error)

	// GetActive returns the config governing the given date, today when
	// date is empty.
	GetActive(ctx context.Context, employeeID string, date string) (SalaryConfigResponse, error)
}
