package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/payroll"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type payrollLedgerRepository struct {
	db *database.DB
}

func NewPayrollLedgerRepository(db *database.DB) payroll.LedgerRepository {
	return &payrollLedgerRepository{db: db}
}

// Append implements payroll.LedgerRepository.
func (r *payrollLedgerRepository) Append(ctx context.Context, entry payroll.LedgerEntry) (payroll.LedgerEntry, error) {
	query := `
		INSERT INTO payroll_ledger (
			employee_id, company_id, type, amount, description, date
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		entry.EmployeeID,
		entry.CompanyID,
		entry.Type,
		entry.Amount,
		entry.Description,
		entry.Date,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return payroll.LedgerEntry{}, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return entry, nil
}

// ListForPeriod implements payroll.LedgerRepository.
func (r *payrollLedgerRepository) ListForPeriod(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]payroll.LedgerEntry, error) {
	query := `
		SELECT id, employee_id, company_id, type, amount, description, date, created_at
		FROM payroll_ledger
		WHERE employee_id = $1
		  AND company_id = $2
		  AND date >= $3
		  AND date <= $4
		ORDER BY date, created_at
	`

	rows, err := r.db.Query(ctx, query, employeeID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.LedgerEntry
	for rows.Next() {
		var e payroll.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.CompanyID, &e.Type,
			&e.Amount, &e.Description, &e.Date, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
