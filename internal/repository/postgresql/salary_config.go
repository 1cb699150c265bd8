package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type salaryConfigRepository struct {
	db *database.DB
}

func NewSalaryConfigRepository(db *database.DB) salaryconfig.Repository {
	return &salaryConfigRepository{db: db}
}

const salaryConfigColumns = `
	id, employee_id, company_id, salary_type, base_salary, hourly_rate, daily_rate,
	working_days_target, overtime_rate, pf_esi_applicable, joining_date, effective_from,
	shift_start, shift_duration_hours, unpaid_break_minutes, timezone, created_at, updated_at
`

func scanSalaryConfig(row pgx.Row) (salaryconfig.SalaryConfig, error) {
	var cfg salaryconfig.SalaryConfig
	err := row.Scan(
		&cfg.ID, &cfg.EmployeeID, &cfg.CompanyID, &cfg.SalaryType, &cfg.BaseSalary, &cfg.HourlyRate, &cfg.DailyRate,
		&cfg.WorkingDaysTarget, &cfg.OvertimeRate, &cfg.PfEsiApplicable, &cfg.JoiningDate, &cfg.EffectiveFrom,
		&cfg.ShiftStart, &cfg.ShiftDurationHours, &cfg.UnpaidBreakMinutes, &cfg.Timezone, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	return cfg, err
}

// GetActiveForDate implements salaryconfig.Repository.
func (r *salaryConfigRepository) GetActiveForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (salaryconfig.SalaryConfig, error) {
	query := `
		SELECT ` + salaryConfigColumns + `
		FROM salary_configs
		WHERE employee_id = $1
		  AND company_id = $2
		  AND effective_from <= $3
		ORDER BY effective_from DESC
		LIMIT 1
	`

	cfg, err := scanSalaryConfig(r.db.QueryRow(ctx, query, employeeID, companyID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salaryconfig.SalaryConfig{}, salaryconfig.ErrSalaryNotConfigured
		}
		return salaryconfig.SalaryConfig{}, fmt.Errorf("failed to get active salary config: %w", err)
	}

	return cfg, nil
}

// ListForRange implements salaryconfig.Repository.
func (r *salaryConfigRepository) ListForRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]salaryconfig.SalaryConfig, error) {
	// Include the version already active when the range opens, plus every
	// version starting inside the range.
	query := `
		SELECT ` + salaryConfigColumns + `
		FROM salary_configs
		WHERE employee_id = $1
		  AND company_id = $2
		  AND effective_from <= $3
		ORDER BY effective_from DESC
	`

	rows, err := r.db.Query(ctx, query, employeeID, companyID, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary configs: %w", err)
	}
	defer rows.Close()

	var configs []salaryconfig.SalaryConfig
	for rows.Next() {
		cfg, err := scanSalaryConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary config: %w", err)
		}
		configs = append(configs, cfg)

		// Versions older than the one active at range start cannot govern
		// any date in range.
		if !cfg.EffectiveFrom.After(from) {
			break
		}
	}

	return configs, rows.Err()
}

// Upsert implements salaryconfig.Repository.
func (r *salaryConfigRepository) Upsert(ctx context.Context, cfg salaryconfig.SalaryConfig) (salaryconfig.SalaryConfig, error) {
	query := `
		INSERT INTO salary_configs (
			employee_id, company_id, salary_type, base_salary, hourly_rate, daily_rate,
			working_days_target, overtime_rate, pf_esi_applicable, joining_date, effective_from,
			shift_start, shift_duration_hours, unpaid_break_minutes, timezone
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		ON CONFLICT (employee_id, effective_from) DO UPDATE SET
			salary_type = EXCLUDED.salary_type,
			base_salary = EXCLUDED.base_salary,
			hourly_rate = EXCLUDED.hourly_rate,
			daily_rate = EXCLUDED.daily_rate,
			working_days_target = EXCLUDED.working_days_target,
			overtime_rate = EXCLUDED.overtime_rate,
			pf_esi_applicable = EXCLUDED.pf_esi_applicable,
			joining_date = EXCLUDED.joining_date,
			shift_start = EXCLUDED.shift_start,
			shift_duration_hours = EXCLUDED.shift_duration_hours,
			unpaid_break_minutes = EXCLUDED.unpaid_break_minutes,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		cfg.EmployeeID,
		cfg.CompanyID,
		cfg.SalaryType,
		cfg.BaseSalary,
		cfg.HourlyRate,
		cfg.DailyRate,
		cfg.WorkingDaysTarget,
		cfg.OvertimeRate,
		cfg.PfEsiApplicable,
		cfg.JoiningDate,
		cfg.EffectiveFrom,
		cfg.ShiftStart,
		cfg.ShiftDurationHours,
		cfg.UnpaidBreakMinutes,
		cfg.Timezone,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)

	if err != nil {
		return salaryconfig.SalaryConfig{}, fmt.Errorf("failed to upsert salary config: %w", err)
	}

	return cfg, nil
}

// ListEmployees implements salaryconfig.Repository.
func (r *salaryConfigRepository) ListEmployees(ctx context.Context, companyID string) ([]salaryconfig.EmployeeRef, error) {
	query := `
		SELECT DISTINCT ON (sc.employee_id)
			sc.employee_id,
			COALESCE(e.full_name, sc.employee_id) AS employee_name,
			sc.joining_date
		FROM salary_configs sc
		LEFT JOIN employees e ON e.id = sc.employee_id
		WHERE sc.company_id = $1
		ORDER BY sc.employee_id, sc.effective_from DESC
	`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var refs []salaryconfig.EmployeeRef
	for rows.Next() {
		var ref salaryconfig.EmployeeRef
		if err := rows.Scan(&ref.EmployeeID, &ref.EmployeeName, &ref.JoiningDate); err != nil {
			return nil, fmt.Errorf("failed to scan employee ref: %w", err)
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

// ListCompanies implements salaryconfig.Repository.
func (r *salaryConfigRepository) ListCompanies(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT company_id FROM salary_configs`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		companies = append(companies, id)
	}

	return companies, rows.Err()
}
