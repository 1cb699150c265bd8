package postgresql

import (
	"context"
	"fmt"

	"github.com/presensia/attendance-backend-go/internal/domain/audit"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// Append implements audit.Repository.
func (r *auditRepository) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO attendance_audit_log (
			company_id, attendance_id, actor_id, action, from_status, to_status, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		entry.CompanyID,
		entry.AttendanceID,
		entry.ActorID,
		entry.Action,
		entry.FromStatus,
		entry.ToStatus,
		entry.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// ListByAttendance implements audit.Repository.
func (r *auditRepository) ListByAttendance(ctx context.Context, attendanceID string, companyID string) ([]audit.Entry, error) {
	query := `
		SELECT id, company_id, attendance_id, actor_id, action, from_status, to_status, reason, created_at
		FROM attendance_audit_log
		WHERE attendance_id = $1 AND company_id = $2
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, attendanceID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.AttendanceID, &e.ActorID,
			&e.Action, &e.FromStatus, &e.ToStatus, &e.Reason, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
