package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/audit"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, company_id, date, punch_in, punch_out,
	punch_in_image_ref, punch_out_image_ref, status, late_minutes,
	working_hours, overtime_hours, shift_duration_hours, approval_reason,
	approved_by, approved_at, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.PunchIn, &rec.PunchOut,
		&rec.PunchInImageRef, &rec.PunchOutImageRef, &rec.Status, &rec.LateMinutes,
		&rec.WorkingHours, &rec.OvertimeHours, &rec.ShiftDurationHours, &rec.ApprovalReason,
		&rec.ApprovedBy, &rec.ApprovedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// CreateOpen implements attendance.Repository. The unique index on
// (employee_id, date) arbitrates concurrent punch-ins: the loser sees no
// returned row and gets ErrAlreadyPunchedIn.
func (a *attendanceRepository) CreateOpen(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	query := `
		INSERT INTO attendances (
			employee_id, company_id, date, punch_in, punch_in_image_ref,
			status, late_minutes, shift_duration_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := a.db.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.CompanyID,
		rec.Date,
		rec.PunchIn,
		rec.PunchInImageRef,
		rec.Status,
		rec.LateMinutes,
		rec.ShiftDurationHours,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyPunchedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// Close implements attendance.Repository. The punch_out IS NULL guard is
// the conditional write: a record punched out by a concurrent caller no
// longer matches and the loser gets ErrNoOpenPunch.
func (a *attendanceRepository) Close(ctx context.Context, employeeID, companyID string, cp attendance.ClosePunch) (attendance.Record, error) {
	query := `
		UPDATE attendances SET
			punch_out = $1,
			punch_out_image_ref = $2,
			working_hours = $3,
			overtime_hours = $4,
			updated_at = NOW()
		WHERE id = $5
		  AND employee_id = $6
		  AND company_id = $7
		  AND punch_out IS NULL
		RETURNING ` + attendanceColumns + `
	`

	rec, err := scanAttendance(a.db.QueryRow(ctx, query,
		cp.PunchOut,
		cp.ImageRef,
		cp.WorkingHours,
		cp.OvertimeHours,
		cp.AttendanceID,
		employeeID,
		companyID,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNoOpenPunch
		}
		return attendance.Record{}, fmt.Errorf("failed to close punch: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Record, error) {
	query := `
		SELECT
			a.id, a.employee_id, a.company_id, a.date, a.punch_in, a.punch_out,
			a.punch_in_image_ref, a.punch_out_image_ref, a.status, a.late_minutes,
			a.working_hours, a.overtime_hours, a.shift_duration_hours, a.approval_reason,
			a.approved_by, a.approved_at, a.created_at, a.updated_at,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	var rec attendance.Record
	err := a.db.QueryRow(ctx, query, id, companyID).Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.PunchIn, &rec.PunchOut,
		&rec.PunchInImageRef, &rec.PunchOutImageRef, &rec.Status, &rec.LateMinutes,
		&rec.WorkingHours, &rec.OvertimeHours, &rec.ShiftDurationHours, &rec.ApprovalReason,
		&rec.ApprovedBy, &rec.ApprovedAt, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		  AND company_id = $3
		LIMIT 1
	`

	rec, err := scanAttendance(a.db.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &rec, nil
}

func buildListWhere(filter attendance.ListFilter, args []interface{}, where string) (string, []interface{}) {
	argIdx := len(args) + 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		where += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		where += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	return where, args
}

func (a *attendanceRepository) list(ctx context.Context, where string, args []interface{}, page, limit int) ([]attendance.Record, int64, error) {
	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + where

	var total int64
	if err := a.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT
			a.id, a.employee_id, a.company_id, a.date, a.punch_in, a.punch_out,
			a.punch_in_image_ref, a.punch_out_image_ref, a.status, a.late_minutes,
			a.working_hours, a.overtime_hours, a.shift_duration_hours, a.approval_reason,
			a.approved_by, a.approved_at, a.created_at, a.updated_at,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, a.employee_id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.PunchIn, &rec.PunchOut,
			&rec.PunchInImageRef, &rec.PunchOutImageRef, &rec.Status, &rec.LateMinutes,
			&rec.WorkingHours, &rec.OvertimeHours, &rec.ShiftDurationHours, &rec.ApprovalReason,
			&rec.ApprovedBy, &rec.ApprovedAt, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter, companyID string) ([]attendance.Record, int64, error) {
	where, args := buildListWhere(filter, []interface{}{companyID}, "a.company_id = $1")
	return a.list(ctx, where, args, filter.Page, filter.Limit)
}

// ListForEmployee implements attendance.Repository.
func (a *attendanceRepository) ListForEmployee(ctx context.Context, employeeID string, filter attendance.ListFilter, companyID string) ([]attendance.Record, int64, error) {
	filter.EmployeeID = nil
	where, args := buildListWhere(filter, []interface{}{companyID, employeeID}, "a.company_id = $1 AND a.employee_id = $2")
	return a.list(ctx, where, args, filter.Page, filter.Limit)
}

// ListForRange implements attendance.Repository.
func (a *attendanceRepository) ListForRange(ctx context.Context, employeeID *string, from, to time.Time, companyID string) ([]attendance.Record, error) {
	query := `
		SELECT
			a.id, a.employee_id, a.company_id, a.date, a.punch_in, a.punch_out,
			a.punch_in_image_ref, a.punch_out_image_ref, a.status, a.late_minutes,
			a.working_hours, a.overtime_hours, a.shift_duration_hours, a.approval_reason,
			a.approved_by, a.approved_at, a.created_at, a.updated_at,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.company_id = $1
		  AND a.date >= $2
		  AND a.date <= $3
	`
	args := []interface{}{companyID, from, to}
	if employeeID != nil {
		query += " AND a.employee_id = $4"
		args = append(args, *employeeID)
	}
	query += " ORDER BY a.date, a.employee_id"

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances for range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.PunchIn, &rec.PunchOut,
			&rec.PunchInImageRef, &rec.PunchOutImageRef, &rec.Status, &rec.LateMinutes,
			&rec.WorkingHours, &rec.OvertimeHours, &rec.ShiftDurationHours, &rec.ApprovalReason,
			&rec.ApprovedBy, &rec.ApprovedAt, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Transition implements attendance.Repository. The row lock serializes
// concurrent approval decisions; the last writer wins and every applied
// change leaves an audit entry.
func (a *attendanceRepository) Transition(ctx context.Context, t attendance.StatusTransition) (attendance.Record, error) {
	var result attendance.Record

	err := withTransaction(ctx, a.db, func(tx pgx.Tx) error {
		lockQuery := `
			SELECT ` + attendanceColumns + `
			FROM attendances
			WHERE id = $1 AND company_id = $2
			FOR UPDATE
		`
		current, err := scanAttendance(tx.QueryRow(ctx, lockQuery, t.AttendanceID, t.CompanyID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrRecordNotFound
			}
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		// Repeating the target decision is a no-op: same result, no
		// duplicate audit entry.
		if current.Status == t.To {
			result = current
			return nil
		}

		// Re-check inside the lock; the service's precondition check can
		// be stale by the time we get here.
		if (t.To == attendance.StatusApproved || t.To == attendance.StatusRejected) && current.PunchOut == nil {
			if t.To == attendance.StatusApproved {
				return attendance.ErrCannotApproveWithoutPunchOut
			}
			return attendance.ErrInvalidTransition
		}

		updateQuery := `
			UPDATE attendances SET
				status = $1,
				approval_reason = $2,
				approved_by = $3,
				approved_at = NOW(),
				updated_at = NOW()
			WHERE id = $4
			RETURNING ` + attendanceColumns + `
		`
		result, err = scanAttendance(tx.QueryRow(ctx, updateQuery, t.To, t.Reason, t.ActorID, t.AttendanceID))
		if err != nil {
			return fmt.Errorf("failed to update attendance status: %w", err)
		}

		entry := t.Audit
		entry.FromStatus = string(current.Status)
		entry.ToStatus = string(t.To)
		if err := appendAuditTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}

		return nil
	})

	if err != nil {
		return attendance.Record{}, err
	}
	return result, nil
}

// ApplyOverride implements attendance.Repository.
func (a *attendanceRepository) ApplyOverride(ctx context.Context, o attendance.Override) (attendance.Record, error) {
	var result attendance.Record

	err := withTransaction(ctx, a.db, func(tx pgx.Tx) error {
		lockQuery := `
			SELECT ` + attendanceColumns + `
			FROM attendances
			WHERE id = $1 AND company_id = $2
			FOR UPDATE
		`
		current, err := scanAttendance(tx.QueryRow(ctx, lockQuery, o.AttendanceID, o.CompanyID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrRecordNotFound
			}
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		updateQuery := `
			UPDATE attendances SET
				working_hours = COALESCE($1, working_hours),
				overtime_hours = COALESCE($2, overtime_hours),
				shift_duration_hours = COALESCE($3, shift_duration_hours),
				late_minutes = COALESCE($4, late_minutes),
				approval_reason = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING ` + attendanceColumns + `
		`
		result, err = scanAttendance(tx.QueryRow(ctx, updateQuery,
			o.WorkingHours, o.OvertimeHours, o.ShiftDurationHours, o.LateMinutes,
			o.Reason, o.AttendanceID,
		))
		if err != nil {
			return fmt.Errorf("failed to apply override: %w", err)
		}

		entry := o.Audit
		entry.FromStatus = string(current.Status)
		entry.ToStatus = string(current.Status)
		if err := appendAuditTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}

		return nil
	})

	if err != nil {
		return attendance.Record{}, err
	}
	return result, nil
}

// UpsertDayStatus implements attendance.Repository. ABSENT never
// overwrites an existing record; LEAVE may replace a PENDING one. When an
// audit entry is given the prior status is captured under a row lock and
// the entry is appended in the same transaction as the write.
func (a *attendanceRepository) UpsertDayStatus(ctx context.Context, rec attendance.Record, entry *audit.Entry) (bool, error) {
	if entry == nil {
		return upsertDayStatus(ctx, a.db, rec, nil)
	}

	applied := false
	err := withTransaction(ctx, a.db, func(tx pgx.Tx) error {
		var prior *string
		err := tx.QueryRow(ctx,
			`SELECT status FROM attendances WHERE employee_id = $1 AND date = $2 AND company_id = $3 FOR UPDATE`,
			rec.EmployeeID, rec.Date, rec.CompanyID,
		).Scan(&prior)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to lock attendance day: %w", err)
		}

		var id string
		applied, err = upsertDayStatus(ctx, tx, rec, &id)
		if err != nil || !applied {
			return err
		}

		e := *entry
		e.AttendanceID = id
		if prior != nil {
			e.FromStatus = *prior
		}
		e.ToStatus = string(rec.Status)
		if err := appendAuditTx(ctx, tx, e); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func upsertDayStatus(ctx context.Context, q database.Querier, rec attendance.Record, id *string) (bool, error) {
	var query string
	if rec.Status == attendance.StatusAbsent {
		query = `
			INSERT INTO attendances (
				employee_id, company_id, date, status, late_minutes, shift_duration_hours,
				approval_reason, approved_by, approved_at
			) VALUES ($1, $2, $3, $4, 0, $5, $6, $7, NOW())
			ON CONFLICT (employee_id, date) DO NOTHING
			RETURNING id
		`
	} else {
		query = `
			INSERT INTO attendances (
				employee_id, company_id, date, status, late_minutes, shift_duration_hours,
				approval_reason, approved_by, approved_at
			) VALUES ($1, $2, $3, $4, 0, $5, $6, $7, NOW())
			ON CONFLICT (employee_id, date) DO UPDATE SET
				status = EXCLUDED.status,
				approval_reason = EXCLUDED.approval_reason,
				approved_by = EXCLUDED.approved_by,
				approved_at = NOW(),
				updated_at = NOW()
			WHERE attendances.status = 'PENDING'
			RETURNING id
		`
	}

	var insertedID string
	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.CompanyID,
		rec.Date,
		rec.Status,
		rec.ShiftDurationHours,
		rec.ApprovalReason,
		rec.ApprovedBy,
	).Scan(&insertedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to upsert day status: %w", err)
	}

	if id != nil {
		*id = insertedID
	}
	return true, nil
}

func appendAuditTx(ctx context.Context, tx pgx.Tx, entry audit.Entry) error {
	query := `
		INSERT INTO attendance_audit_log (
			company_id, attendance_id, actor_id, action, from_status, to_status, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.Exec(ctx, query,
		entry.CompanyID,
		entry.AttendanceID,
		entry.ActorID,
		entry.Action,
		entry.FromStatus,
		entry.ToStatus,
		entry.Reason,
	)
	return err
}
