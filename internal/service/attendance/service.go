package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/audit"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/domain/user"
	"github.com/presensia/attendance-backend-go/internal/pkg/claims"
	"github.com/presensia/attendance-backend-go/internal/pkg/jwt"
	"github.com/presensia/attendance-backend-go/internal/pkg/storage"
	"github.com/shopspring/decimal"
)

var defaultShiftDuration = decimal.NewFromInt(8)

type AttendanceServiceImpl struct {
	attendance.Repository
	salaryConfigs salaryconfig.Repository
	auditLog      audit.Repository
	jwtService    jwt.Service
	fileStorage   storage.FileStorage
}

func NewAttendanceService(
	repo attendance.Repository,
	salaryConfigs salaryconfig.Repository,
	auditLog audit.Repository,
	jwtService jwt.Service,
	fileStorage storage.FileStorage,
) attendance.Service {
	return &AttendanceServiceImpl{
		Repository:    repo,
		salaryConfigs: salaryConfigs,
		auditLog:      auditLog,
		jwtService:    jwtService,
		fileStorage:   fileStorage,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:                 rec.ID,
		EmployeeID:         rec.EmployeeID,
		EmployeeName:       rec.EmployeeName,
		Date:               rec.Date.Format("2006-01-02"),
		PunchIn:            timePtrToString(rec.PunchIn),
		PunchOut:           timePtrToString(rec.PunchOut),
		PunchInImageRef:    rec.PunchInImageRef,
		PunchOutImageRef:   rec.PunchOutImageRef,
		Status:             string(rec.Status),
		LateMinutes:        rec.LateMinutes,
		IsLate:             rec.IsLate(),
		WorkingHours:       rec.WorkingHours,
		OvertimeHours:      rec.OvertimeHours,
		ShiftDurationHours: rec.ShiftDurationHours,
		ApprovalReason:     rec.ApprovalReason,
		ApprovedBy:         rec.ApprovedBy,
		ApprovedAt:         timePtrToString(rec.ApprovedAt),
	}
}

// punchDay resolves the employee's active salary config and the local
// calendar day it puts "now" on. The day is normalized to midnight UTC
// for storage.
func (a *AttendanceServiceImpl) punchDay(ctx context.Context, employeeID, companyID string, nowUTC time.Time) (salaryconfig.SalaryConfig, time.Time, time.Time, error) {
	cfg, err := a.salaryConfigs.GetActiveForDate(ctx, employeeID, nowUTC, companyID)
	if err != nil {
		return salaryconfig.SalaryConfig{}, time.Time{}, time.Time{}, err
	}

	nowLocal := nowUTC.In(cfg.Location())
	day := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	return cfg, nowLocal, day, nil
}

// ValidatePunch implements attendance.Service. It answers whether the
// punch would succeed right now and mints the short-lived commit token,
// without writing anything.
func (a *AttendanceServiceImpl) ValidatePunch(ctx context.Context, req attendance.ValidatePunchRequest) (attendance.PunchValidationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchValidationResponse{}, err
	}

	c, err := claims.RequireEmployee(ctx)
	if err != nil {
		return attendance.PunchValidationResponse{}, err
	}

	nowUTC := time.Now().UTC()
	cfg, nowLocal, day, err := a.punchDay(ctx, c.EmployeeID, c.CompanyID, nowUTC)
	if err != nil {
		return attendance.PunchValidationResponse{}, err
	}

	existing, err := a.Repository.GetByEmployeeAndDate(ctx, c.EmployeeID, day, c.CompanyID)
	if err != nil {
		return attendance.PunchValidationResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.PunchValidationResponse{OK: true}

	switch attendance.Direction(req.Direction) {
	case attendance.DirectionIn:
		if existing != nil {
			return attendance.PunchValidationResponse{}, attendance.ErrAlreadyPunchedIn
		}
		late := lateMinutes(nowLocal, shiftStartOn(nowLocal, cfg, cfg.Location()))
		resp.LateMinutes = late
		resp.IsLate = late > 0

	case attendance.DirectionOut:
		if existing == nil || !existing.Open() {
			return attendance.PunchValidationResponse{}, attendance.ErrNoOpenPunch
		}
		resp.AttendanceID = &existing.ID
		resp.LateMinutes = existing.LateMinutes
		resp.IsLate = existing.IsLate()
	}

	token, expiresAt, err := a.jwtService.MintPunchToken(c.EmployeeID, c.CompanyID, req.Direction, day.Format("2006-01-02"))
	if err != nil {
		return attendance.PunchValidationResponse{}, fmt.Errorf("failed to mint punch token: %w", err)
	}
	resp.Token = token
	resp.ExpiresAt = expiresAt

	return resp, nil
}

// CommitPunch implements attendance.Service. Every precondition checked
// by ValidatePunch is re-checked here, the decisive ones as conditional
// writes, so a stale validation cannot advance state.
func (a *AttendanceServiceImpl) CommitPunch(ctx context.Context, req attendance.CommitPunchRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	c, err := claims.RequireEmployee(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	nowUTC := time.Now().UTC()
	cfg, nowLocal, day, err := a.punchDay(ctx, c.EmployeeID, c.CompanyID, nowUTC)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if err := a.jwtService.ValidatePunchToken(req.Token, c.EmployeeID, req.Direction, day.Format("2006-01-02")); err != nil {
		return attendance.RecordResponse{}, attendance.ErrInvalidPunchToken
	}

	switch attendance.Direction(req.Direction) {
	case attendance.DirectionIn:
		imageRef, err := a.uploadEvidence(ctx, c.CompanyID, c.EmployeeID, req, nowUTC)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to store punch evidence: %w", err)
		}

		late := lateMinutes(nowLocal, shiftStartOn(nowLocal, cfg, cfg.Location()))
		rec, err := a.Repository.CreateOpen(ctx, attendance.Record{
			EmployeeID:         c.EmployeeID,
			CompanyID:          c.CompanyID,
			Date:               day,
			PunchIn:            &nowUTC,
			PunchInImageRef:    &imageRef,
			Status:             attendance.StatusPending,
			LateMinutes:        late,
			ShiftDurationHours: cfg.ShiftDurationHours,
		})
		if err != nil {
			// The insert lost; the evidence belongs to no record.
			a.discardEvidence(ctx, imageRef)
			return attendance.RecordResponse{}, err
		}
		return toRecordResponse(rec), nil

	case attendance.DirectionOut:
		existing, err := a.Repository.GetByEmployeeAndDate(ctx, c.EmployeeID, day, c.CompanyID)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing == nil || !existing.Open() {
			return attendance.RecordResponse{}, attendance.ErrNoOpenPunch
		}

		imageRef, err := a.uploadEvidence(ctx, c.CompanyID, c.EmployeeID, req, nowUTC)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to store punch evidence: %w", err)
		}

		working, overtime := workMetrics(*existing.PunchIn, nowUTC, cfg.UnpaidBreakMinutes, existing.ShiftDurationHours)
		rec, err := a.Repository.Close(ctx, c.EmployeeID, c.CompanyID, attendance.ClosePunch{
			AttendanceID:  existing.ID,
			PunchOut:      nowUTC,
			ImageRef:      imageRef,
			WorkingHours:  working,
			OvertimeHours: overtime,
		})
		if err != nil {
			a.discardEvidence(ctx, imageRef)
			return attendance.RecordResponse{}, err
		}
		return toRecordResponse(rec), nil
	}

	return attendance.RecordResponse{}, attendance.ErrInvalidPunchToken
}

func (a *AttendanceServiceImpl) uploadEvidence(ctx context.Context, companyID, employeeID string, req attendance.CommitPunchRequest, nowUTC time.Time) (string, error) {
	ext := filepath.Ext(req.FileHeader.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	path := fmt.Sprintf("punches/%s/%s/%s_%s_%s%s",
		companyID, employeeID, nowUTC.Format("20060102"), req.Direction, uuid.NewString(), ext)

	return a.fileStorage.Upload(ctx, req.File, path, req.FileHeader.Header.Get("Content-Type"))
}

// discardEvidence removes the image of a commit that lost its conditional
// write. Best effort; the record never referenced it.
func (a *AttendanceServiceImpl) discardEvidence(ctx context.Context, imageRef string) {
	if err := a.fileStorage.Delete(ctx, imageRef); err != nil {
		slog.Warn("failed to delete orphaned punch evidence", "image_ref", imageRef, "error", err)
	}
}

// SetApproval implements attendance.Service.
func (a *AttendanceServiceImpl) SetApproval(ctx context.Context, req attendance.SetApprovalRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !c.Role.CanApprove() {
		return attendance.RecordResponse{}, user.ErrManagerAccessRequired
	}

	target := attendance.StatusApproved
	if attendance.Decision(req.Decision) == attendance.DecisionReject {
		target = attendance.StatusRejected
	}

	current, err := a.Repository.GetByID(ctx, req.ID, c.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if !transitionAllowed(current.Status, target) {
		return attendance.RecordResponse{}, attendance.ErrInvalidTransition
	}
	if target == attendance.StatusApproved && current.PunchOut == nil {
		return attendance.RecordResponse{}, attendance.ErrCannotApproveWithoutPunchOut
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	rec, err := a.Repository.Transition(ctx, attendance.StatusTransition{
		AttendanceID: req.ID,
		CompanyID:    c.CompanyID,
		To:           target,
		ActorID:      c.UserID,
		Reason:       reason,
		Audit: audit.Entry{
			CompanyID:    c.CompanyID,
			AttendanceID: req.ID,
			ActorID:      c.UserID,
			Action:       req.Decision,
			Reason:       reason,
		},
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(rec), nil
}

// MarkLeave implements attendance.Service. LEAVE may claim an empty day
// or replace a PENDING record, never a decided one.
func (a *AttendanceServiceImpl) MarkLeave(ctx context.Context, req attendance.MarkLeaveRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !c.Role.CanApprove() {
		return attendance.RecordResponse{}, user.ErrManagerAccessRequired
	}

	day, _ := time.Parse("2006-01-02", req.Date)

	shiftDuration := defaultShiftDuration
	cfg, err := a.salaryConfigs.GetActiveForDate(ctx, req.EmployeeID, day, c.CompanyID)
	switch {
	case err == nil:
		shiftDuration = cfg.ShiftDurationHours
	case !errors.Is(err, salaryconfig.ErrSalaryNotConfigured):
		return attendance.RecordResponse{}, err
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	applied, err := a.Repository.UpsertDayStatus(ctx, attendance.Record{
		EmployeeID:         req.EmployeeID,
		CompanyID:          c.CompanyID,
		Date:               day,
		Status:             attendance.StatusLeave,
		ShiftDurationHours: shiftDuration,
		ApprovalReason:     reason,
		ApprovedBy:         &c.UserID,
	}, &audit.Entry{
		CompanyID: c.CompanyID,
		ActorID:   c.UserID,
		Action:    "LEAVE",
		Reason:    reason,
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !applied {
		return attendance.RecordResponse{}, attendance.ErrInvalidTransition
	}

	rec, err := a.Repository.GetByEmployeeAndDate(ctx, req.EmployeeID, day, c.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to reload leave record: %w", err)
	}
	if rec == nil {
		return attendance.RecordResponse{}, attendance.ErrRecordNotFound
	}

	return toRecordResponse(*rec), nil
}

// OverrideFields implements attendance.Service.
func (a *AttendanceServiceImpl) OverrideFields(ctx context.Context, req attendance.OverrideFieldsRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !c.Role.CanOverride() {
		return attendance.RecordResponse{}, user.ErrAdminAccessRequired
	}
	if req.Reason == "" {
		return attendance.RecordResponse{}, attendance.ErrOverrideReasonRequired
	}

	reason := req.Reason
	rec, err := a.Repository.ApplyOverride(ctx, attendance.Override{
		AttendanceID:       req.ID,
		CompanyID:          c.CompanyID,
		WorkingHours:       req.WorkingHours,
		OvertimeHours:      req.OvertimeHours,
		ShiftDurationHours: req.ShiftDurationHours,
		LateMinutes:        req.LateMinutes,
		Reason:             reason,
		Audit: audit.Entry{
			CompanyID:    c.CompanyID,
			AttendanceID: req.ID,
			ActorID:      c.UserID,
			Action:       "OVERRIDE",
			Reason:       &reason,
		},
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(rec), nil
}

// Get implements attendance.Service. Employees may only read their own
// records; managers and admins see the whole company.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.RecordResponse, error) {
	c, err := claims.FromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := a.Repository.GetByID(ctx, id, c.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if !c.Role.CanApprove() && rec.EmployeeID != c.EmployeeID {
		return attendance.RecordResponse{}, attendance.ErrRecordNotFound
	}

	return toRecordResponse(rec), nil
}

func toListResponse(records []attendance.Record, total int64, filter attendance.ListFilter) attendance.ListRecordsResponse {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	resp := attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Records:    make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	return resp
}

// List implements attendance.Service.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListRecordsResponse, error) {
	c, err := claims.FromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.Repository.List(ctx, filter, c.CompanyID)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	return toListResponse(records, total, filter), nil
}

// GetAuditTrail implements attendance.Service.
func (a *AttendanceServiceImpl) GetAuditTrail(ctx context.Context, id string) ([]audit.EntryResponse, error) {
	c, err := claims.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Role.CanApprove() {
		return nil, user.ErrManagerAccessRequired
	}

	if _, err := a.Repository.GetByID(ctx, id, c.CompanyID); err != nil {
		return nil, err
	}

	entries, err := a.auditLog.ListByAttendance(ctx, id, c.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	out := make([]audit.EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, audit.ToResponse(e))
	}
	return out, nil
}

// GetMyAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.ListFilter) (attendance.ListRecordsResponse, error) {
	c, err := claims.RequireEmployee(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.Repository.ListForEmployee(ctx, c.EmployeeID, filter, c.CompanyID)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	return toListResponse(records, total, filter), nil
}
