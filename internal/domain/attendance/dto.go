package attendance

import (
	"mime/multipart"

	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ValidatePunchRequest struct {
	Direction string `json:"direction"`
}

func (r *ValidatePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Direction, []string{string(DirectionIn), string(DirectionOut)}) {
		errs = append(errs, validator.ValidationError{Field: "direction", Message: "direction must be 'in' or 'out'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PunchValidationResponse is the side-effect-free answer to "may I punch
// right now". Token must be presented back on commit.
type PunchValidationResponse struct {
	OK           bool    `json:"ok"`
	AttendanceID *string `json:"attendance_id,omitempty"`
	LateMinutes  int     `json:"late_minutes"`
	IsLate       bool    `json:"is_late"`
	Token        string  `json:"token"`
	ExpiresAt    int64   `json:"expires_at"`
}

type CommitPunchRequest struct {
	Direction string `json:"direction"`
	Token     string `json:"token"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CommitPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Direction, []string{string(DirectionIn), string(DirectionOut)}) {
		errs = append(errs, validator.ValidationError{Field: "direction", Message: "direction must be 'in' or 'out'"})
	}
	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{Field: "token", Message: "validation token is required"})
	}
	if r.File == nil || r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{Field: "photo", Message: "punch evidence photo is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetApprovalRequest struct {
	ID       string `json:"-"`
	Decision string `json:"-"`
	Reason   string `json:"reason"`
}

func (r *SetApprovalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "attendance id is required"})
	}
	if !validator.IsInSlice(r.Decision, []string{string(DecisionApprove), string(DecisionReject)}) {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "decision must be APPROVE or REJECT"})
	}
	if Decision(r.Decision) == DecisionReject && validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "a reason is required when rejecting"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

func (r *MarkLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OverrideFieldsRequest corrects derived numeric fields. Only non-nil
// fields are touched; a reason is mandatory whenever values change.
type OverrideFieldsRequest struct {
	ID                 string           `json:"-"`
	WorkingHours       *decimal.Decimal `json:"working_hours"`
	OvertimeHours      *decimal.Decimal `json:"overtime_hours"`
	ShiftDurationHours *decimal.Decimal `json:"shift_duration_hours"`
	LateMinutes        *int             `json:"late_minutes"`
	Reason             string           `json:"reason"`
}

func (r *OverrideFieldsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "attendance id is required"})
	}
	if r.WorkingHours == nil && r.OvertimeHours == nil && r.ShiftDurationHours == nil && r.LateMinutes == nil {
		errs = append(errs, validator.ValidationError{Field: "fields", Message: "at least one field to override is required"})
	}
	if r.WorkingHours != nil && r.WorkingHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "working_hours", Message: "working_hours cannot be negative"})
	}
	if r.OvertimeHours != nil && r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "overtime_hours cannot be negative"})
	}
	if r.ShiftDurationHours != nil && !r.ShiftDurationHours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "shift_duration_hours", Message: "shift_duration_hours must be greater than zero"})
	}
	if r.LateMinutes != nil && *r.LateMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_minutes", Message: "late_minutes cannot be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	EmployeeID *string
	Status     *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int
}

type RecordResponse struct {
	ID                 string           `json:"id"`
	EmployeeID         string           `json:"employee_id"`
	EmployeeName       *string          `json:"employee_name,omitempty"`
	Date               string           `json:"date"`
	PunchIn            *string          `json:"punch_in"`
	PunchOut           *string          `json:"punch_out"`
	PunchInImageRef    *string          `json:"punch_in_image_ref,omitempty"`
	PunchOutImageRef   *string          `json:"punch_out_image_ref,omitempty"`
	Status             string           `json:"status"`
	LateMinutes        int              `json:"late_minutes"`
	IsLate             bool             `json:"is_late"`
	WorkingHours       *decimal.Decimal `json:"working_hours"`
	OvertimeHours      *decimal.Decimal `json:"overtime_hours"`
	ShiftDurationHours decimal.Decimal  `json:"shift_duration_hours"`
	ApprovalReason     *string          `json:"approval_reason,omitempty"`
	ApprovedBy         *string          `json:"approved_by,omitempty"`
	ApprovedAt         *string          `json:"approved_at,omitempty"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
