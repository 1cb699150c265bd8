package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an attendance record. The literal
// values are the stored-data contract and must not change.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusLeave    Status = "LEAVE"
	StatusAbsent   Status = "ABSENT"
)

// IsTerminal reports whether the status can only be left via an explicit
// admin revocation (APPROVED -> REJECTED).
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusLeave || s == StatusAbsent
}

// Direction of a punch event.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Decision is a manager's approval verdict.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// Record is the per-day aggregate of one punch-in/out pair plus its
// approval state and derived hour metrics. At most one record exists per
// (employee, calendar day), and at most one record per employee has a
// null PunchOut at any time.
type Record struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time // company-local calendar day, midnight UTC storage

	PunchIn          *time.Time
	PunchOut         *time.Time
	PunchInImageRef  *string
	PunchOutImageRef *string

	Status             Status
	LateMinutes        int
	WorkingHours       *decimal.Decimal // set at punch-out
	OvertimeHours      *decimal.Decimal // set at punch-out, admin-overridable
	ShiftDurationHours decimal.Decimal
	ApprovalReason     *string

	ApprovedBy *string
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for list/report views
	EmployeeName *string
}

// Open reports whether the record is a punched-in session awaiting its
// punch-out.
func (r Record) Open() bool {
	return r.PunchIn != nil && r.PunchOut == nil
}

// IsLate reports whether the punch-in arrived after the scheduled shift
// start.
func (r Record) IsLate() bool {
	return r.LateMinutes > 0
}
