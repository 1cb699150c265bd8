package attendance

import (
	"context"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/audit"
	"github.com/shopspring/decimal"
)

// ClosePunch carries the metrics computed at punch-out time.
type ClosePunch struct {
	AttendanceID  string
	PunchOut      time.Time
	ImageRef      string
	WorkingHours  decimal.Decimal
	OvertimeHours decimal.Decimal
}

// StatusTransition is an atomic check-and-set of a record's status plus
// its audit entry. Implementations must serialize transitions per record
// and skip both the write and the audit append when the record already
// holds the target status.
type StatusTransition struct {
	AttendanceID string
	CompanyID    string
	To           Status
	ActorID      string
	Reason       *string
	Audit        audit.Entry
}

// Override is the admin correction of derived numeric fields, applied
// together with its audit entry.
type Override struct {
	AttendanceID       string
	CompanyID          string
	WorkingHours       *decimal.Decimal
	OvertimeHours      *decimal.Decimal
	ShiftDurationHours *decimal.Decimal
	LateMinutes        *int
	Reason             string
	Audit              audit.Entry
}

// Repository defines data access for attendance records. The punch
// mutations are conditional writes: the database decides races, callers
// translate the losing side into the matching precondition error.
type Repository interface {
	// CreateOpen inserts the punch-in record for (employee, date).
	// Returns ErrAlreadyPunchedIn when a record for the day already
	// exists, regardless of which concurrent caller created it.
	CreateOpen(ctx context.Context, rec Record) (Record, error)

	// Close sets punch-out data on the employee's open record for the
	// given date. Returns ErrNoOpenPunch when no open record matches.
	Close(ctx context.Context, employeeID, companyID string, cp ClosePunch) (Record, error)

	GetByID(ctx context.Context, id string, companyID string) (Record, error)

	// GetByEmployeeAndDate returns nil when no record exists for the day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Record, error)

	List(ctx context.Context, filter ListFilter, companyID string) ([]Record, int64, error)
	ListForEmployee(ctx context.Context, employeeID string, filter ListFilter, companyID string) ([]Record, int64, error)

	// ListForRange returns all records in [from, to] for one employee
	// (payroll) or all employees (reports, employeeID == nil).
	ListForRange(ctx context.Context, employeeID *string, from, to time.Time, companyID string) ([]Record, error)

	// Transition applies a status change and appends its audit entry in
	// one transaction.
	Transition(ctx context.Context, t StatusTransition) (Record, error)

	// ApplyOverride corrects numeric fields and appends the audit entry
	// in one transaction.
	ApplyOverride(ctx context.Context, o Override) (Record, error)

	// UpsertDayStatus inserts a punchless record holding the given status
	// (LEAVE or ABSENT) for the day, or updates a PENDING one. Reports
	// false when an existing record blocked the write, which makes the
	// nightly absent job idempotent. A non-nil entry is appended in the
	// same transaction when the write applies; the implementation fills
	// its AttendanceID, FromStatus and ToStatus.
	UpsertDayStatus(ctx context.Context, rec Record, entry *audit.Entry) (bool, error)
}
