package attendance

import (
	"context"

	"github.com/presensia/attendance-backend-go/internal/domain/audit"
)

// Service is the punch validator plus the attendance state machine.
// ValidatePunch is side-effect free; CommitPunch re-checks every
// precondition atomically, so a stale validation can never advance state.
type Service interface {
	ValidatePunch(ctx context.Context, req ValidatePunchRequest) (PunchValidationResponse, error)
	CommitPunch(ctx context.Context, req CommitPunchRequest) (RecordResponse, error)

	SetApproval(ctx context.Context, req SetApprovalRequest) (RecordResponse, error)
	MarkLeave(ctx context.Context, req MarkLeaveRequest) (RecordResponse, error)
	OverrideFields(ctx context.Context, req OverrideFieldsRequest) (RecordResponse, error)

	Get(ctx context.Context, id string) (RecordResponse, error)
	List(ctx context.Context, filter ListFilter) (ListRecordsResponse, error)
	GetMyAttendance(ctx context.Context, filter ListFilter) (ListRecordsResponse, error)

	// GetAuditTrail returns the approval-phase history of one record.
	GetAuditTrail(ctx context.Context, id string) ([]audit.EntryResponse, error)
}
