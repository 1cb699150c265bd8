package audit

import "context"

type Repository interface {
	Append(ctx context.Context, entry Entry) error
	ListByAttendance(ctx context.Context, attendanceID string, companyID string) ([]Entry, error)
}
