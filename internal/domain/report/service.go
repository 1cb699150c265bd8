package report

import "context"

// Service is the pure read side: it groups and percentages attendance
// data, synthesizing absent entries for days with no record. It holds no
// authority over state.
type Service interface {
	GetAttendanceReport(ctx context.Context, req AttendanceReportRequest) (Summary, error)
}
