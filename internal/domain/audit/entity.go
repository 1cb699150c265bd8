package audit

import "time"

// Entry records one approval-phase action on an attendance record. The
// trail is append-only: a revoked approval adds an entry, it never
// rewrites history.
type Entry struct {
	ID           string
	CompanyID    string
	AttendanceID string
	ActorID      string
	Action       string // "APPROVE", "REJECT", "LEAVE", "OVERRIDE"
	FromStatus   string
	ToStatus     string
	Reason       *string
	CreatedAt    time.Time
}
