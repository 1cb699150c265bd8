package attendance

import "errors"

// Attendance domain errors
var (
	// Punch precondition errors. A lost commit race surfaces as the same
	// error as a genuine duplicate punch.
	ErrAlreadyPunchedIn  = errors.New("you have already punched in today")
	ErrNoOpenPunch       = errors.New("you have no open punch to close")
	ErrInvalidPunchToken = errors.New("punch validation token is invalid or expired")

	// State-transition errors
	ErrRecordNotFound               = errors.New("attendance record not found")
	ErrCannotApproveWithoutPunchOut = errors.New("attendance cannot be approved before punch-out")
	ErrInvalidTransition            = errors.New("attendance status transition is not allowed")
	ErrOverrideReasonRequired       = errors.New("a reason is required when overriding attendance fields")
)
