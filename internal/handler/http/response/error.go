package response

import (
	"errors"
	"net/http"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/payroll"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/domain/user"
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Access errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager role required")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin role required")

	// Punch preconditions
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		Conflict(w, "Already punched in today")
	case errors.Is(err, attendance.ErrNoOpenPunch):
		Conflict(w, "No open punch to close")
	case errors.Is(err, attendance.ErrInvalidPunchToken):
		Unauthorized(w, "Punch validation token is invalid or expired")

	// State machine
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrCannotApproveWithoutPunchOut):
		Conflict(w, "Cannot approve a record without a punch-out")
	case errors.Is(err, attendance.ErrInvalidTransition):
		Conflict(w, "Attendance record cannot change to the requested status")
	case errors.Is(err, attendance.ErrOverrideReasonRequired):
		BadRequest(w, "A reason is required to override attendance fields", nil)

	// Salary configuration
	case errors.Is(err, salaryconfig.ErrSalaryNotConfigured):
		Conflict(w, "No salary configuration applies to this date")
	case errors.Is(err, salaryconfig.ErrSalaryConfigNotFound):
		NotFound(w, "Salary configuration not found")

	// Payroll
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrLedgerEntryNotFound):
		NotFound(w, "Ledger entry not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
