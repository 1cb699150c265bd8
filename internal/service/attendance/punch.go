package attendance

import (
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// shiftStartOn anchors the config's wall-clock shift start on the given
// local calendar day.
func shiftStartOn(day time.Time, cfg salaryconfig.SalaryConfig, loc *time.Location) time.Time {
	start, err := time.Parse("15:04", cfg.ShiftStart)
	if err != nil {
		start = time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, loc)
}

// lateMinutes is how many whole minutes the punch-in arrived after the
// shift start. Early arrivals are zero, never negative.
func lateMinutes(punchIn, shiftStart time.Time) int {
	if !punchIn.After(shiftStart) {
		return 0
	}
	return int(punchIn.Sub(shiftStart).Minutes())
}

// workMetrics derives the working and overtime hours of a closed punch
// pair. The unpaid break is subtracted from the raw span before anything
// else; both results are clamped at zero so clock skew can never produce
// negative hours.
func workMetrics(punchIn, punchOut time.Time, unpaidBreakMinutes int, shiftDurationHours decimal.Decimal) (working, overtime decimal.Decimal) {
	spanMinutes := decimal.NewFromFloat(punchOut.Sub(punchIn).Minutes())
	paidMinutes := spanMinutes.Sub(decimal.NewFromInt(int64(unpaidBreakMinutes)))
	if paidMinutes.IsNegative() {
		paidMinutes = decimal.Zero
	}

	working = paidMinutes.Div(minutesPerHour).Round(2)

	overtime = working.Sub(shiftDurationHours).Round(2)
	if overtime.IsNegative() {
		overtime = decimal.Zero
	}

	return working, overtime
}

// transitionAllowed encodes the status state machine. Repeating the
// current status is allowed so repeated decisions stay idempotent;
// APPROVED may still be revoked to REJECTED.
func transitionAllowed(from, to attendance.Status) bool {
	if from == to {
		return true
	}
	switch from {
	case attendance.StatusPending:
		return to == attendance.StatusApproved || to == attendance.StatusRejected
	case attendance.StatusApproved:
		return to == attendance.StatusRejected
	default:
		return false
	}
}
