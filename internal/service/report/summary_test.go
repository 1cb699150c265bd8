package report

import (
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func record(employeeID string, d int, status attendance.Status, lateMinutes int) attendance.Record {
	wh := decimal.NewFromInt(8)
	return attendance.Record{
		EmployeeID:   employeeID,
		Date:         day(d),
		Status:       status,
		LateMinutes:  lateMinutes,
		WorkingHours: &wh,
	}
}

func TestBuildSummarySynthesizesAbsentDays(t *testing.T) {
	staff := []salaryconfig.EmployeeRef{{EmployeeID: "emp-1", EmployeeName: "A. Rahman"}}
	records := []attendance.Record{
		record("emp-1", 1, attendance.StatusApproved, 0),
		record("emp-1", 2, attendance.StatusLeave, 0),
	}

	summary := BuildSummary(records, staff, day(1), day(4), false)

	assert.Equal(t, 4, summary.DaysInRange)
	assert.Equal(t, 1, summary.Counts.Present)
	assert.Equal(t, 1, summary.Counts.Leave)
	// Days 3 and 4 have no record and fold into absent.
	assert.Equal(t, 2, summary.Counts.Absent)
	assert.Equal(t, 0, summary.Counts.NoRecord)
}

func TestBuildSummaryDistinguishNoRecord(t *testing.T) {
	staff := []salaryconfig.EmployeeRef{{EmployeeID: "emp-1"}}
	records := []attendance.Record{
		record("emp-1", 1, attendance.StatusApproved, 0),
		record("emp-1", 2, attendance.StatusAbsent, 0),
	}

	summary := BuildSummary(records, staff, day(1), day(3), true)

	// The stored ABSENT record stays absent; only the empty day moves to
	// no_record.
	assert.Equal(t, 1, summary.Counts.Absent)
	assert.Equal(t, 1, summary.Counts.NoRecord)
}

func TestBuildSummaryLateIsSubsetOfPresent(t *testing.T) {
	staff := []salaryconfig.EmployeeRef{{EmployeeID: "emp-1"}}
	records := []attendance.Record{
		record("emp-1", 1, attendance.StatusApproved, 20),
		record("emp-1", 2, attendance.StatusApproved, 0),
	}

	summary := BuildSummary(records, staff, day(1), day(2), false)

	assert.Equal(t, 2, summary.Counts.Present)
	assert.Equal(t, 1, summary.Counts.Late)
	require.Len(t, summary.Staff, 1)
	assert.Equal(t, 20, summary.Staff[0].TotalLateMinutes)
}

func TestBuildSummaryJoiningDateExcludesEarlierDays(t *testing.T) {
	staff := []salaryconfig.EmployeeRef{{EmployeeID: "emp-1", JoiningDate: day(3)}}

	summary := BuildSummary(nil, staff, day(1), day(4), false)

	// Only days 3 and 4 count; nothing is synthesized before joining.
	assert.Equal(t, 2, summary.Counts.Absent)
}

func TestBuildSummaryAttendancePercent(t *testing.T) {
	staff := []salaryconfig.EmployeeRef{{EmployeeID: "emp-1"}}
	records := []attendance.Record{
		record("emp-1", 1, attendance.StatusApproved, 0),
		record("emp-1", 2, attendance.StatusApproved, 0),
		record("emp-1", 3, attendance.StatusApproved, 0),
	}

	summary := BuildSummary(records, staff, day(1), day(4), false)

	require.Len(t, summary.Staff, 1)
	assert.True(t, summary.Staff[0].AttendancePercent.Equal(decimal.NewFromInt(75)),
		"percent = %s", summary.Staff[0].AttendancePercent)
}

func TestBuildSummaryDailyTrendSorted(t *testing.T) {
	staff := []salaryconfig.EmployeeRef{
		{EmployeeID: "emp-1"},
		{EmployeeID: "emp-2"},
	}
	records := []attendance.Record{
		record("emp-2", 2, attendance.StatusApproved, 0),
		record("emp-1", 1, attendance.StatusPending, 0),
	}

	summary := BuildSummary(records, staff, day(1), day(2), false)

	require.Len(t, summary.Daily, 2)
	assert.Equal(t, "2026-08-01", summary.Daily[0].Date)
	assert.Equal(t, "2026-08-02", summary.Daily[1].Date)
	assert.Equal(t, 1, summary.Daily[0].Pending)
	assert.Equal(t, 1, summary.Daily[1].Present)
}

func TestBuildSummaryIncludesUnrosteredEmployee(t *testing.T) {
	name := "Contractor"
	rec := record("emp-9", 1, attendance.StatusApproved, 0)
	rec.EmployeeName = &name

	summary := BuildSummary([]attendance.Record{rec}, nil, day(1), day(1), false)

	require.Len(t, summary.Staff, 1)
	assert.Equal(t, "emp-9", summary.Staff[0].EmployeeID)
	assert.Equal(t, "Contractor", summary.Staff[0].EmployeeName)
	assert.Equal(t, 1, summary.Counts.Present)
}
