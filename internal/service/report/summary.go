package report

import (
	"sort"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
)

var percentFactor = decimal.NewFromInt(100)

// BuildSummary groups attendance records into company, daily and
// per-staff views over [from, to]. Days a rostered employee has no record
// for are synthesized as absent, or reported separately when
// distinguishNoRecord is set. Employees are not counted before their
// joining date.
func BuildSummary(records []attendance.Record, staff []salaryconfig.EmployeeRef, from, to time.Time, distinguishNoRecord bool) report.Summary {
	summary := report.Summary{
		StartDate:   from.Format("2006-01-02"),
		EndDate:     to.Format("2006-01-02"),
		DaysInRange: int(to.Sub(from).Hours()/24) + 1,
	}

	roster := mergeRoster(staff, records)

	byEmployeeDay := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		byEmployeeDay[rec.EmployeeID+"|"+rec.Date.Format("2006-01-02")] = rec
	}

	daily := map[string]*report.DayTrend{}
	dayOf := func(d time.Time) *report.DayTrend {
		key := d.Format("2006-01-02")
		if t, ok := daily[key]; ok {
			return t
		}
		t := &report.DayTrend{Date: key}
		daily[key] = t
		return t
	}

	for _, ref := range roster {
		rollup := report.StaffRollup{
			EmployeeID:        ref.EmployeeID,
			EmployeeName:      ref.EmployeeName,
			TotalWorkingHours: decimal.Zero,
			TotalOvertime:     decimal.Zero,
			AttendancePercent: decimal.Zero,
		}
		countableDays := 0

		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if !ref.JoiningDate.IsZero() && d.Before(ref.JoiningDate) {
				continue
			}
			countableDays++
			trend := dayOf(d)

			rec, ok := byEmployeeDay[ref.EmployeeID+"|"+d.Format("2006-01-02")]
			if !ok {
				if distinguishNoRecord {
					rollup.Counts.NoRecord++
					summary.Counts.NoRecord++
				} else {
					rollup.Counts.Absent++
					summary.Counts.Absent++
					trend.Absent++
				}
				continue
			}

			switch rec.Status {
			case attendance.StatusApproved:
				rollup.Counts.Present++
				summary.Counts.Present++
				trend.Present++
				if rec.IsLate() {
					rollup.Counts.Late++
					summary.Counts.Late++
					trend.Late++
				}
				rollup.TotalLateMinutes += rec.LateMinutes
				if rec.WorkingHours != nil {
					rollup.TotalWorkingHours = rollup.TotalWorkingHours.Add(*rec.WorkingHours)
				}
				if rec.OvertimeHours != nil {
					rollup.TotalOvertime = rollup.TotalOvertime.Add(*rec.OvertimeHours)
				}
			case attendance.StatusPending:
				rollup.Counts.Pending++
				summary.Counts.Pending++
				trend.Pending++
			case attendance.StatusRejected:
				rollup.Counts.Rejected++
				summary.Counts.Rejected++
			case attendance.StatusLeave:
				rollup.Counts.Leave++
				summary.Counts.Leave++
				trend.Leave++
			case attendance.StatusAbsent:
				rollup.Counts.Absent++
				summary.Counts.Absent++
				trend.Absent++
			}
		}

		if countableDays > 0 {
			rollup.AttendancePercent = decimal.NewFromInt(int64(rollup.Counts.Present)).
				Div(decimal.NewFromInt(int64(countableDays))).
				Mul(percentFactor).Round(2)
		}
		rollup.TotalWorkingHours = rollup.TotalWorkingHours.Round(2)
		rollup.TotalOvertime = rollup.TotalOvertime.Round(2)
		summary.Staff = append(summary.Staff, rollup)
	}

	summary.Daily = make([]report.DayTrend, 0, len(daily))
	for _, t := range daily {
		summary.Daily = append(summary.Daily, *t)
	}
	sort.Slice(summary.Daily, func(i, j int) bool { return summary.Daily[i].Date < summary.Daily[j].Date })
	sort.Slice(summary.Staff, func(i, j int) bool { return summary.Staff[i].EmployeeID < summary.Staff[j].EmployeeID })

	return summary
}

// mergeRoster unions the configured roster with employees that only
// appear in the records, so a report never silently drops data.
func mergeRoster(staff []salaryconfig.EmployeeRef, records []attendance.Record) []salaryconfig.EmployeeRef {
	seen := make(map[string]bool, len(staff))
	out := make([]salaryconfig.EmployeeRef, 0, len(staff))
	for _, ref := range staff {
		seen[ref.EmployeeID] = true
		out = append(out, ref)
	}
	for _, rec := range records {
		if seen[rec.EmployeeID] {
			continue
		}
		seen[rec.EmployeeID] = true
		ref := salaryconfig.EmployeeRef{EmployeeID: rec.EmployeeID}
		if rec.EmployeeName != nil {
			ref.EmployeeName = *rec.EmployeeName
		}
		out = append(out, ref)
	}
	return out
}
