package payroll

import (
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/payroll"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcEmployeeID = "22222222-2222-2222-2222-222222222222"

func monthlyConfig(effectiveFrom time.Time) salaryconfig.SalaryConfig {
	return salaryconfig.SalaryConfig{
		EmployeeID:         calcEmployeeID,
		SalaryType:         salaryconfig.SalaryTypeMonthly,
		BaseSalary:         decimal.NewFromInt(26000),
		WorkingDaysTarget:  26,
		OvertimeRate:       decimal.NewFromInt(100),
		EffectiveFrom:      effectiveFrom,
		ShiftDurationHours: decimal.NewFromInt(8),
	}
}

func hourlyConfig(effectiveFrom time.Time) salaryconfig.SalaryConfig {
	return salaryconfig.SalaryConfig{
		EmployeeID:         calcEmployeeID,
		SalaryType:         salaryconfig.SalaryTypeHourly,
		HourlyRate:         decimal.NewFromInt(150),
		WorkingDaysTarget:  26,
		OvertimeRate:       decimal.NewFromInt(200),
		EffectiveFrom:      effectiveFrom,
		ShiftDurationHours: decimal.NewFromInt(8),
	}
}

func approvedDay(day int, workingHours, overtimeHours float64) attendance.Record {
	wh := decimal.NewFromFloat(workingHours)
	oh := decimal.NewFromFloat(overtimeHours)
	return attendance.Record{
		EmployeeID:    calcEmployeeID,
		Date:          time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		Status:        attendance.StatusApproved,
		WorkingHours:  &wh,
		OvertimeHours: &oh,
	}
}

func leaveDay(day int) attendance.Record {
	return attendance.Record{
		EmployeeID: calcEmployeeID,
		Date:       time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusLeave,
	}
}

func TestComputeMonthlyProration(t *testing.T) {
	// 20 present days out of a 26-day target on a 26000 base.
	var records []attendance.Record
	for day := 1; day <= 20; day++ {
		records = append(records, approvedDay(day, 8, 0))
	}

	result := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records:              records,
		Configs:              []salaryconfig.SalaryConfig{monthlyConfig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
		PfEsiPercent:         decimal.Zero,
		LeaveCountsAsPresent: true,
	})

	assert.Equal(t, 20, result.PresentDays)
	assert.True(t, result.GrossAmount.Equal(decimal.NewFromInt(20000)), "gross = %s", result.GrossAmount)
	assert.True(t, result.NetAmount.Equal(decimal.NewFromInt(20000)))
	assert.False(t, result.MissingSalaryConfig)
}

func TestComputeLeavePolicy(t *testing.T) {
	records := []attendance.Record{approvedDay(3, 8, 0), leaveDay(4)}
	configs := []salaryconfig.SalaryConfig{monthlyConfig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))}

	paid := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records: records, Configs: configs,
		PfEsiPercent: decimal.Zero, LeaveCountsAsPresent: true,
	})
	assert.Equal(t, 1, paid.PresentDays)
	assert.Equal(t, 1, paid.LeaveDays)
	assert.True(t, paid.GrossAmount.Equal(decimal.NewFromInt(2000)), "gross = %s", paid.GrossAmount)

	unpaid := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records: records, Configs: configs,
		PfEsiPercent: decimal.Zero, LeaveCountsAsPresent: false,
	})
	assert.Equal(t, 1, unpaid.LeaveDays)
	assert.True(t, unpaid.GrossAmount.Equal(decimal.NewFromInt(1000)), "gross = %s", unpaid.GrossAmount)
}

func TestComputeHourlyWithOvertime(t *testing.T) {
	records := []attendance.Record{
		approvedDay(3, 8, 0),
		approvedDay(4, 10, 2),
	}

	result := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records:              records,
		Configs:              []salaryconfig.SalaryConfig{hourlyConfig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
		PfEsiPercent:         decimal.Zero,
		LeaveCountsAsPresent: true,
	})

	// 18h * 150 + 2h * 200 overtime premium.
	assert.True(t, result.GrossAmount.Equal(decimal.NewFromInt(3100)), "gross = %s", result.GrossAmount)
	assert.True(t, result.TotalOvertimeHours.Equal(decimal.NewFromInt(2)))
}

func TestComputeStatutoryDeduction(t *testing.T) {
	cfg := monthlyConfig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg.PfEsiApplicable = true

	result := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records:              []attendance.Record{approvedDay(3, 8, 0)},
		Configs:              []salaryconfig.SalaryConfig{cfg},
		PfEsiPercent:         decimal.NewFromFloat(12.0),
		LeaveCountsAsPresent: true,
	})

	assert.True(t, result.GrossAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.StatutoryDeduction.Equal(decimal.NewFromInt(120)), "deduction = %s", result.StatutoryDeduction)
	assert.True(t, result.NetAmount.Equal(decimal.NewFromInt(880)))
}

func TestComputeMidMonthConfigChange(t *testing.T) {
	// Base doubles from the 16th; each record resolves the version active
	// on its own date.
	old := monthlyConfig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	raised := monthlyConfig(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC))
	raised.BaseSalary = decimal.NewFromInt(52000)

	result := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records:              []attendance.Record{approvedDay(10, 8, 0), approvedDay(20, 8, 0)},
		Configs:              []salaryconfig.SalaryConfig{raised, old}, // newest first
		PfEsiPercent:         decimal.Zero,
		LeaveCountsAsPresent: true,
	})

	// 1000 under the old terms + 2000 under the raise.
	assert.True(t, result.GrossAmount.Equal(decimal.NewFromInt(3000)), "gross = %s", result.GrossAmount)
}

func TestComputeMissingConfigFlagsInsteadOfFailing(t *testing.T) {
	result := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records:              []attendance.Record{approvedDay(3, 8, 0)},
		Configs:              nil,
		PfEsiPercent:         decimal.NewFromFloat(12.0),
		LeaveCountsAsPresent: true,
	})

	assert.True(t, result.MissingSalaryConfig)
	assert.True(t, result.GrossAmount.IsZero())
	assert.True(t, result.NetAmount.IsZero())
	// Attendance counts still report even when pay cannot be derived.
	assert.Equal(t, 1, result.PresentDays)
}

func TestComputeIgnoresUndecidedRecords(t *testing.T) {
	pending := approvedDay(5, 8, 0)
	pending.Status = attendance.StatusPending
	rejected := approvedDay(6, 8, 0)
	rejected.Status = attendance.StatusRejected
	absent := approvedDay(7, 0, 0)
	absent.Status = attendance.StatusAbsent

	result := Compute(calcEmployeeID, 2026, 8, Inputs{
		Records:              []attendance.Record{pending, rejected, absent},
		Configs:              []salaryconfig.SalaryConfig{monthlyConfig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
		PfEsiPercent:         decimal.Zero,
		LeaveCountsAsPresent: true,
	})

	assert.Equal(t, 0, result.PresentDays)
	assert.True(t, result.GrossAmount.IsZero())
}

func TestComputeDeterministic(t *testing.T) {
	inputs := Inputs{
		Records:              []attendance.Record{approvedDay(3, 8.5, 0.5), leaveDay(4)},
		Configs:              []salaryconfig.SalaryConfig{monthlyConfig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
		PfEsiPercent:         decimal.NewFromFloat(12.0),
		LeaveCountsAsPresent: true,
	}

	first := Compute(calcEmployeeID, 2026, 8, inputs)
	second := Compute(calcEmployeeID, 2026, 8, inputs)
	assert.True(t, first.GrossAmount.Equal(second.GrossAmount))
	assert.True(t, first.NetAmount.Equal(second.NetAmount))
	assert.Equal(t, first.PresentDays, second.PresentDays)
}

func TestFoldLedgerBalance(t *testing.T) {
	result := payroll.Result{
		NetAmount:      decimal.NewFromInt(20000),
		TotalPaid:      decimal.Zero,
		TotalRecovered: decimal.Zero,
	}

	folded := foldLedger(result, []payroll.LedgerEntry{
		{Type: payroll.LedgerTypePayment, Amount: decimal.NewFromInt(15000)},
		{Type: payroll.LedgerTypePayment, Amount: decimal.NewFromInt(3000)},
		{Type: payroll.LedgerTypeRecovery, Amount: decimal.NewFromInt(500)},
		{Type: payroll.LedgerTypeDeduction, Amount: decimal.NewFromInt(250)},
	})

	assert.True(t, folded.TotalPaid.Equal(decimal.NewFromInt(18000)))
	// Recovered sums deduction and recovery lines: 500 + 250.
	assert.True(t, folded.TotalRecovered.Equal(decimal.NewFromInt(750)))
	// 20000 - 18000 + 750.
	assert.True(t, folded.BalanceAmount.Equal(decimal.NewFromInt(2750)), "balance = %s", folded.BalanceAmount)
	require.Len(t, folded.Payments, 2)
	require.Len(t, folded.Deductions, 1)
	require.Len(t, folded.Recoveries, 1)
}

func TestMonthRange(t *testing.T) {
	from, to := monthRange(2026, 2)
	assert.Equal(t, "2026-02-01", from.Format("2006-01-02"))
	assert.Equal(t, "2026-02-28", to.Format("2006-01-02"))

	from, to = monthRange(2028, 2)
	assert.Equal(t, "2028-02-29", to.Format("2006-01-02"))
	assert.Equal(t, "2028-02-01", from.Format("2006-01-02"))
}
