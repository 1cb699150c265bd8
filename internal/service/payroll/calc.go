package payroll

import (
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/payroll"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Inputs is the frozen snapshot one month's figures derive from. Configs
// must be sorted newest EffectiveFrom first, the way the repository
// returns them.
type Inputs struct {
	Records              []attendance.Record
	Configs              []salaryconfig.SalaryConfig
	PfEsiPercent         decimal.Decimal
	LeaveCountsAsPresent bool
}

// configFor resolves the config version governing the given date.
func configFor(configs []salaryconfig.SalaryConfig, date time.Time) *salaryconfig.SalaryConfig {
	for i := range configs {
		if !configs[i].EffectiveFrom.After(date) {
			return &configs[i]
		}
	}
	return nil
}

// dayValue is what one present day earns under a MONTHLY config. An
// explicit daily rate wins over the derived base/target quotient.
func dayValue(cfg *salaryconfig.SalaryConfig) decimal.Decimal {
	if cfg.DailyRate != nil {
		return *cfg.DailyRate
	}
	if cfg.WorkingDaysTarget <= 0 {
		return decimal.Zero
	}
	return cfg.BaseSalary.Div(decimal.NewFromInt(int64(cfg.WorkingDaysTarget)))
}

// Compute derives the month's payroll figures from attendance alone; the
// ledger is folded in by the service afterwards. Only APPROVED records
// earn pay. A record whose date no config version covers sets the
// MissingSalaryConfig flag and earns nothing, so the result stays
// renderable instead of failing.
func Compute(employeeID string, year, month int, in Inputs) payroll.Result {
	result := payroll.Result{
		EmployeeID:         employeeID,
		Month:              month,
		Year:               year,
		TotalWorkingHours:  decimal.Zero,
		TotalOvertimeHours: decimal.Zero,
		GrossAmount:        decimal.Zero,
		StatutoryDeduction: decimal.Zero,
		NetAmount:          decimal.Zero,
		TotalPaid:          decimal.Zero,
		TotalRecovered:     decimal.Zero,
		BalanceAmount:      decimal.Zero,
	}

	gross := decimal.Zero
	pfBase := decimal.Zero

	addEarning := func(amount decimal.Decimal, cfg *salaryconfig.SalaryConfig) {
		gross = gross.Add(amount)
		if cfg.PfEsiApplicable {
			pfBase = pfBase.Add(amount)
		}
	}

	for _, rec := range in.Records {
		switch rec.Status {
		case attendance.StatusApproved:
			result.PresentDays++
			result.TotalLateMinutes += rec.LateMinutes
			if rec.WorkingHours != nil {
				result.TotalWorkingHours = result.TotalWorkingHours.Add(*rec.WorkingHours)
			}
			if rec.OvertimeHours != nil {
				result.TotalOvertimeHours = result.TotalOvertimeHours.Add(*rec.OvertimeHours)
			}

			cfg := configFor(in.Configs, rec.Date)
			if cfg == nil {
				result.MissingSalaryConfig = true
				continue
			}

			switch cfg.SalaryType {
			case salaryconfig.SalaryTypeMonthly:
				addEarning(dayValue(cfg), cfg)
			case salaryconfig.SalaryTypeHourly:
				if rec.WorkingHours != nil {
					addEarning(cfg.HourlyRate.Mul(*rec.WorkingHours), cfg)
				}
			}
			if rec.OvertimeHours != nil && rec.OvertimeHours.IsPositive() {
				addEarning(cfg.OvertimeRate.Mul(*rec.OvertimeHours), cfg)
			}

		case attendance.StatusLeave:
			result.LeaveDays++
			if !in.LeaveCountsAsPresent {
				continue
			}

			cfg := configFor(in.Configs, rec.Date)
			if cfg == nil {
				result.MissingSalaryConfig = true
				continue
			}

			switch cfg.SalaryType {
			case salaryconfig.SalaryTypeMonthly:
				addEarning(dayValue(cfg), cfg)
			case salaryconfig.SalaryTypeHourly:
				// A paid leave day is credited at the scheduled shift
				// length.
				addEarning(cfg.HourlyRate.Mul(cfg.ShiftDurationHours), cfg)
			}
		}
	}

	result.GrossAmount = gross.Round(2)
	result.StatutoryDeduction = pfBase.Mul(in.PfEsiPercent).Div(hundred).Round(2)
	result.NetAmount = result.GrossAmount.Sub(result.StatutoryDeduction)
	result.TotalWorkingHours = result.TotalWorkingHours.Round(2)
	result.TotalOvertimeHours = result.TotalOvertimeHours.Round(2)

	return result
}

// monthRange returns the inclusive [first, last] calendar days of a month.
func monthRange(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
