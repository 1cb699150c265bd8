package salaryconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryType selects which rate field of a SalaryConfig is meaningful.
// The literal values are part of the stored-data contract.
type SalaryType string

const (
	SalaryTypeMonthly SalaryType = "MONTHLY"
	SalaryTypeHourly  SalaryType = "HOURLY"
)

// SalaryConfig holds one employee's pay terms and shift parameters.
// Configs are versioned by EffectiveFrom: payroll always resolves the
// config active on the date of each attendance record, so a later edit
// never rewrites an already-derivable period.
type SalaryConfig struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	SalaryType         SalaryType
	BaseSalary         decimal.Decimal // used when MONTHLY
	HourlyRate         decimal.Decimal // used when HOURLY
	DailyRate          *decimal.Decimal
	WorkingDaysTarget  int
	OvertimeRate       decimal.Decimal // per hour
	PfEsiApplicable    bool
	JoiningDate        time.Time
	EffectiveFrom      time.Time
	ShiftStart         string // "15:04" wall clock in Timezone
	ShiftDurationHours decimal.Decimal
	UnpaidBreakMinutes int
	Timezone           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Location resolves the config's timezone, falling back to UTC.
func (c SalaryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.UTC
	}
	return loc
}

// EmployeeRef is the roster view the report aggregator iterates over.
type EmployeeRef struct {
	EmployeeID   string
	EmployeeName string
	JoiningDate  time.Time
}
