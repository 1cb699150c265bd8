package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerType classifies a ledger line item. Literal values are part of
// the stored-data contract.
type LedgerType string

const (
	LedgerTypePayment   LedgerType = "PAYMENT"
	LedgerTypeDeduction LedgerType = "DEDUCTION"
	LedgerTypeRecovery  LedgerType = "RECOVERY"
)

// LedgerEntry is one payment/deduction/recovery line. The ledger is
// written by external collaborators; payroll only folds it into balances.
type LedgerEntry struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	Type        LedgerType
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// Result is the derived monthly payroll figure set. It is recomputed on
// every read from the approved attendance snapshot plus the ledger; it is
// never stored as hand-edited truth.
type Result struct {
	EmployeeID string
	Month      int
	Year       int

	PresentDays        int
	LeaveDays          int
	TotalWorkingHours  decimal.Decimal
	TotalOvertimeHours decimal.Decimal
	TotalLateMinutes   int

	GrossAmount        decimal.Decimal
	StatutoryDeduction decimal.Decimal
	NetAmount          decimal.Decimal

	TotalPaid      decimal.Decimal
	TotalRecovered decimal.Decimal
	BalanceAmount  decimal.Decimal

	Payments   []LedgerEntry
	Deductions []LedgerEntry
	Recoveries []LedgerEntry

	// MissingSalaryConfig flags a period where one or more approved
	// records had no applicable salary configuration. The result stays
	// zero-valued and renderable instead of failing.
	MissingSalaryConfig bool
}
