package payroll

import (
	"context"
	"time"
)

// LedgerRepository reads and appends the payment/deduction/recovery
// ledger. Entries are append-only; corrections are new entries.
type LedgerRepository interface {
	Append(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)
	ListForPeriod(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]LedgerEntry, error)
}
