package payroll

import "errors"

var (
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrInvalidPeriod       = errors.New("invalid payroll period")
)
