package payroll

import "context"

// Service derives monthly payroll figures from approved attendance. All
// computations are read-only and idempotent: the same attendance and
// ledger snapshot always yields the same result.
type Service interface {
	ComputeMonth(ctx context.Context, req ComputeMonthRequest) (ResultResponse, error)
	ComputeCompanyMonth(ctx context.Context, year, month int) (CompanyMonthResponse, error)

	AddLedgerEntry(ctx context.Context, req AddLedgerEntryRequest) (LedgerEntryResponse, error)
	ListLedgerEntries(ctx context.Context, employeeID string, year, month int) ([]LedgerEntryResponse, error)
}
