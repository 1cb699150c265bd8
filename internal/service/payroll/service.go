package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/payroll"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/domain/user"
	"github.com/presensia/attendance-backend-go/internal/pkg/claims"
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	attendances   attendance.Repository
	salaryConfigs salaryconfig.Repository
	ledger        payroll.LedgerRepository
	cfg           config.PayrollConfig
}

func NewPayrollService(
	attendances attendance.Repository,
	salaryConfigs salaryconfig.Repository,
	ledger payroll.LedgerRepository,
	cfg config.PayrollConfig,
) payroll.Service {
	return &PayrollServiceImpl{
		attendances:   attendances,
		salaryConfigs: salaryConfigs,
		ledger:        ledger,
		cfg:           cfg,
	}
}

func toLedgerResponse(e payroll.LedgerEntry) payroll.LedgerEntryResponse {
	return payroll.LedgerEntryResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date.Format("2006-01-02"),
	}
}

func toResultResponse(r payroll.Result) payroll.ResultResponse {
	resp := payroll.ResultResponse{
		EmployeeID:          r.EmployeeID,
		Month:               r.Month,
		Year:                r.Year,
		PresentDays:         r.PresentDays,
		LeaveDays:           r.LeaveDays,
		TotalWorkingHours:   r.TotalWorkingHours,
		TotalOvertimeHours:  r.TotalOvertimeHours,
		TotalLateMinutes:    r.TotalLateMinutes,
		GrossAmount:         r.GrossAmount,
		StatutoryDeduction:  r.StatutoryDeduction,
		NetAmount:           r.NetAmount,
		TotalPaid:           r.TotalPaid,
		TotalRecovered:      r.TotalRecovered,
		BalanceAmount:       r.BalanceAmount,
		Payments:            make([]payroll.LedgerEntryResponse, 0, len(r.Payments)),
		Deductions:          make([]payroll.LedgerEntryResponse, 0, len(r.Deductions)),
		Recoveries:          make([]payroll.LedgerEntryResponse, 0, len(r.Recoveries)),
		MissingSalaryConfig: r.MissingSalaryConfig,
	}
	for _, e := range r.Payments {
		resp.Payments = append(resp.Payments, toLedgerResponse(e))
	}
	for _, e := range r.Deductions {
		resp.Deductions = append(resp.Deductions, toLedgerResponse(e))
	}
	for _, e := range r.Recoveries {
		resp.Recoveries = append(resp.Recoveries, toLedgerResponse(e))
	}
	return resp
}

// foldLedger attaches the period's ledger lines and derives the running
// balance: net minus what was paid out, plus what was clawed back.
// Deductions and recoveries both count toward TotalRecovered.
func foldLedger(result payroll.Result, entries []payroll.LedgerEntry) payroll.Result {
	for _, e := range entries {
		switch e.Type {
		case payroll.LedgerTypePayment:
			result.TotalPaid = result.TotalPaid.Add(e.Amount)
			result.Payments = append(result.Payments, e)
		case payroll.LedgerTypeDeduction:
			result.TotalRecovered = result.TotalRecovered.Add(e.Amount)
			result.Deductions = append(result.Deductions, e)
		case payroll.LedgerTypeRecovery:
			result.TotalRecovered = result.TotalRecovered.Add(e.Amount)
			result.Recoveries = append(result.Recoveries, e)
		}
	}

	result.BalanceAmount = result.NetAmount.Sub(result.TotalPaid).Add(result.TotalRecovered)
	return result
}

func (s *PayrollServiceImpl) computeMonth(ctx context.Context, employeeID, companyID string, year, month int) (payroll.Result, error) {
	from, to := monthRange(year, month)

	records, err := s.attendances.ListForRange(ctx, &employeeID, from, to, companyID)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("failed to list attendance for period: %w", err)
	}

	configs, err := s.salaryConfigs.ListForRange(ctx, employeeID, from, to, companyID)
	if err != nil && !errors.Is(err, salaryconfig.ErrSalaryNotConfigured) {
		return payroll.Result{}, fmt.Errorf("failed to list salary configs for period: %w", err)
	}

	result := Compute(employeeID, year, month, Inputs{
		Records:              records,
		Configs:              configs,
		PfEsiPercent:         s.cfg.PfEsiPercent,
		LeaveCountsAsPresent: s.cfg.LeaveCountsAsPresent,
	})

	entries, err := s.ledger.ListForPeriod(ctx, employeeID, from, to, companyID)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return foldLedger(result, entries), nil
}

// ComputeMonth implements payroll.Service.
func (s *PayrollServiceImpl) ComputeMonth(ctx context.Context, req payroll.ComputeMonthRequest) (payroll.ResultResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ResultResponse{}, err
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return payroll.ResultResponse{}, err
	}
	if !c.Role.CanApprove() && req.EmployeeID != c.EmployeeID {
		return payroll.ResultResponse{}, user.ErrManagerAccessRequired
	}

	result, err := s.computeMonth(ctx, req.EmployeeID, c.CompanyID, req.Year, req.Month)
	if err != nil {
		return payroll.ResultResponse{}, err
	}

	return toResultResponse(result), nil
}

// ComputeCompanyMonth implements payroll.Service.
func (s *PayrollServiceImpl) ComputeCompanyMonth(ctx context.Context, year, month int) (payroll.CompanyMonthResponse, error) {
	if !validator.IsValidMonth(month) || !validator.IsValidYear(year) {
		return payroll.CompanyMonthResponse{}, payroll.ErrInvalidPeriod
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return payroll.CompanyMonthResponse{}, err
	}
	if !c.Role.CanApprove() {
		return payroll.CompanyMonthResponse{}, user.ErrManagerAccessRequired
	}

	roster, err := s.salaryConfigs.ListEmployees(ctx, c.CompanyID)
	if err != nil {
		return payroll.CompanyMonthResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := payroll.CompanyMonthResponse{
		Month:     month,
		Year:      year,
		Employees: make([]payroll.ResultResponse, 0, len(roster)),
	}
	totalGross := decimal.Zero
	totalNet := decimal.Zero

	for _, ref := range roster {
		result, err := s.computeMonth(ctx, ref.EmployeeID, c.CompanyID, year, month)
		if err != nil {
			return payroll.CompanyMonthResponse{}, err
		}
		totalGross = totalGross.Add(result.GrossAmount)
		totalNet = totalNet.Add(result.NetAmount)
		resp.Employees = append(resp.Employees, toResultResponse(result))
	}

	resp.TotalGross = totalGross
	resp.TotalNet = totalNet
	return resp, nil
}

// AddLedgerEntry implements payroll.Service.
func (s *PayrollServiceImpl) AddLedgerEntry(ctx context.Context, req payroll.AddLedgerEntryRequest) (payroll.LedgerEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.LedgerEntryResponse{}, err
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return payroll.LedgerEntryResponse{}, err
	}
	if !c.Role.CanApprove() {
		return payroll.LedgerEntryResponse{}, user.ErrManagerAccessRequired
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	entry, err := s.ledger.Append(ctx, payroll.LedgerEntry{
		EmployeeID:  req.EmployeeID,
		CompanyID:   c.CompanyID,
		Type:        payroll.LedgerType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		return payroll.LedgerEntryResponse{}, err
	}

	return toLedgerResponse(entry), nil
}

// ListLedgerEntries implements payroll.Service.
func (s *PayrollServiceImpl) ListLedgerEntries(ctx context.Context, employeeID string, year, month int) ([]payroll.LedgerEntryResponse, error) {
	if !validator.IsValidMonth(month) || !validator.IsValidYear(year) {
		return nil, payroll.ErrInvalidPeriod
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Role.CanApprove() && employeeID != c.EmployeeID {
		return nil, user.ErrManagerAccessRequired
	}

	from, to := monthRange(year, month)
	entries, err := s.ledger.ListForPeriod(ctx, employeeID, from, to, c.CompanyID)
	if err != nil {
		return nil, err
	}

	out := make([]payroll.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerResponse(e))
	}
	return out, nil
}
