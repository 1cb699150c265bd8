package salaryconfig

import (
	"context"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/domain/user"
	"github.com/presensia/attendance-backend-go/internal/pkg/claims"
	"github.com/shopspring/decimal"
)

type SalaryConfigServiceImpl struct {
	salaryconfig.Repository
}

func NewSalaryConfigService(repo salaryconfig.Repository) salaryconfig.Service {
	return &SalaryConfigServiceImpl{Repository: repo}
}

func toConfigResponse(cfg salaryconfig.SalaryConfig) salaryconfig.SalaryConfigResponse {
	return salaryconfig.SalaryConfigResponse{
		ID:                 cfg.ID,
		EmployeeID:         cfg.EmployeeID,
		SalaryType:         string(cfg.SalaryType),
		BaseSalary:         cfg.BaseSalary,
		HourlyRate:         cfg.HourlyRate,
		DailyRate:          cfg.DailyRate,
		WorkingDaysTarget:  cfg.WorkingDaysTarget,
		OvertimeRate:       cfg.OvertimeRate,
		PfEsiApplicable:    cfg.PfEsiApplicable,
		JoiningDate:        cfg.JoiningDate.Format("2006-01-02"),
		EffectiveFrom:      cfg.EffectiveFrom.Format("2006-01-02"),
		ShiftStart:         cfg.ShiftStart,
		ShiftDurationHours: cfg.ShiftDurationHours,
		UnpaidBreakMinutes: cfg.UnpaidBreakMinutes,
		Timezone:           cfg.Timezone,
	}
}

// Upsert implements salaryconfig.Service.
func (s *SalaryConfigServiceImpl) Upsert(ctx context.Context, req salaryconfig.UpsertSalaryConfigRequest) (salaryconfig.SalaryConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return salaryconfig.SalaryConfigResponse{}, err
	}

	c, err := claims.FromContext(ctx)
	if err != nil {
		return salaryconfig.SalaryConfigResponse{}, err
	}
	if !c.Role.CanApprove() {
		return salaryconfig.SalaryConfigResponse{}, user.ErrManagerAccessRequired
	}

	joiningDate, _ := time.Parse("2006-01-02", req.JoiningDate)

	// A config with no explicit effective date takes effect at joining.
	effectiveFrom := joiningDate
	if req.EffectiveFrom != "" {
		effectiveFrom, _ = time.Parse("2006-01-02", req.EffectiveFrom)
	}

	cfg := salaryconfig.SalaryConfig{
		EmployeeID:         req.EmployeeID,
		CompanyID:          c.CompanyID,
		SalaryType:         salaryconfig.SalaryType(req.SalaryType),
		WorkingDaysTarget:  req.WorkingDaysTarget,
		PfEsiApplicable:    req.PfEsiApplicable,
		JoiningDate:        joiningDate,
		EffectiveFrom:      effectiveFrom,
		ShiftStart:         req.ShiftStart,
		ShiftDurationHours: *req.ShiftDurationHours,
		UnpaidBreakMinutes: req.UnpaidBreakMinutes,
		Timezone:           req.Timezone,
	}
	if req.BaseSalary != nil {
		cfg.BaseSalary = *req.BaseSalary
	}
	if req.HourlyRate != nil {
		cfg.HourlyRate = *req.HourlyRate
	}
	cfg.DailyRate = req.DailyRate
	if req.OvertimeRate != nil {
		cfg.OvertimeRate = *req.OvertimeRate
	} else {
		cfg.OvertimeRate = decimal.Zero
	}

	saved, err := s.Repository.Upsert(ctx, cfg)
	if err != nil {
		return salaryconfig.SalaryConfigResponse{}, err
	}

	return toConfigResponse(saved), nil
}

// GetActive implements salaryconfig.Service.
func (s *SalaryConfigServiceImpl) GetActive(ctx context.Context, employeeID string, date string) (salaryconfig.SalaryConfigResponse, error) {
	c, err := claims.FromContext(ctx)
	if err != nil {
		return salaryconfig.SalaryConfigResponse{}, err
	}

	// Employees may read their own terms; managing others needs the
	// manager role.
	if !c.Role.CanApprove() && employeeID != c.EmployeeID {
		return salaryconfig.SalaryConfigResponse{}, user.ErrManagerAccessRequired
	}

	at := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return salaryconfig.SalaryConfigResponse{}, salaryconfig.ErrSalaryConfigNotFound
		}
		at = parsed
	}

	cfg, err := s.Repository.GetActiveForDate(ctx, employeeID, at, c.CompanyID)
	if err != nil {
		return salaryconfig.SalaryConfigResponse{}, err
	}

	return toConfigResponse(cfg), nil
}
