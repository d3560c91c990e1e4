package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/budgetgov/budget_management_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// reportingService builds read-only aggregate reports.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	userRepo      portsrepo.UserReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(rr portsrepo.ReportingRepository, ur portsrepo.UserReader) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: rr,
		userRepo:      ur,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// BudgetUtilization generates the per-budget consumption report for a fiscal
// year, optionally restricted to a division.
func (s *reportingService) BudgetUtilization(ctx context.Context, fiscalYear int, divisionID *string, userID string) (*dto.BudgetUtilizationResponse, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetBudgetUtilizationData(ctx, fiscalYear, divisionID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to build utilization report",
			slog.String("error", err.Error()), slog.Int("fiscal_year", fiscalYear))
		return nil, fmt.Errorf("failed to build utilization report: %w", err)
	}

	resp := dto.BudgetUtilizationResponse{
		FiscalYear: fiscalYear,
		Rows:       make([]dto.BudgetUtilizationRowResponse, 0, len(rows)),
	}
	totalAllocated, totalConsumed := decimal.Zero, decimal.Zero
	for _, row := range rows {
		remaining := row.AllocatedAmount.Sub(row.ConsumedAmount)
		resp.Rows = append(resp.Rows, dto.BudgetUtilizationRowResponse{
			BudgetID:        row.BudgetID,
			Code:            row.Code,
			Name:            row.Name,
			DivisionID:      row.DivisionID,
			AllocatedAmount: row.AllocatedAmount,
			ConsumedAmount:  row.ConsumedAmount,
			RemainingAmount: remaining,
		})
		totalAllocated = totalAllocated.Add(row.AllocatedAmount)
		totalConsumed = totalConsumed.Add(row.ConsumedAmount)
	}
	resp.Totals.Allocated = totalAllocated
	resp.Totals.Consumed = totalConsumed
	resp.Totals.Remaining = totalAllocated.Sub(totalConsumed)

	return &resp, nil
}

// DivisionSpending generates the per-division spending report for a fiscal year.
func (s *reportingService) DivisionSpending(ctx context.Context, fiscalYear int, userID string) (*dto.DivisionSpendingResponse, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetDivisionSpendingData(ctx, fiscalYear)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to build division spending report",
			slog.String("error", err.Error()), slog.Int("fiscal_year", fiscalYear))
		return nil, fmt.Errorf("failed to build division spending report: %w", err)
	}

	resp := dto.DivisionSpendingResponse{
		FiscalYear: fiscalYear,
		Rows:       make([]dto.DivisionSpendingRowResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.DivisionSpendingRowResponse{
			DivisionID:   row.DivisionID,
			DivisionName: row.DivisionName,
			TotalBudget:  row.TotalBudget,
			TotalSpent:   row.TotalSpent,
			ExpenseCount: row.ExpenseCount,
		})
	}

	return &resp, nil
}
