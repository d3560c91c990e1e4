package services

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/dto"
)

// ReportingService defines operations for generating budget reports
type ReportingService interface {
	// BudgetUtilization generates the per-budget consumption report for a
	// fiscal year, optionally restricted to a division.
	BudgetUtilization(ctx context.Context, fiscalYear int, divisionID *string, userID string) (*dto.BudgetUtilizationResponse, error)

	// DivisionSpending generates the per-division spending report for a fiscal year.
	DivisionSpending(ctx context.Context, fiscalYear int, userID string) (*dto.DivisionSpendingResponse, error)
}
