package repositories

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
)

// ReportingRepository defines operations for retrieving budget report data
type ReportingRepository interface {
	// GetBudgetUtilizationData retrieves per-budget consumption figures for a
	// fiscal year, optionally restricted to a division.
	GetBudgetUtilizationData(ctx context.Context, fiscalYear int, divisionID *string) ([]domain.BudgetUtilizationRow, error)

	// GetDivisionSpendingData retrieves per-division budget and spending
	// aggregates for a fiscal year.
	GetDivisionSpendingData(ctx context.Context, fiscalYear int) ([]domain.DivisionSpendingRow, error)
}
