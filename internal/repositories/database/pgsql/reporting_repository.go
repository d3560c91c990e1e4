package pgsql

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new repository for budget report data.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetBudgetUtilizationData retrieves per-budget consumption for a fiscal year.
// Consumption counts every expense that still holds capacity against its
// budget, matching the read-time remaining calculation.
func (r *reportingRepository) GetBudgetUtilizationData(ctx context.Context, fiscalYear int, divisionID *string) ([]domain.BudgetUtilizationRow, error) {
	query := `
		SELECT b.budget_id, b.code, b.name, b.division_id, b.allocated_amount,
		       COALESCE(SUM(e.amount) FILTER (WHERE e.status NOT IN ('REJECTED', 'CANCELLED')), 0) AS consumed
		FROM budgets b
		LEFT JOIN expenses e ON e.budget_id = b.budget_id
		WHERE b.fiscal_year = $1
	`
	args := []interface{}{fiscalYear}
	if divisionID != nil && *divisionID != "" {
		args = append(args, *divisionID)
		query += ` AND b.division_id = $2`
	}
	query += `
		GROUP BY b.budget_id, b.code, b.name, b.division_id, b.allocated_amount
		ORDER BY b.code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budget utilization data", err)
	}
	defer rows.Close()

	result := []domain.BudgetUtilizationRow{}
	for rows.Next() {
		var row domain.BudgetUtilizationRow
		if err := rows.Scan(
			&row.BudgetID,
			&row.Code,
			&row.Name,
			&row.DivisionID,
			&row.AllocatedAmount,
			&row.ConsumedAmount,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan budget utilization row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating budget utilization rows", err)
	}
	return result, nil
}

// GetDivisionSpendingData retrieves per-division budget and spending
// aggregates for a fiscal year.
func (r *reportingRepository) GetDivisionSpendingData(ctx context.Context, fiscalYear int) ([]domain.DivisionSpendingRow, error) {
	query := `
		SELECT d.division_id, d.name,
		       COALESCE(b.total_budget, 0) AS total_budget,
		       COALESCE(e.total_spent, 0) AS total_spent,
		       COALESCE(e.expense_count, 0) AS expense_count
		FROM divisions d
		LEFT JOIN (
			SELECT division_id, SUM(allocated_amount) AS total_budget
			FROM budgets
			WHERE fiscal_year = $1
			GROUP BY division_id
		) b ON b.division_id = d.division_id
		LEFT JOIN (
			SELECT ex.division_id, SUM(ex.amount) AS total_spent, COUNT(*) AS expense_count
			FROM expenses ex
			JOIN budgets bu ON bu.budget_id = ex.budget_id
			WHERE bu.fiscal_year = $1 AND ex.status NOT IN ('REJECTED', 'CANCELLED')
			GROUP BY ex.division_id
		) e ON e.division_id = d.division_id
		WHERE d.is_active = TRUE
		ORDER BY d.name;
	`

	rows, err := r.Pool.Query(ctx, query, fiscalYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query division spending data", err)
	}
	defer rows.Close()

	result := []domain.DivisionSpendingRow{}
	for rows.Next() {
		var row domain.DivisionSpendingRow
		if err := rows.Scan(
			&row.DivisionID,
			&row.DivisionName,
			&row.TotalBudget,
			&row.TotalSpent,
			&row.ExpenseCount,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan division spending row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating division spending rows", err)
	}
	return result, nil
}
