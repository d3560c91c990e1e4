package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetgov/budget_management_app/internal/models"
	"github.com/budgetgov/budget_management_app/internal/utils/mapping"
	"github.com/budgetgov/budget_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const budgetColumns = `budget_id, code, name, name_th, fiscal_year, division_id, category,
	plan, output, activity, allocated_amount, start_date, end_date, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryWithTx {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BudgetRepositoryWithTx = (*PgxBudgetRepository)(nil)

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.Code,
		&m.Name,
		&m.NameTH,
		&m.FiscalYear,
		&m.DivisionID,
		&m.Category,
		&m.Plan,
		&m.Output,
		&m.Activity,
		&m.AllocatedAmount,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindBudgetByID retrieves a budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find budget by ID "+budgetID, err)
	}
	b := mapping.ToDomainBudget(*m)
	return &b, nil
}

// FindBudgetByIDForUpdate retrieves a budget within tx, holding a row lock
// until the transaction ends. Every funds check runs behind this lock so
// concurrent consumers of the same budget serialize.
func (r *PgxBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1 FOR UPDATE;`
	m, err := scanBudget(tx.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock budget "+budgetID, err)
	}
	b := mapping.ToDomainBudget(*m)
	return &b, nil
}

// ListBudgets retrieves a paginated list of budgets using token-based pagination.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, fiscalYear *int, divisionID *string, limit int, nextToken *string) ([]domain.Budget, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE 1=1`
	args := []interface{}{}

	if fiscalYear != nil {
		args = append(args, *fiscalYear)
		query += ` AND fiscal_year = $` + strconv.Itoa(len(args))
	}
	if divisionID != nil && *divisionID != "" {
		args = append(args, *divisionID)
		query += ` AND division_id = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, budget_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, budget_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query budgets", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		m, scanErr := scanBudget(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan budget row", scanErr)
		}
		budgets = append(budgets, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating budget rows", err)
	}

	var newNextToken *string
	if len(budgets) > limit {
		budgets = budgets[:limit]
		last := budgets[len(budgets)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.BudgetID)
		newNextToken = &token
	}

	return mapping.ToDomainBudgetSlice(budgets), newNextToken, nil
}

// SumActiveAllocations returns the total allocated amount of the budget's
// active allocations, inside tx when one is given.
func (r *PgxBudgetRepository) SumActiveAllocations(ctx context.Context, tx pgx.Tx, budgetID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(allocated_amount), 0)
		FROM budget_allocations
		WHERE budget_id = $1 AND status = 'ACTIVE';
	`
	var total decimal.Decimal
	if err := r.querierOrPool(tx).QueryRow(ctx, query, budgetID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum allocations for budget "+budgetID, err)
	}
	return total, nil
}

// SumCountedExpenses returns the total amount of the budget's expenses that
// still consume capacity, inside tx when one is given.
func (r *PgxBudgetRepository) SumCountedExpenses(ctx context.Context, tx pgx.Tx, budgetID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE budget_id = $1 AND status NOT IN ('REJECTED', 'CANCELLED');
	`
	var total decimal.Decimal
	if err := r.querierOrPool(tx).QueryRow(ctx, query, budgetID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum expenses for budget "+budgetID, err)
	}
	return total, nil
}

// CountExpensesByBudget returns the number of expenses recorded against a budget.
func (r *PgxBudgetRepository) CountExpensesByBudget(ctx context.Context, budgetID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM expenses WHERE budget_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, budgetID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count expenses for budget "+budgetID, err)
	}
	return count, nil
}

// CountBudgetsByDivision returns the number of budgets owned by a division.
func (r *PgxBudgetRepository) CountBudgetsByDivision(ctx context.Context, divisionID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM budgets WHERE division_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, divisionID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count budgets for division "+divisionID, err)
	}
	return count, nil
}

// CountBudgetsByCreator returns the number of budgets created by a user.
func (r *PgxBudgetRepository) CountBudgetsByCreator(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM budgets WHERE created_by = $1;`
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count budgets for user "+userID, err)
	}
	return count, nil
}

// SaveBudget persists a new budget.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	query := `
		INSERT INTO budgets (budget_id, code, name, name_th, fiscal_year, division_id, category,
		                     plan, output, activity, allocated_amount, start_date, end_date, status,
		                     created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BudgetID,
		m.Code,
		m.Name,
		m.NameTH,
		m.FiscalYear,
		m.DivisionID,
		m.Category,
		m.Plan,
		m.Output,
		m.Activity,
		m.AllocatedAmount,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: budget with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return apperrors.NewAppError(500, "failed to insert budget "+m.BudgetID, err)
	}
	return nil
}

// UpdateBudget updates an existing budget.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	query := `
		UPDATE budgets
		SET name = $2, name_th = $3, category = $4, plan = $5, output = $6, activity = $7,
		    allocated_amount = $8, start_date = $9, end_date = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE budget_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.BudgetID,
		m.Name,
		m.NameTH,
		m.Category,
		m.Plan,
		m.Output,
		m.Activity,
		m.AllocatedAmount,
		m.StartDate,
		m.EndDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update budget "+m.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateBudgetStatus sets the lifecycle status of a budget.
func (r *PgxBudgetRepository) UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, updatedByUserID string) error {
	query := `
		UPDATE budgets
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE budget_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, budgetID, models.BudgetStatus(status), time.Now().UTC(), updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of budget "+budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
