package repositories

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByID retrieves a specific budget by its unique identifier.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// FindBudgetByIDForUpdate retrieves a budget within a transaction, taking a
	// row lock so that concurrent consumption checks serialize on the budget.
	FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves a paginated list of budgets, optionally filtered by
	// fiscal year and division, using token-based pagination.
	// It returns the budgets, a token for the next page, and an error.
	ListBudgets(ctx context.Context, fiscalYear *int, divisionID *string, limit int, nextToken *string) ([]domain.Budget, *string, error)

	// SumActiveAllocations returns the total allocated amount of the budget's
	// active allocations. When tx is non-nil the sum is read within it.
	SumActiveAllocations(ctx context.Context, tx pgx.Tx, budgetID string) (decimal.Decimal, error)

	// SumCountedExpenses returns the total amount of the budget's expenses that
	// still consume capacity (all statuses except REJECTED and CANCELLED).
	// When tx is non-nil the sum is read within it.
	SumCountedExpenses(ctx context.Context, tx pgx.Tx, budgetID string) (decimal.Decimal, error)

	// CountExpensesByBudget returns the number of expenses recorded against a
	// budget, regardless of status.
	CountExpensesByBudget(ctx context.Context, budgetID string) (int64, error)

	// CountBudgetsByDivision returns the number of budgets owned by a division.
	CountBudgetsByDivision(ctx context.Context, divisionID string) (int64, error)

	// CountBudgetsByCreator returns the number of budgets created by a user.
	CountBudgetsByCreator(ctx context.Context, userID string) (int64, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudget updates an existing budget.
	UpdateBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudgetStatus sets the lifecycle status of a budget.
	UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, updatedByUserID string) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}

// BudgetRepositoryWithTx extends BudgetRepositoryFacade with transaction capabilities
type BudgetRepositoryWithTx interface {
	BudgetRepositoryFacade
	TransactionManager
}
