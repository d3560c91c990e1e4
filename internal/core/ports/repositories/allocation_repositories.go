package repositories

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AllocationReader defines read operations for budget allocation data
type AllocationReader interface {
	// FindAllocationByID retrieves a specific allocation by its unique identifier.
	FindAllocationByID(ctx context.Context, allocationID string) (*domain.BudgetAllocation, error)

	// ListAllocationsByBudget retrieves a paginated list of allocations under a
	// budget using token-based pagination.
	// It returns the allocations, a token for the next page, and an error.
	ListAllocationsByBudget(ctx context.Context, budgetID string, limit int, nextToken *string) ([]domain.BudgetAllocation, *string, error)

	// SumCountedExpensesByAllocation returns the total amount of the
	// allocation's expenses that still consume capacity. When tx is non-nil the
	// sum is read within it.
	SumCountedExpensesByAllocation(ctx context.Context, tx pgx.Tx, allocationID string) (decimal.Decimal, error)

	// CountExpensesByAllocation returns the number of expenses recorded under
	// an allocation, regardless of status.
	CountExpensesByAllocation(ctx context.Context, allocationID string) (int64, error)
}

// AllocationWriter defines write operations for budget allocation data
type AllocationWriter interface {
	// SaveAllocationInTx persists a new allocation within the given transaction.
	// Creation always runs inside the funds-guard transaction that holds the
	// parent budget's row lock.
	SaveAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.BudgetAllocation) error

	// UpdateAllocation updates an existing allocation.
	UpdateAllocation(ctx context.Context, allocation domain.BudgetAllocation) error

	// UpdateAllocationInTx is UpdateAllocation within the given transaction,
	// for updates that must hold the parent budget's row lock.
	UpdateAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.BudgetAllocation) error

	// UpdateAllocationStatus sets the lifecycle status of an allocation.
	UpdateAllocationStatus(ctx context.Context, allocationID string, status domain.AllocationStatus, updatedByUserID string) error
}

// AllocationRepositoryFacade combines all allocation-related repository interfaces
type AllocationRepositoryFacade interface {
	AllocationReader
	AllocationWriter
}

// AllocationRepositoryWithTx extends AllocationRepositoryFacade with transaction capabilities
type AllocationRepositoryWithTx interface {
	AllocationRepositoryFacade
	TransactionManager
}
