package repositories

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
)

// DivisionReader defines read operations for division data
type DivisionReader interface {
	// FindDivisionByID retrieves a specific division by its unique identifier.
	FindDivisionByID(ctx context.Context, divisionID string) (*domain.Division, error)

	// ListDivisions retrieves a paginated list of divisions using token-based pagination.
	// It returns the divisions, a token for the next page, and an error.
	ListDivisions(ctx context.Context, limit int, nextToken *string) ([]domain.Division, *string, error)
}

// DivisionWriter defines write operations for division data
type DivisionWriter interface {
	// SaveDivision persists a new division.
	SaveDivision(ctx context.Context, division domain.Division) error

	// UpdateDivision updates an existing division.
	UpdateDivision(ctx context.Context, division domain.Division) error

	// DeleteDivision removes a division. Callers must first verify the
	// division owns no users, budgets or expenses.
	DeleteDivision(ctx context.Context, divisionID string) error
}

// DivisionRepositoryFacade combines all division-related repository interfaces
type DivisionRepositoryFacade interface {
	DivisionReader
	DivisionWriter
}

// DivisionRepositoryWithTx extends DivisionRepositoryFacade with transaction capabilities
type DivisionRepositoryWithTx interface {
	DivisionRepositoryFacade
	TransactionManager
}
