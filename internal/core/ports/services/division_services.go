package services

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/dto"
)

// DivisionReaderSvc defines read operations for division data
type DivisionReaderSvc interface {
	// GetDivisionByID retrieves a division by ID.
	GetDivisionByID(ctx context.Context, divisionID string) (*domain.Division, error)

	// ListDivisions retrieves a paginated list of divisions.
	ListDivisions(ctx context.Context, params dto.ListDivisionsParams) (*dto.ListDivisionsResponse, error)
}

// DivisionWriterSvc defines write operations for division data
type DivisionWriterSvc interface {
	// CreateDivision creates a new division. Requires an admin caller.
	CreateDivision(ctx context.Context, req dto.CreateDivisionRequest, creatorUserID string) (*domain.Division, error)

	// UpdateDivision updates an existing division. Requires an admin caller.
	UpdateDivision(ctx context.Context, divisionID string, req dto.UpdateDivisionRequest, requestingUserID string) (*domain.Division, error)

	// DeleteDivision removes a division. Requires an admin caller and is
	// refused while the division still owns users, budgets or expenses.
	DeleteDivision(ctx context.Context, divisionID string, requestingUserID string) error
}

// DivisionSvcFacade combines all division-related service interfaces
type DivisionSvcFacade interface {
	DivisionReaderSvc
	DivisionWriterSvc
}
