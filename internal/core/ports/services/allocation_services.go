package services

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/dto"
)

// AllocationReaderSvc defines read operations for budget allocation data
type AllocationReaderSvc interface {
	// GetAllocationByID retrieves an allocation by ID with its remaining amount computed.
	GetAllocationByID(ctx context.Context, allocationID string) (*domain.BudgetAllocation, error)

	// ListAllocationsByBudget retrieves a paginated list of a budget's allocations.
	ListAllocationsByBudget(ctx context.Context, budgetID string, params dto.ListAllocationsParams) (*dto.ListAllocationsResponse, error)
}

// AllocationWriterSvc defines write operations for budget allocation data
type AllocationWriterSvc interface {
	// CreateAllocation carves a new allocation out of the budget's remaining
	// amount. Fails with an insufficient funds error when the requested amount
	// exceeds what active allocations leave available.
	CreateAllocation(ctx context.Context, budgetID string, req dto.CreateAllocationRequest, creatorUserID string) (*domain.BudgetAllocation, error)

	// UpdateAllocation updates an existing allocation. Amount changes and
	// reactivations re-run the funds check against the parent budget.
	UpdateAllocation(ctx context.Context, allocationID string, req dto.UpdateAllocationRequest, requestingUserID string) (*domain.BudgetAllocation, error)

	// DeactivateAllocation retires an allocation that owns no expenses.
	// Requires an admin caller.
	DeactivateAllocation(ctx context.Context, allocationID string, requestingUserID string) error
}

// AllocationSvcFacade combines all allocation-related service interfaces
type AllocationSvcFacade interface {
	AllocationReaderSvc
	AllocationWriterSvc
}
