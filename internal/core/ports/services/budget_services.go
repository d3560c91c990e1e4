package services

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/dto"
)

// BudgetReaderSvc defines read operations for budget data
type BudgetReaderSvc interface {
	// GetBudgetByID retrieves a budget by ID with its remaining amount computed.
	GetBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves a paginated list of budgets.
	ListBudgets(ctx context.Context, params dto.ListBudgetsParams) (*dto.ListBudgetsResponse, error)
}

// BudgetWriterSvc defines write operations for budget data
type BudgetWriterSvc interface {
	// CreateBudget creates a new fiscal-year budget.
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)

	// UpdateBudget updates an existing budget.
	UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, requestingUserID string) (*domain.Budget, error)

	// DeactivateBudget marks a budget inactive. Requires an admin caller.
	DeactivateBudget(ctx context.Context, budgetID string, requestingUserID string) error
}

// BudgetSubmissionSvc defines the approval submission operation for budgets
type BudgetSubmissionSvc interface {
	// SubmitBudgetForApproval opens an approval round for the budget, creating
	// one pending approval per eligible approver of the budget's division.
	SubmitBudgetForApproval(ctx context.Context, budgetID string, requestingUserID string) (*dto.SubmissionResponse, error)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
	BudgetSubmissionSvc
}
