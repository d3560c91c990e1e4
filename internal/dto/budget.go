package dto

import (
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a new budget.
// FiscalYear is in the Buddhist calendar (e.g. 2567 for FY2024).
type CreateBudgetRequest struct {
	Code            string          `json:"code" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	NameTH          string          `json:"nameTH"`
	FiscalYear      int             `json:"fiscalYear" binding:"required,min=2500,max=2700"`
	DivisionID      string          `json:"divisionID" binding:"required"`
	Category        string          `json:"category"`
	Plan            string          `json:"plan"`
	Output          string          `json:"output"`
	Activity        string          `json:"activity"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount" binding:"required"`
	StartDate       *time.Time      `json:"startDate"` // Defaults to the fiscal year period when omitted
	EndDate         *time.Time      `json:"endDate"`
}

// UpdateBudgetRequest defines the data allowed for updating a budget.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateBudgetRequest struct {
	Name            *string          `json:"name"`
	NameTH          *string          `json:"nameTH"`
	Category        *string          `json:"category"`
	Plan            *string          `json:"plan"`
	Output          *string          `json:"output"`
	Activity        *string          `json:"activity"`
	AllocatedAmount *decimal.Decimal `json:"allocatedAmount"`
	StartDate       *time.Time       `json:"startDate"`
	EndDate         *time.Time       `json:"endDate"`
}

// BudgetResponse defines the data returned for a budget.
// RemainingAmount is computed at read time from active allocations.
type BudgetResponse struct {
	BudgetID        string              `json:"budgetID"`
	Code            string              `json:"code"`
	Name            string              `json:"name"`
	NameTH          string              `json:"nameTH"`
	FiscalYear      int                 `json:"fiscalYear"`
	DivisionID      string              `json:"divisionID"`
	Category        string              `json:"category"`
	Plan            string              `json:"plan"`
	Output          string              `json:"output"`
	Activity        string              `json:"activity"`
	AllocatedAmount decimal.Decimal     `json:"allocatedAmount"`
	RemainingAmount decimal.Decimal     `json:"remainingAmount"`
	StartDate       time.Time           `json:"startDate"`
	EndDate         time.Time           `json:"endDate"`
	Status          domain.BudgetStatus `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy"`
	LastUpdatedAt   time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy   string              `json:"lastUpdatedBy"`
}

// ListBudgetsParams defines query parameters for listing budgets.
type ListBudgetsParams struct {
	FiscalYear *int    `form:"fiscalYear"`
	DivisionID *string `form:"divisionID"`
	Limit      int     `form:"limit,default=20"`
	NextToken  *string `form:"nextToken"`
}

// ListBudgetsResponse wraps the list of budgets with the pagination token.
type ListBudgetsResponse struct {
	Budgets   []BudgetResponse `json:"budgets"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:        b.BudgetID,
		Code:            b.Code,
		Name:            b.Name,
		NameTH:          b.NameTH,
		FiscalYear:      b.FiscalYear,
		DivisionID:      b.DivisionID,
		Category:        b.Category,
		Plan:            b.Plan,
		Output:          b.Output,
		Activity:        b.Activity,
		AllocatedAmount: b.AllocatedAmount,
		RemainingAmount: b.RemainingAmount,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
		CreatedBy:       b.CreatedBy,
		LastUpdatedAt:   b.LastUpdatedAt,
		LastUpdatedBy:   b.LastUpdatedBy,
	}
}

// ToListBudgetsResponse converts a slice of domain.Budget to ListBudgetsResponse DTO
func ToListBudgetsResponse(budgets []domain.Budget, nextToken *string) ListBudgetsResponse {
	res := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		res[i] = ToBudgetResponse(&b)
	}
	return ListBudgetsResponse{Budgets: res, NextToken: nextToken}
}
