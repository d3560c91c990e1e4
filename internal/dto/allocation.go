package dto

import (
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAllocationRequest defines the data needed to carve an allocation out
// of a budget. The budget is identified in the URL path; the allocation code
// is generated server side.
type CreateAllocationRequest struct {
	Name            string          `json:"name" binding:"required"`
	NameTH          string          `json:"nameTH"`
	Description     string          `json:"description"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount" binding:"required"`
	StartDate       *time.Time      `json:"startDate"`
	EndDate         *time.Time      `json:"endDate"`
}

// UpdateAllocationRequest defines the data allowed for updating an allocation.
type UpdateAllocationRequest struct {
	Name            *string                  `json:"name"`
	NameTH          *string                  `json:"nameTH"`
	Description     *string                  `json:"description"`
	AllocatedAmount *decimal.Decimal         `json:"allocatedAmount"`
	Status          *domain.AllocationStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	StartDate       *time.Time               `json:"startDate"`
	EndDate         *time.Time               `json:"endDate"`
}

// AllocationResponse defines the data returned for a budget allocation.
// RemainingAmount is computed at read time from counted expenses.
type AllocationResponse struct {
	AllocationID    string                  `json:"allocationID"`
	Code            string                  `json:"code"`
	Name            string                  `json:"name"`
	NameTH          string                  `json:"nameTH"`
	Description     string                  `json:"description"`
	BudgetID        string                  `json:"budgetID"`
	AllocatedAmount decimal.Decimal         `json:"allocatedAmount"`
	RemainingAmount decimal.Decimal         `json:"remainingAmount"`
	Status          domain.AllocationStatus `json:"status"`
	StartDate       time.Time               `json:"startDate"`
	EndDate         time.Time               `json:"endDate"`
	CreatedAt       time.Time               `json:"createdAt"`
	CreatedBy       string                  `json:"createdBy"`
	LastUpdatedAt   time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy   string                  `json:"lastUpdatedBy"`
}

// ListAllocationsParams defines query parameters for listing allocations.
type ListAllocationsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListAllocationsResponse wraps the list of allocations with the pagination token.
type ListAllocationsResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// ToAllocationResponse converts a domain.BudgetAllocation to AllocationResponse DTO
func ToAllocationResponse(a *domain.BudgetAllocation) AllocationResponse {
	return AllocationResponse{
		AllocationID:    a.AllocationID,
		Code:            a.Code,
		Name:            a.Name,
		NameTH:          a.NameTH,
		Description:     a.Description,
		BudgetID:        a.BudgetID,
		AllocatedAmount: a.AllocatedAmount,
		RemainingAmount: a.RemainingAmount,
		Status:          a.Status,
		StartDate:       a.StartDate,
		EndDate:         a.EndDate,
		CreatedAt:       a.CreatedAt,
		CreatedBy:       a.CreatedBy,
		LastUpdatedAt:   a.LastUpdatedAt,
		LastUpdatedBy:   a.LastUpdatedBy,
	}
}

// ToListAllocationsResponse converts a slice of domain.BudgetAllocation to ListAllocationsResponse DTO
func ToListAllocationsResponse(allocations []domain.BudgetAllocation, nextToken *string) ListAllocationsResponse {
	res := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		res[i] = ToAllocationResponse(&a)
	}
	return ListAllocationsResponse{Allocations: res, NextToken: nextToken}
}
