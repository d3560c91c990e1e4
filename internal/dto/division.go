package dto

import (
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
)

// CreateDivisionRequest defines the data needed to create a new division.
type CreateDivisionRequest struct {
	Name   string `json:"name" binding:"required"`
	NameTH string `json:"nameTH"`
}

// UpdateDivisionRequest defines the data allowed for updating a division.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateDivisionRequest struct {
	Name     *string `json:"name"`
	NameTH   *string `json:"nameTH"`
	IsActive *bool   `json:"isActive"`
}

// DivisionResponse defines the data returned for a division.
type DivisionResponse struct {
	DivisionID    string    `json:"divisionID"`
	Name          string    `json:"name"`
	NameTH        string    `json:"nameTH"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ListDivisionsParams defines query parameters for listing divisions.
type ListDivisionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListDivisionsResponse wraps the list of divisions with the pagination token.
type ListDivisionsResponse struct {
	Divisions []DivisionResponse `json:"divisions"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDivisionResponse converts a domain.Division to DivisionResponse DTO
func ToDivisionResponse(d *domain.Division) DivisionResponse {
	return DivisionResponse{
		DivisionID:    d.DivisionID,
		Name:          d.Name,
		NameTH:        d.NameTH,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToListDivisionsResponse converts a slice of domain.Division to ListDivisionsResponse DTO
func ToListDivisionsResponse(divisions []domain.Division, nextToken *string) ListDivisionsResponse {
	res := make([]DivisionResponse, len(divisions))
	for i, d := range divisions {
		res[i] = ToDivisionResponse(&d)
	}
	return ListDivisionsResponse{Divisions: res, NextToken: nextToken}
}
