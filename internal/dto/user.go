package dto

import (
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a new user.
type CreateUserRequest struct {
	Email      string          `json:"email" binding:"required,email"`
	Name       string          `json:"name" binding:"required"`
	NameTH     string          `json:"nameTH"`
	Password   string          `json:"password" binding:"required,min=8"`
	Role       domain.UserRole `json:"role" binding:"required,oneof=SUPER_ADMIN ADMIN APPROVER STAFF VIEWER"`
	DivisionID string          `json:"divisionID" binding:"required"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name       *string          `json:"name"`
	NameTH     *string          `json:"nameTH"`
	Role       *domain.UserRole `json:"role" binding:"omitempty,oneof=SUPER_ADMIN ADMIN APPROVER STAFF VIEWER"`
	DivisionID *string          `json:"divisionID"`
	IsActive   *bool            `json:"isActive"`
}

// UserResponse defines the data returned for a user. The password and refresh
// token hashes never leave the service layer.
type UserResponse struct {
	UserID        string          `json:"userID"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	NameTH        string          `json:"nameTH"`
	Role          domain.UserRole `json:"role"`
	DivisionID    string          `json:"divisionID"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListUsersResponse wraps the list of users with the pagination token.
type ListUsersResponse struct {
	Users     []UserResponse `json:"users"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		NameTH:        u.NameTH,
		Role:          u.Role,
		DivisionID:    u.DivisionID,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		LastUpdatedAt: u.LastUpdatedAt,
	}
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUsersResponse(users []domain.User, nextToken *string) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{Users: userResponses, NextToken: nextToken}
}
