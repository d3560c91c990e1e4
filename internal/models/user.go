package models

import (
	"database/sql"
	"time"
)

// UserRole mirrors domain.UserRole at the storage layer.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleApprover   UserRole = "APPROVER"
	RoleStaff      UserRole = "STAFF"
	RoleViewer     UserRole = "VIEWER"
)

// User represents a row of the users table.
type User struct {
	UserID       string   `json:"userID" db:"user_id"`
	Email        string   `json:"email" db:"email"`
	Name         string   `json:"name" db:"name"`
	NameTH       string   `json:"nameTH" db:"name_th"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Role         UserRole `json:"role" db:"role"`
	DivisionID   string   `json:"divisionID" db:"division_id"`
	IsActive     bool     `json:"isActive" db:"is_active"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
