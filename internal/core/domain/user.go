package domain

import "time"

// UserRole defines the privilege tier of a user.
// SUPER_ADMIN and ADMIN share most administrative capabilities; SUPER_ADMIN
// additionally performs destructive operations. The ordering is not total:
// APPROVER is not a superset of STAFF, it adds approval rights instead.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleApprover   UserRole = "APPROVER"
	RoleStaff      UserRole = "STAFF"
	RoleViewer     UserRole = "VIEWER"
)

// IsAdmin reports whether the role carries administrative capabilities.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// CanApprove reports whether the role makes its holder an eligible approver.
func (r UserRole) CanApprove() bool {
	return r == RoleApprover || r == RoleAdmin || r == RoleSuperAdmin
}

// CanCreateBudgetRecords reports whether the role may create budgets,
// allocations and expenses. Viewers are read-only.
func (r UserRole) CanCreateBudgetRecords() bool {
	return r != RoleViewer && r != ""
}

// User represents an actor in the system.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Email        string   `json:"email"`  // Unique
	Name         string   `json:"name"`
	NameTH       string   `json:"nameTH"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	DivisionID   string   `json:"divisionID"`
	IsActive     bool     `json:"isActive"`
	AuditFields
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty"`
}
