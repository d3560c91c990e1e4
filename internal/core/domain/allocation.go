package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationStatus indicates whether an allocation still counts against its budget.
type AllocationStatus string

const (
	AllocationActive   AllocationStatus = "ACTIVE"
	AllocationInactive AllocationStatus = "INACTIVE"
)

// BudgetAllocation is a sub-envelope ("project") carved out of a budget's
// remaining amount. Active allocations of a budget may never sum past the
// budget's allocated amount.
type BudgetAllocation struct {
	AllocationID    string           `json:"allocationID"` // Primary Key (UUID)
	Code            string           `json:"code"`         // Unique, ALLOC-{fiscalYear}-{timestamp36}
	Name            string           `json:"name"`
	NameTH          string           `json:"nameTH"`
	Description     string           `json:"description"`
	BudgetID        string           `json:"budgetID"`
	AllocatedAmount decimal.Decimal  `json:"allocatedAmount"`
	Status          AllocationStatus `json:"status"`
	StartDate       time.Time        `json:"startDate"`
	EndDate         time.Time        `json:"endDate"`
	AuditFields

	// RemainingAmount is derived at read time from non-rejected,
	// non-cancelled expenses recorded under this allocation.
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}
