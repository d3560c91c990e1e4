package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationStatus mirrors domain.AllocationStatus at the storage layer.
type AllocationStatus string

const (
	AllocationActive   AllocationStatus = "ACTIVE"
	AllocationInactive AllocationStatus = "INACTIVE"
)

// BudgetAllocation represents a row of the budget_allocations table.
type BudgetAllocation struct {
	AllocationID    string           `json:"allocationID" db:"allocation_id"`
	Code            string           `json:"code" db:"code"`
	Name            string           `json:"name" db:"name"`
	NameTH          string           `json:"nameTH" db:"name_th"`
	Description     string           `json:"description" db:"description"`
	BudgetID        string           `json:"budgetID" db:"budget_id"`
	AllocatedAmount decimal.Decimal  `json:"allocatedAmount" db:"allocated_amount"`
	Status          AllocationStatus `json:"status" db:"status"`
	StartDate       time.Time        `json:"startDate" db:"start_date"`
	EndDate         time.Time        `json:"endDate" db:"end_date"`
	AuditFields
}
