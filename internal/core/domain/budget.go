package domain

import (
	"github.com/shopspring/decimal"
	"time"
)

// BudgetStatus indicates the lifecycle state of a budget envelope.
type BudgetStatus string

const (
	BudgetActive   BudgetStatus = "ACTIVE"
	BudgetInactive BudgetStatus = "INACTIVE"
)

// Budget is a fiscal-year funding envelope owned by a division.
// FiscalYear is in the Buddhist calendar (Gregorian = FiscalYear - 543);
// the funding period runs Oct 1 through Sep 30 of the corresponding
// Gregorian fiscal year.
type Budget struct {
	BudgetID        string          `json:"budgetID"` // Primary Key (UUID)
	Code            string          `json:"code"`     // Unique
	Name            string          `json:"name"`
	NameTH          string          `json:"nameTH"`
	FiscalYear      int             `json:"fiscalYear"`
	DivisionID      string          `json:"divisionID"`
	Category        string          `json:"category"`
	Plan            string          `json:"plan"`
	Output          string          `json:"output"`
	Activity        string          `json:"activity"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"` // Authoritative ceiling
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Status          BudgetStatus    `json:"status"`
	AuditFields

	// RemainingAmount is derived at read time from active allocations.
	// It is never persisted.
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}
