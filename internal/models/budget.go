package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus indicates the lifecycle state of a budget envelope.
type BudgetStatus string

const (
	BudgetActive   BudgetStatus = "ACTIVE"
	BudgetInactive BudgetStatus = "INACTIVE"
)

// Budget represents a row of the budgets table.
type Budget struct {
	BudgetID        string          `json:"budgetID" db:"budget_id"`
	Code            string          `json:"code" db:"code"`
	Name            string          `json:"name" db:"name"`
	NameTH          string          `json:"nameTH" db:"name_th"`
	FiscalYear      int             `json:"fiscalYear" db:"fiscal_year"`
	DivisionID      string          `json:"divisionID" db:"division_id"`
	Category        string          `json:"category" db:"category"`
	Plan            string          `json:"plan" db:"plan"`
	Output          string          `json:"output" db:"output"`
	Activity        string          `json:"activity" db:"activity"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount" db:"allocated_amount"`
	StartDate       time.Time       `json:"startDate" db:"start_date"`
	EndDate         time.Time       `json:"endDate" db:"end_date"`
	Status          BudgetStatus    `json:"status" db:"status"`
	AuditFields
}
