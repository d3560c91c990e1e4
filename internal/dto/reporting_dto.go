package dto

import (
	"github.com/shopspring/decimal"
)

// BudgetUtilizationRowResponse represents one budget's consumption figures in
// a utilization report.
type BudgetUtilizationRowResponse struct {
	BudgetID        string          `json:"budgetID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	DivisionID      string          `json:"divisionID"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	ConsumedAmount  decimal.Decimal `json:"consumedAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// BudgetUtilizationResponse represents the fiscal-year utilization report.
type BudgetUtilizationResponse struct {
	FiscalYear int                            `json:"fiscalYear"`
	Rows       []BudgetUtilizationRowResponse `json:"rows"`
	Totals     struct {
		Allocated decimal.Decimal `json:"allocated"`
		Consumed  decimal.Decimal `json:"consumed"`
		Remaining decimal.Decimal `json:"remaining"`
	} `json:"totals"`
}

// DivisionSpendingRowResponse represents one division's spending in a
// division spending report.
type DivisionSpendingRowResponse struct {
	DivisionID   string          `json:"divisionID"`
	DivisionName string          `json:"divisionName"`
	TotalBudget  decimal.Decimal `json:"totalBudget"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	ExpenseCount int64           `json:"expenseCount"`
}

// DivisionSpendingResponse represents the per-division spending report.
type DivisionSpendingResponse struct {
	FiscalYear int                           `json:"fiscalYear"`
	Rows       []DivisionSpendingRowResponse `json:"rows"`
}
