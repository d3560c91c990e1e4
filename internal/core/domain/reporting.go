package domain

import "github.com/shopspring/decimal"

// BudgetUtilizationRow is one budget's consumption figures within a fiscal
// year report. ConsumedAmount counts every expense that still holds capacity.
type BudgetUtilizationRow struct {
	BudgetID        string
	Code            string
	Name            string
	DivisionID      string
	AllocatedAmount decimal.Decimal
	ConsumedAmount  decimal.Decimal
}

// DivisionSpendingRow aggregates a division's budgets and counted expenses
// within a fiscal year.
type DivisionSpendingRow struct {
	DivisionID   string
	DivisionName string
	TotalBudget  decimal.Decimal
	TotalSpent   decimal.Decimal
	ExpenseCount int64
}
