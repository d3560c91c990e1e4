package accounting_test

import (
	"testing"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestBudgetRemaining(t *testing.T) {
	budget := domain.Budget{AllocatedAmount: d("5000000")}

	allocations := []domain.BudgetAllocation{
		{AllocatedAmount: d("2000000"), Status: domain.AllocationActive},
		{AllocatedAmount: d("1500000"), Status: domain.AllocationActive},
		{AllocatedAmount: d("9999999"), Status: domain.AllocationInactive}, // released
	}

	remaining := accounting.BudgetRemaining(budget, allocations)
	assert.True(t, remaining.Equal(d("1500000")), "got %s", remaining)
}

func TestAllocationRemaining(t *testing.T) {
	allocation := domain.BudgetAllocation{AllocatedAmount: d("2000000")}

	expenses := []domain.Expense{
		{Amount: d("500000"), Status: domain.ExpenseApproved},
		{Amount: d("250000.50"), Status: domain.ExpensePendingApproval},
		{Amount: d("100000"), Status: domain.ExpenseDraft},
		{Amount: d("700000"), Status: domain.ExpenseRejected},  // released
		{Amount: d("800000"), Status: domain.ExpenseCancelled}, // released
	}

	remaining := accounting.AllocationRemaining(allocation, expenses)
	assert.True(t, remaining.Equal(d("1149999.50")), "got %s", remaining)
}

func TestAvailableScenario(t *testing.T) {
	// Budget 5,000,000: allocate 2,000,000; a request for 3,500,000 must see
	// only 3,000,000 available; a request for exactly 3,000,000 fits.
	ceiling := d("5000000")

	available := accounting.Available(ceiling, d("2000000"))
	assert.True(t, available.Equal(d("3000000")))

	assert.True(t, d("3500000").GreaterThan(available))
	assert.False(t, d("3000000").GreaterThan(available))

	assert.True(t, accounting.Available(ceiling, d("5000000")).IsZero())
}

func TestSumCountedExpensesEmpty(t *testing.T) {
	assert.True(t, accounting.SumCountedExpenses(nil).IsZero())
}
