package accounting

import (
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Ledger arithmetic shared by services and repositories. All computations are
// pure and re-derived on every read; remaining amounts are never cached.

// SumActiveAllocations totals the allocated amounts of ACTIVE allocations.
// Inactive allocations release their share of the budget.
func SumActiveAllocations(allocations []domain.BudgetAllocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocations {
		if a.Status == domain.AllocationActive {
			sum = sum.Add(a.AllocatedAmount)
		}
	}
	return sum
}

// SumCountedExpenses totals expense amounts that still consume budget
// capacity, i.e. everything except REJECTED and CANCELLED expenses.
func SumCountedExpenses(expenses []domain.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		if e.Status.CountsAgainstBudget() {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// BudgetRemaining computes a budget's uncommitted amount:
// allocatedAmount minus the sum of its active allocations.
func BudgetRemaining(budget domain.Budget, allocations []domain.BudgetAllocation) decimal.Decimal {
	return budget.AllocatedAmount.Sub(SumActiveAllocations(allocations))
}

// AllocationRemaining computes an allocation's unspent amount:
// allocatedAmount minus the counted expenses recorded under it.
func AllocationRemaining(allocation domain.BudgetAllocation, expenses []domain.Expense) decimal.Decimal {
	return allocation.AllocatedAmount.Sub(SumCountedExpenses(expenses))
}

// Available computes how much of a ceiling is left after competing
// commitments. Both the allocation guard and the expense guard reduce to this.
func Available(ceiling, consumed decimal.Decimal) decimal.Decimal {
	return ceiling.Sub(consumed)
}
