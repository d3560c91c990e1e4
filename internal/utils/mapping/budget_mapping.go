package mapping

import (
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget.
// The derived RemainingAmount is intentionally dropped; it is never persisted.
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:        d.BudgetID,
		Code:            d.Code,
		Name:            d.Name,
		NameTH:          d.NameTH,
		FiscalYear:      d.FiscalYear,
		DivisionID:      d.DivisionID,
		Category:        d.Category,
		Plan:            d.Plan,
		Output:          d.Output,
		Activity:        d.Activity,
		AllocatedAmount: d.AllocatedAmount,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		Status:          models.BudgetStatus(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget.
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:        m.BudgetID,
		Code:            m.Code,
		Name:            m.Name,
		NameTH:          m.NameTH,
		FiscalYear:      m.FiscalYear,
		DivisionID:      m.DivisionID,
		Category:        m.Category,
		Plan:            m.Plan,
		Output:          m.Output,
		Activity:        m.Activity,
		AllocatedAmount: m.AllocatedAmount,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Status:          domain.BudgetStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBudgetSlice converts a slice of model Budgets to domain Budgets.
func ToDomainBudgetSlice(ms []models.Budget) []domain.Budget {
	ds := make([]domain.Budget, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBudget(m)
	}
	return ds
}
