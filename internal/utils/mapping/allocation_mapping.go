package mapping

import (
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/models"
)

func ToModelAllocation(d domain.BudgetAllocation) models.BudgetAllocation {
	return models.BudgetAllocation{
		AllocationID:    d.AllocationID,
		Code:            d.Code,
		Name:            d.Name,
		NameTH:          d.NameTH,
		Description:     d.Description,
		BudgetID:        d.BudgetID,
		AllocatedAmount: d.AllocatedAmount,
		Status:          models.AllocationStatus(d.Status),
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainAllocation(m models.BudgetAllocation) domain.BudgetAllocation {
	return domain.BudgetAllocation{
		AllocationID:    m.AllocationID,
		Code:            m.Code,
		Name:            m.Name,
		NameTH:          m.NameTH,
		Description:     m.Description,
		BudgetID:        m.BudgetID,
		AllocatedAmount: m.AllocatedAmount,
		Status:          domain.AllocationStatus(m.Status),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainAllocationSlice(ms []models.BudgetAllocation) []domain.BudgetAllocation {
	ds := make([]domain.BudgetAllocation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAllocation(m)
	}
	return ds
}
