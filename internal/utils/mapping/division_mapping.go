package mapping

import (
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/models"
)

func ToModelDivision(d domain.Division) models.Division {
	return models.Division{
		DivisionID:  d.DivisionID,
		Name:        d.Name,
		NameTH:      d.NameTH,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainDivision(m models.Division) domain.Division {
	return domain.Division{
		DivisionID:  m.DivisionID,
		Name:        m.Name,
		NameTH:      m.NameTH,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
