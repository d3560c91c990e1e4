package mapping

import (
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/models"
)

func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:     d.ExpenseID,
		Code:          d.Code,
		Title:         d.Title,
		TitleTH:       d.TitleTH,
		Description:   d.Description,
		DescriptionTH: d.DescriptionTH,
		Amount:        d.Amount,
		ExpenseDate:   d.ExpenseDate,
		Category:      d.Category,
		DivisionID:    d.DivisionID,
		BudgetID:      d.BudgetID,
		AllocationID:  d.AllocationID,
		Status:        models.ExpenseStatus(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:     m.ExpenseID,
		Code:          m.Code,
		Title:         m.Title,
		TitleTH:       m.TitleTH,
		Description:   m.Description,
		DescriptionTH: m.DescriptionTH,
		Amount:        m.Amount,
		ExpenseDate:   m.ExpenseDate,
		Category:      m.Category,
		DivisionID:    m.DivisionID,
		BudgetID:      m.BudgetID,
		AllocationID:  m.AllocationID,
		Status:        domain.ExpenseStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}

func ToModelExpenseDocument(d domain.ExpenseDocument) models.ExpenseDocument {
	return models.ExpenseDocument{
		DocumentID: d.DocumentID,
		ExpenseID:  d.ExpenseID,
		FileName:   d.FileName,
		FileURL:    d.FileURL,
		UploadedBy: d.UploadedBy,
		CreatedAt:  d.CreatedAt,
	}
}

func ToDomainExpenseDocument(m models.ExpenseDocument) domain.ExpenseDocument {
	return domain.ExpenseDocument{
		DocumentID: m.DocumentID,
		ExpenseID:  m.ExpenseID,
		FileName:   m.FileName,
		FileURL:    m.FileURL,
		UploadedBy: m.UploadedBy,
		CreatedAt:  m.CreatedAt,
	}
}
