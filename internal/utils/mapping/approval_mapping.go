package mapping

import (
	"fmt"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/models"
)

// ToModelApproval converts a domain Approval to its row shape, expanding the
// subject tagged union into the discriminated nullable pair.
func ToModelApproval(d domain.Approval) models.Approval {
	m := models.Approval{
		ApprovalID:  d.ApprovalID,
		Type:        models.ApprovalType(d.Subject.Type),
		ReferenceID: d.Subject.ID,
		Level:       d.Level,
		ApproverID:  d.ApproverID,
		Status:      models.ApprovalStatus(d.Status),
		Comments:    d.Comments,
		DecidedAt:   d.DecidedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	refID := d.Subject.ID
	switch d.Subject.Type {
	case domain.ApprovalTypeBudget:
		m.BudgetID = &refID
	case domain.ApprovalTypeExpense:
		m.ExpenseID = &refID
	}
	return m
}

// ToDomainApproval converts a model Approval to a domain Approval, collapsing
// the nullable pair back into the subject tagged union. Rows with neither or
// both foreign keys set are rejected; the CHECK constraint should make this
// unreachable.
func ToDomainApproval(m models.Approval) (domain.Approval, error) {
	var subject domain.ApprovalSubject
	switch {
	case m.BudgetID != nil && m.ExpenseID == nil:
		subject = domain.BudgetSubject(*m.BudgetID)
	case m.ExpenseID != nil && m.BudgetID == nil:
		subject = domain.ExpenseSubject(*m.ExpenseID)
	default:
		return domain.Approval{}, fmt.Errorf("approval %s has inconsistent subject references", m.ApprovalID)
	}

	return domain.Approval{
		ApprovalID:  m.ApprovalID,
		Subject:     subject,
		Level:       m.Level,
		ApproverID:  m.ApproverID,
		Status:      domain.ApprovalStatus(m.Status),
		Comments:    m.Comments,
		DecidedAt:   m.DecidedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainApprovalSlice converts model Approvals to domain Approvals,
// failing on the first inconsistent row.
func ToDomainApprovalSlice(ms []models.Approval) ([]domain.Approval, error) {
	ds := make([]domain.Approval, len(ms))
	for i, m := range ms {
		d, err := ToDomainApproval(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
