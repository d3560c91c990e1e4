package models

import "time"

// ApprovalType discriminates the subject of an approval row.
type ApprovalType string

const (
	ApprovalTypeBudget  ApprovalType = "BUDGET"
	ApprovalTypeExpense ApprovalType = "EXPENSE"
)

// ApprovalStatus mirrors domain.ApprovalStatus at the storage layer.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Approval represents a row of the approvals table. The table keeps the
// discriminated nullable pair (budget_id xor expense_id, enforced by a CHECK
// constraint); the domain layer converts it to a tagged union.
type Approval struct {
	ApprovalID  string         `json:"approvalID" db:"approval_id"`
	Type        ApprovalType   `json:"type" db:"approval_type"`
	ReferenceID string         `json:"referenceID" db:"reference_id"`
	BudgetID    *string        `json:"budgetID,omitempty" db:"budget_id"`
	ExpenseID   *string        `json:"expenseID,omitempty" db:"expense_id"`
	Level       int            `json:"level" db:"level"`
	ApproverID  string         `json:"approverID" db:"approver_id"`
	Status      ApprovalStatus `json:"status" db:"status"`
	Comments    string         `json:"comments" db:"comments"`
	DecidedAt   *time.Time     `json:"decidedAt,omitempty" db:"decided_at"`
	AuditFields
}
