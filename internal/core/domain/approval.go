package domain

import (
	"fmt"
	"time"
)

// ApprovalType discriminates the subject of an approval.
type ApprovalType string

const (
	ApprovalTypeBudget  ApprovalType = "BUDGET"
	ApprovalTypeExpense ApprovalType = "EXPENSE"
)

// ApprovalStatus is the state of a single approver's vote.
// PENDING transitions once, to APPROVED or REJECTED; both are terminal.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ApprovalDecision is the input side of a decision.
type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "APPROVE"
	DecisionReject  ApprovalDecision = "REJECT"
)

// ApprovalSubject is a tagged union identifying what an approval is about:
// exactly one budget or one expense. Using a value type with both fields set
// makes the "neither set" row shape of the storage layer unrepresentable in
// the domain.
type ApprovalSubject struct {
	Type ApprovalType `json:"type"`
	ID   string       `json:"id"`
}

// BudgetSubject builds the subject for a budget approval round.
func BudgetSubject(budgetID string) ApprovalSubject {
	return ApprovalSubject{Type: ApprovalTypeBudget, ID: budgetID}
}

// ExpenseSubject builds the subject for an expense approval round.
func ExpenseSubject(expenseID string) ApprovalSubject {
	return ApprovalSubject{Type: ApprovalTypeExpense, ID: expenseID}
}

func (s ApprovalSubject) String() string {
	return fmt.Sprintf("%s/%s", s.Type, s.ID)
}

// Approval is one approver's pending or decided vote on a subject.
// Level is a 1-based rank in approver discovery order; it is a display and
// reporting tie-break, not a priority. An approval is immutable once decided.
type Approval struct {
	ApprovalID string          `json:"approvalID"` // Primary Key (UUID)
	Subject    ApprovalSubject `json:"subject"`
	Level      int             `json:"level"`
	ApproverID string          `json:"approverID"`
	Status     ApprovalStatus  `json:"status"`
	Comments   string          `json:"comments,omitempty"` // Required when rejecting
	DecidedAt  *time.Time      `json:"decidedAt,omitempty"`
	AuditFields
}

// AutoRejectComment is recorded on approvals that are cascade-rejected when
// a sibling approver rejects the subject. It is deliberately distinct from
// the rejecting approver's own comments.
const AutoRejectComment = "Automatically rejected: another approver rejected this request"
