package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates the lifecycle state of a spend request.
type ExpenseStatus string

const (
	ExpenseDraft           ExpenseStatus = "DRAFT"
	ExpensePendingApproval ExpenseStatus = "PENDING_APPROVAL"
	ExpenseApproved        ExpenseStatus = "APPROVED"
	ExpenseRejected        ExpenseStatus = "REJECTED"
	ExpensePaid            ExpenseStatus = "PAID"
	ExpenseCancelled       ExpenseStatus = "CANCELLED"
)

// CountsAgainstBudget reports whether an expense in this status consumes
// budget capacity. Rejected and cancelled expenses release their amount.
func (s ExpenseStatus) CountsAgainstBudget() bool {
	return s != ExpenseRejected && s != ExpenseCancelled
}

// Expense is a concrete spend request against a budget, either directly or
// via the allocation it was created under.
type Expense struct {
	ExpenseID     string          `json:"expenseID"` // Primary Key (UUID)
	Code          string          `json:"code"`      // Unique
	Title         string          `json:"title"`
	TitleTH       string          `json:"titleTH"`
	Description   string          `json:"description"`
	DescriptionTH string          `json:"descriptionTH"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   time.Time       `json:"expenseDate"`
	Category      string          `json:"category"`
	DivisionID    string          `json:"divisionID"`
	BudgetID      string          `json:"budgetID"`
	AllocationID  *string         `json:"allocationID,omitempty"` // Set when created under an allocation
	Status        ExpenseStatus   `json:"status"`
	AuditFields
}

// ExpenseDocument is an attachment record for an expense. Only metadata is
// kept here; file storage is handled elsewhere.
type ExpenseDocument struct {
	DocumentID string    `json:"documentID"`
	ExpenseID  string    `json:"expenseID"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileURL"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
