package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus mirrors domain.ExpenseStatus at the storage layer.
type ExpenseStatus string

const (
	ExpenseDraft           ExpenseStatus = "DRAFT"
	ExpensePendingApproval ExpenseStatus = "PENDING_APPROVAL"
	ExpenseApproved        ExpenseStatus = "APPROVED"
	ExpenseRejected        ExpenseStatus = "REJECTED"
	ExpensePaid            ExpenseStatus = "PAID"
	ExpenseCancelled       ExpenseStatus = "CANCELLED"
)

// Expense represents a row of the expenses table.
type Expense struct {
	ExpenseID     string          `json:"expenseID" db:"expense_id"`
	Code          string          `json:"code" db:"code"`
	Title         string          `json:"title" db:"title"`
	TitleTH       string          `json:"titleTH" db:"title_th"`
	Description   string          `json:"description" db:"description"`
	DescriptionTH string          `json:"descriptionTH" db:"description_th"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	ExpenseDate   time.Time       `json:"expenseDate" db:"expense_date"`
	Category      string          `json:"category" db:"category"`
	DivisionID    string          `json:"divisionID" db:"division_id"`
	BudgetID      string          `json:"budgetID" db:"budget_id"`
	AllocationID  *string         `json:"allocationID,omitempty" db:"allocation_id"`
	Status        ExpenseStatus   `json:"status" db:"status"`
	AuditFields
}

// ExpenseDocument represents a row of the expense_documents table.
type ExpenseDocument struct {
	DocumentID string    `json:"documentID" db:"document_id"`
	ExpenseID  string    `json:"expenseID" db:"expense_id"`
	FileName   string    `json:"fileName" db:"file_name"`
	FileURL    string    `json:"fileURL" db:"file_url"`
	UploadedBy string    `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
