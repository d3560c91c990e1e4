package dto

import (
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record a spend request.
// The expense starts in DRAFT and must be submitted for approval explicitly.
type CreateExpenseRequest struct {
	Code          string          `json:"code" binding:"required"`
	Title         string          `json:"title" binding:"required"`
	TitleTH       string          `json:"titleTH"`
	Description   string          `json:"description"`
	DescriptionTH string          `json:"descriptionTH"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate   time.Time       `json:"expenseDate" binding:"required"`
	Category      string          `json:"category"`
	BudgetID      string          `json:"budgetID" binding:"required"`
	AllocationID  *string         `json:"allocationID"` // Optional, must belong to BudgetID when set
}

// UpdateExpenseRequest defines the data allowed for updating a draft expense.
type UpdateExpenseRequest struct {
	Title         *string          `json:"title"`
	TitleTH       *string          `json:"titleTH"`
	Description   *string          `json:"description"`
	DescriptionTH *string          `json:"descriptionTH"`
	Amount        *decimal.Decimal `json:"amount"`
	ExpenseDate   *time.Time       `json:"expenseDate"`
	Category      *string          `json:"category"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID     string               `json:"expenseID"`
	Code          string               `json:"code"`
	Title         string               `json:"title"`
	TitleTH       string               `json:"titleTH"`
	Description   string               `json:"description"`
	DescriptionTH string               `json:"descriptionTH"`
	Amount        decimal.Decimal      `json:"amount"`
	ExpenseDate   time.Time            `json:"expenseDate"`
	Category      string               `json:"category"`
	DivisionID    string               `json:"divisionID"`
	BudgetID      string               `json:"budgetID"`
	AllocationID  *string              `json:"allocationID,omitempty"`
	Status        domain.ExpenseStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// AddExpenseDocumentRequest defines the metadata for attaching a document.
type AddExpenseDocumentRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileURL  string `json:"fileURL" binding:"required,url"`
}

// ExpenseDocumentResponse defines the data returned for an expense attachment.
type ExpenseDocumentResponse struct {
	DocumentID string    `json:"documentID"`
	ExpenseID  string    `json:"expenseID"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileURL"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	BudgetID   *string               `form:"budgetID"`
	DivisionID *string               `form:"divisionID"`
	Status     *domain.ExpenseStatus `form:"status"`
	Limit      int                   `form:"limit,default=20"`
	NextToken  *string               `form:"nextToken"`
}

// ListExpensesResponse wraps the list of expenses with the pagination token.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		Code:          e.Code,
		Title:         e.Title,
		TitleTH:       e.TitleTH,
		Description:   e.Description,
		DescriptionTH: e.DescriptionTH,
		Amount:        e.Amount,
		ExpenseDate:   e.ExpenseDate,
		Category:      e.Category,
		DivisionID:    e.DivisionID,
		BudgetID:      e.BudgetID,
		AllocationID:  e.AllocationID,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
}

// ToListExpensesResponse converts a slice of domain.Expense to ListExpensesResponse DTO
func ToListExpensesResponse(expenses []domain.Expense, nextToken *string) ListExpensesResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		res[i] = ToExpenseResponse(&e)
	}
	return ListExpensesResponse{Expenses: res, NextToken: nextToken}
}

// ToExpenseDocumentResponse converts a domain.ExpenseDocument to ExpenseDocumentResponse DTO
func ToExpenseDocumentResponse(d *domain.ExpenseDocument) ExpenseDocumentResponse {
	return ExpenseDocumentResponse{
		DocumentID: d.DocumentID,
		ExpenseID:  d.ExpenseID,
		FileName:   d.FileName,
		FileURL:    d.FileURL,
		UploadedBy: d.UploadedBy,
		CreatedAt:  d.CreatedAt,
	}
}

// ToExpenseDocumentResponses converts a slice of domain.ExpenseDocument to []ExpenseDocumentResponse.
func ToExpenseDocumentResponses(docs []domain.ExpenseDocument) []ExpenseDocumentResponse {
	responses := make([]ExpenseDocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = ToExpenseDocumentResponse(&d)
	}
	return responses
}
