package services

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense by ID.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves a paginated list of expenses.
	ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)

	// ListExpenseDocuments retrieves the attachment records of an expense.
	ListExpenseDocuments(ctx context.Context, expenseID string) ([]domain.ExpenseDocument, error)
}

// ExpenseWriterSvc defines write operations for expense data
type ExpenseWriterSvc interface {
	// CreateExpense records a new spend request in DRAFT. Fails with an
	// insufficient funds error when the amount exceeds what the budget, or the
	// allocation when one is given, has available.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)

	// UpdateExpense updates a draft expense.
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// CancelExpense cancels a draft or pending expense, releasing its amount.
	CancelExpense(ctx context.Context, expenseID string, requestingUserID string) error

	// DeleteExpense removes a draft expense and its document records.
	DeleteExpense(ctx context.Context, expenseID string, requestingUserID string) error

	// MarkExpensePaid transitions an approved expense to PAID. Requires an admin caller.
	MarkExpensePaid(ctx context.Context, expenseID string, requestingUserID string) error

	// AddExpenseDocument attaches a document record to an expense.
	AddExpenseDocument(ctx context.Context, expenseID string, req dto.AddExpenseDocumentRequest, requestingUserID string) (*domain.ExpenseDocument, error)

	// RemoveExpenseDocument removes a document record from an expense.
	RemoveExpenseDocument(ctx context.Context, expenseID string, documentID string, requestingUserID string) error
}

// ExpenseSubmissionSvc defines the approval submission operation for expenses
type ExpenseSubmissionSvc interface {
	// SubmitExpenseForApproval moves a draft expense to PENDING_APPROVAL and
	// opens an approval round, creating one pending approval per eligible
	// approver of the expense's division.
	SubmitExpenseForApproval(ctx context.Context, expenseID string, requestingUserID string) (*dto.SubmissionResponse, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	ExpenseSubmissionSvc
}
