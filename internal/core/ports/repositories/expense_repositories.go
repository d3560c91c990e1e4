package repositories

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense by its unique identifier.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves a paginated list of expenses, optionally filtered
	// by budget, division and status, using token-based pagination.
	// It returns the expenses, a token for the next page, and an error.
	ListExpenses(ctx context.Context, budgetID *string, divisionID *string, status *domain.ExpenseStatus, limit int, nextToken *string) ([]domain.Expense, *string, error)

	// FindDocumentsByExpenseID retrieves the attachment records of an expense.
	FindDocumentsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseDocument, error)

	// CountExpensesByDivision returns the number of expenses owned by a division.
	CountExpensesByDivision(ctx context.Context, divisionID string) (int64, error)

	// CountExpensesByCreator returns the number of expenses created by a user.
	CountExpensesByCreator(ctx context.Context, userID string) (int64, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpenseInTx persists a new expense within the given transaction.
	// Creation always runs inside the funds-guard transaction that holds the
	// budget's row lock.
	SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error

	// UpdateExpense updates an existing expense.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpenseInTx is UpdateExpense within the given transaction, for
	// amount changes that must hold the budget's row lock.
	UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error

	// UpdateExpenseStatus sets the lifecycle status of an expense.
	UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, updatedByUserID string) error

	// UpdateExpenseStatusInTx sets the lifecycle status of an expense within
	// the given transaction.
	UpdateExpenseStatusInTx(ctx context.Context, tx pgx.Tx, expenseID string, status domain.ExpenseStatus, updatedByUserID string) error

	// DeleteExpense removes an expense row. Document records cascade.
	DeleteExpense(ctx context.Context, expenseID string) error

	// SaveDocument persists an expense attachment record.
	SaveDocument(ctx context.Context, document domain.ExpenseDocument) error

	// DeleteDocument removes an expense attachment record.
	DeleteDocument(ctx context.Context, documentID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// ExpenseRepositoryWithTx extends ExpenseRepositoryFacade with transaction capabilities
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	TransactionManager
}
