package services_test

import (
	"context"
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTxManager provides the transaction methods shared by the repository
// mocks. Begin returns a nil pgx.Tx, which the services pass through to the
// InTx methods untouched.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	MockTxManager
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return users, token, args.Error(2)
}

func (m *MockUserRepository) FindEligibleApprovers(ctx context.Context, divisionID string) ([]domain.User, error) {
	args := m.Called(ctx, divisionID)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CountUsersByDivision(ctx context.Context, divisionID string) (int64, error) {
	args := m.Called(ctx, divisionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedByUserID string, deletedAt time.Time) error {
	args := m.Called(ctx, userID, deletedByUserID, deletedAt)
	return args.Error(0)
}

// --- Mock DivisionRepository ---

type MockDivisionRepository struct {
	MockTxManager
}

func (m *MockDivisionRepository) FindDivisionByID(ctx context.Context, divisionID string) (*domain.Division, error) {
	args := m.Called(ctx, divisionID)
	var division *domain.Division
	if args.Get(0) != nil {
		division = args.Get(0).(*domain.Division)
	}
	return division, args.Error(1)
}

func (m *MockDivisionRepository) ListDivisions(ctx context.Context, limit int, nextToken *string) ([]domain.Division, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var divisions []domain.Division
	if args.Get(0) != nil {
		divisions = args.Get(0).([]domain.Division)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return divisions, token, args.Error(2)
}

func (m *MockDivisionRepository) SaveDivision(ctx context.Context, division domain.Division) error {
	args := m.Called(ctx, division)
	return args.Error(0)
}

func (m *MockDivisionRepository) UpdateDivision(ctx context.Context, division domain.Division) error {
	args := m.Called(ctx, division)
	return args.Error(0)
}

func (m *MockDivisionRepository) DeleteDivision(ctx context.Context, divisionID string) error {
	args := m.Called(ctx, divisionID)
	return args.Error(0)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	MockTxManager
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	var budget *domain.Budget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.Budget)
	}
	return budget, args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, tx, budgetID)
	var budget *domain.Budget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.Budget)
	}
	return budget, args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, fiscalYear *int, divisionID *string, limit int, nextToken *string) ([]domain.Budget, *string, error) {
	args := m.Called(ctx, fiscalYear, divisionID, limit, nextToken)
	var budgets []domain.Budget
	if args.Get(0) != nil {
		budgets = args.Get(0).([]domain.Budget)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return budgets, token, args.Error(2)
}

func (m *MockBudgetRepository) SumActiveAllocations(ctx context.Context, tx pgx.Tx, budgetID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, budgetID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) SumCountedExpenses(ctx context.Context, tx pgx.Tx, budgetID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, budgetID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) CountExpensesByBudget(ctx context.Context, budgetID string) (int64, error) {
	args := m.Called(ctx, budgetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) CountBudgetsByDivision(ctx context.Context, divisionID string) (int64, error) {
	args := m.Called(ctx, divisionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) CountBudgetsByCreator(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, updatedByUserID string) error {
	args := m.Called(ctx, budgetID, status, updatedByUserID)
	return args.Error(0)
}

// --- Mock AllocationRepository ---

type MockAllocationRepository struct {
	MockTxManager
}

func (m *MockAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.BudgetAllocation, error) {
	args := m.Called(ctx, allocationID)
	var allocation *domain.BudgetAllocation
	if args.Get(0) != nil {
		allocation = args.Get(0).(*domain.BudgetAllocation)
	}
	return allocation, args.Error(1)
}

func (m *MockAllocationRepository) ListAllocationsByBudget(ctx context.Context, budgetID string, limit int, nextToken *string) ([]domain.BudgetAllocation, *string, error) {
	args := m.Called(ctx, budgetID, limit, nextToken)
	var allocations []domain.BudgetAllocation
	if args.Get(0) != nil {
		allocations = args.Get(0).([]domain.BudgetAllocation)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return allocations, token, args.Error(2)
}

func (m *MockAllocationRepository) SumCountedExpensesByAllocation(ctx context.Context, tx pgx.Tx, allocationID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, allocationID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAllocationRepository) CountExpensesByAllocation(ctx context.Context, allocationID string) (int64, error) {
	args := m.Called(ctx, allocationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocationRepository) SaveAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.BudgetAllocation) error {
	args := m.Called(ctx, tx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) UpdateAllocation(ctx context.Context, allocation domain.BudgetAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) UpdateAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.BudgetAllocation) error {
	args := m.Called(ctx, tx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) UpdateAllocationStatus(ctx context.Context, allocationID string, status domain.AllocationStatus, updatedByUserID string) error {
	args := m.Called(ctx, allocationID, status, updatedByUserID)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	MockTxManager
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, budgetID *string, divisionID *string, status *domain.ExpenseStatus, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := m.Called(ctx, budgetID, divisionID, status, limit, nextToken)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return expenses, token, args.Error(2)
}

func (m *MockExpenseRepository) FindDocumentsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseDocument, error) {
	args := m.Called(ctx, expenseID)
	var documents []domain.ExpenseDocument
	if args.Get(0) != nil {
		documents = args.Get(0).([]domain.ExpenseDocument)
	}
	return documents, args.Error(1)
}

func (m *MockExpenseRepository) CountExpensesByDivision(ctx context.Context, divisionID string) (int64, error) {
	args := m.Called(ctx, divisionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) CountExpensesByCreator(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	args := m.Called(ctx, tx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	args := m.Called(ctx, tx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, updatedByUserID string) error {
	args := m.Called(ctx, expenseID, status, updatedByUserID)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseStatusInTx(ctx context.Context, tx pgx.Tx, expenseID string, status domain.ExpenseStatus, updatedByUserID string) error {
	args := m.Called(ctx, tx, expenseID, status, updatedByUserID)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveDocument(ctx context.Context, document domain.ExpenseDocument) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

// --- Mock ApprovalRepository ---

type MockApprovalRepository struct {
	MockTxManager
}

func (m *MockApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	args := m.Called(ctx, approvalID)
	var approval *domain.Approval
	if args.Get(0) != nil {
		approval = args.Get(0).(*domain.Approval)
	}
	return approval, args.Error(1)
}

func (m *MockApprovalRepository) ListApprovalsForSubject(ctx context.Context, subject domain.ApprovalSubject) ([]domain.Approval, error) {
	args := m.Called(ctx, subject)
	var approvals []domain.Approval
	if args.Get(0) != nil {
		approvals = args.Get(0).([]domain.Approval)
	}
	return approvals, args.Error(1)
}

func (m *MockApprovalRepository) ListApprovalsByApprover(ctx context.Context, approverID string, status *domain.ApprovalStatus, limit int, nextToken *string) ([]domain.Approval, *string, error) {
	args := m.Called(ctx, approverID, status, limit, nextToken)
	var approvals []domain.Approval
	if args.Get(0) != nil {
		approvals = args.Get(0).([]domain.Approval)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return approvals, token, args.Error(2)
}

func (m *MockApprovalRepository) FindApprovalsForSubjectForUpdate(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject) ([]domain.Approval, error) {
	args := m.Called(ctx, tx, subject)
	var approvals []domain.Approval
	if args.Get(0) != nil {
		approvals = args.Get(0).([]domain.Approval)
	}
	return approvals, args.Error(1)
}

func (m *MockApprovalRepository) SaveApprovalsInTx(ctx context.Context, tx pgx.Tx, approvals []domain.Approval) error {
	args := m.Called(ctx, tx, approvals)
	return args.Error(0)
}

func (m *MockApprovalRepository) UpdateApprovalInTx(ctx context.Context, tx pgx.Tx, approval domain.Approval) error {
	args := m.Called(ctx, tx, approval)
	return args.Error(0)
}

func (m *MockApprovalRepository) BulkRejectPendingInTx(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject, comment string, decidedByUserID string) ([]string, error) {
	args := m.Called(ctx, tx, subject, comment, decidedByUserID)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	MockTxManager
}

func (m *MockNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, nextToken)
	var notifications []domain.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]domain.Notification)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return notifications, token, args.Error(2)
}

func (m *MockNotificationRepository) CountUnreadByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) SaveNotificationsInTx(ctx context.Context, tx pgx.Tx, notifications []domain.Notification) error {
	args := m.Called(ctx, tx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock ApprovalFanOut (submission flows) ---

type MockApprovalFanOut struct {
	mock.Mock
}

func (m *MockApprovalFanOut) OpenApprovalRound(ctx context.Context, subject domain.ApprovalSubject, divisionID string, requestingUserID string) ([]domain.Approval, error) {
	args := m.Called(ctx, subject, divisionID, requestingUserID)
	var approvals []domain.Approval
	if args.Get(0) != nil {
		approvals = args.Get(0).([]domain.Approval)
	}
	return approvals, args.Error(1)
}

func (m *MockApprovalFanOut) OpenApprovalRoundInTx(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject, divisionID string, requestingUserID string) ([]domain.Approval, error) {
	args := m.Called(ctx, tx, subject, divisionID, requestingUserID)
	var approvals []domain.Approval
	if args.Get(0) != nil {
		approvals = args.Get(0).([]domain.Approval)
	}
	return approvals, args.Error(1)
}
