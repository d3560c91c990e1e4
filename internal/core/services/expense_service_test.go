package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/core/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo    *MockExpenseRepository
	mockBudgetRepo     *MockBudgetRepository
	mockAllocationRepo *MockAllocationRepository
	mockApprovalRepo   *MockApprovalRepository
	mockUserRepo       *MockUserRepository
	mockApprovals      *MockApprovalFanOut
	service            portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockAllocationRepo = new(MockAllocationRepository)
	suite.mockApprovalRepo = new(MockApprovalRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockApprovals = new(MockApprovalFanOut)
	suite.service = services.NewExpenseService(
		suite.mockExpenseRepo,
		suite.mockBudgetRepo,
		suite.mockAllocationRepo,
		suite.mockApprovalRepo,
		suite.mockUserRepo,
		suite.mockApprovals,
	)
}

func (suite *ExpenseServiceTestSuite) expectUser(userID string, role domain.UserRole) {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, userID).
		Return(&domain.User{UserID: userID, Role: role, IsActive: true}, nil).Once()
}

func (suite *ExpenseServiceTestSuite) expectBudgetTx() {
	suite.mockBudgetRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockBudgetRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockBudgetRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *ExpenseServiceTestSuite) expectExpenseTx() {
	suite.mockExpenseRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockExpenseRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func createRequest(budgetID string, amount int64) dto.CreateExpenseRequest {
	return dto.CreateExpenseRequest{
		Code:        "EXP-2567-001",
		Title:       "Projector rental",
		Amount:      decimal.NewFromInt(amount),
		ExpenseDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		BudgetID:    budgetID,
	}
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()
	budget := activeBudget(budgetID, 1000)
	budget.DivisionID = uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("SumCountedExpenses", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(400), nil).Once()
	suite.mockExpenseRepo.On("SaveExpenseInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ExpenseDraft &&
			e.BudgetID == budgetID &&
			e.DivisionID == budget.DivisionID &&
			e.Amount.Equal(decimal.NewFromInt(500)) &&
			e.CreatedBy == userID
	})).Return(nil).Once()

	expense, err := suite.service.CreateExpense(ctx, createRequest(budgetID, 500), userID)

	suite.Require().NoError(err)
	// The division comes from the budget, not the request.
	suite.Equal(budget.DivisionID, expense.DivisionID)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_InsufficientFunds() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumCountedExpenses", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(900), nil).Once()

	expense, err := suite.service.CreateExpense(ctx, createRequest(budgetID, 500), userID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpenseInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_AllocationFromAnotherBudget() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()
	allocationID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumCountedExpenses", ctx, mock.Anything, budgetID).Return(decimal.Zero, nil).Once()
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(&domain.BudgetAllocation{
		AllocationID: allocationID,
		BudgetID:     uuid.NewString(),
		Status:       domain.AllocationActive,
	}, nil).Once()

	req := createRequest(budgetID, 100)
	req.AllocationID = &allocationID

	_, err := suite.service.CreateExpense(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_AllocationEnvelopeExceeded() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()
	allocationID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumCountedExpenses", ctx, mock.Anything, budgetID).Return(decimal.Zero, nil).Once()
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(&domain.BudgetAllocation{
		AllocationID:    allocationID,
		BudgetID:        budgetID,
		AllocatedAmount: decimal.NewFromInt(200),
		Status:          domain.AllocationActive,
	}, nil).Once()
	suite.mockAllocationRepo.On("SumCountedExpensesByAllocation", ctx, mock.Anything, allocationID).Return(decimal.NewFromInt(150), nil).Once()

	req := createRequest(budgetID, 100)
	req.AllocationID = &allocationID

	// The budget has plenty left but the allocation envelope does not.
	_, err := suite.service.CreateExpense(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_InactiveAllocation() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()
	allocationID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumCountedExpenses", ctx, mock.Anything, budgetID).Return(decimal.Zero, nil).Once()
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(&domain.BudgetAllocation{
		AllocationID: allocationID,
		BudgetID:     budgetID,
		Status:       domain.AllocationInactive,
	}, nil).Once()

	req := createRequest(budgetID, 100)
	req.AllocationID = &allocationID

	_, err := suite.service.CreateExpense(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_StrangerDenied() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID:   expenseID,
		Status:      domain.ExpenseDraft,
		AuditFields: domain.AuditFields{CreatedBy: uuid.NewString()},
	}, nil).Once()

	newTitle := "Renamed"
	_, err := suite.service.UpdateExpense(ctx, expenseID, dto.UpdateExpenseRequest{Title: &newTitle}, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccessDenied)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_ApprovedFrozenForCreator() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID:   expenseID,
		Status:      domain.ExpenseApproved,
		AuditFields: domain.AuditFields{CreatedBy: userID},
	}, nil).Once()

	newTitle := "Renamed"
	_, err := suite.service.UpdateExpense(ctx, expenseID, dto.UpdateExpenseRequest{Title: &newTitle}, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_AdminMayEditApproved() {
	ctx := context.Background()
	adminID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(adminID, domain.RoleAdmin)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID:   expenseID,
		Amount:      decimal.NewFromInt(300),
		Status:      domain.ExpenseApproved,
		AuditFields: domain.AuditFields{CreatedBy: uuid.NewString()},
	}, nil).Once()
	newTitle := "Corrected invoice reference"
	suite.mockExpenseRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Title == newTitle && e.LastUpdatedBy == adminID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateExpense(ctx, expenseID, dto.UpdateExpenseRequest{Title: &newTitle}, adminID)

	suite.Require().NoError(err)
	suite.Equal(newTitle, updated.Title)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_GrowingAmountRechecksFunds() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()
	budgetID := uuid.NewString()
	grown := decimal.NewFromInt(700)

	draft := &domain.Expense{
		ExpenseID:   expenseID,
		BudgetID:    budgetID,
		Amount:      decimal.NewFromInt(300),
		Status:      domain.ExpenseDraft,
		AuditFields: domain.AuditFields{CreatedBy: userID},
	}

	stored := *draft

	suite.expectUser(userID, domain.RoleStaff)
	// First read for the edit, second read inside the lock for the stored amount.
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(draft, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&stored, nil).Once()
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumCountedExpenses", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(600), nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Amount.Equal(grown)
	})).Return(nil).Once()

	// consumed 600 includes the stored 300, so 700 fits under the 1000 ceiling.
	updated, err := suite.service.UpdateExpense(ctx, expenseID, dto.UpdateExpenseRequest{Amount: &grown}, userID)

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(grown))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_ShrinkingAmountSkipsFundsCheck() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()
	shrunk := decimal.NewFromInt(100)

	draft := &domain.Expense{
		ExpenseID:   expenseID,
		BudgetID:    uuid.NewString(),
		Amount:      decimal.NewFromInt(300),
		Status:      domain.ExpenseDraft,
		AuditFields: domain.AuditFields{CreatedBy: userID},
	}

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(draft, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpense", ctx, mock.Anything).Return(nil).Once()

	updated, err := suite.service.UpdateExpense(ctx, expenseID, dto.UpdateExpenseRequest{Amount: &shrunk}, userID)

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(shrunk))
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_OpensRoundInTx() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()
	divisionID := uuid.NewString()
	subject := domain.ExpenseSubject(expenseID)

	draft := &domain.Expense{
		ExpenseID:  expenseID,
		DivisionID: divisionID,
		Status:     domain.ExpenseDraft,
	}
	round := []domain.Approval{
		{ApprovalID: uuid.NewString(), Subject: subject, Level: 1, Status: domain.ApprovalPending},
	}

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(draft, nil).Once()
	suite.expectExpenseTx()
	suite.mockExpenseRepo.On("UpdateExpenseStatusInTx", ctx, mock.Anything, expenseID, domain.ExpensePendingApproval, userID).Return(nil).Once()
	suite.mockApprovals.On("OpenApprovalRoundInTx", ctx, mock.Anything, subject, divisionID, userID).Return(round, nil).Once()

	resp, err := suite.service.SubmitExpenseForApproval(ctx, expenseID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalTypeExpense, resp.SubjectType)
	suite.Len(resp.Approvals, 1)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockApprovals.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_NonDraftRefused() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID: expenseID,
		Status:    domain.ExpenseApproved,
	}, nil).Once()

	resp, err := suite.service.SubmitExpenseForApproval(ctx, expenseID, userID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockApprovals.AssertNotCalled(suite.T(), "OpenApprovalRoundInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCancelExpense_StrangerDenied() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	expense := &domain.Expense{ExpenseID: expenseID, Status: domain.ExpenseDraft}
	expense.CreatedBy = uuid.NewString()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(expense, nil).Once()

	err := suite.service.CancelExpense(ctx, expenseID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccessDenied)
}

func (suite *ExpenseServiceTestSuite) TestCancelExpense_AdminMayCancelOthers() {
	ctx := context.Background()
	adminID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(adminID, domain.RoleAdmin)
	expense := &domain.Expense{ExpenseID: expenseID, Status: domain.ExpenseDraft}
	expense.CreatedBy = uuid.NewString()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(expense, nil).Once()
	suite.expectExpenseTx()
	suite.mockExpenseRepo.On("UpdateExpenseStatusInTx", ctx, mock.Anything, expenseID, domain.ExpenseCancelled, adminID).Return(nil).Once()

	err := suite.service.CancelExpense(ctx, expenseID, adminID)

	suite.Require().NoError(err)
	// Draft cancellation has no round to close.
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "BulkRejectPendingInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCancelExpense_PendingClosesRound() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()
	subject := domain.ExpenseSubject(expenseID)

	suite.expectUser(userID, domain.RoleStaff)
	expense := &domain.Expense{ExpenseID: expenseID, Status: domain.ExpensePendingApproval}
	expense.CreatedBy = userID
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(expense, nil).Once()
	suite.expectExpenseTx()
	suite.mockExpenseRepo.On("UpdateExpenseStatusInTx", ctx, mock.Anything, expenseID, domain.ExpenseCancelled, userID).Return(nil).Once()
	suite.mockApprovalRepo.On("BulkRejectPendingInTx", ctx, mock.Anything, subject, mock.MatchedBy(func(comment string) bool {
		return comment != domain.AutoRejectComment && comment != ""
	}), userID).Return([]string{uuid.NewString()}, nil).Once()

	err := suite.service.CancelExpense(ctx, expenseID, userID)

	suite.Require().NoError(err)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCancelExpense_PaidRefused() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	expense := &domain.Expense{ExpenseID: expenseID, Status: domain.ExpensePaid}
	expense.CreatedBy = userID
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(expense, nil).Once()

	err := suite.service.CancelExpense(ctx, expenseID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *ExpenseServiceTestSuite) TestMarkExpensePaid_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(adminID, domain.RoleAdmin)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID: expenseID,
		Status:    domain.ExpenseApproved,
	}, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseStatus", ctx, expenseID, domain.ExpensePaid, adminID).Return(nil).Once()

	err := suite.service.MarkExpensePaid(ctx, expenseID, adminID)

	suite.Require().NoError(err)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestMarkExpensePaid_NotApproved() {
	ctx := context.Background()
	adminID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(adminID, domain.RoleAdmin)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID: expenseID,
		Status:    domain.ExpensePendingApproval,
	}, nil).Once()

	err := suite.service.MarkExpensePaid(ctx, expenseID, adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *ExpenseServiceTestSuite) TestMarkExpensePaid_NonAdminForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.expectUser(userID, domain.RoleApprover)

	err := suite.service.MarkExpensePaid(ctx, uuid.NewString(), userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ExpenseServiceTestSuite) TestRemoveExpenseDocument_UnknownDocument() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindDocumentsByExpenseID", ctx, expenseID).Return([]domain.ExpenseDocument{
		{DocumentID: uuid.NewString(), ExpenseID: expenseID},
	}, nil).Once()

	err := suite.service.RemoveExpenseDocument(ctx, expenseID, uuid.NewString(), userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "DeleteDocument", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_DraftByCreator() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID:   expenseID,
		Status:      domain.ExpenseDraft,
		AuditFields: domain.AuditFields{CreatedBy: userID},
	}, nil).Once()
	suite.mockExpenseRepo.On("DeleteExpense", ctx, expenseID).Return(nil).Once()

	err := suite.service.DeleteExpense(ctx, expenseID, userID)

	suite.Require().NoError(err)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_NonDraftRefused() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID:   expenseID,
		Status:      domain.ExpensePendingApproval,
		AuditFields: domain.AuditFields{CreatedBy: userID},
	}, nil).Once()

	err := suite.service.DeleteExpense(ctx, expenseID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_StrangerDenied() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.expectUser(userID, domain.RoleStaff)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&domain.Expense{
		ExpenseID:   expenseID,
		Status:      domain.ExpenseDraft,
		AuditFields: domain.AuditFields{CreatedBy: uuid.NewString()},
	}, nil).Once()

	err := suite.service.DeleteExpense(ctx, expenseID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccessDenied)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
