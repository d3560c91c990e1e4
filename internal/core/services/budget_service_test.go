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

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo   *MockBudgetRepository
	mockDivisionRepo *MockDivisionRepository
	mockUserRepo     *MockUserRepository
	mockApprovals    *MockApprovalFanOut
	service          portssvc.BudgetSvcFacade
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockDivisionRepo = new(MockDivisionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockApprovals = new(MockApprovalFanOut)
	suite.service = services.NewBudgetService(
		suite.mockBudgetRepo,
		suite.mockDivisionRepo,
		suite.mockUserRepo,
		suite.mockApprovals,
	)
}

func (suite *BudgetServiceTestSuite) activeUser(role domain.UserRole) *domain.User {
	return &domain.User{UserID: uuid.NewString(), Role: role, IsActive: true}
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_Success() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	divisionID := uuid.NewString()
	staff.DivisionID = divisionID

	req := dto.CreateBudgetRequest{
		Code:            "BG-2567-001",
		Name:            "IT infrastructure",
		NameTH:          "โครงสร้างพื้นฐานไอที",
		FiscalYear:      2567,
		DivisionID:      divisionID,
		AllocatedAmount: decimal.NewFromInt(500000),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()
	suite.mockDivisionRepo.On("FindDivisionByID", ctx, divisionID).Return(&domain.Division{DivisionID: divisionID}, nil).Once()
	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Code == req.Code &&
			b.FiscalYear == 2567 &&
			b.Status == domain.BudgetActive &&
			b.AllocatedAmount.Equal(req.AllocatedAmount) &&
			b.RemainingAmount.Equal(req.AllocatedAmount) &&
			b.CreatedBy == staff.UserID
	})).Return(nil).Once()

	budget, err := suite.service.CreateBudget(ctx, req, staff.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(budget)
	// FY2567 runs Oct 1, 2023 through Sep 30, 2024.
	suite.Equal(time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC), budget.StartDate)
	suite.Equal(time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC), budget.EndDate)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_ExplicitDatesOverrideFiscalPeriod() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	divisionID := uuid.NewString()
	staff.DivisionID = divisionID
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	req := dto.CreateBudgetRequest{
		Code:            "BG-2567-002",
		Name:            "Mid-year training",
		FiscalYear:      2567,
		DivisionID:      divisionID,
		AllocatedAmount: decimal.NewFromInt(80000),
		StartDate:       &start,
		EndDate:         &end,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()
	suite.mockDivisionRepo.On("FindDivisionByID", ctx, divisionID).Return(&domain.Division{DivisionID: divisionID}, nil).Once()
	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.Anything).Return(nil).Once()

	budget, err := suite.service.CreateBudget(ctx, req, staff.UserID)

	suite.Require().NoError(err)
	suite.Equal(start, budget.StartDate)
	suite.Equal(end, budget.EndDate)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_ViewerForbidden() {
	ctx := context.Background()
	viewer := suite.activeUser(domain.RoleViewer)

	suite.mockUserRepo.On("FindUserByID", ctx, viewer.UserID).Return(viewer, nil).Once()

	budget, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		Code:            "BG-2567-003",
		Name:            "x",
		FiscalYear:      2567,
		DivisionID:      uuid.NewString(),
		AllocatedAmount: decimal.NewFromInt(100),
	}, viewer.UserID)

	suite.Require().Error(err)
	suite.Nil(budget)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_InactiveUserUnauthorized() {
	ctx := context.Background()
	user := suite.activeUser(domain.RoleStaff)
	user.IsActive = false

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	_, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		Code:            "BG-2567-004",
		Name:            "x",
		FiscalYear:      2567,
		DivisionID:      uuid.NewString(),
		AllocatedAmount: decimal.NewFromInt(100),
	}, user.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_UnknownDivision() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	divisionID := uuid.NewString()
	staff.DivisionID = divisionID

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()
	suite.mockDivisionRepo.On("FindDivisionByID", ctx, divisionID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		Code:            "BG-2567-005",
		Name:            "x",
		FiscalYear:      2567,
		DivisionID:      divisionID,
		AllocatedAmount: decimal.NewFromInt(100),
	}, staff.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_NonPositiveAmount() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	staff.DivisionID = uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()

	_, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		Code:            "BG-2567-006",
		Name:            "x",
		FiscalYear:      2567,
		DivisionID:      staff.DivisionID,
		AllocatedAmount: decimal.Zero,
	}, staff.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_CrossDivisionDenied() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	staff.DivisionID = uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()

	budget, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		Code:            "BG-2567-007",
		Name:            "Another division's budget",
		FiscalYear:      2567,
		DivisionID:      uuid.NewString(),
		AllocatedAmount: decimal.NewFromInt(100),
	}, staff.UserID)

	suite.Require().Error(err)
	suite.Nil(budget)
	suite.ErrorIs(err, apperrors.ErrAccessDenied)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_AdminMayCreateAcrossDivisions() {
	ctx := context.Background()
	admin := suite.activeUser(domain.RoleAdmin)
	admin.DivisionID = uuid.NewString()
	divisionID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockDivisionRepo.On("FindDivisionByID", ctx, divisionID).Return(&domain.Division{DivisionID: divisionID}, nil).Once()
	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.DivisionID == divisionID && b.CreatedBy == admin.UserID
	})).Return(nil).Once()

	budget, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		Code:            "BG-2567-008",
		Name:            "Central allocation",
		FiscalYear:      2567,
		DivisionID:      divisionID,
		AllocatedAmount: decimal.NewFromInt(250000),
	}, admin.UserID)

	suite.Require().NoError(err)
	suite.Equal(divisionID, budget.DivisionID)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestGetBudgetByID_ComputesRemaining() {
	ctx := context.Background()
	budgetID := uuid.NewString()
	budget := &domain.Budget{
		BudgetID:        budgetID,
		AllocatedAmount: decimal.NewFromInt(1000),
	}

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budgetID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(350), nil).Once()

	got, err := suite.service.GetBudgetByID(ctx, budgetID)

	suite.Require().NoError(err)
	suite.True(got.RemainingAmount.Equal(decimal.NewFromInt(650)), "remaining = ceiling - active allocations")
}

func (suite *BudgetServiceTestSuite) TestUpdateBudget_ShrinkBelowCommittedRefused() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	budgetID := uuid.NewString()
	newCeiling := decimal.NewFromInt(200)

	budget := &domain.Budget{
		BudgetID:        budgetID,
		AllocatedAmount: decimal.NewFromInt(1000),
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budgetID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(500), nil).Once()

	updated, err := suite.service.UpdateBudget(ctx, budgetID, dto.UpdateBudgetRequest{
		AllocatedAmount: &newCeiling,
	}, staff.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpdateBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestUpdateBudget_GrowCeiling() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	budgetID := uuid.NewString()
	newCeiling := decimal.NewFromInt(2000)
	newName := "Renamed budget"

	budget := &domain.Budget{
		BudgetID:        budgetID,
		Name:            "Old name",
		AllocatedAmount: decimal.NewFromInt(1000),
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budgetID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(500), nil).Once()
	suite.mockBudgetRepo.On("UpdateBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Name == newName &&
			b.AllocatedAmount.Equal(newCeiling) &&
			b.LastUpdatedBy == staff.UserID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateBudget(ctx, budgetID, dto.UpdateBudgetRequest{
		Name:            &newName,
		AllocatedAmount: &newCeiling,
	}, staff.UserID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestDeactivateBudget_AdminOnly() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	budgetID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()

	err := suite.service.DeactivateBudget(ctx, budgetID, staff.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestDeactivateBudget_Success() {
	ctx := context.Background()
	admin := suite.activeUser(domain.RoleAdmin)
	budgetID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockBudgetRepo.On("CountExpensesByBudget", ctx, budgetID).Return(int64(0), nil).Once()
	suite.mockBudgetRepo.On("UpdateBudgetStatus", ctx, budgetID, domain.BudgetInactive, admin.UserID).Return(nil).Once()

	err := suite.service.DeactivateBudget(ctx, budgetID, admin.UserID)

	suite.Require().NoError(err)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestDeactivateBudget_RefusedWhileOwningExpenses() {
	ctx := context.Background()
	admin := suite.activeUser(domain.RoleAdmin)
	budgetID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockBudgetRepo.On("CountExpensesByBudget", ctx, budgetID).Return(int64(4), nil).Once()

	err := suite.service.DeactivateBudget(ctx, budgetID, admin.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestSubmitBudgetForApproval_OpensRound() {
	ctx := context.Background()
	staff := suite.activeUser(domain.RoleStaff)
	budgetID := uuid.NewString()
	divisionID := uuid.NewString()
	subject := domain.BudgetSubject(budgetID)

	budget := &domain.Budget{BudgetID: budgetID, DivisionID: divisionID}
	round := []domain.Approval{
		{ApprovalID: uuid.NewString(), Subject: subject, Level: 1, Status: domain.ApprovalPending},
		{ApprovalID: uuid.NewString(), Subject: subject, Level: 2, Status: domain.ApprovalPending},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, staff.UserID).Return(staff, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budgetID).Return(budget, nil).Once()
	suite.mockApprovals.On("OpenApprovalRound", ctx, subject, divisionID, staff.UserID).Return(round, nil).Once()

	resp, err := suite.service.SubmitBudgetForApproval(ctx, budgetID, staff.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalTypeBudget, resp.SubjectType)
	suite.Equal(budgetID, resp.SubjectID)
	suite.Len(resp.Approvals, 2)
	suite.mockApprovals.AssertExpectations(suite.T())
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
