package services_test

import (
	"context"
	"strings"
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

type AllocationServiceTestSuite struct {
	suite.Suite
	mockAllocationRepo *MockAllocationRepository
	mockBudgetRepo     *MockBudgetRepository
	mockUserRepo       *MockUserRepository
	service            portssvc.AllocationSvcFacade
}

func (suite *AllocationServiceTestSuite) SetupTest() {
	suite.mockAllocationRepo = new(MockAllocationRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAllocationService(
		suite.mockAllocationRepo,
		suite.mockBudgetRepo,
		suite.mockUserRepo,
	)
}

func (suite *AllocationServiceTestSuite) expectStaff(userID string) {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, userID).
		Return(&domain.User{UserID: userID, Role: domain.RoleStaff, IsActive: true}, nil).Once()
}

func (suite *AllocationServiceTestSuite) expectBudgetTx() {
	suite.mockBudgetRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockBudgetRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockBudgetRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func activeBudget(budgetID string, ceiling int64) *domain.Budget {
	return &domain.Budget{
		BudgetID:        budgetID,
		FiscalYear:      2567,
		AllocatedAmount: decimal.NewFromInt(ceiling),
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
		Status:          domain.BudgetActive,
	}
}

func (suite *AllocationServiceTestSuite) TestCreateAllocation_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()
	budget := activeBudget(budgetID, 1000)

	suite.expectStaff(userID)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(400), nil).Once()
	suite.mockAllocationRepo.On("SaveAllocationInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.BudgetAllocation) bool {
		return a.BudgetID == budgetID &&
			a.Status == domain.AllocationActive &&
			a.AllocatedAmount.Equal(decimal.NewFromInt(600)) &&
			strings.HasPrefix(a.Code, "ALLOC-2567-")
	})).Return(nil).Once()

	allocation, err := suite.service.CreateAllocation(ctx, budgetID, dto.CreateAllocationRequest{
		Name:            "Training materials",
		AllocatedAmount: decimal.NewFromInt(600),
	}, userID)

	suite.Require().NoError(err)
	// Dates default to the budget's funding period.
	suite.Equal(budget.StartDate, allocation.StartDate)
	suite.Equal(budget.EndDate, allocation.EndDate)
	suite.mockAllocationRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestCreateAllocation_InsufficientFunds() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()

	suite.expectStaff(userID)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(800), nil).Once()

	allocation, err := suite.service.CreateAllocation(ctx, budgetID, dto.CreateAllocationRequest{
		Name:            "Too large",
		AllocatedAmount: decimal.NewFromInt(300),
	}, userID)

	suite.Require().Error(err)
	suite.Nil(allocation)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Contains(err.Error(), "requested 300 but only 200 available")
	suite.mockAllocationRepo.AssertNotCalled(suite.T(), "SaveAllocationInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestCreateAllocation_InactiveBudget() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()
	budget := activeBudget(budgetID, 1000)
	budget.Status = domain.BudgetInactive

	suite.expectStaff(userID)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(budget, nil).Once()

	_, err := suite.service.CreateAllocation(ctx, budgetID, dto.CreateAllocationRequest{
		Name:            "x",
		AllocatedAmount: decimal.NewFromInt(100),
	}, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *AllocationServiceTestSuite) TestCreateAllocation_ExactRemainingAllowed() {
	ctx := context.Background()
	userID := uuid.NewString()
	budgetID := uuid.NewString()

	suite.expectStaff(userID)
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(800), nil).Once()
	suite.mockAllocationRepo.On("SaveAllocationInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	allocation, err := suite.service.CreateAllocation(ctx, budgetID, dto.CreateAllocationRequest{
		Name:            "Exactly the rest",
		AllocatedAmount: decimal.NewFromInt(200),
	}, userID)

	suite.Require().NoError(err)
	suite.True(allocation.RemainingAmount.Equal(decimal.NewFromInt(200)))
}

func (suite *AllocationServiceTestSuite) TestGetAllocationByID_ComputesRemaining() {
	ctx := context.Background()
	allocationID := uuid.NewString()
	allocation := &domain.BudgetAllocation{
		AllocationID:    allocationID,
		AllocatedAmount: decimal.NewFromInt(500),
	}

	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(allocation, nil).Once()
	suite.mockAllocationRepo.On("SumCountedExpensesByAllocation", ctx, mock.Anything, allocationID).Return(decimal.NewFromInt(120), nil).Once()

	got, err := suite.service.GetAllocationByID(ctx, allocationID)

	suite.Require().NoError(err)
	suite.True(got.RemainingAmount.Equal(decimal.NewFromInt(380)))
}

func (suite *AllocationServiceTestSuite) TestUpdateAllocation_PlainUpdateSkipsFundsCheck() {
	ctx := context.Background()
	userID := uuid.NewString()
	allocationID := uuid.NewString()
	newName := "Renamed"

	allocation := &domain.BudgetAllocation{
		AllocationID:    allocationID,
		BudgetID:        uuid.NewString(),
		Name:            "Old",
		AllocatedAmount: decimal.NewFromInt(500),
		Status:          domain.AllocationActive,
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.expectStaff(userID)
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(allocation, nil).Once()
	suite.mockAllocationRepo.On("UpdateAllocation", ctx, mock.MatchedBy(func(a domain.BudgetAllocation) bool {
		return a.Name == newName && a.LastUpdatedBy == userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAllocation(ctx, allocationID, dto.UpdateAllocationRequest{
		Name: &newName,
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestUpdateAllocation_ReactivationRerunsFundsCheck() {
	ctx := context.Background()
	userID := uuid.NewString()
	allocationID := uuid.NewString()
	budgetID := uuid.NewString()
	active := domain.AllocationActive

	allocation := &domain.BudgetAllocation{
		AllocationID:    allocationID,
		BudgetID:        budgetID,
		AllocatedAmount: decimal.NewFromInt(300),
		Status:          domain.AllocationInactive,
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.expectStaff(userID)
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(allocation, nil).Once()
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(600), nil).Once()
	suite.mockAllocationRepo.On("UpdateAllocationInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.BudgetAllocation) bool {
		return a.Status == domain.AllocationActive
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAllocation(ctx, allocationID, dto.UpdateAllocationRequest{
		Status: &active,
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.AllocationActive, updated.Status)
	suite.mockAllocationRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestUpdateAllocation_ReactivationInsufficientFunds() {
	ctx := context.Background()
	userID := uuid.NewString()
	allocationID := uuid.NewString()
	budgetID := uuid.NewString()
	active := domain.AllocationActive

	allocation := &domain.BudgetAllocation{
		AllocationID:    allocationID,
		BudgetID:        budgetID,
		AllocatedAmount: decimal.NewFromInt(300),
		Status:          domain.AllocationInactive,
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.expectStaff(userID)
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(allocation, nil).Once()
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(900), nil).Once()

	updated, err := suite.service.UpdateAllocation(ctx, allocationID, dto.UpdateAllocationRequest{
		Status: &active,
	}, userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockAllocationRepo.AssertNotCalled(suite.T(), "UpdateAllocationInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestUpdateAllocation_AmountGrowthRerunsFundsCheck() {
	ctx := context.Background()
	userID := uuid.NewString()
	allocationID := uuid.NewString()
	budgetID := uuid.NewString()
	grown := decimal.NewFromInt(450)

	allocation := &domain.BudgetAllocation{
		AllocationID:    allocationID,
		BudgetID:        budgetID,
		AllocatedAmount: decimal.NewFromInt(300),
		Status:          domain.AllocationActive,
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.expectStaff(userID)
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(allocation, nil).Once()
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	// The sum includes the allocation's own stored 300, which the check
	// excludes before comparing against the new amount.
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(800), nil).Once()
	suite.mockAllocationRepo.On("UpdateAllocationInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.BudgetAllocation) bool {
		return a.AllocatedAmount.Equal(grown)
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAllocation(ctx, allocationID, dto.UpdateAllocationRequest{
		AllocatedAmount: &grown,
	}, userID)

	suite.Require().NoError(err)
	suite.True(updated.AllocatedAmount.Equal(grown))
	suite.mockAllocationRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestUpdateAllocation_AmountGrowthInsufficientFunds() {
	ctx := context.Background()
	userID := uuid.NewString()
	allocationID := uuid.NewString()
	budgetID := uuid.NewString()
	grown := decimal.NewFromInt(450)

	allocation := &domain.BudgetAllocation{
		AllocationID:    allocationID,
		BudgetID:        budgetID,
		AllocatedAmount: decimal.NewFromInt(300),
		Status:          domain.AllocationActive,
		StartDate:       time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.expectStaff(userID)
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).Return(allocation, nil).Once()
	suite.expectBudgetTx()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", ctx, mock.Anything, budgetID).Return(activeBudget(budgetID, 1000), nil).Once()
	suite.mockBudgetRepo.On("SumActiveAllocations", ctx, mock.Anything, budgetID).Return(decimal.NewFromInt(900), nil).Once()

	updated, err := suite.service.UpdateAllocation(ctx, allocationID, dto.UpdateAllocationRequest{
		AllocatedAmount: &grown,
	}, userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockAllocationRepo.AssertNotCalled(suite.T(), "UpdateAllocationInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestDeactivateAllocation_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	allocationID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", mock.Anything, adminID).
		Return(&domain.User{UserID: adminID, Role: domain.RoleAdmin, IsActive: true}, nil).Once()
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).
		Return(&domain.BudgetAllocation{AllocationID: allocationID, Status: domain.AllocationActive}, nil).Once()
	suite.mockAllocationRepo.On("CountExpensesByAllocation", ctx, allocationID).Return(int64(0), nil).Once()
	suite.mockAllocationRepo.On("UpdateAllocationStatus", ctx, allocationID, domain.AllocationInactive, adminID).Return(nil).Once()

	err := suite.service.DeactivateAllocation(ctx, allocationID, adminID)

	suite.Require().NoError(err)
	suite.mockAllocationRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestDeactivateAllocation_RefusedWhileOwningExpenses() {
	ctx := context.Background()
	adminID := uuid.NewString()
	allocationID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", mock.Anything, adminID).
		Return(&domain.User{UserID: adminID, Role: domain.RoleAdmin, IsActive: true}, nil).Once()
	suite.mockAllocationRepo.On("FindAllocationByID", ctx, allocationID).
		Return(&domain.BudgetAllocation{AllocationID: allocationID, Status: domain.AllocationActive}, nil).Once()
	suite.mockAllocationRepo.On("CountExpensesByAllocation", ctx, allocationID).Return(int64(2), nil).Once()

	err := suite.service.DeactivateAllocation(ctx, allocationID, adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAllocationRepo.AssertNotCalled(suite.T(), "UpdateAllocationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAllocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
