package services_test

import (
	"context"
	"testing"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/core/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/budgetgov/budget_management_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo     *MockUserRepository
	mockDivisionRepo *MockDivisionRepository
	mockBudgetRepo   *MockBudgetRepository
	mockExpenseRepo  *MockExpenseRepository
	service          portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockDivisionRepo = new(MockDivisionRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockDivisionRepo, suite.mockBudgetRepo, suite.mockExpenseRepo)
}

func (suite *UserServiceTestSuite) expectActor(role domain.UserRole) string {
	actorID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, actorID).
		Return(&domain.User{UserID: actorID, Role: role, IsActive: true}, nil).Once()
	return actorID
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	adminID := suite.expectActor(domain.RoleAdmin)
	divisionID := uuid.NewString()

	req := dto.CreateUserRequest{
		Email:      "somchai@example.go.th",
		Name:       "Somchai",
		NameTH:     "สมชาย",
		Password:   "correct horse battery",
		Role:       domain.RoleStaff,
		DivisionID: divisionID,
	}

	suite.mockDivisionRepo.On("FindDivisionByID", ctx, divisionID).Return(&domain.Division{DivisionID: divisionID}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email &&
			u.Role == domain.RoleStaff &&
			u.IsActive &&
			u.PasswordHash != "" &&
			u.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req, adminID)

	suite.Require().NoError(err)
	suite.Equal(req.Email, user.Email)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_NonAdminForbidden() {
	ctx := context.Background()
	staffID := suite.expectActor(domain.RoleStaff)

	user, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{
		Email:      "new@example.go.th",
		Name:       "New",
		Password:   "password123",
		Role:       domain.RoleStaff,
		DivisionID: uuid.NewString(),
	}, staffID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_OnlySuperAdminMintsSuperAdmin() {
	ctx := context.Background()
	adminID := suite.expectActor(domain.RoleAdmin)

	_, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{
		Email:      "root@example.go.th",
		Name:       "Root",
		Password:   "password123",
		Role:       domain.RoleSuperAdmin,
		DivisionID: uuid.NewString(),
	}, adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfRenameNeedsNoAdmin() {
	ctx := context.Background()
	userID := uuid.NewString()
	newName := "Renamed"

	stored := &domain.User{UserID: userID, Name: "Old", Role: domain.RoleStaff, IsActive: true}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == newName && u.LastUpdatedBy == userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Name: &newName}, userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
}

func (suite *UserServiceTestSuite) TestUpdateUser_RoleChangeNeedsAdmin() {
	ctx := context.Background()
	userID := uuid.NewString()
	newRole := domain.RoleApprover

	stored := &domain.User{UserID: userID, Role: domain.RoleStaff, IsActive: true}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Twice()

	// A staff user changing their own role is still a privileged change.
	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Role: &newRole}, userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestDeleteUser_AdminButNotSuperAdmin() {
	ctx := context.Background()
	adminID := suite.expectActor(domain.RoleAdmin)

	err := suite.service.DeleteUser(ctx, uuid.NewString(), adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_SuperAdmin() {
	ctx := context.Background()
	superID := suite.expectActor(domain.RoleSuperAdmin)
	targetID := uuid.NewString()

	suite.mockBudgetRepo.On("CountBudgetsByCreator", ctx, targetID).Return(int64(0), nil).Once()
	suite.mockExpenseRepo.On("CountExpensesByCreator", ctx, targetID).Return(int64(0), nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, targetID, superID, mock.Anything).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, targetID, superID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_SelfRefused() {
	ctx := context.Background()
	superID := suite.expectActor(domain.RoleSuperAdmin)

	err := suite.service.DeleteUser(ctx, superID, superID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_WithCreatedBudgetsRefused() {
	ctx := context.Background()
	superID := suite.expectActor(domain.RoleSuperAdmin)
	targetID := uuid.NewString()

	suite.mockBudgetRepo.On("CountBudgetsByCreator", ctx, targetID).Return(int64(2), nil).Once()

	err := suite.service.DeleteUser(ctx, targetID, superID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfDeactivateRefused() {
	ctx := context.Background()
	adminID := uuid.NewString()
	inactive := false

	stored := &domain.User{UserID: adminID, Role: domain.RoleAdmin, IsActive: true}
	suite.mockUserRepo.On("FindUserByID", ctx, adminID).Return(stored, nil).Once()

	updated, err := suite.service.UpdateUser(ctx, adminID, dto.UpdateUserRequest{IsActive: &inactive}, adminID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, hashErr := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(hashErr)

	stored := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "somchai@example.go.th",
		PasswordHash: hash,
		IsActive:     true,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, stored.Email, "s3cret-pass")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, hashErr := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(hashErr)

	stored := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "somchai@example.go.th",
		PasswordHash: hash,
		IsActive:     true,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, stored.Email, "wrong")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailIndistinguishable() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.go.th").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "nobody@example.go.th", "whatever")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_InactiveUser() {
	ctx := context.Background()
	hash, hashErr := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(hashErr)

	stored := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "gone@example.go.th",
		PasswordHash: hash,
		IsActive:     false,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	_, err := suite.service.AuthenticateUser(ctx, stored.Email, "s3cret-pass")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingUser() {
	ctx := context.Background()
	stored := &domain.User{
		UserID:   uuid.NewString(),
		Email:    "sso@example.go.th",
		Role:     domain.RoleStaff,
		IsActive: true,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, stored.Email, "SSO User")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ProvisionsViewer() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "new-sso@example.go.th").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleViewer &&
			u.IsActive &&
			u.DivisionID == "" &&
			u.PasswordHash == ""
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, "new-sso@example.go.th", "New SSO")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleViewer, user.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
