package services_test

import (
	"context"
	"testing"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/core/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	mockNotificationRepo *MockNotificationRepository
	service              portssvc.NotificationSvcFacade
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockNotificationRepo = new(MockNotificationRepository)
	suite.service = services.NewNotificationService(suite.mockNotificationRepo)
}

func (suite *NotificationServiceTestSuite) TestListMyNotifications_IncludesUnreadCount() {
	ctx := context.Background()
	userID := uuid.NewString()

	notifications := []domain.Notification{
		{NotificationID: uuid.NewString(), UserID: userID, Title: "Expense approved"},
		{NotificationID: uuid.NewString(), UserID: userID, Title: "Budget approval requested", IsRead: true},
	}
	suite.mockNotificationRepo.On("ListNotificationsByUser", ctx, userID, false, 20, (*string)(nil)).
		Return(notifications, nil, nil).Once()
	suite.mockNotificationRepo.On("CountUnreadByUser", ctx, userID).Return(int64(1), nil).Once()

	resp, err := suite.service.ListMyNotifications(ctx, userID, dto.ListNotificationsParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Len(resp.Notifications, 2)
	suite.Equal(int64(1), resp.UnreadCount)
}

func (suite *NotificationServiceTestSuite) TestNotify_FillsIDAndTimestamp() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockNotificationRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.NotificationID != "" && !n.CreatedAt.IsZero() && n.UserID == userID
	})).Return(nil).Once()

	err := suite.service.Notify(ctx, domain.Notification{UserID: userID, Title: "Budget approved"})

	suite.Require().NoError(err)
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestMarkRead_ScopedToOwner() {
	ctx := context.Background()
	userID := uuid.NewString()
	notificationID := uuid.NewString()

	suite.mockNotificationRepo.On("MarkNotificationRead", ctx, notificationID, userID).Return(nil).Once()

	err := suite.service.MarkRead(ctx, notificationID, userID)

	suite.Require().NoError(err)
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestMarkAllRead() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockNotificationRepo.On("MarkAllNotificationsRead", ctx, userID).Return(nil).Once()

	err := suite.service.MarkAllRead(ctx, userID)

	suite.Require().NoError(err)
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
