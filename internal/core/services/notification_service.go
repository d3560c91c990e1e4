package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/budgetgov/budget_management_app/internal/middleware"
	"github.com/google/uuid"
)

// notificationService handles in-app notifications.
type notificationService struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
}

// NewNotificationService creates a new notification service.
func NewNotificationService(nr portsrepo.NotificationRepositoryFacade) portssvc.NotificationSvcFacade {
	return &notificationService{notificationRepo: nr}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// ListMyNotifications retrieves a paginated list of the caller's notifications
// together with their unread count.
func (s *notificationService) ListMyNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error) {
	notifications, nextToken, err := s.notificationRepo.ListNotificationsByUser(ctx, userID, params.UnreadOnly, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list notifications", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unreadCount, err := s.notificationRepo.CountUnreadByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	resp := dto.ToListNotificationsResponse(notifications, unreadCount, nextToken)
	return &resp, nil
}

// Notify records a fire-and-forget notification. Missing IDs and timestamps
// are filled in here so callers only describe the event.
func (s *notificationService) Notify(ctx context.Context, notification domain.Notification) error {
	if notification.NotificationID == "" {
		notification.NotificationID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	return s.notificationRepo.SaveNotification(ctx, notification)
}

// MarkRead marks one of the caller's notifications as read.
func (s *notificationService) MarkRead(ctx context.Context, notificationID string, userID string) error {
	return s.notificationRepo.MarkNotificationRead(ctx, notificationID, userID)
}

// MarkAllRead marks all of the caller's notifications as read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllNotificationsRead(ctx, userID)
}
