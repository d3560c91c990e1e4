package services

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/dto"
)

// NotificationReaderSvc defines read operations for notification data
type NotificationReaderSvc interface {
	// ListMyNotifications retrieves a paginated list of the caller's
	// notifications with their unread count.
	ListMyNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error)
}

// NotificationWriterSvc defines write operations for notification data
type NotificationWriterSvc interface {
	// Notify records a fire-and-forget notification for a user.
	Notify(ctx context.Context, notification domain.Notification) error

	// MarkRead marks one of the caller's notifications as read.
	MarkRead(ctx context.Context, notificationID string, userID string) error

	// MarkAllRead marks all of the caller's notifications as read.
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationSvcFacade combines all notification-related service interfaces
type NotificationSvcFacade interface {
	NotificationReaderSvc
	NotificationWriterSvc
}
