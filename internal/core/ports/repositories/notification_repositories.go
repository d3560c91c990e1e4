package repositories

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// NotificationReader defines read operations for notification data
type NotificationReader interface {
	// ListNotificationsByUser retrieves a paginated list of a user's
	// notifications, optionally restricted to unread ones, using token-based
	// pagination. It returns the notifications, a token for the next page, and
	// an error.
	ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.Notification, *string, error)

	// CountUnreadByUser returns the number of unread notifications for a user.
	CountUnreadByUser(ctx context.Context, userID string) (int64, error)
}

// NotificationWriter defines write operations for notification data
type NotificationWriter interface {
	// SaveNotification persists a new notification.
	SaveNotification(ctx context.Context, notification domain.Notification) error

	// SaveNotificationsInTx persists a batch of notifications within the given
	// transaction, so approval outcomes and their notifications commit together.
	SaveNotificationsInTx(ctx context.Context, tx pgx.Tx, notifications []domain.Notification) error

	// MarkNotificationRead marks a single notification as read.
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error

	// MarkAllNotificationsRead marks all of a user's notifications as read.
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// NotificationRepositoryFacade combines all notification-related repository interfaces
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}

// NotificationRepositoryWithTx extends NotificationRepositoryFacade with transaction capabilities
type NotificationRepositoryWithTx interface {
	NotificationRepositoryFacade
	TransactionManager
}
