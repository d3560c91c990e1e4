package dto

import (
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
)

// NotificationResponse defines the data returned for a notification.
type NotificationResponse struct {
	NotificationID string                  `json:"notificationID"`
	Type           domain.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	TitleTH        string                  `json:"titleTH"`
	Message        string                  `json:"message"`
	MessageTH      string                  `json:"messageTH"`
	Link           string                  `json:"link"`
	IsRead         bool                    `json:"isRead"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// ListNotificationsParams defines query parameters for listing notifications.
type ListNotificationsParams struct {
	UnreadOnly bool    `form:"unreadOnly"`
	Limit      int     `form:"limit,default=20"`
	NextToken  *string `form:"nextToken"`
}

// ListNotificationsResponse wraps the list of notifications with the
// pagination token and the user's unread count.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToNotificationResponse converts a domain.Notification to NotificationResponse DTO
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Title:          n.Title,
		TitleTH:        n.TitleTH,
		Message:        n.Message,
		MessageTH:      n.MessageTH,
		Link:           n.Link,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

// ToListNotificationsResponse converts domain notifications to ListNotificationsResponse DTO
func ToListNotificationsResponse(notifications []domain.Notification, unreadCount int64, nextToken *string) ListNotificationsResponse {
	res := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		res[i] = ToNotificationResponse(&n)
	}
	return ListNotificationsResponse{Notifications: res, UnreadCount: unreadCount, NextToken: nextToken}
}
