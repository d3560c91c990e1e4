package mapping

import (
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/models"
)

func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: d.NotificationID,
		UserID:         d.UserID,
		Type:           string(d.Type),
		Title:          d.Title,
		TitleTH:        d.TitleTH,
		Message:        d.Message,
		MessageTH:      d.MessageTH,
		Link:           d.Link,
		IsRead:         d.IsRead,
		CreatedAt:      d.CreatedAt,
	}
}

func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		Type:           domain.NotificationType(m.Type),
		Title:          m.Title,
		TitleTH:        m.TitleTH,
		Message:        m.Message,
		MessageTH:      m.MessageTH,
		Link:           m.Link,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotification(m)
	}
	return ds
}
