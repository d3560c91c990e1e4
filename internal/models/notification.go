package models

import "time"

// Notification represents a row of the notifications table.
type Notification struct {
	NotificationID string    `json:"notificationID" db:"notification_id"`
	UserID         string    `json:"userID" db:"user_id"`
	Type           string    `json:"type" db:"notification_type"`
	Title          string    `json:"title" db:"title"`
	TitleTH        string    `json:"titleTH" db:"title_th"`
	Message        string    `json:"message" db:"message"`
	MessageTH      string    `json:"messageTH" db:"message_th"`
	Link           string    `json:"link" db:"link"`
	IsRead         bool      `json:"isRead" db:"is_read"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
