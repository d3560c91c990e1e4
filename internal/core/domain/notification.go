package domain

import "time"

// NotificationType tags the event that raised a notification.
type NotificationType string

const (
	NotifyBudgetApproval  NotificationType = "BUDGET_APPROVAL"  // fan-out: a budget awaits your approval
	NotifyExpenseApproval NotificationType = "EXPENSE_APPROVAL" // fan-out: an expense awaits your approval
	NotifyBudgetApproved  NotificationType = "BUDGET_APPROVED"
	NotifyBudgetRejected  NotificationType = "BUDGET_REJECTED"
	NotifyExpenseApproved NotificationType = "EXPENSE_APPROVED"
	NotifyExpenseRejected NotificationType = "EXPENSE_REJECTED"
)

// Notification is a fire-and-forget event record addressed to a user.
// Creating the record is the whole contract; delivery is out of scope.
type Notification struct {
	NotificationID string           `json:"notificationID"` // Primary Key (UUID)
	UserID         string           `json:"userID"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	TitleTH        string           `json:"titleTH"`
	Message        string           `json:"message"`
	MessageTH      string           `json:"messageTH"`
	Link           string           `json:"link"` // Deep link to the subject
	IsRead         bool             `json:"isRead"`
	CreatedAt      time.Time        `json:"createdAt"`
}
