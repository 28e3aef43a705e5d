package domain

import "time"

// NotificationStatus tracks delivery of a notification record.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
)

// Notification is a persisted message to a user; delivery is best effort
// and never blocks the operation that triggered it.
type Notification struct {
	NotificationID string             `json:"notificationID"`
	UserID         string             `json:"userID"`
	Channel        string             `json:"channel"` // e.g. "email"
	Subject        string             `json:"subject"`
	Body           string             `json:"body"`
	Status         NotificationStatus `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
}
