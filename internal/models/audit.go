package models

import "time"

// AuditLog is the database representation of an audit trail row. Detail is
// stored as a jsonb document.
type AuditLog struct {
	AuditID     string    `db:"audit_id"`
	ActorUserID string    `db:"actor_user_id"`
	Action      string    `db:"action"`
	EntityType  string    `db:"entity_type"`
	EntityID    string    `db:"entity_id"`
	Outcome     string    `db:"outcome"`
	Detail      []byte    `db:"detail"`
	CreatedAt   time.Time `db:"created_at"`
}

// Notification is the database representation of a notification row.
type Notification struct {
	NotificationID string    `db:"notification_id"`
	UserID         string    `db:"user_id"`
	Channel        string    `db:"channel"`
	Subject        string    `db:"subject"`
	Body           string    `db:"body"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}
