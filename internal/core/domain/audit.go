package domain

import "time"

// AuditOutcome records whether the audited operation succeeded.
type AuditOutcome string

const (
	AuditSuccess AuditOutcome = "SUCCESS"
	AuditFailure AuditOutcome = "FAILURE"
)

// AuditLog is one entry in the admin audit trail. Every mutating loan
// operation writes one, whether or not the operation itself succeeded.
type AuditLog struct {
	AuditID     string       `json:"auditID"`
	ActorUserID string       `json:"actorUserID"`
	Action      string       `json:"action"`     // e.g. "loan.repayment.record"
	EntityType  string       `json:"entityType"` // e.g. "loan"
	EntityID    string       `json:"entityID"`
	Outcome     AuditOutcome `json:"outcome"`
	// Detail carries key before/after values as a JSON document.
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
