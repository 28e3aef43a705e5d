package services

import (
	"context"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
)

// EmailSender is the outbound port for email delivery.
type EmailSender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// NotifierSvcFacade delivers borrower notifications. All methods are best
// effort: failures are logged by the implementation and never returned to the
// operation that triggered them.
type NotifierSvcFacade interface {
	NotifyRepaymentRecorded(ctx context.Context, loan domain.Loan, payment domain.Payment)
	NotifyLoanApproved(ctx context.Context, loan domain.Loan)
	NotifyLoanCompleted(ctx context.Context, loan domain.Loan)
}

// AuditSvcFacade records entries in the admin audit trail, best effort.
type AuditSvcFacade interface {
	Record(ctx context.Context, actorUserID, action, entityType, entityID string, outcome domain.AuditOutcome, detail map[string]any)
}
