package repositories

import (
	"context"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
)

// LoanRepositoryFacade defines persistence operations for loans and their schedules.
//
// Mutating operations take the version the caller read; implementations must
// apply the change conditionally on that version and return
// apperrors.ErrConflict when the row has moved on, so services can retry the
// read-modify-write cycle.
type LoanRepositoryFacade interface {
	// SaveLoan inserts a new loan in Pending state (no schedule yet).
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// FindLoanByID returns the loan with its full schedule, or apperrors.ErrNotFound.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans returns a page of loans (schedules omitted) ordered by
	// creation time descending, plus the token for the next page.
	ListLoans(ctx context.Context, limit int, nextToken *string, status *domain.LoanStatus) ([]domain.Loan, *string, error)

	// ActivateSchedule persists the generated schedule and the approval-time
	// loan fields (status, EMI, aggregates, disbursal time) in one transaction.
	ActivateSchedule(ctx context.Context, loan domain.Loan, expectedVersion int64) error

	// UpdateLoanStatus transitions the loan status conditionally on version.
	UpdateLoanStatus(ctx context.Context, loanID string, expectedVersion int64, status domain.LoanStatus, updatedBy string, updatedAt time.Time) error

	// ApplyRepayment atomically inserts the payment record, marks the given
	// installment sequences paid, and writes the new aggregates and status
	// carried on loan, conditionally on version.
	ApplyRepayment(ctx context.Context, loan domain.Loan, expectedVersion int64, payment domain.Payment, paidSequences []int) error
}

// PaymentRepositoryFacade defines read access to immutable payment records.
type PaymentRepositoryFacade interface {
	FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error)
}
