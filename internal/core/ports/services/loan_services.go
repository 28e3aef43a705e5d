package services

import (
	"context"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	"github.com/Caqil/iprofit-admin-sub008/internal/dto"
)

// LoanSvcFacade is the service interface for loan lifecycle, repayment
// recording and schedule queries.
type LoanSvcFacade interface {
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error)
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error)

	// ApproveLoan generates the repayment schedule exactly once and moves the
	// loan from Pending to Approved.
	ApproveLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error)
	RejectLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error)
	// MarkDefaulted declares a repayable loan Defaulted; terminal.
	MarkDefaulted(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error)

	// RecordRepayment applies a payment against the loan's outstanding
	// schedule and returns the updated loan with the immutable payment record.
	RecordRepayment(ctx context.Context, loanID string, req dto.RecordRepaymentRequest, actorUserID string) (*domain.Loan, *domain.Payment, error)

	// GetRepaymentSchedule returns the stored schedule and its derived
	// summary. Read-only: overdue standing and next due date are recomputed
	// from due dates on every call, never persisted.
	GetRepaymentSchedule(ctx context.Context, loanID string) ([]domain.Installment, *domain.ScheduleSummary, error)

	ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error)

	// PreviewSchedule computes an EMI breakdown without persisting anything.
	PreviewSchedule(ctx context.Context, req dto.CalculateEMIRequest) (*dto.EMIPreviewResponse, error)
}
