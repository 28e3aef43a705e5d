package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/dto"
	"github.com/Caqil/iprofit-admin-sub008/internal/middleware"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/amortization"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
)

var (
	ErrNotRepayable   = fmt.Errorf("%w: loan is not in a repayable state", apperrors.ErrConflict)
	ErrExceedsBalance = fmt.Errorf("%w: payment amount exceeds remaining balance", apperrors.ErrConflict)
	ErrNotPending     = fmt.Errorf("%w: loan is not pending approval", apperrors.ErrConflict)
	ErrAlreadyClosed  = fmt.Errorf("%w: loan is already closed", apperrors.ErrConflict)
)

// overduePenaltyRate is the display-only penalty applied to overdue
// installments in the schedule summary. Never persisted.
var overduePenaltyRate = decimal.RequireFromString("0.1")

// loanService provides loan lifecycle, repayment recording and schedule queries.
type loanService struct {
	loanRepo    portsrepo.LoanRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
	audit       portssvc.AuditSvcFacade
	notifier    portssvc.NotifierSvcFacade
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, paymentRepo portsrepo.PaymentRepositoryFacade, audit portssvc.AuditSvcFacade, notifier portssvc.NotifierSvcFacade) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		audit:       audit,
		notifier:    notifier,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan validates the terms and records a new loan in Pending state.
// The EMI is computed once here; the schedule itself is generated at approval.
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !objectid.IsValid(req.UserID) {
		return nil, fmt.Errorf("%w: invalid borrower id", apperrors.ErrValidation)
	}
	currency := domain.CurrencyCode(req.CurrencyCode)
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, req.CurrencyCode)
	}

	emi, err := amortization.MonthlyInstallment(req.Amount, req.InterestRate, req.TenureMonths)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:          objectid.New(),
		UserID:          req.UserID,
		Principal:       req.Amount,
		CurrencyCode:    currency,
		InterestRate:    req.InterestRate,
		TenureMonths:    req.TenureMonths,
		EMI:             emi,
		Status:          domain.LoanPending,
		TotalPaid:       decimal.Zero,
		RemainingAmount: decimal.Zero,
		PenaltyAmount:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan", slog.String("error", err.Error()))
		s.audit.Record(ctx, creatorUserID, "loan.create", "loan", loan.LoanID, domain.AuditFailure, map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.audit.Record(ctx, creatorUserID, "loan.create", "loan", loan.LoanID, domain.AuditSuccess, map[string]any{
		"principal":    loan.Principal.String(),
		"currency":     string(loan.CurrencyCode),
		"interestRate": loan.InterestRate.String(),
		"tenureMonths": loan.TenureMonths,
	})
	logger.Info("Loan created", slog.String("loan_id", loan.LoanID), slog.String("user_id", loan.UserID))
	return &loan, nil
}

// GetLoanByID retrieves a loan with its schedule.
func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find loan by ID", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		}
		return nil, err
	}
	return loan, nil
}

// ListLoans retrieves a paginated list of loans.
func (s *loanService) ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var status *domain.LoanStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.LoanStatus(*params.Status)
		switch st {
		case domain.LoanPending, domain.LoanApproved, domain.LoanRejected, domain.LoanActive, domain.LoanCompleted, domain.LoanDefaulted:
			status = &st
		default:
			return nil, fmt.Errorf("%w: unknown loan status %s", apperrors.ErrValidation, *params.Status)
		}
	}

	loans, nextToken, err := s.loanRepo.ListLoans(ctx, limit, params.NextToken, status)
	if err != nil {
		logger.Error("Failed to list loans from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve loans: %w", err)
	}

	loanResponses := make([]dto.LoanResponse, len(loans))
	for i := range loans {
		loanResponses[i] = dto.ToLoanResponse(&loans[i])
	}

	return &dto.ListLoansResponse{Loans: loanResponses, NextToken: nextToken}, nil
}

// ApproveLoan generates the repayment schedule exactly once and transitions
// the loan from Pending to Approved, stamping the disbursal time.
func (s *loanService) ApproveLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanPending {
		s.audit.Record(ctx, actorUserID, "loan.approve", "loan", loanID, domain.AuditFailure, map[string]any{"status": string(loan.Status)})
		return nil, ErrNotPending
	}

	now := time.Now().UTC()
	entries, err := amortization.GenerateSchedule(loan.Principal, loan.InterestRate, loan.TenureMonths, now)
	if err != nil {
		// Terms were validated at creation; this indicates corrupt stored data.
		logger.Error("Schedule generation failed for stored terms", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, fmt.Errorf("%w: schedule generation failed", apperrors.ErrInternal)
	}

	schedule := make([]domain.Installment, len(entries))
	for i, entry := range entries {
		schedule[i] = domain.Installment{
			Sequence:   entry.Sequence,
			DueDate:    entry.DueDate,
			Amount:     entry.Amount,
			Principal:  entry.Principal,
			Interest:   entry.Interest,
			Status:     domain.InstallmentPending,
			PaidAmount: decimal.Zero,
		}
	}

	loan.Schedule = schedule
	loan.Status = domain.LoanApproved
	loan.DisbursedAt = &now
	loan.TotalPaid = decimal.Zero
	loan.RemainingAmount = amortization.ScheduleTotal(entries)
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = actorUserID

	if err := s.loanRepo.ActivateSchedule(ctx, *loan, loan.Version); err != nil {
		logger.Error("Failed to activate schedule", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		s.audit.Record(ctx, actorUserID, "loan.approve", "loan", loanID, domain.AuditFailure, map[string]any{"error": err.Error()})
		return nil, err
	}
	loan.Version++

	s.audit.Record(ctx, actorUserID, "loan.approve", "loan", loanID, domain.AuditSuccess, map[string]any{
		"emi":             loan.EMI.String(),
		"remainingAmount": loan.RemainingAmount.String(),
		"installments":    len(schedule),
	})
	logger.Info("Loan approved and schedule generated", slog.String("loan_id", loanID), slog.Int("installments", len(schedule)))

	go s.notifier.NotifyLoanApproved(context.WithoutCancel(ctx), *loan)
	return loan, nil
}

// RejectLoan transitions a Pending loan to Rejected.
func (s *loanService) RejectLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	return s.transitionStatus(ctx, loanID, actorUserID, "loan.reject", domain.LoanRejected, func(loan *domain.Loan) error {
		if loan.Status != domain.LoanPending {
			return ErrNotPending
		}
		return nil
	})
}

// MarkDefaulted declares a repayable loan Defaulted.
func (s *loanService) MarkDefaulted(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	return s.transitionStatus(ctx, loanID, actorUserID, "loan.default", domain.LoanDefaulted, func(loan *domain.Loan) error {
		if !loan.Status.IsRepayable() {
			return ErrNotRepayable
		}
		return nil
	})
}

func (s *loanService) transitionStatus(ctx context.Context, loanID, actorUserID, action string, target domain.LoanStatus, check func(*domain.Loan) error) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := check(loan); err != nil {
		s.audit.Record(ctx, actorUserID, action, "loan", loanID, domain.AuditFailure, map[string]any{"status": string(loan.Status)})
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.loanRepo.UpdateLoanStatus(ctx, loanID, loan.Version, target, actorUserID, now); err != nil {
		logger.Error("Failed to update loan status", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		s.audit.Record(ctx, actorUserID, action, "loan", loanID, domain.AuditFailure, map[string]any{"error": err.Error()})
		return nil, err
	}

	s.audit.Record(ctx, actorUserID, action, "loan", loanID, domain.AuditSuccess, map[string]any{
		"oldStatus": string(loan.Status),
		"newStatus": string(target),
	})
	logger.Info("Loan status updated", slog.String("loan_id", loanID), slog.String("status", string(target)))

	loan.Status = target
	loan.Version++
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = actorUserID
	return loan, nil
}

// RecordRepayment applies a payment against the loan's outstanding schedule.
//
// The read-modify-write cycle is guarded by the loan version: a concurrent
// repayment between our read and write surfaces as a conflict from the
// repository, in which case the whole cycle is retried once against fresh
// state before the conflict is returned to the caller.
func (s *loanService) RecordRepayment(ctx context.Context, loanID string, req dto.RecordRepaymentRequest, actorUserID string) (*domain.Loan, *domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
		if err != nil {
			return nil, nil, err
		}

		oldTotalPaid := loan.TotalPaid
		oldRemaining := loan.RemainingAmount

		payment, paidSequences, err := s.applyPaymentToLoan(loan, req, actorUserID)
		if err != nil {
			s.audit.Record(ctx, actorUserID, "loan.repayment.record", "loan", loanID, domain.AuditFailure, map[string]any{
				"amount": req.Amount.String(),
				"error":  err.Error(),
			})
			return nil, nil, err
		}

		err = s.loanRepo.ApplyRepayment(ctx, *loan, loan.Version, *payment, paidSequences)
		if errors.Is(err, apperrors.ErrConflict) && attempt == 0 {
			logger.Warn("Concurrent loan update detected, retrying repayment once", slog.String("loan_id", loanID))
			lastErr = err
			continue
		}
		if err != nil {
			logger.Error("Failed to apply repayment", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			s.audit.Record(ctx, actorUserID, "loan.repayment.record", "loan", loanID, domain.AuditFailure, map[string]any{
				"amount": req.Amount.String(),
				"error":  err.Error(),
			})
			return nil, nil, err
		}
		loan.Version++

		s.audit.Record(ctx, actorUserID, "loan.repayment.record", "loan", loanID, domain.AuditSuccess, map[string]any{
			"paymentID":    payment.PaymentID,
			"amount":       payment.Amount.String(),
			"oldTotalPaid": oldTotalPaid.String(),
			"newTotalPaid": loan.TotalPaid.String(),
			"oldRemaining": oldRemaining.String(),
			"newRemaining": loan.RemainingAmount.String(),
			"loanStatus":   string(loan.Status),
		})
		logger.Info("Repayment recorded",
			slog.String("loan_id", loanID),
			slog.String("payment_id", payment.PaymentID),
			slog.String("amount", payment.Amount.String()),
			slog.String("loan_status", string(loan.Status)),
		)

		notifyCtx := context.WithoutCancel(ctx)
		go func(loan domain.Loan, payment domain.Payment) {
			s.notifier.NotifyRepaymentRecorded(notifyCtx, loan, payment)
			if loan.Status == domain.LoanCompleted {
				s.notifier.NotifyLoanCompleted(notifyCtx, loan)
			}
		}(*loan, *payment)

		return loan, payment, nil
	}

	s.audit.Record(ctx, actorUserID, "loan.repayment.record", "loan", loanID, domain.AuditFailure, map[string]any{
		"amount": req.Amount.String(),
		"error":  "unresolved concurrent update",
	})
	return nil, nil, lastErr
}

// applyPaymentToLoan validates the payment against the loan state and mutates
// the in-memory loan: installments are allocated oldest-due-first, each marked
// paid in full while the payment covers it; any remainder stays credited in
// the aggregates only. Returns the payment record and the sequences paid.
func (s *loanService) applyPaymentToLoan(loan *domain.Loan, req dto.RecordRepaymentRequest, actorUserID string) (*domain.Payment, []int, error) {
	if !loan.Status.IsRepayable() {
		return nil, nil, ErrNotRepayable
	}
	if req.Amount.GreaterThan(loan.RemainingAmount) {
		return nil, nil, ErrExceedsBalance
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:     objectid.New(),
		LoanID:        loan.LoanID,
		Amount:        req.Amount,
		Method:        domain.PaymentMethod(req.PaymentMethod),
		ExternalTxnID: req.TransactionID,
		Notes:         req.Notes,
		CreatedAt:     now,
		CreatedBy:     actorUserID,
	}

	var paidSequences []int
	unallocated := req.Amount
	for i := range loan.Schedule {
		inst := &loan.Schedule[i]
		if inst.Status == domain.InstallmentPaid {
			continue
		}
		if unallocated.LessThan(inst.Amount) {
			break
		}
		unallocated = unallocated.Sub(inst.Amount)
		inst.Status = domain.InstallmentPaid
		paidAt := now
		inst.PaidAt = &paidAt
		inst.PaidAmount = inst.Amount
		paidSequences = append(paidSequences, inst.Sequence)
	}

	loan.TotalPaid = loan.TotalPaid.Add(req.Amount)
	loan.RemainingAmount = loan.RemainingAmount.Sub(req.Amount)
	if loan.RemainingAmount.LessThanOrEqual(decimal.Zero) {
		loan.RemainingAmount = decimal.Zero
		loan.Status = domain.LoanCompleted
		completedAt := now
		loan.CompletedAt = &completedAt
	} else {
		loan.Status = domain.LoanActive
	}
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = actorUserID

	return &payment, paidSequences, nil
}

// GetRepaymentSchedule returns the stored schedule with its derived summary.
// Overdue standing is recomputed from due dates on every call; the persisted
// installment status is never trusted for it, and nothing is written back.
func (s *loanService) GetRepaymentSchedule(ctx context.Context, loanID string) ([]domain.Installment, *domain.ScheduleSummary, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	summary := domain.ScheduleSummary{
		TotalPaid:       loan.TotalPaid,
		RemainingAmount: loan.RemainingAmount,
		OverdueAmount:   decimal.Zero,
		OverduePenalty:  decimal.Zero,
	}

	for i := range loan.Schedule {
		inst := loan.Schedule[i]
		if inst.Status == domain.InstallmentPaid {
			continue
		}
		if summary.NextDueDate == nil {
			due := inst.DueDate
			summary.NextDueDate = &due
		}
		if inst.DueDate.Before(now) {
			summary.OverdueInstallmentCount++
			summary.OverdueAmount = summary.OverdueAmount.Add(inst.Amount)
			summary.OverduePenalty = summary.OverduePenalty.Add(inst.Amount.Mul(overduePenaltyRate).Round(2))
		}
	}

	return loan.Schedule, &summary, nil
}

// ListPayments returns the immutable payment records of a loan.
func (s *loanService) ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error) {
	// Ensure the loan exists so absence surfaces as 404 rather than an empty list.
	if _, err := s.loanRepo.FindLoanByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.paymentRepo.FindPaymentsByLoanID(ctx, loanID)
}

// PreviewSchedule computes an EMI breakdown for the given terms without
// persisting anything.
func (s *loanService) PreviewSchedule(ctx context.Context, req dto.CalculateEMIRequest) (*dto.EMIPreviewResponse, error) {
	entries, err := amortization.GenerateSchedule(req.Amount, req.InterestRate, req.TenureMonths, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	schedule := make([]dto.InstallmentResponse, len(entries))
	for i, entry := range entries {
		schedule[i] = dto.InstallmentResponse{
			Sequence:   entry.Sequence,
			DueDate:    entry.DueDate,
			Amount:     entry.Amount,
			Principal:  entry.Principal,
			Interest:   entry.Interest,
			Status:     string(domain.InstallmentPending),
			PaidAmount: decimal.Zero,
		}
	}

	total := amortization.ScheduleTotal(entries)
	return &dto.EMIPreviewResponse{
		EMI:           entries[0].Amount,
		TotalPayable:  total,
		TotalInterest: total.Sub(req.Amount),
		Schedule:      schedule,
	}, nil
}
