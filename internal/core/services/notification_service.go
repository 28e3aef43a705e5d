package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/middleware"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
)

// notifierService persists a notification record and delivers it by email.
// Everything here is best effort: delivery failures are logged and recorded
// on the notification row, never surfaced to the triggering operation.
type notifierService struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	emailSender      portssvc.EmailSender
}

// NewNotifierService creates a new NotifierService.
func NewNotifierService(notificationRepo portsrepo.NotificationRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, emailSender portssvc.EmailSender) portssvc.NotifierSvcFacade {
	return &notifierService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailSender:      emailSender,
	}
}

var _ portssvc.NotifierSvcFacade = (*notifierService)(nil)

func (s *notifierService) NotifyRepaymentRecorded(ctx context.Context, loan domain.Loan, payment domain.Payment) {
	subject := "Payment received"
	body := fmt.Sprintf(
		"We received your payment of %s %s towards loan %s. Remaining balance: %s %s.",
		payment.Amount.StringFixed(2), loan.CurrencyCode, loan.LoanID,
		loan.RemainingAmount.StringFixed(2), loan.CurrencyCode,
	)
	s.deliver(ctx, loan.UserID, subject, body)
}

func (s *notifierService) NotifyLoanApproved(ctx context.Context, loan domain.Loan) {
	subject := "Your loan has been approved"
	body := fmt.Sprintf(
		"Your loan %s of %s %s has been approved. Monthly installment: %s %s over %d months.",
		loan.LoanID, loan.Principal.StringFixed(2), loan.CurrencyCode,
		loan.EMI.StringFixed(2), loan.CurrencyCode, loan.TenureMonths,
	)
	s.deliver(ctx, loan.UserID, subject, body)
}

func (s *notifierService) NotifyLoanCompleted(ctx context.Context, loan domain.Loan) {
	subject := "Loan fully repaid"
	body := fmt.Sprintf(
		"Congratulations, your loan %s is fully repaid. Total paid: %s %s.",
		loan.LoanID, loan.TotalPaid.StringFixed(2), loan.CurrencyCode,
	)
	s.deliver(ctx, loan.UserID, subject, body)
}

// deliver persists the notification, resolves the recipient's email, sends it,
// and records the delivery outcome on the notification row.
func (s *notifierService) deliver(ctx context.Context, userID, subject, body string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	notification := domain.Notification{
		NotificationID: objectid.New(),
		UserID:         userID,
		Channel:        "email",
		Subject:        subject,
		Body:           body,
		Status:         domain.NotificationPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
		logger.Warn("Failed to persist notification", slog.String("error", err.Error()), slog.String("user_id", userID))
		return
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to resolve notification recipient", slog.String("error", err.Error()), slog.String("user_id", userID))
		s.markStatus(ctx, notification.NotificationID, domain.NotificationFailed)
		return
	}

	if err := s.emailSender.Send(ctx, user.Email, subject, body); err != nil {
		logger.Warn("Failed to send notification email", slog.String("error", err.Error()), slog.String("notification_id", notification.NotificationID))
		s.markStatus(ctx, notification.NotificationID, domain.NotificationFailed)
		return
	}

	s.markStatus(ctx, notification.NotificationID, domain.NotificationSent)
	logger.Info("Notification sent", slog.String("notification_id", notification.NotificationID), slog.String("user_id", userID))
}

func (s *notifierService) markStatus(ctx context.Context, notificationID string, status domain.NotificationStatus) {
	if err := s.notificationRepo.UpdateNotificationStatus(ctx, notificationID, status); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to update notification status",
			slog.String("error", err.Error()),
			slog.String("notification_id", notificationID),
		)
	}
}
