// Package mapping converts between domain entities and their database models.
package mapping

import (
	"encoding/json"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	"github.com/Caqil/iprofit-admin-sub008/internal/models"
)

// ToModelLoan converts a domain loan to its database model (schedule excluded;
// installments map to their own rows).
func ToModelLoan(loan domain.Loan) models.Loan {
	return models.Loan{
		LoanID:          loan.LoanID,
		UserID:          loan.UserID,
		Principal:       loan.Principal,
		CurrencyCode:    string(loan.CurrencyCode),
		InterestRate:    loan.InterestRate,
		TenureMonths:    loan.TenureMonths,
		EMI:             loan.EMI,
		Status:          string(loan.Status),
		TotalPaid:       loan.TotalPaid,
		RemainingAmount: loan.RemainingAmount,
		PenaltyAmount:   loan.PenaltyAmount,
		Version:         loan.Version,
		DisbursedAt:     loan.DisbursedAt,
		CompletedAt:     loan.CompletedAt,
		CreatedAt:       loan.CreatedAt,
		CreatedBy:       loan.CreatedBy,
		LastUpdatedAt:   loan.LastUpdatedAt,
		LastUpdatedBy:   loan.LastUpdatedBy,
	}
}

// ToDomainLoan converts a loan row back to the domain entity.
func ToDomainLoan(model models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:          model.LoanID,
		UserID:          model.UserID,
		Principal:       model.Principal,
		CurrencyCode:    domain.CurrencyCode(model.CurrencyCode),
		InterestRate:    model.InterestRate,
		TenureMonths:    model.TenureMonths,
		EMI:             model.EMI,
		Status:          domain.LoanStatus(model.Status),
		TotalPaid:       model.TotalPaid,
		RemainingAmount: model.RemainingAmount,
		PenaltyAmount:   model.PenaltyAmount,
		Version:         model.Version,
		DisbursedAt:     model.DisbursedAt,
		CompletedAt:     model.CompletedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     model.CreatedAt,
			CreatedBy:     model.CreatedBy,
			LastUpdatedAt: model.LastUpdatedAt,
			LastUpdatedBy: model.LastUpdatedBy,
		},
	}
}

// ToDomainLoanSlice converts loan rows, schedules excluded.
func ToDomainLoanSlice(modelLoans []models.Loan) []domain.Loan {
	loans := make([]domain.Loan, len(modelLoans))
	for i, m := range modelLoans {
		loans[i] = ToDomainLoan(m)
	}
	return loans
}

// ToModelInstallment converts a schedule entry to its database model.
func ToModelInstallment(loanID string, inst domain.Installment) models.Installment {
	return models.Installment{
		LoanID:     loanID,
		Sequence:   inst.Sequence,
		DueDate:    inst.DueDate,
		Amount:     inst.Amount,
		Principal:  inst.Principal,
		Interest:   inst.Interest,
		Status:     string(inst.Status),
		PaidAt:     inst.PaidAt,
		PaidAmount: inst.PaidAmount,
	}
}

// ToDomainInstallment converts an installment row back to the domain entity.
func ToDomainInstallment(model models.Installment) domain.Installment {
	return domain.Installment{
		Sequence:   model.Sequence,
		DueDate:    model.DueDate,
		Amount:     model.Amount,
		Principal:  model.Principal,
		Interest:   model.Interest,
		Status:     domain.InstallmentStatus(model.Status),
		PaidAt:     model.PaidAt,
		PaidAmount: model.PaidAmount,
	}
}

// ToModelPayment converts a payment record to its database model.
func ToModelPayment(payment domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     payment.PaymentID,
		LoanID:        payment.LoanID,
		Amount:        payment.Amount,
		Method:        string(payment.Method),
		ExternalTxnID: payment.ExternalTxnID,
		Notes:         payment.Notes,
		CreatedAt:     payment.CreatedAt,
		CreatedBy:     payment.CreatedBy,
	}
}

// ToDomainPayment converts a payment row back to the domain entity.
func ToDomainPayment(model models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     model.PaymentID,
		LoanID:        model.LoanID,
		Amount:        model.Amount,
		Method:        domain.PaymentMethod(model.Method),
		ExternalTxnID: model.ExternalTxnID,
		Notes:         model.Notes,
		CreatedAt:     model.CreatedAt,
		CreatedBy:     model.CreatedBy,
	}
}

// ToDomainPaymentSlice converts payment rows.
func ToDomainPaymentSlice(modelPayments []models.Payment) []domain.Payment {
	payments := make([]domain.Payment, len(modelPayments))
	for i, m := range modelPayments {
		payments[i] = ToDomainPayment(m)
	}
	return payments
}

// ToModelUser converts a domain user to its database model.
func ToModelUser(user domain.User) models.User {
	model := models.User{
		UserID:                 user.UserID,
		LoginName:              user.LoginName,
		Name:                   user.Name,
		Email:                  user.Email,
		PasswordHash:           user.PasswordHash,
		Role:                   string(user.Role),
		IsActive:               user.IsActive,
		RefreshTokenExpiryTime: user.RefreshTokenExpiryTime,
		CreatedAt:              user.CreatedAt,
		CreatedBy:              user.CreatedBy,
		LastUpdatedAt:          user.LastUpdatedAt,
		LastUpdatedBy:          user.LastUpdatedBy,
	}
	if user.RefreshTokenHash != "" {
		hash := user.RefreshTokenHash
		model.RefreshTokenHash = &hash
	}
	return model
}

// ToDomainUser converts a user row back to the domain entity.
func ToDomainUser(model models.User) domain.User {
	user := domain.User{
		UserID:                 model.UserID,
		LoginName:              model.LoginName,
		Name:                   model.Name,
		Email:                  model.Email,
		PasswordHash:           model.PasswordHash,
		Role:                   domain.UserRole(model.Role),
		IsActive:               model.IsActive,
		RefreshTokenExpiryTime: model.RefreshTokenExpiryTime,
		AuditFields: domain.AuditFields{
			CreatedAt:     model.CreatedAt,
			CreatedBy:     model.CreatedBy,
			LastUpdatedAt: model.LastUpdatedAt,
			LastUpdatedBy: model.LastUpdatedBy,
		},
	}
	if model.RefreshTokenHash != nil {
		user.RefreshTokenHash = *model.RefreshTokenHash
	}
	return user
}

// ToDomainUserSlice converts user rows.
func ToDomainUserSlice(modelUsers []models.User) []domain.User {
	users := make([]domain.User, len(modelUsers))
	for i, m := range modelUsers {
		users[i] = ToDomainUser(m)
	}
	return users
}

// ToModelAuditLog converts an audit entry to its database model, serializing
// the detail document to JSON.
func ToModelAuditLog(entry domain.AuditLog) (models.AuditLog, error) {
	var detail []byte
	if entry.Detail != nil {
		var err error
		detail, err = json.Marshal(entry.Detail)
		if err != nil {
			return models.AuditLog{}, err
		}
	}
	return models.AuditLog{
		AuditID:     entry.AuditID,
		ActorUserID: entry.ActorUserID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Outcome:     string(entry.Outcome),
		Detail:      detail,
		CreatedAt:   entry.CreatedAt,
	}, nil
}

// ToModelNotification converts a notification to its database model.
func ToModelNotification(notification domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: notification.NotificationID,
		UserID:         notification.UserID,
		Channel:        notification.Channel,
		Subject:        notification.Subject,
		Body:           notification.Body,
		Status:         string(notification.Status),
		CreatedAt:      notification.CreatedAt,
	}
}
