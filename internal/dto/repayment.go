package dto

import (
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordRepaymentRequest is the payload for recording a payment against a loan.
type RecordRepaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=BANK_TRANSFER CARD CASH MOBILE_WALLET"`
	TransactionID *string         `json:"transactionId"`
	Notes         *string         `json:"notes"`
}

// RepaymentResponse confirms a recorded payment.
type RepaymentResponse struct {
	Amount          decimal.Decimal `json:"amount"`
	TransactionID   string          `json:"transactionId"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	LoanStatus      string          `json:"loanStatus"`
}

// InstallmentResponse is the API representation of one schedule entry.
type InstallmentResponse struct {
	Sequence   int             `json:"sequence"`
	DueDate    time.Time       `json:"dueDate"`
	Amount     decimal.Decimal `json:"amount"`
	Principal  decimal.Decimal `json:"principal"`
	Interest   decimal.Decimal `json:"interest"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paidAt,omitempty"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

// ScheduleSummaryResponse carries the derived standing of a schedule.
type ScheduleSummaryResponse struct {
	TotalPaid               decimal.Decimal `json:"totalPaid"`
	RemainingAmount         decimal.Decimal `json:"remainingAmount"`
	OverdueAmount           decimal.Decimal `json:"overdueAmount"`
	OverdueInstallmentCount int             `json:"overdueInstallmentCount"`
	OverduePenalty          decimal.Decimal `json:"overduePenalty"`
	NextDueDate             *time.Time      `json:"nextDueDate,omitempty"`
}

// ScheduleResponse is the full repayment-schedule view of a loan.
type ScheduleResponse struct {
	Schedule []InstallmentResponse   `json:"schedule"`
	Summary  ScheduleSummaryResponse `json:"summary"`
}

// PaymentResponse is the API representation of an immutable payment record.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	LoanID        string          `json:"loanID"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID *string         `json:"transactionId,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ListPaymentsResponse is the payment history of a loan.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ToInstallmentResponse converts a domain installment to its API representation.
func ToInstallmentResponse(inst domain.Installment) InstallmentResponse {
	return InstallmentResponse{
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

// ToInstallmentResponses converts a schedule slice.
func ToInstallmentResponses(schedule []domain.Installment) []InstallmentResponse {
	out := make([]InstallmentResponse, len(schedule))
	for i, inst := range schedule {
		out[i] = ToInstallmentResponse(inst)
	}
	return out
}

// ToScheduleSummaryResponse converts a derived summary.
func ToScheduleSummaryResponse(summary domain.ScheduleSummary) ScheduleSummaryResponse {
	return ScheduleSummaryResponse{
		TotalPaid:               summary.TotalPaid,
		RemainingAmount:         summary.RemainingAmount,
		OverdueAmount:           summary.OverdueAmount,
		OverdueInstallmentCount: summary.OverdueInstallmentCount,
		OverduePenalty:          summary.OverduePenalty,
		NextDueDate:             summary.NextDueDate,
	}
}

// ToPaymentResponses converts payment records.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = PaymentResponse{
			PaymentID:     p.PaymentID,
			LoanID:        p.LoanID,
			Amount:        p.Amount,
			PaymentMethod: string(p.Method),
			TransactionID: p.ExternalTxnID,
			Notes:         p.Notes,
			CreatedAt:     p.CreatedAt,
			CreatedBy:     p.CreatedBy,
		}
	}
	return out
}
