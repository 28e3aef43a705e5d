package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a repayment was made.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCard         PaymentMethod = "CARD"
	PaymentCash         PaymentMethod = "CASH"
	PaymentMobileWallet PaymentMethod = "MOBILE_WALLET"
)

// Payment is an immutable record of one repayment applied to a loan,
// kept for audit and reconciliation.
type Payment struct {
	PaymentID     string          `json:"paymentID"` // 24-hex object id
	LoanID        string          `json:"loanID"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"paymentMethod"`
	ExternalTxnID *string         `json:"transactionId,omitempty"` // gateway reference, if any
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}
