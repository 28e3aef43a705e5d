package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the database representation of a loan row.
type Loan struct {
	LoanID          string          `db:"loan_id"`
	UserID          string          `db:"user_id"`
	Principal       decimal.Decimal `db:"principal"`
	CurrencyCode    string          `db:"currency_code"`
	InterestRate    decimal.Decimal `db:"interest_rate"`
	TenureMonths    int             `db:"tenure_months"`
	EMI             decimal.Decimal `db:"emi"`
	Status          string          `db:"status"`
	TotalPaid       decimal.Decimal `db:"total_paid"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	PenaltyAmount   decimal.Decimal `db:"penalty_amount"`
	Version         int64           `db:"version"`
	DisbursedAt     *time.Time      `db:"disbursed_at"`
	CompletedAt     *time.Time      `db:"completed_at"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
	LastUpdatedAt   time.Time       `db:"last_updated_at"`
	LastUpdatedBy   string          `db:"last_updated_by"`
}

// Installment is the database representation of one schedule row. Rows are
// keyed (loan_id, sequence) and owned exclusively by their loan.
type Installment struct {
	LoanID     string          `db:"loan_id"`
	Sequence   int             `db:"sequence"`
	DueDate    time.Time       `db:"due_date"`
	Amount     decimal.Decimal `db:"amount"`
	Principal  decimal.Decimal `db:"principal"`
	Interest   decimal.Decimal `db:"interest"`
	Status     string          `db:"status"`
	PaidAt     *time.Time      `db:"paid_at"`
	PaidAmount decimal.Decimal `db:"paid_amount"`
}
