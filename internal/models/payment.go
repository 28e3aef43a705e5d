package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the database representation of an immutable payment row.
type Payment struct {
	PaymentID     string          `db:"payment_id"`
	LoanID        string          `db:"loan_id"`
	Amount        decimal.Decimal `db:"amount"`
	Method        string          `db:"method"`
	ExternalTxnID *string         `db:"external_txn_id"`
	Notes         *string         `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
