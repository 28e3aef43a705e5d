package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus indicates where a loan is in its lifecycle.
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanApproved  LoanStatus = "APPROVED"
	LoanRejected  LoanStatus = "REJECTED"
	LoanActive    LoanStatus = "ACTIVE"
	LoanCompleted LoanStatus = "COMPLETED"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

// IsRepayable reports whether payments may be recorded against a loan in this status.
func (s LoanStatus) IsRepayable() bool {
	return s == LoanApproved || s == LoanActive
}

// IsTerminal reports whether the status permits no further transitions.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanRejected || s == LoanCompleted || s == LoanDefaulted
}

// InstallmentStatus indicates the persisted state of a single installment.
// OVERDUE is informational only; overdue standing is always recomputed from
// the due date at read time.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentOverdue InstallmentStatus = "OVERDUE"
)

// Installment is one scheduled payment entry within a loan's repayment
// schedule. It is owned exclusively by its loan.
type Installment struct {
	Sequence   int               `json:"sequence"` // 1..tenure, contiguous, immutable
	DueDate    time.Time         `json:"dueDate"`
	Amount     decimal.Decimal   `json:"amount"`
	Principal  decimal.Decimal   `json:"principal"`
	Interest   decimal.Decimal   `json:"interest"`
	Status     InstallmentStatus `json:"status"`
	PaidAt     *time.Time        `json:"paidAt,omitempty"`
	PaidAmount decimal.Decimal   `json:"paidAmount"`
}

// Loan represents a loan with its terms, running aggregates and repayment schedule.
type Loan struct {
	LoanID       string          `json:"loanID"` // 24-hex object id
	UserID       string          `json:"userID"` // borrower
	Principal    decimal.Decimal `json:"principal"`
	CurrencyCode CurrencyCode    `json:"currencyCode"`
	InterestRate decimal.Decimal `json:"interestRate"` // annual percentage, 0..100
	TenureMonths int             `json:"tenureMonths"`
	EMI          decimal.Decimal `json:"emi"` // fixed monthly installment, computed once
	Status       LoanStatus      `json:"status"`

	// Running aggregates, maintained incrementally on each repayment.
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PenaltyAmount   decimal.Decimal `json:"penaltyAmount"`

	// Version guards the read-modify-write cycle on aggregates.
	Version int64 `json:"-"`

	DisbursedAt *time.Time `json:"disbursedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// Schedule is generated exactly once at approval; fixed length = tenure.
	Schedule []Installment `json:"schedule,omitempty"`

	AuditFields
}

// ScheduleSummary is the derived standing of a loan's schedule at read time.
// Nothing in it is persisted.
type ScheduleSummary struct {
	TotalPaid               decimal.Decimal `json:"totalPaid"`
	RemainingAmount         decimal.Decimal `json:"remainingAmount"`
	OverdueAmount           decimal.Decimal `json:"overdueAmount"`
	OverdueInstallmentCount int             `json:"overdueInstallmentCount"`
	OverduePenalty          decimal.Decimal `json:"overduePenalty"`
	NextDueDate             *time.Time      `json:"nextDueDate,omitempty"`
}
