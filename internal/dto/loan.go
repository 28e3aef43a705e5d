package dto

import (
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest is the payload for creating a loan in Pending state.
type CreateLoanRequest struct {
	UserID       string          `json:"userID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
	InterestRate decimal.Decimal `json:"interestRate" binding:"required"`
	TenureMonths int             `json:"tenureMonths" binding:"required,min=1"`
}

// LoanResponse is the API representation of a loan.
type LoanResponse struct {
	LoanID          string          `json:"loanID"`
	UserID          string          `json:"userID"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	TenureMonths    int             `json:"tenureMonths"`
	EMI             decimal.Decimal `json:"emi"`
	Status          string          `json:"status"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PenaltyAmount   decimal.Decimal `json:"penaltyAmount"`
	DisbursedAt     *time.Time      `json:"disbursedAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToLoanResponse converts a domain loan to its API representation.
func ToLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:          loan.LoanID,
		UserID:          loan.UserID,
		Amount:          loan.Principal,
		CurrencyCode:    string(loan.CurrencyCode),
		InterestRate:    loan.InterestRate,
		TenureMonths:    loan.TenureMonths,
		EMI:             loan.EMI,
		Status:          string(loan.Status),
		TotalPaid:       loan.TotalPaid,
		RemainingAmount: loan.RemainingAmount,
		PenaltyAmount:   loan.PenaltyAmount,
		DisbursedAt:     loan.DisbursedAt,
		CompletedAt:     loan.CompletedAt,
		CreatedAt:       loan.CreatedAt,
	}
}

// ListLoansParams holds parameters for listing loans.
type ListLoansParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
}

// ListLoansResponse is a page of loans plus the token for the next page.
type ListLoansResponse struct {
	Loans     []LoanResponse `json:"loans"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// CalculateEMIRequest is the payload for a stateless schedule preview.
type CalculateEMIRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	InterestRate decimal.Decimal `json:"interestRate"`
	TenureMonths int             `json:"tenureMonths" binding:"required,min=1"`
}

// EMIPreviewResponse is the result of a schedule preview; nothing is persisted.
type EMIPreviewResponse struct {
	EMI           decimal.Decimal       `json:"emi"`
	TotalPayable  decimal.Decimal       `json:"totalPayable"`
	TotalInterest decimal.Decimal       `json:"totalInterest"`
	Schedule      []InstallmentResponse `json:"schedule"`
}
