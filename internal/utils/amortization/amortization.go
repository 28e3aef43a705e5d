// Package amortization computes reducing-balance EMI schedules.
package amortization

import (
	"fmt"
	"math"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Entry is one period of an amortization schedule.
type Entry struct {
	Sequence         int
	DueDate          time.Time
	Amount           decimal.Decimal
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	RemainingBalance decimal.Decimal
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

func validateTerms(principal, annualRatePercent decimal.Decimal, tenureMonths int) error {
	if principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if annualRatePercent.IsNegative() || annualRatePercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: interest rate must be between 0 and 100", apperrors.ErrValidation)
	}
	if tenureMonths < 1 {
		return fmt.Errorf("%w: tenure must be at least one month", apperrors.ErrValidation)
	}
	return nil
}

// MonthlyInstallment computes the fixed EMI for the given terms, rounded to
// two decimal places (round half up).
//
//	emi = P * r * (1+r)^n / ((1+r)^n - 1), r = annualRate / 100 / 12
//
// A zero rate degenerates to an even split of the principal; the annuity
// formula is undefined there because its denominator collapses to zero.
func MonthlyInstallment(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if err := validateTerms(principal, annualRatePercent, tenureMonths); err != nil {
		return decimal.Zero, err
	}

	monthlyRate := annualRatePercent.Div(hundred).Div(twelve)
	if monthlyRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2), nil
	}

	// The power term is computed in float64; all monetary arithmetic stays decimal.
	factor := math.Pow(monthlyRate.InexactFloat64()+1, float64(tenureMonths))
	factorDec := decimal.NewFromFloat(factor)
	emi := principal.Mul(monthlyRate).Mul(factorDec).Div(factorDec.Sub(decimal.NewFromInt(1)))
	return emi.Round(2), nil
}

// GenerateSchedule produces the full installment-by-installment breakdown for
// the given terms. The result always has exactly tenureMonths entries with due
// dates one calendar month apart starting one month after startDate.
//
// Interest for each period is the monthly rate applied to the remaining
// balance; the final period absorbs rounding drift so the balance lands on
// exactly zero. A very small principal against a high rate can yield a zero or
// negative principal component in early periods; that is accepted as-is.
func GenerateSchedule(principal, annualRatePercent decimal.Decimal, tenureMonths int, startDate time.Time) ([]Entry, error) {
	emi, err := MonthlyInstallment(principal, annualRatePercent, tenureMonths)
	if err != nil {
		return nil, err
	}

	monthlyRate := annualRatePercent.Div(hundred).Div(twelve)
	remaining := principal
	schedule := make([]Entry, 0, tenureMonths)

	for seq := 1; seq <= tenureMonths; seq++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := emi.Sub(interest)
		amount := emi

		if seq == tenureMonths {
			// Final installment: clear whatever balance is left.
			principalPart = remaining
			amount = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if seq == tenureMonths && remaining.IsNegative() {
			remaining = decimal.Zero
		}

		schedule = append(schedule, Entry{
			Sequence:         seq,
			DueDate:          startDate.AddDate(0, seq, 0),
			Amount:           amount,
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		})
	}

	return schedule, nil
}

// ScheduleTotal sums the installment amounts of a schedule.
func ScheduleTotal(schedule []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range schedule {
		total = total.Add(entry.Amount)
	}
	return total
}
