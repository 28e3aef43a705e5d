package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	"github.com/Caqil/iprofit-admin-sub008/internal/models"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment records.
// Payments are written by the loan repository inside the repayment
// transaction; this repository only reads them.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// FindPaymentsByLoanID retrieves the payment history of a loan, oldest first.
func (r *PgxPaymentRepository) FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, loan_id, amount, method, external_txn_id, notes, created_at, created_by
		FROM payments
		WHERE loan_id = $1
		ORDER BY created_at, payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	modelPayments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Payment, error) {
		var p models.Payment
		err := row.Scan(
			&p.PaymentID,
			&p.LoanID,
			&p.Amount,
			&p.Method,
			&p.ExternalTxnID,
			&p.Notes,
			&p.CreatedAt,
			&p.CreatedBy,
		)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments for loan %s: %w", loanID, err)
	}

	return mapping.ToDomainPaymentSlice(modelPayments), nil
}
