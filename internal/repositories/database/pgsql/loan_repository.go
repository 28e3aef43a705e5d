package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	"github.com/Caqil/iprofit-admin-sub008/internal/models"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/mapping"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/pagination"
)

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan and schedule data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const loanColumns = `loan_id, user_id, principal, currency_code, interest_rate, tenure_months, emi, status,
       total_paid, remaining_amount, penalty_amount, version, disbursed_at, completed_at,
       created_at, created_by, last_updated_at, last_updated_by`

func scanLoanRow(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.UserID,
		&m.Principal,
		&m.CurrencyCode,
		&m.InterestRate,
		&m.TenureMonths,
		&m.EMI,
		&m.Status,
		&m.TotalPaid,
		&m.RemainingAmount,
		&m.PenaltyAmount,
		&m.Version,
		&m.DisbursedAt,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveLoan inserts a new loan in Pending state. There is no schedule yet.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	modelLoan := mapping.ToModelLoan(loan)

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelLoan.LoanID,
		modelLoan.UserID,
		modelLoan.Principal,
		modelLoan.CurrencyCode,
		modelLoan.InterestRate,
		modelLoan.TenureMonths,
		modelLoan.EMI,
		modelLoan.Status,
		modelLoan.TotalPaid,
		modelLoan.RemainingAmount,
		modelLoan.PenaltyAmount,
		modelLoan.Version,
		modelLoan.DisbursedAt,
		modelLoan.CompletedAt,
		modelLoan.CreatedAt,
		modelLoan.CreatedBy,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: loan with ID %s already exists", apperrors.ErrDuplicate, modelLoan.LoanID)
		}
		return fmt.Errorf("failed to insert loan %s: %w", modelLoan.LoanID, err)
	}
	return nil
}

// FindLoanByID retrieves a loan together with its full schedule.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	modelLoan, err := scanLoanRow(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by id %s: %w", loanID, err)
	}

	loan := mapping.ToDomainLoan(modelLoan)

	schedule, err := r.findInstallments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	loan.Schedule = schedule
	return &loan, nil
}

func (r *PgxLoanRepository) findInstallments(ctx context.Context, loanID string) ([]domain.Installment, error) {
	query := `
		SELECT loan_id, sequence, due_date, amount, principal, interest, status, paid_at, paid_amount
		FROM installments
		WHERE loan_id = $1
		ORDER BY sequence;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	modelInstallments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Installment, error) {
		var inst models.Installment
		err := row.Scan(
			&inst.LoanID,
			&inst.Sequence,
			&inst.DueDate,
			&inst.Amount,
			&inst.Principal,
			&inst.Interest,
			&inst.Status,
			&inst.PaidAt,
			&inst.PaidAmount,
		)
		return inst, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan installments for loan %s: %w", loanID, err)
	}

	schedule := make([]domain.Installment, len(modelInstallments))
	for i, m := range modelInstallments {
		schedule[i] = mapping.ToDomainInstallment(m)
	}
	return schedule, nil
}

// ListLoans returns a page of loans ordered by creation time descending,
// using (created_at, loan_id) keyset pagination. Schedules are not loaded.
func (r *PgxLoanRepository) ListLoans(ctx context.Context, limit int, nextToken *string, status *domain.LoanStatus) ([]domain.Loan, *string, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	args := []any{}
	conditions := ""

	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, cursorTime, cursorID)
		conditions = fmt.Sprintf(" WHERE (created_at, loan_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	if status != nil {
		args = append(args, string(*status))
		if conditions == "" {
			conditions = fmt.Sprintf(" WHERE status = $%d", len(args))
		} else {
			conditions += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}

	// Fetch one extra row to know whether another page exists.
	args = append(args, limit+1)
	query += conditions + fmt.Sprintf(" ORDER BY created_at DESC, loan_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	modelLoans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Loan, error) {
		return scanLoanRow(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan loans: %w", err)
	}

	var token *string
	if len(modelLoans) > limit {
		modelLoans = modelLoans[:limit]
		last := modelLoans[len(modelLoans)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.LoanID)
		token = &t
	}

	return mapping.ToDomainLoanSlice(modelLoans), token, nil
}

// ActivateSchedule persists the generated schedule and the approval-time loan
// fields in one transaction. The loan update is conditional on the version the
// caller read; zero rows affected means the loan moved on concurrently.
func (r *PgxLoanRepository) ActivateSchedule(ctx context.Context, loan domain.Loan, expectedVersion int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelLoan := mapping.ToModelLoan(loan)
	updateQuery := `
		UPDATE loans
		SET status = $1, emi = $2, total_paid = $3, remaining_amount = $4, disbursed_at = $5,
		    version = version + 1, last_updated_at = $6, last_updated_by = $7
		WHERE loan_id = $8 AND version = $9;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		modelLoan.Status,
		modelLoan.EMI,
		modelLoan.TotalPaid,
		modelLoan.RemainingAmount,
		modelLoan.DisbursedAt,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
		modelLoan.LoanID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %s for activation: %w", modelLoan.LoanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s was modified concurrently", apperrors.ErrConflict, modelLoan.LoanID)
	}

	batch := &pgx.Batch{}
	installmentQuery := `
		INSERT INTO installments (loan_id, sequence, due_date, amount, principal, interest, status, paid_at, paid_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, inst := range loan.Schedule {
		m := mapping.ToModelInstallment(loan.LoanID, inst)
		batch.Queue(installmentQuery,
			m.LoanID,
			m.Sequence,
			m.DueDate,
			m.Amount,
			m.Principal,
			m.Interest,
			m.Status,
			m.PaidAt,
			m.PaidAmount,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert schedule for loan %s: %w", loan.LoanID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateLoanStatus transitions the loan status conditionally on version.
func (r *PgxLoanRepository) UpdateLoanStatus(ctx context.Context, loanID string, expectedVersion int64, status domain.LoanStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE loans
		SET status = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE loan_id = $4 AND version = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, string(status), updatedAt, updatedBy, loanID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update status of loan %s: %w", loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s was modified concurrently", apperrors.ErrConflict, loanID)
	}
	return nil
}

// ApplyRepayment atomically inserts the payment record, marks the paid
// installment rows, and writes the new aggregates and status carried on loan.
// The loan update is conditional on the version the caller read.
func (r *PgxLoanRepository) ApplyRepayment(ctx context.Context, loan domain.Loan, expectedVersion int64, payment domain.Payment, paidSequences []int) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelLoan := mapping.ToModelLoan(loan)
	loanQuery := `
		UPDATE loans
		SET status = $1, total_paid = $2, remaining_amount = $3, completed_at = $4,
		    version = version + 1, last_updated_at = $5, last_updated_by = $6
		WHERE loan_id = $7 AND version = $8;
	`
	tag, err := tx.Exec(ctx, loanQuery,
		modelLoan.Status,
		modelLoan.TotalPaid,
		modelLoan.RemainingAmount,
		modelLoan.CompletedAt,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
		modelLoan.LoanID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %s aggregates: %w", modelLoan.LoanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s was modified concurrently", apperrors.ErrConflict, modelLoan.LoanID)
	}

	modelPayment := mapping.ToModelPayment(payment)
	paymentQuery := `
		INSERT INTO payments (payment_id, loan_id, amount, method, external_txn_id, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		modelPayment.PaymentID,
		modelPayment.LoanID,
		modelPayment.Amount,
		modelPayment.Method,
		modelPayment.ExternalTxnID,
		modelPayment.Notes,
		modelPayment.CreatedAt,
		modelPayment.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", modelPayment.PaymentID, err)
	}

	if len(paidSequences) > 0 {
		// The paid state (paid_at, paid_amount) travels on the loan's schedule.
		paidBySequence := make(map[int]domain.Installment, len(paidSequences))
		for _, inst := range loan.Schedule {
			paidBySequence[inst.Sequence] = inst
		}

		batch := &pgx.Batch{}
		installmentQuery := `
			UPDATE installments
			SET status = $1, paid_at = $2, paid_amount = $3
			WHERE loan_id = $4 AND sequence = $5;
		`
		for _, seq := range paidSequences {
			inst, ok := paidBySequence[seq]
			if !ok {
				return apperrors.NewAppError(500, fmt.Sprintf("installment %d missing from loan %s schedule", seq, loan.LoanID), nil)
			}
			batch.Queue(installmentQuery,
				string(inst.Status),
				inst.PaidAt,
				inst.PaidAmount,
				loan.LoanID,
				seq,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to update installments for loan %s: %w", loan.LoanID, err)
		}
	}

	return r.Commit(ctx, tx)
}
