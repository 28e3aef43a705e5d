package pgsql

import (
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LoanRepo:         newPgxLoanRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		AuditRepo:        newPgxAuditRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
	}
}
