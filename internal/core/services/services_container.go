package services

import (
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, emailSender portssvc.EmailSender) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit and notifier come first since the loan service depends on them.
	container.Audit = NewAuditService(repos.AuditRepo)
	container.Notifier = NewNotifierService(repos.NotificationRepo, repos.UserRepo, emailSender)

	container.User = NewUserService(repos.UserRepo, container.Audit)
	container.Loan = NewLoanService(repos.LoanRepo, repos.PaymentRepo, container.Audit, container.Notifier)

	container.Token = NewTokenService(cfg, container.User)

	return container
}
