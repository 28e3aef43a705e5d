package repositories

// RepositoryProvider bundles all repository facades for dependency injection.
type RepositoryProvider struct {
	LoanRepo         LoanRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	UserRepo         UserRepositoryFacade
	AuditRepo        AuditRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
}
