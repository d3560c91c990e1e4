package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	DivisionRepo     DivisionRepositoryFacade
	UserRepo         UserRepositoryFacade
	BudgetRepo       BudgetRepositoryWithTx
	AllocationRepo   AllocationRepositoryWithTx
	ExpenseRepo      ExpenseRepositoryWithTx
	ApprovalRepo     ApprovalRepositoryWithTx
	NotificationRepo NotificationRepositoryFacade
	ReportingRepo    ReportingRepository
}
