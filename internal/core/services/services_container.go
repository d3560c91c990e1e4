package services

import (
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Division = NewDivisionService(repos.DivisionRepo, repos.UserRepo, repos.BudgetRepo, repos.ExpenseRepo)
	container.User = NewUserService(repos.UserRepo, repos.DivisionRepo, repos.BudgetRepo, repos.ExpenseRepo)
	container.Notification = NewNotificationService(repos.NotificationRepo)

	// The approval service is created before the submission flows that fan out
	// through it.
	container.Approval = NewApprovalService(
		repos.ApprovalRepo,
		repos.UserRepo,
		repos.BudgetRepo,
		repos.ExpenseRepo,
		repos.NotificationRepo,
	)

	container.Budget = NewBudgetService(repos.BudgetRepo, repos.DivisionRepo, repos.UserRepo, container.Approval)
	container.Allocation = NewAllocationService(repos.AllocationRepo, repos.BudgetRepo, repos.UserRepo)
	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.BudgetRepo,
		repos.AllocationRepo,
		repos.ApprovalRepo,
		repos.UserRepo,
		container.Approval,
	)

	container.Reporting = NewReportingService(repos.ReportingRepo, repos.UserRepo)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}
