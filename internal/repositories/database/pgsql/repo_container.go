package pgsql

import (
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	divisionRepo := newPgxDivisionRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	budgetRepo := newPgxBudgetRepository(dbPool)
	allocationRepo := newPgxAllocationRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	approvalRepo := newPgxApprovalRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DivisionRepo:     divisionRepo,
		UserRepo:         userRepo,
		BudgetRepo:       budgetRepo,
		AllocationRepo:   allocationRepo,
		ExpenseRepo:      expenseRepo,
		ApprovalRepo:     approvalRepo,
		NotificationRepo: notificationRepo,
		ReportingRepo:    reportingRepo,
	}
}
