package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/budgetgov/budget_management_app/internal/middleware"
	"github.com/budgetgov/budget_management_app/internal/utils/accounting"
	"github.com/budgetgov/budget_management_app/internal/utils/fiscal"
	"github.com/google/uuid"
)

// budgetService handles business logic for fiscal-year budgets.
type budgetService struct {
	budgetRepo   portsrepo.BudgetRepositoryWithTx
	divisionRepo portsrepo.DivisionReader
	userRepo     portsrepo.UserReader
	approvals    portssvc.ApprovalFanOutSvc
}

// NewBudgetService creates a new budget service.
func NewBudgetService(
	br portsrepo.BudgetRepositoryWithTx,
	dr portsrepo.DivisionReader,
	ur portsrepo.UserReader,
	approvals portssvc.ApprovalFanOutSvc,
) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:   br,
		divisionRepo: dr,
		userRepo:     ur,
		approvals:    approvals,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// requireRecordCreator verifies the acting user exists, is active and holds a
// role that may create budget records.
func requireRecordCreator(ctx context.Context, userRepo portsrepo.UserReader, userID string) (*domain.User, error) {
	user, err := userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: acting user %s not found", apperrors.ErrUnauthorized, userID)
		}
		return nil, fmt.Errorf("failed to load acting user %s: %w", userID, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: acting user %s is inactive", apperrors.ErrUnauthorized, userID)
	}
	if !user.Role.CanCreateBudgetRecords() {
		return nil, fmt.Errorf("%w: role %s cannot create budget records", apperrors.ErrForbidden, user.Role)
	}
	return user, nil
}

// GetBudgetByID retrieves a budget with its remaining amount computed from
// the active allocations carved out of it.
func (s *budgetService) GetBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	allocated, err := s.budgetRepo.SumActiveAllocations(ctx, nil, budgetID)
	if err != nil {
		return nil, err
	}
	budget.RemainingAmount = accounting.Available(budget.AllocatedAmount, allocated)
	return budget, nil
}

// ListBudgets retrieves a paginated list of budgets. Remaining amounts are
// derived per row.
func (s *budgetService) ListBudgets(ctx context.Context, params dto.ListBudgetsParams) (*dto.ListBudgetsResponse, error) {
	budgets, nextToken, err := s.budgetRepo.ListBudgets(ctx, params.FiscalYear, params.DivisionID, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list budgets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	for i := range budgets {
		allocated, sumErr := s.budgetRepo.SumActiveAllocations(ctx, nil, budgets[i].BudgetID)
		if sumErr != nil {
			return nil, sumErr
		}
		budgets[i].RemainingAmount = accounting.Available(budgets[i].AllocatedAmount, allocated)
	}

	resp := dto.ToListBudgetsResponse(budgets, nextToken)
	return &resp, nil
}

// CreateBudget creates a new fiscal-year budget. Non-admin creators stay
// inside their own division. The funding period defaults to the Thai fiscal
// year (Oct 1 through Sep 30) when dates are omitted.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := requireRecordCreator(ctx, s.userRepo, creatorUserID)
	if err != nil {
		return nil, err
	}
	if !creator.Role.IsAdmin() && creator.DivisionID != req.DivisionID {
		return nil, fmt.Errorf("%w: budgets can only be created in your own division", apperrors.ErrAccessDenied)
	}

	if req.AllocatedAmount.IsNegative() || req.AllocatedAmount.IsZero() {
		return nil, fmt.Errorf("%w: allocated amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.divisionRepo.FindDivisionByID(ctx, req.DivisionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: division %s not found", apperrors.ErrValidation, req.DivisionID)
		}
		return nil, fmt.Errorf("failed to validate division: %w", err)
	}

	startDate, endDate := fiscal.Period(req.FiscalYear)
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:        uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		NameTH:          req.NameTH,
		FiscalYear:      req.FiscalYear,
		DivisionID:      req.DivisionID,
		Category:        req.Category,
		Plan:            req.Plan,
		Output:          req.Output,
		Activity:        req.Activity,
		AllocatedAmount: req.AllocatedAmount,
		StartDate:       startDate,
		EndDate:         endDate,
		Status:          domain.BudgetActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	budget.RemainingAmount = budget.AllocatedAmount

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()), slog.String("budget_code", req.Code))
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	logger.Info("Budget created",
		slog.String("budget_id", budget.BudgetID),
		slog.Int("fiscal_year", budget.FiscalYear),
		slog.String("creator_user_id", creatorUserID))
	return &budget, nil
}

// UpdateBudget updates an existing budget. Shrinking the ceiling below the
// amount already committed to active allocations is refused.
func (s *budgetService) UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, requestingUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := requireRecordCreator(ctx, s.userRepo, requestingUserID); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		budget.Name = *req.Name
	}
	if req.NameTH != nil {
		budget.NameTH = *req.NameTH
	}
	if req.Category != nil {
		budget.Category = *req.Category
	}
	if req.Plan != nil {
		budget.Plan = *req.Plan
	}
	if req.Output != nil {
		budget.Output = *req.Output
	}
	if req.Activity != nil {
		budget.Activity = *req.Activity
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = *req.EndDate
	}
	if req.AllocatedAmount != nil {
		if req.AllocatedAmount.IsNegative() || req.AllocatedAmount.IsZero() {
			return nil, fmt.Errorf("%w: allocated amount must be positive", apperrors.ErrValidation)
		}
		committed, sumErr := s.budgetRepo.SumActiveAllocations(ctx, nil, budgetID)
		if sumErr != nil {
			return nil, sumErr
		}
		if req.AllocatedAmount.LessThan(committed) {
			return nil, fmt.Errorf("%w: new ceiling %s is below the %s already committed to allocations",
				apperrors.ErrValidation, req.AllocatedAmount.String(), committed.String())
		}
		budget.AllocatedAmount = *req.AllocatedAmount
	}
	if !budget.EndDate.After(budget.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	budget.LastUpdatedAt = time.Now().UTC()
	budget.LastUpdatedBy = requestingUserID

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		logger.Error("Failed to update budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to update budget %s: %w", budgetID, err)
	}

	logger.Info("Budget updated", slog.String("budget_id", budgetID), slog.String("updated_by", requestingUserID))
	return budget, nil
}

// DeactivateBudget retires a budget. Only admins may deactivate, and only
// while the budget owns no expenses; spend history has to stay anchored to a
// live budget.
func (s *budgetService) DeactivateBudget(ctx context.Context, budgetID string, requestingUserID string) error {
	if _, err := requireAdmin(ctx, s.userRepo, requestingUserID); err != nil {
		return err
	}

	expenseCount, err := s.budgetRepo.CountExpensesByBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("failed to count budget expenses: %w", err)
	}
	if expenseCount > 0 {
		return fmt.Errorf("%w: budget %s still has %d expenses", apperrors.ErrConflict, budgetID, expenseCount)
	}

	if err := s.budgetRepo.UpdateBudgetStatus(ctx, budgetID, domain.BudgetInactive, requestingUserID); err != nil {
		return fmt.Errorf("failed to deactivate budget %s: %w", budgetID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget deactivated", slog.String("budget_id", budgetID), slog.String("deactivated_by", requestingUserID))
	return nil
}

// SubmitBudgetForApproval opens an approval round for the budget. Budgets
// carry no pending status; re-submission simply opens another round.
func (s *budgetService) SubmitBudgetForApproval(ctx context.Context, budgetID string, requestingUserID string) (*dto.SubmissionResponse, error) {
	if _, err := requireRecordCreator(ctx, s.userRepo, requestingUserID); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	approvals, err := s.approvals.OpenApprovalRound(ctx, domain.BudgetSubject(budgetID), budget.DivisionID, requestingUserID)
	if err != nil {
		return nil, err
	}

	return &dto.SubmissionResponse{
		SubjectType: domain.ApprovalTypeBudget,
		SubjectID:   budgetID,
		Approvals:   dto.ToApprovalResponses(approvals),
	}, nil
}
