package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/budgetgov/budget_management_app/internal/middleware"
	"github.com/budgetgov/budget_management_app/internal/utils"
	"github.com/budgetgov/budget_management_app/internal/utils/accounting"
	"github.com/google/uuid"
)

// allocationService handles business logic for budget allocations.
type allocationService struct {
	allocationRepo portsrepo.AllocationRepositoryWithTx
	budgetRepo     portsrepo.BudgetRepositoryWithTx
	userRepo       portsrepo.UserReader
}

// NewAllocationService creates a new allocation service.
func NewAllocationService(
	ar portsrepo.AllocationRepositoryWithTx,
	br portsrepo.BudgetRepositoryWithTx,
	ur portsrepo.UserReader,
) portssvc.AllocationSvcFacade {
	return &allocationService{
		allocationRepo: ar,
		budgetRepo:     br,
		userRepo:       ur,
	}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// GetAllocationByID retrieves an allocation with its remaining amount derived
// from the expenses counted against it.
func (s *allocationService) GetAllocationByID(ctx context.Context, allocationID string) (*domain.BudgetAllocation, error) {
	allocation, err := s.allocationRepo.FindAllocationByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	consumed, err := s.allocationRepo.SumCountedExpensesByAllocation(ctx, nil, allocationID)
	if err != nil {
		return nil, err
	}
	allocation.RemainingAmount = accounting.Available(allocation.AllocatedAmount, consumed)
	return allocation, nil
}

// ListAllocationsByBudget retrieves a paginated list of a budget's allocations.
func (s *allocationService) ListAllocationsByBudget(ctx context.Context, budgetID string, params dto.ListAllocationsParams) (*dto.ListAllocationsResponse, error) {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return nil, err
	}

	allocations, nextToken, err := s.allocationRepo.ListAllocationsByBudget(ctx, budgetID, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list allocations", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to list allocations for budget %s: %w", budgetID, err)
	}

	for i := range allocations {
		consumed, sumErr := s.allocationRepo.SumCountedExpensesByAllocation(ctx, nil, allocations[i].AllocationID)
		if sumErr != nil {
			return nil, sumErr
		}
		allocations[i].RemainingAmount = accounting.Available(allocations[i].AllocatedAmount, consumed)
	}

	resp := dto.ToListAllocationsResponse(allocations, nextToken)
	return &resp, nil
}

// CreateAllocation carves a new allocation out of a budget's remaining amount.
// The budget row is locked for the duration of the check-and-insert so two
// concurrent allocations cannot both pass the funds check.
func (s *allocationService) CreateAllocation(ctx context.Context, budgetID string, req dto.CreateAllocationRequest, creatorUserID string) (*domain.BudgetAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := requireRecordCreator(ctx, s.userRepo, creatorUserID); err != nil {
		return nil, err
	}
	if req.AllocatedAmount.IsNegative() || req.AllocatedAmount.IsZero() {
		return nil, fmt.Errorf("%w: allocated amount must be positive", apperrors.ErrValidation)
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.Status != domain.BudgetActive {
		return nil, fmt.Errorf("%w: budget %s is not active", apperrors.ErrInvalidState, budgetID)
	}

	committed, err := s.budgetRepo.SumActiveAllocations(ctx, tx, budgetID)
	if err != nil {
		return nil, err
	}
	available := accounting.Available(budget.AllocatedAmount, committed)
	if req.AllocatedAmount.GreaterThan(available) {
		return nil, apperrors.NewInsufficientFundsError(req.AllocatedAmount, available)
	}

	now := time.Now().UTC()
	startDate, endDate := budget.StartDate, budget.EndDate
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	allocation := domain.BudgetAllocation{
		AllocationID:    uuid.NewString(),
		Code:            utils.GenerateAllocationCode(budget.FiscalYear, now),
		Name:            req.Name,
		NameTH:          req.NameTH,
		Description:     req.Description,
		BudgetID:        budgetID,
		AllocatedAmount: req.AllocatedAmount,
		Status:          domain.AllocationActive,
		StartDate:       startDate,
		EndDate:         endDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	allocation.RemainingAmount = allocation.AllocatedAmount

	if err := s.allocationRepo.SaveAllocationInTx(ctx, tx, allocation); err != nil {
		logger.Error("Failed to save allocation", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit allocation: %w", err)
	}

	logger.Info("Allocation created",
		slog.String("allocation_id", allocation.AllocationID),
		slog.String("budget_id", budgetID),
		slog.String("amount", allocation.AllocatedAmount.String()),
		slog.String("creator_user_id", creatorUserID))
	return &allocation, nil
}

// UpdateAllocation updates an existing allocation. Re-activating an inactive
// allocation or changing the amount of an active one re-runs the funds check
// against the parent budget under lock, excluding the allocation's own stored
// amount from the committed sum.
func (s *allocationService) UpdateAllocation(ctx context.Context, allocationID string, req dto.UpdateAllocationRequest, requestingUserID string) (*domain.BudgetAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := requireRecordCreator(ctx, s.userRepo, requestingUserID); err != nil {
		return nil, err
	}
	if req.AllocatedAmount != nil && !req.AllocatedAmount.IsPositive() {
		return nil, fmt.Errorf("%w: allocated amount must be positive", apperrors.ErrValidation)
	}

	allocation, err := s.allocationRepo.FindAllocationByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	storedAmount := allocation.AllocatedAmount
	storedStatus := allocation.Status
	reactivating := storedStatus == domain.AllocationInactive &&
		req.Status != nil && *req.Status == domain.AllocationActive
	amountChanging := req.AllocatedAmount != nil && !req.AllocatedAmount.Equal(storedAmount)

	if req.Name != nil {
		allocation.Name = *req.Name
	}
	if req.NameTH != nil {
		allocation.NameTH = *req.NameTH
	}
	if req.Description != nil {
		allocation.Description = *req.Description
	}
	if req.AllocatedAmount != nil {
		allocation.AllocatedAmount = *req.AllocatedAmount
	}
	if req.StartDate != nil {
		allocation.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		allocation.EndDate = *req.EndDate
	}
	if req.Status != nil {
		allocation.Status = *req.Status
	}
	if !allocation.EndDate.After(allocation.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}
	allocation.LastUpdatedAt = time.Now().UTC()
	allocation.LastUpdatedBy = requestingUserID

	// The budget ceiling only needs re-checking when the allocation's amount
	// starts, or keeps, counting against it.
	needsFundsCheck := reactivating || (amountChanging && allocation.Status == domain.AllocationActive)
	if !needsFundsCheck {
		if err := s.allocationRepo.UpdateAllocation(ctx, *allocation); err != nil {
			logger.Error("Failed to update allocation", slog.String("error", err.Error()), slog.String("allocation_id", allocationID))
			return nil, fmt.Errorf("failed to update allocation %s: %w", allocationID, err)
		}
		logger.Info("Allocation updated", slog.String("allocation_id", allocationID), slog.String("updated_by", requestingUserID))
		return allocation, nil
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, allocation.BudgetID)
	if err != nil {
		return nil, err
	}
	committed, err := s.budgetRepo.SumActiveAllocations(ctx, tx, allocation.BudgetID)
	if err != nil {
		return nil, err
	}
	// An active stored row already contributes its old amount to the sum;
	// an inactive one does not.
	if storedStatus == domain.AllocationActive {
		committed = committed.Sub(storedAmount)
	}
	available := accounting.Available(budget.AllocatedAmount, committed)
	if allocation.AllocatedAmount.GreaterThan(available) {
		return nil, apperrors.NewInsufficientFundsError(allocation.AllocatedAmount, available)
	}

	if err := s.allocationRepo.UpdateAllocationInTx(ctx, tx, *allocation); err != nil {
		logger.Error("Failed to update allocation", slog.String("error", err.Error()), slog.String("allocation_id", allocationID))
		return nil, fmt.Errorf("failed to update allocation %s: %w", allocationID, err)
	}
	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit allocation update: %w", err)
	}

	logger.Info("Allocation updated under funds check", slog.String("allocation_id", allocationID), slog.String("updated_by", requestingUserID))
	return allocation, nil
}

// DeactivateAllocation retires an allocation. An allocation that still owns
// expenses cannot be retired this way; its history has to stay visible.
func (s *allocationService) DeactivateAllocation(ctx context.Context, allocationID string, requestingUserID string) error {
	if _, err := requireAdmin(ctx, s.userRepo, requestingUserID); err != nil {
		return err
	}

	if _, err := s.allocationRepo.FindAllocationByID(ctx, allocationID); err != nil {
		return err
	}

	expenseCount, err := s.allocationRepo.CountExpensesByAllocation(ctx, allocationID)
	if err != nil {
		return fmt.Errorf("failed to count allocation expenses: %w", err)
	}
	if expenseCount > 0 {
		return fmt.Errorf("%w: allocation %s still has %d expenses", apperrors.ErrConflict, allocationID, expenseCount)
	}

	if err := s.allocationRepo.UpdateAllocationStatus(ctx, allocationID, domain.AllocationInactive, requestingUserID); err != nil {
		return fmt.Errorf("failed to deactivate allocation %s: %w", allocationID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Allocation deactivated", slog.String("allocation_id", allocationID), slog.String("deactivated_by", requestingUserID))
	return nil
}
