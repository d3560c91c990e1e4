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
	"github.com/google/uuid"
)

// divisionService handles business logic for organizational divisions.
type divisionService struct {
	divisionRepo portsrepo.DivisionRepositoryFacade
	userRepo     portsrepo.UserReader
	budgetRepo   portsrepo.BudgetReader
	expenseRepo  portsrepo.ExpenseReader
}

// NewDivisionService creates a new division service.
func NewDivisionService(dr portsrepo.DivisionRepositoryFacade, ur portsrepo.UserReader, br portsrepo.BudgetReader, er portsrepo.ExpenseReader) portssvc.DivisionSvcFacade {
	return &divisionService{
		divisionRepo: dr,
		userRepo:     ur,
		budgetRepo:   br,
		expenseRepo:  er,
	}
}

var _ portssvc.DivisionSvcFacade = (*divisionService)(nil)

// requireAdmin verifies that the acting user exists, is active and holds an
// administrative role.
func requireAdmin(ctx context.Context, userRepo portsrepo.UserReader, userID string) (*domain.User, error) {
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
	if !user.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: role %s cannot perform this operation", apperrors.ErrForbidden, user.Role)
	}
	return user, nil
}

// GetDivisionByID retrieves a division by its ID.
func (s *divisionService) GetDivisionByID(ctx context.Context, divisionID string) (*domain.Division, error) {
	division, err := s.divisionRepo.FindDivisionByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	return division, nil
}

// ListDivisions retrieves a paginated list of divisions.
func (s *divisionService) ListDivisions(ctx context.Context, params dto.ListDivisionsParams) (*dto.ListDivisionsResponse, error) {
	divisions, nextToken, err := s.divisionRepo.ListDivisions(ctx, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list divisions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	resp := dto.ToListDivisionsResponse(divisions, nextToken)
	return &resp, nil
}

// CreateDivision creates a new division. Only admins may create divisions.
func (s *divisionService) CreateDivision(ctx context.Context, req dto.CreateDivisionRequest, creatorUserID string) (*domain.Division, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := requireAdmin(ctx, s.userRepo, creatorUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	division := domain.Division{
		DivisionID: uuid.NewString(),
		Name:       req.Name,
		NameTH:     req.NameTH,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.divisionRepo.SaveDivision(ctx, division); err != nil {
		logger.Error("Failed to save division", slog.String("error", err.Error()), slog.String("division_name", req.Name))
		return nil, fmt.Errorf("failed to create division: %w", err)
	}

	logger.Info("Division created", slog.String("division_id", division.DivisionID), slog.String("creator_user_id", creatorUserID))
	return &division, nil
}

// UpdateDivision updates an existing division. Only admins may update divisions.
func (s *divisionService) UpdateDivision(ctx context.Context, divisionID string, req dto.UpdateDivisionRequest, requestingUserID string) (*domain.Division, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := requireAdmin(ctx, s.userRepo, requestingUserID); err != nil {
		return nil, err
	}

	division, err := s.divisionRepo.FindDivisionByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		division.Name = *req.Name
	}
	if req.NameTH != nil {
		division.NameTH = *req.NameTH
	}
	if req.IsActive != nil {
		division.IsActive = *req.IsActive
	}
	division.LastUpdatedAt = time.Now().UTC()
	division.LastUpdatedBy = requestingUserID

	if err := s.divisionRepo.UpdateDivision(ctx, *division); err != nil {
		logger.Error("Failed to update division", slog.String("error", err.Error()), slog.String("division_id", divisionID))
		return nil, fmt.Errorf("failed to update division %s: %w", divisionID, err)
	}

	logger.Info("Division updated", slog.String("division_id", divisionID), slog.String("updated_by", requestingUserID))
	return division, nil
}

// DeleteDivision removes a division. A division that still owns users,
// budgets or expenses cannot be deleted; the check runs here rather than
// relying on foreign-key failures so the caller gets a usable message.
func (s *divisionService) DeleteDivision(ctx context.Context, divisionID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := requireAdmin(ctx, s.userRepo, requestingUserID); err != nil {
		return err
	}

	if _, err := s.divisionRepo.FindDivisionByID(ctx, divisionID); err != nil {
		return err
	}

	userCount, err := s.userRepo.CountUsersByDivision(ctx, divisionID)
	if err != nil {
		return fmt.Errorf("failed to count division users: %w", err)
	}
	if userCount > 0 {
		return fmt.Errorf("%w: division %s still has %d users", apperrors.ErrConflict, divisionID, userCount)
	}

	budgetCount, err := s.budgetRepo.CountBudgetsByDivision(ctx, divisionID)
	if err != nil {
		return fmt.Errorf("failed to count division budgets: %w", err)
	}
	if budgetCount > 0 {
		return fmt.Errorf("%w: division %s still has %d budgets", apperrors.ErrConflict, divisionID, budgetCount)
	}

	expenseCount, err := s.expenseRepo.CountExpensesByDivision(ctx, divisionID)
	if err != nil {
		return fmt.Errorf("failed to count division expenses: %w", err)
	}
	if expenseCount > 0 {
		return fmt.Errorf("%w: division %s still has %d expenses", apperrors.ErrConflict, divisionID, expenseCount)
	}

	if err := s.divisionRepo.DeleteDivision(ctx, divisionID); err != nil {
		logger.Error("Failed to delete division", slog.String("error", err.Error()), slog.String("division_id", divisionID))
		return fmt.Errorf("failed to delete division %s: %w", divisionID, err)
	}

	logger.Info("Division deleted", slog.String("division_id", divisionID), slog.String("deleted_by", requestingUserID))
	return nil
}
