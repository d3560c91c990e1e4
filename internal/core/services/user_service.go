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
	"github.com/budgetgov/budget_management_app/internal/utils"
	"github.com/google/uuid"
)

// userService handles business logic related to users and authentication.
type userService struct {
	userRepo     portsrepo.UserRepositoryFacade
	divisionRepo portsrepo.DivisionReader
	budgetRepo   portsrepo.BudgetReader
	expenseRepo  portsrepo.ExpenseReader
}

// NewUserService creates a new user service.
func NewUserService(ur portsrepo.UserRepositoryFacade, dr portsrepo.DivisionReader, br portsrepo.BudgetReader, er portsrepo.ExpenseReader) portssvc.UserSvcFacade {
	return &userService{
		userRepo:     ur,
		divisionRepo: dr,
		budgetRepo:   br,
		expenseRepo:  er,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by their ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByEmail retrieves a user by their email address.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, email)
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) (*dto.ListUsersResponse, error) {
	users, nextToken, err := s.userRepo.ListUsers(ctx, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	resp := dto.ToListUsersResponse(users, nextToken)
	return &resp, nil
}

// CreateUser registers a new user. Only admins may create users.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := requireAdmin(ctx, s.userRepo, creatorUserID)
	if err != nil {
		return nil, err
	}
	// Only a super admin may mint another super admin.
	if req.Role == domain.RoleSuperAdmin && creator.Role != domain.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: only a super admin can create a super admin", apperrors.ErrForbidden)
	}

	if _, err := s.divisionRepo.FindDivisionByID(ctx, req.DivisionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: division %s not found", apperrors.ErrValidation, req.DivisionID)
		}
		return nil, fmt.Errorf("failed to validate division: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		NameTH:       req.NameTH,
		PasswordHash: passwordHash,
		Role:         req.Role,
		DivisionID:   req.DivisionID,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()), slog.String("email", req.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)), slog.String("creator_user_id", creatorUserID))
	return &user, nil
}

// UpdateUser updates a user. Users may rename themselves; role, division and
// activity changes require an admin.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Nobody deactivates their own account, not even an admin.
	if req.IsActive != nil && !*req.IsActive && requestingUserID == userID {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", apperrors.ErrValidation)
	}

	privilegedChange := req.Role != nil || req.DivisionID != nil || req.IsActive != nil
	if privilegedChange || requestingUserID != userID {
		if _, err := requireAdmin(ctx, s.userRepo, requestingUserID); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.NameTH != nil {
		user.NameTH = *req.NameTH
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DivisionID != nil {
		if _, err := s.divisionRepo.FindDivisionByID(ctx, *req.DivisionID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: division %s not found", apperrors.ErrValidation, *req.DivisionID)
			}
			return nil, fmt.Errorf("failed to validate division: %w", err)
		}
		user.DivisionID = *req.DivisionID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	logger.Info("User updated", slog.String("user_id", userID), slog.String("updated_by", requestingUserID))
	return user, nil
}

// UpdateRefreshToken stores the hash and expiry of a user's refresh token.
func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

// ClearRefreshToken clears the refresh token for a user.
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

// DeleteUser soft-deletes a user. Only a super admin may delete users, never
// their own account, and never a user who still owns budgets or expenses.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := requireAdmin(ctx, s.userRepo, requestingUserID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleSuperAdmin {
		return fmt.Errorf("%w: only a super admin can delete users", apperrors.ErrForbidden)
	}
	if userID == requestingUserID {
		return fmt.Errorf("%w: cannot delete your own account", apperrors.ErrValidation)
	}

	budgetCount, err := s.budgetRepo.CountBudgetsByCreator(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count user budgets: %w", err)
	}
	if budgetCount > 0 {
		return fmt.Errorf("%w: user %s still has %d budgets", apperrors.ErrConflict, userID, budgetCount)
	}
	expenseCount, err := s.expenseRepo.CountExpensesByCreator(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count user expenses: %w", err)
	}
	if expenseCount > 0 {
		return fmt.Errorf("%w: user %s still has %d expenses", apperrors.ErrConflict, userID, expenseCount)
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	logger.Info("User deleted", slog.String("user_id", userID), slog.String("deleted_by", requestingUserID))
	return nil
}

// AuthenticateUser authenticates a user with email and password.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a bad password, so callers cannot probe for accounts.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if !user.IsActive {
		logger.Warn("Login attempt for inactive user", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// FindOrCreateGoogleUser looks up the user for a verified Google identity,
// creating a viewer account on first login. SSO users have no usable password.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		if !user.IsActive {
			return nil, apperrors.ErrUnauthorized
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	// First login: provision a read-only account with no division assignment
	// until an admin places them.
	now := time.Now().UTC()
	newUser := domain.User{
		UserID:   uuid.NewString(),
		Email:    email,
		Name:     name,
		Role:     domain.RoleViewer,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	newUser.CreatedBy = newUser.UserID
	newUser.LastUpdatedBy = newUser.UserID

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		logger.Error("Failed to provision google user", slog.String("error", err.Error()), slog.String("email", email))
		return nil, fmt.Errorf("failed to provision google user: %w", err)
	}

	logger.Info("Google user provisioned", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}
