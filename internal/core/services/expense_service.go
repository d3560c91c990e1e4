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
	"github.com/google/uuid"
)

// cancelComment is recorded on pending approvals when the requester withdraws
// the expense before the round resolves.
const cancelComment = "Cancelled by the requester before the approval round resolved"

// expenseService handles business logic for spend requests.
type expenseService struct {
	expenseRepo    portsrepo.ExpenseRepositoryWithTx
	budgetRepo     portsrepo.BudgetRepositoryWithTx
	allocationRepo portsrepo.AllocationReader
	approvalRepo   portsrepo.ApprovalWriter
	userRepo       portsrepo.UserReader
	approvals      portssvc.ApprovalFanOutSvc
}

// NewExpenseService creates a new expense service.
func NewExpenseService(
	er portsrepo.ExpenseRepositoryWithTx,
	br portsrepo.BudgetRepositoryWithTx,
	alr portsrepo.AllocationReader,
	apr portsrepo.ApprovalWriter,
	ur portsrepo.UserReader,
	approvals portssvc.ApprovalFanOutSvc,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo:    er,
		budgetRepo:     br,
		allocationRepo: alr,
		approvalRepo:   apr,
		userRepo:       ur,
		approvals:      approvals,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// GetExpenseByID retrieves an expense by ID.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// ListExpenses retrieves a paginated list of expenses.
func (s *expenseService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	expenses, nextToken, err := s.expenseRepo.ListExpenses(ctx, params.BudgetID, params.DivisionID, params.Status, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list expenses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	resp := dto.ToListExpensesResponse(expenses, nextToken)
	return &resp, nil
}

// ListExpenseDocuments retrieves the attachment records of an expense.
func (s *expenseService) ListExpenseDocuments(ctx context.Context, expenseID string) ([]domain.ExpenseDocument, error) {
	if _, err := s.expenseRepo.FindExpenseByID(ctx, expenseID); err != nil {
		return nil, err
	}
	return s.expenseRepo.FindDocumentsByExpenseID(ctx, expenseID)
}

// CreateExpense records a new spend request in DRAFT. The budget row is locked
// while the funds checks run so concurrent expenses cannot jointly overspend.
// When the expense targets an allocation, the allocation's own remaining
// amount is checked under the same lock, and the allocation must belong to
// the named budget.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := requireRecordCreator(ctx, s.userRepo, creatorUserID)
	if err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, req.BudgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: budget %s not found", apperrors.ErrValidation, req.BudgetID)
		}
		return nil, err
	}
	if budget.Status != domain.BudgetActive {
		return nil, fmt.Errorf("%w: budget %s is not active", apperrors.ErrInvalidState, req.BudgetID)
	}

	consumed, err := s.budgetRepo.SumCountedExpenses(ctx, tx, req.BudgetID)
	if err != nil {
		return nil, err
	}
	available := accounting.Available(budget.AllocatedAmount, consumed)
	if req.Amount.GreaterThan(available) {
		return nil, apperrors.NewInsufficientFundsError(req.Amount, available)
	}

	if req.AllocationID != nil {
		allocation, allocErr := s.allocationRepo.FindAllocationByID(ctx, *req.AllocationID)
		if allocErr != nil {
			if errors.Is(allocErr, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: allocation %s not found", apperrors.ErrValidation, *req.AllocationID)
			}
			return nil, allocErr
		}
		if allocation.BudgetID != req.BudgetID {
			return nil, fmt.Errorf("%w: allocation %s does not belong to budget %s",
				apperrors.ErrValidation, *req.AllocationID, req.BudgetID)
		}
		if allocation.Status != domain.AllocationActive {
			return nil, fmt.Errorf("%w: allocation %s is not active", apperrors.ErrInvalidState, *req.AllocationID)
		}
		allocConsumed, sumErr := s.allocationRepo.SumCountedExpensesByAllocation(ctx, tx, *req.AllocationID)
		if sumErr != nil {
			return nil, sumErr
		}
		allocAvailable := accounting.Available(allocation.AllocatedAmount, allocConsumed)
		if req.Amount.GreaterThan(allocAvailable) {
			return nil, apperrors.NewInsufficientFundsError(req.Amount, allocAvailable)
		}
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:     uuid.NewString(),
		Code:          req.Code,
		Title:         req.Title,
		TitleTH:       req.TitleTH,
		Description:   req.Description,
		DescriptionTH: req.DescriptionTH,
		Amount:        req.Amount,
		ExpenseDate:   req.ExpenseDate,
		Category:      req.Category,
		DivisionID:    budget.DivisionID,
		BudgetID:      req.BudgetID,
		AllocationID:  req.AllocationID,
		Status:        domain.ExpenseDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.UserID,
		},
	}

	if err := s.expenseRepo.SaveExpenseInTx(ctx, tx, expense); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("budget_id", req.BudgetID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	logger.Info("Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("budget_id", req.BudgetID),
		slog.String("amount", expense.Amount.String()),
		slog.String("creator_user_id", creatorUserID))
	return &expense, nil
}

// UpdateExpense updates an expense. Only the requester or an admin may edit,
// and an APPROVED or PAID expense is frozen for everyone but admins. Raising
// the amount re-runs the funds checks under the budget's row lock.
func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := requireRecordCreator(ctx, s.userRepo, requestingUserID)
	if err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy != requestingUserID && !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only the requester or an admin can edit expense %s", apperrors.ErrAccessDenied, expenseID)
	}
	if (expense.Status == domain.ExpenseApproved || expense.Status == domain.ExpensePaid) && !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: expense %s is %s and can only be edited by an admin",
			apperrors.ErrInvalidState, expenseID, expense.Status)
	}

	if req.Title != nil {
		expense.Title = *req.Title
	}
	if req.TitleTH != nil {
		expense.TitleTH = *req.TitleTH
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.DescriptionTH != nil {
		expense.DescriptionTH = *req.DescriptionTH
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	amountGrew := false
	if req.Amount != nil {
		if req.Amount.IsNegative() || req.Amount.IsZero() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		amountGrew = req.Amount.GreaterThan(expense.Amount)
		expense.Amount = *req.Amount
	}
	expense.LastUpdatedAt = time.Now().UTC()
	expense.LastUpdatedBy = requestingUserID

	if !amountGrew {
		if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
			logger.Error("Failed to update expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
			return nil, fmt.Errorf("failed to update expense %s: %w", expenseID, err)
		}
		logger.Info("Expense updated", slog.String("expense_id", expenseID), slog.String("updated_by", requestingUserID))
		return expense, nil
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, expense.BudgetID)
	if err != nil {
		return nil, err
	}
	consumed, err := s.budgetRepo.SumCountedExpenses(ctx, tx, expense.BudgetID)
	if err != nil {
		return nil, err
	}
	// The stored amount already counts in the sum unless the expense stopped
	// counting; only the increase competes for the remaining funds.
	stored, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	storedCounts := stored.Status != domain.ExpenseRejected && stored.Status != domain.ExpenseCancelled
	if storedCounts {
		consumed = consumed.Sub(stored.Amount)
	}
	available := accounting.Available(budget.AllocatedAmount, consumed)
	if expense.Amount.GreaterThan(available) {
		return nil, apperrors.NewInsufficientFundsError(expense.Amount, available)
	}

	if expense.AllocationID != nil {
		allocation, allocErr := s.allocationRepo.FindAllocationByID(ctx, *expense.AllocationID)
		if allocErr != nil {
			return nil, allocErr
		}
		allocConsumed, sumErr := s.allocationRepo.SumCountedExpensesByAllocation(ctx, tx, *expense.AllocationID)
		if sumErr != nil {
			return nil, sumErr
		}
		if storedCounts {
			allocConsumed = allocConsumed.Sub(stored.Amount)
		}
		allocAvailable := accounting.Available(allocation.AllocatedAmount, allocConsumed)
		if expense.Amount.GreaterThan(allocAvailable) {
			return nil, apperrors.NewInsufficientFundsError(expense.Amount, allocAvailable)
		}
	}

	if err := s.expenseRepo.UpdateExpenseInTx(ctx, tx, *expense); err != nil {
		logger.Error("Failed to update expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense %s: %w", expenseID, err)
	}
	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	logger.Info("Expense updated", slog.String("expense_id", expenseID), slog.String("updated_by", requestingUserID))
	return expense, nil
}

// SubmitExpenseForApproval moves a draft expense to PENDING_APPROVAL and
// opens its approval round, both in one transaction.
func (s *expenseService) SubmitExpenseForApproval(ctx context.Context, expenseID string, requestingUserID string) (*dto.SubmissionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := requireRecordCreator(ctx, s.userRepo, requestingUserID); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.ExpenseDraft {
		return nil, fmt.Errorf("%w: only draft expenses can be submitted, expense %s is %s",
			apperrors.ErrInvalidState, expenseID, expense.Status)
	}

	tx, err := s.expenseRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.expenseRepo.Rollback(ctx, tx)

	if err := s.expenseRepo.UpdateExpenseStatusInTx(ctx, tx, expenseID, domain.ExpensePendingApproval, requestingUserID); err != nil {
		return nil, fmt.Errorf("failed to mark expense pending: %w", err)
	}

	approvals, err := s.approvals.OpenApprovalRoundInTx(ctx, tx, domain.ExpenseSubject(expenseID), expense.DivisionID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit submission: %w", err)
	}

	logger.Info("Expense submitted for approval",
		slog.String("expense_id", expenseID),
		slog.Int("approver_count", len(approvals)),
		slog.String("submitted_by", requestingUserID))

	return &dto.SubmissionResponse{
		SubjectType: domain.ApprovalTypeExpense,
		SubjectID:   expenseID,
		Approvals:   dto.ToApprovalResponses(approvals),
	}, nil
}

// CancelExpense withdraws a draft or pending expense. Cancelling a pending
// expense closes its approval round by rejecting the still-pending approvals,
// all in one transaction.
func (s *expenseService) CancelExpense(ctx context.Context, expenseID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: acting user %s not found", apperrors.ErrUnauthorized, requestingUserID)
		}
		return err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.CreatedBy != requestingUserID && !actor.Role.IsAdmin() {
		return fmt.Errorf("%w: only the requester or an admin can cancel expense %s", apperrors.ErrAccessDenied, expenseID)
	}
	if expense.Status != domain.ExpenseDraft && expense.Status != domain.ExpensePendingApproval {
		return fmt.Errorf("%w: expense %s is %s and can no longer be cancelled",
			apperrors.ErrInvalidState, expenseID, expense.Status)
	}

	tx, err := s.expenseRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.expenseRepo.Rollback(ctx, tx)

	if err := s.expenseRepo.UpdateExpenseStatusInTx(ctx, tx, expenseID, domain.ExpenseCancelled, requestingUserID); err != nil {
		return fmt.Errorf("failed to cancel expense %s: %w", expenseID, err)
	}
	if expense.Status == domain.ExpensePendingApproval {
		rejected, bulkErr := s.approvalRepo.BulkRejectPendingInTx(ctx, tx, domain.ExpenseSubject(expenseID), cancelComment, requestingUserID)
		if bulkErr != nil {
			return fmt.Errorf("failed to close approval round for expense %s: %w", expenseID, bulkErr)
		}
		logger.Info("Pending approvals closed by cancellation",
			slog.String("expense_id", expenseID),
			slog.Int("closed_count", len(rejected)))
	}

	if err := s.expenseRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	logger.Info("Expense cancelled", slog.String("expense_id", expenseID), slog.String("cancelled_by", requestingUserID))
	return nil
}

// DeleteExpense removes a draft expense and its document records. Anything
// past DRAFT has an audit trail that must survive, so it can only be
// cancelled, never deleted.
func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string, requestingUserID string) error {
	actor, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: acting user %s not found", apperrors.ErrUnauthorized, requestingUserID)
		}
		return err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.CreatedBy != requestingUserID && !actor.Role.IsAdmin() {
		return fmt.Errorf("%w: only the requester or an admin can delete expense %s", apperrors.ErrAccessDenied, expenseID)
	}
	if expense.Status != domain.ExpenseDraft {
		return fmt.Errorf("%w: only draft expenses can be deleted, expense %s is %s",
			apperrors.ErrInvalidState, expenseID, expense.Status)
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Expense deleted", slog.String("expense_id", expenseID), slog.String("deleted_by", requestingUserID))
	return nil
}

// MarkExpensePaid transitions an approved expense to PAID.
func (s *expenseService) MarkExpensePaid(ctx context.Context, expenseID string, requestingUserID string) error {
	if _, err := requireAdmin(ctx, s.userRepo, requestingUserID); err != nil {
		return err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.Status != domain.ExpenseApproved {
		return fmt.Errorf("%w: only approved expenses can be paid, expense %s is %s",
			apperrors.ErrInvalidState, expenseID, expense.Status)
	}

	if err := s.expenseRepo.UpdateExpenseStatus(ctx, expenseID, domain.ExpensePaid, requestingUserID); err != nil {
		return fmt.Errorf("failed to mark expense %s paid: %w", expenseID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Expense paid", slog.String("expense_id", expenseID), slog.String("paid_by", requestingUserID))
	return nil
}

// AddExpenseDocument attaches a document record to an expense.
func (s *expenseService) AddExpenseDocument(ctx context.Context, expenseID string, req dto.AddExpenseDocumentRequest, requestingUserID string) (*domain.ExpenseDocument, error) {
	if _, err := requireRecordCreator(ctx, s.userRepo, requestingUserID); err != nil {
		return nil, err
	}
	if _, err := s.expenseRepo.FindExpenseByID(ctx, expenseID); err != nil {
		return nil, err
	}

	document := domain.ExpenseDocument{
		DocumentID: uuid.NewString(),
		ExpenseID:  expenseID,
		FileName:   req.FileName,
		FileURL:    req.FileURL,
		UploadedBy: requestingUserID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.expenseRepo.SaveDocument(ctx, document); err != nil {
		return nil, fmt.Errorf("failed to attach document to expense %s: %w", expenseID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Expense document attached",
		slog.String("expense_id", expenseID),
		slog.String("document_id", document.DocumentID))
	return &document, nil
}

// RemoveExpenseDocument removes a document record from an expense.
func (s *expenseService) RemoveExpenseDocument(ctx context.Context, expenseID string, documentID string, requestingUserID string) error {
	if _, err := requireRecordCreator(ctx, s.userRepo, requestingUserID); err != nil {
		return err
	}

	documents, err := s.expenseRepo.FindDocumentsByExpenseID(ctx, expenseID)
	if err != nil {
		return err
	}
	found := false
	for _, d := range documents {
		if d.DocumentID == documentID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: document %s not found on expense %s", apperrors.ErrNotFound, documentID, expenseID)
	}

	if err := s.expenseRepo.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to remove document %s: %w", documentID, err)
	}
	return nil
}
