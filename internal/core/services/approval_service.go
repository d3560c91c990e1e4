package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/budgetgov/budget_management_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// approvalService implements the multi-approver workflow: fan-out on
// submission, unanimous approval, and cascade rejection. Every state change
// runs inside a transaction that locks the subject's approval rows, so
// concurrent decisions serialize and exactly one of them resolves the round.
type approvalService struct {
	approvalRepo     portsrepo.ApprovalRepositoryWithTx
	userRepo         portsrepo.UserReader
	budgetRepo       portsrepo.BudgetReader
	expenseRepo      portsrepo.ExpenseRepositoryFacade
	notificationRepo portsrepo.NotificationWriter
}

// NewApprovalService creates a new approval service.
func NewApprovalService(
	ar portsrepo.ApprovalRepositoryWithTx,
	ur portsrepo.UserReader,
	br portsrepo.BudgetReader,
	er portsrepo.ExpenseRepositoryFacade,
	nr portsrepo.NotificationWriter,
) portssvc.ApprovalSvcFacade {
	return &approvalService{
		approvalRepo:     ar,
		userRepo:         ur,
		budgetRepo:       br,
		expenseRepo:      er,
		notificationRepo: nr,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// GetApprovalByID retrieves an approval by its ID.
func (s *approvalService) GetApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	return s.approvalRepo.FindApprovalByID(ctx, approvalID)
}

// ListApprovalsForSubject retrieves the full approval round of a subject.
func (s *approvalService) ListApprovalsForSubject(ctx context.Context, subject domain.ApprovalSubject) ([]domain.Approval, error) {
	return s.approvalRepo.ListApprovalsForSubject(ctx, subject)
}

// ListMyApprovals retrieves a paginated list of the caller's approvals.
func (s *approvalService) ListMyApprovals(ctx context.Context, approverID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	approvals, nextToken, err := s.approvalRepo.ListApprovalsByApprover(ctx, approverID, params.Status, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list approvals", slog.String("error", err.Error()), slog.String("approver_id", approverID))
		return nil, fmt.Errorf("failed to list approvals for approver %s: %w", approverID, err)
	}
	resp := dto.ToListApprovalsResponse(approvals, nextToken)
	return &resp, nil
}

// subjectDetails carries the display and routing information of a subject
// needed to build notifications.
type subjectDetails struct {
	Title   string
	TitleTH string
	OwnerID string
	Link    string
}

func (s *approvalService) subjectDetails(ctx context.Context, subject domain.ApprovalSubject) (*subjectDetails, error) {
	switch subject.Type {
	case domain.ApprovalTypeBudget:
		budget, err := s.budgetRepo.FindBudgetByID(ctx, subject.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load budget %s: %w", subject.ID, err)
		}
		return &subjectDetails{
			Title:   budget.Name,
			TitleTH: budget.NameTH,
			OwnerID: budget.CreatedBy,
			Link:    "/budgets/" + budget.BudgetID,
		}, nil
	case domain.ApprovalTypeExpense:
		expense, err := s.expenseRepo.FindExpenseByID(ctx, subject.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load expense %s: %w", subject.ID, err)
		}
		return &subjectDetails{
			Title:   expense.Title,
			TitleTH: expense.TitleTH,
			OwnerID: expense.CreatedBy,
			Link:    "/expenses/" + expense.ExpenseID,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown approval subject type %s", apperrors.ErrValidation, subject.Type)
	}
}

// OpenApprovalRound creates one pending approval per eligible approver of the
// division and notifies each of them, all within one transaction.
func (s *approvalService) OpenApprovalRound(ctx context.Context, subject domain.ApprovalSubject, divisionID string, requestingUserID string) ([]domain.Approval, error) {
	tx, err := s.approvalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.approvalRepo.Rollback(ctx, tx)

	approvals, err := s.openRoundInTx(ctx, tx, subject, divisionID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if err := s.approvalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return approvals, nil
}

// OpenApprovalRoundInTx creates an approval round inside a caller-owned
// transaction. The caller commits.
func (s *approvalService) OpenApprovalRoundInTx(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject, divisionID string, requestingUserID string) ([]domain.Approval, error) {
	return s.openRoundInTx(ctx, tx, subject, divisionID, requestingUserID)
}

func (s *approvalService) openRoundInTx(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject, divisionID string, requestingUserID string) ([]domain.Approval, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	details, err := s.subjectDetails(ctx, subject)
	if err != nil {
		return nil, err
	}

	approvers, err := s.userRepo.FindEligibleApprovers(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find approvers for division %s: %w", divisionID, err)
	}
	if len(approvers) == 0 {
		return nil, fmt.Errorf("%w: division %s has no eligible approvers", apperrors.ErrValidation, divisionID)
	}

	now := time.Now().UTC()
	approvals := make([]domain.Approval, len(approvers))
	notifications := make([]domain.Notification, len(approvers))
	for i, approver := range approvers {
		approvals[i] = domain.Approval{
			ApprovalID: uuid.NewString(),
			Subject:    subject,
			Level:      i + 1,
			ApproverID: approver.UserID,
			Status:     domain.ApprovalPending,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		}
		notifications[i] = buildFanOutNotification(subject, details, approver.UserID, now)
	}

	if err := s.approvalRepo.SaveApprovalsInTx(ctx, tx, approvals); err != nil {
		return nil, fmt.Errorf("failed to create approval round for %s: %w", subject.String(), err)
	}
	if err := s.notificationRepo.SaveNotificationsInTx(ctx, tx, notifications); err != nil {
		return nil, fmt.Errorf("failed to notify approvers for %s: %w", subject.String(), err)
	}

	logger.Info("Approval round opened",
		slog.String("subject", subject.String()),
		slog.Int("approver_count", len(approvers)),
		slog.String("requested_by", requestingUserID))
	return approvals, nil
}

// DecideApproval records an approver's decision. The whole resolution runs in
// one transaction holding row locks on the subject's approvals: a rejection
// rejects the subject and auto-rejects the siblings, the last outstanding
// approval resolves the subject as approved.
func (s *approvalService) DecideApproval(ctx context.Context, approvalID string, req dto.DecideApprovalRequest, requestingUserID string) (*domain.Approval, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Decision == domain.DecisionReject && strings.TrimSpace(req.Comments) == "" {
		return nil, fmt.Errorf("%w: comments are required when rejecting", apperrors.ErrValidation)
	}

	approval, err := s.approvalRepo.FindApprovalByID(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if approval.ApproverID != requestingUserID {
		return nil, fmt.Errorf("%w: approval %s belongs to another approver", apperrors.ErrAccessDenied, approvalID)
	}
	if approval.Status != domain.ApprovalPending {
		return nil, fmt.Errorf("%w: approval %s is %s", apperrors.ErrAlreadyDecided, approvalID, approval.Status)
	}

	details, err := s.subjectDetails(ctx, approval.Subject)
	if err != nil {
		return nil, err
	}

	tx, err := s.approvalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.approvalRepo.Rollback(ctx, tx)

	// Lock the whole round. Everything below sees a frozen snapshot of the
	// sibling approvals until commit.
	round, err := s.approvalRepo.FindApprovalsForSubjectForUpdate(ctx, tx, approval.Subject)
	if err != nil {
		return nil, err
	}

	var mine *domain.Approval
	pendingOthers := 0
	for i := range round {
		if round[i].ApprovalID == approvalID {
			mine = &round[i]
			continue
		}
		if round[i].Status == domain.ApprovalPending {
			pendingOthers++
		}
	}
	if mine == nil {
		return nil, apperrors.ErrNotFound
	}
	// Re-check under the lock: a concurrent cascade rejection may have
	// decided this approval after the initial read.
	if mine.Status != domain.ApprovalPending {
		return nil, fmt.Errorf("%w: approval %s is %s", apperrors.ErrAlreadyDecided, approvalID, mine.Status)
	}

	now := time.Now().UTC()
	mine.Comments = req.Comments
	mine.DecidedAt = &now
	mine.LastUpdatedAt = now
	mine.LastUpdatedBy = requestingUserID

	notifications := []domain.Notification{}

	switch req.Decision {
	case domain.DecisionApprove:
		mine.Status = domain.ApprovalApproved
		if err := s.approvalRepo.UpdateApprovalInTx(ctx, tx, *mine); err != nil {
			return nil, err
		}

		if pendingOthers == 0 {
			// This was the last outstanding approval. Rejected rows left over
			// from an earlier round do not block the current round.
			if approval.Subject.Type == domain.ApprovalTypeExpense {
				if err := s.expenseRepo.UpdateExpenseStatusInTx(ctx, tx, approval.Subject.ID, domain.ExpenseApproved, requestingUserID); err != nil {
					return nil, err
				}
			}
			notifications = append(notifications, buildResolvedNotification(approval.Subject, details, true, "", now))
		}

	case domain.DecisionReject:
		mine.Status = domain.ApprovalRejected
		if err := s.approvalRepo.UpdateApprovalInTx(ctx, tx, *mine); err != nil {
			return nil, err
		}

		rejectedIDs, err := s.approvalRepo.BulkRejectPendingInTx(ctx, tx, approval.Subject, domain.AutoRejectComment, requestingUserID)
		if err != nil {
			return nil, err
		}
		if approval.Subject.Type == domain.ApprovalTypeExpense {
			if err := s.expenseRepo.UpdateExpenseStatusInTx(ctx, tx, approval.Subject.ID, domain.ExpenseRejected, requestingUserID); err != nil {
				return nil, err
			}
		}
		notifications = append(notifications, buildResolvedNotification(approval.Subject, details, false, req.Comments, now))
		logger.Info("Cascade rejection applied",
			slog.String("subject", approval.Subject.String()),
			slog.Int("auto_rejected", len(rejectedIDs)))

	default:
		return nil, fmt.Errorf("%w: unknown decision %s", apperrors.ErrValidation, req.Decision)
	}

	if len(notifications) > 0 {
		if err := s.notificationRepo.SaveNotificationsInTx(ctx, tx, notifications); err != nil {
			return nil, fmt.Errorf("failed to save outcome notifications for %s: %w", approval.Subject.String(), err)
		}
	}

	if err := s.approvalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Approval decided",
		slog.String("approval_id", approvalID),
		slog.String("decision", string(req.Decision)),
		slog.String("approver_id", requestingUserID))
	return mine, nil
}

func buildFanOutNotification(subject domain.ApprovalSubject, details *subjectDetails, approverID string, now time.Time) domain.Notification {
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         approverID,
		Link:           details.Link,
		CreatedAt:      now,
	}
	if subject.Type == domain.ApprovalTypeBudget {
		n.Type = domain.NotifyBudgetApproval
		n.Title = "Budget approval requested"
		n.TitleTH = "มีงบประมาณรอการอนุมัติ"
		n.Message = fmt.Sprintf("Budget %q is awaiting your approval", details.Title)
		n.MessageTH = fmt.Sprintf("งบประมาณ %q รอการอนุมัติจากคุณ", details.TitleTH)
	} else {
		n.Type = domain.NotifyExpenseApproval
		n.Title = "Expense approval requested"
		n.TitleTH = "มีค่าใช้จ่ายรอการอนุมัติ"
		n.Message = fmt.Sprintf("Expense %q is awaiting your approval", details.Title)
		n.MessageTH = fmt.Sprintf("ค่าใช้จ่าย %q รอการอนุมัติจากคุณ", details.TitleTH)
	}
	return n
}

// buildResolvedNotification notifies the subject's creator of the outcome.
// Rejections carry the rejecting approver's comments.
func buildResolvedNotification(subject domain.ApprovalSubject, details *subjectDetails, approved bool, comments string, now time.Time) domain.Notification {
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         details.OwnerID,
		Link:           details.Link,
		CreatedAt:      now,
	}
	switch {
	case subject.Type == domain.ApprovalTypeBudget && approved:
		n.Type = domain.NotifyBudgetApproved
		n.Title = "Budget approved"
		n.TitleTH = "งบประมาณได้รับการอนุมัติ"
		n.Message = fmt.Sprintf("Budget %q has been approved by all approvers", details.Title)
		n.MessageTH = fmt.Sprintf("งบประมาณ %q ได้รับการอนุมัติครบถ้วนแล้ว", details.TitleTH)
	case subject.Type == domain.ApprovalTypeBudget && !approved:
		n.Type = domain.NotifyBudgetRejected
		n.Title = "Budget rejected"
		n.TitleTH = "งบประมาณถูกปฏิเสธ"
		n.Message = fmt.Sprintf("Budget %q has been rejected: %s", details.Title, comments)
		n.MessageTH = fmt.Sprintf("งบประมาณ %q ถูกปฏิเสธ: %s", details.TitleTH, comments)
	case approved:
		n.Type = domain.NotifyExpenseApproved
		n.Title = "Expense approved"
		n.TitleTH = "ค่าใช้จ่ายได้รับการอนุมัติ"
		n.Message = fmt.Sprintf("Expense %q has been approved by all approvers", details.Title)
		n.MessageTH = fmt.Sprintf("ค่าใช้จ่าย %q ได้รับการอนุมัติครบถ้วนแล้ว", details.TitleTH)
	default:
		n.Type = domain.NotifyExpenseRejected
		n.Title = "Expense rejected"
		n.TitleTH = "ค่าใช้จ่ายถูกปฏิเสธ"
		n.Message = fmt.Sprintf("Expense %q has been rejected: %s", details.Title, comments)
		n.MessageTH = fmt.Sprintf("ค่าใช้จ่าย %q ถูกปฏิเสธ: %s", details.TitleTH, comments)
	}
	return n
}
