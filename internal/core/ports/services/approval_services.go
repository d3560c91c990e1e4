package services

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/jackc/pgx/v5"
)

// ApprovalReaderSvc defines read operations for approval data
type ApprovalReaderSvc interface {
	// GetApprovalByID retrieves an approval by ID.
	GetApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error)

	// ListApprovalsForSubject retrieves the full approval round of a subject.
	ListApprovalsForSubject(ctx context.Context, subject domain.ApprovalSubject) ([]domain.Approval, error)

	// ListMyApprovals retrieves a paginated list of the caller's approvals.
	ListMyApprovals(ctx context.Context, approverID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)
}

// ApprovalDeciderSvc defines the decision operation of the approval workflow
type ApprovalDeciderSvc interface {
	// DecideApproval records an approver's decision on their pending approval.
	// A rejection requires comments, immediately rejects the subject and
	// auto-rejects every sibling still pending. An approval resolves the
	// subject only when it is the last one pending.
	DecideApproval(ctx context.Context, approvalID string, req dto.DecideApprovalRequest, requestingUserID string) (*domain.Approval, error)
}

// ApprovalFanOutSvc creates approval rounds on behalf of the submission flows
type ApprovalFanOutSvc interface {
	// OpenApprovalRound creates one pending approval per eligible approver of
	// the division and notifies each of them, all within one transaction.
	OpenApprovalRound(ctx context.Context, subject domain.ApprovalSubject, divisionID string, requestingUserID string) ([]domain.Approval, error)

	// OpenApprovalRoundInTx is OpenApprovalRound running inside a caller-owned
	// transaction, so a submission can change its subject's state and create
	// the round atomically.
	OpenApprovalRoundInTx(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject, divisionID string, requestingUserID string) ([]domain.Approval, error)
}

// ApprovalSvcFacade combines all approval-related service interfaces
type ApprovalSvcFacade interface {
	ApprovalReaderSvc
	ApprovalDeciderSvc
	ApprovalFanOutSvc
}
