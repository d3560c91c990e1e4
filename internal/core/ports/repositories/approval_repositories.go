package repositories

import (
	"context"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ApprovalReader defines read operations for approval data
type ApprovalReader interface {
	// FindApprovalByID retrieves a specific approval by its unique identifier.
	FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error)

	// ListApprovalsForSubject retrieves all approvals raised for a subject,
	// ordered by level.
	ListApprovalsForSubject(ctx context.Context, subject domain.ApprovalSubject) ([]domain.Approval, error)

	// ListApprovalsByApprover retrieves a paginated list of a user's approvals,
	// optionally filtered by status, using token-based pagination.
	// It returns the approvals, a token for the next page, and an error.
	ListApprovalsByApprover(ctx context.Context, approverID string, status *domain.ApprovalStatus, limit int, nextToken *string) ([]domain.Approval, *string, error)

	// FindApprovalsForSubjectForUpdate retrieves all approvals for a subject
	// within a transaction, taking row locks so that concurrent decisions on
	// the same subject serialize.
	FindApprovalsForSubjectForUpdate(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject) ([]domain.Approval, error)
}

// ApprovalWriter defines write operations for approval data
type ApprovalWriter interface {
	// SaveApprovalsInTx persists a batch of approvals within the given
	// transaction. Used by submission fan-out so the whole round is created
	// atomically.
	SaveApprovalsInTx(ctx context.Context, tx pgx.Tx, approvals []domain.Approval) error

	// UpdateApprovalInTx records a decision on a single approval within the
	// given transaction.
	UpdateApprovalInTx(ctx context.Context, tx pgx.Tx, approval domain.Approval) error

	// BulkRejectPendingInTx rejects every still-pending approval for a subject
	// within the given transaction, stamping the supplied comment and decision
	// metadata. It returns the IDs of the approvals it rejected.
	BulkRejectPendingInTx(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject, comment string, decidedByUserID string) ([]string, error)
}

// ApprovalRepositoryFacade combines all approval-related repository interfaces
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalWriter
}

// ApprovalRepositoryWithTx extends ApprovalRepositoryFacade with transaction capabilities
type ApprovalRepositoryWithTx interface {
	ApprovalRepositoryFacade
	TransactionManager
}
