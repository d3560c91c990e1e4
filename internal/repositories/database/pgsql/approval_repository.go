package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetgov/budget_management_app/internal/models"
	"github.com/budgetgov/budget_management_app/internal/utils/mapping"
	"github.com/budgetgov/budget_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const approvalColumns = `approval_id, approval_type, reference_id, budget_id, expense_id,
	level, approver_id, status, comments, decided_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxApprovalRepository struct {
	BaseRepository
}

// newPgxApprovalRepository creates a new repository for approval data.
func newPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepositoryWithTx {
	return &PgxApprovalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ApprovalRepositoryWithTx = (*PgxApprovalRepository)(nil)

func scanApproval(row pgx.Row) (*models.Approval, error) {
	var m models.Approval
	err := row.Scan(
		&m.ApprovalID,
		&m.Type,
		&m.ReferenceID,
		&m.BudgetID,
		&m.ExpenseID,
		&m.Level,
		&m.ApproverID,
		&m.Status,
		&m.Comments,
		&m.DecidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindApprovalByID retrieves an approval by its ID.
func (r *PgxApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE approval_id = $1;`
	m, err := scanApproval(r.Pool.QueryRow(ctx, query, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find approval by ID "+approvalID, err)
	}
	a, err := mapping.ToDomainApproval(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "corrupt approval row "+approvalID, err)
	}
	return &a, nil
}

// ListApprovalsForSubject retrieves the full approval round of a subject,
// ordered by level.
func (r *PgxApprovalRepository) ListApprovalsForSubject(ctx context.Context, subject domain.ApprovalSubject) ([]domain.Approval, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE approval_type = $1 AND reference_id = $2
		ORDER BY level;
	`
	rows, err := r.Pool.Query(ctx, query, models.ApprovalType(subject.Type), subject.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approvals for subject "+subject.String(), err)
	}
	defer rows.Close()

	return collectApprovals(rows, subject)
}

// FindApprovalsForSubjectForUpdate retrieves the full approval round of a
// subject within tx, locking every row. Concurrent decisions on the same
// subject queue behind the lock, which is what makes the last-approval and
// cascade-rejection checks safe.
func (r *PgxApprovalRepository) FindApprovalsForSubjectForUpdate(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject) ([]domain.Approval, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE approval_type = $1 AND reference_id = $2
		ORDER BY level
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, models.ApprovalType(subject.Type), subject.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock approvals for subject "+subject.String(), err)
	}
	defer rows.Close()

	return collectApprovals(rows, subject)
}

func collectApprovals(rows pgx.Rows, subject domain.ApprovalSubject) ([]domain.Approval, error) {
	approvals := []models.Approval{}
	for rows.Next() {
		m, scanErr := scanApproval(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval row", scanErr)
		}
		approvals = append(approvals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating approval rows for subject "+subject.String(), err)
	}

	result, err := mapping.ToDomainApprovalSlice(approvals)
	if err != nil {
		return nil, apperrors.NewAppError(500, "corrupt approval rows for subject "+subject.String(), err)
	}
	return result, nil
}

// ListApprovalsByApprover retrieves a paginated list of a user's approvals
// using token-based pagination.
func (r *PgxApprovalRepository) ListApprovalsByApprover(ctx context.Context, approverID string, status *domain.ApprovalStatus, limit int, nextToken *string) ([]domain.Approval, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE approver_id = $1`
	args := []interface{}{approverID}

	if status != nil && *status != "" {
		args = append(args, models.ApprovalStatus(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, approval_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, approval_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query approvals for approver "+approverID, err)
	}
	defer rows.Close()

	approvals := []models.Approval{}
	for rows.Next() {
		m, scanErr := scanApproval(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan approval row", scanErr)
		}
		approvals = append(approvals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating approval rows", err)
	}

	var newNextToken *string
	if len(approvals) > limit {
		approvals = approvals[:limit]
		last := approvals[len(approvals)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ApprovalID)
		newNextToken = &token
	}

	result, err := mapping.ToDomainApprovalSlice(approvals)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "corrupt approval rows for approver "+approverID, err)
	}
	return result, newNextToken, nil
}

// SaveApprovalsInTx persists a fan-out batch of approvals within tx.
func (r *PgxApprovalRepository) SaveApprovalsInTx(ctx context.Context, tx pgx.Tx, approvals []domain.Approval) error {
	query := `
		INSERT INTO approvals (approval_id, approval_type, reference_id, budget_id, expense_id,
		                       level, approver_id, status, comments, decided_at,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, a := range approvals {
		m := mapping.ToModelApproval(a)
		batch.Queue(query,
			m.ApprovalID,
			m.Type,
			m.ReferenceID,
			m.BudgetID,
			m.ExpenseID,
			m.Level,
			m.ApproverID,
			m.Status,
			m.Comments,
			m.DecidedAt,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute approval insert batch", err)
	}
	return nil
}

// UpdateApprovalInTx records a decision on a single approval within tx.
func (r *PgxApprovalRepository) UpdateApprovalInTx(ctx context.Context, tx pgx.Tx, approval domain.Approval) error {
	m := mapping.ToModelApproval(approval)
	query := `
		UPDATE approvals
		SET status = $2, comments = $3, decided_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE approval_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.ApprovalID,
		m.Status,
		m.Comments,
		m.DecidedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update approval "+m.ApprovalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// BulkRejectPendingInTx rejects every still-pending approval of a subject
// within tx and returns the IDs it touched. The WHERE status filter keeps
// already-decided approvals immutable.
func (r *PgxApprovalRepository) BulkRejectPendingInTx(ctx context.Context, tx pgx.Tx, subject domain.ApprovalSubject, comment string, decidedByUserID string) ([]string, error) {
	now := time.Now().UTC()
	query := `
		UPDATE approvals
		SET status = 'REJECTED', comments = $3, decided_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE approval_type = $1 AND reference_id = $2 AND status = 'PENDING'
		RETURNING approval_id;
	`
	rows, err := tx.Query(ctx, query, models.ApprovalType(subject.Type), subject.ID, comment, now, decidedByUserID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to bulk reject approvals for subject "+subject.String(), err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rejected approval ID", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating rejected approval IDs", err)
	}
	return ids, nil
}
