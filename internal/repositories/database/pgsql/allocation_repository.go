package pgsql

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/shopspring/decimal"
)

const allocationColumns = `allocation_id, code, name, name_th, description, budget_id,
	allocated_amount, status, start_date, end_date,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAllocationRepository struct {
	BaseRepository
}

// newPgxAllocationRepository creates a new repository for budget allocation data.
func newPgxAllocationRepository(pool *pgxpool.Pool) portsrepo.AllocationRepositoryWithTx {
	return &PgxAllocationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AllocationRepositoryWithTx = (*PgxAllocationRepository)(nil)

func scanAllocation(row pgx.Row) (*models.BudgetAllocation, error) {
	var m models.BudgetAllocation
	err := row.Scan(
		&m.AllocationID,
		&m.Code,
		&m.Name,
		&m.NameTH,
		&m.Description,
		&m.BudgetID,
		&m.AllocatedAmount,
		&m.Status,
		&m.StartDate,
		&m.EndDate,
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

// FindAllocationByID retrieves an allocation by its ID.
func (r *PgxAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.BudgetAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM budget_allocations WHERE allocation_id = $1;`
	m, err := scanAllocation(r.Pool.QueryRow(ctx, query, allocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find allocation by ID "+allocationID, err)
	}
	a := mapping.ToDomainAllocation(*m)
	return &a, nil
}

// ListAllocationsByBudget retrieves a paginated list of a budget's allocations
// using token-based pagination.
func (r *PgxAllocationRepository) ListAllocationsByBudget(ctx context.Context, budgetID string, limit int, nextToken *string) ([]domain.BudgetAllocation, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + allocationColumns + ` FROM budget_allocations WHERE budget_id = $1`
	args := []interface{}{budgetID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, allocation_id) < ($2, $3)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, allocation_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query allocations for budget "+budgetID, err)
	}
	defer rows.Close()

	allocations := []models.BudgetAllocation{}
	for rows.Next() {
		m, scanErr := scanAllocation(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan allocation row", scanErr)
		}
		allocations = append(allocations, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating allocation rows", err)
	}

	var newNextToken *string
	if len(allocations) > limit {
		allocations = allocations[:limit]
		last := allocations[len(allocations)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.AllocationID)
		newNextToken = &token
	}

	return mapping.ToDomainAllocationSlice(allocations), newNextToken, nil
}

// SumCountedExpensesByAllocation returns the total amount of the allocation's
// expenses that still consume capacity, inside tx when one is given.
func (r *PgxAllocationRepository) SumCountedExpensesByAllocation(ctx context.Context, tx pgx.Tx, allocationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE allocation_id = $1 AND status NOT IN ('REJECTED', 'CANCELLED');
	`
	var total decimal.Decimal
	if err := r.querierOrPool(tx).QueryRow(ctx, query, allocationID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum expenses for allocation "+allocationID, err)
	}
	return total, nil
}

// CountExpensesByAllocation returns the number of expenses recorded under an allocation.
func (r *PgxAllocationRepository) CountExpensesByAllocation(ctx context.Context, allocationID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM expenses WHERE allocation_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, allocationID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count expenses for allocation "+allocationID, err)
	}
	return count, nil
}

// SaveAllocationInTx persists a new allocation within tx.
func (r *PgxAllocationRepository) SaveAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.BudgetAllocation) error {
	m := mapping.ToModelAllocation(allocation)
	query := `
		INSERT INTO budget_allocations (allocation_id, code, name, name_th, description, budget_id,
		                                allocated_amount, status, start_date, end_date,
		                                created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.AllocationID,
		m.Code,
		m.Name,
		m.NameTH,
		m.Description,
		m.BudgetID,
		m.AllocatedAmount,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: allocation with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return apperrors.NewAppError(500, "failed to insert allocation "+m.AllocationID, err)
	}
	return nil
}

// UpdateAllocation updates an existing allocation.
func (r *PgxAllocationRepository) UpdateAllocation(ctx context.Context, allocation domain.BudgetAllocation) error {
	return r.update(ctx, r.Pool, allocation)
}

// UpdateAllocationInTx updates an existing allocation within tx.
func (r *PgxAllocationRepository) UpdateAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.BudgetAllocation) error {
	return r.update(ctx, tx, allocation)
}

func (r *PgxAllocationRepository) update(ctx context.Context, q rowExecer, allocation domain.BudgetAllocation) error {
	m := mapping.ToModelAllocation(allocation)
	query := `
		UPDATE budget_allocations
		SET name = $2, name_th = $3, description = $4, allocated_amount = $5, status = $6,
		    start_date = $7, end_date = $8, last_updated_at = $9, last_updated_by = $10
		WHERE allocation_id = $1;
	`
	tag, err := q.Exec(ctx, query,
		m.AllocationID,
		m.Name,
		m.NameTH,
		m.Description,
		m.AllocatedAmount,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update allocation "+m.AllocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateAllocationStatus sets the lifecycle status of an allocation.
func (r *PgxAllocationRepository) UpdateAllocationStatus(ctx context.Context, allocationID string, status domain.AllocationStatus, updatedByUserID string) error {
	query := `
		UPDATE budget_allocations
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE allocation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, allocationID, models.AllocationStatus(status), time.Now().UTC(), updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of allocation "+allocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
