package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/budgetgov/budget_management_app/internal/apperrors"
	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetgov/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetgov/budget_management_app/internal/models"
	"github.com/budgetgov/budget_management_app/internal/utils/mapping"
	"github.com/budgetgov/budget_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDivisionRepository struct {
	BaseRepository
}

// newPgxDivisionRepository creates a new repository for division data.
func newPgxDivisionRepository(pool *pgxpool.Pool) portsrepo.DivisionRepositoryWithTx {
	return &PgxDivisionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DivisionRepositoryWithTx = (*PgxDivisionRepository)(nil)

// FindDivisionByID retrieves a division by its ID.
func (r *PgxDivisionRepository) FindDivisionByID(ctx context.Context, divisionID string) (*domain.Division, error) {
	query := `
		SELECT division_id, name, name_th, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM divisions
		WHERE division_id = $1;
	`
	var m models.Division
	err := r.Pool.QueryRow(ctx, query, divisionID).Scan(
		&m.DivisionID,
		&m.Name,
		&m.NameTH,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find division by ID "+divisionID, err)
	}

	d := mapping.ToDomainDivision(m)
	return &d, nil
}

// ListDivisions retrieves a paginated list of divisions using token-based pagination.
func (r *PgxDivisionRepository) ListDivisions(ctx context.Context, limit int, nextToken *string) ([]domain.Division, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT division_id, name, name_th, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM divisions
	`
	orderByClause := `ORDER BY created_at DESC, division_id DESC`

	args := []interface{}{}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` WHERE (created_at, division_id) < ($1, $2) `
	}
	args = append(args, fetchLimit)
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query divisions", err)
	}
	defer rows.Close()

	divisions := []models.Division{}
	for rows.Next() {
		var m models.Division
		if err := rows.Scan(
			&m.DivisionID,
			&m.Name,
			&m.NameTH,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan division row", err)
		}
		divisions = append(divisions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating division rows", err)
	}

	var newNextToken *string
	if len(divisions) > limit {
		divisions = divisions[:limit]
		last := divisions[len(divisions)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.DivisionID)
		newNextToken = &token
	}

	result := make([]domain.Division, len(divisions))
	for i, m := range divisions {
		result[i] = mapping.ToDomainDivision(m)
	}
	return result, newNextToken, nil
}

// SaveDivision persists a new division.
func (r *PgxDivisionRepository) SaveDivision(ctx context.Context, division domain.Division) error {
	m := mapping.ToModelDivision(division)
	query := `
		INSERT INTO divisions (division_id, name, name_th, is_active,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DivisionID,
		m.Name,
		m.NameTH,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: division with ID %s already exists", apperrors.ErrDuplicate, m.DivisionID)
		}
		return apperrors.NewAppError(500, "failed to insert division "+m.DivisionID, err)
	}
	return nil
}

// UpdateDivision updates an existing division.
func (r *PgxDivisionRepository) UpdateDivision(ctx context.Context, division domain.Division) error {
	m := mapping.ToModelDivision(division)
	query := `
		UPDATE divisions
		SET name = $2, name_th = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE division_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.DivisionID,
		m.Name,
		m.NameTH,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update division "+m.DivisionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteDivision removes a division row. The service layer has already
// verified the division owns no users, budgets or expenses; a foreign-key
// violation here still surfaces as a conflict rather than a 500.
func (r *PgxDivisionRepository) DeleteDivision(ctx context.Context, divisionID string) error {
	query := `DELETE FROM divisions WHERE division_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, divisionID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: division %s is still referenced", apperrors.ErrConflict, divisionID)
		}
		return apperrors.NewAppError(500, "failed to delete division "+divisionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
