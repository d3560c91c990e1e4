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
)

const expenseColumns = `expense_id, code, title, title_th, description, description_th,
	amount, expense_date, category, division_id, budget_id, allocation_id, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryWithTx {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepositoryWithTx = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.Code,
		&m.Title,
		&m.TitleTH,
		&m.Description,
		&m.DescriptionTH,
		&m.Amount,
		&m.ExpenseDate,
		&m.Category,
		&m.DivisionID,
		&m.BudgetID,
		&m.AllocationID,
		&m.Status,
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

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find expense by ID "+expenseID, err)
	}
	e := mapping.ToDomainExpense(*m)
	return &e, nil
}

// ListExpenses retrieves a paginated list of expenses using token-based pagination.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, budgetID *string, divisionID *string, status *domain.ExpenseStatus, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	args := []interface{}{}

	if budgetID != nil && *budgetID != "" {
		args = append(args, *budgetID)
		query += ` AND budget_id = $` + strconv.Itoa(len(args))
	}
	if divisionID != nil && *divisionID != "" {
		args = append(args, *divisionID)
		query += ` AND division_id = $` + strconv.Itoa(len(args))
	}
	if status != nil && *status != "" {
		args = append(args, models.ExpenseStatus(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, expense_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, expense_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		m, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan expense row", scanErr)
		}
		expenses = append(expenses, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}

	var newNextToken *string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[len(expenses)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
		newNextToken = &token
	}

	return mapping.ToDomainExpenseSlice(expenses), newNextToken, nil
}

// FindDocumentsByExpenseID retrieves the attachment records of an expense.
func (r *PgxExpenseRepository) FindDocumentsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseDocument, error) {
	query := `
		SELECT document_id, expense_id, file_name, file_url, uploaded_by, created_at
		FROM expense_documents
		WHERE expense_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query documents for expense "+expenseID, err)
	}
	defer rows.Close()

	docs := []domain.ExpenseDocument{}
	for rows.Next() {
		var m models.ExpenseDocument
		if err := rows.Scan(
			&m.DocumentID,
			&m.ExpenseID,
			&m.FileName,
			&m.FileURL,
			&m.UploadedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan document row", err)
		}
		docs = append(docs, mapping.ToDomainExpenseDocument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating document rows", err)
	}
	return docs, nil
}

// DeleteExpense removes an expense row. Document records cascade through the
// expense_documents foreign key.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	query := `DELETE FROM expenses WHERE expense_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, expenseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete expense "+expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountExpensesByDivision returns the number of expenses owned by a division.
func (r *PgxExpenseRepository) CountExpensesByDivision(ctx context.Context, divisionID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM expenses WHERE division_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, divisionID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count expenses for division "+divisionID, err)
	}
	return count, nil
}

// CountExpensesByCreator returns the number of expenses created by a user.
func (r *PgxExpenseRepository) CountExpensesByCreator(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM expenses WHERE created_by = $1;`
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count expenses for user "+userID, err)
	}
	return count, nil
}

// SaveExpenseInTx persists a new expense within tx.
func (r *PgxExpenseRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (expense_id, code, title, title_th, description, description_th,
		                      amount, expense_date, category, division_id, budget_id, allocation_id, status,
		                      created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.Code,
		m.Title,
		m.TitleTH,
		m.Description,
		m.DescriptionTH,
		m.Amount,
		m.ExpenseDate,
		m.Category,
		m.DivisionID,
		m.BudgetID,
		m.AllocationID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: expense with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return apperrors.NewAppError(500, "failed to insert expense "+m.ExpenseID, err)
	}
	return nil
}

// UpdateExpense updates an existing expense's editable fields.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	return r.update(ctx, r.Pool, expense)
}

// UpdateExpenseInTx updates an existing expense within tx.
func (r *PgxExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	return r.update(ctx, tx, expense)
}

func (r *PgxExpenseRepository) update(ctx context.Context, q rowExecer, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		UPDATE expenses
		SET title = $2, title_th = $3, description = $4, description_th = $5,
		    amount = $6, expense_date = $7, category = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE expense_id = $1;
	`
	tag, err := q.Exec(ctx, query,
		m.ExpenseID,
		m.Title,
		m.TitleTH,
		m.Description,
		m.DescriptionTH,
		m.Amount,
		m.ExpenseDate,
		m.Category,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update expense "+m.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateExpenseStatus sets the lifecycle status of an expense.
func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, updatedByUserID string) error {
	return r.updateStatus(ctx, r.Pool, expenseID, status, updatedByUserID)
}

// UpdateExpenseStatusInTx sets the lifecycle status of an expense within tx.
func (r *PgxExpenseRepository) UpdateExpenseStatusInTx(ctx context.Context, tx pgx.Tx, expenseID string, status domain.ExpenseStatus, updatedByUserID string) error {
	return r.updateStatus(ctx, tx, expenseID, status, updatedByUserID)
}

func (r *PgxExpenseRepository) updateStatus(ctx context.Context, q rowExecer, expenseID string, status domain.ExpenseStatus, updatedByUserID string) error {
	query := `
		UPDATE expenses
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE expense_id = $1;
	`
	tag, err := q.Exec(ctx, query, expenseID, models.ExpenseStatus(status), time.Now().UTC(), updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of expense "+expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveDocument persists an expense attachment record.
func (r *PgxExpenseRepository) SaveDocument(ctx context.Context, document domain.ExpenseDocument) error {
	m := mapping.ToModelExpenseDocument(document)
	query := `
		INSERT INTO expense_documents (document_id, expense_id, file_name, file_url, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DocumentID,
		m.ExpenseID,
		m.FileName,
		m.FileURL,
		m.UploadedBy,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert document "+m.DocumentID, err)
	}
	return nil
}

// DeleteDocument removes an expense attachment record.
func (r *PgxExpenseRepository) DeleteDocument(ctx context.Context, documentID string) error {
	query := `DELETE FROM expense_documents WHERE document_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, documentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete document "+documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
