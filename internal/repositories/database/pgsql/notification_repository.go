package pgsql

import (
	"context"
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

const notificationColumns = `notification_id, user_id, notification_type, title, title_th,
	message, message_th, link, is_read, created_at`

type PgxNotificationRepository struct {
	BaseRepository
}

// newPgxNotificationRepository creates a new repository for notification data.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryWithTx {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NotificationRepositoryWithTx = (*PgxNotificationRepository)(nil)

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var m models.Notification
	err := row.Scan(
		&m.NotificationID,
		&m.UserID,
		&m.Type,
		&m.Title,
		&m.TitleTH,
		&m.Message,
		&m.MessageTH,
		&m.Link,
		&m.IsRead,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListNotificationsByUser retrieves a paginated list of a user's notifications
// using token-based pagination.
func (r *PgxNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []interface{}{userID}

	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, notification_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, notification_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query notifications for user "+userID, err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		m, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan notification row", scanErr)
		}
		notifications = append(notifications, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating notification rows", err)
	}

	var newNextToken *string
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[len(notifications)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.NotificationID)
		newNextToken = &token
	}

	return mapping.ToDomainNotificationSlice(notifications), newNextToken, nil
}

// CountUnreadByUser returns the number of unread notifications for a user.
func (r *PgxNotificationRepository) CountUnreadByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE;`
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count unread notifications for user "+userID, err)
	}
	return count, nil
}

// SaveNotification persists a new notification.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m := mapping.ToModelNotification(notification)
	_, err := r.Pool.Exec(ctx, insertNotificationQuery,
		m.NotificationID,
		m.UserID,
		m.Type,
		m.Title,
		m.TitleTH,
		m.Message,
		m.MessageTH,
		m.Link,
		m.IsRead,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert notification "+m.NotificationID, err)
	}
	return nil
}

const insertNotificationQuery = `
	INSERT INTO notifications (notification_id, user_id, notification_type, title, title_th,
	                           message, message_th, link, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// SaveNotificationsInTx persists a batch of notifications within tx.
func (r *PgxNotificationRepository) SaveNotificationsInTx(ctx context.Context, tx pgx.Tx, notifications []domain.Notification) error {
	batch := &pgx.Batch{}
	for _, n := range notifications {
		m := mapping.ToModelNotification(n)
		batch.Queue(insertNotificationQuery,
			m.NotificationID,
			m.UserID,
			m.Type,
			m.Title,
			m.TitleTH,
			m.Message,
			m.MessageTH,
			m.Link,
			m.IsRead,
			m.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute notification insert batch", err)
	}
	return nil
}

// MarkNotificationRead marks a single notification as read. The user filter
// stops users from touching other users' notifications.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification read "+notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks all of a user's notifications as read.
func (r *PgxNotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE;`
	if _, err := r.Pool.Exec(ctx, query, userID); err != nil {
		return apperrors.NewAppError(500, "failed to mark notifications read for user "+userID, err)
	}
	return nil
}
