package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
)

type NotificationRepo struct {
	DB DBTX
}

const notificationColumns = `id, user_id, type, title, message, reference_id, is_read, created_at`

const createNotification = `-- name: CreateNotification
INSERT INTO user_notifications (id, user_id, type, title, message, reference_id, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + notificationColumns

func (r *NotificationRepo) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createNotification,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.ReferenceID, n.IsRead, n.CreatedAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToNotification)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *NotificationRepo) CreateBatch(ctx context.Context, ns []models.Notification) error {
	batch := &pgx.Batch{}
	now := time.Now()

	for _, n := range ns {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		batch.Queue(createNotification, n.ID, n.UserID, n.Type, n.Title, n.Message, n.ReferenceID, n.IsRead, n.CreatedAt)
	}

	// Batch needs the full pgx connection API which DBTX intentionally hides,
	// so fall back to sequential inserts for non-pgx sources
	type batcher interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	}

	if db, ok := r.DB.(batcher); ok {
		err := db.SendBatch(ctx, batch).Close()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	}

	for _, n := range ns {
		if _, err := r.CreateNotification(ctx, n); err != nil {
			return err
		}
	}

	return nil
}

const listNotificationsByUser = `-- name: ListNotificationsByUser
SELECT ` + notificationColumns + ` FROM user_notifications
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, _ := r.DB.Query(ctx, listNotificationsByUser, userID)
	notifications, err := pgx.CollectRows(rows, rowToNotification)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return notifications, nil
}

const countUnreadNotifications = `-- name: CountUnreadNotifications
SELECT count(*) FROM user_notifications
WHERE user_id = $1 AND NOT is_read
`

func (r *NotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.QueryRow(ctx, countUnreadNotifications, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

const markNotificationRead = `-- name: MarkNotificationRead
UPDATE user_notifications
SET is_read = TRUE
WHERE id = $2 AND user_id = $1
`

func (r *NotificationRepo) MarkRead(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, markNotificationRead, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}

	return nil
}

const markAllNotificationsRead = `-- name: MarkAllNotificationsRead
UPDATE user_notifications
SET is_read = TRUE
WHERE user_id = $1 AND NOT is_read
`

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, markAllNotificationsRead, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func rowToNotification(row pgx.CollectableRow) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ReferenceID, &n.IsRead, &n.CreatedAt)
	return n, err
}
