package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly-app/server/internal/domain/notifications"
)

var _ notifications.Repository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *NotificationRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.queryer().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *NotificationRepository) EventExists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := r.queryer().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event: %w", err)
	}
	return exists, nil
}

func (r *NotificationRepository) Create(ctx context.Context, params notifications.CreateParams) (*notifications.Notification, error) {
	n := notifications.Notification{
		ID:      params.ID,
		UserID:  params.UserID,
		EventID: params.EventID,
		Message: params.Message,
	}
	err := r.queryer().QueryRow(ctx, `
INSERT INTO notifications (id, user_id, event_id, message)
VALUES ($1, $2, $3, $4)
RETURNING created_at
`, params.ID, params.UserID, params.EventID, params.Message).Scan(&n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notifications.Notification, error) {
	var n notifications.Notification
	err := r.queryer().QueryRow(ctx, `
SELECT id, user_id, event_id, message, is_read, created_at
  FROM notifications
 WHERE id = $1
`, id).Scan(&n.ID, &n.UserID, &n.EventID, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notifications.ErrNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.queryer().Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, user_id, event_id, message, is_read, created_at
  FROM notifications
 WHERE user_id = $1
 ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return collectNotifications(rows)
}

func (r *NotificationRepository) ListUnreadForUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, user_id, event_id, message, is_read, created_at
  FROM notifications
 WHERE user_id = $1 AND is_read = false
 ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return collectNotifications(rows)
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.queryer().QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.queryer().Exec(ctx,
		`DELETE FROM notifications WHERE is_read = true AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func collectNotifications(rows pgx.Rows) ([]notifications.Notification, error) {
	defer rows.Close()

	var items []notifications.Notification
	for rows.Next() {
		var n notifications.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.EventID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}
