package notifications

import (
	"context"
	"time"
)

type CreateParams struct {
	ID      string
	UserID  string
	EventID *string
	Message string
}

type Repository interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	EventExists(ctx context.Context, eventID string) (bool, error)

	Create(ctx context.Context, params CreateParams) (*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	ListUnreadForUser(ctx context.Context, userID string) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)

	// DeleteReadBefore removes read notifications created before the cutoff
	// and returns how many rows went away.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
