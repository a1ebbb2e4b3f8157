package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatherly-app/server/internal/domain/ids"
	"github.com/gatherly-app/server/internal/metrics"
)

// Service is the notification sink the lifecycle engines fan out through,
// plus the user-facing inbox operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Notify records a message for a user, optionally linked to an event. A
// missing recipient fails loudly; callers decide whether that failure may
// unwind anything (lifecycles never let it).
func (s *Service) Notify(ctx context.Context, userID, message string, eventID *string) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check recipient: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	if eventID != nil {
		ok, err := s.repo.EventExists(ctx, *eventID)
		if err != nil {
			return fmt.Errorf("check related event: %w", err)
		}
		if !ok {
			return ErrEventNotFound
		}
	}

	_, err = s.repo.Create(ctx, CreateParams{
		ID:      ids.MustNewULID(),
		UserID:  userID,
		EventID: eventID,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	metrics.NotificationsCreated.Inc()
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ListUnread returns a user's unread notifications, newest first.
func (s *Service) ListUnread(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListUnreadForUser(ctx, userID)
}

// MarkRead flips one notification to read. Only the recipient may do it.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrNotOwner
	}
	return s.repo.MarkRead(ctx, n.ID)
}

// MarkAllRead flips every unread notification of a user to read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// UnreadCount returns how many unread notifications a user has.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// CleanupRead deletes read notifications older than the retention age.
func (s *Service) CleanupRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	deleted, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	if deleted > 0 {
		metrics.NotificationsDeleted.Add(float64(deleted))
		zerolog.Ctx(ctx).Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("cleaned up read notifications")
	}
	return deleted, nil
}
