package registrations

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gatherly-app/server/internal/domain/ids"
	"github.com/gatherly-app/server/internal/metrics"
)

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Register enrolls a user in an event. The duplicate check, the capacity
// check and the insert all happen inside one transaction holding a row lock
// on the event, so two concurrent registrations cannot both squeeze past
// the limit. Notifications go out only after the transaction commits.
func (s *Service) Register(ctx context.Context, userID, eventID string) (*Registration, error) {
	var (
		created *Registration
		event   *EventInfo
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		exists, err := tx.UserExists(ctx, userID)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if !exists {
			return ErrUserNotFound
		}

		event, err = tx.GetEventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}

		registered, err := tx.HasConfirmed(ctx, userID, eventID)
		if err != nil {
			return fmt.Errorf("check existing registration: %w", err)
		}
		if registered {
			return ErrAlreadyRegistered
		}

		confirmed, err := tx.CountConfirmed(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		if !CanAccept(event.Capacity, confirmed) {
			return ErrEventFull
		}

		created, err = tx.Create(ctx, CreateParams{
			ID:      ids.MustNewULID(),
			UserID:  userID,
			EventID: eventID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsConfirmed.Inc()

	s.notify(ctx, userID, fmt.Sprintf("You are registered for %q", event.Title), eventID)
	if event.OrganizerID != userID {
		s.notify(ctx, event.OrganizerID,
			fmt.Sprintf("A new participant registered for your event %q", event.Title), eventID)
	}

	return created, nil
}

// Cancel marks a registration cancelled. Only the owning user may cancel
// through this path; organizer overrides belong to a future authorization
// layer. The cancelled row is kept for audit.
func (s *Service) Cancel(ctx context.Context, registrationID, requestingUserID string) error {
	var (
		event   *EventInfo
		ownerID string
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		reg, err := tx.GetByID(ctx, registrationID)
		if err != nil {
			return err
		}
		if reg.UserID != requestingUserID {
			return ErrNotOwner
		}
		ownerID = reg.UserID

		event, err = tx.GetEvent(ctx, reg.EventID)
		if err != nil {
			return err
		}

		switch reg.Status {
		case StatusConfirmed:
			return tx.UpdateStatus(ctx, reg.ID, StatusCancelled)
		case StatusCancelled:
			// Terminal already; nothing to change.
			return nil
		default:
			return fmt.Errorf("registration %s has unknown status %q", reg.ID, reg.Status)
		}
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsCancelled.Inc()
	s.notify(ctx, ownerID,
		fmt.Sprintf("Your registration for %q has been cancelled", event.Title), event.ID)
	return nil
}

// Unregister removes the (user, event) registration outright, regardless of
// status. This is the hard-delete counterpart of Cancel and leaves no audit
// row; both paths exist because callers depend on each.
func (s *Service) Unregister(ctx context.Context, userID, eventID string) error {
	return s.repo.WithTx(ctx, func(tx Repository) error {
		reg, err := tx.Find(ctx, userID, eventID)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, reg.ID)
	})
}

// IsRegistered reports whether a confirmed registration links the user and
// the event.
func (s *Service) IsRegistered(ctx context.Context, userID, eventID string) (bool, error) {
	return s.repo.HasConfirmed(ctx, userID, eventID)
}

// ListForEvent returns the confirmed registrations for an event in stored
// (registration) order.
func (s *Service) ListForEvent(ctx context.Context, eventID string) ([]Registration, error) {
	return s.repo.ListConfirmedForEvent(ctx, eventID)
}

// ListForUser returns the user's confirmed registrations in stored order.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Registration, error) {
	return s.repo.ListConfirmedForUser(ctx, userID)
}

// AvailableSpots returns how many confirmed registrations the event can
// still take.
func (s *Service) AvailableSpots(ctx context.Context, eventID string) (int, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	confirmed, err := s.repo.CountConfirmed(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("count confirmed: %w", err)
	}
	return AvailableSpots(event.Capacity, confirmed), nil
}

// TotalCount returns the number of registration rows of any status.
func (s *Service) TotalCount(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

// notify emits a notification after a committed state change. Failures are
// logged, never propagated: the state change stands.
func (s *Service) notify(ctx context.Context, userID, message string, eventID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, message, &eventID); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("user_id", userID).
			Str("event_id", eventID).
			Msg("notification delivery failed")
	}
}
