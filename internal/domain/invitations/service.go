package invitations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatherly-app/server/internal/domain/ids"
	"github.com/gatherly-app/server/internal/metrics"
)

type Service struct {
	repo      Repository
	registrar Registrar
	notifier  Notifier
	mailer    Mailer
	now       func() time.Time
}

func NewService(repo Repository, registrar Registrar, notifier Notifier, mailer Mailer) *Service {
	return &Service{
		repo:      repo,
		registrar: registrar,
		notifier:  notifier,
		mailer:    mailer,
		now:       time.Now,
	}
}

// Invite creates a pending invitation for (event, email). Any existing
// invitation for the pair other than a declined one blocks the send.
// The invitee is bound to a user account when the email matches one.
func (s *Service) Invite(ctx context.Context, eventID, email string, invitedBy string) (*Invitation, error) {
	var (
		created *Invitation
		event   *EventInfo
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		event, err = tx.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}

		existing, err := tx.FindActive(ctx, eventID, email)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("find active invitation: %w", err)
		}
		if existing != nil {
			return ErrAlreadyInvited
		}

		userID, err := tx.FindUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("bind invitee: %w", err)
		}

		params := CreateParams{
			ID:      ids.MustNewULID(),
			EventID: eventID,
			Email:   email,
			UserID:  userID,
			SentAt:  s.now(),
		}
		if invitedBy != "" {
			params.InvitedBy = &invitedBy
		}
		created, err = tx.Create(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.InvitationsSent.Inc()
	s.mailInvitation(ctx, created.Email, event.Title, invitedBy)
	return created, nil
}

// InviteBatch sends one invitation per email, best-effort. A conflict on an
// individual email is logged and collected, never propagated; a duplicate
// inside the batch collides on its second occurrence like any other
// conflict. Other failures abort the batch.
func (s *Service) InviteBatch(ctx context.Context, eventID string, emails []string, invitedBy string) (BatchResult, error) {
	result := BatchResult{}
	for _, email := range emails {
		inv, err := s.Invite(ctx, eventID, email, invitedBy)
		if err != nil {
			if errors.Is(err, ErrAlreadyInvited) {
				zerolog.Ctx(ctx).Info().
					Str("event_id", eventID).
					Str("email", email).
					Msg("skipping already-invited email in batch")
				result.Skipped = append(result.Skipped, SkippedInvite{Email: email, Reason: err.Error()})
				continue
			}
			return result, err
		}
		result.Sent = append(result.Sent, *inv)
	}
	return result, nil
}

// Respond records the invitee's decision on a pending invitation. Accepting
// a bound invitation also attempts enrollment; a registration failure
// (full event, duplicate) is logged and the acceptance stands.
func (s *Service) Respond(ctx context.Context, invitationID string, response Status) (*Invitation, error) {
	if response != StatusAccepted && response != StatusDeclined {
		return nil, ErrInvalidResponse
	}

	var responded *Invitation
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		inv, err := tx.GetByID(ctx, invitationID)
		if err != nil {
			return err
		}
		if inv.Status != StatusPending {
			return ErrAlreadyResponded
		}

		respondedAt := s.now()
		if err := tx.SetResponse(ctx, inv.ID, response, respondedAt); err != nil {
			return err
		}
		inv.Status = response
		inv.RespondedAt = &respondedAt
		responded = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InvitationResponses.WithLabelValues(string(response)).Inc()

	if response == StatusAccepted && responded.UserID != nil && s.registrar != nil {
		if _, err := s.registrar.Register(ctx, *responded.UserID, responded.EventID); err != nil {
			// The acceptance is already committed and stays; enrollment is
			// best-effort from here.
			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("invitation_id", responded.ID).
				Str("user_id", *responded.UserID).
				Msg("auto-registration after acceptance failed")
		}
	}

	return responded, nil
}

// Cancel deletes a pending invitation and, when the invitee is bound to an
// account, tells them it was withdrawn.
func (s *Service) Cancel(ctx context.Context, invitationID, cancelledBy string) error {
	var (
		inv   *Invitation
		event *EventInfo
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		inv, err = tx.GetByID(ctx, invitationID)
		if err != nil {
			return err
		}
		if inv.Status != StatusPending {
			return ErrNotPending
		}
		event, err = tx.GetEvent(ctx, inv.EventID)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, inv.ID)
	})
	if err != nil {
		return err
	}

	if inv.UserID != nil {
		s.notify(ctx, *inv.UserID,
			fmt.Sprintf("Your invitation to %q has been cancelled", event.Title), event.ID)
	}
	return nil
}

// Resend refreshes sentAt on a pending invitation and re-sends the email
// plus an in-app reminder when the invitee is bound. Status is unchanged.
func (s *Service) Resend(ctx context.Context, invitationID string) (*Invitation, error) {
	var (
		inv   *Invitation
		event *EventInfo
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		inv, err = tx.GetByID(ctx, invitationID)
		if err != nil {
			return err
		}
		if inv.Status != StatusPending {
			return ErrNotPending
		}
		event, err = tx.GetEvent(ctx, inv.EventID)
		if err != nil {
			return err
		}
		sentAt := s.now()
		if err := tx.UpdateSentAt(ctx, inv.ID, sentAt); err != nil {
			return err
		}
		inv.SentAt = sentAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if inv.UserID != nil {
		s.notify(ctx, *inv.UserID,
			fmt.Sprintf("Reminder: you are invited to %q", event.Title), event.ID)
	}
	s.mailReminder(ctx, inv.Email, event.Title)
	return inv, nil
}

// ExpireStale moves every pending invitation older than the configured age
// to expired, as one batch. No notifications are sent for expiry.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)

	var expired int64
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		expired, err = tx.ExpirePending(ctx, cutoff)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("expire pending invitations: %w", err)
	}

	if expired > 0 {
		metrics.InvitationsExpired.Add(float64(expired))
		zerolog.Ctx(ctx).Info().
			Int64("expired", expired).
			Time("cutoff", cutoff).
			Msg("expired stale invitations")
	}
	return expired, nil
}

// Statistics returns invitation counts per status for one event. Every
// status appears, zero-valued when absent.
func (s *Service) Statistics(ctx context.Context, eventID string) (map[Status]int64, error) {
	counts, err := s.repo.CountByStatus(ctx, eventID)
	if err != nil {
		return nil, err
	}
	stats := make(map[Status]int64, len(Statuses()))
	for _, status := range Statuses() {
		stats[status] = counts[status]
	}
	return stats, nil
}

// ListForEvent returns every invitation for an event, newest first.
func (s *Service) ListForEvent(ctx context.Context, eventID string) ([]Invitation, error) {
	return s.repo.ListForEvent(ctx, eventID)
}

// ListByEmail returns every invitation sent to an email, newest first.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]Invitation, error) {
	return s.repo.ListByEmail(ctx, email)
}

// ListPendingForEvent returns the event's pending invitations, newest first.
func (s *Service) ListPendingForEvent(ctx context.Context, eventID string) ([]Invitation, error) {
	return s.repo.ListPendingForEvent(ctx, eventID)
}

func (s *Service) notify(ctx context.Context, userID, message, eventID string) {
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

func (s *Service) mailInvitation(ctx context.Context, to, eventTitle, invitedBy string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendInvitation(ctx, to, eventTitle, invitedBy); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("to", to).
			Msg("invitation email failed")
	}
}

func (s *Service) mailReminder(ctx context.Context, to, eventTitle string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendReminder(ctx, to, eventTitle); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("to", to).
			Msg("reminder email failed")
	}
}
