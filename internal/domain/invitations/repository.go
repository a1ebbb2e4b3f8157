package invitations

import (
	"context"
	"time"

	"github.com/gatherly-app/server/internal/domain/registrations"
)

type CreateParams struct {
	ID        string
	EventID   string
	Email     string
	UserID    *string
	InvitedBy *string
	SentAt    time.Time
}

// Repository is the persistence contract for the invitation lifecycle.
// WithTx runs fn inside one transaction with a transaction-scoped
// Repository, matching the registration lifecycle's contract.
type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	GetEvent(ctx context.Context, eventID string) (*EventInfo, error)
	FindUserByEmail(ctx context.Context, email string) (*string, error)

	Create(ctx context.Context, params CreateParams) (*Invitation, error)
	GetByID(ctx context.Context, id string) (*Invitation, error)
	// FindActive returns the invitation for (event, email) whose status is
	// anything but declined, or ErrNotFound.
	FindActive(ctx context.Context, eventID, email string) (*Invitation, error)
	SetResponse(ctx context.Context, id string, status Status, respondedAt time.Time) error
	UpdateSentAt(ctx context.Context, id string, sentAt time.Time) error
	Delete(ctx context.Context, id string) error

	// ExpirePending moves every pending invitation with sentAt before the
	// cutoff to expired, as one batch, and returns how many rows changed.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)

	CountByStatus(ctx context.Context, eventID string) (map[Status]int64, error)
	ListForEvent(ctx context.Context, eventID string) ([]Invitation, error)
	ListByEmail(ctx context.Context, email string) ([]Invitation, error)
	ListPendingForEvent(ctx context.Context, eventID string) ([]Invitation, error)
}

// Registrar enrolls an accepted invitee. Satisfied by the registration
// lifecycle service.
type Registrar interface {
	Register(ctx context.Context, userID, eventID string) (*registrations.Registration, error)
}

// Notifier records a user-directed message after a committed state change.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, eventID *string) error
}

// Mailer sends invitation email to the invitee address. Delivery is
// best-effort; the invitation row is the source of truth.
type Mailer interface {
	SendInvitation(ctx context.Context, to, eventTitle, invitedBy string) error
	SendReminder(ctx context.Context, to, eventTitle string) error
}
