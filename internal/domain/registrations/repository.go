package registrations

import "context"

type CreateParams struct {
	ID      string
	UserID  string
	EventID string
}

// Repository is the persistence contract for the registration lifecycle.
// Implementations must make WithTx run fn inside a single transaction and
// hand it a transaction-scoped Repository; GetEventForUpdate must take a
// row lock on the event so the count-then-insert in Register is atomic.
type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	GetEvent(ctx context.Context, eventID string) (*EventInfo, error)
	GetEventForUpdate(ctx context.Context, eventID string) (*EventInfo, error)
	UserExists(ctx context.Context, userID string) (bool, error)

	Create(ctx context.Context, params CreateParams) (*Registration, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	Find(ctx context.Context, userID, eventID string) (*Registration, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error

	HasConfirmed(ctx context.Context, userID, eventID string) (bool, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	ListConfirmedForEvent(ctx context.Context, eventID string) ([]Registration, error)
	ListConfirmedForUser(ctx context.Context, userID string) ([]Registration, error)
	CountAll(ctx context.Context) (int64, error)
}

// Notifier records a user-directed message. Failures are reported to the
// caller but must never unwind a committed lifecycle state change.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, eventID *string) error
}
