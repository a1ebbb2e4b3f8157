package jobs

import (
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/gatherly-app/server/internal/domain/invitations"
	"github.com/gatherly-app/server/internal/domain/notifications"
)

// WorkerDeps holds everything the background workers need.
type WorkerDeps struct {
	Invitations   *invitations.Service
	Notifications *notifications.Service
	ExpireAfter   time.Duration
	RetainRead    time.Duration
	Logger        *slog.Logger
}

// NewWorkers registers every background worker.
func NewWorkers(deps WorkerDeps) (*river.Workers, error) {
	workers := river.NewWorkers()
	if err := river.AddWorkerSafely(workers, InvitationExpiryWorker{
		Invitations: deps.Invitations,
		ExpireAfter: deps.ExpireAfter,
		Logger:      deps.Logger,
	}); err != nil {
		return nil, err
	}
	if err := river.AddWorkerSafely(workers, NotificationCleanupWorker{
		Notifications: deps.Notifications,
		RetainRead:    deps.RetainRead,
		Logger:        deps.Logger,
	}); err != nil {
		return nil, err
	}
	return workers, nil
}
