package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/gatherly-app/server/internal/domain/invitations"
	"github.com/gatherly-app/server/internal/metrics"
)

// InvitationExpiryArgs defines the daily job that expires stale pending
// invitations.
type InvitationExpiryArgs struct{}

func (InvitationExpiryArgs) Kind() string { return JobKindInvitationExpiry }

// InvitationExpiryWorker moves pending invitations older than the
// configured age to expired. No notifications are sent for expiry; the
// sweep runs in its own transaction and never touches invitations a
// request is mid-flight on, thanks to row-level locking in the store.
type InvitationExpiryWorker struct {
	river.WorkerDefaults[InvitationExpiryArgs]
	Invitations *invitations.Service
	ExpireAfter time.Duration
	Logger      *slog.Logger
}

func (InvitationExpiryWorker) Kind() string { return JobKindInvitationExpiry }

func (w InvitationExpiryWorker) Work(ctx context.Context, job *river.Job[InvitationExpiryArgs]) error {
	if w.Invitations == nil {
		return fmt.Errorf("invitation service not configured")
	}
	if w.ExpireAfter <= 0 {
		return fmt.Errorf("expire-after duration not configured")
	}

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	logger.Info("starting invitation expiry sweep",
		"expire_after", w.ExpireAfter.String(),
		"attempt", job.Attempt,
	)

	expired, err := w.Invitations.ExpireStale(ctx, w.ExpireAfter)
	if err != nil {
		logger.Error("invitation expiry sweep failed", "error", err)
		return fmt.Errorf("expire stale invitations: %w", err)
	}

	duration := time.Since(start)
	metrics.InvitationSweepDuration.Observe(duration.Seconds())

	logger.Info("invitation expiry sweep completed",
		"expired_count", expired,
		"duration_seconds", duration.Seconds(),
	)
	return nil
}
