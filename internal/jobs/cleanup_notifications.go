package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/gatherly-app/server/internal/domain/notifications"
)

// NotificationCleanupArgs defines the daily job that deletes old read
// notifications.
type NotificationCleanupArgs struct{}

func (NotificationCleanupArgs) Kind() string { return JobKindNotificationCleanup }

// NotificationCleanupWorker deletes read notifications past the retention
// age. Runs daily to keep the notifications table from growing forever.
type NotificationCleanupWorker struct {
	river.WorkerDefaults[NotificationCleanupArgs]
	Notifications *notifications.Service
	RetainRead    time.Duration
	Logger        *slog.Logger
}

func (NotificationCleanupWorker) Kind() string { return JobKindNotificationCleanup }

func (w NotificationCleanupWorker) Work(ctx context.Context, job *river.Job[NotificationCleanupArgs]) error {
	if w.Notifications == nil {
		return fmt.Errorf("notification service not configured")
	}
	if w.RetainRead <= 0 {
		return fmt.Errorf("retention duration not configured")
	}

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	logger.Info("starting notification cleanup",
		"retain_read", w.RetainRead.String(),
		"attempt", job.Attempt,
	)

	deleted, err := w.Notifications.CleanupRead(ctx, w.RetainRead)
	if err != nil {
		logger.Error("notification cleanup failed", "error", err)
		return fmt.Errorf("cleanup read notifications: %w", err)
	}

	logger.Info("notification cleanup completed",
		"deleted_count", deleted,
		"duration_seconds", time.Since(start).Seconds(),
	)
	return nil
}
