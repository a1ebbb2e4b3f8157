package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
)

func TestJobKinds(t *testing.T) {
	require.Equal(t, "invitation_expiry", InvitationExpiryArgs{}.Kind())
	require.Equal(t, "invitation_expiry", InvitationExpiryWorker{}.Kind())
	require.Equal(t, "notification_cleanup", NotificationCleanupArgs{}.Kind())
	require.Equal(t, "notification_cleanup", NotificationCleanupWorker{}.Kind())
}

func TestNewPeriodicJobs(t *testing.T) {
	jobs := NewPeriodicJobs()
	require.Len(t, jobs, 2)
}

func TestNewWorkersRegistersAll(t *testing.T) {
	workers, err := NewWorkers(WorkerDeps{
		ExpireAfter: 30 * 24 * time.Hour,
		RetainRead:  30 * 24 * time.Hour,
	})
	require.NoError(t, err)
	require.NotNil(t, workers)
}

func TestRetryPolicyExponentialBackoff(t *testing.T) {
	policy := NewRetryPolicy()
	attemptedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := policy.NextRetry(&rivertype.JobRow{
		Kind:        JobKindInvitationExpiry,
		Attempt:     1,
		AttemptedAt: &attemptedAt,
	})
	require.Equal(t, attemptedAt.Add(1*time.Minute), first)

	second := policy.NextRetry(&rivertype.JobRow{
		Kind:        JobKindInvitationExpiry,
		Attempt:     2,
		AttemptedAt: &attemptedAt,
	})
	require.Equal(t, attemptedAt.Add(2*time.Minute), second)

	third := policy.NextRetry(&rivertype.JobRow{
		Kind:        JobKindInvitationExpiry,
		Attempt:     3,
		AttemptedAt: &attemptedAt,
	})
	require.Equal(t, attemptedAt.Add(4*time.Minute), third)
}

func TestRetryPolicyCapsAtMaxDelay(t *testing.T) {
	policy := NewRetryPolicy()
	attemptedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	late := policy.NextRetry(&rivertype.JobRow{
		Kind:        JobKindInvitationExpiry,
		Attempt:     20,
		AttemptedAt: &attemptedAt,
	})
	require.Equal(t, attemptedAt.Add(1*time.Hour), late)
}

func TestRetryPolicyUnknownKindUsesDefault(t *testing.T) {
	policy := NewRetryPolicy()
	attemptedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	next := policy.NextRetry(&rivertype.JobRow{
		Kind:        "something_else",
		Attempt:     1,
		AttemptedAt: &attemptedAt,
	})
	require.Equal(t, attemptedAt.Add(30*time.Second), next)
}

func TestInvitationExpiryWorkerRequiresDeps(t *testing.T) {
	err := InvitationExpiryWorker{}.Work(context.Background(), &river.Job[InvitationExpiryArgs]{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not configured")
}

func TestNotificationCleanupWorkerRequiresDeps(t *testing.T) {
	err := NotificationCleanupWorker{}.Work(context.Background(), &river.Job[NotificationCleanupArgs]{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not configured")
}

func TestNewClientConfig(t *testing.T) {
	workers, err := NewWorkers(WorkerDeps{
		ExpireAfter: 30 * 24 * time.Hour,
		RetainRead:  30 * 24 * time.Hour,
	})
	require.NoError(t, err)

	config := NewClientConfig(workers, nil, NewPeriodicJobs())
	require.Equal(t, workers, config.Workers)
	require.Equal(t, InvitationExpiryMaxAttempts, config.MaxAttempts)
	require.Len(t, config.PeriodicJobs, 2)
	require.Equal(t, 4, config.Queues["default"].MaxWorkers)
}
