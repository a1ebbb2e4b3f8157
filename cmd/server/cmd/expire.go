package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherly-app/server/internal/config"
	"github.com/gatherly-app/server/internal/domain/invitations"
	"github.com/gatherly-app/server/internal/domain/notifications"
	"github.com/gatherly-app/server/internal/domain/registrations"
	"github.com/gatherly-app/server/internal/email"
	"github.com/gatherly-app/server/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var expireCleanupNotifications bool

var expireCmd = &cobra.Command{
	Use:   "expire-invitations",
	Short: "Run the invitation expiry sweep once",
	Long: `Run the invitation expiry sweep once and exit.

Marks every pending invitation older than INVITATION_EXPIRE_AFTER as expired.
The same sweep runs daily inside "serve"; this command exists for manual and
cron-driven runs.

With --cleanup-notifications, read notifications older than
NOTIFICATION_RETAIN_READ are also deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		logger := config.NewLogger(cfg.Logging)

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()

		repo, err := postgres.NewRepository(pool)
		if err != nil {
			return fmt.Errorf("repository init failed: %w", err)
		}

		mailer, err := email.NewService(cfg.Email, logger)
		if err != nil {
			return fmt.Errorf("email init failed: %w", err)
		}

		notificationService := notifications.NewService(repo.Notifications())
		registrationService := registrations.NewService(repo.Registrations(), notificationService)
		invitationService := invitations.NewService(repo.Invitations(), registrationService, notificationService, mailer)

		expired, err := invitationService.ExpireStale(ctx, cfg.Invitations.ExpireAfter)
		if err != nil {
			return fmt.Errorf("expiry sweep: %w", err)
		}
		logger.Info().Int64("expired", expired).Msg("invitation expiry sweep finished")

		if expireCleanupNotifications {
			deleted, err := notificationService.CleanupRead(ctx, cfg.Notifications.RetainRead)
			if err != nil {
				return fmt.Errorf("notification cleanup: %w", err)
			}
			logger.Info().Int64("deleted", deleted).Msg("notification cleanup finished")
		}

		return nil
	},
}

func init() {
	expireCmd.Flags().BoolVar(&expireCleanupNotifications, "cleanup-notifications", false, "also delete old read notifications")
}
