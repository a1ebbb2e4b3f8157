package cmd

import (
	"fmt"

	"github.com/gatherly-app/server/internal/config"
	"github.com/gatherly-app/server/internal/storage/postgres"
	"github.com/spf13/cobra"
)

var (
	migrationsPath string
	migrateDown    bool
	migrateSteps   int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply pending database migrations, or roll them back with --down.

Examples:
  # Apply all pending migrations
  server migrate

  # Roll back the most recent migration
  server migrate --down --steps 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		logger := config.NewLogger(cfg.Logging)

		if migrateDown {
			if err := postgres.MigrateDown(cfg.Database.URL, migrationsPath, migrateSteps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			logger.Info().Int("steps", migrateSteps).Msg("migrations rolled back")
			return nil
		}

		if err := postgres.MigrateUp(cfg.Database.URL, migrationsPath); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		logger.Info().Msg("migrations applied")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", postgres.DefaultMigrationsPath, "path to migration files")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back migrations instead of applying them")
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back with --down")
}
