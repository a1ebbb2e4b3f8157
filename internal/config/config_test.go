package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherly_test")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 25, cfg.Database.MaxConnections)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.False(t, cfg.Email.Enabled)
	require.Equal(t, 30*24*time.Hour, cfg.Invitations.ExpireAfter)
	require.Equal(t, 30*24*time.Hour, cfg.Notifications.RetainRead)
	require.Equal(t, "development", cfg.Environment)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherly_test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("INVITATION_EXPIRE_AFTER", "168h")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 7*24*time.Hour, cfg.Invitations.ExpireAfter)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherly_test")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEmailValidation(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatherly_test")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("EMAIL_FROM", "")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), "EMAIL_FROM")

	t.Setenv("EMAIL_FROM", "events@gatherly.app")
	t.Setenv("RESEND_API_KEY", "")

	_, err = Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), "RESEND_API_KEY")
}
