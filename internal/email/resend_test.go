package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gatherly-app/server/internal/config"
)

func newTestService(t *testing.T, serverURL string) *Service {
	t.Helper()
	client := resend.NewClient("test-api-key")
	baseURL, err := url.Parse(serverURL)
	require.NoError(t, err)
	client.BaseURL = baseURL

	return &Service{
		config: config.EmailConfig{
			Enabled:      true,
			Provider:     "resend",
			From:         "noreply@gatherly.app",
			ResendAPIKey: "test-api-key",
		},
		resendClient: client,
		logger:       zerolog.Nop(),
	}
}

func TestSendViaResendSuccess(t *testing.T) {
	var received resend.SendEmailRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-123"})
	}))
	defer mockServer.Close()

	svc := newTestService(t, mockServer.URL)

	err := svc.sendViaResend(context.Background(), "guest@example.com", "You are invited", "<html>hi</html>")

	require.NoError(t, err)
	require.Equal(t, "noreply@gatherly.app", received.From)
	require.Equal(t, []string{"guest@example.com"}, received.To)
	require.Equal(t, "You are invited", received.Subject)
}

func TestSendViaResendAPIError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":    "validation_error",
			"message": "The to field is invalid",
		})
	}))
	defer mockServer.Close()

	svc := newTestService(t, mockServer.URL)

	err := svc.sendViaResend(context.Background(), "guest@example.com", "subject", "<html></html>")

	require.Error(t, err)
}

func TestSendViaResendWithoutClient(t *testing.T) {
	svc := &Service{logger: zerolog.Nop()}

	err := svc.sendViaResend(context.Background(), "guest@example.com", "subject", "<html></html>")

	require.Error(t, err)
	require.Contains(t, err.Error(), "not initialized")
}

func TestSendInvitationThroughMockServer(t *testing.T) {
	var received resend.SendEmailRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-456"})
	}))
	defer mockServer.Close()

	svc := newTestService(t, mockServer.URL)

	err := svc.SendInvitation(context.Background(), "guest@example.com", "Garden Party", "Dana")

	require.NoError(t, err)
	require.Equal(t, "You are invited to Garden Party", received.Subject)
	require.Contains(t, received.Html, "Garden Party")
}
