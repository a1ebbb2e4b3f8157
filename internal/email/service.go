package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/gatherly-app/server/internal/config"
)

// Service sends invitation email through the configured provider. When
// email is disabled it logs and succeeds, so the lifecycles never depend on
// a mail provider being reachable.
type Service struct {
	config       config.EmailConfig
	resendClient *resend.Client
	logger       zerolog.Logger
}

// invitationData holds data for rendering the invitation email body.
type invitationData struct {
	EventTitle  string
	InvitedBy   string
	CurrentYear int
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
		if cfg.Provider != "resend" {
			return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
		}
	}

	svc := &Service{
		config: cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled {
		svc.resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	return svc, nil
}

// SendInvitation sends the invitee an invitation email for an event.
func (s *Service) SendInvitation(ctx context.Context, to, eventTitle, invitedBy string) error {
	if err := validateEmailAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		s.logger.Info().
			Str("to", to).
			Str("event", eventTitle).
			Msg("email service disabled, skipping invitation email")
		return nil
	}

	data := invitationData{
		EventTitle:  eventTitle,
		InvitedBy:   invitedBy,
		CurrentYear: time.Now().Year(),
	}
	htmlBody, err := renderTemplate(invitationTemplate, data)
	if err != nil {
		return fmt.Errorf("render invitation email: %w", err)
	}

	subject := fmt.Sprintf("You are invited to %s", eventTitle)
	if err := s.sendViaResend(ctx, to, subject, htmlBody); err != nil {
		return fmt.Errorf("send invitation email: %w", err)
	}

	s.logger.Info().
		Str("to", to).
		Str("event", eventTitle).
		Msg("invitation email sent")
	return nil
}

// SendReminder re-sends the invitation as a reminder.
func (s *Service) SendReminder(ctx context.Context, to, eventTitle string) error {
	if err := validateEmailAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		s.logger.Info().
			Str("to", to).
			Str("event", eventTitle).
			Msg("email service disabled, skipping reminder email")
		return nil
	}

	data := invitationData{
		EventTitle:  eventTitle,
		CurrentYear: time.Now().Year(),
	}
	htmlBody, err := renderTemplate(reminderTemplate, data)
	if err != nil {
		return fmt.Errorf("render reminder email: %w", err)
	}

	subject := fmt.Sprintf("Reminder: you are invited to %s", eventTitle)
	if err := s.sendViaResend(ctx, to, subject, htmlBody); err != nil {
		return fmt.Errorf("send reminder email: %w", err)
	}

	s.logger.Info().
		Str("to", to).
		Str("event", eventTitle).
		Msg("reminder email sent")
	return nil
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`<html>
<body>
  <p>{{if .InvitedBy}}{{.InvitedBy}} has invited you{{else}}You are invited{{end}} to <strong>{{.EventTitle}}</strong>.</p>
  <p>Sign in to Gatherly to respond to the invitation.</p>
  <p>&copy; {{.CurrentYear}} Gatherly</p>
</body>
</html>`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`<html>
<body>
  <p>Reminder: your invitation to <strong>{{.EventTitle}}</strong> is still waiting for a response.</p>
  <p>Sign in to Gatherly to respond to the invitation.</p>
  <p>&copy; {{.CurrentYear}} Gatherly</p>
</body>
</html>`))

func renderTemplate(tmpl *template.Template, data invitationData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// validateEmailAddress validates an email address for format and header
// injection attempts.
func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}
