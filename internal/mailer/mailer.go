// Package mailer sends team invitation emails through Resend. In
// development, or without an API key, emails are logged instead.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"goal-tracker-go/internal/config"
	"goal-tracker-go/internal/domain/team"
	"goal-tracker-go/pkg/logger"
)

var ErrNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Mailer struct {
	emails emailSender
	from   string
	appURL string
	isDev  bool
	log    logger.Logger
}

func New(cfg config.MailConfig, isDev bool, log logger.Logger) *Mailer {
	m := &Mailer{
		from:   cfg.From,
		appURL: strings.TrimRight(cfg.AppURL, "/"),
		isDev:  isDev,
		log:    log,
	}
	if cfg.ResendAPIKey != "" && !isDev {
		m.emails = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return m
}

func (m *Mailer) SendInvitation(ctx context.Context, invitation team.InvitationEmail) error {
	joinURL := fmt.Sprintf("%s/invite/%s", m.appURL, invitation.InviteCode)
	subject, body := invitationTemplate(invitation, joinURL)

	if m.isDev || m.emails == nil {
		m.log.Info("mailer: email sent (dev mode)", "type", "team_invitation", "to", invitation.Email, "subject", subject, "url", joinURL)
		if m.isDev {
			return nil
		}
		return ErrNotConfigured
	}

	_, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{invitation.Email},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("send invitation email: %w", err)
	}
	m.log.Info("mailer: email sent", "type", "team_invitation", "to", invitation.Email)
	return nil
}

func invitationTemplate(invitation team.InvitationEmail, joinURL string) (string, string) {
	subject := fmt.Sprintf("You've been invited to join %s", invitation.TeamName)
	body := fmt.Sprintf(`Hi,

You've been invited to join the team "%s" on Goal Tracker.

Join here: %s

Your invite code is %s. It expires on %s.

If you weren't expecting this, you can ignore this email.
`, invitation.TeamName, joinURL, invitation.InviteCode, invitation.ExpiresAt.UTC().Format("January 2, 2006"))
	return subject, body
}
