package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// Result reports the outcome of an email delivery attempt. A failed send is
// not an application error; invitations still work in-app.
type Result struct {
	Success bool
	Err     string
}

// Mailer sends invitation notifications over SMTP. When no SMTP transport
// is configured it becomes a no-op that reports Success=false.
type Mailer struct {
	cfg    config.EmailConfig
	logger zerolog.Logger
}

// NewMailer creates a new mailer.
func NewMailer(cfg config.EmailConfig, logger zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger.With().Str("component", "mailer").Logger()}
}

// Configured reports whether this mailer can actually deliver mail.
func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// SendInvitation delivers the collaboration invitation email. Delivery
// failures are logged and reported in the Result, never returned as errors,
// so a broken SMTP relay cannot break the invitation flow.
func (m *Mailer) SendInvitation(ctx context.Context, inv *domain.Invitation, project *domain.Project, inviterName string) Result {
	if !m.Configured() {
		m.logger.Debug().Msg("email transport not configured, skipping invitation email")
		return Result{Success: false, Err: "email service not configured"}
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("MindMesh", m.cfg.From); err != nil {
		m.logger.Warn().Err(err).Msg("invalid sender address")
		return Result{Success: false, Err: err.Error()}
	}
	if err := msg.To(inv.InviteeEmail); err != nil {
		m.logger.Warn().Err(err).Str("to", inv.InviteeEmail).Msg("invalid recipient address")
		return Result{Success: false, Err: err.Error()}
	}

	title := project.Title
	if title == "" {
		title = "Untitled Project"
	}
	inviter := inviterName
	if inviter == "" {
		inviter = inv.InviterEmail
	}

	msg.Subject(fmt.Sprintf("You've been invited to collaborate on %q", title))
	msg.SetBodyString(mail.TypeTextPlain, invitationText(inv, project, inviter, title, m.invitationURL()))
	msg.AddAlternativeString(mail.TypeTextHTML, invitationHTML(inv, project, inviter, title, m.invitationURL()))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to create SMTP client")
		return Result{Success: false, Err: err.Error()}
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Warn().Err(err).Str("to", inv.InviteeEmail).Msg("failed to send invitation email")
		return Result{Success: false, Err: err.Error()}
	}

	m.logger.Info().Str("to", inv.InviteeEmail).Str("project", title).Msg("invitation email sent")
	return Result{Success: true}
}

func (m *Mailer) invitationURL() string {
	base := m.cfg.FrontendURL
	if base == "" {
		base = "http://localhost:5173"
	}
	return strings.TrimRight(base, "/") + "/collaborators"
}

func invitationText(inv *domain.Invitation, project *domain.Project, inviter, title, url string) string {
	var b strings.Builder

	b.WriteString("MindMesh - Collaboration Invitation\n\n")
	b.WriteString("Hi there,\n\n")
	fmt.Fprintf(&b, "%s has invited you to collaborate on the project: %s\n\n", inviter, title)
	if project.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n\n", project.Description)
	}
	if inv.Message != "" {
		fmt.Fprintf(&b, "Message from %s: %s\n\n", inviter, inv.Message)
	}
	fmt.Fprintf(&b, "Role: %s\n\n", titleCase(string(inv.Role)))
	fmt.Fprintf(&b, "To accept this invitation, visit: %s\n\n", url)
	b.WriteString("This invitation will expire in 30 days.\n\n")
	b.WriteString("---\nThis is an automated message from MindMesh. Please do not reply to this email.\n")

	return b.String()
}

func invitationHTML(inv *domain.Invitation, project *domain.Project, inviter, title, url string) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<div style="background: #667eea; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;"><h1 style="color: white; margin: 0;">MindMesh</h1></div>`)
	b.WriteString(`<div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; border: 1px solid #ddd;">`)
	b.WriteString(`<h2 style="margin-top: 0;">You've been invited to collaborate!</h2>`)
	fmt.Fprintf(&b, `<p><strong>%s</strong> has invited you to collaborate on the project:</p>`, htmlEscape(inviter))
	fmt.Fprintf(&b, `<div style="background: white; padding: 20px; border-radius: 8px; border-left: 4px solid #667eea; margin: 20px 0;"><h3 style="margin: 0; color: #667eea;">%s</h3>`, htmlEscape(title))
	if project.Description != "" {
		fmt.Fprintf(&b, `<p style="color: #666; margin: 10px 0 0 0;">%s</p>`, htmlEscape(project.Description))
	}
	b.WriteString(`</div>`)
	if inv.Message != "" {
		fmt.Fprintf(&b, `<div style="background: #fff3cd; padding: 15px; border-radius: 8px; margin: 20px 0;"><p style="margin: 0;"><strong>Message from %s:</strong></p><p style="margin: 10px 0 0 0;">%s</p></div>`, htmlEscape(inviter), htmlEscape(inv.Message))
	}
	fmt.Fprintf(&b, `<p><strong>Role:</strong> %s</p>`, htmlEscape(titleCase(string(inv.Role))))
	fmt.Fprintf(&b, `<div style="text-align: center; margin: 30px 0;"><a href="%s" style="background: #667eea; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">View Invitation</a></div>`, url)
	b.WriteString(`<p style="color: #666; font-size: 14px;">To accept this invitation, log in to MindMesh and go to the Collaborators page. This invitation will expire in 30 days.</p>`)
	b.WriteString(`<p style="color: #999; font-size: 12px; text-align: center;">This is an automated message from MindMesh. Please do not reply to this email.</p>`)
	b.WriteString(`</div></body></html>`)

	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
