package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testInvitation() (*domain.Invitation, *domain.Project) {
	inv := &domain.Invitation{
		InviterEmail: "owner@example.com",
		InviteeEmail: "friend@example.com",
		Role:         domain.RoleMember,
		Message:      "Join us!",
		ExpiresAt:    time.Now().Add(domain.InvitationTTL),
	}
	project := &domain.Project{
		Title:       "Q3 Planning",
		Description: "Quarterly planning sessions",
	}
	return inv, project
}

func TestSendInvitation_NotConfigured(t *testing.T) {
	mailer := NewMailer(config.EmailConfig{}, zerolog.Nop())

	assert.False(t, mailer.Configured())

	inv, project := testInvitation()
	result := mailer.SendInvitation(context.Background(), inv, project, "Alice")

	assert.False(t, result.Success)
	assert.Equal(t, "email service not configured", result.Err)
}

func TestInvitationBodies(t *testing.T) {
	inv, project := testInvitation()

	text := invitationText(inv, project, "Alice", project.Title, "http://localhost:5173/collaborators")
	assert.Contains(t, text, "Alice has invited you to collaborate on the project: Q3 Planning")
	assert.Contains(t, text, "Role: Member")
	assert.Contains(t, text, "Join us!")
	assert.Contains(t, text, "http://localhost:5173/collaborators")

	html := invitationHTML(inv, project, "Alice", project.Title, "http://localhost:5173/collaborators")
	assert.Contains(t, html, "Q3 Planning")
	assert.Contains(t, html, "Quarterly planning sessions")
	assert.Contains(t, html, "View Invitation")
}

func TestInvitationHTMLEscapesUserContent(t *testing.T) {
	inv, project := testInvitation()
	inv.Message = `<script>alert("x")</script>`

	html := invitationHTML(inv, project, "Alice", project.Title, "http://localhost:5173/collaborators")
	assert.NotContains(t, html, "<script>")
	assert.True(t, strings.Contains(html, "&lt;script&gt;"))
}

func TestInvitationURLDefaultsAndTrims(t *testing.T) {
	m := NewMailer(config.EmailConfig{}, zerolog.Nop())
	assert.Equal(t, "http://localhost:5173/collaborators", m.invitationURL())

	m = NewMailer(config.EmailConfig{FrontendURL: "https://mindmesh.app/"}, zerolog.Nop())
	assert.Equal(t, "https://mindmesh.app/collaborators", m.invitationURL())
}
