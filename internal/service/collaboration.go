package service

import (
	"context"
	"strings"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/identity"
	"github.com/mindmesh/mindmesh-api/internal/notify"
	"github.com/mindmesh/mindmesh-api/internal/security"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationMailer delivers invitation notifications. Delivery outcome is
// reported, never raised; see notify.Mailer.
type InvitationMailer interface {
	SendInvitation(ctx context.Context, inv *domain.Invitation, project *domain.Project, inviterName string) notify.Result
}

// CollaborationService handles the invitation workflow and collaborator
// management.
type CollaborationService struct {
	projects    domain.ProjectRepository
	invitations domain.InvitationRepository
	users       domain.UserRepository
	mailer      InvitationMailer
	logger      zerolog.Logger
}

// NewCollaborationService creates a new collaboration service
func NewCollaborationService(
	projects domain.ProjectRepository,
	invitations domain.InvitationRepository,
	users domain.UserRepository,
	mailer InvitationMailer,
	logger zerolog.Logger,
) *CollaborationService {
	return &CollaborationService{
		projects:    projects,
		invitations: invitations,
		users:       users,
		mailer:      mailer,
		logger:      logger.With().Str("component", "collaboration").Logger(),
	}
}

// Invite creates a pending invitation and fires the notification email in
// the background. The email outcome never affects the response.
func (s *CollaborationService) Invite(ctx context.Context, actor identity.Identity, input domain.InvitationCreate) (*domain.Invitation, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return nil, domain.Validationf("invalid role %q", role)
	}

	projectID, err := primitive.ObjectIDFromHex(input.ProjectID)
	if err != nil {
		return nil, domain.Validationf("invalid project id")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFoundf("project not found")
	}

	inviterEmail, err := s.resolveInviterEmail(ctx, actor, project)
	if err != nil {
		return nil, err
	}

	if !security.CanPerform(actor.UserID, project, security.ActionSendInvitation) {
		return nil, domain.Forbiddenf("only the project owner or an admin can send invitations")
	}

	inviteeEmail := strings.ToLower(strings.TrimSpace(input.InviteeEmail))
	if identity.ValidEmail(inviteeEmail) == "" {
		return nil, domain.Validationf("invalid invitee email address")
	}
	if strings.EqualFold(project.OwnerEmail, inviteeEmail) {
		return nil, domain.Conflictf("the project owner cannot be invited")
	}
	if project.CollaboratorByEmail(inviteeEmail) != nil {
		return nil, domain.Conflictf("this user is already a collaborator on the project")
	}

	if existing, err := s.invitations.FindPending(ctx, projectID, inviteeEmail); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Conflictf("an invitation has already been sent to this email")
	}

	now := time.Now().UTC()
	inv := &domain.Invitation{
		ProjectID:    projectID,
		InviterID:    actor.UserID,
		InviterEmail: inviterEmail,
		InviteeEmail: inviteeEmail,
		Role:         role,
		Status:       domain.InvitationPending,
		Message:      input.Message,
		CreatedAt:    now,
		ExpiresAt:    now.Add(domain.InvitationTTL),
	}

	// The partial unique index on (projectId, inviteeEmail, status=pending)
	// closes the race where two creates pass the FindPending check; the
	// repository maps the duplicate-key error to a conflict.
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.notifyInvitee(inv, project, actor.Name)

	return inv, nil
}

// notifyInvitee dispatches the invitation email without blocking the
// request. The request context is not reused: it dies with the response.
func (s *CollaborationService) notifyInvitee(inv *domain.Invitation, project *domain.Project, inviterName string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result := s.mailer.SendInvitation(ctx, inv, project, inviterName)
		if !result.Success {
			s.logger.Warn().
				Str("invitation_id", inv.ID.Hex()).
				Str("invitee", inv.InviteeEmail).
				Str("reason", result.Err).
				Msg("invitation email not delivered")
			return
		}
		s.logger.Info().
			Str("invitation_id", inv.ID.Hex()).
			Str("invitee", inv.InviteeEmail).
			Msg("invitation email delivered")
	}()
}

// resolveInviterEmail works through the fallback chain for inviters whose
// token carries no usable email claim: project owner email, collaborator
// entry, then the cached user profile. Exhausting the chain is a validation
// failure with a remediation hint, because the root cause is a stale token
// the user can fix by re-authenticating.
func (s *CollaborationService) resolveInviterEmail(ctx context.Context, actor identity.Identity, project *domain.Project) (string, error) {
	if actor.Email != "" {
		return actor.Email, nil
	}

	if project.OwnerID == actor.UserID {
		if email := identity.ValidEmail(project.OwnerEmail); email != "" {
			return email, nil
		}
	}
	if collab := project.Collaborator(actor.UserID); collab != nil {
		if email := identity.ValidEmail(collab.Email); email != "" {
			return email, nil
		}
	}

	user, err := s.users.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return "", err
	}
	if user != nil {
		if email := identity.ValidEmail(user.Email); email != "" {
			return email, nil
		}
	}

	return "", domain.Validationf("could not determine your email address, please log out and back in")
}

// MyInvitations lists the caller's pending invitations, newest first.
func (s *CollaborationService) MyInvitations(ctx context.Context, actor identity.Identity) ([]domain.Invitation, error) {
	if actor.Email == "" {
		return nil, domain.Validationf("could not determine your email address, please log out and back in")
	}
	return s.invitations.ListPendingForEmail(ctx, strings.ToLower(actor.Email))
}

// Accept moves the invitation to accepted and adds the caller as a
// collaborator. The status transition is a conditional update on
// status=pending, so of two concurrent accepts exactly one wins; the
// collaborator push is idempotent, so a retry after a partial failure
// cannot duplicate the entry.
func (s *CollaborationService) Accept(ctx context.Context, actor identity.Identity, invitationID string) (*domain.Project, error) {
	inv, err := s.loadActionable(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv, err = s.invitations.MarkResponded(ctx, inv.ID, domain.InvitationAccepted, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	added, err := s.projects.AddCollaborator(ctx, inv.ProjectID, domain.Collaborator{
		UserID:   actor.UserID,
		Email:    inv.InviteeEmail,
		Role:     inv.Role,
		JoinedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if !added {
		s.logger.Debug().
			Str("invitation_id", inv.ID.Hex()).
			Str("user_id", actor.UserID).
			Msg("collaborator entry already present, push skipped")
	}

	if _, err := s.users.Upsert(ctx, actor.UserID, inv.InviteeEmail, actor.Name, actor.Picture); err != nil {
		s.logger.Warn().Err(err).Str("user_id", actor.UserID).Msg("failed to refresh user profile on accept")
	}

	project, err := s.projects.GetByID(ctx, inv.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFoundf("project not found")
	}
	return project, nil
}

// Reject moves the invitation to rejected. No project mutation.
func (s *CollaborationService) Reject(ctx context.Context, actor identity.Identity, invitationID string) error {
	inv, err := s.loadActionable(ctx, actor, invitationID)
	if err != nil {
		return err
	}

	_, err = s.invitations.MarkResponded(ctx, inv.ID, domain.InvitationRejected, actor.UserID, time.Now().UTC())
	return err
}

// loadActionable fetches the invitation and checks the shared accept/reject
// preconditions: addressed to the caller, still pending, not expired.
func (s *CollaborationService) loadActionable(ctx context.Context, actor identity.Identity, invitationID string) (*domain.Invitation, error) {
	id, err := primitive.ObjectIDFromHex(invitationID)
	if err != nil {
		return nil, domain.Validationf("invalid invitation id")
	}

	inv, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFoundf("invitation not found")
	}

	if actor.Email == "" {
		return nil, domain.Validationf("could not determine your email address, please log out and back in")
	}
	if !strings.EqualFold(inv.InviteeEmail, actor.Email) {
		return nil, domain.Forbiddenf("this invitation was sent to a different email address")
	}
	if inv.Status != domain.InvitationPending {
		return nil, domain.Conflictf("invitation has already been responded to")
	}
	if inv.Expired(time.Now().UTC()) {
		return nil, domain.Conflictf("invitation has expired")
	}

	return inv, nil
}

// Collaborators returns the project with its collaborator list for callers
// allowed to view it.
func (s *CollaborationService) Collaborators(ctx context.Context, actor identity.Identity, projectID string) (*domain.Project, error) {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, domain.Validationf("invalid project id")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFoundf("project not found")
	}

	if !security.CanPerform(actor.UserID, project, security.ActionViewCollaborators) {
		return nil, domain.Forbiddenf("you do not have access to this project")
	}
	return project, nil
}

// RemoveCollaborator removes the target collaborator. The owner can never
// be removed, whoever asks.
func (s *CollaborationService) RemoveCollaborator(ctx context.Context, actor identity.Identity, projectID, collaboratorID string) error {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return domain.Validationf("invalid project id")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.NotFoundf("project not found")
	}

	if collaboratorID == project.OwnerID {
		return domain.Validationf("the project owner cannot be removed")
	}
	if !security.CanPerform(actor.UserID, project, security.ActionRemoveCollaborator) {
		return domain.Forbiddenf("only the project owner or an admin can remove collaborators")
	}
	if project.Collaborator(collaboratorID) == nil {
		return domain.NotFoundf("collaborator not found")
	}

	return s.projects.RemoveCollaborator(ctx, id, collaboratorID)
}

// UpdateCollaboratorRole changes the target collaborator's role. Owner only;
// the owner has no role entry to change.
func (s *CollaborationService) UpdateCollaboratorRole(ctx context.Context, actor identity.Identity, projectID, collaboratorID, role string) (*domain.Collaborator, error) {
	if !domain.ValidRole(role) {
		return nil, domain.Validationf("invalid role %q", role)
	}

	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, domain.Validationf("invalid project id")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFoundf("project not found")
	}

	if collaboratorID == project.OwnerID {
		return nil, domain.Validationf("the project owner's role cannot be changed")
	}
	if !security.CanPerform(actor.UserID, project, security.ActionChangeRole) {
		return nil, domain.Forbiddenf("only the project owner can change collaborator roles")
	}

	target := project.Collaborator(collaboratorID)
	if target == nil {
		return nil, domain.NotFoundf("collaborator not found")
	}

	if err := s.projects.UpdateCollaboratorRole(ctx, id, collaboratorID, role); err != nil {
		return nil, err
	}

	updated := *target
	updated.Role = role
	return &updated, nil
}
