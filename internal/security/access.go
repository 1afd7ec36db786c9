package security

import "github.com/mindmesh/mindmesh-api/internal/domain"

// Action names each mutating or read operation gated by project roles.
type Action string

const (
	ActionSendInvitation     Action = "send_invitation"
	ActionViewCollaborators  Action = "view_collaborators"
	ActionRemoveCollaborator Action = "remove_collaborator"
	ActionChangeRole         Action = "change_role"
	ActionUpdateProject      Action = "update_project"
	ActionDeleteProject      Action = "delete_project"
	ActionAccessRecordings   Action = "access_recordings"
)

// IsOwner reports whether actorID owns the project.
func IsOwner(actorID string, p *domain.Project) bool {
	return p.OwnerID == actorID
}

// IsAdmin reports whether actorID is an admin collaborator. The owner is
// not a collaborator and is therefore not an admin.
func IsAdmin(actorID string, p *domain.Project) bool {
	c := p.Collaborator(actorID)
	return c != nil && c.Role == domain.RoleAdmin
}

// IsCollaborator reports whether actorID has any access to the project:
// the owner or any collaborator regardless of role.
func IsCollaborator(actorID string, p *domain.Project) bool {
	return IsOwner(actorID, p) || p.Collaborator(actorID) != nil
}

// CanPerform evaluates the role policy for an action:
//
//	send_invitation      owner, admin
//	view_collaborators   owner, any collaborator
//	remove_collaborator  owner, admin
//	change_role          owner only
//	update_project       owner, admin
//	delete_project       owner only
//	access_recordings    owner, any collaborator
//
// Removing the owner and changing the owner's role are rejected at the
// target, not here; this gate only judges the actor.
func CanPerform(actorID string, p *domain.Project, action Action) bool {
	switch action {
	case ActionSendInvitation, ActionRemoveCollaborator, ActionUpdateProject:
		return IsOwner(actorID, p) || IsAdmin(actorID, p)
	case ActionViewCollaborators, ActionAccessRecordings:
		return IsCollaborator(actorID, p)
	case ActionChangeRole, ActionDeleteProject:
		return IsOwner(actorID, p)
	default:
		return false
	}
}
