package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values a collaborator can hold on a project. The owner is not a
// collaborator and has no Role entry.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// ValidRole reports whether role is one of the closed role enum.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember || role == RoleViewer
}

// Project statuses
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Collaborator is a non-owner user with a granted role, embedded in the
// project document. Unique by UserID within a project.
type Collaborator struct {
	UserID   string    `json:"userId" bson:"userId"`
	Email    string    `json:"email" bson:"email"`
	Role     string    `json:"role" bson:"role"`
	JoinedAt time.Time `json:"joinedAt" bson:"joinedAt"`
}

// Project is the unit of collaboration. Collaborators are embedded so a
// single document read yields the full access picture.
type Project struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	OwnerID       string             `json:"ownerId" bson:"ownerId"`
	OwnerEmail    string             `json:"ownerEmail,omitempty" bson:"ownerEmail,omitempty"`
	Collaborators []Collaborator     `json:"collaborators" bson:"collaborators"`
	Tags          []string           `json:"tags" bson:"tags"`
	Status        string             `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Collaborator returns the embedded entry for userID, or nil.
func (p *Project) Collaborator(userID string) *Collaborator {
	for i := range p.Collaborators {
		if p.Collaborators[i].UserID == userID {
			return &p.Collaborators[i]
		}
	}
	return nil
}

// CollaboratorByEmail returns the embedded entry for email, or nil.
func (p *Project) CollaboratorByEmail(email string) *Collaborator {
	for i := range p.Collaborators {
		if p.Collaborators[i].Email == email {
			return &p.Collaborators[i]
		}
	}
	return nil
}

// ProjectCreate is the payload for creating a project.
type ProjectCreate struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=4096"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,max=64"`
}

// ProjectUpdate is the payload for metadata edits. Nil fields are untouched.
type ProjectUpdate struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=4096"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,max=64"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

// ProjectRepository defines project document storage.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Project, error)
	// ListForUser returns projects where the user is owner or collaborator,
	// matched by user id or email, newest first.
	ListForUser(ctx context.Context, userID, email string) ([]Project, error)
	Update(ctx context.Context, id primitive.ObjectID, update *ProjectUpdate) (*Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AddCollaborator pushes the entry only when the user is neither the
	// owner nor already in the list. Returns false when the guard filtered
	// the write out (the entry already exists, which is not an error).
	AddCollaborator(ctx context.Context, id primitive.ObjectID, collab Collaborator) (bool, error)
	RemoveCollaborator(ctx context.Context, id primitive.ObjectID, userID string) error
	UpdateCollaboratorRole(ctx context.Context, id primitive.ObjectID, userID, role string) error
}
