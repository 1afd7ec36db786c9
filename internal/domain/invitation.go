package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationTTL is how long an invitation stays actionable after creation.
const InvitationTTL = 30 * 24 * time.Hour

// Invitation statuses. Transitions are one-way: pending moves to exactly one
// of the terminal states and never back.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationRejected  = "rejected"
	InvitationCancelled = "cancelled"
)

// Invitation is a pending offer of collaboration awaiting the invitee's
// response.
type Invitation struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID     primitive.ObjectID `json:"projectId" bson:"projectId"`
	InviterID     string             `json:"inviterId" bson:"inviterId"`
	InviterEmail  string             `json:"inviterEmail" bson:"inviterEmail"`
	InviteeEmail  string             `json:"inviteeEmail" bson:"inviteeEmail"`
	InviteeUserID string             `json:"inviteeUserId,omitempty" bson:"inviteeUserId,omitempty"`
	Role          string             `json:"role" bson:"role"`
	Status        string             `json:"status" bson:"status"`
	Message       string             `json:"message" bson:"message"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	RespondedAt   *time.Time         `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
	ExpiresAt     time.Time          `json:"expiresAt" bson:"expiresAt"`
}

// Expired reports whether the invitation's actionable window has passed.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// InvitationCreate is the payload for sending an invitation.
type InvitationCreate struct {
	ProjectID    string `json:"projectId" validate:"required"`
	InviteeEmail string `json:"inviteeEmail" validate:"required,email,max=255"`
	Role         string `json:"role,omitempty" validate:"omitempty,oneof=admin member viewer"`
	Message      string `json:"message,omitempty" validate:"omitempty,max=2048"`
}

// InvitationRepository defines invitation document storage.
//
// MarkResponded is the status-transition primitive: it atomically moves the
// invitation from pending to the given terminal status. Of two concurrent
// responders only one observes the pending document; the loser gets
// ErrConflict.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Invitation, error)
	// FindPending returns the pending invitation for (project, email), or
	// nil when none exists.
	FindPending(ctx context.Context, projectID primitive.ObjectID, inviteeEmail string) (*Invitation, error)
	// ListPendingForEmail returns the caller's pending invitations, newest
	// first.
	ListPendingForEmail(ctx context.Context, email string) ([]Invitation, error)
	MarkResponded(ctx context.Context, id primitive.ObjectID, status, inviteeUserID string, respondedAt time.Time) (*Invitation, error)
}
