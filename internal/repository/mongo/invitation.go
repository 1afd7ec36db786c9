package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InvitationRepository stores invitation documents.
type InvitationRepository struct {
	coll *mongo.Collection
}

// NewInvitationRepository creates a new invitation repository.
func NewInvitationRepository(db *DB) *InvitationRepository {
	return &InvitationRepository{coll: db.db.Collection(invitationsCollection)}
}

// Create inserts a new invitation. The partial unique index on
// (projectId, inviteeEmail, status=pending) turns a concurrent duplicate
// create into ErrConflict.
func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, inv)
	if mongo.IsDuplicateKeyError(err) {
		return domain.Conflictf("an invitation has already been sent to this email")
	}
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// GetByID returns the invitation or nil when absent.
func (r *InvitationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	return &inv, nil
}

// FindPending returns the pending invitation for (project, email), or nil.
func (r *InvitationRepository) FindPending(ctx context.Context, projectID primitive.ObjectID, inviteeEmail string) (*domain.Invitation, error) {
	filter := bson.M{
		"projectId":    projectID,
		"inviteeEmail": inviteeEmail,
		"status":       domain.InvitationPending,
	}

	var inv domain.Invitation
	err := r.coll.FindOne(ctx, filter).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending invitation: %w", err)
	}
	return &inv, nil
}

// ListPendingForEmail returns the invitee's pending invitations newest first.
func (r *InvitationRepository) ListPendingForEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	filter := bson.M{"inviteeEmail": email, "status": domain.InvitationPending}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer cursor.Close(ctx)

	var invitations []domain.Invitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode invitations: %w", err)
	}
	return invitations, nil
}

// MarkResponded performs the atomic pending-to-terminal transition:
// "set status where status is pending". Of two concurrent responders only
// one matches the filter; the loser gets ErrConflict (or ErrNotFound when
// the invitation never existed).
func (r *InvitationRepository) MarkResponded(ctx context.Context, id primitive.ObjectID, status, inviteeUserID string, respondedAt time.Time) (*domain.Invitation, error) {
	filter := bson.M{"_id": id, "status": domain.InvitationPending}
	set := bson.M{
		"status":      status,
		"respondedAt": respondedAt,
	}
	if inviteeUserID != "" {
		set["inviteeUserId"] = inviteeUserID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var inv domain.Invitation
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a lost race from a missing document.
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, domain.NotFoundf("invitation not found")
		}
		return nil, domain.Conflictf("invitation has already been responded to")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	return &inv, nil
}
