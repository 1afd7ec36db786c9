package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordingRepository stores recording documents.
type RecordingRepository struct {
	coll *mongo.Collection
}

// NewRecordingRepository creates a new recording repository.
func NewRecordingRepository(db *DB) *RecordingRepository {
	return &RecordingRepository{coll: db.db.Collection(recordingsCollection)}
}

// Create inserts a new recording document.
func (r *RecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert recording: %w", err)
	}
	return nil
}

// GetByID returns the recording or nil when absent.
func (r *RecordingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Recording, error) {
	var rec domain.Recording
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recording: %w", err)
	}
	return &rec, nil
}

// ListByProject returns recordings newest first. Audio URLs are projected
// out to keep listing payloads small.
func (r *RecordingRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]domain.Recording, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"audioUrl": 0})

	cursor, err := r.coll.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	defer cursor.Close(ctx)

	var recordings []domain.Recording
	if err := cursor.All(ctx, &recordings); err != nil {
		return nil, fmt.Errorf("failed to decode recordings: %w", err)
	}
	return recordings, nil
}

// Delete removes the recording document.
func (r *RecordingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	return nil
}
