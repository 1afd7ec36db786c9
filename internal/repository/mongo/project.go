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

// ProjectRepository stores project documents with embedded collaborators.
type ProjectRepository struct {
	coll *mongo.Collection
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{coll: db.db.Collection(projectsCollection)}
}

// Create inserts a new project document.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// GetByID returns the project or nil when absent.
func (r *ProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var project domain.Project
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

// ListForUser returns projects the user owns or collaborates on, matched by
// id or email, newest first. The email clauses cover accounts whose subject
// id changed across identity-provider connections.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID, email string) ([]domain.Project, error) {
	or := bson.A{
		bson.M{"ownerId": userID},
		bson.M{"collaborators.userId": userID},
	}
	if email != "" {
		or = append(or,
			bson.M{"ownerEmail": email},
			bson.M{"collaborators.email": email},
		)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"$or": or}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []domain.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// Update applies non-nil metadata fields and returns the updated document.
func (r *ProjectRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.ProjectUpdate) (*domain.Project, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Tags != nil {
		set["tags"] = update.Tags
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var project domain.Project
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &project, nil
}

// Delete removes the project document.
func (r *ProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddCollaborator pushes the entry under a guard filter: the write matches
// only when the target user is neither the owner nor already listed. A
// second push for the same user is filtered out, which keeps the operation
// idempotent for the accept-invitation retry path.
func (r *ProjectRepository) AddCollaborator(ctx context.Context, id primitive.ObjectID, collab domain.Collaborator) (bool, error) {
	filter := bson.M{
		"_id":                  id,
		"ownerId":              bson.M{"$ne": collab.UserID},
		"collaborators.userId": bson.M{"$ne": collab.UserID},
	}
	update := bson.M{
		"$push": bson.M{"collaborators": collab},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add collaborator: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// RemoveCollaborator pulls the entry for userID.
func (r *ProjectRepository) RemoveCollaborator(ctx context.Context, id primitive.ObjectID, userID string) error {
	update := bson.M{
		"$pull": bson.M{"collaborators": bson.M{"userId": userID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}
	return nil
}

// UpdateCollaboratorRole sets the role on the matching embedded entry.
func (r *ProjectRepository) UpdateCollaboratorRole(ctx context.Context, id primitive.ObjectID, userID, role string) error {
	filter := bson.M{"_id": id, "collaborators.userId": userID}
	update := bson.M{
		"$set": bson.M{
			"collaborators.$.role": role,
			"updatedAt":            time.Now().UTC(),
		},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to update collaborator role: %w", err)
	}
	return nil
}
