package mongo

import (
	"context"
	"fmt"

	"github.com/mindmesh/mindmesh-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	projectsCollection    = "projects"
	invitationsCollection = "invitations"
	usersCollection       = "users"
	recordingsCollection  = "recordings"
)

// DB wraps the Mongo client and database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDB connects to Mongo and verifies the connection.
func NewDB(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Ping verifies database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close disconnects from the database.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes backing the hot queries: the invitee
// inbox, per-project invitation lookups, and the pending-duplicate guard.
// The partial unique index closes the race where two concurrent creates for
// the same (project, email) both pass the duplicate check.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	invitations := d.db.Collection(invitationsCollection)

	_, err := invitations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "inviteeEmail", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "inviteeEmail", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "status", Value: "pending"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create invitation indexes: %w", err)
	}

	users := d.db.Collection(usersCollection)
	_, err = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	recordings := d.db.Collection(recordingsCollection)
	_, err = recordings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create recording indexes: %w", err)
	}

	return nil
}
