package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository stores user profile documents keyed by the external id.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{coll: db.db.Collection(usersCollection)}
}

// FindByUserID returns the profile or nil when absent.
func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Upsert finds or creates the profile and refreshes display fields and the
// last-login stamp from the current identity observation. Empty observation
// values never overwrite stored ones.
func (r *UserRepository) Upsert(ctx context.Context, userID, email, name, picture string) (*domain.User, error) {
	now := time.Now().UTC()

	set := bson.M{
		"lastLogin": now,
		"updatedAt": now,
	}
	if email != "" {
		set["email"] = email
	}
	if name != "" {
		set["name"] = name
	}
	if picture != "" {
		set["picture"] = picture
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"userId":               userID,
			"bio":                  "",
			"location":             "",
			"website":              "",
			"privacySettings":      domain.DefaultPrivacySettings(),
			"securitySettings":     domain.DefaultSecuritySettings(),
			"notificationSettings": domain.DefaultNotificationSettings(),
			"createdAt":            now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var user domain.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies non-nil display fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, update *domain.ProfileUpdate) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}

	return r.findAndSet(ctx, userID, set)
}

// UpdatePrivacy replaces the privacy settings struct.
func (r *UserRepository) UpdatePrivacy(ctx context.Context, userID string, settings domain.PrivacySettings) (*domain.User, error) {
	return r.findAndSet(ctx, userID, bson.M{
		"privacySettings": settings,
		"updatedAt":       time.Now().UTC(),
	})
}

// UpdateSecurity replaces the security settings struct.
func (r *UserRepository) UpdateSecurity(ctx context.Context, userID string, settings domain.SecuritySettings) (*domain.User, error) {
	return r.findAndSet(ctx, userID, bson.M{
		"securitySettings": settings,
		"updatedAt":        time.Now().UTC(),
	})
}

// UpdateNotifications replaces the notification settings struct.
func (r *UserRepository) UpdateNotifications(ctx context.Context, userID string, settings domain.NotificationSettings) (*domain.User, error) {
	return r.findAndSet(ctx, userID, bson.M{
		"notificationSettings": settings,
		"updatedAt":            time.Now().UTC(),
	})
}

func (r *UserRepository) findAndSet(ctx context.Context, userID string, set bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user domain.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}
