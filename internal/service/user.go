package service

import (
	"context"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/mindmesh/mindmesh-api/internal/identity"
	"github.com/rs/zerolog"
)

// UserService maintains the user profile cache. The identity provider stays
// the source of truth for authentication; this cache stores display fields
// and preference structs.
type UserService struct {
	users  domain.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(users domain.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// Settings returns the caller's profile, creating it on first sight and
// refreshing display fields from the current token.
func (s *UserService) Settings(ctx context.Context, actor identity.Identity) (*domain.User, error) {
	return s.users.Upsert(ctx, actor.UserID, actor.Email, actor.Name, actor.Picture)
}

// UpdateProfile applies display-field edits.
func (s *UserService) UpdateProfile(ctx context.Context, actor identity.Identity, input domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.ensure(ctx, actor)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateProfile(ctx, user.UserID, &input)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("user not found")
	}
	return updated, nil
}

// UpdatePrivacy replaces the privacy preference struct.
func (s *UserService) UpdatePrivacy(ctx context.Context, actor identity.Identity, settings domain.PrivacySettings) (*domain.User, error) {
	user, err := s.ensure(ctx, actor)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdatePrivacy(ctx, user.UserID, settings)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("user not found")
	}
	return updated, nil
}

// UpdateSecurity replaces the security preference struct.
func (s *UserService) UpdateSecurity(ctx context.Context, actor identity.Identity, settings domain.SecuritySettings) (*domain.User, error) {
	user, err := s.ensure(ctx, actor)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateSecurity(ctx, user.UserID, settings)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("user not found")
	}
	return updated, nil
}

// UpdateNotifications replaces the notification preference struct.
func (s *UserService) UpdateNotifications(ctx context.Context, actor identity.Identity, settings domain.NotificationSettings) (*domain.User, error) {
	user, err := s.ensure(ctx, actor)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateNotifications(ctx, user.UserID, settings)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("user not found")
	}
	return updated, nil
}

func (s *UserService) ensure(ctx context.Context, actor identity.Identity) (*domain.User, error) {
	return s.users.Upsert(ctx, actor.UserID, actor.Email, actor.Name, actor.Picture)
}
