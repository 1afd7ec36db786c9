package domain

import (
	"context"
	"time"
)

// PrivacySettings controls what other users can see.
type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility" bson:"profileVisibility" validate:"omitempty,oneof=public private friends"`
	ShowEmail         bool   `json:"showEmail" bson:"showEmail"`
	AllowInvites      bool   `json:"allowInvites" bson:"allowInvites"`
	ShowActivity      bool   `json:"showActivity" bson:"showActivity"`
}

// SecuritySettings holds per-account security preferences.
type SecuritySettings struct {
	TwoFactorEnabled bool `json:"twoFactorEnabled" bson:"twoFactorEnabled"`
	LoginAlerts      bool `json:"loginAlerts" bson:"loginAlerts"`
	SessionTimeout   int  `json:"sessionTimeout" bson:"sessionTimeout" validate:"omitempty,min=5,max=1440"`
}

// NotificationSettings selects which emails and digests a user receives.
type NotificationSettings struct {
	EmailNotifications   bool `json:"emailNotifications" bson:"emailNotifications"`
	ProjectInvites       bool `json:"projectInvites" bson:"projectInvites"`
	CollaborationUpdates bool `json:"collaborationUpdates" bson:"collaborationUpdates"`
	AIInsights           bool `json:"aiInsights" bson:"aiInsights"`
	WeeklyDigest         bool `json:"weeklyDigest" bson:"weeklyDigest"`
}

// DefaultPrivacySettings returns the defaults applied on first upsert.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{ProfileVisibility: "public", ShowEmail: true, AllowInvites: true, ShowActivity: true}
}

// DefaultSecuritySettings returns the defaults applied on first upsert.
func DefaultSecuritySettings() SecuritySettings {
	return SecuritySettings{TwoFactorEnabled: false, LoginAlerts: true, SessionTimeout: 30}
}

// DefaultNotificationSettings returns the defaults applied on first upsert.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{EmailNotifications: true, ProjectInvites: true, CollaborationUpdates: true, AIInsights: true, WeeklyDigest: false}
}

// User is the local profile cache for an externally-managed identity. The
// identity provider remains the source of truth; email and display fields
// are refreshed on every login observation.
type User struct {
	UserID   string `json:"userId" bson:"userId"`
	Email    string `json:"email" bson:"email"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Picture  string `json:"picture,omitempty" bson:"picture,omitempty"`
	Bio      string `json:"bio" bson:"bio"`
	Location string `json:"location" bson:"location"`
	Website  string `json:"website" bson:"website"`

	PrivacySettings      PrivacySettings      `json:"privacySettings" bson:"privacySettings"`
	SecuritySettings     SecuritySettings     `json:"securitySettings" bson:"securitySettings"`
	NotificationSettings NotificationSettings `json:"notificationSettings" bson:"notificationSettings"`

	LastLogin time.Time `json:"lastLogin" bson:"lastLogin"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProfileUpdate is the payload for editing display fields.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=2048"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
	Website  *string `json:"website,omitempty" validate:"omitempty,max=512"`
}

// UserRepository defines user profile storage keyed by the external id.
type UserRepository interface {
	FindByUserID(ctx context.Context, userID string) (*User, error)
	// Upsert finds or creates the profile and refreshes email, name,
	// picture and last login from the current identity observation.
	Upsert(ctx context.Context, userID, email, name, picture string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*User, error)
	UpdatePrivacy(ctx context.Context, userID string, settings PrivacySettings) (*User, error)
	UpdateSecurity(ctx context.Context, userID string, settings SecuritySettings) (*User, error)
	UpdateNotifications(ctx context.Context, userID string, settings NotificationSettings) (*User, error)
}
