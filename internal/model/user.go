package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type AuthProvider string

const (
	ProviderCredentials AuthProvider = "credentials"
	ProviderGoogle      AuthProvider = "google"
	ProviderGitHub      AuthProvider = "github"
)

func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderCredentials, ProviderGoogle, ProviderGitHub:
		return true
	}
	return false
}

// Federated reports whether the provider is an external identity provider.
func (p AuthProvider) Federated() bool {
	return p == ProviderGoogle || p == ProviderGitHub
}

type NotificationPreferences struct {
	EmailNotifications   bool `json:"emailNotifications" bson:"emailNotifications"`
	PushNotifications    bool `json:"pushNotifications" bson:"pushNotifications"`
	InAppNotifications   bool `json:"inAppNotifications" bson:"inAppNotifications"`
	AppointmentReminders bool `json:"appointmentReminders" bson:"appointmentReminders"`
	MessageAlerts        bool `json:"messageAlerts" bson:"messageAlerts"`
	SystemUpdates        bool `json:"systemUpdates" bson:"systemUpdates"`
	MarketingEmails      bool `json:"marketingEmails" bson:"marketingEmails"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailNotifications:   true,
		PushNotifications:    true,
		InAppNotifications:   true,
		AppointmentReminders: true,
		MessageAlerts:        true,
		SystemUpdates:        true,
		MarketingEmails:      false,
	}
}

// Value stores preferences as a JSON text column.
func (p NotificationPreferences) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *NotificationPreferences) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = DefaultNotificationPreferences()
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported notification preferences type %T", src)
	}
	prefs := DefaultNotificationPreferences()
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return fmt.Errorf("invalid notification preferences: %w", err)
	}
	*p = prefs
	return nil
}

type User struct {
	ID                      string                  `db:"id"`
	Name                    string                  `db:"name"`
	Email                   string                  `db:"email"`
	PasswordHash            *string                 `db:"password_hash"` // Nullable for federated users
	Role                    Role                    `db:"role"`
	Image                   *string                 `db:"image"`
	Phone                   *string                 `db:"phone"`
	Address                 *string                 `db:"address"`
	Bio                     *string                 `db:"bio"`
	IsActive                bool                    `db:"is_active"`
	EmailVerifiedAt         *time.Time              `db:"email_verified_at"`
	LastLoginAt             *time.Time              `db:"last_login_at"`
	AuthProvider            AuthProvider            `db:"auth_provider"`
	NotificationPreferences NotificationPreferences `db:"notification_preferences"`
	CreatedAt               time.Time               `db:"created_at"`
	UpdatedAt               time.Time               `db:"updated_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsActiveUser is true for accounts that are both enabled and verified.
func (u *User) IsActiveUser() bool {
	return u.IsActive && u.EmailVerifiedAt != nil
}

func (u *User) IsOAuth() bool {
	return u.AuthProvider.Federated()
}

func (u *User) RoleDisplayName() string {
	return RoleDisplayName(u.Role)
}

func RoleDisplayName(r Role) string {
	if r == RoleAdmin {
		return "Administrator"
	}
	return "User"
}

// UserUpdate is a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Name                    *string
	Role                    *Role
	Image                   *string
	Phone                   *string
	Address                 *string
	Bio                     *string
	IsActive                *bool
	EmailVerifiedAt         *time.Time
	LastLoginAt             *time.Time
	AuthProvider            *AuthProvider
	PasswordHash            *string
	NotificationPreferences *NotificationPreferences
}

func (u UserUpdate) Empty() bool {
	return u == UserUpdate{}
}

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StringValue dereferences an optional string field.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
