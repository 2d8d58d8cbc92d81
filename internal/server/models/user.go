// Package models holds the server-side domain types.
package models

import (
	"strings"
	"time"
)

// Role values a user record may carry.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RolePremium = "premium"
)

// Preferences are per-user UI settings echoed to the client.
type Preferences struct {
	Theme          string `json:"theme" yaml:"theme"`
	Notifications  bool   `json:"notifications" yaml:"notifications"`
	VoiceAssistant bool   `json:"voiceAssistant" yaml:"voiceAssistant"`
}

// DefaultPreferences are applied to every new registration.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "dark", Notifications: true, VoiceAssistant: true}
}

// User is the authoritative record. PasswordHash never leaves the server.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Role         string
	Preferences  Preferences
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// UserSummary is the redacted view returned to clients.
type UserSummary struct {
	ID          string      `json:"id"`
	UserName    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DisplayName string      `json:"displayName"`
	Role        string      `json:"role"`
	Preferences Preferences `json:"preferences"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		Role:        u.Role,
		Preferences: u.Preferences,
	}
}

// DisplayName is "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.UserName
	}
	return name
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
