// Package domain defines the core entities of the Inkwell blogging platform.
package domain

import "time"

// User represents a registered author/reader account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Name         string    `json:"name"`                    // Display name, e.g. "Ada Lovelace"
	Username     string    `json:"username"`                // Unique handle, generated from the name at signup
	AvatarURL    string    `json:"avatar_url,omitempty"`    // Public URL into object storage; empty until uploaded
	AvatarColor  string    `json:"avatar_color"`            // Deterministic fallback color when no avatar is set
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// Profile is the public view of a user shown on their page.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	PostCount int    `json:"post_count"`
}

// Session represents an active refresh-token session for one device.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
	ClientName       string    `json:"client_name,omitempty"`
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
