// Package models holds the records persisted by the credential store.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity that can own application passwords. Non-human users
// (service accounts) are managed by administrators only.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	LoginAllowed bool       `json:"login_allowed"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	NonHuman     bool       `json:"non_human"`
}

// Expired reports whether the account expiry lies before now.
func (u *User) Expired(now time.Time) bool {
	return u.ExpiresAt != nil && !u.ExpiresAt.After(now)
}
