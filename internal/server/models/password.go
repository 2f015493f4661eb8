package models

import (
	"time"

	"github.com/google/uuid"
)

// Password is the metadata of one application password. The hash never
// leaves the repository layer, so it has no field here.
type Password struct {
	UserID    uuid.UUID  `json:"userid"`
	Label     string     `json:"label"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
