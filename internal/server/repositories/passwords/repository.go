package passwords

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/google/uuid"
)

// HashFunc receives one stored hash. Returning done=true stops the scan.
type HashFunc func(hash string) (done bool, err error)

// Repository persists application passwords. Create returns
// common.ErrorAlreadyExists when the user already has a password with the
// same label.
type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, label, hash string, expiresAt *time.Time) error
	Delete(ctx context.Context, userID uuid.UUID, label string) error
	List(ctx context.Context, userID uuid.UUID) ([]models.Password, error)
	// ScanActiveHashes streams the hashes of every password of userID that
	// has not expired at now, stopping early when fn reports done.
	ScanActiveHashes(ctx context.Context, userID uuid.UUID, now time.Time, fn HashFunc) error
}
