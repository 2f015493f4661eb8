package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists users. Lookups of unknown users return
// common.ErrorNotFound; a taken username returns common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, username string, expiresAt *time.Time, nonHuman bool) (uuid.UUID, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ToggleLoginAllowed(ctx context.Context, id uuid.UUID) error
	SetExpiry(ctx context.Context, id uuid.UUID, expiresAt *time.Time) error
	// LoginState returns the user id and whether the account may log in at
	// now, taking both login_allowed and the account expiry into account.
	LoginState(ctx context.Context, username string, now time.Time) (uuid.UUID, bool, error)
}
