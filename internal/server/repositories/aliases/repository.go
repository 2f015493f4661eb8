package aliases

import (
	"context"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists mail aliases. Adding an existing (name, destination)
// pair is a no-op; adding a pair whose destination is unknown returns
// common.ErrorNotFound.
type Repository interface {
	Add(ctx context.Context, name string, destination uuid.UUID) error
	Remove(ctx context.Context, name string, destination uuid.UUID) error
	// List returns every alias ordered by name and then by insertion order.
	List(ctx context.Context) ([]models.Alias, error)
}
