// Package services contains the credential store: the business logic over
// users, application passwords and aliases. A store is obtained in two steps.
// NewCreatedStore wraps a connection whose schema is not yet known to be
// current; only CreatedStore.RunMigrations yields a *CredentialStore, which is
// the sole type carrying query operations.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/cryptox"
	"github.com/dmitrijs2005/mailpasswd/internal/logging"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and verifies application passwords. Verify returns
// an error wrapping common.ErrorCorruptHash when the stored hash is unreadable.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) (bool, error)
}

// CreatedStore is a store whose schema has not been migrated yet.
type CreatedStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger
}

func NewCreatedStore(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, logger logging.Logger) *CreatedStore {
	return &CreatedStore{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger.With("module", "credential_store"),
	}
}

// RunMigrations applies pending schema migrations and returns the usable
// store. Callers treat an error as fatal.
func (s *CreatedStore) RunMigrations(ctx context.Context) (*CredentialStore, error) {
	s.logger.Info(ctx, "applying schema migrations")
	if err := s.repomanager.RunMigrations(ctx, s.db); err != nil {
		return nil, fmt.Errorf("schema migrations: %w", err)
	}
	s.logger.Info(ctx, "schema is current")

	return &CredentialStore{
		db:          s.db,
		repomanager: s.repomanager,
		hasher:      s.hasher,
		logger:      s.logger,
		now:         time.Now,
		generate:    cryptox.GeneratePassword,
	}, nil
}

// CredentialStore serves every query operation. It keeps no cached state:
// each call reads the database.
type CredentialStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger

	now      func() time.Time
	generate func() (string, error)
}

// Ping checks that the database answers.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
