// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/mailpasswd/internal/dbx"
	"github.com/dmitrijs2005/mailpasswd/internal/server/migrations"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/aliases"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/passwords"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Passwords(db dbx.DBTX) passwords.Repository {
	return passwords.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Aliases(db dbx.DBTX) aliases.Repository {
	return aliases.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations. Already applied versions
// are skipped, so running it against an up-to-date schema is a no-op.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
