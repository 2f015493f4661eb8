package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mailpasswd/internal/dbx"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/aliases"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/passwords"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or to an open
// transaction, so that a service can run several of them atomically.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Passwords(db dbx.DBTX) passwords.Repository
	Aliases(db dbx.DBTX) aliases.Repository
}
