// Package users implements the PostgreSQL-backed user repository.
package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/dbx"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, login_allowed, created_at, expires_at, non_human`

func (r *PostgresRepository) Create(ctx context.Context, username string, expiresAt *time.Time, nonHuman bool) (uuid.UUID, error) {
	query :=
		`INSERT INTO users (username, expires_at, non_human)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, query, username, expiresAt, nonHuman).Scan(&id); err != nil {
		return uuid.Nil, dbx.TranslateError(err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.TranslateError(err)
	}

	return users, nil
}

func (r *PostgresRepository) ToggleLoginAllowed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET login_allowed = NOT login_allowed WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) SetExpiry(ctx context.Context, id uuid.UUID, expiresAt *time.Time) error {
	query := `UPDATE users SET expires_at = $2 WHERE id = $1`
	return r.execOne(ctx, query, id, expiresAt)
}

func (r *PostgresRepository) LoginState(ctx context.Context, username string, now time.Time) (uuid.UUID, bool, error) {
	query :=
		`SELECT id, login_allowed AND (expires_at IS NULL OR expires_at > $2)
		 FROM users
		 WHERE username = $1`

	var (
		id      uuid.UUID
		allowed bool
	)
	if err := r.db.QueryRowContext(ctx, query, username, now).Scan(&id, &allowed); err != nil {
		return uuid.Nil, false, dbx.TranslateError(err)
	}

	return id, allowed, nil
}

// execOne runs an UPDATE addressed by primary key and reports
// common.ErrorNotFound when no row matched.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbx.TranslateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u       models.User
		expires sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Username, &u.LoginAllowed, &u.CreatedAt, &expires, &u.NonHuman); err != nil {
		return nil, dbx.TranslateError(err)
	}
	if expires.Valid {
		t := expires.Time
		u.ExpiresAt = &t
	}
	return &u, nil
}
