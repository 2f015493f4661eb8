// Package passwords implements the PostgreSQL-backed password repository.
package passwords

import (
	"context"
	"database/sql"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, label, hash string, expiresAt *time.Time) error {
	query :=
		`INSERT INTO passwords (userid, label, hash, expires_at)
		 VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, userID, label, hash, expiresAt); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID uuid.UUID, label string) error {
	query := `DELETE FROM passwords WHERE userid = $1 AND label = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, label); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Password, error) {
	query :=
		`SELECT userid, label, created_at, expires_at
		 FROM passwords
		 WHERE userid = $1
		 ORDER BY label`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	defer rows.Close()

	passwords := make([]models.Password, 0)
	for rows.Next() {
		var (
			p       models.Password
			expires sql.NullTime
		)
		if err := rows.Scan(&p.UserID, &p.Label, &p.CreatedAt, &expires); err != nil {
			return nil, dbx.TranslateError(err)
		}
		if expires.Valid {
			t := expires.Time
			p.ExpiresAt = &t
		}
		passwords = append(passwords, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.TranslateError(err)
	}

	return passwords, nil
}

func (r *PostgresRepository) ScanActiveHashes(ctx context.Context, userID uuid.UUID, now time.Time, fn HashFunc) error {
	query :=
		`SELECT hash
		 FROM passwords
		 WHERE userid = $1 AND (expires_at IS NULL OR expires_at > $2)`

	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return dbx.TranslateError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return dbx.TranslateError(err)
		}
		done, err := fn(hash)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return dbx.TranslateError(err)
	}

	return nil
}
