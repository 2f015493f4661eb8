// Package aliases implements the PostgreSQL-backed alias repository.
package aliases

import (
	"context"

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

func (r *PostgresRepository) Add(ctx context.Context, name string, destination uuid.UUID) error {
	query :=
		`INSERT INTO aliases (alias_name, destination)
		 VALUES ($1, $2)
		 ON CONFLICT (alias_name, destination) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, name, destination); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, name string, destination uuid.UUID) error {
	query := `DELETE FROM aliases WHERE alias_name = $1 AND destination = $2`

	if _, err := r.db.ExecContext(ctx, query, name, destination); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Alias, error) {
	query := `SELECT alias_name, destination FROM aliases ORDER BY alias_name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	defer rows.Close()

	aliases := make([]models.Alias, 0)
	for rows.Next() {
		var a models.Alias
		if err := rows.Scan(&a.Name, &a.Destination); err != nil {
			return nil, dbx.TranslateError(err)
		}
		aliases = append(aliases, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.TranslateError(err)
	}

	return aliases, nil
}
