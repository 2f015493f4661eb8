package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes we react to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateError maps driver errors onto the sentinels of package common:
// missing rows and foreign-key violations become common.ErrorNotFound, unique
// violations become common.ErrorAlreadyExists. Anything else is wrapped as a
// "db error". The original error stays reachable through errors.As.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %w", common.ErrorAlreadyExists, pgErr.ConstraintName, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %w", common.ErrorNotFound, pgErr.ConstraintName, err)
		}
	}

	return fmt.Errorf("db error: %w", err)
}
