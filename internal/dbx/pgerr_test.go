package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "passwords_userid_label_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "aliases_destination_fkey"}
	other := &pgconn.PgError{Code: "42P01"}

	tests := []struct {
		name string
		in   error
		is   error
	}{
		{name: "no rows", in: sql.ErrNoRows, is: common.ErrorNotFound},
		{name: "wrapped no rows", in: fmt.Errorf("scan: %w", sql.ErrNoRows), is: common.ErrorNotFound},
		{name: "unique violation", in: unique, is: common.ErrorAlreadyExists},
		{name: "foreign key violation", in: fk, is: common.ErrorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, TranslateError(tt.in), tt.is)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, TranslateError(nil))
	})

	t.Run("other pg errors are wrapped", func(t *testing.T) {
		err := TranslateError(other)
		assert.ErrorContains(t, err, "db error")
		var pgErr *pgconn.PgError
		assert.True(t, errors.As(err, &pgErr))
		assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	})

	t.Run("constraint violations keep the driver error", func(t *testing.T) {
		var pgErr *pgconn.PgError
		assert.True(t, errors.As(TranslateError(unique), &pgErr))
		assert.Equal(t, "passwords_userid_label_key", pgErr.ConstraintName)
	})
}
