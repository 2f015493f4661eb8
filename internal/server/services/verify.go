package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/dbx"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
)

// withTx is a seam for testing dbx.WithTx.
var withTx = dbx.WithTx

// VerifyPassword classifies a login attempt. The login flag and the hash set
// are read in one repeatable-read, read-only transaction. A disabled or
// expired account is reported before any hash is computed, and the scan
// stops at the first matching hash.
//
// Only storage failures and corrupt hashes are returned as errors.
func (s *CredentialStore) VerifyPassword(ctx context.Context, username, candidate string) (models.AuthenticationResult, error) {
	now := s.now()
	result := models.AuthIncorrectPassword

	err := withTx(ctx, s.db, dbx.SnapshotReadOnly(), func(ctx context.Context, tx dbx.DBTX) error {
		id, allowed, err := s.repomanager.Users(tx).LoginState(ctx, username, now)
		if errors.Is(err, common.ErrorNotFound) {
			result = models.AuthNoSuchUser
			return nil
		}
		if err != nil {
			return err
		}
		if !allowed {
			result = models.AuthLoginDisabled
			return nil
		}

		return s.repomanager.Passwords(tx).ScanActiveHashes(ctx, id, now, func(hash string) (bool, error) {
			ok, err := s.hasher.Verify(candidate, hash)
			if err != nil {
				s.logger.Error(ctx, "stored password hash is unreadable", "user_id", id.String())
				return false, err
			}
			if ok {
				result = models.AuthOk
			}
			return ok, nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("verify password: %w", err)
	}

	return result, nil
}
