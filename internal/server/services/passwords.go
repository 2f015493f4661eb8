package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/google/uuid"
)

// NewPassword generates a password for userID, stores its hash under label
// and returns the plaintext. The plaintext is not kept anywhere else.
func (s *CredentialStore) NewPassword(ctx context.Context, userID uuid.UUID, label string, expiresAt *time.Time) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", fmt.Errorf("%w: label must not be empty", common.ErrorValidation)
	}

	secret, err := s.generate()
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.repomanager.Passwords(s.db).Create(ctx, userID, label, hash, expiresAt); err != nil {
		return "", fmt.Errorf("new password: %w", err)
	}
	return secret, nil
}

// RemovePassword succeeds when the label does not exist.
func (s *CredentialStore) RemovePassword(ctx context.Context, userID uuid.UUID, label string) error {
	if err := s.repomanager.Passwords(s.db).Delete(ctx, userID, label); err != nil {
		return fmt.Errorf("remove password: %w", err)
	}
	return nil
}

func (s *CredentialStore) ListPasswords(ctx context.Context, userID uuid.UUID) ([]models.Password, error) {
	passwords, err := s.repomanager.Passwords(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list passwords: %w", err)
	}
	return passwords, nil
}
