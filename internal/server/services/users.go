package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/google/uuid"
)

const MinUsernameLength = 3

// CreateUser registers a new identity. Usernames may not contain '@', which
// separates the mail domain in logins. A taken username yields
// common.ErrorAlreadyExists.
func (s *CredentialStore) CreateUser(ctx context.Context, username string, expiresAt *time.Time, nonHuman bool) (uuid.UUID, error) {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return uuid.Nil, fmt.Errorf("%w: username must be at least %d characters", common.ErrorValidation, MinUsernameLength)
	}
	if strings.Contains(username, "@") {
		return uuid.Nil, fmt.Errorf("%w: username must not contain '@'", common.ErrorValidation)
	}

	id, err := s.repomanager.Users(s.db).Create(ctx, username, expiresAt, nonHuman)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// FindUserByName returns nil without error when no such user exists.
func (s *CredentialStore) FindUserByName(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by name: %w", err)
	}
	return u, nil
}

// GetUserByID returns nil without error when no such user exists.
func (s *CredentialStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *CredentialStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ToggleLoginAllowed flips the login flag. Unknown ids yield
// common.ErrorNotFound.
func (s *CredentialStore) ToggleLoginAllowed(ctx context.Context, id uuid.UUID) error {
	if err := s.repomanager.Users(s.db).ToggleLoginAllowed(ctx, id); err != nil {
		return fmt.Errorf("toggle login allowed: %w", err)
	}
	return nil
}

// SetExpiry replaces the account expiry; nil removes it. Unknown ids yield
// common.ErrorNotFound.
func (s *CredentialStore) SetExpiry(ctx context.Context, id uuid.UUID, expiresAt *time.Time) error {
	if err := s.repomanager.Users(s.db).SetExpiry(ctx, id, expiresAt); err != nil {
		return fmt.Errorf("set expiry: %w", err)
	}
	return nil
}
