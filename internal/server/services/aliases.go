package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/google/uuid"
)

// AddAlias routes name to destination. Adding an existing pair is a no-op;
// an unknown destination yields common.ErrorNotFound.
func (s *CredentialStore) AddAlias(ctx context.Context, name string, destination uuid.UUID) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: alias name must not be empty", common.ErrorValidation)
	}
	if err := s.repomanager.Aliases(s.db).Add(ctx, name, destination); err != nil {
		return fmt.Errorf("add alias: %w", err)
	}
	return nil
}

func (s *CredentialStore) RemoveAlias(ctx context.Context, name string, destination uuid.UUID) error {
	if err := s.repomanager.Aliases(s.db).Remove(ctx, name, destination); err != nil {
		return fmt.Errorf("remove alias: %w", err)
	}
	return nil
}

// ListAllAliases groups aliases by name. Names are sorted and destinations
// keep insertion order.
func (s *CredentialStore) ListAllAliases(ctx context.Context) ([]models.AliasGroup, error) {
	rows, err := s.repomanager.Aliases(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	return groupAliases(rows), nil
}

// groupAliases expects rows ordered by name.
func groupAliases(rows []models.Alias) []models.AliasGroup {
	groups := make([]models.AliasGroup, 0)
	for _, a := range rows {
		if n := len(groups); n > 0 && groups[n-1].Name == a.Name {
			groups[n-1].Destinations = append(groups[n-1].Destinations, a.Destination)
			continue
		}
		groups = append(groups, models.AliasGroup{Name: a.Name, Destinations: []uuid.UUID{a.Destination}})
	}
	return groups
}
