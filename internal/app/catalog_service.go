package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time check that CatalogService implements ports.CatalogService.
var _ ports.CatalogService = (*CatalogService)(nil)

// DefaultActionTypes is the vocabulary loaded by Seed.
func DefaultActionTypes() []activity.ActionType {
	return []activity.ActionType{
		{Name: "comment", Verb: "commented", Preposition: "on"},
		{Name: "create", Verb: "created"},
		{Name: "assign", Verb: "assigned", Preposition: "to"},
		{Name: "add", Verb: "added", Preposition: "to"},
		{Name: "invite", Verb: "invited", Preposition: "to"},
		{Name: "remove", Verb: "removed", Preposition: "from"},
		{Name: "change", Verb: "changed"},
		{Name: "delete", Verb: "deleted"},
	}
}

// CatalogService implements ports.CatalogService on an ActionTypeRepository.
type CatalogService struct {
	repo   ports.ActionTypeRepository
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService. A nil logger discards output.
func NewCatalogService(repo ports.ActionTypeRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: loggerOrDiscard(logger)}
}

// Lookup returns the catalog entry named name.
func (s *CatalogService) Lookup(ctx context.Context, name string) (*activity.ActionType, error) {
	t, err := s.repo.GetActionType(ctx, name)
	if err != nil {
		logFailure(ctx, s.logger, "Lookup", err, slog.String("action_type", name))
		return nil, err
	}
	return t, nil
}

// Define validates and stores a new catalog entry.
func (s *CatalogService) Define(ctx context.Context, t *activity.ActionType) (*activity.ActionType, error) {
	s.logger.InfoContext(ctx, "defining action type", slog.String("action_type", t.Name))

	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateActionType(ctx, t); err != nil {
		logFailure(ctx, s.logger, "Define", err, slog.String("action_type", t.Name))
		return nil, err
	}

	created := *t
	return &created, nil
}

// Update changes verb and preposition of an existing entry. Actions recorded
// with the entry render with the new wording from then on.
func (s *CatalogService) Update(ctx context.Context, t *activity.ActionType) (*activity.ActionType, error) {
	s.logger.InfoContext(ctx, "updating action type", slog.String("action_type", t.Name))

	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateActionType(ctx, t); err != nil {
		logFailure(ctx, s.logger, "Update", err, slog.String("action_type", t.Name))
		return nil, err
	}
	return s.repo.GetActionType(ctx, t.Name)
}

// List returns every entry ordered by name.
func (s *CatalogService) List(ctx context.Context) ([]activity.ActionType, error) {
	types, err := s.repo.ListActionTypes(ctx)
	if err != nil {
		logFailure(ctx, s.logger, "List", err)
		return nil, err
	}
	return types, nil
}

// Seed defines every DefaultActionTypes entry that is not in the catalog yet.
// Existing entries keep their wording.
func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	added := 0
	for _, t := range DefaultActionTypes() {
		_, err := s.repo.GetActionType(ctx, t.Name)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, domain.ErrNotFound):
			logFailure(ctx, s.logger, "Seed", err, slog.String("action_type", t.Name))
			return added, err
		}

		if err := s.repo.CreateActionType(ctx, &t); err != nil {
			logFailure(ctx, s.logger, "Seed", err, slog.String("action_type", t.Name))
			return added, err
		}
		added++
	}

	s.logger.InfoContext(ctx, "seeded action types", slog.Int("added", added))
	return added, nil
}
