package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
)

// GetActionType implements ports.ActionTypeRepository.
func (s *Store) GetActionType(_ context.Context, name string) (*activity.ActionType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.state.actionTypes[name]
	if !ok {
		return nil, fmt.Errorf("action type %q: %w", name, domain.ErrNotFound)
	}
	return &t, nil
}

// CreateActionType implements ports.ActionTypeRepository.
func (s *Store) CreateActionType(ctx context.Context, t *activity.ActionType) error {
	if err := t.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	if _, ok := s.state.actionTypes[t.Name]; ok {
		return fmt.Errorf("action type %q: %w", t.Name, domain.ErrConflict)
	}
	s.state.actionTypes[t.Name] = *t
	return nil
}

// UpdateActionType implements ports.ActionTypeRepository.
func (s *Store) UpdateActionType(ctx context.Context, t *activity.ActionType) error {
	if err := t.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	if _, ok := s.state.actionTypes[t.Name]; !ok {
		return fmt.Errorf("action type %q: %w", t.Name, domain.ErrNotFound)
	}
	s.state.actionTypes[t.Name] = *t
	return nil
}

// ListActionTypes implements ports.ActionTypeRepository.
func (s *Store) ListActionTypes(_ context.Context) ([]activity.ActionType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]activity.ActionType, 0, len(s.state.actionTypes))
	for _, t := range s.state.actionTypes {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b activity.ActionType) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
