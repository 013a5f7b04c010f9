package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
)

// CreateAction implements ports.ActionRepository. The action type must exist
// in the catalog.
func (s *Store) CreateAction(ctx context.Context, a *activity.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	t, ok := s.state.actionTypes[a.Type.Name]
	if !ok {
		return fmt.Errorf("action type %q: %w", a.Type.Name, domain.ErrNotFound)
	}
	a.Type = t
	a.ID = s.newID()
	a.ActionTime = s.stamp()
	s.state.actions[a.ID] = row[activity.Action]{v: *a, seq: s.nextSeq()}
	return nil
}

// SaveAction implements ports.ActionRepository.
func (s *Store) SaveAction(ctx context.Context, a *activity.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	r, ok := s.state.actions[a.ID]
	if !ok {
		return fmt.Errorf("action %s: %w", a.ID, domain.ErrNotFound)
	}
	t, ok := s.state.actionTypes[a.Type.Name]
	if !ok {
		return fmt.Errorf("action type %q: %w", a.Type.Name, domain.ErrNotFound)
	}
	a.Type = t
	a.ActionTime = s.stamp()
	r.v = *a
	s.state.actions[a.ID] = r
	return nil
}

// GetAction implements ports.ActionRepository.
func (s *Store) GetAction(_ context.Context, id string) (*activity.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.state.actions[id]
	if !ok {
		return nil, fmt.Errorf("action %s: %w", id, domain.ErrNotFound)
	}
	a := s.withCurrentType(r.v)
	return &a, nil
}

// ListActionsFor implements ports.ActionRepository.
func (s *Store) ListActionsFor(_ context.Context, ref domain.Ref, limit int) ([]activity.Action, error) {
	s.mu.RLock()
	rows := make([]row[activity.Action], 0)
	for _, r := range s.state.actions {
		if r.v.Involves(ref) {
			r.v = s.withCurrentType(r.v)
			rows = append(rows, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(rows, func(a, b row[activity.Action]) int {
		if c := b.v.ActionTime.Compare(a.v.ActionTime); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]activity.Action, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out, nil
}

// DetachUser implements ports.ActionRepository. Timestamps are left alone;
// detaching is not a save of the action's content.
func (s *Store) DetachUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}

	defer s.lockWrite(ctx)()

	n := 0
	for id, r := range s.state.actions {
		if r.v.UserID == userID {
			r.v.UserID = ""
			s.state.actions[id] = r
			n++
		}
	}
	return n, nil
}

// withCurrentType replaces the embedded type with the catalog's current
// entry, so catalog edits show up in stored actions. Callers hold mu.
func (s *Store) withCurrentType(a activity.Action) activity.Action {
	if t, ok := s.state.actionTypes[a.Type.Name]; ok {
		a.Type = t
	}
	return a
}
