package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
)

// CreateFollow implements ports.FollowRepository.
func (s *Store) CreateFollow(ctx context.Context, f *activity.Follow) error {
	if err := f.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	f.ID = s.newID()
	s.state.follows[f.ID] = row[activity.Follow]{v: *f, seq: s.nextSeq()}
	return nil
}

// GetFollow implements ports.FollowRepository.
func (s *Store) GetFollow(_ context.Context, id string) (*activity.Follow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.state.follows[id]
	if !ok {
		return nil, fmt.Errorf("follow %s: %w", id, domain.ErrNotFound)
	}
	f := r.v
	return &f, nil
}

// FindActiveFollow implements ports.FollowRepository. The oldest matching
// follow wins when duplicates exist.
func (s *Store) FindActiveFollow(ctx context.Context, userID string, ref domain.Ref) (*activity.Follow, error) {
	follows, err := s.ListFollows(ctx, ref)
	if err != nil {
		return nil, err
	}
	for _, f := range follows {
		if f.IsActive && f.FollowerID == userID {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("follow of %s by %s: %w", ref, userID, domain.ErrNotFound)
}

// SetFollowActive implements ports.FollowRepository.
func (s *Store) SetFollowActive(ctx context.Context, id string, active bool) error {
	defer s.lockWrite(ctx)()

	r, ok := s.state.follows[id]
	if !ok {
		return fmt.Errorf("follow %s: %w", id, domain.ErrNotFound)
	}
	r.v.IsActive = active
	s.state.follows[id] = r
	return nil
}

// ListFollows implements ports.FollowRepository.
func (s *Store) ListFollows(_ context.Context, ref domain.Ref) ([]activity.Follow, error) {
	s.mu.RLock()
	rows := make([]row[activity.Follow], 0)
	for _, r := range s.state.follows {
		if r.v.Object == ref {
			rows = append(rows, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(rows, func(a, b row[activity.Follow]) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]activity.Follow, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out, nil
}

// ActiveFollowerIDs implements ports.FollowRepository. IDs are returned in
// the order the users first followed.
func (s *Store) ActiveFollowerIDs(ctx context.Context, ref domain.Ref) ([]string, error) {
	follows, err := s.ListFollows(ctx, ref)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		if f.IsActive && !slices.Contains(ids, f.FollowerID) {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}
