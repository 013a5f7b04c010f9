package sqlite

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
)

const entityFollow = "follow"

var followColumns = []string{"id", "follower_id", "object_kind", "object_id", "is_active"}

func scanFollow(row scanner) (activity.Follow, error) {
	var (
		f            activity.Follow
		kind, object string
	)
	err := row.Scan(&f.ID, &f.FollowerID, &kind, &object, &f.IsActive)
	f.Object = refFromColumns(kind, object)
	return f, err
}

func onObject(ref domain.Ref) sq.Eq {
	return sq.Eq{"object_kind": string(ref.Kind), "object_id": ref.ID}
}

// CreateFollow implements ports.FollowRepository.
func (s *Store) CreateFollow(ctx context.Context, f *activity.Follow) error {
	if err := f.Validate(); err != nil {
		return err
	}

	id := s.newID()
	_, err := s.exec(ctx, builder.Insert("follows").
		Columns(followColumns...).
		Values(id, f.FollowerID, string(f.Object.Kind), f.Object.ID, f.IsActive))
	if err != nil {
		return mapError(err, entityFollow, id)
	}
	f.ID = id
	return nil
}

// GetFollow implements ports.FollowRepository.
func (s *Store) GetFollow(ctx context.Context, id string) (*activity.Follow, error) {
	row, err := s.queryRow(ctx, builder.Select(followColumns...).From("follows").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	f, err := scanFollow(row)
	if err != nil {
		return nil, mapError(err, entityFollow, id)
	}
	return &f, nil
}

// FindActiveFollow implements ports.FollowRepository. The oldest matching
// follow wins when duplicates exist.
func (s *Store) FindActiveFollow(ctx context.Context, userID string, ref domain.Ref) (*activity.Follow, error) {
	row, err := s.queryRow(ctx, builder.Select(followColumns...).From("follows").
		Where(onObject(ref)).
		Where(sq.Eq{"follower_id": userID, "is_active": true}).
		OrderBy("seq ASC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	f, err := scanFollow(row)
	if err != nil {
		return nil, mapError(err, entityFollow, "of "+ref.String()+" by "+userID)
	}
	return &f, nil
}

// SetFollowActive implements ports.FollowRepository.
func (s *Store) SetFollowActive(ctx context.Context, id string, active bool) error {
	n, err := s.exec(ctx, builder.Update("follows").Set("is_active", active).Where(sq.Eq{"id": id}))
	if err != nil {
		return mapError(err, entityFollow, id)
	}
	return requireAffected(n, entityFollow, id)
}

// ListFollows implements ports.FollowRepository.
func (s *Store) ListFollows(ctx context.Context, ref domain.Ref) ([]activity.Follow, error) {
	list, err := queryRows(ctx, s, builder.Select(followColumns...).From("follows").
		Where(onObject(ref)).
		OrderBy("seq ASC"), scanFollow)
	if err != nil {
		return nil, mapError(err, entityFollow, ref.String())
	}
	return list, nil
}

// ActiveFollowerIDs implements ports.FollowRepository. IDs are returned in
// the order the users first followed.
func (s *Store) ActiveFollowerIDs(ctx context.Context, ref domain.Ref) ([]string, error) {
	query := builder.Select("follower_id").From("follows").
		Where(onObject(ref)).
		Where(sq.Eq{"is_active": true}).
		GroupBy("follower_id").
		OrderBy("MIN(seq) ASC")

	ids, err := queryRows(ctx, s, query, func(row scanner) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, mapError(err, entityFollow, ref.String())
	}
	return ids, nil
}
