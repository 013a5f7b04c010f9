package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
)

const entityAction = "action"

// actionSelect joins the catalog so every read carries the current type.
func actionSelect() sq.SelectBuilder {
	return builder.Select(
		"a.id", "a.action_time", "a.user_id", "a.ip_address",
		"a.object_kind", "a.object_id", "a.target_kind", "a.target_id",
		"t.name", "t.verb", "t.preposition",
	).From("actions a").Join("action_types t ON t.name = a.type_name")
}

func scanAction(row scanner) (activity.Action, error) {
	var (
		a                                          activity.Action
		actionTime                                 string
		userID                                     sql.NullString
		objectKind, objectID, targetKind, targetID string
	)
	err := row.Scan(&a.ID, &actionTime, &userID, &a.IPAddress,
		&objectKind, &objectID, &targetKind, &targetID,
		&a.Type.Name, &a.Type.Verb, &a.Type.Preposition)
	if err != nil {
		return a, err
	}
	if a.ActionTime, err = parseTime(actionTime); err != nil {
		return a, err
	}
	a.UserID = stringOf(userID)
	a.Object = refFromColumns(objectKind, objectID)
	a.Target = refFromColumns(targetKind, targetID)
	return a, nil
}

// CreateAction implements ports.ActionRepository. The action type must exist
// in the catalog.
func (s *Store) CreateAction(ctx context.Context, a *activity.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}

	id := s.newID()
	now := s.stamp()
	_, err := s.exec(ctx, builder.Insert("actions").
		Columns("id", "action_time", "user_id", "ip_address",
			"object_kind", "object_id", "target_kind", "target_id", "type_name").
		Values(id, formatTime(now), nullable(a.UserID), a.IPAddress,
			string(a.Object.Kind), a.Object.ID, string(a.Target.Kind), a.Target.ID, a.Type.Name))
	if err != nil {
		return mapError(err, entityActionType, a.Type.Name)
	}

	stored, err := s.GetAction(ctx, id)
	if err != nil {
		return err
	}
	*a = *stored
	return nil
}

// SaveAction implements ports.ActionRepository.
func (s *Store) SaveAction(ctx context.Context, a *activity.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}

	now := s.stamp()
	n, err := s.exec(ctx, builder.Update("actions").
		Set("action_time", formatTime(now)).
		Set("user_id", nullable(a.UserID)).
		Set("ip_address", a.IPAddress).
		Set("object_kind", string(a.Object.Kind)).
		Set("object_id", a.Object.ID).
		Set("target_kind", string(a.Target.Kind)).
		Set("target_id", a.Target.ID).
		Set("type_name", a.Type.Name).
		Where(sq.Eq{"id": a.ID}))
	if err != nil {
		return mapError(err, entityAction, a.ID)
	}
	if err := requireAffected(n, entityAction, a.ID); err != nil {
		return err
	}

	stored, err := s.GetAction(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *stored
	return nil
}

// GetAction implements ports.ActionRepository.
func (s *Store) GetAction(ctx context.Context, id string) (*activity.Action, error) {
	row, err := s.queryRow(ctx, actionSelect().Where(sq.Eq{"a.id": id}))
	if err != nil {
		return nil, err
	}
	a, err := scanAction(row)
	if err != nil {
		return nil, mapError(err, entityAction, id)
	}
	return &a, nil
}

// ListActionsFor implements ports.ActionRepository.
func (s *Store) ListActionsFor(ctx context.Context, ref domain.Ref, limit int) ([]activity.Action, error) {
	query := actionSelect().
		Where(sq.Or{
			sq.Eq{"a.object_kind": string(ref.Kind), "a.object_id": ref.ID},
			sq.Eq{"a.target_kind": string(ref.Kind), "a.target_id": ref.ID},
		}).
		OrderBy("a.action_time DESC", "a.seq DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	list, err := queryRows(ctx, s, query, scanAction)
	if err != nil {
		return nil, mapError(err, entityAction, ref.String())
	}
	return list, nil
}

// DetachUser implements ports.ActionRepository. Timestamps are left alone;
// detaching is not a save of the action's content.
func (s *Store) DetachUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}
	n, err := s.exec(ctx, builder.Update("actions").
		Set("user_id", nil).
		Where(sq.Eq{"user_id": userID}))
	if err != nil {
		return 0, mapError(err, entityAction, "of user "+userID)
	}
	return int(n), nil
}
