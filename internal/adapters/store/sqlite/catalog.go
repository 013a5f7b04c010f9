package sqlite

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/yigitunlu/heroject/internal/domain/activity"
)

const entityActionType = "action type"

var actionTypeColumns = []string{"name", "verb", "preposition"}

func scanActionType(row scanner) (activity.ActionType, error) {
	var t activity.ActionType
	err := row.Scan(&t.Name, &t.Verb, &t.Preposition)
	return t, err
}

// GetActionType implements ports.ActionTypeRepository.
func (s *Store) GetActionType(ctx context.Context, name string) (*activity.ActionType, error) {
	row, err := s.queryRow(ctx, builder.Select(actionTypeColumns...).From("action_types").Where(sq.Eq{"name": name}))
	if err != nil {
		return nil, err
	}
	t, err := scanActionType(row)
	if err != nil {
		return nil, mapError(err, entityActionType, name)
	}
	return &t, nil
}

// CreateActionType implements ports.ActionTypeRepository.
func (s *Store) CreateActionType(ctx context.Context, t *activity.ActionType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := s.exec(ctx, builder.Insert("action_types").
		Columns(actionTypeColumns...).
		Values(t.Name, t.Verb, t.Preposition))
	return mapError(err, entityActionType, t.Name)
}

// UpdateActionType implements ports.ActionTypeRepository.
func (s *Store) UpdateActionType(ctx context.Context, t *activity.ActionType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	n, err := s.exec(ctx, builder.Update("action_types").
		Set("verb", t.Verb).
		Set("preposition", t.Preposition).
		Where(sq.Eq{"name": t.Name}))
	if err != nil {
		return mapError(err, entityActionType, t.Name)
	}
	return requireAffected(n, entityActionType, t.Name)
}

// ListActionTypes implements ports.ActionTypeRepository.
func (s *Store) ListActionTypes(ctx context.Context) ([]activity.ActionType, error) {
	list, err := queryRows(ctx, s, builder.Select(actionTypeColumns...).From("action_types").OrderBy("name ASC"), scanActionType)
	if err != nil {
		return nil, mapError(err, entityActionType, "list")
	}
	return list, nil
}
