package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
)

// CreateUser implements ports.DirectoryRepository. An empty ID is generated.
func (s *Store) CreateUser(ctx context.Context, u *workspace.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = s.newID()
	}
	_, err := s.exec(ctx, builder.Insert("users").Columns("id", "username").Values(u.ID, u.Username))
	return mapError(err, "user", u.ID)
}

// GetUser implements ports.DirectoryRepository.
func (s *Store) GetUser(ctx context.Context, id string) (*workspace.User, error) {
	row, err := s.queryRow(ctx, builder.Select("id", "username").From("users").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	var u workspace.User
	if err := row.Scan(&u.ID, &u.Username); err != nil {
		return nil, mapError(err, "user", id)
	}
	return &u, nil
}

// CreateProfile implements ports.DirectoryRepository. A user owns at most one
// profile.
func (s *Store) CreateProfile(ctx context.Context, p *workspace.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	_, err := s.exec(ctx, builder.Insert("profiles").
		Columns("id", "user_id", "display_name").
		Values(p.ID, p.UserID, p.DisplayName))
	return mapError(err, "profile", p.ID)
}

// GetProfile implements ports.DirectoryRepository.
func (s *Store) GetProfile(ctx context.Context, id string) (*workspace.Profile, error) {
	return s.getProfile(ctx, sq.Eq{"id": id}, id)
}

// ProfileByUser implements ports.DirectoryRepository.
func (s *Store) ProfileByUser(ctx context.Context, userID string) (*workspace.Profile, error) {
	return s.getProfile(ctx, sq.Eq{"user_id": userID}, "for user "+userID)
}

func (s *Store) getProfile(ctx context.Context, where sq.Eq, label string) (*workspace.Profile, error) {
	row, err := s.queryRow(ctx, builder.Select("id", "user_id", "display_name").From("profiles").Where(where))
	if err != nil {
		return nil, err
	}
	var p workspace.Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.DisplayName); err != nil {
		return nil, mapError(err, "profile", label)
	}
	return &p, nil
}

// CreateOrganization implements ports.DirectoryRepository.
func (s *Store) CreateOrganization(ctx context.Context, o *workspace.Organization) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = s.newID()
	}
	return s.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.exec(ctx, builder.Insert("organizations").Columns("id", "name").Values(o.ID, o.Name))
		if err != nil {
			return mapError(err, "organization", o.ID)
		}
		return s.insertMembers(ctx, o.Ref(), o.Members())
	})
}

// GetOrganization implements ports.DirectoryRepository.
func (s *Store) GetOrganization(ctx context.Context, id string) (*workspace.Organization, error) {
	row, err := s.queryRow(ctx, builder.Select("id", "name").From("organizations").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	var o workspace.Organization
	if err := row.Scan(&o.ID, &o.Name); err != nil {
		return nil, mapError(err, "organization", id)
	}
	members, err := s.members(ctx, o.Ref())
	if err != nil {
		return nil, err
	}
	return workspace.NewOrganization(o.ID, o.Name, members...), nil
}

// CreateProject implements ports.DirectoryRepository.
func (s *Store) CreateProject(ctx context.Context, p *workspace.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	return s.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.exec(ctx, builder.Insert("projects").
			Columns("id", "organization_id", "name").
			Values(p.ID, p.OrganizationID, p.Name))
		if err != nil {
			return mapError(err, "project", p.ID)
		}
		return s.insertMembers(ctx, p.Ref(), p.Members())
	})
}

// GetProject implements ports.DirectoryRepository.
func (s *Store) GetProject(ctx context.Context, id string) (*workspace.Project, error) {
	row, err := s.queryRow(ctx, builder.Select("id", "organization_id", "name").From("projects").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	var p workspace.Project
	if err := row.Scan(&p.ID, &p.OrganizationID, &p.Name); err != nil {
		return nil, mapError(err, "project", id)
	}
	members, err := s.members(ctx, p.Ref())
	if err != nil {
		return nil, err
	}
	return workspace.NewProject(p.ID, p.OrganizationID, p.Name, members...), nil
}

// CreateTask implements ports.DirectoryRepository.
func (s *Store) CreateTask(ctx context.Context, t *workspace.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = s.newID()
	}
	_, err := s.exec(ctx, builder.Insert("tasks").
		Columns("id", "project_id", "title").
		Values(t.ID, t.ProjectID, t.Title))
	return mapError(err, "task", t.ID)
}

// GetTask implements ports.DirectoryRepository.
func (s *Store) GetTask(ctx context.Context, id string) (*workspace.Task, error) {
	row, err := s.queryRow(ctx, builder.Select("id", "project_id", "title").From("tasks").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	var t workspace.Task
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title); err != nil {
		return nil, mapError(err, "task", id)
	}
	return &t, nil
}

// SaveMembers implements ports.MembershipWriter. Members already stored are
// skipped by the unique constraint.
func (s *Store) SaveMembers(ctx context.Context, m workspace.Membership) error {
	ref := m.Ref()

	var table string
	switch ref.Kind {
	case domain.KindOrganization:
		table = "organizations"
	case domain.KindProject:
		table = "projects"
	default:
		return fmt.Errorf("saving members of %s: %w", ref, domain.NewValidationError("kind", "has no membership"))
	}

	return s.RunInTx(ctx, func(ctx context.Context) error {
		row, err := s.queryRow(ctx, builder.Select("1").From(table).Where(sq.Eq{"id": ref.ID}))
		if err != nil {
			return err
		}
		var one int
		if err := row.Scan(&one); err != nil {
			return mapError(err, string(ref.Kind), ref.ID)
		}
		return s.insertMembers(ctx, ref, m.Members())
	})
}

func (s *Store) insertMembers(ctx context.Context, group domain.Ref, profileIDs []string) error {
	for _, id := range profileIDs {
		_, err := s.exec(ctx, builder.Insert("memberships").
			Columns("group_kind", "group_id", "profile_id").
			Values(string(group.Kind), group.ID, id).
			Suffix("ON CONFLICT (group_kind, group_id, profile_id) DO NOTHING"))
		if err != nil {
			return mapError(err, "membership of "+group.String(), id)
		}
	}
	return nil
}

func (s *Store) members(ctx context.Context, group domain.Ref) ([]string, error) {
	ids, err := queryRows(ctx, s, builder.Select("profile_id").From("memberships").
		Where(sq.Eq{"group_kind": string(group.Kind), "group_id": group.ID}).
		OrderBy("position ASC"), func(row scanner) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, mapError(err, "membership of", group.String())
	}
	return ids, nil
}
