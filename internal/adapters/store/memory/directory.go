package memory

import (
	"context"
	"fmt"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
)

// CreateUser implements ports.DirectoryRepository. An empty ID is generated.
func (s *Store) CreateUser(ctx context.Context, u *workspace.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	if u.ID == "" {
		u.ID = s.newID()
	}
	if _, ok := s.state.users[u.ID]; ok {
		return fmt.Errorf("user %s: %w", u.ID, domain.ErrConflict)
	}
	s.state.users[u.ID] = *u
	return nil
}

// GetUser implements ports.DirectoryRepository.
func (s *Store) GetUser(_ context.Context, id string) (*workspace.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.state.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

// CreateProfile implements ports.DirectoryRepository. A user owns at most one
// profile.
func (s *Store) CreateProfile(ctx context.Context, p *workspace.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	if p.ID == "" {
		p.ID = s.newID()
	}
	if _, ok := s.state.profiles[p.ID]; ok {
		return fmt.Errorf("profile %s: %w", p.ID, domain.ErrConflict)
	}
	for _, existing := range s.state.profiles {
		if existing.UserID == p.UserID {
			return fmt.Errorf("profile for user %s: %w", p.UserID, domain.ErrConflict)
		}
	}
	s.state.profiles[p.ID] = *p
	return nil
}

// GetProfile implements ports.DirectoryRepository.
func (s *Store) GetProfile(_ context.Context, id string) (*workspace.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

// ProfileByUser implements ports.DirectoryRepository.
func (s *Store) ProfileByUser(_ context.Context, userID string) (*workspace.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.state.profiles {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile for user %s: %w", userID, domain.ErrNotFound)
}

// CreateOrganization implements ports.DirectoryRepository.
func (s *Store) CreateOrganization(ctx context.Context, o *workspace.Organization) error {
	if err := o.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	if o.ID == "" {
		o.ID = s.newID()
	}
	if _, ok := s.state.organizations[o.ID]; ok {
		return fmt.Errorf("organization %s: %w", o.ID, domain.ErrConflict)
	}
	s.state.organizations[o.ID] = *workspace.NewOrganization(o.ID, o.Name, o.Members()...)
	return nil
}

// GetOrganization implements ports.DirectoryRepository.
func (s *Store) GetOrganization(_ context.Context, id string) (*workspace.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.state.organizations[id]
	if !ok {
		return nil, fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
	}
	return workspace.NewOrganization(o.ID, o.Name, o.Members()...), nil
}

// CreateProject implements ports.DirectoryRepository.
func (s *Store) CreateProject(ctx context.Context, p *workspace.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	if p.ID == "" {
		p.ID = s.newID()
	}
	if _, ok := s.state.projects[p.ID]; ok {
		return fmt.Errorf("project %s: %w", p.ID, domain.ErrConflict)
	}
	s.state.projects[p.ID] = *workspace.NewProject(p.ID, p.OrganizationID, p.Name, p.Members()...)
	return nil
}

// GetProject implements ports.DirectoryRepository.
func (s *Store) GetProject(_ context.Context, id string) (*workspace.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return workspace.NewProject(p.ID, p.OrganizationID, p.Name, p.Members()...), nil
}

// CreateTask implements ports.DirectoryRepository.
func (s *Store) CreateTask(ctx context.Context, t *workspace.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	if t.ID == "" {
		t.ID = s.newID()
	}
	if _, ok := s.state.tasks[t.ID]; ok {
		return fmt.Errorf("task %s: %w", t.ID, domain.ErrConflict)
	}
	s.state.tasks[t.ID] = *t
	return nil
}

// GetTask implements ports.DirectoryRepository.
func (s *Store) GetTask(_ context.Context, id string) (*workspace.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.state.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

// SaveMembers implements ports.MembershipWriter. Members of m that are not
// stored yet are appended; existing members are kept.
func (s *Store) SaveMembers(ctx context.Context, m workspace.Membership) error {
	ref := m.Ref()

	defer s.lockWrite(ctx)()

	switch ref.Kind {
	case domain.KindOrganization:
		o, ok := s.state.organizations[ref.ID]
		if !ok {
			return fmt.Errorf("organization %s: %w", ref.ID, domain.ErrNotFound)
		}
		merged := workspace.NewOrganization(o.ID, o.Name, append(o.Members(), m.Members()...)...)
		s.state.organizations[ref.ID] = *merged
	case domain.KindProject:
		p, ok := s.state.projects[ref.ID]
		if !ok {
			return fmt.Errorf("project %s: %w", ref.ID, domain.ErrNotFound)
		}
		merged := workspace.NewProject(p.ID, p.OrganizationID, p.Name, append(p.Members(), m.Members()...)...)
		s.state.projects[ref.ID] = *merged
	default:
		return fmt.Errorf("saving members of %s: %w", ref, domain.NewValidationError("kind", "has no membership"))
	}
	return nil
}
