package workspace

import (
	"strings"

	"github.com/yigitunlu/heroject/internal/domain"
)

// Project is a body of work owned by an optional organization.
type Project struct {
	ID             string
	OrganizationID string
	Name           string
	People         people
}

// NewProject returns a Project with the given members.
func NewProject(id, organizationID, name string, members ...string) *Project {
	p := &Project{ID: id, OrganizationID: organizationID, Name: name}
	for _, m := range members {
		p.People.add(m)
	}
	return p
}

// Ref implements domain.Entity.
func (p *Project) Ref() domain.Ref {
	if p == nil {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.KindProject, ID: p.ID}
}

// String returns the display form used in messages.
func (p *Project) String() string {
	return p.Name
}

// AddPerson implements Membership.
func (p *Project) AddPerson(profileID string) bool { return p.People.add(profileID) }

// HasPerson implements Membership.
func (p *Project) HasPerson(profileID string) bool { return p.People.has(profileID) }

// Members implements Membership.
func (p *Project) Members() []string { return p.People.list() }

// Validate checks business rules for the Project entity.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", domain.MsgRequired)
	}
	return nil
}

// Task is a unit of work inside a project. It is referenceable but has no
// membership.
type Task struct {
	ID        string
	ProjectID string
	Title     string
}

// Ref implements domain.Entity.
func (t *Task) Ref() domain.Ref {
	if t == nil {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.KindTask, ID: t.ID}
}

// String returns the display form used in messages.
func (t *Task) String() string {
	return t.Title
}

// Validate checks business rules for the Task entity.
func (t *Task) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(t.ProjectID) == "" {
		fields["project_id"] = domain.MsgRequired
	}
	if strings.TrimSpace(t.Title) == "" {
		fields["title"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
