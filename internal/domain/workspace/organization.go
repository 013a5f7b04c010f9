package workspace

import (
	"strings"

	"github.com/yigitunlu/heroject/internal/domain"
)

// Organization groups projects and people.
type Organization struct {
	ID     string
	Name   string
	People people
}

// NewOrganization returns an Organization with the given members.
func NewOrganization(id, name string, members ...string) *Organization {
	o := &Organization{ID: id, Name: name}
	for _, m := range members {
		o.People.add(m)
	}
	return o
}

// Ref implements domain.Entity.
func (o *Organization) Ref() domain.Ref {
	if o == nil {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.KindOrganization, ID: o.ID}
}

// String returns the display form used in messages.
func (o *Organization) String() string {
	return o.Name
}

// AddPerson implements Membership.
func (o *Organization) AddPerson(profileID string) bool { return o.People.add(profileID) }

// HasPerson implements Membership.
func (o *Organization) HasPerson(profileID string) bool { return o.People.has(profileID) }

// Members implements Membership.
func (o *Organization) Members() []string { return o.People.list() }

// Validate checks business rules for the Organization entity.
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return domain.NewValidationError("name", domain.MsgRequired)
	}
	return nil
}
