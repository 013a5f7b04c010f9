package workspace

import (
	"slices"

	"github.com/yigitunlu/heroject/internal/domain"
)

// Membership is the capability shared by entities that people can join.
// Project and Organization implement it; invitation acceptance calls it
// without knowing which of the two it holds.
type Membership interface {
	domain.Entity

	// AddPerson adds the profile to the member set. It reports false when the
	// profile was already a member, leaving the set unchanged.
	AddPerson(profileID string) bool

	// HasPerson reports whether the profile is a member.
	HasPerson(profileID string) bool

	// Members returns the member profile IDs in insertion order.
	Members() []string
}

// Compile-time interface checks.
var (
	_ Membership = (*Project)(nil)
	_ Membership = (*Organization)(nil)
)

// people is an insertion-ordered set of profile IDs.
type people []string

func (p *people) add(id string) bool {
	if slices.Contains(*p, id) {
		return false
	}
	*p = append(*p, id)
	return true
}

func (p people) has(id string) bool {
	return slices.Contains(p, id)
}

func (p people) list() []string {
	return slices.Clone(p)
}
