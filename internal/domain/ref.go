package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one of the closed set of entity kinds a Ref can point at.
type Kind string

const (
	KindUser         Kind = "user"
	KindProfile      Kind = "profile"
	KindOrganization Kind = "organization"
	KindProject      Kind = "project"
	KindTask         Kind = "task"
)

// Kinds lists every referenceable kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindUser, KindProfile, KindOrganization, KindProject, KindTask}
}

// IsValid returns true if the kind is one of the defined constants.
func (k Kind) IsValid() bool {
	switch k {
	case KindUser, KindProfile, KindOrganization, KindProject, KindTask:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Ref is a weak reference to a stored entity: a kind tag plus the entity's
// identifier in string form. The zero Ref is the absent reference. A Ref never
// owns its entity and becomes dangling, not invalid, when the entity is removed.
type Ref struct {
	Kind Kind
	ID   string
}

// refSeparator joins kind and id in the textual form of a Ref.
const refSeparator = ":"

// NewRef builds a Ref, enforcing that kind and id are both present or both
// absent and that the kind belongs to the closed set.
func NewRef(kind Kind, id string) (Ref, error) {
	id = strings.TrimSpace(id)
	switch {
	case kind == "" && id == "":
		return Ref{}, nil
	case kind == "":
		return Ref{}, NewValidationError("kind", MsgRequired)
	case id == "":
		return Ref{}, NewValidationError("id", MsgRequired)
	case !kind.IsValid():
		return Ref{}, NewValidationError("kind", fmt.Sprintf("unknown kind %q", kind))
	}
	return Ref{Kind: kind, ID: id}, nil
}

// ParseRef parses the "kind:id" form produced by Ref.String.
func ParseRef(s string) (Ref, error) {
	kind, id, ok := strings.Cut(strings.TrimSpace(s), refSeparator)
	if !ok {
		return Ref{}, NewValidationError("ref", fmt.Sprintf("want kind:id, got %q", s))
	}
	return NewRef(Kind(kind), id)
}

// IsZero reports whether the reference is absent.
func (r Ref) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// String returns the "kind:id" form, or the empty string for an absent reference.
func (r Ref) String() string {
	if r.IsZero() {
		return ""
	}
	return string(r.Kind) + refSeparator + r.ID
}

// Entity is any live object that can be pointed at by a Ref and rendered into
// a human-readable message. String returns the display form used in messages.
type Entity interface {
	Ref() Ref
	String() string
}

// RefOf returns the reference of a live entity, or the zero Ref for nil.
// Entity implementations return the zero Ref from a nil pointer receiver.
func RefOf(e Entity) Ref {
	if e == nil {
		return Ref{}
	}
	return e.Ref()
}
