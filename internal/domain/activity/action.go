package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigitunlu/heroject/internal/domain"
)

const maxIPAddressLen = 20

// Action records that a user performed a typed action on an object, optionally
// directed at a target. ActionTime is refreshed by the store on every save, so
// it is a last-modified time rather than a creation time.
type Action struct {
	ID         string
	ActionTime time.Time
	UserID     string // empty once the user has been detached
	IPAddress  string
	Object     domain.Ref
	Target     domain.Ref
	Type       ActionType
}

// Validate checks business rules for the Action entity.
func (a *Action) Validate() error {
	fields := make(map[string]string)

	if a.Object.IsZero() {
		fields["object"] = domain.MsgRequired
	} else if !a.Object.Kind.IsValid() || a.Object.ID == "" {
		fields["object"] = fmt.Sprintf("invalid reference %q", a.Object)
	}
	if !a.Target.IsZero() && (!a.Target.Kind.IsValid() || a.Target.ID == "") {
		fields["target"] = fmt.Sprintf("invalid reference %q", a.Target)
	}
	if strings.TrimSpace(a.Type.Name) == "" {
		fields["type"] = domain.MsgRequired
	}
	if len(a.IPAddress) > maxIPAddressLen {
		fields["ip_address"] = domain.MsgTooLong(maxIPAddressLen, len(a.IPAddress))
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// FollowedRef returns the entity whose followers care about this action: the
// target when one is set, otherwise the object.
func (a *Action) FollowedRef() domain.Ref {
	if !a.Target.IsZero() {
		return a.Target
	}
	return a.Object
}

// Involves reports whether ref is the action's object or target.
func (a *Action) Involves(ref domain.Ref) bool {
	return a.Object == ref || (!a.Target.IsZero() && a.Target == ref)
}
