package activity

import (
	"fmt"
	"strings"

	"github.com/yigitunlu/heroject/internal/domain"
)

// Follow records that a user follows an entity. Unfollowing clears IsActive
// instead of deleting the row so the history is kept.
type Follow struct {
	ID         string
	FollowerID string
	Object     domain.Ref
	IsActive   bool
}

// Validate checks business rules for the Follow entity.
func (f *Follow) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(f.FollowerID) == "" {
		fields["follower_id"] = domain.MsgRequired
	}
	if f.Object.IsZero() {
		fields["object"] = domain.MsgRequired
	} else if !f.Object.Kind.IsValid() {
		fields["object"] = fmt.Sprintf("invalid reference %q", f.Object)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
