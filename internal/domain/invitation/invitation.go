// Package invitation models pending invitations to join a project or an
// organization.
package invitation

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigitunlu/heroject/internal/domain"
)

// Invitation is sent by a profile to join the Target entity. ReceiverID may
// be empty while the invitee has not registered yet. IsAccepted only ever
// moves from false to true.
type Invitation struct {
	ID         string
	SenderID   string
	ReceiverID string
	IsRead     bool
	IsAccepted bool
	Target     domain.Ref
	DateSent   time.Time
}

// Validate checks business rules for the Invitation entity.
func (i *Invitation) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(i.SenderID) == "" {
		fields["sender_id"] = domain.MsgRequired
	}
	if i.Target.IsZero() {
		fields["target"] = domain.MsgRequired
	} else if !i.Target.Kind.IsValid() || i.Target.ID == "" {
		fields["target"] = fmt.Sprintf("invalid reference %q", i.Target)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Accept marks the invitation accepted. It reports false if it already was.
func (i *Invitation) Accept() bool {
	if i.IsAccepted {
		return false
	}
	i.IsAccepted = true
	return true
}

// ComposeMessage builds "{sender} has invited you to {target}".
func ComposeMessage(sender, target string) string {
	return fmt.Sprintf("%s has invited you to %s", sender, target)
}
