package activity

import (
	"strings"
	"time"

	"github.com/yigitunlu/heroject/internal/domain"
)

// MaxMessageLen is the longest notification message a store accepts.
const MaxMessageLen = 300

// Notification is a rendered message addressed to a profile. Message is fixed
// at creation; IsRead is the only field consumers change afterwards.
type Notification struct {
	ID         string
	Message    string
	ActionTime time.Time
	ReceiverID string
	SenderID   string
	Target     domain.Ref
	IsRead     bool
}

// Validate checks business rules for the Notification entity.
func (n *Notification) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(n.ReceiverID) == "" {
		fields["receiver_id"] = domain.MsgRequired
	}
	checkText(fields, "message", n.Message, MaxMessageLen, true)

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
