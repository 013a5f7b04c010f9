package workspace

import (
	"strings"

	"github.com/yigitunlu/heroject/internal/domain"
)

const maxUsernameLen = 150

// User is an account as supplied by the identity provider.
type User struct {
	ID       string
	Username string
}

// Ref implements domain.Entity.
func (u *User) Ref() domain.Ref {
	if u == nil {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.KindUser, ID: u.ID}
}

// String returns the display form used in messages.
func (u *User) String() string {
	return u.Username
}

// Validate checks business rules for the User entity.
func (u *User) Validate() error {
	fields := make(map[string]string)

	switch name := strings.TrimSpace(u.Username); {
	case name == "":
		fields["username"] = domain.MsgRequired
	case len(name) > maxUsernameLen:
		fields["username"] = domain.MsgTooLong(maxUsernameLen, len(name))
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Profile is the public face of a user. Notifications and invitations are
// addressed to profiles; actions and follows are attributed to users.
type Profile struct {
	ID          string
	UserID      string
	DisplayName string
}

// Ref implements domain.Entity.
func (p *Profile) Ref() domain.Ref {
	if p == nil {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.KindProfile, ID: p.ID}
}

// String returns the display form used in messages.
func (p *Profile) String() string {
	return p.DisplayName
}

// Validate checks business rules for the Profile entity.
func (p *Profile) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(p.UserID) == "" {
		fields["user_id"] = domain.MsgRequired
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		fields["display_name"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
