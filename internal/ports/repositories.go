package ports

import (
	"context"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
)

// ActionTypeRepository persists the action type catalog.
type ActionTypeRepository interface {
	// GetActionType returns the entry with the given name.
	// Returns domain.ErrNotFound if no entry matches.
	GetActionType(ctx context.Context, name string) (*activity.ActionType, error)

	// CreateActionType stores a new entry.
	// Returns domain.ErrConflict if the name is taken.
	CreateActionType(ctx context.Context, t *activity.ActionType) error

	// UpdateActionType replaces verb and preposition of an existing entry.
	// Returns domain.ErrNotFound if the entry does not exist.
	UpdateActionType(ctx context.Context, t *activity.ActionType) error

	// ListActionTypes returns all entries ordered by name.
	ListActionTypes(ctx context.Context) ([]activity.ActionType, error)
}

// ActionRepository persists the action log. Every save stamps ActionTime.
type ActionRepository interface {
	// CreateAction assigns an ID, stamps ActionTime and stores the action.
	CreateAction(ctx context.Context, a *activity.Action) error

	// SaveAction re-saves an existing action, refreshing ActionTime.
	// Returns domain.ErrNotFound if the action does not exist.
	SaveAction(ctx context.Context, a *activity.Action) error

	// GetAction returns a single action by ID.
	// Returns domain.ErrNotFound if the action does not exist.
	GetAction(ctx context.Context, id string) (*activity.Action, error)

	// ListActionsFor returns actions whose object or target is ref, newest
	// first, at most limit entries (limit <= 0 means no limit).
	ListActionsFor(ctx context.Context, ref domain.Ref, limit int) ([]activity.Action, error)

	// DetachUser clears UserID on every action recorded by the user and
	// returns how many actions were changed.
	DetachUser(ctx context.Context, userID string) (int, error)
}

// FollowRepository persists follows.
type FollowRepository interface {
	// CreateFollow assigns an ID and stores the follow.
	CreateFollow(ctx context.Context, f *activity.Follow) error

	// GetFollow returns a single follow by ID.
	// Returns domain.ErrNotFound if the follow does not exist.
	GetFollow(ctx context.Context, id string) (*activity.Follow, error)

	// FindActiveFollow returns the active follow of userID on ref.
	// Returns domain.ErrNotFound if there is none.
	FindActiveFollow(ctx context.Context, userID string, ref domain.Ref) (*activity.Follow, error)

	// SetFollowActive updates the IsActive flag.
	// Returns domain.ErrNotFound if the follow does not exist.
	SetFollowActive(ctx context.Context, id string, active bool) error

	// ListFollows returns every follow on ref, active or not, oldest first.
	ListFollows(ctx context.Context, ref domain.Ref) ([]activity.Follow, error)

	// ActiveFollowerIDs returns the distinct user IDs actively following ref.
	ActiveFollowerIDs(ctx context.Context, ref domain.Ref) ([]string, error)
}

// NotificationRepository persists notifications. Every save stamps ActionTime.
type NotificationRepository interface {
	// CreateNotification validates, assigns an ID, stamps ActionTime and stores
	// the notification. Returns domain.ErrValidation for an oversized message.
	CreateNotification(ctx context.Context, n *activity.Notification) error

	// GetNotification returns a single notification by ID.
	// Returns domain.ErrNotFound if the notification does not exist.
	GetNotification(ctx context.Context, id string) (*activity.Notification, error)

	// MarkNotificationRead sets IsRead. Returns domain.ErrNotFound if the
	// notification does not exist.
	MarkNotificationRead(ctx context.Context, id string) error

	// ListNotifications returns notifications for the receiver, newest first.
	ListNotifications(ctx context.Context, receiverID string, unreadOnly bool) ([]activity.Notification, error)
}

// InvitationRepository persists invitations. Every save stamps DateSent.
type InvitationRepository interface {
	// CreateInvitation validates, assigns an ID, stamps DateSent and stores
	// the invitation.
	CreateInvitation(ctx context.Context, inv *invitation.Invitation) error

	// GetInvitation returns a single invitation by ID.
	// Returns domain.ErrNotFound if the invitation does not exist.
	GetInvitation(ctx context.Context, id string) (*invitation.Invitation, error)

	// SaveInvitation stores the flags of an existing invitation and refreshes
	// DateSent. Returns domain.ErrNotFound if it does not exist.
	SaveInvitation(ctx context.Context, inv *invitation.Invitation) error

	// ListInvitations returns invitations addressed to receiverID, newest
	// first. unreadOnly restricts the result to IsRead == false.
	ListInvitations(ctx context.Context, receiverID string, unreadOnly bool) ([]invitation.Invitation, error)
}

// DirectoryRepository stands in for the identity provider and the workspace
// owner: it stores users, profiles, organizations, projects and tasks.
type DirectoryRepository interface {
	CreateUser(ctx context.Context, u *workspace.User) error
	GetUser(ctx context.Context, id string) (*workspace.User, error)

	CreateProfile(ctx context.Context, p *workspace.Profile) error
	GetProfile(ctx context.Context, id string) (*workspace.Profile, error)

	// ProfileByUser returns the profile owned by userID.
	// Returns domain.ErrNotFound if the user has no profile.
	ProfileByUser(ctx context.Context, userID string) (*workspace.Profile, error)

	CreateOrganization(ctx context.Context, o *workspace.Organization) error
	GetOrganization(ctx context.Context, id string) (*workspace.Organization, error)

	CreateProject(ctx context.Context, p *workspace.Project) error
	GetProject(ctx context.Context, id string) (*workspace.Project, error)

	CreateTask(ctx context.Context, t *workspace.Task) error
	GetTask(ctx context.Context, id string) (*workspace.Task, error)
}

// MembershipWriter persists the member set of a membership-capable entity.
// Adding a profile that is already a member is a no-op.
type MembershipWriter interface {
	SaveMembers(ctx context.Context, m workspace.Membership) error
}

// TxManager runs a function inside a store transaction. Repository calls made
// with the context passed to fn participate in the transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
