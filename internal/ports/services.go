package ports

import (
	"context"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
)

// CatalogService manages the action type catalog.
type CatalogService interface {
	// Lookup returns the entry named name.
	// Returns domain.ErrNotFound if the catalog has no such entry.
	Lookup(ctx context.Context, name string) (*activity.ActionType, error)

	// Define adds a new entry. Returns domain.ErrValidation for invalid
	// fields and domain.ErrConflict for a duplicate name.
	Define(ctx context.Context, t *activity.ActionType) (*activity.ActionType, error)

	// Update changes verb and preposition of an existing entry.
	Update(ctx context.Context, t *activity.ActionType) (*activity.ActionType, error)

	// List returns every entry ordered by name.
	List(ctx context.Context) ([]activity.ActionType, error)

	// Seed defines the default vocabulary, skipping names that already exist,
	// and returns how many entries were added.
	Seed(ctx context.Context) (int, error)
}

// ActivityService records and renders actions.
type ActivityService interface {
	// Record persists a new action. The type key must exist in the catalog
	// (domain.ErrNotFound otherwise, nothing stored); object must be a live
	// entity; target is optional. No notifications are sent.
	Record(ctx context.Context, user *workspace.User, object domain.Entity, typeKey string,
		target domain.Entity, opts ...RecordOption) (*activity.Action, error)

	// RenderMessage builds the localized, trimmed action sentence.
	RenderMessage(ctx context.Context, a *activity.Action) (string, error)

	// Touch re-saves an action, refreshing its timestamp.
	Touch(ctx context.Context, id string) (*activity.Action, error)

	// Feed returns the newest actions involving ref with rendered messages.
	Feed(ctx context.Context, ref domain.Ref, limit int) ([]FeedItem, error)

	// DetachUser clears the user from every action they recorded.
	DetachUser(ctx context.Context, userID string) (int, error)
}

// RecordOption customizes Record.
type RecordOption func(*activity.Action)

// WithIPAddress stores the client address alongside the action.
func WithIPAddress(ip string) RecordOption {
	return func(a *activity.Action) {
		a.IPAddress = ip
	}
}

// FeedItem pairs an action with its rendered message.
type FeedItem struct {
	Action  activity.Action
	Message string
}

// FollowService manages follows.
type FollowService interface {
	// Follow appends an active follow without checking for duplicates.
	Follow(ctx context.Context, user *workspace.User, entity domain.Entity) (*activity.Follow, error)

	// FollowOnce returns the existing active follow or creates one.
	FollowOnce(ctx context.Context, user *workspace.User, entity domain.Entity) (*activity.Follow, error)

	// Unfollow deactivates a follow. Unfollowing twice is not an error.
	Unfollow(ctx context.Context, followID string) (*activity.Follow, error)

	// ActiveFollowers returns the users actively following ref.
	ActiveFollowers(ctx context.Context, ref domain.Ref) ([]workspace.User, error)

	// IsFollowing reports whether userID actively follows ref.
	IsFollowing(ctx context.Context, userID string, ref domain.Ref) (bool, error)
}

// NotificationService creates and reads notifications.
type NotificationService interface {
	// CreateFromAction renders the notification template for the action and
	// stores a new notification for receiver. Calls are not deduplicated.
	CreateFromAction(ctx context.Context, a *activity.Action, receiver *workspace.Profile) (*activity.Notification, error)

	// NotifyFollowers creates a notification for every active follower of the
	// action's followed entity except the actor.
	NotifyFollowers(ctx context.Context, a *activity.Action) (*FanoutResult, error)

	// MarkRead sets IsRead; idempotent.
	MarkRead(ctx context.Context, id string) (*activity.Notification, error)

	// List returns the receiver's notifications, newest first.
	List(ctx context.Context, receiverID string, unreadOnly bool) ([]activity.Notification, error)

	// UnreadCount returns how many unread notifications the receiver has.
	UnreadCount(ctx context.Context, receiverID string) (int, error)
}

// FanoutError records a follower that could not be notified.
type FanoutError struct {
	UserID string
	Err    error
}

// FanoutResult holds the outcome of NotifyFollowers. Created contains the
// stored notifications; Errors contains per-follower failures.
type FanoutResult struct {
	Created []activity.Notification
	Errors  []FanoutError
}

// InvitationService manages invitations.
type InvitationService interface {
	// Invite creates a pending, unread, unaccepted invitation.
	Invite(ctx context.Context, sender *workspace.Profile, target domain.Entity,
		receiver *workspace.Profile) (*invitation.Invitation, error)

	// Active returns the receiver's unread invitations, newest first.
	Active(ctx context.Context, receiverID string) ([]invitation.Invitation, error)

	// Message renders "{sender} has invited you to {target}".
	Message(ctx context.Context, inv *invitation.Invitation) (string, error)

	// MarkRead sets IsRead on the invitation.
	MarkRead(ctx context.Context, id string) (*invitation.Invitation, error)

	// AddUser accepts the invitation: the receiver joins the target when it
	// has membership. Other target kinds are left untouched without error.
	AddUser(ctx context.Context, id string) (*invitation.Invitation, error)
}
