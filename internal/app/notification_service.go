package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appctx "github.com/yigitunlu/heroject/internal/app/context"
	"github.com/yigitunlu/heroject/internal/app/fanout"
	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/platform/config"
	"github.com/yigitunlu/heroject/internal/platform/logging"
	"github.com/yigitunlu/heroject/internal/platform/telemetry"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time check that NotificationService implements ports.NotificationService.
var _ ports.NotificationService = (*NotificationService)(nil)

// NotificationService implements ports.NotificationService.
type NotificationService struct {
	notifications ports.NotificationRepository
	follows       ports.FollowRepository
	directory     ports.DirectoryRepository
	resolver      ports.EntityResolver
	maxWorkers    int
	metrics       *telemetry.Metrics
	logger        *slog.Logger
}

// NewNotificationService creates a NotificationService. cfg bounds the
// number of notifications NotifyFollowers creates concurrently.
func NewNotificationService(
	notifications ports.NotificationRepository,
	follows ports.FollowRepository,
	directory ports.DirectoryRepository,
	resolver ports.EntityResolver,
	cfg config.FanoutConfig,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		follows:       follows,
		directory:     directory,
		resolver:      resolver,
		maxWorkers:    cfg.MaxWorkers,
		metrics:       metrics,
		logger:        loggerOrDiscard(logger),
	}
}

// draft is a rendered notification waiting for its receiver.
type draft struct {
	message  string
	senderID string
	target   domain.Ref
}

// CreateFromAction stores a new notification for receiver describing a.
// Every call creates a new entry.
func (s *NotificationService) CreateFromAction(
	ctx context.Context,
	a *activity.Action,
	receiver *workspace.Profile,
) (*activity.Notification, error) {
	if receiver == nil {
		return nil, requiredError("receiver")
	}

	d, err := s.draft(ctx, a)
	if err != nil {
		logFailure(ctx, s.logger, "CreateFromAction", err, slog.String("action_id", a.ID))
		return nil, err
	}

	n, err := s.deliver(ctx, d, receiver.ID)
	if err != nil {
		logFailure(ctx, s.logger, "CreateFromAction", err,
			slog.String("action_id", a.ID),
			slog.String("receiver_id", receiver.ID),
		)
		return nil, err
	}
	return n, nil
}

// NotifyFollowers creates a notification for every active follower of the
// entity a is about, except the user who acted. Failures for one follower do
// not stop the others; they are reported in the result.
func (s *NotificationService) NotifyFollowers(ctx context.Context, a *activity.Action) (*ports.FanoutResult, error) {
	followed := a.FollowedRef()

	ids, err := s.follows.ActiveFollowerIDs(ctx, followed)
	if err != nil {
		logFailure(ctx, s.logger, "NotifyFollowers", err, logging.Ref("ref", followed))
		return nil, err
	}

	recipients := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != a.UserID {
			recipients = append(recipients, id)
		}
	}

	result := &ports.FanoutResult{
		Created: make([]activity.Notification, 0, len(recipients)),
	}
	if len(recipients) == 0 {
		return result, nil
	}

	d, err := s.draft(ctx, a)
	if err != nil {
		logFailure(ctx, s.logger, "NotifyFollowers", err, slog.String("action_id", a.ID))
		return nil, err
	}

	results := fanout.Run(ctx, s.maxWorkers, recipients, func(ctx context.Context, userID string) (activity.Notification, error) {
		profile, err := s.directory.ProfileByUser(ctx, userID)
		if err != nil {
			return activity.Notification{}, fmt.Errorf("finding profile: %w", err)
		}
		n, err := s.deliver(ctx, d, profile.ID)
		if err != nil {
			return activity.Notification{}, err
		}
		return *n, nil
	})

	var failed []int
	result.Created, failed = fanout.Split(results)
	for _, i := range failed {
		result.Errors = append(result.Errors, ports.FanoutError{UserID: recipients[i], Err: results[i].Err})
		logFailure(ctx, s.logger, "NotifyFollowers", results[i].Err,
			slog.String("action_id", a.ID),
			slog.String("user_id", recipients[i]),
		)
	}

	s.logger.InfoContext(ctx, "followers notified",
		slog.String("action_id", a.ID),
		logging.Ref("ref", followed),
		slog.Int("created", len(result.Created)),
		slog.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// draft renders the notification text for a and finds the actor's profile.
func (s *NotificationService) draft(ctx context.Context, a *activity.Action) (draft, error) {
	rc := appctx.New(ctx)

	var (
		parts activity.MessageParts
		err   error
	)
	if parts.User, err = displayName(rc, s.resolver, userRef(a.UserID), UnknownUser); err != nil {
		return draft{}, fmt.Errorf("resolving user of action %s: %w", a.ID, err)
	}
	if parts.Target, err = displayName(rc, s.resolver, a.Target, DeletedEntity); err != nil {
		return draft{}, fmt.Errorf("resolving target of action %s: %w", a.ID, err)
	}
	if a.Target.IsZero() {
		parts.Target = ""
	}

	d := draft{
		message: activity.ComposeNotificationMessage(a.Type, parts),
		target:  a.Target,
	}
	if a.UserID != "" {
		sender, err := s.directory.ProfileByUser(ctx, a.UserID)
		switch {
		case err == nil:
			d.senderID = sender.ID
		case !errors.Is(err, domain.ErrNotFound):
			return draft{}, fmt.Errorf("finding sender profile: %w", err)
		}
	}
	return d, nil
}

func (s *NotificationService) deliver(ctx context.Context, d draft, receiverID string) (*activity.Notification, error) {
	n := &activity.Notification{
		Message:    d.message,
		ReceiverID: receiverID,
		SenderID:   d.senderID,
		Target:     d.target,
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	s.metrics.NotificationCreated(ctx)
	return n, nil
}

// MarkRead sets IsRead. Marking a read notification again is not an error.
func (s *NotificationService) MarkRead(ctx context.Context, id string) (*activity.Notification, error) {
	if err := s.notifications.MarkNotificationRead(ctx, id); err != nil {
		logFailure(ctx, s.logger, "MarkRead", err, slog.String("notification_id", id))
		return nil, err
	}
	return s.notifications.GetNotification(ctx, id)
}

// List returns the receiver's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, receiverID string, unreadOnly bool) ([]activity.Notification, error) {
	list, err := s.notifications.ListNotifications(ctx, receiverID, unreadOnly)
	if err != nil {
		logFailure(ctx, s.logger, "List", err, slog.String("receiver_id", receiverID))
		return nil, err
	}
	return list, nil
}

// UnreadCount returns how many unread notifications the receiver has.
func (s *NotificationService) UnreadCount(ctx context.Context, receiverID string) (int, error) {
	list, err := s.List(ctx, receiverID, true)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}
