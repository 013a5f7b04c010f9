package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	appctx "github.com/yigitunlu/heroject/internal/app/context"
	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/platform/logging"
	"github.com/yigitunlu/heroject/internal/platform/telemetry"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time check that ActivityService implements ports.ActivityService.
var _ ports.ActivityService = (*ActivityService)(nil)

// ActivityService implements ports.ActivityService. It records actions against
// the catalog and renders them through the entity resolver and localizer.
type ActivityService struct {
	catalog   ports.ActionTypeRepository
	actions   ports.ActionRepository
	resolver  ports.EntityResolver
	localizer ports.Localizer
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// NewActivityService creates an ActivityService. metrics may be nil; a nil
// logger discards output.
func NewActivityService(
	catalog ports.ActionTypeRepository,
	actions ports.ActionRepository,
	resolver ports.EntityResolver,
	localizer ports.Localizer,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *ActivityService {
	return &ActivityService{
		catalog:   catalog,
		actions:   actions,
		resolver:  resolver,
		localizer: localizer,
		metrics:   metrics,
		logger:    loggerOrDiscard(logger),
	}
}

// Record stores a new action. The type is looked up first so that an unknown
// key fails before anything is written.
func (s *ActivityService) Record(
	ctx context.Context,
	user *workspace.User,
	object domain.Entity,
	typeKey string,
	target domain.Entity,
	opts ...ports.RecordOption,
) (*activity.Action, error) {
	typ, err := s.catalog.GetActionType(ctx, typeKey)
	if err != nil {
		logFailure(ctx, s.logger, "Record", err, slog.String("action_type", typeKey))
		return nil, fmt.Errorf("looking up action type: %w", err)
	}

	objectRef := domain.RefOf(object)
	if objectRef.IsZero() {
		return nil, requiredError("object")
	}

	a := &activity.Action{
		Object: objectRef,
		Target: domain.RefOf(target),
		Type:   *typ,
	}
	if user != nil {
		a.UserID = user.ID
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := s.actions.CreateAction(ctx, a); err != nil {
		logFailure(ctx, s.logger, "Record", err,
			slog.String("action_type", typeKey),
			logging.Ref("object", objectRef),
		)
		return nil, err
	}

	s.metrics.ActionRecorded(ctx, typ.Name)
	s.logger.InfoContext(ctx, "action recorded",
		slog.String("action_id", a.ID),
		slog.String("action_type", typ.Name),
		logging.Ref("object", a.Object),
		logging.Ref("target", a.Target),
		slog.String("ip_address", a.IPAddress),
	)
	return a, nil
}

// RenderMessage builds the localized action sentence.
func (s *ActivityService) RenderMessage(ctx context.Context, a *activity.Action) (string, error) {
	return s.render(appctx.New(ctx), a)
}

func (s *ActivityService) render(rc *appctx.RequestContext, a *activity.Action) (string, error) {
	var (
		parts activity.MessageParts
		err   error
	)
	if parts.User, err = displayName(rc, s.resolver, userRef(a.UserID), UnknownUser); err != nil {
		return "", fmt.Errorf("resolving user of action %s: %w", a.ID, err)
	}
	if parts.Object, err = displayName(rc, s.resolver, a.Object, DeletedEntity); err != nil {
		return "", fmt.Errorf("resolving object of action %s: %w", a.ID, err)
	}
	if parts.Target, err = displayName(rc, s.resolver, a.Target, ""); err != nil {
		return "", fmt.Errorf("resolving target of action %s: %w", a.ID, err)
	}

	msg := activity.ComposeActionMessage(a.Type, parts)
	return strings.TrimSpace(s.localizer.Translate(rc, msg)), nil
}

// Touch re-saves the action, refreshing its timestamp.
func (s *ActivityService) Touch(ctx context.Context, id string) (*activity.Action, error) {
	a, err := s.actions.GetAction(ctx, id)
	if err != nil {
		logFailure(ctx, s.logger, "Touch", err, slog.String("action_id", id))
		return nil, err
	}
	if err := s.actions.SaveAction(ctx, a); err != nil {
		logFailure(ctx, s.logger, "Touch", err, slog.String("action_id", id))
		return nil, err
	}
	return a, nil
}

// Feed returns the newest actions involving ref with their messages. Each
// participant is resolved once per call however many actions name it.
func (s *ActivityService) Feed(ctx context.Context, ref domain.Ref, limit int) ([]ports.FeedItem, error) {
	s.logger.DebugContext(ctx, "building feed", logging.Ref("ref", ref), slog.Int("limit", limit))

	actions, err := s.actions.ListActionsFor(ctx, ref, limit)
	if err != nil {
		logFailure(ctx, s.logger, "Feed", err, logging.Ref("ref", ref))
		return nil, err
	}

	rc := appctx.New(ctx)
	items := make([]ports.FeedItem, 0, len(actions))
	for i := range actions {
		msg, err := s.render(rc, &actions[i])
		if err != nil {
			logFailure(ctx, s.logger, "Feed", err, slog.String("action_id", actions[i].ID))
			return nil, err
		}
		items = append(items, ports.FeedItem{Action: actions[i], Message: msg})
	}

	s.logger.DebugContext(ctx, "feed built",
		slog.Int("actions", len(items)),
		slog.Int("resolutions", rc.Fetches()),
	)
	return items, nil
}

// DetachUser clears the user from every action they recorded. The actions
// stay in the log and render with an unknown user.
func (s *ActivityService) DetachUser(ctx context.Context, userID string) (int, error) {
	n, err := s.actions.DetachUser(ctx, userID)
	if err != nil {
		logFailure(ctx, s.logger, "DetachUser", err, slog.String("user_id", userID))
		return 0, err
	}
	s.logger.InfoContext(ctx, "user detached from actions", slog.String("user_id", userID), slog.Int("actions", n))
	return n, nil
}

func userRef(id string) domain.Ref {
	if id == "" {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.KindUser, ID: id}
}

func profileRef(id string) domain.Ref {
	if id == "" {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.KindProfile, ID: id}
}
