package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/platform/logging"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time check that FollowService implements ports.FollowService.
var _ ports.FollowService = (*FollowService)(nil)

// FollowService implements ports.FollowService.
type FollowService struct {
	follows   ports.FollowRepository
	directory ports.DirectoryRepository
	tx        ports.TxManager
	logger    *slog.Logger
}

// NewFollowService creates a FollowService. FollowOnce runs its
// check-then-insert inside tx.
func NewFollowService(
	follows ports.FollowRepository,
	directory ports.DirectoryRepository,
	tx ports.TxManager,
	logger *slog.Logger,
) *FollowService {
	return &FollowService{
		follows:   follows,
		directory: directory,
		tx:        tx,
		logger:    loggerOrDiscard(logger),
	}
}

// Follow appends an active follow. It does not look for an existing one.
func (s *FollowService) Follow(ctx context.Context, user *workspace.User, entity domain.Entity) (*activity.Follow, error) {
	if user == nil {
		return nil, requiredError("user")
	}
	f := &activity.Follow{
		FollowerID: user.ID,
		Object:     domain.RefOf(entity),
		IsActive:   true,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if err := s.follows.CreateFollow(ctx, f); err != nil {
		logFailure(ctx, s.logger, "Follow", err,
			slog.String("user_id", user.ID),
			logging.Ref("object", f.Object),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "follow created",
		slog.String("follow_id", f.ID),
		slog.String("user_id", f.FollowerID),
		logging.Ref("object", f.Object),
	)
	return f, nil
}

// FollowOnce returns the user's active follow on entity, creating it if
// there is none.
func (s *FollowService) FollowOnce(ctx context.Context, user *workspace.User, entity domain.Entity) (*activity.Follow, error) {
	if user == nil {
		return nil, requiredError("user")
	}

	var f *activity.Follow
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.follows.FindActiveFollow(ctx, user.ID, domain.RefOf(entity))
		switch {
		case err == nil:
			f = existing
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		f, err = s.Follow(ctx, user, entity)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "FollowOnce", err, slog.String("user_id", user.ID))
		return nil, err
	}
	return f, nil
}

// Unfollow deactivates the follow. The entry is kept.
func (s *FollowService) Unfollow(ctx context.Context, followID string) (*activity.Follow, error) {
	if err := s.follows.SetFollowActive(ctx, followID, false); err != nil {
		logFailure(ctx, s.logger, "Unfollow", err, slog.String("follow_id", followID))
		return nil, err
	}
	s.logger.InfoContext(ctx, "follow deactivated", slog.String("follow_id", followID))
	return s.follows.GetFollow(ctx, followID)
}

// ActiveFollowers returns the users actively following ref. Followers whose
// account no longer exists are skipped.
func (s *FollowService) ActiveFollowers(ctx context.Context, ref domain.Ref) ([]workspace.User, error) {
	ids, err := s.follows.ActiveFollowerIDs(ctx, ref)
	if err != nil {
		logFailure(ctx, s.logger, "ActiveFollowers", err, logging.Ref("ref", ref))
		return nil, err
	}

	users := make([]workspace.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.directory.GetUser(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.DebugContext(ctx, "skipping follower without account", slog.String("user_id", id))
			continue
		}
		if err != nil {
			logFailure(ctx, s.logger, "ActiveFollowers", err, slog.String("user_id", id))
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// IsFollowing reports whether userID actively follows ref.
func (s *FollowService) IsFollowing(ctx context.Context, userID string, ref domain.Ref) (bool, error) {
	_, err := s.follows.FindActiveFollow(ctx, userID, ref)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
