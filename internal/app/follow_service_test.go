package app_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
)

func TestFollowService_FollowAppendsEveryTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	first, err := f.follows.Follow(ctx, f.bob, f.task)
	require.NoError(t, err)
	second, err := f.follows.Follow(ctx, f.bob, f.task)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.IsActive)

	all, err := f.store.ListFollows(ctx, f.task.Ref())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	followers, err := f.follows.ActiveFollowers(ctx, f.task.Ref())
	require.NoError(t, err)
	assert.Equal(t, []workspace.User{*f.bob}, followers, "followers are distinct")
}

func TestFollowService_FollowOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	first, err := f.follows.FollowOnce(ctx, f.bob, f.project)
	require.NoError(t, err)
	again, err := f.follows.FollowOnce(ctx, f.bob, f.project)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = f.follows.Unfollow(ctx, first.ID)
	require.NoError(t, err)

	renewed, err := f.follows.FollowOnce(ctx, f.bob, f.project)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, renewed.ID, "an inactive follow is not reused")
}

func TestFollowService_FollowOnceConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.follows.FollowOnce(ctx, f.carol, f.task)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := f.store.ListFollows(ctx, f.task.Ref())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFollowService_UnfollowIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	fl, err := f.follows.Follow(ctx, f.bob, f.task)
	require.NoError(t, err)

	for range 2 {
		got, err := f.follows.Unfollow(ctx, fl.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	}

	following, err := f.follows.IsFollowing(ctx, f.bob.ID, f.task.Ref())
	require.NoError(t, err)
	assert.False(t, following)

	all, err := f.store.ListFollows(ctx, f.task.Ref())
	require.NoError(t, err)
	assert.Len(t, all, 1, "unfollow keeps the entry")
}

func TestFollowService_UnfollowMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.follows.Unfollow(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFollowService_ActiveFollowersSkipsMissingAccounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.follows.Follow(ctx, f.carol, f.org)
	require.NoError(t, err)
	_, err = f.follows.Follow(ctx, &workspace.User{ID: "u-removed", Username: "removed"}, f.org)
	require.NoError(t, err)
	_, err = f.follows.Follow(ctx, f.bob, f.org)
	require.NoError(t, err)

	followers, err := f.follows.ActiveFollowers(ctx, f.org.Ref())
	require.NoError(t, err)
	assert.Equal(t, []workspace.User{*f.carol, *f.bob}, followers)
}

func TestFollowService_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.follows.Follow(ctx, nil, f.task)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.follows.Follow(ctx, f.bob, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var project *workspace.Project
	_, err = f.follows.Follow(ctx, f.bob, project)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.follows.FollowOnce(ctx, nil, f.task)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
