package sqlite_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitunlu/heroject/internal/adapters/store/sqlite"
	"github.com/yigitunlu/heroject/internal/adapters/store/storetest"
	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/platform/config"
)

func openStore(t *testing.T, path string, opts ...sqlite.Option) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		Path:        path,
		BusyTimeout: time.Second,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T, clock *storetest.Clock) storetest.Store {
		return openStore(t, filepath.Join(t.TempDir(), "heroject.db"), sqlite.WithClock(clock.Now))
	})
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Open(context.Background(), config.StoreConfig{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "heroject.db")
	s := openStore(t, path)
	assert.Equal(t, path, s.Path())
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "heroject.db")

	first, err := sqlite.Open(ctx, config.StoreConfig{Driver: "sqlite", Path: path, BusyTimeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, first.CreateActionType(ctx, &activity.ActionType{Name: "comment", Verb: "commented", Preposition: "on"}))
	require.NoError(t, first.CreateProject(ctx, workspace.NewProject("p1", "", "Website", "pr1", "pr2")))
	require.NoError(t, first.Close())

	second := openStore(t, path)

	typ, err := second.GetActionType(ctx, "comment")
	require.NoError(t, err)
	assert.Equal(t, "commented", typ.Verb)

	p, err := second.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pr1", "pr2"}, p.Members(), "member order survives a reopen")
}

func TestCreateAction_StoresIPAddressAndNullUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "heroject.db"))
	require.NoError(t, s.CreateActionType(ctx, &activity.ActionType{Name: "create", Verb: "created"}))

	a := &activity.Action{
		IPAddress: "10.0.0.1",
		Object:    domain.Ref{Kind: domain.KindTask, ID: "t1"},
		Type:      activity.ActionType{Name: "create"},
	}
	require.NoError(t, s.CreateAction(ctx, a))

	got, err := s.GetAction(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UserID)
	assert.Equal(t, "10.0.0.1", got.IPAddress)
	assert.True(t, got.Target.IsZero())
	assert.Equal(t, "created", got.Type.Verb)
}

func TestCreateNotification_RejectsOversizedMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "heroject.db"))

	n := &activity.Notification{
		Message:    strings.Repeat("x", activity.MaxMessageLen+1),
		ReceiverID: "pr1",
	}
	err := s.CreateNotification(ctx, n)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	s := openStore(t, filepath.Join(t.TempDir(), "heroject.db"))
	assert.Equal(t, "sqlite", s.Name())
	assert.NoError(t, s.HealthCheck(context.Background()))

	require.NoError(t, s.Close())
	assert.Error(t, s.HealthCheck(context.Background()))
}
