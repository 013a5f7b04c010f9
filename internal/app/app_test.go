package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yigitunlu/heroject/internal/adapters/resolver"
	"github.com/yigitunlu/heroject/internal/adapters/store/memory"
	"github.com/yigitunlu/heroject/internal/adapters/store/storetest"
	"github.com/yigitunlu/heroject/internal/app"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/platform/config"
	"github.com/yigitunlu/heroject/internal/platform/localize"
	"github.com/yigitunlu/heroject/internal/ports"
)

// fixture wires every service to one memory store and a directory-backed
// resolver, seeded with a small workspace.
type fixture struct {
	store    *memory.Store
	clock    *storetest.Clock
	resolver *resolver.Registry

	catalog       *app.CatalogService
	activity      *app.ActivityService
	follows       *app.FollowService
	notifications *app.NotificationService
	invitations   *app.InvitationService

	alice, bob, carol          *workspace.User
	aliceProf, bobProf, carolP *workspace.Profile
	org                        *workspace.Organization
	project                    *workspace.Project
	task                       *workspace.Task
}

func resolverConfig() *config.ResolverConfig {
	return &config.ResolverConfig{
		Timeout: time.Second,
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, localize.Passthrough{}, nil)
}

// newFixtureWith builds a fixture with the given localizer. A non-nil
// entityResolver replaces the directory-backed one in every service.
func newFixtureWith(t *testing.T, localizer ports.Localizer, entityResolver ports.EntityResolver) *fixture {
	t.Helper()

	ctx := context.Background()
	clock := storetest.NewClock()
	store := memory.New(memory.WithClock(clock.Now))

	reg := resolver.New(resolverConfig(), nil, nil)
	reg.RegisterAll(resolver.DirectoryResolvers(store))

	var res ports.EntityResolver = reg
	if entityResolver != nil {
		res = entityResolver
	}

	f := &fixture{
		store:    store,
		clock:    clock,
		resolver: reg,

		catalog:       app.NewCatalogService(store, nil),
		activity:      app.NewActivityService(store, store, res, localizer, nil, nil),
		follows:       app.NewFollowService(store, store, store, nil),
		notifications: app.NewNotificationService(store, store, store, res, config.FanoutConfig{MaxWorkers: 4}, nil, nil),
		invitations:   app.NewInvitationService(store, store, store, res, nil, nil),
	}

	_, err := f.catalog.Seed(ctx)
	require.NoError(t, err)

	f.alice = f.addUser(t, "u-alice", "alice", "Alice")
	f.bob = f.addUser(t, "u-bob", "bob", "Bob")
	f.carol = f.addUser(t, "u-carol", "carol", "Carol")
	f.aliceProf = f.profileOf(t, f.alice)
	f.bobProf = f.profileOf(t, f.bob)
	f.carolP = f.profileOf(t, f.carol)

	f.org = workspace.NewOrganization("o1", "Acme", f.aliceProf.ID)
	require.NoError(t, store.CreateOrganization(ctx, f.org))
	f.project = workspace.NewProject("p1", f.org.ID, "Website", f.aliceProf.ID)
	require.NoError(t, store.CreateProject(ctx, f.project))
	f.task = &workspace.Task{ID: "t1", ProjectID: f.project.ID, Title: "Fix login"}
	require.NoError(t, store.CreateTask(ctx, f.task))

	return f
}

func (f *fixture) addUser(t *testing.T, id, username, displayName string) *workspace.User {
	t.Helper()

	ctx := context.Background()
	u := &workspace.User{ID: id, Username: username}
	require.NoError(t, f.store.CreateUser(ctx, u))
	require.NoError(t, f.store.CreateProfile(ctx, &workspace.Profile{
		ID:          "prof-" + username,
		UserID:      id,
		DisplayName: displayName,
	}))
	return u
}

func (f *fixture) profileOf(t *testing.T, u *workspace.User) *workspace.Profile {
	t.Helper()

	p, err := f.store.ProfileByUser(context.Background(), u.ID)
	require.NoError(t, err)
	return p
}
