package storetest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
)

var (
	comment = activity.ActionType{Name: "comment", Verb: "commented", Preposition: "on"}
	create  = activity.ActionType{Name: "create", Verb: "created"}
	assign  = activity.ActionType{Name: "assign", Verb: "assigned", Preposition: "to"}

	taskRef    = domain.Ref{Kind: domain.KindTask, ID: "t1"}
	projectRef = domain.Ref{Kind: domain.KindProject, ID: "p1"}
	userRef    = domain.Ref{Kind: domain.KindUser, ID: "u2"}
)

func testActionTypes(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock())

	for _, at := range []activity.ActionType{create, comment, assign} {
		require.NoError(t, s.CreateActionType(ctx, &at))
	}

	got, err := s.GetActionType(ctx, "comment")
	require.NoError(t, err)
	assert.Equal(t, comment, *got)

	_, err = s.GetActionType(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dup := comment
	assert.ErrorIs(t, s.CreateActionType(ctx, &dup), domain.ErrConflict)

	invalid := activity.ActionType{Name: "x", Verb: strings.Repeat("v", 41)}
	assert.ErrorIs(t, s.CreateActionType(ctx, &invalid), domain.ErrValidation)

	updated := activity.ActionType{Name: "comment", Verb: "remarked", Preposition: "upon"}
	require.NoError(t, s.UpdateActionType(ctx, &updated))
	got, err = s.GetActionType(ctx, "comment")
	require.NoError(t, err)
	assert.Equal(t, updated, *got)

	missing := activity.ActionType{Name: "missing", Verb: "x"}
	assert.ErrorIs(t, s.UpdateActionType(ctx, &missing), domain.ErrNotFound)

	list, err := s.ListActionTypes(ctx)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, at := range list {
		names[i] = at.Name
	}
	assert.Equal(t, []string{"assign", "comment", "create"}, names)
}

func testActions(t *testing.T, newStore Factory) {
	ctx := context.Background()
	clock := NewClock()
	s := newStore(t, clock)
	seedCatalog(t, s)

	first := &activity.Action{UserID: "u1", Object: taskRef, Type: comment, IPAddress: "10.0.0.1"}
	require.NoError(t, s.CreateAction(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.ActionTime.Equal(clock.Now()), "ActionTime = %v, want %v", first.ActionTime, clock.Now())

	clock.Advance(time.Minute)
	second := &activity.Action{UserID: "u1", Object: userRef, Target: taskRef, Type: assign}
	require.NoError(t, s.CreateAction(ctx, second))

	clock.Advance(time.Minute)
	other := &activity.Action{UserID: "u3", Object: projectRef, Type: create}
	require.NoError(t, s.CreateAction(ctx, other))

	got, err := s.GetAction(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "10.0.0.1", got.IPAddress)
	assert.Equal(t, taskRef, got.Object)
	assert.True(t, got.Target.IsZero())
	assert.Equal(t, comment, got.Type)

	_, err = s.GetAction(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	t.Run("list newest first by object or target", func(t *testing.T) {
		list, err := s.ListActionsFor(ctx, taskRef, 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)

		limited, err := s.ListActionsFor(ctx, taskRef, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, second.ID, limited[0].ID)
	})

	t.Run("save refreshes timestamp", func(t *testing.T) {
		before := first.ActionTime
		clock.Advance(time.Hour)
		require.NoError(t, s.SaveAction(ctx, first))
		assert.True(t, first.ActionTime.After(before))

		stored, err := s.GetAction(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, stored.ActionTime.Equal(first.ActionTime))

		list, err := s.ListActionsFor(ctx, taskRef, 0)
		require.NoError(t, err)
		assert.Equal(t, first.ID, list[0].ID, "re-saved action sorts first")

		ghost := &activity.Action{ID: "missing", Object: taskRef, Type: comment}
		assert.ErrorIs(t, s.SaveAction(ctx, ghost), domain.ErrNotFound)
	})

	t.Run("actions read the current catalog entry", func(t *testing.T) {
		renamed := activity.ActionType{Name: "create", Verb: "started"}
		require.NoError(t, s.UpdateActionType(ctx, &renamed))

		stored, err := s.GetAction(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "started", stored.Type.Verb)
	})

	t.Run("unknown action type is rejected", func(t *testing.T) {
		unknown := &activity.Action{Object: taskRef, Type: activity.ActionType{Name: "dance", Verb: "danced"}}
		assert.ErrorIs(t, s.CreateAction(ctx, unknown), domain.ErrNotFound)
	})

	t.Run("invalid action is rejected", func(t *testing.T) {
		bad := &activity.Action{Type: comment}
		assert.ErrorIs(t, s.CreateAction(ctx, bad), domain.ErrValidation)

		long := &activity.Action{Object: taskRef, Type: comment, IPAddress: strings.Repeat("1", 21)}
		assert.ErrorIs(t, s.CreateAction(ctx, long), domain.ErrValidation)
	})

	t.Run("detach user keeps the actions", func(t *testing.T) {
		n, err := s.DetachUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		stored, err := s.GetAction(ctx, second.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.UserID)

		untouched, err := s.GetAction(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "u3", untouched.UserID)
	})
}

func seedCatalog(t *testing.T, s Store) {
	t.Helper()
	for _, at := range []activity.ActionType{comment, create, assign} {
		require.NoError(t, s.CreateActionType(context.Background(), &at))
	}
}

func testFollows(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock())

	a := &activity.Follow{FollowerID: "u1", Object: projectRef, IsActive: true}
	require.NoError(t, s.CreateFollow(ctx, a))
	assert.NotEmpty(t, a.ID)

	dup := &activity.Follow{FollowerID: "u1", Object: projectRef, IsActive: true}
	require.NoError(t, s.CreateFollow(ctx, dup), "unconditional follows may duplicate")

	b := &activity.Follow{FollowerID: "u2", Object: projectRef, IsActive: true}
	require.NoError(t, s.CreateFollow(ctx, b))

	elsewhere := &activity.Follow{FollowerID: "u3", Object: taskRef, IsActive: true}
	require.NoError(t, s.CreateFollow(ctx, elsewhere))

	found, err := s.FindActiveFollow(ctx, "u1", projectRef)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID, "oldest active follow wins")

	_, err = s.FindActiveFollow(ctx, "u3", projectRef)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ids, err := s.ActiveFollowerIDs(ctx, projectRef)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)

	require.NoError(t, s.SetFollowActive(ctx, b.ID, false))
	got, err := s.GetFollow(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	ids, err = s.ActiveFollowerIDs(ctx, projectRef)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)

	all, err := s.ListFollows(ctx, projectRef)
	require.NoError(t, err)
	require.Len(t, all, 3, "deactivated follows are kept")
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[2].ID)

	assert.ErrorIs(t, s.SetFollowActive(ctx, "missing", false), domain.ErrNotFound)
	_, err = s.GetFollow(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.CreateFollow(ctx, &activity.Follow{Object: projectRef}), domain.ErrValidation)
}

func testNotifications(t *testing.T, newStore Factory) {
	ctx := context.Background()
	clock := NewClock()
	s := newStore(t, clock)

	older := &activity.Notification{Message: "alice has commented you on Fix login", ReceiverID: "pr1", SenderID: "pr2", Target: taskRef}
	require.NoError(t, s.CreateNotification(ctx, older))
	assert.NotEmpty(t, older.ID)
	assert.False(t, older.IsRead)

	clock.Advance(time.Minute)
	newer := &activity.Notification{Message: "bob has assigned you to Fix login", ReceiverID: "pr1"}
	require.NoError(t, s.CreateNotification(ctx, newer))

	other := &activity.Notification{Message: "x", ReceiverID: "pr9"}
	require.NoError(t, s.CreateNotification(ctx, other))

	list, err := s.ListNotifications(ctx, "pr1", false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	assert.Equal(t, "pr2", list[1].SenderID)
	assert.Equal(t, taskRef, list[1].Target)
	assert.Empty(t, list[0].SenderID)
	assert.True(t, list[0].Target.IsZero())

	require.NoError(t, s.MarkNotificationRead(ctx, older.ID))
	require.NoError(t, s.MarkNotificationRead(ctx, older.ID), "marking twice is fine")

	got, err := s.GetNotification(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.Equal(t, older.Message, got.Message)

	unread, err := s.ListNotifications(ctx, "pr1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, newer.ID, unread[0].ID)

	assert.ErrorIs(t, s.MarkNotificationRead(ctx, "missing"), domain.ErrNotFound)

	tooLong := &activity.Notification{Message: strings.Repeat("m", activity.MaxMessageLen+1), ReceiverID: "pr1"}
	assert.ErrorIs(t, s.CreateNotification(ctx, tooLong), domain.ErrValidation)

	exact := &activity.Notification{Message: strings.Repeat("m", activity.MaxMessageLen), ReceiverID: "pr1"}
	assert.NoError(t, s.CreateNotification(ctx, exact))
}

func testInvitations(t *testing.T, newStore Factory) {
	ctx := context.Background()
	clock := NewClock()
	s := newStore(t, clock)

	first := &invitation.Invitation{SenderID: "pr1", ReceiverID: "pr2", Target: projectRef}
	require.NoError(t, s.CreateInvitation(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.DateSent.Equal(clock.Now()))

	clock.Advance(time.Minute)
	second := &invitation.Invitation{SenderID: "pr1", ReceiverID: "pr2", Target: domain.Ref{Kind: domain.KindOrganization, ID: "o1"}}
	require.NoError(t, s.CreateInvitation(ctx, second))

	list, err := s.ListInvitations(ctx, "pr2", true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	clock.Advance(time.Minute)
	first.IsRead = true
	first.IsAccepted = true
	require.NoError(t, s.SaveInvitation(ctx, first))
	assert.True(t, first.DateSent.Equal(clock.Now()), "save refreshes DateSent")

	got, err := s.GetInvitation(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.True(t, got.IsAccepted)
	assert.Equal(t, "pr1", got.SenderID)
	assert.Equal(t, projectRef, got.Target)

	got.IsAccepted = false
	require.NoError(t, s.SaveInvitation(ctx, got))
	again, err := s.GetInvitation(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, again.IsAccepted, "acceptance is one-way")

	unread, err := s.ListInvitations(ctx, "pr2", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	all, err := s.ListInvitations(ctx, "pr2", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "re-saved invitation is newest")

	_, err = s.GetInvitation(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.SaveInvitation(ctx, &invitation.Invitation{ID: "missing"}), domain.ErrNotFound)
	assert.ErrorIs(t, s.CreateInvitation(ctx, &invitation.Invitation{Target: projectRef}), domain.ErrValidation)
}

func testDirectory(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock())

	alice := &workspace.User{ID: "u1", Username: "alice"}
	require.NoError(t, s.CreateUser(ctx, alice))
	assert.ErrorIs(t, s.CreateUser(ctx, &workspace.User{ID: "u1", Username: "again"}), domain.ErrConflict)

	generated := &workspace.User{Username: "bob"}
	require.NoError(t, s.CreateUser(ctx, generated))
	assert.NotEmpty(t, generated.ID)

	u, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, *alice, *u)

	profile := &workspace.Profile{ID: "pr1", UserID: "u1", DisplayName: "Alice A."}
	require.NoError(t, s.CreateProfile(ctx, profile))
	assert.ErrorIs(t, s.CreateProfile(ctx, &workspace.Profile{ID: "pr2", UserID: "u1", DisplayName: "x"}), domain.ErrConflict)

	p, err := s.ProfileByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, *profile, *p)

	_, err = s.ProfileByUser(ctx, generated.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	org := workspace.NewOrganization("o1", "Acme", "pr1")
	require.NoError(t, s.CreateOrganization(ctx, org))
	gotOrg, err := s.GetOrganization(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", gotOrg.Name)
	assert.Equal(t, []string{"pr1"}, gotOrg.Members())

	project := workspace.NewProject("p1", "o1", "Website")
	require.NoError(t, s.CreateProject(ctx, project))
	gotProject, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "o1", gotProject.OrganizationID)
	assert.Empty(t, gotProject.Members())

	task := &workspace.Task{ID: "t1", ProjectID: "p1", Title: "Fix login"}
	require.NoError(t, s.CreateTask(ctx, task))
	gotTask, err := s.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, *task, *gotTask)

	for name, get := range map[string]func() error{
		"user":         func() error { _, err := s.GetUser(ctx, "nope"); return err },
		"profile":      func() error { _, err := s.GetProfile(ctx, "nope"); return err },
		"organization": func() error { _, err := s.GetOrganization(ctx, "nope"); return err },
		"project":      func() error { _, err := s.GetProject(ctx, "nope"); return err },
		"task":         func() error { _, err := s.GetTask(ctx, "nope"); return err },
	} {
		assert.ErrorIs(t, get(), domain.ErrNotFound, name)
	}

	assert.ErrorIs(t, s.CreateTask(ctx, &workspace.Task{Title: "orphan"}), domain.ErrValidation)
}

func testMembership(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock())

	require.NoError(t, s.CreateProject(ctx, workspace.NewProject("p1", "", "Website", "pr1")))

	project, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, project.AddPerson("pr2"))
	assert.False(t, project.AddPerson("pr2"))
	require.NoError(t, s.SaveMembers(ctx, project))
	require.NoError(t, s.SaveMembers(ctx, project), "saving the same members twice is a no-op")

	stored, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pr1", "pr2"}, stored.Members())

	require.NoError(t, s.CreateOrganization(ctx, workspace.NewOrganization("o1", "Acme")))
	org, err := s.GetOrganization(ctx, "o1")
	require.NoError(t, err)
	org.AddPerson("pr3")
	require.NoError(t, s.SaveMembers(ctx, org))

	storedOrg, err := s.GetOrganization(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pr3"}, storedOrg.Members())

	assert.ErrorIs(t, s.SaveMembers(ctx, workspace.NewProject("ghost", "", "Ghost", "pr1")), domain.ErrNotFound)
}

func testTransactions(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock())

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.CreateUser(ctx, &workspace.User{ID: "rolled-back", Username: "ghost"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetUser(ctx, "rolled-back")
	assert.ErrorIs(t, err, domain.ErrNotFound, "failed transaction must not leave writes behind")

	err = s.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.CreateUser(ctx, &workspace.User{ID: "kept", Username: "carol"}); err != nil {
			return err
		}
		_, err := s.GetUser(ctx, "kept")
		return err
	})
	require.NoError(t, err)

	_, err = s.GetUser(ctx, "kept")
	assert.NoError(t, err)
}

func testRollbackKeepsOutsideWrites(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock())

	boom := errors.New("boom")
	started := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.CreateUser(ctx, &workspace.User{ID: "inside", Username: "ghost"}); err != nil {
				return err
			}
			close(started)
			<-release
			return boom
		})
	}()
	<-started

	n := &activity.Notification{Message: "alice has commented you on Fix login", ReceiverID: "pr1"}
	written := make(chan error, 1)
	go func() { written <- s.CreateNotification(ctx, n) }()

	select {
	case err := <-written:
		t.Fatalf("write outside the transaction finished while it was open: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.ErrorIs(t, <-txDone, boom)
	require.NoError(t, <-written)

	_, err := s.GetNotification(ctx, n.ID)
	assert.NoError(t, err, "rollback must not discard a write made outside the transaction")

	_, err = s.GetUser(ctx, "inside")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
