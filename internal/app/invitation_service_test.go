package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
)

func TestInvitationService_Invite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.invitations.Invite(ctx, f.aliceProf, f.project, f.bobProf)
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, f.aliceProf.ID, inv.SenderID)
	assert.Equal(t, f.bobProf.ID, inv.ReceiverID)
	assert.Equal(t, f.project.Ref(), inv.Target)
	assert.False(t, inv.IsRead)
	assert.False(t, inv.IsAccepted)
	assert.Equal(t, f.clock.Now(), inv.DateSent)

	msg, err := f.invitations.Message(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, "Alice has invited you to Website", msg)
}

func TestInvitationService_InviteValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.invitations.Invite(ctx, nil, f.project, f.bobProf)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.invitations.Invite(ctx, f.aliceProf, nil, f.bobProf)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var org *workspace.Organization
	_, err = f.invitations.Invite(ctx, f.aliceProf, org, f.bobProf)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestInvitationService_ActiveAndMarkRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	older, err := f.invitations.Invite(ctx, f.aliceProf, f.project, f.bobProf)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	newer, err := f.invitations.Invite(ctx, f.aliceProf, f.org, f.bobProf)
	require.NoError(t, err)

	active, err := f.invitations.Active(ctx, f.bobProf.ID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, newer.ID, active[0].ID, "newest first")

	read, err := f.invitations.MarkRead(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	active, err = f.invitations.Active(ctx, f.bobProf.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, newer.ID, active[0].ID)
}

func TestInvitationService_MessageWithDeletedTarget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.invitations.Invite(ctx, f.aliceProf, workspace.NewProject("gone", "", "Old"), f.bobProf)
	require.NoError(t, err)

	msg, err := f.invitations.Message(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, "Alice has invited you to [deleted]", msg)
}

func TestInvitationService_AddUserJoinsMembership(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  func(f *fixture) workspace.Membership
		members func(ctx context.Context, f *fixture) ([]string, error)
	}{
		{
			name:   "project",
			target: func(f *fixture) workspace.Membership { return f.project },
			members: func(ctx context.Context, f *fixture) ([]string, error) {
				p, err := f.store.GetProject(ctx, f.project.ID)
				if err != nil {
					return nil, err
				}
				return p.Members(), nil
			},
		},
		{
			name:   "organization",
			target: func(f *fixture) workspace.Membership { return f.org },
			members: func(ctx context.Context, f *fixture) ([]string, error) {
				o, err := f.store.GetOrganization(ctx, f.org.ID)
				if err != nil {
					return nil, err
				}
				return o.Members(), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			f := newFixture(t)

			inv, err := f.invitations.Invite(ctx, f.aliceProf, tt.target(f), f.bobProf)
			require.NoError(t, err)

			for range 2 {
				accepted, err := f.invitations.AddUser(ctx, inv.ID)
				require.NoError(t, err)
				assert.True(t, accepted.IsAccepted)
			}

			members, err := tt.members(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, []string{f.aliceProf.ID, f.bobProf.ID}, members, "accepting twice does not duplicate")

			stored, err := f.store.GetInvitation(ctx, inv.ID)
			require.NoError(t, err)
			assert.True(t, stored.IsAccepted)
		})
	}
}

func TestInvitationService_AddUserOtherKindIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.invitations.Invite(ctx, f.aliceProf, f.task, f.bobProf)
	require.NoError(t, err)

	got, err := f.invitations.AddUser(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAccepted)

	stored, err := f.store.GetInvitation(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAccepted)
	assert.Equal(t, inv.DateSent, stored.DateSent, "invitation is not re-saved")
}

func TestInvitationService_AddUserErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	noReceiver, err := f.invitations.Invite(ctx, f.aliceProf, f.project, nil)
	require.NoError(t, err)
	_, err = f.invitations.AddUser(ctx, noReceiver.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	dangling, err := f.invitations.Invite(ctx, f.aliceProf, workspace.NewProject("gone", "", "Old"), f.bobProf)
	require.NoError(t, err)
	_, err = f.invitations.AddUser(ctx, dangling.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.store.GetInvitation(ctx, dangling.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAccepted)

	_, err = f.invitations.AddUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
