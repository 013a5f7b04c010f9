package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/platform/logging"
)

// invite sends an invitation, loading the receiver profile when one is named.
func invite(
	ctx context.Context,
	s *services,
	sender *workspace.Profile,
	target domain.Entity,
	receiverID string,
) (*invitation.Invitation, error) {
	var receiver *workspace.Profile
	if receiverID != "" {
		p, err := s.Store.GetProfile(ctx, receiverID)
		if err != nil {
			return nil, err
		}
		receiver = p
	}
	return s.Invitations.Invite(ctx, sender, target, receiver)
}

func walkthroughCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "walkthrough",
		Short: "Run a short scripted scenario against the configured store",
		Long: `walkthrough creates two people and a small workspace, then exercises the
whole flow: bob follows a task, alice comments on it and bob is notified,
alice invites bob to the project and bob accepts. Every entity gets a fresh
id, so the scenario can be repeated against a persistent store.`,
		Args: cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			return walkthrough(ctx, s, out)
		}),
	}
}

func walkthrough(ctx context.Context, s *services, out io.Writer) error {
	logger := logging.FromContext(ctx)
	step := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		logger.DebugContext(ctx, "walkthrough step", slog.String("step", line))
		fmt.Fprintln(out, "==> "+line)
	}

	added, err := s.Catalog.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	step("catalog seeded (%d new action types)", added)

	alice, aliceProfile, err := addPerson(ctx, s, "alice", "Alice")
	if err != nil {
		return err
	}
	bob, bobProfile, err := addPerson(ctx, s, "bob", "Bob")
	if err != nil {
		return err
	}
	step("people: %s (%s), %s (%s)", alice.Username, aliceProfile.ID, bob.Username, bobProfile.ID)

	org := workspace.NewOrganization("", "Acme", aliceProfile.ID)
	if err := s.Store.CreateOrganization(ctx, org); err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	project := workspace.NewProject("", org.ID, "Website", aliceProfile.ID)
	if err := s.Store.CreateProject(ctx, project); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	task := &workspace.Task{ProjectID: project.ID, Title: "Fix login"}
	if err := s.Store.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	step("workspace: %s / %s / %s", org.Ref(), project.Ref(), task.Ref())

	follow, err := s.Follows.FollowOnce(ctx, bob, task)
	if err != nil {
		return fmt.Errorf("following task: %w", err)
	}
	step("bob follows %s (%s)", follow.Object, follow.ID)

	comment, err := s.Activity.Record(ctx, alice, task, "comment", nil)
	if err != nil {
		return fmt.Errorf("recording comment: %w", err)
	}
	msg, err := s.Activity.RenderMessage(ctx, comment)
	if err != nil {
		return err
	}
	step("recorded: %s", msg)

	result, err := s.Notifications.NotifyFollowers(ctx, comment)
	if err != nil {
		return fmt.Errorf("notifying followers: %w", err)
	}
	step("followers notified")
	printFanout(out, result)

	inbox, err := s.Notifications.List(ctx, bobProfile.ID, true)
	if err != nil {
		return err
	}
	step("bob's unread notifications")
	printNotifications(out, inbox)

	inv, err := s.Invitations.Invite(ctx, aliceProfile, project, bobProfile)
	if err != nil {
		return fmt.Errorf("inviting bob: %w", err)
	}
	if msg, err = s.Invitations.Message(ctx, inv); err != nil {
		return err
	}
	step("invitation %s: %s", inv.ID, msg)

	if inv, err = s.Invitations.AddUser(ctx, inv.ID); err != nil {
		return fmt.Errorf("accepting invitation: %w", err)
	}
	joined, err := s.Store.GetProject(ctx, project.ID)
	if err != nil {
		return err
	}
	step("accepted=%t, project members: %v", inv.IsAccepted, joined.Members())

	feed, err := s.Activity.Feed(ctx, task.Ref(), 10)
	if err != nil {
		return err
	}
	step("feed of %s", task.Ref())
	printFeed(out, feed)
	return nil
}

func addPerson(ctx context.Context, s *services, username, name string) (*workspace.User, *workspace.Profile, error) {
	u := &workspace.User{Username: username}
	if err := s.Store.CreateUser(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("creating user %s: %w", username, err)
	}
	p := &workspace.Profile{UserID: u.ID, DisplayName: name}
	if err := s.Store.CreateProfile(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("creating profile for %s: %w", username, err)
	}
	return u, p, nil
}
