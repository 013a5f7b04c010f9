package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yigitunlu/heroject/internal/platform/health"
)

func notifyCmd(c *cli) *cobra.Command {
	var receiverID string
	cmd := &cobra.Command{
		Use:   "notify ACTION_ID",
		Short: "Notify the followers of an action, or one receiver",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			a, err := s.Store.GetAction(ctx, args[0])
			if err != nil {
				return err
			}

			if receiverID == "" {
				result, err := s.Notifications.NotifyFollowers(ctx, a)
				if err != nil {
					return err
				}
				printFanout(out, result)
				return nil
			}

			receiver, err := s.Store.GetProfile(ctx, receiverID)
			if err != nil {
				return err
			}
			n, err := s.Notifications.CreateFromAction(ctx, a, receiver)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", n.ID, n.Message)
			return nil
		}),
	}
	cmd.Flags().StringVar(&receiverID, "receiver", "", "notify only this profile id")
	return cmd
}

func notificationsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "notifications", Short: "Read notifications"}
	cmd.AddCommand(notificationsListCmd(c), notificationsReadCmd(c))
	return cmd
}

func notificationsListCmd(c *cli) *cobra.Command {
	var (
		receiverID string
		unread     bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the notifications of a profile, newest first",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			list, err := s.Notifications.List(ctx, receiverID, unread)
			if err != nil {
				return err
			}
			printNotifications(out, list)

			count, err := s.Notifications.UnreadCount(ctx, receiverID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d unread\n", count)
			return nil
		}),
	}
	cmd.Flags().StringVar(&receiverID, "receiver", "", "receiving profile id")
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	_ = cmd.MarkFlagRequired("receiver")
	return cmd
}

func notificationsReadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "read NOTIFICATION_ID",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			n, err := s.Notifications.MarkRead(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  read=%t\n", n.ID, n.IsRead)
			return nil
		}),
	}
}

func inviteCmd(c *cli) *cobra.Command {
	var senderID, target, receiverID string
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invite a profile to join an entity",
		Example: `  heroject invite --sender p1 --target project:pr1 --receiver p2
  heroject invite --sender p1 --target organization:o1`,
		Args: cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			sender, err := s.Store.GetProfile(ctx, senderID)
			if err != nil {
				return err
			}
			tgt, err := resolveEntity(ctx, s, target)
			if err != nil {
				return err
			}
			inv, err := invite(ctx, s, sender, tgt, receiverID)
			if err != nil {
				return err
			}
			msg, err := s.Invitations.Message(ctx, inv)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", inv.ID, msg)
			return nil
		}),
	}
	cmd.Flags().StringVar(&senderID, "sender", "", "sending profile id")
	cmd.Flags().StringVar(&target, "target", "", "entity to join as kind:id")
	cmd.Flags().StringVar(&receiverID, "receiver", "", "receiving profile id (empty for an unregistered invitee)")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func invitationsCmd(c *cli) *cobra.Command {
	var receiverID string
	cmd := &cobra.Command{
		Use:   "invitations",
		Short: "List the unread invitations of a profile",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			list, err := s.Invitations.Active(ctx, receiverID)
			if err != nil {
				return err
			}
			return printInvitations(ctx, out, list, s.Invitations.Message)
		}),
	}
	cmd.Flags().StringVar(&receiverID, "receiver", "", "receiving profile id")
	_ = cmd.MarkFlagRequired("receiver")
	cmd.AddCommand(invitationsReadCmd(c))
	return cmd
}

func invitationsReadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "read INVITATION_ID",
		Short: "Mark an invitation as read",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			inv, err := s.Invitations.MarkRead(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  read=%t\n", inv.ID, inv.IsRead)
			return nil
		}),
	}
}

func acceptCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "accept INVITATION_ID",
		Short: "Accept an invitation, adding the receiver to its target",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			inv, err := s.Invitations.AddUser(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  accepted=%t\n", inv.ID, inv.IsAccepted)
			return nil
		}),
	}
}

func healthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the store and the entity resolvers",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			results := s.Health.CheckAll(ctx)
			printHealth(out, results, health.Names(results))
			return s.Health.Ready(ctx)
		}),
	}
}
