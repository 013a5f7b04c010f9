package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/ports"
)

// resolveEntity parses a "kind:id" argument and resolves the live entity.
func resolveEntity(ctx context.Context, s *services, raw string) (domain.Entity, error) {
	ref, err := domain.ParseRef(raw)
	if err != nil {
		return nil, err
	}
	if ref.IsZero() {
		return nil, domain.NewValidationError("ref", domain.MsgRequired)
	}
	return s.Resolver.Resolve(ctx, ref)
}

func parseRef(raw string) (domain.Ref, error) {
	ref, err := domain.ParseRef(raw)
	if err != nil {
		return domain.Ref{}, err
	}
	if ref.IsZero() {
		return domain.Ref{}, domain.NewValidationError("ref", domain.MsgRequired)
	}
	return ref, nil
}

func catalogCmd(c *cli) *cobra.Command {
	cat := &cobra.Command{Use: "catalog", Short: "Manage the action type catalog"}
	cat.AddCommand(catalogSeedCmd(c), catalogDefineCmd(c), catalogUpdateCmd(c), catalogListCmd(c))
	return cat
}

func catalogSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Define the default action types that are missing",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			added, err := s.Catalog.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "added %d action types\n", added)
			return nil
		}),
	}
}

func catalogDefineCmd(c *cli) *cobra.Command {
	var t activity.ActionType
	cmd := &cobra.Command{
		Use:   "define",
		Short: "Add an action type",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			created, err := s.Catalog.Define(ctx, &t)
			if err != nil {
				return err
			}
			printActionTypes(out, []activity.ActionType{*created})
			return nil
		}),
	}
	actionTypeFlags(cmd, &t)
	return cmd
}

func catalogUpdateCmd(c *cli) *cobra.Command {
	var t activity.ActionType
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the verb and preposition of an action type",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			updated, err := s.Catalog.Update(ctx, &t)
			if err != nil {
				return err
			}
			printActionTypes(out, []activity.ActionType{*updated})
			return nil
		}),
	}
	actionTypeFlags(cmd, &t)
	return cmd
}

func actionTypeFlags(cmd *cobra.Command, t *activity.ActionType) {
	cmd.Flags().StringVar(&t.Name, "name", "", "catalog key, e.g. comment")
	cmd.Flags().StringVar(&t.Verb, "verb", "", "past-tense verb, e.g. commented")
	cmd.Flags().StringVar(&t.Preposition, "preposition", "", "optional preposition, e.g. on")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("verb")
}

func catalogListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List action types",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			types, err := s.Catalog.List(ctx)
			if err != nil {
				return err
			}
			printActionTypes(out, types)
			return nil
		}),
	}
}

func directoryCmd(c *cli) *cobra.Command {
	dir := &cobra.Command{Use: "directory", Short: "Manage users, profiles and workspace entities"}
	dir.AddCommand(addUserCmd(c), addProfileCmd(c), addOrgCmd(c), addProjectCmd(c), addTaskCmd(c))
	return dir
}

func addUserCmd(c *cli) *cobra.Command {
	var u workspace.User
	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			if err := s.Store.CreateUser(ctx, &u); err != nil {
				return err
			}
			printRef(out, "created", u.Ref())
			return nil
		}),
	}
	cmd.Flags().StringVar(&u.ID, "id", "", "user id (generated when empty)")
	cmd.Flags().StringVar(&u.Username, "username", "", "username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func addProfileCmd(c *cli) *cobra.Command {
	var p workspace.Profile
	cmd := &cobra.Command{
		Use:   "add-profile",
		Short: "Add the profile of a user",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			if _, err := s.Store.GetUser(ctx, p.UserID); err != nil {
				return err
			}
			if err := s.Store.CreateProfile(ctx, &p); err != nil {
				return err
			}
			printRef(out, "created", p.Ref())
			return nil
		}),
	}
	cmd.Flags().StringVar(&p.ID, "id", "", "profile id (generated when empty)")
	cmd.Flags().StringVar(&p.UserID, "user", "", "owning user id")
	cmd.Flags().StringVar(&p.DisplayName, "name", "", "display name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func addOrgCmd(c *cli) *cobra.Command {
	var (
		id, name string
		members  []string
	)
	cmd := &cobra.Command{
		Use:   "add-org",
		Short: "Add an organization",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			o := workspace.NewOrganization(id, name, members...)
			if err := s.Store.CreateOrganization(ctx, o); err != nil {
				return err
			}
			printRef(out, "created", o.Ref())
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "organization id (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "organization name")
	cmd.Flags().StringSliceVar(&members, "member", nil, "member profile id (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func addProjectCmd(c *cli) *cobra.Command {
	var (
		id, orgID, name string
		members         []string
	)
	cmd := &cobra.Command{
		Use:   "add-project",
		Short: "Add a project",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			p := workspace.NewProject(id, orgID, name, members...)
			if err := s.Store.CreateProject(ctx, p); err != nil {
				return err
			}
			printRef(out, "created", p.Ref())
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "project id (generated when empty)")
	cmd.Flags().StringVar(&orgID, "org", "", "owning organization id")
	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringSliceVar(&members, "member", nil, "member profile id (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func addTaskCmd(c *cli) *cobra.Command {
	var t workspace.Task
	cmd := &cobra.Command{
		Use:   "add-task",
		Short: "Add a task to a project",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			if err := s.Store.CreateTask(ctx, &t); err != nil {
				return err
			}
			printRef(out, "created", t.Ref())
			return nil
		}),
	}
	cmd.Flags().StringVar(&t.ID, "id", "", "task id (generated when empty)")
	cmd.Flags().StringVar(&t.ProjectID, "project", "", "project id")
	cmd.Flags().StringVar(&t.Title, "title", "", "task title")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func recordCmd(c *cli) *cobra.Command {
	var (
		userID, object, typeKey, target, ip string
		notify                              bool
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an action",
		Example: `  heroject record --user u1 --type comment --object task:t1
  heroject record --user u1 --type assign --object user:u2 --target task:t1 --notify`,
		Args: cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, _ []string) error {
			var user *workspace.User
			if userID != "" {
				u, err := s.Store.GetUser(ctx, userID)
				if err != nil {
					return err
				}
				user = u
			}
			obj, err := resolveEntity(ctx, s, object)
			if err != nil {
				return err
			}
			var tgt domain.Entity
			if target != "" {
				if tgt, err = resolveEntity(ctx, s, target); err != nil {
					return err
				}
			}

			var opts []ports.RecordOption
			if ip != "" {
				opts = append(opts, ports.WithIPAddress(ip))
			}
			a, err := s.Activity.Record(ctx, user, obj, typeKey, tgt, opts...)
			if err != nil {
				return err
			}
			msg, err := s.Activity.RenderMessage(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", a.ID, msg)

			if !notify {
				return nil
			}
			result, err := s.Notifications.NotifyFollowers(ctx, a)
			if err != nil {
				return err
			}
			printFanout(out, result)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "acting user id (empty for an anonymous action)")
	cmd.Flags().StringVar(&object, "object", "", "object as kind:id")
	cmd.Flags().StringVar(&typeKey, "type", "", "action type name")
	cmd.Flags().StringVar(&target, "target", "", "optional target as kind:id")
	cmd.Flags().StringVar(&ip, "ip", "", "client IP address")
	cmd.Flags().BoolVar(&notify, "notify", false, "notify followers of the followed entity")
	_ = cmd.MarkFlagRequired("object")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func touchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "touch ACTION_ID",
		Short: "Re-save an action, refreshing its time",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			a, err := s.Activity.Touch(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", a.ID, a.ActionTime.Format(timeFormat))
			return nil
		}),
	}
}

func feedCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "feed KIND:ID",
		Short: "Show the newest actions involving an entity",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			items, err := s.Activity.Feed(ctx, ref, limit)
			if err != nil {
				return err
			}
			printFeed(out, items)
			return nil
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of actions (0 for all)")
	return cmd
}

func detachUserCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "detach-user USER_ID",
		Short: "Remove a user from every action they recorded",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			n, err := s.Activity.DetachUser(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "detached %d actions\n", n)
			return nil
		}),
	}
}

func followCmd(c *cli) *cobra.Command {
	var (
		userID string
		once   bool
	)
	cmd := &cobra.Command{
		Use:   "follow KIND:ID",
		Short: "Follow an entity",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			user, err := s.Store.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			entity, err := resolveEntity(ctx, s, args[0])
			if err != nil {
				return err
			}

			follow := s.Follows.Follow
			if once {
				follow = s.Follows.FollowOnce
			}
			f, err := follow(ctx, user, entity)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s follows %s\n", f.ID, user.Username, f.Object)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "following user id")
	cmd.Flags().BoolVar(&once, "once", true, "reuse an existing active follow")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func unfollowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow FOLLOW_ID",
		Short: "Deactivate a follow",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			f, err := s.Follows.Unfollow(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  active=%t\n", f.ID, f.IsActive)
			return nil
		}),
	}
}

func followersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "followers KIND:ID",
		Short: "List the active followers of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: c.action(func(ctx context.Context, s *services, out io.Writer, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			users, err := s.Follows.ActiveFollowers(ctx, ref)
			if err != nil {
				return err
			}
			printUsers(out, users)
			return nil
		}),
	}
}
