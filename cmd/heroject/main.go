// Package main is the heroject operator CLI. Every command loads the layered
// configuration, wires the dependency graph with samber/do v2 and runs one
// use case against the configured store.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yigitunlu/heroject/internal/platform/logging"
)

const (
	defaultProfile      = "local"
	defaultConfigDir    = "configs"
	otelShutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// cli carries the global flags to every command.
type cli struct {
	profile   string
	configDir string
	logOut    io.Writer
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	c := &cli{logOut: logOut}

	root := &cobra.Command{
		Use:   "heroject",
		Short: "Activity feed, notifications and invitations",
		Long: `heroject records what people do in a workspace and tells the people who care.

- Catalog: action types such as "comment" (commented on) that actions refer to.
- Directory: users, profiles, organizations, projects and tasks.
- Actions: "alice has commented on Fix login", listed per entity with feed.
- Follows: who wants to hear about an entity; notify fans an action out to them.
- Invitations: ask a profile to join a project or an organization; accept adds them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = defaultProfile
	}
	root.PersistentFlags().StringVar(&c.profile, "profile", profile, "configuration profile (env APP_PROFILE)")
	root.PersistentFlags().StringVar(&c.configDir, "config-dir", defaultConfigDir, "directory holding base.yaml and profile files")

	root.AddCommand(
		catalogCmd(c),
		directoryCmd(c),
		recordCmd(c),
		touchCmd(c),
		feedCmd(c),
		detachUserCmd(c),
		followCmd(c),
		unfollowCmd(c),
		followersCmd(c),
		notifyCmd(c),
		notificationsCmd(c),
		inviteCmd(c),
		invitationsCmd(c),
		acceptCmd(c),
		healthCmd(c),
		walkthroughCmd(c),
	)
	return root
}

// action adapts a use case to a cobra RunE: it bootstraps the runtime, runs
// fn and shuts everything down again.
func (c *cli) action(fn func(ctx context.Context, s *services, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx, c.profile, c.configDir, c.logOut)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), otelShutdownTimeout)
			defer cancel()
			if serr := rt.shutdown(shutdownCtx); serr != nil {
				rt.logger.Error("shutdown error", slog.Any("error", serr))
			}
		}()

		svc, err := rt.services()
		if err != nil {
			return err
		}

		logger := rt.logger.With(slog.String("command", cmd.CommandPath()))
		ctx = logging.WithLogger(ctx, logger)
		logger.DebugContext(ctx, "running command",
			slog.String("profile", c.profile),
			slog.String("store", rt.cfg.Store.Driver),
		)
		return fn(ctx, svc, cmd.OutOrStdout(), args)
	}
}
