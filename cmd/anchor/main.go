package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timeanchor/internal/bootstrap"
	"timeanchor/internal/modules/session/domain"
	"timeanchor/internal/platform/config"
)

type rootOptions struct {
	dataPath    string
	accelerated bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "anchor",
		Short:         "Time Anchor screen-time coach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataPath, "data", ".", "data directory (snapshot, journal, log)")
	root.PersistentFlags().BoolVar(&opts.accelerated, "accelerated", false, "run simulated time at one minute per 100ms")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newAchievementsCmd(opts))
	root.AddCommand(newLeaderboardCmd(opts))
	root.AddCommand(newLimitCmd(opts))
	root.AddCommand(newResetCmd(opts))
	root.AddCommand(newSimulateCmd(opts))
	return root
}

func loadApp(cmd *cobra.Command, opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.New(opts.dataPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("accelerated") {
		cfg.Accelerated = opts.accelerated
	}
	return bootstrap.New(cfg)
}

// withApp loads the app, runs fn and always closes the app so the last
// snapshot is flushed before the process exits.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(app *bootstrap.App) error) (err error) {
	app, err := loadApp(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(app)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(app, cmd.OutOrStdout())
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's usage, points and streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Status(context.Background())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "day=%s profile=%s\n", out.Day, out.Profile)
				_, _ = fmt.Fprintf(w, "screen_time=%.1fmin limit=%dmin remaining=%.1fmin\n", out.Today.ScreenTimeMinutes, out.DailyLimitMinutes, out.RemainingMinutes)
				_, _ = fmt.Fprintf(w, "points=%d streak=%d weekly_saved=%dmin snoozes_left=%d\n", out.Points, out.Streak, out.WeeklySavings, out.SnoozesLeft)
				_, _ = fmt.Fprintf(w, "nudges accepted=%d snoozed=%d\n", out.Today.NudgesAccepted, out.Today.NudgesSnoozed)
				_, _ = fmt.Fprintf(w, "session category=%s autoplay=%t boredom=%d\n", out.Session.Category, out.Session.Autoplay, out.Session.Boredom)
				if out.Nudge.Active {
					_, _ = fmt.Fprintf(w, "pending nudge: %s (%s)\n", out.Nudge.Kind, out.Nudge.Message)
				}
				return nil
			})
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the trailing seven days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.History(context.Background())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, e := range out.Entries {
					mark := "over"
					if e.UnderLimit {
						mark = "under"
					}
					today := ""
					if e.Today {
						today = " (today)"
					}
					_, _ = fmt.Fprintf(w, "%s\t%6.1fmin\t%s%s\n", e.Date, e.ScreenTimeMinutes, mark, today)
				}
				_, _ = fmt.Fprintf(w, "limit=%dmin streak=%d weekly_saved=%dmin\n", out.DailyLimitMinutes, out.Streak, out.WeeklySavings)
				return nil
			})
		},
	}
}

func newAchievementsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Achievements(context.Background())
				if err != nil {
					return err
				}
				for _, a := range out {
					state := "locked"
					if a.Unlocked {
						state = "unlocked"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %-8s %s\n", a.Icon, a.Name, state, a.Description)
				}
				return nil
			})
		},
	}
}

func newLeaderboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show friends ranked by minutes saved",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Leaderboard(context.Background())
				if err != nil {
					return err
				}
				for _, p := range out {
					marker := " "
					if p.IsUser {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%d. %-14s saved=%dmin streak=%d\n", marker, p.Rank, p.Name, p.SavedMinutes, p.Streak)
				}
				return nil
			})
		},
	}
}

func newLimitCmd(opts *rootOptions) *cobra.Command {
	limit := &cobra.Command{Use: "limit", Short: "Daily limit commands"}
	limit.AddCommand(&cobra.Command{
		Use:   "set <minutes>",
		Short: fmt.Sprintf("Set the daily limit (%d-%d minutes)", domain.MinDailyLimit, domain.MaxDailyLimit),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("minutes must be an integer: %w", err)
			}
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.SetLimit(context.Background(), minutes)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "daily limit set to %dmin (remaining today %.1fmin)\n", out.DailyLimitMinutes, out.RemainingMinutes)
				return nil
			})
		},
	})
	return limit
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all stored progress and start from defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset discards all progress; pass --yes to confirm")
			}
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Reset(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reset: points=%d streak=%d limit=%dmin\n", out.Points, out.Streak, out.DailyLimitMinutes)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm reset")
	return cmd
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		category, intention, resolution string
		autoplay                        bool
		boredom                         int
		timeout                         time.Duration
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an accelerated session until the first nudge and answer it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				out, err := app.SessionCLI.Simulate(ctx, category, autoplay, boredom, intention, resolution)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "nudge: %s after %.1fmin (today %.1fmin)\n", out.Nudge.Kind, out.SessionMinutes, out.TodayMinutes)
				_, _ = fmt.Fprintf(w, "  %s\n", out.Nudge.Message)
				_, _ = fmt.Fprintf(w, "resolved: %s points=%d snoozes_left=%d\n", out.Resolve.Resolution, out.Resolve.Points, out.Resolve.SnoozesLeft)
				if out.Resolve.BreakSecondsLeft > 0 {
					_, _ = fmt.Fprintf(w, "mindful break: %ds\n", out.Resolve.BreakSecondsLeft)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "social|video|news|messaging|work (default: saved)")
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "autoplay on")
	cmd.Flags().IntVar(&boredom, "boredom", -1, "boredom 0-100 (default: saved)")
	cmd.Flags().StringVar(&intention, "intention", "", "why you picked up the phone")
	cmd.Flags().StringVar(&resolution, "resolve", "accept", "accept|snooze|break")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up when no nudge arrives in time")
	return cmd
}
