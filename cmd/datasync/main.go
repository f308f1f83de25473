// datasync is the operational CLI. Every command maps to one sync
// operation so operators and cron jobs can run them ad hoc without
// going through the task queue.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoopsync/nba-data-sync/internal/app"
	"github.com/hoopsync/nba-data-sync/internal/config"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
	"github.com/hoopsync/nba-data-sync/internal/usecase"
)

const dateLayout = "2006-01-02"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
		os.Exit(0)
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cli carries the wired app between PersistentPreRunE and the subcommand.
type cli struct {
	app    *app.App
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "datasync",
		Short:         "NBA data synchronization tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotenv()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			a, err := app.New(cfg, c.logger)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if c.app == nil {
				return nil
			}
			err := c.app.Close()
			c.logger.Sync()
			return err
		},
	}

	root.AddCommand(
		c.syncTeamsCmd(),
		c.syncPlayersCmd(),
		c.syncGamesCmd(),
		c.syncStatsCmd(),
		c.syncStandingsCmd(),
		c.syncSeasonCmd(),
		c.syncShotsCmd(),
		c.auditCmd(),
		c.backfillCmd(),
		c.wrapUpCmd(),
	)
	return root
}

func (c *cli) syncTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-teams",
		Short: "Sync all league teams",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app.Teams.SyncTeams(cmd.Context())
			return report(cmd, result, err)
		},
	}
}

func (c *cli) syncPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-players",
		Short: "Sync rosters for every stored team",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app.Players.SyncPlayers(cmd.Context())
			return report(cmd, result, err)
		},
	}
}

func (c *cli) syncGamesCmd() *cobra.Command {
	var (
		gameID    string
		date      string
		startDate string
		endDate   string
		withStats bool
	)
	cmd := &cobra.Command{
		Use:   "sync-games",
		Short: "Sync games for yesterday and today, a single game, a date, or a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			switch {
			case gameID != "":
				change, err := c.app.Games.SyncSingleGame(ctx, gameID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "game %s: %s -> %s\n", change.GameID, change.OldStatus, change.NewStatus)
				return nil
			case date != "":
				day, err := time.Parse(dateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				result, err := c.app.Games.SyncGamesForDate(ctx, day, withStats)
				return report(cmd, result, err)
			case startDate != "" || endDate != "":
				start, end, err := parseRange(startDate, endDate)
				if err != nil {
					return err
				}
				total := &usecase.Result{Skipped: map[string]int{}}
				for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
					result, err := c.app.Games.SyncGamesForDate(ctx, day, withStats)
					if err != nil {
						return err
					}
					total.Synced += result.Synced
					total.Failed += result.Failed
					for reason, n := range result.Skipped {
						total.Skipped[reason] += n
					}
				}
				return report(cmd, total, nil)
			default:
				result, err := c.app.Games.SyncGames(ctx, withStats)
				return report(cmd, result, err)
			}
		},
	}
	cmd.Flags().StringVar(&gameID, "game-id", "", "sync a single game by provider id")
	cmd.Flags().StringVar(&date, "date", "", "sync one date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "range end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&withStats, "with-stats", false, "also sync player stats for finished games")
	return cmd
}

func (c *cli) syncStatsCmd() *cobra.Command {
	var (
		gameID   string
		advanced bool
	)
	cmd := &cobra.Command{
		Use:   "sync-stats",
		Short: "Sync player box score stats for one game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if gameID == "" {
				return fmt.Errorf("--game-id is required")
			}
			if advanced {
				result, err := c.app.Advanced.SyncGameAdvancedStats(cmd.Context(), gameID)
				return report(cmd, result, err)
			}
			result, err := c.app.GameStats.SyncGameStats(cmd.Context(), gameID)
			return report(cmd, result, err)
		},
	}
	cmd.Flags().StringVar(&gameID, "game-id", "", "provider game id")
	cmd.Flags().BoolVar(&advanced, "advanced", false, "sync advanced metrics instead of the traditional box score")
	return cmd
}

func (c *cli) syncStandingsCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "sync-standings",
		Short: "Sync league standings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app.Standings.SyncStandings(cmd.Context(), season)
			return report(cmd, result, err)
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "season like 2025-26 (default: current)")
	return cmd
}

func (c *cli) syncSeasonCmd() *cobra.Command {
	var (
		season   string
		advanced bool
	)
	cmd := &cobra.Command{
		Use:   "sync-season",
		Short: "Sync season aggregate stats for all players",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if advanced {
				result, err := c.app.Advanced.SyncSeasonAdvancedStats(cmd.Context(), season, true, true)
				return report(cmd, result, err)
			}
			result, err := c.app.Season.SyncSeasonStats(cmd.Context(), season)
			return report(cmd, result, err)
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "season like 2025-26 (default: current)")
	cmd.Flags().BoolVar(&advanced, "advanced", false, "sync advanced season metrics for players and teams")
	return cmd
}

func (c *cli) syncShotsCmd() *cobra.Command {
	var gameID string
	cmd := &cobra.Command{
		Use:   "sync-shots",
		Short: "Sync shot chart detail for one game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if gameID == "" {
				return fmt.Errorf("--game-id is required")
			}
			result, err := c.app.Shots.SyncShotsForGame(cmd.Context(), gameID)
			return report(cmd, result, err)
		},
	}
	cmd.Flags().StringVar(&gameID, "game-id", "", "provider game id")
	return cmd
}

func (c *cli) auditCmd() *cobra.Command {
	var autoFix bool
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check stored games for status and stats inconsistencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportOut, err := c.app.Audit.RunAudit(cmd.Context(), autoFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "findings: %d\n", reportOut.Total())
			fmt.Fprintf(out, "  past still scheduled:      %d\n", len(reportOut.PastStillScheduled))
			fmt.Fprintf(out, "  final missing scores:      %d\n", len(reportOut.FinalMissingScores))
			fmt.Fprintf(out, "  final without player stats: %d\n", len(reportOut.FinalWithoutStats))
			if autoFix {
				fmt.Fprintf(out, "fixed dates: %d, fix errors: %d\n", len(reportOut.FixedDates), reportOut.FixErrors)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&autoFix, "auto-fix", false, "re-sync the dates behind the findings")
	return cmd
}

func (c *cli) backfillCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		withStats bool
	)
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Backfill a historical date range with checkpoint resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := parseRange(startDate, endDate)
			if err != nil {
				return err
			}
			result, err := c.app.Backfill.Backfill(cmd.Context(), start, end, withStats)
			return report(cmd, result, err)
		},
	}
	cmd.Flags().StringVar(&startDate, "start-date", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "range end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&withStats, "with-stats", true, "also backfill player stats for finished games")
	return cmd
}

func (c *cli) wrapUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wrapup",
		Short: "Run the daily wrap-up (games, standings, season stats, advanced)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app.WrapUp.DailyWrapUp(cmd.Context(), usecase.WrapUpOptions{})
			return report(cmd, result, err)
		},
	}
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--start-date and --end-date are both required")
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start-date: %w", err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end-date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end-date is before --start-date")
	}
	return start, end, nil
}

func report(cmd *cobra.Command, result *usecase.Result, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "synced=%d skipped=%d failed=%d\n",
		result.Synced, result.SkippedTotal(), result.Failed)
	if result.Failed > 0 {
		return fmt.Errorf("%d row(s) failed", result.Failed)
	}
	return nil
}
