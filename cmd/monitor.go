package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gitfeed/gitfeed/internal/eventlog"
	gitpkg "github.com/gitfeed/gitfeed/internal/git"
	"github.com/gitfeed/gitfeed/internal/monitor"
	"github.com/urfave/cli/v2"
)

// MonitorCmd creates the monitor command.
func MonitorCmd() *cli.Command {
	return &cli.Command{
		Name:      "monitor",
		Usage:     "Poll a Git repository and append detected activity to the event log",
		ArgsUsage: "[repository path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path to Git repository",
				Value:   ".",
			},
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Polling interval in seconds",
			},
			&cli.StringFlag{
				Name:  "remote",
				Usage: "Remote compared against for push detection",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Aliases: []string{"l"},
				Usage:   "Event log file path",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Also watch .git refs and tick early on changes",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Glob patterns for changed files to include (can be specified multiple times)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob patterns for changed files to exclude (can be specified multiple times)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to configuration file",
			},
		},
		Action: monitorAction,
	}
}

func monitorAction(c *cli.Context) error {
	setupLogging(c.Bool("verbose"))

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if c.IsSet("interval") {
		cfg.Monitor.IntervalSeconds = c.Int("interval")
	}
	if remote := c.String("remote"); remote != "" {
		cfg.Monitor.Remote = remote
	}
	if logFile := c.String("log-file"); logFile != "" {
		cfg.Monitor.LogFile = logFile
	}
	if c.Bool("watch") {
		cfg.Monitor.WatchRefs = true
	}
	if cfg.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("polling interval must be positive, got %d", cfg.Monitor.IntervalSeconds)
	}

	repoPath := c.String("repo")
	if c.NArg() > 0 {
		repoPath = c.Args().Get(0)
	}

	// Opening the repository is the startup validation: an invalid path is
	// fatal before any monitoring begins.
	view, err := gitpkg.Open(gitpkg.ViewOptions{
		RepoPath: repoPath,
		Include:  cfg.Filters.Include,
		Exclude:  cfg.Filters.Exclude,
	})
	if err != nil {
		return fmt.Errorf("not a valid Git repository: %w", err)
	}

	log := eventlog.New(cfg.Monitor.LogFile)
	defer log.Close()

	opts := monitor.Options{
		Interval:     time.Duration(cfg.Monitor.IntervalSeconds) * time.Second,
		Remote:       cfg.Monitor.Remote,
		QueryTimeout: time.Duration(cfg.Monitor.QueryTimeoutSeconds) * time.Second,
	}

	if cfg.Monitor.WatchRefs {
		watcher, err := monitor.NewRefWatcher(repoPath, slog.Default())
		if err != nil {
			slog.Warn("ref watching disabled", slog.Any("error", err))
		} else {
			defer watcher.Close()
			opts.Wake = watcher.Nudge()
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := monitor.NewScheduler(view, log, opts, slog.Default())
	if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
