package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gitfeed/gitfeed/config"
	"github.com/gitfeed/gitfeed/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gitfeed",
		Usage:   "Activity feed for Git repositories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			MonitorCmd(),
			ReportCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
	}
}

// timeFlagLayouts are accepted by --since/--until, most specific first.
var timeFlagLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// parseTimeFlag parses a timestamp flag.
func parseTimeFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeFlagLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time format: %s (expected RFC 3339 or YYYY-MM-DD)", s)
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply filter overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}

	return cfg, nil
}

// setupLogging configures the process-wide slog level.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
