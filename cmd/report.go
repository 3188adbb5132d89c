package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/gitfeed/gitfeed/internal/eventlog"
	"github.com/gitfeed/gitfeed/internal/output"
	"github.com/urfave/cli/v2"
)

// ReportCmd creates the report command.
func ReportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render events from the log, optionally filtered by type and logged-time range",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-file",
				Aliases: []string{"l"},
				Usage:   "Event log file path",
			},
			&cli.StringFlag{
				Name:    "event-type",
				Aliases: []string{"t"},
				Usage:   "Filter by event type (branch_creation, commit, push)",
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "Only events logged at or after this time (RFC 3339 or YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "Only events logged at or before this time (RFC 3339 or YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (console, json, ci)",
				Value:   "console",
			},
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"n"},
				Usage:   "Maximum number of events to show",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to configuration file",
			},
		},
		Action: reportAction,
	}
}

func reportAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logFile := cfg.Monitor.LogFile
	if path := c.String("log-file"); path != "" {
		logFile = path
	}

	filter, err := buildFilter(c)
	if err != nil {
		return err
	}

	log := eventlog.New(logFile)
	events, err := log.ReadAll(filter)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no log file found at %s - have you run 'monitor' yet?", logFile)
		}
		return err
	}

	top := c.Int("top")
	if top == 0 {
		top = cfg.Report.MaxEvents
	}

	writer, err := output.NewEventReportWriter(getOutputFormat(c.String("format")))
	if err != nil {
		return err
	}
	return writer.Write(&output.EventReport{
		LogPath:     logFile,
		GeneratedAt: time.Now(),
		Filter:      filter,
		Events:      events,
	}, output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        top,
		OutputPath: c.String("output"),
	})
}

func buildFilter(c *cli.Context) (eventlog.Filter, error) {
	var filter eventlog.Filter

	if typ := c.String("event-type"); typ != "" {
		eventType := eventlog.EventType(typ)
		if !eventType.Valid() {
			return filter, fmt.Errorf("unknown event type %q (expected branch_creation, commit or push)", typ)
		}
		filter.Type = eventType
	}

	since, err := parseTimeFlag(c.String("since"))
	if err != nil {
		return filter, fmt.Errorf("invalid since time: %w", err)
	}
	until, err := parseTimeFlag(c.String("until"))
	if err != nil {
		return filter, fmt.Errorf("invalid until time: %w", err)
	}
	filter.Since = since
	filter.Until = until
	return filter, nil
}
