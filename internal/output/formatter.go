package output

import (
	"fmt"
	"time"

	"github.com/gitfeed/gitfeed/internal/eventlog"
)

// Compile-time interface conformance checks.
var (
	_ EventReportWriter = (*ConsoleEventWriter)(nil)
	_ EventReportWriter = (*JSONEventWriter)(nil)
	_ EventReportWriter = (*CIEventWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCI      OutputFormat = "ci"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
}

// EventReport holds the result of an event log read-back.
type EventReport struct {
	LogPath     string
	GeneratedAt time.Time
	Filter      eventlog.Filter
	Events      []eventlog.Event
}

// EventReportWriter writes event reports.
type EventReportWriter interface {
	Write(report *EventReport, options OutputOptions) error
}

// NewEventReportWriter creates a writer for the given format.
func NewEventReportWriter(format OutputFormat) (EventReportWriter, error) {
	switch format {
	case FormatConsole, "":
		return &ConsoleEventWriter{}, nil
	case FormatJSON:
		return &JSONEventWriter{}, nil
	case FormatCI:
		return &CIEventWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
