package output

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/gitfeed/gitfeed/internal/eventlog"
)

// ConsoleEventWriter writes event reports to the console.
type ConsoleEventWriter struct{}

// Write outputs the event report to the console.
func (w *ConsoleEventWriter) Write(report *EventReport, options OutputOptions) error {
	events := limitTop(report.Events, options.Top)

	color.Green("Repository Activity Report")
	fmt.Printf("Log: %s\n", report.LogPath)
	if report.Filter.Type != "" {
		fmt.Printf("Event type: %s\n", report.Filter.Type)
	}
	if report.Filter.Since != nil || report.Filter.Until != nil {
		fmt.Printf("Logged: %s\n", timeRangeLabel(report.Filter))
	}
	fmt.Printf("Total events: %d\n\n", len(report.Events))

	if len(events) == 0 {
		fmt.Println("No matching events.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLogged At\tType\tBranch\tDeveloper\tDetails")
	for i, ev := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			time.Unix(ev.LoggedAt, 0).Format(reportTimeLayout),
			ev.Type,
			ev.Branch,
			orDash(ev.Developer),
			eventDetails(ev),
		)
	}
	return tw.Flush()
}

func eventDetails(ev eventlog.Event) string {
	switch ev.Type {
	case eventlog.TypeCommit:
		detail := shortHash(ev.CommitHash) + " " + ev.CommitMessage
		if len(ev.FilesChanged) > 0 {
			detail += fmt.Sprintf(" (%d files)", len(ev.FilesChanged))
		}
		return detail
	default:
		return "-"
	}
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func timeRangeLabel(filter eventlog.Filter) string {
	var b strings.Builder
	if filter.Since != nil {
		b.WriteString(filter.Since.Format(reportTimeLayout))
	} else {
		b.WriteString("start")
	}
	b.WriteString(" to ")
	if filter.Until != nil {
		b.WriteString(filter.Until.Format(reportTimeLayout))
	} else {
		b.WriteString("now")
	}
	return b.String()
}
