package output

import (
	"github.com/gitfeed/gitfeed/internal/eventlog"
)

// CIEventWriter writes event reports as NDJSON (one JSON object per line)
// for pipelines. The first line is a summary, followed by one line per event
// in emission order.
type CIEventWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type            string `json:"type"`
	TotalEvents     int    `json:"totalEvents"`
	BranchCreations int    `json:"branchCreations"`
	Commits         int    `json:"commits"`
	Pushes          int    `json:"pushes"`
}

// Write outputs the event report as NDJSON.
func (w *CIEventWriter) Write(report *EventReport, options OutputOptions) error {
	events := limitTop(report.Events, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{Type: "summary", TotalEvents: len(events)}
	for _, ev := range events {
		switch ev.Type {
		case eventlog.TypeBranchCreation:
			summary.BranchCreations++
		case eventlog.TypeCommit:
			summary.Commits++
		case eventlog.TypePush:
			summary.Pushes++
		}
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, ev := range events {
		if err := writeNDJSONLine(out, ev); err != nil {
			return err
		}
	}
	return nil
}
