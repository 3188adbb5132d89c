package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gitfeed/gitfeed/internal/eventlog"
)

// JSONEventWriter writes event reports as a single indented JSON document.
type JSONEventWriter struct{}

// JSONEventReport is the JSON output structure for an event report.
type JSONEventReport struct {
	Log         string           `json:"log"`
	GeneratedAt string           `json:"generatedAt"`
	EventType   string           `json:"eventType,omitempty"`
	Since       *string          `json:"since,omitempty"`
	Until       *string          `json:"until,omitempty"`
	TotalEvents int              `json:"totalEvents"`
	Events      []eventlog.Event `json:"events"`
}

// Write outputs the event report as JSON.
func (w *JSONEventWriter) Write(report *EventReport, options OutputOptions) error {
	events := limitTop(report.Events, options.Top)
	if events == nil {
		events = []eventlog.Event{}
	}

	doc := JSONEventReport{
		Log:         report.LogPath,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		EventType:   string(report.Filter.Type),
		Since:       formatFilterTime(report.Filter.Since),
		Until:       formatFilterTime(report.Filter.Until),
		TotalEvents: len(report.Events),
		Events:      events,
	}

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func formatFilterTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
