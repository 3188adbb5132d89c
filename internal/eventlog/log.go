package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Log is an append-only event sink backed by a JSON Lines file. One writer
// appends; readers may tail or replay the file at any time, so every append
// is flushed to disk before it returns. Lines are never rewritten.
type Log struct {
	path string
	file *os.File

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Log for the given path without touching the filesystem.
// The file is created on the first Append.
func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// Append stamps the event with the current ingestion time, serializes it and
// writes it as a single line, syncing before returning. The passed event is
// not mutated.
func (l *Log) Append(ev Event) error {
	if l.file == nil {
		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		l.file = f
	}

	ev.LoggedAt = l.now().Unix()

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync event log: %w", err)
	}
	return nil
}

// Close releases the append handle, if one was opened.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadAll streams the log from the beginning and returns every event that
// matches the filter, in file order. Lines that fail to parse are skipped so
// a single corrupted record never blocks access to the rest of the log.
//
// A missing log file is reported as-is (errors.Is(err, fs.ErrNotExist)) so
// callers can distinguish "never monitored" from a read failure.
func (l *Log) ReadAll(filter Filter) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []Event

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		if !filter.Matches(ev) {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	return events, nil
}

// Filter selects events during read-back. Zero values match everything.
type Filter struct {
	Type  EventType  // empty matches all types
	Since *time.Time // closed lower bound on LoggedAt
	Until *time.Time // closed upper bound on LoggedAt
}

// Matches reports whether the event passes the filter. The time range is a
// closed interval on the ingestion timestamp.
func (f Filter) Matches(ev Event) bool {
	if f.Type != "" && ev.Type != f.Type {
		return false
	}
	if f.Since != nil && ev.LoggedAt < f.Since.Unix() {
		return false
	}
	if f.Until != nil && ev.LoggedAt > f.Until.Unix() {
		return false
	}
	return true
}
