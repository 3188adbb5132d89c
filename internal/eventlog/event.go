package eventlog

// EventType identifies the kind of repository activity an event records.
type EventType string

const (
	TypeBranchCreation EventType = "branch_creation"
	TypeCommit         EventType = "commit"
	TypePush           EventType = "push"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case TypeBranchCreation, TypeCommit, TypePush:
		return true
	default:
		return false
	}
}

// Event is a single record in the activity feed. Exactly one of the
// type-specific field groups is populated, selected by Type.
//
// LoggedAt is the ingestion timestamp. It is stamped by Log.Append at write
// time and is what report filters operate on; CommitTimestamp is the
// commit's own author time and is unrelated to when the event was observed.
type Event struct {
	Type   EventType `json:"event_type"`
	Branch string    `json:"branch"`

	// Detection time for branch_creation and push events (unix seconds).
	Timestamp int64 `json:"timestamp,omitempty"`

	// Commit fields, set only for commit events.
	CommitHash      string   `json:"commit_hash,omitempty"`
	CommitMessage   string   `json:"commit_message,omitempty"`
	CommitTimestamp int64    `json:"commit_timestamp,omitempty"`
	FilesChanged    []string `json:"files_changed,omitempty"`

	// Author attribution. Optional: not every snapshot carries it.
	Developer string `json:"developer,omitempty"`

	// Set by Log.Append, never by the producer.
	LoggedAt int64 `json:"logged_at,omitempty"`
}
