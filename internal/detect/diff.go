package detect

import (
	"time"

	"github.com/gitfeed/gitfeed/internal/eventlog"
	"github.com/gitfeed/gitfeed/internal/git"
)

// Diff computes the events implied by the transition from the previously
// observed branch heads to a fresh snapshot. It is a pure function: no I/O,
// no clock access beyond the caller-supplied detection time, no mutation of
// its inputs.
//
// The returned order is branch-creation events first (in snapshot branch
// order), then commit events, then push events. There is no cross-branch
// ordering guarantee beyond that.
//
// A branch seen for the first time produces exactly one BranchCreated and no
// CommitAdded for its current head: the first-ever observed commit of a
// branch is part of the discovery baseline, not new activity.
func Diff(now time.Time, prev map[string]string, snap git.Snapshot, divergent []git.Divergence) []eventlog.Event {
	var events []eventlog.Event

	for _, branch := range snap.Branches {
		if _, known := prev[branch]; known {
			continue
		}
		ev := eventlog.Event{
			Type:      eventlog.TypeBranchCreation,
			Branch:    branch,
			Timestamp: now.Unix(),
		}
		if head, ok := snap.Heads[branch]; ok {
			ev.Developer = head.Author.Name
		}
		events = append(events, ev)
	}

	for _, branch := range snap.Branches {
		prevHash, known := prev[branch]
		if !known || prevHash == noHead {
			// Unknown branches were handled above; a known branch whose
			// first head only now appeared is baseline, not a new commit.
			continue
		}
		head, ok := snap.Heads[branch]
		if !ok || head.Hash == prevHash {
			continue
		}
		events = append(events, eventlog.Event{
			Type:            eventlog.TypeCommit,
			Branch:          branch,
			CommitHash:      head.Hash,
			CommitMessage:   head.Message,
			CommitTimestamp: head.When.Unix(),
			FilesChanged:    head.Files,
			Developer:       head.Author.Name,
		})
	}

	for _, d := range divergent {
		events = append(events, eventlog.Event{
			Type:      eventlog.TypePush,
			Branch:    d.Branch,
			Timestamp: now.Unix(),
			Developer: d.Developer,
		})
	}

	return events
}
