package detect

import "github.com/gitfeed/gitfeed/internal/git"

// noHead marks a branch that has been observed but had no reachable head at
// the time. It keeps the branch "known" (so BranchCreated fires only once)
// while letting the first head that later appears be treated as baseline.
const noHead = ""

// State is the process-lifetime mapping from branch name to the last
// observed head hash. It is seeded once from the first snapshot and updated
// after every tick. It is not persisted: a restart re-seeds silently from
// whatever the repository looks like then.
//
// Entries for branches that disappear are never removed; they simply stop
// being updated. Deletion detection is intentionally out of scope.
type State struct {
	heads  map[string]string
	seeded bool
}

// NewState creates an empty, unseeded state.
func NewState() *State {
	return &State{heads: make(map[string]string)}
}

// Seeded reports whether the initial baseline has been taken. An empty
// repository still counts as seeded after the first snapshot.
func (s *State) Seeded() bool {
	return s.seeded
}

// Seed records the baseline snapshot without producing any events.
func (s *State) Seed(snap git.Snapshot) {
	s.Update(snap)
	s.seeded = true
}

// Heads returns a copy of the branch→hash mapping for use by the diff
// engine. The copy keeps Diff pure with respect to later state updates.
func (s *State) Heads() map[string]string {
	out := make(map[string]string, len(s.heads))
	for branch, hash := range s.heads {
		out[branch] = hash
	}
	return out
}

// Update records the current head hash of every branch in the snapshot,
// including branches whose head did not change. Branches with no head are
// recorded with the noHead sentinel so they are not re-reported as new.
func (s *State) Update(snap git.Snapshot) {
	for _, branch := range snap.Branches {
		if head, ok := snap.Heads[branch]; ok {
			s.heads[branch] = head.Hash
			continue
		}
		if _, known := s.heads[branch]; !known {
			s.heads[branch] = noHead
		}
	}
}

// Len returns the number of tracked branches, stale entries included.
func (s *State) Len() int {
	return len(s.heads)
}
