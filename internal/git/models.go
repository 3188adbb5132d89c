package git

import (
	"sort"
	"time"
)

// CommitInfo represents the head commit of a branch at observation time.
// Hash is the stable identity: two CommitInfo values with equal hashes
// describe the same commit regardless of the remaining fields.
type CommitInfo struct {
	Hash    string
	When    time.Time
	Message string
	Author  AuthorInfo
	Files   []string
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// Divergence marks a branch whose remote head differed from the local head
// at query time. Developer is the local head's author, when known.
type Divergence struct {
	Branch    string
	Developer string
}

// Snapshot is a point-in-time read of all branch refs and their heads.
// It is produced fresh each tick and never mutated afterwards. Branches
// with no reachable commits (or whose head query failed this tick) have no
// entry in Heads.
type Snapshot struct {
	Branches []string
	Heads    map[string]CommitInfo
}

// NewSnapshot builds a snapshot from the given heads, with branch names in
// sorted order. Branch name order from the source carries no meaning, so a
// sorted copy keeps downstream iteration stable.
func NewSnapshot(branches []string, heads map[string]CommitInfo) Snapshot {
	names := make([]string, len(branches))
	copy(names, branches)
	sort.Strings(names)
	if heads == nil {
		heads = map[string]CommitInfo{}
	}
	return Snapshot{Branches: names, Heads: heads}
}

// ViewOptions configures a repository view.
type ViewOptions struct {
	RepoPath string
	Include  []string // Glob patterns applied to changed-file lists
	Exclude  []string
}
