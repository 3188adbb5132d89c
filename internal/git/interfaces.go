package git

import "context"

// RepositoryView is a read-only query surface over a Git repository.
// Implementations query live external state on every call and never cache
// across calls; the monitor treats any error as "no data this tick".
type RepositoryView interface {
	// Branches returns the current local branch names. An empty repository
	// yields an empty slice, not an error.
	Branches(ctx context.Context) ([]string, error)

	// HeadCommit returns the head commit of the given branch. ok is false
	// when the branch has no reachable commits.
	HeadCommit(ctx context.Context, branch string) (info CommitInfo, ok bool, err error)

	// ChangedFiles returns the files touched by the given commit, in the
	// order the diff reports them. Commits with no diffable content (for
	// example parentless commits) yield an empty slice.
	ChangedFiles(ctx context.Context, hash string) ([]string, error)

	// DivergentBranches returns the branches whose head on the named remote
	// differs from the local head at query time.
	DivergentBranches(ctx context.Context, remote string) ([]Divergence, error)
}

// Compile-time interface conformance checks.
var (
	_ RepositoryView = (*View)(nil)
	_ RepositoryView = (*MockView)(nil)
)
