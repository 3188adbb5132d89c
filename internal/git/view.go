package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// View reads live repository state through go-git. All methods are pure
// queries; nothing in the repository is ever mutated.
type View struct {
	repo *git.Repository
	opts ViewOptions
}

// Open opens the repository at opts.RepoPath. It fails when the path does
// not contain a valid Git repository, which makes it the startup validation
// point for the monitor.
func Open(opts ViewOptions) (*View, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", opts.RepoPath, err)
	}
	return &View{repo: repo, opts: opts}, nil
}

// Branches returns the current local branch names.
func (v *View) Branches(_ context.Context) ([]string, error) {
	iter, err := v.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return names, nil
}

// HeadCommit returns the head commit of the given branch, with the changed
// files of that commit already resolved. ok is false when the branch ref
// does not exist or points at nothing reachable.
func (v *View) HeadCommit(ctx context.Context, branch string) (CommitInfo, bool, error) {
	ref, err := v.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return CommitInfo{}, false, nil
		}
		return CommitInfo{}, false, fmt.Errorf("resolve branch %q: %w", branch, err)
	}

	commit, err := v.repo.CommitObject(ref.Hash())
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return CommitInfo{}, false, nil
		}
		return CommitInfo{}, false, fmt.Errorf("read head of %q: %w", branch, err)
	}

	files, err := v.ChangedFiles(ctx, commit.Hash.String())
	if err != nil {
		return CommitInfo{}, false, err
	}

	return CommitInfo{
		Hash:    commit.Hash.String(),
		When:    commit.Author.When,
		Message: firstLine(commit.Message),
		Author:  AuthorInfo{Name: commit.Author.Name, Email: commit.Author.Email},
		Files:   files,
	}, true, nil
}

// ChangedFiles returns the paths touched by the given commit, filtered
// through the configured include/exclude globs. Parentless commits yield an
// empty list.
func (v *View) ChangedFiles(_ context.Context, hash string) ([]string, error) {
	commit, err := v.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("read commit %q: %w", hash, err)
	}

	if commit.NumParents() == 0 {
		return nil, nil
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("read parent of %q: %w", hash, err)
	}

	patch, err := parent.Patch(commit)
	if err != nil {
		return nil, fmt.Errorf("diff commit %q: %w", hash, err)
	}

	var files []string
	for _, filePatch := range patch.FilePatches() {
		from, to := filePatch.Files()

		var path string
		if to != nil {
			path = to.Path()
		} else if from != nil {
			path = from.Path()
		}
		if path == "" {
			continue
		}
		if !v.matchesFilters(path) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// DivergentBranches compares every local branch head against its counterpart
// on the named remote. A branch whose remote head hash differs from the
// local head hash is reported once, regardless of how many pushes landed
// between two calls.
func (v *View) DivergentBranches(ctx context.Context, remoteName string) ([]Divergence, error) {
	remote, err := v.repo.Remote(remoteName)
	if err != nil {
		return nil, fmt.Errorf("remote %q: %w", remoteName, err)
	}

	remoteRefs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list remote %q: %w", remoteName, err)
	}

	remoteHeads := make(map[string]plumbing.Hash, len(remoteRefs))
	for _, ref := range remoteRefs {
		if ref.Name().IsBranch() {
			remoteHeads[ref.Name().Short()] = ref.Hash()
		}
	}

	branches, err := v.Branches(ctx)
	if err != nil {
		return nil, err
	}

	var divergent []Divergence
	for _, branch := range branches {
		remoteHash, ok := remoteHeads[branch]
		if !ok {
			continue
		}
		localRef, err := v.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
		if err != nil {
			continue
		}
		if localRef.Hash() == remoteHash {
			continue
		}

		developer := ""
		if commit, err := v.repo.CommitObject(localRef.Hash()); err == nil {
			developer = commit.Author.Name
		}
		divergent = append(divergent, Divergence{Branch: branch, Developer: developer})
	}
	return divergent, nil
}

// matchesFilters checks a path against the exclude patterns first, then the
// include patterns. No include patterns means everything is included.
func (v *View) matchesFilters(path string) bool {
	path = strings.ReplaceAll(path, "\\", "/")

	for _, pattern := range v.opts.Exclude {
		matched, _ := doublestar.Match(pattern, path)
		if matched {
			return false
		}
	}

	if len(v.opts.Include) == 0 {
		return true
	}
	for _, pattern := range v.opts.Include {
		matched, _ := doublestar.Match(pattern, path)
		if matched {
			return true
		}
	}
	return false
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		return message[:idx]
	}
	return message
}
