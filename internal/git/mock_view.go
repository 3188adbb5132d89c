package git

import (
	"context"
	"sync"
)

// MockView is a test double for RepositoryView. It serves a scripted
// snapshot and divergence set without needing a real Git repository, and is
// safe to rescript while a scheduler goroutine is reading it.
type MockView struct {
	mu        sync.Mutex
	snap      Snapshot
	divergent []Divergence

	branchesErr  error
	divergentErr error
}

// NewMockView creates a MockView serving the given snapshot.
func NewMockView(snap Snapshot) *MockView {
	return &MockView{snap: snap}
}

// SetSnapshot rescripts the snapshot served by subsequent queries.
func (m *MockView) SetSnapshot(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
}

// SetDivergent rescripts the divergence set.
func (m *MockView) SetDivergent(divergent []Divergence) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.divergent = divergent
}

// SetBranchesErr makes Branches fail with the given error (nil clears it).
func (m *MockView) SetBranchesErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branchesErr = err
}

// SetDivergentErr makes DivergentBranches fail with the given error.
func (m *MockView) SetDivergentErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.divergentErr = err
}

// Branches returns the scripted branch names or error.
func (m *MockView) Branches(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.branchesErr != nil {
		return nil, m.branchesErr
	}
	return m.snap.Branches, nil
}

// HeadCommit returns the scripted head for the branch, if any.
func (m *MockView) HeadCommit(_ context.Context, branch string) (CommitInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.snap.Heads[branch]
	return info, ok, nil
}

// ChangedFiles returns the files of the scripted head matching the hash.
func (m *MockView) ChangedFiles(_ context.Context, hash string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.snap.Heads {
		if info.Hash == hash {
			return info.Files, nil
		}
	}
	return nil, nil
}

// DivergentBranches returns the scripted divergences or error.
func (m *MockView) DivergentBranches(_ context.Context, _ string) ([]Divergence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.divergentErr != nil {
		return nil, m.divergentErr
	}
	return m.divergent, nil
}
