package detect

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/gitfeed/gitfeed/internal/eventlog"
	"github.com/gitfeed/gitfeed/internal/git"
)

// --- Generators ---

func genBranchName() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{
		"main", "master", "dev", "feature/a", "feature/b", "hotfix", "release",
	})
}

func genSnapshot() *rapid.Generator[git.Snapshot] {
	return rapid.Custom(func(t *rapid.T) git.Snapshot {
		count := rapid.IntRange(0, 7).Draw(t, "branchCount")
		seen := map[string]struct{}{}
		var branches []string
		heads := map[string]git.CommitInfo{}
		for i := 0; i < count; i++ {
			name := genBranchName().Draw(t, fmt.Sprintf("branch%d", i))
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			branches = append(branches, name)
			if rapid.Bool().Draw(t, fmt.Sprintf("hasHead%d", i)) {
				heads[name] = git.CommitInfo{
					Hash:    rapid.StringMatching(`[a-f0-9]{8}`).Draw(t, fmt.Sprintf("hash%d", i)),
					When:    time.Unix(rapid.Int64Range(1600000000, 1700000000).Draw(t, fmt.Sprintf("when%d", i)), 0),
					Message: rapid.StringN(0, 30, 30).Draw(t, fmt.Sprintf("msg%d", i)),
					Author:  git.AuthorInfo{Name: rapid.StringN(0, 10, 10).Draw(t, fmt.Sprintf("author%d", i))},
				}
			}
		}
		return git.NewSnapshot(branches, heads)
	})
}

func genPrev(snap git.Snapshot) *rapid.Generator[map[string]string] {
	return rapid.Custom(func(t *rapid.T) map[string]string {
		prev := map[string]string{}
		if len(snap.Branches) == 0 {
			// rapid requires Custom generators to consume bitstream data.
			rapid.Bool().Draw(t, "prevEmpty")
		}
		for i, branch := range snap.Branches {
			switch rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("prevKind%d", i)) {
			case 0:
				// unknown branch
			case 1:
				prev[branch] = noHead
			case 2:
				prev[branch] = rapid.StringMatching(`[a-f0-9]{8}`).Draw(t, fmt.Sprintf("prevHash%d", i))
			}
		}
		return prev
	})
}

// --- Property Tests ---

func TestRapidDiff_OneBranchCreationPerNovelBranch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := genSnapshot().Draw(t, "snap")
		prev := genPrev(snap).Draw(t, "prev")

		events := Diff(time.Now(), prev, snap, nil)

		created := map[string]int{}
		for _, ev := range events {
			if ev.Type == eventlog.TypeBranchCreation {
				created[ev.Branch]++
			}
		}
		for _, branch := range snap.Branches {
			_, known := prev[branch]
			want := 0
			if !known {
				want = 1
			}
			if created[branch] != want {
				t.Fatalf("branch %q: %d creation events, expected %d", branch, created[branch], want)
			}
		}
	})
}

func TestRapidDiff_NoCommitEventForNovelOrBaselineBranch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := genSnapshot().Draw(t, "snap")
		prev := genPrev(snap).Draw(t, "prev")

		events := Diff(time.Now(), prev, snap, nil)

		for _, ev := range events {
			if ev.Type != eventlog.TypeCommit {
				continue
			}
			prevHash, known := prev[ev.Branch]
			if !known || prevHash == noHead {
				t.Fatalf("commit event for branch %q without an established baseline", ev.Branch)
			}
			if head := snap.Heads[ev.Branch]; head.Hash == prevHash {
				t.Fatalf("commit event for branch %q with unchanged hash %q", ev.Branch, prevHash)
			}
			if ev.CommitHash != snap.Heads[ev.Branch].Hash {
				t.Fatalf("commit event hash %q does not match head %q", ev.CommitHash, snap.Heads[ev.Branch].Hash)
			}
		}
	})
}

func TestRapidDiff_OrderingInvariant(t *testing.T) {
	phase := map[eventlog.EventType]int{
		eventlog.TypeBranchCreation: 0,
		eventlog.TypeCommit:         1,
		eventlog.TypePush:           2,
	}
	rapid.Check(t, func(t *rapid.T) {
		snap := genSnapshot().Draw(t, "snap")
		prev := genPrev(snap).Draw(t, "prev")

		var divergent []git.Divergence
		for i, branch := range snap.Branches {
			if rapid.Bool().Draw(t, fmt.Sprintf("diverged%d", i)) {
				divergent = append(divergent, git.Divergence{Branch: branch})
			}
		}

		events := Diff(time.Now(), prev, snap, divergent)

		last := -1
		for _, ev := range events {
			p, ok := phase[ev.Type]
			if !ok {
				t.Fatalf("unexpected event type %q", ev.Type)
			}
			if p < last {
				t.Fatalf("event phase regressed: %q after phase %d", ev.Type, last)
			}
			last = p
		}

		pushes := 0
		for _, ev := range events {
			if ev.Type == eventlog.TypePush {
				pushes++
			}
		}
		if pushes != len(divergent) {
			t.Fatalf("%d push events, expected %d", pushes, len(divergent))
		}
	})
}

func TestRapidDiff_StableUnderRepetition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := genSnapshot().Draw(t, "snap")
		prev := genPrev(snap).Draw(t, "prev")
		now := time.Unix(rapid.Int64Range(1600000000, 1700000000).Draw(t, "now"), 0)

		first := Diff(now, prev, snap, nil)
		second := Diff(now, prev, snap, nil)

		if len(first) != len(second) {
			t.Fatalf("repeated diff lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Type != second[i].Type || first[i].Branch != second[i].Branch ||
				first[i].CommitHash != second[i].CommitHash {
				t.Fatalf("repeated diff differs at %d: %+v vs %+v", i, first[i], second[i])
			}
		}
	})
}
