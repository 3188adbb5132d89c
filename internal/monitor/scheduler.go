package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gitfeed/gitfeed/internal/detect"
	"github.com/gitfeed/gitfeed/internal/eventlog"
	"github.com/gitfeed/gitfeed/internal/git"
)

// Options configures the scheduler loop.
type Options struct {
	// Interval is the sleep between ticks.
	Interval time.Duration

	// Remote is the remote name compared against for push detection.
	Remote string

	// QueryTimeout bounds each external repository query so a hung remote
	// cannot stall the loop indefinitely.
	QueryTimeout time.Duration

	// Wake, when non-nil, triggers an early tick (used by the ref watcher).
	Wake <-chan struct{}
}

// Scheduler drives the poll-diff-persist cycle. Ticks are strictly
// sequential: one tick fully completes, including all event log writes,
// before the next begins. The scheduler is the only writer to both the
// state store and the event log, so no locking is needed.
type Scheduler struct {
	view   git.RepositoryView
	log    *eventlog.Log
	state  *detect.State
	opts   Options
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewScheduler creates a scheduler over the given view and event log.
func NewScheduler(view git.RepositoryView, log *eventlog.Log, opts Options, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		view:   view,
		log:    log,
		state:  detect.NewState(),
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Run ticks until the context is cancelled. A failed tick is logged and the
// loop continues after the normal sleep; once started, the scheduler is
// never fatal.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("monitoring started",
		slog.Duration("interval", s.opts.Interval),
		slog.String("remote", s.opts.Remote),
		slog.String("log", s.log.Path()),
	)

	for {
		if err := s.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("tick failed", slog.Any("error", err))
		}

		timer := time.NewTimer(s.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("monitoring stopped")
			return ctx.Err()
		case <-timer.C:
		case <-s.opts.Wake:
			timer.Stop()
			s.logger.Debug("ref change nudge, ticking early")
		}
	}
}

// Tick performs one poll-diff-persist iteration. The very first tick seeds
// the state store from the snapshot without emitting any events; that same
// silent baseline applies after a restart.
func (s *Scheduler) Tick(ctx context.Context) error {
	snap := s.capture(ctx)

	if !s.state.Seeded() {
		s.state.Seed(snap)
		s.logger.Info("baseline seeded", slog.Int("branches", len(snap.Branches)))
		return nil
	}

	divergent := s.divergent(ctx)

	events := detect.Diff(s.now(), s.state.Heads(), snap, divergent)
	for _, ev := range events {
		if err := s.log.Append(ev); err != nil {
			// State is left untouched so the missed transition is
			// re-detected on the next tick.
			return fmt.Errorf("append %s event for %q: %w", ev.Type, ev.Branch, err)
		}
		s.announce(ev)
	}

	s.state.Update(snap)
	return nil
}

// capture reads a fresh snapshot from the view. Query failures are swallowed
// here: a branch whose head cannot be read this tick is simply absent from
// the snapshot's heads and detection is deferred to a later tick.
func (s *Scheduler) capture(ctx context.Context) git.Snapshot {
	qctx, cancel := s.queryContext(ctx)
	branches, err := s.view.Branches(qctx)
	cancel()
	if err != nil {
		s.logger.Warn("branch listing failed", slog.Any("error", err))
		return git.NewSnapshot(nil, nil)
	}

	heads := make(map[string]git.CommitInfo, len(branches))
	for _, branch := range branches {
		qctx, cancel := s.queryContext(ctx)
		info, ok, err := s.view.HeadCommit(qctx, branch)
		cancel()
		if err != nil {
			s.logger.Warn("head query failed",
				slog.String("branch", branch),
				slog.Any("error", err),
			)
			continue
		}
		if ok {
			heads[branch] = info
		}
	}
	return git.NewSnapshot(branches, heads)
}

// divergent queries push indicators. Failures degrade to an empty set: push
// detection resumes on the next tick that can reach the remote.
func (s *Scheduler) divergent(ctx context.Context) []git.Divergence {
	qctx, cancel := s.queryContext(ctx)
	defer cancel()

	divergent, err := s.view.DivergentBranches(qctx, s.opts.Remote)
	if err != nil {
		s.logger.Warn("push detection failed",
			slog.String("remote", s.opts.Remote),
			slog.Any("error", err),
		)
		return nil
	}
	return divergent
}

func (s *Scheduler) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.QueryTimeout)
}

func (s *Scheduler) announce(ev eventlog.Event) {
	switch ev.Type {
	case eventlog.TypeBranchCreation:
		s.logger.Info("new branch detected",
			slog.String("branch", ev.Branch),
			slog.String("developer", ev.Developer),
		)
	case eventlog.TypeCommit:
		s.logger.Info("new commit detected",
			slog.String("branch", ev.Branch),
			slog.String("hash", ev.CommitHash),
			slog.String("developer", ev.Developer),
			slog.Int("files", len(ev.FilesChanged)),
		)
	case eventlog.TypePush:
		s.logger.Info("push detected",
			slog.String("branch", ev.Branch),
			slog.String("developer", ev.Developer),
		)
	}
}
