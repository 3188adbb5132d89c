package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// RefWatcher nudges the scheduler into an early tick when the repository's
// refs change on disk, so interactive activity shows up without waiting out
// the poll interval. It is an optimization only: the poll loop remains the
// source of truth and works unchanged without a watcher.
type RefWatcher struct {
	watcher *fsnotify.Watcher
	nudge   chan struct{}
	logger  *slog.Logger
}

// NewRefWatcher watches the ref storage of the repository at repoPath.
func NewRefWatcher(repoPath string, logger *slog.Logger) (*RefWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	gitDir := filepath.Join(repoPath, ".git")
	if err := watcher.Add(gitDir); err != nil {
		err = errors.Join(err, watcher.Close())
		return nil, fmt.Errorf("watch %s: %w", gitDir, err)
	}
	// Loose refs live one level down; absent until the first branch exists.
	refsDir := filepath.Join(gitDir, "refs", "heads")
	if _, statErr := os.Stat(refsDir); statErr == nil {
		if err := watcher.Add(refsDir); err != nil {
			err = errors.Join(err, watcher.Close())
			return nil, fmt.Errorf("watch %s: %w", refsDir, err)
		}
	}

	rw := &RefWatcher{
		watcher: watcher,
		nudge:   make(chan struct{}, 1),
		logger:  logger,
	}
	go rw.loop()
	return rw, nil
}

// Nudge returns the channel that fires when refs changed. Signals coalesce:
// a burst of filesystem events produces at most one pending nudge.
func (w *RefWatcher) Nudge() <-chan struct{} {
	return w.nudge
}

// Close stops the watcher.
func (w *RefWatcher) Close() error {
	return w.watcher.Close()
}

func (w *RefWatcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnoreRefPath(ev.Name) {
				continue
			}
			w.logger.Debug("ref storage changed",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			select {
			case w.nudge <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("ref watcher error", slog.Any("error", err))
		}
	}
}

// shouldIgnoreRefPath filters out .git churn that cannot move a ref: lock
// files and object/pack writes.
func shouldIgnoreRefPath(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".lock") || base == "index" || base == "COMMIT_EDITMSG" {
		return true
	}
	norm := filepath.ToSlash(path)
	for _, part := range []string{"/objects/", "/logs/"} {
		if strings.Contains(norm, part) {
			return true
		}
	}
	return false
}
