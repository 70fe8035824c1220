package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jackchuka/gp/internal/model"
)

const notifyDebounceDelay = 350 * time.Millisecond

// Notifier watches a repository's working tree root and git directory with
// fsnotify. Bursts of events are coalesced into one Event per repository.
// Only the top level of the working tree is watched; nested edits show up
// through the index once staged.
type Notifier struct {
	fs     *fsnotify.Watcher
	delay  time.Duration
	events chan Event

	mu      sync.Mutex
	owners  map[string]string // watched path -> repository root
	pending map[string]*debouncer
	closed  bool
}

func NewNotifier() (*Notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	return &Notifier{
		fs:      w,
		delay:   notifyDebounceDelay,
		events:  make(chan Event, 100),
		owners:  make(map[string]string),
		pending: make(map[string]*debouncer),
	}, nil
}

func (n *Notifier) Events() <-chan Event {
	return n.events
}

func (n *Notifier) Watch(repo *model.Repository) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.pending[repo.Root]; ok {
		return nil
	}

	var added []string
	for _, path := range watchPaths(repo) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := n.fs.Add(path); err != nil {
			for _, p := range added {
				err = errors.Join(err, n.fs.Remove(p))
				delete(n.owners, p)
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
		n.owners[path] = repo.Root
		added = append(added, path)
	}

	root := repo.Root
	n.pending[root] = newDebouncer(n.delay, func() { n.emit(root) })
	return nil
}

func (n *Notifier) Unwatch(root string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if d, ok := n.pending[root]; ok {
		d.Stop()
		delete(n.pending, root)
	}
	for path, owner := range n.owners {
		if owner == root {
			if err := n.fs.Remove(path); err != nil {
				slog.Debug("unwatch", slog.String("path", path), slog.Any("error", err))
			}
			delete(n.owners, path)
		}
	}
}

// Run forwards filesystem events until ctx is done or the watcher closes.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnoreWatchPath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			n.schedule(filepath.Dir(ev.Name))
		case err, ok := <-n.fs.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (n *Notifier) schedule(dir string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	root, ok := n.owners[dir]
	if !ok {
		return
	}
	if d := n.pending[root]; d != nil {
		d.Trigger()
	}
}

func (n *Notifier) emit(root string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	select {
	case n.events <- Event{RepoPath: root, Time: time.Now()}:
	default:
		// full: a queued event already triggers a render
	}
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	for _, d := range n.pending {
		d.Stop()
	}
	n.closed = true
	close(n.events)
	n.mu.Unlock()

	return n.fs.Close()
}

// watchPaths lists the existing directories whose changes affect the prompt.
func watchPaths(repo *model.Repository) []string {
	candidates := []string{repo.Root}
	if repo.GitDir != "" {
		candidates = append(candidates, repo.GitDir, filepath.Join(repo.GitDir, "refs", "heads"))
	}

	var paths []string
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			paths = append(paths, p)
		}
	}
	return paths
}

func shouldIgnoreWatchPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
