package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_DropsSupersededCallbacks(t *testing.T) {
	orig := afterFunc
	t.Cleanup(func() { afterFunc = orig })

	var callbacks []func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callbacks = append(callbacks, f)
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}

	var called atomic.Int32
	d := newDebouncer(time.Second, func() { called.Add(1) })

	d.Trigger()
	d.Trigger()
	if len(callbacks) != 2 {
		t.Fatalf("scheduled %d callbacks, want 2", len(callbacks))
	}

	callbacks[0]()
	callbacks[1]()
	if got := called.Load(); got != 1 {
		t.Errorf("fn ran %d times, want 1", got)
	}

	d.Trigger()
	d.Stop()
	callbacks[2]()
	if got := called.Load(); got != 1 {
		t.Errorf("fn ran after Stop: %d calls", got)
	}
}

func TestShouldIgnoreWatchPath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"/repo/.git/index.lock", true},
		{"/repo/.git/HEAD.LOCK", true},
		{"/repo/.git/index", false},
		{"/repo/main.go", false},
	}
	for _, tt := range tests {
		if got := shouldIgnoreWatchPath(tt.name); got != tt.want {
			t.Errorf("shouldIgnoreWatchPath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWatchPaths_SkipsMissingDirectories(t *testing.T) {
	repo := initGitRepo(t)
	repo.GitDir = filepath.Join(repo.Root, ".git", "worktrees", "missing")

	paths := watchPaths(repo)
	if len(paths) != 1 || paths[0] != repo.Root {
		t.Errorf("watchPaths() = %v, want only the root", paths)
	}
}

func TestNotifier_EmitsOnChange(t *testing.T) {
	repo := initGitRepo(t)

	n, err := NewNotifier()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	n.delay = 20 * time.Millisecond
	t.Cleanup(func() { _ = n.Close() })

	if err := n.Watch(repo); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	for i := range 3 {
		name := filepath.Join(repo.Root, "file.txt")
		if err := os.WriteFile(name, []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case ev := <-n.Events():
		if ev.RepoPath != repo.Root {
			t.Errorf("RepoPath = %q, want %q", ev.RepoPath, repo.Root)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event after writing to the working tree")
	}
}

func TestNotifier_UnwatchStopsEvents(t *testing.T) {
	repo := initGitRepo(t)

	n, err := NewNotifier()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	t.Cleanup(func() { _ = n.Close() })

	if err := n.Watch(repo); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	n.Unwatch(repo.Root)

	n.mu.Lock()
	owners, pending := len(n.owners), len(n.pending)
	n.mu.Unlock()
	if owners != 0 || pending != 0 {
		t.Errorf("owners=%d pending=%d after Unwatch, want 0", owners, pending)
	}
}
