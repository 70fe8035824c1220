package watcher

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackchuka/gp/internal/gitcmd"
	"github.com/jackchuka/gp/internal/model"
)

func TestNewPoller_MinimumInterval(t *testing.T) {
	tests := []struct {
		name         string
		interval     time.Duration
		wantInterval time.Duration
	}{
		{"below minimum clamps to 1s", 100 * time.Millisecond, time.Second},
		{"zero clamps to 1s", 0, time.Second},
		{"exact 1s preserved", time.Second, time.Second},
		{"above minimum preserved", 5 * time.Second, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPoller(tt.interval, gitcmd.NewExecRunner())
			if p.interval != tt.wantInterval {
				t.Errorf("interval = %v, want %v", p.interval, tt.wantInterval)
			}
		})
	}
}

func TestPoller_WatchAndUnwatch(t *testing.T) {
	repo := initGitRepo(t)

	p := NewPoller(time.Second, gitcmd.NewExecRunner())

	if err := p.Watch(repo); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := p.Watch(repo); err != nil {
		t.Fatalf("second Watch() error = %v", err)
	}

	p.mu.RLock()
	count := len(p.repos)
	p.mu.RUnlock()
	if count != 1 {
		t.Errorf("repos count = %d after duplicate Watch, want 1", count)
	}

	p.Unwatch(repo.Root)
	p.mu.RLock()
	_, exists := p.repos[repo.Root]
	p.mu.RUnlock()
	if exists {
		t.Error("repo should be removed after Unwatch()")
	}
}

func TestPoller_RunCancellation(t *testing.T) {
	p := NewPoller(time.Second, gitcmd.NewExecRunner())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestPoller_DetectsChanges(t *testing.T) {
	repo := initGitRepo(t)

	testFile := filepath.Join(repo.Root, "test.txt")
	if err := os.WriteFile(testFile, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	gitCmd(t, repo.Root, "add", "test.txt")
	gitCmd(t, repo.Root, "commit", "-m", "initial")

	p := NewPoller(time.Second, gitcmd.NewExecRunner())
	if err := p.Watch(repo); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(testFile, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	p.poll(context.Background())

	select {
	case ev := <-p.events:
		if ev.RepoPath != repo.Root {
			t.Errorf("event RepoPath = %q, want %q", ev.RepoPath, repo.Root)
		}
	default:
		t.Fatal("expected a change event after modifying a tracked file")
	}

	// The new state is now the baseline.
	p.poll(context.Background())
	select {
	case ev := <-p.events:
		t.Errorf("unexpected second event: %+v", ev)
	default:
	}
}

func TestPoller_DetectsStash(t *testing.T) {
	repo := initGitRepo(t)

	testFile := filepath.Join(repo.Root, "test.txt")
	if err := os.WriteFile(testFile, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	gitCmd(t, repo.Root, "add", "test.txt")
	gitCmd(t, repo.Root, "commit", "-m", "initial")
	if err := os.WriteFile(testFile, []byte("wip"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewPoller(time.Second, gitcmd.NewExecRunner())
	if err := p.Watch(repo); err != nil {
		t.Fatal(err)
	}

	gitCmd(t, repo.Root, "stash", "push", "-q")
	p.poll(context.Background())

	select {
	case <-p.events:
	default:
		t.Error("expected an event after stashing")
	}
}

func TestPoller_NoEventWhenUnchanged(t *testing.T) {
	repo := initGitRepo(t)

	p := NewPoller(time.Second, gitcmd.NewExecRunner())
	if err := p.Watch(repo); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	p.poll(context.Background())

	select {
	case ev := <-p.events:
		t.Errorf("unexpected event: %+v", ev)
	default:
	}
}

func TestPoller_Close(t *testing.T) {
	p := NewPoller(time.Second, gitcmd.NewExecRunner())
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	_, ok := <-p.events
	if ok {
		t.Error("expected channel to be closed")
	}
}

func TestPoller_Close_Twice(t *testing.T) {
	p := NewPoller(time.Second, gitcmd.NewExecRunner())
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

// churningGit reports a different status on every call.
type churningGit struct{ n atomic.Int64 }

func (g *churningGit) Run(context.Context, string, ...string) (gitcmd.Result, error) {
	return gitcmd.Result{Stdout: strconv.FormatInt(g.n.Add(1), 10)}, nil
}

func TestPoller_CloseDuringPoll(t *testing.T) {
	p := NewPoller(time.Second, &churningGit{})
	for i := range 8 {
		p.repos["/repo/"+strconv.Itoa(i)] = "stale"
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 20 {
			p.poll(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		_ = p.Close()
	}()
	wg.Wait()

	// a poll after Close must not send
	p.poll(context.Background())
}

func initGitRepo(t *testing.T) *model.Repository {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	gitCmd(t, dir, "init", "-b", "main")
	gitCmd(t, dir, "config", "user.email", "test@test.com")
	gitCmd(t, dir, "config", "user.name", "Test")
	gitCmd(t, dir, "config", "commit.gpgsign", "false")

	return &model.Repository{Root: dir, GitDir: filepath.Join(dir, ".git"), Branch: "main"}
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}
