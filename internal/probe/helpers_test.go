package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/jackchuka/gp/internal/gitcmd"
	"github.com/jackchuka/gp/internal/model"
)

// fakeGit answers git invocations from a table keyed by the joined args.
type fakeGit struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]gitcmd.Result
}

func newFakeGit(responses map[string]gitcmd.Result) *fakeGit {
	return &fakeGit{responses: responses}
}

func (f *fakeGit) Run(_ context.Context, _ string, args ...string) (gitcmd.Result, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if res, ok := f.responses[key]; ok {
		return res, nil
	}
	return gitcmd.Result{ExitCode: 128}, nil
}

func (f *fakeGit) called(substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.ContainsFunc(f.calls, func(c string) bool {
		return strings.Contains(c, substr)
	})
}

func (f *fakeGit) calledExact(cmd string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, cmd)
}

func fakeEnv(git gitcmd.Runner) Env {
	return Env{
		Git:  git,
		Repo: &model.Repository{Root: "/repo", GitDir: "/repo/.git", Branch: "main"},
	}
}

func fields(fs ...model.Field) map[model.Field]bool {
	m := make(map[model.Field]bool, len(fs))
	for _, f := range fs {
		m[f] = true
	}
	return m
}

func probeNames(probes []Probe) []string {
	names := make([]string, len(probes))
	for i, p := range probes {
		names[i] = p.Name
	}
	return names
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func mustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}
