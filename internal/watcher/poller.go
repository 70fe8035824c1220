// internal/watcher/poller.go
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/jackchuka/gp/internal/gitcmd"
	"github.com/jackchuka/gp/internal/model"
)

// Poller monitors repositories by hashing git status output on an interval.
type Poller struct {
	interval time.Duration
	git      gitcmd.Runner
	events   chan Event
	repos    map[string]string // root -> hash of last status output
	mu       sync.RWMutex
	closed   bool
}

func NewPoller(interval time.Duration, git gitcmd.Runner) *Poller {
	if interval < time.Second {
		interval = time.Second
	}
	return &Poller{
		interval: interval,
		git:      git,
		events:   make(chan Event, 100),
		repos:    make(map[string]string),
	}
}

func (p *Poller) Events() <-chan Event {
	return p.events
}

func (p *Poller) Watch(repo *model.Repository) error {
	p.mu.RLock()
	_, exists := p.repos[repo.Root]
	p.mu.RUnlock()

	if exists {
		return nil
	}

	// Initial hash is taken outside the lock since it runs git.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hash := p.statusHash(ctx, repo.Root)

	p.mu.Lock()
	if _, exists := p.repos[repo.Root]; !exists {
		p.repos[repo.Root] = hash
	}
	p.mu.Unlock()
	return nil
}

func (p *Poller) Unwatch(root string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.repos, root)
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.RLock()
	snapshot := make(map[string]string, len(p.repos))
	maps.Copy(snapshot, p.repos)
	p.mu.RUnlock()

	type change struct {
		root    string
		newHash string
	}

	var (
		changes []change
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	sem := make(chan struct{}, 4)

	for root, lastHash := range snapshot {
		wg.Add(1)
		go func(root, last string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			current := p.statusHash(ctx, root)
			if current == "" {
				return // git failed, skip to avoid phantom changes
			}
			if current != last {
				mu.Lock()
				changes = append(changes, change{root: root, newHash: current})
				mu.Unlock()
			}
		}(root, lastHash)
	}

	wg.Wait()

	if len(changes) == 0 {
		return
	}

	// Hashes only advance for delivered events, so a full channel means
	// the change is seen again next cycle.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	for _, c := range changes {
		select {
		case p.events <- Event{RepoPath: c.root, Time: time.Now()}:
			if _, ok := p.repos[c.root]; ok {
				p.repos[c.root] = c.newHash
			}
		default:
		}
	}
}

// statusHash fingerprints everything a prompt can show: working tree,
// branch and upstream counts, and the stash. Empty means git failed.
func (p *Poller) statusHash(ctx context.Context, root string) string {
	statusCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status, err := p.git.Run(statusCtx, root, "status", "--porcelain", "--branch", "--untracked-files=normal")
	if err != nil || !status.OK() {
		slog.Debug("poll status failed", slog.String("root", root), slog.Any("error", err))
		return ""
	}

	stashCtx, stashCancel := context.WithTimeout(ctx, 3*time.Second)
	defer stashCancel()

	stash, _ := p.git.Run(stashCtx, root, "rev-parse", "--verify", "--quiet", "refs/stash")
	head, _ := p.git.Run(stashCtx, root, "rev-parse", "--verify", "--quiet", "HEAD")

	h := sha256.New()
	h.Write([]byte(status.Stdout))
	h.Write([]byte(stash.Stdout))
	h.Write([]byte(head.Stdout))
	return hex.EncodeToString(h.Sum(nil))
}

// Close stops event delivery. It is safe to call while a poll is sending
// and more than once.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.events)
	return nil
}
