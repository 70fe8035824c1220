// internal/scanner/walker.go
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/jackchuka/gp/internal/model"
)

// DefaultIgnore lists directory names that are never descended into.
var DefaultIgnore = []string{
	"node_modules",
	"vendor",
	".cache",
	".npm",
	".pnpm",
	"__pycache__",
	".venv",
	"venv",
	".tox",
	"target",
	"build",
	"dist",
}

// Walker discovers git working trees below a set of directories.
type Walker struct {
	MaxDepth int
	Ignore   []string
}

func NewWalker(maxDepth int) *Walker {
	return &Walker{MaxDepth: maxDepth, Ignore: DefaultIgnore}
}

// Scan walks every root concurrently and returns the working trees found,
// sorted by Root. Linked worktrees registered in a main repository are
// included even when they live outside the scanned roots.
func (w *Walker) Scan(ctx context.Context, roots ...string) ([]model.Repository, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		seen     = make(map[string]model.Repository)
		firstErr error
	)

	for _, root := range roots {
		wg.Add(1)
		go func(root string) {
			defer wg.Done()

			found, err := w.ScanPath(ctx, root)

			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			for _, r := range found {
				// roots may overlap
				if _, ok := seen[r.Root]; !ok {
					seen[r.Root] = r
				}
			}
		}(root)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	repos := make([]model.Repository, 0, len(seen))
	for _, r := range seen {
		repos = append(repos, r)
	}
	slices.SortFunc(repos, func(a, b model.Repository) int {
		return strings.Compare(a.Root, b.Root)
	})
	return repos, nil
}

// ScanPath walks root up to MaxDepth directories deep. It does not descend
// into a working tree once found.
func (w *Walker) ScanPath(ctx context.Context, root string) ([]model.Repository, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var repos []model.Repository
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable directories are skipped
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		if depth(root, path) > w.MaxDepth {
			return fs.SkipDir
		}
		if path != root && (d.Name() == ".git" || slices.Contains(w.Ignore, d.Name())) {
			return fs.SkipDir
		}

		repo, err := detectGitDir(path)
		if err != nil || repo == nil {
			return nil
		}
		repos = append(repos, *repo)
		if !repo.IsWorktree {
			repos = append(repos, discoverWorktrees(repo.GitDir)...)
		}
		return fs.SkipDir
	})
	return repos, err
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
