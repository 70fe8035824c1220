// internal/scanner/detect.go
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jackchuka/gp/internal/model"
)

// detectGitDir reports the working tree rooted at path, or nil when path has
// no .git entry.
func detectGitDir(path string) (*model.Repository, error) {
	gitPath := filepath.Join(path, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if info.IsDir() {
		return &model.Repository{Root: path, GitDir: gitPath}, nil
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return nil, err
	}
	line := strings.TrimSpace(string(content))
	gitdir, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return nil, nil
	}
	gitdir = strings.TrimSpace(gitdir)
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(path, gitdir)
	}

	return &model.Repository{
		Root:       path,
		GitDir:     filepath.Clean(gitdir),
		IsWorktree: true,
	}, nil
}

// discoverWorktrees finds linked worktrees registered in gitDir/worktrees.
// Each entry's "gitdir" file points at the worktree's .git file.
func discoverWorktrees(gitDir string) []model.Repository {
	wtDir := filepath.Join(gitDir, "worktrees")
	entries, err := os.ReadDir(wtDir)
	if err != nil {
		return nil
	}

	var repos []model.Repository
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(wtDir, e.Name(), "gitdir"))
		if err != nil {
			continue
		}
		wtPath := filepath.Dir(strings.TrimSpace(string(content)))
		if info, err := os.Stat(wtPath); err != nil || !info.IsDir() {
			continue // pruned
		}
		repos = append(repos, model.Repository{
			Root:       wtPath,
			GitDir:     filepath.Join(wtDir, e.Name()),
			IsWorktree: true,
		})
	}
	return repos
}
