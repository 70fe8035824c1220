// Package locator finds the git working tree enclosing a directory.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/jackchuka/gp/internal/model"
)

// Locate searches dir and its ancestors for a repository. A directory
// outside any working tree is not an error: Locate returns (nil, nil).
func Locate(dir string) (*model.Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("open repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no working tree to describe.
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, nil
		}
		return nil, err
	}

	root := wt.Filesystem.Root()
	gitDir, isWorktree, err := resolveGitDir(root)
	if err != nil {
		return nil, err
	}

	r := &model.Repository{
		Root:       root,
		GitDir:     gitDir,
		IsWorktree: isWorktree,
	}

	// HEAD is read without resolving so unborn branches still report a name.
	head, err := repo.Reference(plumbing.HEAD, false)
	if err == nil {
		switch {
		case head.Type() == plumbing.SymbolicReference && head.Target().IsBranch():
			r.Branch = head.Target().Short()
		case head.Type() == plumbing.HashReference:
			r.Detached = true
		}
	}

	return r, nil
}

// resolveGitDir returns the git directory for the working tree at root.
// Linked worktrees carry a .git file of the form "gitdir: <path>".
func resolveGitDir(root string) (string, bool, error) {
	gitPath := filepath.Join(root, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		return "", false, err
	}
	if info.IsDir() {
		return gitPath, false, nil
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return "", false, err
	}

	line := strings.TrimSpace(string(content))
	if !strings.HasPrefix(line, "gitdir:") {
		return "", false, fmt.Errorf("%s: missing gitdir pointer", gitPath)
	}

	gitDir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}
	return filepath.Clean(gitDir), true, nil
}
