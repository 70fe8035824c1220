package model

import "path/filepath"

// Repository is a located git working tree.
type Repository struct {
	Root       string // Absolute path to the working tree root
	GitDir     string // Per-worktree git directory (differs from Root/.git for linked worktrees)
	IsWorktree bool   // True if .git is a file pointing elsewhere

	Branch   string // Short branch name (empty if detached or unknown)
	Detached bool   // True if HEAD points directly at a commit
}

func (r *Repository) DisplayName() string {
	return filepath.Base(r.Root)
}

// OnBranch reports whether HEAD is a symbolic ref to a local branch.
func (r *Repository) OnBranch() bool {
	return r.Branch != "" && !r.Detached
}

// Values holds the raw field values gathered for one render.
type Values struct {
	Branch   string
	Commit   string // Short hash of HEAD (detached only)
	Position string // Tag-relative description of HEAD (detached only)
	Remote   string // Upstream name with refs/remotes/ stripped

	Ahead  int
	Behind int

	Action  string // In-progress operation, e.g. "rebase-i"
	Stashed int

	// Working tree state. In fast mode these are 0 or 1.
	Indexed   int
	Unindexed int
	Untracked int
	Dirty     int
}

func (v *Values) IsDirty() bool {
	return v.Dirty > 0
}

func (v *Values) IsDiverged() bool {
	return v.Ahead > 0 && v.Behind > 0
}

// State is the pair of cache cells a caller keeps between renders to detect
// display-relevant change without recomputing everything.
type State struct {
	Branch   string
	Position string
}

func (s State) IsZero() bool {
	return s == State{}
}
