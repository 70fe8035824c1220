package probe

import "github.com/jackchuka/gp/internal/model"

// Apply folds one result into v.
func Apply(v *model.Values, r Result) {
	switch r := r.(type) {
	case ActionResult:
		v.Action = r.Name
	case StashResult:
		v.Stashed = r.Count
	case UpstreamResult:
		v.Remote = r.Remote
	case AheadBehindResult:
		v.Ahead, v.Behind = r.Ahead, r.Behind
	case CommitResult:
		v.Commit = r.Hash
	case PositionResult:
		v.Position = r.Label
	case DiffResult:
		if !r.Differs() {
			return
		}
		switch r.Scope {
		case ScopeWorktree:
			v.Unindexed = 1
		case ScopeIndex:
			v.Indexed = 1
		}
		v.Dirty = 1
	case StatusResult:
		c := ClassifyPorcelain(r.Lines)
		v.Indexed = c.Indexed
		v.Unindexed = c.Unindexed
		v.Untracked = c.Untracked
		v.Dirty = c.Dirty
	case UnknownResult:
		// ignored
	}
}

// Collect drains results into a fresh Values seeded with base.
func Collect(base model.Values, results <-chan Result) model.Values {
	v := base
	for r := range results {
		Apply(&v, r)
	}
	return v
}
