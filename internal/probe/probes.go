package probe

import (
	"context"
	"strings"
)

var diffQuiet = []string{"diff", "--no-ext-diff", "--quiet", "--exit-code"}

func actionProbe() Probe {
	return Probe{
		Name: "action",
		Tag:  TagAction,
		Run: func(_ context.Context, env Env) []Result {
			return []Result{ActionResult{Name: detectAction(env.Repo.GitDir)}}
		},
	}
}

func stashProbe() Probe {
	return Probe{
		Name: "stash",
		Tag:  TagStash,
		Run: func(ctx context.Context, env Env) []Result {
			res, ok := env.git(ctx, "rev-list", "--walk-reflogs", "--count", "refs/stash")
			if !ok || !res.OK() {
				return []Result{StashResult{}}
			}
			return []Result{parsePayload(TagStash, res.Trimmed())}
		},
	}
}

func upstreamProbe() Probe {
	return Probe{
		Name: "upstream",
		Tag:  TagUpstream,
		Run: func(ctx context.Context, env Env) []Result {
			res, ok := env.git(ctx, "rev-parse", "--symbolic-full-name", "@{upstream}")
			if !ok || !res.OK() {
				return []Result{UpstreamResult{}}
			}
			return []Result{parsePayload(TagUpstream, res.Trimmed())}
		},
	}
}

func aheadBehindProbe() Probe {
	return Probe{
		Name: "ahead-behind",
		Tag:  TagAheadBehind,
		Run: func(ctx context.Context, env Env) []Result {
			res, ok := env.git(ctx, "rev-list", "--count", "--left-right", "HEAD...@{upstream}")
			if !ok || !res.OK() {
				return []Result{AheadBehindResult{}}
			}
			return []Result{parsePayload(TagAheadBehind, res.Trimmed())}
		},
	}
}

func commitProbe() Probe {
	return Probe{
		Name: "commit",
		Tag:  TagCommit,
		Run: func(ctx context.Context, env Env) []Result {
			res, ok := env.git(ctx, "rev-parse", "--short", "HEAD")
			if !ok || !res.OK() {
				return []Result{CommitResult{}}
			}
			return []Result{parsePayload(TagCommit, res.Trimmed())}
		},
	}
}

func positionProbe() Probe {
	return Probe{
		Name: "position",
		Tag:  TagPosition,
		Run: func(ctx context.Context, env Env) []Result {
			res, ok := env.git(ctx, "describe", "--tags", "HEAD")
			if !ok || !res.OK() {
				return []Result{PositionResult{}}
			}
			return []Result{parsePayload(TagPosition, res.Trimmed())}
		},
	}
}

// worktreeOptions shapes the fast-mode working tree probe.
type worktreeOptions struct {
	// againstHead compares the working tree with HEAD instead of the index,
	// so one command answers dirty/clean when unindexed is not rendered.
	againstHead bool
	// indexFallback runs the index diff when the working tree shows no
	// differences, to settle dirty/clean without a separate index probe.
	indexFallback bool
}

func worktreeDiffProbe(opts worktreeOptions) Probe {
	return Probe{
		Name: "worktree-diff",
		Tag:  TagUnindexed,
		Run: func(ctx context.Context, env Env) []Result {
			scope := ScopeWorktree
			args := append(append([]string{}, diffQuiet...), env.submoduleFlag()...)
			if opts.againstHead {
				scope = ScopeHead
				args = append(args, "HEAD")
			}
			args = append(args, "--")

			wt := quietDiff(ctx, env, scope, args)
			if opts.againstHead && wt.Code > 1 {
				wt = unbornHeadDiff(ctx, env)
			}
			results := []Result{wt}
			if opts.indexFallback && !wt.Differs() {
				results = append(results, indexDiff(ctx, env))
			}
			return results
		},
	}
}

// unbornHeadDiff answers the working tree vs HEAD question when HEAD cannot
// be compared against (exit 128 on an unborn branch): the tree differs when
// either the worktree/index or the index/HEAD diff does.
func unbornHeadDiff(ctx context.Context, env Env) DiffResult {
	args := append(append([]string{}, diffQuiet...), env.submoduleFlag()...)
	wt := quietDiff(ctx, env, ScopeWorktree, append(args, "--"))
	if wt.Differs() {
		return DiffResult{Scope: ScopeHead, Code: 1}
	}
	if indexDiff(ctx, env).Differs() {
		return DiffResult{Scope: ScopeHead, Code: 1}
	}
	return DiffResult{Scope: ScopeHead}
}

func indexDiffProbe() Probe {
	return Probe{
		Name: "index-diff",
		Tag:  TagIndexed,
		Run: func(ctx context.Context, env Env) []Result {
			return []Result{indexDiff(ctx, env)}
		},
	}
}

func indexDiff(ctx context.Context, env Env) DiffResult {
	args := append(append([]string{}, diffQuiet...), "--cached")
	args = append(append(args, env.submoduleFlag()...), "--")
	return quietDiff(ctx, env, ScopeIndex, args)
}

// quietDiff maps the exit code of a quiet diff. A command that could not
// run reports no differences.
func quietDiff(ctx context.Context, env Env, scope DiffScope, args []string) DiffResult {
	res, ok := env.git(ctx, args...)
	if !ok {
		return DiffResult{Scope: scope}
	}
	return DiffResult{Scope: scope, Code: res.ExitCode}
}

func statusProbe() Probe {
	return Probe{
		Name: "status",
		Tag:  TagNone,
		Run: func(ctx context.Context, env Env) []Result {
			args := append([]string{"status", "--porcelain", "--untracked-files=normal"}, env.submoduleFlag()...)
			res, ok := env.git(ctx, args...)
			if !ok || !res.OK() {
				return []Result{StatusResult{}}
			}
			return []Result{StatusResult{Lines: splitLines(res.Stdout)}}
		},
	}
}

// splitLines splits command output into non-empty lines. Leading spaces are
// significant in porcelain output and are kept.
func splitLines(s string) []string {
	var lines []string
	for line := range strings.SplitSeq(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
