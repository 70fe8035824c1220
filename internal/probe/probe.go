// Package probe plans, runs and decodes the independent git queries that
// make up one prompt render.
package probe

import (
	"context"
	"log/slog"

	"github.com/jackchuka/gp/internal/gitcmd"
	"github.com/jackchuka/gp/internal/model"
)

// Tag identifies the kind of a probe result on the wire.
type Tag byte

const (
	TagAction      Tag = 's'
	TagStash       Tag = 'S'
	TagUpstream    Tag = 'R'
	TagAheadBehind Tag = 'A'
	TagCommit      Tag = 'c'
	TagPosition    Tag = 'p'
	TagIndexed     Tag = 'I'
	TagUnindexed   Tag = 'i'
	TagHeadDiff    Tag = 'h'

	// TagNone marks results with no single-line wire form.
	TagNone Tag = 0
)

func (t Tag) String() string {
	if t == TagNone {
		return ""
	}
	return string(rune(t))
}

// Env is what a probe may read while it runs.
type Env struct {
	Git              gitcmd.Runner
	Repo             *model.Repository
	IgnoreSubmodules string // passed to git as --ignore-submodules=<policy>
}

// Probe is one unit of concurrent work. Run must always return at least
// one result, even when the underlying command fails.
type Probe struct {
	Name string
	Tag  Tag
	Run  func(ctx context.Context, env Env) []Result
}

// git runs a command in the repository root. Process-level failures are
// logged and reported as ok=false; non-zero exits are returned normally.
func (e Env) git(ctx context.Context, args ...string) (gitcmd.Result, bool) {
	res, err := e.Git.Run(ctx, e.Repo.Root, args...)
	if err != nil {
		slog.Debug("probe command failed", slog.Any("args", args), slog.Any("error", err))
		return gitcmd.Result{}, false
	}
	return res, true
}

func (e Env) submoduleFlag() []string {
	if e.IgnoreSubmodules == "" {
		return nil
	}
	return []string{"--ignore-submodules=" + e.IgnoreSubmodules}
}
