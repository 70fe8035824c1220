// Package engine computes one prompt snapshot: locate the repository, plan
// and run the probes, then render fields and outputs.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackchuka/gp/internal/config"
	"github.com/jackchuka/gp/internal/format"
	"github.com/jackchuka/gp/internal/gitcmd"
	"github.com/jackchuka/gp/internal/locator"
	"github.com/jackchuka/gp/internal/model"
	"github.com/jackchuka/gp/internal/probe"
)

// Snapshot is the result of one render.
type Snapshot struct {
	Repo    *model.Repository // nil outside a repository
	Values  model.Values
	Fields  map[model.Field]string
	Outputs map[string]string

	// State holds the cache cells for the next call; Changed reports
	// whether they differ from the ones passed in.
	State   model.State
	Changed bool
}

type Engine struct {
	set              *format.Set
	git              gitcmd.Runner
	verbose          bool
	ignoreSubmodules string
	timeout          time.Duration

	locate func(dir string) (*model.Repository, error)
}

// New compiles cfg's templates and returns an engine that runs git through
// runner.
func New(cfg *config.Config, runner gitcmd.Runner) (*Engine, error) {
	set, err := cfg.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile templates: %w", err)
	}
	return &Engine{
		set:              set,
		git:              runner,
		verbose:          cfg.Verbose,
		ignoreSubmodules: cfg.IgnoreSubmodules,
		timeout:          cfg.ProbeTimeout.Std(),
		locate:           locator.Locate,
	}, nil
}

// Set returns the compiled templates.
func (e *Engine) Set() *format.Set {
	return e.set
}

// Plan returns the probes a render of repo would run.
func (e *Engine) Plan(repo *model.Repository) []probe.Probe {
	return probe.Plan(probe.Request{
		Fields:   e.set.Requested(),
		Verbose:  e.verbose,
		OnBranch: repo.OnBranch(),
		Detached: repo.Detached,
	})
}

// Probe locates the repository containing dir and returns the raw results
// of its planned probes. repo is nil outside a repository.
func (e *Engine) Probe(ctx context.Context, dir string) (*model.Repository, []probe.Result, error) {
	repo, err := e.locate(dir)
	if err != nil || repo == nil {
		return nil, nil, err
	}
	return repo, probe.RunAll(ctx, e.env(repo), e.Plan(repo), e.timeout), nil
}

// Compute renders a snapshot of the repository containing dir. prev is the
// State returned by the previous call, or the zero value.
//
// Outside a repository every output key maps to "" and err is nil.
func (e *Engine) Compute(ctx context.Context, dir string, prev model.State) (*Snapshot, error) {
	repo, err := e.locate(dir)
	if err != nil {
		slog.Debug("locate repository failed", slog.String("dir", dir), slog.Any("error", err))
		repo = nil
	}
	if repo == nil {
		return e.empty(prev), nil
	}

	base := model.Values{Branch: repo.Branch}

	var values model.Values
	if probes := e.Plan(repo); len(probes) == 0 {
		values = base
	} else {
		values = probe.Collect(base, probe.Run(ctx, e.env(repo), probes, e.timeout))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := e.set.RenderFields(values)
	state := model.State{Branch: values.Branch, Position: values.Position}

	slog.Debug("snapshot computed",
		slog.String("root", repo.Root),
		slog.String("branch", values.Branch),
		slog.Bool("dirty", values.IsDirty()),
	)

	return &Snapshot{
		Repo:    repo,
		Values:  values,
		Fields:  fields,
		Outputs: e.set.RenderOutputs(fields),
		State:   state,
		Changed: state != prev,
	}, nil
}

func (e *Engine) env(repo *model.Repository) probe.Env {
	return probe.Env{
		Git:              e.git,
		Repo:             repo,
		IgnoreSubmodules: e.ignoreSubmodules,
	}
}

func (e *Engine) empty(prev model.State) *Snapshot {
	return &Snapshot{
		Fields:  map[model.Field]string{},
		Outputs: e.set.EmptyOutputs(),
		Changed: !prev.IsZero(),
	}
}
