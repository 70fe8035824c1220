package probe

import (
	"slices"
	"testing"

	"github.com/jackchuka/gp/internal/model"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "nothing requested",
			req:  Request{OnBranch: true},
			want: nil,
		},
		{
			name: "branch alone needs no probe",
			req:  Request{Fields: fields(model.FieldBranch), OnBranch: true},
			want: nil,
		},
		{
			name: "action and stash",
			req:  Request{Fields: fields(model.FieldAction, model.FieldStashed), OnBranch: true},
			want: []string{"action", "stash"},
		},
		{
			name: "remote on branch",
			req:  Request{Fields: fields(model.FieldRemote), OnBranch: true},
			want: []string{"upstream"},
		},
		{
			name: "remote when detached",
			req:  Request{Fields: fields(model.FieldRemote), Detached: true},
			want: nil,
		},
		{
			name: "ahead behind diverged share one probe",
			req:  Request{Fields: fields(model.FieldAhead, model.FieldBehind, model.FieldDiverged), OnBranch: true},
			want: []string{"ahead-behind"},
		},
		{
			name: "diverged alone",
			req:  Request{Fields: fields(model.FieldDiverged), OnBranch: true},
			want: []string{"ahead-behind"},
		},
		{
			name: "commit and position on branch",
			req:  Request{Fields: fields(model.FieldCommit, model.FieldPosition), OnBranch: true},
			want: nil,
		},
		{
			name: "commit and position detached",
			req:  Request{Fields: fields(model.FieldCommit, model.FieldPosition), Detached: true},
			want: []string{"commit", "position"},
		},
		{
			name: "dirty clean fast mode",
			req:  Request{Fields: fields(model.FieldDirty, model.FieldClean), OnBranch: true},
			want: []string{"worktree-diff"},
		},
		{
			name: "indexed and unindexed fast mode",
			req:  Request{Fields: fields(model.FieldIndexed, model.FieldUnindexed), OnBranch: true},
			want: []string{"worktree-diff", "index-diff"},
		},
		{
			name: "indexed alone fast mode",
			req:  Request{Fields: fields(model.FieldIndexed), OnBranch: true},
			want: []string{"index-diff"},
		},
		{
			name: "untracked in fast mode has no probe",
			req:  Request{Fields: fields(model.FieldUntracked), OnBranch: true},
			want: nil,
		},
		{
			name: "verbose replaces diffs with one scan",
			req:  Request{Fields: fields(model.FieldIndexed, model.FieldUnindexed, model.FieldDirty, model.FieldClean), Verbose: true, OnBranch: true},
			want: []string{"status"},
		},
		{
			name: "verbose untracked",
			req:  Request{Fields: fields(model.FieldUntracked), Verbose: true, OnBranch: true},
			want: []string{"status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := probeNames(Plan(tt.req))
			if len(got) == 0 {
				got = nil
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Plan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlan_NeverDuplicates(t *testing.T) {
	all := make(map[model.Field]bool)
	for _, f := range model.Fields {
		all[f] = true
	}

	for _, req := range []Request{
		{Fields: all, OnBranch: true},
		{Fields: all, Detached: true},
		{Fields: all, Verbose: true, OnBranch: true},
	} {
		seen := make(map[string]bool)
		for _, name := range probeNames(Plan(req)) {
			if seen[name] {
				t.Errorf("probe %q planned twice for %+v", name, req)
			}
			seen[name] = true
		}
	}
}

func TestPlan_WorktreeOptions(t *testing.T) {
	git := newFakeGit(nil)
	env := fakeEnv(git)

	t.Run("dirty clean only compares against HEAD", func(t *testing.T) {
		probes := Plan(Request{Fields: fields(model.FieldDirty, model.FieldClean), OnBranch: true})
		results := probes[0].Run(t.Context(), env)
		if len(results) != 1 {
			t.Fatalf("results = %v", results)
		}
		if r := results[0].(DiffResult); r.Scope != ScopeHead {
			t.Errorf("Scope = %v, want ScopeHead", r.Scope)
		}
	})

	t.Run("unindexed compares against index", func(t *testing.T) {
		probes := Plan(Request{Fields: fields(model.FieldUnindexed), OnBranch: true})
		results := probes[0].Run(t.Context(), env)
		if r := results[0].(DiffResult); r.Scope != ScopeWorktree {
			t.Errorf("Scope = %v, want ScopeWorktree", r.Scope)
		}
	})
}
