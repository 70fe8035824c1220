package format

import (
	"slices"
	"testing"

	"github.com/jackchuka/gp/internal/model"
)

func newSet(fields map[model.Field]string, outputs map[string]string) *Set {
	s := &Set{
		Fields:          make(map[model.Field]*Template),
		Outputs:         make(map[string]*Template),
		BranchMaxLength: DefaultBranchMaxLength,
	}
	for f, src := range fields {
		s.Fields[f] = MustParse(src)
	}
	for k, src := range outputs {
		s.Outputs[k] = MustParse(src)
	}
	return s
}

func TestRenderFields_AheadBehindDiverged(t *testing.T) {
	v := model.Values{Ahead: 3, Behind: 2}

	t.Run("diverged template suppresses ahead and behind", func(t *testing.T) {
		s := newSet(map[model.Field]string{
			model.FieldAhead:    "↑{ahead}",
			model.FieldBehind:   "↓{behind}",
			model.FieldDiverged: "↕{ahead}/{behind}",
		}, nil)

		got := s.RenderFields(v)
		if got[model.FieldAhead] != "" || got[model.FieldBehind] != "" {
			t.Errorf("ahead=%q behind=%q, want both empty", got[model.FieldAhead], got[model.FieldBehind])
		}
		if got[model.FieldDiverged] != "↕3/2" {
			t.Errorf("diverged = %q, want ↕3/2", got[model.FieldDiverged])
		}
	})

	t.Run("no diverged template renders both", func(t *testing.T) {
		s := newSet(map[model.Field]string{
			model.FieldAhead:  "↑{ahead}",
			model.FieldBehind: "↓{behind}",
		}, nil)

		got := s.RenderFields(v)
		if got[model.FieldAhead] != "↑3" {
			t.Errorf("ahead = %q, want ↑3", got[model.FieldAhead])
		}
		if got[model.FieldBehind] != "↓2" {
			t.Errorf("behind = %q, want ↓2", got[model.FieldBehind])
		}
	})

	t.Run("diverged template with ahead only", func(t *testing.T) {
		s := newSet(map[model.Field]string{
			model.FieldAhead:    "↑{ahead}",
			model.FieldBehind:   "↓{behind}",
			model.FieldDiverged: "↕",
		}, nil)

		got := s.RenderFields(model.Values{Ahead: 4})
		if got[model.FieldAhead] != "↑4" || got[model.FieldBehind] != "" || got[model.FieldDiverged] != "" {
			t.Errorf("got %v", got)
		}
	})
}

func TestRenderFields_DirtyCleanExclusive(t *testing.T) {
	s := newSet(map[model.Field]string{
		model.FieldDirty: "*",
		model.FieldClean: "✔",
	}, nil)

	for _, dirty := range []int{0, 1, 5} {
		got := s.RenderFields(model.Values{Dirty: dirty})
		d, c := got[model.FieldDirty] != "", got[model.FieldClean] != ""
		if d == c {
			t.Errorf("Dirty=%d: dirty=%q clean=%q, want exactly one", dirty, got[model.FieldDirty], got[model.FieldClean])
		}
	}
}

func TestRenderFields_ZeroCountsNotFormatted(t *testing.T) {
	s := newSet(map[model.Field]string{
		model.FieldStashed:   "≡{stashed}",
		model.FieldIndexed:   "+{indexed}",
		model.FieldUnindexed: "!{unindexed}",
		model.FieldUntracked: "?{untracked}",
	}, nil)

	got := s.RenderFields(model.Values{})
	for _, f := range []model.Field{model.FieldStashed, model.FieldIndexed, model.FieldUnindexed, model.FieldUntracked} {
		if got[f] != "" {
			t.Errorf("%s = %q, want empty", f, got[f])
		}
	}

	got = s.RenderFields(model.Values{Stashed: 2, Indexed: 1, Unindexed: 3, Untracked: 4})
	want := map[model.Field]string{
		model.FieldStashed:   "≡2",
		model.FieldIndexed:   "+1",
		model.FieldUnindexed: "!3",
		model.FieldUntracked: "?4",
	}
	for f, w := range want {
		if got[f] != w {
			t.Errorf("%s = %q, want %q", f, got[f], w)
		}
	}
}

func TestRenderFields_EmptyTemplateNeverRenders(t *testing.T) {
	s := newSet(map[model.Field]string{model.FieldBranch: ""}, nil)
	got := s.RenderFields(model.Values{Branch: "main", Ahead: 1, Dirty: 1})
	if len(got) != 0 {
		t.Errorf("RenderFields() = %v, want empty", got)
	}
}

func TestRenderFields_ActionOverride(t *testing.T) {
	s := newSet(map[model.Field]string{model.FieldAction: "|{action}"}, nil)
	s.Actions = map[string]string{"rebase-i": "REBASE-i"}

	if got := s.RenderFields(model.Values{Action: "rebase-i"})[model.FieldAction]; got != "|REBASE-i" {
		t.Errorf("action = %q, want |REBASE-i", got)
	}
	if got := s.RenderFields(model.Values{Action: "merge"})[model.FieldAction]; got != "|merge" {
		t.Errorf("action = %q, want |merge", got)
	}
}

func TestRenderFields_BranchShortened(t *testing.T) {
	s := newSet(map[model.Field]string{model.FieldBranch: "[{branch}]"}, nil)
	s.BranchMaxLength = 10

	got := s.RenderFields(model.Values{Branch: "feature/very-long-name"})[model.FieldBranch]
	if got != "[fe…ng-name]" {
		t.Errorf("branch = %q, want [fe…ng-name]", got)
	}
}

func TestRenderOutputs(t *testing.T) {
	s := newSet(map[model.Field]string{
		model.FieldBranch: "{branch}",
		model.FieldAhead:  "↑{ahead}",
		model.FieldDirty:  "*",
		model.FieldClean:  "",
	}, map[string]string{
		"left":  "{branch}{ahead}{dirty}",
		"right": "{dirty} {branch}",
		"none":  "{stashed}{bogus}",
	})

	fields := s.RenderFields(model.Values{Branch: "main", Ahead: 2, Dirty: 1})
	got := s.RenderOutputs(fields)

	want := map[string]string{
		"left":  "main↑2*",
		"right": "* main",
		"none":  "",
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("output %q = %q, want %q", k, got[k], w)
		}
	}
}

func TestRenderOutputs_UsesFormattedNotRawValues(t *testing.T) {
	s := newSet(map[model.Field]string{
		model.FieldBranch: "{branch}",
	}, map[string]string{"prompt": "{branch}"})

	hostile := "x{dirty}"
	got := s.RenderOutputs(s.RenderFields(model.Values{Branch: hostile, Dirty: 1}))
	if got["prompt"] != hostile {
		t.Errorf("prompt = %q, want %q", got["prompt"], hostile)
	}
}

func TestSet_RequestedAndKeys(t *testing.T) {
	s := newSet(map[model.Field]string{
		model.FieldBranch: "{branch}",
		model.FieldAhead:  "",
	}, map[string]string{"b": "", "a": ""})

	req := s.Requested()
	if !req[model.FieldBranch] || req[model.FieldAhead] {
		t.Errorf("Requested() = %v", req)
	}
	if !s.Wants(model.FieldAhead, model.FieldBranch) {
		t.Error("Wants(ahead, branch) should be true")
	}
	if s.Wants(model.FieldAhead, model.FieldDirty) {
		t.Error("Wants(ahead, dirty) should be false")
	}
	if got := s.OutputKeys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("OutputKeys() = %v", got)
	}

	empty := s.EmptyOutputs()
	if len(empty) != 2 || empty["a"] != "" || empty["b"] != "" {
		t.Errorf("EmptyOutputs() = %v", empty)
	}
}
