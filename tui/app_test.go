package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jackchuka/gp/internal/config"
	"github.com/jackchuka/gp/internal/engine"
	"github.com/jackchuka/gp/internal/model"
)

func newTestModel(t *testing.T, dirs ...string) *Model {
	t.Helper()
	eng, err := engine.New(config.NewConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(eng, nil, dirs)
}

func snapshot(branch, prompt string, dirty bool) *engine.Snapshot {
	v := model.Values{Branch: branch}
	if dirty {
		v.Dirty = 1
	}
	return &engine.Snapshot{
		Repo:    &model.Repository{Root: "/repo", Branch: branch},
		Values:  v,
		Outputs: map[string]string{"prompt": prompt},
		State:   model.State{Branch: branch},
	}
}

func TestUpdate_SnapshotGlowsOnlyOnChange(t *testing.T) {
	m := newTestModel(t, "/repo")

	m.Update(snapshotMsg{dir: "/repo", snap: snapshot("main", "main ✔", false)})
	if _, ok := m.anim.glowFade["/repo"]; ok {
		t.Error("first render should not flash")
	}

	m.Update(snapshotMsg{dir: "/repo", snap: snapshot("main", "main ✔", false)})
	if _, ok := m.anim.glowFade["/repo"]; ok {
		t.Error("identical render should not flash")
	}

	m.Update(snapshotMsg{dir: "/repo", snap: snapshot("main", "main *", true)})
	if _, ok := m.anim.glowFade["/repo"]; !ok {
		t.Error("changed output should flash")
	}

	e := m.entries[0]
	if e.Renders != 3 || len(e.Elapsed) != 3 {
		t.Errorf("Renders=%d Elapsed=%d, want 3/3", e.Renders, len(e.Elapsed))
	}
	if m.summary.DirtyRepos != 1 {
		t.Errorf("DirtyRepos = %d, want 1", m.summary.DirtyRepos)
	}
}

func TestUpdate_ElapsedHistoryBounded(t *testing.T) {
	m := newTestModel(t, "/repo")
	for range historyLen + 5 {
		m.Update(snapshotMsg{dir: "/repo", snap: snapshot("main", "main", false)})
	}
	if got := len(m.entries[0].Elapsed); got != historyLen {
		t.Errorf("len(Elapsed) = %d, want %d", got, historyLen)
	}
}

func TestUpdate_CursorNavigation(t *testing.T) {
	m := newTestModel(t, "/a", "/b", "/c")

	press := func(k string) {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}

	press("j")
	press("j")
	press("j")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
	press("g")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after top, want 0", m.cursor)
	}
	press("G")
	if m.cursor != 2 {
		t.Errorf("cursor = %d after bottom, want 2", m.cursor)
	}
}

func TestView_RendersOutputs(t *testing.T) {
	m := newTestModel(t, "/repo")
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m.Update(snapshotMsg{dir: "/repo", snap: snapshot("main", "main ✔", false)})

	view := ansi.Strip(m.View())
	for _, want := range []string{"gp", "PROMPT", "main ✔", "GP_PROMPT"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestShellLines(t *testing.T) {
	got := shellLines([]string{"left", "right"}, map[string]string{
		"left":  "it's",
		"right": "",
	})
	want := "GP_LEFT='it'\\''s'\nGP_RIGHT=''\n"
	if got != want {
		t.Errorf("shellLines() = %q, want %q", got, want)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"main", 10, "main"},
		{"feature/long", 8, "feature…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateWithEllipsis(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
