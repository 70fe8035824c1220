package tui

import (
	"context"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackchuka/gp/internal/engine"
	"github.com/jackchuka/gp/internal/model"
	"github.com/jackchuka/gp/internal/watcher"
)

const historyLen = 16

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

type Toast struct {
	ID        int
	Message   string
	Level     ToastLevel
	CreatedAt time.Time
}

// Entry is one watched directory and its latest snapshot.
type Entry struct {
	Dir     string
	Snap    *engine.Snapshot
	Err     error
	Renders int
	Elapsed []int // recent render durations in ms, oldest first
	Watched bool
}

func (e *Entry) Root() string {
	if e.Snap != nil && e.Snap.Repo != nil {
		return e.Snap.Repo.Root
	}
	return e.Dir
}

func (e *Entry) DisplayName() string {
	if e.Snap != nil && e.Snap.Repo != nil {
		return e.Snap.Repo.DisplayName()
	}
	return e.Dir
}

func (e *Entry) values() *model.Values {
	if e.Snap == nil || e.Snap.Repo == nil {
		return nil
	}
	return &e.Snap.Values
}

type AnimState struct {
	frame    int
	glowFade map[string]int // entry dir -> glow step
}

func newAnimState() AnimState {
	return AnimState{glowFade: make(map[string]int)}
}

type SummaryData struct {
	TotalRepos  int
	DirtyRepos  int
	AheadRepos  int
	BehindRepos int
	ActionRepos int

	TotalIndexed   int
	TotalUnindexed int
	TotalUntracked int
}

type Model struct {
	eng     *engine.Engine
	entries []*Entry
	cursor  int

	width, height int
	scrollOffset  int

	loading    int // renders in flight
	showHelp   bool
	showDetail bool

	summary SummaryData
	anim    AnimState
	toasts  []Toast

	watcher     watcher.RepoWatcher
	watchCancel context.CancelFunc

	keys        keyMap
	nextToastID int
	animRunning bool
}

func NewModel(eng *engine.Engine, w watcher.RepoWatcher, dirs []string) *Model {
	entries := make([]*Entry, len(dirs))
	for i, d := range dirs {
		entries[i] = &Entry{Dir: d}
	}
	return &Model{
		eng:        eng,
		entries:    entries,
		keys:       newKeyMap(),
		showDetail: true,
		watcher:    w,
		anim:       newAnimState(),
	}
}

func (m *Model) Init() tea.Cmd {
	m.animRunning = true
	cmds := []tea.Cmd{
		m.renderAll(),
		func() tea.Msg { return animTickMsg{} },
	}
	if m.watcher != nil {
		cmds = append(cmds, m.startWatcher())
	}
	return tea.Batch(cmds...)
}

type snapshotMsg struct {
	dir     string
	snap    *engine.Snapshot
	err     error
	elapsed time.Duration
}
type repoChangedMsg struct{ root string }
type animTickMsg struct{}
type toastExpiredMsg struct{ id int }

func (m *Model) computeSummary() {
	s := SummaryData{}
	for _, e := range m.entries {
		s.TotalRepos++
		v := e.values()
		if v == nil {
			continue
		}
		if v.IsDirty() {
			s.DirtyRepos++
		}
		if v.Ahead > 0 {
			s.AheadRepos++
		}
		if v.Behind > 0 {
			s.BehindRepos++
		}
		if v.Action != "" {
			s.ActionRepos++
		}
		s.TotalIndexed += v.Indexed
		s.TotalUnindexed += v.Unindexed
		s.TotalUntracked += v.Untracked
	}
	m.summary = s
}

func (m *Model) selectedEntry() *Entry {
	if len(m.entries) == 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return m.entries[m.cursor]
}

func (m *Model) entryByRoot(root string) *Entry {
	for _, e := range m.entries {
		if e.Root() == root {
			return e
		}
	}
	return nil
}

func (m *Model) entryByDir(dir string) *Entry {
	for _, e := range m.entries {
		if e.Dir == dir {
			return e
		}
	}
	return nil
}

// applySnapshot stores msg on its entry and reports whether anything a
// user would see has changed.
func (m *Model) applySnapshot(msg snapshotMsg) (*Entry, bool) {
	e := m.entryByDir(msg.dir)
	if e == nil {
		return nil, false
	}

	e.Renders++
	e.Err = msg.err
	e.Elapsed = append(e.Elapsed, int(msg.elapsed.Milliseconds()))
	if len(e.Elapsed) > historyLen {
		e.Elapsed = e.Elapsed[len(e.Elapsed)-historyLen:]
	}
	if msg.err != nil {
		return e, false
	}

	prev := e.Snap
	e.Snap = msg.snap
	changed := prev == nil || msg.snap.Changed || !maps.Equal(prev.Outputs, msg.snap.Outputs)
	return e, changed
}

func (m *Model) addToast(msg string, level ToastLevel) tea.Cmd {
	id := m.nextToastID
	m.nextToastID++
	m.toasts = append(m.toasts, Toast{
		ID:        id,
		Message:   msg,
		Level:     level,
		CreatedAt: time.Now(),
	})
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return toastExpiredMsg{id}
	})
}

func (m *Model) updateAnimState() {
	m.anim.frame++

	// Step the border flash every 3 frames (300ms)
	if m.anim.frame%3 == 0 {
		for dir, step := range m.anim.glowFade {
			if step >= len(glowBorderColors)-1 {
				delete(m.anim.glowFade, dir)
			} else {
				m.anim.glowFade[dir] = step + 1
			}
		}
	}
}

func (m *Model) animTick() tea.Cmd {
	m.animRunning = true
	return tea.Tick(100*time.Millisecond, func(_ time.Time) tea.Msg {
		return animTickMsg{}
	})
}

func (m *Model) hasActiveAnimations() bool {
	return len(m.anim.glowFade) > 0 || m.loading > 0
}

func (m *Model) ensureAnimTick() tea.Cmd {
	if m.animRunning {
		return nil
	}
	return m.animTick()
}

func (m *Model) renderAll() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.entries))
	for i, e := range m.entries {
		cmds[i] = m.renderEntry(e)
	}
	return tea.Batch(cmds...)
}

func (m *Model) renderEntry(e *Entry) tea.Cmd {
	m.loading++
	dir := e.Dir
	var prev model.State
	if e.Snap != nil {
		prev = e.Snap.State
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		start := time.Now()
		snap, err := m.eng.Compute(ctx, dir, prev)
		return snapshotMsg{dir: dir, snap: snap, err: err, elapsed: time.Since(start)}
	}
}

func (m *Model) startWatcher() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.watchCancel = cancel
	go m.watcher.Run(ctx)
	return m.listenForChanges()
}

func (m *Model) listenForChanges() tea.Cmd {
	return func() tea.Msg {
		if m.watcher == nil {
			return nil
		}
		event, ok := <-m.watcher.Events()
		if !ok {
			return nil
		}
		return repoChangedMsg{root: event.RepoPath}
	}
}

func (m *Model) openShell(path string) tea.Cmd {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}
	cmd := exec.Command(shell)
	cmd.Dir = path
	return tea.ExecProcess(cmd, func(err error) tea.Msg { return nil })
}

func (m *Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("pbcopy")
		case "windows":
			cmd = exec.Command("clip")
		default:
			if _, err := exec.LookPath("xclip"); err == nil {
				cmd = exec.Command("xclip", "-selection", "clipboard")
			} else {
				cmd = exec.Command("xsel", "--clipboard", "--input")
			}
		}
		cmd.Stdin = strings.NewReader(text)
		_ = cmd.Run()
		return nil
	}
}

// Run shows a live preview of every output key for dirs until the user
// quits.
func Run(eng *engine.Engine, w watcher.RepoWatcher, dirs []string) error {
	m := NewModel(eng, w, dirs)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

	if m.watchCancel != nil {
		m.watchCancel()
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}

	return err
}
