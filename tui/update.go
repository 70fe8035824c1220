package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case animTickMsg:
		m.updateAnimState()
		if m.hasActiveAnimations() {
			return m, m.animTick()
		}
		m.animRunning = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		if m.loading > 0 {
			m.loading--
		}
		e, changed := m.applySnapshot(msg)
		if e == nil {
			return m, nil
		}
		m.computeSummary()

		var cmds []tea.Cmd
		if msg.err != nil {
			cmds = append(cmds, m.addToast("Render failed: "+msg.err.Error(), ToastError))
		}
		if m.watcher != nil && !e.Watched && e.Snap != nil && e.Snap.Repo != nil {
			if err := m.watcher.Watch(e.Snap.Repo); err != nil {
				slog.Warn("watch repository", slog.String("root", e.Root()), slog.Any("error", err))
				cmds = append(cmds, m.addToast("Watch failed: "+err.Error(), ToastError))
			} else {
				e.Watched = true
			}
		}
		// The first render of an entry is not a change worth flashing.
		if changed && e.Renders > 1 {
			m.anim.glowFade[e.Dir] = 0
			cmds = append(cmds, m.ensureAnimTick())
		}
		return m, tea.Batch(cmds...)

	case repoChangedMsg:
		cmds := []tea.Cmd{m.listenForChanges()}
		if e := m.entryByRoot(msg.root); e != nil {
			cmds = append(cmds, m.renderEntry(e), m.ensureAnimTick())
		}
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.ID == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay: any key closes
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}

	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(m.renderAll(), m.ensureAnimTick())

	case key.Matches(msg, m.keys.Shell):
		if e := m.selectedEntry(); e != nil {
			return m, m.openShell(e.Root())
		}

	case key.Matches(msg, m.keys.CopyOutput):
		if e := m.selectedEntry(); e != nil && e.Snap != nil {
			return m, tea.Batch(
				m.copyToClipboard(shellLines(m.eng.Set().OutputKeys(), e.Snap.Outputs)),
				m.addToast("Copied outputs", ToastInfo),
			)
		}

	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m *Model) visibleRows() int {
	// header(2) + summary(5) + table header(1) + footer(2) = 10
	return max(m.height-10, 1)
}
