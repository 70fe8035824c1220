package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jackchuka/gp/internal/format"
	"github.com/jackchuka/gp/internal/model"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			strings.Join(sections, "\n"))
	}

	sections = append(sections, m.renderSummaryPanel())
	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderFooter())

	view := lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
		strings.Join(sections, "\n"))

	if len(m.toasts) > 0 {
		toast := m.renderToasts()
		x := m.width - lipgloss.Width(toast) - 2
		y := m.height - lipgloss.Height(toast) - 2
		view = placeOverlay(x, y, toast, view)
	}

	return view
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true).Render("gp")

	var spinner string
	if m.loading > 0 {
		spinner = "  " + renderSpinner(m.anim.frame) + " Rendering..."
	}

	s := m.summary
	bold := lipgloss.NewStyle().Bold(true)
	stats := styleDim.Render("repos ") + bold.Foreground(lipgloss.Color("255")).Render(fmt.Sprintf("%d", s.TotalRepos))
	if s.DirtyRepos > 0 {
		stats += "  " + styleDim.Render("dirty ") + bold.Foreground(colorDirtyAmber).Render(fmt.Sprintf("%d", s.DirtyRepos))
	}
	if s.AheadRepos > 0 {
		stats += "  " + styleDim.Render("ahead ") + bold.Foreground(colorCyan).Render(fmt.Sprintf("%d", s.AheadRepos))
	}
	if s.ActionRepos > 0 {
		stats += "  " + styleDim.Render("in progress ") + bold.Foreground(colorDangerRed).Render(fmt.Sprintf("%d", s.ActionRepos))
	}

	left := title + spinner
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(stats), 1)

	line := left + strings.Repeat(" ", gap) + stats
	sep := styleDim.Render(strings.Repeat("─", m.width))

	return line + "\n" + sep
}

// --- Summary panel ---

type summaryRow struct {
	style lipgloss.Style
	label string
	value int
	color lipgloss.Color
}

func renderSummaryColumn(header string, rows []summaryRow, maxVal, barW int) string {
	col := styleTableHdr.Render(header)
	for _, r := range rows {
		col += "\n" + r.style.Render(r.label) + renderHBar(r.value, maxVal, barW, r.color)
	}
	return col
}

func (m *Model) renderSummaryPanel() string {
	s := m.summary
	if s.TotalRepos == 0 {
		return ""
	}

	barW := 12

	changesMax := max(s.TotalIndexed+s.TotalUnindexed+s.TotalUntracked, 1)
	changesCol := renderSummaryColumn("CHANGES", []summaryRow{
		{styleIndexed, fmt.Sprintf(" indexed   %3d ", s.TotalIndexed), s.TotalIndexed, colorCleanGreen},
		{styleAmber, fmt.Sprintf(" unindexed %3d ", s.TotalUnindexed), s.TotalUnindexed, colorDirtyAmber},
		{styleDim, fmt.Sprintf(" untracked %3d ", s.TotalUntracked), s.TotalUntracked, colorDim},
	}, changesMax, barW)

	syncMax := max(s.TotalRepos, 1)
	syncCol := renderSummaryColumn("SYNC", []summaryRow{
		{styleAhead, fmt.Sprintf(" ahead  %3d ", s.AheadRepos), s.AheadRepos, colorDirtyAmber},
		{styleBehind, fmt.Sprintf(" behind %3d ", s.BehindRepos), s.BehindRepos, colorDangerRed},
		{styleCleanTxt, fmt.Sprintf(" clean  %3d ", s.TotalRepos-s.DirtyRepos), s.TotalRepos - s.DirtyRepos, colorCleanGreen},
	}, syncMax, barW)

	renderCol := styleTableHdr.Render("RENDER (ms)") + "\n"
	if e := m.selectedEntry(); e != nil && len(e.Elapsed) > 0 {
		renderCol += " " + renderSparkline(e.Elapsed, colorCyan) + "\n"
		renderCol += styleDim.Render(fmt.Sprintf(" last %dms, %d renders", e.Elapsed[len(e.Elapsed)-1], e.Renders))
	} else {
		renderCol += styleDim.Render(" waiting...")
	}

	gap := "   "
	panel := lipgloss.JoinHorizontal(lipgloss.Top, changesCol, gap, syncCol, gap, renderCol)

	sep := styleDim.Render(strings.Repeat("─", m.width))
	return panel + "\n" + sep
}

// --- Table ---

type columnWidths struct {
	repo   int
	branch int
	output int
}

func computeColumns(width int) columnWidths {
	usable := max(width-2, 40)
	c := columnWidths{
		repo:   max(usable*25/100, 10),
		branch: max(usable*25/100, 8),
	}
	c.output = max(usable-c.repo-c.branch, 10)
	return c
}

func (m *Model) renderTable() string {
	visRows := m.visibleRows()
	tableHeight := visRows + 1

	if len(m.entries) == 0 {
		return padLines("\n "+styleDim.Render("Nothing to watch"), 0, tableHeight)
	}

	contentWidth := m.width
	detailWidth := 0
	if m.showDetail && m.width >= 100 {
		detailWidth = m.width * 40 / 100
		contentWidth = m.width - detailWidth - 1
	}

	cols := computeColumns(contentWidth)
	outputKey := m.primaryOutput()

	hdr := " " +
		styleTableHdr.Render(padRight("REPO", cols.repo)) +
		styleTableHdr.Render(padRight("BRANCH", cols.branch)) +
		styleTableHdr.Render(padRight(strings.ToUpper(outputKey), cols.output))

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visRows {
		m.scrollOffset = m.cursor - visRows + 1
	}
	m.scrollOffset = max(m.scrollOffset, 0)
	end := min(m.scrollOffset+visRows, len(m.entries))

	tableLines := []string{hdr}
	for i := m.scrollOffset; i < end; i++ {
		tableLines = append(tableLines, m.renderTableRow(m.entries[i], cols, outputKey, i == m.cursor, i%2 == 1, contentWidth))
	}
	for len(tableLines) < tableHeight {
		tableLines = append(tableLines, "")
	}
	tableContent := strings.Join(tableLines, "\n")

	if detailWidth > 0 {
		detail := m.renderDetailPanel(detailWidth, tableHeight)
		sepLines := make([]string, tableHeight)
		for i := range sepLines {
			sepLines[i] = styleDim.Render("│")
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, tableContent, strings.Join(sepLines, "\n"), detail)
	}
	return tableContent
}

// primaryOutput is the output key shown in the table: "prompt" when
// declared, else the first key.
func (m *Model) primaryOutput() string {
	keys := m.eng.Set().OutputKeys()
	for _, k := range keys {
		if k == "prompt" {
			return k
		}
	}
	if len(keys) > 0 {
		return keys[0]
	}
	return "output"
}

// --- Row rendering ---

type rowRenderer struct {
	bg      func(lipgloss.Style) lipgloss.Style
	rowBg   lipgloss.Style
	hasGlow bool
	prefix  string
}

func (m *Model) newRowRenderer(e *Entry, selected, alt bool) rowRenderer {
	step, hasGlow := m.anim.glowFade[e.Dir]

	bg := func(base lipgloss.Style) lipgloss.Style {
		if selected {
			return base.Background(colorSelBg)
		}
		if alt {
			return base.Background(colorRowAlt)
		}
		return base
	}

	var prefix string
	if hasGlow {
		prefix = lipgloss.NewStyle().Foreground(glowBorderColors[step]).Render("▎")
	}

	return rowRenderer{
		bg:      bg,
		rowBg:   bg(lipgloss.NewStyle()),
		hasGlow: hasGlow,
		prefix:  prefix,
	}
}

func (r rowRenderer) repoCell(e *Entry, width int, selected bool) string {
	v := e.values()
	wt := e.Snap != nil && e.Snap.Repo != nil && e.Snap.Repo.IsWorktree

	var dot string
	switch {
	case e.Err != nil:
		dot = r.bg(styleConflict).Render(iconConflict)
	case v == nil:
		dot = r.bg(styleDim).Render(iconNoRepo)
	case v.Action != "":
		dot = r.bg(styleConflict).Render(iconConflict)
	case v.IsDirty() && wt:
		dot = r.bg(styleAmber).Render(iconDirtyWt)
	case v.IsDirty():
		dot = r.bg(styleAmber).Render(iconDirty)
	case wt:
		dot = r.bg(styleCleanTxt).Render(iconCleanWt)
	default:
		dot = r.bg(styleCleanTxt).Render(iconClean)
	}

	nameStyle := r.bg(styleRepoName)
	if selected && !r.hasGlow {
		nameStyle = nameStyle.Foreground(colorSelFg)
	}
	name := truncateWithEllipsis(e.DisplayName(), width-3)
	return r.rowBg.Width(width).Render(dot + r.rowBg.Render(" ") + nameStyle.Render(name))
}

func (r rowRenderer) branchCell(e *Entry, width int) string {
	switch {
	case e.Snap == nil:
		return r.bg(styleDim).Width(width).Render("...")
	case e.Snap.Repo == nil:
		return r.bg(styleDim).Width(width).Render("not a repository")
	}

	v := e.Snap.Values
	label := v.Branch
	if label == "" {
		label = v.Position
	}
	if label == "" {
		label = v.Commit
	}
	if label == "" {
		label = "HEAD"
	}
	return r.bg(styleBranch).Width(width).Render(truncateWithEllipsis(label, width-1))
}

func (r rowRenderer) outputCell(e *Entry, key string, width int) string {
	if e.Snap == nil {
		return r.bg(styleDim).Width(width).Render("...")
	}
	out := e.Snap.Outputs[key]
	if out == "" {
		return r.bg(styleDim).Width(width).Render("(empty)")
	}
	return r.bg(styleOutput).Width(width).Render(truncateWithEllipsis(out, width-1))
}

func (m *Model) renderTableRow(e *Entry, cols columnWidths, outputKey string, selected, alt bool, rowWidth int) string {
	r := m.newRowRenderer(e, selected, alt)

	leading := r.rowBg.Render(" ")
	if r.prefix != "" {
		leading = r.prefix
	}

	line := leading +
		r.repoCell(e, cols.repo, selected) +
		r.branchCell(e, cols.branch) +
		r.outputCell(e, outputKey, cols.output)

	return r.rowBg.Width(rowWidth).Render(line)
}

// --- Detail panel ---

func renderDetailFields(fields map[model.Field]string, innerW int) []string {
	lines := []string{styleTableHdr.Render(" FIELDS")}
	shown := 0
	for _, f := range model.Fields {
		val, ok := fields[f]
		if !ok {
			continue
		}
		shown++
		lines = append(lines, "  "+styleKeyName.Render(padRight(string(f), 10))+
			styleOutput.Render(truncateWithEllipsis(val, innerW-12)))
	}
	if shown == 0 {
		lines = append(lines, styleDim.Render("  (none rendered)"))
	}
	return append(lines, "")
}

func renderDetailOutputs(keys []string, outputs map[string]string, innerW int) []string {
	lines := []string{styleTableHdr.Render(" OUTPUTS")}
	for _, k := range keys {
		lines = append(lines, "  "+styleKeyName.Render(format.EnvName(k)))
		lines = append(lines, "    "+styleOutput.Render(truncateWithEllipsis(format.ShellQuote(outputs[k]), innerW-4)))
	}
	return append(lines, "")
}

func renderDetailValues(v model.Values, innerW int) []string {
	var lines []string

	if v.Ahead > 0 || v.Behind > 0 {
		sync := " "
		if v.Ahead > 0 {
			sync += styleAhead.Render(fmt.Sprintf("↑%d ahead ", v.Ahead))
		}
		if v.Behind > 0 {
			sync += styleBehind.Render(fmt.Sprintf("↓%d behind", v.Behind))
		}
		lines = append(lines, sync)
	}
	if v.Remote != "" {
		lines = append(lines, styleDim.Render(" upstream: "+v.Remote))
	}
	if v.Stashed > 0 {
		lines = append(lines, styleDim.Render(fmt.Sprintf(" stashes: %d", v.Stashed)))
	}
	if v.Action != "" {
		lines = append(lines, styleConflict.Render(" "+iconBolt+" "+v.Action))
	}

	if v.IsDirty() {
		barW := max(innerW-16, 4)
		lines = append(lines, " "+renderStackedBar(v.Indexed, v.Unindexed, v.Untracked, barW))
	}
	return append(lines, "")
}

func (m *Model) renderDetailPanel(width, height int) string {
	e := m.selectedEntry()
	if e == nil {
		return padLines(styleDim.Render(" No selection"), width, height)
	}

	innerW := width - 2
	lines := []string{
		styleRepoName.Render(" " + e.DisplayName()),
		styleDim.Render(" " + truncateWithEllipsis(e.Root(), innerW)),
	}

	switch {
	case e.Err != nil:
		lines = append(lines, "", styleConflict.Render(" "+truncateWithEllipsis(e.Err.Error(), innerW)))
	case e.Snap == nil:
		lines = append(lines, "", styleDim.Render(" Rendering..."))
	case e.Snap.Repo == nil:
		lines = append(lines, "", styleDim.Render(" Not inside a git working tree"))
	default:
		label := e.Snap.Values.Branch
		if label == "" {
			label = "detached at " + e.Snap.Values.Commit
		}
		lines = append(lines, styleBranch.Render(" "+iconBranch+" "+label), "")
		lines = append(lines, renderDetailValues(e.Snap.Values, innerW)...)
		lines = append(lines, renderDetailFields(e.Snap.Fields, innerW)...)
		lines = append(lines, renderDetailOutputs(m.eng.Set().OutputKeys(), e.Snap.Outputs, innerW)...)
	}

	return padLines(strings.Join(lines, "\n"), width, height)
}

// --- Footer, toasts, help ---

func (m *Model) renderFooter() string {
	sep := styleDim.Render(strings.Repeat("─", m.width))

	parts := []string{
		styleKey.Render("r") + " re-render",
		styleKey.Render("y") + " copy",
		styleKey.Render(":") + " shell",
		styleKey.Render("d") + " detail",
		styleKey.Render("?") + " help",
		styleKey.Render("q") + " quit",
	}

	return sep + "\n " + truncateWithEllipsis(strings.Join(parts, "  "), m.width-2)
}

func (m *Model) renderToasts() string {
	var toastStrs []string
	for _, t := range m.toasts {
		var bc lipgloss.Color
		var icon string
		switch t.Level {
		case ToastSuccess:
			bc = colorGold
			icon = iconStar + " "
		case ToastError:
			bc = colorDangerRed
			icon = iconConflict + " "
		default:
			bc = colorCyan
		}
		toastStrs = append(toastStrs, styleToastBox.BorderForeground(bc).Render(icon+t.Message))
	}
	return strings.Join(toastStrs, "\n")
}

func (m *Model) renderHelp() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorCyan).
		Padding(1, 2).
		Width(50).
		Render(styleTitle.Render("HELP") + "\n\n" + m.keys.helpText() + "\n\n" + styleDim.Render("press any key to close"))

	return lipgloss.Place(m.width, max(m.height-4, 10), lipgloss.Center, lipgloss.Center, box)
}

// --- Layout utilities ---

// shellLines renders outputs as eval-safe assignments in key order.
func shellLines(keys []string, outputs map[string]string) string {
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(format.ShellAssignment(k, outputs[k]))
		b.WriteByte('\n')
	}
	return b.String()
}

// placeOverlay writes fg on top of bg at column x and row y, keeping ANSI
// styling intact via ansi.Cut.
func placeOverlay(x, y int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	x = max(x, 0)

	for i, fgLine := range fgLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLine := bgLines[bgIdx]
		fgW := ansi.StringWidth(fgLine)
		bgW := ansi.StringWidth(bgLine)

		if x >= bgW {
			bgLines[bgIdx] = bgLine + strings.Repeat(" ", x-bgW) + fgLine
			continue
		}

		left := ansi.Cut(bgLine, 0, x)
		var right string
		if x+fgW < bgW {
			right = ansi.Cut(bgLine, x+fgW, bgW)
		}
		bgLines[bgIdx] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

func padLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}
