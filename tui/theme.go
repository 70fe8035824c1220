package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ANSI 256 color palette
var (
	colorCleanGreen = lipgloss.Color("71")
	colorDirtyAmber = lipgloss.Color("179")
	colorDangerRed  = lipgloss.Color("167")
	colorCriticalRd = lipgloss.Color("196")

	colorCyan = lipgloss.Color("73")
	colorGold = lipgloss.Color("220")

	colorFg  = lipgloss.Color("253")
	colorDim = lipgloss.Color("242")

	colorSelBg = lipgloss.Color("238")
	colorSelFg = lipgloss.Color("255")

	colorBlue     = lipgloss.Color("69")
	colorBarEmpty = lipgloss.Color("238")
	colorTableHdr = lipgloss.Color("245")
	colorRowAlt   = lipgloss.Color("234")
)

// Left-border accent: flash bright/off, then fade out
var glowBorderColors = []lipgloss.Color{
	lipgloss.Color("46"),  // on
	lipgloss.Color("236"), // off
	lipgloss.Color("46"),  // on
	lipgloss.Color("236"), // off
	lipgloss.Color("46"),  // on
	lipgloss.Color("34"),  // fade
	lipgloss.Color("28"),  // fade
	lipgloss.Color("23"),  // fade
	lipgloss.Color("236"), // gone
}

// Braille spinner frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const (
	iconClean    = "○"
	iconDirty    = "●"
	iconCleanWt  = "◇"
	iconDirtyWt  = "◆"
	iconNoRepo   = "·"
	iconConflict = "⚠"
	iconBranch   = "⟫"
	iconBolt     = "⚡"
	iconStar     = "★"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleRepoName = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
	styleBranch   = lipgloss.NewStyle().Foreground(colorCyan)
	styleAhead    = lipgloss.NewStyle().Foreground(colorDirtyAmber)
	styleBehind   = lipgloss.NewStyle().Foreground(colorDangerRed)
	styleCleanTxt = lipgloss.NewStyle().Foreground(colorCleanGreen)
	styleConflict = lipgloss.NewStyle().Foreground(colorCriticalRd).Bold(true)
	styleAmber    = lipgloss.NewStyle().Foreground(colorDirtyAmber)
	styleOutput   = lipgloss.NewStyle().Foreground(colorFg)
	styleKeyName  = lipgloss.NewStyle().Foreground(colorBlue)

	styleIndexed  = lipgloss.NewStyle().Foreground(colorCleanGreen)
	styleBarEmpty = lipgloss.NewStyle().Foreground(colorBarEmpty)
	styleTableHdr = lipgloss.NewStyle().Foreground(colorTableHdr).Bold(true)

	styleKey = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

	styleToastBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 1)
)

func renderSpinner(frame int) string {
	f := spinnerFrames[frame%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(colorCyan).Render(f)
}

// truncateWithEllipsis cuts s to maxWidth cells. Rendered prompt values
// may carry their own escape sequences, so width is measured with ansi.
func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	return ansi.Truncate(s, maxWidth, "…")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
