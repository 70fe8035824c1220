package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline characters ordered by magnitude
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// withBg applies a background color to a style when bg is non-empty.
func withBg(s lipgloss.Style, bg lipgloss.Color) lipgloss.Style {
	if bg != "" {
		return s.Background(bg)
	}
	return s
}

// renderHBar renders a single-color horizontal bar with value/maxValue
// of width filled.
func renderHBar(value, maxValue, width int, fg lipgloss.Color) string {
	if maxValue <= 0 || width <= 0 {
		return ""
	}
	value = min(max(value, 0), maxValue)

	filled := value * width / maxValue
	empty := width - filled

	var b strings.Builder
	if filled > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		b.WriteString(styleBarEmpty.Render(strings.Repeat("░", empty)))
	}
	return b.String()
}

// renderStackedBar renders indexed, unindexed and untracked counts as
// green, amber and gray segments. bgColor keeps row backgrounds intact.
func renderStackedBar(indexed, unindexed, untracked, width int, bgColor ...lipgloss.Color) string {
	var bg lipgloss.Color
	if len(bgColor) > 0 {
		bg = bgColor[0]
	}

	total := indexed + unindexed + untracked
	if total == 0 || width <= 0 {
		return withBg(styleBarEmpty, bg).Render(strings.Repeat("░", max(width, 0)))
	}

	indexedW := indexed * width / total
	unindexedW := unindexed * width / total
	untrackedW := untracked * width / total

	// Remainder goes to the largest segment
	remainder := width - indexedW - unindexedW - untrackedW
	if indexed >= unindexed && indexed >= untracked {
		indexedW += remainder
	} else if unindexed >= untracked {
		unindexedW += remainder
	} else {
		untrackedW += remainder
	}

	var b strings.Builder
	if indexedW > 0 {
		b.WriteString(withBg(styleIndexed, bg).Render(strings.Repeat("█", indexedW)))
	}
	if unindexedW > 0 {
		b.WriteString(withBg(styleAmber, bg).Render(strings.Repeat("█", unindexedW)))
	}
	if untrackedW > 0 {
		b.WriteString(withBg(styleDim, bg).Render(strings.Repeat("█", untrackedW)))
	}

	return b.String()
}

// renderSparkline renders values using block chars ▁▂▃▄▅▆▇█.
func renderSparkline(values []int, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}

	var b strings.Builder
	style := lipgloss.NewStyle().Foreground(color)
	dimStyle := lipgloss.NewStyle().Foreground(colorBarEmpty)

	for _, v := range values {
		if maxVal == 0 || v == 0 {
			b.WriteString(dimStyle.Render("▁"))
		} else {
			idx := v * (len(sparkChars) - 1) / maxVal
			b.WriteString(style.Render(string(sparkChars[idx])))
		}
	}
	return b.String()
}
