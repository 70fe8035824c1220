package format

// DefaultBranchMaxLength bounds the rendered width of a branch name.
const DefaultBranchMaxLength = 32

const ellipsis = "…"

// ShortenBranch trims name to at most budget runes as prefix…suffix.
// Names within budget, and non-positive budgets, pass through unchanged.
func ShortenBranch(name string, budget int) string {
	runes := []rune(name)
	if budget <= 0 || len(runes) <= budget {
		return name
	}

	prefix := max(budget/2-3, 0)
	suffix := max(budget-prefix-1, 0)
	return string(runes[:prefix]) + ellipsis + string(runes[len(runes)-suffix:])
}
