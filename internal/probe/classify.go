package probe

// Counts is the verbose-mode classification of a status listing.
type Counts struct {
	Indexed   int
	Unindexed int
	Untracked int
	Dirty     int // one per path line
}

// ClassifyPorcelain counts "XY path" lines from git status --porcelain.
// "??" is untracked; otherwise a non-blank X counts as indexed and a
// non-blank Y as unindexed.
func ClassifyPorcelain(lines []string) Counts {
	var c Counts
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}

		x, y := line[0], line[1]
		switch {
		case x == '?' && y == '?':
			c.Untracked++
		case x == '!' && y == '!':
			continue // ignored files only appear with --ignored
		default:
			if x != ' ' {
				c.Indexed++
			}
			if y != ' ' {
				c.Unindexed++
			}
		}
		c.Dirty++
	}
	return c
}
