package probe

import (
	"os"
	"path/filepath"
)

// detectAction names the operation in progress in gitDir, or "" if none.
// Names follow the conventions of git's own prompt helpers.
func detectAction(gitDir string) string {
	exists := func(parts ...string) bool {
		_, err := os.Stat(filepath.Join(append([]string{gitDir}, parts...)...))
		return err == nil
	}

	switch {
	case exists("rebase-apply"):
		switch {
		case exists("rebase-apply", "rebasing"):
			return "rebase"
		case exists("rebase-apply", "applying"):
			return "am"
		default:
			return "am/rebase"
		}
	case exists("rebase-merge", "interactive"):
		return "rebase-i"
	case exists("rebase-merge"):
		return "rebase-m"
	case exists("MERGE_HEAD"):
		return "merge"
	case exists("BISECT_LOG"):
		return "bisect"
	case exists("CHERRY_PICK_HEAD"):
		if exists("sequencer") {
			return "cherry-seq"
		}
		return "cherry"
	case exists("REVERT_HEAD"):
		if exists("sequencer") {
			return "revert-seq"
		}
		return "revert"
	}
	return ""
}
