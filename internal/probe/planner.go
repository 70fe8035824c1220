package probe

import "github.com/jackchuka/gp/internal/model"

// Request is everything the planner needs to decide which probes to run.
type Request struct {
	Fields   map[model.Field]bool // fields with a non-empty template
	Verbose  bool                 // full status scan instead of quiet diffs
	OnBranch bool
	Detached bool
}

func (r Request) wants(fs ...model.Field) bool {
	for _, f := range fs {
		if r.Fields[f] {
			return true
		}
	}
	return false
}

// Plan returns the minimal set of probes for req. Each probe appears at
// most once; an empty plan means nothing needs to run.
func Plan(req Request) []Probe {
	var probes []Probe

	if req.wants(model.FieldAction) {
		probes = append(probes, actionProbe())
	}
	if req.wants(model.FieldStashed) {
		probes = append(probes, stashProbe())
	}

	if req.OnBranch {
		if req.wants(model.FieldRemote) {
			probes = append(probes, upstreamProbe())
		}
		if req.wants(model.FieldAhead, model.FieldBehind, model.FieldDiverged) {
			probes = append(probes, aheadBehindProbe())
		}
	}

	if req.Detached {
		if req.wants(model.FieldCommit) {
			probes = append(probes, commitProbe())
		}
		if req.wants(model.FieldPosition) {
			probes = append(probes, positionProbe())
		}
	}

	dirtyClean := req.wants(model.FieldDirty, model.FieldClean)
	indexed := req.wants(model.FieldIndexed)
	unindexed := req.wants(model.FieldUnindexed)

	if req.Verbose {
		if dirtyClean || indexed || unindexed || req.wants(model.FieldUntracked) {
			probes = append(probes, statusProbe())
		}
		return probes
	}

	if unindexed || dirtyClean {
		probes = append(probes, worktreeDiffProbe(worktreeOptions{
			againstHead:   !unindexed,
			indexFallback: dirtyClean && unindexed && !indexed,
		}))
	}
	if indexed {
		probes = append(probes, indexDiffProbe())
	}

	return probes
}
