package format

import (
	"maps"
	"slices"
	"strconv"

	"github.com/jackchuka/gp/internal/model"
)

// Set is a compiled rendering configuration: one template per field and one
// per output key.
type Set struct {
	Fields          map[model.Field]*Template
	Outputs         map[string]*Template
	Actions         map[string]string // raw action name -> display name
	BranchMaxLength int
}

// Wants reports whether any of fs has a non-empty template.
func (s *Set) Wants(fs ...model.Field) bool {
	for _, f := range fs {
		if !s.Fields[f].IsEmpty() {
			return true
		}
	}
	return false
}

// Requested returns the fields with non-empty templates.
func (s *Set) Requested() map[model.Field]bool {
	req := make(map[model.Field]bool)
	for f, t := range s.Fields {
		if !t.IsEmpty() {
			req[f] = true
		}
	}
	return req
}

// OutputKeys returns the declared output keys in sorted order.
func (s *Set) OutputKeys() []string {
	return slices.Sorted(maps.Keys(s.Outputs))
}

// RenderFields is the field stage: each raw value goes through its own
// field's template when the field's condition holds.
func (s *Set) RenderFields(v model.Values) map[model.Field]string {
	out := make(map[model.Field]string, len(model.Fields))

	render := func(f model.Field, cond bool, vals map[string]string) {
		if !cond {
			return
		}
		if t := s.Fields[f]; !t.IsEmpty() {
			out[f] = t.Execute(vals)
		}
	}
	count := func(f model.Field, n int) {
		render(f, n > 0, map[string]string{string(f): strconv.Itoa(n)})
	}
	text := func(f model.Field, val string) {
		render(f, val != "", map[string]string{string(f): val})
	}

	text(model.FieldBranch, ShortenBranch(v.Branch, s.BranchMaxLength))
	text(model.FieldCommit, v.Commit)
	text(model.FieldPosition, v.Position)
	text(model.FieldRemote, v.Remote)
	text(model.FieldAction, s.actionName(v.Action))
	count(model.FieldStashed, v.Stashed)

	if s.Wants(model.FieldDiverged) && v.IsDiverged() {
		render(model.FieldDiverged, true, map[string]string{
			"ahead":  strconv.Itoa(v.Ahead),
			"behind": strconv.Itoa(v.Behind),
		})
	} else {
		count(model.FieldAhead, v.Ahead)
		count(model.FieldBehind, v.Behind)
	}

	count(model.FieldIndexed, v.Indexed)
	count(model.FieldUnindexed, v.Unindexed)
	count(model.FieldUntracked, v.Untracked)

	count(model.FieldDirty, v.Dirty)
	render(model.FieldClean, !v.IsDirty(), nil)

	return out
}

// RenderOutputs is the composite stage: every output key is rendered with
// the formatted field values as its placeholders.
func (s *Set) RenderOutputs(fields map[model.Field]string) map[string]string {
	vals := make(map[string]string, len(fields))
	for f, v := range fields {
		vals[string(f)] = v
	}

	out := make(map[string]string, len(s.Outputs))
	for key, t := range s.Outputs {
		out[key] = t.Execute(vals)
	}
	return out
}

// EmptyOutputs maps every output key to "".
func (s *Set) EmptyOutputs() map[string]string {
	out := make(map[string]string, len(s.Outputs))
	for key := range s.Outputs {
		out[key] = ""
	}
	return out
}

func (s *Set) actionName(raw string) string {
	if raw == "" {
		return ""
	}
	if display, ok := s.Actions[raw]; ok && display != "" {
		return display
	}
	return raw
}
