package model

import "slices"

// Field names a unit of repository state that a format template can render.
type Field string

const (
	FieldBranch    Field = "branch"
	FieldCommit    Field = "commit"
	FieldRemote    Field = "remote"
	FieldAhead     Field = "ahead"
	FieldBehind    Field = "behind"
	FieldDiverged  Field = "diverged"
	FieldAction    Field = "action"
	FieldStashed   Field = "stashed"
	FieldPosition  Field = "position"
	FieldIndexed   Field = "indexed"
	FieldUnindexed Field = "unindexed"
	FieldUntracked Field = "untracked"
	FieldDirty     Field = "dirty"
	FieldClean     Field = "clean"
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldBranch,
	FieldPosition,
	FieldCommit,
	FieldRemote,
	FieldAction,
	FieldAhead,
	FieldBehind,
	FieldDiverged,
	FieldStashed,
	FieldIndexed,
	FieldUnindexed,
	FieldUntracked,
	FieldDirty,
	FieldClean,
}

func (f Field) Valid() bool {
	return slices.Contains(Fields, f)
}

// ParseField returns the field with the given name.
func ParseField(name string) (Field, bool) {
	f := Field(name)
	return f, f.Valid()
}
