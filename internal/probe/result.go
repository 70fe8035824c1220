package probe

import (
	"strconv"
	"strings"
)

// Result is the typed outcome of a probe. The concrete types below form a
// closed set; consumers type-switch and ignore UnknownResult.
type Result interface {
	Tag() Tag
}

type ActionResult struct{ Name string }

type StashResult struct{ Count int }

// UpstreamResult holds the upstream with the refs/remotes/ prefix stripped.
// Remote is empty when the branch has no upstream.
type UpstreamResult struct{ Remote string }

type AheadBehindResult struct{ Ahead, Behind int }

type CommitResult struct{ Hash string }

type PositionResult struct{ Label string }

// DiffScope says what a quiet diff compared.
type DiffScope int

const (
	ScopeWorktree DiffScope = iota // working tree vs index
	ScopeIndex                     // index vs HEAD
	ScopeHead                      // working tree vs HEAD
)

// DiffResult carries the exit code of a quiet diff: 0 means no differences.
type DiffResult struct {
	Scope DiffScope
	Code  int
}

func (r DiffResult) Differs() bool { return r.Code != 0 }

// StatusResult holds the path lines of a verbose status scan.
type StatusResult struct{ Lines []string }

// UnknownResult is a line that could not be decoded.
type UnknownResult struct{ Line string }

func (ActionResult) Tag() Tag      { return TagAction }
func (StashResult) Tag() Tag       { return TagStash }
func (UpstreamResult) Tag() Tag    { return TagUpstream }
func (AheadBehindResult) Tag() Tag { return TagAheadBehind }
func (CommitResult) Tag() Tag      { return TagCommit }
func (PositionResult) Tag() Tag    { return TagPosition }
func (StatusResult) Tag() Tag      { return TagNone }
func (UnknownResult) Tag() Tag     { return TagNone }

func (r DiffResult) Tag() Tag {
	switch r.Scope {
	case ScopeIndex:
		return TagIndexed
	case ScopeHead:
		return TagHeadDiff
	}
	return TagUnindexed
}

const remoteRefPrefix = "refs/remotes/"

// parsePayload decodes the payload for tag. Empty payloads are the normal
// result of a failed command and decode to the zero value; payloads that
// cannot be parsed decode to UnknownResult.
func parsePayload(tag Tag, payload string) Result {
	payload = strings.TrimSpace(payload)

	switch tag {
	case TagAction:
		return ActionResult{Name: payload}

	case TagStash:
		if payload == "" {
			return StashResult{}
		}
		n, err := strconv.Atoi(payload)
		if err != nil || n < 0 {
			return UnknownResult{Line: tag.String() + ":" + payload}
		}
		return StashResult{Count: n}

	case TagUpstream:
		return UpstreamResult{Remote: strings.TrimPrefix(payload, remoteRefPrefix)}

	case TagAheadBehind:
		if payload == "" {
			return AheadBehindResult{}
		}
		parts := strings.Fields(payload)
		if len(parts) != 2 {
			return UnknownResult{Line: tag.String() + ":" + payload}
		}
		ahead, err1 := strconv.Atoi(parts[0])
		behind, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return UnknownResult{Line: tag.String() + ":" + payload}
		}
		return AheadBehindResult{Ahead: ahead, Behind: behind}

	case TagCommit:
		return CommitResult{Hash: payload}

	case TagPosition:
		return PositionResult{Label: payload}

	case TagIndexed, TagUnindexed, TagHeadDiff:
		code, err := strconv.Atoi(payload)
		if err != nil {
			return UnknownResult{Line: tag.String() + ":" + payload}
		}
		scope := ScopeWorktree
		switch tag {
		case TagIndexed:
			scope = ScopeIndex
		case TagHeadDiff:
			scope = ScopeHead
		}
		return DiffResult{Scope: scope, Code: code}
	}

	return UnknownResult{Line: tag.String() + ":" + payload}
}
