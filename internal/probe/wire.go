package probe

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encode renders r as a "<tag>:<payload>" line without the newline.
// Results with no single-line form report ok=false.
func Encode(r Result) (string, bool) {
	var payload string
	switch r := r.(type) {
	case ActionResult:
		payload = r.Name
	case StashResult:
		payload = strconv.Itoa(r.Count)
	case UpstreamResult:
		if r.Remote != "" {
			payload = remoteRefPrefix + r.Remote
		}
	case AheadBehindResult:
		payload = fmt.Sprintf("%d %d", r.Ahead, r.Behind)
	case CommitResult:
		payload = r.Hash
	case PositionResult:
		payload = r.Label
	case DiffResult:
		payload = strconv.Itoa(r.Code)
	default:
		return "", false
	}
	return r.Tag().String() + ":" + payload, true
}

// Decode parses one tagged line. Lines without a known single-character
// tag decode to UnknownResult.
func Decode(line string) Result {
	tag, payload, ok := strings.Cut(line, ":")
	if !ok || len(tag) != 1 {
		return UnknownResult{Line: line}
	}
	return parsePayload(Tag(tag[0]), payload)
}

// Demux reads a tagged-line stream and hands every decoded result to fn.
// Blank lines are skipped and unknown lines are passed through as
// UnknownResult; neither stops the read loop.
func Demux(r io.Reader, fn func(Result)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		fn(Decode(line))
	}
	return sc.Err()
}

// WriteStream writes each encodable result as one line to w.
func WriteStream(w io.Writer, results []Result) error {
	for _, r := range results {
		line, ok := Encode(r)
		if !ok {
			continue
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
