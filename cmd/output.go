package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jackchuka/gp/internal/format"
)

const (
	formatShell = "shell"
	formatJSON  = "json"
	formatPlain = "plain"
)

// writeOutputs prints outputs in keys order using the named format.
func writeOutputs(w io.Writer, outFormat string, keys []string, outputs map[string]string) error {
	switch outFormat {
	case formatShell:
		for _, k := range keys {
			if _, err := fmt.Fprintln(w, format.ShellAssignment(k, outputs[k])); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(outputs)
	case formatPlain:
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s=%s\n", k, outputs[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", outFormat, formatShell, formatJSON, formatPlain)
	}
}
