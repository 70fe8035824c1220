package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackchuka/gp/internal/format"
	"github.com/jackchuka/gp/internal/model"
	"github.com/jackchuka/gp/internal/probe"
)

var (
	probesDir    string
	probesReplay bool
	probesBranch string
	probesFormat string
)

var probesCmd = &cobra.Command{
	Use:   "probes",
	Short: "Print the raw tagged result stream of the planned probes",
	Long: `Runs the probes a render would run and prints each result as a
"<tag>:<payload>" line. Status scans in verbose mode have no single-line
form and are printed as "# status" blocks.

With --replay, a recorded stream is read from stdin instead and rendered
through the configured templates. Lines with unknown tags are ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		if probesReplay {
			return replayStream(cmd.InOrStdin(), cmd.OutOrStdout(), eng.Set(), probesBranch, probesFormat)
		}

		repo, results, err := eng.Probe(cmd.Context(), probesDir)
		if err != nil {
			return err
		}
		if repo == nil {
			return nil
		}

		out := cmd.OutOrStdout()
		if err := probe.WriteStream(out, results); err != nil {
			return err
		}
		return writeStatusBlocks(out, results)
	},
}

func init() {
	probesCmd.Flags().StringVarP(&probesDir, "dir", "C", ".", "directory to describe")
	probesCmd.Flags().BoolVar(&probesReplay, "replay", false, "render a tagged stream read from stdin")
	probesCmd.Flags().StringVar(&probesBranch, "branch", "", "branch name to render with --replay")
	probesCmd.Flags().StringVarP(&probesFormat, "format", "f", formatPlain, "output format for --replay: shell, json or plain")
	rootCmd.AddCommand(probesCmd)
}

// writeStatusBlocks prints each status scan as a "# status" comment block.
func writeStatusBlocks(w io.Writer, results []probe.Result) error {
	for _, r := range results {
		st, ok := r.(probe.StatusResult)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, "# status"); err != nil {
			return err
		}
		for _, line := range st.Lines {
			if _, err := fmt.Fprintln(w, "#", line); err != nil {
				return err
			}
		}
	}
	return nil
}

// replayStream folds a tagged-line stream into values and writes the
// rendered outputs.
func replayStream(r io.Reader, w io.Writer, set *format.Set, branch, outFormat string) error {
	v := model.Values{Branch: branch}
	err := probe.Demux(r, func(res probe.Result) {
		if u, ok := res.(probe.UnknownResult); ok {
			slog.Debug("replay: unknown line", "line", u.Line)
			return
		}
		probe.Apply(&v, res)
	})
	if err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return writeOutputs(w, outFormat, set.OutputKeys(), set.RenderOutputs(set.RenderFields(v)))
}
