package cmd

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jackchuka/gp/internal/config"
	"github.com/jackchuka/gp/internal/gitcmd"
	"github.com/jackchuka/gp/internal/scanner"
	"github.com/jackchuka/gp/internal/watcher"
	"github.com/jackchuka/gp/tui"
)

var (
	watchScan  []string
	watchDepth int
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Live preview of every output key, re-rendered on change",
	Long: `Shows every configured output for each directory and re-renders
when a repository changes. With --scan, every working tree found below
the given roots (linked worktrees included) is added to the list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		dirs := args
		if len(watchScan) > 0 {
			repos, err := scanner.NewWalker(watchDepth).Scan(cmd.Context(), watchScan...)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			slog.Debug("scan complete", "roots", watchScan, "repos", len(repos))
			for _, r := range repos {
				if !slices.Contains(dirs, r.Root) {
					dirs = append(dirs, r.Root)
				}
			}
		}
		if len(dirs) == 0 {
			if len(watchScan) > 0 {
				return fmt.Errorf("no repositories found below %v", watchScan)
			}
			dirs = []string{"."}
		}

		w, err := newWatcher(cfg)
		if err != nil {
			return err
		}
		return tui.Run(eng, w, dirs)
	},
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchScan, "scan", nil, "discover repositories below these directories")
	watchCmd.Flags().IntVar(&watchDepth, "depth", 4, "maximum directory depth for --scan")
	rootCmd.AddCommand(watchCmd)
}

func newWatcher(c *config.Config) (watcher.RepoWatcher, error) {
	if c.Watch.Mode == config.WatchPoll {
		return watcher.NewPoller(c.Watch.PollInterval.Std(), gitcmd.NewExecRunner()), nil
	}
	n, err := watcher.NewNotifier()
	if err != nil {
		return nil, err
	}
	return n, nil
}
