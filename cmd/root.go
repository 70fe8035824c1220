// cmd/root.go
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackchuka/gp/internal/config"
	"github.com/jackchuka/gp/internal/engine"
	"github.com/jackchuka/gp/internal/gitcmd"
	"github.com/jackchuka/gp/internal/model"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config

	renderKey    string
	renderFormat string
	renderDir    string
)

var rootCmd = &cobra.Command{
	Use:   "gp",
	Short: "gp - git prompt state engine",
	Long: `
            ╔═╗╔═╗
            ║ ╦╠═╝
            ╚═╝╩   git prompt

  Computes the state of the enclosing git working tree and renders
  it through your templates. Add this to your shell rc:

      eval "$(gp)"

  and use $GP_PROMPT (one variable per output key) in PS1.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		snap, err := eng.Compute(cmd.Context(), renderDir, model.State{})
		if err != nil {
			return err
		}

		if renderKey != "" {
			if _, ok := snap.Outputs[renderKey]; !ok {
				return fmt.Errorf("unknown output key %q", renderKey)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), snap.Outputs[renderKey])
			return err
		}
		return writeOutputs(cmd.OutOrStdout(), renderFormat, eng.Set().OutputKeys(), snap.Outputs)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gp/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log probe activity to stderr")

	rootCmd.Flags().StringVarP(&renderKey, "key", "k", "", "print only this output key, unquoted")
	rootCmd.Flags().StringVarP(&renderFormat, "format", "f", formatShell, "output format: shell, json or plain")
	rootCmd.Flags().StringVarP(&renderDir, "dir", "C", ".", "directory to describe")
}

func initConfig() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	slog.Debug("config loaded", slog.String("path", cfgFile), slog.Bool("verbose", cfg.Verbose))
}

func newEngine() (*engine.Engine, error) {
	return engine.New(cfg, gitcmd.NewExecRunner())
}
