package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statewire/statewire/internal/build"
	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/diagnostics"
)

// Overridden at release time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "statewire:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:           "statewire",
		Short:         "Compile prefix-marked component state into shared contexts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "statewire.yaml", "configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "print debug diagnostics")

	load := func() (*config.Config, *diagnostics.Reporter) {
		cfg, err := config.Load(configPath)
		if debug {
			cfg.Debug = true
		}
		logPath := ""
		if cfg.LogFile != "" {
			logPath = filepath.Join(cfg.Root, cfg.LogFile)
		}
		reporter := diagnostics.NewReporter(cfg.Debug, logPath)
		if err != nil && !os.IsNotExist(err) {
			reporter.Report(configPath, []*diagnostics.DiagnosticError{{
				Code:     diagnostics.ErrC001,
				Severity: diagnostics.SeverityWarning,
				File:     configPath,
				Message:  "configuration unusable, defaults applied: " + err.Error(),
			}})
		}
		return cfg, reporter
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Transform the source tree and emit the shared-context module",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reporter := load()
			runner := build.NewRunner(cfg, reporter)
			stats, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d files (%d cached), %d with errors\n",
				stats.Files, stats.CacheHits, stats.FilesWithErrors)
			if stats.FilesWithErrors > 0 {
				return fmt.Errorf("%d files had errors", stats.FilesWithErrors)
			}
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run the transform without writing any output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reporter := load()
			runner := build.NewRunner(cfg, reporter)
			runner.DryRun = true
			stats, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			if stats.FilesWithErrors > 0 {
				return fmt.Errorf("%d files had errors", stats.FilesWithErrors)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d files ok\n", stats.Files)
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "statewire "+version)
		},
	}

	root.AddCommand(buildCmd, checkCmd, versionCmd)
	return root
}
