package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/forensickit/loginitems"
	"github.com/forensickit/loginitems/artifact"
	"github.com/forensickit/loginitems/bundle"
	"github.com/forensickit/loginitems/extractor"
	"github.com/forensickit/loginitems/observability"
	"github.com/forensickit/loginitems/sweep"
)

var verbose bool

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "loginitems: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "loginitems",
		Short:         "Extract bookmark evidence from macOS login-items containers",
		Long:          "loginitems reads the property-list containers macOS uses to track login and background items and recovers the embedded bookmark payloads for forensic triage.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log extraction diagnostics to stderr")
	root.AddCommand(
		newBookmarksCommand(),
		newReadCommand(),
		newSweepCommand(),
		newVersionCommand(),
	)
	return root
}

func newBookmarksCommand() *cobra.Command {
	var (
		outDir     string
		bundlePath string
	)
	cmd := &cobra.Command{
		Use:   "bookmarks <container>",
		Short: "Extract bookmark payloads from one container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := extractor.New(extractor.WithLogger(diagnostics()))
			payloads, err := ext.ExtractBookmarksFile(args[0])
			if err != nil {
				return err
			}
			records := artifact.Describe(args[0], payloads)
			if outDir != "" {
				if err := artifact.WriteAll(outDir, records); err != nil {
					return err
				}
			}
			if bundlePath != "" {
				if err := bundle.WriteFile(bundlePath, records); err != nil {
					return err
				}
			}
			return emitSection("bookmarks", records)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for extracted payloads")
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "Path of a .tar.zst evidence bundle to write")
	return cmd
}

func newReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <container>",
		Short: "Dump a login-items container without interpreting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loginitems.Read(args[0])
			if err != nil {
				return err
			}
			return emitSection("login_items", items)
		},
	}
}

func newSweepCommand() *cobra.Command {
	var (
		configPath string
		rootDir    string
		outDir     string
		bundlePath string
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Scan the canonical container locations under a system root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sweep.Default()
			if configPath != "" {
				loaded, err := sweep.LoadFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if rootDir != "" {
				cfg.Root = rootDir
			}
			if outDir != "" {
				cfg.OutputDir = outDir
			}
			if bundlePath != "" {
				cfg.Bundle = bundlePath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := sweep.Run(ctx, cfg, diagnostics())
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(os.Stderr, "swept %d containers, %d bookmarks\n",
				len(report.Outcomes), len(report.Records))
			return emitSection("sweep", report)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Sweep configuration file (YAML)")
	cmd.Flags().StringVar(&rootDir, "root", "", "Filesystem root to sweep (default \"/\")")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for extracted payloads")
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "Path of a .tar.zst evidence bundle to write")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("loginitems version %s\n", loginitems.Version)
		},
	}
}

// diagnostics returns the logger extraction routines report anomalies
// through. Silent unless --verbose is set.
func diagnostics() observability.Logger {
	if !verbose {
		return observability.NopLogger{}
	}
	return observability.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func emitSection(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	fmt.Printf("== %s ==\n%s\n\n", name, data)
	return nil
}
