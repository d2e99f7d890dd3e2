package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cbot/internal/diag"
	"cbot/internal/diagfmt"
	"cbot/internal/driver"
	"cbot/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.cbot|dir]...",
	Short: "Compile scripts and report the first error of each",
	Long:  `Check compiles every script against the standard and robot natives without running it`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short)")
	checkCmd.Flags().Int("jobs", 0, "parallel jobs (0 = GOMAXPROCS)")
	checkCmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
}

func parsePathMode(s string) (diagfmt.PathMode, error) {
	switch s {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	}
	return 0, fmt.Errorf("invalid --path-mode %q (expected auto|absolute|relative|basename)", s)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	jobs, _ := cmd.Flags().GetInt("jobs")
	pathModeStr, _ := cmd.Flags().GetString("path-mode")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")

	pathMode, err := parsePathMode(pathModeStr)
	if err != nil {
		return err
	}
	if format != "pretty" && format != "short" {
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, manifest, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
		if manifest != nil {
			args = []string{manifest.Root}
		}
	}
	var paths []string
	for _, arg := range args {
		files, err := driver.ListScripts(arg)
		if err != nil {
			return fmt.Errorf("failed to list scripts: %w", err)
		}
		paths = append(paths, files...)
	}

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	span := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopeHost, "check", 0)
	fs, results, err := driver.CheckFiles(cmd.Context(), paths, reg, maxDiagnostics, jobs)
	if err != nil {
		span.End("error")
		return fmt.Errorf("check failed: %w", err)
	}

	bag := diag.NewBag(max(len(results), 1))
	failed := 0
	for i := range results {
		res := &results[i]
		if !res.OK() {
			failed++
		}
		bag.Merge(res.Bag)
		if showTimings && res.Timing != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %.2f ms\n", res.Path, res.Timing.TotalMS)
		}
	}
	span.End(fmt.Sprintf("%d/%d failed", failed, len(results)))

	bag.Sort()
	opts := diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   1,
		PathMode:  pathMode,
		ShowNotes: true,
	}
	if format == "short" {
		diagfmt.Short(cmd.ErrOrStderr(), bag, fs, opts)
	} else {
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, opts)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d more diagnostics not shown (--max-diagnostics)\n", n)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d scripts, %d failed\n", len(results), failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(results))
	}
	return nil
}
