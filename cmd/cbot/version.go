package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cbot/internal/persist"
	"cbot/internal/version"
)

// buildInfo is printed by `cbot version`; optional fields stay empty
// unless asked for.
type buildInfo struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	StateFormat uint16 `json:"state_format"`
	GitCommit   string `json:"git_commit,omitempty"`
	GitMessage  string `json:"git_message,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`
}

var versionOpts struct {
	format  string
	hash    bool
	message bool
	date    bool
	full    bool
}

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionOpts.hash, "hash", false, "include git commit hash")
	f.BoolVar(&versionOpts.message, "message", false, "include git commit message")
	f.BoolVar(&versionOpts.date, "date", false, "include build timestamp")
	f.BoolVar(&versionOpts.full, "full", false, "show all build metadata")
	f.StringVar(&versionOpts.format, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show cbot build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := collectBuildInfo()
		switch strings.ToLower(versionOpts.format) {
		case "pretty":
			printBuildInfo(cmd.OutOrStdout(), info, useColor(cmd, os.Stdout))
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionOpts.format)
	},
}

func collectBuildInfo() buildInfo {
	info := buildInfo{Tool: "cbot", Version: orDefault(version.Version, "dev"), StateFormat: persist.Format}
	full := versionOpts.full
	if versionOpts.hash || full {
		info.GitCommit = orDefault(version.GitCommit, "unknown")
	}
	if versionOpts.message || full {
		info.GitMessage = orDefault(version.GitMessage, "unknown")
	}
	if versionOpts.date || full {
		info.BuildDate = orDefault(version.BuildDate, "unknown")
	}
	return info
}

// orDefault returns the trimmed value or fallback when it is blank.
func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func printBuildInfo(out io.Writer, info buildInfo, color bool) {
	v := info.Version
	if v == strings.TrimSpace(version.Version) {
		v = version.Colored(color)
	}
	fmt.Fprintf(out, "cbot %s (state format %d)\n", v, info.StateFormat)
	for _, row := range [...]struct{ label, value string }{
		{"commit:  ", info.GitCommit},
		{"message: ", info.GitMessage},
		{"built:   ", info.BuildDate},
	} {
		if row.value != "" {
			fmt.Fprintln(out, row.label+row.value)
		}
	}
}
