package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cbot/internal/driver"
)

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.cbot|dir]...",
	Short: "Run scripts, one robot per script",
	Long: `Run compiles every script, gives each its own robot in a shared world and
ticks them until all finish or the tick limit is reached. Without arguments
the [run].main script of cbot.toml is used.`,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd, &runOpts)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, manifest, err := loadConfig()
	if err != nil {
		return err
	}
	runOpts.apply(cmd, &cfg)
	live, err := liveView(runOpts.ui, os.Stdout)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if manifest == nil {
			return fmt.Errorf("no scripts given and no cbot.toml found")
		}
		mainPath, err := manifest.MainPath()
		if err != nil {
			return err
		}
		args = []string{mainPath}
	}
	var paths []string
	for _, arg := range args {
		files, err := driver.ListScripts(arg)
		if err != nil {
			return fmt.Errorf("failed to list scripts: %w", err)
		}
		paths = append(paths, files...)
	}

	r, err := newRunner(cmd, cfg, &runOpts)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := r.spawn(path); err != nil {
			return fmt.Errorf("%s: compile failed", path)
		}
	}
	if err := drive(r, "cbot run", live); err != nil {
		return err
	}
	return r.finish()
}

// drive ticks until nothing runs or the limit is hit, with or without the
// live view.
func drive(r *runner, title string, live bool) error {
	if live {
		return runWithUI(r, title)
	}
	out := r.cmd.OutOrStdout()
	r.flushMessages(out)
	for tick := 0; tick < r.cfg.Run.Ticks && r.ex.Running() > 0; tick++ {
		r.tick(out)
	}
	return nil
}
