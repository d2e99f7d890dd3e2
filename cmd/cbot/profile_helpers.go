package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cbot/internal/prof"
)

var profOpts prof.Config

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&profOpts.CPU, "cpu-profile", "", "write a CPU profile to this file")
	f.StringVar(&profOpts.Mem, "mem-profile", "", "write a heap profile to this file on exit")
	f.StringVar(&profOpts.Trace, "runtime-trace", "", "write a Go runtime trace to this file")
}

// setupProfiling starts the profilers named by flags. The cleanup may be
// called more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	session, err := prof.Start(profOpts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}, nil
}
