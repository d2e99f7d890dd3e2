package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resumeOpts runFlags

var resumeCmd = &cobra.Command{
	Use:   "resume [flags] owner...",
	Short: "Resume saved tasks from the save store",
	Long: `Resume loads saved tasks, restores their robots and paused execution and
keeps ticking them. A task whose script no longer matches its saved state
fails alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResume,
}

func init() {
	addRunFlags(resumeCmd, &resumeOpts)
}

func runResume(cmd *cobra.Command, args []string) error {
	cfg, manifest, err := loadConfig()
	if err != nil {
		return err
	}
	resumeOpts.apply(cmd, &cfg)
	live, err := liveView(resumeOpts.ui, os.Stdout)
	if err != nil {
		return err
	}

	store, err := openStore(storePath(resumeOpts.store, cfg, manifest))
	if err != nil {
		return err
	}
	r, err := newRunner(cmd, cfg, &resumeOpts)
	if err != nil {
		_ = store.Close()
		return err
	}
	for _, owner := range args {
		rec, err := store.Get(owner)
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("%s: %w", owner, err)
		}
		// ошибку компиляции печатает reportCompile, ошибку восстановления finish
		_ = r.resume(rec)
	}
	// bbolt держит файл заблокированным, а finish может сохранять снова
	if err := store.Close(); err != nil {
		return err
	}

	if err := drive(r, "cbot resume", live); err != nil {
		return err
	}
	return r.finish()
}
