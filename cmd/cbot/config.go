package main

import (
	"fmt"
	"os"
	"path/filepath"

	"cbot/internal/engine"
	"cbot/internal/natives"
	"cbot/internal/project"
	"cbot/internal/robot"
	"cbot/internal/savestore"
	"cbot/internal/stdlib"
	"cbot/internal/trace"
)

// loadConfig reads cbot.toml above the working directory. Without a
// manifest the defaults apply.
func loadConfig() (project.Config, *project.Manifest, error) {
	m, ok, err := project.Load(".")
	if err != nil {
		return project.Config{}, nil, err
	}
	if !ok {
		return project.Defaults(), nil, nil
	}
	return m.Config, m, nil
}

// newRegistry registers the standard natives and the robot ABI.
func newRegistry(cfg project.Config) (*natives.Registry, error) {
	reg := natives.NewRegistry()
	if err := stdlib.Register(reg, stdlib.Options{Seed: cfg.Runtime.Seed}); err != nil {
		return nil, fmt.Errorf("register stdlib: %w", err)
	}
	if err := robot.Register(reg); err != nil {
		return nil, fmt.Errorf("register robot: %w", err)
	}
	return reg, nil
}

// newEngineContext builds the runtime context shared by every task.
func newEngineContext(cfg project.Config, reg *natives.Registry, tracer trace.Tracer) *engine.Context {
	ctx := engine.NewContext(reg)
	ctx.Limits = engine.Limits{MaxFrames: cfg.Runtime.MaxFrames, MaxDepth: cfg.Runtime.MaxDepth}
	if tracer != nil {
		ctx.Tracer = tracer
	}
	return ctx
}

// newWorld places the configured objects.
func newWorld(defs []string) (*robot.World, error) {
	world := robot.NewWorld()
	for _, def := range defs {
		cat, pos, err := robot.ParseObject(def)
		if err != nil {
			return nil, err
		}
		world.Add(cat, pos)
	}
	return world, nil
}

// storePath resolves the save store, relative to the project root when a
// manifest exists.
func storePath(flagValue string, cfg project.Config, m *project.Manifest) string {
	if flagValue != "" {
		return flagValue
	}
	if m != nil {
		return m.SavePath()
	}
	return filepath.FromSlash(cfg.Save.Path)
}

func openStore(path string) (*savestore.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return savestore.Open(path)
}
