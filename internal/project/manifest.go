package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrPackageSectionMissing = errors.New("missing [package]")
	ErrPackageNameMissing    = errors.New("missing [package].name")
	ErrRunMainMissing        = errors.New("missing [run].main")
)

// Manifest is a loaded cbot.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of cbot.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Runtime RuntimeConfig `toml:"runtime"`
	Run     RunConfig     `toml:"run"`
	Save    SaveConfig    `toml:"save"`
	Trace   TraceConfig   `toml:"trace"`
	World   WorldConfig   `toml:"world"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// RuntimeConfig bounds every program the host runs.
type RuntimeConfig struct {
	StepBudget int    `toml:"step_budget"`
	MaxFrames  int    `toml:"max_frames"`
	MaxDepth   int    `toml:"max_depth"`
	TickMs     uint64 `toml:"tick_ms"`
	Seed       uint64 `toml:"seed"`
}

type RunConfig struct {
	Main  string `toml:"main"`
	Entry string `toml:"entry"`
	Owner string `toml:"owner"`
	Ticks int    `toml:"ticks"`
}

type SaveConfig struct {
	Path string `toml:"path"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// WorldConfig seeds the simulated world, one "Category:x,y" per object.
type WorldConfig struct {
	Objects []string `toml:"objects"`
}

// Defaults used for keys a manifest leaves out.
func Defaults() Config {
	return Config{
		Runtime: RuntimeConfig{StepBudget: 1000, MaxFrames: 1 << 16, MaxDepth: 256, TickMs: 50},
		Run:     RunConfig{Entry: "main", Ticks: 10000},
		Save:    SaveConfig{Path: ".cbot/saves.db"},
		Trace:   TraceConfig{Level: "off", Output: "stderr", Format: "auto"},
	}
}

// Load finds and parses the manifest above startDir.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses path on top of Defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !meta.IsDefined("run", "main") || strings.TrimSpace(cfg.Run.Main) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrRunMainMissing)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undec[0])
	}
	if cfg.Runtime.StepBudget == 0 || cfg.Runtime.TickMs == 0 {
		return Config{}, fmt.Errorf("%s: [runtime] step_budget and tick_ms must be positive", path)
	}
	return cfg, nil
}

// MainPath resolves [run].main against the project root.
func (m *Manifest) MainPath() (string, error) {
	mainRel := strings.TrimSpace(m.Config.Run.Main)
	mainPath := filepath.Join(m.Root, filepath.FromSlash(mainRel))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [run].main path does not exist: %s", m.Path, mainPath)
		}
		return "", fmt.Errorf("%s: failed to stat [run].main: %w", m.Path, err)
	}
	if info.IsDir() || filepath.Ext(mainPath) != ".cbot" {
		return "", fmt.Errorf("%s: [run].main must be a .cbot file", m.Path)
	}
	return mainPath, nil
}

// SavePath resolves [save].path against the project root.
func (m *Manifest) SavePath() string {
	p := filepath.FromSlash(m.Config.Save.Path)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}
