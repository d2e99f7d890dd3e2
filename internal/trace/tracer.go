package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tracer receives events. Emit must be safe for concurrent use: the
// heartbeat and parallel check workers emit from their own goroutines.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
}

// Enabled reports whether t records anything.
func Enabled(t Tracer) bool { return t != nil && t.Level() > LevelOff }

// Dumper is implemented by tracers that keep events in memory.
type Dumper interface {
	Dump(w io.Writer, f Format) error
}

// Mode chooses where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // write each event as it happens
	ModeRing                   // keep the last events, dump on exit
	ModeBoth
)

var modeNames = [...]string{"", "stream", "ring", "both"}

func (m Mode) String() string {
	if int(m) < len(modeNames) && m != 0 {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream, ring or both.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if m != 0 && strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid trace mode %q (want stream, ring or both)", s)
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 4096

// Config describes a tracer built by New.
type Config struct {
	Level      Level
	Mode       Mode
	Format     Format
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" or "-" is stderr
	RingSize   int
	Heartbeat  time.Duration
}

// New builds the tracer for cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatForPath(cfg.OutputPath)
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, format)
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return Tee(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	}
	return nil, fmt.Errorf("unknown trace mode %v", cfg.Mode)
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl", ".json":
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("trace output: %w", err)
		}
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("trace output: %w", err)
	}
	return f, nil
}
