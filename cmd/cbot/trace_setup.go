package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cbot/internal/trace"
)

// traceOpts holds the --trace* flags; empty strings defer to cbot.toml.
var traceOpts struct {
	output    string
	level     string
	mode      string
	format    string
	ringSize  int
	heartbeat time.Duration
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&traceOpts.output, "trace", "", "trace output file (- for stderr)")
	f.StringVar(&traceOpts.level, "trace-level", "", "trace level (off|error|phase|detail|debug)")
	f.StringVar(&traceOpts.mode, "trace-mode", "stream", "trace storage (stream|ring|both)")
	f.StringVar(&traceOpts.format, "trace-format", "", "trace format (auto|text|ndjson)")
	f.IntVar(&traceOpts.ringSize, "trace-ring-size", trace.DefaultRingSize, "events kept by ring trace mode")
	f.DurationVar(&traceOpts.heartbeat, "trace-heartbeat", 0, "watchdog interval for stalled runs (0 disables)")
}

// traceConfig merges the flags over the [trace] section of cbot.toml.
func traceConfig() (trace.Config, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return trace.Config{}, err
	}
	level, format, output := traceOpts.level, traceOpts.format, traceOpts.output
	if level == "" {
		level = cfg.Trace.Level
	}
	if format == "" {
		format = cfg.Trace.Format
	}
	if output == "" && cfg.Trace.Output != "stderr" {
		output = cfg.Trace.Output
	}

	out := trace.Config{OutputPath: output, RingSize: traceOpts.ringSize, Heartbeat: traceOpts.heartbeat}
	if out.Level, err = trace.ParseLevel(level); err != nil {
		return out, err
	}
	if out.Mode, err = trace.ParseMode(traceOpts.mode); err != nil {
		return out, err
	}
	if out.Format, err = trace.ParseFormat(format); err != nil {
		return out, err
	}
	return out, nil
}

// setupTracing attaches the tracer and the heartbeat watchdog to the
// command context. The cleanup dumps the ring, then flushes and closes.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceConfig()
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	heartbeat := trace.StartHeartbeat(tracer, cfg.Heartbeat)
	cmd.SetContext(trace.WithHeartbeat(trace.WithTracer(cmd.Context(), tracer), heartbeat))
	if !trace.Enabled(tracer) {
		return func() {}, nil
	}

	// в режиме both поток уже на stderr, дамп нужен только при выводе в файл
	toFile := cfg.OutputPath != "" && cfg.OutputPath != "-"
	dump := cfg.Mode == trace.ModeRing || (cfg.Mode == trace.ModeBoth && toFile)

	return func() {
		stderr := cmd.ErrOrStderr()
		heartbeat.Stop()
		if d, ok := tracer.(trace.Dumper); ok && dump {
			if err := d.Dump(stderr, cfg.Format); err != nil {
				fmt.Fprintf(stderr, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(stderr, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close error: %v\n", err)
		}
	}, nil
}
