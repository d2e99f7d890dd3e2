package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cbot/internal/diag"
	"cbot/internal/diagfmt"
	"cbot/internal/engine"
	"cbot/internal/observ"
	"cbot/internal/project"
	"cbot/internal/savestore"
	"cbot/internal/sched"
	"cbot/internal/source"
	"cbot/internal/trace"
)

// runFlags are shared by run and resume.
type runFlags struct {
	entry    string
	budget   int
	ticks    int
	tickMs   uint64
	realtime bool
	fuzz     bool
	seed     uint64
	ui       string
	save     bool
	store    string
	owner    string
	objects  []string
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVar(&f.entry, "entry", "", "function to start (default [run].entry)")
	cmd.Flags().IntVar(&f.budget, "budget", 0, "steps per task per tick (default [runtime].step_budget)")
	cmd.Flags().IntVar(&f.ticks, "ticks", 0, "stop after this many ticks (default [run].ticks)")
	cmd.Flags().Uint64Var(&f.tickMs, "tick-ms", 0, "virtual tick length (default [runtime].tick_ms)")
	cmd.Flags().BoolVar(&f.realtime, "realtime", false, "pace ticks by the wall clock")
	cmd.Flags().BoolVar(&f.fuzz, "fuzz", false, "shuffle task order every tick")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for --fuzz and rand() (default [runtime].seed)")
	cmd.Flags().StringVar(&f.ui, "ui", "off", "live task view (auto|on|off)")
	cmd.Flags().BoolVar(&f.save, "save", false, "save tasks still running at the tick limit")
	cmd.Flags().StringVar(&f.store, "store", "", "save store path (default [save].path)")
	cmd.Flags().StringVar(&f.owner, "owner", "", "owner prefix for saved tasks (default [run].owner)")
	cmd.Flags().StringArrayVar(&f.objects, "object", nil, "add a world object, Category:x,y (repeatable)")
}

// apply overrides cfg with the flags the user set.
func (f *runFlags) apply(cmd *cobra.Command, cfg *project.Config) {
	if f.entry != "" {
		cfg.Run.Entry = f.entry
	}
	if f.budget > 0 {
		cfg.Runtime.StepBudget = f.budget
	}
	if f.ticks > 0 {
		cfg.Run.Ticks = f.ticks
	}
	if f.tickMs > 0 {
		cfg.Runtime.TickMs = f.tickMs
	}
	if cmd.Flags().Changed("seed") {
		cfg.Runtime.Seed = f.seed
	}
	if f.owner != "" {
		cfg.Run.Owner = f.owner
	}
	cfg.World.Objects = append(cfg.World.Objects, f.objects...)
}

// runner drives an executor for the CLI.
type runner struct {
	cmd      *cobra.Command
	cfg      project.Config
	flags    *runFlags
	ex       *sched.Executor
	timer    *observ.Timer
	watchdog *trace.Heartbeat
	owners   map[uuid.UUID]string
	printed  map[uuid.UUID]int
	colorErr bool
}

func newRunner(cmd *cobra.Command, cfg project.Config, flags *runFlags) (*runner, error) {
	reg, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	world, err := newWorld(cfg.World.Objects)
	if err != nil {
		return nil, err
	}
	tracer := trace.FromContext(cmd.Context())
	ctx := newEngineContext(cfg, reg, tracer)
	var clock sched.Clock
	if flags.realtime {
		clock = sched.NewRealClock()
	}
	ex := sched.NewExecutor(ctx, world, sched.Config{
		Budget: cfg.Runtime.StepBudget,
		TickMs: cfg.Runtime.TickMs,
		Clock:  clock,
		Fuzz:   flags.fuzz,
		Seed:   cfg.Runtime.Seed,
	})
	return &runner{
		cmd:      cmd,
		cfg:      cfg,
		flags:    flags,
		ex:       ex,
		timer:    observ.NewTimer(),
		watchdog: trace.HeartbeatFromContext(cmd.Context()),
		owners:   make(map[uuid.UUID]string),
		printed:  make(map[uuid.UUID]int),
		colorErr: useColor(cmd, os.Stderr),
	}, nil
}

// ownerFor derives the save key of a script.
func (r *runner) ownerFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if r.cfg.Run.Owner == "" {
		return base
	}
	return r.cfg.Run.Owner + "/" + base
}

// spawn compiles and starts a script; compile errors are printed.
func (r *runner) spawn(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	var task *sched.Task
	r.timer.Measure("compile", func() string {
		task, err = r.ex.Spawn(path, src, r.cfg.Run.Entry)
		if err != nil {
			return "error"
		}
		return ""
	})
	if err != nil {
		r.reportCompile(path, src, err)
		return err
	}
	r.owners[task.ID] = r.ownerFor(path)
	return nil
}

// resume loads a saved record as a new task and restores its state.
func (r *runner) resume(rec savestore.Record) error {
	task, err := r.ex.Load(uuid.Nil, rec.Name, rec.Source)
	if err != nil {
		r.reportCompile(rec.Name, rec.Source, err)
		return err
	}
	task.Bot.SetState(rec.Bot)
	r.owners[task.ID] = rec.Owner
	return r.ex.Resume(task.ID, rec.Data)
}

func (r *runner) reportCompile(path string, src []byte, err error) {
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		return
	}
	// у новой программы исходник всегда первый файл
	fs := source.NewFileSet()
	fs.AddVirtual(path, src)
	bag := diag.NewBag(1)
	bag.Add(*d)
	diagfmt.Pretty(r.cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: r.colorErr, Context: 1})
}

// tick advances one tick and prints new messages to out.
func (r *runner) tick(out io.Writer) int {
	var running int
	r.timer.Measure("tick", func() string {
		running = r.ex.Tick()
		return ""
	})
	r.watchdog.Observe(r.ex.TickCount(), running)
	if out != nil {
		r.flushMessages(out)
	}
	return running
}

func (r *runner) flushMessages(out io.Writer) {
	for _, t := range r.ex.Tasks() {
		for _, msg := range t.Bot.Log[r.printed[t.ID]:] {
			fmt.Fprintf(out, "[%6.2fs] %s: %s\n", msg.Time, r.owners[t.ID], msg.Text)
		}
		r.printed[t.ID] = len(t.Bot.Log)
	}
}

// finish reports failures, saves leftovers and prints timings.
func (r *runner) finish() error {
	failed := 0
	for _, t := range r.ex.Tasks() {
		if t.Status != sched.TaskFailed {
			continue
		}
		failed++
		var rt *engine.RuntimeError
		if errors.As(t.Err, &rt) {
			diagfmt.Runtime(r.cmd.ErrOrStderr(), rt, t.Program.Files(), diagfmt.PrettyOpts{Color: r.colorErr, Context: 1})
		} else {
			fmt.Fprintf(r.cmd.ErrOrStderr(), "%s: %v\n", r.owners[t.ID], t.Err)
		}
	}

	if r.flags.save {
		if err := r.saveRunning(); err != nil {
			return err
		}
	} else if n := r.ex.Running(); n > 0 {
		r.stopAll()
		if quiet, _ := r.cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(r.cmd.ErrOrStderr(), "tick limit reached, %d tasks stopped\n", n)
		}
	}

	if showTimings, _ := r.cmd.Root().PersistentFlags().GetBool("timings"); showTimings {
		fmt.Fprint(r.cmd.ErrOrStderr(), r.timer.Summary())
	}
	if failed > 0 {
		return fmt.Errorf("%d tasks failed", failed)
	}
	return nil
}

func (r *runner) stopAll() {
	for _, t := range r.ex.Tasks() {
		_ = r.ex.Stop(t.ID)
	}
}

// saveRunning stores every running task and then stops all of them,
// also when a save fails.
func (r *runner) saveRunning() error {
	defer r.stopAll()
	_, manifest, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(storePath(r.flags.store, r.cfg, manifest))
	if err != nil {
		return err
	}
	defer store.Close()

	idx := r.timer.Begin("save")
	saved := 0
	for _, t := range r.ex.Tasks() {
		if t.Status != sched.TaskRunning {
			continue
		}
		data, err := r.ex.Snapshot(t.ID)
		if err != nil {
			return err
		}
		err = store.Put(savestore.Record{
			Owner:       r.owners[t.ID],
			Name:        t.Name,
			Entry:       r.cfg.Run.Entry,
			Fingerprint: t.Program.Fingerprint(),
			SavedAt:     time.Now(),
			Source:      t.Source,
			Bot:         t.Bot.State(),
			Data:        data,
		})
		if err != nil {
			return err
		}
		saved++
		fmt.Fprintf(r.cmd.OutOrStdout(), "saved %s\n", r.owners[t.ID])
	}
	r.timer.End(idx, fmt.Sprintf("%d tasks", saved))
	return nil
}
