package sched

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/program"
	"cbot/internal/robot"
	"cbot/internal/trace"
)

// ErrUnknownTask is returned for ids the executor does not hold.
var ErrUnknownTask = errors.New("sched: unknown task")

// TaskStatus describes task scheduling state.
type TaskStatus uint8

const (
	TaskIdle TaskStatus = iota // compiled, not started
	TaskRunning
	TaskDone
	TaskFailed
	TaskStopped
)

func (s TaskStatus) String() string {
	switch s {
	case TaskIdle:
		return "idle"
	case TaskRunning:
		return "running"
	case TaskDone:
		return "done"
	case TaskFailed:
		return "failed"
	case TaskStopped:
		return "stopped"
	}
	return "unknown"
}

// Task is one scripted object.
type Task struct {
	ID      uuid.UUID
	Name    string
	Source  []byte
	Program *program.Program
	Bot     *robot.Bot
	Status  TaskStatus
	Ticks   int   // ticks spent running
	Err     error // why the task failed
}

// Config configures the executor.
type Config struct {
	Budget int    // steps per task per tick; <= 0 uses DefaultBudget
	TickMs uint64 // tick length; 0 uses DefaultTickMs
	Clock  Clock  // nil uses a VirtualClock
	Fuzz   bool   // shuffle task order every tick
	Seed   uint64
}

const (
	DefaultBudget = 1000
	DefaultTickMs = 50
)

// Executor drives every task once per tick in spawn order.
type Executor struct {
	cfg   Config
	ctx   *engine.Context
	world *robot.World
	order []uuid.UUID
	tasks map[uuid.UUID]*Task
	ticks uint64
	rng   *rand.Rand
}

// NewExecutor creates an executor sharing ctx and world between tasks.
func NewExecutor(ctx *engine.Context, world *robot.World, cfg Config) *Executor {
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	if cfg.TickMs == 0 {
		cfg.TickMs = DefaultTickMs
	}
	if cfg.Clock == nil {
		cfg.Clock = &VirtualClock{}
	}
	if world == nil {
		world = robot.NewWorld()
	}
	if ctx == nil {
		ctx = engine.NewContext(nil)
	}
	ex := &Executor{cfg: cfg, ctx: ctx, world: world, tasks: make(map[uuid.UUID]*Task)}
	ctx.Tracer = trace.WithTicks(ctx.Tracer, func() uint64 { return ex.ticks })
	if cfg.Fuzz {
		seed := cfg.Seed
		if seed == 0 {
			seed = 1
		}
		ex.rng = rand.New(rand.NewPCG(seed, seed))
	}
	return ex
}

func (e *Executor) World() *robot.World { return e.world }

// TickCount is the number of ticks run so far.
func (e *Executor) TickCount() uint64 { return e.ticks }

// NowMs is the executor clock.
func (e *Executor) NowMs() uint64 { return e.cfg.Clock.NowMs() }

// Load compiles src as a new idle task. A zero id gets a fresh one.
func (e *Executor) Load(id uuid.UUID, name string, src []byte) (*Task, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, dup := e.tasks[id]; dup {
		return nil, fmt.Errorf("sched: task %s already exists", id)
	}
	bot := robot.NewBot(id.String(), e.world)
	p := program.New(e.ctx, id.String())
	p.SetHost(bot)
	if err := p.Compile(name, src); err != nil {
		return nil, err
	}
	t := &Task{ID: id, Name: name, Source: src, Program: p, Bot: bot}
	e.tasks[id] = t
	e.order = append(e.order, id)
	return t, nil
}

// Spawn loads src and starts entry.
func (e *Executor) Spawn(name string, src []byte, entry string) (*Task, error) {
	t, err := e.Load(uuid.Nil, name, src)
	if err != nil {
		return nil, err
	}
	if err := e.Start(t.ID, entry); err != nil {
		return nil, err
	}
	return t, nil
}

// Start (re)starts a loaded task on entry.
func (e *Executor) Start(id uuid.UUID, entry string) error {
	t := e.tasks[id]
	if t == nil {
		return ErrUnknownTask
	}
	if err := t.Program.Start(entry); err != nil {
		t.Status, t.Err = TaskFailed, err
		return err
	}
	t.Status, t.Err = TaskRunning, nil
	trace.Point(e.taskTracer(t), trace.ScopeHost, "task:start", t.Name, 0)
	return nil
}

// Task returns a task by id.
func (e *Executor) Task(id uuid.UUID) *Task {
	if e == nil {
		return nil
	}
	return e.tasks[id]
}

// Tasks lists tasks in spawn order.
func (e *Executor) Tasks() []*Task {
	out := make([]*Task, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.tasks[id])
	}
	return out
}

// Running counts running tasks.
func (e *Executor) Running() int {
	n := 0
	for _, t := range e.tasks {
		if t.Status == TaskRunning {
			n++
		}
	}
	return n
}

// Tick advances the clock by one tick and runs every running task once.
// It returns the number of tasks still running.
func (e *Executor) Tick() int {
	e.ticks++
	span := trace.Begin(e.ctx.Tracer, trace.ScopeHost, "tick", 0)
	e.cfg.Clock.SleepUntilMs(e.ticks * e.cfg.TickMs)
	dt := float32(e.cfg.TickMs) / 1000

	order := e.order
	if e.rng != nil {
		order = slices.Clone(e.order)
		e.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	for _, id := range order {
		t := e.tasks[id]
		if t == nil || t.Status != TaskRunning {
			continue
		}
		t.Bot.Tick(dt)
		t.Ticks++
		e.poll(t, span.ID())
	}
	running := e.Running()
	span.Attr("tasks", strconv.Itoa(len(order))).End(fmt.Sprintf("%d running", running))
	return running
}

// poll gives t one slice; a panicking native fails only t.
func (e *Executor) poll(t *Task, parent uint64) {
	defer func() {
		if r := recover(); r != nil {
			t.Status, t.Err = TaskFailed, fmt.Errorf("task %s panicked: %v", t.Name, r)
			trace.Point(e.taskTracer(t), trace.ScopeHost, "task:panic", fmt.Sprint(r), parent)
			e.release(t, parent)
		}
	}()
	if t.Program.Run(e.cfg.Budget) {
		return
	}
	if rt := t.Program.RuntimeError(); rt != nil {
		t.Status, t.Err = TaskFailed, rt
		trace.Point(e.taskTracer(t), trace.ScopeHost, "task:failed", rt.Code.ID(), parent)
		return
	}
	t.Status = TaskDone
	trace.Point(e.taskTracer(t), trace.ScopeHost, "task:done", "", parent)
}

// release stops a task whose engine panicked. Release hooks run on a
// broken tree and may panic again; that panic is only traced.
func (e *Executor) release(t *Task, parent uint64) {
	defer func() {
		if r := recover(); r != nil {
			trace.Point(e.taskTracer(t), trace.ScopeHost, "task:release", fmt.Sprint(r), parent)
		}
	}()
	t.Program.Stop()
}

func (e *Executor) taskTracer(t *Task) trace.Tracer {
	return trace.ForOwner(e.ctx.Tracer, t.Program.Owner())
}

// RunUntilIdle ticks until no task runs or maxTicks pass, and returns
// the ticks spent.
func (e *Executor) RunUntilIdle(maxTicks int) int {
	n := 0
	for n < maxTicks && e.Running() > 0 {
		e.Tick()
		n++
	}
	return n
}

// Stop halts a task, releasing its pending action.
func (e *Executor) Stop(id uuid.UUID) error {
	t := e.tasks[id]
	if t == nil {
		return ErrUnknownTask
	}
	if t.Status == TaskRunning {
		t.Program.Stop()
		t.Status = TaskStopped
	}
	return nil
}

// Abort halts a task as failed with code, as when its robot is destroyed.
func (e *Executor) Abort(id uuid.UUID, code diag.Code) error {
	t := e.tasks[id]
	if t == nil {
		return ErrUnknownTask
	}
	if t.Status == TaskRunning {
		t.Program.Abort(code)
		t.Status, t.Err = TaskFailed, fmt.Errorf("task %s aborted: %s", t.Name, code)
	}
	return nil
}

// Remove stops and forgets a task.
func (e *Executor) Remove(id uuid.UUID) error {
	if err := e.Stop(id); err != nil {
		return err
	}
	delete(e.tasks, id)
	e.order = slices.DeleteFunc(e.order, func(x uuid.UUID) bool { return x == id })
	return nil
}
