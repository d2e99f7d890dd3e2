package sched

import (
	"errors"
	"strings"
	"testing"
	"time"

	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/natives"
	"cbot/internal/robot"
	"cbot/internal/stdlib"
	"cbot/internal/types"
)

func newExecutor(t *testing.T, cfg Config) *Executor {
	t.Helper()
	reg := natives.NewRegistry()
	if err := stdlib.Register(reg, stdlib.Options{}); err != nil {
		t.Fatal(err)
	}
	if err := robot.Register(reg); err != nil {
		t.Fatal(err)
	}
	reg.Register("boom", func(*natives.Call) (bool, diag.Code) {
		panic("native exploded")
	}, natives.Sig(types.Void))
	fragile := reg.Register("fragile", func(*natives.Call) (bool, diag.Code) {
		panic("native exploded")
	}, natives.Sig(types.Void))
	fragile.Release = func(*natives.Call) { panic("release exploded") }
	return NewExecutor(engine.NewContext(reg), nil, cfg)
}

func TestTicksInterleaveTasks(t *testing.T) {
	ex := newExecutor(t, Config{TickMs: 100})
	a, err := ex.Spawn("a.cbot", []byte(`wait(0.15); message("a");`), "main")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ex.Spawn("b.cbot", []byte(`wait(0.45); message("b");`), "main")
	if err != nil {
		t.Fatal(err)
	}
	if n := ex.Tick(); n != 2 {
		t.Fatalf("after first tick running = %d", n)
	}
	ex.Tick()
	if a.Status != TaskDone || b.Status != TaskRunning {
		t.Fatalf("statuses after 2 ticks: %v %v", a.Status, b.Status)
	}
	ticks := ex.RunUntilIdle(100)
	if ticks != 3 || b.Status != TaskDone {
		t.Fatalf("b finished after %d more ticks, status %v", ticks, b.Status)
	}
	if ex.NowMs() != 500 {
		t.Fatalf("clock = %d", ex.NowMs())
	}
	if len(a.Bot.Log) != 1 || a.Bot.Log[0].Text != "a" || b.Bot.Log[0].Text != "b" {
		t.Fatalf("logs: %v %v", a.Bot.Log, b.Bot.Log)
	}
}

func TestFailuresAreIsolated(t *testing.T) {
	ex := newExecutor(t, Config{})
	good, _ := ex.Spawn("good.cbot", []byte(`wait(0.2); message("ok");`), "main")
	div, _ := ex.Spawn("div.cbot", []byte(`int z = 0; int r = 1 / z;`), "main")
	panicky, _ := ex.Spawn("panic.cbot", []byte(`boom();`), "main")
	deep, _ := ex.Spawn("deep.cbot", []byte(`int f(int n) { return f(n + 1); } f(0);`), "main")

	ex.RunUntilIdle(100)
	if good.Status != TaskDone || good.Bot.Log[0].Text != "ok" {
		t.Fatalf("good task: %v %v", good.Status, good.Err)
	}
	var rt *engine.RuntimeError
	if div.Status != TaskFailed || !errors.As(div.Err, &rt) || rt.Code != diag.RunZeroDiv {
		t.Fatalf("div task: %v %v", div.Status, div.Err)
	}
	if panicky.Status != TaskFailed || panicky.Err == nil {
		t.Fatalf("panicking task: %v %v", panicky.Status, panicky.Err)
	}
	if deep.Status != TaskFailed || !errors.As(deep.Err, &rt) || rt.Code != diag.RunStackOverflow {
		t.Fatalf("deep task: %v %v", deep.Status, deep.Err)
	}
}

func TestPanickingReleaseIsContained(t *testing.T) {
	ex := newExecutor(t, Config{})
	bad, _ := ex.Spawn("fragile.cbot", []byte(`fragile();`), "main")
	good, _ := ex.Spawn("good.cbot", []byte(`wait(0.1); message("ok");`), "main")

	ex.RunUntilIdle(100)
	if bad.Status != TaskFailed || bad.Err == nil || !strings.Contains(bad.Err.Error(), "panicked") {
		t.Fatalf("fragile task: %v %v", bad.Status, bad.Err)
	}
	if good.Status != TaskDone || good.Bot.Log[0].Text != "ok" {
		t.Fatalf("good task: %v %v", good.Status, good.Err)
	}
}

func TestCompileErrorDoesNotSpawn(t *testing.T) {
	ex := newExecutor(t, Config{})
	if _, err := ex.Spawn("bad.cbot", []byte(`int a = ;`), "main"); err == nil {
		t.Fatalf("expected compile error")
	}
	if len(ex.Tasks()) != 0 {
		t.Fatalf("failed compile left a task")
	}
}

func TestStopReleasesAndRemove(t *testing.T) {
	ex := newExecutor(t, Config{})
	task, _ := ex.Spawn("mover.cbot", []byte(`move(50);`), "main")
	ex.Tick()
	if task.Bot.Action != "move" {
		t.Fatalf("action = %q", task.Bot.Action)
	}
	if err := ex.Stop(task.ID); err != nil {
		t.Fatal(err)
	}
	if task.Status != TaskStopped || task.Bot.Action != "" {
		t.Fatalf("stop: %v %q", task.Status, task.Bot.Action)
	}
	if err := ex.Remove(task.ID); err != nil {
		t.Fatal(err)
	}
	if ex.Task(task.ID) != nil || !errors.Is(ex.Stop(task.ID), ErrUnknownTask) {
		t.Fatalf("task not removed")
	}
}

func TestAbort(t *testing.T) {
	ex := newExecutor(t, Config{})
	task, _ := ex.Spawn("loop.cbot", []byte(`while (true) { wait(1); }`), "main")
	ex.Tick()
	if err := ex.Abort(task.ID, diag.RunNoRun); err != nil {
		t.Fatal(err)
	}
	if task.Status != TaskFailed {
		t.Fatalf("status = %v", task.Status)
	}
	if code, _, _ := task.Program.Error(); code != diag.RunNoRun {
		t.Fatalf("code = %v", code)
	}
}

func TestSnapshotResume(t *testing.T) {
	src := []byte(`wait(0.3); message("resumed");`)
	ex := newExecutor(t, Config{})
	task, _ := ex.Spawn("w.cbot", src, "main")
	ex.Tick()
	data, err := ex.Snapshot(task.ID)
	if err != nil {
		t.Fatal(err)
	}

	other := newExecutor(t, Config{})
	copyTask, err := other.Load(task.ID, "w.cbot", src)
	if err != nil {
		t.Fatal(err)
	}
	if copyTask.Status != TaskIdle {
		t.Fatalf("loaded task status %v", copyTask.Status)
	}
	if err := other.Resume(task.ID, data); err != nil {
		t.Fatal(err)
	}
	other.RunUntilIdle(100)
	if copyTask.Status != TaskDone || copyTask.Bot.Log[0].Text != "resumed" {
		t.Fatalf("resumed task: %v %v", copyTask.Status, copyTask.Err)
	}

	if err := other.Resume(task.ID, data[:4]); err == nil {
		t.Fatalf("truncated snapshot accepted")
	}
	if copyTask.Status != TaskFailed {
		t.Fatalf("failed resume status %v", copyTask.Status)
	}
}

func TestFuzzOrderIsReproducible(t *testing.T) {
	order := func() []string {
		ex := newExecutor(t, Config{Fuzz: true, Seed: 42})
		for _, name := range []string{"a", "b", "c", "d"} {
			if _, err := ex.Spawn(name, []byte(`wait(0.05);`), "main"); err != nil {
				t.Fatal(err)
			}
		}
		ex.Tick()
		var out []string
		for _, task := range ex.Tasks() {
			out = append(out, task.Name+":"+task.Status.String())
		}
		return out
	}
	a, b := order(), order()
	if len(a) != 4 || len(a) != len(b) {
		t.Fatalf("orders: %v %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("fuzz with the same seed differs: %v %v", a, b)
		}
	}
}

func TestVirtualClockNeverGoesBack(t *testing.T) {
	var c VirtualClock
	c.SleepUntilMs(150)
	c.SleepUntilMs(100)
	if c.NowMs() != 150 {
		t.Fatalf("now = %d", c.NowMs())
	}
}

func TestRealClockSleepsUntilDeadline(t *testing.T) {
	var slept []time.Duration
	c := &RealClock{start: time.Now(), sleep: func(d time.Duration) { slept = append(slept, d) }}
	c.SleepUntilMs(60_000)
	c.SleepUntilMs(0)
	if len(slept) != 1 || slept[0] <= 59*time.Second || slept[0] > time.Minute {
		t.Fatalf("slept %v", slept)
	}
}
