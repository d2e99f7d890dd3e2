package ui

import (
	"strings"
	"testing"

	"cbot/internal/sched"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a-very-long-task-name", 10, "a-very-..."},
		{"日本語のタスク", 7, "日本..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestModelConsumesEvents(t *testing.T) {
	events := make(chan Event, 2)
	model := NewRunModel("bots", 10, events).(*runModel)

	events <- Event{Tick: 2, ClockMs: 100, Tasks: []TaskRow{
		{Name: "miner.cbot", Status: sched.TaskRunning, Ticks: 2, Energy: 0.5, X: 3, Message: "digging"},
		{Name: "scout.cbot", Status: sched.TaskDone, Ticks: 1},
	}}
	close(events)

	msg := model.listenForEvent()()
	model.Update(msg)
	if got := model.percent(); got != 0.2 {
		t.Fatalf("percent = %v", got)
	}
	view := model.View()
	for _, want := range []string{"tick 2", "miner.cbot", " 50% (   3.0,   0.0)", "digging", "scout.cbot"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	if _, ok := model.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("closed channel did not finish the model")
	}
}

func TestPercentWhenAllFinished(t *testing.T) {
	model := NewRunModel("bots", 100, nil).(*runModel)
	model.last = Event{Tick: 3, Tasks: []TaskRow{{Name: "a", Status: sched.TaskFailed}}}
	if model.percent() != 1 {
		t.Fatalf("percent = %v", model.percent())
	}
}

func TestCollect(t *testing.T) {
	ex := sched.NewExecutor(nil, nil, sched.Config{})
	ev := Collect(0, ex)
	if ev.Tick != 0 || len(ev.Tasks) != 0 {
		t.Fatalf("event = %+v", ev)
	}
}
