package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cbot/internal/engine"
	"cbot/internal/project"
	"cbot/internal/sched"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	runOpts, resumeOpts = runFlags{}, runFlags{}
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLiveView(t *testing.T) {
	for in, want := range map[string]bool{"ON": true, " off ": false, "": false, "auto": false} {
		got, err := liveView(in, nil)
		if err != nil || got != want {
			t.Errorf("liveView(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := liveView("sometimes", nil); err == nil {
		t.Errorf("expected error for bad mode")
	}
}

func TestParsePathMode(t *testing.T) {
	if _, err := parsePathMode("nope"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := parsePathMode("basename"); err != nil {
		t.Fatalf("basename: %v", err)
	}
}

func TestOwnerFor(t *testing.T) {
	r := &runner{cfg: project.Defaults()}
	if got := r.ownerFor("scripts/miner.cbot"); got != "miner" {
		t.Fatalf("owner = %q", got)
	}
	r.cfg.Run.Owner = "team1"
	if got := r.ownerFor("miner.cbot"); got != "team1/miner" {
		t.Fatalf("owner = %q", got)
	}
}

func TestRunPrintsMessages(t *testing.T) {
	path := writeScript(t, t.TempDir(), "hello.cbot", `int a = 5; a = a * 2; message("" + a);`)
	out, errOut, err := execute(t, "run", "--ui", "off", path)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "[  0.05s] hello: 10\n") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	path := writeScript(t, t.TempDir(), "div.cbot", "int z = 0;\nint r = 1 / z;\n")
	_, errOut, err := execute(t, "run", "--ui", "off", path)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(errOut, "ERROR RUN6001") || !strings.Contains(errOut, "div.cbot:2:") {
		t.Fatalf("stderr:\n%s", errOut)
	}
}

func TestCheckReportsCompileError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ok.cbot", `message("fine");`)
	writeScript(t, dir, "bad.cbot", "int a = 1;\nlaunch(a);\n")
	out, errOut, err := execute(t, "check", "--format", "short", dir)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(errOut, "bad.cbot:2:1: ERROR SEM3004") {
		t.Fatalf("stderr:\n%s", errOut)
	}
	if !strings.Contains(out, "checked 2 scripts, 1 failed") {
		t.Fatalf("stdout:\n%s", out)
	}
}

func TestSaveListResume(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "saves", "store.db")
	path := writeScript(t, dir, "waiter.cbot", `message("before"); wait(0.2); message("after");`)

	out, errOut, err := execute(t, "run", "--ui", "off", "--ticks", "2", "--save", "--store", store, path)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "waiter: before") || strings.Contains(out, "after") || !strings.Contains(out, "saved waiter") {
		t.Fatalf("run output:\n%s", out)
	}

	out, _, err = execute(t, "saves", "list", "--store", store)
	if err != nil || !strings.Contains(out, "waiter") || !strings.Contains(out, "waiter.cbot") {
		t.Fatalf("list: %v\n%s", err, out)
	}

	out, errOut, err = execute(t, "resume", "--ui", "off", "--store", store, "waiter")
	if err != nil {
		t.Fatalf("resume: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "waiter: after") || strings.Contains(out, "before") {
		t.Fatalf("resume output:\n%s", out)
	}

	out, _, err = execute(t, "saves", "rm", "--store", store, "waiter")
	if err != nil || !strings.Contains(out, "deleted waiter") {
		t.Fatalf("rm: %v\n%s", err, out)
	}
	if _, _, err := execute(t, "resume", "--ui", "off", "--store", store, "waiter"); err == nil {
		t.Fatalf("resume of deleted save succeeded")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil || !strings.Contains(out, `"tool": "cbot"`) || !strings.Contains(out, `"state_format": 2`) {
		t.Fatalf("version: %v\n%s", err, out)
	}
}

func TestTokenizeJSON(t *testing.T) {
	path := writeScript(t, t.TempDir(), "tok.cbot", "int a; // note\n")
	out, _, err := execute(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	for _, want := range []string{`"kind": "int"`, `"class": "type"`, `"kind": "Ident"`, `"line-comment"`, `"kind": "EOF"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %s:\n%s", want, out)
		}
	}
}

func TestFailedSaveStillStopsTasks(t *testing.T) {
	dir := t.TempDir()
	blocker := writeScript(t, dir, "blocker", "")
	reg, err := newRegistry(project.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	ex := sched.NewExecutor(engine.NewContext(reg), nil, sched.Config{})
	task, err := ex.Spawn("mover.cbot", []byte(`move(50);`), "main")
	if err != nil {
		t.Fatal(err)
	}
	ex.Tick()
	if task.Bot.Action != "move" {
		t.Fatalf("action = %q", task.Bot.Action)
	}

	r := &runner{cmd: rootCmd, flags: &runFlags{save: true, store: filepath.Join(blocker, "store.db")}, ex: ex}
	if err := r.saveRunning(); err == nil {
		t.Fatalf("save into a file path succeeded")
	}
	if task.Status != sched.TaskStopped || task.Bot.Action != "" {
		t.Fatalf("after failed save: %v %q", task.Status, task.Bot.Action)
	}
}
