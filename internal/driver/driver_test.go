package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cbot/internal/diag"
	"cbot/internal/natives"
	"cbot/internal/token"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	path := writeScript(t, t.TempDir(), "a.cbot", "int a = 5; // five\n")
	res, err := Tokenize(path, 8)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if n := len(res.Tokens); n != 6 || res.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("unexpected tokens: %v", res.Tokens)
	}
	if len(res.Tokens[5].Leading) != 1 {
		t.Fatalf("comment not attached to EOF")
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
}

func TestCheckReportsFirstError(t *testing.T) {
	path := writeScript(t, t.TempDir(), "bad.cbot", "int a = 1;\nfoo(a);\n")
	fs, res, err := Check(path, natives.NewRegistry(), 8)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.OK() || res.Bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %v", res.Bag.Items())
	}
	d := res.Bag.Items()[0]
	if d.Code != diag.SemUnknownFunc {
		t.Fatalf("code = %s", d.Code.ID())
	}
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("position = %d:%d", start.Line, start.Col)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("timing phases missing")
	}
}

func TestCheckFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b.cbot", "int b = 2;")
	writeScript(t, dir, "nested/a.cbot", "int a = ;")
	writeScript(t, dir, "notes.txt", "not a script")
	writeScript(t, dir, "c.cbot", "void main() { int c = 3; }")
	writeScript(t, dir, ".cbot/old.cbot", "int hidden = ;")

	paths, err := ListScripts(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	missing := filepath.Join(dir, "missing.cbot")
	paths = append(paths, missing)

	_, results, err := CheckFiles(context.Background(), paths, natives.NewRegistry(), 4, 2)
	if err != nil {
		t.Fatalf("check files: %v", err)
	}
	want := map[string]bool{
		filepath.Join(dir, "b.cbot"):        true,
		filepath.Join(dir, "c.cbot"):        true,
		filepath.Join(dir, "nested/a.cbot"): false,
		missing:                             false,
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Fatalf("result %d is %s, want %s", i, res.Path, paths[i])
		}
		if res.OK() != want[res.Path] {
			t.Fatalf("%s: ok=%v diags=%v", res.Path, res.OK(), res.Bag.Items())
		}
	}
	last := results[len(results)-1]
	if last.Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing file code = %s", last.Bag.Items()[0].Code.ID())
	}
}

func TestListScriptsSingleFile(t *testing.T) {
	path := writeScript(t, t.TempDir(), "one.cbot", "")
	paths, err := ListScripts(path)
	if err != nil || len(paths) != 1 || paths[0] != path {
		t.Fatalf("paths = %v, err = %v", paths, err)
	}
}
