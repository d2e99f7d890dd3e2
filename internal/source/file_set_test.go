package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("bot.cbot", []byte("move(1);"), 0)
	id2 := fs.Add("bot.cbot", []byte("turn(90);"), 0)
	if id1 == id2 {
		t.Fatalf("expected a new id for the second version")
	}
	latest, ok := fs.Lookup("./bot.cbot")
	if !ok || latest != id2 {
		t.Fatalf("Lookup = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "move(1);" {
		t.Fatalf("old version lost: %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Fatalf("unknown id must resolve to nil")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.cbot", []byte("int a;\nint b;\n  b = a;"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{4, LineCol{1, 5}},
		{6, LineCol{1, 7}}, // сам '\n' принадлежит первой строке
		{7, LineCol{2, 1}},
		{16, LineCol{3, 3}},
	}
	for _, tc := range cases {
		got, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if got != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestLine(t *testing.T) {
	f := NewFileSet()
	id := f.AddVirtual("x.cbot", []byte("first\nsecond\nthird"))
	file := f.Get(id)
	for i, want := range []string{"first", "second", "third", ""} {
		if got := file.Line(uint32(i + 1)); got != want {
			t.Errorf("line %d: got %q, want %q", i+1, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	out, flags := normalize([]byte("\xEF\xBB\xBFa\r\nb\rc"))
	if string(out) != "a\nb\rc" || flags != FileHadBOM|FileNormalizedCRLF {
		t.Fatalf("normalize = %q, %b", out, flags)
	}
	out, flags = normalize([]byte("plain\n"))
	if string(out) != "plain\n" || flags != 0 {
		t.Fatalf("normalize plain = %q, %b", out, flags)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.cbot")
	if err := os.WriteFile(path, []byte("move(1);\r\nturn(2);\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 || f.Line(2) != "turn(2);" {
		t.Fatalf("loaded %+v", f)
	}
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.cbot")); err == nil {
		t.Fatal("missing file loaded")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file cover must be a no-op, got %v", got)
	}
}
