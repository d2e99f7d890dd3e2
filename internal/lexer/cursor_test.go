package lexer

import (
	"testing"

	"cbot/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cbot", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	c := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if c.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := c.Bump(); got != want {
			t.Fatalf("bump: got %q, want %q", got, want)
		}
	}
	if !c.EOF() || c.Peek() != 0 || c.Bump() != 0 || c.Pos() != 3 {
		t.Fatalf("expected EOF state")
	}
}

func TestCursorMatch(t *testing.T) {
	c := NewCursor(createFile(">>="))
	if c.Match('>', '>', '>') || c.Pos() != 0 {
		t.Fatalf("partial match consumed input")
	}
	if !c.Match('>', '>') || c.At(0) != '=' || c.At(1) != 0 {
		t.Fatalf("match/lookahead wrong at %d", c.Pos())
	}
}

func TestCursorRunes(t *testing.T) {
	c := NewCursor(createFile("ж\xffx"))
	if r, n := c.Rune(); r != 'ж' || n != 2 {
		t.Fatalf("rune = %q/%d", r, n)
	}
	c.BumpRune()
	c.BumpRune() // invalid byte
	m := c.Mark()
	c.BumpRune()
	if c.Text(m) != "x" || !c.EOF() {
		t.Fatalf("text = %q", c.Text(m))
	}
	c.BumpRune()
	if c.Pos() != 4 {
		t.Fatalf("BumpRune at EOF moved to %d", c.Pos())
	}
}

func TestCursorSpan(t *testing.T) {
	c := NewCursor(createFile("while"))
	m := c.Mark()
	for range 3 {
		c.Bump()
	}
	if sp := c.SpanFrom(m); sp.Start != 0 || sp.End != 3 {
		t.Fatalf("span = %v", sp)
	}
}
