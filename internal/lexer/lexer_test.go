package lexer_test

import (
	"testing"

	"cbot/internal/diag"
	"cbot/internal/lexer"
	"cbot/internal/source"
	"cbot/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	toks := lexer.Tokenize([]byte(src))
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d: got %v, want %v (all: %v)", src, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestDeclaration(t *testing.T) {
	toks := expectKinds(t, "int a = 5;",
		token.KwInt, token.Ident, token.Assign, token.IntLit, token.Semicolon)
	if toks[1].Text != "a" || toks[3].Text != "5" {
		t.Fatalf("unexpected texts %q %q", toks[1].Text, toks[3].Text)
	}
	if toks[3].Span.Start != 8 || toks[3].Span.End != 9 {
		t.Fatalf("unexpected span %v", toks[3].Span)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"123", token.IntLit},
		{"0x1F", token.IntLit},
		{"0b101", token.IntLit},
		{"1.5", token.FloatLit},
		{".5", token.FloatLit},
		{"2.", token.FloatLit},
		{"1e3", token.FloatLit},
		{"1.5E-2", token.FloatLit},
		{"0x", token.Invalid},
		{"1e", token.Invalid},
		{"12abc", token.Invalid},
	}
	for _, tc := range cases {
		toks := expectKinds(t, tc.src, tc.kind)
		if toks[0].Text != tc.src {
			t.Errorf("%q: text %q", tc.src, toks[0].Text)
		}
	}
}

func TestLongestMatchOperators(t *testing.T) {
	expectKinds(t, "a >>>= b >>> c >>= d >> e >= f > g",
		token.Ident, token.UShrAssign, token.Ident, token.UShr, token.Ident,
		token.ShrAssign, token.Ident, token.Shr, token.Ident, token.GtEq,
		token.Ident, token.Gt, token.Ident)
	expectKinds(t, "i++ + --j",
		token.Ident, token.PlusPlus, token.Plus, token.MinusMinus, token.Ident)
	expectKinds(t, "a&&b||!c",
		token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Bang, token.Ident)
}

func TestCommentsAreSkippedAndAttached(t *testing.T) {
	toks := expectKinds(t, "// head\nwait(1); /* block */ x",
		token.Ident, token.LParen, token.IntLit, token.RParen, token.Semicolon, token.Ident)
	if len(toks[0].Leading) != 1 || toks[0].Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("expected line comment on first token, got %+v", toks[0].Leading)
	}
	if len(toks[5].Leading) != 1 || toks[5].Leading[0].Text != "/* block */" {
		t.Fatalf("expected block comment on x, got %+v", toks[5].Leading)
	}
}

func TestStrings(t *testing.T) {
	toks := expectKinds(t, `message("a\"b\n");`,
		token.Ident, token.LParen, token.StringLit, token.RParen, token.Semicolon)
	if got := lexer.Unquote(toks[2].Text); got != "a\"b\n" {
		t.Fatalf("unquote = %q", got)
	}
	expectKinds(t, `"open`, token.Invalid)
	expectKinds(t, "\"line\nbreak\"", token.Invalid, token.KwBreak, token.Invalid)
}

func TestUnknownCharactersNeverFail(t *testing.T) {
	expectKinds(t, "a # b", token.Ident, token.Invalid, token.Ident)
	expectKinds(t, "x € y", token.Ident, token.Invalid, token.Ident)
	expectKinds(t, "\xff", token.Invalid)
	expectKinds(t, "")
}

func TestKeywordsAndTypeNames(t *testing.T) {
	toks := expectKinds(t, "extern void object boolean nan",
		token.KwExtern, token.KwVoid, token.Ident, token.KwBool, token.KwNan)
	if toks[1].Class() != token.ClassTypeName || toks[0].Class() != token.ClassKeyword {
		t.Fatalf("unexpected classes")
	}
}

func TestReporterReceivesLexErrors(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.cbot", []byte("int a = \"x; /* open")))
	bag := diag.NewBag(8)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	for lx.Next().Kind != token.EOF {
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("unexpected diagnostics %+v", bag.Items())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("p.cbot", []byte("if (x)")))
	lx := lexer.New(file, lexer.Options{})
	if lx.Peek().Kind != token.KwIf || lx.Next().Kind != token.KwIf {
		t.Fatalf("peek consumed token")
	}
	if lx.Next().Kind != token.LParen {
		t.Fatalf("expected (")
	}
}
