package stdlib_test

import (
	"strconv"
	"testing"

	"cbot/internal/compiler"
	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/natives"
	"cbot/internal/source"
	"cbot/internal/stdlib"
	"cbot/internal/types"
)

func eval(t *testing.T, seed uint64, src string) []string {
	t.Helper()
	var out []string
	reg := natives.NewRegistry()
	if err := stdlib.Register(reg, stdlib.Options{Seed: seed}); err != nil {
		t.Fatal(err)
	}
	reg.Register("message", func(c *natives.Call) (bool, diag.Code) {
		out = append(out, c.Arg(0).AsString())
		return true, diag.OK
	}, natives.Sig(types.Void, types.String))

	fs := source.NewFileSet()
	u, d := compiler.Compile(fs.Get(fs.AddVirtual("t.cbot", []byte(src))), compiler.Env{Registry: reg})
	if d != nil {
		t.Fatalf("compile %q: %v", src, d)
	}
	e := engine.New(engine.NewContext(reg), u)
	if err := e.Start(compiler.MainName); err != nil {
		t.Fatal(err)
	}
	if e.Run(-1) {
		t.Fatalf("%q did not finish", src)
	}
	if e.Err() != nil {
		t.Fatalf("%q: %v", src, e.Err())
	}
	return out
}

func TestStringFunctions(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{`"" + strlen("héllo")`, "5"},
		{`"" + strlen("")`, "0"},
		{`strleft("robot", 3)`, "rob"},
		{`strleft("robot", 99)`, "robot"},
		{`strright("robot", 2)`, "ot"},
		{`strmid("robot", 1, 3)`, "obo"},
		{`strmid("robot", 2)`, "bot"},
		{`strmid("robot", 9)`, ""},
		{`strleft("ёжик", 2)`, "ёж"},
		{`"" + strfind("robot", "bo")`, "2"},
		{`"" + strfind("жёлтый", "лт")`, "2"},
		{`"" + strfind("robot", "x")`, "-1"},
		{`"" + strval("12.5abc")`, "12.5"},
		{`"" + strval("-3")`, "-3"},
		{`"" + strval("abc")`, "0"},
		{`strupper("Abc")`, "ABC"},
		{`strlower("AbC")`, "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got := eval(t, 1, "message("+tc.expr+");")
			if len(got) != 1 || got[0] != tc.want {
				t.Fatalf("%s = %v, want %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestMathFunctions(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{`abs(-3)`, "3"},
		{`sqrt(16)`, "4"},
		{`pow(2, 10)`, "1024"},
		{`sin(90)`, "1"},
		{`cos(0)`, "1"},
		{`atan2(1, 1)`, "45"},
		{`asin(1)`, "90"},
		{`floor(2.7)`, "2"},
		{`ceil(2.1)`, "3"},
		{`round(2.5)`, "3"},
		{`trunc(-2.7)`, "-2"},
		{`sqrt(-1)`, "nan"},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got := eval(t, 1, `message("" + `+tc.expr+`);`)
			if len(got) != 1 || got[0] != tc.want {
				t.Fatalf("%s = %v, want %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestRandIsSeeded(t *testing.T) {
	src := `message("" + rand()); message("" + rand());`
	a := eval(t, 7, src)
	b := eval(t, 7, src)
	if a[0] != b[0] || a[1] != b[1] {
		t.Fatalf("same seed, different sequences: %v %v", a, b)
	}
	for _, s := range a {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil || f < 0 || f >= 1 {
			t.Fatalf("rand() = %s", s)
		}
	}
}

func TestPointDistances(t *testing.T) {
	got := eval(t, 1, `
point a;
point b;
b.x = 3; b.y = 4; b.z = 12;
message("" + distance2d(a, b));
message("" + distance(a, b));
point c = b;
c.x = 0;
message("" + b.x);
`)
	want := []string{"5", "13", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
