package compiler_test

import (
	"reflect"
	"testing"

	"cbot/internal/compiler"
	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/natives"
	"cbot/internal/source"
	"cbot/internal/types"
	"cbot/internal/value"
)

func testRegistry() *natives.Registry {
	r := natives.NewRegistry()
	r.Register("message", func(*natives.Call) (bool, diag.Code) { return true, diag.OK },
		natives.SigOpt(types.Void, 1, types.String, types.Int))
	r.Register("wait", func(*natives.Call) (bool, diag.Code) { return true, diag.OK },
		natives.Sig(types.Void, types.Float))
	r.Register("abs", func(*natives.Call) (bool, diag.Code) { return true, diag.OK },
		natives.Sig(types.Float, types.Float))
	r.RegisterConst("Answer", value.FromInt(42))
	return r
}

func compile(t *testing.T, src string) (*ir.Unit, *diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cbot", []byte(src)))
	return compiler.Compile(file, compiler.Env{Registry: testRegistry()})
}

func mustCompile(t *testing.T, src string) *ir.Unit {
	t.Helper()
	u, d := compile(t, src)
	if d != nil {
		t.Fatalf("unexpected error: %v", d)
	}
	return u
}

func TestScriptModeMain(t *testing.T) {
	u := mustCompile(t, `int a = 5; a = a * 2; message("" + a);`)
	if len(u.Exports) != 1 || u.Exports[0] != compiler.MainName {
		t.Fatalf("exports = %v", u.Exports)
	}
	main := u.Func(compiler.MainName)
	if main == nil || len(main.Body.Stmts) != 3 {
		t.Fatalf("main body wrong: %+v", main)
	}
	if len(u.Natives) != 1 || u.Natives[0] != "message" {
		t.Fatalf("natives = %v", u.Natives)
	}
}

func TestExportsInDeclarationOrder(t *testing.T) {
	u := mustCompile(t, `
extern void first() { helper(); }
void helper() {}
extern void second() {}
`)
	if len(u.Exports) != 2 || u.Exports[0] != "first" || u.Exports[1] != "second" {
		t.Fatalf("exports = %v", u.Exports)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unknown function", `nosuch(1);`, diag.SemUnknownFunc},
		{"native checker rejects", `wait("soon");`, diag.SemBadType},
		{"type mismatch", `int a = "x";`, diag.SemBadType},
		{"undeclared", `b = 3;`, diag.SemUndefVar},
		{"redefinition", `int a; float a;`, diag.SemRedefVar},
		{"missing semicolon", `int a = 1`, diag.SynExpectSemicolon},
		{"bad char", `int a = 1 # 2;`, diag.LexUnknownChar},
		{"break outside", `break;`, diag.SemBreakOutside},
		{"missing return", `int f() { }`, diag.SemNoReturn},
		{"void return value", `void f() { return 1; }`, diag.SemBadReturn},
		{"condition not bool", `if (1) {}`, diag.SemBadType},
		{"not assignable", `5 = 3;`, diag.SemNotAssignable},
		{"unknown class", `new Nope();`, diag.SemUndefClass},
		{"duplicate function", `void f() {} void f() {}`, diag.SemRedefFunc},
		{"this outside", `this.x = 1;`, diag.SemThisOutside},
		{"not array", `int a = 1; a[0] = 2;`, diag.SemNotArray},
		{"else without if", `else {}`, diag.SynElseWithoutIf},
		{"case constant", `int k = 1; switch (1) { case k: break; }`, diag.SemCaseNotConst},
		{"private field", `class A { private int x; } A a = new A(); a.x = 1;`, diag.SemPrivate},
		{"try without catch", `try { }`, diag.SynExpectCatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, d := compile(t, tc.src)
			if d == nil {
				t.Fatalf("expected %v, compiled fine", tc.code.ID())
			}
			if u != nil {
				t.Fatalf("failed compile must not return a unit")
			}
			if d.Code != tc.code {
				t.Fatalf("got %v (%s), want %v", d.Code.ID(), d.Message, tc.code.ID())
			}
		})
	}
}

func TestUnknownFunctionMessageAndSpan(t *testing.T) {
	_, d := compile(t, `int x = 1; frobnicate(x);`)
	if d == nil || d.Code != diag.SemUnknownFunc {
		t.Fatalf("expected unknown function, got %v", d)
	}
	if d.Message != "unknown function frobnicate" {
		t.Fatalf("message = %q", d.Message)
	}
	if d.Primary.Start != 11 || d.Primary.End != 24 {
		t.Fatalf("span = %v", d.Primary)
	}
}

func TestDeterministicDump(t *testing.T) {
	src := `
class Counter {
	int n = 1;
	void Counter(int start) { n = start; }
	int next() { n++; return n; }
}
extern void run() {
	Counter c = new Counter(3);
	for (int i = 0; i < 3; i++) { message("v" + c.next()); }
	int arr[] = {1, 2, 3};
	switch (sizeof(arr)) { case 3: message("three"); break; default: break; }
	try { throw 5; } catch (5) { message("caught"); } finally { wait(1); }
}
`
	a := ir.Dump(mustCompile(t, src))
	b := ir.Dump(mustCompile(t, src))
	if a != b {
		t.Fatalf("dump differs between compilations")
	}
	if a == "" {
		t.Fatalf("empty dump")
	}

	bad := `extern void run() { int x = 1; frobnicate(x); }`
	_, d1 := compile(t, bad)
	_, d2 := compile(t, bad)
	if d1 == nil || !reflect.DeepEqual(d1, d2) {
		t.Fatalf("diagnostics differ between compilations: %v / %v", d1, d2)
	}
}

func TestOverloadsAndConversions(t *testing.T) {
	u := mustCompile(t, `
int pick(int a) { return 1; }
int pick(float a) { return 2; }
extern void main2() { int x = pick(1); int y = pick(1.5); float z = abs(-3); }
`)
	f := u.Func("main2")
	decl := f.Body.Stmts[0].(*ir.VarDecl)
	call := decl.Init.(*ir.Call)
	if call.Func.Params[0].T != types.Int {
		t.Fatalf("pick(1) resolved to %s", call.Func.Signature())
	}
	decl = f.Body.Stmts[1].(*ir.VarDecl)
	if decl.Init.(*ir.Call).Func.Params[0].T != types.Float {
		t.Fatalf("pick(1.5) resolved wrong")
	}
}

func TestConstantsAndFields(t *testing.T) {
	u := mustCompile(t, `
class Base { int hp = 10; int health() { return hp; } }
class Derived extends Base { int health() { return hp + super.health(); } }
int v = Answer;
Base b = new Derived();
v = b.health();
`)
	if len(u.Classes) != 2 || u.Classes[1].Decl.Parent.Name != "Base" {
		t.Fatalf("classes = %+v", u.Classes)
	}
	if len(u.Classes[0].Inits) != 1 || u.Classes[0].Inits[0].Value.I != 10 {
		t.Fatalf("field init lost")
	}
	if m := u.Dispatch(u.Types.Get("Derived"), "health()"); m == nil || m.Class != "Derived" {
		t.Fatalf("dispatch picked %+v", m)
	}
}
