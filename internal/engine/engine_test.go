package engine_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"cbot/internal/compiler"
	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/ir"
	"cbot/internal/natives"
	"cbot/internal/persist"
	"cbot/internal/source"
	"cbot/internal/types"
	"cbot/internal/value"
)

type host struct {
	messages []string
	released int
}

// registry wires message and a wait that finishes after n calls.
func (h *host) registry() *natives.Registry {
	r := natives.NewRegistry()
	r.Register("message", func(c *natives.Call) (bool, diag.Code) {
		h.messages = append(h.messages, c.Arg(0).AsString())
		return true, diag.OK
	}, natives.Sig(types.Void, types.String))
	w := r.Register("wait", func(c *natives.Call) (bool, diag.Code) {
		if c.State.Phase == 0 {
			c.State.Phase = 1
			c.State.Value = c.Arg(0).AsFloat()
		}
		c.State.Value--
		return c.State.Value <= 0, diag.OK
	}, natives.Sig(types.Void, types.Float))
	w.Release = func(*natives.Call) { h.released++ }
	_ = r.RegisterClass("point", "", []types.Field{
		{Name: "x", Type: types.Float},
		{Name: "y", Type: types.Float},
	}, true)
	return r
}

func setup(t *testing.T, src string) (*engine.Engine, *host, *ir.Unit) {
	t.Helper()
	h := &host{}
	ctx := engine.NewContext(h.registry())
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cbot", []byte(src)))
	u, d := compiler.Compile(file, compiler.Env{Registry: ctx.Registry})
	require.Nil(t, d, "compile: %v", d)
	return engine.New(ctx, u), h, u
}

// runAll runs src to completion and returns the messages it printed.
func runAll(t *testing.T, src string) (*engine.Engine, []string) {
	t.Helper()
	e, h, _ := setup(t, src)
	require.NoError(t, e.Start(compiler.MainName))
	for i := 0; e.Run(-1); i++ {
		require.Less(t, i, 100, "program never finished")
	}
	return e, h.messages
}

func TestStepBudget(t *testing.T) {
	e, h, _ := setup(t, `int a = 5; a = a * 2; message("" + a);`)
	require.NoError(t, e.Start(compiler.MainName))

	require.True(t, e.Run(0), "zero budget keeps the program running")
	require.Empty(t, h.messages)

	require.True(t, e.Run(2))
	require.Empty(t, h.messages)
	fn, _, ok := e.Position()
	require.True(t, ok)
	require.Equal(t, compiler.MainName, fn)

	require.False(t, e.Run(1))
	require.Equal(t, []string{"10"}, h.messages)
	require.Nil(t, e.Err())
	require.Zero(t, e.Live())
	require.False(t, e.Running())
}

func TestScenarioInThreeSteps(t *testing.T) {
	e, h, _ := setup(t, `int a = 5; a = a * 2; message("" + a);`)
	require.NoError(t, e.Start(compiler.MainName))
	require.False(t, e.Run(3))
	require.Equal(t, []string{"10"}, h.messages)
}

func TestInfiniteLoopYields(t *testing.T) {
	e, _, _ := setup(t, `int i = 0; while (true) { i++; }`)
	require.NoError(t, e.Start(compiler.MainName))
	for range 5 {
		require.True(t, e.Run(100))
	}
	vars := e.Variables(0)
	require.NotEmpty(t, vars)
	require.Equal(t, "i", vars[0].Name)
	require.Positive(t, vars[0].Int)
	e.Stop()
	require.False(t, e.Running())
	require.Zero(t, e.Live())
}

func TestControlFlow(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"for continue", `int s = 0; for (int i = 0; i < 5; i++) { if (i == 3) continue; s += i; } message("" + s);`, "7"},
		{"while break", `int i = 0; while (true) { i++; if (i > 4) break; } message("" + i);`, "5"},
		{"do while", `int i = 10; do { i++; } while (i < 5); message("" + i);`, "11"},
		{"labelled break", `int n = 0; outer: for (int i = 0; i < 3; i++) { for (int j = 0; j < 3; j++) { if (j == 1) break outer; n++; } } message("" + n);`, "1"},
		{"labelled continue", `int n = 0; outer: for (int i = 0; i < 3; i++) { for (int j = 0; j < 3; j++) { if (j == 1) continue outer; n++; } } message("" + n);`, "3"},
		{"repeat", `int n = 0; repeat (4) { n += 2; } message("" + n);`, "8"},
		{"switch falls through", `int n = 0; switch (2) { case 1: n += 1; case 2: n += 10; case 3: n += 100; break; default: n = -1; } message("" + n);`, "110"},
		{"switch default", `string s = "?"; switch (9) { case 1: s = "one"; break; default: s = "other"; } message(s);`, "other"},
		{"short circuit", `int n = 0; bool b = false && (n++ > 0); message("" + n + b);`, "0false"},
		{"ternary", `int a = 3; message(a > 2 ? "big" : "small");`, "big"},
		{"recursion", `int fact(int n) { if (n <= 1) return 1; return n * fact(n - 1); } message("" + fact(5));`, "120"},
		{"int division truncates", `message("" + (7 / 2) + " " + (7.0 / 2));`, "3 3.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, msgs := runAll(t, tc.src)
			require.Nil(t, e.Err())
			require.Equal(t, []string{tc.want}, msgs)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"division by zero", `int z = 0; int r = 10 / z;`, diag.RunZeroDiv},
		{"null pointer", `class A { int v; } A a = null; a.v = 1;`, diag.RunNullPointer},
		{"bad throw", `throw 0;`, diag.RunBadThrow},
		{"user throw", `throw 42;`, diag.Code(42)},
		{"recursion overflow", `int f(int n) { return f(n + 1); } f(0);`, diag.RunStackOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := runAll(t, tc.src)
			require.NotNil(t, e.Err())
			require.Equal(t, tc.code, e.Err().Code)
			require.False(t, e.Running())
			require.Zero(t, e.Live())
		})
	}
}

func TestUnsetValuesRaise(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msgs []string
	}{
		{"if", `bool b; if (b) message("t"); else message("f");`, nil},
		{"while", `bool b; while (b) { message("x"); }`, nil},
		{"do while", `bool b; do { message("once"); } while (b);`, []string{"once"}},
		{"for", `bool b; for (int i = 0; b; i++) { message("x"); }`, nil},
		{"ternary", `bool b; message(b ? "t" : "f");`, nil},
		{"native argument", `string s; message(s);`, nil},
		{"catch test", `int c; try { throw 5; } catch (c) { message("x"); }`, nil},
		{"repeat count", `int n; repeat (n) { message("x"); }`, nil},
		{"switch tag", `int k; switch (k) { default: message("x"); }`, nil},
		{"throw", `int k; throw k;`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, msgs := runAll(t, tc.src)
			require.NotNil(t, e.Err())
			require.Equal(t, diag.RunNotInit, e.Err().Code)
			require.Equal(t, tc.msgs, msgs)
		})
	}
}

func TestSizeof(t *testing.T) {
	e, msgs := runAll(t, `int a[] = {1, 2, 3}; a[5] = 9; message("" + sizeof(a));`)
	require.Nil(t, e.Err())
	require.Equal(t, []string{"6"}, msgs)
}

func TestErrorSpanAndBacktrace(t *testing.T) {
	e, _ := runAll(t, `int div(int a, int b) { return a / b; } int r = div(1, 0);`)
	err := e.Err()
	require.NotNil(t, err)
	require.Equal(t, diag.RunZeroDiv, err.Code)
	require.Less(t, err.Span.Start, err.Span.End)
	require.GreaterOrEqual(t, len(err.Backtrace), 2)
	require.Equal(t, "div", err.Backtrace[0].FuncName)
}

func TestTryCatchFinally(t *testing.T) {
	_, msgs := runAll(t, `
int r = 0;
try {
	int z = 0;
	r = 10 / z;
	message("unreachable");
} catch (6001) {
	r = -1;
} finally {
	message("finally");
}
message("" + r);
try { throw 12; } catch (false) { message("no"); } catch (true) { message("caught"); }
`)
	require.Equal(t, []string{"finally", "-1", "caught"}, msgs)
}

func TestUncaughtPassesThroughFinally(t *testing.T) {
	e, msgs := runAll(t, `try { throw 7; } catch (8) { message("wrong"); } finally { message("cleanup"); }`)
	require.Equal(t, []string{"cleanup"}, msgs)
	require.NotNil(t, e.Err())
	require.Equal(t, diag.Code(7), e.Err().Code)
}

func TestPointersAliasIntrinsicsCopy(t *testing.T) {
	_, msgs := runAll(t, `
class Box { int v; }
Box a = new Box();
Box b = a;
b.v = 5;
message("" + a.v);
point p;
p.x = 1;
point q = p;
q.x = 2;
message("" + p.x + " " + q.x);
`)
	require.Equal(t, []string{"5", "1 2"}, msgs)
}

func TestMethodsAndConstructors(t *testing.T) {
	_, msgs := runAll(t, `
class Animal {
	string name = "?";
	void Animal(string n) { name = n; }
	string speak() { return "..."; }
	string intro() { return name + " says " + speak(); }
}
class Dog extends Animal {
	void Dog(string n) { name = n; }
	string speak() { return "woof"; }
	string plain() { return super.speak(); }
}
Animal a = new Dog("rex");
message(a.intro());
Dog d = new Dog("fido");
message(d.plain());
`)
	require.Equal(t, []string{"rex says woof", "..."}, msgs)
}

func TestPendingNative(t *testing.T) {
	e, h, _ := setup(t, `message("before"); wait(3); message("after");`)
	require.NoError(t, e.Start(compiler.MainName))
	require.True(t, e.Run(100))
	require.True(t, e.Run(100))
	require.Equal(t, []string{"before"}, h.messages)
	require.False(t, e.Run(100))
	require.Equal(t, []string{"before", "after"}, h.messages)
	require.Zero(t, h.released, "finished natives are not released")
}

func TestStopReleasesPendingNative(t *testing.T) {
	e, h, _ := setup(t, `wait(10);`)
	require.NoError(t, e.Start(compiler.MainName))
	require.True(t, e.Run(100))
	e.Stop()
	require.Equal(t, 1, h.released)
	require.False(t, e.Run(100))
}

func TestSaveRestoreInsideWait(t *testing.T) {
	src := `int x = 1; wait(2); x = x + 1; message("x=" + x);`
	e, _, _ := setup(t, src)
	require.NoError(t, e.Start(compiler.MainName))
	require.True(t, e.Run(100))

	var buf bytes.Buffer
	w := persist.NewWriter(&buf)
	require.NoError(t, e.Save(w))
	e.Stop()

	restored, h, u := setup(t, src)
	r := persist.NewReader(&buf, u.Types, &value.IDGen{})
	require.NoError(t, restored.Restore(r, compiler.MainName))
	require.True(t, restored.Running())
	require.False(t, restored.Run(100))
	require.Equal(t, []string{"x=2"}, h.messages)
}

func TestSaveRequiresRunning(t *testing.T) {
	e, _, _ := setup(t, `int a = 1;`)
	var buf bytes.Buffer
	require.ErrorIs(t, e.Save(persist.NewWriter(&buf)), engine.ErrNotRunning)
}

func TestFailedRestoreLeavesEngineStopped(t *testing.T) {
	e, _, u := setup(t, `wait(5);`)
	require.NoError(t, e.Start(compiler.MainName))
	require.True(t, e.Run(100))

	r := persist.NewReader(bytes.NewReader([]byte{0xc3, 0xce, 0x00}), u.Types, &value.IDGen{})
	require.ErrorIs(t, e.Restore(r, compiler.MainName), engine.ErrBadRestore)
	require.False(t, e.Running())
	require.Zero(t, e.Live())
	require.False(t, e.Run(100))
}

func TestStartUnknownEntry(t *testing.T) {
	e, _, _ := setup(t, `extern void go() {} void hidden() {}`)
	require.ErrorIs(t, e.Start("hidden"), engine.ErrNoEntry)
	require.ErrorIs(t, e.Start("nope"), engine.ErrNoEntry)
	require.NoError(t, e.Start("go"))
}
