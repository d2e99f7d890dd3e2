package natives

import (
	"testing"

	"cbot/internal/diag"
	"cbot/internal/types"
	"cbot/internal/value"
)

func constExec(n int32) ExecFunc {
	return func(c *Call) (bool, diag.Code) {
		return true, c.Return(value.FromInt(n))
	}
}

func TestLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	first := r.Register("answer", constExec(1), Sig(types.Int))
	r.Register("answer", constExec(2), Sig(types.Int))

	e, typ, code := r.CompileCall("answer", nil)
	if code != diag.OK || typ != types.Int {
		t.Fatalf("compile: %v %v", typ, code)
	}
	var gen value.IDGen
	call := &Call{Result: value.New(&gen, "", types.Int), IDs: &gen}
	done, code := r.DoCall(e.ID, e.Name, call)
	if !done || code != diag.OK || call.Result.Int != 2 {
		t.Fatalf("expected newest entry, got %d", call.Result.Int)
	}

	// stale id from an earlier compilation resolves by name
	call.Result = value.New(&gen, "", types.Int)
	if _, code := r.DoCall(first.ID, "answer", call); code != diag.OK || call.Result.Int != 2 {
		t.Fatalf("stale id must fall back to the new entry, got %d", call.Result.Int)
	}
}

func TestUnknownAndRejectedCalls(t *testing.T) {
	r := NewRegistry()
	r.Register("half", constExec(0), Sig(types.Float, types.Float))

	if _, _, code := r.CompileCall("missing", nil); code != diag.SemUnknownFunc {
		t.Fatalf("unknown: %v", code)
	}
	if _, _, code := r.CompileCall("half", []types.Type{types.String}); code != diag.SemBadType {
		t.Fatalf("type rejection: %v", code)
	}
	if _, _, code := r.CompileCall("half", nil); code != diag.SemBadParams {
		t.Fatalf("arity rejection: %v", code)
	}
	if done, code := r.DoCall(999, "missing", &Call{}); !done || code != diag.RunUndefCall {
		t.Fatalf("run unknown: %v %v", done, code)
	}
}

func TestMethodChainWalksParents(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterClass("object", "", nil, false); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass("robot", "object", nil, false); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass("ghost", "nowhere", nil, false); err == nil {
		t.Fatalf("unknown parent accepted")
	}
	r.RegisterMethod("object", "destroy", constExec(0), Sig(types.Void))

	e, _, code := r.CompileMethod(r.Classes(), "robot", "destroy", nil)
	if code != diag.OK || e.Name != "object.destroy" {
		t.Fatalf("inherited method: %v %v", e, code)
	}
	if _, _, code := r.CompileMethod(r.Classes(), "robot", "fly", nil); code != diag.SemUndefMethod {
		t.Fatalf("missing method: %v", code)
	}
}

func TestReleaseHook(t *testing.T) {
	r := NewRegistry()
	released := false
	e := r.Register("wait", func(*Call) (bool, diag.Code) { return false, diag.OK }, Sig(types.Void, types.Float))
	e.Release = func(*Call) { released = true }
	r.Release(e.ID, e.Name, &Call{})
	if !released {
		t.Fatalf("release hook not called")
	}
}
