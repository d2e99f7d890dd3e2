package engine

import (
	"fmt"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/natives"
	"cbot/internal/source"
	"cbot/internal/value"
)

// Engine runs one compiled unit. It is not safe for concurrent use: the
// host calls Run from its simulation loop, one slice per tick.
type Engine struct {
	ctx    *Context
	unit   *ir.Unit
	limits Limits

	owner string
	host  any

	frames []*Frame
	free   []Handle
	live   int
	root   Handle

	entry   string
	budget  int
	sig     Signal
	err     *RuntimeError
	result  *value.Variable
	running bool
}

// New creates an idle engine for unit.
func New(ctx *Context, unit *ir.Unit) *Engine {
	return &Engine{ctx: ctx, unit: unit, limits: ctx.limits()}
}

// SetHost attaches the owner id and opaque host data handed to natives.
func (e *Engine) SetHost(owner string, host any) {
	e.owner, e.host = owner, host
}

// Start prepares a run of the exported function name with args.
// A previous run is stopped first.
func (e *Engine) Start(name string, args ...*value.Variable) error {
	e.Stop()
	e.err, e.result = nil, nil
	fn := e.unit.Func(name)
	if fn == nil || !e.unit.IsExported(name) {
		return fmt.Errorf("%w: %s", ErrNoEntry, name)
	}
	if len(args) != len(fn.Params) {
		return fmt.Errorf("%s expects %d arguments, got %d", name, len(fn.Params), len(args))
	}
	e.resetArena()
	h := e.alloc(0, fn)
	f := e.frame(h)
	f.Boundary, f.Depth = true, 1
	for i, p := range fn.Params {
		v := value.New(e.ctx.IDs, p.Name, p.T)
		if code := value.Assign(e.ctx.IDs, v, args[i]); code != diag.OK {
			e.resetArena()
			return fmt.Errorf("%s: argument %s: %s", name, p.Name, code.Title())
		}
		f.Locals = append(f.Locals, v)
	}
	e.root, e.entry, e.running = h, name, true
	e.sig = Signal{}
	return nil
}

// Run executes at most budget steps; budget < 0 means unlimited. It
// reports whether the program is still running.
func (e *Engine) Run(budget int) bool {
	if !e.running {
		return false
	}
	if budget == 0 {
		return true
	}
	e.budget = budget
	if !e.exec(e.root) {
		return true
	}
	if e.sig.Kind == SigError {
		e.err = newRuntimeError(e.sig)
	} else {
		e.result = e.frame(e.root).Result
	}
	e.sig = Signal{}
	e.Stop()
	return false
}

// Stop unwinds the execution tree. Pending native calls are released.
func (e *Engine) Stop() {
	if e.root != 0 {
		e.release(e.root)
		e.freeTree(e.root)
		e.root = 0
	}
	e.running = false
	e.sig = Signal{}
}

func (e *Engine) release(h Handle) {
	f := e.frame(h)
	if f.Child != 0 {
		e.release(f.Child)
	}
	if f.Child2 != 0 {
		e.release(f.Child2)
	}
	if f.Native == nil {
		return
	}
	var args []*value.Variable
	if f.Parent != 0 {
		args = e.frame(f.Parent).Temps
	}
	c := &natives.Call{Args: args, State: &f.Native.State, Host: e.host, Owner: e.owner, IDs: e.ctx.IDs, Classes: e.unit.Types}
	e.ctx.Registry.Release(f.Native.Entry, f.Native.Name, c)
}

// Running reports whether a started program has not finished yet.
func (e *Engine) Running() bool { return e.running }

// Err returns the error that stopped the last run, if any.
func (e *Engine) Err() *RuntimeError { return e.err }

// Result is the return value of the finished entry function.
func (e *Engine) Result() *value.Variable { return e.result }

// Entry is the function started last.
func (e *Engine) Entry() string { return e.entry }

// Live counts allocated frames.
func (e *Engine) Live() int { return e.live }

// Position returns the function and the statement currently executing.
func (e *Engine) Position() (fn string, sp source.Span, ok bool) {
	for k := e.root; k != 0; {
		f := e.frame(k)
		switch n := e.unit.Node(f.Node).(type) {
		case *ir.Func:
			fn = funcName(n)
		case *ir.Block:
		case ir.Stmt:
			sp, ok = n.Span(), true
		}
		k = f.Child
	}
	return fn, sp, ok
}

// Variables lists the live locals of the function activation at level:
// 0 is the innermost call, 1 its caller and so on.
func (e *Engine) Variables(level int) []*value.Variable {
	var path []*Frame
	for k := e.root; k != 0; k = e.frame(k).Child {
		path = append(path, e.frame(k))
	}
	var calls []int
	for i, f := range path {
		if f.Boundary {
			calls = append(calls, i)
		}
	}
	if level < 0 || level >= len(calls) {
		return nil
	}
	start := calls[len(calls)-1-level]
	var out []*value.Variable
	for i := start; i < len(path); i++ {
		if i > start && path[i].Boundary {
			break
		}
		out = append(out, path[i].Locals...)
	}
	return out
}

// step consumes one unit of budget the first time f runs.
func (e *Engine) step(f *Frame) bool {
	if f.Stepped {
		return true
	}
	if e.budget == 0 {
		return false
	}
	if e.budget > 0 {
		e.budget--
	}
	f.Stepped = true
	return true
}

// sub runs n in a child frame of h. false means suspended; the caller
// checks raised() afterwards.
func (e *Engine) sub(h Handle, n ir.Node) bool {
	c := e.addFrame(h, n)
	if c == 0 {
		return true
	}
	if !e.exec(c) {
		return false
	}
	e.ret(c)
	return true
}

// subKeep is sub for bodies revisited by loops.
func (e *Engine) subKeep(h Handle, n ir.Node) bool {
	c := e.addFrame(h, n)
	if c == 0 {
		return true
	}
	if !e.exec(c) {
		return false
	}
	e.retKeep(c)
	return true
}

// operands evaluates xs into f.Temps, resuming after the last completed
// one. f.State counts completed operands.
func (e *Engine) operands(h Handle, xs ...ir.Expr) bool {
	f := e.frame(h)
	for int(f.State) < len(xs) {
		if !e.sub(h, xs[f.State]) {
			return false
		}
		if e.raised() {
			return true
		}
		f.State++
	}
	return true
}

// lookup finds a local visible from h.
func (e *Engine) lookup(h Handle, name string) *value.Variable {
	for k := h; k != 0; {
		f := e.frame(k)
		for i := len(f.Locals) - 1; i >= 0; i-- {
			if f.Locals[i].Name == name {
				return f.Locals[i]
			}
		}
		if f.Boundary {
			return nil
		}
		k = f.Parent
	}
	return nil
}

func (e *Engine) this(h Handle) *value.Variable {
	for k := h; k != 0; {
		f := e.frame(k)
		if f.Boundary {
			return f.This
		}
		k = f.Parent
	}
	return nil
}

func (e *Engine) scopeOf(h Handle) *Frame {
	for k := e.frame(h).Parent; k != 0; k = e.frame(k).Parent {
		if f := e.frame(k); f.Scope {
			return f
		}
	}
	return e.frame(h)
}

// exec runs the node of frame h. It returns false when suspended and
// true when the node completed, possibly with a signal raised.
func (e *Engine) exec(h Handle) bool {
	f := e.frame(h)
	switch n := e.unit.Node(f.Node).(type) {
	case *ir.Func:
		return e.execFunc(h, n)
	case *ir.Block:
		return e.execBlock(h, n)
	case *ir.VarDecl:
		return e.execVarDecl(h, n)
	case *ir.ExprStmt:
		if !e.step(f) || !e.sub(h, n.X) {
			return false
		}
		f.Temps = nil
		return true
	case *ir.If:
		return e.execIf(h, n)
	case *ir.While:
		return e.execWhile(h, n)
	case *ir.DoWhile:
		return e.execDoWhile(h, n)
	case *ir.For:
		return e.execFor(h, n)
	case *ir.Repeat:
		return e.execRepeat(h, n)
	case *ir.Switch:
		return e.execSwitch(h, n)
	case *ir.Break:
		if !e.step(f) {
			return false
		}
		e.sig = Signal{Kind: SigBreak, Label: n.Label}
		return true
	case *ir.Continue:
		if !e.step(f) {
			return false
		}
		e.sig = Signal{Kind: SigContinue, Label: n.Label}
		return true
	case *ir.Return:
		return e.execReturn(h, n)
	case *ir.Try:
		return e.execTry(h, n)
	case *ir.Throw:
		return e.execThrow(h, n)
	case ir.Expr:
		return e.execExpr(h, n)
	}
	e.raise(h, diag.RunNoRun, source.Span{})
	return true
}
