package engine

import (
	"strconv"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/natives"
	"cbot/internal/trace"
	"cbot/internal/types"
	"cbot/internal/value"
)

// enter returns the function frame for fn under h, creating it with its
// parameters bound to args when it does not exist yet.
func (e *Engine) enter(h Handle, call ir.Node, fn *ir.Func, this *value.Variable, args []*value.Variable) Handle {
	p := e.frame(h)
	if p.Child != 0 && e.frame(p.Child).Node == fn.ID() {
		return p.Child
	}
	depth := p.Depth + 1
	if int(depth) > e.limits.MaxDepth {
		e.raise(h, diag.RunStackOverflow, call.Span())
		return 0
	}
	c := e.addFrame(h, fn)
	if c == 0 {
		return 0
	}
	cf := e.frame(c)
	cf.Boundary, cf.Depth, cf.This = true, depth, this
	for i, prm := range fn.Params {
		v := value.New(e.ctx.IDs, prm.Name, prm.T)
		if code := value.Assign(e.ctx.IDs, v, args[i]); code != diag.OK {
			e.raise(h, code, call.Span())
			return 0
		}
		cf.Locals = append(cf.Locals, v)
	}
	if tr := e.ctx.tracer(); tr.Level().Allows(trace.ScopeFrame) {
		trace.Point(trace.ForOwner(tr, e.owner), trace.ScopeFrame, "enter:"+fn.Name, strconv.Itoa(int(depth)), 0)
	}
	return c
}

// invoke runs fn to completion in a child frame of h and stores its
// result in h's frame.
func (e *Engine) invoke(h Handle, call ir.Node, fn *ir.Func, this *value.Variable, args []*value.Variable, rt types.Type) bool {
	c := e.enter(h, call, fn, this, args)
	if c == 0 {
		return true
	}
	if !e.exec(c) {
		return false
	}
	res := e.frame(c).Result
	e.frame(h).Child = 0
	e.freeTree(c)
	if e.raised() {
		return true
	}
	if rt != types.Void {
		if res == nil {
			e.raise(h, diag.RunNotInit, call.Span())
			return true
		}
		e.frame(h).Result = res
	}
	return true
}

func (e *Engine) execCall(h Handle, n *ir.Call) bool {
	f := e.frame(h)
	if !e.operands(h, n.Args...) || e.raised() {
		return e.raised()
	}
	return e.invoke(h, n, n.Func, nil, f.Temps[:len(n.Args)], n.T)
}

func (e *Engine) execMethod(h Handle, n *ir.MethodCall) bool {
	f := e.frame(h)
	xs := append([]ir.Expr{n.Recv}, n.Args...)
	if !e.operands(h, xs...) || e.raised() {
		return e.raised()
	}
	recv := f.Temps[0]
	inst := e.deref(h, recv, n)
	if inst == nil {
		return true
	}
	args := f.Temps[1 : 1+len(n.Args)]
	if n.Native {
		return e.native(h, n, n.Entry, n.Name, args, recv, n.T)
	}
	m := n.Method
	if !n.Super {
		if d := e.unit.Dispatch(inst.Class, n.Key); d != nil {
			m = d
		}
	}
	return e.invoke(h, n, m, recv, args, n.T)
}

func (e *Engine) execNew(h Handle, n *ir.New) bool {
	f := e.frame(h)
	if !e.operands(h, n.Args...) || e.raised() {
		return e.raised()
	}
	if f.Result == nil {
		cls := e.unit.Types.Get(n.Class)
		if cls == nil {
			e.raise(h, diag.RunNotClass, n.Sp)
			return true
		}
		inst := value.NewInstance(e.ctx.IDs, e.unit.Types, cls)
		for k := cls; k != nil; k = k.Parent {
			uc := e.unit.Class(k.Name)
			if uc == nil {
				continue
			}
			for _, in := range uc.Inits {
				if code := value.Assign(e.ctx.IDs, inst.Fields[in.Slot], literal(in.Value)); code != diag.OK {
					e.raise(h, code, n.Sp)
					return true
				}
			}
		}
		f.Result = value.PointerTo(inst)
	}
	args := f.Temps[:len(n.Args)]
	switch {
	case n.Ctor != nil:
		return e.invoke(h, n, n.Ctor, value.Temp(e.ctx.IDs, f.Result), args, types.Void)
	case n.Native:
		return e.native(h, n, n.Entry, n.Class+"."+n.Class, args, value.Temp(e.ctx.IDs, f.Result), types.Void)
	}
	return true
}

// native calls a registered function through a marker frame on Child2.
// The call is repeated on every Run until the native reports done.
func (e *Engine) native(h Handle, n ir.Node, entry uint32, name string, args []*value.Variable, this *value.Variable, rt types.Type) bool {
	for _, a := range args {
		if !e.defined(h, a, n.Span()) {
			return true
		}
	}
	m := e.pushNativeMarker(h, n, entry, name)
	if m == 0 {
		return true
	}
	mf := e.frame(m)
	if mf.Result == nil && rt != types.Void {
		mf.Result = value.New(e.ctx.IDs, "", rt)
	}
	c := &natives.Call{
		Args:    args,
		Result:  mf.Result,
		This:    this,
		State:   &mf.Native.State,
		Host:    e.host,
		Owner:   e.owner,
		IDs:     e.ctx.IDs,
		Classes: e.unit.Types,
	}
	done, code := e.ctx.Registry.DoCall(mf.Native.Entry, mf.Native.Name, c)
	if !done {
		trace.Point(trace.ForOwner(e.ctx.tracer(), e.owner), trace.ScopeCall, "native:"+mf.Native.Name, "pending", 0)
		return false
	}
	trace.Point(trace.ForOwner(e.ctx.tracer(), e.owner), trace.ScopeCall, "native:"+mf.Native.Name, code.ID(), 0)
	res := mf.Result
	e.frame(h).Child2 = 0
	e.freeTree(m)
	if code != diag.OK {
		e.raise(h, code, n.Span())
		return true
	}
	if rt != types.Void {
		e.frame(h).Result = res
	}
	return true
}
