package engine

import (
	"slices"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/source"
	"cbot/internal/types"
	"cbot/internal/value"
)

// Resume points of statements.
const (
	ifCond Resume = iota
	ifThen
	ifElse
)

const (
	loopCond Resume = iota
	loopBody
)

const (
	doBody Resume = iota
	doCond
)

const (
	forInit Resume = iota
	forCond
	forBody
	forPost
)

const (
	switchTag Resume = iota
	switchBody
)

const (
	tryBody Resume = iota
	tryCatch
	tryHandler
	tryFinally
	tryDone
)

func (e *Engine) execFunc(h Handle, n *ir.Func) bool {
	if !e.sub(h, n.Body) {
		return false
	}
	if e.sig.Kind != SigReturn {
		return true
	}
	ret := e.sig.Value
	e.sig = Signal{}
	if n.Result == types.Void || ret == nil {
		return true
	}
	r := value.New(e.ctx.IDs, "", types.AtReturn(n.Result))
	if code := value.Assign(e.ctx.IDs, r, ret); code != diag.OK {
		e.raise(h, code, n.Sp)
		return true
	}
	e.frame(h).Result = r
	return true
}

func (e *Engine) execBlock(h Handle, n *ir.Block) bool {
	f := e.frame(h)
	for int(f.Index) < len(n.Stmts) {
		if !e.sub(h, n.Stmts[f.Index]) {
			return false
		}
		if e.raised() {
			return true
		}
		f.Index++
	}
	return true
}

func (e *Engine) execVarDecl(h Handle, n *ir.VarDecl) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	xs := n.Dims
	if n.Init != nil {
		xs = append(slices.Clip(xs), n.Init)
	}
	if !e.operands(h, xs...) {
		return false
	}
	if e.raised() {
		return true
	}
	v, code := e.declare(n, f.Temps[:len(n.Dims)])
	if code == diag.OK && n.Init != nil {
		code = value.Assign(e.ctx.IDs, v, f.Temps[len(n.Dims)])
	}
	if code != diag.OK {
		e.raise(h, code, n.Sp)
		return true
	}
	f.Temps = nil
	sc := e.scopeOf(h)
	sc.Locals = append(sc.Locals, v)
	return true
}

// declare creates the variable of a declaration with its default value.
func (e *Engine) declare(n *ir.VarDecl, dims []*value.Variable) (*value.Variable, diag.Code) {
	switch n.T.Kind {
	case types.KindPointer:
		v := value.NullOf(n.T)
		v.Name = n.Name
		return v, diag.OK
	case types.KindIntrinsic, types.KindArray:
		v := value.Zero(e.ctx.IDs, e.unit.Types, n.Name, n.T)
		if len(dims) > 0 {
			sizes := make([]int32, len(dims))
			for i, d := range dims {
				sizes[i] = d.AsInt()
			}
			return v, e.fill(v.Arr, sizes)
		}
		return v, diag.OK
	}
	return value.New(e.ctx.IDs, n.Name, n.T), diag.OK
}

func (e *Engine) fill(arr *value.Array, dims []int32) diag.Code {
	if code := arr.Resize(e.ctx.IDs, e.unit.Types, dims[0], nil); code != diag.OK || len(dims) == 1 {
		return code
	}
	for _, it := range arr.Items {
		if code := e.fill(it.Arr, dims[1:]); code != diag.OK {
			return code
		}
	}
	return diag.OK
}

func (e *Engine) execIf(h Handle, n *ir.If) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	if f.State == ifCond {
		if !e.sub(h, n.Cond) {
			return false
		}
		if e.raised() {
			return true
		}
		val, ok := e.truth(h, f.Temps[0], n.Cond.Span())
		f.Temps = nil
		if !ok {
			return true
		}
		f.State = ifElse
		if val {
			f.State = ifThen
		}
	}
	switch {
	case f.State == ifThen:
		return e.sub(h, n.Then)
	case n.Else != nil:
		return e.sub(h, n.Else)
	}
	return true
}

// cond evaluates a loop condition; ok=false means suspended.
func (e *Engine) cond(h Handle, x ir.Expr) (val, ok bool) {
	if !e.sub(h, x) {
		return false, false
	}
	if e.raised() {
		return false, true
	}
	f := e.frame(h)
	val, _ = e.truth(h, f.Temps[0], x.Span())
	f.Temps = nil
	return val, true
}

// truth reads a condition; an unset value raises RunNotInit.
func (e *Engine) truth(h Handle, v *value.Variable, sp source.Span) (val, ok bool) {
	if !e.defined(h, v, sp) {
		return false, false
	}
	return v.Bool, true
}

// defined raises RunNotInit when v was never set.
func (e *Engine) defined(h Handle, v *value.Variable, sp source.Span) bool {
	if v == nil || v.State == value.Undef {
		e.raise(h, diag.RunNotInit, sp)
		return false
	}
	return true
}

func (e *Engine) execWhile(h Handle, n *ir.While) bool {
	f := e.frame(h)
	for {
		if !e.step(f) {
			return false
		}
		if f.State == loopCond {
			b, ok := e.cond(h, n.Cond)
			if !ok {
				return false
			}
			if e.raised() || !b {
				return true
			}
			f.State = loopBody
		}
		if !e.sub(h, n.Body) {
			return false
		}
		if e.loopCtl(n.Label) {
			return true
		}
		f.State, f.Stepped = loopCond, false
	}
}

func (e *Engine) execDoWhile(h Handle, n *ir.DoWhile) bool {
	f := e.frame(h)
	for {
		if !e.step(f) {
			return false
		}
		if f.State == doBody {
			if !e.sub(h, n.Body) {
				return false
			}
			if e.loopCtl(n.Label) {
				return true
			}
			f.State = doCond
		}
		b, ok := e.cond(h, n.Cond)
		if !ok {
			return false
		}
		if e.raised() || !b {
			return true
		}
		f.State, f.Stepped = doBody, false
	}
}

func (e *Engine) execFor(h Handle, n *ir.For) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	if f.State == forInit {
		for int(f.Index) < len(n.Init) {
			if !e.sub(h, n.Init[f.Index]) {
				return false
			}
			if e.raised() {
				return true
			}
			f.Index++
		}
		f.State, f.Index = forCond, 0
	}
	for {
		if !e.step(f) {
			return false
		}
		if f.State == forCond {
			if n.Cond != nil {
				b, ok := e.cond(h, n.Cond)
				if !ok {
					return false
				}
				if e.raised() || !b {
					return true
				}
			}
			f.State = forBody
		}
		if f.State == forBody {
			if !e.sub(h, n.Body) {
				return false
			}
			if e.loopCtl(n.Label) {
				return true
			}
			f.State = forPost
		}
		for int(f.Index) < len(n.Post) {
			if !e.sub(h, n.Post[f.Index]) {
				return false
			}
			if e.raised() {
				return true
			}
			f.Index++
		}
		f.Temps = nil
		f.State, f.Index, f.Stepped = forCond, 0, false
	}
}

func (e *Engine) execRepeat(h Handle, n *ir.Repeat) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	if f.State == loopCond {
		if !e.sub(h, n.Count) {
			return false
		}
		if e.raised() {
			return true
		}
		if !e.defined(h, f.Temps[0], n.Count.Span()) {
			f.Temps = nil
			return true
		}
		f.State = loopBody
	}
	count := f.Temps[0].AsInt()
	for f.Index < count {
		if !e.step(f) {
			return false
		}
		if !e.subKeep(h, n.Body) {
			return false
		}
		if e.loopCtl(n.Label) {
			return true
		}
		f.Index++
		f.Stepped = false
	}
	return true
}

func (e *Engine) execSwitch(h Handle, n *ir.Switch) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	if f.State == switchTag {
		if !e.sub(h, n.Tag) {
			return false
		}
		if e.raised() {
			return true
		}
		if !e.defined(h, f.Temps[0], n.Tag.Span()) {
			f.Temps = nil
			return true
		}
		tag := f.Temps[0].AsInt()
		f.Temps = nil
		at := n.Default
		for _, c := range n.Cases {
			if c.Value == tag {
				at = c.At
				break
			}
		}
		if at < 0 {
			return true
		}
		f.State, f.Index = switchBody, int32(at)
	}
	for int(f.Index) < len(n.Body) {
		if !e.sub(h, n.Body[f.Index]) {
			return false
		}
		if e.sig.Kind == SigBreak && (e.sig.Label == "" || e.sig.Label == n.Label) {
			e.sig = Signal{}
			return true
		}
		if e.raised() {
			return true
		}
		f.Index++
	}
	return true
}

func (e *Engine) execReturn(h Handle, n *ir.Return) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	if n.X == nil {
		e.sig = Signal{Kind: SigReturn}
		return true
	}
	if !e.sub(h, n.X) {
		return false
	}
	if e.raised() {
		return true
	}
	e.sig = Signal{Kind: SigReturn, Value: f.Temps[0]}
	return true
}

// MaxThrow bounds user error codes.
const MaxThrow = 65535

func (e *Engine) execThrow(h Handle, n *ir.Throw) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	if !e.sub(h, n.X) {
		return false
	}
	if e.raised() || !e.defined(h, f.Temps[0], n.X.Span()) {
		return true
	}
	code := f.Temps[0].AsInt()
	if code <= 0 || code > MaxThrow {
		e.raise(h, diag.RunBadThrow, n.Sp)
		return true
	}
	e.raise(h, diag.Code(code), n.Sp)
	return true
}

// execTry runs body, the first matching catch and finally. A signal
// leaving the body or a handler is parked in Pending while finally runs
// and re-raised afterwards unless finally raises its own.
func (e *Engine) execTry(h Handle, n *ir.Try) bool {
	f := e.frame(h)
	if !e.step(f) {
		return false
	}
	if f.State == tryBody {
		if !e.sub(h, n.Body) {
			return false
		}
		f.Pending, e.sig = e.sig, Signal{}
		f.State = tryFinally
		if f.Pending.Kind == SigError {
			f.State = tryCatch
		}
	}
	if f.State == tryCatch {
		for int(f.Index) < len(n.Catches) {
			k := n.Catches[f.Index]
			if !e.sub(h, k.Cond) {
				return false
			}
			if e.raised() {
				f.Pending, e.sig = e.sig, Signal{}
				f.Temps = nil
				break
			}
			c := f.Temps[0]
			f.Temps = nil
			if !e.defined(h, c, k.Cond.Span()) {
				f.Pending, e.sig = e.sig, Signal{}
				break
			}
			match := c.Bool
			if c.Type.Kind == types.KindInt {
				match = diag.Code(c.Int) == f.Pending.Code
			}
			if match {
				f.Pending = Signal{}
				f.State = tryHandler
				break
			}
			f.Index++
		}
		if f.State == tryCatch {
			f.State = tryFinally
		}
	}
	if f.State == tryHandler {
		if !e.sub(h, n.Catches[f.Index].Body) {
			return false
		}
		f.Pending, e.sig = e.sig, Signal{}
		f.State = tryFinally
	}
	if f.State == tryFinally && n.Finally != nil {
		if !e.sub(h, n.Finally) {
			return false
		}
		if e.raised() {
			f.Pending = Signal{}
			return true
		}
	}
	e.sig, f.Pending = f.Pending, Signal{}
	f.State = tryDone
	return true
}
