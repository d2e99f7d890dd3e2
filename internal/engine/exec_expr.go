package engine

import (
	"fortio.org/safecast"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/token"
	"cbot/internal/types"
	"cbot/internal/value"
)

const (
	logicalLeft Resume = iota
	logicalRight
)

const (
	condTest Resume = iota
	condThen
	condElse
)

func (e *Engine) execExpr(h Handle, x ir.Expr) bool {
	f := e.frame(h)
	switch n := x.(type) {
	case *ir.Literal:
		f.Result = literal(n)
	case *ir.Ident:
		v := e.lookup(h, n.Name)
		if v == nil {
			e.raise(h, diag.RunNotInit, n.Sp)
			return true
		}
		f.Result = value.Temp(e.ctx.IDs, v)
	case *ir.This:
		t := e.this(h)
		if t == nil {
			e.raise(h, diag.RunNullPointer, n.Sp)
			return true
		}
		f.Result = value.Temp(e.ctx.IDs, t)
	case *ir.Field:
		if !e.operands(h, n.X) || e.raised() {
			return e.raised()
		}
		inst := e.deref(h, f.Temps[0], n)
		if inst == nil {
			return true
		}
		f.Result = value.Temp(e.ctx.IDs, inst.Field(n.Slot))
	case *ir.Index:
		if !e.operands(h, n.X, n.I) || e.raised() {
			return e.raised()
		}
		arr := f.Temps[0]
		if arr.IsNull() {
			e.raise(h, diag.RunNullPointer, n.Sp)
			return true
		}
		v, code := arr.Arr.Get(f.Temps[1].AsInt())
		if code != diag.OK {
			e.raise(h, code, n.Sp)
			return true
		}
		f.Result = value.Temp(e.ctx.IDs, v)
	case *ir.Assign:
		return e.execAssign(h, n)
	case *ir.IncDec:
		return e.execIncDec(h, n)
	case *ir.Binary:
		if !e.operands(h, n.X, n.Y) || e.raised() {
			return e.raised()
		}
		r, code := binaryOp(n.Op, f.Temps[0], f.Temps[1])
		if code != diag.OK {
			e.raise(h, code, n.Sp)
			return true
		}
		f.Result = r
	case *ir.Logical:
		return e.execLogical(h, n)
	case *ir.Unary:
		if !e.operands(h, n.X) || e.raised() {
			return e.raised()
		}
		r, code := unaryOp(n.Op, f.Temps[0])
		if code != diag.OK {
			e.raise(h, code, n.Sp)
			return true
		}
		f.Result = r
	case *ir.Cond:
		return e.execCond(h, n)
	case *ir.Convert:
		if !e.operands(h, n.X) || e.raised() {
			return e.raised()
		}
		r := value.New(e.ctx.IDs, "", n.T)
		if code := value.Assign(e.ctx.IDs, r, f.Temps[0]); code != diag.OK {
			e.raise(h, code, n.Sp)
			return true
		}
		f.Result = r
	case *ir.ArrayLit:
		if !e.operands(h, n.Elems...) || e.raised() {
			return e.raised()
		}
		arr := value.NewArray(e.ctx.IDs, n.T.Elem())
		for _, el := range f.Temps {
			slot := value.New(e.ctx.IDs, "", arr.Elem)
			if code := value.Assign(e.ctx.IDs, slot, el); code != diag.OK {
				e.raise(h, code, n.Sp)
				return true
			}
			arr.Items = append(arr.Items, slot)
		}
		f.Result = value.FromArray(n.T, arr)
	case *ir.Sizeof:
		if !e.operands(h, n.X) || e.raised() {
			return e.raised()
		}
		x := f.Temps[0]
		if x.State == value.Undef {
			e.raise(h, diag.RunNotInit, n.Sp)
			return true
		}
		size, err := safecast.Conv[int32](x.Arr.Len())
		if err != nil {
			e.raise(h, diag.RunArrayTooLarge, n.Sp)
			return true
		}
		f.Result = value.FromInt(size)
	case *ir.Call:
		return e.execCall(h, n)
	case *ir.NativeCall:
		if !e.operands(h, n.Args...) || e.raised() {
			return e.raised()
		}
		return e.native(h, n, n.Entry, n.Name, f.Temps, nil, n.T)
	case *ir.MethodCall:
		return e.execMethod(h, n)
	case *ir.New:
		return e.execNew(h, n)
	default:
		e.raise(h, diag.RunNoRun, x.Span())
	}
	return true
}

func literal(n *ir.Literal) *value.Variable {
	switch n.T.Kind {
	case types.KindInt:
		return value.FromInt(n.I)
	case types.KindFloat:
		return value.FromFloat(n.F)
	case types.KindBool:
		return value.FromBool(n.B)
	case types.KindString:
		return value.FromString(n.S)
	}
	return value.NullOf(n.T)
}

// deref checks that v points to a live instance.
func (e *Engine) deref(h Handle, v *value.Variable, n ir.Node) *value.Instance {
	switch {
	case v.State == value.Undef:
		e.raise(h, diag.RunNotInit, n.Span())
		return nil
	case v.IsNull():
		e.raise(h, diag.RunNullPointer, n.Span())
		return nil
	case v.Inst.Deleted:
		e.raise(h, diag.RunDeletedObject, n.Span())
		return nil
	}
	return v.Inst
}

// place lists the operands a location needs besides itself.
func place(x ir.Expr) []ir.Expr {
	switch n := x.(type) {
	case *ir.Field:
		return []ir.Expr{n.X}
	case *ir.Index:
		return []ir.Expr{n.X, n.I}
	}
	return nil
}

// locate resolves the variable an lvalue designates; ops holds the
// values of place(x).
func (e *Engine) locate(h Handle, x ir.Expr, ops []*value.Variable) *value.Variable {
	switch n := x.(type) {
	case *ir.Ident:
		v := e.lookup(h, n.Name)
		if v == nil {
			e.raise(h, diag.RunNotInit, n.Sp)
		}
		return v
	case *ir.Field:
		inst := e.deref(h, ops[0], n)
		if inst == nil {
			return nil
		}
		return inst.Field(n.Slot)
	case *ir.Index:
		if ops[0].State == value.Undef {
			e.raise(h, diag.RunNotInit, n.Sp)
			return nil
		}
		if ops[0].IsNull() {
			e.raise(h, diag.RunNullPointer, n.Sp)
			return nil
		}
		v, code := ops[0].Arr.Slot(e.ctx.IDs, ops[1].AsInt())
		if code != diag.OK {
			e.raise(h, code, n.Sp)
			return nil
		}
		return v
	}
	e.raise(h, diag.RunNoRun, x.Span())
	return nil
}

// execAssign evaluates the right side, then the location operands, then
// stores.
func (e *Engine) execAssign(h Handle, n *ir.Assign) bool {
	f := e.frame(h)
	xs := append([]ir.Expr{n.R}, place(n.L)...)
	if !e.operands(h, xs...) || e.raised() {
		return e.raised()
	}
	loc := e.locate(h, n.L, f.Temps[1:])
	if loc == nil {
		return true
	}
	src := f.Temps[0]
	if n.Op != token.Assign {
		if loc.State == value.Undef {
			e.raise(h, diag.RunNotInit, n.Sp)
			return true
		}
		r, code := binaryOp(n.Op.Binary(), loc, src)
		if code != diag.OK {
			e.raise(h, code, n.Sp)
			return true
		}
		src = r
	}
	if code := value.Assign(e.ctx.IDs, loc, src); code != diag.OK {
		e.raise(h, code, n.Sp)
		return true
	}
	f.Result = value.Temp(e.ctx.IDs, loc)
	return true
}

func (e *Engine) execIncDec(h Handle, n *ir.IncDec) bool {
	f := e.frame(h)
	if !e.operands(h, place(n.X)...) || e.raised() {
		return e.raised()
	}
	loc := e.locate(h, n.X, f.Temps)
	if loc == nil {
		return true
	}
	if loc.State != value.Def {
		e.raise(h, diag.RunNotInit, n.Sp)
		return true
	}
	old := value.Temp(e.ctx.IDs, loc)
	var delta int32 = 1
	if n.Op == token.MinusMinus {
		delta = -1
	}
	if loc.Type.Kind == types.KindFloat {
		loc.Float += float32(delta)
	} else {
		loc.Int += delta
	}
	if n.Post {
		f.Result = old
	} else {
		f.Result = value.Temp(e.ctx.IDs, loc)
	}
	return true
}

func (e *Engine) execLogical(h Handle, n *ir.Logical) bool {
	f := e.frame(h)
	if f.State == logicalLeft {
		if !e.sub(h, n.X) {
			return false
		}
		if e.raised() {
			return true
		}
		x := f.Temps[0]
		f.Temps = nil
		if x.State != value.Def {
			e.raise(h, diag.RunNotInit, n.X.Span())
			return true
		}
		if (n.Op == token.AndAnd) != x.Bool {
			f.Result = value.FromBool(x.Bool)
			return true
		}
		f.State = logicalRight
	}
	if !e.sub(h, n.Y) {
		return false
	}
	if e.raised() {
		return true
	}
	y := f.Temps[0]
	if y.State != value.Def {
		e.raise(h, diag.RunNotInit, n.Y.Span())
		return true
	}
	f.Result = value.FromBool(y.Bool)
	return true
}

func (e *Engine) execCond(h Handle, n *ir.Cond) bool {
	f := e.frame(h)
	if f.State == condTest {
		if !e.sub(h, n.C) {
			return false
		}
		if e.raised() {
			return true
		}
		val, ok := e.truth(h, f.Temps[0], n.C.Span())
		f.Temps = nil
		if !ok {
			return true
		}
		f.State = condElse
		if val {
			f.State = condThen
		}
	}
	branch := n.Y
	if f.State == condThen {
		branch = n.X
	}
	if !e.sub(h, branch) {
		return false
	}
	if !e.raised() {
		f.Result = f.Temps[0]
	}
	return true
}
