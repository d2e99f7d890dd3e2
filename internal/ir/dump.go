package ir

import (
	"fmt"
	"strconv"
	"strings"

	"cbot/internal/types"
)

// Dump renders u in a canonical, deterministic text form.
func Dump(u *Unit) string {
	d := &dumper{}
	for _, name := range u.Exports {
		d.line("export %s", name)
	}
	for _, name := range u.Natives {
		d.line("native %s", name)
	}
	for _, c := range u.Classes {
		parent := ""
		if c.Decl.Parent != nil {
			parent = " extends " + c.Decl.Parent.Name
		}
		d.line("class %s%s", c.Name, parent)
		d.depth++
		for _, f := range c.Decl.Fields {
			d.line("field %s %s", f.Type, f.Name)
		}
		for _, in := range c.Inits {
			d.line("init %d = %s", in.Slot, literal(in.Value))
		}
		d.depth--
	}
	for _, f := range u.Funcs {
		d.fn(f)
	}
	return d.sb.String()
}

type dumper struct {
	sb    strings.Builder
	depth int
}

func (d *dumper) line(format string, args ...any) {
	for i := 0; i < d.depth; i++ {
		d.sb.WriteString("  ")
	}
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteByte('\n')
}

func (d *dumper) fn(f *Func) {
	flags := ""
	if f.Extern {
		flags += " extern"
	}
	if f.Ctor {
		flags += " ctor"
	}
	if f.Private {
		flags += " private"
	}
	d.line("#%d func %s%s", f.ID(), f.Signature(), flags)
	d.depth++
	d.stmt(f.Body)
	d.depth--
}

func (d *dumper) stmt(s Stmt) {
	if s == nil {
		d.line("<nil>")
		return
	}
	id := s.ID()
	switch n := s.(type) {
	case *Block:
		d.line("#%d block", id)
		d.stmts(n.Stmts)
	case *VarDecl:
		d.line("#%d var %s %s dims=%d", id, n.T, n.Name, len(n.Dims))
		d.sub(n.Init)
		d.exprs(n.Dims)
	case *ExprStmt:
		d.line("#%d expr", id)
		d.sub(n.X)
	case *If:
		d.line("#%d if", id)
		d.sub(n.Cond)
		d.substmt(n.Then)
		if n.Else != nil {
			d.substmt(n.Else)
		}
	case *While:
		d.line("#%d while %q", id, n.Label)
		d.sub(n.Cond)
		d.substmt(n.Body)
	case *DoWhile:
		d.line("#%d do %q", id, n.Label)
		d.substmt(n.Body)
		d.sub(n.Cond)
	case *For:
		d.line("#%d for %q", id, n.Label)
		d.stmts(n.Init)
		d.sub(n.Cond)
		d.exprs(n.Post)
		d.substmt(n.Body)
	case *Repeat:
		d.line("#%d repeat %q", id, n.Label)
		d.sub(n.Count)
		d.substmt(n.Body)
	case *Switch:
		cases := make([]string, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = fmt.Sprintf("%d@%d", c.Value, c.At)
		}
		d.line("#%d switch %q cases=[%s] default=%d", id, n.Label, strings.Join(cases, " "), n.Default)
		d.sub(n.Tag)
		d.stmts(n.Body)
	case *Break:
		d.line("#%d break %q", id, n.Label)
	case *Continue:
		d.line("#%d continue %q", id, n.Label)
	case *Return:
		d.line("#%d return", id)
		d.sub(n.X)
	case *Try:
		d.line("#%d try", id)
		d.substmt(n.Body)
		for _, c := range n.Catches {
			d.substmt(c)
		}
		if n.Finally != nil {
			d.substmt(n.Finally)
		}
	case *Catch:
		d.line("#%d catch", id)
		d.sub(n.Cond)
		d.substmt(n.Body)
	case *Throw:
		d.line("#%d throw", id)
		d.sub(n.X)
	default:
		d.line("#%d ?%T", id, s)
	}
}

func (d *dumper) stmts(list []Stmt) {
	d.depth++
	for _, s := range list {
		d.stmt(s)
	}
	d.depth--
}

func (d *dumper) substmt(s Stmt) {
	d.depth++
	d.stmt(s)
	d.depth--
}

func (d *dumper) sub(e Expr) {
	if e == nil {
		return
	}
	d.depth++
	d.expr(e)
	d.depth--
}

func (d *dumper) exprs(list []Expr) {
	for _, e := range list {
		d.sub(e)
	}
}

func (d *dumper) expr(e Expr) {
	id, t := e.ID(), e.Type()
	switch n := e.(type) {
	case *Literal:
		d.line("#%d lit %s %s", id, t, literal(n))
	case *Ident:
		d.line("#%d ident %s %s", id, t, n.Name)
	case *This:
		d.line("#%d this %s", id, t)
	case *Field:
		d.line("#%d field %s .%s@%d", id, t, n.Name, n.Slot)
		d.sub(n.X)
	case *Index:
		d.line("#%d index %s", id, t)
		d.sub(n.X)
		d.sub(n.I)
	case *Call:
		d.line("#%d call %s #%d", id, t, n.Func.ID())
		d.exprs(n.Args)
	case *NativeCall:
		d.line("#%d native %s %s", id, t, n.Name)
		d.exprs(n.Args)
	case *MethodCall:
		target := n.Key
		if n.Native {
			target = "native " + n.Name
		}
		d.line("#%d method %s %s super=%v", id, t, target, n.Super)
		d.sub(n.Recv)
		d.exprs(n.Args)
	case *New:
		ctor := "none"
		switch {
		case n.Ctor != nil:
			ctor = "#" + strconv.Itoa(int(n.Ctor.ID()))
		case n.Native:
			ctor = "native"
		}
		d.line("#%d new %s ctor=%s", id, n.Class, ctor)
		d.exprs(n.Args)
	case *Assign:
		d.line("#%d assign %s %s", id, t, n.Op)
		d.sub(n.L)
		d.sub(n.R)
	case *Binary:
		d.line("#%d binary %s %s", id, t, n.Op)
		d.sub(n.X)
		d.sub(n.Y)
	case *Logical:
		d.line("#%d logical %s", id, n.Op)
		d.sub(n.X)
		d.sub(n.Y)
	case *Unary:
		d.line("#%d unary %s %s", id, t, n.Op)
		d.sub(n.X)
	case *IncDec:
		d.line("#%d incdec %s %s post=%v", id, t, n.Op, n.Post)
		d.sub(n.X)
	case *Cond:
		d.line("#%d cond %s", id, t)
		d.sub(n.C)
		d.sub(n.X)
		d.sub(n.Y)
	case *Convert:
		d.line("#%d convert %s", id, t)
		d.sub(n.X)
	case *ArrayLit:
		d.line("#%d array %s", id, t)
		d.exprs(n.Elems)
	case *Sizeof:
		d.line("#%d sizeof", id)
		d.sub(n.X)
	default:
		d.line("#%d ?%T", id, e)
	}
}

func literal(l *Literal) string {
	switch l.T.Kind {
	case types.KindInt:
		return strconv.FormatInt(int64(l.I), 10)
	case types.KindFloat:
		return strconv.FormatFloat(float64(l.F), 'g', -1, 32)
	case types.KindBool:
		return strconv.FormatBool(l.B)
	case types.KindString:
		return strconv.Quote(l.S)
	}
	return "null"
}
