package compiler

import (
	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/source"
	"cbot/internal/token"
	"cbot/internal/types"
)

func (c *compiler) args() ([]ir.Expr, []types.Type) {
	c.expect(token.LParen, diag.SynExpectOpenParen)
	var list []ir.Expr
	var ts []types.Type
	if !c.at(token.RParen) {
		for {
			a := c.expr()
			if a.Type() == types.Void {
				c.fail(diag.SemVoidValue, a.Span(), "")
			}
			list = append(list, a)
			ts = append(ts, a.Type())
			if !c.eat(token.Comma) {
				break
			}
		}
	}
	c.expect(token.RParen, diag.SynExpectCloseParen)
	return list, ts
}

// call resolves name(args): a method of the current class, then a user
// function, then a native.
func (c *compiler) call(name token.Token) ir.Expr {
	if c.cls != nil && len(c.methodCandidates(c.cls.Decl, name.Text)) > 0 {
		return c.methodCall(c.this(name.Span), name, false)
	}
	args, ts := c.args()
	sp := name.Span.Cover(c.last.Span)
	if cands := c.funcs[name.Text]; len(cands) > 0 {
		fn := c.overload(cands, ts, sp)
		n := &ir.Call{Func: fn, Args: args}
		n.T, n.Sp = types.AtReturn(fn.Result), sp
		c.unit.Add(n)
		return n
	}
	e, res, code := c.reg.CompileCall(name.Text, ts)
	if code != diag.OK {
		msg := ""
		if code == diag.SemUnknownFunc {
			msg = "unknown function " + name.Text
		}
		c.fail(code, sp, msg)
	}
	c.used[e.Name] = true
	n := &ir.NativeCall{Name: e.Name, Entry: e.ID, Args: args}
	n.T, n.Sp = types.AtReturn(res), sp
	c.unit.Add(n)
	return n
}

// overload picks the candidate with the fewest conversions.
func (c *compiler) overload(cands []*ir.Func, args []types.Type, sp source.Span) *ir.Func {
	var best *ir.Func
	bestScore, ties := -1, 0
	for _, f := range cands {
		if len(f.Params) != len(args) {
			continue
		}
		score := 0
		for i, p := range f.Params {
			d := c.classes.Distance(p.T, args[i])
			if d < 0 {
				score = -1
				break
			}
			score += d
		}
		switch {
		case score < 0:
		case best == nil || score < bestScore:
			best, bestScore, ties = f, score, 0
		case score == bestScore:
			ties++
		}
	}
	if best == nil {
		c.fail(diag.SemBadParams, sp, "no matching overload of "+cands[0].Name)
	}
	if ties > 0 {
		c.fail(diag.SemAmbiguousCall, sp, "")
	}
	return best
}

// methodCandidates lists user methods named name visible on cls, most
// derived first; overridden keys appear once.
func (c *compiler) methodCandidates(cls *types.Class, name string) []*ir.Func {
	var out []*ir.Func
	seen := make(map[string]bool)
	for k := cls; k != nil; k = k.Parent {
		uc := c.user[k.Name]
		if uc == nil {
			continue
		}
		for _, m := range uc.Methods {
			if m.Name != name || m.Ctor || seen[m.Key()] {
				continue
			}
			seen[m.Key()] = true
			out = append(out, m)
		}
	}
	return out
}

func (c *compiler) methodCall(recv ir.Expr, name token.Token, super bool) ir.Expr {
	cls := c.classOf(recv)
	if super {
		cls = cls.Parent
	}
	args, ts := c.args()
	sp := recv.Span().Cover(c.last.Span)
	n := &ir.MethodCall{Recv: recv, Name: name.Text, Super: super, Args: args}
	n.Sp = sp
	if cands := c.methodCandidates(cls, name.Text); len(cands) > 0 {
		m := c.overload(cands, ts, sp)
		if m.Private && !c.inClass(m.Class) {
			c.fail(diag.SemPrivate, name.Span, name.Text+" is private")
		}
		n.Method, n.Key, n.T = m, m.Key(), types.AtReturn(m.Result)
		c.unit.Add(n)
		return n
	}
	e, res, code := c.reg.CompileMethod(c.classes, cls.Name, name.Text, ts)
	if code != diag.OK {
		msg := ""
		if code == diag.SemUndefMethod {
			msg = "unknown method " + cls.Name + "." + name.Text
		}
		c.fail(code, sp, msg)
	}
	c.used[e.Name] = true
	n.Native, n.Entry, n.Name, n.T = true, e.ID, e.Name, types.AtReturn(res)
	c.unit.Add(n)
	return n
}

func (c *compiler) newExpr() ir.Expr {
	start := c.advance()
	name := c.expectIdent()
	cls := c.classes.Get(name.Text)
	if cls == nil {
		c.fail(diag.SemUndefClass, name.Span, "unknown class "+name.Text)
	}
	var args []ir.Expr
	var ts []types.Type
	if c.at(token.LParen) {
		args, ts = c.args()
	}
	sp := c.spanFrom(start)
	n := &ir.New{Class: cls.Name, Args: args}
	n.T, n.Sp = types.PointerTo(cls.Name), sp
	if uc := c.user[cls.Name]; uc != nil {
		var ctors []*ir.Func
		for _, m := range uc.Methods {
			if m.Ctor {
				ctors = append(ctors, m)
			}
		}
		switch {
		case len(ctors) > 0:
			n.Ctor = c.overload(ctors, ts, sp)
		case len(args) > 0:
			c.fail(diag.SemBadParams, sp, cls.Name+" has no constructor")
		}
		c.unit.Add(n)
		return n
	}
	e, _, code := c.reg.CompileMethod(c.classes, cls.Name, cls.Name, ts)
	switch {
	case code == diag.OK && e.Class == cls.Name:
		c.used[e.Name] = true
		n.Native, n.Entry = true, e.ID
	case code == diag.SemUndefMethod && len(args) == 0:
	case code == diag.SemUndefMethod, code == diag.OK:
		c.fail(diag.SemBadParams, sp, cls.Name+" has no constructor")
	default:
		c.fail(code, sp, "")
	}
	c.unit.Add(n)
	return n
}
