package compiler

import (
	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/source"
	"cbot/internal/token"
	"cbot/internal/types"
)

func (c *compiler) expr() ir.Expr {
	return c.assignment()
}

func (c *compiler) assignment() ir.Expr {
	start := c.peek()
	lhs := c.ternary()
	op := c.peek()
	if !op.Kind.IsAssignOp() {
		return lhs
	}
	c.advance()
	c.requireLvalue(lhs)
	n := &ir.Assign{Op: op.Kind, L: lhs}
	n.T = lhs.Type()
	c.unit.Add(n)
	if op.Kind == token.Assign && lhs.Type().Kind == types.KindArray && c.at(token.LBrace) {
		n.R = c.arrayLit(lhs.Type())
	} else {
		n.R = c.assignment()
	}
	n.Sp = c.spanFrom(start)
	if op.Kind == token.Assign {
		c.requireAssignable(lhs.Type(), n.R)
		return n
	}
	res, ok := types.Binary(op.Kind.Binary(), lhs.Type(), n.R.Type())
	if !ok || !c.classes.Assignable(lhs.Type(), res) {
		c.fail(diag.SemBadOperand, op.Span, "bad operands for "+op.Text)
	}
	return n
}

func (c *compiler) requireLvalue(x ir.Expr) {
	switch n := x.(type) {
	case *ir.Ident, *ir.Index:
		return
	case *ir.Field:
		if _, isThis := n.X.(*ir.This); isThis || n.X.Type().IsClass() {
			return
		}
	}
	c.fail(diag.SemNotAssignable, x.Span(), "")
}

func (c *compiler) requireAssignable(t types.Type, x ir.Expr) {
	if x.Type() == types.Void {
		c.fail(diag.SemVoidValue, x.Span(), "")
	}
	if !c.classes.Assignable(t, x.Type()) {
		c.fail(diag.SemBadType, x.Span(), "cannot use "+x.Type().String()+" as "+t.String())
	}
}

func (c *compiler) ternary() ir.Expr {
	start := c.peek()
	cond := c.binary(precLogicalOr)
	if !c.at(token.Question) {
		return cond
	}
	q := c.advance()
	if cond.Type() != types.Bool {
		c.fail(diag.SemBadType, cond.Span(), "condition must be bool")
	}
	n := &ir.Cond{C: cond}
	c.unit.Add(n)
	x := c.expr()
	c.expect(token.Colon, diag.SynExpectColon)
	y := c.ternary()
	t, ok := c.unify(x.Type(), y.Type())
	if !ok {
		c.fail(diag.SemBadType, q.Span, "branches have different types")
	}
	n.X, n.Y, n.T = c.convert(x, t), c.convert(y, t), t
	n.Sp = c.spanFrom(start)
	return n
}

// unify finds the common type of two ternary branches.
func (c *compiler) unify(x, y types.Type) (types.Type, bool) {
	switch {
	case x == y:
		return x, x != types.Void
	case x.IsNumeric() && y.IsNumeric():
		return types.Float, true
	case x.Kind == types.KindNull && y.IsNullable():
		return y, true
	case y.Kind == types.KindNull && x.IsNullable():
		return x, true
	case c.classes.Assignable(x, y) && x.IsClass():
		return types.PointerTo(x.Class), true
	case c.classes.Assignable(y, x) && y.IsClass():
		return types.PointerTo(y.Class), true
	}
	return types.Void, false
}

func (c *compiler) convert(x ir.Expr, t types.Type) ir.Expr {
	if x.Type() == t {
		return x
	}
	n := &ir.Convert{X: x}
	n.T = t
	n.Sp = x.Span()
	c.unit.Add(n)
	return n
}

// binary реализует Pratt parsing для бинарных операторов
func (c *compiler) binary(minPrec int) ir.Expr {
	left := c.unary()
	for {
		op := c.peek()
		prec := binaryPrec(op.Kind)
		if prec < 0 || prec < minPrec {
			return left
		}
		c.advance()
		right := c.binary(prec + 1)
		left = c.makeBinary(op, left, right)
	}
}

func (c *compiler) makeBinary(op token.Token, x, y ir.Expr) ir.Expr {
	if x.Type() == types.Void || y.Type() == types.Void {
		c.fail(diag.SemVoidValue, op.Span, "")
	}
	t, ok := types.Binary(op.Kind, x.Type(), y.Type())
	if !ok {
		c.fail(diag.SemBadOperand, op.Span, "bad operands for "+op.Text+": "+x.Type().String()+", "+y.Type().String())
	}
	sp := x.Span().Cover(y.Span())
	if op.Kind == token.AndAnd || op.Kind == token.OrOr {
		n := &ir.Logical{Op: op.Kind, X: x, Y: y}
		n.T, n.Sp = t, sp
		c.unit.Add(n)
		return n
	}
	n := &ir.Binary{Op: op.Kind, X: x, Y: y}
	n.T, n.Sp = t, sp
	c.unit.Add(n)
	return n
}

func (c *compiler) unary() ir.Expr {
	op := c.peek()
	switch op.Kind {
	case token.Minus, token.Plus, token.Bang, token.Tilde:
		c.advance()
		x := c.unary()
		t, ok := types.Unary(op.Kind, x.Type())
		if !ok {
			c.fail(diag.SemBadOperand, op.Span, "bad operand for "+op.Text)
		}
		if lit, isLit := x.(*ir.Literal); isLit && op.Kind == token.Minus {
			lit.I, lit.F = -lit.I, -lit.F
			lit.Sp = op.Span.Cover(lit.Sp)
			return lit
		}
		if op.Kind == token.Plus {
			return x
		}
		n := &ir.Unary{Op: op.Kind, X: x}
		n.T = t
		n.Sp = op.Span.Cover(x.Span())
		c.unit.Add(n)
		return n
	case token.PlusPlus, token.MinusMinus:
		c.advance()
		x := c.unary()
		return c.incDec(op, x, false)
	}
	return c.postfix(c.primary())
}

func (c *compiler) incDec(op token.Token, x ir.Expr, post bool) ir.Expr {
	c.requireLvalue(x)
	if !x.Type().IsNumeric() {
		c.fail(diag.SemBadOperand, op.Span, "bad operand for "+op.Text)
	}
	n := &ir.IncDec{Op: op.Kind, Post: post, X: x}
	n.T = x.Type()
	n.Sp = op.Span.Cover(x.Span())
	c.unit.Add(n)
	return n
}

func (c *compiler) postfix(x ir.Expr) ir.Expr {
	for {
		switch t := c.peek(); t.Kind {
		case token.Dot:
			c.advance()
			name := c.expectIdent()
			if c.at(token.LParen) {
				x = c.methodCall(x, name, false)
			} else {
				x = c.field(x, name)
			}
		case token.LBracket:
			c.advance()
			idx := c.expr()
			c.expect(token.RBracket, diag.SynExpectCloseBrack)
			if x.Type().Kind != types.KindArray {
				c.fail(diag.SemNotArray, x.Span(), "")
			}
			if idx.Type().Kind != types.KindInt {
				c.fail(diag.SemBadIndex, idx.Span(), "")
			}
			n := &ir.Index{X: x, I: idx}
			n.T = x.Type().Elem()
			n.Sp = x.Span().Cover(c.last.Span)
			c.unit.Add(n)
			x = n
		case token.PlusPlus, token.MinusMinus:
			c.advance()
			return c.incDec(t, x, true)
		default:
			return x
		}
	}
}

func (c *compiler) primary() ir.Expr {
	t := c.peek()
	switch t.Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull, token.KwNan:
		c.advance()
		n := c.literal(t)
		c.unit.Add(n)
		return n
	case token.LParen:
		c.advance()
		x := c.expr()
		c.expect(token.RParen, diag.SynExpectCloseParen)
		return x
	case token.KwThis:
		c.advance()
		return c.this(t.Span)
	case token.KwSuper:
		c.advance()
		if c.cls == nil {
			c.fail(diag.SemThisOutside, t.Span, "")
		}
		if c.cls.Decl.Parent == nil {
			c.fail(diag.SemNoParent, t.Span, "")
		}
		c.expect(token.Dot, diag.SynUnexpectedToken)
		name := c.expectIdent()
		return c.methodCall(c.this(t.Span), name, true)
	case token.KwNew:
		return c.newExpr()
	case token.KwSizeof:
		c.advance()
		c.expect(token.LParen, diag.SynExpectOpenParen)
		x := c.expr()
		c.expect(token.RParen, diag.SynExpectCloseParen)
		if x.Type().Kind != types.KindArray {
			c.fail(diag.SemNotArray, x.Span(), "")
		}
		n := &ir.Sizeof{X: x}
		n.T = types.Int
		n.Sp = c.spanFrom(t)
		c.unit.Add(n)
		return n
	case token.Ident:
		c.advance()
		if c.at(token.LParen) {
			return c.call(t)
		}
		return c.ident(t)
	}
	c.fail(diag.SynExpectExpression, t.Span, "")
	return nil
}

func (c *compiler) this(sp source.Span) ir.Expr {
	if c.cls == nil {
		c.fail(diag.SemThisOutside, sp, "")
	}
	n := &ir.This{}
	n.T = types.PointerTo(c.cls.Name)
	n.Sp = sp
	c.unit.Add(n)
	return n
}

func (c *compiler) ident(t token.Token) ir.Expr {
	if typ, ok := c.local(t.Text); ok {
		n := &ir.Ident{Name: t.Text}
		n.T, n.Sp = typ, t.Span
		c.unit.Add(n)
		return n
	}
	if c.cls != nil {
		if _, _, ok := c.cls.Decl.Lookup(t.Text); ok {
			return c.field(c.this(t.Span), t)
		}
	}
	if v, ok := c.reg.Const(t.Text); ok {
		n := fromValue(v)
		n.Sp = t.Span
		c.unit.Add(n)
		return n
	}
	c.fail(diag.SemUndefVar, t.Span, "unknown variable "+t.Text)
	return nil
}

func (c *compiler) classOf(x ir.Expr) *types.Class {
	if !x.Type().IsClass() {
		c.fail(diag.SemNotClass, x.Span(), "")
	}
	cls := c.classes.Get(x.Type().Class)
	if cls == nil {
		c.fail(diag.SemUndefClass, x.Span(), "")
	}
	return cls
}

func (c *compiler) field(x ir.Expr, name token.Token) ir.Expr {
	cls := c.classOf(x)
	f, slot, ok := cls.Lookup(name.Text)
	if !ok {
		c.fail(diag.SemUndefField, name.Span, "unknown field "+name.Text)
	}
	if f.Private && !c.inClass(fieldOwner(cls, name.Text)) {
		c.fail(diag.SemPrivate, name.Span, name.Text+" is private")
	}
	n := &ir.Field{X: x, Name: name.Text, Slot: slot}
	n.T = f.Type
	n.Sp = x.Span().Cover(name.Span)
	c.unit.Add(n)
	return n
}

func fieldOwner(cls *types.Class, name string) string {
	for k := cls; k != nil; k = k.Parent {
		for _, f := range k.Fields {
			if f.Name == name {
				return k.Name
			}
		}
	}
	return ""
}

func (c *compiler) inClass(name string) bool {
	return c.cls != nil && c.cls.Name == name
}
