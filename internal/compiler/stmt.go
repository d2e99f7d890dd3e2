package compiler

import (
	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/token"
	"cbot/internal/types"
)

func (c *compiler) block() *ir.Block {
	start := c.expect(token.LBrace, diag.SynExpectOpenBrace)
	b := &ir.Block{}
	c.unit.Add(b)
	c.push()
	for !c.at(token.RBrace) {
		if c.at(token.EOF) {
			c.failAt(diag.SynExpectCloseBrace, "")
		}
		b.Stmts = append(b.Stmts, c.statement()...)
	}
	c.advance()
	c.pop()
	b.Sp = c.spanFrom(start)
	return b
}

// single parses a statement used as a loop or branch body.
func (c *compiler) single() ir.Stmt {
	start := c.peek()
	c.push()
	list := c.statement()
	c.pop()
	if len(list) == 1 {
		return list[0]
	}
	b := &ir.Block{Stmts: list}
	c.unit.Add(b)
	b.Sp = c.spanFrom(start)
	return b
}

func (c *compiler) statement() []ir.Stmt {
	t := c.peek()
	switch t.Kind {
	case token.LBrace:
		return []ir.Stmt{c.block()}
	case token.Semicolon:
		c.advance()
		return nil
	case token.KwIf:
		return []ir.Stmt{c.ifStmt()}
	case token.KwWhile, token.KwDo, token.KwFor, token.KwRepeat, token.KwSwitch:
		return []ir.Stmt{c.labeled("")}
	case token.KwBreak, token.KwContinue:
		return []ir.Stmt{c.jump()}
	case token.KwReturn:
		return []ir.Stmt{c.returnStmt()}
	case token.KwTry:
		return []ir.Stmt{c.tryStmt()}
	case token.KwThrow:
		return []ir.Stmt{c.throwStmt()}
	case token.KwElse:
		c.fail(diag.SynElseWithoutIf, t.Span, "")
	case token.KwCase, token.KwDefault:
		c.fail(diag.SynCaseOutside, t.Span, "")
	case token.KwCatch, token.KwFinally, token.KwClass:
		c.fail(diag.SynUnexpectedToken, t.Span, "")
	case token.Ident:
		if c.peekN(1).Kind == token.Colon {
			c.advance()
			c.advance()
			return []ir.Stmt{c.labeled(t.Text)}
		}
	}
	if c.isLocalDeclStart() {
		return c.varDecl()
	}
	x := c.expr()
	n := &ir.ExprStmt{X: x}
	c.unit.Add(n)
	c.expect(token.Semicolon, diag.SynExpectSemicolon)
	n.Sp = c.spanFrom(t)
	return []ir.Stmt{n}
}

func (c *compiler) isLocalDeclStart() bool {
	if !c.isTypeTokenAt(c.pos) {
		return false
	}
	next := c.peekN(1).Kind
	return next == token.Ident || (next == token.LBracket && c.peekN(2).Kind == token.RBracket)
}

func (c *compiler) varDecl() []ir.Stmt {
	start := c.peek()
	base := c.parseType()
	if base == types.Void {
		c.fail(diag.SemBadType, start.Span, "void variable")
	}
	var out []ir.Stmt
	for {
		name := c.expectIdent()
		d := &ir.VarDecl{Name: name.Text, T: base}
		c.unit.Add(d)
		for c.eat(token.LBracket) {
			if !c.at(token.RBracket) {
				n := c.expr()
				if n.Type().Kind != types.KindInt {
					c.fail(diag.SemBadIndex, n.Span(), "array size must be an integer")
				}
				d.Dims = append(d.Dims, n)
			}
			c.expect(token.RBracket, diag.SynExpectCloseBrack)
			d.T = types.ArrayOf(d.T)
		}
		if c.eat(token.Assign) {
			d.Init = c.initializer(d.T)
		}
		c.declare(name, d.T)
		d.Sp = c.spanFrom(start)
		out = append(out, d)
		if !c.eat(token.Comma) {
			break
		}
	}
	c.expect(token.Semicolon, diag.SynExpectSemicolon)
	return out
}

func (c *compiler) initializer(t types.Type) ir.Expr {
	if t.Kind == types.KindArray && c.at(token.LBrace) {
		return c.arrayLit(t)
	}
	x := c.expr()
	c.requireAssignable(t, x)
	return x
}

func (c *compiler) arrayLit(t types.Type) ir.Expr {
	start := c.expect(token.LBrace, diag.SynExpectOpenBrace)
	n := &ir.ArrayLit{}
	n.T = t
	c.unit.Add(n)
	elem := t.Elem()
	if !c.at(token.RBrace) {
		for {
			n.Elems = append(n.Elems, c.initializer(elem))
			if !c.eat(token.Comma) {
				break
			}
		}
	}
	c.expect(token.RBrace, diag.SynExpectCloseBrace)
	n.Sp = c.spanFrom(start)
	return n
}

func (c *compiler) cond() ir.Expr {
	c.expect(token.LParen, diag.SynExpectOpenParen)
	x := c.expr()
	c.expect(token.RParen, diag.SynExpectCloseParen)
	if x.Type() != types.Bool {
		c.fail(diag.SemBadType, x.Span(), "condition must be bool")
	}
	return x
}

func (c *compiler) ifStmt() ir.Stmt {
	start := c.advance()
	n := &ir.If{}
	c.unit.Add(n)
	n.Cond = c.cond()
	n.Then = c.single()
	if c.eat(token.KwElse) {
		n.Else = c.single()
	}
	n.Sp = c.spanFrom(start)
	return n
}

// labeled parses a loop or switch, optionally preceded by "label:".
func (c *compiler) labeled(label string) ir.Stmt {
	start := c.peek()
	switch start.Kind {
	case token.KwWhile:
		c.advance()
		n := &ir.While{Label: label}
		c.unit.Add(n)
		n.Cond = c.cond()
		n.Body = c.loopBody(label)
		n.Sp = c.spanFrom(start)
		return n
	case token.KwDo:
		c.advance()
		n := &ir.DoWhile{Label: label}
		c.unit.Add(n)
		n.Body = c.loopBody(label)
		c.expect(token.KwWhile, diag.SynExpectWhile)
		n.Cond = c.cond()
		c.expect(token.Semicolon, diag.SynExpectSemicolon)
		n.Sp = c.spanFrom(start)
		return n
	case token.KwFor:
		return c.forStmt(label)
	case token.KwRepeat:
		c.advance()
		n := &ir.Repeat{Label: label}
		c.unit.Add(n)
		c.expect(token.LParen, diag.SynExpectOpenParen)
		n.Count = c.expr()
		if !n.Count.Type().IsNumeric() {
			c.fail(diag.SemBadType, n.Count.Span(), "repeat count must be numeric")
		}
		c.expect(token.RParen, diag.SynExpectCloseParen)
		n.Body = c.loopBody(label)
		n.Sp = c.spanFrom(start)
		return n
	case token.KwSwitch:
		return c.switchStmt(label)
	}
	c.failAt(diag.SynBadLabel, "label must precede a loop or switch")
	return nil
}

func (c *compiler) loopBody(label string) ir.Stmt {
	c.pushJump(label, true)
	defer c.popJump()
	return c.single()
}

func (c *compiler) forStmt(label string) ir.Stmt {
	start := c.advance()
	n := &ir.For{Label: label}
	c.unit.Add(n)
	c.push()
	c.expect(token.LParen, diag.SynExpectOpenParen)
	if c.isLocalDeclStart() {
		n.Init = c.varDecl()
	} else {
		for !c.at(token.Semicolon) {
			x := c.expr()
			s := &ir.ExprStmt{X: x}
			c.unit.Add(s)
			s.Sp = x.Span()
			n.Init = append(n.Init, s)
			if !c.eat(token.Comma) {
				break
			}
		}
		c.expect(token.Semicolon, diag.SynExpectSemicolon)
	}
	if !c.at(token.Semicolon) {
		n.Cond = c.expr()
		if n.Cond.Type() != types.Bool {
			c.fail(diag.SemBadType, n.Cond.Span(), "condition must be bool")
		}
	}
	c.expect(token.Semicolon, diag.SynExpectSemicolon)
	for !c.at(token.RParen) {
		n.Post = append(n.Post, c.expr())
		if !c.eat(token.Comma) {
			break
		}
	}
	c.expect(token.RParen, diag.SynExpectCloseParen)
	n.Body = c.loopBody(label)
	c.pop()
	n.Sp = c.spanFrom(start)
	return n
}

func (c *compiler) switchStmt(label string) ir.Stmt {
	start := c.advance()
	n := &ir.Switch{Label: label, Default: -1}
	c.unit.Add(n)
	c.expect(token.LParen, diag.SynExpectOpenParen)
	n.Tag = c.expr()
	if n.Tag.Type().Kind != types.KindInt {
		c.fail(diag.SemBadType, n.Tag.Span(), "switch value must be int")
	}
	c.expect(token.RParen, diag.SynExpectCloseParen)
	c.expect(token.LBrace, diag.SynExpectOpenBrace)
	c.push()
	c.pushJump(label, false)
	seen := make(map[int32]bool)
	for !c.eat(token.RBrace) {
		switch t := c.peek(); t.Kind {
		case token.EOF:
			c.failAt(diag.SynExpectCloseBrace, "")
		case token.KwCase:
			c.advance()
			v := c.constant()
			if v.T.Kind != types.KindInt {
				c.fail(diag.SemCaseNotConst, v.Sp, "case value must be an int constant")
			}
			if seen[v.I] {
				c.fail(diag.SemDuplicateCase, v.Sp, "")
			}
			seen[v.I] = true
			c.expect(token.Colon, diag.SynExpectColon)
			n.Cases = append(n.Cases, ir.CaseLabel{Value: v.I, At: len(n.Body)})
		case token.KwDefault:
			c.advance()
			if n.Default >= 0 {
				c.fail(diag.SemDuplicateCase, t.Span, "duplicate default")
			}
			c.expect(token.Colon, diag.SynExpectColon)
			n.Default = len(n.Body)
		default:
			if len(n.Cases) == 0 && n.Default < 0 {
				c.fail(diag.SynCaseOutside, t.Span, "statement before first case")
			}
			n.Body = append(n.Body, c.statement()...)
		}
	}
	c.popJump()
	c.pop()
	n.Sp = c.spanFrom(start)
	return n
}

func (c *compiler) jump() ir.Stmt {
	kw := c.advance()
	var label token.Token
	if c.at(token.Ident) {
		label = c.advance()
	}
	c.checkJump(kw, label)
	c.expect(token.Semicolon, diag.SynExpectSemicolon)
	var n ir.Stmt
	if kw.Kind == token.KwBreak {
		b := &ir.Break{Label: label.Text}
		b.Sp = c.spanFrom(kw)
		n = b
	} else {
		k := &ir.Continue{Label: label.Text}
		k.Sp = c.spanFrom(kw)
		n = k
	}
	c.unit.Add(n)
	return n
}

func (c *compiler) returnStmt() ir.Stmt {
	start := c.advance()
	n := &ir.Return{}
	c.unit.Add(n)
	if !c.at(token.Semicolon) {
		n.X = c.expr()
	}
	c.expect(token.Semicolon, diag.SynExpectSemicolon)
	n.Sp = c.spanFrom(start)
	switch {
	case c.fn.Result == types.Void && n.X != nil:
		c.fail(diag.SemBadReturn, n.Sp, "void function returns a value")
	case c.fn.Result != types.Void && n.X == nil:
		c.fail(diag.SemBadReturn, n.Sp, "missing return value")
	case n.X != nil:
		c.requireAssignable(c.fn.Result, n.X)
	}
	return n
}

func (c *compiler) tryStmt() ir.Stmt {
	start := c.advance()
	n := &ir.Try{}
	c.unit.Add(n)
	n.Body = c.block()
	for c.at(token.KwCatch) {
		ct := c.advance()
		k := &ir.Catch{}
		c.unit.Add(k)
		c.expect(token.LParen, diag.SynExpectOpenParen)
		k.Cond = c.expr()
		if kind := k.Cond.Type().Kind; kind != types.KindInt && kind != types.KindBool {
			c.fail(diag.SemBadCatch, k.Cond.Span(), "")
		}
		c.expect(token.RParen, diag.SynExpectCloseParen)
		k.Body = c.block()
		k.Sp = c.spanFrom(ct)
		n.Catches = append(n.Catches, k)
	}
	if c.eat(token.KwFinally) {
		n.Finally = c.block()
	}
	if len(n.Catches) == 0 && n.Finally == nil {
		c.failAt(diag.SynExpectCatch, "")
	}
	n.Sp = c.spanFrom(start)
	return n
}

func (c *compiler) throwStmt() ir.Stmt {
	start := c.advance()
	n := &ir.Throw{}
	c.unit.Add(n)
	n.X = c.expr()
	if n.X.Type().Kind != types.KindInt {
		c.fail(diag.SemBadType, n.X.Span(), "throw needs an int error code")
	}
	c.expect(token.Semicolon, diag.SynExpectSemicolon)
	n.Sp = c.spanFrom(start)
	return n
}

// terminates reports whether control cannot fall off the end of s.
func terminates(s ir.Stmt) bool {
	switch n := s.(type) {
	case *ir.Return, *ir.Throw:
		return true
	case *ir.Block:
		for _, st := range n.Stmts {
			if terminates(st) {
				return true
			}
		}
	case *ir.If:
		return n.Else != nil && terminates(n.Then) && terminates(n.Else)
	case *ir.While:
		return isTrue(n.Cond)
	case *ir.For:
		return n.Cond == nil || isTrue(n.Cond)
	case *ir.Try:
		if n.Finally != nil && terminates(n.Finally) {
			return true
		}
		if !terminates(n.Body) {
			return false
		}
		for _, k := range n.Catches {
			if !terminates(k.Body) {
				return false
			}
		}
		return true
	}
	return false
}

func isTrue(x ir.Expr) bool {
	l, ok := x.(*ir.Literal)
	return ok && l.T == types.Bool && l.B
}
