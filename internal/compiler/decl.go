package compiler

import (
	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/token"
	"cbot/internal/types"
)

// item is one top-level element found by the header pass.
type item struct {
	fn     *ir.Func
	cls    *ir.Class
	body   int // token index of the body '{'
	isMain bool
	from   int // top-level statement run [from, to)
	to     int
}

type modifiers struct {
	extern  bool
	private bool
	static  bool
}

// collect is the header pass.
func (c *compiler) collect() []item {
	c.declareClasses()
	var items []item
	for !c.at(token.EOF) {
		if c.isDeclStart() {
			items = append(items, c.topDecl()...)
			continue
		}
		from := c.pos
		c.skipStatements()
		items = append(items, item{isMain: true, from: from, to: c.pos})
	}
	return items
}

// declareClasses registers every class name and parent before any type
// is parsed, so classes can reference each other in any order.
func (c *compiler) declareClasses() {
	parents := make(map[string]token.Token)
	var order []token.Token
	for i := 0; i+1 < len(c.toks); i++ {
		if c.toks[i].Kind != token.KwClass {
			continue
		}
		name := c.toks[i+1]
		if name.Kind != token.Ident {
			c.fail(diag.SynExpectIdent, name.Span, "")
		}
		if c.classes.Get(name.Text) != nil {
			c.fail(diag.SemRedefClass, name.Span, "class "+name.Text+" already exists")
		}
		decl := &types.Class{Name: name.Text}
		c.classes.Add(decl)
		uc := &ir.Class{Name: name.Text, Decl: decl}
		c.user[name.Text] = uc
		c.unit.Classes = append(c.unit.Classes, uc)
		order = append(order, name)
		if i+3 < len(c.toks) && c.toks[i+2].Kind == token.KwExtends {
			parents[name.Text] = c.toks[i+3]
		}
	}
	for _, name := range order {
		pt, ok := parents[name.Text]
		if !ok {
			continue
		}
		parent := c.classes.Get(pt.Text)
		if pt.Kind != token.Ident || parent == nil {
			c.fail(diag.SemUndefClass, pt.Span, "unknown parent class "+pt.Text)
		}
		decl := c.classes.Get(name.Text)
		if parent.Extends(name.Text) {
			c.fail(diag.SemUndefClass, pt.Span, "cyclic inheritance")
		}
		decl.Parent = parent
	}
}

func (c *compiler) isTypeTokenAt(i int) bool {
	t := c.toks[i]
	if t.IsTypeName() {
		return true
	}
	return t.Kind == token.Ident && c.classes.Get(t.Text) != nil
}

// isDeclStart reports whether a top-level function or class starts here.
func (c *compiler) isDeclStart() bool {
	t := c.peek()
	if t.Kind == token.KwClass || t.IsModifier() {
		return true
	}
	if !c.isTypeTokenAt(c.pos) {
		return false
	}
	i := c.pos + 1
	for i+1 < len(c.toks) && c.toks[i].Kind == token.LBracket && c.toks[i+1].Kind == token.RBracket {
		i += 2
	}
	return i+1 < len(c.toks) && c.toks[i].Kind == token.Ident && c.toks[i+1].Kind == token.LParen
}

// skipStatements consumes top-level statements up to the next declaration.
func (c *compiler) skipStatements() {
	depth := 0
	for !c.at(token.EOF) {
		if depth == 0 && c.isDeclStart() {
			return
		}
		t := c.advance()
		switch t.Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			depth--
			if depth < 0 {
				c.fail(diag.SynUnexpectedToken, t.Span, "unbalanced "+t.Text)
			}
		}
	}
}

func (c *compiler) modifiers() modifiers {
	var m modifiers
	for c.peek().IsModifier() {
		switch c.advance().Kind {
		case token.KwExtern:
			m.extern = true
		case token.KwPrivate, token.KwProtected:
			m.private = true
		case token.KwStatic:
			m.static = true
		case token.KwSynchronized:
			c.fail(diag.SynUnexpectedToken, c.last.Span, "synchronized is not supported")
		}
	}
	return m
}

func (c *compiler) topDecl() []item {
	mods := c.modifiers()
	if c.at(token.KwClass) {
		return c.classDecl()
	}
	if mods.static {
		c.fail(diag.SynUnexpectedToken, c.last.Span, "static functions are not supported")
	}
	result := c.parseType()
	name := c.expectIdent()
	fn, body := c.funcHeader(name, result, mods, nil)
	c.addFunc(fn, name)
	return []item{{fn: fn, body: body}}
}

// funcHeader parses the parameter list and skips the body.
func (c *compiler) funcHeader(name token.Token, result types.Type, mods modifiers, cls *ir.Class) (*ir.Func, int) {
	fn := &ir.Func{Name: name.Text, Result: result, Extern: mods.extern, Private: mods.private}
	fn.Sp = name.Span
	if cls != nil {
		fn.Class = cls.Name
	}
	c.expect(token.LParen, diag.SynExpectOpenParen)
	seen := make(map[string]bool)
	if !c.at(token.RParen) {
		for {
			pt := c.parseType()
			if pt == types.Void {
				c.fail(diag.SemBadType, c.last.Span, "void parameter")
			}
			pn := c.expectIdent()
			for c.at(token.LBracket) {
				c.advance()
				c.expect(token.RBracket, diag.SynExpectCloseBrack)
				pt = types.ArrayOf(pt)
			}
			if seen[pn.Text] {
				c.fail(diag.SemRedefVar, pn.Span, "parameter "+pn.Text+" declared twice")
			}
			seen[pn.Text] = true
			fn.Params = append(fn.Params, ir.Param{Name: pn.Text, T: pt})
			if !c.eat(token.Comma) {
				break
			}
		}
	}
	c.expect(token.RParen, diag.SynExpectCloseParen)
	body := c.pos
	c.skipBalanced(token.LBrace, token.RBrace, diag.SynExpectOpenBrace)
	c.unit.Add(fn)
	fn.Index = len(c.unit.Funcs)
	c.unit.Funcs = append(c.unit.Funcs, fn)
	return fn, body
}

func (c *compiler) addFunc(fn *ir.Func, name token.Token) {
	for _, other := range c.funcs[fn.Name] {
		if other.Key() == fn.Key() {
			c.fail(diag.SemRedefFunc, name.Span, "function "+fn.Signature()+" already exists")
		}
	}
	c.funcs[fn.Name] = append(c.funcs[fn.Name], fn)
}

func (c *compiler) classDecl() []item {
	c.expect(token.KwClass, diag.SynUnexpectedToken)
	name := c.expectIdent()
	uc := c.user[name.Text]
	if c.eat(token.KwExtends) {
		c.expectIdent()
	}
	c.expect(token.LBrace, diag.SynExpectOpenBrace)
	var items []item
	for !c.eat(token.RBrace) {
		if c.at(token.EOF) {
			c.failAt(diag.SynExpectCloseBrace, "")
		}
		mods := c.modifiers()
		if mods.static {
			c.fail(diag.SynUnexpectedToken, c.last.Span, "static members are not supported")
		}
		if c.at(token.Ident) && c.peek().Text == uc.Name && c.peekN(1).Kind == token.LParen {
			ctorName := c.advance()
			fn, body := c.funcHeader(ctorName, types.Void, mods, uc)
			fn.Ctor = true
			c.addMethod(uc, fn, ctorName)
			items = append(items, item{fn: fn, cls: uc, body: body})
			continue
		}
		typ := c.parseType()
		member := c.expectIdent()
		if c.at(token.LParen) {
			fn, body := c.funcHeader(member, typ, mods, uc)
			if member.Text == uc.Name {
				if typ != types.Void {
					c.fail(diag.SemBadType, member.Span, "constructor must be void")
				}
				fn.Ctor = true
			}
			c.addMethod(uc, fn, member)
			items = append(items, item{fn: fn, cls: uc, body: body})
			continue
		}
		c.fields(uc, typ, member, mods)
	}
	return items
}

func (c *compiler) addMethod(uc *ir.Class, fn *ir.Func, name token.Token) {
	if uc.Method(fn.Key()) != nil {
		c.fail(diag.SemRedefFunc, name.Span, "method "+fn.Signature()+" already exists")
	}
	uc.Methods = append(uc.Methods, fn)
}

// fields parses "T a [= lit], b[] ...;" after the first name.
func (c *compiler) fields(uc *ir.Class, base types.Type, first token.Token, mods modifiers) {
	if base == types.Void {
		c.fail(diag.SemBadType, first.Span, "void field")
	}
	name := first
	for {
		t := base
		for c.eat(token.LBracket) {
			c.expect(token.RBracket, diag.SynExpectCloseBrack)
			t = types.ArrayOf(t)
		}
		if _, _, dup := uc.Decl.Lookup(name.Text); dup {
			c.fail(diag.SemRedefVar, name.Span, "field "+name.Text+" declared twice")
		}
		uc.Decl.Fields = append(uc.Decl.Fields, types.Field{Name: name.Text, Type: t, Private: mods.private})
		if c.eat(token.Assign) {
			lit := c.constant()
			if !c.classes.Assignable(t, lit.T) {
				c.fail(diag.SemBadType, lit.Sp, "")
			}
			_, slot, _ := uc.Decl.Lookup(name.Text)
			uc.Inits = append(uc.Inits, ir.FieldInit{Slot: slot, Value: convertLiteral(lit, t)})
		}
		if !c.eat(token.Comma) {
			break
		}
		name = c.expectIdent()
	}
	c.expect(token.Semicolon, diag.SynExpectSemicolon)
}

// parseType reads a type name followed by optional [] pairs.
func (c *compiler) parseType() types.Type {
	t := c.peek()
	var typ types.Type
	switch t.Kind {
	case token.KwVoid:
		typ = types.Void
	case token.KwInt:
		typ = types.Int
	case token.KwFloat:
		typ = types.Float
	case token.KwBool:
		typ = types.Bool
	case token.KwString:
		typ = types.String
	case token.Ident:
		cls := c.classes.Get(t.Text)
		if cls == nil {
			c.fail(diag.SemUndefClass, t.Span, "unknown type "+t.Text)
		}
		typ = cls.VarType()
	default:
		c.failAt(diag.SynExpectType, "")
	}
	c.advance()
	for c.at(token.LBracket) && c.peekN(1).Kind == token.RBracket {
		c.advance()
		c.advance()
		typ = types.ArrayOf(typ)
	}
	return typ
}

func (c *compiler) mainFunc(items []item) *ir.Func {
	var first *item
	for i := range items {
		if items[i].isMain {
			first = &items[i]
			break
		}
	}
	if first == nil {
		return nil
	}
	for _, other := range c.funcs[MainName] {
		c.fail(diag.SemRedefFunc, other.Sp, "main is defined by top-level statements")
	}
	fn := &ir.Func{Name: MainName, Result: types.Void, Extern: true}
	fn.Sp = c.toks[first.from].Span
	c.unit.Add(fn)
	fn.Index = len(c.unit.Funcs)
	c.unit.Funcs = append(c.unit.Funcs, fn)
	c.funcs[MainName] = []*ir.Func{fn}
	return fn
}

func (c *compiler) compileBody(fn *ir.Func, cls *ir.Class, body int) {
	c.fn, c.cls = fn, cls
	c.scopes = []map[string]types.Type{{}}
	for _, p := range fn.Params {
		c.scopes[0][p.Name] = p.T
	}
	c.pos = body
	fn.Body = c.block()
	if fn.Result != types.Void && !terminates(fn.Body) {
		c.fail(diag.SemNoReturn, c.last.Span, "missing return in "+fn.Name)
	}
	c.fn, c.cls = nil, nil
}

func (c *compiler) compileMain(fn *ir.Func, items []item) {
	c.fn, c.cls = fn, nil
	c.scopes = []map[string]types.Type{{}}
	b := &ir.Block{}
	c.unit.Add(b)
	for _, it := range items {
		if !it.isMain {
			continue
		}
		c.pos = it.from
		for c.pos < it.to {
			b.Stmts = append(b.Stmts, c.statement()...)
		}
		if c.pos != it.to {
			c.fail(diag.SynUnexpectedToken, c.toks[it.to].Span, "")
		}
	}
	b.Sp = fn.Sp.Cover(c.last.Span)
	fn.Body = b
	c.fn = nil
}
