package compiler

import (
	"cbot/internal/diag"
	"cbot/internal/source"
	"cbot/internal/token"
)

func (c *compiler) peek() token.Token {
	return c.toks[c.pos]
}

func (c *compiler) peekN(n int) token.Token {
	if c.pos+n >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[c.pos+n]
}

func (c *compiler) at(k token.Kind) bool {
	return c.peek().Kind == k
}

func (c *compiler) advance() token.Token {
	t := c.toks[c.pos]
	if t.Kind != token.EOF {
		c.pos++
	}
	c.last = t
	return t
}

func (c *compiler) eat(k token.Kind) bool {
	if c.at(k) {
		c.advance()
		return true
	}
	return false
}

func (c *compiler) expect(k token.Kind, code diag.Code) token.Token {
	if !c.at(k) {
		c.failAt(code, "")
	}
	return c.advance()
}

func (c *compiler) expectIdent() token.Token {
	if !c.at(token.Ident) {
		c.failAt(diag.SynExpectIdent, "")
	}
	return c.advance()
}

// spanFrom covers start..last consumed token.
func (c *compiler) spanFrom(start token.Token) source.Span {
	return start.Span.Cover(c.last.Span)
}

// skipBalanced consumes an open delimiter and everything up to its match.
func (c *compiler) skipBalanced(open, close token.Kind, code diag.Code) {
	c.expect(open, code)
	depth := 1
	for depth > 0 {
		t := c.advance()
		switch t.Kind {
		case open:
			depth++
		case close:
			depth--
		case token.EOF:
			c.fail(code, t.Span, "")
		}
	}
}
