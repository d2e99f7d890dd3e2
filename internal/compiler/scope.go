package compiler

import (
	"cbot/internal/diag"
	"cbot/internal/token"
	"cbot/internal/types"
)

func (c *compiler) push() {
	c.scopes = append(c.scopes, map[string]types.Type{})
}

func (c *compiler) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// declare adds a local; names may not shadow another local of the same
// function or a class name.
func (c *compiler) declare(name token.Token, t types.Type) {
	if _, ok := c.local(name.Text); ok {
		c.fail(diag.SemRedefVar, name.Span, "variable "+name.Text+" declared twice")
	}
	if c.classes.Get(name.Text) != nil {
		c.fail(diag.SemRedefVar, name.Span, name.Text+" is a class name")
	}
	c.scopes[len(c.scopes)-1][name.Text] = t
}

func (c *compiler) local(name string) (types.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return types.Void, false
}

func (c *compiler) pushJump(label string, isLoop bool) {
	c.jumps = append(c.jumps, jumpTarget{label: label, isLoop: isLoop})
}

func (c *compiler) popJump() {
	c.jumps = c.jumps[:len(c.jumps)-1]
}

// checkJump validates a break or continue with an optional label.
func (c *compiler) checkJump(kw, label token.Token) {
	isContinue := kw.Kind == token.KwContinue
	for i := len(c.jumps) - 1; i >= 0; i-- {
		j := c.jumps[i]
		if label.Kind == token.Ident {
			if j.label != label.Text {
				continue
			}
			if isContinue && !j.isLoop {
				c.fail(diag.SemBreakOutside, kw.Span, "continue does not target a loop")
			}
			return
		}
		if !isContinue || j.isLoop {
			return
		}
	}
	if label.Kind == token.Ident {
		c.fail(diag.SemUndefLabel, label.Span, "unknown label "+label.Text)
	}
	c.fail(diag.SemBreakOutside, kw.Span, "")
}
