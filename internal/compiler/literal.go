package compiler

import (
	"math"
	"strconv"
	"strings"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/lexer"
	"cbot/internal/token"
	"cbot/internal/types"
	"cbot/internal/value"
)

// literal builds a Literal node from a literal token.
func (c *compiler) literal(t token.Token) *ir.Literal {
	n := &ir.Literal{}
	n.Sp = t.Span
	switch t.Kind {
	case token.IntLit:
		n.T = types.Int
		n.I = c.parseInt(t)
	case token.FloatLit:
		f, err := strconv.ParseFloat(t.Text, 32)
		if err != nil {
			c.fail(diag.LexBadNumber, t.Span, err.Error())
		}
		n.T = types.Float
		n.F = float32(f)
	case token.StringLit:
		n.T = types.String
		n.S = lexer.Unquote(t.Text)
	case token.KwTrue, token.KwFalse:
		n.T = types.Bool
		n.B = t.Kind == token.KwTrue
	case token.KwNan:
		n.T = types.Float
		n.F = float32(math.NaN())
	case token.KwNull:
		n.T = types.Null
	default:
		c.fail(diag.SynExpectExpression, t.Span, "")
	}
	return n
}

func (c *compiler) parseInt(t token.Token) int32 {
	text := strings.ToLower(t.Text)
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0b") {
		u, err := strconv.ParseUint(text, 0, 32)
		if err != nil {
			c.fail(diag.LexBadNumber, t.Span, "integer literal out of range")
		}
		return int32(uint32(u))
	}
	i, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		c.fail(diag.LexBadNumber, t.Span, "integer literal out of range")
	}
	return int32(i)
}

// constant parses a constant expression: a literal, a negated numeric
// literal or a registered constant. The node is not part of the unit.
func (c *compiler) constant() *ir.Literal {
	start := c.peek()
	neg := c.eat(token.Minus)
	t := c.advance()
	var lit *ir.Literal
	if t.Kind == token.Ident {
		v, ok := c.reg.Const(t.Text)
		if !ok {
			c.fail(diag.SemCaseNotConst, t.Span, t.Text+" is not a constant")
		}
		lit = fromValue(v)
	} else {
		lit = c.literal(t)
	}
	if neg {
		switch lit.T.Kind {
		case types.KindInt:
			lit.I = -lit.I
		case types.KindFloat:
			lit.F = -lit.F
		default:
			c.fail(diag.SemBadOperand, start.Span, "")
		}
	}
	lit.Sp = c.spanFrom(start)
	return lit
}

func fromValue(v *value.Variable) *ir.Literal {
	n := &ir.Literal{I: v.Int, F: v.Float, B: v.Bool, S: v.Str}
	n.T = v.Type
	if v.State == value.Null {
		n.T = types.Null
	}
	return n
}

// convertLiteral retypes a numeric literal for a field of type t.
func convertLiteral(l *ir.Literal, t types.Type) *ir.Literal {
	out := *l
	switch {
	case t.Kind == types.KindFloat && l.T.Kind == types.KindInt:
		out.T, out.F = types.Float, float32(l.I)
	case t.Kind == types.KindInt && l.T.Kind == types.KindFloat:
		out.T, out.I = types.Int, int32(l.F)
	}
	return &out
}
