package lexer

import (
	"cbot/internal/diag"
	"cbot/internal/token"
)

// Жадность: сначала 4-символьные, затем 3-, 2- и 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.cursor.Match('>', '>', '>', '='):
		return lx.emit(token.UShrAssign, start)
	case lx.cursor.Match('>', '>', '>'):
		return lx.emit(token.UShr, start)
	case lx.cursor.Match('<', '<', '='):
		return lx.emit(token.ShlAssign, start)
	case lx.cursor.Match('>', '>', '='):
		return lx.emit(token.ShrAssign, start)
	}

	for _, op := range twoByteOps {
		if lx.cursor.Match(op.a, op.b) {
			return lx.emit(op.kind, start)
		}
	}

	if k, ok := oneByteOps[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}

	lx.cursor.Bump()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}

var twoByteOps = []struct {
	a, b byte
	kind token.Kind
}{
	{'<', '<', token.Shl},
	{'>', '>', token.Shr},
	{'+', '=', token.PlusAssign},
	{'-', '=', token.MinusAssign},
	{'*', '=', token.StarAssign},
	{'/', '=', token.SlashAssign},
	{'%', '=', token.PercentAssign},
	{'&', '=', token.AmpAssign},
	{'|', '=', token.PipeAssign},
	{'^', '=', token.CaretAssign},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'+', '+', token.PlusPlus},
	{'-', '-', token.MinusMinus},
	{':', ':', token.ColonColon},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'~': token.Tilde,
	'?': token.Question,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}
