package lexer

import (
	"cbot/internal/diag"
	"cbot/internal/token"
)

// Поддержка: 0, 123, 0x1F, 0b101, 1.0, .5, 1., 1e-3, 1.5E+10.
// Неверные формы (0x без цифр, экспонента без цифр, буква вплотную к числу) дают Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	bad := func(msg string) token.Token {
		// дочитываем хвост, чтобы не порождать каскад токенов
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, msg)
		return tok
	}

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.At(1) {
		case 'x', 'X':
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !isHex(lx.cursor.Peek()) {
				return bad("expected hex digit after 0x")
			}
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			if isIdentContinueByte(lx.cursor.Peek()) {
				return bad("invalid character in hex literal")
			}
			return lx.emit(kind, start)
		case 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			if b := lx.cursor.Peek(); b != '0' && b != '1' {
				return bad("expected binary digit after 0b")
			}
			for b := lx.cursor.Peek(); b == '0' || b == '1'; b = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			if isIdentContinueByte(lx.cursor.Peek()) {
				return bad("invalid character in binary literal")
			}
			return lx.emit(kind, start)
		}
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		kind = token.FloatLit
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return bad("expected digit after exponent")
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if isIdentContinueByte(lx.cursor.Peek()) {
		return bad("invalid character in number")
	}
	return lx.emit(kind, start)
}
