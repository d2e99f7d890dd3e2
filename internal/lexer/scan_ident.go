package lexer

import (
	"unicode/utf8"

	"cbot/internal/diag"
	"cbot/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые. Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.cursor.Rune()
	if sz == 0 || !isIdentStartRune(r) {
		// неизвестный символ (в том числе битый UTF-8): съедаем руну целиком
		lx.cursor.BumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
		return tok
	}
	lx.cursor.BumpRune()
	for {
		b := lx.cursor.Peek()
		if b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.cursor.Rune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.cursor.BumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
