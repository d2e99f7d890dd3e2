package lexer

import (
	"cbot/internal/diag"
	"cbot/internal/token"
)

// scanString читает "..." с escape \n \t \r \0 \" \\.
// Перевод строки или EOF до закрывающей кавычки дают Invalid.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			if _, ok := escapeByte(lx.cursor.Peek()); !ok && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence")
				continue
			}
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "newline in string literal")
			return tok
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

func escapeByte(b byte) (byte, bool) {
	switch b {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	}
	return 0, false
}

// Unquote decodes the text of a StringLit token. Unknown escapes keep the
// escaped byte as is.
func Unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b != '\\' || i+1 == len(text) {
			out = append(out, b)
			continue
		}
		i++
		if e, ok := escapeByte(text[i]); ok {
			out = append(out, e)
		} else {
			out = append(out, text[i])
		}
	}
	return string(out)
}
