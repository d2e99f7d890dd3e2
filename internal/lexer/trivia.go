package lexer

import (
	"cbot/internal/diag"
	"cbot/internal/token"
)

// skipTrivia пропускает пробелы и копит комментарии для следующего токена.
// Пробелы и переводы строк не сохраняются: подсветке нужны только комментарии.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			lx.cursor.Bump()
			continue
		case '/':
			if lx.scanComment() {
				continue
			}
		}
		return
	}
}

// scanComment читает // ... или /* ... */ (без вложенности).
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	switch lx.cursor.At(1) {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.holdTrivia(token.TriviaLineComment, start)
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if lx.cursor.Match('*', '/') {
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.holdTrivia(token.TriviaBlockComment, start)
		return true
	}
	return false
}

func (lx *Lexer) holdTrivia(kind token.TriviaKind, start Mark) {
	lx.pending = append(lx.pending, token.Trivia{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.Text(start),
	})
}
