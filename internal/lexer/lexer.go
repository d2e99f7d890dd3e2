package lexer

import (
	"cbot/internal/source"
	"cbot/internal/token"
)

// Lexer turns one script into tokens. Comments and whitespace are
// attached to the following token as Leading trivia.
type Lexer struct {
	cursor Cursor
	opts   Options

	peeked  bool
	buffer  token.Token
	pending []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{cursor: NewCursor(file), opts: opts}
}

// Tokenize splits src into tokens, ending with EOF. Bad input becomes
// token.Invalid; nothing is reported.
func Tokenize(src []byte) []token.Token {
	return All(&source.File{Content: src}, Options{})
}

// All lexes the whole file including EOF.
func All(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next token. EOF repeats forever and carries the
// trailing comments of the file.
func (lx *Lexer) Next() token.Token {
	if lx.peeked {
		lx.peeked = false
		return lx.buffer
	}
	lx.skipTrivia()

	var tok token.Token
	switch ch := lx.cursor.Peek(); {
	case lx.cursor.EOF():
		pos := lx.cursor.Pos()
		tok = token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(Mark(pos))}
	case ch == '"':
		tok = lx.scanString()
	case isDec(ch) || lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case isIdentStartByte(ch) || ch >= 0x80:
		tok = lx.scanIdentOrKeyword()
	default:
		tok = lx.scanOperatorOrPunct()
	}
	tok.Leading, lx.pending = lx.pending, nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if !lx.peeked {
		lx.buffer = lx.Next()
		lx.peeked = true
	}
	return lx.buffer
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	return token.Token{Kind: k, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
}
