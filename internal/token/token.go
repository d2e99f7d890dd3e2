package token

import (
	"cbot/internal/source"
)

// Class is the coarse classification used by the editor highlighter.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassKeyword
	ClassTypeName
	ClassIdentifier
	ClassLiteral
	ClassOperator
	ClassEOF
)

func (c Class) String() string {
	switch c {
	case ClassKeyword:
		return "keyword"
	case ClassTypeName:
		return "type"
	case ClassIdentifier:
		return "identifier"
	case ClassLiteral:
		return "literal"
	case ClassOperator:
		return "operator"
	case ClassEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// TriviaKind identifies skipped source text.
type TriviaKind uint8

const (
	TriviaLineComment TriviaKind = iota
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	if k == TriviaBlockComment {
		return "block-comment"
	}
	return "line-comment"
}

// Trivia is a comment attached to the token that follows it.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// Token represents a single source token with its location.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// Class classifies the token.
func (t Token) Class() Class {
	switch {
	case t.Kind == Invalid:
		return ClassUnknown
	case t.Kind == EOF:
		return ClassEOF
	case t.Kind == Ident:
		return ClassIdentifier
	case t.IsTypeName():
		return ClassTypeName
	case t.IsLiteral():
		return ClassLiteral
	case t.Kind >= KwIf && t.Kind <= KwSizeof:
		return ClassKeyword
	case t.Kind >= Plus && t.Kind < kindCount:
		return ClassOperator
	}
	return ClassUnknown
}

// IsLiteral reports whether the token is a numeric, string, boolean, null or nan literal.
func (t Token) IsLiteral() bool {
	return t.Kind >= IntLit && t.Kind <= KwNan
}

// IsTypeName reports whether the token is a built-in type keyword.
func (t Token) IsTypeName() bool {
	return t.Kind >= KwVoid && t.Kind <= KwString
}

// IsModifier reports whether the token is a declaration modifier.
func (t Token) IsModifier() bool {
	switch t.Kind {
	case KwPublic, KwPrivate, KwProtected, KwStatic, KwExtern, KwSynchronized:
		return true
	default:
		return false
	}
}
