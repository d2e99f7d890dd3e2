package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks an unrecognised character or an unterminated literal.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident

	// keywords
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwRepeat
	KwBreak
	KwContinue
	KwReturn
	KwSwitch
	KwCase
	KwDefault
	KwTry
	KwCatch
	KwFinally
	KwThrow
	KwNew
	KwThis
	KwSuper
	KwClass
	KwExtends
	KwPublic
	KwPrivate
	KwProtected
	KwStatic
	KwExtern
	KwSynchronized
	KwSizeof

	// type names
	KwVoid
	KwInt
	KwFloat
	KwBool
	KwString

	// literals
	IntLit
	FloatLit
	StringLit
	KwTrue
	KwFalse
	KwNull
	KwNan

	// operators
	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	UShrAssign    // >>>=
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	UShr          // >>>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	PlusPlus      // ++
	MinusMinus    // --
	Question      // ?
	Colon         // :
	ColonColon    // ::
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]

	kindCount
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	KwIf: "if", KwElse: "else", KwWhile: "while", KwDo: "do", KwFor: "for", KwRepeat: "repeat",
	KwBreak: "break", KwContinue: "continue", KwReturn: "return", KwSwitch: "switch",
	KwCase: "case", KwDefault: "default", KwTry: "try", KwCatch: "catch", KwFinally: "finally",
	KwThrow: "throw", KwNew: "new", KwThis: "this", KwSuper: "super", KwClass: "class",
	KwExtends: "extends", KwPublic: "public", KwPrivate: "private", KwProtected: "protected",
	KwStatic: "static", KwExtern: "extern", KwSynchronized: "synchronized", KwSizeof: "sizeof",
	KwVoid: "void", KwInt: "int", KwFloat: "float", KwBool: "bool", KwString: "string",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit",
	KwTrue: "true", KwFalse: "false", KwNull: "null", KwNan: "nan",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=",
	AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	UShrAssign: ">>>=", EqEq: "==", Bang: "!", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">",
	GtEq: ">=", Shl: "<<", Shr: ">>", UShr: ">>>", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	AndAnd: "&&", OrOr: "||", PlusPlus: "++", MinusMinus: "--", Question: "?", Colon: ":",
	ColonColon: "::", Semicolon: ";", Comma: ",", Dot: ".", LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsAssignOp reports whether k is = or a compound assignment.
func (k Kind) IsAssignOp() bool {
	return k >= Assign && k <= UShrAssign
}

// Binary returns the binary operator a compound assignment applies.
func (k Kind) Binary() Kind {
	switch k {
	case PlusAssign:
		return Plus
	case MinusAssign:
		return Minus
	case StarAssign:
		return Star
	case SlashAssign:
		return Slash
	case PercentAssign:
		return Percent
	case AmpAssign:
		return Amp
	case PipeAssign:
		return Pipe
	case CaretAssign:
		return Caret
	case ShlAssign:
		return Shl
	case ShrAssign:
		return Shr
	case UShrAssign:
		return UShr
	default:
		return Invalid
	}
}
