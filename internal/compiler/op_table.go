package compiler

import "cbot/internal/token"

// Таблица приоритетов для бинарных операторов (порядок C).
// Чем больше число, тем выше приоритет
const (
	precLogicalOr      = 1  // ||
	precLogicalAnd     = 2  // &&
	precBitwiseOr      = 3  // |
	precBitwiseXor     = 4  // ^
	precBitwiseAnd     = 5  // &
	precEquality       = 6  // == !=
	precComparison     = 7  // < <= > >=
	precShift          = 8  // << >> >>>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
)

// binaryPrec возвращает приоритет оператора или -1
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Shl, token.Shr, token.UShr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return -1
	}
}
