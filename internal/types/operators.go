package types

import "cbot/internal/token"

// Binary computes the result type of x op y, or false when the operands
// are not accepted by op.
func Binary(op token.Kind, x, y Type) (Type, bool) {
	switch op {
	case token.Plus:
		if x.Kind == KindString || y.Kind == KindString {
			if x.Kind == KindVoid || y.Kind == KindVoid {
				return Void, false
			}
			return String, true
		}
		return arith(x, y)
	case token.Minus, token.Star, token.Slash, token.Percent:
		return arith(x, y)
	case token.Amp, token.Pipe, token.Caret:
		if x.Kind == KindBool && y.Kind == KindBool {
			return Bool, true
		}
		return intOnly(x, y)
	case token.Shl, token.Shr, token.UShr:
		return intOnly(x, y)
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if x.IsNumeric() && y.IsNumeric() {
			return Bool, true
		}
		if x.Kind == KindString && y.Kind == KindString {
			return Bool, true
		}
		return Void, false
	case token.EqEq, token.BangEq:
		if Comparable(x, y) {
			return Bool, true
		}
		return Void, false
	case token.AndAnd, token.OrOr:
		if x.Kind == KindBool && y.Kind == KindBool {
			return Bool, true
		}
		return Void, false
	}
	return Void, false
}

// Comparable reports whether == and != accept the operand pair.
func Comparable(x, y Type) bool {
	switch {
	case x.IsNumeric() && y.IsNumeric():
		return true
	case x.Kind == KindNull || y.Kind == KindNull:
		return x.IsNullable() && y.IsNullable()
	case x.IsClass() && y.IsClass():
		return true
	case x.Kind == KindArray && y.Kind == KindArray:
		return true
	}
	return x == y && x.Kind != KindVoid
}

// Unary computes the result type of op x.
func Unary(op token.Kind, x Type) (Type, bool) {
	switch op {
	case token.Minus, token.Plus:
		if x.IsNumeric() {
			return x, true
		}
	case token.Bang:
		if x.Kind == KindBool {
			return Bool, true
		}
	case token.Tilde:
		if x.Kind == KindInt {
			return Int, true
		}
	case token.PlusPlus, token.MinusMinus:
		if x.IsNumeric() {
			return x, true
		}
	}
	return Void, false
}

func arith(x, y Type) (Type, bool) {
	if !x.IsNumeric() || !y.IsNumeric() {
		return Void, false
	}
	if x.Kind == KindFloat || y.Kind == KindFloat {
		return Float, true
	}
	return Int, true
}

func intOnly(x, y Type) (Type, bool) {
	if x.Kind == KindInt && y.Kind == KindInt {
		return Int, true
	}
	return Void, false
}
