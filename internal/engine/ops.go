package engine

import (
	"math"
	"strings"

	"cbot/internal/diag"
	"cbot/internal/token"
	"cbot/internal/types"
	"cbot/internal/value"
)

// binaryOp evaluates x op y for the non short-circuit operators.
func binaryOp(op token.Kind, x, y *value.Variable) (*value.Variable, diag.Code) {
	if x.State == value.Undef || y.State == value.Undef {
		return nil, diag.RunNotInit
	}
	switch op {
	case token.EqEq:
		return value.FromBool(equal(x, y)), diag.OK
	case token.BangEq:
		return value.FromBool(!equal(x, y)), diag.OK
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return value.FromBool(compare(op, x, y)), diag.OK
	}
	if op == token.Plus && (x.Type.Kind == types.KindString || y.Type.Kind == types.KindString) {
		return value.FromString(x.AsString() + y.AsString()), diag.OK
	}
	if x.Type.Kind == types.KindBool && y.Type.Kind == types.KindBool {
		switch op {
		case token.Amp:
			return value.FromBool(x.Bool && y.Bool), diag.OK
		case token.Pipe:
			return value.FromBool(x.Bool || y.Bool), diag.OK
		case token.Caret:
			return value.FromBool(x.Bool != y.Bool), diag.OK
		}
	}
	if x.Type.Kind == types.KindFloat || y.Type.Kind == types.KindFloat {
		return floatOp(op, x.AsFloat(), y.AsFloat())
	}
	return intOp(op, x.AsInt(), y.AsInt())
}

func intOp(op token.Kind, a, b int32) (*value.Variable, diag.Code) {
	var r int32
	switch op {
	case token.Plus:
		r = a + b
	case token.Minus:
		r = a - b
	case token.Star:
		r = a * b
	case token.Slash:
		if b == 0 {
			return nil, diag.RunZeroDiv
		}
		r = a / b
	case token.Percent:
		if b == 0 {
			return nil, diag.RunZeroDiv
		}
		r = a % b
	case token.Amp:
		r = a & b
	case token.Pipe:
		r = a | b
	case token.Caret:
		r = a ^ b
	case token.Shl:
		r = a << uint32(b&31)
	case token.Shr:
		r = a >> uint32(b&31)
	case token.UShr:
		r = int32(uint32(a) >> uint32(b&31))
	default:
		return nil, diag.RunNoRun
	}
	return value.FromInt(r), diag.OK
}

func floatOp(op token.Kind, a, b float32) (*value.Variable, diag.Code) {
	var r float32
	switch op {
	case token.Plus:
		r = a + b
	case token.Minus:
		r = a - b
	case token.Star:
		r = a * b
	case token.Slash:
		if b == 0 {
			return nil, diag.RunZeroDiv
		}
		r = a / b
	case token.Percent:
		if b == 0 {
			return nil, diag.RunZeroDiv
		}
		r = float32(math.Mod(float64(a), float64(b)))
	default:
		return nil, diag.RunNoRun
	}
	return value.FromFloat(r), diag.OK
}

func equal(x, y *value.Variable) bool {
	if x.IsNull() || y.IsNull() {
		return x.IsNull() && y.IsNull()
	}
	switch {
	case x.Type.IsNumeric() && y.Type.IsNumeric():
		if x.Type.Kind == types.KindFloat || y.Type.Kind == types.KindFloat {
			return x.AsFloat() == y.AsFloat()
		}
		return x.Int == y.Int
	case x.Type.Kind == types.KindBool:
		return x.Bool == y.Bool
	case x.Type.Kind == types.KindString:
		return x.Str == y.Str
	case x.Type.IsClass():
		return x.Inst == y.Inst
	case x.Type.Kind == types.KindArray:
		return x.Arr == y.Arr
	}
	return false
}

func compare(op token.Kind, x, y *value.Variable) bool {
	var c int
	switch {
	case x.Type.Kind == types.KindString:
		c = strings.Compare(x.Str, y.Str)
	case x.Type.Kind == types.KindFloat || y.Type.Kind == types.KindFloat:
		a, b := x.AsFloat(), y.AsFloat()
		if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
			return false
		}
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	default:
		switch {
		case x.Int < y.Int:
			c = -1
		case x.Int > y.Int:
			c = 1
		}
	}
	switch op {
	case token.Lt:
		return c < 0
	case token.LtEq:
		return c <= 0
	case token.Gt:
		return c > 0
	}
	return c >= 0
}

func unaryOp(op token.Kind, x *value.Variable) (*value.Variable, diag.Code) {
	if x.State != value.Def {
		return nil, diag.RunNotInit
	}
	switch op {
	case token.Minus:
		if x.Type.Kind == types.KindFloat {
			return value.FromFloat(-x.Float), diag.OK
		}
		return value.FromInt(-x.Int), diag.OK
	case token.Bang:
		return value.FromBool(!x.Bool), diag.OK
	case token.Tilde:
		return value.FromInt(^x.Int), diag.OK
	}
	return nil, diag.RunNoRun
}
