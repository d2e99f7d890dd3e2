package natives

import (
	"cbot/internal/diag"
	"cbot/internal/types"
)

// Sig builds a CheckFunc for a fixed signature. Numeric arguments accept
// int and float; class parameters accept subclasses by name only.
func Sig(result types.Type, params ...types.Type) CheckFunc {
	return SigOpt(result, len(params), params...)
}

// SigOpt is Sig with trailing optional parameters: at least min arguments.
func SigOpt(result types.Type, min int, params ...types.Type) CheckFunc {
	return func(args []types.Type) (types.Type, diag.Code) {
		if len(args) < min {
			return types.Void, diag.SemBadParams
		}
		if len(args) > len(params) {
			return types.Void, diag.SemTooManyParams
		}
		for i, a := range args {
			if !accepts(params[i], a) {
				return types.Void, diag.SemBadType
			}
		}
		return result, diag.OK
	}
}

func accepts(p, a types.Type) bool {
	switch {
	case p == a:
		return true
	case p.IsNumeric():
		return a.IsNumeric()
	case p.IsClass():
		return (a.IsClass() && a.Class == p.Class) || (a.Kind == types.KindNull && p.Kind == types.KindPointer)
	case p.Kind == types.KindArray:
		return a.Kind == types.KindArray || a.Kind == types.KindNull
	}
	return false
}
