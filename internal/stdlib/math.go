package stdlib

import (
	"math"
	"math/rand/v2"

	"cbot/internal/diag"
	"cbot/internal/natives"
	"cbot/internal/types"
	"cbot/internal/value"
)

const degree = math.Pi / 180

func unary(reg *natives.Registry, name string, fn func(float64) float64) {
	reg.Register(name, func(c *natives.Call) (bool, diag.Code) {
		return true, c.Return(value.FromFloat(float32(fn(float64(c.Arg(0).AsFloat())))))
	}, natives.Sig(types.Float, types.Float))
}

func registerMath(reg *natives.Registry, rng *rand.Rand) {
	unary(reg, "abs", math.Abs)
	unary(reg, "sqrt", math.Sqrt)
	unary(reg, "floor", math.Floor)
	unary(reg, "ceil", math.Ceil)
	unary(reg, "round", math.Round)
	unary(reg, "trunc", math.Trunc)

	// углы в градусах
	unary(reg, "sin", func(a float64) float64 { return math.Sin(a * degree) })
	unary(reg, "cos", func(a float64) float64 { return math.Cos(a * degree) })
	unary(reg, "tan", func(a float64) float64 { return math.Tan(a * degree) })
	unary(reg, "asin", func(x float64) float64 { return math.Asin(x) / degree })
	unary(reg, "acos", func(x float64) float64 { return math.Acos(x) / degree })
	unary(reg, "atan", func(x float64) float64 { return math.Atan(x) / degree })

	reg.Register("atan2", func(c *natives.Call) (bool, diag.Code) {
		y, x := float64(c.Arg(0).AsFloat()), float64(c.Arg(1).AsFloat())
		return true, c.Return(value.FromFloat(float32(math.Atan2(y, x) / degree)))
	}, natives.Sig(types.Float, types.Float, types.Float))

	reg.Register("pow", func(c *natives.Call) (bool, diag.Code) {
		x, y := float64(c.Arg(0).AsFloat()), float64(c.Arg(1).AsFloat())
		return true, c.Return(value.FromFloat(float32(math.Pow(x, y))))
	}, natives.Sig(types.Float, types.Float, types.Float))

	reg.Register("rand", func(c *natives.Call) (bool, diag.Code) {
		return true, c.Return(value.FromFloat(rng.Float32()))
	}, natives.Sig(types.Float))
}
