package stdlib

import (
	"math"

	"cbot/internal/diag"
	"cbot/internal/natives"
	"cbot/internal/types"
	"cbot/internal/value"
)

// PointClass is the intrinsic 3D coordinate class.
const PointClass = "point"

// Point is a decoded point value.
type Point struct{ X, Y, Z float32 }

func registerPoint(reg *natives.Registry) error {
	err := reg.RegisterClass(PointClass, "", []types.Field{
		{Name: "x", Type: types.Float},
		{Name: "y", Type: types.Float},
		{Name: "z", Type: types.Float},
	}, true)
	if err != nil {
		return err
	}
	pt := types.IntrinsicOf(PointClass)
	reg.Register("distance", func(c *natives.Call) (bool, diag.Code) {
		a, b, code := twoPoints(c)
		if code != diag.OK {
			return true, code
		}
		d := math.Sqrt(sq(a.X-b.X) + sq(a.Y-b.Y) + sq(a.Z-b.Z))
		return true, c.Return(value.FromFloat(float32(d)))
	}, natives.Sig(types.Float, pt, pt))
	reg.Register("distance2d", func(c *natives.Call) (bool, diag.Code) {
		a, b, code := twoPoints(c)
		if code != diag.OK {
			return true, code
		}
		d := math.Sqrt(sq(a.X-b.X) + sq(a.Y-b.Y))
		return true, c.Return(value.FromFloat(float32(d)))
	}, natives.Sig(types.Float, pt, pt))
	return nil
}

func sq(f float32) float64 { return float64(f) * float64(f) }

func twoPoints(c *natives.Call) (a, b Point, code diag.Code) {
	if a, code = ReadPoint(c.Arg(0)); code != diag.OK {
		return a, b, code
	}
	b, code = ReadPoint(c.Arg(1))
	return a, b, code
}

// ReadPoint decodes a point variable.
func ReadPoint(v *value.Variable) (Point, diag.Code) {
	if v == nil || v.State == value.Undef {
		return Point{}, diag.RunNotInit
	}
	if v.IsNull() {
		return Point{}, diag.RunNullPointer
	}
	return Point{
		X: v.Inst.FieldByName("x").AsFloat(),
		Y: v.Inst.FieldByName("y").AsFloat(),
		Z: v.Inst.FieldByName("z").AsFloat(),
	}, diag.OK
}

// NewPoint builds a point value with fresh identity.
func NewPoint(ids *value.IDGen, classes *types.Table, p Point) *value.Variable {
	v := value.Zero(ids, classes, "", types.IntrinsicOf(PointClass))
	v.Inst.FieldByName("x").Float = p.X
	v.Inst.FieldByName("y").Float = p.Y
	v.Inst.FieldByName("z").Float = p.Z
	return v
}
