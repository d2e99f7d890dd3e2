package value

import (
	"math"
	"strconv"

	"cbot/internal/diag"
	"cbot/internal/types"
)

// State of a variable's payload.
type State uint8

const (
	Undef State = iota
	Def
	Null
)

func (s State) String() string {
	switch s {
	case Def:
		return "def"
	case Null:
		return "null"
	default:
		return "undef"
	}
}

type Variable struct {
	ID    uint32 // 0 for constants built by the From* helpers
	Name  string
	Type  types.Type
	State State

	Int   int32
	Float float32
	Bool  bool
	Str   string
	Inst  *Instance
	Arr   *Array
}

// New creates an unset variable of type t with a fresh id.
func New(gen *IDGen, name string, t types.Type) *Variable {
	return &Variable{ID: gen.Next(), Name: name, Type: t}
}

// Temp returns a temporary with its own id holding v's payload. Instances
// and arrays are shared, never copied.
func Temp(gen *IDGen, v *Variable) *Variable {
	c := *v
	c.ID = gen.Next()
	c.Name = ""
	return &c
}

func FromInt(i int32) *Variable {
	return &Variable{Type: types.Int, State: Def, Int: i}
}

func FromFloat(f float32) *Variable {
	return &Variable{Type: types.Float, State: Def, Float: f}
}

func FromBool(b bool) *Variable {
	return &Variable{Type: types.Bool, State: Def, Bool: b}
}

func FromString(s string) *Variable {
	return &Variable{Type: types.String, State: Def, Str: s}
}

// NullOf returns a null of type t (types.Null when t is the zero Type).
func NullOf(t types.Type) *Variable {
	if t == types.Void {
		t = types.Null
	}
	return &Variable{Type: t, State: Null}
}

// PointerTo wraps inst as a pointer value.
func PointerTo(inst *Instance) *Variable {
	if inst == nil {
		return NullOf(types.Null)
	}
	return &Variable{Type: types.PointerTo(inst.Class.Name), State: Def, Inst: inst}
}

// FromArray wraps arr as an array value of type t.
func FromArray(t types.Type, arr *Array) *Variable {
	return &Variable{Type: t, State: Def, Arr: arr}
}

// IsNull reports whether v holds null (or a nil reference).
func (v *Variable) IsNull() bool {
	if v.State == Null {
		return true
	}
	switch v.Type.Kind {
	case types.KindPointer, types.KindIntrinsic:
		return v.State == Def && v.Inst == nil
	case types.KindArray:
		return v.State == Def && v.Arr == nil
	}
	return false
}

// AsInt reads v as int32, truncating floats.
func (v *Variable) AsInt() int32 {
	if v.Type.Kind == types.KindFloat {
		return floatToInt(v.Float)
	}
	return v.Int
}

// AsFloat reads v as float32.
func (v *Variable) AsFloat() float32 {
	if v.Type.Kind == types.KindInt {
		return float32(v.Int)
	}
	return v.Float
}

// AsString renders v the way string concatenation does.
func (v *Variable) AsString() string {
	if v.State == Undef {
		return "undefined"
	}
	if v.IsNull() {
		return "null"
	}
	switch v.Type.Kind {
	case types.KindInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case types.KindFloat:
		return FormatFloat(v.Float)
	case types.KindBool:
		return strconv.FormatBool(v.Bool)
	case types.KindString:
		return v.Str
	case types.KindPointer, types.KindIntrinsic:
		return v.Inst.String()
	case types.KindArray:
		return v.Arr.String()
	}
	return ""
}

// FormatFloat prints a float32 with the shortest exact representation;
// nan prints as "nan".
func FormatFloat(f float32) string {
	if math.IsNaN(float64(f)) {
		return "nan"
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func floatToInt(f float32) int32 {
	switch {
	case math.IsNaN(float64(f)):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// Assign stores src into dst following dst's declared type.
// The destination keeps its name and type.
func Assign(gen *IDGen, dst, src *Variable) diag.Code {
	if src.State == Undef {
		return diag.RunNotInit
	}
	if src.IsNull() {
		dst.State = Null
		dst.Inst, dst.Arr = nil, nil
		return diag.OK
	}
	switch dst.Type.Kind {
	case types.KindInt:
		dst.Int = src.AsInt()
	case types.KindFloat:
		dst.Float = src.AsFloat()
	case types.KindBool:
		dst.Bool = src.Bool
	case types.KindString:
		if src.Type.Kind == types.KindString {
			dst.Str = src.Str
		} else {
			dst.Str = src.AsString()
		}
	case types.KindPointer:
		dst.Inst = src.Inst
	case types.KindIntrinsic:
		dst.Inst = src.Inst.Clone(gen)
	case types.KindArray:
		dst.Arr = src.Arr
	default:
		// void or null destination: keep the source's dynamic payload
		typ := dst.Type
		id, name := dst.ID, dst.Name
		*dst = *src
		dst.ID, dst.Name = id, name
		if typ.Kind != types.KindVoid && typ.Kind != types.KindNull {
			dst.Type = typ
		}
	}
	dst.State = Def
	return diag.OK
}

// Clone returns a deep copy of v: intrinsic instances are copied, pointer
// targets and arrays are shared.
func Clone(gen *IDGen, v *Variable) *Variable {
	c := *v
	c.ID = gen.Next()
	if v.Type.Kind == types.KindIntrinsic && v.Inst != nil {
		c.Inst = v.Inst.Clone(gen)
	}
	return &c
}

// Zero returns a set variable holding the default value of t: 0, false,
// "", null pointer, a fresh intrinsic instance or an empty array.
func Zero(gen *IDGen, classes *types.Table, name string, t types.Type) *Variable {
	v := &Variable{ID: gen.Next(), Name: name, Type: t, State: Def}
	switch t.Kind {
	case types.KindPointer:
		v.State = Null
	case types.KindIntrinsic:
		v.Inst = NewInstance(gen, classes, classes.Get(t.Class))
	case types.KindArray:
		v.Arr = NewArray(gen, t.Elem())
	}
	return v
}
