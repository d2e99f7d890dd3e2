package value

import (
	"fmt"
	"strings"

	"cbot/internal/diag"
	"cbot/internal/types"
)

// IDGen hands out variable, instance and array identities for one runtime
// context. All three share one increasing sequence.
type IDGen struct {
	next uint32
}

// Next returns a fresh non-zero id. A nil generator returns 0.
func (g *IDGen) Next() uint32 {
	if g == nil {
		return 0
	}
	g.next++
	return g.next
}

// Observe makes sure later ids are greater than id (used after a restore).
func (g *IDGen) Observe(id uint32) {
	if g != nil && id > g.next {
		g.next = id
	}
}

// Instance is a class object. Ref is an opaque host handle (e.g. a world
// object id) that survives persistence.
type Instance struct {
	ID      uint32
	Class   *types.Class
	Fields  []*Variable
	Ref     string
	Deleted bool
}

// NewInstance allocates an instance with default field values.
func NewInstance(gen *IDGen, classes *types.Table, class *types.Class) *Instance {
	all := class.AllFields()
	inst := &Instance{ID: gen.Next(), Class: class, Fields: make([]*Variable, len(all))}
	for i, f := range all {
		inst.Fields[i] = Zero(gen, classes, f.Name, f.Type)
	}
	return inst
}

// Clone deep-copies the instance: intrinsic fields are copied recursively,
// pointer fields and arrays are shared.
func (in *Instance) Clone(gen *IDGen) *Instance {
	if in == nil {
		return nil
	}
	c := &Instance{ID: gen.Next(), Class: in.Class, Ref: in.Ref, Deleted: in.Deleted, Fields: make([]*Variable, len(in.Fields))}
	for i, f := range in.Fields {
		c.Fields[i] = Clone(gen, f)
	}
	return c
}

// Field returns the variable in slot idx.
func (in *Instance) Field(idx int) *Variable {
	if idx < 0 || idx >= len(in.Fields) {
		return nil
	}
	return in.Fields[idx]
}

// FieldByName finds a field variable by name.
func (in *Instance) FieldByName(name string) *Variable {
	for i := len(in.Fields) - 1; i >= 0; i-- {
		if in.Fields[i].Name == name {
			return in.Fields[i]
		}
	}
	return nil
}

func (in *Instance) String() string {
	var sb strings.Builder
	sb.WriteString(in.Class.Name)
	sb.WriteString("{")
	for i, f := range in.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", f.Name, f.AsString())
	}
	sb.WriteString("}")
	return sb.String()
}

// MaxArrayLen bounds automatic array growth.
const MaxArrayLen = 1 << 16

// Array is a growable array shared by aliasing variables.
type Array struct {
	ID    uint32
	Elem  types.Type
	Items []*Variable
}

// NewArray allocates an empty array.
func NewArray(gen *IDGen, elem types.Type) *Array {
	return &Array{ID: gen.Next(), Elem: elem}
}

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Items)
}

// Get reads element i; reading past the end is an error.
func (a *Array) Get(i int32) (*Variable, diag.Code) {
	if i < 0 || int(i) >= len(a.Items) {
		return nil, diag.RunOutOfArray
	}
	return a.Items[i], diag.OK
}

// Slot returns element i for writing, growing the array with unset
// elements when needed.
func (a *Array) Slot(gen *IDGen, i int32) (*Variable, diag.Code) {
	if i < 0 {
		return nil, diag.RunOutOfArray
	}
	if int(i) >= MaxArrayLen {
		return nil, diag.RunArrayTooLarge
	}
	for int(i) >= len(a.Items) {
		a.Items = append(a.Items, New(gen, "", a.Elem))
	}
	return a.Items[i], diag.OK
}

// Resize grows the array to n default elements (declarations like int a[3]).
func (a *Array) Resize(gen *IDGen, classes *types.Table, n int32, init func(*Variable)) diag.Code {
	if n < 0 {
		return diag.RunOutOfArray
	}
	if int(n) > MaxArrayLen {
		return diag.RunArrayTooLarge
	}
	for len(a.Items) < int(n) {
		var v *Variable
		switch a.Elem.Kind {
		case types.KindIntrinsic, types.KindArray:
			v = Zero(gen, classes, "", a.Elem)
		default:
			v = New(gen, "", a.Elem)
		}
		if init != nil {
			init(v)
		}
		a.Items = append(a.Items, v)
	}
	return diag.OK
}

func (a *Array) String() string {
	if a == nil {
		return "null"
	}
	var sb strings.Builder
	sb.WriteString("{")
	for i, it := range a.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.AsString())
	}
	sb.WriteString("}")
	return sb.String()
}
