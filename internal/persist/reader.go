package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"cbot/internal/types"
	"cbot/internal/value"
)

// ErrCorrupt reports a structurally invalid stream.
var ErrCorrupt = errors.New("persist: corrupt state")

// Reader mirrors Writer. Classes resolve instance class names; ids is
// advanced past every restored variable, instance and array id.
type Reader struct {
	dec     *msgpack.Decoder
	err     error
	classes *types.Table
	ids     *value.IDGen
	insts   map[uint32]*value.Instance
	arrs    map[uint32]*value.Array
}

func NewReader(r io.Reader, classes *types.Table, ids *value.IDGen) *Reader {
	return &Reader{
		dec:     msgpack.NewDecoder(r),
		classes: classes,
		ids:     ids,
		insts:   make(map[uint32]*value.Instance),
		arrs:    make(map[uint32]*value.Array),
	}
}

func (r *Reader) Err() error { return r.err }

// Fail records err unless an earlier error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *Reader) Word() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.DecodeUint16()
	r.Fail(err)
	return v
}

func (r *Reader) Uint32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.DecodeUint32()
	r.Fail(err)
	return v
}

func (r *Reader) Int() int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.DecodeInt32()
	r.Fail(err)
	return v
}

func (r *Reader) Float() float32 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.DecodeFloat32()
	r.Fail(err)
	return v
}

func (r *Reader) String() string {
	if r.err != nil {
		return ""
	}
	v, err := r.dec.DecodeString()
	r.Fail(err)
	return v
}

func (r *Reader) Bool() bool {
	if r.err != nil {
		return false
	}
	v, err := r.dec.DecodeBool()
	r.Fail(err)
	return v
}

func (r *Reader) Len() int {
	return int(r.Word())
}

func (r *Reader) Type() types.Type {
	kind := r.Word()
	base := r.Word()
	class := r.String()
	dims := r.Word()
	if kind > uint16(types.KindArray) || base > uint16(types.KindArray) || dims > 255 {
		r.Fail(fmt.Errorf("%w: bad type descriptor", ErrCorrupt))
		return types.Void
	}
	return types.Type{Kind: types.Kind(kind), Base: types.Kind(base), Class: class, Dims: uint8(dims)}
}

// Variable reads a variable written by Writer.Variable; nil when absent.
func (r *Reader) Variable() *value.Variable {
	if !r.Bool() || r.err != nil {
		return nil
	}
	v := &value.Variable{ID: r.Uint32()}
	r.ids.Observe(v.ID)
	v.Name, v.Type = r.String(), r.Type()
	state := r.Word()
	if state > uint16(value.Null) {
		r.Fail(fmt.Errorf("%w: bad variable state %d", ErrCorrupt, state))
		return nil
	}
	v.State = value.State(state)
	switch v.Type.Kind {
	case types.KindInt:
		v.Int = r.Int()
	case types.KindFloat:
		v.Float = r.Float()
	case types.KindBool:
		v.Bool = r.Bool()
	case types.KindString:
		v.Str = r.String()
	case types.KindPointer, types.KindIntrinsic:
		v.Inst = r.instance()
	case types.KindArray:
		v.Arr = r.array()
	}
	return v
}

func (r *Reader) Variables() []*value.Variable {
	n := r.Len()
	if r.err != nil || n == 0 {
		return nil
	}
	out := make([]*value.Variable, 0, n)
	for range n {
		out = append(out, r.Variable())
	}
	return out
}

func (r *Reader) instance() *value.Instance {
	id := r.Uint32()
	if id == 0 || r.err != nil {
		return nil
	}
	if in, ok := r.insts[id]; ok {
		return in
	}
	name := r.String()
	class := r.classes.Get(name)
	if class == nil {
		r.Fail(fmt.Errorf("%w: unknown class %q", ErrCorrupt, name))
		return nil
	}
	r.ids.Observe(id)
	in := &value.Instance{ID: id, Class: class}
	r.insts[id] = in
	in.Ref = r.String()
	in.Deleted = r.Bool()
	in.Fields = r.Variables()
	if r.err == nil && len(in.Fields) != len(class.AllFields()) {
		r.Fail(fmt.Errorf("%w: class %s field count changed", ErrCorrupt, name))
	}
	return in
}

func (r *Reader) array() *value.Array {
	id := r.Uint32()
	if id == 0 || r.err != nil {
		return nil
	}
	if a, ok := r.arrs[id]; ok {
		return a
	}
	r.ids.Observe(id)
	a := &value.Array{ID: id}
	r.arrs[id] = a
	a.Elem = r.Type()
	a.Items = r.Variables()
	return a
}
