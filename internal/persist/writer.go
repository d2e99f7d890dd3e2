package persist

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"cbot/internal/types"
	"cbot/internal/value"
)

// Writer is a sticky-error encoder: after the first failure every call is
// a no-op and Err reports the failure.
type Writer struct {
	enc   *msgpack.Encoder
	err   error
	insts map[uint32]bool
	arrs  map[uint32]bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		enc:   msgpack.NewEncoder(w),
		insts: make(map[uint32]bool),
		arrs:  make(map[uint32]bool),
	}
}

// Err returns the first encoding error.
func (w *Writer) Err() error { return w.err }

func (w *Writer) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *Writer) Word(v uint16) {
	if w.err == nil {
		w.fail(w.enc.EncodeUint16(v))
	}
}

func (w *Writer) Uint32(v uint32) {
	if w.err == nil {
		w.fail(w.enc.EncodeUint32(v))
	}
}

func (w *Writer) Int(v int32) {
	if w.err == nil {
		w.fail(w.enc.EncodeInt32(v))
	}
}

func (w *Writer) Float(v float32) {
	if w.err == nil {
		w.fail(w.enc.EncodeFloat32(v))
	}
}

func (w *Writer) String(s string) {
	if w.err == nil {
		w.fail(w.enc.EncodeString(s))
	}
}

func (w *Writer) Bool(b bool) {
	if w.err == nil {
		w.fail(w.enc.EncodeBool(b))
	}
}

// Len writes a collection length as a word.
func (w *Writer) Len(n int) {
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		w.fail(fmt.Errorf("length %d does not fit a word: %w", n, err))
		return
	}
	w.Word(v)
}

func (w *Writer) Type(t types.Type) {
	w.Word(uint16(t.Kind))
	w.Word(uint16(t.Base))
	w.String(t.Class)
	w.Word(uint16(t.Dims))
}

// Variable writes v; nil is allowed.
func (w *Writer) Variable(v *value.Variable) {
	w.Bool(v != nil)
	if v == nil {
		return
	}
	w.Uint32(v.ID)
	w.String(v.Name)
	w.Type(v.Type)
	w.Word(uint16(v.State))
	switch v.Type.Kind {
	case types.KindInt:
		w.Int(v.Int)
	case types.KindFloat:
		w.Float(v.Float)
	case types.KindBool:
		w.Bool(v.Bool)
	case types.KindString:
		w.String(v.Str)
	case types.KindPointer, types.KindIntrinsic:
		w.instance(v.Inst)
	case types.KindArray:
		w.array(v.Arr)
	}
}

// Variables writes a counted list.
func (w *Writer) Variables(vs []*value.Variable) {
	w.Len(len(vs))
	for _, v := range vs {
		w.Variable(v)
	}
}

func (w *Writer) instance(in *value.Instance) {
	if in == nil {
		w.Uint32(0)
		return
	}
	w.Uint32(in.ID)
	if w.insts[in.ID] {
		return
	}
	w.insts[in.ID] = true
	w.String(in.Class.Name)
	w.String(in.Ref)
	w.Bool(in.Deleted)
	w.Variables(in.Fields)
}

func (w *Writer) array(a *value.Array) {
	if a == nil {
		w.Uint32(0)
		return
	}
	w.Uint32(a.ID)
	if w.arrs[a.ID] {
		return
	}
	w.arrs[a.ID] = true
	w.Type(a.Elem)
	w.Variables(a.Items)
}
