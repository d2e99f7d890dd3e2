package persist

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cbot/internal/types"
	"cbot/internal/value"
)

func pointTable() *types.Table {
	tab := types.NewTable()
	tab.Add(&types.Class{Name: "point", Intrinsic: true, Fields: []types.Field{
		{Name: "x", Type: types.Float}, {Name: "y", Type: types.Float},
	}})
	tab.Add(&types.Class{Name: "Bot", Fields: []types.Field{{Name: "hp", Type: types.Int}}})
	return tab
}

func TestScalarsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Header(Header{Fingerprint: "abc", Entry: "main", Owner: "bot-1"})
	w.Variable(value.FromInt(-7))
	w.Variable(value.FromFloat(2.5))
	w.Variable(value.FromString("héllo"))
	w.Variable(value.FromBool(true))
	w.Variable(nil)
	gen := &value.IDGen{}
	gen.Observe(40)
	w.Variable(value.New(gen, "u", types.Int))
	require.NoError(t, w.Err())

	ids := &value.IDGen{}
	r := NewReader(&buf, pointTable(), ids)
	h, err := r.Header("abc")
	require.NoError(t, err)
	require.Equal(t, "bot-1", h.Owner)
	require.Equal(t, int32(-7), r.Variable().Int)
	require.Equal(t, float32(2.5), r.Variable().Float)
	require.Equal(t, "héllo", r.Variable().Str)
	require.True(t, r.Variable().Bool)
	require.Nil(t, r.Variable())
	u := r.Variable()
	require.Equal(t, value.Undef, u.State)
	require.Equal(t, "u", u.Name)
	require.Equal(t, uint32(41), u.ID)
	require.NoError(t, r.Err())
	require.Equal(t, uint32(42), ids.Next())
}

func TestAliasingSurvives(t *testing.T) {
	tab := pointTable()
	gen := &value.IDGen{}
	bot := value.NewInstance(gen, tab, tab.Get("Bot"))
	bot.Ref = "obj-9"
	a := value.PointerTo(bot)
	b := value.PointerTo(bot)
	arr := value.NewArray(gen, types.Int)
	arr.Items = []*value.Variable{value.FromInt(1), value.FromInt(2)}
	x := value.FromArray(types.ArrayOf(types.Int), arr)
	y := value.FromArray(types.ArrayOf(types.Int), arr)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Variables([]*value.Variable{a, b, x, y})
	require.NoError(t, w.Err())

	ids := &value.IDGen{}
	r := NewReader(&buf, tab, ids)
	vs := r.Variables()
	require.NoError(t, r.Err())
	require.Len(t, vs, 4)
	require.Same(t, vs[0].Inst, vs[1].Inst)
	require.Same(t, vs[2].Arr, vs[3].Arr)
	require.Equal(t, "obj-9", vs[0].Inst.Ref)
	require.Equal(t, 2, vs[2].Arr.Len())
	require.Greater(t, ids.Next(), arr.ID)
}

func TestFingerprintMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Header(Header{Fingerprint: "old"})
	r := NewReader(&buf, pointTable(), &value.IDGen{})
	_, err := r.Header("new")
	require.True(t, errors.Is(err, ErrFingerprint))
}

func TestBadMagic(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.String("NOPE")
	r := NewReader(&buf, pointTable(), &value.IDGen{})
	_, err := r.Header("")
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestUnknownClassFails(t *testing.T) {
	tab := pointTable()
	gen := &value.IDGen{}
	inst := value.NewInstance(gen, tab, tab.Get("Bot"))
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Variable(value.PointerTo(inst))
	r := NewReader(&buf, types.NewTable(), &value.IDGen{})
	r.Variable()
	require.ErrorIs(t, r.Err(), ErrCorrupt)
}
