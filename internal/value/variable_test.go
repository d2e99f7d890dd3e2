package value

import (
	"testing"

	"cbot/internal/diag"
	"cbot/internal/types"
)

func classes() *types.Table {
	t := types.NewTable()
	t.Add(&types.Class{Name: "point", Intrinsic: true, Fields: []types.Field{
		{Name: "x", Type: types.Float}, {Name: "y", Type: types.Float},
	}})
	t.Add(&types.Class{Name: "Box", Fields: []types.Field{{Name: "n", Type: types.Int}}})
	return t
}

func TestNumericConversionOnAssign(t *testing.T) {
	var gen IDGen
	i := New(&gen, "i", types.Int)
	if code := Assign(&gen, i, FromFloat(3.9)); code != diag.OK || i.Int != 3 {
		t.Fatalf("float->int: %v %d", code, i.Int)
	}
	f := New(&gen, "f", types.Float)
	if code := Assign(&gen, f, FromInt(7)); code != diag.OK || f.Float != 7 {
		t.Fatalf("int->float: %v %v", code, f.Float)
	}
	if code := Assign(&gen, f, New(&gen, "u", types.Int)); code != diag.RunNotInit {
		t.Fatalf("undef source must fail, got %v", code)
	}
}

func TestPointerAliasesIntrinsicCopies(t *testing.T) {
	var gen IDGen
	tbl := classes()
	box := NewInstance(&gen, tbl, tbl.Get("Box"))

	a := New(&gen, "a", types.PointerTo("Box"))
	b := New(&gen, "b", types.PointerTo("Box"))
	Assign(&gen, a, PointerTo(box))
	Assign(&gen, b, a)
	b.Inst.Fields[0].Int = 42
	if a.Inst.Fields[0].Int != 42 || a.Inst != b.Inst {
		t.Fatalf("pointer assignment must alias")
	}

	p := Zero(&gen, tbl, "p", types.IntrinsicOf("point"))
	q := Zero(&gen, tbl, "q", types.IntrinsicOf("point"))
	p.Inst.Fields[0].Float = 1.5
	Assign(&gen, q, p)
	q.Inst.Fields[0].Float = 9
	if p.Inst.Fields[0].Float != 1.5 {
		t.Fatalf("intrinsic assignment must copy, p.x = %v", p.Inst.Fields[0].Float)
	}
	if p.Inst.ID == q.Inst.ID {
		t.Fatalf("copy must get a fresh id")
	}
}

func TestArraysAliasAndGrow(t *testing.T) {
	var gen IDGen
	tbl := classes()
	a := Zero(&gen, tbl, "a", types.ArrayOf(types.Int))
	b := New(&gen, "b", types.ArrayOf(types.Int))
	Assign(&gen, b, a)

	slot, code := b.Arr.Slot(&gen, 4)
	if code != diag.OK {
		t.Fatalf("slot: %v", code)
	}
	Assign(&gen, slot, FromInt(5))
	if a.Arr.Len() != 5 {
		t.Fatalf("write through alias must grow shared array, len=%d", a.Arr.Len())
	}
	if _, code := a.Arr.Get(5); code != diag.RunOutOfArray {
		t.Fatalf("read past end: %v", code)
	}
	if v, _ := a.Arr.Get(0); v.State != Undef {
		t.Fatalf("gap elements must be unset")
	}
	if _, code := a.Arr.Slot(&gen, MaxArrayLen); code != diag.RunArrayTooLarge {
		t.Fatalf("growth limit: %v", code)
	}
}

func TestNullAndStrings(t *testing.T) {
	var gen IDGen
	p := New(&gen, "p", types.PointerTo("Box"))
	Assign(&gen, p, NullOf(types.Null))
	if !p.IsNull() || p.AsString() != "null" {
		t.Fatalf("null assignment failed: %+v", p)
	}
	if FromFloat(2.5).AsString() != "2.5" || FromInt(-3).AsString() != "-3" || FromBool(true).AsString() != "true" {
		t.Fatalf("string rendering mismatch")
	}
	s := New(&gen, "s", types.String)
	Assign(&gen, s, FromInt(10))
	if s.Str != "10" {
		t.Fatalf("int->string = %q", s.Str)
	}
}

func TestIDGenObserve(t *testing.T) {
	var gen IDGen
	gen.Observe(10)
	if id := gen.Next(); id != 11 {
		t.Fatalf("next after observe = %d", id)
	}
	gen.Observe(3)
	if id := gen.Next(); id != 12 {
		t.Fatalf("observe must not go backwards, got %d", id)
	}
}

func TestVariableIDs(t *testing.T) {
	var gen IDGen
	tbl := classes()
	a := New(&gen, "a", types.Int)
	p := Zero(&gen, tbl, "p", types.IntrinsicOf("point"))
	tmp := Temp(&gen, a)
	c := Clone(&gen, p)
	arr := Zero(&gen, tbl, "arr", types.ArrayOf(types.Int))
	slot, _ := arr.Arr.Slot(&gen, 0)

	seen := map[uint32]bool{}
	last := uint32(0)
	for _, v := range []*Variable{a, p, tmp, c, slot} {
		if v.ID <= last || seen[v.ID] {
			t.Fatalf("ids must be fresh and increasing: %d after %d", v.ID, last)
		}
		seen[v.ID], last = true, v.ID
	}

	id := a.ID
	Assign(&gen, a, FromInt(3))
	if a.ID != id {
		t.Fatalf("assignment changed the id: %d -> %d", id, a.ID)
	}
}
