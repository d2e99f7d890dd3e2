package types

import (
	"testing"

	"cbot/internal/token"
)

func sampleTable() *Table {
	t := NewTable()
	point := &Class{Name: "point", Intrinsic: true, Native: true, Fields: []Field{
		{Name: "x", Type: Float}, {Name: "y", Type: Float}, {Name: "z", Type: Float},
	}}
	object := &Class{Name: "object", Native: true, Fields: []Field{{Name: "position", Type: IntrinsicOf("point")}}}
	bot := &Class{Name: "Bot", Parent: object, Fields: []Field{{Name: "hp", Type: Int}}}
	t.Add(point)
	t.Add(object)
	t.Add(bot)
	return t
}

func TestArrayTypes(t *testing.T) {
	a2 := ArrayOf(ArrayOf(Int))
	if a2.Dims != 2 || a2.String() != "int[][]" {
		t.Fatalf("unexpected %+v %s", a2, a2)
	}
	if a2.Elem() != ArrayOf(Int) || a2.Elem().Elem() != Int {
		t.Fatalf("elem chain broken")
	}
	if ArrayOf(PointerTo("object")).Elem() != PointerTo("object") {
		t.Fatalf("class elem lost")
	}
}

func TestAssignable(t *testing.T) {
	tbl := sampleTable()
	cases := []struct {
		dst, src Type
		want     bool
	}{
		{Int, Float, true},
		{Float, Int, true},
		{Int, Bool, false},
		{String, Int, false},
		{PointerTo("object"), Null, true},
		{IntrinsicOf("point"), Null, false},
		{PointerTo("object"), PointerTo("Bot"), true},
		{PointerTo("Bot"), PointerTo("object"), false},
		{IntrinsicOf("point"), PointerTo("point"), true},
		{ArrayOf(Int), Null, true},
		{ArrayOf(Int), ArrayOf(Float), false},
		{ArrayOf(PointerTo("object")), ArrayOf(PointerTo("Bot")), true},
	}
	for _, tc := range cases {
		if got := tbl.Assignable(tc.dst, tc.src); got != tc.want {
			t.Errorf("%s <- %s: got %v, want %v", tc.dst, tc.src, got, tc.want)
		}
	}
}

func TestAtReturn(t *testing.T) {
	if AtReturn(IntrinsicOf("point")) != PointerTo("point") {
		t.Fatalf("intrinsic must leave as pointer")
	}
	if AtReturn(Int) != Int {
		t.Fatalf("scalars unchanged")
	}
}

func TestClassLayout(t *testing.T) {
	tbl := sampleTable()
	bot := tbl.Get("Bot")
	all := bot.AllFields()
	if len(all) != 2 || all[0].Name != "position" || all[1].Name != "hp" {
		t.Fatalf("layout %+v", all)
	}
	if _, idx, ok := bot.Lookup("position"); !ok || idx != 0 {
		t.Fatalf("inherited lookup failed")
	}
	if !tbl.Subclass("Bot", "object") || tbl.Subclass("object", "Bot") {
		t.Fatalf("subclass relation wrong")
	}
}

func TestOperators(t *testing.T) {
	if r, ok := Binary(token.Plus, String, Int); !ok || r != String {
		t.Fatalf("string concat: %v %v", r, ok)
	}
	if r, ok := Binary(token.Star, Int, Float); !ok || r != Float {
		t.Fatalf("int*float: %v %v", r, ok)
	}
	if _, ok := Binary(token.Shl, Float, Int); ok {
		t.Fatalf("shift on float accepted")
	}
	if _, ok := Binary(token.EqEq, Null, PointerTo("object")); !ok {
		t.Fatalf("null comparison rejected")
	}
	if _, ok := Binary(token.AndAnd, Int, Bool); ok {
		t.Fatalf("&& on int accepted")
	}
	if r, ok := Unary(token.Tilde, Int); !ok || r != Int {
		t.Fatalf("~int: %v %v", r, ok)
	}
}
