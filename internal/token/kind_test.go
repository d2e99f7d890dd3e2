package token_test

import (
	"testing"

	"cbot/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		kind token.Kind
		want token.Class
	}{
		{token.KwWhile, token.ClassKeyword},
		{token.KwExtern, token.ClassKeyword},
		{token.KwInt, token.ClassTypeName},
		{token.KwString, token.ClassTypeName},
		{token.Ident, token.ClassIdentifier},
		{token.IntLit, token.ClassLiteral},
		{token.KwNull, token.ClassLiteral},
		{token.KwTrue, token.ClassLiteral},
		{token.ShrAssign, token.ClassOperator},
		{token.RBracket, token.ClassOperator},
		{token.Invalid, token.ClassUnknown},
		{token.EOF, token.ClassEOF},
	}
	for _, tc := range cases {
		if got := tok(tc.kind).Class(); got != tc.want {
			t.Errorf("%v: got %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	if k, ok := token.LookupKeyword("repeat"); !ok || k != token.KwRepeat {
		t.Fatalf("repeat = %v,%v", k, ok)
	}
	if k, ok := token.LookupKeyword("boolean"); !ok || k != token.KwBool {
		t.Fatalf("boolean alias = %v,%v", k, ok)
	}
	if _, ok := token.LookupKeyword("While"); ok {
		t.Fatalf("keywords are case-sensitive")
	}
}

func TestCompoundAssign(t *testing.T) {
	if token.PlusAssign.Binary() != token.Plus || token.UShrAssign.Binary() != token.UShr {
		t.Fatalf("compound mapping broken")
	}
	if !token.Assign.IsAssignOp() || token.EqEq.IsAssignOp() {
		t.Fatalf("IsAssignOp broken")
	}
	if token.Assign.Binary() != token.Invalid {
		t.Fatalf("plain assignment has no binary operator")
	}
}

func TestKindString(t *testing.T) {
	if token.ShlAssign.String() != "<<=" || token.KwNan.String() != "nan" {
		t.Fatalf("unexpected names %q %q", token.ShlAssign, token.KwNan)
	}
}
