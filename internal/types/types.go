package types

import (
	"fmt"
	"strings"
)

// Kind enumerates the value kinds of the language.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindNull
	// KindPointer is a reference to a class instance; assignment aliases.
	KindPointer
	// KindIntrinsic is a class instance held by value; assignment deep-copies.
	KindIntrinsic
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindPointer:
		return "pointer"
	case KindIntrinsic:
		return "intrinsic"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact comparable descriptor.
// For arrays Kind is KindArray, Dims counts the dimensions and Base/Class
// describe the innermost element.
type Type struct {
	Kind  Kind
	Base  Kind
	Class string
	Dims  uint8
}

var (
	Void   = Type{Kind: KindVoid}
	Int    = Type{Kind: KindInt}
	Float  = Type{Kind: KindFloat}
	Bool   = Type{Kind: KindBool}
	String = Type{Kind: KindString}
	Null   = Type{Kind: KindNull}
)

// PointerTo returns the pointer type for class.
func PointerTo(class string) Type {
	return Type{Kind: KindPointer, Class: class}
}

// IntrinsicOf returns the by-value type for class.
func IntrinsicOf(class string) Type {
	return Type{Kind: KindIntrinsic, Class: class}
}

// ArrayOf adds one dimension to elem.
func ArrayOf(elem Type) Type {
	if elem.Kind == KindArray {
		elem.Dims++
		return elem
	}
	return Type{Kind: KindArray, Base: elem.Kind, Class: elem.Class, Dims: 1}
}

// Elem returns the element type of an array; Void for non-arrays.
func (t Type) Elem() Type {
	if t.Kind != KindArray {
		return Void
	}
	if t.Dims > 1 {
		t.Dims--
		return t
	}
	return Type{Kind: t.Base, Class: t.Class}
}

func (t Type) IsNumeric() bool { return t.Kind == KindInt || t.Kind == KindFloat }

// IsClass reports whether t is a pointer or intrinsic class type.
func (t Type) IsClass() bool { return t.Kind == KindPointer || t.Kind == KindIntrinsic }

// IsNullable reports whether null can be stored in t.
func (t Type) IsNullable() bool {
	return t.Kind == KindPointer || t.Kind == KindArray || t.Kind == KindNull
}

func (t Type) String() string {
	switch t.Kind {
	case KindPointer, KindIntrinsic:
		return t.Class
	case KindArray:
		var sb strings.Builder
		sb.WriteString(Type{Kind: t.Base, Class: t.Class}.String())
		for i := uint8(0); i < t.Dims; i++ {
			sb.WriteString("[]")
		}
		return sb.String()
	default:
		return t.Kind.String()
	}
}

// AtReturn converts a value type crossing a function return boundary:
// intrinsic class values leave the callee as pointers.
func AtReturn(t Type) Type {
	if t.Kind == KindIntrinsic {
		return PointerTo(t.Class)
	}
	return t
}
