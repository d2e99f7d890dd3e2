package types

// Assignable reports whether a value of type src may be stored in dst.
// int and float convert both ways; null goes into pointers and arrays;
// a class value goes into a variable of the same class or an ancestor.
func (t *Table) Assignable(dst, src Type) bool {
	if dst == src {
		return true
	}
	switch dst.Kind {
	case KindInt, KindFloat:
		return src.IsNumeric()
	case KindPointer, KindIntrinsic:
		if src.Kind == KindNull {
			return dst.Kind == KindPointer
		}
		return src.IsClass() && t.Subclass(src.Class, dst.Class)
	case KindArray:
		if src.Kind == KindNull {
			return true
		}
		if src.Kind != KindArray || src.Dims != dst.Dims {
			return false
		}
		if src.Base == dst.Base && src.Class == dst.Class {
			return true
		}
		return isClassKind(src.Base) && isClassKind(dst.Base) && t.Subclass(src.Class, dst.Class)
	}
	return false
}

func isClassKind(k Kind) bool { return k == KindPointer || k == KindIntrinsic }

// Distance ranks how well src matches dst for overload resolution:
// 0 exact, 1 converted, -1 not assignable.
func (t *Table) Distance(dst, src Type) int {
	switch {
	case dst == src:
		return 0
	case dst.IsClass() && src.IsClass() && dst.Class == src.Class:
		return 0
	case t.Assignable(dst, src):
		return 1
	default:
		return -1
	}
}
