package types

import "maps"

// Field describes one member variable of a class.
type Field struct {
	Name    string
	Type    Type
	Private bool
}

// Class is a compile-time and run-time class descriptor.
type Class struct {
	Name      string
	Parent    *Class
	Fields    []Field
	Intrinsic bool // held by value when declared as a variable
	Native    bool // registered by the host
}

// AllFields returns inherited fields first, then own fields.
// The position in this slice is the field's slot in an instance.
func (c *Class) AllFields() []Field {
	if c == nil {
		return nil
	}
	if c.Parent == nil {
		return c.Fields
	}
	out := append([]Field(nil), c.Parent.AllFields()...)
	return append(out, c.Fields...)
}

// Lookup finds a field by name through the parent chain.
func (c *Class) Lookup(name string) (Field, int, bool) {
	all := c.AllFields()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Name == name {
			return all[i], i, true
		}
	}
	return Field{}, -1, false
}

// Extends reports whether c is base or derives from it.
func (c *Class) Extends(base string) bool {
	for k := c; k != nil; k = k.Parent {
		if k.Name == base {
			return true
		}
	}
	return false
}

// VarType is the declared type of a variable of this class.
func (c *Class) VarType() Type {
	if c.Intrinsic {
		return IntrinsicOf(c.Name)
	}
	return PointerTo(c.Name)
}

// Table is a set of classes keyed by name.
type Table struct {
	classes map[string]*Class
	order   []string
}

func NewTable() *Table {
	return &Table{classes: make(map[string]*Class)}
}

// Add registers c, replacing any previous class with the same name.
func (t *Table) Add(c *Class) {
	if _, ok := t.classes[c.Name]; !ok {
		t.order = append(t.order, c.Name)
	}
	t.classes[c.Name] = c
}

func (t *Table) Get(name string) *Class {
	if t == nil {
		return nil
	}
	return t.classes[name]
}

// Names returns class names in registration order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// Clone returns a shallow copy; Class values are shared.
func (t *Table) Clone() *Table {
	return &Table{classes: maps.Clone(t.classes), order: append([]string(nil), t.order...)}
}

// Subclass reports whether class a is b or derives from b.
func (t *Table) Subclass(a, b string) bool {
	c := t.Get(a)
	if c == nil {
		return a == b
	}
	return c.Extends(b)
}
