package ir

import (
	"strings"

	"cbot/internal/source"
	"cbot/internal/types"
)

type Param struct {
	Name string
	T    types.Type
}

// Func is a user function or method. Its frame is the call boundary for
// variable lookup.
type Func struct {
	Base
	Name    string
	Class   string // owner class for methods
	Params  []Param
	Result  types.Type
	Body    *Block
	Extern  bool
	Private bool
	Ctor    bool
	Index   int
}

func (*Func) stmt() {}

// Key identifies a function by name and parameter types for overloads
// and virtual dispatch.
func (f *Func) Key() string {
	return SigKey(f.Name, paramTypes(f.Params))
}

// Signature renders "result name(params)".
func (f *Func) Signature() string {
	var sb strings.Builder
	sb.WriteString(f.Result.String())
	sb.WriteByte(' ')
	if f.Class != "" {
		sb.WriteString(f.Class)
		sb.WriteString("::")
	}
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.T.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// SigKey builds an overload key.
func SigKey(name string, params []types.Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func paramTypes(ps []Param) []types.Type {
	out := make([]types.Type, len(ps))
	for i, p := range ps {
		out[i] = p.T
	}
	return out
}

// FieldInit is a constant initializer for an instance slot.
type FieldInit struct {
	Slot  int
	Value *Literal
}

// Class is a user-declared class.
type Class struct {
	Name    string
	Decl    *types.Class
	Methods []*Func
	Inits   []FieldInit
}

// Method finds a method by key declared directly on c.
func (c *Class) Method(key string) *Func {
	for _, m := range c.Methods {
		if m.Key() == key {
			return m
		}
	}
	return nil
}

// Unit is one compiled script.
type Unit struct {
	File    *source.File
	Nodes   []Node
	Funcs   []*Func
	Classes []*Class
	Types   *types.Table
	Exports []string
	Natives []string
}

// Add assigns the next NodeID to n and records it.
func (u *Unit) Add(n Node) {
	u.Nodes = append(u.Nodes, n)
	n.setID(NodeID(len(u.Nodes)))
}

// Node returns the node with id, or nil.
func (u *Unit) Node(id NodeID) Node {
	if id == 0 || int(id) > len(u.Nodes) {
		return nil
	}
	return u.Nodes[id-1]
}

// Class returns the user class named name, or nil.
func (u *Unit) Class(name string) *Class {
	for _, c := range u.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Dispatch finds the implementation of method key for an instance of
// class, walking the parent chain.
func (u *Unit) Dispatch(class *types.Class, key string) *Func {
	for k := class; k != nil; k = k.Parent {
		if c := u.Class(k.Name); c != nil {
			if m := c.Method(key); m != nil {
				return m
			}
		}
	}
	return nil
}

// Func finds a top-level function by name; with several overloads the
// first declared wins.
func (u *Unit) Func(name string) *Func {
	for _, f := range u.Funcs {
		if f.Name == name && f.Class == "" {
			return f
		}
	}
	return nil
}

// IsExported reports whether name is an entry point.
func (u *Unit) IsExported(name string) bool {
	for _, e := range u.Exports {
		if e == name {
			return true
		}
	}
	return false
}
