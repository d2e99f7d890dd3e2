package ir

import (
	"cbot/internal/source"
	"cbot/internal/token"
	"cbot/internal/types"
)

// NodeID identifies a node inside its Unit. 0 means no node.
type NodeID uint32

type Node interface {
	ID() NodeID
	Span() source.Span
	setID(NodeID)
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node with a static type.
type Expr interface {
	Node
	Type() types.Type
	expr()
}

type Base struct {
	NodeID NodeID
	Sp     source.Span
}

func (b *Base) ID() NodeID        { return b.NodeID }
func (b *Base) Span() source.Span { return b.Sp }
func (b *Base) setID(id NodeID)   { b.NodeID = id }

type stmtBase struct{ Base }

func (stmtBase) stmt() {}

type ExprBase struct {
	Base
	T types.Type
}

func (e *ExprBase) Type() types.Type { return e.T }

func (ExprBase) expr() {}

// ---- statements ----

type Block struct {
	stmtBase
	Stmts []Stmt
}

// VarDecl declares a local. Dims holds explicit sizes for array
// declarations such as int a[3][4].
type VarDecl struct {
	stmtBase
	Name string
	T    types.Type
	Init Expr
	Dims []Expr
}

type ExprStmt struct {
	stmtBase
	X Expr
}

type If struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

type While struct {
	stmtBase
	Label string
	Cond  Expr
	Body  Stmt
}

type DoWhile struct {
	stmtBase
	Label string
	Body  Stmt
	Cond  Expr
}

type For struct {
	stmtBase
	Label string
	Init  []Stmt
	Cond  Expr
	Post  []Expr
	Body  Stmt
}

type Repeat struct {
	stmtBase
	Label string
	Count Expr
	Body  Stmt
}

// CaseLabel maps a case value to the index of the first statement it runs.
type CaseLabel struct {
	Value int32
	At    int
}

type Switch struct {
	stmtBase
	Label   string
	Tag     Expr
	Cases   []CaseLabel
	Default int // -1 when absent
	Body    []Stmt
}

type Break struct {
	stmtBase
	Label string
}

type Continue struct {
	stmtBase
	Label string
}

type Return struct {
	stmtBase
	X Expr
}

type Catch struct {
	stmtBase
	Cond Expr
	Body *Block
}

type Try struct {
	stmtBase
	Body    *Block
	Catches []*Catch
	Finally *Block
}

type Throw struct {
	stmtBase
	X Expr
}

// ---- expressions ----

type Literal struct {
	ExprBase
	I int32
	F float32
	B bool
	S string
}

type Ident struct {
	ExprBase
	Name string
}

type This struct {
	ExprBase
}

type Field struct {
	ExprBase
	X    Expr
	Name string
	Slot int
}

type Index struct {
	ExprBase
	X Expr
	I Expr
}

// Call invokes a user function.
type Call struct {
	ExprBase
	Func *Func
	Args []Expr
}

// NativeCall invokes a registered native function.
type NativeCall struct {
	ExprBase
	Name  string
	Entry uint32
	Args  []Expr
}

// MethodCall invokes a method on Recv. User methods dispatch on the dynamic
// class by Key unless Super is set; native methods go through the registry.
type MethodCall struct {
	ExprBase
	Recv   Expr
	Name   string
	Key    string
	Method *Func
	Native bool
	Entry  uint32
	Super  bool
	Args   []Expr
}

// New allocates a class instance and runs its constructor when present.
type New struct {
	ExprBase
	Class  string
	Ctor   *Func
	Native bool
	Entry  uint32
	Args   []Expr
}

// Assign stores R into the location L. Op is token.Assign or a compound
// assignment operator.
type Assign struct {
	ExprBase
	Op token.Kind
	L  Expr
	R  Expr
}

type Binary struct {
	ExprBase
	Op token.Kind
	X  Expr
	Y  Expr
}

// Logical is a short-circuit && or ||.
type Logical struct {
	ExprBase
	Op token.Kind
	X  Expr
	Y  Expr
}

type Unary struct {
	ExprBase
	Op token.Kind
	X  Expr
}

type IncDec struct {
	ExprBase
	Op   token.Kind
	Post bool
	X    Expr
}

type Cond struct {
	ExprBase
	C Expr
	X Expr
	Y Expr
}

// Convert changes the static type of X (numeric conversions, null typing).
type Convert struct {
	ExprBase
	X Expr
}

type ArrayLit struct {
	ExprBase
	Elems []Expr
}

type Sizeof struct {
	ExprBase
	X Expr
}
