package natives

import (
	"cbot/internal/diag"
	"cbot/internal/types"
	"cbot/internal/value"
)

// NativeState is the persisted progress of a pending native call.
type NativeState struct {
	Phase int32
	Value float32
}

// Call carries one native invocation.
type Call struct {
	Name    string
	Args    []*value.Variable
	Result  *value.Variable
	This    *value.Variable
	State   *NativeState
	Host    any
	Owner   string
	IDs     *value.IDGen
	Classes *types.Table
}

// Arg returns argument i or nil.
func (c *Call) Arg(i int) *value.Variable {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

// Return stores v into the result slot.
func (c *Call) Return(v *value.Variable) diag.Code {
	if c.Result == nil {
		return diag.OK
	}
	return value.Assign(c.IDs, c.Result, v)
}

type (
	// ExecFunc runs a native; done=false keeps the call pending.
	ExecFunc func(c *Call) (done bool, code diag.Code)
	// CheckFunc validates argument types at compile time and returns the result type.
	CheckFunc func(args []types.Type) (types.Type, diag.Code)
	// ReleaseFunc cleans up a pending call when its program stops.
	ReleaseFunc func(c *Call)
)

// Entry is one registered native function or method.
type Entry struct {
	ID      uint32
	Name    string // qualified: "strlen" or "object.destroy"
	Class   string
	Exec    ExecFunc
	Check   CheckFunc
	Release ReleaseFunc
}
