package engine

import (
	"cbot/internal/natives"
	"cbot/internal/trace"
	"cbot/internal/value"
)

// Limits bound the execution tree of one program.
type Limits struct {
	MaxFrames int // live frames
	MaxDepth  int // nested function calls
}

// DefaultLimits are used for zero fields of Context.Limits.
var DefaultLimits = Limits{MaxFrames: 1 << 16, MaxDepth: 256}

// Context is the state shared by every program of one host: the native
// registry, the identity generator and the tracer.
type Context struct {
	Registry *natives.Registry
	IDs      *value.IDGen
	Limits   Limits
	Tracer   trace.Tracer
}

// NewContext creates a context around reg with default limits.
func NewContext(reg *natives.Registry) *Context {
	if reg == nil {
		reg = natives.NewRegistry()
	}
	return &Context{Registry: reg, IDs: &value.IDGen{}, Limits: DefaultLimits, Tracer: trace.Nop}
}

func (c *Context) limits() Limits {
	l := c.Limits
	if l.MaxFrames <= 0 {
		l.MaxFrames = DefaultLimits.MaxFrames
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultLimits.MaxDepth
	}
	return l
}

func (c *Context) tracer() trace.Tracer {
	if c.Tracer == nil {
		return trace.Nop
	}
	return c.Tracer
}
