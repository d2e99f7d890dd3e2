package engine

import (
	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/natives"
	"cbot/internal/value"
)

// Handle addresses a frame in the arena. 0 is "no frame".
type Handle uint32

// Resume is a node-specific resume point stored in Frame.State.
type Resume int32

// Frame is the execution state of one node.
type Frame struct {
	Parent Handle
	Child  Handle
	Child2 Handle // pending native call marker

	Node    ir.NodeID
	State   Resume
	Stepped bool
	Index   int32

	Result *value.Variable
	Temps  []*value.Variable
	Locals []*value.Variable

	Scope    bool // declarations below land in Locals
	Boundary bool // function frame: lookup stops here
	This     *value.Variable
	Depth    int32

	Pending Signal // try: signal held while finally runs
	Native  *Native
}

// Native marks a pending native call.
type Native struct {
	Entry uint32
	Name  string
	State natives.NativeState
}

func (e *Engine) frame(h Handle) *Frame {
	return e.frames[h-1]
}

// alloc takes a frame from the free list or grows the arena. It returns
// 0 when the live-frame limit is reached.
func (e *Engine) alloc(parent Handle, node ir.Node) Handle {
	if e.live >= e.limits.MaxFrames {
		return 0
	}
	var h Handle
	if n := len(e.free); n > 0 {
		h = e.free[n-1]
		e.free = e.free[:n-1]
	} else {
		e.frames = append(e.frames, &Frame{})
		h = Handle(len(e.frames))
	}
	f := e.frames[h-1]
	*f = Frame{Parent: parent, Node: node.ID()}
	switch node.(type) {
	case *ir.Block, *ir.For, *ir.Switch, *ir.Func:
		f.Scope = true
	}
	if parent != 0 {
		f.Depth = e.frame(parent).Depth
	}
	e.live++
	return h
}

// addFrame returns the child of parent running n: the existing one when
// resuming, a fresh one otherwise. On overflow it raises and returns 0.
func (e *Engine) addFrame(parent Handle, n ir.Node) Handle {
	p := e.frame(parent)
	if p.Child != 0 {
		if e.frame(p.Child).Node == n.ID() {
			return p.Child
		}
		e.freeTree(p.Child)
		p.Child = 0
	}
	h := e.alloc(parent, n)
	if h == 0 {
		e.raise(parent, diag.RunStackOverflow, n.Span())
		return 0
	}
	p.Child = h
	return h
}

// ret hands the child's result to its parent and frees the child subtree.
func (e *Engine) ret(child Handle) {
	c := e.frame(child)
	p := e.frame(c.Parent)
	if c.Result != nil {
		p.Temps = append(p.Temps, c.Result)
	}
	p.Child = 0
	e.freeTree(child)
}

// retKeep is ret for frames revisited by their parent (loop bodies): the
// child is reset in place instead of being freed.
func (e *Engine) retKeep(child Handle) {
	c := e.frame(child)
	p := e.frame(c.Parent)
	if c.Result != nil {
		p.Temps = append(p.Temps, c.Result)
	}
	if c.Child != 0 {
		e.freeTree(c.Child)
	}
	if c.Child2 != 0 {
		e.freeTree(c.Child2)
	}
	*c = Frame{Parent: c.Parent, Node: c.Node, Scope: c.Scope, Depth: c.Depth}
}

// pushNativeMarker attaches the pending-call marker for entry to parent,
// or returns the one already there.
func (e *Engine) pushNativeMarker(parent Handle, n ir.Node, entry uint32, name string) Handle {
	p := e.frame(parent)
	if p.Child2 != 0 {
		return p.Child2
	}
	h := e.alloc(parent, n)
	if h == 0 {
		e.raise(parent, diag.RunStackOverflow, n.Span())
		return 0
	}
	e.frame(h).Native = &Native{Entry: entry, Name: name}
	p.Child2 = h
	return h
}

func (e *Engine) freeTree(h Handle) {
	f := e.frame(h)
	if f.Child != 0 {
		e.freeTree(f.Child)
	}
	if f.Child2 != 0 {
		e.freeTree(f.Child2)
	}
	*f = Frame{}
	e.free = append(e.free, h)
	e.live--
}

// resetArena drops every frame at once.
func (e *Engine) resetArena() {
	e.frames = e.frames[:0]
	e.free = e.free[:0]
	e.live = 0
	e.root = 0
}
