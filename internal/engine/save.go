package engine

import (
	"errors"
	"fmt"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/persist"
	"cbot/internal/source"
)

// Save writes the execution tree depth-first. Only a running engine can
// be saved.
func (e *Engine) Save(w *persist.Writer) error {
	if !e.running {
		return ErrNotRunning
	}
	e.saveFrame(w, e.root)
	return w.Err()
}

func (e *Engine) saveFrame(w *persist.Writer, h Handle) {
	w.Bool(h != 0)
	if h == 0 {
		return
	}
	f := e.frame(h)
	w.Uint32(uint32(f.Node))
	w.Int(int32(f.State))
	w.Bool(f.Stepped)
	w.Int(f.Index)
	w.Bool(f.Scope)
	w.Bool(f.Boundary)
	w.Int(f.Depth)
	w.Variable(f.Result)
	w.Variables(f.Temps)
	w.Variables(f.Locals)
	w.Variable(f.This)
	saveSignal(w, f.Pending)
	w.Bool(f.Native != nil)
	if f.Native != nil {
		w.String(f.Native.Name)
		w.Int(f.Native.State.Phase)
		w.Float(f.Native.State.Value)
	}
	e.saveFrame(w, f.Child)
	e.saveFrame(w, f.Child2)
}

func saveSignal(w *persist.Writer, s Signal) {
	w.Word(uint16(s.Kind))
	if s.Kind == SigNone {
		return
	}
	w.String(s.Label)
	w.Variable(s.Value)
	w.Word(uint16(s.Code))
	w.Uint32(s.Span.Start)
	w.Uint32(s.Span.End)
}

// Restore replaces the execution tree with the one in r, started from
// entry. On failure the engine is left stopped with an empty tree.
func (e *Engine) Restore(r *persist.Reader, entry string) error {
	e.Stop()
	e.resetArena()
	e.err, e.result = nil, nil
	fn := e.unit.Func(entry)
	if fn == nil || !e.unit.IsExported(entry) {
		return fmt.Errorf("%w: %w: %s", ErrBadRestore, ErrNoEntry, entry)
	}
	root := e.loadFrame(r, 0)
	if err := r.Err(); err != nil {
		e.resetArena()
		return fmt.Errorf("%w: %w", ErrBadRestore, err)
	}
	if root == 0 || e.frame(root).Node != fn.ID() {
		e.resetArena()
		return fmt.Errorf("%w: root frame is not %s", ErrBadRestore, entry)
	}
	e.root, e.entry, e.running = root, entry, true
	e.sig = Signal{}
	return nil
}

func (e *Engine) loadFrame(r *persist.Reader, parent Handle) Handle {
	if !r.Bool() || r.Err() != nil {
		return 0
	}
	id := ir.NodeID(r.Uint32())
	node := e.unit.Node(id)
	if node == nil {
		r.Fail(fmt.Errorf("%w: unknown node #%d", persist.ErrCorrupt, id))
		return 0
	}
	h := e.alloc(parent, node)
	if h == 0 {
		r.Fail(errors.New(diag.RunStackOverflow.Title()))
		return 0
	}
	f := e.frame(h)
	f.State = Resume(r.Int())
	f.Stepped = r.Bool()
	f.Index = r.Int()
	f.Scope = r.Bool()
	f.Boundary = r.Bool()
	f.Depth = r.Int()
	f.Result = r.Variable()
	f.Temps = r.Variables()
	f.Locals = r.Variables()
	f.This = r.Variable()
	f.Pending = e.loadSignal(r)
	if r.Bool() {
		name := r.String()
		st := e.ctx.Registry.Func(name)
		phase, val := r.Int(), r.Float()
		if st == nil && r.Err() == nil {
			r.Fail(fmt.Errorf("%s: %q", diag.RunUndefCall.Title(), name))
			return h
		}
		if st != nil {
			f.Native = &Native{Entry: st.ID, Name: name}
			f.Native.State.Phase, f.Native.State.Value = phase, val
		}
	}
	f.Child = e.loadFrame(r, h)
	f.Child2 = e.loadFrame(r, h)
	return h
}

func (e *Engine) loadSignal(r *persist.Reader) Signal {
	kind := SignalKind(r.Word())
	if kind == SigNone {
		return Signal{}
	}
	if kind > SigError {
		r.Fail(fmt.Errorf("%w: bad signal %d", persist.ErrCorrupt, kind))
		return Signal{}
	}
	s := Signal{Kind: kind, Label: r.String(), Value: r.Variable(), Code: diag.Code(r.Word())}
	s.Span = source.Span{File: e.unit.File.ID, Start: r.Uint32(), End: r.Uint32()}
	return s
}
