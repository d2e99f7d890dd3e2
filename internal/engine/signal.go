package engine

import (
	"cbot/internal/diag"
	"cbot/internal/source"
	"cbot/internal/value"
)

// SignalKind classifies the pending unwind.
type SignalKind uint8

const (
	SigNone SignalKind = iota
	SigBreak
	SigContinue
	SigReturn
	SigError
)

// Signal is the single unwind slot of an execution tree.
type Signal struct {
	Kind  SignalKind
	Label string
	Value *value.Variable
	Code  diag.Code
	Span  source.Span
	Trace []BacktraceFrame
}

func (e *Engine) raised() bool {
	return e.sig.Kind != SigNone
}

// raise sets an error signal. h is the frame where it happened.
func (e *Engine) raise(h Handle, code diag.Code, sp source.Span) {
	e.sig = Signal{Kind: SigError, Code: code, Span: sp, Trace: e.backtrace(h, sp)}
}

// loopCtl consumes a break or continue aimed at the loop labeled label
// and reports whether the loop must stop (break, or any other signal
// passing through).
func (e *Engine) loopCtl(label string) bool {
	switch e.sig.Kind {
	case SigNone:
		return false
	case SigBreak:
		if e.sig.Label == "" || e.sig.Label == label {
			e.sig = Signal{}
		}
		return true
	case SigContinue:
		if e.sig.Label == "" || e.sig.Label == label {
			e.sig = Signal{}
			return false
		}
	}
	return true
}
