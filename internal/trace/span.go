package trace

import (
	"sync/atomic"
	"time"
)

var seq, spans atomic.Uint64

// Span is an open begin event; End closes it.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

// off is returned for filtered spans so callers never check for nil.
var off = &Span{}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !Enabled(t) || !t.Level().Allows(scope) {
		return off
	}
	s := &Span{t: t, id: spans.Add(1), parent: parent, scope: scope, name: name, started: time.Now()}
	t.Emit(&Event{At: s.started, Kind: KindBegin, Scope: scope, Span: s.id, Parent: parent, Name: name})
	return s
}

// Attr sets a key reported with the end event.
func (s *Span) Attr(key, value string) *Span {
	if s.t == nil {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s.t == nil {
		return 0
	}
	now := time.Now()
	s.t.Emit(&Event{
		At: now, Kind: KindEnd, Scope: s.scope, Span: s.id, Parent: s.parent,
		Name: s.name, Detail: detail, Attrs: s.attrs,
	})
	return now.Sub(s.started)
}

// ID is 0 for spans that were filtered out.
func (s *Span) ID() uint64 { return s.id }

// Point emits a single instant event.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !Enabled(t) || !t.Level().Allows(scope) {
		return
	}
	t.Emit(&Event{At: time.Now(), Kind: KindPoint, Scope: scope, Parent: parent, Name: name, Detail: detail})
}
