package trace

// stamped fills Owner and Tick of events that do not carry them yet.
type stamped struct {
	Tracer
	owner string
	tick  func() uint64
}

// ForOwner tags every event emitted through the result with owner.
func ForOwner(t Tracer, owner string) Tracer {
	if !Enabled(t) {
		return Nop
	}
	if s, ok := t.(*stamped); ok {
		return &stamped{Tracer: s.Tracer, owner: owner, tick: s.tick}
	}
	return &stamped{Tracer: t, owner: owner}
}

// WithTicks tags events with the current executor tick.
func WithTicks(t Tracer, tick func() uint64) Tracer {
	if !Enabled(t) {
		return Nop
	}
	if s, ok := t.(*stamped); ok {
		return &stamped{Tracer: s.Tracer, owner: s.owner, tick: tick}
	}
	return &stamped{Tracer: t, tick: tick}
}

func (s *stamped) Emit(ev *Event) {
	if ev.Owner == "" {
		ev.Owner = s.owner
	}
	if ev.Tick == 0 && s.tick != nil {
		ev.Tick = s.tick()
	}
	s.Tracer.Emit(ev)
}

