package trace

import "context"

type (
	tracerKey    struct{}
	heartbeatKey struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// HeartbeatFromContext returns the watchdog attached to ctx or nil.
func HeartbeatFromContext(ctx context.Context) *Heartbeat {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(heartbeatKey{}).(*Heartbeat)
	return h
}

func WithHeartbeat(ctx context.Context, h *Heartbeat) context.Context {
	return context.WithValue(ctx, heartbeatKey{}, h)
}
