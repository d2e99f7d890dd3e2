package trace

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Heartbeat is a watchdog for the host loop. The loop reports progress
// with Observe; every interval a heartbeat event carries the last tick
// seen, and a "stalled" attribute counts beats without progress.
type Heartbeat struct {
	t        Tracer
	interval time.Duration

	tick    atomic.Uint64
	running atomic.Int64

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts the watchdog goroutine. It returns nil when t is
// disabled or interval is not positive; a nil Heartbeat ignores calls.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if !Enabled(t) || interval <= 0 {
		return nil
	}
	h := &Heartbeat{t: t, interval: interval, stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop()
	return h
}

// Observe records that the loop finished tick with running tasks left.
func (h *Heartbeat) Observe(tick uint64, running int) {
	if h == nil {
		return
	}
	h.tick.Store(tick)
	h.running.Store(int64(running))
}

func (h *Heartbeat) loop() {
	defer close(h.done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last uint64
	stalled := 0
	for {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			tick := h.tick.Load()
			if tick == last && tick != 0 {
				stalled++
			} else {
				stalled = 0
			}
			last = tick
			ev := &Event{
				At:     now,
				Kind:   KindHeartbeat,
				Scope:  ScopeHost,
				Tick:   tick,
				Name:   "heartbeat",
				Detail: fmt.Sprintf("%d running", h.running.Load()),
			}
			if stalled > 0 {
				ev.Attrs = map[string]string{"stalled": strconv.Itoa(stalled)}
			}
			h.t.Emit(ev)
		}
	}
}

// Stop ends the watchdog and waits for its goroutine.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
