package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events for a post-mortem dump.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	total uint64
	level Level
}

func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !admits(t.level, ev) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
	t.mu.Lock()
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
	t.total++
	t.mu.Unlock()
}

// Tail returns up to n most recent events, oldest first. n <= 0 returns
// everything held.
func (t *RingTracer) Tail(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	held := len(t.buf)
	if t.total < uint64(held) {
		held = int(t.total)
	}
	if n <= 0 || n > held {
		n = held
	}
	out := make([]Event, n)
	start := t.next - n
	if start < 0 {
		start += len(t.buf)
	}
	for i := range out {
		out[i] = t.buf[(start+i)%len(t.buf)]
	}
	return out
}

// Dropped counts events overwritten before a dump could see them.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total <= uint64(len(t.buf)) {
		return 0
	}
	return t.total - uint64(len(t.buf))
}

// Dump writes the held events in order.
func (t *RingTracer) Dump(w io.Writer, f Format) error {
	var line []byte
	for _, ev := range t.Tail(0) {
		line = AppendEvent(line[:0], &ev, f)
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
