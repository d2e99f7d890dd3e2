package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer formats and writes every admitted event immediately.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	buf    []byte
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !admits(t.level, ev) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = AppendEvent(t.buf[:0], ev, t.format)
	// ошибки записи трассы не останавливают программы
	_, _ = t.w.Write(t.buf)
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes files, never the standard streams.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }
