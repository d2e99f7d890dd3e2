package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase accumulates every occurrence of one named step: all ticks of a
// run share the "tick" phase.
type Phase struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration // slowest single occurrence
	Note  string        // last non-empty note

	started time.Time
}

// Timer measures the phases of one CLI invocation. Not safe for
// concurrent use; parallel check gives each file its own Timer.
type Timer struct {
	phases []*Phase
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

func (t *Timer) phase(name string) (int, *Phase) {
	for i, p := range t.phases {
		if p.Name == name {
			return i, p
		}
	}
	t.phases = append(t.phases, &Phase{Name: name})
	return len(t.phases) - 1, t.phases[len(t.phases)-1]
}

// Begin starts an occurrence of name; pass the index to End.
func (t *Timer) Begin(name string) int {
	i, p := t.phase(name)
	p.started = t.now()
	return i
}

func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := t.phases[idx]
	d := t.now().Sub(p.started)
	p.Count++
	p.Total += d
	p.Max = max(p.Max, d)
	if note != "" {
		p.Note = note
	}
}

// Measure runs fn as one occurrence of name; fn returns the note.
func (t *Timer) Measure(name string, fn func() string) {
	idx := t.Begin(name)
	t.End(idx, fn())
}

// PhaseReport is the serialisable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	DurationMS float64 `json:"duration_ms"`
	MaxMS      float64 `json:"max_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	for _, p := range t.phases {
		if p.Count == 0 {
			continue
		}
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.Name,
			Count:      p.Count,
			DurationMS: ms(p.Total),
			MaxMS:      ms(p.Max),
			Note:       p.Note,
		})
		r.TotalMS += ms(p.Total)
	}
	return r
}

// Summary renders the report as an aligned table for stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		name := p.Name
		if p.Count > 1 {
			name += fmt.Sprintf(" x%d", p.Count)
		}
		fmt.Fprintf(&b, "  %-20s %9.2f ms", name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&b, "  max %.2f ms", p.MaxMS)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
