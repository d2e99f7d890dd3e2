package program

import (
	"fmt"
	"io"

	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/persist"
	"cbot/internal/source"
	"cbot/internal/trace"
)

// Save writes the header and the paused execution tree to w.
func (p *Program) Save(w io.Writer) error {
	if p.eng == nil {
		return ErrNotCompiled
	}
	if !p.eng.Running() {
		return engine.ErrNotRunning
	}
	span := trace.Begin(p.tracer(), trace.ScopeProgram, "save", 0)
	pw := persist.NewWriter(w)
	pw.Header(persist.Header{Fingerprint: p.fingerprint, Entry: p.eng.Entry(), Owner: p.owner})
	if err := pw.Err(); err != nil {
		span.End("error")
		return fmt.Errorf("save %s: %w", p.owner, err)
	}
	if err := p.eng.Save(pw); err != nil {
		span.End("error")
		return fmt.Errorf("save %s: %w", p.owner, err)
	}
	span.End("")
	return nil
}

// Restore replaces the execution tree with the one saved in r. A state
// saved from a different unit is rejected. On any failure the program is
// left stopped with RunBadRestore as its error.
func (p *Program) Restore(r io.Reader) error {
	if p.eng == nil {
		return ErrNotCompiled
	}
	p.Stop()
	span := trace.Begin(p.tracer(), trace.ScopeProgram, "restore", 0)
	pr := persist.NewReader(r, p.unit.Types, p.ctx.IDs)
	h, err := pr.Header(p.fingerprint)
	if err == nil {
		err = p.eng.Restore(pr, h.Entry)
	}
	if err != nil {
		p.eng.Stop()
		p.code, p.span = diag.RunBadRestore, source.Span{}
		span.End("error")
		return fmt.Errorf("restore %s: %w", p.owner, err)
	}
	p.code, p.span = diag.OK, source.Span{}
	span.End(h.Entry)
	return nil
}
