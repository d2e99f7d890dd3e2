package program

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"

	"cbot/internal/compiler"
	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/ir"
	"cbot/internal/source"
	"cbot/internal/trace"
	"cbot/internal/value"
)

// ErrNotCompiled is returned by operations that need a unit.
var ErrNotCompiled = errors.New("program is not compiled")

// Program is one compiled unit plus its execution tree.
type Program struct {
	ctx   *engine.Context
	owner string
	host  any

	files       *source.FileSet
	unit        *ir.Unit
	eng         *engine.Engine
	fingerprint string

	compileErr *diag.Diagnostic
	code       diag.Code // last error that stopped the program
	span       source.Span
}

// New creates an empty program owned by owner.
func New(ctx *engine.Context, owner string) *Program {
	return &Program{ctx: ctx, owner: owner, files: source.NewFileSet()}
}

// SetHost attaches opaque host data passed to every native call.
func (p *Program) SetHost(host any) {
	p.host = host
	if p.eng != nil {
		p.eng.SetHost(p.owner, host)
	}
}

func (p *Program) Owner() string { return p.owner }

func (p *Program) tracer() trace.Tracer { return trace.ForOwner(p.ctx.Tracer, p.owner) }

// Files returns the file set holding compiled sources.
func (p *Program) Files() *source.FileSet { return p.files }

// Unit returns the compiled unit or nil.
func (p *Program) Unit() *ir.Unit { return p.unit }

// Compile replaces the program with src. A running program is stopped
// first. The returned error is a *diag.Diagnostic on compile failure.
func (p *Program) Compile(name string, src []byte) error {
	p.Stop()
	span := trace.Begin(p.tracer(), trace.ScopeProgram, "compile", 0).Attr("file", name)
	p.unit, p.eng, p.fingerprint = nil, nil, ""
	p.compileErr, p.code, p.span = nil, diag.OK, source.Span{}

	file := p.files.Get(p.files.AddVirtual(name, src))
	unit, d := compiler.Compile(file, compiler.Env{Registry: p.ctx.Registry})
	if d != nil {
		p.compileErr, p.code, p.span = d, d.Code, d.Primary
		span.End(d.Code.ID())
		return d
	}
	p.unit = unit
	p.fingerprint = Fingerprint(unit)
	p.eng = engine.New(p.ctx, unit)
	p.eng.SetHost(p.owner, p.host)
	span.End(fmt.Sprintf("%d exports", len(unit.Exports)))
	return nil
}

// Fingerprint identifies a compiled unit: units that dump identically
// share it.
func Fingerprint(u *ir.Unit) string {
	sum := sha256.Sum256([]byte(ir.Dump(u)))
	return hex.EncodeToString(sum[:])
}

// Fingerprint of the current unit, empty before a successful compile.
func (p *Program) Fingerprint() string { return p.fingerprint }

// Exports lists the functions Start accepts, in declaration order.
func (p *Program) Exports() []string {
	if p.unit == nil {
		return nil
	}
	return slices.Clone(p.unit.Exports)
}

// Start begins a run of entry. Any previous run is stopped.
func (p *Program) Start(entry string, args ...*value.Variable) error {
	if p.eng == nil {
		return ErrNotCompiled
	}
	p.code, p.span = diag.OK, source.Span{}
	if err := p.eng.Start(entry, args...); err != nil {
		p.code = diag.RunUndefFunc
		return err
	}
	trace.Point(p.tracer(), trace.ScopeProgram, "start", entry, 0)
	return nil
}

// Run advances the program by at most budget steps and reports whether
// it is still running. budget < 0 is unlimited.
func (p *Program) Run(budget int) bool {
	if p.eng == nil || !p.eng.Running() {
		return false
	}
	if p.eng.Run(budget) {
		return true
	}
	if err := p.eng.Err(); err != nil {
		p.code, p.span = err.Code, err.Span
		trace.Point(p.tracer(), trace.ScopeProgram, "error", err.Code.ID(), 0)
	} else {
		trace.Point(p.tracer(), trace.ScopeProgram, "finish", "", 0)
	}
	return false
}

// Stop unwinds the execution tree and releases pending natives.
func (p *Program) Stop() {
	if p.eng == nil || !p.eng.Running() {
		return
	}
	p.eng.Stop()
	trace.Point(p.tracer(), trace.ScopeProgram, "stop", "", 0)
}

// Abort stops the program and records code as the error that ended it,
// as when the owning object is destroyed mid-script.
func (p *Program) Abort(code diag.Code) {
	running := p.IsRunning()
	p.Stop()
	if running {
		p.code, p.span = code, source.Span{}
	}
}

// IsRunning reports whether a started program has not finished.
func (p *Program) IsRunning() bool {
	return p.eng != nil && p.eng.Running()
}

// Error returns the code and source range of the last compile or run
// error; code is diag.OK when there is none.
func (p *Program) Error() (code diag.Code, start, end uint32) {
	return p.code, p.span.Start, p.span.End
}

// CompileError returns the diagnostic of a failed Compile.
func (p *Program) CompileError() *diag.Diagnostic { return p.compileErr }

// RuntimeError returns the error that stopped the last run, if any.
func (p *Program) RuntimeError() *engine.RuntimeError {
	if p.eng == nil {
		return nil
	}
	return p.eng.Err()
}

// Result is the value returned by the finished entry function.
func (p *Program) Result() *value.Variable {
	if p.eng == nil {
		return nil
	}
	return p.eng.Result()
}

// RunPosition returns the executing function and statement range; fn is
// empty when the program is not running.
func (p *Program) RunPosition() (fn string, start, end uint32) {
	if !p.IsRunning() {
		return "", 0, 0
	}
	fn, sp, ok := p.eng.Position()
	if !ok {
		return fn, 0, 0
	}
	return fn, sp.Start, sp.End
}

// LiveVariables lists locals of the activation at level, 0 being the
// innermost call.
func (p *Program) LiveVariables(level int) []*value.Variable {
	if !p.IsRunning() {
		return nil
	}
	return p.eng.Variables(level)
}
