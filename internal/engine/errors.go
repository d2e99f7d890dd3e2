package engine

import (
	"errors"
	"fmt"
	"strings"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/source"
)

var (
	ErrNoEntry    = errors.New("no such exported function")
	ErrNotRunning = errors.New("program is not running")
	ErrBadRestore = errors.New("cannot restore execution state")
)

// BacktraceFrame is one function activation in a runtime error.
type BacktraceFrame struct {
	FuncName string
	Span     source.Span
}

// RuntimeError is an uncaught error that stopped a program.
type RuntimeError struct {
	Code      diag.Code
	Message   string
	Span      source.Span      // where the error was raised
	Backtrace []BacktraceFrame // innermost first
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Message)
}

// FormatWithFiles renders the error with file:line:col locations.
func (e *RuntimeError) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error %s: %s\n", e.Code.ID(), e.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(e.Span, files))
	sb.WriteString("\n")
	if len(e.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, fr := range e.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, fr.FuncName, formatSpan(fr.Span, files))
		}
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

func newRuntimeError(sig Signal) *RuntimeError {
	return &RuntimeError{Code: sig.Code, Message: sig.Code.Title(), Span: sig.Span, Backtrace: sig.Trace}
}

// backtrace lists the functions active at h, innermost first.
func (e *Engine) backtrace(h Handle, sp source.Span) []BacktraceFrame {
	var out []BacktraceFrame
	at := sp
	for k := h; k != 0; {
		f := e.frame(k)
		if fn, ok := e.unit.Node(f.Node).(*ir.Func); ok {
			out = append(out, BacktraceFrame{FuncName: funcName(fn), Span: at})
			if f.Parent != 0 {
				at = e.unit.Node(e.frame(f.Parent).Node).Span()
			}
		}
		k = f.Parent
	}
	return out
}

func funcName(fn *ir.Func) string {
	if fn.Class != "" {
		return fn.Class + "::" + fn.Name
	}
	return fn.Name
}
