package diagfmt

import (
	"fmt"
	"io"

	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/source"
)

// Runtime prints an uncaught runtime error with its source line and the
// backtrace, innermost call first.
func Runtime(w io.Writer, rt *engine.RuntimeError, fs *source.FileSet, opts PrettyOpts) {
	if rt == nil {
		return
	}
	pal := newPalette(opts.Color)
	writeHeader(w, pal, fs, diag.Diagnostic{
		Severity: diag.SevError,
		Code:     rt.Code,
		Message:  rt.Message,
		Primary:  rt.Span,
	}, opts)
	writeSnippet(w, pal, fs, rt.Span, opts.Context)
	if len(rt.Backtrace) == 0 {
		return
	}
	fmt.Fprintln(w, pal.note.Sprint("backtrace:"))
	for _, fr := range rt.Backtrace {
		start, _ := fs.Resolve(fr.Span)
		fmt.Fprintf(w, "  at %s (%s:%d:%d)\n", fr.FuncName,
			displayPath(fs.Get(fr.Span.File), opts), start.Line, start.Col)
	}
}
