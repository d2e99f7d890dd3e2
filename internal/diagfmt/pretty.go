package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cbot/internal/diag"
	"cbot/internal/source"
)

type palette struct {
	err, warn, info, note, path, caret, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		path:   color.New(color.Bold),
		caret:  color.New(color.FgRed),
		gutter: color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.caret, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeHeader(w, pal, fs, d, opts)
		writeSnippet(w, pal, fs, d.Primary, opts.Context)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			start, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				displayPath(fs.Get(n.Span.File), opts), start.Line, start.Col, n.Msg)
		}
	}
}

// Short печатает по одной строке на диагностику.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeHeader(w, pal, fs, d, opts)
	}
}

func writeHeader(w io.Writer, pal palette, fs *source.FileSet, d diag.Diagnostic, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	loc := displayPath(f, opts)
	if f != nil && d.Code != diag.IOLoadFileError {
		start, _ := fs.Resolve(d.Primary)
		loc = fmt.Sprintf("%s:%d:%d", loc, start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(loc),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message)
}

// writeSnippet печатает строку span с контекстом и подчёркиванием.
func writeSnippet(w io.Writer, pal palette, fs *source.FileSet, sp source.Span, context int8) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	first := start.Line
	if ctx := uint32(max(context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + uint32(max(context, 0))
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.Line(ln)
		if text == "" && ln != start.Line {
			continue
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), expandTabs(text))
		if ln != start.Line {
			continue
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), pal.caret.Sprint(underline(text, start, end)))
	}
}

// underline строит ^~~~ под span с учётом ширины символов.
func underline(line string, start, end source.LineCol) string {
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	stop := len(line)
	if end.Line == start.Line && int(end.Col)-1 <= len(line) {
		stop = int(end.Col) - 1
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := 1
	if stop > col {
		width = max(runewidth.StringWidth(line[col:stop]), 1)
	}
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
