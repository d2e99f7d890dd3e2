package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"cbot/internal/source"
	"cbot/internal/token"
)

// TokenOutput is one token of `cbot tokenize --format json`.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Class   string      `json:"class"`
	Text    string      `json:"text,omitempty"`
	Line    uint32      `json:"line,omitempty"`
	Col     uint32      `json:"col,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// tokenRows converts tokens up to and including the first EOF.
func tokenRows(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	rows := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		row := TokenOutput{Kind: tok.Kind.String(), Class: tok.Class().String(), Text: tok.Text, Span: tok.Span}
		if fs != nil {
			pos, _ := fs.Resolve(tok.Span)
			row.Line, row.Col = pos.Line, pos.Col
		}
		for _, tr := range tok.Leading {
			row.Leading = append(row.Leading, tr.Kind.String())
		}
		rows = append(rows, row)
		if tok.Kind == token.EOF {
			break
		}
	}
	return rows
}

// текст токена в таблице обрезается до этой ширины
const maxTextWidth = 32

// FormatTokensPretty prints a table with columns aligned by display width.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	rows := tokenRows(tokens, fs)
	texts := make([]string, len(rows))
	kindW, textW := len("KIND"), len("TEXT")
	for i, r := range rows {
		if r.Text != "" {
			texts[i] = runewidth.Truncate(fmt.Sprintf("%q", r.Text), maxTextWidth, "...")
		}
		kindW = max(kindW, len(r.Kind))
		textW = max(textW, runewidth.StringWidth(texts[i]))
	}

	fmt.Fprintf(w, "%4s  %s  %s  %s\n", "#", runewidth.FillRight("KIND", kindW), runewidth.FillRight("TEXT", textW), "SPAN")
	for i, r := range rows {
		end, _ := fs.Resolve(source.Span{File: r.Span.File, Start: r.Span.End})
		line := fmt.Sprintf("%4d  %s  %s  %d:%d-%d:%d", i+1,
			runewidth.FillRight(r.Kind, kindW), runewidth.FillRight(texts[i], textW),
			r.Line, r.Col, end.Line, end.Col)
		if len(r.Leading) > 0 {
			line += " (leading: " + strings.Join(r.Leading, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array; fs may
// be nil, then line and column are left out.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenRows(tokens, fs))
}
