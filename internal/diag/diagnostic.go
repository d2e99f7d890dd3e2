package diag

import (
	"fmt"

	"cbot/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New builds an error diagnostic with the code's title as default message.
func New(code Code, primary source.Span, msg string) *Diagnostic {
	if msg == "" {
		msg = code.Title()
	}
	return &Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  msg,
		Primary:  primary,
	}
}

// WithNote appends a note and returns the diagnostic.
func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s %s at %d..%d", d.Code.ID(), d.Message, d.Primary.Start, d.Primary.End)
}
