package persist

import (
	"errors"
	"fmt"
)

// Magic opens every saved state.
const Magic = "CBOT"

// Format is bumped whenever the frame layout changes.
const Format uint16 = 2

var (
	ErrBadMagic    = errors.New("persist: not a CBot state")
	ErrFormat      = errors.New("persist: unsupported format version")
	ErrFingerprint = errors.New("persist: program changed since the state was saved")
)

// Header precedes the frame tree.
type Header struct {
	Fingerprint string
	Entry       string
	Owner       string
}

func (w *Writer) Header(h Header) {
	w.String(Magic)
	w.Word(Format)
	w.String(h.Fingerprint)
	w.String(h.Entry)
	w.String(h.Owner)
}

// Header reads and validates the header against the expected fingerprint.
// An empty want skips the fingerprint check.
func (r *Reader) Header(want string) (Header, error) {
	if m := r.String(); r.err == nil && m != Magic {
		r.Fail(ErrBadMagic)
	}
	if v := r.Word(); r.err == nil && v != Format {
		r.Fail(fmt.Errorf("%w: %d (want %d)", ErrFormat, v, Format))
	}
	h := Header{Fingerprint: r.String(), Entry: r.String(), Owner: r.String()}
	if r.err == nil && want != "" && h.Fingerprint != want {
		r.Fail(ErrFingerprint)
	}
	return h, r.err
}
