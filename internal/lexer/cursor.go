package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"cbot/internal/source"
)

// Cursor walks the bytes of one script.
type Cursor struct {
	src  []byte
	file source.FileID
	off  uint32
}

func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("script too large: %w", err))
	}
	return Cursor{src: f.Content, file: f.ID}
}

func (c *Cursor) EOF() bool { return int(c.off) >= len(c.src) }

// Pos is the byte offset of the next unread byte.
func (c *Cursor) Pos() uint32 { return c.off }

// Peek returns the next byte or 0 at the end.
func (c *Cursor) Peek() byte { return c.At(0) }

// At looks n bytes ahead; 0 past the end.
func (c *Cursor) At(n uint32) byte {
	if i := int(c.off) + int(n); i < len(c.src) {
		return c.src[i]
	}
	return 0
}

func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.off++
	}
	return b
}

// Match consumes seq when the input starts with it.
func (c *Cursor) Match(seq ...byte) bool {
	for i, b := range seq {
		if c.At(uint32(i)) != b { //nolint:gosec // operators are a few bytes
			return false
		}
	}
	c.off += uint32(len(seq)) //nolint:gosec
	return true
}

// Rune decodes the next rune; size is 0 at the end.
func (c *Cursor) Rune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.off:])
}

// BumpRune skips one rune, or one byte of invalid UTF-8.
func (c *Cursor) BumpRune() {
	_, n := c.Rune()
	c.off += uint32(n) //nolint:gosec // n <= utf8.UTFMax
}

// Mark remembers a start position.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.off) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}

// Text is the source read since m.
func (c *Cursor) Text(m Mark) string { return string(c.src[m:c.off]) }
