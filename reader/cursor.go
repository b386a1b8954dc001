// Package reader implements the primitive JSON readers. Each reader consumes
// exactly one JSON primitive from a Cursor and leaves Pos at the first
// unconsumed byte.
package reader

import (
	"unsafe"

	"github.com/viant/typedjson/jsonerr"
)

// MinScratch is the initial scratch accumulator size.
const MinScratch = 128

// Cursor is the per-call parse context: the input window, the read position
// and a scratch accumulator that grows by doubling. A Cursor must not be
// shared by concurrent parses.
type Cursor struct {
	Data    []byte
	Pos     int
	scratch []byte
}

// New returns a cursor over data.
func New(data []byte) *Cursor {
	return &Cursor{Data: data, scratch: make([]byte, 0, MinScratch)}
}

// Reset repositions the cursor over data and clears the scratch accumulator,
// keeping its capacity.
func (c *Cursor) Reset(data []byte) {
	c.Data = data
	c.Pos = 0
	if cap(c.scratch) < MinScratch {
		c.scratch = make([]byte, 0, MinScratch)
	}
	c.scratch = c.scratch[:0]
}

// Release drops the input reference.
func (c *Cursor) Release() {
	c.Data = nil
	c.Pos = 0
	c.scratch = c.scratch[:0]
}

// Scratch returns the scratch accumulator emptied.
func (c *Cursor) Scratch() []byte {
	return c.scratch[:0]
}

// Keep stores buf as the scratch accumulator so its capacity is reused.
func (c *Cursor) Keep(buf []byte) {
	c.scratch = buf[:0]
}

// appendScratch appends b, doubling capacity when exhausted.
func appendScratch(buf []byte, b ...byte) []byte {
	if len(buf)+len(b) > cap(buf) {
		size := cap(buf) * 2
		if size < MinScratch {
			size = MinScratch
		}
		for size < len(buf)+len(b) {
			size *= 2
		}
		grown := make([]byte, len(buf), size)
		copy(grown, buf)
		buf = grown
	}
	return append(buf, b...)
}

// EOF returns true when all input was consumed.
func (c *Cursor) EOF() bool { return c.Pos >= len(c.Data) }

// SkipWS skips JSON whitespace.
func (c *Cursor) SkipWS() {
	for c.Pos < len(c.Data) {
		switch c.Data[c.Pos] {
		case ' ', '\n', '\r', '\t':
			c.Pos++
		default:
			return
		}
	}
}

// Peek skips whitespace and returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, error) {
	c.SkipWS()
	if c.Pos >= len(c.Data) {
		return 0, c.EndOfInput()
	}
	return c.Data[c.Pos], nil
}

// Expect skips whitespace and consumes ch.
func (c *Cursor) Expect(ch byte) error {
	c.SkipWS()
	if c.Pos >= len(c.Data) {
		return c.EndOfInput()
	}
	if c.Data[c.Pos] != ch {
		return jsonerr.New(jsonerr.ExpectedCharacter, c.Pos, "expected '%c', found '%c'", ch, c.Data[c.Pos])
	}
	c.Pos++
	return nil
}

// Literal consumes token (true, false or null) at the current position.
func (c *Cursor) Literal(token string) error {
	end := c.Pos + len(token)
	if end > len(c.Data) {
		if string(c.Data[c.Pos:]) == token[:len(c.Data)-c.Pos] {
			return c.EndOfInput()
		}
		return jsonerr.New(jsonerr.ExpectedToken, c.Pos, "expected %s", token)
	}
	if string(c.Data[c.Pos:end]) != token {
		return jsonerr.New(jsonerr.ExpectedToken, c.Pos, "expected %s", token)
	}
	if end < len(c.Data) && isIdentByte(c.Data[end]) {
		return jsonerr.New(jsonerr.ExpectedToken, c.Pos, "expected %s", token)
	}
	c.Pos = end
	return nil
}

// Null skips whitespace and consumes null if present. It returns false,
// without consuming anything, when the next value does not start with 'n'.
func (c *Cursor) Null() (bool, error) {
	c.SkipWS()
	if c.Pos >= len(c.Data) {
		return false, c.EndOfInput()
	}
	if c.Data[c.Pos] != 'n' {
		return false, nil
	}
	if err := c.Literal("null"); err != nil {
		return false, err
	}
	return true, nil
}

// EndOfInput returns an UnexpectedEndOfInput error at the current position.
func (c *Cursor) EndOfInput() error {
	return jsonerr.New(jsonerr.UnexpectedEndOfInput, c.Pos, "unexpected end of input")
}

// Unexpected returns an ExpectedCharacter error describing the byte at Pos.
func (c *Cursor) Unexpected(what string) error {
	if c.Pos >= len(c.Data) {
		return c.EndOfInput()
	}
	return jsonerr.New(jsonerr.ExpectedCharacter, c.Pos, "expected %s, found '%c'", what, c.Data[c.Pos])
}

// isDelimiter returns true for bytes that may follow a primitive literal.
func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\n', '\r', '\t', ',', ']', '}', ':':
		return true
	}
	return false
}

func isIdentByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

func bytesToStringNoCopy(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
