package reader

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/value"
)

// StringBytes reads a quoted string and returns its unescaped bytes. Strings
// without escapes alias the input; escaped ones are built in the scratch
// accumulator. The result is only valid until the next read.
func (c *Cursor) StringBytes() ([]byte, error) {
	c.SkipWS()
	data := c.Data
	pos := c.Pos
	if pos >= len(data) {
		return nil, c.EndOfInput()
	}
	if data[pos] != '"' {
		return nil, c.Unexpected("string")
	}
	pos++
	start := pos
	for pos < len(data) {
		b := data[pos]
		if b == '"' {
			c.Pos = pos + 1
			return data[start:pos], nil
		}
		if b == '\\' {
			break
		}
		if b < 0x20 {
			return nil, jsonerr.New(jsonerr.ExpectedCharacter, pos, "control character in string")
		}
		pos++
	}
	if pos >= len(data) {
		c.Pos = pos
		return nil, c.EndOfInput()
	}
	buf := appendScratch(c.Scratch(), data[start:pos]...)
	var encoded [utf8.UTFMax]byte
	for pos < len(data) {
		b := data[pos]
		switch {
		case b == '"':
			c.Pos = pos + 1
			c.Keep(buf)
			return buf, nil
		case b == '\\':
			r, width, err := c.DecodeEscape(pos)
			if err != nil {
				return nil, err
			}
			n := utf8.EncodeRune(encoded[:], r)
			buf = appendScratch(buf, encoded[:n]...)
			pos += width
		case b < 0x20:
			return nil, jsonerr.New(jsonerr.ExpectedCharacter, pos, "control character in string")
		default:
			buf = appendScratch(buf, b)
			pos++
		}
	}
	c.Keep(buf)
	c.Pos = pos
	return nil, c.EndOfInput()
}

// ReadString reads a quoted string into a new Go string.
func (c *Cursor) ReadString() (string, error) {
	b, err := c.StringBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadChar reads a string holding exactly one character.
func (c *Cursor) ReadChar() (value.Char, error) {
	start := c.Pos
	b, err := c.StringBytes()
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRune(b)
	if len(b) == 0 || size != len(b) || (r == utf8.RuneError && size == 1) {
		return 0, jsonerr.New(jsonerr.ExpectedToken, start, "expected single character string")
	}
	return value.Char(r), nil
}

// ReadGUID reads a 36 character canonical GUID string.
func (c *Cursor) ReadGUID() (value.GUID, error) {
	c.SkipWS()
	start := c.Pos
	b, err := c.StringBytes()
	if err != nil {
		return value.GUID{}, err
	}
	g, ok := value.DecodeGUID(b)
	if !ok {
		return g, jsonerr.New(jsonerr.ExpectedToken, start, "invalid GUID %q", b)
	}
	return g, nil
}

// DecodeEscape decodes the escape sequence starting with the backslash at pos.
// It returns the decoded rune and the number of input bytes consumed.
// A \uXXXX high surrogate followed by a low surrogate escape is combined;
// unpaired surrogates decode to utf8.RuneError.
func (c *Cursor) DecodeEscape(pos int) (rune, int, error) {
	data := c.Data
	if pos+1 >= len(data) {
		return 0, 0, jsonerr.New(jsonerr.UnexpectedEndOfInput, pos, "unterminated escape")
	}
	switch data[pos+1] {
	case '"':
		return '"', 2, nil
	case '\\':
		return '\\', 2, nil
	case '/':
		return '/', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 't':
		return '\t', 2, nil
	case 'u':
		r, err := c.hex4(pos + 2)
		if err != nil {
			return 0, 0, err
		}
		if !utf16.IsSurrogate(r) {
			return r, 6, nil
		}
		if pos+12 <= len(data) && data[pos+6] == '\\' && data[pos+7] == 'u' {
			if r2, err := c.hex4(pos + 8); err == nil {
				if decoded := utf16.DecodeRune(r, r2); decoded != utf8.RuneError {
					return decoded, 12, nil
				}
			}
		}
		return utf8.RuneError, 6, nil
	}
	return 0, 0, jsonerr.New(jsonerr.InvalidEscape, pos, "invalid escape character '%c'", data[pos+1])
}

func (c *Cursor) hex4(pos int) (rune, error) {
	if pos+4 > len(c.Data) {
		return 0, jsonerr.New(jsonerr.UnexpectedEndOfInput, pos, "unterminated unicode escape")
	}
	var v rune
	for i := pos; i < pos+4; i++ {
		b := c.Data[i]
		var d rune
		switch {
		case b >= '0' && b <= '9':
			d = rune(b - '0')
		case b >= 'a' && b <= 'f':
			d = rune(b-'a') + 10
		case b >= 'A' && b <= 'F':
			d = rune(b-'A') + 10
		default:
			return 0, jsonerr.New(jsonerr.InvalidEscape, pos-2, "invalid unicode escape")
		}
		v = v<<4 | d
	}
	return v, nil
}

// SkipString consumes a quoted string validating escapes without decoding it.
func (c *Cursor) SkipString() error {
	c.SkipWS()
	data := c.Data
	pos := c.Pos
	if pos >= len(data) {
		return c.EndOfInput()
	}
	if data[pos] != '"' {
		return c.Unexpected("string")
	}
	pos++
	for pos < len(data) {
		b := data[pos]
		switch {
		case b == '"':
			c.Pos = pos + 1
			return nil
		case b == '\\':
			_, width, err := c.DecodeEscape(pos)
			if err != nil {
				return err
			}
			pos += width
		case b < 0x20:
			return jsonerr.New(jsonerr.ExpectedCharacter, pos, "control character in string")
		default:
			pos++
		}
	}
	c.Pos = pos
	return c.EndOfInput()
}
