package reader

import (
	"errors"
	"math"
	"strconv"

	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/value"
)

// Maximum decimal digits of the magnitude per integer width.
const (
	digits8  = 3
	digits16 = 5
	digits32 = 10
	digits63 = 19
	digits64 = 20
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// magnitude reads at most maxDigits decimal digits. A digit following the
// maximum digit count is reported as NumberOverflow; a leading zero followed
// by a digit as MalformedNumber.
func (c *Cursor) magnitude(maxDigits int) (uint64, error) {
	data := c.Data
	pos := c.Pos
	if pos >= len(data) {
		return 0, c.EndOfInput()
	}
	if !isDigit(data[pos]) {
		return 0, jsonerr.New(jsonerr.MalformedNumber, pos, "expected digit, found '%c'", data[pos])
	}
	var v uint64
	if data[pos] == '0' {
		pos++
		if pos < len(data) && isDigit(data[pos]) {
			return 0, jsonerr.New(jsonerr.MalformedNumber, pos-1, "leading zero")
		}
	} else {
		n := 0
		for pos < len(data) && n < maxDigits {
			b := data[pos]
			if !isDigit(b) {
				break
			}
			d := uint64(b - '0')
			if n == digits64-1 && v > (math.MaxUint64-d)/10 {
				return 0, jsonerr.New(jsonerr.NumberOverflow, c.Pos, "number overflows 64 bits")
			}
			v = v*10 + d
			n++
			pos++
		}
	}
	if pos < len(data) {
		b := data[pos]
		switch {
		case isDigit(b):
			return 0, jsonerr.New(jsonerr.NumberOverflow, c.Pos, "too many digits")
		case b == '.' || b == 'e' || b == 'E':
			return 0, jsonerr.New(jsonerr.MalformedNumber, pos, "expected integer")
		case !isDelimiter(b):
			return 0, jsonerr.New(jsonerr.MalformedNumber, pos, "unexpected '%c' after number", b)
		}
	}
	c.Pos = pos
	return v, nil
}

func (c *Cursor) unsigned(maxDigits int, limit uint64) (uint64, error) {
	c.SkipWS()
	if c.Pos < len(c.Data) && c.Data[c.Pos] == '-' {
		return 0, jsonerr.New(jsonerr.MalformedNumber, c.Pos, "unexpected sign for unsigned value")
	}
	start := c.Pos
	v, err := c.magnitude(maxDigits)
	if err != nil {
		return 0, err
	}
	if v > limit {
		c.Pos = start
		return 0, jsonerr.New(jsonerr.NumberOverflow, start, "value exceeds %d", limit)
	}
	return v, nil
}

func (c *Cursor) signed(maxDigits int, limit int64) (int64, error) {
	c.SkipWS()
	start := c.Pos
	neg := false
	if c.Pos < len(c.Data) && c.Data[c.Pos] == '-' {
		neg = true
		c.Pos++
	}
	mag, err := c.magnitude(maxDigits)
	if err != nil {
		c.Pos = start
		return 0, err
	}
	if neg {
		if mag > uint64(limit)+1 {
			c.Pos = start
			return 0, jsonerr.New(jsonerr.NumberOverflow, start, "value below %d", -limit-1)
		}
		return int64(^mag + 1), nil
	}
	if mag > uint64(limit) {
		c.Pos = start
		return 0, jsonerr.New(jsonerr.NumberOverflow, start, "value exceeds %d", limit)
	}
	return int64(mag), nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	v, err := c.unsigned(digits8, math.MaxUint8)
	return uint8(v), err
}

func (c *Cursor) ReadUint16() (uint16, error) {
	v, err := c.unsigned(digits16, math.MaxUint16)
	return uint16(v), err
}

func (c *Cursor) ReadUint32() (uint32, error) {
	v, err := c.unsigned(digits32, math.MaxUint32)
	return uint32(v), err
}

func (c *Cursor) ReadUint64() (uint64, error) {
	return c.unsigned(digits64, math.MaxUint64)
}

// ReadUint reads a platform sized unsigned integer.
func (c *Cursor) ReadUint() (uint, error) {
	if strconv.IntSize == 32 {
		v, err := c.ReadUint32()
		return uint(v), err
	}
	v, err := c.ReadUint64()
	return uint(v), err
}

func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.signed(digits8, math.MaxInt8)
	return int8(v), err
}

func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.signed(digits16, math.MaxInt16)
	return int16(v), err
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.signed(digits32, math.MaxInt32)
	return int32(v), err
}

func (c *Cursor) ReadInt64() (int64, error) {
	return c.signed(digits63, math.MaxInt64)
}

// ReadInt reads a platform sized signed integer.
func (c *Cursor) ReadInt() (int, error) {
	if strconv.IntSize == 32 {
		v, err := c.ReadInt32()
		return int(v), err
	}
	v, err := c.ReadInt64()
	return int(v), err
}

// ScanNumber validates one JSON number and returns its bytes.
func (c *Cursor) ScanNumber() ([]byte, error) {
	c.SkipWS()
	data := c.Data
	start := c.Pos
	pos := start
	if pos >= len(data) {
		return nil, c.EndOfInput()
	}
	if data[pos] == '-' {
		pos++
	}
	if pos >= len(data) {
		c.Pos = pos
		return nil, c.EndOfInput()
	}
	switch {
	case data[pos] == '0':
		pos++
		if pos < len(data) && isDigit(data[pos]) {
			return nil, jsonerr.New(jsonerr.MalformedNumber, pos-1, "leading zero")
		}
	case isDigit(data[pos]):
		for pos < len(data) && isDigit(data[pos]) {
			pos++
		}
	default:
		return nil, jsonerr.New(jsonerr.MalformedNumber, pos, "expected digit, found '%c'", data[pos])
	}
	if pos < len(data) && data[pos] == '.' {
		pos++
		digits := pos
		for pos < len(data) && isDigit(data[pos]) {
			pos++
		}
		if pos == digits {
			if pos >= len(data) {
				c.Pos = pos
				return nil, c.EndOfInput()
			}
			return nil, jsonerr.New(jsonerr.MalformedNumber, pos, "expected digit after decimal point")
		}
	}
	if pos < len(data) && (data[pos] == 'e' || data[pos] == 'E') {
		pos++
		if pos < len(data) && (data[pos] == '+' || data[pos] == '-') {
			pos++
		}
		digits := pos
		for pos < len(data) && isDigit(data[pos]) {
			pos++
		}
		if pos == digits {
			if pos >= len(data) {
				c.Pos = pos
				return nil, c.EndOfInput()
			}
			return nil, jsonerr.New(jsonerr.MalformedNumber, pos, "expected exponent digit")
		}
	}
	if pos < len(data) && !isDelimiter(data[pos]) {
		if data[pos] == '.' {
			return nil, jsonerr.New(jsonerr.MalformedNumber, pos, "second decimal point")
		}
		return nil, jsonerr.New(jsonerr.MalformedNumber, pos, "unexpected '%c' in number", data[pos])
	}
	c.Pos = pos
	return data[start:pos], nil
}

func (c *Cursor) readFloat(bitSize int) (float64, error) {
	start := c.Pos
	raw, err := c.ScanNumber()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(bytesToStringNoCopy(raw), bitSize)
	if err != nil {
		c.Pos = start
		if errors.Is(err, strconv.ErrRange) {
			return 0, jsonerr.New(jsonerr.NumberOverflow, start, "value out of float%d range", bitSize)
		}
		return 0, jsonerr.New(jsonerr.MalformedNumber, start, "%v", err)
	}
	return f, nil
}

func (c *Cursor) ReadFloat32() (float32, error) {
	f, err := c.readFloat(32)
	return float32(f), err
}

func (c *Cursor) ReadFloat64() (float64, error) {
	return c.readFloat(64)
}

// ReadDecimal reads a number into a 96-bit decimal.
func (c *Cursor) ReadDecimal() (value.Decimal, error) {
	start := c.Pos
	raw, err := c.ScanNumber()
	if err != nil {
		return value.Decimal{}, err
	}
	d, err := value.ParseDecimal(raw)
	if err != nil {
		c.Pos = start
		if errors.Is(err, value.ErrDecimalOverflow) {
			return d, jsonerr.New(jsonerr.NumberOverflow, start, "value out of decimal range")
		}
		return d, jsonerr.New(jsonerr.MalformedNumber, start, "%v", err)
	}
	return d, nil
}

// ReadBool reads true or false.
func (c *Cursor) ReadBool() (bool, error) {
	c.SkipWS()
	if c.Pos >= len(c.Data) {
		return false, c.EndOfInput()
	}
	switch c.Data[c.Pos] {
	case 't':
		return true, c.Literal("true")
	case 'f':
		return false, c.Literal("false")
	}
	return false, jsonerr.New(jsonerr.ExpectedToken, c.Pos, "expected true or false")
}
