package unmarshal

import (
	"bytes"
	"errors"
	"math"
	"time"
	"unsafe"

	"github.com/viant/typedjson/iso8601"
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
	"github.com/viant/xunsafe"
)

var (
	msDatePrefix = []byte("/Date(")
	msDateSuffix = []byte(")/")
)

// relocate shifts text relative error offsets to input offsets; base is the
// offset of the first byte after the opening quote.
func relocate(err error, base int) error {
	var e *jsonerr.Error
	if errors.As(err, &e) && e.Offset >= 0 {
		moved := *e
		moved.Offset += base
		return &moved
	}
	return err
}

// timeText reads a quoted time value and returns it with its content offset.
func timeText(cur *reader.Cursor) ([]byte, int, error) {
	cur.SkipWS()
	base := cur.Pos + 1
	text, err := cur.StringBytes()
	return text, base, err
}

func (c *compiler) timeRoutine(layout string) Func {
	var parse func(cur *reader.Cursor) (time.Time, error)
	switch {
	case layout != "":
		parse = func(cur *reader.Cursor) (time.Time, error) {
			text, base, err := timeText(cur)
			if err != nil {
				return time.Time{}, err
			}
			ts, err := time.Parse(layout, string(text))
			if err != nil {
				return ts, jsonerr.New(jsonerr.InvalidCalendarValue, base, "%v", err)
			}
			return ts, nil
		}
	case c.cfg.DateFormat == RFC1123:
		parse = func(cur *reader.Cursor) (time.Time, error) {
			text, base, err := timeText(cur)
			if err != nil {
				return time.Time{}, err
			}
			ts, err := time.Parse(time.RFC1123, string(text))
			if err != nil {
				if alt, altErr := time.Parse(time.RFC1123Z, string(text)); altErr == nil {
					return alt, nil
				}
				return ts, jsonerr.New(jsonerr.InvalidCalendarValue, base, "%v", err)
			}
			return ts, nil
		}
	case c.cfg.DateFormat == MillisecondsSinceUnixEpoch:
		parse = func(cur *reader.Cursor) (time.Time, error) {
			v, err := cur.ReadInt64()
			if err != nil {
				return time.Time{}, err
			}
			return time.UnixMilli(v).UTC(), nil
		}
	case c.cfg.DateFormat == SecondsSinceUnixEpoch:
		parse = func(cur *reader.Cursor) (time.Time, error) {
			v, err := cur.ReadInt64()
			if err != nil {
				return time.Time{}, err
			}
			return time.Unix(v, 0).UTC(), nil
		}
	case c.cfg.DateFormat == MicrosoftMilliseconds:
		parse = func(cur *reader.Cursor) (time.Time, error) {
			text, base, err := timeText(cur)
			if err != nil {
				return time.Time{}, err
			}
			ts, err := ParseMicrosoftDate(text)
			return ts, relocate(err, base)
		}
	default:
		parse = func(cur *reader.Cursor) (time.Time, error) {
			text, base, err := timeText(cur)
			if err != nil {
				return time.Time{}, err
			}
			ts, err := iso8601.ParseDateTime(text)
			return ts, relocate(err, base)
		}
	}
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		ts, err := parse(cur)
		if err == nil {
			*xunsafe.AsTimePtr(ptr) = ts
		}
		return err
	}
}

func (c *compiler) durationRoutine() Func {
	var parse func(cur *reader.Cursor) (time.Duration, error)
	switch c.cfg.DateFormat {
	case MillisecondsSinceUnixEpoch, SecondsSinceUnixEpoch:
		unit := time.Millisecond
		if c.cfg.DateFormat == SecondsSinceUnixEpoch {
			unit = time.Second
		}
		parse = func(cur *reader.Cursor) (time.Duration, error) {
			start := cur.Pos
			v, err := cur.ReadInt64()
			if err != nil {
				return 0, err
			}
			if v > math.MaxInt64/int64(unit) || v < math.MinInt64/int64(unit) {
				return 0, jsonerr.New(jsonerr.NumberOverflow, start, "duration out of range")
			}
			return time.Duration(v) * unit, nil
		}
	case RFC1123, MicrosoftMilliseconds:
		parse = func(cur *reader.Cursor) (time.Duration, error) {
			text, base, err := timeText(cur)
			if err != nil {
				return 0, err
			}
			d, err := ParseTimeSpan(text)
			return d, relocate(err, base)
		}
	default:
		parse = func(cur *reader.Cursor) (time.Duration, error) {
			text, base, err := timeText(cur)
			if err != nil {
				return 0, err
			}
			d, err := iso8601.ParseDuration(text)
			return d, relocate(err, base)
		}
	}
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		d, err := parse(cur)
		if err == nil {
			*(*time.Duration)(ptr) = d
		}
		return err
	}
}

// ParseMicrosoftDate parses "/Date(ms)/" or "/Date(ms+hhmm)/". An offset
// places the instant in a fixed zone, otherwise the result is UTC.
func ParseMicrosoftDate(text []byte) (time.Time, error) {
	if !bytes.HasPrefix(text, msDatePrefix) || !bytes.HasSuffix(text, msDateSuffix) || len(text) < len(msDatePrefix)+len(msDateSuffix)+1 {
		return time.Time{}, jsonerr.New(jsonerr.ExpectedCharacter, 0, "expected /Date(ms)/")
	}
	body := text[len(msDatePrefix) : len(text)-len(msDateSuffix)]
	pos := 0
	neg := false
	if body[0] == '-' {
		neg = true
		pos++
	}
	digits := pos
	var ms int64
	for pos < len(body) && body[pos] >= '0' && body[pos] <= '9' {
		if ms > (math.MaxInt64-9)/10 {
			return time.Time{}, jsonerr.New(jsonerr.InvalidCalendarValue, -1, "milliseconds out of range")
		}
		ms = ms*10 + int64(body[pos]-'0')
		pos++
	}
	if pos == digits {
		return time.Time{}, jsonerr.New(jsonerr.ExpectedCharacter, len(msDatePrefix)+pos, "expected digit")
	}
	if neg {
		ms = -ms
	}
	ts := time.UnixMilli(ms).UTC()
	if pos == len(body) {
		return ts, nil
	}
	sign := body[pos]
	if (sign != '+' && sign != '-') || len(body)-pos != 5 {
		return time.Time{}, jsonerr.New(jsonerr.ExpectedCharacter, len(msDatePrefix)+pos, "expected offset +hhmm")
	}
	var parts [4]int
	for i := range parts {
		b := body[pos+1+i]
		if b < '0' || b > '9' {
			return time.Time{}, jsonerr.New(jsonerr.ExpectedCharacter, len(msDatePrefix)+pos+1+i, "expected digit")
		}
		parts[i] = int(b - '0')
	}
	hours, minutes := parts[0]*10+parts[1], parts[2]*10+parts[3]
	if hours > 23 || minutes > 59 {
		return time.Time{}, jsonerr.New(jsonerr.InvalidCalendarValue, -1, "offset %02d:%02d out of range", hours, minutes)
	}
	offset := hours*3600 + minutes*60
	if sign == '-' {
		offset = -offset
	}
	return ts.In(time.FixedZone("", offset)), nil
}

// ParseTimeSpan parses the constant time span form [-][d.]hh:mm:ss[.fffffff].
func ParseTimeSpan(text []byte) (time.Duration, error) {
	pos := 0
	neg := false
	if pos < len(text) && text[pos] == '-' {
		neg = true
		pos++
	}
	number := func() (int64, int, error) {
		start := pos
		var v int64
		for pos < len(text) && text[pos] >= '0' && text[pos] <= '9' {
			if pos-start >= 10 {
				return 0, 0, jsonerr.New(jsonerr.InvalidCalendarValue, -1, "time span component too large")
			}
			v = v*10 + int64(text[pos]-'0')
			pos++
		}
		if pos == start {
			if pos >= len(text) {
				return 0, 0, jsonerr.New(jsonerr.UnexpectedEndOfInput, pos, "expected digit")
			}
			return 0, 0, jsonerr.New(jsonerr.ExpectedCharacter, pos, "expected digit")
		}
		return v, pos - start, nil
	}
	expect := func(b byte) error {
		if pos >= len(text) {
			return jsonerr.New(jsonerr.UnexpectedEndOfInput, pos, "expected '%c'", b)
		}
		if text[pos] != b {
			return jsonerr.New(jsonerr.ExpectedCharacter, pos, "expected '%c'", b)
		}
		pos++
		return nil
	}
	first, _, err := number()
	if err != nil {
		return 0, err
	}
	var days, hours int64
	if pos < len(text) && text[pos] == '.' {
		pos++
		days = first
		if hours, _, err = number(); err != nil {
			return 0, err
		}
	} else {
		hours = first
	}
	if err = expect(':'); err != nil {
		return 0, err
	}
	minutes, width, err := number()
	if err != nil {
		return 0, err
	}
	if width != 2 {
		return 0, jsonerr.New(jsonerr.ExpectedCharacter, pos, "minutes require two digits")
	}
	if err = expect(':'); err != nil {
		return 0, err
	}
	seconds, width, err := number()
	if err != nil {
		return 0, err
	}
	if width != 2 {
		return 0, jsonerr.New(jsonerr.ExpectedCharacter, pos, "seconds require two digits")
	}
	var nanos int64
	if pos < len(text) && text[pos] == '.' {
		pos++
		start := pos
		scale := int64(100000000)
		for pos < len(text) && text[pos] >= '0' && text[pos] <= '9' {
			if pos-start >= 7 {
				return 0, jsonerr.New(jsonerr.ExpectedCharacter, pos, "at most 7 fraction digits")
			}
			nanos += int64(text[pos]-'0') * scale
			scale /= 10
			pos++
		}
		if pos == start {
			return 0, jsonerr.New(jsonerr.ExpectedCharacter, pos, "expected fraction digit")
		}
	}
	if pos != len(text) {
		return 0, jsonerr.New(jsonerr.ExpectedCharacter, pos, "unexpected '%c'", text[pos])
	}
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, jsonerr.New(jsonerr.InvalidCalendarValue, -1, "time span %02d:%02d:%02d out of range", hours, minutes, seconds)
	}
	if days > int64(math.MaxInt64/time.Hour/24)-1 {
		return 0, jsonerr.New(jsonerr.InvalidCalendarValue, -1, "time span out of range")
	}
	total := time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second + time.Duration(nanos)
	if neg {
		total = -total
	}
	return total, nil
}
