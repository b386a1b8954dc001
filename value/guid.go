// Package value defines fixed-size value types decoded natively by the engine
// that the Go standard library does not provide.
package value

import "errors"

// ErrGUIDSyntax reports text that is not a 36 character canonical GUID.
var ErrGUIDSyntax = errors.New("invalid GUID")

// GUID is a 16 byte identifier stored in the mixed-endian layout of its canonical
// text form: the first three groups are little endian, the last two big endian.
type GUID [16]byte

// guidTextOrder maps the n-th hex byte pair of the canonical text to its byte index.
var guidTextOrder = [16]int{3, 2, 1, 0, 5, 4, 7, 6, 8, 9, 10, 11, 12, 13, 14, 15}

// guidPairOffsets holds the text offset of each hex byte pair.
var guidPairOffsets = [16]int{0, 2, 4, 6, 9, 11, 14, 16, 19, 21, 24, 26, 28, 30, 32, 34}

const hexDigits = "0123456789abcdef"

// DecodeGUID decodes xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx, hex digits case-insensitive.
func DecodeGUID(text []byte) (GUID, bool) {
	var ret GUID
	if len(text) != 36 || text[8] != '-' || text[13] != '-' || text[18] != '-' || text[23] != '-' {
		return ret, false
	}
	for i, offset := range guidPairOffsets {
		hi, ok1 := fromHex(text[offset])
		lo, ok2 := fromHex(text[offset+1])
		if !ok1 || !ok2 {
			return ret, false
		}
		ret[guidTextOrder[i]] = hi<<4 | lo
	}
	return ret, true
}

// ParseGUID parses the canonical text form.
func ParseGUID(s string) (GUID, error) {
	g, ok := DecodeGUID([]byte(s))
	if !ok {
		return g, ErrGUIDSyntax
	}
	return g, nil
}

// MustParseGUID parses s or panics.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// String returns the lower-case canonical text form.
func (g GUID) String() string {
	out := make([]byte, 36)
	out[8], out[13], out[18], out[23] = '-', '-', '-', '-'
	for i, offset := range guidPairOffsets {
		b := g[guidTextOrder[i]]
		out[offset] = hexDigits[b>>4]
		out[offset+1] = hexDigits[b&0x0f]
	}
	return string(out)
}

// IsZero returns true for the all-zero GUID.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
