// Package directive parses the jsonc member tag, e.g.
//
//	Level Level `jsonc:"enumAs=int16,default=Info"`
//	When  time.Time `jsonc:"name=when,timeLayout='2006-01-02 15:04'"`
//
// Values containing ',' are quoted with ' or wrapped in {}.
package directive

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/parsly"
)

// TagName is the struct tag key holding directives.
const TagName = "jsonc"

// Directive holds member level decoding instructions.
type Directive struct {
	// Name overrides the member name.
	Name string
	// EnumAs decodes an enum from a JSON integer of this kind instead of a name.
	EnumAs reflect.Kind
	// Default names the enum constant used for unrecognized values.
	Default string
	// TimeLayout decodes time.Time with time.Parse and this layout.
	TimeLayout string
}

// IsEmpty returns true when no directive is set.
func (d *Directive) IsEmpty() bool {
	return d == nil || (d.Name == "" && d.EnumAs == reflect.Invalid && d.Default == "" && d.TimeLayout == "")
}

var integerKinds = map[string]reflect.Kind{
	"int":    reflect.Int,
	"int8":   reflect.Int8,
	"sbyte":  reflect.Int8,
	"int16":  reflect.Int16,
	"int32":  reflect.Int32,
	"int64":  reflect.Int64,
	"uint":   reflect.Uint,
	"uint8":  reflect.Uint8,
	"byte":   reflect.Uint8,
	"uint16": reflect.Uint16,
	"uint32": reflect.Uint32,
	"uint64": reflect.Uint64,
}

// IntegerKind resolves an integer kind name such as int16 or uint8.
func IntegerKind(name string) (reflect.Kind, bool) {
	kind, ok := integerKinds[strings.ToLower(name)]
	return kind, ok
}

// Parse parses a jsonc tag value.
func Parse(tag string) (*Directive, error) {
	ret := &Directive{}
	if strings.TrimSpace(tag) == "" {
		return ret, nil
	}
	cursor := parsly.NewCursor("", []byte(tag), 0)
	for cursor.Pos < len(cursor.Input) {
		key, value := matchPair(cursor)
		if key == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "name":
			ret.Name = value
		case "enumas":
			switch strings.ToLower(value) {
			case "", "name", "string":
				ret.EnumAs = reflect.Invalid
			default:
				kind, ok := IntegerKind(value)
				if !ok {
					return nil, fmt.Errorf("unsupported enumAs kind: %q", value)
				}
				ret.EnumAs = kind
			}
		case "default":
			ret.Default = value
		case "timelayout":
			ret.TimeLayout = value
		default:
			return nil, fmt.Errorf("unsupported directive: %q", key)
		}
	}
	return ret, nil
}

// ParseTag parses the jsonc key of a struct tag.
func ParseTag(tag reflect.StructTag) (*Directive, error) {
	return Parse(tag.Get(TagName))
}

func matchPair(cursor *parsly.Cursor) (string, string) {
	rest := cursor.Input[cursor.Pos:]
	eqIndex := bytes.IndexByte(rest, '=')
	commaIndex := bytes.IndexByte(rest, ',')
	if eqIndex == -1 || (commaIndex != -1 && commaIndex < eqIndex) {
		return matchValue(cursor), ""
	}
	match := cursor.MatchAny(eqTerminatorMatcher)
	if match.Code != eqTerminatorToken {
		cursor.Pos = len(cursor.Input)
		return "", ""
	}
	key := match.Text(cursor)
	key = strings.TrimSpace(key[:len(key)-1]) //exclude =
	return key, matchValue(cursor)
}

func matchValue(cursor *parsly.Cursor) string {
	match := cursor.MatchAfterOptional(whitespaceMatcher, scopeBlockMatcher, quotedMatcher, commaTerminatorMatcher)
	switch match.Code {
	case scopeBlockToken:
		value := trimEnclosing(match.Text(cursor), '{', '}')
		cursor.MatchAfterOptional(whitespaceMatcher, commaTerminatorMatcher)
		return value
	case quotedToken:
		value := trimEnclosing(match.Text(cursor), '\'', '\'')
		cursor.MatchAfterOptional(whitespaceMatcher, commaTerminatorMatcher)
		return value
	case commaTerminatorToken:
		value := match.Text(cursor)
		return strings.TrimSpace(value[:len(value)-1]) //exclude ,
	}
	value := ""
	if cursor.Pos < len(cursor.Input) {
		value = string(cursor.Input[cursor.Pos:])
		cursor.Pos = len(cursor.Input)
	}
	return strings.TrimSpace(value)
}

func trimEnclosing(text string, open, close byte) string {
	if len(text) >= 2 && text[0] == open && text[len(text)-1] == close {
		return text[1 : len(text)-1]
	}
	return text
}
