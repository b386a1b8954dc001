// Package jsonerr defines the failure taxonomy shared by readers, automata,
// the type introspector and compiled routines.
package jsonerr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a failure category.
type Kind int

const (
	// UnexpectedEndOfInput reports an input exhausted mid-token.
	UnexpectedEndOfInput Kind = iota + 1
	// MalformedNumber reports a numeric literal violating JSON number grammar.
	MalformedNumber
	// NumberOverflow reports a numeric literal out of the target range.
	NumberOverflow
	// InvalidEscape reports an unknown \X sequence or malformed \uXXXX.
	InvalidEscape
	// ExpectedCharacter reports a missing structural character.
	ExpectedCharacter
	// ExpectedToken reports a missing literal such as true, false or null.
	ExpectedToken
	// UnrecognizedEnumValue reports a token matching no enum constant.
	UnrecognizedEnumValue
	// InvalidCalendarValue reports an out of range date, time or duration component.
	InvalidCalendarValue
	// RecursionLimitExceeded reports nesting deeper than the configured maximum.
	RecursionLimitExceeded
	// AmbiguousConstructorMapping reports constructor parameters that cannot be mapped to members.
	AmbiguousConstructorMapping
	// UnsupportedKeyType reports a map whose key is not string kind.
	UnsupportedKeyType
	// UnsupportedShape reports a type that cannot be compiled into a routine.
	UnsupportedShape
	// TrailingData reports non-whitespace content after the top-level value.
	TrailingData
	// UnknownMember reports an unrecognized object key under ErrorOnUnknown policy.
	UnknownMember
	// DuplicateMember reports a repeated object key under ErrorOnDuplicate policy.
	DuplicateMember
	// NilDestination reports a nil or non-pointer destination.
	NilDestination
	// ConstructorFailed reports an error returned by a registered constructor.
	ConstructorFailed
)

var kindNames = map[Kind]string{
	UnexpectedEndOfInput:        "UnexpectedEndOfInput",
	MalformedNumber:             "MalformedNumber",
	NumberOverflow:              "NumberOverflow",
	InvalidEscape:               "InvalidEscape",
	ExpectedCharacter:           "ExpectedCharacter",
	ExpectedToken:               "ExpectedToken",
	UnrecognizedEnumValue:       "UnrecognizedEnumValue",
	InvalidCalendarValue:        "InvalidCalendarValue",
	RecursionLimitExceeded:      "RecursionLimitExceeded",
	AmbiguousConstructorMapping: "AmbiguousConstructorMapping",
	UnsupportedKeyType:          "UnsupportedKeyType",
	UnsupportedShape:            "UnsupportedShape",
	TrailingData:                "TrailingData",
	UnknownMember:               "UnknownMember",
	DuplicateMember:             "DuplicateMember",
	NilDestination:              "NilDestination",
	ConstructorFailed:           "ConstructorFailed",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsBuild returns true for kinds raised while compiling a routine rather than parsing.
func (k Kind) IsBuild() bool {
	switch k {
	case AmbiguousConstructorMapping, UnsupportedKeyType, UnsupportedShape:
		return true
	}
	return false
}

// Error carries the failure kind, a message and the input offset (-1 when unknown).
type Error struct {
	Kind    Kind
	Message string
	Offset  int
	Type    string
	Cause   error
}

// Error returns the error string.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Type != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Type)
		sb.WriteString(")")
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Offset >= 0 {
		sb.WriteString(" at offset ")
		sb.WriteString(strconv.Itoa(e.Offset))
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error with the same kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error at offset.
func New(kind Kind, offset int, format string, args ...interface{}) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg, Offset: offset}
}

// Wrap creates an error at offset caused by cause.
func Wrap(kind Kind, offset int, cause error, format string, args ...interface{}) *Error {
	ret := New(kind, offset, format, args...)
	ret.Cause = cause
	return ret
}

// Build creates a build-time error for the named type.
func Build(kind Kind, typeName string, format string, args ...interface{}) *Error {
	ret := New(kind, -1, format, args...)
	ret.Type = typeName
	return ret
}

// KindOf returns the kind of err or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is returns true if err is an *Error of kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
