package typedjson

import (
	"log/slog"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typedjson/automaton"
	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/unmarshal"
)

// Mode controls compatibility vs strict behavior.
type Mode int

const (
	ModeCompat Mode = iota
	ModeStrict
)

// DateFormat selects how time.Time and time.Duration values are encoded.
type DateFormat = unmarshal.DateFormat

const (
	ISO8601                    = unmarshal.ISO8601
	RFC1123                    = unmarshal.RFC1123
	MillisecondsSinceUnixEpoch = unmarshal.MillisecondsSinceUnixEpoch
	SecondsSinceUnixEpoch      = unmarshal.SecondsSinceUnixEpoch
	MicrosoftMilliseconds      = unmarshal.MicrosoftMilliseconds
)

// UnknownFieldPolicy controls unknown member handling.
type UnknownFieldPolicy = unmarshal.UnknownFieldPolicy

const (
	IgnoreUnknown  = unmarshal.IgnoreUnknown
	ErrorOnUnknown = unmarshal.ErrorOnUnknown
)

// NullPolicy controls null assignment to non nullable values.
type NullPolicy = unmarshal.NullPolicy

const (
	CompatNulls = unmarshal.CompatNulls
	StrictNulls = unmarshal.StrictNulls
)

// DuplicateKeyPolicy controls duplicate member handling.
type DuplicateKeyPolicy = unmarshal.DuplicateKeyPolicy

const (
	LastWins         = unmarshal.LastWins
	ErrorOnDuplicate = unmarshal.ErrorOnDuplicate
)

// EnumPolicy controls unrecognized enum names.
type EnumPolicy = unmarshal.EnumPolicy

const (
	UseEnumDefault    = unmarshal.UseEnumDefault
	FailOnUnknownEnum = unmarshal.FailOnUnknownEnum
)

// NameMatching selects the member name automaton.
type NameMatching = automaton.Strategy

const (
	MatchAuto = automaton.Auto
	MatchTrie = automaton.TrieOnly
	MatchHash = automaton.HashOnly
)

// Option mutates decoding options.
type Option interface{ apply(*Options) }

// Options defines decoding behavior.
type Options struct {
	Mode               Mode
	DateFormat         DateFormat
	CaseFormat         text.CaseFormat
	MaxDepth           int
	EnumPolicy         EnumPolicy
	UnknownFieldPolicy UnknownFieldPolicy
	NullPolicy         NullPolicy
	DuplicateKeyPolicy DuplicateKeyPolicy
	NameMatching       NameMatching
	IgnoreCase         bool
	Registry           *introspect.Registry
	Logger             *slog.Logger

	setUnknownFieldPolicy bool
	setNullPolicy         bool
	setDuplicateKeyPolicy bool
	setEnumPolicy         bool
	setCaseFormat         bool
	err                   error
}
