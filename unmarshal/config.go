// Package unmarshal compiles decoding routines from introspected type graphs
// and caches them per type and configuration.
package unmarshal

import (
	"log/slog"
	"unsafe"

	"github.com/viant/typedjson/automaton"
	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/reader"
)

// Func decodes one JSON value at the cursor into the value at ptr. depth is
// the nesting level of the containers enclosing the value.
type Func func(c *reader.Cursor, ptr unsafe.Pointer, depth int) error

// DefaultMaxDepth is the nesting limit used when Config.MaxDepth is not set.
const DefaultMaxDepth = 1000

type DateFormat int

const (
	ISO8601 DateFormat = iota
	RFC1123
	MillisecondsSinceUnixEpoch
	SecondsSinceUnixEpoch
	// MicrosoftMilliseconds is the "\/Date(ms[+-hhmm])\/" string form.
	MicrosoftMilliseconds
)

var dateFormatNames = [...]string{"ISO8601", "RFC1123", "MillisecondsSinceUnixEpoch", "SecondsSinceUnixEpoch", "MicrosoftMilliseconds"}

func (f DateFormat) String() string {
	if int(f) < len(dateFormatNames) {
		return dateFormatNames[f]
	}
	return "unknown"
}

// ParseDateFormat returns the date format named name.
func ParseDateFormat(name string) (DateFormat, bool) {
	for i, candidate := range dateFormatNames {
		if candidate == name {
			return DateFormat(i), true
		}
	}
	return ISO8601, false
}

type EnumPolicy int

const (
	// UseEnumDefault decodes unrecognized names to the enum default when one is configured.
	UseEnumDefault EnumPolicy = iota
	FailOnUnknownEnum
)

type UnknownFieldPolicy int

const (
	IgnoreUnknown UnknownFieldPolicy = iota
	ErrorOnUnknown
)

type NullPolicy int

const (
	// CompatNulls leaves non nullable destinations unchanged on null.
	CompatNulls NullPolicy = iota
	StrictNulls
)

type DuplicateKeyPolicy int

const (
	LastWins DuplicateKeyPolicy = iota
	ErrorOnDuplicate
)

// Config controls compilation; every field but NameFormat and Logger is part
// of the cache key. CaseKey must identify NameFormat.
type Config struct {
	DateFormat DateFormat
	CaseKey    string
	NameFormat func(name string) string
	MaxDepth   int
	Enums      EnumPolicy
	Unknown    UnknownFieldPolicy
	Nulls      NullPolicy
	Duplicates DuplicateKeyPolicy
	Matching   automaton.Strategy
	// IgnoreCase matches member names case insensitively.
	IgnoreCase bool
	Registry   *introspect.Registry
	Logger     *slog.Logger
}

type configKey struct {
	dateFormat DateFormat
	caseKey    string
	maxDepth   int
	enums      EnumPolicy
	unknown    UnknownFieldPolicy
	nulls      NullPolicy
	duplicates DuplicateKeyPolicy
	matching   automaton.Strategy
	ignoreCase bool
	registry   *introspect.Registry
}

func (c *Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c *Config) registry() *introspect.Registry {
	if c.Registry == nil {
		return introspect.Default
	}
	return c.Registry
}

func (c *Config) key() configKey {
	return configKey{
		dateFormat: c.DateFormat,
		caseKey:    c.CaseKey,
		maxDepth:   c.maxDepth(),
		enums:      c.Enums,
		unknown:    c.Unknown,
		nulls:      c.Nulls,
		duplicates: c.Duplicates,
		matching:   c.Matching,
		ignoreCase: c.IgnoreCase,
		registry:   c.registry(),
	}
}
