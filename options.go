package typedjson

import (
	"log/slog"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/unmarshal"
)

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

// WithMode sets compat or strict defaults for policies not set explicitly.
func WithMode(mode Mode) Option {
	return optionFn(func(o *Options) { o.Mode = mode })
}

func WithDateFormat(format DateFormat) Option {
	return optionFn(func(o *Options) { o.DateFormat = format })
}

// WithCaseFormat transforms declared member names into caseFormat; explicit
// json tag names are kept.
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return optionFn(func(o *Options) {
		o.CaseFormat = caseFormat
		o.setCaseFormat = true
	})
}

func WithCamelCase() Option {
	return WithCaseFormat(text.CaseFormatLowerCamel)
}

func WithMaxDepth(depth int) Option {
	return optionFn(func(o *Options) { o.MaxDepth = depth })
}

func WithEnumPolicy(policy EnumPolicy) Option {
	return optionFn(func(o *Options) {
		o.EnumPolicy = policy
		o.setEnumPolicy = true
	})
}

func WithUnknownMemberPolicy(policy UnknownFieldPolicy) Option {
	return optionFn(func(o *Options) {
		o.UnknownFieldPolicy = policy
		o.setUnknownFieldPolicy = true
	})
}

func WithDuplicateMemberPolicy(policy DuplicateKeyPolicy) Option {
	return optionFn(func(o *Options) {
		o.DuplicateKeyPolicy = policy
		o.setDuplicateKeyPolicy = true
	})
}

func WithNullPolicy(policy NullPolicy) Option {
	return optionFn(func(o *Options) {
		o.NullPolicy = policy
		o.setNullPolicy = true
	})
}

func WithNameMatching(matching NameMatching) Option {
	return optionFn(func(o *Options) { o.NameMatching = matching })
}

func WithIgnoreCase(enabled bool) Option {
	return optionFn(func(o *Options) { o.IgnoreCase = enabled })
}

// WithRegistry uses registry instead of the process wide one.
func WithRegistry(registry *introspect.Registry) Option {
	return optionFn(func(o *Options) { o.Registry = registry })
}

func WithLogger(logger *slog.Logger) Option {
	return optionFn(func(o *Options) { o.Logger = logger })
}

func defaultOptions() Options {
	return Options{
		Mode:               ModeCompat,
		DateFormat:         ISO8601,
		CaseFormat:         text.CaseFormatUndefined,
		MaxDepth:           unmarshal.DefaultMaxDepth,
		EnumPolicy:         UseEnumDefault,
		UnknownFieldPolicy: IgnoreUnknown,
		NullPolicy:         CompatNulls,
		DuplicateKeyPolicy: LastWins,
		NameMatching:       MatchAuto,
	}
}

func resolveOptions(opts []Option) Options {
	result := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&result)
	}
	if result.Mode == ModeStrict {
		if !result.setUnknownFieldPolicy {
			result.UnknownFieldPolicy = ErrorOnUnknown
		}
		if !result.setNullPolicy {
			result.NullPolicy = StrictNulls
		}
		if !result.setDuplicateKeyPolicy {
			result.DuplicateKeyPolicy = ErrorOnDuplicate
		}
		if !result.setEnumPolicy {
			result.EnumPolicy = FailOnUnknownEnum
		}
	}
	return result
}

func (o *Options) config() unmarshal.Config {
	cfg := unmarshal.Config{
		DateFormat: o.DateFormat,
		MaxDepth:   o.MaxDepth,
		Enums:      o.EnumPolicy,
		Unknown:    o.UnknownFieldPolicy,
		Nulls:      o.NullPolicy,
		Duplicates: o.DuplicateKeyPolicy,
		Matching:   o.NameMatching,
		IgnoreCase: o.IgnoreCase,
		Registry:   o.Registry,
		Logger:     o.Logger,
	}
	if o.setCaseFormat && o.CaseFormat.IsDefined() {
		transformer := newCaseFormatTransformer(o.CaseFormat)
		cfg.CaseKey = string(o.CaseFormat)
		cfg.NameFormat = transformer.Transform
	}
	return cfg
}
