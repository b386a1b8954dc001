package typedjson

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typedjson/unmarshal"
	"gopkg.in/yaml.v3"
)

// Config is the file form of Options.
type Config struct {
	Mode             string `yaml:"mode,omitempty"`
	DateFormat       string `yaml:"dateFormat,omitempty"`
	CaseFormat       string `yaml:"caseFormat,omitempty"`
	MaxDepth         int    `yaml:"maxDepth,omitempty"`
	UnknownMembers   string `yaml:"unknownMembers,omitempty"`
	DuplicateMembers string `yaml:"duplicateMembers,omitempty"`
	Nulls            string `yaml:"nulls,omitempty"`
	Enums            string `yaml:"enums,omitempty"`
	NameMatching     string `yaml:"nameMatching,omitempty"`
	IgnoreCase       bool   `yaml:"ignoreCase,omitempty"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %v: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML config; unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	ret := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(ret); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := ret.Options(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Options converts c into options; empty fields keep defaults.
func (c *Config) Options() ([]Option, error) {
	var ret []Option
	if c.Mode != "" {
		switch strings.ToLower(c.Mode) {
		case "compat":
			ret = append(ret, WithMode(ModeCompat))
		case "strict":
			ret = append(ret, WithMode(ModeStrict))
		default:
			return nil, fmt.Errorf("invalid mode: %q", c.Mode)
		}
	}
	if c.DateFormat != "" {
		format, ok := unmarshal.ParseDateFormat(c.DateFormat)
		if !ok {
			return nil, fmt.Errorf("invalid dateFormat: %q", c.DateFormat)
		}
		ret = append(ret, WithDateFormat(format))
	}
	if c.CaseFormat != "" {
		caseFormat := text.NewCaseFormat(c.CaseFormat)
		if !caseFormat.IsDefined() {
			return nil, fmt.Errorf("invalid caseFormat: %q", c.CaseFormat)
		}
		ret = append(ret, WithCaseFormat(caseFormat))
	}
	if c.MaxDepth < 0 {
		return nil, fmt.Errorf("invalid maxDepth: %d", c.MaxDepth)
	}
	if c.MaxDepth > 0 {
		ret = append(ret, WithMaxDepth(c.MaxDepth))
	}
	if c.UnknownMembers != "" {
		switch strings.ToLower(c.UnknownMembers) {
		case "ignore":
			ret = append(ret, WithUnknownMemberPolicy(IgnoreUnknown))
		case "error":
			ret = append(ret, WithUnknownMemberPolicy(ErrorOnUnknown))
		default:
			return nil, fmt.Errorf("invalid unknownMembers: %q", c.UnknownMembers)
		}
	}
	if c.DuplicateMembers != "" {
		switch strings.ToLower(c.DuplicateMembers) {
		case "lastwins":
			ret = append(ret, WithDuplicateMemberPolicy(LastWins))
		case "error":
			ret = append(ret, WithDuplicateMemberPolicy(ErrorOnDuplicate))
		default:
			return nil, fmt.Errorf("invalid duplicateMembers: %q", c.DuplicateMembers)
		}
	}
	if c.Nulls != "" {
		switch strings.ToLower(c.Nulls) {
		case "compat":
			ret = append(ret, WithNullPolicy(CompatNulls))
		case "strict":
			ret = append(ret, WithNullPolicy(StrictNulls))
		default:
			return nil, fmt.Errorf("invalid nulls: %q", c.Nulls)
		}
	}
	if c.Enums != "" {
		switch strings.ToLower(c.Enums) {
		case "default":
			ret = append(ret, WithEnumPolicy(UseEnumDefault))
		case "fail":
			ret = append(ret, WithEnumPolicy(FailOnUnknownEnum))
		default:
			return nil, fmt.Errorf("invalid enums: %q", c.Enums)
		}
	}
	if c.NameMatching != "" {
		switch strings.ToLower(c.NameMatching) {
		case "auto":
			ret = append(ret, WithNameMatching(MatchAuto))
		case "trie":
			ret = append(ret, WithNameMatching(MatchTrie))
		case "hash":
			ret = append(ret, WithNameMatching(MatchHash))
		default:
			return nil, fmt.Errorf("invalid nameMatching: %q", c.NameMatching)
		}
	}
	if c.IgnoreCase {
		ret = append(ret, WithIgnoreCase(true))
	}
	return ret, nil
}

// WithConfig applies c; an invalid config fails every decode using it.
func WithConfig(c *Config) Option {
	return optionFn(func(o *Options) {
		if c == nil {
			return
		}
		opts, err := c.Options()
		if err != nil {
			o.err = err
			return
		}
		for _, opt := range opts {
			opt.apply(o)
		}
	})
}
